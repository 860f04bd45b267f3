package stream_cache_service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dpetros/streamcache/internal/kv_service"
	"github.com/dpetros/streamcache/internal/log_service"
)

const (
	MetadataKeyPrefix = "meta:"
	ChunkKeyPrefix    = "chunk:"

	// DefaultChunkSize bounds the size of a single store operation.
	DefaultChunkSize = 10 * 1024 * 1024

	timestampFormat = "2006-01-02 15:04:05"
)

// DefaultStreamCacheService drives sequential chunk I/O against a KVService.
// One chunk is in flight at a time, so peak memory per call is bounded by
// one chunk buffer and progress events arrive in deterministic index order.
//
// Store is not transactional: a failure partway leaves metadata that claims
// more chunks than exist. Concurrent stores on the same key are not
// coordinated; callers needing single-writer semantics must serialize
// externally.
type DefaultStreamCacheService struct {
	kv        kv_service.KVService
	ls        log_service.LogService
	chunkSize int
}

func NewDefaultStreamCacheService(kv kv_service.KVService, ls log_service.LogService, chunkSize int) *DefaultStreamCacheService {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &DefaultStreamCacheService{
		kv:        kv,
		ls:        ls,
		chunkSize: chunkSize,
	}
}

func MetadataKey(key string) string {
	return MetadataKeyPrefix + key
}

func ChunkKey(key string, chunkIndex int) string {
	return fmt.Sprintf("%s%s:%d", ChunkKeyPrefix, key, chunkIndex)
}

func (s *DefaultStreamCacheService) emit(progress ProgressCallback, event StreamProgress) {
	if progress != nil {
		progress(event)
	}
}

func (s *DefaultStreamCacheService) StoreData(key string, data []byte, progress ProgressCallback) error {
	if key == "" {
		return ErrEmptyKey
	}

	timestamp := time.Now().Format(timestampFormat)
	totalSize := len(data)
	chunkSize := s.chunkSize
	totalChunks := (totalSize + chunkSize - 1) / chunkSize

	s.ls.Info(log_service.LogEvent{
		Message:  "Starting chunked upload",
		Metadata: map[string]any{"key": key, "totalSize": totalSize, "chunks": totalChunks},
	})

	// Metadata is written ahead of the chunks so readers never see chunks
	// without a describing record.
	metadata := CacheMetadata{
		OriginalKey: key,
		Timestamp:   timestamp,
		TotalSize:   totalSize,
		TotalChunks: totalChunks,
		ChunkSize:   chunkSize,
	}
	if err := s.putRecord(MetadataKey(key), metadata); err != nil {
		s.ls.Error(log_service.LogEvent{
			Message:  "Failed to store metadata",
			Metadata: map[string]any{"key": key, "error": err.Error()},
		})
		s.emit(progress, StreamProgress{Key: key, CurrentChunk: 0, TotalChunks: totalChunks, Message: "Failed to store metadata"})
		return ErrMetadataStoreFailed
	}

	for chunkIndex := 0; chunkIndex < totalChunks; chunkIndex++ {
		startOffset := chunkIndex * chunkSize
		endOffset := startOffset + chunkSize
		if endOffset > totalSize {
			endOffset = totalSize
		}

		chunk := CacheChunk{
			ChunkIndex: chunkIndex,
			Data:       data[startOffset:endOffset],
			Timestamp:  timestamp,
		}

		if err := s.putRecord(ChunkKey(key, chunkIndex), chunk); err != nil {
			s.ls.Error(log_service.LogEvent{
				Message:  "Failed to store chunk",
				Metadata: map[string]any{"key": key, "chunkIndex": chunkIndex, "error": err.Error()},
			})
			s.emit(progress, StreamProgress{
				Key:          key,
				CurrentChunk: chunkIndex,
				TotalChunks:  totalChunks,
				Message:      fmt.Sprintf("Failed to store chunk %d", chunkIndex),
			})
			return ErrChunkStoreFailed
		}

		percent := int(float64(chunkIndex+1) / float64(totalChunks) * 100)
		s.emit(progress, StreamProgress{
			Key:          key,
			CurrentChunk: chunkIndex + 1,
			TotalChunks:  totalChunks,
			Message:      fmt.Sprintf("Uploaded chunk %d/%d (%d%%)", chunkIndex+1, totalChunks, percent),
		})
	}

	s.ls.Info(log_service.LogEvent{
		Message:  "Stored all chunks",
		Metadata: map[string]any{"key": key, "chunks": totalChunks},
	})
	s.emit(progress, StreamProgress{Key: key, CurrentChunk: totalChunks, TotalChunks: totalChunks, Message: "Upload completed successfully"})

	return nil
}

func (s *DefaultStreamCacheService) ReadData(key string, progress ProgressCallback) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	s.ls.Info(log_service.LogEvent{
		Message:  "Starting chunked download",
		Metadata: map[string]any{"key": key},
	})

	var metadata CacheMetadata
	if err := s.getRecord(MetadataKey(key), &metadata); err != nil {
		if errors.Is(err, kv_service.ErrKeyNotFound) {
			s.ls.Warn(log_service.LogEvent{
				Message:  "Metadata not found",
				Metadata: map[string]any{"key": key},
			})
			s.emit(progress, StreamProgress{Key: key, Message: "Download failed: metadata not found"})
			return nil, ErrMetadataNotFound
		}
		s.ls.Error(log_service.LogEvent{
			Message:  "Failed to read metadata",
			Metadata: map[string]any{"key": key, "error": err.Error()},
		})
		s.emit(progress, StreamProgress{Key: key, Message: "Download failed: metadata read error"})
		return nil, ErrMetadataReadFailed
	}

	data := make([]byte, metadata.TotalSize)

	for chunkIndex := 0; chunkIndex < metadata.TotalChunks; chunkIndex++ {
		var chunk CacheChunk
		if err := s.getRecord(ChunkKey(key, chunkIndex), &chunk); err != nil {
			if errors.Is(err, kv_service.ErrKeyNotFound) {
				s.ls.Error(log_service.LogEvent{
					Message:  "Chunk missing from store",
					Metadata: map[string]any{"key": key, "chunkIndex": chunkIndex},
				})
				s.emit(progress, StreamProgress{
					Key:          key,
					CurrentChunk: chunkIndex,
					TotalChunks:  metadata.TotalChunks,
					Message:      fmt.Sprintf("Download failed: missing chunk %d", chunkIndex),
				})
				return nil, ErrChunkNotFound
			}
			s.ls.Error(log_service.LogEvent{
				Message:  "Failed to read chunk",
				Metadata: map[string]any{"key": key, "chunkIndex": chunkIndex, "error": err.Error()},
			})
			s.emit(progress, StreamProgress{
				Key:          key,
				CurrentChunk: chunkIndex,
				TotalChunks:  metadata.TotalChunks,
				Message:      fmt.Sprintf("Download failed: error reading chunk %d", chunkIndex),
			})
			return nil, ErrChunkReadFailed
		}

		// Offsets come from the chunk size recorded at write time, not the
		// service's current default.
		copy(data[chunkIndex*metadata.ChunkSize:], chunk.Data)

		percent := int(float64(chunkIndex+1) / float64(metadata.TotalChunks) * 100)
		s.emit(progress, StreamProgress{
			Key:          key,
			CurrentChunk: chunkIndex + 1,
			TotalChunks:  metadata.TotalChunks,
			Message:      fmt.Sprintf("Downloaded chunk %d/%d (%d%%)", chunkIndex+1, metadata.TotalChunks, percent),
		})
	}

	s.ls.Info(log_service.LogEvent{
		Message:  "Reconstructed data",
		Metadata: map[string]any{"key": key, "size": len(data), "chunks": metadata.TotalChunks},
	})
	s.emit(progress, StreamProgress{
		Key:          key,
		CurrentChunk: metadata.TotalChunks,
		TotalChunks:  metadata.TotalChunks,
		Message:      "Download completed successfully",
	})

	return data, nil
}

func (s *DefaultStreamCacheService) DeleteData(key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	var metadata CacheMetadata
	if err := s.getRecord(MetadataKey(key), &metadata); err != nil {
		if errors.Is(err, kv_service.ErrKeyNotFound) {
			s.ls.Warn(log_service.LogEvent{
				Message:  "No metadata found, nothing to delete",
				Metadata: map[string]any{"key": key},
			})
			return nil
		}
		s.ls.Error(log_service.LogEvent{
			Message:  "Failed to read metadata for delete",
			Metadata: map[string]any{"key": key, "error": err.Error()},
		})
		return ErrMetadataReadFailed
	}

	// Chunk removal is best-effort; a chunk that cannot be removed is
	// logged and skipped so the metadata record still comes off last.
	for chunkIndex := 0; chunkIndex < metadata.TotalChunks; chunkIndex++ {
		if err := s.kv.Remove(ChunkKey(key, chunkIndex)); err != nil {
			s.ls.Warn(log_service.LogEvent{
				Message:  "Failed to remove chunk",
				Metadata: map[string]any{"key": key, "chunkIndex": chunkIndex, "error": err.Error()},
			})
		}
	}

	if err := s.kv.Remove(MetadataKey(key)); err != nil {
		s.ls.Error(log_service.LogEvent{
			Message:  "Failed to remove metadata",
			Metadata: map[string]any{"key": key, "error": err.Error()},
		})
		return ErrMetadataDeleteFailed
	}

	s.ls.Info(log_service.LogEvent{
		Message:  "Removed chunks and metadata",
		Metadata: map[string]any{"key": key, "chunks": metadata.TotalChunks},
	})

	return nil
}

// GetMetadata reads the bookkeeping record for one logical entry without
// touching any chunk data.
func (s *DefaultStreamCacheService) GetMetadata(key string) (*CacheMetadata, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	var metadata CacheMetadata
	if err := s.getRecord(MetadataKey(key), &metadata); err != nil {
		if errors.Is(err, kv_service.ErrKeyNotFound) {
			return nil, ErrMetadataNotFound
		}
		return nil, ErrMetadataReadFailed
	}

	return &metadata, nil
}

func (s *DefaultStreamCacheService) putRecord(storeKey string, record any) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return ErrRecordEncodeFailed
	}
	return s.kv.Put(storeKey, encoded)
}

func (s *DefaultStreamCacheService) getRecord(storeKey string, record any) error {
	encoded, err := s.kv.Get(storeKey)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(encoded, record); err != nil {
		return ErrRecordDecodeFailed
	}
	return nil
}

var _ StreamCacheService = (*DefaultStreamCacheService)(nil)
