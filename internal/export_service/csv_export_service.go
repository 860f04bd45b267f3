package export_service

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"sort"
	"strconv"

	"github.com/dpetros/streamcache/internal/kv_service"
	"github.com/dpetros/streamcache/internal/log_service"
	"github.com/dpetros/streamcache/internal/stream_cache_service"
)

var exportHeader = []string{"key", "timestamp", "total_size", "total_chunks", "chunk_size"}

// CSVExportService dumps one row per logical cache entry. Records that no
// longer decode are skipped so a single corrupt entry cannot block the
// inventory.
type CSVExportService struct {
	kv kv_service.KVService
	ls log_service.LogService
}

func NewCSVExportService(kv kv_service.KVService, ls log_service.LogService) *CSVExportService {
	return &CSVExportService{
		kv: kv,
		ls: ls,
	}
}

func (es *CSVExportService) ExportMetadata(path string) (int, error) {
	keys, err := es.kv.ListKeys(stream_cache_service.MetadataKeyPrefix)
	if err != nil {
		es.ls.Error(log_service.LogEvent{
			Message:  "Failed to list metadata records",
			Metadata: map[string]any{"error": err.Error()},
		})
		return 0, ErrListFailed
	}
	sort.Strings(keys)

	file, err := os.Create(path)
	if err != nil {
		es.ls.Error(log_service.LogEvent{
			Message:  "Failed to create export file",
			Metadata: map[string]any{"path": path, "error": err.Error()},
		})
		return 0, ErrFileCreateFailed
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(exportHeader); err != nil {
		return 0, ErrWriteFailed
	}

	rows := 0
	for _, storeKey := range keys {
		encoded, err := es.kv.Get(storeKey)
		if err != nil {
			es.ls.Warn(log_service.LogEvent{
				Message:  "Metadata record disappeared during export",
				Metadata: map[string]any{"storeKey": storeKey},
			})
			continue
		}

		var metadata stream_cache_service.CacheMetadata
		if err := json.Unmarshal(encoded, &metadata); err != nil {
			es.ls.Warn(log_service.LogEvent{
				Message:  "Skipping undecodable metadata record",
				Metadata: map[string]any{"storeKey": storeKey, "error": err.Error()},
			})
			continue
		}

		record := []string{
			metadata.OriginalKey,
			metadata.Timestamp,
			strconv.Itoa(metadata.TotalSize),
			strconv.Itoa(metadata.TotalChunks),
			strconv.Itoa(metadata.ChunkSize),
		}
		if err := writer.Write(record); err != nil {
			return rows, ErrWriteFailed
		}
		rows++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return rows, ErrWriteFailed
	}

	es.ls.Info(log_service.LogEvent{
		Message:  "Exported metadata inventory",
		Metadata: map[string]any{"path": path, "rows": rows},
	})

	return rows, nil
}

var _ ExportService = (*CSVExportService)(nil)
