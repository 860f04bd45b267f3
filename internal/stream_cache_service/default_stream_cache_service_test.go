package stream_cache_service

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/dpetros/streamcache/internal/kv_service"
	"github.com/dpetros/streamcache/internal/log_service"
)

// failingKVService rejects Put calls for configured keys so store failures
// can be provoked deterministically.
type failingKVService struct {
	kv_service.KVService
	failPuts map[string]bool
}

func (kv *failingKVService) Put(key string, value []byte) error {
	if kv.failPuts[key] {
		return kv_service.ErrPutFailed
	}
	return kv.KVService.Put(key, value)
}

func newTestService(t *testing.T, chunkSize int) (*DefaultStreamCacheService, *kv_service.InMemoryKVService) {
	t.Helper()
	kv := kv_service.NewInMemoryKVService()
	ls := log_service.NewLocalDiscLogService(t.TempDir(), "test")
	return NewDefaultStreamCacheService(kv, ls, chunkSize), kv
}

func patternData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte('A' + i%26)
	}
	return data
}

func TestDefaultStreamCacheService_StoreData(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		data       []byte
		chunkSize  int
		wantChunks int
		wantErr    bool
	}{
		{
			name:       "empty payload writes only metadata",
			key:        "empty",
			data:       []byte{},
			chunkSize:  10,
			wantChunks: 0,
			wantErr:    false,
		},
		{
			name:       "payload smaller than one chunk",
			key:        "small",
			data:       []byte("hello"),
			chunkSize:  10,
			wantChunks: 1,
			wantErr:    false,
		},
		{
			name:       "payload spanning multiple chunks",
			key:        "large",
			data:       patternData(25),
			chunkSize:  10,
			wantChunks: 3,
			wantErr:    false,
		},
		{
			name:       "exact multiple of chunk size has no trailing chunk",
			key:        "exact",
			data:       patternData(30),
			chunkSize:  10,
			wantChunks: 3,
			wantErr:    false,
		},
		{
			name:      "empty key is rejected",
			key:       "",
			data:      []byte("data"),
			chunkSize: 10,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, kv := newTestService(t, tt.chunkSize)

			err := service.StoreData(tt.key, tt.data, nil)

			if (err != nil) != tt.wantErr {
				t.Errorf("StoreData() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			var metadata CacheMetadata
			if err := service.getRecord(MetadataKey(tt.key), &metadata); err != nil {
				t.Fatalf("StoreData() did not write metadata: %v", err)
			}
			if metadata.TotalSize != len(tt.data) {
				t.Errorf("metadata totalSize = %d, want %d", metadata.TotalSize, len(tt.data))
			}
			if metadata.TotalChunks != tt.wantChunks {
				t.Errorf("metadata totalChunks = %d, want %d", metadata.TotalChunks, tt.wantChunks)
			}
			if metadata.ChunkSize != tt.chunkSize {
				t.Errorf("metadata chunkSize = %d, want %d", metadata.ChunkSize, tt.chunkSize)
			}

			chunkKeys, err := kv.ListKeys(ChunkKeyPrefix + tt.key + ":")
			if err != nil {
				t.Fatalf("ListKeys() failed: %v", err)
			}
			if len(chunkKeys) != tt.wantChunks {
				t.Errorf("stored chunk records = %d, want %d", len(chunkKeys), tt.wantChunks)
			}
		})
	}
}

func TestDefaultStreamCacheService_ReadData(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		chunkSize int
	}{
		{name: "empty payload", data: []byte{}, chunkSize: 10},
		{name: "single partial chunk", data: patternData(7), chunkSize: 10},
		{name: "full chunk", data: patternData(10), chunkSize: 10},
		{name: "partial trailing chunk", data: patternData(25), chunkSize: 10},
		{name: "exact multiple", data: patternData(40), chunkSize: 10},
		{name: "large payload small chunks", data: patternData(1000), chunkSize: 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestService(t, tt.chunkSize)

			if err := service.StoreData("roundtrip", tt.data, nil); err != nil {
				t.Fatalf("StoreData() failed: %v", err)
			}

			got, err := service.ReadData("roundtrip", nil)
			if err != nil {
				t.Fatalf("ReadData() failed: %v", err)
			}

			if !bytes.Equal(got, tt.data) {
				t.Errorf("ReadData() returned %d bytes, want %d byte-identical payload", len(got), len(tt.data))
			}
		})
	}
}

func TestDefaultStreamCacheService_ReadData_MetadataNotFound(t *testing.T) {
	service, _ := newTestService(t, 10)

	var events []StreamProgress
	data, err := service.ReadData("unknown", func(p StreamProgress) {
		events = append(events, p)
	})

	if !errors.Is(err, ErrMetadataNotFound) {
		t.Errorf("ReadData() error = %v, want ErrMetadataNotFound", err)
	}
	if data != nil {
		t.Errorf("ReadData() returned data for unknown key")
	}
	if len(events) != 1 || !events[0].HasError() {
		t.Errorf("ReadData() events = %v, want a single error event", events)
	}
}

func TestDefaultStreamCacheService_ReadData_MissingChunk(t *testing.T) {
	service, kv := newTestService(t, 10)

	if err := service.StoreData("torn", patternData(25), nil); err != nil {
		t.Fatalf("StoreData() failed: %v", err)
	}
	if err := kv.Remove(ChunkKey("torn", 1)); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}

	var events []StreamProgress
	data, err := service.ReadData("torn", func(p StreamProgress) {
		events = append(events, p)
	})

	if !errors.Is(err, ErrChunkNotFound) {
		t.Errorf("ReadData() error = %v, want ErrChunkNotFound", err)
	}
	if data != nil {
		t.Errorf("ReadData() returned a partial payload, want nil")
	}

	last := events[len(events)-1]
	if !last.HasError() {
		t.Errorf("final event %v does not signal an error", last)
	}
	if last.CurrentChunk != 1 {
		t.Errorf("final event currentChunk = %d, want 1 (index of missing chunk)", last.CurrentChunk)
	}
}

func TestDefaultStreamCacheService_DeleteData(t *testing.T) {
	tests := []struct {
		name    string
		setupFn func(service *DefaultStreamCacheService)
		key     string
	}{
		{
			name: "delete stored entry",
			key:  "stored",
			setupFn: func(service *DefaultStreamCacheService) {
				_ = service.StoreData("stored", patternData(25), nil)
			},
		},
		{
			name: "delete is idempotent for unknown key",
			key:  "missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, kv := newTestService(t, 10)
			if tt.setupFn != nil {
				tt.setupFn(service)
			}

			if err := service.DeleteData(tt.key); err != nil {
				t.Errorf("DeleteData() error = %v, want nil", err)
			}

			if _, err := kv.Get(MetadataKey(tt.key)); !errors.Is(err, kv_service.ErrKeyNotFound) {
				t.Errorf("metadata still present after delete")
			}
			chunkKeys, _ := kv.ListKeys(ChunkKeyPrefix + tt.key + ":")
			if len(chunkKeys) != 0 {
				t.Errorf("chunk records still present after delete: %v", chunkKeys)
			}
		})
	}
}

func TestDefaultStreamCacheService_StoreData_MetadataWriteFailure(t *testing.T) {
	kv := &failingKVService{
		KVService: kv_service.NewInMemoryKVService(),
		failPuts:  map[string]bool{MetadataKey("doomed"): true},
	}
	ls := log_service.NewLocalDiscLogService(t.TempDir(), "test")
	service := NewDefaultStreamCacheService(kv, ls, 10)

	var events []StreamProgress
	err := service.StoreData("doomed", patternData(25), func(p StreamProgress) {
		events = append(events, p)
	})

	if !errors.Is(err, ErrMetadataStoreFailed) {
		t.Errorf("StoreData() error = %v, want ErrMetadataStoreFailed", err)
	}
	if len(events) != 1 || !events[0].HasError() {
		t.Errorf("StoreData() events = %v, want a single error event", events)
	}

	// Write-ahead ordering: no chunks may exist when the metadata write failed.
	chunkKeys, _ := kv.ListKeys(ChunkKeyPrefix + "doomed:")
	if len(chunkKeys) != 0 {
		t.Errorf("chunks written despite metadata failure: %v", chunkKeys)
	}
}

func TestDefaultStreamCacheService_StoreData_ChunkWriteFailure(t *testing.T) {
	kv := &failingKVService{
		KVService: kv_service.NewInMemoryKVService(),
		failPuts:  map[string]bool{ChunkKey("doomed", 2): true},
	}
	ls := log_service.NewLocalDiscLogService(t.TempDir(), "test")
	service := NewDefaultStreamCacheService(kv, ls, 10)

	var events []StreamProgress
	err := service.StoreData("doomed", patternData(45), func(p StreamProgress) {
		events = append(events, p)
	})

	if !errors.Is(err, ErrChunkStoreFailed) {
		t.Errorf("StoreData() error = %v, want ErrChunkStoreFailed", err)
	}

	last := events[len(events)-1]
	if !last.HasError() {
		t.Errorf("final event %v does not signal an error", last)
	}
	if last.CurrentChunk != 2 {
		t.Errorf("final event currentChunk = %d, want failing index 2", last.CurrentChunk)
	}

	// No rollback: metadata and earlier chunks stay behind.
	if _, err := kv.Get(MetadataKey("doomed")); err != nil {
		t.Errorf("metadata missing after aborted store: %v", err)
	}
	chunkKeys, _ := kv.ListKeys(ChunkKeyPrefix + "doomed:")
	if len(chunkKeys) != 2 {
		t.Errorf("surviving chunks = %d, want 2", len(chunkKeys))
	}
}

func TestDefaultStreamCacheService_ProgressReporting(t *testing.T) {
	service, _ := newTestService(t, 10)

	var storeEvents []StreamProgress
	if err := service.StoreData("pattern", patternData(25), func(p StreamProgress) {
		storeEvents = append(storeEvents, p)
	}); err != nil {
		t.Fatalf("StoreData() failed: %v", err)
	}

	wantMessages := []string{
		"Uploaded chunk 1/3 (33%)",
		"Uploaded chunk 2/3 (66%)",
		"Uploaded chunk 3/3 (100%)",
		"Upload completed successfully",
	}
	if len(storeEvents) != len(wantMessages) {
		t.Fatalf("store events = %d, want %d", len(storeEvents), len(wantMessages))
	}
	for i, want := range wantMessages {
		if storeEvents[i].Message != want {
			t.Errorf("store event %d message = %q, want %q", i, storeEvents[i].Message, want)
		}
		if storeEvents[i].HasError() {
			t.Errorf("store event %d unexpectedly signals an error", i)
		}
	}

	var readEvents []StreamProgress
	if _, err := service.ReadData("pattern", func(p StreamProgress) {
		readEvents = append(readEvents, p)
	}); err != nil {
		t.Fatalf("ReadData() failed: %v", err)
	}

	for _, events := range [][]StreamProgress{storeEvents, readEvents} {
		for i := 1; i < len(events); i++ {
			if events[i].CurrentChunk < events[i-1].CurrentChunk {
				t.Errorf("progress went backwards: %v after %v", events[i], events[i-1])
			}
		}
		final := events[len(events)-1]
		if final.CurrentChunk != final.TotalChunks {
			t.Errorf("final event %v does not report full completion", final)
		}
		if !final.Completed() {
			t.Errorf("final event %v not marked completed", final)
		}
	}
}

func TestDefaultStreamCacheService_EmptyPayloadProgress(t *testing.T) {
	service, _ := newTestService(t, 10)

	var events []StreamProgress
	if err := service.StoreData("empty", nil, func(p StreamProgress) {
		events = append(events, p)
	}); err != nil {
		t.Fatalf("StoreData() failed: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("store events = %d, want only the completion event", len(events))
	}
	if events[0].TotalChunks != 0 || events[0].CurrentChunk != 0 {
		t.Errorf("completion event = %v, want 0/0", events[0])
	}
	if events[0].ProgressPercent() != 0 {
		t.Errorf("progress percent = %d, want 0 for empty payload", events[0].ProgressPercent())
	}

	data, err := service.ReadData("empty", nil)
	if err != nil {
		t.Fatalf("ReadData() failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("ReadData() = %d bytes, want empty payload", len(data))
	}
}

func TestDefaultStreamCacheService_RewriteWithCurrentDefault(t *testing.T) {
	// An entry written with one chunk size must read back correctly through
	// a service configured with a different default.
	kv := kv_service.NewInMemoryKVService()
	ls := log_service.NewLocalDiscLogService(t.TempDir(), "test")

	writer := NewDefaultStreamCacheService(kv, ls, 8)
	data := patternData(50)
	if err := writer.StoreData("resized", data, nil); err != nil {
		t.Fatalf("StoreData() failed: %v", err)
	}

	reader := NewDefaultStreamCacheService(kv, ls, 1024)
	got, err := reader.ReadData("resized", nil)
	if err != nil {
		t.Fatalf("ReadData() failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("payload mismatch after chunk size change")
	}
}

func TestStreamProgress_Derived(t *testing.T) {
	tests := []struct {
		name          string
		progress      StreamProgress
		wantPercent   int
		wantCompleted bool
		wantError     bool
	}{
		{
			name:        "zero chunks",
			progress:    StreamProgress{Key: "k", CurrentChunk: 0, TotalChunks: 0, Message: "Upload completed successfully"},
			wantPercent: 0,
		},
		{
			name:        "one of three floors to 33",
			progress:    StreamProgress{Key: "k", CurrentChunk: 1, TotalChunks: 3, Message: "Uploaded chunk 1/3 (33%)"},
			wantPercent: 33,
		},
		{
			name:          "all chunks done",
			progress:      StreamProgress{Key: "k", CurrentChunk: 3, TotalChunks: 3, Message: "Upload completed successfully"},
			wantPercent:   100,
			wantCompleted: true,
		},
		{
			name:        "failed message flags error",
			progress:    StreamProgress{Key: "k", CurrentChunk: 0, TotalChunks: 3, Message: "Failed to store metadata"},
			wantPercent: 0,
			wantError:   true,
		},
		{
			name:      "error detection is case-insensitive",
			progress:  StreamProgress{Key: "k", CurrentChunk: 1, TotalChunks: 2, Message: "download ERROR at chunk 1"},
			wantError: true,
			wantPercent: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.progress.ProgressPercent(); got != tt.wantPercent {
				t.Errorf("ProgressPercent() = %d, want %d", got, tt.wantPercent)
			}
			if got := tt.progress.Completed(); got != tt.wantCompleted {
				t.Errorf("Completed() = %v, want %v", got, tt.wantCompleted)
			}
			if got := tt.progress.HasError(); got != tt.wantError {
				t.Errorf("HasError() = %v, want %v", got, tt.wantError)
			}
		})
	}
}

func TestChunkKeyLayout(t *testing.T) {
	if got := MetadataKey("persons"); got != "meta:persons" {
		t.Errorf("MetadataKey() = %q", got)
	}
	if got := ChunkKey("persons", 7); got != "chunk:persons:7" {
		t.Errorf("ChunkKey() = %q", got)
	}
	if got := ChunkKey("persons", 0); got != fmt.Sprintf("%spersons:0", ChunkKeyPrefix) {
		t.Errorf("ChunkKey() = %q", got)
	}
}
