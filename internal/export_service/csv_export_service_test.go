package export_service

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/dpetros/streamcache/internal/kv_service"
	"github.com/dpetros/streamcache/internal/log_service"
	"github.com/dpetros/streamcache/internal/stream_cache_service"
)

func TestCSVExportService_ExportMetadata(t *testing.T) {
	tempDir := t.TempDir()
	kv := kv_service.NewInMemoryKVService()
	ls := log_service.NewLocalDiscLogService(tempDir, "test")
	cache := stream_cache_service.NewDefaultStreamCacheService(kv, ls, 10)

	if err := cache.StoreData("alpha", []byte("0123456789ABCDEF"), nil); err != nil {
		t.Fatalf("StoreData() failed: %v", err)
	}
	if err := cache.StoreData("beta", nil, nil); err != nil {
		t.Fatalf("StoreData() failed: %v", err)
	}

	// A record that does not decode as metadata must be skipped, not fatal.
	if err := kv.Put(stream_cache_service.MetadataKeyPrefix+"broken", []byte("not json")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	es := NewCSVExportService(kv, ls)
	exportPath := filepath.Join(tempDir, "inventory.csv")

	rows, err := es.ExportMetadata(exportPath)
	if err != nil {
		t.Fatalf("ExportMetadata() failed: %v", err)
	}
	if rows != 2 {
		t.Errorf("ExportMetadata() rows = %d, want 2", rows)
	}

	file, err := os.Open(exportPath)
	if err != nil {
		t.Fatalf("failed to open export file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse export file: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("export file has %d rows, want header plus 2 entries", len(records))
	}
	if records[0][0] != "key" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "alpha" || records[1][2] != "16" || records[1][3] != "2" {
		t.Errorf("alpha row = %v", records[1])
	}
	if records[2][0] != "beta" || records[2][2] != "0" || records[2][3] != "0" {
		t.Errorf("beta row = %v", records[2])
	}
}

func TestCSVExportService_EmptyCache(t *testing.T) {
	tempDir := t.TempDir()
	kv := kv_service.NewInMemoryKVService()
	ls := log_service.NewLocalDiscLogService(tempDir, "test")

	es := NewCSVExportService(kv, ls)
	exportPath := filepath.Join(tempDir, "empty.csv")

	rows, err := es.ExportMetadata(exportPath)
	if err != nil {
		t.Fatalf("ExportMetadata() failed: %v", err)
	}
	if rows != 0 {
		t.Errorf("ExportMetadata() rows = %d, want 0", rows)
	}

	if _, err := os.Stat(exportPath); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}
