package export_service

// ExportService writes an inventory of the cache's metadata records to an
// external file for offline inspection.
type ExportService interface {
	ExportMetadata(path string) (int, error)
}
