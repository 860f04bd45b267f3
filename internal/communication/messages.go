package communication

// Message Type Constants
const (
	// Cache operations
	MessageTypeStoreData  = "store_data"
	MessageTypeReadData   = "read_data"
	MessageTypeDeleteData = "delete_data"

	// Metadata inventory export
	MessageTypeExportMetadata = "export_metadata"

	// Gateway notification (outbound)
	MessageTypeCacheCompletion = "cache_completion"

	// Server lifecycle
	MessageTypeStopServer = "stop_server"
)

// --- Payload Structs ---

type StoreDataRequest struct {
	Key      string `json:"key"`
	Data     []byte `json:"data"`
	DataType string `json:"dataType,omitempty"`
	UserID   string `json:"userId,omitempty"`
}

type ReadDataRequest struct {
	Key    string `json:"key"`
	UserID string `json:"userId,omitempty"`
}

type DeleteDataRequest struct {
	Key    string `json:"key"`
	UserID string `json:"userId,omitempty"`
}

type ExportMetadataRequest struct {
	Path   string `json:"path"`
	UserID string `json:"userId,omitempty"`
}

// ExportMetadataResponse reports how many entries were written.
type ExportMetadataResponse struct {
	Rows int `json:"rows"`
}

// CacheCompletionNotification tells the gateway that a chunked upload for
// one logical key finished.
type CacheCompletionNotification struct {
	JobID       string `json:"jobId"`
	CacheKey    string `json:"cacheKey"`
	TotalSize   int    `json:"totalSize"`
	TotalChunks int    `json:"totalChunks"`
	ChunkSize   int    `json:"chunkSize"`
	DataType    string `json:"dataType"`
	Timestamp   string `json:"timestamp"`
}

type StopServerRequest struct{}
