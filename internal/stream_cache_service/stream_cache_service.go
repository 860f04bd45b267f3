package stream_cache_service

// ProgressCallback receives progress events synchronously, in ascending
// chunk order, on the same goroutine that performs the chunk I/O. A nil
// callback disables reporting.
type ProgressCallback func(progress StreamProgress)

// StreamCacheService stores arbitrarily large payloads under a single
// logical key by splitting them into bounded-size chunks in an external
// key/value store.
type StreamCacheService interface {
	StoreData(key string, data []byte, progress ProgressCallback) error
	ReadData(key string, progress ProgressCallback) ([]byte, error)
	DeleteData(key string) error
	GetMetadata(key string) (*CacheMetadata, error)
}
