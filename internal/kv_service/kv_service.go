package kv_service

// KVService is the narrow adapter the streaming cache talks to. Values are
// opaque serialized records; round-trip fidelity is the only contract.
type KVService interface {
	Put(key string, value []byte) error
	Get(key string) ([]byte, error)
	Remove(key string) error
	ListKeys(prefix string) ([]string, error)
}
