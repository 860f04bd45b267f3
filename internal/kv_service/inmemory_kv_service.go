package kv_service

import (
	"strings"
	"sync"
)

type InMemoryKVService struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewInMemoryKVService() *InMemoryKVService {
	return &InMemoryKVService{
		values: make(map[string][]byte),
	}
}

func (kv *InMemoryKVService) Put(key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	kv.mu.Lock()
	kv.values[key] = stored
	kv.mu.Unlock()

	return nil
}

func (kv *InMemoryKVService) Get(key string) ([]byte, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	value, exists := kv.values[key]
	if !exists {
		return nil, ErrKeyNotFound
	}

	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

func (kv *InMemoryKVService) Remove(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	delete(kv.values, key)
	return nil
}

func (kv *InMemoryKVService) ListKeys(prefix string) ([]string, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	var keys []string
	for key := range kv.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

var _ KVService = (*InMemoryKVService)(nil)
