package kv_service

import (
	"context"
	"fmt"
	"time"

	"github.com/dpetros/streamcache/internal/log_service"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const (
	EtcdDialTimeout    = 5 * time.Second
	EtcdRequestTimeout = 30 * time.Second
)

// EtcdKVService stores cache records in etcd under a configurable key
// namespace. Request timeouts are internal; callers see only success,
// ErrKeyNotFound, or a sentinel failure.
type EtcdKVService struct {
	client    *clientv3.Client
	namespace string
	ls        log_service.LogService
}

func NewEtcdKVService(endpoints []string, namespace string, ls log_service.LogService) (*EtcdKVService, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: EtcdDialTimeout,
	})
	if err != nil {
		ls.Error(log_service.LogEvent{
			Message:  "Failed to connect to etcd",
			Metadata: map[string]any{"endpoints": endpoints, "error": err.Error()},
		})
		return nil, fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}

	return &EtcdKVService{
		client:    cli,
		namespace: namespace,
		ls:        ls,
	}, nil
}

func (kv *EtcdKVService) storeKey(key string) string {
	return kv.namespace + key
}

func (kv *EtcdKVService) Put(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), EtcdRequestTimeout)
	defer cancel()

	_, err := kv.client.Put(ctx, kv.storeKey(key), string(value))
	if err != nil {
		kv.ls.Error(log_service.LogEvent{
			Message:  "Failed to put value in etcd",
			Metadata: map[string]any{"key": key, "error": err.Error()},
		})
		return ErrPutFailed
	}

	return nil
}

func (kv *EtcdKVService) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), EtcdRequestTimeout)
	defer cancel()

	resp, err := kv.client.Get(ctx, kv.storeKey(key))
	if err != nil {
		kv.ls.Error(log_service.LogEvent{
			Message:  "Failed to get value from etcd",
			Metadata: map[string]any{"key": key, "error": err.Error()},
		})
		return nil, ErrGetFailed
	}

	if len(resp.Kvs) == 0 {
		return nil, ErrKeyNotFound
	}

	return resp.Kvs[0].Value, nil
}

func (kv *EtcdKVService) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), EtcdRequestTimeout)
	defer cancel()

	_, err := kv.client.Delete(ctx, kv.storeKey(key))
	if err != nil {
		kv.ls.Error(log_service.LogEvent{
			Message:  "Failed to remove value from etcd",
			Metadata: map[string]any{"key": key, "error": err.Error()},
		})
		return ErrRemoveFailed
	}

	return nil
}

func (kv *EtcdKVService) ListKeys(prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), EtcdRequestTimeout)
	defer cancel()

	resp, err := kv.client.Get(ctx, kv.storeKey(prefix), clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		kv.ls.Error(log_service.LogEvent{
			Message:  "Failed to list keys from etcd",
			Metadata: map[string]any{"prefix": prefix, "error": err.Error()},
		})
		return nil, ErrListFailed
	}

	keys := make([]string, 0, len(resp.Kvs))
	for _, item := range resp.Kvs {
		keys = append(keys, string(item.Key)[len(kv.namespace):])
	}

	return keys, nil
}

func (kv *EtcdKVService) Close() error {
	return kv.client.Close()
}

var _ KVService = (*EtcdKVService)(nil)
