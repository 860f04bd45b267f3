package cachelib

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/dpetros/streamcache/internal/communication"
	"github.com/dpetros/streamcache/internal/export_service"
	"github.com/dpetros/streamcache/internal/gateway_service"
	"github.com/dpetros/streamcache/internal/interceptor_service"
	"github.com/dpetros/streamcache/internal/kv_service"
	"github.com/dpetros/streamcache/internal/log_service"
	"github.com/dpetros/streamcache/internal/server"
	"github.com/dpetros/streamcache/internal/stream_cache_service"
)

// loopbackCommunicator short-circuits Send into the registered handler so
// client and server can talk inside one process.
type loopbackCommunicator struct {
	handler communication.MessageHandler
}

func (c *loopbackCommunicator) Start(handler communication.MessageHandler) error {
	c.handler = handler
	return nil
}

func (c *loopbackCommunicator) Stop() error {
	return nil
}

func (c *loopbackCommunicator) Send(ctx context.Context, to string, msg communication.Message) (*communication.Response, error) {
	if c.handler == nil {
		return &communication.Response{Code: communication.CodeUnavailable}, nil
	}
	return c.handler(msg)
}

func (c *loopbackCommunicator) Address() string {
	return "loopback:0"
}

func newTestClient(t *testing.T) *CacheClient {
	t.Helper()

	ls := log_service.NewLocalDiscLogService(t.TempDir(), "test-node")
	kv := kv_service.NewInMemoryKVService()
	cache := stream_cache_service.NewDefaultStreamCacheService(kv, ls, 16)
	comm := &loopbackCommunicator{}
	is := interceptor_service.NewDefaultInterceptorService(ls)
	gs := gateway_service.NewCommGatewayService(comm, ls, "", "test-node")
	es := export_service.NewCSVExportService(kv, ls)

	srv := server.NewDefaultServer(comm, cache, is, gs, es, ls, "test-node")
	if err := srv.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	return NewCacheClient("loopback:0", comm, "tester")
}

func TestCacheClientRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	payload := []byte("forty-two bytes of reasonably dull data..")

	if err := client.Store(ctx, "answer", payload); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, err := client.Load(ctx, "answer")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Load() = %q, want %q", got, payload)
	}
}

func TestCacheClientLoadMissing(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Load(context.Background(), "nothing-here")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestCacheClientRemove(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.Store(ctx, "doomed", []byte("short lived")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := client.Remove(ctx, "doomed"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := client.Load(ctx, "doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after Remove() error = %v, want ErrNotFound", err)
	}

	// Removing again is still fine.
	if err := client.Remove(ctx, "doomed"); err != nil {
		t.Errorf("second Remove() error = %v", err)
	}
}

func TestCacheClientStoreRejectsEmptyKey(t *testing.T) {
	client := newTestClient(t)

	if err := client.Store(context.Background(), "", []byte("x")); err == nil {
		t.Errorf("Store() with empty key succeeded, want error")
	}
}

func TestCacheClientWithoutCommunicator(t *testing.T) {
	client := &CacheClient{ServerAddr: "somewhere:8080"}

	if err := client.Store(context.Background(), "k", nil); err == nil {
		t.Errorf("Store() with nil communicator succeeded, want error")
	}
}
