package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigWritesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "streamcache.yaml")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.NodeID == "" {
		t.Errorf("default config has empty node_id")
	}
	if config.Communicator.Type != "grpc" {
		t.Errorf("default communicator type = %q, want grpc", config.Communicator.Type)
	}
	if config.KV.Backend != "memory" {
		t.Errorf("default kv backend = %q, want memory", config.KV.Backend)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected default config written to %s: %v", path, err)
	}

	// A second load reads the file it just wrote.
	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() reload error = %v", err)
	}
	if reloaded.NodeID != config.NodeID {
		t.Errorf("reloaded node_id = %q, want %q", reloaded.NodeID, config.NodeID)
	}
}

func TestLoadConfigParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streamcache.yaml")
	content := `node_id: cache-node-7
listen_address: ":9090"
communicator:
  type: http
cache:
  chunk_size: 4096
kv:
  backend: etcd
  etcd_endpoints:
    - "etcd1:2379"
    - "etcd2:2379"
  etcd_namespace: "prod/"
log:
  dir: /var/log/streamcache
  min_level: WARN
gateway:
  address: "gateway:8080"
  data_type: soap-response
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.NodeID != "cache-node-7" {
		t.Errorf("node_id = %q, want cache-node-7", config.NodeID)
	}
	if config.Communicator.Type != "http" {
		t.Errorf("communicator type = %q, want http", config.Communicator.Type)
	}
	if config.Cache.ChunkSize != 4096 {
		t.Errorf("chunk_size = %d, want 4096", config.Cache.ChunkSize)
	}
	if len(config.KV.EtcdEndpoints) != 2 {
		t.Errorf("etcd endpoints = %v, want 2 entries", config.KV.EtcdEndpoints)
	}
	if config.Gateway.Address != "gateway:8080" {
		t.Errorf("gateway address = %q, want gateway:8080", config.Gateway.Address)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown communicator",
			content: `node_id: n1
listen_address: ":8080"
communicator:
  type: carrier-pigeon
kv:
  backend: memory
`,
		},
		{
			name: "unknown kv backend",
			content: `node_id: n1
listen_address: ":8080"
communicator:
  type: grpc
kv:
  backend: tape
`,
		},
		{
			name: "etcd without endpoints",
			content: `node_id: n1
listen_address: ":8080"
communicator:
  type: grpc
kv:
  backend: etcd
`,
		},
		{
			name: "missing node id",
			content: `listen_address: ":8080"
communicator:
  type: grpc
kv:
  backend: memory
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "streamcache.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Errorf("LoadConfig() accepted invalid config")
			}
		})
	}
}
