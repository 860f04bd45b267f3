package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dpetros/streamcache/internal/log_service"
)

// Config holds everything a cache node needs to come up: identity,
// transport, storage backend, logging and the optional gateway hook.
type Config struct {
	NodeID        string `yaml:"node_id"`
	ListenAddress string `yaml:"listen_address"`

	Communicator struct {
		Type string `yaml:"type"` // grpc or http
	} `yaml:"communicator"`

	Cache struct {
		ChunkSize int `yaml:"chunk_size"`
	} `yaml:"cache"`

	KV struct {
		Backend       string   `yaml:"backend"` // memory or etcd
		EtcdEndpoints []string `yaml:"etcd_endpoints"`
		EtcdNamespace string   `yaml:"etcd_namespace"`
	} `yaml:"kv"`

	Log struct {
		Dir      string `yaml:"dir"`
		MinLevel string `yaml:"min_level"`
	} `yaml:"log"`

	Gateway struct {
		Address  string `yaml:"address"`
		DataType string `yaml:"data_type"`
	} `yaml:"gateway"`
}

func DefaultConfig() *Config {
	config := &Config{
		NodeID:        "cache-node-1",
		ListenAddress: ":8080",
	}
	config.Communicator.Type = "grpc"
	config.Cache.ChunkSize = 0 // 0 picks the engine default
	config.KV.Backend = "memory"
	config.KV.EtcdEndpoints = []string{"localhost:2379"}
	config.KV.EtcdNamespace = "streamcache/"
	config.Log.Dir = "./logs"
	config.Log.MinLevel = log_service.InfoLevel
	config.Gateway.DataType = "binary"
	return config
}

// LoadConfig reads the config at path, writing a default file there first
// when none exists.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		defaultConfig := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %v", err)
		}

		data, err := yaml.Marshal(defaultConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal default config: %v", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write default config: %v", err)
		}

		return defaultConfig, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.NodeID == "" {
		return fmt.Errorf("node_id must not be empty")
	}
	if c.ListenAddress == "" {
		return fmt.Errorf("listen_address must not be empty")
	}
	switch c.Communicator.Type {
	case "grpc", "http":
	default:
		return fmt.Errorf("unknown communicator type %q (expected grpc or http)", c.Communicator.Type)
	}
	switch c.KV.Backend {
	case "memory":
	case "etcd":
		if len(c.KV.EtcdEndpoints) == 0 {
			return fmt.Errorf("etcd backend requires at least one endpoint")
		}
	default:
		return fmt.Errorf("unknown kv backend %q (expected memory or etcd)", c.KV.Backend)
	}
	if c.Cache.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must not be negative")
	}
	return nil
}
