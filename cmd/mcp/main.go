package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/dpetros/streamcache/internal/communication"
	grpccomm "github.com/dpetros/streamcache/internal/communication/grpc"
	httpcomm "github.com/dpetros/streamcache/internal/communication/http"
	"github.com/dpetros/streamcache/internal/log_service"
)

type MCPConfig struct {
	Communicator struct {
		Type string `yaml:"type"`
	} `yaml:"communicator"`
	Servers []struct {
		ID      string `yaml:"id"`
		Address string `yaml:"address"`
	} `yaml:"servers"`
	DefaultServer string `yaml:"default_server"`
}

type ServerRegistry struct {
	Servers       map[string]string
	DefaultServer string
	Communicator  communication.Communicator
}

func LoadConfig(path string) (*MCPConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		defaultConfig := &MCPConfig{}
		defaultConfig.Communicator.Type = "grpc"
		defaultConfig.DefaultServer = "cache1"
		defaultConfig.Servers = []struct {
			ID      string `yaml:"id"`
			Address string `yaml:"address"`
		}{
			{ID: "cache1", Address: "localhost:8080"},
		}

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

	config := &MCPConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	return config, nil
}

func (r *ServerRegistry) resolve(request mcp.CallToolRequest) (string, error) {
	serverID := request.GetString("server", r.DefaultServer)
	addr, ok := r.Servers[serverID]
	if !ok {
		return "", fmt.Errorf("server %s not found", serverID)
	}
	return addr, nil
}

func addTools(s *server.MCPServer, registry *ServerRegistry) {
	listServersTool := mcp.NewTool("list_servers",
		mcp.WithDescription("List all configured cache servers"),
	)
	s.AddTool(listServersTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := "Available cache servers:\n"
		for id, addr := range registry.Servers {
			result += fmt.Sprintf("- %s: %s\n", id, addr)
		}
		result += fmt.Sprintf("Default server: %s\n", registry.DefaultServer)
		return mcp.NewToolResultText(result), nil
	})

	storeTool := mcp.NewTool("store_data",
		mcp.WithDescription("Store base64-encoded data in the cache under a key"),
		mcp.WithString("key", mcp.Required(), mcp.Description("Cache key")),
		mcp.WithString("data", mcp.Required(), mcp.Description("Base64-encoded payload")),
		mcp.WithString("server", mcp.Description("Target server ID")),
	)
	s.AddTool(storeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleStoreData(ctx, request, registry)
	})

	loadTool := mcp.NewTool("load_data",
		mcp.WithDescription("Load cached data for a key, returned base64-encoded"),
		mcp.WithString("key", mcp.Required(), mcp.Description("Cache key")),
		mcp.WithString("server", mcp.Description("Target server ID")),
	)
	s.AddTool(loadTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleLoadData(ctx, request, registry)
	})

	removeTool := mcp.NewTool("remove_data",
		mcp.WithDescription("Remove a cache entry"),
		mcp.WithString("key", mcp.Required(), mcp.Description("Cache key")),
		mcp.WithString("server", mcp.Description("Target server ID")),
	)
	s.AddTool(removeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRemoveData(ctx, request, registry)
	})

	exportTool := mcp.NewTool("export_metadata",
		mcp.WithDescription("Export the cache metadata inventory to a CSV file on the server"),
		mcp.WithString("path", mcp.Required(), mcp.Description("CSV destination path on the server")),
		mcp.WithString("server", mcp.Description("Target server ID")),
	)
	s.AddTool(exportTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleExportMetadata(ctx, request, registry)
	})
}

func handleStoreData(ctx context.Context, request mcp.CallToolRequest, registry *ServerRegistry) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	encoded, err := request.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("data is not valid base64: %v", err)), nil
	}

	serverAddr, err := registry.resolve(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg := communication.Message{
		From: "mcp-server",
		Type: communication.MessageTypeStoreData,
		Payload: communication.StoreDataRequest{
			Key:    key,
			Data:   data,
			UserID: "mcp",
		},
	}

	resp, err := registry.Communicator.Send(ctx, serverAddr, msg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send request: %v", err)), nil
	}
	if resp.Code != communication.CodeOK {
		return mcp.NewToolResultError(fmt.Sprintf("Store failed with %s: %s", resp.Code, resp.Body)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Stored %d bytes under key %q", len(data), key)), nil
}

func handleLoadData(ctx context.Context, request mcp.CallToolRequest, registry *ServerRegistry) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	serverAddr, err := registry.resolve(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg := communication.Message{
		From:    "mcp-server",
		Type:    communication.MessageTypeReadData,
		Payload: communication.ReadDataRequest{Key: key, UserID: "mcp"},
	}

	resp, err := registry.Communicator.Send(ctx, serverAddr, msg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send request: %v", err)), nil
	}
	if resp.Code != communication.CodeOK {
		return mcp.NewToolResultError(fmt.Sprintf("Load failed with %s: %s", resp.Code, resp.Body)), nil
	}

	var data []byte
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to decode response: %v", err)), nil
	}

	return mcp.NewToolResultText(base64.StdEncoding.EncodeToString(data)), nil
}

func handleRemoveData(ctx context.Context, request mcp.CallToolRequest, registry *ServerRegistry) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	serverAddr, err := registry.resolve(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg := communication.Message{
		From:    "mcp-server",
		Type:    communication.MessageTypeDeleteData,
		Payload: communication.DeleteDataRequest{Key: key, UserID: "mcp"},
	}

	resp, err := registry.Communicator.Send(ctx, serverAddr, msg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send request: %v", err)), nil
	}
	if resp.Code != communication.CodeOK {
		return mcp.NewToolResultError(fmt.Sprintf("Remove failed with %s: %s", resp.Code, resp.Body)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Removed key %q", key)), nil
}

func handleExportMetadata(ctx context.Context, request mcp.CallToolRequest, registry *ServerRegistry) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	serverAddr, err := registry.resolve(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg := communication.Message{
		From:    "mcp-server",
		Type:    communication.MessageTypeExportMetadata,
		Payload: communication.ExportMetadataRequest{Path: path, UserID: "mcp"},
	}

	resp, err := registry.Communicator.Send(ctx, serverAddr, msg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send request: %v", err)), nil
	}
	if resp.Code != communication.CodeOK {
		return mcp.NewToolResultError(fmt.Sprintf("Export failed with %s: %s", resp.Code, resp.Body)), nil
	}

	var result communication.ExportMetadataResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to decode response: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Exported %d entries to %s", result.Rows, path)), nil
}

func main() {
	configPath := os.Getenv("STREAMCACHE_MCP_CONFIG")
	if configPath == "" {
		configPath = "./streamcache-mcp.yaml"
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ls := log_service.NewLocalDiscLogService("./logs", "mcp-server", log_service.WarnLevel)

	var comm communication.Communicator
	switch config.Communicator.Type {
	case "http":
		comm = httpcomm.NewHTTPCommunicator(":0", ls)
	default:
		comm = grpccomm.NewGRPCCommunicator(":0", ls)
	}

	registry := &ServerRegistry{
		Servers:       make(map[string]string),
		DefaultServer: config.DefaultServer,
		Communicator:  comm,
	}
	for _, entry := range config.Servers {
		registry.Servers[entry.ID] = entry.Address
	}

	s := server.NewMCPServer(
		"streamcache",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	addTools(s, registry)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
	}
}
