package cachelib

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dpetros/streamcache/internal/communication"
)

func NewCacheClient(serverAddr string, comm communication.Communicator, userID string) *CacheClient {
	return &CacheClient{
		ServerAddr: serverAddr,
		Comm:       comm,
		UserID:     userID,
	}
}

// Store uploads data under key, replacing any existing entry.
func (c *CacheClient) Store(ctx context.Context, key string, data []byte) error {
	resp, err := c.send(ctx, communication.MessageTypeStoreData, communication.StoreDataRequest{
		Key:    key,
		Data:   data,
		UserID: c.UserID,
	})
	if err != nil {
		return err
	}
	if resp.Code != communication.CodeOK {
		return responseError("store", key, resp)
	}
	return nil
}

// Load downloads the full payload for key. Missing entries return ErrNotFound.
func (c *CacheClient) Load(ctx context.Context, key string) ([]byte, error) {
	resp, err := c.send(ctx, communication.MessageTypeReadData, communication.ReadDataRequest{
		Key:    key,
		UserID: c.UserID,
	})
	if err != nil {
		return nil, err
	}
	switch resp.Code {
	case communication.CodeOK:
	case communication.CodeNotFound:
		return nil, ErrNotFound
	default:
		return nil, responseError("load", key, resp)
	}

	var data []byte
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, fmt.Errorf("load %q: decoding response: %v", key, err)
	}
	return data, nil
}

// Remove deletes the entry for key. Removing an absent key is not an error.
func (c *CacheClient) Remove(ctx context.Context, key string) error {
	resp, err := c.send(ctx, communication.MessageTypeDeleteData, communication.DeleteDataRequest{
		Key:    key,
		UserID: c.UserID,
	})
	if err != nil {
		return err
	}
	if resp.Code != communication.CodeOK {
		return responseError("remove", key, resp)
	}
	return nil
}

// Export writes the server's metadata inventory to a CSV file at path on
// the server and reports how many entries it contained.
func (c *CacheClient) Export(ctx context.Context, path string) (int, error) {
	resp, err := c.send(ctx, communication.MessageTypeExportMetadata, communication.ExportMetadataRequest{
		Path:   path,
		UserID: c.UserID,
	})
	if err != nil {
		return 0, err
	}
	if resp.Code != communication.CodeOK {
		return 0, responseError("export", path, resp)
	}

	var result communication.ExportMetadataResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return 0, fmt.Errorf("export %q: decoding response: %v", path, err)
	}
	return result.Rows, nil
}

func (c *CacheClient) send(ctx context.Context, msgType string, payload any) (*communication.Response, error) {
	if c.Comm == nil {
		return nil, fmt.Errorf("cache client has no communicator")
	}
	if c.ServerAddr == "" {
		return nil, fmt.Errorf("cache client has no server address")
	}

	return c.Comm.Send(ctx, c.ServerAddr, communication.Message{
		From:    "cache-client",
		Type:    msgType,
		Payload: payload,
	})
}

func responseError(op, key string, resp *communication.Response) error {
	if len(resp.Body) > 0 {
		return fmt.Errorf("%s %q: server returned %s: %s", op, key, resp.Code, resp.Body)
	}
	return fmt.Errorf("%s %q: server returned %s", op, key, resp.Code)
}
