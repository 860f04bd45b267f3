package httpcomm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/dpetros/streamcache/internal/communication"
	"github.com/dpetros/streamcache/internal/log_service"
)

// Large payloads travel through this communicator one message at a time,
// so the client timeout is generous compared to the GRPC path.
const clientTimeout = 120 * time.Second

type wireResponse struct {
	Code    communication.ResponseCode `json:"code"`
	Body    []byte                     `json:"body,omitempty"`
	Headers map[string]string          `json:"headers,omitempty"`
}

type HTTPCommunicator struct {
	listenAddress string
	httpServer    *http.Server
	handler       communication.MessageHandler
	ls            log_service.LogService
	clientLock    sync.RWMutex
	clients       map[string]*http.Client
	payloadTypes  map[string]reflect.Type
}

func NewHTTPCommunicator(listenAddress string, ls log_service.LogService) *HTTPCommunicator {
	c := &HTTPCommunicator{
		listenAddress: listenAddress,
		ls:            ls,
		clients:       make(map[string]*http.Client),
		payloadTypes:  make(map[string]reflect.Type),
	}

	// Register default payload types
	c.payloadTypes[communication.MessageTypeStoreData] = reflect.TypeOf((*communication.StoreDataRequest)(nil)).Elem()
	c.payloadTypes[communication.MessageTypeReadData] = reflect.TypeOf((*communication.ReadDataRequest)(nil)).Elem()
	c.payloadTypes[communication.MessageTypeDeleteData] = reflect.TypeOf((*communication.DeleteDataRequest)(nil)).Elem()
	c.payloadTypes[communication.MessageTypeExportMetadata] = reflect.TypeOf((*communication.ExportMetadataRequest)(nil)).Elem()
	c.payloadTypes[communication.MessageTypeCacheCompletion] = reflect.TypeOf((*communication.CacheCompletionNotification)(nil)).Elem()
	c.payloadTypes[communication.MessageTypeStopServer] = reflect.TypeOf((*communication.StopServerRequest)(nil)).Elem()

	return c
}

func (c *HTTPCommunicator) RegisterPayloadType(msgType string, payloadType reflect.Type) {
	c.payloadTypes[msgType] = payloadType
}

func (c *HTTPCommunicator) Address() string {
	return c.listenAddress
}

func (c *HTTPCommunicator) Start(handler communication.MessageHandler) error {
	c.ls.Info(log_service.LogEvent{
		Message:  "Starting HTTP communicator",
		Metadata: map[string]any{"address": c.listenAddress},
	})

	c.handler = handler

	mux := http.NewServeMux()
	mux.HandleFunc("/message", c.handleHTTPMessage)

	c.httpServer = &http.Server{
		Addr:    c.listenAddress,
		Handler: mux,
	}

	go func() {
		if err := c.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.ls.Error(log_service.LogEvent{
				Message:  "HTTP server error",
				Metadata: map[string]any{"address": c.listenAddress, "error": err.Error()},
			})
		}
	}()

	c.ls.Info(log_service.LogEvent{
		Message:  "HTTP communicator started successfully",
		Metadata: map[string]any{"address": c.listenAddress},
	})

	return nil
}

func (c *HTTPCommunicator) Stop() error {
	c.ls.Info(log_service.LogEvent{
		Message:  "Stopping HTTP communicator",
		Metadata: map[string]any{"address": c.listenAddress},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.httpServer.Shutdown(ctx); err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to stop HTTP server",
			Metadata: map[string]any{"address": c.listenAddress, "error": err.Error()},
		})
		return communication.ErrServerStopFailed
	}

	c.ls.Info(log_service.LogEvent{
		Message:  "HTTP communicator stopped successfully",
		Metadata: map[string]any{"address": c.listenAddress},
	})

	return nil
}

func mapToHTTPCode(code communication.ResponseCode) int {
	switch code {
	case communication.CodeOK:
		return http.StatusOK
	case communication.CodeBadRequest:
		return http.StatusBadRequest
	case communication.CodeNotFound:
		return http.StatusNotFound
	case communication.CodeAlreadyExists:
		return http.StatusConflict
	case communication.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type wireMessage struct {
	From    string          `json:"from"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (c *HTTPCommunicator) Send(ctx context.Context, to string, msg communication.Message) (*communication.Response, error) {
	c.ls.Debug(log_service.LogEvent{
		Message:  "Sending HTTP message",
		Metadata: map[string]any{"to": to, "type": msg.Type, "from": msg.From},
	})

	c.clientLock.RLock()
	client, ok := c.clients[to]
	c.clientLock.RUnlock()

	if !ok {
		client = &http.Client{
			Timeout: clientTimeout,
		}
		c.clientLock.Lock()
		c.clients[to] = client
		c.clientLock.Unlock()
	}

	wire := wireMessage{
		From: c.listenAddress,
		Type: msg.Type,
	}
	if msg.Payload != nil {
		payloadBytes, err := json.Marshal(msg.Payload)
		if err != nil {
			c.ls.Error(log_service.LogEvent{
				Message:  "Failed to marshal payload",
				Metadata: map[string]any{"to": to, "type": msg.Type, "error": err.Error()},
			})
			return nil, communication.ErrPayloadMarshalFailed
		}
		wire.Payload = payloadBytes
	}

	jsonData, err := json.Marshal(wire)
	if err != nil {
		return nil, communication.ErrMessageMarshalFailed
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("http://%s/message", to), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, communication.ErrHTTPRequestCreateFailed
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := client.Do(httpReq)
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to send HTTP request",
			Metadata: map[string]any{"to": to, "type": msg.Type, "error": err.Error()},
		})
		return nil, communication.ErrHTTPRequestSendFailed
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, communication.ErrHTTPResponseReadFailed
	}

	var resp wireResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, communication.ErrHTTPResponseReadFailed
	}

	c.ls.Debug(log_service.LogEvent{
		Message:  "HTTP message sent successfully",
		Metadata: map[string]any{"to": to, "type": msg.Type, "responseCode": resp.Code},
	})

	return &communication.Response{
		Code:    resp.Code,
		Body:    resp.Body,
		Headers: resp.Headers,
	}, nil
}

func (c *HTTPCommunicator) handleHTTPMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, communication.ErrHTTPBodyReadFailed.Error(), http.StatusBadRequest)
		return
	}

	var wire wireMessage
	if err := json.Unmarshal(body, &wire); err != nil {
		http.Error(w, communication.ErrInvalidJSON.Error(), http.StatusBadRequest)
		return
	}

	if wire.Type == "" {
		http.Error(w, communication.ErrMissingRequiredFields.Error(), http.StatusBadRequest)
		return
	}

	if c.handler == nil {
		http.Error(w, communication.ErrHandlerNotSet.Error(), http.StatusServiceUnavailable)
		return
	}

	msg := communication.Message{
		From: wire.From,
		Type: wire.Type,
	}

	if payloadType, ok := c.payloadTypes[wire.Type]; ok && len(wire.Payload) > 0 {
		payloadValue := reflect.New(payloadType)
		if err := json.Unmarshal(wire.Payload, payloadValue.Interface()); err != nil {
			c.ls.Error(log_service.LogEvent{
				Message:  "Failed to unmarshal payload into struct",
				Metadata: map[string]any{"type": wire.Type, "error": err.Error()},
			})
			http.Error(w, communication.ErrPayloadUnmarshalFailed.Error(), http.StatusBadRequest)
			return
		}
		msg.Payload = payloadValue.Elem().Interface()
	}

	resp, err := c.handler(msg)
	if err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Message handler failed",
			Metadata: map[string]any{"type": msg.Type, "error": err.Error()},
		})
		http.Error(w, communication.ErrMessageHandlerFailed.Error(), http.StatusInternalServerError)
		return
	}

	if resp == nil {
		http.Error(w, communication.ErrMessageHandlerFailed.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(mapToHTTPCode(resp.Code))
	encoded, err := json.Marshal(wireResponse{
		Code:    resp.Code,
		Body:    resp.Body,
		Headers: resp.Headers,
	})
	if err != nil {
		return
	}
	if _, err := w.Write(encoded); err != nil {
		c.ls.Error(log_service.LogEvent{
			Message:  "Failed to write HTTP response body",
			Metadata: map[string]any{"error": err.Error()},
		})
	}
}

var _ communication.Communicator = (*HTTPCommunicator)(nil)
