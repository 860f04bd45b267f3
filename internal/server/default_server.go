package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/dpetros/streamcache/internal/communication"
	"github.com/dpetros/streamcache/internal/export_service"
	"github.com/dpetros/streamcache/internal/gateway_service"
	"github.com/dpetros/streamcache/internal/interceptor_service"
	"github.com/dpetros/streamcache/internal/log_service"
	"github.com/dpetros/streamcache/internal/stream_cache_service"
)

type DefaultServer struct {
	comm          communication.Communicator
	cache         stream_cache_service.StreamCacheService
	is            interceptor_service.InterceptorService
	gs            gateway_service.GatewayService
	es            export_service.ExportService
	ls            log_service.LogService
	nodeID        string
	ctx           context.Context
	cancel        context.CancelFunc
	typedHandlers map[string]*TypedHandler
}

func NewDefaultServer(comm communication.Communicator, cache stream_cache_service.StreamCacheService, is interceptor_service.InterceptorService, gs gateway_service.GatewayService, es export_service.ExportService, ls log_service.LogService, nodeID string) *DefaultServer {
	ctx, cancel := context.WithCancel(context.Background())
	server := &DefaultServer{
		comm:          comm,
		cache:         cache,
		is:            is,
		gs:            gs,
		es:            es,
		ls:            ls,
		nodeID:        nodeID,
		ctx:           ctx,
		cancel:        cancel,
		typedHandlers: make(map[string]*TypedHandler),
	}

	server.RegisterTypedHandler(communication.MessageTypeStoreData, reflect.TypeOf(communication.StoreDataRequest{}), server.HandleStoreDataMessage)
	server.RegisterTypedHandler(communication.MessageTypeReadData, reflect.TypeOf(communication.ReadDataRequest{}), server.HandleReadDataMessage)
	server.RegisterTypedHandler(communication.MessageTypeDeleteData, reflect.TypeOf(communication.DeleteDataRequest{}), server.HandleDeleteDataMessage)
	server.RegisterTypedHandler(communication.MessageTypeExportMetadata, reflect.TypeOf(communication.ExportMetadataRequest{}), server.HandleExportMetadataMessage)
	server.RegisterTypedHandler(communication.MessageTypeStopServer, reflect.TypeOf(communication.StopServerRequest{}), server.HandleStopServerMessage)

	return server
}

func (s *DefaultServer) Start() error {
	s.ls.Info(log_service.LogEvent{
		Message:  "Starting cache server",
		Metadata: map[string]any{"address": s.comm.Address()},
	})
	return s.comm.Start(s.handleMessage)
}

func (s *DefaultServer) Stop() error {
	s.ls.Info(log_service.LogEvent{Message: "Stopping cache server"})
	s.cancel()
	return s.comm.Stop()
}

func (s *DefaultServer) RegisterTypedHandler(msgType string, payloadType reflect.Type, handler func(msg communication.Message) (*communication.Response, error)) {
	s.typedHandlers[msgType] = &TypedHandler{
		Handler:     handler,
		PayloadType: payloadType,
	}
}

func (s *DefaultServer) handleMessage(msg communication.Message) (*communication.Response, error) {
	typedHandler, exists := s.typedHandlers[msg.Type]
	if !exists {
		return &communication.Response{
			Code: communication.CodeBadRequest,
			Body: []byte(fmt.Sprintf("No handler registered for message type: %s", msg.Type)),
		}, nil
	}

	if msg.Payload != nil {
		actualType := reflect.TypeOf(msg.Payload)
		if actualType != typedHandler.PayloadType {
			return &communication.Response{
				Code: communication.CodeBadRequest,
				Body: []byte(fmt.Sprintf("Invalid payload type for %s: expected %s, got %s", msg.Type, typedHandler.PayloadType, actualType)),
			}, nil
		}
	}

	return typedHandler.Handler(msg)
}

// intercept runs the incoming interceptor chain and answers for the handler
// when the request is rejected.
func (s *DefaultServer) intercept(operation, key, userID string) (*interceptor_service.ServiceRequest, *communication.Response) {
	request := interceptor_service.NewServiceRequest(operation, key, userID, uuid.New().String())
	if err := s.is.InterceptIncoming(request); err != nil {
		s.ls.Warn(log_service.LogEvent{
			Message:  "Request rejected by interceptor",
			Metadata: map[string]any{"operation": operation, "key": key, "error": err.Error()},
		})
		return nil, &communication.Response{
			Code: communication.CodeBadRequest,
			Body: []byte(fmt.Sprintf("Request rejected: %v", err)),
		}
	}
	return request, nil
}

func (s *DefaultServer) HandleStoreDataMessage(msg communication.Message) (*communication.Response, error) {
	request := msg.Payload.(communication.StoreDataRequest)

	serviceRequest, rejected := s.intercept(communication.MessageTypeStoreData, request.Key, request.UserID)
	if rejected != nil {
		return rejected, nil
	}

	err := s.cache.StoreData(request.Key, request.Data, func(progress stream_cache_service.StreamProgress) {
		s.ls.Debug(log_service.LogEvent{
			Message:  "Upload progress",
			Metadata: map[string]any{"key": progress.Key, "progress": progress.String()},
		})
	})
	s.is.InterceptOutgoing(serviceRequest, err)
	if err != nil {
		s.ls.Error(log_service.LogEvent{
			Message:  "Store data failed",
			Metadata: map[string]any{"key": request.Key, "error": err.Error()},
		})
		return &communication.Response{
			Code: communication.CodeInternal,
			Body: []byte(fmt.Sprintf("Failed to store data: %v", err)),
		}, nil
	}

	if metadata, metaErr := s.cache.GetMetadata(request.Key); metaErr == nil {
		go s.gs.NotifyCacheCompletion(*metadata, request.DataType)
	} else {
		s.ls.Warn(log_service.LogEvent{
			Message:  "Skipping gateway notification, metadata unavailable",
			Metadata: map[string]any{"key": request.Key, "error": metaErr.Error()},
		})
	}

	return &communication.Response{
		Code: communication.CodeOK,
	}, nil
}

func (s *DefaultServer) HandleReadDataMessage(msg communication.Message) (*communication.Response, error) {
	request := msg.Payload.(communication.ReadDataRequest)

	serviceRequest, rejected := s.intercept(communication.MessageTypeReadData, request.Key, request.UserID)
	if rejected != nil {
		return rejected, nil
	}

	data, err := s.cache.ReadData(request.Key, nil)
	s.is.InterceptOutgoing(serviceRequest, err)
	if err != nil {
		if errors.Is(err, stream_cache_service.ErrMetadataNotFound) {
			return &communication.Response{
				Code: communication.CodeNotFound,
				Body: []byte(fmt.Sprintf("No cached data for key: %s", request.Key)),
			}, nil
		}
		s.ls.Error(log_service.LogEvent{
			Message:  "Read data failed",
			Metadata: map[string]any{"key": request.Key, "error": err.Error()},
		})
		return &communication.Response{
			Code: communication.CodeInternal,
			Body: []byte(fmt.Sprintf("Failed to read data: %v", err)),
		}, nil
	}

	body, err := json.Marshal(data)
	if err != nil {
		return &communication.Response{
			Code: communication.CodeInternal,
			Body: []byte(fmt.Sprintf("Failed to encode data: %v", err)),
		}, nil
	}

	return &communication.Response{
		Code: communication.CodeOK,
		Body: body,
	}, nil
}

func (s *DefaultServer) HandleDeleteDataMessage(msg communication.Message) (*communication.Response, error) {
	request := msg.Payload.(communication.DeleteDataRequest)

	serviceRequest, rejected := s.intercept(communication.MessageTypeDeleteData, request.Key, request.UserID)
	if rejected != nil {
		return rejected, nil
	}

	err := s.cache.DeleteData(request.Key)
	s.is.InterceptOutgoing(serviceRequest, err)
	if err != nil {
		s.ls.Error(log_service.LogEvent{
			Message:  "Delete data failed",
			Metadata: map[string]any{"key": request.Key, "error": err.Error()},
		})
		return &communication.Response{
			Code: communication.CodeInternal,
			Body: []byte(fmt.Sprintf("Failed to delete data: %v", err)),
		}, nil
	}

	return &communication.Response{
		Code: communication.CodeOK,
	}, nil
}

func (s *DefaultServer) HandleExportMetadataMessage(msg communication.Message) (*communication.Response, error) {
	request := msg.Payload.(communication.ExportMetadataRequest)

	serviceRequest, rejected := s.intercept(communication.MessageTypeExportMetadata, request.Path, request.UserID)
	if rejected != nil {
		return rejected, nil
	}

	rows, err := s.es.ExportMetadata(request.Path)
	s.is.InterceptOutgoing(serviceRequest, err)
	if err != nil {
		s.ls.Error(log_service.LogEvent{
			Message:  "Metadata export failed",
			Metadata: map[string]any{"path": request.Path, "error": err.Error()},
		})
		return &communication.Response{
			Code: communication.CodeInternal,
			Body: []byte(fmt.Sprintf("Failed to export metadata: %v", err)),
		}, nil
	}

	body, err := json.Marshal(communication.ExportMetadataResponse{Rows: rows})
	if err != nil {
		return &communication.Response{
			Code: communication.CodeInternal,
			Body: []byte(fmt.Sprintf("Failed to encode export response: %v", err)),
		}, nil
	}

	return &communication.Response{
		Code: communication.CodeOK,
		Body: body,
	}, nil
}

// HandleStopServerMessage acknowledges first, then stops asynchronously so
// the response can still make it back over the transport being torn down.
func (s *DefaultServer) HandleStopServerMessage(msg communication.Message) (*communication.Response, error) {
	s.ls.Info(log_service.LogEvent{
		Message:  "Stop requested over transport",
		Metadata: map[string]any{"from": msg.From},
	})

	go func() {
		if err := s.Stop(); err != nil {
			s.ls.Error(log_service.LogEvent{
				Message:  "Failed to stop server",
				Metadata: map[string]any{"error": err.Error()},
			})
		}
	}()

	return &communication.Response{
		Code: communication.CodeOK,
	}, nil
}

var _ Server = (*DefaultServer)(nil)
