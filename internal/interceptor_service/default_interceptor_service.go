package interceptor_service

import (
	"time"

	"github.com/dpetros/streamcache/internal/communication"
	"github.com/dpetros/streamcache/internal/log_service"
)

// Operations that change cache state; an anonymous caller on one of these
// is recorded as a security warning in the audit trail.
var mutatingOperations = map[string]bool{
	communication.MessageTypeStoreData:  true,
	communication.MessageTypeDeleteData: true,
}

type DefaultInterceptorService struct {
	ls log_service.LogService
}

func NewDefaultInterceptorService(ls log_service.LogService) *DefaultInterceptorService {
	return &DefaultInterceptorService{ls: ls}
}

func (is *DefaultInterceptorService) InterceptIncoming(request *ServiceRequest) error {
	if request.Operation == "" {
		return ErrMissingOperation
	}
	if request.Key == "" {
		is.ls.Warn(log_service.LogEvent{
			Message:  "Rejecting request without cache key",
			Metadata: map[string]any{"operation": request.Operation, "userId": request.UserID},
		})
		return ErrMissingKey
	}

	request.AddAuditData("audit_start", request.ReceivedAt.UnixMilli())

	is.ls.Info(log_service.LogEvent{
		Message: "Audit incoming request",
		Metadata: map[string]any{
			"operation": request.Operation,
			"key":       request.Key,
			"userId":    request.UserID,
			"sessionId": request.SessionID,
		},
	})

	if mutatingOperations[request.Operation] && request.UserID == "" {
		is.ls.Warn(log_service.LogEvent{
			Message:  "Unauthenticated caller on mutating operation",
			Metadata: map[string]any{"operation": request.Operation, "key": request.Key},
		})
		request.AddAuditData("security_warning", "missing user authentication")
	} else {
		request.AddAuditData("security_status", "authorized")
	}

	return nil
}

func (is *DefaultInterceptorService) InterceptOutgoing(request *ServiceRequest, operationErr error) {
	elapsed := time.Since(request.ReceivedAt)
	request.AddAuditData("elapsed_ms", elapsed.Milliseconds())

	metadata := map[string]any{
		"operation": request.Operation,
		"key":       request.Key,
		"userId":    request.UserID,
		"elapsedMs": elapsed.Milliseconds(),
	}
	if operationErr != nil {
		metadata["error"] = operationErr.Error()
		is.ls.Warn(log_service.LogEvent{
			Message:  "Audit outgoing request with error",
			Metadata: metadata,
		})
		return
	}

	is.ls.Info(log_service.LogEvent{
		Message:  "Audit outgoing request",
		Metadata: metadata,
	})
}

var _ InterceptorService = (*DefaultInterceptorService)(nil)
