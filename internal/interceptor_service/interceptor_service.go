package interceptor_service

import "time"

// ServiceRequest carries one inbound operation through the interceptor
// chain. AuditData accumulates whatever the interceptors want recorded.
type ServiceRequest struct {
	Operation  string
	Key        string
	UserID     string
	SessionID  string
	ReceivedAt time.Time
	AuditData  map[string]any
}

func NewServiceRequest(operation, key, userID, sessionID string) *ServiceRequest {
	return &ServiceRequest{
		Operation:  operation,
		Key:        key,
		UserID:     userID,
		SessionID:  sessionID,
		ReceivedAt: time.Now(),
		AuditData:  make(map[string]any),
	}
}

func (r *ServiceRequest) AddAuditData(key string, value any) {
	r.AuditData[key] = value
}

// InterceptorService runs a request through the audit and security chain
// before the cache operation executes, and closes the audit trail after.
// Interceptors run sequentially and in-process.
type InterceptorService interface {
	InterceptIncoming(request *ServiceRequest) error
	InterceptOutgoing(request *ServiceRequest, operationErr error)
}
