package gateway_service

import (
	"context"
	"fmt"
	"time"

	"github.com/dpetros/streamcache/internal/communication"
	"github.com/dpetros/streamcache/internal/log_service"
	"github.com/dpetros/streamcache/internal/stream_cache_service"
	"github.com/google/uuid"
)

const notifyTimeout = 30 * time.Second

// CommGatewayService delivers completion notifications over the message
// communicator. An empty gateway address disables it.
type CommGatewayService struct {
	comm           communication.Communicator
	ls             log_service.LogService
	gatewayAddress string
	nodeID         string
}

func NewCommGatewayService(comm communication.Communicator, ls log_service.LogService, gatewayAddress string, nodeID string) *CommGatewayService {
	return &CommGatewayService{
		comm:           comm,
		ls:             ls,
		gatewayAddress: gatewayAddress,
		nodeID:         nodeID,
	}
}

// GenerateJobID derives a unique job identifier for one completed upload.
func GenerateJobID(cacheKey string) string {
	return fmt.Sprintf("cache-job-%s-%s", cacheKey, uuid.New().String())
}

func (gs *CommGatewayService) NotifyCacheCompletion(metadata stream_cache_service.CacheMetadata, dataType string) bool {
	if gs.gatewayAddress == "" {
		gs.ls.Debug(log_service.LogEvent{
			Message:  "Gateway notifications not configured, skipping",
			Metadata: map[string]any{"key": metadata.OriginalKey},
		})
		return false
	}

	notification := communication.CacheCompletionNotification{
		JobID:       GenerateJobID(metadata.OriginalKey),
		CacheKey:    metadata.OriginalKey,
		TotalSize:   metadata.TotalSize,
		TotalChunks: metadata.TotalChunks,
		ChunkSize:   metadata.ChunkSize,
		DataType:    dataType,
		Timestamp:   metadata.Timestamp,
	}

	gs.ls.Info(log_service.LogEvent{
		Message: "Notifying gateway of cache completion",
		Metadata: map[string]any{
			"jobId":       notification.JobID,
			"key":         notification.CacheKey,
			"totalSize":   notification.TotalSize,
			"totalChunks": notification.TotalChunks,
			"dataType":    dataType,
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	resp, err := gs.comm.Send(ctx, gs.gatewayAddress, communication.Message{
		From:    gs.nodeID,
		Type:    communication.MessageTypeCacheCompletion,
		Payload: notification,
	})
	if err != nil {
		gs.ls.Warn(log_service.LogEvent{
			Message:  "Gateway notification failed",
			Metadata: map[string]any{"jobId": notification.JobID, "error": err.Error()},
		})
		return false
	}
	if resp.Code != communication.CodeOK {
		gs.ls.Warn(log_service.LogEvent{
			Message:  "Gateway rejected notification",
			Metadata: map[string]any{"jobId": notification.JobID, "code": resp.Code},
		})
		return false
	}

	gs.ls.Info(log_service.LogEvent{
		Message:  "Gateway notification acknowledged",
		Metadata: map[string]any{"jobId": notification.JobID},
	})

	return true
}

var _ GatewayService = (*CommGatewayService)(nil)
