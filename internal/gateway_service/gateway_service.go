package gateway_service

import "github.com/dpetros/streamcache/internal/stream_cache_service"

// GatewayService notifies an external gateway when a chunked upload
// completes. Notification is fire-and-forget from the caller's point of
// view: failures are logged, never propagated.
type GatewayService interface {
	NotifyCacheCompletion(metadata stream_cache_service.CacheMetadata, dataType string) bool
}
