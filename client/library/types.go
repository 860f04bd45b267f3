package cachelib

import (
	"errors"

	"github.com/dpetros/streamcache/internal/communication"
)

// ErrNotFound is returned by Load when no entry exists for the key.
var ErrNotFound = errors.New("cache entry not found")

// CacheClient is a typed client for one cache server. It is safe for
// concurrent use as long as the underlying communicator is.
type CacheClient struct {
	ServerAddr string
	Comm       communication.Communicator
	UserID     string
}
