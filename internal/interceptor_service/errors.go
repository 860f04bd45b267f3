package interceptor_service

import "errors"

var (
	ErrMissingOperation = errors.New("request has no operation")
	ErrMissingKey       = errors.New("request has no cache key")
)
