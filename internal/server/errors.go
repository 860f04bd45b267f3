package server

import "errors"

var (
	// Server lifecycle errors
	ErrServerStartFailed = errors.New("failed to start server")
	ErrServerStopFailed  = errors.New("failed to stop server")

	// Message handling errors
	ErrInvalidPayloadType   = errors.New("invalid payload type for message")
	ErrHandlerNotRegistered = errors.New("no handler registered for message type")

	// Cache operation errors
	ErrStoreDataFailed  = errors.New("failed to store data")
	ErrReadDataFailed   = errors.New("failed to read data")
	ErrDeleteDataFailed = errors.New("failed to delete data")
	ErrExportFailed     = errors.New("failed to export metadata")
)
