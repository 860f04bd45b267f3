package kv_service

import "errors"

var (
	// Key/value operation errors
	ErrKeyNotFound  = errors.New("key not found")
	ErrPutFailed    = errors.New("failed to put value")
	ErrGetFailed    = errors.New("failed to get value")
	ErrRemoveFailed = errors.New("failed to remove value")
	ErrListFailed   = errors.New("failed to list keys")

	// Connection errors
	ErrConnectFailed = errors.New("failed to connect to store")
)
