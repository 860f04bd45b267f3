package stream_cache_service

import "errors"

var (
	ErrEmptyKey = errors.New("cache key must not be empty")

	// Store errors
	ErrMetadataStoreFailed = errors.New("failed to store metadata")
	ErrChunkStoreFailed    = errors.New("failed to store chunk")

	// Read errors
	ErrMetadataNotFound   = errors.New("metadata not found")
	ErrMetadataReadFailed = errors.New("failed to read metadata")
	ErrChunkNotFound      = errors.New("chunk not found")
	ErrChunkReadFailed    = errors.New("failed to read chunk")

	// Delete errors
	ErrMetadataDeleteFailed = errors.New("failed to delete metadata")

	// Codec errors
	ErrRecordEncodeFailed = errors.New("failed to encode cache record")
	ErrRecordDecodeFailed = errors.New("failed to decode cache record")
)
