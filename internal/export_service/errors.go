package export_service

import "errors"

var (
	ErrListFailed       = errors.New("failed to list metadata records")
	ErrFileCreateFailed = errors.New("failed to create export file")
	ErrWriteFailed      = errors.New("failed to write export file")
)
