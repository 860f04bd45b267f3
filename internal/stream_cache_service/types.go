package stream_cache_service

import (
	"fmt"
	"strings"
)

// CacheMetadata is the bookkeeping record for one logical entry, stored
// under "meta:" + key. ChunkSize is the size the entry was written with,
// which may differ from the service's current default.
type CacheMetadata struct {
	OriginalKey string `json:"originalKey"`
	Timestamp   string `json:"timestamp"`
	TotalSize   int    `json:"totalSize"`
	TotalChunks int    `json:"totalChunks"`
	ChunkSize   int    `json:"chunkSize"`
}

// CacheChunk is one fragment of a logical entry's payload, stored under
// "chunk:" + key + ":" + index. Timestamp matches the metadata record of
// the same write.
type CacheChunk struct {
	ChunkIndex int    `json:"chunkIndex"`
	Data       []byte `json:"data"`
	Timestamp  string `json:"timestamp"`
}

// StreamProgress describes how far a store or read operation has advanced.
// Events are transient and never persisted.
type StreamProgress struct {
	Key          string
	CurrentChunk int
	TotalChunks  int
	Message      string
}

func (p StreamProgress) ProgressPercent() int {
	if p.TotalChunks == 0 {
		return 0
	}
	return int(float64(p.CurrentChunk) / float64(p.TotalChunks) * 100)
}

func (p StreamProgress) Completed() bool {
	return p.CurrentChunk >= p.TotalChunks && p.TotalChunks > 0
}

// HasError is the only machine-checkable failure signal carried by a
// progress event; every failure path emits a message matching it.
func (p StreamProgress) HasError() bool {
	lower := strings.ToLower(p.Message)
	return strings.Contains(lower, "failed") || strings.Contains(lower, "error")
}

func (p StreamProgress) String() string {
	return fmt.Sprintf("StreamProgress{key=%s, progress=%d/%d (%d%%), message=%s}",
		p.Key, p.CurrentChunk, p.TotalChunks, p.ProgressPercent(), p.Message)
}
