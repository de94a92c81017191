package shared

import (
	"sync"
	"time"
)

var (
	idMu   sync.Mutex
	lastID int64
)

// NextID returns a millisecond-timestamp identifier, bumped by one whenever
// two calls land inside the same millisecond so ids stay strictly increasing.
func NextID() int64 {
	idMu.Lock()
	defer idMu.Unlock()
	id := time.Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}
