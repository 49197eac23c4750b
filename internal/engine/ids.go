package engine

import (
	"fmt"
	"sync"
	"time"
)

// IDGenerator issues result identifiers that are unique within a process
// and sort in issue order. IDs look like "1756110000-3": the generator's
// creation epoch followed by a counter.
type IDGenerator struct {
	mu    sync.Mutex
	epoch int64
	n     int64
}

// NewIDGenerator creates a generator stamped with the current Unix time.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{epoch: time.Now().Unix()}
}

// Next returns the next identifier. Safe for concurrent use.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%d-%d", g.epoch, g.n)
}
