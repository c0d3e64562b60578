package testutil

import (
	"fmt"
	"sync"
)

// DefaultRunID is what FixedIDGenerator returns when built without IDs.
const DefaultRunID = "test-run-default"

// FixedIDGenerator hands out predetermined run IDs so golden output and
// stored history stay byte-identical between runs.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator returns a generator yielding ids in order.
// With no ids it yields DefaultRunID forever.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next ID. It panics once a non-empty list is used up,
// which means a test ran more suites than it planned for.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.ids) == 0 {
		return DefaultRunID
	}
	if g.idx >= len(g.ids) {
		panic(fmt.Sprintf("FixedIDGenerator: all %d ids used", len(g.ids)))
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
