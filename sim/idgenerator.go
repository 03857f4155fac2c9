package sim

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator generates the IDs stamped on scheduled events. Each scheduler
// owns its own generator, so schedulers stay fully independent of each other.
type IDGenerator interface {
	// Generate an ID
	Generate() string
}

// NewSequentialIDGenerator returns a generator that produces "1", "2", ...
// The output is deterministic, which keeps simulation runs reproducible.
func NewSequentialIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(idNumber, 10)
}

// NewXIDGenerator returns a generator that produces globally unique IDs.
// Useful when the logs of multiple schedulers are merged for analysis.
func NewXIDGenerator() IDGenerator {
	return xidGenerator{}
}

type xidGenerator struct{}

func (g xidGenerator) Generate() string {
	return xid.New().String()
}
