package order

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"time"
)

// IDGenerator hands out fresh identifiers.
type IDGenerator interface {
	NextID() string
}

// IDGeneratorFunc adapts a plain function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NextID() string { return f() }

// TimestampIDs produces Prefix followed by a millisecond timestamp. Values are
// strictly increasing per generator, so two calls in the same millisecond
// still differ.
type TimestampIDs struct {
	Prefix string
	Now    func() time.Time

	mu   sync.Mutex
	last int64
}

func NewTimestampIDs(prefix string) *TimestampIDs {
	return &TimestampIDs{Prefix: prefix, Now: time.Now}
}

func (g *TimestampIDs) NextID() string {
	now := g.Now
	if now == nil {
		now = time.Now
	}
	ms := now().UnixMilli()

	g.mu.Lock()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	g.mu.Unlock()

	return g.Prefix + strconv.FormatInt(ms, 10)
}

// RandomIDs produces Prefix followed by a number in [0, Max). Collisions are
// possible; these identifiers are not security sensitive.
type RandomIDs struct {
	Prefix string
	Max    int64
	IntN   func(n int64) int64
}

func NewRandomIDs(prefix string, limit int64) *RandomIDs {
	return &RandomIDs{Prefix: prefix, Max: limit, IntN: rand.Int64N}
}

func (g *RandomIDs) NextID() string {
	intN := g.IntN
	if intN == nil {
		intN = rand.Int64N
	}
	return g.Prefix + strconv.FormatInt(intN(g.Max), 10)
}
