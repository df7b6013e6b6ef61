// Package refnum produces the human-readable reference numbers handed
// to applicants. A reference has the form
//
//	STJT-{year}-{last six digits of unix millis}-{four random digits}
//
// Uniqueness rests on time plus randomness, not on a counter or lock,
// so the persistence layer detects collisions and the caller retries a
// bounded number of times.
package refnum

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// Prefix is the institute code that opens every reference number.
const Prefix = "STJT"

// Generator allocates reference numbers. The clock and random source
// are injectable so tests can pin both.
type Generator struct {
	now  func() time.Time
	mu   sync.Mutex
	rand *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRand replaces the random source.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rand = r }
}

// NewGenerator returns a Generator seeded from the current time.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		now:  time.Now,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a new reference number. Distinct calls within the
// same millisecond differ unless the random suffixes also collide.
func (g *Generator) Generate() string {
	now := g.now()

	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}

	g.mu.Lock()
	random := g.rand.Intn(10000)
	g.mu.Unlock()

	return fmt.Sprintf("%s-%d-%s-%04d", Prefix, now.Year(), millis, random)
}
