package service

import (
	"math/rand/v2"
	"sync"

	"github.com/mmynk/warikan/internal/metrics"
)

// Options configures the services.
type Options struct {
	// CurrencyUnit is appended to rendered amounts, e.g. "円".
	CurrencyUnit string

	// Seed makes random splits reproducible. Zero seeds from the runtime.
	Seed uint64

	// Metrics receives split computation counts. May be nil.
	Metrics *metrics.Metrics
}

// lockedRand serializes access to a *rand.Rand, which is not safe for
// concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed uint64) *lockedRand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &lockedRand{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (r *lockedRand) with(fn func(*rand.Rand)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.rng)
}

func (o Options) observe(mode string, computed bool) {
	if o.Metrics != nil {
		o.Metrics.ObserveSplit(mode, computed)
	}
}
