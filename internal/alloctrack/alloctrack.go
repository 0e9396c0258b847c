// Package alloctrack accounts for every dynamically constructed morphism
// context in the engine. Each construction reserves one unit, each release
// returns it, so tests can assert that a run leaked nothing and released
// nothing twice.
//
// Reserve is also the seam for the one recoverable runtime failure the engine
// knows: resource exhaustion while building a dynamic context. Production
// code never fails here; tests inject failures through FailReserves to
// verify that a failed construction consumes no operands.
package alloctrack

import (
	"errors"
	"sync/atomic"
)

// ErrExhausted signals that reserving storage for a dynamic context failed.
var ErrExhausted = errors.New("alloctrack: resource exhausted")

var (
	live     atomic.Int64
	reserved atomic.Int64
	released atomic.Int64
	skips    atomic.Int64
	failures atomic.Int64
)

// Reserve claims one accounting unit for a dynamic context under
// construction. It fails only when a test armed FailReserves.
func Reserve() error {
	if failures.Load() > 0 {
		if skips.Load() > 0 {
			skips.Add(-1)
		} else {
			failures.Add(-1)
			return ErrExhausted
		}
	}
	live.Add(1)
	reserved.Add(1)
	return nil
}

// Return gives back one accounting unit on release of a dynamic context.
func Return() {
	live.Add(-1)
	released.Add(1)
}

// Live reports the number of reserved-but-unreleased units.
func Live() int64 {
	return live.Load()
}

// Counts reports the total reservations and releases since process start.
func Counts() (reservations, releases int64) {
	return reserved.Load(), released.Load()
}

// FailReserves arms the injection: the next afterSuccesses Reserve calls
// succeed, the n after those fail with ErrExhausted, and everything after
// behaves normally again.
func FailReserves(afterSuccesses, n int64) {
	skips.Store(afterSuccesses)
	failures.Store(n)
}
