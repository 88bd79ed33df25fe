// Package guard provides the non-reentrant entry guard held by every
// externally-reachable mutating operation that later invokes external code
// (transport dispatch, protocol adapters, swap targets). A reentrant callback
// must never observe or mutate ledger state mid-operation.
package guard

import (
	"errors"
	"sync"
)

var ErrReentrancy = errors.New("reentrant call")

// Guard is a single in-progress flag. Enter fails if the guarded surface is
// already mid-operation; Exit releases it.
type Guard struct {
	mu   sync.Mutex
	busy bool
}

func (g *Guard) Enter() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return ErrReentrancy
	}
	g.busy = true
	return nil
}

func (g *Guard) Exit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.busy = false
}
