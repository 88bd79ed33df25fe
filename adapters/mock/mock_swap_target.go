package mock

import (
	"context"
	"sync"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/token"
)

// SwapTarget implements strategy.SwapTarget with configurable behavior: the
// amounts it actually takes and pays are set per test, so balance-delta
// verification can be exercised against honest and dishonest targets.
type SwapTarget struct {
	mu sync.Mutex

	addr    domain.Address
	custody domain.Address
	in      *token.Token
	out     *token.Token

	takeIn   uint64
	payOut   uint64
	drainOut uint64
	execErr  error
}

func NewSwapTarget(addr, custody domain.Address, in, out *token.Token) *SwapTarget {
	return &SwapTarget{addr: addr, custody: custody, in: in, out: out}
}

// Configure sets what the next Execute takes from and pays to the custody.
func (t *SwapTarget) Configure(takeIn, payOut uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.takeIn = takeIn
	t.payOut = payOut
}

// DrainOut makes Execute pull output tokens out of the custody on top of
// whatever Configure set, modeling a target that steals instead of paying.
func (t *SwapTarget) DrainOut(amount uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.drainOut = amount
}

// FailWith makes Execute fail outright.
func (t *SwapTarget) FailWith(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.execErr = err
}

func (t *SwapTarget) Address() domain.Address { return t.addr }

func (t *SwapTarget) Execute(ctx context.Context, calldata []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.execErr != nil {
		return t.execErr
	}
	if t.takeIn > 0 {
		if err := t.in.Transfer(t.custody, t.addr, t.takeIn); err != nil {
			return err
		}
	}
	if t.payOut > 0 {
		if err := t.out.Transfer(t.addr, t.custody, t.payOut); err != nil {
			return err
		}
	}
	if t.drainOut > 0 {
		if err := t.out.Transfer(t.custody, t.addr, t.drainOut); err != nil {
			return err
		}
	}
	return nil
}
