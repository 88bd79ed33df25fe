// Package token provides the in-process fungible balance book used for the
// vault's underlying asset and for spoke-side share representations. It is
// simulated custody: transfers are atomic and either fully apply or fail with
// no state change.
package token

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/safemath"
)

var (
	ErrZeroAddress         = errors.New("zero address")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Token is a fungible balance book for one asset on one chain.
type Token struct {
	mu       sync.Mutex
	asset    domain.Asset
	supply   uint64
	balances map[domain.Address]uint64
}

func New(asset domain.Asset) *Token {
	return &Token{
		asset:    asset,
		balances: make(map[domain.Address]uint64),
	}
}

func (t *Token) Asset() domain.Asset { return t.asset }

func (t *Token) TotalSupply() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.supply
}

func (t *Token) BalanceOf(holder domain.Address) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balances[holder]
}

// Mint credits new units to a holder. Test/bridge fixture path — the vault's
// own shares are accounted inside the ledger, not here.
func (t *Token) Mint(to domain.Address, amount uint64) error {
	if to.IsZero() {
		return ErrZeroAddress
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	supply, ok := safemath.Add64(t.supply, amount)
	if !ok {
		return fmt.Errorf("mint %d to %s: %w", amount, to, safemath.ErrOverflow)
	}
	bal, ok := safemath.Add64(t.balances[to], amount)
	if !ok {
		return fmt.Errorf("mint %d to %s: %w", amount, to, safemath.ErrOverflow)
	}
	t.supply = supply
	t.balances[to] = bal
	return nil
}

// Burn removes units from a holder.
func (t *Token) Burn(from domain.Address, amount uint64) error {
	if from.IsZero() {
		return ErrZeroAddress
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	bal, ok := safemath.Sub64(t.balances[from], amount)
	if !ok {
		return fmt.Errorf("burn %d from %s: %w", amount, from, ErrInsufficientBalance)
	}
	t.balances[from] = bal
	t.supply -= amount
	if bal == 0 {
		delete(t.balances, from)
	}
	return nil
}

// Transfer moves units between holders. There is no partial outcome: the
// transfer applies entirely or the balances are untouched.
func (t *Token) Transfer(from, to domain.Address, amount uint64) error {
	if from.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	src, ok := safemath.Sub64(t.balances[from], amount)
	if !ok {
		return fmt.Errorf("transfer %d from %s: %w", amount, from, ErrInsufficientBalance)
	}
	dst, ok := safemath.Add64(t.balances[to], amount)
	if !ok {
		return fmt.Errorf("transfer %d to %s: %w", amount, to, safemath.ErrOverflow)
	}
	t.balances[from] = src
	t.balances[to] = dst
	if src == 0 {
		delete(t.balances, from)
	}
	return nil
}
