// Package instant implements protocol.Adapter over an instant-settlement
// yield source: a liquid-staking style protocol whose receipts appreciate
// against a live yield index and which allows direct single-step withdrawal,
// so the two-step unstake primitives are unconditionally rejected.
package instant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/protocol"
)

var ErrIndexDecreased = errors.New("yield index cannot decrease")

// Adapter tracks one position in the protocol. The yield index is deposit
// tokens per receipt and only ever grows.
type Adapter struct {
	mu          sync.Mutex
	name        string
	index       decimal.Decimal
	rewardAsset domain.Asset
	rewards     uint64
}

func New(name string, initialIndex decimal.Decimal, rewardAsset domain.Asset) (*Adapter, error) {
	if !initialIndex.IsPositive() {
		return nil, fmt.Errorf("index %s: %w", initialIndex, protocol.ErrZeroAmount)
	}
	return &Adapter{name: name, index: initialIndex, rewardAsset: rewardAsset}, nil
}

// Stake converts deposit tokens to receipts at the live index.
func (a *Adapter) Stake(ctx context.Context, amount uint64, data []byte) (uint64, error) {
	if amount == 0 {
		return 0, protocol.ErrZeroAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	receipts, ok := protocol.Uint64Floor(protocol.DecimalFromUint64(amount).Div(a.index))
	if !ok || receipts == 0 {
		return 0, fmt.Errorf("amount %d below one receipt at index %s: %w", amount, a.index, protocol.ErrZeroAmount)
	}
	slog.Info("⚙️ [Instant] Staked", "protocol", a.name, "amount", amount, "receipts", receipts)
	return receipts, nil
}

// RequestUnstake always rejects: the protocol settles withdrawals in a
// single step via Unstake.
func (a *Adapter) RequestUnstake(ctx context.Context, receipts uint64, data []byte) (protocol.RequestID, error) {
	return 0, fmt.Errorf("%s: %w", a.name, protocol.ErrNotSupported)
}

// FinalizeUnstake always rejects, mirroring RequestUnstake.
func (a *Adapter) FinalizeUnstake(ctx context.Context, id protocol.RequestID) (uint64, error) {
	return 0, fmt.Errorf("%s: %w", a.name, protocol.ErrNotSupported)
}

// Unstake is the protocol's direct withdrawal: receipts back to deposit
// tokens at the live index, settled immediately.
func (a *Adapter) Unstake(ctx context.Context, receipts uint64) (uint64, error) {
	if receipts == 0 {
		return 0, protocol.ErrZeroAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	amount, ok := protocol.Uint64Floor(protocol.DecimalFromUint64(receipts).Mul(a.index))
	if !ok {
		return 0, fmt.Errorf("valuation overflow at index %s", a.index)
	}
	slog.Info("⚙️ [Instant] Unstaked", "protocol", a.name, "receipts", receipts, "amount", amount)
	return amount, nil
}

// Harvest claims accrued rewards and resets the pending counter.
func (a *Adapter) Harvest(ctx context.Context) ([]domain.Asset, []uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rewards == 0 {
		return nil, nil, nil
	}
	amount := a.rewards
	a.rewards = 0
	return []domain.Asset{a.rewardAsset}, []uint64{amount}, nil
}

func (a *Adapter) GetPendingRewards() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rewards
}

func (a *Adapter) IsWithdrawalClaimable(id protocol.RequestID) bool { return false }

// GetDepositTokenForReceipts values receipts at the live yield index.
func (a *Adapter) GetDepositTokenForReceipts(receipts uint64) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	amount, ok := protocol.Uint64Floor(protocol.DecimalFromUint64(receipts).Mul(a.index))
	if !ok {
		return 0, fmt.Errorf("valuation overflow at index %s", a.index)
	}
	return amount, nil
}

func (a *Adapter) GetProtocolName() string { return a.name }

// SetIndex advances the yield index. Simulation hook for accrual.
func (a *Adapter) SetIndex(index decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if index.LessThan(a.index) {
		return fmt.Errorf("%s -> %s: %w", a.index, index, ErrIndexDecreased)
	}
	a.index = index
	return nil
}

// AccrueRewards adds claimable rewards. Simulation hook.
func (a *Adapter) AccrueRewards(amount uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rewards += amount
}
