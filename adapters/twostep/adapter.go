// Package twostep implements protocol.Adapter over a fixed-yield protocol
// whose receipts are principal tokens maturing at a known time. Unstaking is
// two-step: RequestUnstake converts receipts into a recorded claim at the
// current valuation, FinalizeUnstake redeems it. Valuation is market-rate
// implied before maturity (read from the price oracle) and a fixed
// redemption rate after.
package twostep

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/protocol"
)

// Adapter tracks one position and its open unstake claims.
type Adapter struct {
	mu sync.Mutex

	name           string
	receiptSymbol  string
	maturity       time.Time
	redemptionRate decimal.Decimal
	oracle         protocol.PriceOracle
	priceMaxAge    time.Duration

	requests map[protocol.RequestID]uint64
	nonce    uint64
	now      func() time.Time
}

// Option tweaks adapter construction.
type Option func(*Adapter)

// WithClock injects a time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

func New(name, receiptSymbol string, maturity time.Time, redemptionRate decimal.Decimal, oracle protocol.PriceOracle, priceMaxAge time.Duration, opts ...Option) (*Adapter, error) {
	if !redemptionRate.IsPositive() {
		return nil, fmt.Errorf("redemption rate %s: %w", redemptionRate, protocol.ErrInvalidPrice)
	}
	a := &Adapter{
		name:           name,
		receiptSymbol:  receiptSymbol,
		maturity:       maturity,
		redemptionRate: redemptionRate,
		oracle:         oracle,
		priceMaxAge:    priceMaxAge,
		requests:       make(map[protocol.RequestID]uint64),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// rateLocked is the receipt valuation in deposit tokens: market-implied
// before maturity, fixed redemption after.
func (a *Adapter) rateLocked(ctx context.Context) (decimal.Decimal, error) {
	t := a.now()
	if t.Before(a.maturity) {
		return protocol.ValidatedPrice(ctx, a.oracle, a.receiptSymbol, a.priceMaxAge, t)
	}
	return a.redemptionRate, nil
}

// Stake buys receipts at the current rate.
func (a *Adapter) Stake(ctx context.Context, amount uint64, data []byte) (uint64, error) {
	if amount == 0 {
		return 0, protocol.ErrZeroAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	rate, err := a.rateLocked(ctx)
	if err != nil {
		return 0, fmt.Errorf("stake: %w", err)
	}
	receipts, ok := protocol.Uint64Floor(protocol.DecimalFromUint64(amount).Div(rate))
	if !ok || receipts == 0 {
		return 0, fmt.Errorf("amount %d below one receipt at rate %s: %w", amount, rate, protocol.ErrZeroAmount)
	}
	slog.Info("⏳ [TwoStep] Staked", "protocol", a.name, "amount", amount, "receipts", receipts, "rate", rate)
	return receipts, nil
}

// RequestUnstake converts receipts into an intermediate claim whose
// redemption value is fixed now and recorded under a generated request id.
func (a *Adapter) RequestUnstake(ctx context.Context, receipts uint64, data []byte) (protocol.RequestID, error) {
	if receipts == 0 {
		return 0, protocol.ErrZeroAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	value, err := a.valueLocked(ctx, receipts)
	if err != nil {
		return 0, fmt.Errorf("request unstake: %w", err)
	}
	id := protocol.RequestID(a.nonce)
	a.nonce++
	a.requests[id] = value

	slog.Info("⏳ [TwoStep] Unstake requested", "protocol", a.name, "request_id", id, "receipts", receipts, "value", value)
	return id, nil
}

// FinalizeUnstake redeems the stored claim and clears the record.
func (a *Adapter) FinalizeUnstake(ctx context.Context, id protocol.RequestID) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	value, ok := a.requests[id]
	if !ok {
		return 0, fmt.Errorf("request %d: %w", id, protocol.ErrUnknownRequest)
	}
	delete(a.requests, id)
	slog.Info("⏳ [TwoStep] Unstake finalized", "protocol", a.name, "request_id", id, "value", value)
	return value, nil
}

// Harvest is a no-op: fixed-yield receipts accrue value in the rate, not as
// claimable reward tokens.
func (a *Adapter) Harvest(ctx context.Context) ([]domain.Asset, []uint64, error) {
	return nil, nil, nil
}

func (a *Adapter) GetPendingRewards() uint64 { return 0 }

func (a *Adapter) IsWithdrawalClaimable(id protocol.RequestID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.requests[id]
	return ok
}

// GetDepositTokenForReceipts values receipts under the current regime.
func (a *Adapter) GetDepositTokenForReceipts(receipts uint64) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.valueLocked(context.Background(), receipts)
}

func (a *Adapter) valueLocked(ctx context.Context, receipts uint64) (uint64, error) {
	rate, err := a.rateLocked(ctx)
	if err != nil {
		return 0, err
	}
	value, ok := protocol.Uint64Floor(protocol.DecimalFromUint64(receipts).Mul(rate))
	if !ok {
		return 0, fmt.Errorf("valuation overflow at rate %s", rate)
	}
	return value, nil
}

func (a *Adapter) GetProtocolName() string { return a.name }
