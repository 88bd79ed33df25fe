package twostep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelElias1999/CuyFI/adapters/mock"
	"github.com/ManuelElias1999/CuyFI/protocol"
)

const receiptSymbol = "PT-USDC"

var (
	base     = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	maturity = base.AddDate(0, 6, 0)
)

type harness struct {
	adapter *Adapter
	oracle  *mock.Oracle
	now     *time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	now := base
	oracle := mock.NewOracle()
	a, err := New("fixed-yield", receiptSymbol, maturity, decimal.NewFromInt(1), oracle, time.Hour,
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)
	return &harness{adapter: a, oracle: oracle, now: &now}
}

func TestNewRejectsNonPositiveRate(t *testing.T) {
	_, err := New("fixed-yield", receiptSymbol, maturity, decimal.Zero, mock.NewOracle(), time.Hour)
	assert.ErrorIs(t, err, protocol.ErrInvalidPrice)
}

func TestStakeAtMarketRate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// Principal tokens trade at a discount before maturity.
	h.oracle.SetPrice(receiptSymbol, decimal.RequireFromString("0.95"), base)
	receipts, err := h.adapter.Stake(ctx, 95_000, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), receipts)
}

func TestRequestThenFinalize(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.oracle.SetPrice(receiptSymbol, decimal.RequireFromString("0.95"), base)

	// The claim value is fixed at request time at the then-current valuation.
	want, err := h.adapter.GetDepositTokenForReceipts(100_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(95_000), want)

	id, err := h.adapter.RequestUnstake(ctx, 100_000, nil)
	require.NoError(t, err)
	assert.True(t, h.adapter.IsWithdrawalClaimable(id))

	got, err := h.adapter.FinalizeUnstake(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.False(t, h.adapter.IsWithdrawalClaimable(id))

	_, err = h.adapter.FinalizeUnstake(ctx, id)
	assert.ErrorIs(t, err, protocol.ErrUnknownRequest)
}

func TestRequestIDsAreDistinct(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.oracle.SetPrice(receiptSymbol, decimal.NewFromInt(1), base)

	a, err := h.adapter.RequestUnstake(ctx, 100, nil)
	require.NoError(t, err)
	b, err := h.adapter.RequestUnstake(ctx, 100, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPostMaturityUsesRedemptionRate(t *testing.T) {
	h := newHarness(t)

	// No oracle price set: after maturity the fixed rate applies and the
	// oracle is never consulted.
	*h.now = maturity
	value, err := h.adapter.GetDepositTokenForReceipts(100_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), value)
}

func TestStalePriceRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.oracle.SetPrice(receiptSymbol, decimal.NewFromInt(1), base.Add(-2*time.Hour))
	_, err := h.adapter.Stake(ctx, 1_000, nil)
	assert.ErrorIs(t, err, protocol.ErrStalePrice)

	h.oracle.SetPrice(receiptSymbol, decimal.Zero, base)
	_, err = h.adapter.Stake(ctx, 1_000, nil)
	assert.ErrorIs(t, err, protocol.ErrInvalidPrice)

	h.oracle.FailWith(errors.New("feed down"))
	_, err = h.adapter.Stake(ctx, 1_000, nil)
	assert.Error(t, err)
}

func TestNoRewardSurface(t *testing.T) {
	h := newHarness(t)
	assets, amounts, err := h.adapter.Harvest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, assets)
	assert.Nil(t, amounts)
	assert.Equal(t, uint64(0), h.adapter.GetPendingRewards())
}

func TestValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.adapter.Stake(ctx, 0, nil)
	assert.ErrorIs(t, err, protocol.ErrZeroAmount)
	_, err = h.adapter.RequestUnstake(ctx, 0, nil)
	assert.ErrorIs(t, err, protocol.ErrZeroAmount)
	assert.Equal(t, "fixed-yield", h.adapter.GetProtocolName())
}
