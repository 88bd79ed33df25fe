package instant

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/protocol"
)

var rewardAsset = domain.Asset{Ticker: "RWD", Decimals: 18}

func newAdapter(t *testing.T, index string) *Adapter {
	t.Helper()
	a, err := New("liquid-staker", decimal.RequireFromString(index), rewardAsset)
	require.NoError(t, err)
	return a
}

func TestNewRejectsNonPositiveIndex(t *testing.T) {
	_, err := New("liquid-staker", decimal.Zero, rewardAsset)
	assert.ErrorIs(t, err, protocol.ErrZeroAmount)
	_, err = New("liquid-staker", decimal.NewFromInt(-1), rewardAsset)
	assert.ErrorIs(t, err, protocol.ErrZeroAmount)
}

func TestStakeAtIndex(t *testing.T) {
	a := newAdapter(t, "1.25")
	ctx := context.Background()

	receipts, err := a.Stake(ctx, 1_000, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(800), receipts)

	_, err = a.Stake(ctx, 0, nil)
	assert.ErrorIs(t, err, protocol.ErrZeroAmount)
}

func TestIndexGrowthRaisesValuation(t *testing.T) {
	a := newAdapter(t, "1.0")
	ctx := context.Background()

	receipts, err := a.Stake(ctx, 1_000, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), receipts)

	require.NoError(t, a.SetIndex(decimal.RequireFromString("1.1")))
	value, err := a.GetDepositTokenForReceipts(receipts)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_100), value)

	amount, err := a.Unstake(ctx, receipts)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_100), amount)
}

func TestIndexCannotDecrease(t *testing.T) {
	a := newAdapter(t, "1.5")
	err := a.SetIndex(decimal.RequireFromString("1.4"))
	assert.ErrorIs(t, err, ErrIndexDecreased)
	// Equal is allowed: no-op accrual ticks happen.
	assert.NoError(t, a.SetIndex(decimal.RequireFromString("1.5")))
}

func TestTwoStepPrimitivesRejected(t *testing.T) {
	a := newAdapter(t, "1.0")
	ctx := context.Background()

	_, err := a.RequestUnstake(ctx, 100, nil)
	assert.ErrorIs(t, err, protocol.ErrNotSupported)
	_, err = a.FinalizeUnstake(ctx, 0)
	assert.ErrorIs(t, err, protocol.ErrNotSupported)
	assert.False(t, a.IsWithdrawalClaimable(0))
}

func TestHarvestDrainsRewards(t *testing.T) {
	a := newAdapter(t, "1.0")
	ctx := context.Background()

	assets, amounts, err := a.Harvest(ctx)
	require.NoError(t, err)
	assert.Nil(t, assets)
	assert.Nil(t, amounts)

	a.AccrueRewards(500)
	a.AccrueRewards(250)
	assert.Equal(t, uint64(750), a.GetPendingRewards())

	assets, amounts, err = a.Harvest(ctx)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, rewardAsset, assets[0])
	assert.Equal(t, []uint64{750}, amounts)
	assert.Equal(t, uint64(0), a.GetPendingRewards())
}

func TestStakeBelowOneReceipt(t *testing.T) {
	a := newAdapter(t, "1000")
	_, err := a.Stake(context.Background(), 999, nil)
	assert.ErrorIs(t, err, protocol.ErrZeroAmount)
}
