package token

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/safemath"
)

func newUSDC() *Token {
	return New(domain.Asset{Ticker: "USDC", Name: "USD Coin", Decimals: 6})
}

func TestMintAndTransfer(t *testing.T) {
	tok := newUSDC()
	require.NoError(t, tok.Mint("alice", 1_000_000))
	assert.Equal(t, uint64(1_000_000), tok.TotalSupply())

	require.NoError(t, tok.Transfer("alice", "bob", 400_000))
	assert.Equal(t, uint64(600_000), tok.BalanceOf("alice"))
	assert.Equal(t, uint64(400_000), tok.BalanceOf("bob"))
	assert.Equal(t, uint64(1_000_000), tok.TotalSupply())
}

func TestTransferInsufficient(t *testing.T) {
	tok := newUSDC()
	require.NoError(t, tok.Mint("alice", 100))

	err := tok.Transfer("alice", "bob", 101)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, uint64(100), tok.BalanceOf("alice"))
	assert.Equal(t, uint64(0), tok.BalanceOf("bob"))
}

func TestZeroAddressRejected(t *testing.T) {
	tok := newUSDC()
	assert.ErrorIs(t, tok.Mint(domain.ZeroAddress, 1), ErrZeroAddress)
	assert.ErrorIs(t, tok.Transfer(domain.ZeroAddress, "bob", 1), ErrZeroAddress)
	assert.ErrorIs(t, tok.Transfer("alice", domain.ZeroAddress, 1), ErrZeroAddress)
}

func TestMintOverflow(t *testing.T) {
	tok := newUSDC()
	require.NoError(t, tok.Mint("alice", math.MaxUint64))
	assert.ErrorIs(t, tok.Mint("bob", 1), safemath.ErrOverflow)
}

func TestBurn(t *testing.T) {
	tok := newUSDC()
	require.NoError(t, tok.Mint("alice", 500))
	require.NoError(t, tok.Burn("alice", 500))
	assert.Equal(t, uint64(0), tok.TotalSupply())
	assert.ErrorIs(t, tok.Burn("alice", 1), ErrInsufficientBalance)
}
