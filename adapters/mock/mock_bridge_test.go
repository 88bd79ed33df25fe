package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/token"
	"github.com/ManuelElias1999/CuyFI/transport"
)

func TestBridgeQuoteAndSend(t *testing.T) {
	b := NewBridge("bridge")
	b.SetRouteFee(30102, 100)
	shares := token.New(domain.Asset{Ticker: "cuyUSDC", Decimals: 6})
	b.RegisterShareBook(30102, shares)
	ctx := context.Background()

	req := transport.SendRequest{DstChain: 30102, Recipient: "alice", Amount: 500, Kind: transport.KindShares}
	fee, err := b.QuoteSend(req)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), fee)

	_, err = b.QuoteSend(transport.SendRequest{DstChain: 99})
	assert.ErrorIs(t, err, transport.ErrUnknownRoute)

	_, err = b.Send(ctx, req, 99)
	assert.ErrorIs(t, err, transport.ErrInsufficientFee)

	rcpt, err := b.Send(ctx, req, 100)
	require.NoError(t, err)
	assert.NotEmpty(t, rcpt.GUID)
	assert.Equal(t, uint64(500), shares.BalanceOf("alice"))
	assert.Len(t, b.Outbox(), 1)
}

func TestBridgeFailNextSendIsOneShot(t *testing.T) {
	b := NewBridge("bridge")
	b.SetRouteFee(30102, 0)
	ctx := context.Background()
	req := transport.SendRequest{DstChain: 30102, Recipient: "alice", Amount: 1, Kind: transport.KindAsset}

	boom := errors.New("relayer outage")
	b.FailNextSend(boom)
	_, err := b.Send(ctx, req, 0)
	assert.ErrorIs(t, err, boom)

	_, err = b.Send(ctx, req, 0)
	assert.NoError(t, err)
}
