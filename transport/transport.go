// Package transport defines the port for the cross-chain messaging layer.
// The composer and the strategy executor talk ONLY to these interfaces —
// never to a concrete bridge implementation directly.
package transport

import (
	"context"
	"errors"

	"github.com/ManuelElias1999/CuyFI/domain"
)

var (
	ErrInsufficientFee = errors.New("insufficient transport fee")
	ErrUnknownRoute    = errors.New("no route to destination chain")
)

// Kind classifies what a message carries on its value leg.
type Kind string

const (
	KindAsset  Kind = "ASSET"  // underlying-asset value (capital deployment)
	KindShares Kind = "SHARES" // vault shares (deposit return leg)
)

// SendRequest describes one outbound cross-chain message. Payload is an
// opaque instruction blob interpreted by the destination endpoint; the
// transport never inspects it.
type SendRequest struct {
	DstChain  domain.ChainID
	Recipient domain.Address
	Amount    uint64
	Kind      Kind
	Payload   []byte
}

// Receipt acknowledges that a message was handed to the transport. It means
// "handed off", not "arrived": delivery is asynchronous and at-least-once.
type Receipt struct {
	GUID    string
	FeePaid uint64
}

// Transport is the chain-agnostic port for dispatching cross-chain messages.
type Transport interface {
	// Address is the transport's identity on this chain, checked against the
	// allowlist registry before any dispatch.
	Address() domain.Address

	// QuoteSend returns the fee the transport requires for the given request,
	// computed from the same parameters Send uses.
	QuoteSend(req SendRequest) (uint64, error)

	// Send dispatches the message, consuming paidFee. Fails with
	// ErrInsufficientFee when paidFee is below the quote; there is no
	// cancellation once a message is dispatched.
	Send(ctx context.Context, req SendRequest, paidFee uint64) (*Receipt, error)
}

// MessageHandler consumes inbound value+instruction messages on the hub.
// The composer implements this; a transport endpoint is its only caller.
type MessageHandler interface {
	HandleInbound(ctx context.Context, caller domain.Address, msg domain.InboundMessage) error
}
