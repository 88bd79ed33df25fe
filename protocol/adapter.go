// Package protocol defines the uniform capability surface over external
// yield protocols. Consumers treat all settlement primitives as opaque; no
// protocol-specific mechanics leak past this boundary.
package protocol

import (
	"context"
	"errors"

	"github.com/ManuelElias1999/CuyFI/domain"
)

var (
	// ErrNotSupported is returned by protocols that settle instantly and
	// therefore reject the two-step unstake primitives.
	ErrNotSupported   = errors.New("operation not supported by protocol")
	ErrUnknownRequest = errors.New("unstake request not found")
	ErrZeroAmount     = errors.New("zero amount")
)

// RequestID identifies a two-step unstake request within one adapter.
type RequestID uint64

// Adapter is the chain-local port for driving one external yield protocol.
// Implementations fall into two settlement flavors: instant (single-step
// withdrawal, the request/finalize pair always rejects) and two-step
// (request converts receipts into a recorded claim, finalize redeems it).
// Callers must not branch on which flavor they hold.
type Adapter interface {
	// Stake deposits amount of the protocol's deposit token and returns the
	// receipt tokens received. data is protocol-opaque.
	Stake(ctx context.Context, amount uint64, data []byte) (receipts uint64, err error)

	// RequestUnstake converts receipts into an intermediate claim and returns
	// its id. Instant-settlement protocols reject with ErrNotSupported.
	RequestUnstake(ctx context.Context, receipts uint64, data []byte) (RequestID, error)

	// FinalizeUnstake redeems a recorded claim and clears it, returning the
	// deposit-token amount received.
	FinalizeUnstake(ctx context.Context, id RequestID) (uint64, error)

	// Harvest collects accrued rewards, returning the reward assets and the
	// amount of each.
	Harvest(ctx context.Context) ([]domain.Asset, []uint64, error)

	// GetPendingRewards reports rewards claimable by Harvest right now.
	GetPendingRewards() uint64

	// IsWithdrawalClaimable reports whether a recorded claim can be finalized.
	IsWithdrawalClaimable(id RequestID) bool

	// GetDepositTokenForReceipts values receipts in deposit-token units under
	// the protocol's current pricing.
	GetDepositTokenForReceipts(receipts uint64) (uint64, error)

	// GetProtocolName identifies the protocol for logs and registries.
	GetProtocolName() string
}
