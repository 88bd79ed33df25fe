// Package mock provides controllable collaborator doubles for tests and
// demos: a bridge transport with failure injection, a swap target, and a
// price oracle.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/token"
	"github.com/ManuelElias1999/CuyFI/transport"
)

// Bridge implements transport.Transport for a simulated hub-and-spoke
// topology. Sends land synchronously in per-chain token books; inbound
// deposits are injected through InjectDeposit.
type Bridge struct {
	mu sync.Mutex

	addr       domain.Address
	fees       map[domain.ChainID]uint64
	shareBooks map[domain.ChainID]*token.Token
	assetBooks map[domain.ChainID]*token.Token

	handler  transport.MessageHandler
	hubAsset *token.Token
	composer domain.Address

	outbox   []transport.SendRequest
	failNext error
}

func NewBridge(addr domain.Address) *Bridge {
	return &Bridge{
		addr:       addr,
		fees:       make(map[domain.ChainID]uint64),
		shareBooks: make(map[domain.ChainID]*token.Token),
		assetBooks: make(map[domain.ChainID]*token.Token),
	}
}

// SetRouteFee opens a route and fixes its quote.
func (b *Bridge) SetRouteFee(dst domain.ChainID, fee uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fees[dst] = fee
}

// RegisterShareBook binds the spoke-side share representation for a chain.
func (b *Bridge) RegisterShareBook(dst domain.ChainID, tok *token.Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shareBooks[dst] = tok
}

// RegisterAssetBook binds the spoke-side asset book for a chain.
func (b *Bridge) RegisterAssetBook(dst domain.ChainID, tok *token.Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assetBooks[dst] = tok
}

// BindHub wires the inbound side: the composer handler, the hub asset book,
// and the composer custody address value arrives at.
func (b *Bridge) BindHub(handler transport.MessageHandler, hubAsset *token.Token, composer domain.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = handler
	b.hubAsset = hubAsset
	b.composer = composer
}

// FailNextSend makes the next Send fail with err, once.
func (b *Bridge) FailNextSend(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext = err
}

func (b *Bridge) Address() domain.Address { return b.addr }

func (b *Bridge) QuoteSend(req transport.SendRequest) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fee, ok := b.fees[req.DstChain]
	if !ok {
		return 0, fmt.Errorf("chain %d: %w", req.DstChain, transport.ErrUnknownRoute)
	}
	return fee, nil
}

func (b *Bridge) Send(ctx context.Context, req transport.SendRequest, paidFee uint64) (*transport.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failNext != nil {
		err := b.failNext
		b.failNext = nil
		return nil, err
	}
	fee, ok := b.fees[req.DstChain]
	if !ok {
		return nil, fmt.Errorf("chain %d: %w", req.DstChain, transport.ErrUnknownRoute)
	}
	if paidFee < fee {
		return nil, fmt.Errorf("paid %d, need %d: %w", paidFee, fee, transport.ErrInsufficientFee)
	}

	// Synchronous spoke delivery keeps the simulation observable; the real
	// transport is asynchronous and at-least-once.
	switch req.Kind {
	case transport.KindShares:
		if book := b.shareBooks[req.DstChain]; book != nil {
			if err := book.Mint(req.Recipient, req.Amount); err != nil {
				return nil, fmt.Errorf("spoke share credit: %w", err)
			}
		}
	case transport.KindAsset:
		if book := b.assetBooks[req.DstChain]; book != nil {
			if err := book.Mint(req.Recipient, req.Amount); err != nil {
				return nil, fmt.Errorf("spoke asset credit: %w", err)
			}
		}
	}

	b.outbox = append(b.outbox, req)
	receipt := &transport.Receipt{GUID: uuid.NewString(), FeePaid: paidFee}
	slog.Info("🧪 [Bridge] Message dispatched", "guid", receipt.GUID, "dst_chain", req.DstChain, "kind", req.Kind, "amount", req.Amount)
	return receipt, nil
}

// Outbox returns a copy of every dispatched request, in order.
func (b *Bridge) Outbox() []transport.SendRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]transport.SendRequest, len(b.outbox))
	copy(out, b.outbox)
	return out
}

// InjectDeposit simulates an inbound value+instruction message from a spoke:
// it credits the value to the composer custody and delivers the message
// through the bound handler under the bridge's endpoint identity.
func (b *Bridge) InjectDeposit(ctx context.Context, srcChain domain.ChainID, sender domain.Address, amount uint64, instr domain.DepositInstruction) (string, error) {
	b.mu.Lock()
	handler, hubAsset, composer := b.handler, b.hubAsset, b.composer
	b.mu.Unlock()
	if handler == nil || hubAsset == nil {
		return "", fmt.Errorf("bridge hub side not bound")
	}

	guid := uuid.NewString()
	if err := hubAsset.Mint(composer, amount); err != nil {
		return "", fmt.Errorf("credit inbound value: %w", err)
	}
	msg := domain.InboundMessage{
		GUID:        guid,
		SrcChain:    srcChain,
		Sender:      sender,
		Amount:      amount,
		Instruction: instr,
	}
	if err := handler.HandleInbound(ctx, b.addr, msg); err != nil {
		// Unwind the simulated value credit so a rejected message leaves no
		// trace, mirroring a transport that never delivered.
		_ = hubAsset.Burn(composer, amount)
		return "", err
	}
	return guid, nil
}
