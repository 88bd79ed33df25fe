// Package composer turns inbound cross-chain value+instruction messages into
// local deposits with two-phase settlement. Accept-and-mint and
// deliver-to-beneficiary are split into independently retryable steps: a
// message that already carries value is never reverted, it is parked as a
// pending settlement instead.
package composer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/guard"
	"github.com/ManuelElias1999/CuyFI/registry"
	"github.com/ManuelElias1999/CuyFI/transport"
	"github.com/ManuelElias1999/CuyFI/vault"
)

// DefaultExpiryWindow bounds how long a pending settlement stays
// finalizable. Past it there is no recovery path.
const DefaultExpiryWindow = 7 * 24 * time.Hour

// SettlementJournal persists settlement records so pending deliveries
// survive a restart.
type SettlementJournal interface {
	PutSettlement(p domain.PendingSettlement) error
	LoadSettlements() ([]domain.PendingSettlement, error)
}

// Composer drives the deposit path of the ledger for inbound messages and
// manages the return-leg settlement state machine.
type Composer struct {
	mu sync.Mutex
	g  guard.Guard

	addr     domain.Address
	hubChain domain.ChainID
	endpoint domain.Address

	reg    *registry.Registry
	vault  *vault.Vault
	bridge transport.Transport

	window      time.Duration
	journal     SettlementJournal
	settlements map[string]*domain.PendingSettlement
	now         func() time.Time
}

// Option tweaks composer construction.
type Option func(*Composer)

// WithExpiryWindow overrides the pending-settlement expiry window.
func WithExpiryWindow(d time.Duration) Option {
	return func(c *Composer) { c.window = d }
}

// WithClock injects a time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// New builds a composer. endpoint is the only identity allowed to deliver
// inbound messages; journal may be nil for an in-memory composer.
func New(addr domain.Address, hubChain domain.ChainID, reg *registry.Registry, v *vault.Vault, bridge transport.Transport, endpoint domain.Address, journal SettlementJournal, opts ...Option) (*Composer, error) {
	if addr.IsZero() || endpoint.IsZero() || reg == nil || v == nil || bridge == nil {
		return nil, ErrZeroAddress
	}
	c := &Composer{
		addr:        addr,
		hubChain:    hubChain,
		endpoint:    endpoint,
		reg:         reg,
		vault:       v,
		bridge:      bridge,
		window:      DefaultExpiryWindow,
		journal:     journal,
		settlements: make(map[string]*domain.PendingSettlement),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if journal != nil {
		recs, err := journal.LoadSettlements()
		if err != nil {
			return nil, fmt.Errorf("load settlements: %w", err)
		}
		for _, p := range recs {
			p := p
			c.settlements[p.GUID] = &p
		}
	}
	return c, nil
}

// Address is the composer's custody identity on the hub.
func (c *Composer) Address() domain.Address { return c.addr }

// HandleInbound accepts a value+instruction message: deposits the attached
// assets into the ledger and attempts the share return leg in the same step.
// Any inability to complete the return leg — undersized fee, a slippage
// violation against the declared minimum, a transport error — parks the
// message as PENDING rather than reverting value already received.
func (c *Composer) HandleInbound(ctx context.Context, caller domain.Address, msg domain.InboundMessage) error {
	if caller != c.endpoint {
		return fmt.Errorf("%s: %w", caller, ErrUntrustedEndpoint)
	}
	if !c.reg.IsApprovedTransport(caller) {
		return fmt.Errorf("%s: %w", caller, ErrChannelNotAllowed)
	}
	if err := c.g.Enter(); err != nil {
		return err
	}
	defer c.g.Exit()

	if msg.Amount == 0 {
		return ErrZeroAmount
	}
	if msg.Instruction.Return.Recipient.IsZero() {
		return ErrZeroAddress
	}

	c.mu.Lock()
	if _, seen := c.settlements[msg.GUID]; seen {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", msg.GUID, ErrDuplicateMessage)
	}
	c.mu.Unlock()

	// Deposit leg. A failure here (paused ledger, conversion fault) leaves no
	// state behind; the transport redelivers under its at-least-once model.
	shares, err := c.vault.Deposit(c.addr, msg.Amount, c.addr)
	if err != nil {
		return fmt.Errorf("inbound deposit %s: %w", msg.GUID, err)
	}

	rec := &domain.PendingSettlement{
		GUID:             msg.GUID,
		Beneficiary:      msg.Instruction.Return.Recipient,
		BeneficiaryChain: msg.Instruction.Return.DstChain,
		Shares:           shares,
		CreatedAt:        c.now(),
		Status:           domain.SettlementStatusPending,
	}

	// The min-shares bound is honored strictly: if it cannot be met in the
	// same step the message is demoted, never under-delivered.
	if shares < msg.Instruction.MinShares {
		c.park(rec, fmt.Errorf("minted %d below min %d: %w", shares, msg.Instruction.MinShares, ErrSlippageBound))
		return nil
	}
	if err := c.deliver(ctx, rec, msg.Instruction.MinFee); err != nil {
		c.park(rec, err)
		return nil
	}

	rec.Status = domain.SettlementStatusCompleted
	c.commit(rec)
	slog.Info("🔀 [Composer] Inbound deposit completed",
		"guid", msg.GUID,
		"beneficiary", rec.Beneficiary,
		"shares", shares,
	)
	return nil
}

// FinalizeDeposit retries the return leg of a pending settlement. Any caller
// may finalize by supplying the transport fee; a second finalize on the same
// id fails, as does one past the expiry window.
func (c *Composer) FinalizeDeposit(ctx context.Context, guid string, paidFee uint64) error {
	if err := c.g.Enter(); err != nil {
		return err
	}
	defer c.g.Exit()

	c.mu.Lock()
	rec, ok := c.settlements[guid]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", guid, ErrSettlementNotFound)
	}
	if rec.Completed() {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", guid, ErrAlreadyCompleted)
	}
	if rec.ExpiredAt(c.now(), c.window) {
		rec.Status = domain.SettlementStatusExpired
		cp := *rec
		c.mu.Unlock()
		c.persist(&cp)
		return fmt.Errorf("%s: %w", guid, ErrSettlementExpired)
	}
	cp := *rec
	c.mu.Unlock()

	if err := c.deliver(ctx, &cp, paidFee); err != nil {
		return fmt.Errorf("finalize %s: %w", guid, err)
	}

	c.mu.Lock()
	rec.Status = domain.SettlementStatusCompleted
	cp = *rec
	c.mu.Unlock()
	c.persist(&cp)
	slog.Info("🔀 [Composer] Settlement finalized", "guid", guid, "shares", cp.Shares)
	return nil
}

// DepositAndSend pushes ledger capital outward without minting shares. This
// is capital deployment, not a user deposit: only the ledger may call it,
// and the ledger only does so from the agent-gated deploy path.
func (c *Composer) DepositAndSend(ctx context.Context, caller domain.Address, amount uint64, params domain.SendParams, paidFee uint64) error {
	if caller != c.vault.Address() {
		return fmt.Errorf("%s: %w", caller, ErrNotVault)
	}
	if err := c.g.Enter(); err != nil {
		return err
	}
	defer c.g.Exit()
	if amount == 0 {
		return ErrZeroAmount
	}

	req := transport.SendRequest{
		DstChain:  params.DstChain,
		Recipient: params.Recipient,
		Amount:    amount,
		Kind:      transport.KindAsset,
	}
	quote, err := c.bridge.QuoteSend(req)
	if err != nil {
		return fmt.Errorf("quote asset send: %w", err)
	}
	if paidFee < quote {
		return fmt.Errorf("paid %d, quoted %d: %w", paidFee, quote, transport.ErrInsufficientFee)
	}

	asset := c.vault.Asset()
	if err := asset.Transfer(c.addr, c.bridge.Address(), amount); err != nil {
		return fmt.Errorf("escrow asset: %w", err)
	}
	if _, err := c.bridge.Send(ctx, req, paidFee); err != nil {
		if rerr := asset.Transfer(c.bridge.Address(), c.addr, amount); rerr != nil {
			return fmt.Errorf("unwind escrow failed: %v: %w", rerr, err)
		}
		return fmt.Errorf("asset send: %w", err)
	}
	slog.Info("🔀 [Composer] Capital dispatched", "dst_chain", params.DstChain, "amount", amount)
	return nil
}

// deliver runs the share return leg: a direct ledger transfer for hub-chain
// beneficiaries, a transport send (shares locked in the transport escrow)
// otherwise.
func (c *Composer) deliver(ctx context.Context, rec *domain.PendingSettlement, paidFee uint64) error {
	if rec.BeneficiaryChain == c.hubChain {
		if err := c.vault.Transfer(c.addr, rec.Beneficiary, rec.Shares); err != nil {
			return fmt.Errorf("local share delivery: %w", err)
		}
		return nil
	}

	req := transport.SendRequest{
		DstChain:  rec.BeneficiaryChain,
		Recipient: rec.Beneficiary,
		Amount:    rec.Shares,
		Kind:      transport.KindShares,
	}
	quote, err := c.bridge.QuoteSend(req)
	if err != nil {
		return fmt.Errorf("quote share send: %w", err)
	}
	if paidFee < quote {
		return fmt.Errorf("paid %d, quoted %d: %w", paidFee, quote, transport.ErrInsufficientFee)
	}
	if err := c.vault.Transfer(c.addr, c.bridge.Address(), rec.Shares); err != nil {
		return fmt.Errorf("escrow shares: %w", err)
	}
	if _, err := c.bridge.Send(ctx, req, paidFee); err != nil {
		if rerr := c.vault.Transfer(c.bridge.Address(), c.addr, rec.Shares); rerr != nil {
			return fmt.Errorf("unwind share escrow failed: %v: %w", rerr, err)
		}
		return fmt.Errorf("share send: %w", err)
	}
	return nil
}

// park demotes a message to PENDING after its deposit leg committed.
func (c *Composer) park(rec *domain.PendingSettlement, cause error) {
	c.commit(rec)
	slog.Warn("🔀 [Composer] Return leg parked as pending",
		"guid", rec.GUID,
		"shares", rec.Shares,
		"cause", cause,
	)
}

func (c *Composer) commit(rec *domain.PendingSettlement) {
	c.mu.Lock()
	c.settlements[rec.GUID] = rec
	cp := *rec
	c.mu.Unlock()
	c.persist(&cp)
}

func (c *Composer) persist(rec *domain.PendingSettlement) {
	if c.journal == nil {
		return
	}
	if err := c.journal.PutSettlement(*rec); err != nil {
		slog.Error("🔀 [Composer] Journal write failed", "guid", rec.GUID, "err", err)
	}
}

// Settlement returns a copy of the settlement record for a message id.
func (c *Composer) Settlement(guid string) (domain.PendingSettlement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.settlements[guid]
	if !ok {
		return domain.PendingSettlement{}, fmt.Errorf("%s: %w", guid, ErrSettlementNotFound)
	}
	return *rec, nil
}

// PendingCount reports how many settlements still await their return leg.
func (c *Composer) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, rec := range c.settlements {
		if rec.Status == domain.SettlementStatusPending {
			n++
		}
	}
	return n
}
