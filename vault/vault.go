// Package vault implements the Ledger Core: single-asset tokenized-vault
// share accounting over one underlying asset, with an exit fee, a pause
// brake, and a capital-egress path for the cross-chain strategy.
package vault

import (
	"log/slog"
	"sync"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/guard"
	"github.com/ManuelElias1999/CuyFI/registry"
	"github.com/ManuelElias1999/CuyFI/token"
)

// MaxFeeBps is the hard cap on the exit fee: 20%.
const MaxFeeBps uint16 = 2_000

const feeDenominator = 10_000

// Vault is the canonical share ledger on the hub chain. totalAssets is the
// local asset balance plus everything tracked by the deployment tracker;
// shares are minted only against a committed asset inflow and burned only
// against a committed asset outflow.
type Vault struct {
	mu sync.Mutex
	g  guard.Guard

	addr domain.Address // custody address of the vault itself
	reg  *registry.Registry

	name   string
	symbol string
	asset  *token.Token

	feeBps       uint16
	feeRecipient domain.Address
	composer     domain.Address
	strategy     domain.Address

	supply     uint64
	balances   map[domain.Address]uint64
	allowances map[domain.Address]map[domain.Address]uint64

	paused      bool
	initialized bool

	deployed DeployedFunds
	conduit  CapitalConduit
}

// New builds an uninitialized vault with the given custody address.
func New(addr domain.Address, reg *registry.Registry) *Vault {
	return &Vault{
		addr:       addr,
		reg:        reg,
		balances:   make(map[domain.Address]uint64),
		allowances: make(map[domain.Address]map[domain.Address]uint64),
	}
}

// Initialize configures the ledger exactly once. Every identity must be
// nonzero and the fee must be under the cap.
func (v *Vault) Initialize(name, symbol string, asset *token.Token, feeRecipient domain.Address, feeBps uint16, composer domain.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.initialized {
		return ErrAlreadyInitialized
	}
	if asset == nil || feeRecipient.IsZero() || composer.IsZero() {
		return ErrZeroAddress
	}
	if feeBps > MaxFeeBps {
		return ErrFeeTooHigh
	}

	v.name = name
	v.symbol = symbol
	v.asset = asset
	v.feeRecipient = feeRecipient
	v.feeBps = feeBps
	v.composer = composer
	v.initialized = true

	slog.Info("🏦 [Vault] Initialized",
		"name", name,
		"symbol", symbol,
		"asset", asset.Asset().Ticker,
		"fee_bps", feeBps,
	)
	return nil
}

// Bind wires the deployment tracker, the capital conduit, and the strategy
// executor identity. One-time, after Initialize.
func (v *Vault) Bind(deployed DeployedFunds, conduit CapitalConduit, strategy domain.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return ErrNotInitialized
	}
	if v.deployed != nil || v.conduit != nil {
		return ErrAlreadyInitialized
	}
	if deployed == nil || conduit == nil || strategy.IsZero() {
		return ErrZeroAddress
	}
	v.deployed = deployed
	v.conduit = conduit
	v.strategy = strategy
	return nil
}

func (v *Vault) Address() domain.Address  { return v.addr }
func (v *Vault) Composer() domain.Address { return v.composer }
func (v *Vault) Name() string             { return v.name }
func (v *Vault) Symbol() string           { return v.symbol }
func (v *Vault) Asset() *token.Token      { return v.asset }

func (v *Vault) FeeBps() uint16 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.feeBps
}

func (v *Vault) Paused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.paused
}

// SetFee sets the exit fee in basis points. Owner-only, capped.
func (v *Vault) SetFee(caller domain.Address, feeBps uint16) error {
	if err := v.reg.RequireOwner(caller); err != nil {
		return err
	}
	if feeBps > MaxFeeBps {
		return ErrFeeTooHigh
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.feeBps = feeBps
	slog.Info("🏦 [Vault] Fee updated", "fee_bps", feeBps)
	return nil
}

// SetFeeRecipient rotates the fee recipient. Owner-only, nonzero.
func (v *Vault) SetFeeRecipient(caller, recipient domain.Address) error {
	if err := v.reg.RequireOwner(caller); err != nil {
		return err
	}
	if recipient.IsZero() {
		return ErrZeroAddress
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.feeRecipient = recipient
	return nil
}

// Pause stops deposits and mints. Owner-or-agent: anyone trusted can brake.
func (v *Vault) Pause(caller domain.Address) error {
	if err := v.reg.RequireOwnerOrAgent(caller); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paused = true
	slog.Warn("🏦 [Vault] Paused", "caller", caller)
	return nil
}

// Unpause releases the brake. Owner-only — asymmetric with Pause.
func (v *Vault) Unpause(caller domain.Address) error {
	if err := v.reg.RequireOwner(caller); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paused = false
	slog.Info("🏦 [Vault] Unpaused", "caller", caller)
	return nil
}
