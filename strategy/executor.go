package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/guard"
	"github.com/ManuelElias1999/CuyFI/registry"
	"github.com/ManuelElias1999/CuyFI/transport"
	"github.com/ManuelElias1999/CuyFI/vault"
)

// Executor is the agent-facing surface that moves capital across chains and
// keeps the deployment tracker in sync. It talks to the transport only
// through the vault's capital-egress path.
type Executor struct {
	g guard.Guard

	addr    domain.Address
	reg     *registry.Registry
	vault   *vault.Vault
	tracker *Tracker
	bridge  transport.Transport
}

func NewExecutor(addr domain.Address, reg *registry.Registry, v *vault.Vault, tracker *Tracker, bridge transport.Transport) (*Executor, error) {
	if addr.IsZero() || reg == nil || v == nil || tracker == nil || bridge == nil {
		return nil, ErrZeroAddress
	}
	return &Executor{addr: addr, reg: reg, vault: v, tracker: tracker, bridge: bridge}, nil
}

// Address is the executor's identity; the vault gates DeployCapital on it.
func (e *Executor) Address() domain.Address { return e.addr }

// Tracker exposes the deployment tracker for read-side wiring.
func (e *Executor) Tracker() *Tracker { return e.tracker }

// DeployToChain hands capital to the transport for a remote vault and records
// the deployment. Success means "handed off", not "arrived". Agent-only.
func (e *Executor) DeployToChain(ctx context.Context, caller domain.Address, dst domain.ChainID, destVault domain.Address, amount uint64, paidFee uint64) (domain.DeploymentID, error) {
	if err := e.reg.RequireAgent(caller); err != nil {
		return "", err
	}
	if err := e.g.Enter(); err != nil {
		return "", err
	}
	defer e.g.Exit()

	if amount == 0 {
		return "", ErrZeroAmount
	}
	if destVault.IsZero() {
		return "", ErrZeroAddress
	}
	if !e.reg.IsApprovedTransport(e.bridge.Address()) {
		return "", fmt.Errorf("%s: %w", e.bridge.Address(), ErrTransportNotApproved)
	}

	params := domain.SendParams{DstChain: dst, Recipient: destVault}
	if err := e.vault.DeployCapital(ctx, e.addr, amount, params, paidFee); err != nil {
		return "", fmt.Errorf("deploy to chain %d: %w", dst, err)
	}
	id, err := e.tracker.record(dst, destVault, amount)
	if err != nil {
		return "", fmt.Errorf("record deployment: %w", err)
	}

	slog.Info("📡 [Strategy] Capital deployed",
		"deployment_id", id,
		"dst_chain", dst,
		"dest_vault", destVault,
		"amount", amount,
	)
	return id, nil
}

// WithdrawFromChain optimistically decrements a deployment; the physical
// return of the asset is a separate transport leg outside this call.
// Agent-only.
func (e *Executor) WithdrawFromChain(ctx context.Context, caller domain.Address, id domain.DeploymentID, amount uint64) error {
	if err := e.reg.RequireAgent(caller); err != nil {
		return err
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	if err := e.tracker.withdraw(id, amount); err != nil {
		return err
	}
	slog.Info("📡 [Strategy] Deployment withdrawal recorded", "deployment_id", id, "amount", amount)
	return nil
}

// UpdateDeploymentAmount reconciles remote yield or loss into the tracker.
// Trust-based: the agent asserts the remote value, nothing verifies it here.
// Agent-only.
func (e *Executor) UpdateDeploymentAmount(caller domain.Address, id domain.DeploymentID, newAmount uint64) error {
	if err := e.reg.RequireAgent(caller); err != nil {
		return err
	}
	if err := e.tracker.update(id, newAmount); err != nil {
		return err
	}
	slog.Info("📡 [Strategy] Deployment reconciled", "deployment_id", id, "new_amount", newAmount)
	return nil
}
