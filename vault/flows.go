package vault

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/safemath"
)

// Deposit transfers assets in and mints the proportional shares (floor).
func (v *Vault) Deposit(caller domain.Address, assets uint64, receiver domain.Address) (uint64, error) {
	if err := v.g.Enter(); err != nil {
		return 0, err
	}
	defer v.g.Exit()
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return 0, ErrNotInitialized
	}
	if v.paused {
		return 0, ErrPaused
	}
	if caller.IsZero() || receiver.IsZero() {
		return 0, ErrZeroAddress
	}
	if assets == 0 {
		return 0, ErrZeroAmount
	}
	if assets > v.maxDepositLocked() {
		return 0, ErrExceedsMax
	}

	shares, err := v.toSharesLocked(assets, false)
	if err != nil {
		return 0, err
	}
	if shares == 0 {
		return 0, ErrZeroShares
	}
	if err := v.checkMintLocked(receiver, shares); err != nil {
		return 0, err
	}
	if err := v.asset.Transfer(caller, v.addr, assets); err != nil {
		return 0, fmt.Errorf("deposit: %w", err)
	}
	v.mintSharesLocked(receiver, shares)

	slog.Info("🏦 [Vault] Deposit",
		"caller", caller,
		"receiver", receiver,
		"assets", assets,
		"shares", shares,
	)
	return shares, nil
}

// Mint pulls the assets required for exactly the named shares (ceiling).
func (v *Vault) Mint(caller domain.Address, shares uint64, receiver domain.Address) (uint64, error) {
	if err := v.g.Enter(); err != nil {
		return 0, err
	}
	defer v.g.Exit()
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return 0, ErrNotInitialized
	}
	if v.paused {
		return 0, ErrPaused
	}
	if caller.IsZero() || receiver.IsZero() {
		return 0, ErrZeroAddress
	}
	if shares == 0 {
		return 0, ErrZeroAmount
	}
	if shares > math.MaxUint64-v.supply {
		return 0, ErrExceedsMax
	}

	assets, err := v.toAssetsLocked(shares, true)
	if err != nil {
		return 0, err
	}
	if assets == 0 {
		return 0, ErrZeroAmount
	}
	if err := v.checkMintLocked(receiver, shares); err != nil {
		return 0, err
	}
	if err := v.asset.Transfer(caller, v.addr, assets); err != nil {
		return 0, fmt.Errorf("mint: %w", err)
	}
	v.mintSharesLocked(receiver, shares)

	slog.Info("🏦 [Vault] Mint", "caller", caller, "receiver", receiver, "assets", assets, "shares", shares)
	return assets, nil
}

// Withdraw burns the shares owed for the named gross assets (ceiling) and
// pays the receiver net of the exit fee.
func (v *Vault) Withdraw(caller domain.Address, assets uint64, receiver, owner domain.Address) (uint64, error) {
	if err := v.g.Enter(); err != nil {
		return 0, err
	}
	defer v.g.Exit()
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return 0, ErrNotInitialized
	}
	if caller.IsZero() || receiver.IsZero() || owner.IsZero() {
		return 0, ErrZeroAddress
	}
	if assets == 0 {
		return 0, ErrZeroAmount
	}

	shares, err := v.toSharesLocked(assets, true)
	if err != nil {
		return 0, err
	}
	if shares == 0 {
		return 0, ErrZeroShares
	}
	if err := v.payOutLocked(caller, owner, receiver, shares, assets); err != nil {
		return 0, err
	}
	slog.Info("🏦 [Vault] Withdraw", "owner", owner, "receiver", receiver, "assets", assets, "shares", shares)
	return shares, nil
}

// Redeem burns exactly the named shares and pays the proportional assets
// (floor) net of the exit fee. Returns the receiver's net.
func (v *Vault) Redeem(caller domain.Address, shares uint64, receiver, owner domain.Address) (uint64, error) {
	if err := v.g.Enter(); err != nil {
		return 0, err
	}
	defer v.g.Exit()
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return 0, ErrNotInitialized
	}
	if caller.IsZero() || receiver.IsZero() || owner.IsZero() {
		return 0, ErrZeroAddress
	}
	if shares == 0 {
		return 0, ErrZeroAmount
	}

	gross, err := v.toAssetsLocked(shares, false)
	if err != nil {
		return 0, err
	}
	if gross == 0 {
		return 0, ErrZeroAmount
	}
	if err := v.payOutLocked(caller, owner, receiver, shares, gross); err != nil {
		return 0, err
	}
	fee := v.feeOnLocked(gross)
	slog.Info("🏦 [Vault] Redeem", "owner", owner, "receiver", receiver, "shares", shares, "assets", gross-fee, "fee", fee)
	return gross - fee, nil
}

// payOutLocked is the shared exit path: allowance, burn, fee split, asset
// transfers. All checks run before any state moves so a failure is atomic.
func (v *Vault) payOutLocked(caller, owner, receiver domain.Address, shares, gross uint64) error {
	if v.asset.BalanceOf(v.addr) < gross {
		return fmt.Errorf("local balance %d below %d: %w", v.asset.BalanceOf(v.addr), gross, ErrInsufficientLiquidity)
	}
	if v.balances[owner] < shares {
		return ErrInsufficientShares
	}
	if caller != owner {
		if err := v.spendAllowanceLocked(owner, caller, shares); err != nil {
			return err
		}
	}
	v.burnSharesLocked(owner, shares)

	fee := v.feeOnLocked(gross)
	if err := v.asset.Transfer(v.addr, receiver, gross-fee); err != nil {
		return fmt.Errorf("payout: %w", err)
	}
	if fee > 0 {
		if err := v.asset.Transfer(v.addr, v.feeRecipient, fee); err != nil {
			return fmt.Errorf("fee payout: %w", err)
		}
	}
	return nil
}

// DeployCapital moves underlying from vault custody into the composer's
// outbound path. Callable only by the strategy executor; reaching here means
// the agent gate already passed.
func (v *Vault) DeployCapital(ctx context.Context, caller domain.Address, amount uint64, params domain.SendParams, paidFee uint64) error {
	if err := v.g.Enter(); err != nil {
		return err
	}
	defer v.g.Exit()

	v.mu.Lock()
	if !v.initialized || v.conduit == nil {
		v.mu.Unlock()
		return ErrNotInitialized
	}
	if caller != v.strategy {
		v.mu.Unlock()
		return ErrNotStrategy
	}
	if amount == 0 {
		v.mu.Unlock()
		return ErrZeroAmount
	}
	if err := v.asset.Transfer(v.addr, v.composer, amount); err != nil {
		v.mu.Unlock()
		return fmt.Errorf("deploy capital: %w", err)
	}
	conduit := v.conduit
	composer := v.composer
	addr := v.addr
	v.mu.Unlock()

	// External leg runs outside the ledger lock; on failure the custody move
	// is compensated so the operation stays atomic to observers.
	if err := conduit.DepositAndSend(ctx, addr, amount, params, paidFee); err != nil {
		if rerr := v.asset.Transfer(composer, addr, amount); rerr != nil {
			return fmt.Errorf("deploy capital compensation failed: %v: %w", rerr, err)
		}
		return fmt.Errorf("deploy capital: %w", err)
	}
	return nil
}

// Approve sets the spender's share allowance.
func (v *Vault) Approve(owner, spender domain.Address, amount uint64) error {
	if owner.IsZero() || spender.IsZero() {
		return ErrZeroAddress
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.allowances[owner] == nil {
		v.allowances[owner] = make(map[domain.Address]uint64)
	}
	v.allowances[owner][spender] = amount
	return nil
}

// Transfer moves shares between holders.
func (v *Vault) Transfer(caller, to domain.Address, amount uint64) error {
	if caller.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.moveSharesLocked(caller, to, amount)
}

// TransferFrom moves shares on an allowance.
func (v *Vault) TransferFrom(caller, from, to domain.Address, amount uint64) error {
	if caller.IsZero() || from.IsZero() || to.IsZero() {
		return ErrZeroAddress
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if caller != from {
		if err := v.spendAllowanceLocked(from, caller, amount); err != nil {
			return err
		}
	}
	return v.moveSharesLocked(from, to, amount)
}

func (v *Vault) maxDepositLocked() uint64 {
	if v.paused {
		return 0
	}
	total, err := v.totalAssetsLocked()
	if err != nil {
		return 0
	}
	return math.MaxUint64 - total
}

func (v *Vault) checkMintLocked(receiver domain.Address, shares uint64) error {
	if _, ok := safemath.Add64(v.supply, shares); !ok {
		return safemath.ErrOverflow
	}
	if _, ok := safemath.Add64(v.balances[receiver], shares); !ok {
		return safemath.ErrOverflow
	}
	return nil
}

func (v *Vault) mintSharesLocked(receiver domain.Address, shares uint64) {
	v.supply += shares
	v.balances[receiver] += shares
}

func (v *Vault) burnSharesLocked(owner domain.Address, shares uint64) {
	v.balances[owner] -= shares
	v.supply -= shares
	if v.balances[owner] == 0 {
		delete(v.balances, owner)
	}
}

func (v *Vault) moveSharesLocked(from, to domain.Address, amount uint64) error {
	src, ok := safemath.Sub64(v.balances[from], amount)
	if !ok {
		return ErrInsufficientShares
	}
	dst, ok := safemath.Add64(v.balances[to], amount)
	if !ok {
		return safemath.ErrOverflow
	}
	v.balances[from] = src
	v.balances[to] = dst
	if src == 0 {
		delete(v.balances, from)
	}
	return nil
}

func (v *Vault) spendAllowanceLocked(owner, spender domain.Address, amount uint64) error {
	remaining, ok := safemath.Sub64(v.allowances[owner][spender], amount)
	if !ok {
		return ErrInsufficientAllowance
	}
	v.allowances[owner][spender] = remaining
	return nil
}
