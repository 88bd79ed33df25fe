package vault

import (
	"math"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/safemath"
)

// totalAssetsLocked is the coupling point to the deployment tracker: local
// custody plus everything deployed and still tracked on remote chains.
func (v *Vault) totalAssetsLocked() (uint64, error) {
	if !v.initialized {
		return 0, ErrNotInitialized
	}
	local := v.asset.BalanceOf(v.addr)
	var dep uint64
	if v.deployed != nil {
		dep = v.deployed.TotalDeployed()
	}
	total, ok := safemath.Add64(local, dep)
	if !ok {
		return 0, safemath.ErrOverflow
	}
	return total, nil
}

// toSharesLocked converts assets to shares at the current ratio. 1:1 at zero
// supply; fails closed when shares are outstanding against zero assets.
func (v *Vault) toSharesLocked(assets uint64, ceil bool) (uint64, error) {
	if v.supply == 0 {
		return assets, nil
	}
	total, err := v.totalAssetsLocked()
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, ErrZeroTotalAssets
	}
	var shares uint64
	var ok bool
	if ceil {
		shares, ok = safemath.MulDivCeil(assets, v.supply, total)
	} else {
		shares, ok = safemath.MulDivFloor(assets, v.supply, total)
	}
	if !ok {
		return 0, safemath.ErrOverflow
	}
	return shares, nil
}

// toAssetsLocked converts shares to assets at the current ratio, 1:1 at zero
// supply.
func (v *Vault) toAssetsLocked(shares uint64, ceil bool) (uint64, error) {
	if v.supply == 0 {
		return shares, nil
	}
	total, err := v.totalAssetsLocked()
	if err != nil {
		return 0, err
	}
	var assets uint64
	var ok bool
	if ceil {
		assets, ok = safemath.MulDivCeil(shares, total, v.supply)
	} else {
		assets, ok = safemath.MulDivFloor(shares, total, v.supply)
	}
	if !ok {
		return 0, safemath.ErrOverflow
	}
	return assets, nil
}

func (v *Vault) feeOnLocked(gross uint64) uint64 {
	fee, _ := safemath.MulDivFloor(gross, uint64(v.feeBps), feeDenominator)
	return fee
}

// TotalAssets returns local custody plus tracked remote deployments.
func (v *Vault) TotalAssets() (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalAssetsLocked()
}

func (v *Vault) TotalSupply() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.supply
}

func (v *Vault) BalanceOf(holder domain.Address) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balances[holder]
}

func (v *Vault) Allowance(owner, spender domain.Address) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.allowances[owner][spender]
}

// ConvertToShares floors: a depositor never receives more shares than the
// current ratio implies.
func (v *Vault) ConvertToShares(assets uint64) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.toSharesLocked(assets, false)
}

// ConvertToAssets floors: a redeemer never receives more assets than the
// current ratio implies.
func (v *Vault) ConvertToAssets(shares uint64) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.toAssetsLocked(shares, false)
}

// PreviewDeposit returns the shares a deposit would mint (floor).
func (v *Vault) PreviewDeposit(assets uint64) (uint64, error) {
	return v.ConvertToShares(assets)
}

// PreviewMint returns the assets a mint would pull (ceiling — the vault never
// loses value to rounding when the caller names shares).
func (v *Vault) PreviewMint(shares uint64) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.toAssetsLocked(shares, true)
}

// PreviewWithdraw returns the shares a withdrawal of the named gross assets
// would burn (ceiling — shares owed are rounded against the caller).
func (v *Vault) PreviewWithdraw(assets uint64) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.toSharesLocked(assets, true)
}

// PreviewRedeem returns the net assets a redemption would pay the receiver
// after the exit fee (floor on the gross conversion).
func (v *Vault) PreviewRedeem(shares uint64) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	gross, err := v.toAssetsLocked(shares, false)
	if err != nil {
		return 0, err
	}
	return gross - v.feeOnLocked(gross), nil
}

// MaxDeposit is zero while paused, otherwise the remaining headroom before
// totalAssets would overflow.
func (v *Vault) MaxDeposit(domain.Address) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.paused || !v.initialized {
		return 0
	}
	total, err := v.totalAssetsLocked()
	if err != nil {
		return 0
	}
	return math.MaxUint64 - total
}

// MaxMint is zero while paused, otherwise the remaining share headroom.
func (v *Vault) MaxMint(domain.Address) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.paused || !v.initialized {
		return 0
	}
	return math.MaxUint64 - v.supply
}

// MaxWithdraw is the gross asset value of the owner's full balance.
func (v *Vault) MaxWithdraw(owner domain.Address) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	assets, err := v.toAssetsLocked(v.balances[owner], false)
	if err != nil {
		return 0
	}
	return assets
}

// MaxRedeem is the owner's full share balance.
func (v *Vault) MaxRedeem(owner domain.Address) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balances[owner]
}
