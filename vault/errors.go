package vault

import "errors"

var (
	ErrNotInitialized        = errors.New("vault not initialized")
	ErrAlreadyInitialized    = errors.New("vault already initialized")
	ErrZeroAddress           = errors.New("zero address")
	ErrZeroAmount            = errors.New("zero amount")
	ErrZeroShares            = errors.New("computed shares are zero")
	ErrPaused                = errors.New("vault is paused")
	ErrExceedsMax            = errors.New("amount exceeds maximum")
	ErrFeeTooHigh            = errors.New("fee above cap")
	ErrZeroTotalAssets       = errors.New("total assets is zero with outstanding shares")
	ErrInsufficientShares    = errors.New("insufficient share balance")
	ErrInsufficientLiquidity = errors.New("insufficient local liquidity")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrNotStrategy           = errors.New("caller is not the strategy executor")
)
