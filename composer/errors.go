package composer

import "errors"

var (
	ErrZeroAddress        = errors.New("zero address")
	ErrZeroAmount         = errors.New("zero amount")
	ErrUntrustedEndpoint  = errors.New("caller is not the trusted transport endpoint")
	ErrChannelNotAllowed  = errors.New("originating transport channel not allowlisted")
	ErrDuplicateMessage   = errors.New("message id already processed")
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrAlreadyCompleted   = errors.New("settlement already completed")
	ErrSettlementExpired  = errors.New("settlement past expiry window")
	ErrNotVault           = errors.New("caller is not the ledger")
	ErrSlippageBound      = errors.New("minted shares below declared minimum")
)
