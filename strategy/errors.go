package strategy

import "errors"

var (
	ErrZeroAddress          = errors.New("zero address")
	ErrZeroAmount           = errors.New("zero amount")
	ErrDeploymentNotFound   = errors.New("deployment not found")
	ErrInsufficientDeployed = errors.New("insufficient deployed amount")
	ErrTransportNotApproved = errors.New("transport not allowlisted")
	ErrTargetNotApproved    = errors.New("swap target not allowlisted")
	ErrSameToken            = errors.New("swap input and output are the same token")
	ErrBalanceMismatch      = errors.New("swap input delta does not match declared amount")
	ErrSlippage             = errors.New("swap output below declared minimum")
)
