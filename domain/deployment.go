package domain

import (
	"fmt"
	"time"
)

// DeploymentID identifies a tracked capital deployment. Ids are derived from
// the destination chain and a monotonic per-tracker nonce, never from
// wall-clock time, so same-step repeats cannot collide.
type DeploymentID string

// NewDeploymentID derives the id for the nth deployment to a destination.
func NewDeploymentID(dst ChainID, nonce uint64) DeploymentID {
	return DeploymentID(fmt.Sprintf("dep-%d-%d", dst, nonce))
}

// Deployment is a manually-tracked record of capital sent to a remote chain
// for yield-seeking. Amount is mutable: reconciliation overwrites it, partial
// withdrawal decrements it, and the record is removed when it reaches zero.
type Deployment struct {
	ID               DeploymentID `json:"id"`
	DestinationChain ChainID      `json:"destination_chain"`
	DestinationVault Address      `json:"destination_vault"`
	Amount           uint64       `json:"amount"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
