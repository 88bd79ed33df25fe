package vault

import (
	"context"

	"github.com/ManuelElias1999/CuyFI/domain"
)

// DeployedFunds reports capital tracked on remote chains. The deployment
// tracker implements this; TotalAssets folds it into the share price, which
// is how remote yield becomes visible to the ledger.
type DeployedFunds interface {
	TotalDeployed() uint64
}

// CapitalConduit pushes underlying asset outward across chains without
// minting shares. The composer implements this; the vault is its only
// permitted caller, reachable exclusively through the agent-gated
// deploy-to-chain path.
type CapitalConduit interface {
	DepositAndSend(ctx context.Context, caller domain.Address, amount uint64, params domain.SendParams, paidFee uint64) error
}
