package composer

import (
	"fmt"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/transport"
)

// QuoteDeposit returns the transport fee the return leg of a prospective
// deposit will require, computed from the same parameters the inbound flow
// uses. assets is the deposit value; the quoted leg carries the shares it
// would mint. Hub-chain beneficiaries cost nothing: delivery is a local
// transfer.
func (c *Composer) QuoteDeposit(params domain.SendParams, assets uint64) (uint64, error) {
	if params.DstChain == c.hubChain {
		return 0, nil
	}
	shares, err := c.vault.PreviewDeposit(assets)
	if err != nil {
		return 0, fmt.Errorf("preview deposit: %w", err)
	}
	return c.bridge.QuoteSend(transport.SendRequest{
		DstChain:  params.DstChain,
		Recipient: params.Recipient,
		Amount:    shares,
		Kind:      transport.KindShares,
	})
}

// QuoteFinalize returns the fee finalizing an existing pending settlement
// will require right now.
func (c *Composer) QuoteFinalize(guid string) (uint64, error) {
	rec, err := c.Settlement(guid)
	if err != nil {
		return 0, err
	}
	if rec.BeneficiaryChain == c.hubChain {
		return 0, nil
	}
	return c.bridge.QuoteSend(transport.SendRequest{
		DstChain:  rec.BeneficiaryChain,
		Recipient: rec.Beneficiary,
		Amount:    rec.Shares,
		Kind:      transport.KindShares,
	})
}
