package domain

import "time"

type SettlementStatus string

const (
	SettlementStatusPending   SettlementStatus = "PENDING"
	SettlementStatusCompleted SettlementStatus = "COMPLETED"
	SettlementStatusExpired   SettlementStatus = "EXPIRED"
)

// PendingSettlement is a deposit whose local minting succeeded but whose
// share-delivery return leg has not completed. The minted shares sit on the
// composer's balance until finalize delivers them; past the expiry window the
// record becomes permanently unfinalizable — no recovery path exists.
type PendingSettlement struct {
	GUID             string           `json:"guid"`
	Beneficiary      Address          `json:"beneficiary"`
	BeneficiaryChain ChainID          `json:"beneficiary_chain"`
	Shares           uint64           `json:"shares"`
	CreatedAt        time.Time        `json:"created_at"`
	Status           SettlementStatus `json:"status"`
}

// Completed reports whether the settlement has already delivered its shares.
func (p *PendingSettlement) Completed() bool {
	return p.Status == SettlementStatusCompleted
}

// ExpiredAt reports whether the settlement is past its finalize window at t.
func (p *PendingSettlement) ExpiredAt(t time.Time, window time.Duration) bool {
	return t.After(p.CreatedAt.Add(window))
}
