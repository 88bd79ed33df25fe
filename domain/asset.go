package domain

// Address identifies an actor or component inside a chain's address space.
// The zero value is never a valid identity.
type Address string

// ZeroAddress is the invalid empty identity.
const ZeroAddress Address = ""

// IsZero reports whether the address is the invalid empty identity.
func (a Address) IsZero() bool { return a == ZeroAddress }

// ChainID identifies a chain in the hub-and-spoke topology.
type ChainID uint32

// Asset represents the identity of the vault's underlying asset.
// This is strictly identity metadata — it does NOT carry quantity/balance.
type Asset struct {
	Ticker   string
	Name     string
	Decimals int32
}
