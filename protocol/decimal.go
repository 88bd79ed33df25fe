package protocol

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// DecimalFromUint64 lifts a smallest-unit amount into decimal space.
func DecimalFromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

// Uint64Floor truncates a decimal back to smallest units. ok is false for
// negative values or values that do not fit.
func Uint64Floor(d decimal.Decimal) (uint64, bool) {
	f := d.Floor()
	if f.Sign() < 0 {
		return 0, false
	}
	bi := f.BigInt()
	if !bi.IsUint64() {
		return 0, false
	}
	return bi.Uint64(), true
}
