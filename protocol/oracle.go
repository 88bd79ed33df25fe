package protocol

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrStalePrice   = errors.New("oracle price is stale")
	ErrInvalidPrice = errors.New("oracle price is not positive")
)

// PriceOracle reports the current price of an asset along with the time it
// was observed.
type PriceOracle interface {
	Price(ctx context.Context, asset string) (decimal.Decimal, time.Time, error)
}

// ValidatedPrice reads a price and enforces the oracle contract: reject if
// stale beyond maxAge, reject if non-positive.
func ValidatedPrice(ctx context.Context, o PriceOracle, asset string, maxAge time.Duration, now time.Time) (decimal.Decimal, error) {
	price, at, err := o.Price(ctx, asset)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read price %s: %w", asset, err)
	}
	if now.Sub(at) > maxAge {
		return decimal.Zero, fmt.Errorf("%s observed %s ago: %w", asset, now.Sub(at), ErrStalePrice)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s = %s: %w", asset, price, ErrInvalidPrice)
	}
	return price, nil
}
