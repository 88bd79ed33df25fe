package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type quote struct {
	price decimal.Decimal
	at    time.Time
}

// Oracle implements protocol.PriceOracle with settable prices and
// observation times.
type Oracle struct {
	mu     sync.Mutex
	quotes map[string]quote
	err    error
}

func NewOracle() *Oracle {
	return &Oracle{quotes: make(map[string]quote)}
}

// SetPrice fixes an asset's price and the time it was observed.
func (o *Oracle) SetPrice(asset string, price decimal.Decimal, at time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.quotes[asset] = quote{price: price, at: at}
}

// FailWith makes every Price call fail.
func (o *Oracle) FailWith(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

func (o *Oracle) Price(ctx context.Context, asset string) (decimal.Decimal, time.Time, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return decimal.Zero, time.Time{}, o.err
	}
	q, ok := o.quotes[asset]
	if !ok {
		return decimal.Zero, time.Time{}, fmt.Errorf("no price for %s", asset)
	}
	return q.price, q.at, nil
}
