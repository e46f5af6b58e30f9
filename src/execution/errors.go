package execution

import "errors"

// ErrNoPriceAvailable is returned when the bar source has no last price for
// an order's symbol. The order cannot be priced and must never be filled at
// a fabricated zero price.
var ErrNoPriceAvailable = errors.New("no price available for symbol")
