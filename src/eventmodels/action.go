package eventmodels

// Action is the side of a signal, order or fill.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// Direction returns +1 for BUY and -1 for SELL.
func (a Action) Direction() int64 {
	if a == ActionSell {
		return -1
	}

	return 1
}
