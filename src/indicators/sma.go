package indicators

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// SMA is a rolling simple moving average over closing prices.
type SMA struct {
	Period int
	prices []float64
}

func NewSMA(period int) *SMA {
	return &SMA{Period: period}
}

// Update feeds the next price into the window. The boolean is false until the
// window has filled.
func (s *SMA) Update(price float64) (bool, float64, error) {
	if len(s.prices) < s.Period {
		s.prices = append(s.prices, price)
		if len(s.prices) < s.Period {
			return false, 0, nil
		}
	} else {
		s.prices = append(s.prices[1:], price)
	}

	mean, err := stats.Mean(s.prices)
	if err != nil {
		return false, 0, fmt.Errorf("failed to calculate mean: %v", err)
	}

	return true, mean, nil
}
