package performance

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Returns computes pointwise percent change over the equity series. The
// first element is defined as 0.
func Returns(equity []float64) []float64 {
	returns := make([]float64, len(equity))
	for t := 1; t < len(equity); t++ {
		returns[t] = equity[t]/equity[t-1] - 1.0
	}

	return returns
}

// CumulativeReturns builds the compounded return curve Π(1 + r).
func CumulativeReturns(returns []float64) []float64 {
	curve := make([]float64, len(returns))
	acc := 1.0
	for t, r := range returns {
		acc *= 1.0 + r
		curve[t] = acc
	}

	return curve
}

// SharpeRatio computes sqrt(periods) · mean(returns) / stdev(returns) with a
// zero risk-free rate. A zero-variance or empty series yields NaN, never a
// panic.
func SharpeRatio(returns []float64, periods float64) float64 {
	mean, err := stats.Mean(returns)
	if err != nil {
		return math.NaN()
	}

	sd, err := stats.StandardDeviation(returns)
	if err != nil || sd == 0 {
		return math.NaN()
	}

	return math.Sqrt(periods) * mean / sd
}

// SortinoRatio is the Sharpe variant penalizing only downside volatility:
// sqrt(periods) · mean(returns) / sqrt(mean(min(r, 0)²)).
func SortinoRatio(returns []float64, periods float64) float64 {
	mean, err := stats.Mean(returns)
	if err != nil {
		return math.NaN()
	}

	downside := make([]float64, len(returns))
	for t, r := range returns {
		if r < 0 {
			downside[t] = r * r
		}
	}

	meanSq, err := stats.Mean(downside)
	if err != nil {
		return math.NaN()
	}

	dd := math.Sqrt(meanSq)
	if dd == 0 {
		return math.NaN()
	}

	return math.Sqrt(periods) * mean / dd
}

// CAGR derives the compound annual growth rate from the cumulative-return
// curve, with periods bars to a year.
func CAGR(cumReturns []float64, periods float64) float64 {
	if len(cumReturns) == 0 || periods <= 0 {
		return math.NaN()
	}

	total := cumReturns[len(cumReturns)-1]
	if total <= 0 {
		return math.NaN()
	}

	years := float64(len(cumReturns)) / periods
	if years <= 0 {
		return math.NaN()
	}

	return math.Pow(total, 1.0/years) - 1.0
}

// Drawdowns derives the drawdown and drawdown-duration series from an equity
// (or cumulative-return) curve. The high-water mark starts at the 0 sentinel,
// so index 0 is inherently flat and the series begins at the second index.
func Drawdowns(equity []float64) (drawdown []float64, duration []int) {
	n := len(equity)
	drawdown = make([]float64, n)
	duration = make([]int, n)
	if n == 0 {
		return drawdown, duration
	}

	hwm := make([]float64, n)
	for t := 1; t < n; t++ {
		hwm[t] = math.Max(hwm[t-1], equity[t])
		if hwm[t] > 0 {
			drawdown[t] = (hwm[t] - equity[t]) / hwm[t]
		}
		if drawdown[t] == 0 {
			duration[t] = 0
		} else {
			duration[t] = duration[t-1] + 1
		}
	}

	return drawdown, duration
}

// MaxDrawdown reports the worst normalized drawdown, its duration peak, and
// the bounding indices of the worst window for diagnostics. Start is the
// last flat index before the trough; end is the trough itself.
func MaxDrawdown(drawdown []float64, duration []int) (maxDD float64, maxDuration int, startIdx int, endIdx int) {
	for t, dd := range drawdown {
		if dd > maxDD {
			maxDD = dd
			endIdx = t
		}
		if duration[t] > maxDuration {
			maxDuration = duration[t]
		}
	}

	for t := endIdx; t >= 0; t-- {
		if drawdown[t] == 0 {
			startIdx = t
			break
		}
	}

	return maxDD, maxDuration, startIdx, endIdx
}
