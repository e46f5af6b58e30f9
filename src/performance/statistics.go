package performance

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/linkenghong/Backtesting/src/datafeed"
)

// DefaultPeriods annualizes daily bars.
const DefaultPeriods = 252.0

// Results is the summary contract consumed by reporting: headline statistics
// plus the full series for downstream rendering.
type Results struct {
	Sharpe              float64     `json:"sharpe"`
	Sortino             float64     `json:"sortino"`
	CAGR                float64     `json:"cagr"`
	MaxDrawdown         float64     `json:"max_drawdown"`
	MaxDrawdownPct      float64     `json:"max_drawdown_pct"`
	MaxDrawdownStart    time.Time   `json:"max_drawdown_start"`
	MaxDrawdownEnd      time.Time   `json:"max_drawdown_end"`
	MaxDrawdownDuration int         `json:"max_drawdown_duration"`
	TotalReturn         float64     `json:"total_return"`
	Timestamps          []time.Time `json:"timestamps"`
	Equity              []float64   `json:"equity"`
	Returns             []float64   `json:"returns"`
	CumReturns          []float64   `json:"cum_returns"`
	Drawdowns           []float64   `json:"drawdowns"`
	DrawdownDurations   []int       `json:"drawdown_durations"`

	// benchmark curve, present only when a benchmark symbol is configured
	Benchmark            string    `json:"benchmark,omitempty"`
	SharpeBenchmark      float64   `json:"sharpe_b,omitempty"`
	MaxDrawdownBenchmark float64   `json:"max_drawdown_b,omitempty"`
	TotalReturnBenchmark float64   `json:"total_return_b,omitempty"`
	EquityBenchmark      []float64 `json:"equity_b,omitempty"`
}

// Statistics accumulates the equity series as bars are processed and derives
// the summary statistics once the run is finalized. Insertion order is
// chronological; repeated updates for the same timestamp (several symbols on
// one bar timestamp) overwrite the last snapshot.
type Statistics struct {
	periods     float64
	dataHandler datafeed.DataHandler
	benchmark   string

	timestamps      []time.Time
	equity          []float64
	equityBenchmark []float64
}

func NewStatistics(periods float64, dataHandler datafeed.DataHandler, benchmark string) *Statistics {
	if periods <= 0 {
		periods = DefaultPeriods
	}

	return &Statistics{
		periods:     periods,
		dataHandler: dataHandler,
		benchmark:   benchmark,
	}
}

// Update records the current portfolio equity under the given timestamp, and
// the benchmark's latest close when a benchmark is tracked.
func (s *Statistics) Update(timestamp time.Time, equity float64) {
	var benchClose float64
	if s.benchmark != "" {
		closePrice, ok := s.dataHandler.LastClose(s.benchmark)
		if !ok {
			log.Warnf("no close price for benchmark %s at %s", s.benchmark, timestamp)
			// carry the last observation forward so a data gap never injects
			// a zero into the benchmark series
			if n := len(s.equityBenchmark); n > 0 {
				closePrice = s.equityBenchmark[n-1]
			}
		}
		benchClose = closePrice
	}

	if n := len(s.timestamps); n > 0 && s.timestamps[n-1].Equal(timestamp) {
		s.equity[n-1] = equity
		if s.benchmark != "" {
			s.equityBenchmark[n-1] = benchClose
		}
		return
	}

	s.timestamps = append(s.timestamps, timestamp)
	s.equity = append(s.equity, equity)
	if s.benchmark != "" {
		s.equityBenchmark = append(s.equityBenchmark, benchClose)
	}
}

// Results finalizes the series and computes every summary statistic. Numeric
// edge cases (zero variance, empty series) surface as NaN values, never as a
// panic.
func (s *Statistics) Results() *Results {
	returns := Returns(s.equity)
	cumReturns := CumulativeReturns(returns)
	drawdowns, durations := Drawdowns(cumReturns)
	maxDD, maxDuration, startIdx, endIdx := MaxDrawdown(drawdowns, durations)

	results := &Results{
		Sharpe:              SharpeRatio(returns, s.periods),
		Sortino:             SortinoRatio(returns, s.periods),
		CAGR:                CAGR(cumReturns, s.periods),
		MaxDrawdown:         maxDD,
		MaxDrawdownPct:      maxDD,
		MaxDrawdownDuration: maxDuration,
		TotalReturn:         math.NaN(),
		Timestamps:          s.timestamps,
		Equity:              s.equity,
		Returns:             returns,
		CumReturns:          cumReturns,
		Drawdowns:           drawdowns,
		DrawdownDurations:   durations,
	}

	if len(cumReturns) > 0 {
		results.TotalReturn = cumReturns[len(cumReturns)-1] - 1.0
	}
	if len(s.timestamps) > 0 {
		results.MaxDrawdownStart = s.timestamps[startIdx]
		results.MaxDrawdownEnd = s.timestamps[endIdx]
	}

	if s.benchmark != "" {
		benchReturns := Returns(s.equityBenchmark)
		benchCum := CumulativeReturns(benchReturns)
		benchDD, benchDur := Drawdowns(benchCum)
		benchMaxDD, _, _, _ := MaxDrawdown(benchDD, benchDur)

		results.Benchmark = s.benchmark
		results.SharpeBenchmark = SharpeRatio(benchReturns, s.periods)
		results.MaxDrawdownBenchmark = benchMaxDD
		results.EquityBenchmark = s.equityBenchmark
		if len(benchCum) > 0 {
			results.TotalReturnBenchmark = benchCum[len(benchCum)-1] - 1.0
		}
	}

	return results
}
