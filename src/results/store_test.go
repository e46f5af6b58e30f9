package results

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkenghong/Backtesting/src/eventmodels"
	"github.com/linkenghong/Backtesting/src/performance"
)

func testResults() *performance.Results {
	ts := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	return &performance.Results{
		Sharpe:      1.2,
		TotalReturn: 0.05,
		MaxDrawdown: 0.1,
		Timestamps:  []time.Time{ts, ts.AddDate(0, 0, 1)},
		Equity:      []float64{100000, 105000},
		Drawdowns:   []float64{0, 0},
	}
}

func TestStoreSaveRun(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)

	fills := []*eventmodels.FillEvent{
		eventmodels.NewFillEvent("fill-1", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), "600000.SS", eventmodels.ActionBuy, 100, 10.01, 5.00, "CN"),
	}

	err = store.SaveRun("run-1", "buy_and_hold", "600000.SS", 100000, testResults(), fills)
	require.NoError(t, err)

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, "run-1", run.RunID)
	assert.Equal(t, "buy_and_hold", run.Strategy)
	assert.Equal(t, 105000.0, run.FinalEquity)
	assert.Equal(t, 1, run.FillCount)
}

func TestStoreRejectsDuplicateRunID(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)

	require.NoError(t, store.SaveRun("run-1", "buy_and_hold", "600000.SS", 100000, testResults(), nil))

	err = store.SaveRun("run-1", "buy_and_hold", "600000.SS", 100000, testResults(), nil)
	assert.Error(t, err)
}
