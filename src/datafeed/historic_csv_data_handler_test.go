package datafeed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, symbol, content string) {
	t.Helper()

	err := os.WriteFile(filepath.Join(dir, symbol+".csv"), []byte(content), 0644)
	require.NoError(t, err)
}

func TestNewHistoricCSVDataHandler(t *testing.T) {
	t.Run("missing csv fails at setup time", func(t *testing.T) {
		_, err := NewHistoricCSVDataHandler(t.TempDir(), []string{"600000.SS"}, time.Time{}, time.Time{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "600000.SS")
	})

	t.Run("empty backtest period fails at setup time", func(t *testing.T) {
		dir := t.TempDir()
		writeCSV(t, dir, "600000.SS", "Date,Open,High,Low,Close,Volume,Adj Close\n2020-01-02,10,10,10,10,1000,10\n")

		_, err := NewHistoricCSVDataHandler(dir, []string{"600000.SS"}, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{})

		require.Error(t, err)
	})
}

func TestStreamNextOrdering(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "600000.SS", "Date,Open,High,Low,Close,Volume,Adj Close\n2020-01-02,10,10,10,10,1000,10\n2020-01-03,11,11,11,11,1000,11\n")
	writeCSV(t, dir, "000001.SZ", "Date,Open,High,Low,Close,Volume,Adj Close\n2020-01-02,20,20,20,20,2000,20\n2020-01-03,21,21,21,21,2000,21\n")

	handler, err := NewHistoricCSVDataHandler(dir, []string{"600000.SS", "000001.SZ"}, time.Time{}, time.Time{})
	require.NoError(t, err)

	var symbols []string
	var newDays []bool
	for {
		bar, ok := handler.StreamNext()
		if !ok {
			break
		}
		symbols = append(symbols, bar.Symbol)
		newDays = append(newDays, bar.NewDay)
	}

	// timestamp ascending, symbol lexical for ties
	assert.Equal(t, []string{"000001.SZ", "600000.SS", "000001.SZ", "600000.SS"}, symbols)

	// first bar of the run is not a new day; only the first bar of each
	// subsequent day is
	assert.Equal(t, []bool{false, false, true, false}, newDays)
}

func TestDateRangeFilter(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "600000.SS", "Date,Open,High,Low,Close,Volume,Adj Close\n2020-01-02,10,10,10,10,1000,10\n2020-01-03,11,11,11,11,1000,11\n2020-01-06,12,12,12,12,1000,12\n")

	handler, err := NewHistoricCSVDataHandler(
		dir,
		[]string{"600000.SS"},
		time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	bar, ok := handler.StreamNext()
	require.True(t, ok)
	assert.Equal(t, 11.0, bar.Close)

	_, ok = handler.StreamNext()
	assert.False(t, ok)
}

func TestLatestCacheSeededBeforeStreaming(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "600000.SS", "Date,Open,High,Low,Close,Volume,Adj Close\n2020-01-02,10,10,10,10,1000,10\n2020-01-03,11,11,11,11,1000,11\n")

	handler, err := NewHistoricCSVDataHandler(dir, []string{"600000.SS"}, time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC), time.Time{})
	require.NoError(t, err)

	// seeded from the file's first row, even though that row is outside the
	// backtest range
	closePrice, ok := handler.LastClose("600000.SS")
	require.True(t, ok)
	assert.Equal(t, 10.0, closePrice)

	_, ok = handler.StreamNext()
	require.True(t, ok)

	closePrice, _ = handler.LastClose("600000.SS")
	assert.Equal(t, 11.0, closePrice)
}

func TestUnsubscribeSymbol(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "600000.SS", "Date,Open,High,Low,Close,Volume,Adj Close\n2020-01-02,10,10,10,10,1000,10\n")

	handler, err := NewHistoricCSVDataHandler(dir, []string{"600000.SS"}, time.Time{}, time.Time{})
	require.NoError(t, err)

	handler.UnsubscribeSymbol("600000.SS")

	_, ok := handler.LastClose("600000.SS")
	assert.False(t, ok)
}
