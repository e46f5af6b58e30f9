package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/linkenghong/Backtesting/src/performance"
)

const (
	chartWidth  = "1200px"
	chartHeight = "420px"
)

// WriteHTML renders the run's equity curve and drawdown series to a
// self-contained HTML page at path.
func WriteHTML(path, title string, res *performance.Results) error {
	xAxis := make([]string, len(res.Timestamps))
	for i, ts := range res.Timestamps {
		xAxis[i] = ts.Format("2006-01-02")
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		buildEquityChart(title, xAxis, res),
		buildDrawdownChart(xAxis, res),
	)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	defer file.Close()

	if err := page.Render(file); err != nil {
		return fmt.Errorf("failed to render report %s: %w", path, err)
	}

	return nil
}

func buildEquityChart(title string, xAxis []string, res *performance.Results) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("total return %.2f%% | sharpe %.2f | max drawdown %.2f%%", res.TotalReturn*100, res.Sharpe, res.MaxDrawdown*100),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
	)

	line.SetXAxis(xAxis)
	line.AddSeries("Equity", toLineData(res.Equity),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	if res.Benchmark != "" && len(res.EquityBenchmark) == len(res.Equity) {
		line.AddSeries(fmt.Sprintf("Benchmark (%s)", res.Benchmark), toNormalizedLineData(res.EquityBenchmark, res.Equity),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}

	return line
}

func buildDrawdownChart(xAxis []string, res *performance.Results) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Drawdown"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	drawdowns := make([]opts.LineData, len(res.Drawdowns))
	for i, dd := range res.Drawdowns {
		drawdowns[i] = opts.LineData{Value: -dd}
	}

	line.SetXAxis(xAxis)
	line.AddSeries("Drawdown", drawdowns,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.4)}))

	return line
}

func toLineData(series []float64) []opts.LineData {
	data := make([]opts.LineData, len(series))
	for i, v := range series {
		data[i] = opts.LineData{Value: v}
	}
	return data
}

// toNormalizedLineData rescales the benchmark close series to start at the
// portfolio's initial equity so the two curves share an axis.
func toNormalizedLineData(benchmark, equity []float64) []opts.LineData {
	data := make([]opts.LineData, len(benchmark))
	if len(benchmark) == 0 || len(equity) == 0 || benchmark[0] == 0 {
		return data
	}

	scale := equity[0] / benchmark[0]
	for i, v := range benchmark {
		data[i] = opts.LineData{Value: v * scale}
	}
	return data
}
