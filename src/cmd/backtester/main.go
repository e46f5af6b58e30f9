package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/linkenghong/Backtesting/src/backtest"
	"github.com/linkenghong/Backtesting/src/datafeed"
	"github.com/linkenghong/Backtesting/src/eventmodels"
	"github.com/linkenghong/Backtesting/src/eventpubsub"
	"github.com/linkenghong/Backtesting/src/execution"
	"github.com/linkenghong/Backtesting/src/performance"
	"github.com/linkenghong/Backtesting/src/portfolio"
	"github.com/linkenghong/Backtesting/src/recorder"
	"github.com/linkenghong/Backtesting/src/report"
	"github.com/linkenghong/Backtesting/src/results"
	"github.com/linkenghong/Backtesting/src/risk"
	"github.com/linkenghong/Backtesting/src/sizing"
	"github.com/linkenghong/Backtesting/src/strategy"
	"github.com/linkenghong/Backtesting/src/utils"
)

const dateLayout = "2006-01-02"

type RunArgs struct {
	ConfigFile string
}

var runCmd = &cobra.Command{
	Use:   "backtester --config backtest-config.yaml",
	Short: "Run an A-share strategy backtest from a YAML config",
	Run: func(cmd *cobra.Command, args []string) {
		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		if err := Run(RunArgs{ConfigFile: configFile}); err != nil {
			log.Fatalf("Error: %v", err)
		}

		log.Info("Done")
	},
}

func Run(args RunArgs) error {
	ctx := context.Background()

	if err := utils.InitEnvironmentVariables(); err != nil {
		return fmt.Errorf("failed to init environment variables: %w", err)
	}

	config, err := loadConfig(args.ConfigFile)
	if err != nil {
		return err
	}

	var startDate, endDate time.Time
	if config.StartDate != "" {
		if startDate, err = time.Parse(dateLayout, config.StartDate); err != nil {
			return fmt.Errorf("failed to parse start_date: %v", err)
		}
	}
	if config.EndDate != "" {
		if endDate, err = time.Parse(dateLayout, config.EndDate); err != nil {
			return fmt.Errorf("failed to parse end_date: %v", err)
		}
	}

	if err := os.MkdirAll(config.OutDir, 0755); err != nil {
		return fmt.Errorf("failed to create out dir %s: %w", config.OutDir, err)
	}

	eventpubsub.Init()
	defer eventpubsub.Reset()

	symbols := config.Symbols
	if config.Benchmark != "" && !contains(symbols, config.Benchmark) {
		symbols = append(append([]string{}, symbols...), config.Benchmark)
	}

	dataHandler, err := datafeed.NewHistoricCSVDataHandler(config.DataDir, symbols, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to load price data: %w", err)
	}

	queue := eventmodels.NewQueue()

	strat, err := buildStrategy(config, queue)
	if err != nil {
		return err
	}

	portfolioHandler := portfolio.NewPortfolioHandler(
		config.InitialCash,
		queue,
		dataHandler,
		sizing.NewFixedPositionSizer(config.BaseQuantity),
		risk.NewPassthroughRiskManager(),
	)

	executionHandler := execution.NewAShareSimulatedExecutionHandler(queue, dataHandler, portfolioHandler.Portfolio, config.Slippage)

	statistics := performance.NewStatistics(config.Periods, dataHandler, config.Benchmark)

	now := time.Now()
	tradeLog, err := recorder.NewTradeLog(config.OutDir, now)
	if err != nil {
		return err
	}
	positionLog, err := recorder.NewPositionLog(config.OutDir, now)
	if err != nil {
		return err
	}

	bt := backtest.NewBacktest(queue, dataHandler, strat, portfolioHandler, executionHandler, statistics)

	res, err := bt.Run(ctx)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	if err := tradeLog.Flush(); err != nil {
		return err
	}
	if err := positionLog.Flush(); err != nil {
		return err
	}

	printSummary(config, res, len(bt.Fills()), len(bt.Portfolio().ClosedPositions))

	if config.ResultsDB != "" {
		store, err := results.NewStore(config.ResultsDB)
		if err != nil {
			return err
		}

		runID := uuid.NewString()
		if err := store.SaveRun(runID, config.Strategy, strings.Join(config.Symbols, ","), config.InitialCash, res, bt.Fills()); err != nil {
			return err
		}

		log.Infof("saved run %s to %s", runID, config.ResultsDB)
	}

	if config.ReportHTML {
		reportPath := filepath.Join(config.OutDir, fmt.Sprintf("report_%s.html", now.Format(dateLayout)))
		title := fmt.Sprintf("%s on %s", config.Strategy, strings.Join(config.Symbols, ", "))
		if err := report.WriteHTML(reportPath, title, res); err != nil {
			return err
		}

		log.Infof("wrote report to %s", reportPath)
	}

	return nil
}

func contains(symbols []string, symbol string) bool {
	for _, s := range symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

func loadConfig(path string) (*eventmodels.BacktestConfigYAML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %v", path, err)
	}

	var config eventmodels.BacktestConfigYAML
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config %s: %v", path, err)
	}

	if len(config.Symbols) == 0 {
		return nil, fmt.Errorf("config %s: at least one symbol is required", path)
	}
	if config.InitialCash <= 0 {
		return nil, fmt.Errorf("config %s: initial_cash must be positive", path)
	}
	if config.DataDir == "" {
		return nil, fmt.Errorf("config %s: data_dir is required", path)
	}

	if config.OutDir == "" {
		config.OutDir = "out"
	}
	if config.BaseQuantity <= 0 {
		config.BaseQuantity = 100
	}
	if config.Slippage == 0 {
		config.Slippage = execution.DefaultSlippage
	}
	if config.Strategy == "" {
		config.Strategy = "avg_price_band"
	}

	return &config, nil
}

func buildStrategy(config *eventmodels.BacktestConfigYAML, queue *eventmodels.Queue) (strategy.Strategy, error) {
	strategies := make([]strategy.Strategy, 0, len(config.Symbols))

	for _, symbol := range config.Symbols {
		switch config.Strategy {
		case "buy_and_hold":
			strategies = append(strategies, strategy.NewBuyAndHoldStrategy(symbol, queue, config.BaseQuantity))
		case "avg_price_band":
			strategies = append(strategies, strategy.NewAvgPriceBandStrategy(symbol, queue, config.BaseQuantity))
		case "sma_cross":
			fast, slow := config.FastPeriod, config.SlowPeriod
			if fast <= 0 {
				fast = 10
			}
			if slow <= fast {
				slow = 30
			}
			strategies = append(strategies, strategy.NewSMACrossStrategy(symbol, queue, config.BaseQuantity, fast, slow))
		default:
			return nil, fmt.Errorf("unknown strategy %q", config.Strategy)
		}
	}

	return strategy.NewStrategies(strategies...), nil
}

func printSummary(config *eventmodels.BacktestConfigYAML, res *performance.Results, fillCount, closedCount int) {
	finalEquity := config.InitialCash
	if n := len(res.Equity); n > 0 {
		finalEquity = res.Equity[n-1]
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	table.Append([]string{"Initial Cash", fmt.Sprintf("%.2f", config.InitialCash)})
	table.Append([]string{"Final Equity", fmt.Sprintf("%.2f", finalEquity)})
	table.Append([]string{"Total Return", fmt.Sprintf("%.2f%%", res.TotalReturn*100)})
	table.Append([]string{"CAGR", fmt.Sprintf("%.2f%%", res.CAGR*100)})
	table.Append([]string{"Sharpe Ratio", fmt.Sprintf("%.2f", res.Sharpe)})
	table.Append([]string{"Sortino Ratio", fmt.Sprintf("%.2f", res.Sortino)})
	table.Append([]string{"Max Drawdown", fmt.Sprintf("%.2f%%", res.MaxDrawdown*100)})
	table.Append([]string{"Max DD Duration", fmt.Sprintf("%d bars", res.MaxDrawdownDuration)})
	table.Append([]string{"Fills", fmt.Sprintf("%d", fillCount)})
	table.Append([]string{"Closed Positions", fmt.Sprintf("%d", closedCount)})

	if res.Benchmark != "" {
		table.Append([]string{"Benchmark", res.Benchmark})
		table.Append([]string{"Benchmark Return", fmt.Sprintf("%.2f%%", res.TotalReturnBenchmark*100)})
		table.Append([]string{"Benchmark Sharpe", fmt.Sprintf("%.2f", res.SharpeBenchmark)})
		table.Append([]string{"Benchmark Max DD", fmt.Sprintf("%.2f%%", res.MaxDrawdownBenchmark*100)})
	}

	table.Render()
}

func main() {
	runCmd.PersistentFlags().String("config", "backtest-config.yaml", "Path to the backtest YAML config.")
	runCmd.Execute()
}
