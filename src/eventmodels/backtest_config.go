package eventmodels

// BacktestConfigYAML is the on-disk run configuration.
type BacktestConfigYAML struct {
	Symbols      []string `yaml:"symbols"`
	Benchmark    string   `yaml:"benchmark"`
	StartDate    string   `yaml:"start_date"`
	EndDate      string   `yaml:"end_date"`
	DataDir      string   `yaml:"data_dir"`
	OutDir       string   `yaml:"out_dir"`
	InitialCash  float64  `yaml:"initial_cash"`
	Strategy     string   `yaml:"strategy"`
	BaseQuantity int64    `yaml:"base_quantity"`
	Slippage     float64  `yaml:"slippage"`
	Periods      float64  `yaml:"periods"`
	FastPeriod   int      `yaml:"fast_period"`
	SlowPeriod   int      `yaml:"slow_period"`
	ResultsDB    string   `yaml:"results_db"`
	ReportHTML   bool     `yaml:"report_html"`
}
