package results

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/linkenghong/Backtesting/src/eventmodels"
	"github.com/linkenghong/Backtesting/src/logger"
	"github.com/linkenghong/Backtesting/src/performance"
)

// RunRecord is the headline row for one backtest run.
type RunRecord struct {
	ID          uint   `gorm:"primarykey"`
	RunID       string `gorm:"uniqueIndex;size:36"`
	CreatedAt   time.Time
	Strategy    string
	Symbols     string
	Benchmark   string
	InitialCash float64
	FinalEquity float64
	TotalReturn float64
	Sharpe      float64
	Sortino     float64
	CAGR        float64
	MaxDrawdown float64
	FillCount   int
}

// FillRecord is one executed trade belonging to a run.
type FillRecord struct {
	ID         uint   `gorm:"primarykey"`
	RunID      string `gorm:"index;size:36"`
	FillID     string `gorm:"size:36"`
	Timestamp  time.Time
	Symbol     string
	Action     string
	Quantity   int64
	Price      float64
	Commission float64
	Exchange   string
}

// EquityRecord is one point of a run's equity curve.
type EquityRecord struct {
	ID        uint   `gorm:"primarykey"`
	RunID     string `gorm:"index;size:36"`
	Timestamp time.Time
	Equity    float64
	Drawdown  float64
}

// Store persists backtest runs to a sqlite database so past runs can be
// compared without rerunning them.
type Store struct {
	db *gorm.DB
}

func NewStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.NewLogrusLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open results db %s: %w", path, err)
	}

	if err := db.AutoMigrate(&RunRecord{}, &FillRecord{}, &EquityRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate results db: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveRun writes the run summary, its fills and its equity curve in one
// transaction.
func (s *Store) SaveRun(runID, strategyName, symbols string, initialCash float64, res *performance.Results, fills []*eventmodels.FillEvent) error {
	run := &RunRecord{
		RunID:       runID,
		CreatedAt:   time.Now(),
		Strategy:    strategyName,
		Symbols:     symbols,
		Benchmark:   res.Benchmark,
		InitialCash: initialCash,
		TotalReturn: res.TotalReturn,
		Sharpe:      res.Sharpe,
		Sortino:     res.Sortino,
		CAGR:        res.CAGR,
		MaxDrawdown: res.MaxDrawdown,
		FillCount:   len(fills),
	}
	if n := len(res.Equity); n > 0 {
		run.FinalEquity = res.Equity[n-1]
	}

	fillRecords := make([]*FillRecord, 0, len(fills))
	for _, fill := range fills {
		fillRecords = append(fillRecords, &FillRecord{
			RunID:      runID,
			FillID:     fill.ID,
			Timestamp:  fill.Timestamp,
			Symbol:     fill.Symbol,
			Action:     string(fill.Action),
			Quantity:   fill.Quantity,
			Price:      fill.Price,
			Commission: fill.Commission,
			Exchange:   fill.Exchange,
		})
	}

	equityRecords := make([]*EquityRecord, 0, len(res.Equity))
	for i, equity := range res.Equity {
		equityRecords = append(equityRecords, &EquityRecord{
			RunID:     runID,
			Timestamp: res.Timestamps[i],
			Equity:    equity,
			Drawdown:  res.Drawdowns[i],
		})
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("failed to save run record: %w", err)
		}

		if len(fillRecords) > 0 {
			if err := tx.CreateInBatches(fillRecords, 500).Error; err != nil {
				return fmt.Errorf("failed to save fill records: %w", err)
			}
		}

		if len(equityRecords) > 0 {
			if err := tx.CreateInBatches(equityRecords, 500).Error; err != nil {
				return fmt.Errorf("failed to save equity records: %w", err)
			}
		}

		return nil
	})
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns(limit int) ([]*RunRecord, error) {
	var runs []*RunRecord
	if err := s.db.Order("created_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}
