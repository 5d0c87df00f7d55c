package detector

import (
	"time"

	"github.com/shopspring/decimal"

	"homefinance-recurring-service/internal/models"
)

// Result bundles the detected patterns with summary statistics for
// reporting.
type Result struct {
	Patterns    []*models.RecurringPattern `json:"patterns"`
	Summary     *ResultSummary             `json:"summary"`
	ProcessedAt time.Time                  `json:"processed_at"`
}

// ResultSummary holds aggregate statistics about a detection run
type ResultSummary struct {
	TotalTransactions int `json:"total_transactions"`
	TransfersExcluded int `json:"transfers_excluded"`
	TotalPatterns     int `json:"total_patterns"`

	HighConfidence   int `json:"high_confidence"`
	MediumConfidence int `json:"medium_confidence"`
	LowConfidence    int `json:"low_confidence"`

	ConfirmedPatterns int `json:"confirmed_patterns"`
	RejectedPatterns  int `json:"rejected_patterns"`

	WeeklyPatterns   int `json:"weekly_patterns"`
	BiweeklyPatterns int `json:"biweekly_patterns"`
	MonthlyPatterns  int `json:"monthly_patterns"`

	// EstimatedMonthlyAmount is the sum of pattern amounts normalized to a
	// 30-day month, using absolute values
	EstimatedMonthlyAmount decimal.Decimal `json:"estimated_monthly_amount"`
}

// Detect runs the pipeline and wraps the patterns in a Result with
// summary statistics.
func (e *Engine) Detect(transactions []*models.Transaction) (*Result, error) {
	patterns, err := e.DetectPatterns(transactions)
	if err != nil {
		return nil, err
	}

	summary := &ResultSummary{
		TotalTransactions: len(transactions),
		TotalPatterns:     len(patterns),
	}

	for _, tx := range transactions {
		if tx.IsTransfer() {
			summary.TransfersExcluded++
		}
	}

	monthly := decimal.Zero
	for _, pattern := range patterns {
		switch pattern.ConfidenceLevel {
		case models.ConfidenceHigh:
			summary.HighConfidence++
		case models.ConfidenceMedium:
			summary.MediumConfidence++
		case models.ConfidenceLow:
			summary.LowConfidence++
		}

		switch pattern.Frequency {
		case models.FrequencyWeekly:
			summary.WeeklyPatterns++
			monthly = monthly.Add(pattern.AvgAmount.Abs().Mul(decimal.NewFromFloat(30.0 / 7.0)))
		case models.FrequencyBiweekly:
			summary.BiweeklyPatterns++
			monthly = monthly.Add(pattern.AvgAmount.Abs().Mul(decimal.NewFromFloat(30.0 / 14.0)))
		case models.FrequencyMonthly:
			summary.MonthlyPatterns++
			monthly = monthly.Add(pattern.AvgAmount.Abs())
		}

		if pattern.IsConfirmed {
			summary.ConfirmedPatterns++
		}
		if pattern.IsRejected {
			summary.RejectedPatterns++
		}
	}
	summary.EstimatedMonthlyAmount = monthly.Round(2)

	return &Result{
		Patterns:    patterns,
		Summary:     summary,
		ProcessedAt: time.Now(),
	}, nil
}
