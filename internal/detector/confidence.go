package detector

import (
	"math"
	"time"

	"homefinance-recurring-service/internal/models"
)

// ConfidenceResult carries the 0-100 score and its coarse level for one
// candidate group.
type ConfidenceResult struct {
	Score int
	Level models.ConfidenceLevel
}

// Score bounds and level thresholds
const (
	minConfidenceScore        = 50
	maxConfidenceScore        = 100
	highConfidenceThreshold   = 90
	mediumConfidenceThreshold = 70
)

// ScoreConfidence rates how convincing a candidate group is as a recurring
// pattern. The score combines interval regularity (up to 50 points), amount
// consistency (up to 40 points), and an occurrence-count bonus (up to 10
// points), clamped to [50, 100]: any group that survived cadence detection
// is at least a plausible pattern. Groups with fewer than three
// transactions cannot support the statistics and get a flat 50/Low.
func ScoreConfidence(transactions []*models.Transaction) ConfidenceResult {
	if len(transactions) < 3 {
		return ConfidenceResult{Score: minConfidenceScore, Level: models.ConfidenceLow}
	}

	dates := make([]time.Time, len(transactions))
	for i, tx := range transactions {
		dates[i] = tx.TransactionDate
	}

	score := scoreRegularity(intervalDays(dates))
	score += scoreAmountConsistency(transactions)
	score += occurrenceBonus(len(transactions))

	if score < minConfidenceScore {
		score = minConfidenceScore
	}
	if score > maxConfidenceScore {
		score = maxConfidenceScore
	}

	return ConfidenceResult{Score: score, Level: levelForScore(score)}
}

// scoreRegularity awards up to 50 points for how tightly the intervals
// track the nearest standard billing period. The mean interval picks the
// expected period (7, 14, or 30 days); the mean absolute deviation from
// that period sets the award.
func scoreRegularity(intervals []float64) int {
	mean := meanFloat(intervals)

	expected := 30.0
	switch {
	case mean <= 9:
		expected = 7.0
	case mean <= 17:
		expected = 14.0
	}

	deviation := 0.0
	for _, interval := range intervals {
		deviation += math.Abs(interval - expected)
	}
	deviation /= float64(len(intervals))

	switch {
	case deviation <= 1:
		return 50
	case deviation <= 2:
		return 40
	case deviation <= 3:
		return 30
	case deviation <= 5:
		return 20
	default:
		return 10
	}
}

// scoreAmountConsistency awards up to 40 points for how stable the charge
// amounts are, measured by the coefficient of variation of the absolute
// amounts. Fixed-price subscriptions score full marks; variable spend like
// groceries scores low. Degenerate inputs (a single amount, or a zero mean)
// have no measurable variation and score full marks.
func scoreAmountConsistency(transactions []*models.Transaction) int {
	amounts := make([]float64, len(transactions))
	for i, tx := range transactions {
		amounts[i] = tx.GetAbsoluteAmount().InexactFloat64()
	}

	if len(amounts) < 2 {
		return 40
	}

	mean := meanFloat(amounts)
	if mean == 0 {
		return 40
	}

	variance := 0.0
	for _, amount := range amounts {
		diff := amount - mean
		variance += diff * diff
	}
	variance /= float64(len(amounts))

	cv := math.Sqrt(variance) / mean

	switch {
	case cv < 0.05:
		return 40
	case cv < 0.10:
		return 30
	case cv < 0.20:
		return 20
	default:
		return 0
	}
}

// occurrenceBonus awards extra points for longer histories
func occurrenceBonus(count int) int {
	switch {
	case count >= 7:
		return 10
	case count >= 5:
		return 5
	default:
		return 0
	}
}

func levelForScore(score int) models.ConfidenceLevel {
	switch {
	case score >= highConfidenceThreshold:
		return models.ConfidenceHigh
	case score >= mediumConfidenceThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
