package detector

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"homefinance-recurring-service/internal/feedback"
	"homefinance-recurring-service/internal/models"
	"homefinance-recurring-service/pkg/errors"
	"homefinance-recurring-service/pkg/logger"
)

// Engine runs the detection pipeline over transaction snapshots and
// mediates user feedback through the store.
type Engine struct {
	config *Config
	store  feedback.Store
	logger logger.Logger
}

// PatternFilter narrows a ListPatterns result. Zero-value fields match
// everything; non-empty fields must hold valid enum values. MinConfidence
// is a threshold: Medium keeps Medium and High patterns.
type PatternFilter struct {
	AccountIDs    []string
	MinConfidence models.ConfidenceLevel
	Frequency     models.Frequency
}

// Validate checks the filter's enum fields, failing fast on values that
// can never match rather than silently returning nothing
func (f *PatternFilter) Validate() error {
	if f == nil {
		return nil
	}

	if f.MinConfidence != "" && !f.MinConfidence.IsValid() {
		return errors.ValidationError(errors.CodeInvalidFilter,
			"min_confidence", string(f.MinConfidence),
			fmt.Errorf("must be one of High, Medium, Low"))
	}

	if f.Frequency != "" && !f.Frequency.IsValid() {
		return errors.ValidationError(errors.CodeInvalidFilter,
			"frequency", string(f.Frequency),
			fmt.Errorf("must be one of Weekly, Biweekly, Monthly"))
	}

	return nil
}

// Matches reports whether the pattern passes the filter. A nil filter
// matches everything.
func (f *PatternFilter) Matches(pattern *models.RecurringPattern) bool {
	if f == nil {
		return true
	}

	if len(f.AccountIDs) > 0 {
		found := false
		for _, accountID := range f.AccountIDs {
			if pattern.AccountID == accountID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.MinConfidence != "" && pattern.ConfidenceLevel.Rank() < f.MinConfidence.Rank() {
		return false
	}

	if f.Frequency != "" && pattern.Frequency != f.Frequency {
		return false
	}

	return true
}

// NewEngine creates a detection engine with the given configuration and
// feedback store. A nil config gets the defaults.
func NewEngine(config *Config, store feedback.Store) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig,
			"detection", config.String(), err)
	}

	if store == nil {
		return nil, errors.ConfigurationError(errors.CodeMissingConfig,
			"feedback_store", nil, fmt.Errorf("feedback store is required"))
	}

	return &Engine{
		config: config,
		store:  store,
		logger: logger.GetGlobalLogger().WithComponent("detector"),
	}, nil
}

// DetectPatterns runs the full pipeline over a snapshot and returns the
// recurring patterns found, sorted by confidence score descending. An
// empty snapshot yields an empty result without error. Patterns the user
// has rejected remain in the result with IsRejected set; filtering them
// out is the caller's presentation decision.
func (e *Engine) DetectPatterns(transactions []*models.Transaction) ([]*models.RecurringPattern, error) {
	e.logger.WithFields(logger.Fields{
		"transaction_count": len(transactions),
		"config":            e.config.String(),
	}).Info("Starting pattern detection")

	groups := GroupTransactions(transactions, e.config)

	e.logger.WithField("candidate_groups", len(groups)).Debug("Grouping complete")

	patterns := make([]*models.RecurringPattern, 0, len(groups))

	for _, group := range groups {
		dates := make([]time.Time, len(group.Transactions))
		for i, tx := range group.Transactions {
			dates[i] = tx.TransactionDate
		}

		frequency, ok := DetectCadence(dates, e.config.IntervalConsistencyRatio)
		if !ok {
			e.logger.WithFields(logger.Fields{
				"account_id": group.AccountID,
				"key":        group.Key,
				"size":       len(group.Transactions),
			}).Debug("No regular cadence, group skipped")
			continue
		}

		pattern, err := e.buildPattern(group, frequency)
		if err != nil {
			return nil, err
		}

		patterns = append(patterns, pattern)
	}

	sortPatternsByConfidence(patterns)

	e.logger.WithField("pattern_count", len(patterns)).Info("Pattern detection complete")

	return patterns, nil
}

// ListPatterns runs detection and applies the filter. A nil filter
// returns everything.
func (e *Engine) ListPatterns(transactions []*models.Transaction, filter *PatternFilter) ([]*models.RecurringPattern, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	patterns, err := e.DetectPatterns(transactions)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.RecurringPattern, 0, len(patterns))
	for _, pattern := range patterns {
		if filter.Matches(pattern) {
			filtered = append(filtered, pattern)
		}
	}

	return filtered, nil
}

// ConfirmPattern records that the user verified the pattern is a real
// recurring payment
func (e *Engine) ConfirmPattern(patternID int64) error {
	if err := e.store.Confirm(patternID); err != nil {
		return err
	}

	e.logger.WithField("pattern_id", patternID).Info("Pattern confirmed")
	return nil
}

// RejectPattern records that the user marked the pattern as a false
// positive
func (e *Engine) RejectPattern(patternID int64) error {
	if err := e.store.Reject(patternID); err != nil {
		return err
	}

	e.logger.WithField("pattern_id", patternID).Info("Pattern rejected")
	return nil
}

// PatternExists reports whether the id has been assigned by any prior
// detection run
func (e *Engine) PatternExists(patternID int64) (bool, error) {
	return e.store.Exists(patternID)
}

// buildPattern assembles the reportable pattern for a cadence-confirmed
// group. The chronologically first transaction supplies the representative
// description, category, and account; the id and any recorded decision
// come from the feedback store.
func (e *Engine) buildPattern(group *Group, frequency models.Frequency) (*models.RecurringPattern, error) {
	first := group.Transactions[0]
	last := group.Transactions[len(group.Transactions)-1]

	key := feedback.Key{
		AccountID:             group.AccountID,
		NormalizedDescription: group.Key,
	}

	patternID, err := e.store.AssignID(key)
	if err != nil {
		return nil, err
	}

	entry, err := e.store.Feedback(key)
	if err != nil {
		return nil, err
	}

	sum := decimal.Zero
	for _, tx := range group.Transactions {
		sum = sum.Add(tx.Amount)
	}
	avgAmount := sum.Div(decimal.NewFromInt(int64(len(group.Transactions)))).Round(2)

	confidence := ScoreConfidence(group.Transactions)

	return &models.RecurringPattern{
		PatternID:          patternID,
		DescriptionPattern: first.Description,
		AccountID:          group.AccountID,
		Category:           first.Category,
		AvgAmount:          avgAmount,
		Frequency:          frequency,
		NextExpectedDate:   nextExpectedDate(last.TransactionDate, frequency),
		ConfidenceLevel:    confidence.Level,
		ConfidenceScore:    confidence.Score,
		OccurrenceCount:    len(group.Transactions),
		LastOccurrenceDate: last.TransactionDate,
		IsConfirmed:        entry.IsConfirmed,
		IsRejected:         entry.IsRejected,
	}, nil
}

// nextExpectedDate projects the next occurrence from the last one. Weekly
// and biweekly add whole days; monthly advances one calendar month with
// the day clamped to the target month's length, so a bill from Jan 31
// is next expected Feb 28 (or 29).
func nextExpectedDate(last time.Time, frequency models.Frequency) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return last.AddDate(0, 0, 7)
	case models.FrequencyBiweekly:
		return last.AddDate(0, 0, 14)
	default:
		return addCalendarMonth(last)
	}
}

func addCalendarMonth(t time.Time) time.Time {
	year, month, day := t.Date()

	// time.Date normalizes day 0 of month m+2 to the last day of m+1
	lastOfTarget := time.Date(year, month+2, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastOfTarget {
		day = lastOfTarget
	}

	return time.Date(year, month+1, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func sortPatternsByConfidence(patterns []*models.RecurringPattern) {
	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].ConfidenceScore != patterns[j].ConfidenceScore {
			return patterns[i].ConfidenceScore > patterns[j].ConfidenceScore
		}
		return patterns[i].PatternID < patterns[j].PatternID
	})
}
