// Package detector implements the recurring-transaction detection engine.
//
// The engine scans a household transaction snapshot, clusters transactions
// into recurring-payment candidates using fuzzy description matching, infers
// a cadence (weekly, biweekly, monthly) from the date spacing, and scores
// how statistically convincing each candidate is. Detection is a pure,
// synchronous computation over an in-memory snapshot; the only state shared
// across runs is the pattern identity map and the confirm/reject feedback,
// both owned by the injected feedback store.
//
// The detection pipeline runs in stages:
//  1. Description normalization to strip volatile substrings
//  2. Similarity-based clustering with first-match-wins assignment
//  3. Per-account re-partitioning and minimum-size filtering
//  4. Cadence detection over the sorted date sequence
//  5. Confidence scoring from interval and amount statistics
//  6. Pattern assembly with stable ids and prior feedback
//
// Example usage:
//
//	store := feedback.NewMemoryStore()
//	engine, err := detector.NewEngine(detector.DefaultConfig(), store)
//
//	patterns, err := engine.ListPatterns(transactions, nil)
package detector

import (
	"fmt"
)

// Config holds the tunable heuristics for pattern detection. The defaults
// reflect household-scale data: descriptions from the same vendor differ by
// reference numbers and dates, bills land within a few days of schedule,
// and three occurrences are the minimum worth reporting.
type Config struct {
	// SimilarityThreshold is the minimum normalized-description similarity
	// for a transaction to join an existing cluster (0.0 to 1.0)
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// MinOccurrences is the minimum group size for a reportable pattern
	MinOccurrences int `json:"min_occurrences"`

	// IntervalConsistencyRatio is the fraction of individual intervals that
	// must fall inside a cadence bucket's range for the bucket to hold
	IntervalConsistencyRatio float64 `json:"interval_consistency_ratio"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		SimilarityThreshold:      0.8,
		MinOccurrences:           3,
		IntervalConsistencyRatio: 0.6,
	}
}

// StrictConfig returns a configuration that only reports well-established
// patterns: near-identical descriptions and a longer history
func StrictConfig() *Config {
	return &Config{
		SimilarityThreshold:      0.9,
		MinOccurrences:           4,
		IntervalConsistencyRatio: 0.75,
	}
}

// RelaxedConfig returns a configuration for exploratory detection over
// noisy descriptions
func RelaxedConfig() *Config {
	return &Config{
		SimilarityThreshold:      0.7,
		MinOccurrences:           3,
		IntervalConsistencyRatio: 0.5,
	}
}

// Validate checks if the detection configuration is valid
func (c *Config) Validate() error {
	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 1.0 {
		return fmt.Errorf("similarity threshold must be between 0.0 and 1.0: %f", c.SimilarityThreshold)
	}

	if c.MinOccurrences < 2 {
		return fmt.Errorf("minimum occurrences must be at least 2: %d", c.MinOccurrences)
	}

	if c.IntervalConsistencyRatio < 0.0 || c.IntervalConsistencyRatio > 1.0 {
		return fmt.Errorf("interval consistency ratio must be between 0.0 and 1.0: %f", c.IntervalConsistencyRatio)
	}

	return nil
}

// Clone creates a copy of the detection configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	return &clone
}

// String returns a human-readable description of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{SimilarityThreshold: %.2f, MinOccurrences: %d, IntervalConsistencyRatio: %.2f}",
		c.SimilarityThreshold, c.MinOccurrences, c.IntervalConsistencyRatio)
}
