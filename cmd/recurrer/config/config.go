// Package config builds component configurations from CLI inputs.
package config

import (
	"homefinance-recurring-service/internal/detector"
	"homefinance-recurring-service/internal/parsers"
	"homefinance-recurring-service/internal/reporter"
)

// CreateTransactionParserConfig creates a snapshot parser configuration
// with aliases for the column names common bank and budgeting exports use
func CreateTransactionParserConfig() *parsers.TransactionParserConfig {
	return &parsers.TransactionParserConfig{
		TransactionIDColumn:   "transaction_id",
		TransactionDateColumn: "transaction_date",
		AccountIDColumn:       "account_id",
		DescriptionColumn:     "description",
		CategoryColumn:        "category",
		AmountColumn:          "amount",
		TypeColumn:            "transaction_type",
		HasHeader:             true,
		Delimiter:             ',',
		ColumnAliases: map[string]string{
			// Common aliases seen in snapshot exports
			"id":           "transaction_id",
			"tx_id":        "transaction_id",
			"txn_id":       "transaction_id",
			"date":         "transaction_date",
			"posting_date": "transaction_date",
			"account":      "account_id",
			"acct":         "account_id",
			"memo":         "description",
			"payee":        "description",
			"amt":          "amount",
			"value":        "amount",
			"type":         "transaction_type",
			"tx_type":      "transaction_type",
		},
	}
}

// CreateDetectionConfig creates a detection configuration with the
// specified CLI overrides
func CreateDetectionConfig(similarityThreshold float64, minOccurrences int) *detector.Config {
	config := detector.DefaultConfig()

	if similarityThreshold > 0 {
		config.SimilarityThreshold = similarityThreshold
	}
	if minOccurrences > 0 {
		config.MinOccurrences = minOccurrences
	}

	return config
}

// CreateReportConfig creates a report configuration for the specified
// output format
func CreateReportConfig(format string, includeRejected bool) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()
	config.IncludeRejected = includeRejected

	switch format {
	case "console":
		config.Format = reporter.FormatConsole
		config.IncludeSummary = true
	case "json":
		config.Format = reporter.FormatJSON
		config.IncludeSummary = true
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
		config.IncludeSummary = false
	}

	return config
}
