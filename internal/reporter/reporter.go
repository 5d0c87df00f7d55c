// Package reporter renders detection results for different audiences.
//
// Supported output formats:
//   - Console: Human-readable tabular output for terminal display
//   - JSON: Structured data format for programmatic consumption
//   - CSV: Comma-separated format for spreadsheet applications
//
// Example usage:
//
//	generator, err := reporter.NewReportGenerator(reporter.DefaultReportConfig())
//	err = generator.GenerateReport(result, os.Stdout)
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"homefinance-recurring-service/internal/detector"
	"homefinance-recurring-service/internal/models"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	IncludeSummary  bool `json:"include_summary"`
	IncludeRejected bool `json:"include_rejected"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:          FormatConsole,
		IncludeSummary:  true,
		IncludeRejected: true,
		CSVDelimiter:    ',',
		CSVHeaders:      true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}

	return nil
}

// ReportGenerator renders detection results in various formats
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{
		config: config,
	}, nil
}

// GenerateReport renders a detection result to the provided writer
func (rg *ReportGenerator) GenerateReport(result *detector.Result, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("detection result cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(result, writer)
	case FormatJSON:
		return rg.generateJSONReport(result, writer)
	case FormatCSV:
		return rg.generateCSVReport(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// reportablePatterns applies the rejected-pattern visibility setting
func (rg *ReportGenerator) reportablePatterns(result *detector.Result) []*models.RecurringPattern {
	if rg.config.IncludeRejected {
		return result.Patterns
	}

	patterns := make([]*models.RecurringPattern, 0, len(result.Patterns))
	for _, pattern := range result.Patterns {
		if !pattern.IsRejected {
			patterns = append(patterns, pattern)
		}
	}
	return patterns
}

// generateConsoleReport renders a human-readable console report
func (rg *ReportGenerator) generateConsoleReport(result *detector.Result, writer io.Writer) error {
	patterns := rg.reportablePatterns(result)

	fmt.Fprintf(writer, "RECURRING PATTERN REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n\n", result.ProcessedAt.Format(time.RFC3339))

	if rg.config.IncludeSummary && result.Summary != nil {
		fmt.Fprintf(writer, "=== SUMMARY ===\n")
		rg.printSummary(result.Summary, writer)
		fmt.Fprintf(writer, "\n")
	}

	if len(patterns) == 0 {
		fmt.Fprintf(writer, "No recurring patterns detected.\n")
		return nil
	}

	fmt.Fprintf(writer, "=== PATTERNS ===\n")
	for i, pattern := range patterns {
		status := ""
		if pattern.IsConfirmed {
			status = " [confirmed]"
		}
		if pattern.IsRejected {
			status = " [rejected]"
		}

		fmt.Fprintf(writer, "%d. #%d %s%s\n", i+1, pattern.PatternID, pattern.DescriptionPattern, status)
		fmt.Fprintf(writer, "   Account: %s", pattern.AccountID)
		if pattern.Category != "" {
			fmt.Fprintf(writer, "  Category: %s", pattern.Category)
		}
		fmt.Fprintf(writer, "\n")
		fmt.Fprintf(writer, "   %s, avg %s, %d occurrences\n",
			pattern.Frequency,
			pattern.AvgAmount.StringFixed(2),
			pattern.OccurrenceCount)
		fmt.Fprintf(writer, "   Confidence: %s (%d)  Last: %s  Next expected: %s\n",
			pattern.ConfidenceLevel,
			pattern.ConfidenceScore,
			pattern.LastOccurrenceDate.Format("2006-01-02"),
			pattern.NextExpectedDate.Format("2006-01-02"))
	}

	return nil
}

func (rg *ReportGenerator) printSummary(summary *detector.ResultSummary, writer io.Writer) {
	fmt.Fprintf(writer, "Transactions Analyzed:  %d\n", summary.TotalTransactions)
	fmt.Fprintf(writer, "Transfers Excluded:     %d\n", summary.TransfersExcluded)
	fmt.Fprintf(writer, "Patterns Found:         %d\n", summary.TotalPatterns)
	fmt.Fprintf(writer, "\nBy Confidence:\n")
	fmt.Fprintf(writer, "  High:   %d\n", summary.HighConfidence)
	fmt.Fprintf(writer, "  Medium: %d\n", summary.MediumConfidence)
	fmt.Fprintf(writer, "  Low:    %d\n", summary.LowConfidence)
	fmt.Fprintf(writer, "\nBy Frequency:\n")
	fmt.Fprintf(writer, "  Weekly:   %d\n", summary.WeeklyPatterns)
	fmt.Fprintf(writer, "  Biweekly: %d\n", summary.BiweeklyPatterns)
	fmt.Fprintf(writer, "  Monthly:  %d\n", summary.MonthlyPatterns)
	fmt.Fprintf(writer, "\nConfirmed: %d  Rejected: %d\n", summary.ConfirmedPatterns, summary.RejectedPatterns)
	fmt.Fprintf(writer, "Estimated Monthly Amount: %s\n", summary.EstimatedMonthlyAmount.StringFixed(2))
}

// generateJSONReport renders a structured JSON report
func (rg *ReportGenerator) generateJSONReport(result *detector.Result, writer io.Writer) error {
	output := map[string]interface{}{
		"patterns":     rg.reportablePatterns(result),
		"processed_at": result.ProcessedAt,
	}

	if rg.config.IncludeSummary && result.Summary != nil {
		output["summary"] = result.Summary
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(output)
}

// generateCSVReport renders one row per pattern
func (rg *ReportGenerator) generateCSVReport(result *detector.Result, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		headers := []string{
			"Pattern_ID",
			"Description",
			"Account_ID",
			"Category",
			"Avg_Amount",
			"Frequency",
			"Next_Expected_Date",
			"Confidence_Level",
			"Confidence_Score",
			"Occurrences",
			"Last_Occurrence_Date",
			"Confirmed",
			"Rejected",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, pattern := range rg.reportablePatterns(result) {
		record := []string{
			strconv.FormatInt(pattern.PatternID, 10),
			pattern.DescriptionPattern,
			pattern.AccountID,
			pattern.Category,
			pattern.AvgAmount.StringFixed(2),
			string(pattern.Frequency),
			pattern.NextExpectedDate.Format("2006-01-02"),
			string(pattern.ConfidenceLevel),
			strconv.Itoa(pattern.ConfidenceScore),
			strconv.Itoa(pattern.OccurrenceCount),
			pattern.LastOccurrenceDate.Format("2006-01-02"),
			strconv.FormatBool(pattern.IsConfirmed),
			strconv.FormatBool(pattern.IsRejected),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write pattern record: %w", err)
		}
	}

	return nil
}

// UpdateConfiguration updates the report generator configuration
func (rg *ReportGenerator) UpdateConfiguration(config *ReportConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid report configuration: %w", err)
	}

	rg.config = config
	return nil
}

// GetConfiguration returns the current configuration
func (rg *ReportGenerator) GetConfiguration() *ReportConfig {
	return rg.config
}
