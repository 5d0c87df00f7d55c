package reporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"homefinance-recurring-service/internal/detector"
	"homefinance-recurring-service/internal/models"
)

func testResult() *detector.Result {
	return &detector.Result{
		Patterns: []*models.RecurringPattern{
			{
				PatternID:          1,
				DescriptionPattern: "NETFLIX.COM",
				AccountID:          "acct-1",
				Category:           "Entertainment",
				AvgAmount:          decimal.NewFromFloat(-15.99),
				Frequency:          models.FrequencyMonthly,
				NextExpectedDate:   time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
				ConfidenceLevel:    models.ConfidenceHigh,
				ConfidenceScore:    95,
				OccurrenceCount:    6,
				LastOccurrenceDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
				IsConfirmed:        true,
			},
			{
				PatternID:          2,
				DescriptionPattern: "GROCERY MART",
				AccountID:          "acct-1",
				Category:           "Groceries",
				AvgAmount:          decimal.NewFromFloat(-52.40),
				Frequency:          models.FrequencyWeekly,
				NextExpectedDate:   time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
				ConfidenceLevel:    models.ConfidenceMedium,
				ConfidenceScore:    80,
				OccurrenceCount:    8,
				LastOccurrenceDate: time.Date(2025, 6, 27, 0, 0, 0, 0, time.UTC),
				IsRejected:         true,
			},
		},
		Summary: &detector.ResultSummary{
			TotalTransactions:      40,
			TransfersExcluded:      3,
			TotalPatterns:          2,
			HighConfidence:         1,
			MediumConfidence:       1,
			ConfirmedPatterns:      1,
			RejectedPatterns:       1,
			WeeklyPatterns:         1,
			MonthlyPatterns:        1,
			EstimatedMonthlyAmount: decimal.NewFromFloat(240.55),
		},
		ProcessedAt: time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestGenerateConsoleReport(t *testing.T) {
	generator, err := NewReportGenerator(DefaultReportConfig())
	if err != nil {
		t.Fatalf("NewReportGenerator() error: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(testResult(), &buf); err != nil {
		t.Fatalf("GenerateReport() error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"RECURRING PATTERN REPORT",
		"NETFLIX.COM",
		"GROCERY MART",
		"[confirmed]",
		"[rejected]",
		"Patterns Found:         2",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("console output missing %q", want)
		}
	}
}

func TestGenerateJSONReport(t *testing.T) {
	config := DefaultReportConfig()
	config.Format = FormatJSON

	generator, err := NewReportGenerator(config)
	if err != nil {
		t.Fatalf("NewReportGenerator() error: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(testResult(), &buf); err != nil {
		t.Fatalf("GenerateReport() error: %v", err)
	}

	var decoded struct {
		Patterns []map[string]interface{} `json:"patterns"`
		Summary  map[string]interface{}   `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if len(decoded.Patterns) != 2 {
		t.Errorf("expected 2 patterns in JSON, got %d", len(decoded.Patterns))
	}
	if decoded.Patterns[0]["avg_amount"] != "-15.99" {
		t.Errorf("avg_amount = %v, want -15.99", decoded.Patterns[0]["avg_amount"])
	}
	if decoded.Summary == nil {
		t.Error("expected summary in JSON output")
	}
}

func TestGenerateCSVReport(t *testing.T) {
	config := DefaultReportConfig()
	config.Format = FormatCSV

	generator, err := NewReportGenerator(config)
	if err != nil {
		t.Fatalf("NewReportGenerator() error: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(testResult(), &buf); err != nil {
		t.Fatalf("GenerateReport() error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV output: %v", err)
	}

	// Header plus one row per pattern
	if len(records) != 3 {
		t.Fatalf("expected 3 CSV records, got %d", len(records))
	}
	if records[0][0] != "Pattern_ID" {
		t.Errorf("first header = %s, want Pattern_ID", records[0][0])
	}
	if records[1][1] != "NETFLIX.COM" {
		t.Errorf("first row description = %s, want NETFLIX.COM", records[1][1])
	}
}

func TestRejectedPatternsCanBeHidden(t *testing.T) {
	config := DefaultReportConfig()
	config.Format = FormatCSV
	config.IncludeRejected = false

	generator, err := NewReportGenerator(config)
	if err != nil {
		t.Fatalf("NewReportGenerator() error: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(testResult(), &buf); err != nil {
		t.Fatalf("GenerateReport() error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV output: %v", err)
	}

	if len(records) != 2 {
		t.Errorf("expected rejected pattern hidden, got %d records", len(records))
	}
}

func TestInvalidReportConfig(t *testing.T) {
	config := DefaultReportConfig()
	config.Format = "xml"

	if _, err := NewReportGenerator(config); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestGenerateReportNilResult(t *testing.T) {
	generator, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatalf("NewReportGenerator() error: %v", err)
	}

	if err := generator.GenerateReport(nil, &bytes.Buffer{}); err == nil {
		t.Error("expected error for nil result")
	}
}
