package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"homefinance-recurring-service/cmd/recurrer/config"
	"homefinance-recurring-service/internal/detector"
	"homefinance-recurring-service/internal/feedback"
	"homefinance-recurring-service/internal/models"
	"homefinance-recurring-service/internal/parsers"
	"homefinance-recurring-service/internal/reporter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the detect command
var (
	snapshotFile        string
	outputFormat        string
	outputFile          string
	accountIDs          []string
	minConfidence       string
	frequencyFilter     string
	similarityThreshold float64
	minOccurrences      int
	includeRejected     bool
	startDate           string
	endDate             string
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect recurring patterns in a transaction snapshot",
	Long: `Detect scans a transaction snapshot CSV for recurring payments.

Transactions with similar descriptions on the same account are grouped,
their date spacing is checked for a weekly, biweekly, or monthly cadence,
and each detected pattern gets a confidence score. Pattern ids are stable
across runs, so a pattern can be confirmed or rejected later.

Examples:
  # Basic detection
  recurrer detect --snapshot-file transactions.csv

  # JSON output filtered to one account, medium confidence or better
  recurrer detect --snapshot-file tx.csv --output-format json \
    --account acct-001 --min-confidence Medium

  # Only monthly patterns, hiding rejected ones
  recurrer detect --snapshot-file tx.csv --frequency Monthly --include-rejected=false`,

	PreRunE: validateDetectFlags,
	RunE:    runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	// Required flags
	detectCmd.Flags().StringVarP(&snapshotFile, "snapshot-file", "s", "", "path to transaction snapshot CSV file (required)")

	// Output flags
	detectCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	detectCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Filter flags
	detectCmd.Flags().StringSliceVarP(&accountIDs, "account", "a", []string{}, "restrict results to these account ids")
	detectCmd.Flags().StringVar(&minConfidence, "min-confidence", "", "only show patterns at or above this confidence level: High, Medium, Low")
	detectCmd.Flags().StringVar(&frequencyFilter, "frequency", "", "only show patterns with this frequency: Weekly, Biweekly, Monthly")
	detectCmd.Flags().BoolVar(&includeRejected, "include-rejected", true, "include patterns the user has rejected")
	detectCmd.Flags().StringVar(&startDate, "start-date", "", "only consider transactions on or after this date (YYYY-MM-DD)")
	detectCmd.Flags().StringVar(&endDate, "end-date", "", "only consider transactions on or before this date (YYYY-MM-DD)")

	// Detection tuning flags
	detectCmd.Flags().Float64Var(&similarityThreshold, "similarity-threshold", 0, "description similarity threshold (0.0-1.0, default 0.8)")
	detectCmd.Flags().IntVar(&minOccurrences, "min-occurrences", 0, "minimum occurrences for a pattern (default 3)")

	detectCmd.MarkFlagRequired("snapshot-file")

	// Bind flags to viper
	viper.BindPFlag("snapshot-file", detectCmd.Flags().Lookup("snapshot-file"))
	viper.BindPFlag("output-format", detectCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", detectCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("similarity-threshold", detectCmd.Flags().Lookup("similarity-threshold"))
	viper.BindPFlag("min-occurrences", detectCmd.Flags().Lookup("min-occurrences"))
	viper.BindPFlag("include-rejected", detectCmd.Flags().Lookup("include-rejected"))
}

func validateDetectFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	snapshotFile = viper.GetString("snapshot-file")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")

	if snapshotFile == "" {
		return fmt.Errorf("snapshot-file is required")
	}

	info, err := os.Stat(snapshotFile)
	if os.IsNotExist(err) {
		return fmt.Errorf("snapshot file does not exist: %s", snapshotFile)
	}
	if err != nil {
		return fmt.Errorf("error accessing snapshot file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("snapshot file is a directory, expected a file: %s", snapshotFile)
	}

	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	if minConfidence != "" {
		if _, err := models.ParseConfidenceLevel(minConfidence); err != nil {
			return err
		}
	}

	if frequencyFilter != "" {
		if _, err := models.ParseFrequency(frequencyFilter); err != nil {
			return err
		}
	}

	if threshold := viper.GetFloat64("similarity-threshold"); threshold != 0 {
		if threshold < 0.0 || threshold > 1.0 {
			return fmt.Errorf("similarity threshold must be between 0.0 and 1.0")
		}
	}

	if startDate != "" {
		if _, err := time.Parse("2006-01-02", startDate); err != nil {
			return fmt.Errorf("invalid start date '%s', expected YYYY-MM-DD", startDate)
		}
	}
	if endDate != "" {
		if _, err := time.Parse("2006-01-02", endDate); err != nil {
			return fmt.Errorf("invalid end date '%s', expected YYYY-MM-DD", endDate)
		}
	}
	if startDate != "" && endDate != "" && startDate > endDate {
		return fmt.Errorf("start date %s is after end date %s", startDate, endDate)
	}

	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting detection...\n")
		fmt.Fprintf(os.Stderr, "Snapshot file: %s\n", snapshotFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if len(accountIDs) > 0 {
			fmt.Fprintf(os.Stderr, "Accounts: %s\n", strings.Join(accountIDs, ", "))
		}
	}

	// Parse the snapshot
	parserConfig := config.CreateTransactionParserConfig()
	parser, err := parsers.NewTransactionParser(parserConfig)
	if err != nil {
		return err
	}

	transactions, stats, err := parser.ParseTransactions(snapshotFile)
	if err != nil {
		return err
	}

	if viper.GetBool("verbose") && stats.HasErrors() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", stats.String())
	}

	transactions = filterByDateRange(transactions, startDate, endDate)

	// Set up the engine
	store, err := openFeedbackStore()
	if err != nil {
		return err
	}
	defer store.Close()

	detectionConfig := config.CreateDetectionConfig(
		viper.GetFloat64("similarity-threshold"),
		viper.GetInt("min-occurrences"),
	)

	engine, err := detector.NewEngine(detectionConfig, store)
	if err != nil {
		return err
	}

	// Build the filter from CLI flags
	filter := &detector.PatternFilter{
		AccountIDs: accountIDs,
	}
	if minConfidence != "" {
		level, _ := models.ParseConfidenceLevel(minConfidence)
		filter.MinConfidence = level
	}
	if frequencyFilter != "" {
		frequency, _ := models.ParseFrequency(frequencyFilter)
		filter.Frequency = frequency
	}

	if err := filter.Validate(); err != nil {
		return err
	}

	result, err := engine.Detect(transactions)
	if err != nil {
		return err
	}

	// Apply the filter to the display list; the summary still reflects
	// the whole snapshot
	filtered := make([]*models.RecurringPattern, 0, len(result.Patterns))
	for _, pattern := range result.Patterns {
		if filter.Matches(pattern) {
			filtered = append(filtered, pattern)
		}
	}
	result.Patterns = filtered

	// Generate report
	reportConfig := config.CreateReportConfig(outputFormat, viper.GetBool("include-rejected"))
	reportGenerator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		return err
	}

	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := reportGenerator.GenerateReport(result, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nDetection completed.\n")
		fmt.Fprintf(os.Stderr, "Analyzed %d transactions, found %d patterns (%d shown after filtering).\n",
			result.Summary.TotalTransactions, result.Summary.TotalPatterns, len(result.Patterns))
	}

	return nil
}

// filterByDateRange keeps transactions inside the inclusive date window.
// Empty bounds leave that side open. Bounds are validated in PreRunE.
func filterByDateRange(transactions []*models.Transaction, start, end string) []*models.Transaction {
	if start == "" && end == "" {
		return transactions
	}

	var startTime, endTime time.Time
	if start != "" {
		startTime, _ = time.Parse("2006-01-02", start)
	}
	if end != "" {
		endTime, _ = time.Parse("2006-01-02", end)
	}

	filtered := make([]*models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if start != "" && tx.TransactionDate.Before(startTime) {
			continue
		}
		if end != "" && tx.TransactionDate.After(endTime.AddDate(0, 0, 1).Add(-time.Nanosecond)) {
			continue
		}
		filtered = append(filtered, tx)
	}

	return filtered
}

// openFeedbackStore opens the configured feedback database
func openFeedbackStore() (feedback.Store, error) {
	return feedback.NewSQLiteStore(viper.GetString("feedback-db"))
}
