package parsers

import (
	"fmt"
	"io"

	"homefinance-recurring-service/internal/models"
	"homefinance-recurring-service/pkg/errors"
	"homefinance-recurring-service/pkg/logger"
)

// TransactionParser handles parsing of household snapshot CSV files
type TransactionParser struct {
	config *TransactionParserConfig
	logger logger.Logger
}

// NewTransactionParser creates a new TransactionParser with the given configuration
func NewTransactionParser(config *TransactionParserConfig) (*TransactionParser, error) {
	if config == nil {
		config = DefaultTransactionParserConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"transaction_parser_config",
			config,
			err,
		).WithSuggestion("Check the transaction parser configuration values")
	}

	return &TransactionParser{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("transaction_parser"),
	}, nil
}

// ParseTransactions parses a CSV file containing a transaction snapshot.
// Rows that fail to parse or validate are collected in the returned stats
// rather than aborting the load.
func (tp *TransactionParser) ParseTransactions(filePath string) ([]*models.Transaction, *ParseStats, error) {
	tp.logger.WithFields(logger.Fields{
		"file_path": filePath,
		"operation": "parse_transactions",
	}).Info("Starting snapshot parsing")

	reader, err := openSnapshot(filePath, tp.config.Delimiter, tp.config.HasHeader, tp.requiredHeaders())
	if err != nil {
		tp.logger.WithError(err).WithField("file_path", filePath).Error("Failed to open snapshot")
		return nil, nil, err
	}
	defer reader.close()

	stats := NewParseStats()
	var transactions []*models.Transaction

	for {
		record, err := reader.next()
		if err != nil {
			if err == io.EOF {
				break
			}

			rowErr := errors.ParseError(errors.CodeInvalidFormat, filePath, reader.line, "record", "", err)
			stats.AddError(&ParseError{
				Line:    reader.line,
				Message: rowErr.Message,
				Err:     rowErr,
			})
			continue
		}

		stats.RecordsParsed++

		transaction, parseErr := tp.transactionFromRecord(reader, record, filePath)
		if parseErr != nil {
			stats.AddError(parseErr)
			continue
		}

		if err := transaction.Validate(); err != nil {
			tp.logger.WithError(err).WithFields(logger.Fields{
				"line_number":    reader.line,
				"transaction_id": transaction.TransactionID,
			}).Warn("Transaction validation failed")

			validationErr := errors.ValidationError(errors.CodeInvalidData,
				"transaction", transaction.TransactionID, err)
			stats.AddError(&ParseError{
				Line:    reader.line,
				Message: validationErr.Message,
				Err:     validationErr,
			})
			continue
		}

		transactions = append(transactions, transaction)
		stats.RecordsValid++
	}

	stats.TotalLines = reader.line

	tp.logger.WithFields(logger.Fields{
		"file_path":      filePath,
		"total_lines":    stats.TotalLines,
		"records_parsed": stats.RecordsParsed,
		"records_valid":  stats.RecordsValid,
		"error_count":    len(stats.Errors),
	}).Info("Snapshot parsing completed")

	return transactions, stats, nil
}

// requiredHeaders returns the column names every snapshot must carry.
// Category is optional since some exports omit it.
func (tp *TransactionParser) requiredHeaders() []string {
	return []string{
		tp.config.GetColumnName("transaction_id"),
		tp.config.GetColumnName("transaction_date"),
		tp.config.GetColumnName("account_id"),
		tp.config.GetColumnName("description"),
		tp.config.GetColumnName("amount"),
		tp.config.GetColumnName("transaction_type"),
	}
}

// transactionFromRecord creates a Transaction from a CSV record
func (tp *TransactionParser) transactionFromRecord(reader *snapshotReader, record []string, filePath string) (*models.Transaction, *ParseError) {
	fields := make(map[string]string)

	for _, name := range []string{"transaction_id", "transaction_date", "account_id", "description", "amount", "transaction_type"} {
		column := tp.config.GetColumnName(name)
		value, err := reader.field(record, column)
		if err != nil {
			fieldErr := errors.ParseError(errors.CodeMissingField, filePath, reader.line, column, "", err).
				WithSuggestion(fmt.Sprintf("Ensure the %s column exists and has a value", column))

			return nil, &ParseError{
				Line:    reader.line,
				Field:   column,
				Message: fieldErr.Message,
				Err:     fieldErr,
			}
		}
		fields[name] = value
	}

	// Category is best-effort
	category := ""
	if tp.config.CategoryColumn != "" {
		if value, err := reader.field(record, tp.config.GetColumnName("category")); err == nil {
			category = value
		}
	}

	transaction, err := models.CreateTransactionFromCSV(
		fields["transaction_id"],
		fields["transaction_date"],
		fields["account_id"],
		fields["description"],
		category,
		fields["amount"],
		fields["transaction_type"],
	)
	if err != nil {
		recordErr := errors.ParseError(errors.CodeInvalidData, filePath, reader.line,
			"record", fields["transaction_id"], err,
		).WithSuggestion("Check the date, amount, and type values in this row")

		return nil, &ParseError{
			Line:    reader.line,
			Field:   "record",
			Value:   fields["transaction_id"],
			Message: recordErr.Message,
			Err:     recordErr,
		}
	}

	return transaction, nil
}
