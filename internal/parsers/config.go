package parsers

import (
	"fmt"
	"strings"
)

// TransactionParserConfig holds configuration for parsing snapshot CSV files.
// Column names default to the export format used by the budgeting app;
// aliases let a snapshot from another source map its headers onto the
// standard names without renaming columns.
type TransactionParserConfig struct {
	TransactionIDColumn   string            `json:"transaction_id_column"`
	TransactionDateColumn string            `json:"transaction_date_column"`
	AccountIDColumn       string            `json:"account_id_column"`
	DescriptionColumn     string            `json:"description_column"`
	CategoryColumn        string            `json:"category_column"`
	AmountColumn          string            `json:"amount_column"`
	TypeColumn            string            `json:"type_column"`
	HasHeader             bool              `json:"has_header"`
	Delimiter             rune              `json:"delimiter"`
	ColumnAliases         map[string]string `json:"column_aliases,omitempty"`
}

// Validate checks if the parser configuration is valid
func (tpc *TransactionParserConfig) Validate() error {
	if strings.TrimSpace(tpc.TransactionIDColumn) == "" {
		return fmt.Errorf("transaction ID column cannot be empty")
	}

	if strings.TrimSpace(tpc.TransactionDateColumn) == "" {
		return fmt.Errorf("transaction date column cannot be empty")
	}

	if strings.TrimSpace(tpc.AccountIDColumn) == "" {
		return fmt.Errorf("account ID column cannot be empty")
	}

	if strings.TrimSpace(tpc.DescriptionColumn) == "" {
		return fmt.Errorf("description column cannot be empty")
	}

	if strings.TrimSpace(tpc.AmountColumn) == "" {
		return fmt.Errorf("amount column cannot be empty")
	}

	if strings.TrimSpace(tpc.TypeColumn) == "" {
		return fmt.Errorf("type column cannot be empty")
	}

	return nil
}

// GetColumnName returns the actual column name, checking aliases first
func (tpc *TransactionParserConfig) GetColumnName(standardName string) string {
	if alias, exists := tpc.ColumnAliases[standardName]; exists {
		return alias
	}

	switch standardName {
	case "transaction_id":
		return tpc.TransactionIDColumn
	case "transaction_date":
		return tpc.TransactionDateColumn
	case "account_id":
		return tpc.AccountIDColumn
	case "description":
		return tpc.DescriptionColumn
	case "category":
		return tpc.CategoryColumn
	case "amount":
		return tpc.AmountColumn
	case "transaction_type":
		return tpc.TypeColumn
	default:
		return standardName
	}
}

// DefaultTransactionParserConfig returns a configuration with standard defaults
func DefaultTransactionParserConfig() *TransactionParserConfig {
	return &TransactionParserConfig{
		TransactionIDColumn:   "transaction_id",
		TransactionDateColumn: "transaction_date",
		AccountIDColumn:       "account_id",
		DescriptionColumn:     "description",
		CategoryColumn:        "category",
		AmountColumn:          "amount",
		TypeColumn:            "transaction_type",
		HasHeader:             true,
		Delimiter:             ',',
		ColumnAliases:         make(map[string]string),
	}
}
