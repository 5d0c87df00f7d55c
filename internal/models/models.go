package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of transaction
type TransactionType string

const (
	// TransactionTypeIncome represents money flowing into an account
	TransactionTypeIncome TransactionType = "Income"
	// TransactionTypeExpense represents money flowing out of an account
	TransactionTypeExpense TransactionType = "Expense"
	// TransactionTypeTransfer represents money moved between the household's own accounts
	TransactionTypeTransfer TransactionType = "Transfer"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense || t == TransactionTypeTransfer
}

// Frequency represents the detected recurring cadence of a pattern
type Frequency string

const (
	FrequencyWeekly   Frequency = "Weekly"
	FrequencyBiweekly Frequency = "Biweekly"
	FrequencyMonthly  Frequency = "Monthly"
)

// String returns the string representation of Frequency
func (f Frequency) String() string {
	return string(f)
}

// IsValid checks if the frequency is one of the supported cadences
func (f Frequency) IsValid() bool {
	return f == FrequencyWeekly || f == FrequencyBiweekly || f == FrequencyMonthly
}

// ConfidenceLevel buckets a confidence score into a coarse label
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "High"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceLow    ConfidenceLevel = "Low"
)

// String returns the string representation of ConfidenceLevel
func (c ConfidenceLevel) String() string {
	return string(c)
}

// IsValid checks if the confidence level is valid
func (c ConfidenceLevel) IsValid() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium || c == ConfidenceLow
}

// Rank orders confidence levels so they can be compared as thresholds:
// High > Medium > Low. Unknown levels rank below Low.
func (c ConfidenceLevel) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// Transaction represents one record from a household transaction snapshot
type Transaction struct {
	TransactionID   string          `json:"transaction_id" csv:"transaction_id"`
	TransactionDate time.Time       `json:"transaction_date" csv:"transaction_date"`
	AccountID       string          `json:"account_id" csv:"account_id"`
	Description     string          `json:"description" csv:"description"`
	Category        string          `json:"category" csv:"category"`
	Amount          decimal.Decimal `json:"amount" csv:"amount"`
	Type            TransactionType `json:"transaction_type" csv:"transaction_type"`
}

// NewTransaction creates a new Transaction instance
func NewTransaction(id string, date time.Time, accountID, description, category string, amount decimal.Decimal, txType TransactionType) *Transaction {
	return &Transaction{
		TransactionID:   id,
		TransactionDate: date,
		AccountID:       accountID,
		Description:     description,
		Category:        category,
		Amount:          amount,
		Type:            txType,
	}
}

// Validate performs basic validation on the Transaction
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.TransactionID) == "" {
		return fmt.Errorf("transaction ID cannot be empty")
	}

	if t.TransactionDate.IsZero() {
		return fmt.Errorf("transaction date cannot be zero")
	}

	if strings.TrimSpace(t.AccountID) == "" {
		return fmt.Errorf("account ID cannot be empty")
	}

	if !t.Type.IsValid() {
		return fmt.Errorf("invalid transaction type: %s", t.Type)
	}

	// Sign must agree with the kind for income and expenses; transfers carry
	// either sign depending on direction.
	if t.Type == TransactionTypeIncome && t.Amount.IsNegative() {
		return fmt.Errorf("income amount cannot be negative: %s", t.Amount.String())
	}
	if t.Type == TransactionTypeExpense && t.Amount.IsPositive() {
		return fmt.Errorf("expense amount cannot be positive: %s", t.Amount.String())
	}

	return nil
}

// String returns a string representation of the Transaction
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{ID: %s, Account: %s, Date: %s, Amount: %s, Type: %s, Description: %q}",
		t.TransactionID, t.AccountID, t.TransactionDate.Format("2006-01-02"), t.Amount.String(), t.Type, t.Description)
}

// IsTransfer returns true if the transaction moves money between own accounts
func (t *Transaction) IsTransfer() bool {
	return t.Type == TransactionTypeTransfer
}

// GetAbsoluteAmount returns the absolute value of the transaction amount
func (t *Transaction) GetAbsoluteAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// MarshalJSON implements custom JSON marshaling for Transaction
func (t *Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		TransactionDate string `json:"transaction_date"`
		Amount          string `json:"amount"`
		*Alias
	}{
		TransactionDate: t.TransactionDate.Format("2006-01-02"),
		Amount:          t.Amount.String(),
		Alias:           (*Alias)(t),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Transaction
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type Alias Transaction
	aux := &struct {
		TransactionDate string `json:"transaction_date"`
		Amount          string `json:"amount"`
		*Alias
	}{
		Alias: (*Alias)(t),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	t.Amount, err = decimal.NewFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	t.TransactionDate, err = ParseTimeWithFormats(aux.TransactionDate)
	if err != nil {
		return fmt.Errorf("invalid transaction date format: %w", err)
	}

	return nil
}

// Equals compares two Transaction instances for equality
func (t *Transaction) Equals(other *Transaction) bool {
	if other == nil {
		return false
	}

	return t.TransactionID == other.TransactionID &&
		t.TransactionDate.Equal(other.TransactionDate) &&
		t.AccountID == other.AccountID &&
		t.Description == other.Description &&
		t.Category == other.Category &&
		t.Amount.Equal(other.Amount) &&
		t.Type == other.Type
}

// RecurringPattern is a derived view over a detected transaction group.
// It is rebuilt from scratch on every detection call; only its identity
// (PatternID) and the feedback flags are persisted across runs.
type RecurringPattern struct {
	PatternID          int64           `json:"pattern_id"`
	DescriptionPattern string          `json:"description_pattern"`
	AccountID          string          `json:"account_id"`
	Category           string          `json:"category"`
	AvgAmount          decimal.Decimal `json:"avg_amount"`
	Frequency          Frequency       `json:"frequency"`
	NextExpectedDate   time.Time       `json:"next_expected_date"`
	ConfidenceLevel    ConfidenceLevel `json:"confidence_level"`
	ConfidenceScore    int             `json:"confidence_score"`
	OccurrenceCount    int             `json:"occurrence_count"`
	LastOccurrenceDate time.Time       `json:"last_occurrence_date"`
	IsConfirmed        bool            `json:"is_confirmed"`
	IsRejected         bool            `json:"is_rejected"`
}

// String returns a string representation of the RecurringPattern
func (p *RecurringPattern) String() string {
	return fmt.Sprintf("RecurringPattern{ID: %d, Account: %s, Description: %q, Frequency: %s, Score: %d, Occurrences: %d}",
		p.PatternID, p.AccountID, p.DescriptionPattern, p.Frequency, p.ConfidenceScore, p.OccurrenceCount)
}

// MarshalJSON implements custom JSON marshaling for RecurringPattern
func (p *RecurringPattern) MarshalJSON() ([]byte, error) {
	type Alias RecurringPattern
	return json.Marshal(&struct {
		AvgAmount          string `json:"avg_amount"`
		NextExpectedDate   string `json:"next_expected_date"`
		LastOccurrenceDate string `json:"last_occurrence_date"`
		*Alias
	}{
		AvgAmount:          p.AvgAmount.StringFixed(2),
		NextExpectedDate:   p.NextExpectedDate.Format("2006-01-02"),
		LastOccurrenceDate: p.LastOccurrenceDate.Format("2006-01-02"),
		Alias:              (*Alias)(p),
	})
}

// Utility functions for type conversion and validation

// ParseDecimalFromString parses a decimal value from string with validation
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	// Remove common currency symbols and thousand separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseTransactionType parses and validates a transaction type from string
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "credit", "deposit":
		return TransactionTypeIncome, nil
	case "expense", "debit", "withdrawal":
		return TransactionTypeExpense, nil
	case "transfer":
		return TransactionTypeTransfer, nil
	default:
		return "", fmt.Errorf("invalid transaction type '%s': must be Income, Expense or Transfer", s)
	}
}

// ParseFrequency parses and validates a frequency value from string
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly":
		return FrequencyWeekly, nil
	case "biweekly", "bi-weekly":
		return FrequencyBiweekly, nil
	case "monthly":
		return FrequencyMonthly, nil
	default:
		return "", fmt.Errorf("invalid frequency '%s': must be Weekly, Biweekly or Monthly", s)
	}
}

// ParseConfidenceLevel parses and validates a confidence level from string
func ParseConfidenceLevel(s string) (ConfidenceLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return ConfidenceHigh, nil
	case "medium":
		return ConfidenceMedium, nil
	case "low":
		return ConfidenceLow, nil
	default:
		return "", fmt.Errorf("invalid confidence level '%s': must be High, Medium or Low", s)
	}
}

// ParseTimeWithFormats attempts to parse time from string using multiple common formats
func ParseTimeWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("time string cannot be empty")
	}

	// Common date formats seen in household finance exports
	formats := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"01/02/2006",
		"2006/01/02",
		"Jan 2, 2006",
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time '%s': %w", s, lastErr)
}

// CreateTransactionFromCSV creates a Transaction from CSV field values
func CreateTransactionFromCSV(id, dateStr, accountID, description, category, amountStr, typeStr string) (*Transaction, error) {
	date, err := ParseTimeWithFormats(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction date in CSV: %w", err)
	}

	amount, err := ParseDecimalFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount in CSV: %w", err)
	}

	txType, err := ParseTransactionType(typeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction type in CSV: %w", err)
	}

	transaction := NewTransaction(
		strings.TrimSpace(id),
		date,
		strings.TrimSpace(accountID),
		strings.TrimSpace(description),
		strings.TrimSpace(category),
		amount,
		txType,
	)

	if err := transaction.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transaction data: %w", err)
	}

	return transaction, nil
}

// SortTransactionsByDate sorts transactions ascending by transaction date,
// in place. Ties keep their relative input order.
func SortTransactionsByDate(transactions []*Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].TransactionDate.Before(transactions[j].TransactionDate)
	})
}
