package parsers

import (
	"os"
	"path/filepath"
	"testing"

	"homefinance-recurring-service/internal/models"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snapshot.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test CSV: %v", err)
	}
	return path
}

func TestParseTransactionsBasic(t *testing.T) {
	csv := `transaction_id,transaction_date,account_id,description,category,amount,transaction_type
tx-001,2025-01-15,acct-1,NETFLIX.COM,Entertainment,-15.99,Expense
tx-002,2025-02-15,acct-1,NETFLIX.COM,Entertainment,-15.99,Expense
tx-003,2025-01-31,acct-1,ACME PAYROLL,Salary,2500.00,Income
tx-004,2025-01-20,acct-1,TRANSFER TO SAVINGS,,-500.00,Transfer
`

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("NewTransactionParser() error: %v", err)
	}

	transactions, stats, err := parser.ParseTransactions(writeTempCSV(t, csv))
	if err != nil {
		t.Fatalf("ParseTransactions() error: %v", err)
	}

	if len(transactions) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(transactions))
	}
	if stats.RecordsValid != 4 {
		t.Errorf("RecordsValid = %d, want 4", stats.RecordsValid)
	}
	if stats.HasErrors() {
		t.Errorf("unexpected parse errors: %v", stats.Errors)
	}

	first := transactions[0]
	if first.TransactionID != "tx-001" {
		t.Errorf("TransactionID = %s, want tx-001", first.TransactionID)
	}
	if first.Type != models.TransactionTypeExpense {
		t.Errorf("Type = %s, want Expense", first.Type)
	}
	if first.Category != "Entertainment" {
		t.Errorf("Category = %s, want Entertainment", first.Category)
	}
	if transactions[3].Type != models.TransactionTypeTransfer {
		t.Errorf("Type = %s, want Transfer", transactions[3].Type)
	}
}

func TestParseTransactionsCollectsBadRows(t *testing.T) {
	csv := `transaction_id,transaction_date,account_id,description,category,amount,transaction_type
tx-001,2025-01-15,acct-1,NETFLIX.COM,Entertainment,-15.99,Expense
tx-002,not-a-date,acct-1,NETFLIX.COM,Entertainment,-15.99,Expense
tx-003,2025-03-15,acct-1,NETFLIX.COM,Entertainment,abc,Expense
tx-004,2025-04-15,acct-1,NETFLIX.COM,Entertainment,-15.99,Expense
`

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("NewTransactionParser() error: %v", err)
	}

	transactions, stats, err := parser.ParseTransactions(writeTempCSV(t, csv))
	if err != nil {
		t.Fatalf("ParseTransactions() error: %v", err)
	}

	if len(transactions) != 2 {
		t.Errorf("expected 2 valid transactions, got %d", len(transactions))
	}
	if stats.ErrorCount != 2 {
		t.Errorf("ErrorCount = %d, want 2", stats.ErrorCount)
	}
}

func TestParseTransactionsColumnAliases(t *testing.T) {
	csv := `id,date,account,payee,category,amt,type
tx-001,2025-01-15,acct-1,NETFLIX.COM,Entertainment,-15.99,Expense
`

	config := DefaultTransactionParserConfig()
	config.ColumnAliases = map[string]string{
		"transaction_id":   "id",
		"transaction_date": "date",
		"account_id":       "account",
		"description":      "payee",
		"amount":           "amt",
		"transaction_type": "type",
	}

	parser, err := NewTransactionParser(config)
	if err != nil {
		t.Fatalf("NewTransactionParser() error: %v", err)
	}

	transactions, _, err := parser.ParseTransactions(writeTempCSV(t, csv))
	if err != nil {
		t.Fatalf("ParseTransactions() error: %v", err)
	}

	if len(transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(transactions))
	}
	if transactions[0].Description != "NETFLIX.COM" {
		t.Errorf("Description = %s, want NETFLIX.COM", transactions[0].Description)
	}
}

func TestParseTransactionsMissingColumn(t *testing.T) {
	csv := `transaction_id,transaction_date,description,amount
tx-001,2025-01-15,NETFLIX.COM,-15.99
`

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("NewTransactionParser() error: %v", err)
	}

	if _, _, err := parser.ParseTransactions(writeTempCSV(t, csv)); err == nil {
		t.Error("expected error for missing required columns")
	}
}

func TestParseTransactionsFileNotFound(t *testing.T) {
	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("NewTransactionParser() error: %v", err)
	}

	if _, _, err := parser.ParseTransactions("/nonexistent/snapshot.csv"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseTransactionsSkipsEmptyRows(t *testing.T) {
	csv := `transaction_id,transaction_date,account_id,description,category,amount,transaction_type
tx-001,2025-01-15,acct-1,NETFLIX.COM,Entertainment,-15.99,Expense

tx-002,2025-02-15,acct-1,NETFLIX.COM,Entertainment,-15.99,Expense
`

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("NewTransactionParser() error: %v", err)
	}

	transactions, _, err := parser.ParseTransactions(writeTempCSV(t, csv))
	if err != nil {
		t.Fatalf("ParseTransactions() error: %v", err)
	}

	if len(transactions) != 2 {
		t.Errorf("expected 2 transactions with empty row skipped, got %d", len(transactions))
	}
}

func TestParseTransactionsSampleFixture(t *testing.T) {
	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("NewTransactionParser() error: %v", err)
	}

	transactions, stats, err := parser.ParseTransactions(filepath.Join("testdata", "sample_transactions.csv"))
	if err != nil {
		t.Fatalf("ParseTransactions() error: %v", err)
	}

	if len(transactions) != 14 {
		t.Fatalf("expected 14 transactions, got %d", len(transactions))
	}
	if stats.HasErrors() {
		t.Errorf("unexpected parse errors: %v", stats.Errors)
	}

	types := map[models.TransactionType]int{}
	for _, tx := range transactions {
		types[tx.Type]++
	}
	if types[models.TransactionTypeExpense] != 9 {
		t.Errorf("expense count = %d, want 9", types[models.TransactionTypeExpense])
	}
	if types[models.TransactionTypeIncome] != 3 {
		t.Errorf("income count = %d, want 3", types[models.TransactionTypeIncome])
	}
	if types[models.TransactionTypeTransfer] != 2 {
		t.Errorf("transfer count = %d, want 2", types[models.TransactionTypeTransfer])
	}
}

func TestTransactionParserConfigValidate(t *testing.T) {
	config := DefaultTransactionParserConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	config.AmountColumn = ""
	if err := config.Validate(); err == nil {
		t.Error("expected error for empty amount column")
	}
}

func TestGetColumnNameAliasPrecedence(t *testing.T) {
	config := DefaultTransactionParserConfig()
	config.ColumnAliases["amount"] = "value"

	if got := config.GetColumnName("amount"); got != "value" {
		t.Errorf("GetColumnName(amount) = %s, want alias value", got)
	}
	if got := config.GetColumnName("description"); got != "description" {
		t.Errorf("GetColumnName(description) = %s, want description", got)
	}
}
