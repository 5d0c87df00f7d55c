package detector

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"homefinance-recurring-service/internal/models"
)

func expenseTx(id string, date time.Time, account, description string, amount float64) *models.Transaction {
	return models.NewTransaction(id, date, account, description, "",
		decimal.NewFromFloat(amount), models.TransactionTypeExpense)
}

func monthlySubscription(count int, amount float64) []*models.Transaction {
	var transactions []*models.Transaction
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		transactions = append(transactions,
			expenseTx("tx"+string(rune('a'+i)), date, "acct-1", "NETFLIX.COM", amount))
		date = date.AddDate(0, 1, 0)
	}
	return transactions
}

func TestScoreConfidenceFixedSubscription(t *testing.T) {
	// Six monthly charges at a fixed price: regular intervals (50),
	// zero amount variation (40), and a five-occurrence bonus (5)
	transactions := monthlySubscription(6, -15.99)

	result := ScoreConfidence(transactions)

	if result.Score != 95 {
		t.Errorf("Score = %d, want 95", result.Score)
	}
	if result.Level != models.ConfidenceHigh {
		t.Errorf("Level = %s, want %s", result.Level, models.ConfidenceHigh)
	}
}

func TestScoreConfidenceTooFewTransactions(t *testing.T) {
	transactions := monthlySubscription(2, -15.99)

	result := ScoreConfidence(transactions)

	if result.Score != 50 {
		t.Errorf("Score = %d, want 50", result.Score)
	}
	if result.Level != models.ConfidenceLow {
		t.Errorf("Level = %s, want %s", result.Level, models.ConfidenceLow)
	}
}

func TestScoreConfidenceVariableAmounts(t *testing.T) {
	// Regular weekly spacing but wildly varying amounts: regularity 50,
	// amount consistency 0, no bonus at three occurrences
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	transactions := []*models.Transaction{
		expenseTx("t1", date, "acct-1", "GROCERY MART", -10.00),
		expenseTx("t2", date.AddDate(0, 0, 7), "acct-1", "GROCERY MART", -100.00),
		expenseTx("t3", date.AddDate(0, 0, 14), "acct-1", "GROCERY MART", -10.00),
	}

	result := ScoreConfidence(transactions)

	if result.Score != 50 {
		t.Errorf("Score = %d, want 50", result.Score)
	}
	if result.Level != models.ConfidenceLow {
		t.Errorf("Level = %s, want %s", result.Level, models.ConfidenceLow)
	}
}

func TestScoreConfidenceLongHistoryBonus(t *testing.T) {
	// Seven or more occurrences earn the full bonus and cap at 100
	transactions := monthlySubscription(8, -9.99)

	result := ScoreConfidence(transactions)

	if result.Score != 100 {
		t.Errorf("Score = %d, want 100", result.Score)
	}
	if result.Level != models.ConfidenceHigh {
		t.Errorf("Level = %s, want %s", result.Level, models.ConfidenceHigh)
	}
}

func TestScoreConfidenceFloorsAtFifty(t *testing.T) {
	// Intervals 30, 30, 30, 10, 50 barely pass the monthly consistency
	// gate, and the alternating amounts score zero for consistency. The
	// raw sum (10 + 0 + 5) is clamped up to the 50-point floor.
	date := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	offsets := []int{0, 30, 60, 90, 100, 150}
	var transactions []*models.Transaction
	for i, offset := range offsets {
		amount := -10.00
		if i%2 == 1 {
			amount = -200.00
		}
		transactions = append(transactions,
			expenseTx("t"+string(rune('1'+i)), date.AddDate(0, 0, offset), "acct-1", "ERRATIC VENDOR", amount))
	}

	result := ScoreConfidence(transactions)

	if result.Score != 50 {
		t.Errorf("Score = %d, want 50", result.Score)
	}
	if result.Level != models.ConfidenceLow {
		t.Errorf("Level = %s, want %s", result.Level, models.ConfidenceLow)
	}
}

func TestScoreConfidenceModeratelyIrregular(t *testing.T) {
	// Monthly-ish intervals with a few days of drift keep the frequency
	// but cost regularity points
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	transactions := []*models.Transaction{
		expenseTx("t1", date, "acct-1", "CITY GYM", -45.00),
		expenseTx("t2", date.AddDate(0, 0, 26), "acct-1", "CITY GYM", -45.00),
		expenseTx("t3", date.AddDate(0, 0, 61), "acct-1", "CITY GYM", -45.00),
		expenseTx("t4", date.AddDate(0, 0, 94), "acct-1", "CITY GYM", -45.00),
	}

	// Intervals 26, 35, 33: mean deviation from 30 is (4+5+3)/3 = 4
	result := ScoreConfidence(transactions)

	if result.Score != 60 {
		t.Errorf("Score = %d, want 60", result.Score)
	}
	if result.Level != models.ConfidenceLow {
		t.Errorf("Level = %s, want %s", result.Level, models.ConfidenceLow)
	}
}
