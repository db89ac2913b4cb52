package finance

import (
	"testing"
	"time"

	"finance4all/internal/models"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(t, want)) {
		t.Errorf("%s = %s, want %s", name, got.String(), want)
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func txn(t *testing.T, typ models.TransactionType, amount string, when time.Time, category *models.Category) models.Transaction {
	t.Helper()
	tx := models.Transaction{Type: typ, Amount: dec(t, amount), Date: when, Category: category}
	if category != nil {
		tx.CategoryID = strPtr(category.ID)
	}
	return tx
}
