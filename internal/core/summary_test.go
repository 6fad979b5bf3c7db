package core

import (
	"testing"
	"time"
)

func receiptOn(y, m, d int, method PaymentMethod, cents int64) Receipt {
	return Receipt{
		ID:            "r",
		Title:         "t",
		Date:          NewDate(y, m, d),
		Items:         []ReceiptItem{{Description: "x", Quantity: 1, Price: Money{Cents: cents}}},
		PaymentMethod: method,
	}
}

func TestMonthlyBreakdown(t *testing.T) {
	receipts := []Receipt{
		receiptOn(2024, 1, 5, PaymentCash, 1000),
		receiptOn(2024, 1, 20, PaymentBank, 2000),
		receiptOn(2024, 2, 1, PaymentCash, 500),
		receiptOn(2023, 12, 31, PaymentBank, 700),
	}
	got := MonthlyBreakdown(receipts)
	if len(got) != 3 {
		t.Fatalf("expected 3 months, got %d", len(got))
	}
	// Most recent first, keyed on year+month rather than month names.
	if got[0].Month != time.February || got[0].Year != 2024 {
		t.Fatalf("first month = %v %d", got[0].Month, got[0].Year)
	}
	if got[2].Month != time.December || got[2].Year != 2023 {
		t.Fatalf("last month = %v %d", got[2].Month, got[2].Year)
	}

	jan := got[1]
	if jan.Total.Cents != 3000 || jan.Cash.Cents != 1000 || jan.Bank.Cents != 2000 {
		t.Fatalf("january: total=%d cash=%d bank=%d", jan.Total.Cents, jan.Cash.Cents, jan.Bank.Cents)
	}
	for _, ms := range got {
		if ms.Cash.Cents+ms.Bank.Cents != ms.Total.Cents {
			t.Fatalf("%s: cash+bank != total", ms.Label())
		}
	}
}

func TestMonthlyBreakdownUsesBusinessDate(t *testing.T) {
	r := receiptOn(2024, 3, 10, PaymentCash, 100)
	r.CreatedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got := MonthlyBreakdown([]Receipt{r})
	if len(got) != 1 || got[0].Month != time.March {
		t.Fatalf("breakdown should group on Date, got %+v", got)
	}
}

func TestSummarizePayments(t *testing.T) {
	p := SummarizePayments([]Receipt{
		receiptOn(2024, 1, 1, PaymentCash, 300),
		receiptOn(2024, 1, 2, PaymentBank, 100),
	})
	if p.Total.Cents != 400 {
		t.Fatalf("total = %d", p.Total.Cents)
	}
	if p.CashPercent() != 75 || p.BankPercent() != 25 {
		t.Fatalf("shares = %v / %v", p.CashPercent(), p.BankPercent())
	}
}

func TestSummarizePaymentsZeroTotal(t *testing.T) {
	p := SummarizePayments(nil)
	if p.CashPercent() != 0 || p.BankPercent() != 0 {
		t.Fatalf("zero grand total must give 0%%, got %v / %v", p.CashPercent(), p.BankPercent())
	}
}

func TestFilterByDateRange(t *testing.T) {
	jan := receiptOn(2024, 1, 15, PaymentCash, 100)
	feb := receiptOn(2024, 2, 1, PaymentCash, 100)
	got := FilterByDateRange([]Receipt{jan, feb},
		time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC), // time-of-day must not matter
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if len(got) != 1 || got[0].Date.Month() != time.January {
		t.Fatalf("expected only the january receipt, got %d", len(got))
	}

	// Boundary days are inclusive.
	edges := FilterByDateRange([]Receipt{jan},
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	if len(edges) != 1 {
		t.Fatalf("same-day range must include the receipt")
	}

	// A zero bound leaves that side open.
	open := FilterByDateRange([]Receipt{jan, feb},
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	if len(open) != 1 || open[0].Date.Month() != time.February {
		t.Fatalf("open-ended range failed, got %d", len(open))
	}
	if got := FilterByDateRange([]Receipt{jan, feb}, time.Time{}, time.Time{}); len(got) != 2 {
		t.Fatalf("no bounds must keep everything, got %d", len(got))
	}
}

func TestFilterByQuery(t *testing.T) {
	r := receiptOn(2024, 1, 1, PaymentCash, 100)
	r.Title = "Morning sale"
	r.CustomerName = "Ada"
	r.Items[0].Description = "Iced Coffee"

	cases := []struct {
		query string
		want  int
	}{
		{"Coffee", 1}, // matches only via the item description
		{"coffee", 1},
		{"morning", 1},
		{"ada", 1},
		{"tea", 0},
		{"", 1},
	}
	for _, tc := range cases {
		if got := FilterByQuery([]Receipt{r}, tc.query); len(got) != tc.want {
			t.Fatalf("query %q: got %d, want %d", tc.query, len(got), tc.want)
		}
	}
}

func TestFiltersCompose(t *testing.T) {
	a := receiptOn(2024, 1, 10, PaymentCash, 100)
	a.Title = "Coffee order"
	b := receiptOn(2024, 2, 10, PaymentCash, 100)
	b.Title = "Coffee order"
	c := receiptOn(2024, 1, 20, PaymentCash, 100)
	c.Title = "Tea order"

	got := FilterByQuery(FilterByDateRange([]Receipt{a, b, c},
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)), "coffee")
	if len(got) != 1 || got[0].Date.Day() != 10 {
		t.Fatalf("AND composition failed, got %d receipts", len(got))
	}
}
