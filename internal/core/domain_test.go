package core

import (
	"testing"
	"time"
)

func validReceipt() Receipt {
	return Receipt{
		ID:            "a1b2c3d4",
		Title:         "Consulting",
		Date:          NewDate(2024, 1, 15),
		CreatedAt:     time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Items:         []ReceiptItem{{ID: "i1", Description: "Hours", Quantity: 2, Price: Money{Cents: 500}}},
		TaxRate:       10,
		Currency:      "USD",
		PaymentMethod: PaymentCash,
	}
}

func TestDateValidate(t *testing.T) {
	if err := NewDate(2024, 12, 31).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestReceiptValidate(t *testing.T) {
	if err := validReceipt().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Receipt)
	}{
		{"empty title", func(r *Receipt) { r.Title = "  " }},
		{"zero date", func(r *Receipt) { r.Date = Date{} }},
		{"no items", func(r *Receipt) { r.Items = nil }},
		{"empty item description", func(r *Receipt) { r.Items[0].Description = "" }},
		{"zero quantity", func(r *Receipt) { r.Items[0].Quantity = 0 }},
		{"negative price", func(r *Receipt) { r.Items[0].Price = Money{Cents: -1} }},
		{"bad payment method", func(r *Receipt) { r.PaymentMethod = "cheque" }},
	}
	for _, tc := range cases {
		r := validReceipt()
		tc.mutate(&r)
		if err := r.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestPaymentMethod(t *testing.T) {
	if !PaymentCash.IsValid() || !PaymentBank.IsValid() {
		t.Fatalf("cash/bank must be valid")
	}
	if PaymentMethod("card").IsValid() {
		t.Fatalf("card must be invalid")
	}
	if PaymentBank.Label() != "Bank Transfer" || PaymentCash.Label() != "Cash Payment" {
		t.Fatalf("unexpected labels: %q %q", PaymentBank.Label(), PaymentCash.Label())
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.DefaultCurrency != "USD" {
		t.Fatalf("default currency = %q", s.DefaultCurrency)
	}
	if !s.ShowLogo {
		t.Fatalf("expected ShowLogo default true")
	}
}
