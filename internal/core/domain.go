package core

import (
	"errors"
	"strings"
	"time"
)

const (
	PaymentCash PaymentMethod = "cash"
	PaymentBank PaymentMethod = "bank"
)

type (
	PaymentMethod string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64 `json:"cents"`
	}

	// ReceiptItem is one billable line within a receipt.
	ReceiptItem struct {
		ID          string  `json:"id"`
		Description string  `json:"description"`
		Quantity    float64 `json:"quantity"`
		Price       Money   `json:"price"`
	}

	// Receipt records a billable transaction. ID and CreatedAt are set once
	// at creation and never change afterwards.
	Receipt struct {
		ID              string        `json:"id"`
		Title           string        `json:"title"`
		Date            Date          `json:"date"`
		CreatedAt       time.Time     `json:"createdAt"`
		CustomerName    string        `json:"customerName,omitempty"`
		CustomerEmail   string        `json:"customerEmail,omitempty"`
		Items           []ReceiptItem `json:"items"`
		TaxRate         float64       `json:"taxRate"`
		Currency        string        `json:"currency"`
		Notes           string        `json:"notes,omitempty"`
		PaymentMethod   PaymentMethod `json:"paymentMethod"`
		ReferenceNumber string        `json:"referenceNumber,omitempty"`
		BankName        string        `json:"bankName,omitempty"`
	}

	// Settings is the single per-installation record of business identity
	// and display preferences.
	Settings struct {
		BusinessName    string  `json:"businessName"`
		BusinessEmail   string  `json:"businessEmail"`
		BusinessPhone   string  `json:"businessPhone"`
		BusinessAddress string  `json:"businessAddress"`
		DefaultCurrency string  `json:"defaultCurrency"`
		DefaultTaxRate  float64 `json:"defaultTaxRate"`
		ShowLogo        bool    `json:"showLogo"`
		DarkMode        bool    `json:"darkMode"`
		Signature       string  `json:"signature"`
	}
)

var (
	ErrInvalidDate          = errors.New("invalid date")
	ErrEmptyTitle           = errors.New("empty title")
	ErrNoItems              = errors.New("receipt has no items")
	ErrEmptyItemDescription = errors.New("empty item description")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrNegativePrice        = errors.New("negative price")
	ErrInvalidPayment       = errors.New("invalid payment method")
)

func (pm PaymentMethod) IsValid() bool {
	return pm == PaymentCash || pm == PaymentBank
}

// Label returns the display name used on screens and in the printable document.
func (pm PaymentMethod) Label() string {
	if pm == PaymentBank {
		return "Bank Transfer"
	}
	return "Cash Payment"
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsEmpty reports whether the date was never set.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (it ReceiptItem) Validate() error {
	if len(strings.TrimSpace(it.Description)) == 0 {
		return ErrEmptyItemDescription
	}
	if it.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if it.Price.Cents < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Validate enforces the create/edit flow expectations. The store deliberately
// does not call it: a stored receipt with zero items is legal at the data
// layer, it is the forms that must not produce one.
func (r Receipt) Validate() error {
	if len(strings.TrimSpace(r.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(r.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if !r.PaymentMethod.IsValid() {
		return ErrInvalidPayment
	}
	if len(r.Items) == 0 {
		return ErrNoItems
	}
	for _, it := range r.Items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultSettings returns the record created lazily on first read.
func DefaultSettings() Settings {
	return Settings{
		DefaultCurrency: "USD",
		ShowLogo:        true,
	}
}
