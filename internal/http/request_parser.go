// Package http provides the HTTP server and handler implementations.
//
// This file parses the receipt and settings forms. Items arrive as parallel
// arrays (item_description, item_quantity, item_price), one entry per row.

package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ricevute/internal/core"
)

// ListFilters holds the browse-screen filter parameters.
type ListFilters struct {
	Query string
	From  core.Date
	To    core.Date
}

// ParseListFilters extracts search and date-range filters from the query
// string. Unparseable dates are ignored rather than rejected.
func ParseListFilters(query url.Values) ListFilters {
	f := ListFilters{Query: strings.TrimSpace(query.Get("q"))}
	if v := strings.TrimSpace(query.Get("from")); v != "" {
		if d, err := parseDate(v); err == nil {
			f.From = d
		}
	}
	if v := strings.TrimSpace(query.Get("to")); v != "" {
		if d, err := parseDate(v); err == nil {
			f.To = d
		}
	}
	return f
}

// ParseReceiptForm builds a receipt draft from the submitted form. The draft
// carries no id; identity is assigned by the service layer.
func ParseReceiptForm(form url.Values) (core.Receipt, error) {
	r := core.Receipt{
		Title:           sanitizeInput(form.Get("title")),
		CustomerName:    sanitizeInput(form.Get("customer_name")),
		CustomerEmail:   sanitizeInput(form.Get("customer_email")),
		Notes:           sanitizeInput(form.Get("notes")),
		Currency:        sanitizeInput(form.Get("currency")),
		PaymentMethod:   core.PaymentMethod(strings.TrimSpace(form.Get("payment_method"))),
		ReferenceNumber: sanitizeInput(form.Get("reference_number")),
		BankName:        sanitizeInput(form.Get("bank_name")),
	}

	if v := strings.TrimSpace(form.Get("date")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return core.Receipt{}, fmt.Errorf("invalid date %q", v)
		}
		r.Date = d
	}

	if v := strings.TrimSpace(form.Get("tax_rate")); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 {
			return core.Receipt{}, fmt.Errorf("invalid tax rate %q", v)
		}
		r.TaxRate = rate
	}

	items, err := parseItemRows(form)
	if err != nil {
		return core.Receipt{}, err
	}
	r.Items = items

	return r, nil
}

func parseItemRows(form url.Values) ([]core.ReceiptItem, error) {
	descs := form["item_description"]
	quantities := form["item_quantity"]
	prices := form["item_price"]

	var items []core.ReceiptItem
	for i, desc := range descs {
		desc = sanitizeInput(desc)
		qty := ""
		if i < len(quantities) {
			qty = strings.TrimSpace(quantities[i])
		}
		price := ""
		if i < len(prices) {
			price = strings.TrimSpace(prices[i])
		}

		// Skip fully blank rows so trailing empty form rows don't fail.
		if desc == "" && qty == "" && price == "" {
			continue
		}

		item := core.ReceiptItem{Description: desc, Quantity: 1}
		if qty != "" {
			q, err := strconv.ParseFloat(qty, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid quantity %q for item %d", qty, i+1)
			}
			item.Quantity = q
		}
		if price != "" {
			cents, err := core.ParseDecimalToCents(price)
			if err != nil {
				return nil, fmt.Errorf("invalid price %q for item %d", price, i+1)
			}
			item.Price = core.Money{Cents: cents}
		}
		items = append(items, item)
	}
	return items, nil
}

// ParseSettingsForm builds the settings record from the submitted form.
func ParseSettingsForm(form url.Values) core.Settings {
	return core.Settings{
		BusinessName:    sanitizeInput(form.Get("business_name")),
		BusinessAddress: sanitizeInput(form.Get("business_address")),
		BusinessPhone:   sanitizeInput(form.Get("business_phone")),
		BusinessEmail:   sanitizeInput(form.Get("business_email")),
		DefaultCurrency: sanitizeInput(form.Get("currency")),
		DefaultTaxRate:  parseFloatOrZero(form.Get("tax_rate")),
		Signature:       strings.TrimSpace(form.Get("signature")),
		ShowLogo:        form.Get("show_logo") == "on" || form.Get("show_logo") == "true",
	}
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// ParseFormOrFail parses the request form and returns an error response on
// failure. Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}
