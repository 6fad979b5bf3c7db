package core

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// MonthSummary is the aggregated revenue for one calendar month, split by
// payment method. Cash plus Bank always equals Total.
type MonthSummary struct {
	Year  int
	Month time.Month
	Total Money
	Cash  Money
	Bank  Money
}

// Label formats the month for screens and export rows, e.g. "January 2024".
func (ms MonthSummary) Label() string {
	return ms.Month.String() + " " + strconv.Itoa(ms.Year)
}

// PaymentSummary is the whole-collection revenue split by payment method.
type PaymentSummary struct {
	Total Money
	Cash  Money
	Bank  Money
}

// CashPercent returns the cash share of the grand total, 0 when the grand
// total is zero.
func (p PaymentSummary) CashPercent() float64 {
	return percent(p.Cash.Cents, p.Total.Cents)
}

// BankPercent returns the bank share of the grand total, 0 when the grand
// total is zero.
func (p PaymentSummary) BankPercent() float64 {
	return percent(p.Bank.Cents, p.Total.Cents)
}

func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// MonthlyBreakdown groups receipts by the calendar month of their business
// date (not CreatedAt) and sums each receipt's total, split into cash and
// bank. Months are sorted most recent first on the (year, month) key.
func MonthlyBreakdown(receipts []Receipt) []MonthSummary {
	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]*MonthSummary)
	for _, r := range receipts {
		k := key{year: r.Date.Year(), month: r.Date.Month()}
		ms, ok := buckets[k]
		if !ok {
			ms = &MonthSummary{Year: k.year, Month: k.month}
			buckets[k] = ms
		}
		total := r.Total()
		ms.Total.Cents += total.Cents
		if r.PaymentMethod == PaymentCash {
			ms.Cash.Cents += total.Cents
		} else {
			ms.Bank.Cents += total.Cents
		}
	}
	out := make([]MonthSummary, 0, len(buckets))
	for _, ms := range buckets {
		out = append(out, *ms)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out
}

// SummarizePayments totals cash and bank revenue across the collection.
func SummarizePayments(receipts []Receipt) PaymentSummary {
	var p PaymentSummary
	for _, r := range receipts {
		total := r.Total()
		p.Total.Cents += total.Cents
		if r.PaymentMethod == PaymentCash {
			p.Cash.Cents += total.Cents
		} else {
			p.Bank.Cents += total.Cents
		}
	}
	return p
}

// FilterByDateRange keeps receipts whose business date falls within
// [startOfDay(start), endOfDay(end)], both inclusive. A zero bound leaves
// that side of the range open.
func FilterByDateRange(receipts []Receipt, start, end time.Time) []Receipt {
	if start.IsZero() && end.IsZero() {
		return receipts
	}
	out := make([]Receipt, 0, len(receipts))
	for _, r := range receipts {
		d := r.Date.Time
		if !start.IsZero() {
			lo := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
			if d.Before(lo) {
				continue
			}
		}
		if !end.IsZero() {
			hi := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, end.Location())
			if d.After(hi) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// FilterByQuery keeps receipts whose title, customer name or any item
// description contains the query, case-insensitively. An empty query keeps
// everything. Composes with FilterByDateRange under AND semantics by simple
// chaining.
func FilterByQuery(receipts []Receipt, query string) []Receipt {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return receipts
	}
	out := make([]Receipt, 0, len(receipts))
	for _, r := range receipts {
		if receiptMatches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func receiptMatches(r Receipt, q string) bool {
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(r.CustomerName), q) {
		return true
	}
	for _, it := range r.Items {
		if strings.Contains(strings.ToLower(it.Description), q) {
			return true
		}
	}
	return false
}
