package http

import (
	"context"
	"fmt"
	"net/http"

	"ricevute/internal/core"
	applog "ricevute/internal/log"
)

const analyticsCacheKey = "analytics"

type monthRow struct {
	Label string
	Total string
	Cash  string
	Bank  string
	Width int
}

type analyticsView struct {
	Months      []monthRow
	CashTotal   string
	BankTotal   string
	GrandTotal  string
	CashPercent string
	BankPercent string
	Empty       bool
}

// handleAnalytics renders the monthly breakdown and the payment split.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	view, err := s.getAnalytics(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Analytics computation failed", applog.FieldError, err)
		InternalServerError("Could not compute analytics").Write(w)
		return
	}

	if err := s.templates.ExecuteTemplate(w, "analytics.html", view); err != nil {
		logger.ErrorContext(ctx, "Analytics template execution failed", applog.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// getAnalytics returns the aggregated view, from cache when fresh.
func (s *Server) getAnalytics(ctx context.Context) (analyticsView, error) {
	if view, found := s.analyticsCache.Get(analyticsCacheKey); found {
		applog.FromContext(ctx).DebugContext(ctx, "Analytics cache hit")
		return view, nil
	}

	receipts, err := s.store.LoadReceipts(ctx)
	if err != nil {
		return analyticsView{}, fmt.Errorf("load receipts for analytics: %w", err)
	}

	view := buildAnalyticsView(receipts, s.defaultCurrency(ctx))
	s.analyticsCache.Set(analyticsCacheKey, view)
	return view, nil
}

func buildAnalyticsView(receipts []core.Receipt, currency string) analyticsView {
	months := core.MonthlyBreakdown(receipts)
	payments := core.SummarizePayments(receipts)

	view := analyticsView{
		CashTotal:   payments.Cash.Format(currency),
		BankTotal:   payments.Bank.Format(currency),
		GrandTotal:  payments.Total.Format(currency),
		CashPercent: fmt.Sprintf("%.1f", payments.CashPercent()),
		BankPercent: fmt.Sprintf("%.1f", payments.BankPercent()),
		Empty:       len(receipts) == 0,
	}

	var maxCents int64
	for _, m := range months {
		if m.Total.Cents > maxCents {
			maxCents = m.Total.Cents
		}
	}
	for _, m := range months {
		width := 0
		if maxCents > 0 && m.Total.Cents > 0 {
			width = int((m.Total.Cents*100 + maxCents/2) / maxCents)
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		view.Months = append(view.Months, monthRow{
			Label: m.Label(),
			Total: m.Total.Format(currency),
			Cash:  m.Cash.Format(currency),
			Bank:  m.Bank.Format(currency),
			Width: width,
		})
	}
	return view
}
