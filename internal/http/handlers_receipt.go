package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"ricevute/internal/core"
	applog "ricevute/internal/log"
	"ricevute/internal/store"
)

type receiptRow struct {
	ID           string
	Title        string
	Date         string
	Customer     string
	Total        string
	PaymentLabel string
}

type indexData struct {
	Rows       []receiptRow
	Query      string
	From       string
	To         string
	Count      int
	GrandTotal string
}

// handleIndex renders the browse screen: full list, optionally narrowed by
// search query and date range.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	if s.templates == nil {
		logger.ErrorContext(ctx, "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	receipts, err := s.store.LoadReceipts(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Load receipts failed", applog.FieldError, err)
		InternalServerError("Could not load receipts").Write(w)
		return
	}

	filters := ParseListFilters(r.URL.Query())
	filtered := core.FilterByQuery(receipts, filters.Query)
	filtered = core.FilterByDateRange(filtered, filters.From.Time, filters.To.Time)

	data := indexData{
		Query: filters.Query,
		Count: len(filtered),
	}
	if !filters.From.IsEmpty() {
		data.From = filters.From.Format("2006-01-02")
	}
	if !filters.To.IsEmpty() {
		data.To = filters.To.Format("2006-01-02")
	}

	var grand core.Money
	for _, rc := range filtered {
		total := rc.Total()
		grand.Cents += total.Cents
		data.Rows = append(data.Rows, receiptRow{
			ID:           rc.ID,
			Title:        rc.Title,
			Date:         rc.Date.Format("2006-01-02"),
			Customer:     rc.CustomerName,
			Total:        total.Format(rc.Currency),
			PaymentLabel: rc.PaymentMethod.Label(),
		})
	}
	data.GrandTotal = grand.Format(s.defaultCurrency(ctx))

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		logger.ErrorContext(ctx, "Index template execution failed", applog.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type itemFormRow struct {
	Description string
	Quantity    string
	Price       string
}

type receiptFormData struct {
	Action        string
	Heading       string
	Title         string
	Date          string
	CustomerName  string
	CustomerEmail string
	TaxRate       string
	Currency      string
	Notes         string
	Payment       string
	Reference     string
	BankName      string
	Items         []itemFormRow
}

// handleNewReceiptForm renders the creation form, pre-filled with the
// default currency and tax rate from settings.
func (s *Server) handleNewReceiptForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Load settings failed", applog.FieldError, err)
		settings = core.DefaultSettings()
	}

	data := receiptFormData{
		Action:   "/receipts",
		Heading:  "New Receipt",
		Date:     time.Now().Format("2006-01-02"),
		Currency: settings.DefaultCurrency,
		TaxRate:  strconv.FormatFloat(settings.DefaultTaxRate, 'f', -1, 64),
		Payment:  string(core.PaymentCash),
		Items:    []itemFormRow{{Quantity: "1"}},
	}
	s.renderForm(w, r, data)
}

// handleEditReceiptForm renders the edit form for an existing receipt.
func (s *Server) handleEditReceiptForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc, err := s.store.GetReceipt(ctx, r.PathValue("id"))
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}

	data := receiptFormData{
		Action:        "/receipts/" + rc.ID,
		Heading:       "Edit Receipt",
		Title:         rc.Title,
		Date:          rc.Date.Format("2006-01-02"),
		CustomerName:  rc.CustomerName,
		CustomerEmail: rc.CustomerEmail,
		TaxRate:       strconv.FormatFloat(rc.TaxRate, 'f', -1, 64),
		Currency:      rc.Currency,
		Notes:         rc.Notes,
		Payment:       string(rc.PaymentMethod),
		Reference:     rc.ReferenceNumber,
		BankName:      rc.BankName,
	}
	for _, it := range rc.Items {
		data.Items = append(data.Items, itemFormRow{
			Description: it.Description,
			Quantity:    strconv.FormatFloat(it.Quantity, 'f', -1, 64),
			Price:       it.Price.Decimal(),
		})
	}
	s.renderForm(w, r, data)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, data receiptFormData) {
	ctx := r.Context()
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "receipt_form.html", data); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Form template execution failed", applog.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleCreateReceipt validates the submitted form and appends a new receipt.
func (s *Server) handleCreateReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	draft, err := ParseReceiptForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	created, err := s.receipts.Create(ctx, draft)
	if err != nil {
		s.writeValidationError(w, r, err)
		return
	}

	s.analyticsCache.Purge()
	NewHTMXResponse().
		TriggerReceiptCreated(created.ID).
		TriggerSuccessNotification("Receipt saved").
		Header("HX-Redirect", "/receipts/"+created.ID).
		BodyHTML(`<div class="success">Receipt saved</div>`).
		Write(w)
}

// handleUpdateReceipt replaces an existing receipt with the submitted form.
func (s *Server) handleUpdateReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	draft, err := ParseReceiptForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	id := r.PathValue("id")
	updated, err := s.receipts.Update(ctx, id, draft)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Receipt not found").Write(w)
			return
		}
		s.writeValidationError(w, r, err)
		return
	}

	s.analyticsCache.Purge()
	NewHTMXResponse().
		TriggerReceiptUpdated(updated.ID).
		TriggerSuccessNotification("Receipt updated").
		Header("HX-Redirect", "/receipts/"+updated.ID).
		BodyHTML(`<div class="success">Receipt updated</div>`).
		Write(w)
}

// handleDeleteReceipt removes a receipt permanently.
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := s.receipts.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Receipt not found").Write(w)
			return
		}
		applog.FromContext(ctx).ErrorContext(ctx, "Delete receipt failed", applog.FieldError, err, applog.FieldReceiptID, id)
		InternalServerError("Could not delete receipt").Write(w)
		return
	}

	s.analyticsCache.Purge()
	NewHTMXResponse().
		TriggerReceiptDeleted(id).
		TriggerSuccessNotification("Receipt deleted").
		Header("HX-Redirect", "/").
		BodyHTML(`<div class="success">Receipt deleted</div>`).
		Write(w)
}

// handleClearAll wipes the whole collection. Settings survive.
func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.receipts.ClearAll(ctx); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Clear receipts failed", applog.FieldError, err)
		InternalServerError("Could not clear receipts").Write(w)
		return
	}

	s.analyticsCache.Purge()
	NewHTMXResponse().
		TriggerSuccessNotification("All receipts cleared").
		Header("HX-Redirect", "/").
		BodyHTML(`<div class="success">All receipts cleared</div>`).
		Write(w)
}

type detailItemRow struct {
	Description string
	Quantity    string
	Price       string
	Total       string
}

type detailData struct {
	ID            string
	Title         string
	Date          string
	CustomerName  string
	CustomerEmail string
	PaymentLabel  string
	IsBank        bool
	BankName      string
	Reference     string
	Notes         string
	Items         []detailItemRow
	Subtotal      string
	TaxRate       string
	Tax           string
	Total         string
}

// handleReceiptDetail renders a single receipt with computed totals.
func (s *Server) handleReceiptDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc, err := s.store.GetReceipt(ctx, r.PathValue("id"))
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	tt := rc.ComputeTotals()
	data := detailData{
		ID:            rc.ID,
		Title:         rc.Title,
		Date:          rc.Date.Format("2006-01-02"),
		CustomerName:  rc.CustomerName,
		CustomerEmail: rc.CustomerEmail,
		PaymentLabel:  rc.PaymentMethod.Label(),
		IsBank:        rc.PaymentMethod == core.PaymentBank,
		BankName:      rc.BankName,
		Reference:     rc.ReferenceNumber,
		Notes:         rc.Notes,
		Subtotal:      tt.Subtotal.Format(rc.Currency),
		TaxRate:       strconv.FormatFloat(rc.TaxRate, 'f', -1, 64),
		Tax:           tt.Tax.Format(rc.Currency),
		Total:         tt.Total.Format(rc.Currency),
	}
	for _, it := range rc.Items {
		data.Items = append(data.Items, detailItemRow{
			Description: it.Description,
			Quantity:    strconv.FormatFloat(it.Quantity, 'f', -1, 64),
			Price:       it.Price.Format(rc.Currency),
			Total:       core.LineTotal(it).Format(rc.Currency),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "receipt_detail.html", data); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Detail template execution failed", applog.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleReceiptDoc serves the standalone printable document.
func (s *Server) handleReceiptDoc(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	if s.renderer == nil {
		http.Error(w, "renderer not available", http.StatusInternalServerError)
		return
	}

	rc, err := s.store.GetReceipt(ctx, r.PathValue("id"))
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}

	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Load settings failed", applog.FieldError, err)
		settings = core.DefaultSettings()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, rc, settings); err != nil {
		logger.ErrorContext(ctx, "Receipt document render failed", applog.FieldError, err, applog.FieldReceiptID, rc.ID)
	}
}

func (s *Server) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	if errors.Is(err, store.ErrNotFound) {
		NotFoundError("Receipt not found").Write(w)
		return
	}
	applog.FromContext(ctx).ErrorContext(ctx, "Receipt lookup failed", applog.FieldError, err)
	InternalServerError("Could not load receipt").Write(w)
}

func (s *Server) writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrNoItems),
		errors.Is(err, core.ErrEmptyItemDescription),
		errors.Is(err, core.ErrInvalidQuantity),
		errors.Is(err, core.ErrNegativePrice),
		errors.Is(err, core.ErrInvalidPayment):
		UnprocessableEntityError(err.Error()).Write(w)
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Receipt save failed", applog.FieldError, err)
		InternalServerError("Could not save receipt").Write(w)
	}
}

func (s *Server) defaultCurrency(ctx context.Context) string {
	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return core.DefaultSettings().DefaultCurrency
	}
	return settings.DefaultCurrency
}
