// Package render builds the printable receipt document. Rendering is
// deterministic: the output depends only on the receipt and the settings,
// never on the wall clock.
package render

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"ricevute/internal/core"
	appweb "ricevute/web"
)

// DefaultNotes is printed when a receipt carries no notes.
const DefaultNotes = "Services Rendered"

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/receipt_doc.html")
	if err != nil {
		return nil, fmt.Errorf("parse receipt document template: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

type businessData struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

type itemRow struct {
	Description string
	Quantity    string
	Price       string
	Total       string
}

type docData struct {
	Number        string
	Date          string
	Business      *businessData
	CustomerName  string
	CustomerEmail string
	PaymentLabel  string
	IsBank        bool
	BankName      string
	Reference     string
	Notes         string
	Items         []itemRow
	Subtotal      string
	TaxLabel      string
	Tax           string
	Total         string
	Signature     template.URL
}

// Render writes the complete HTML document for one receipt.
func (rd *Renderer) Render(w io.Writer, r core.Receipt, s core.Settings) error {
	if err := rd.tmpl.ExecuteTemplate(w, "receipt_doc.html", buildDocData(r, s)); err != nil {
		return fmt.Errorf("render receipt %s: %w", r.ID, err)
	}
	return nil
}

// RenderHTML is Render into a string, for handlers that need the size first.
func (rd *Renderer) RenderHTML(r core.Receipt, s core.Settings) (string, error) {
	var sb strings.Builder
	if err := rd.Render(&sb, r, s); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func buildDocData(r core.Receipt, s core.Settings) docData {
	tt := r.ComputeTotals()

	data := docData{
		Number:       receiptNumber(r.ID),
		Date:         r.Date.Format("2006-01-02"),
		CustomerName: orNA(r.CustomerName),
		PaymentLabel: r.PaymentMethod.Label(),
		IsBank:       r.PaymentMethod == core.PaymentBank,
		Notes:        r.Notes,
		Subtotal:     tt.Subtotal.Format(r.Currency),
		TaxLabel:     "Tax (" + formatRate(r.TaxRate) + "%)",
		Tax:          tt.Tax.Format(r.Currency),
		Total:        tt.Total.Format(r.Currency),
	}
	data.CustomerEmail = r.CustomerEmail
	if data.Notes == "" {
		data.Notes = DefaultNotes
	}
	if data.IsBank {
		data.BankName = orNA(r.BankName)
		data.Reference = orNA(r.ReferenceNumber)
	}

	if s.BusinessName != "" {
		data.Business = &businessData{
			Name:    s.BusinessName,
			Address: s.BusinessAddress,
			Phone:   s.BusinessPhone,
			Email:   s.BusinessEmail,
		}
	}
	// Signature arrives as a data URI captured elsewhere; html/template would
	// strip it as an unsafe URL, so it is marked trusted here after a scheme
	// check.
	if strings.HasPrefix(s.Signature, "data:image/") {
		data.Signature = template.URL(s.Signature)
	}

	for _, it := range r.Items {
		data.Items = append(data.Items, itemRow{
			Description: it.Description,
			Quantity:    strconv.FormatFloat(it.Quantity, 'f', -1, 64),
			Price:       it.Price.Format(r.Currency),
			Total:       core.LineTotal(it).Format(r.Currency),
		})
	}
	return data
}

// receiptNumber derives the short printed number from the first three
// characters of the id, zero-padded for very short ids.
func receiptNumber(id string) string {
	n := id
	if len(n) > 3 {
		n = n[:3]
	}
	for len(n) < 3 {
		n = "0" + n
	}
	return n
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
