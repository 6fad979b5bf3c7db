// Package export builds the bulk .xlsx workbook for the whole collection.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"ricevute/internal/core"
)

// ContentType is the MIME type served with the workbook download.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	sheetReceipts = "Receipts"
	sheetItems    = "Items"
	sheetMonthly  = "Monthly Summary"
	sheetPayments = "Payment Methods"
)

// Filename derives the download name from the export moment.
func Filename(now time.Time) string {
	return fmt.Sprintf("receipts_export_%s_%s.xlsx",
		now.Format("2006-01-02"), now.Format("15-04-05"))
}

// BuildWorkbook assembles the four-sheet workbook. Monetary cells are written
// as decimal numbers so spreadsheet formulas work on them.
func BuildWorkbook(receipts []core.Receipt) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeReceiptsSheet(f, receipts); err != nil {
		return nil, err
	}
	if err := writeItemsSheet(f, receipts); err != nil {
		return nil, err
	}
	if err := writeMonthlySheet(f, receipts); err != nil {
		return nil, err
	}
	if err := writePaymentsSheet(f, receipts); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(sheetReceipts)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	return f, nil
}

func writeReceiptsSheet(f *excelize.File, receipts []core.Receipt) error {
	header := []any{"ID", "Title", "Date", "Customer", "Email", "Payment Method",
		"Subtotal", "Tax Rate (%)", "Tax", "Total", "Currency", "Notes"}
	rows := make([][]any, 0, len(receipts))
	for _, r := range receipts {
		tt := r.ComputeTotals()
		rows = append(rows, []any{
			r.ID, r.Title, r.Date.Format("2006-01-02"),
			r.CustomerName, r.CustomerEmail, r.PaymentMethod.Label(),
			tt.Subtotal.Float(), r.TaxRate, tt.Tax.Float(), tt.Total.Float(),
			r.Currency, r.Notes,
		})
	}
	return writeSheet(f, sheetReceipts, header, rows)
}

func writeItemsSheet(f *excelize.File, receipts []core.Receipt) error {
	header := []any{"Receipt ID", "Receipt Title", "Description", "Quantity", "Unit Price", "Line Total"}
	var rows [][]any
	for _, r := range receipts {
		for _, it := range r.Items {
			rows = append(rows, []any{
				r.ID, r.Title, it.Description, it.Quantity,
				it.Price.Float(), core.LineTotal(it).Float(),
			})
		}
	}
	return writeSheet(f, sheetItems, header, rows)
}

func writeMonthlySheet(f *excelize.File, receipts []core.Receipt) error {
	header := []any{"Month", "Total", "Cash", "Bank Transfer"}
	months := core.MonthlyBreakdown(receipts)
	rows := make([][]any, 0, len(months))
	for _, m := range months {
		rows = append(rows, []any{m.Label(), m.Total.Float(), m.Cash.Float(), m.Bank.Float()})
	}
	return writeSheet(f, sheetMonthly, header, rows)
}

func writePaymentsSheet(f *excelize.File, receipts []core.Receipt) error {
	header := []any{"Method", "Total", "Share (%)"}
	ps := core.SummarizePayments(receipts)
	rows := [][]any{
		{core.PaymentCash.Label(), ps.Cash.Float(), ps.CashPercent()},
		{core.PaymentBank.Label(), ps.Bank.Float(), ps.BankPercent()},
		{"Grand Total", ps.Total.Float(), 100.0},
	}
	return writeSheet(f, sheetPayments, header, rows)
}

func writeSheet(f *excelize.File, name string, header []any, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	if err := setRow(f, name, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, name, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}
