package export

import (
	"testing"
	"time"

	"ricevute/internal/core"
)

func exportFixture() []core.Receipt {
	return []core.Receipt{
		{
			ID:            "aaa-1",
			Title:         "Consulting",
			Date:          core.NewDate(2024, 1, 10),
			CustomerName:  "Jane",
			PaymentMethod: core.PaymentCash,
			TaxRate:       10,
			Currency:      "USD",
			Items: []core.ReceiptItem{
				{ID: "i1", Description: "Advice", Quantity: 2, Price: core.Money{Cents: 500}},
			},
		},
		{
			ID:            "bbb-2",
			Title:         "Workshop",
			Date:          core.NewDate(2024, 2, 3),
			PaymentMethod: core.PaymentBank,
			Currency:      "USD",
			Items: []core.ReceiptItem{
				{ID: "i2", Description: "Seat", Quantity: 1, Price: core.Money{Cents: 3000}},
			},
		},
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 5, 7, 0, time.UTC)
	got := Filename(now)
	want := "receipts_export_2024-03-15_09-05-07.xlsx"
	if got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
}

func TestBuildWorkbookSheets(t *testing.T) {
	f, err := BuildWorkbook(exportFixture())
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	got := f.GetSheetList()
	want := map[string]bool{
		"Receipts": true, "Items": true, "Monthly Summary": true, "Payment Methods": true,
	}
	if len(got) != len(want) {
		t.Fatalf("sheets = %v", got)
	}
	for _, name := range got {
		if !want[name] {
			t.Fatalf("unexpected sheet %q in %v", name, got)
		}
	}
}

func TestBuildWorkbookReceiptRows(t *testing.T) {
	f, err := BuildWorkbook(exportFixture())
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue("Receipts", "B2")
	if err != nil || title != "Consulting" {
		t.Fatalf("B2 = %q, %v", title, err)
	}
	// 2 x $5.00 at 10% tax.
	total, err := f.GetCellValue("Receipts", "J2")
	if err != nil || total != "11" {
		t.Fatalf("J2 = %q, %v", total, err)
	}
	method, err := f.GetCellValue("Receipts", "F3")
	if err != nil || method != "Bank Transfer" {
		t.Fatalf("F3 = %q, %v", method, err)
	}
}

func TestBuildWorkbookMonthlyNewestFirst(t *testing.T) {
	f, err := BuildWorkbook(exportFixture())
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	first, err := f.GetCellValue("Monthly Summary", "A2")
	if err != nil || first != "February 2024" {
		t.Fatalf("A2 = %q, %v", first, err)
	}
	second, err := f.GetCellValue("Monthly Summary", "A3")
	if err != nil || second != "January 2024" {
		t.Fatalf("A3 = %q, %v", second, err)
	}
}

func TestBuildWorkbookEmptyCollection(t *testing.T) {
	f, err := BuildWorkbook(nil)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	head, err := f.GetCellValue("Receipts", "A1")
	if err != nil || head != "ID" {
		t.Fatalf("A1 = %q, %v", head, err)
	}
}
