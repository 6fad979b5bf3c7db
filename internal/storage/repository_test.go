package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ricevute/internal/core"
	"ricevute/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "receipts.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSaveAndLoadReceipts(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	all, err := repo.LoadReceipts(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("fresh store should be empty, got %d", len(all))
	}

	r := core.Receipt{
		ID:            "r-1",
		Title:         "Consulting",
		Date:          core.NewDate(2024, 1, 15),
		Items:         []core.ReceiptItem{{ID: "i-1", Description: "Hours", Quantity: 2, Price: core.Money{Cents: 500}}},
		TaxRate:       10,
		Currency:      "USD",
		PaymentMethod: core.PaymentCash,
	}
	if err := repo.SaveReceipt(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}

	all, err = repo.LoadReceipts(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("load after save: %v, count=%d", err, len(all))
	}
	got := all[0]
	if got.ID != "r-1" || got.Items[0].Price.Cents != 500 || got.Date.Month() != 1 {
		t.Fatalf("round-tripped receipt mismatch: %+v", got)
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	r := core.Receipt{ID: "r-1", Title: "Before", Date: core.NewDate(2024, 3, 1)}
	r.CreatedAt = r.Date.Time
	if err := repo.SaveReceipt(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetReceipt(ctx, "r-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Title = "After"
	if err := repo.UpdateReceipt(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	again, err := repo.GetReceipt(ctx, "r-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if again.Title != "After" {
		t.Fatalf("title = %q", again.Title)
	}
	if again.ID != r.ID || !again.CreatedAt.Equal(r.CreatedAt) {
		t.Fatalf("identity changed: %+v", again)
	}
}

func TestDeleteAndNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_ = repo.SaveReceipt(ctx, core.Receipt{ID: "a"})
	_ = repo.SaveReceipt(ctx, core.Receipt{ID: "b"})

	if err := repo.DeleteReceipt(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetReceipt(ctx, "a"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	all, _ := repo.LoadReceipts(ctx)
	if len(all) != 1 || all[0].ID != "b" {
		t.Fatalf("collection after delete: %+v", all)
	}

	if err := repo.DeleteReceipt(ctx, "a"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("double delete: %v", err)
	}
	if err := repo.UpdateReceipt(ctx, core.Receipt{ID: "zzz"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
}

func TestClearAllReceipts(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_ = repo.SaveReceipt(ctx, core.Receipt{ID: "a"})
	if err := repo.ClearAllReceipts(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	all, _ := repo.LoadReceipts(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty after clear, got %d", len(all))
	}
	// Clearing an already-empty store is fine.
	if err := repo.ClearAllReceipts(ctx); err != nil {
		t.Fatalf("clear empty: %v", err)
	}
}

func TestSettingsSingleton(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	s, err := repo.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.DefaultCurrency != "USD" || !s.ShowLogo {
		t.Fatalf("expected lazy defaults, got %+v", s)
	}

	s.BusinessName = "Acme Ltd"
	s.DefaultTaxRate = 16
	if err := repo.SaveSettings(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.BusinessName != "Acme Ltd" || got.DefaultTaxRate != 16 {
		t.Fatalf("settings not persisted: %+v", got)
	}
}
