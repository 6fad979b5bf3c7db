package memory

import (
	"context"
	"errors"
	"testing"

	"ricevute/internal/core"
	"ricevute/internal/store"
)

func TestReceiptRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := core.Receipt{ID: "abc", Title: "First"}
	if err := s.SaveReceipt(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetReceipt(ctx, "abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "First" {
		t.Fatalf("title = %q", got.Title)
	}

	got.Title = "Renamed"
	if err := s.UpdateReceipt(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, err := s.GetReceipt(ctx, "abc")
	if err != nil || again.Title != "Renamed" {
		t.Fatalf("after update: %+v, %v", again, err)
	}

	if err := s.DeleteReceipt(ctx, "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetReceipt(ctx, "abc"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	all, _ := s.LoadReceipts(ctx)
	if len(all) != 0 {
		t.Fatalf("deleted receipt still listed")
	}
}

func TestMissingIDs(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.UpdateReceipt(ctx, core.Receipt{ID: "nope"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update: %v", err)
	}
	if err := s.DeleteReceipt(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete: %v", err)
	}
}

func TestClearAllReceipts(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.SaveReceipt(ctx, core.Receipt{ID: "1"})
	_ = s.SaveReceipt(ctx, core.Receipt{ID: "2"})
	if err := s.ClearAllReceipts(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	all, _ := s.LoadReceipts(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty collection, got %d", len(all))
	}
}

func TestSettingsLazyDefaults(t *testing.T) {
	ctx := context.Background()
	s := New()

	set, err := s.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.DefaultCurrency != "USD" {
		t.Fatalf("expected default settings, got %+v", set)
	}

	set.BusinessName = "Acme"
	if err := s.SaveSettings(ctx, set); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ := s.LoadSettings(ctx)
	if got.BusinessName != "Acme" {
		t.Fatalf("settings not persisted: %+v", got)
	}
}
