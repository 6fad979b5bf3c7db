package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ricevute/internal/core"
	"ricevute/internal/store"
	"ricevute/internal/store/memory"
)

func draft() core.Receipt {
	return core.Receipt{
		Title:         "Workshop",
		Date:          core.NewDate(2024, 5, 2),
		Items:         []core.ReceiptItem{{Description: "Seat", Quantity: 1, Price: core.Money{Cents: 2500}}},
		TaxRate:       10,
		Currency:      "USD",
		PaymentMethod: core.PaymentBank,
		BankName:      "First Bank",
	}
}

func TestCreateAssignsIdentity(t *testing.T) {
	ctx := context.Background()
	svc := NewReceiptService(memory.New())
	fixed := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	created, err := svc.Create(ctx, draft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("missing id")
	}
	if !created.CreatedAt.Equal(fixed) {
		t.Fatalf("createdAt = %v", created.CreatedAt)
	}
	if created.Items[0].ID == "" {
		t.Fatalf("missing item id")
	}
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	ctx := context.Background()
	svc := NewReceiptService(memory.New())

	bad := draft()
	bad.Items = nil
	if _, err := svc.Create(ctx, bad); !errors.Is(err, core.ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
}

func TestUpdatePreservesIDAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := NewReceiptService(mem)

	created, err := svc.Create(ctx, draft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edited := draft()
	edited.ID = "attacker-chosen"
	edited.CreatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	edited.Title = "Workshop (amended)"

	updated, err := svc.Update(ctx, created.ID, edited)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("id changed: %q", updated.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("createdAt changed: %v", updated.CreatedAt)
	}

	got, err := mem.GetReceipt(ctx, created.ID)
	if err != nil || got.Title != "Workshop (amended)" {
		t.Fatalf("stored record: %+v, %v", got, err)
	}
}

func TestUpdateMissingReceipt(t *testing.T) {
	ctx := context.Background()
	svc := NewReceiptService(memory.New())
	if _, err := svc.Update(ctx, "missing", draft()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteThenGone(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := NewReceiptService(mem)

	created, _ := svc.Create(ctx, draft())
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := mem.GetReceipt(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}
