// Package services orchestrates the create/edit/delete flows on top of the
// store ports.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ricevute/internal/core"
	"ricevute/internal/store"
)

// ReceiptService owns receipt identity: it assigns ids and CreatedAt on
// create and guarantees both survive edits untouched.
type ReceiptService struct {
	store store.Store
	now   func() time.Time
}

func NewReceiptService(s store.Store) *ReceiptService {
	return &ReceiptService{store: s, now: time.Now}
}

// Create validates the draft, assigns a fresh id and CreatedAt plus item
// ids where missing, and appends it to the collection.
func (s *ReceiptService) Create(ctx context.Context, draft core.Receipt) (core.Receipt, error) {
	draft.ID = uuid.NewString()
	draft.CreatedAt = s.now().UTC()
	for i := range draft.Items {
		if draft.Items[i].ID == "" {
			draft.Items[i].ID = uuid.NewString()
		}
	}

	if err := draft.Validate(); err != nil {
		return core.Receipt{}, err
	}
	if err := s.store.SaveReceipt(ctx, draft); err != nil {
		return core.Receipt{}, fmt.Errorf("create receipt: %w", err)
	}

	slog.InfoContext(ctx, "Receipt created",
		"id", draft.ID,
		"title", draft.Title,
		"total_cents", draft.Total().Cents,
		"payment_method", string(draft.PaymentMethod))
	return draft, nil
}

// Update replaces the stored receipt's mutable fields. ID and CreatedAt are
// taken from the stored record, never from the submitted one.
func (s *ReceiptService) Update(ctx context.Context, id string, updated core.Receipt) (core.Receipt, error) {
	existing, err := s.store.GetReceipt(ctx, id)
	if err != nil {
		return core.Receipt{}, err
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	for i := range updated.Items {
		if updated.Items[i].ID == "" {
			updated.Items[i].ID = uuid.NewString()
		}
	}

	if err := updated.Validate(); err != nil {
		return core.Receipt{}, err
	}
	if err := s.store.UpdateReceipt(ctx, updated); err != nil {
		return core.Receipt{}, fmt.Errorf("update receipt: %w", err)
	}

	slog.InfoContext(ctx, "Receipt updated", "id", updated.ID, "title", updated.Title)
	return updated, nil
}

func (s *ReceiptService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteReceipt(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Receipt deleted", "id", id)
	return nil
}

// ClearAll removes every receipt. Settings are untouched.
func (s *ReceiptService) ClearAll(ctx context.Context) error {
	if err := s.store.ClearAllReceipts(ctx); err != nil {
		return fmt.Errorf("clear receipts: %w", err)
	}
	slog.InfoContext(ctx, "All receipts cleared")
	return nil
}
