// Package store defines the ports for receipt and settings persistence.
// Implementations live in store/memory and storage (SQLite).
package store

import (
	"context"
	"errors"

	"ricevute/internal/core"
)

// ErrNotFound is the explicit absence outcome: a lookup for an id that is
// not in the collection. It is distinct from a storage failure.
var ErrNotFound = errors.New("receipt not found")

type (
	// ReceiptStore persists the receipt collection. Every mutation is a
	// whole-collection read-modify-write; implementations must allow at
	// most one writer at a time.
	ReceiptStore interface {
		// SaveReceipt appends the receipt to the collection.
		SaveReceipt(ctx context.Context, r core.Receipt) error

		// LoadReceipts returns the full collection. A missing collection and
		// a failed read both yield an empty slice; the failure is logged,
		// not surfaced.
		LoadReceipts(ctx context.Context) ([]core.Receipt, error)

		// GetReceipt returns the receipt with the given id or ErrNotFound.
		GetReceipt(ctx context.Context, id string) (core.Receipt, error)

		// UpdateReceipt replaces the receipt with the matching id, or
		// returns ErrNotFound when no receipt matches.
		UpdateReceipt(ctx context.Context, r core.Receipt) error

		// DeleteReceipt removes the receipt with the given id, or returns
		// ErrNotFound when no receipt matches.
		DeleteReceipt(ctx context.Context, id string) error

		// ClearAllReceipts removes the entire collection.
		ClearAllReceipts(ctx context.Context) error
	}

	// SettingsStore persists the singleton settings record.
	SettingsStore interface {
		SaveSettings(ctx context.Context, s core.Settings) error

		// LoadSettings returns the stored record, creating it with defaults
		// on first read.
		LoadSettings(ctx context.Context) (core.Settings, error)
	}

	// Store is the full persistence surface the application needs.
	Store interface {
		ReceiptStore
		SettingsStore
	}
)
