// Package storage is the SQLite-backed store. The two collections are kept
// as JSON documents under fixed keys in a single record table, so every
// mutation is a whole-collection read-modify-write. A mutex serializes
// writers; last write wins on the whole record.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"ricevute/internal/core"
	"ricevute/internal/store"

	_ "modernc.org/sqlite"
)

const (
	receiptsKey = "receipts"
	settingsKey = "settings"
)

type SQLiteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) getValue(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read record %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (r *SQLiteRepository) putValue(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("write record %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) deleteValue(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete record %q: %w", key, err)
	}
	return nil
}

// loadReceiptsLocked reads the receipt collection. Read failures degrade to
// an empty collection with an error log; callers cannot tell "no data" from
// a broken read, which matches the contract.
func (r *SQLiteRepository) loadReceiptsLocked(ctx context.Context) []core.Receipt {
	raw, ok, err := r.getValue(ctx, receiptsKey)
	if err != nil {
		slog.ErrorContext(ctx, "Failed reading receipt collection, treating as empty", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var receipts []core.Receipt
	if err := json.Unmarshal(raw, &receipts); err != nil {
		slog.ErrorContext(ctx, "Corrupt receipt collection, treating as empty", "error", err)
		return nil
	}
	return receipts
}

func (r *SQLiteRepository) persistReceiptsLocked(ctx context.Context, receipts []core.Receipt) error {
	raw, err := json.Marshal(receipts)
	if err != nil {
		return fmt.Errorf("encode receipt collection: %w", err)
	}
	return r.putValue(ctx, receiptsKey, raw)
}

func (r *SQLiteRepository) SaveReceipt(ctx context.Context, rec core.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	receipts := r.loadReceiptsLocked(ctx)
	receipts = append(receipts, rec)
	if err := r.persistReceiptsLocked(ctx, receipts); err != nil {
		return fmt.Errorf("save receipt: %w", err)
	}

	slog.InfoContext(ctx, "Receipt saved", "id", rec.ID, "title", rec.Title, "count", len(receipts))
	return nil
}

func (r *SQLiteRepository) LoadReceipts(ctx context.Context) ([]core.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadReceiptsLocked(ctx), nil
}

func (r *SQLiteRepository) GetReceipt(ctx context.Context, id string) (core.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.loadReceiptsLocked(ctx) {
		if rec.ID == id {
			return rec, nil
		}
	}
	return core.Receipt{}, store.ErrNotFound
}

func (r *SQLiteRepository) UpdateReceipt(ctx context.Context, updated core.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	receipts := r.loadReceiptsLocked(ctx)
	for i, rec := range receipts {
		if rec.ID == updated.ID {
			receipts[i] = updated
			if err := r.persistReceiptsLocked(ctx, receipts); err != nil {
				return fmt.Errorf("update receipt: %w", err)
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *SQLiteRepository) DeleteReceipt(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	receipts := r.loadReceiptsLocked(ctx)
	for i, rec := range receipts {
		if rec.ID == id {
			receipts = append(receipts[:i], receipts[i+1:]...)
			if err := r.persistReceiptsLocked(ctx, receipts); err != nil {
				return fmt.Errorf("delete receipt: %w", err)
			}
			slog.InfoContext(ctx, "Receipt deleted", "id", id, "remaining", len(receipts))
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *SQLiteRepository) ClearAllReceipts(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.deleteValue(ctx, receiptsKey); err != nil {
		return fmt.Errorf("clear receipts: %w", err)
	}
	slog.InfoContext(ctx, "All receipts cleared")
	return nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := r.putValue(ctx, settingsKey, raw); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// LoadSettings returns the stored record, writing the defaults on first
// read so that at most one settings record ever exists.
func (r *SQLiteRepository) LoadSettings(ctx context.Context) (core.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok, err := r.getValue(ctx, settingsKey)
	if err != nil {
		slog.ErrorContext(ctx, "Failed reading settings, using defaults", "error", err)
		return core.DefaultSettings(), nil
	}
	if ok {
		var s core.Settings
		if err := json.Unmarshal(raw, &s); err != nil {
			slog.ErrorContext(ctx, "Corrupt settings record, using defaults", "error", err)
			return core.DefaultSettings(), nil
		}
		return s, nil
	}

	def := core.DefaultSettings()
	raw, err = json.Marshal(def)
	if err != nil {
		return def, nil
	}
	if err := r.putValue(ctx, settingsKey, raw); err != nil {
		slog.WarnContext(ctx, "Could not persist default settings", "error", err)
	}
	return def, nil
}
