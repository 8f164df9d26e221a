package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// kvEntry is one row of the key-value table.
type kvEntry struct {
	bun.BaseModel `bun:"table:kv_entries"`

	Name  string `bun:"name,pk"`
	Value string `bun:"value,notnull"`
}

// SQLiteStore keeps values in a SQLite database.
type SQLiteStore struct {
	db *bun.DB
}

// OpenSQLite opens (or creates) the database at dsn and ensures the
// key-value table exists.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, errors.New("sqlite store: empty dsn")
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: opening %s: %w", dsn, err)
	}
	// A single writer keeps SQLite from returning SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if _, err := db.NewCreateTable().Model((*kvEntry)(nil)).IfNotExists().Exec(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: creating table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e kvEntry
	err := s.db.NewSelect().Model(&e).Where("name = ?", key).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite store: reading %q: %w", key, err)
	}
	return []byte(e.Value), true, nil
}

// Set implements Store.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	e := &kvEntry{Name: key, Value: string(value)}
	_, err := s.db.NewInsert().
		Model(e).
		On("CONFLICT (name) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("sqlite store: writing %q: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().Model((*kvEntry)(nil)).Where("name = ?", key).Exec(ctx)
	if err != nil {
		return fmt.Errorf("sqlite store: deleting %q: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
