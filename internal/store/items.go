package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/graaaaa/machineid-reset/internal/appinfo"
)

const (
	upsertItemSQL = "INSERT OR REPLACE INTO " + appinfo.ItemTableName + " (key, value) VALUES (?, ?)"
	getItemSQL    = "SELECT value FROM " + appinfo.ItemTableName + " WHERE key = ?"
	countItemsSQL = "SELECT COUNT(*) FROM " + appinfo.ItemTableName
)

// UpdateIDs upserts every item into ItemTable in a single transaction.
// Rows for other keys are untouched.
func (s *Store) UpdateIDs(ctx context.Context, items map[string]string) (err error) {
	if len(items) == 0 {
		return ErrNoItems
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertItemSQL)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	// Sorted for a deterministic write order
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := stmt.ExecContext(ctx, k, items[k]); err != nil {
			return fmt.Errorf("upsert %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// UpdateIDsAt opens the database at path, applies UpdateIDs and closes it
// on every exit path.
func UpdateIDsAt(ctx context.Context, path string, items map[string]string) (err error) {
	s, err := Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close database: %w", cerr)
		}
	}()

	return s.UpdateIDs(ctx, items)
}

// Get returns the value stored for key. ok is false when no row exists.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	var v sql.NullString
	err = s.db.QueryRowContext(ctx, getItemSQL, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v.String, true, nil
}

// Count returns the number of rows in ItemTable.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countItemsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}
