package store

import (
	"context"
	"fmt"

	"github.com/graaaaa/machineid-reset/internal/appinfo"
)

// migrate creates the key/value table when the database is new.
// An existing table is used as is.
func (s *Store) migrate(ctx context.Context) error {
	return s.createItemTable(ctx)
}

func (s *Store) createItemTable(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS ` + appinfo.ItemTableName + ` (
		key   TEXT PRIMARY KEY,
		value TEXT
	);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create %s: %w", appinfo.ItemTableName, err)
	}
	return nil
}
