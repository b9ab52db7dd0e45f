package storage

import (
	"database/sql"
	"fmt"

	"unimoddb/internal/logging"
)

// CreateSchema creates the modification tables and their indexes.
// Callers must only invoke this against an uninitialized store.
func (db *DB) CreateSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if err := createModsTable(tx); err != nil {
			return err
		}
		if err := createModSitesTable(tx); err != nil {
			return err
		}

		db.logger.Debug("Store schema created", logging.Fields{
			"location": db.location,
		})

		return nil
	})
}

// createModsTable creates the mods table holding one row per modification
func createModsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE mods (
			mod_id INTEGER PRIMARY KEY,
			name TEXT,
			full_name TEXT,
			mono_mass REAL,
			avg_mass REAL,
			composition TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create mods table: %w", err)
	}

	// name and full_name are indexed for lookup but deliberately not
	// unique; collisions resolve to the first row in storage order
	indexes := []string{
		"CREATE INDEX idx_mods_name ON mods(name)",
		"CREATE INDEX idx_mods_full_name ON mods(full_name)",
	}

	for _, indexSQL := range indexes {
		if _, err := tx.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// createModSitesTable creates the mod_sites table mapping modifications to
// the residues they apply to, with a classification per site
func createModSitesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE mod_sites (
			mod_id INTEGER,
			site TEXT,
			classification TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create mod_sites table: %w", err)
	}

	if _, err := tx.Exec("CREATE INDEX idx_mod_sites_mod_id ON mod_sites(mod_id)"); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}
