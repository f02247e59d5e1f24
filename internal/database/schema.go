package database

import "database/sql"

type migration struct {
	version int
	up      []string
}

var migrations = []migration{
	{
		version: 1,
		up: []string{
			`CREATE TABLE variants (
				cache_key TEXT PRIMARY KEY,

				-- Derived from the descriptor at first sight
				description TEXT NOT NULL,
				score REAL NOT NULL,
				estimated_size INTEGER NOT NULL,

				-- Non-session attributes as a JSON object
				descriptor TEXT NOT NULL,

				hit_count INTEGER NOT NULL DEFAULT 1,
				first_seen INTEGER NOT NULL,
				last_seen INTEGER NOT NULL
			)`,

			`CREATE INDEX idx_variants_score ON variants(score DESC)`,
			`CREATE INDEX idx_variants_last_seen ON variants(last_seen)`,

			`CREATE TABLE schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,

			`INSERT INTO schema_version (version) VALUES (1)`,
		},
	},
}

func applyMigrations(db *sql.DB) error {
	var currentVersion int
	err := db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&currentVersion)
	if err != nil {
		// schema_version doesn't exist yet - this is a fresh database
		currentVersion = 0
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}

		// Each migration inserts its own schema_version row
		for _, stmt := range m.up {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return err
			}
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
