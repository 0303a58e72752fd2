package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Actions table - binds a gesture label to an input effect
		`CREATE TABLE IF NOT EXISTS actions (
			id TEXT PRIMARY KEY,
			gesture TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL CHECK(kind IN ('key', 'click', 'mouse_move', 'command')),
			key TEXT NOT NULL DEFAULT '',
			button TEXT NOT NULL DEFAULT '',
			dx INTEGER NOT NULL DEFAULT 0,
			dy INTEGER NOT NULL DEFAULT 0,
			command TEXT NOT NULL DEFAULT '',
			continuous INTEGER NOT NULL DEFAULT 0,
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Training runs table - records every model training for inspection
		`CREATE TABLE IF NOT EXISTS training_runs (
			id TEXT PRIMARY KEY,
			dataset_path TEXT NOT NULL,
			family TEXT NOT NULL,
			accuracy REAL NOT NULL,
			params TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_actions_gesture ON actions(gesture)`,
		`CREATE INDEX IF NOT EXISTS idx_training_runs_created_at ON training_runs(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
