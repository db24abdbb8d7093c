package store

import (
	"context"
	"errors"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS transcripts (
		id TEXT PRIMARY KEY,
		request_id TEXT,
		question TEXT NOT NULL,
		model TEXT NOT NULL,
		image_count INTEGER NOT NULL DEFAULT 0,
		fragment_count INTEGER NOT NULL DEFAULT 0,
		response TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_transcripts_created ON transcripts(created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_transcripts_request ON transcripts(request_id);`,
}

// Migrate ensures the required database tables exist.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store migration failed: %w", err)
		}
	}

	return nil
}
