package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Transcript is one completed analysis exchange.
type Transcript struct {
	ID            string
	RequestID     string
	Question      string
	Model         string
	ImageCount    int
	FragmentCount int
	Response      string
	CreatedAt     time.Time
}

// Record persists a transcript. A missing ID or timestamp is filled in.
func (s *Store) Record(ctx context.Context, t Transcript) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO transcripts (id, request_id, question, model, image_count, fragment_count, response, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.RequestID, t.Question, t.Model, t.ImageCount, t.FragmentCount, t.Response, t.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("store transcript: %w", err)
	}

	return nil
}

// Recent returns the most recent transcripts, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Transcript, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, request_id, question, model, image_count, fragment_count, response, created_at
		FROM transcripts
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch transcripts: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var transcripts []Transcript
	for rows.Next() {
		var (
			t         Transcript
			createdAt int64
		)
		if err := rows.Scan(&t.ID, &t.RequestID, &t.Question, &t.Model, &t.ImageCount, &t.FragmentCount, &t.Response, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		t.CreatedAt = time.Unix(createdAt, 0).UTC()
		transcripts = append(transcripts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}

	return transcripts, nil
}
