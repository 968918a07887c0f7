package feedback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store manages feedback persistence with a PostgreSQL backend.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New creates a new Store instance.
//
// Parameters:
//   - pool: PostgreSQL connection pool (required)
//   - logger: logger for debugging (nil = use default)
func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}
}

// Add validates and persists a feedback entry.
// On success the entry's ID and CreatedAt are filled from the database.
func (s *Store) Add(ctx context.Context, e *Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	var platform *string
	if e.Platform != "" {
		platform = &e.Platform
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO feedback (rating, comment, platform)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		e.Rating, e.Comment, platform,
	)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	s.logger.Debug("stored feedback", "id", e.ID, "rating", e.Rating)
	return nil
}

// List returns the most recent feedback entries, newest first.
// limit caps the result size; values <= 0 fall back to 100.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, rating, comment, COALESCE(platform, ''), created_at
		 FROM feedback
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Rating, &e.Comment, &e.Platform, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback rows: %w", err)
	}

	return entries, nil
}
