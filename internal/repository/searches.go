package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lms-tracker/internal/constants"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// SearchRepository persists the bounded recent-search list: at most
// RecentSearchLimit terms, most-recent-first, deduplicated by exact
// string match.
type SearchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSearchRepository(db *sql.DB, logger zerolog.Logger) *SearchRepository {
	return &SearchRepository{db: db, logger: logger}
}

// Record moves term to the front of the list, inserting it if absent, and
// trims the list back to its bound.
func (r *SearchRepository) Record(ctx context.Context, term string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate search id: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recent_searches WHERE term = ?`, term); err != nil {
		return fmt.Errorf("failed to deduplicate search term: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO recent_searches (id, term, searched_at) VALUES (?, ?, ?)`,
		id, term, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("failed to record search term: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM recent_searches WHERE id NOT IN (
			SELECT id FROM recent_searches ORDER BY searched_at DESC, id LIMIT ?
		)`, constants.RecentSearchLimit,
	); err != nil {
		return fmt.Errorf("failed to trim recent searches: %w", err)
	}

	return tx.Commit()
}

// List returns the recent search terms, most recent first.
func (r *SearchRepository) List(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT term FROM recent_searches ORDER BY searched_at DESC, id LIMIT ?`,
		constants.RecentSearchLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent searches: %w", err)
	}
	defer rows.Close()

	terms := make([]string, 0, constants.RecentSearchLimit)
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("failed to scan search term: %w", err)
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

func (r *SearchRepository) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM recent_searches`); err != nil {
		return fmt.Errorf("failed to clear recent searches: %w", err)
	}
	return nil
}
