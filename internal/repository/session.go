package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"lms-tracker/internal/constants"

	"github.com/rs/zerolog"
)

// SessionRepository persists the last-used identity token. It also serves
// as the token source for outbound backend requests; an empty token means
// requests go out unauthenticated.
type SessionRepository struct {
	db     *sql.DB
	logger zerolog.Logger

	mu     sync.RWMutex
	token  string
	loaded bool
}

func NewSessionRepository(db *sql.DB, logger zerolog.Logger) *SessionRepository {
	return &SessionRepository{db: db, logger: logger}
}

// Token implements api.TokenSource.
func (r *SessionRepository) Token(ctx context.Context) string {
	r.mu.RLock()
	if r.loaded {
		token := r.token
		r.mu.RUnlock()
		return token
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return r.token
	}

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var token string
	err := r.db.QueryRowContext(dbCtx, `SELECT token FROM session WHERE id = 1`).Scan(&token)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		r.logger.Warn().Err(err).Msg("failed to load persisted session token")
		return ""
	}

	r.token = token
	r.loaded = true
	return token
}

func (r *SessionRepository) Save(ctx context.Context, username, token string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (id, username, token, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET username = excluded.username, token = excluded.token, updated_at = excluded.updated_at`,
		username, token, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	r.mu.Lock()
	r.token = token
	r.loaded = true
	r.mu.Unlock()
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	r.mu.Lock()
	r.token = ""
	r.loaded = true
	r.mu.Unlock()
	return nil
}
