package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quantum-quiz/backend/internal/logger"
	"github.com/quantum-quiz/backend/internal/storage"
)

// stateStore implements storage.Store over the app_state table. Each
// component's whole state lives in one row keyed by its storage key.
type stateStore struct {
	db *sql.DB
}

// NewStateStore creates a SQLite-backed storage.Store.
func NewStateStore(db *sql.DB) storage.Store {
	return &stateStore{db: db}
}

func (s *stateStore) Load(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("state_store")

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no state for key=%s", key)
		return "", storage.ErrNotFound
	}
	if err != nil {
		log.Error("failed to load state for key=%s: %v", key, err)
		return "", err
	}
	return value, nil
}

func (s *stateStore) Save(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("state_store")
	log.Debug("saving state: key=%s, size=%d", key, len(value))

	_, err := s.db.ExecContext(ctx, `
INSERT INTO app_state (key, value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, key, value)
	if err != nil {
		log.Error("failed to save state for key=%s: %v", key, err)
	}
	return err
}
