package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// SessionRepo stores web session values keyed by the sid cookie.
type SessionRepo struct{ db *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{db: db} }

func (r *SessionRepo) Get(sid, key string) (string, bool, error) {
	var v string
	err := r.db.Get(&v, `SELECT value FROM session_values WHERE sid = ? AND key = ?`, sid, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *SessionRepo) Set(sid, key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO session_values(sid, key, value, updated_at)
		VALUES(?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(sid, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, sid, key, value)
	return err
}

func (r *SessionRepo) Delete(sid, key string) error {
	_, err := r.db.Exec(`DELETE FROM session_values WHERE sid = ? AND key = ?`, sid, key)
	return err
}
