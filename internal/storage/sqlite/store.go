// Package sqlite implements the session and team stores over a SQLite
// database file with embedded migrations.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sandlotlabs/dugout/internal/game"
	"github.com/sandlotlabs/dugout/internal/platform/storage/sqlitemigrate"
	"github.com/sandlotlabs/dugout/internal/roster"
	"github.com/sandlotlabs/dugout/internal/storage"
	"github.com/sandlotlabs/dugout/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Store implements session and team persistence over SQLite.
type Store struct {
	sqlDB *sql.DB

	// keyMu guards keys; each session id gets one mutex so read-modify-
	// write cycles for the same session never interleave.
	keyMu sync.Mutex
	keys  map[string]*sync.Mutex
}

// Open opens a SQLite store at the provided path and applies bundled
// migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB, keys: make(map[string]*sync.Mutex)}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) keyLock(id string) *sync.Mutex {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()
	lock, ok := s.keys[id]
	if !ok {
		lock = &sync.Mutex{}
		s.keys[id] = lock
	}
	return lock
}

// Save inserts or replaces a session.
func (s *Store) Save(ctx context.Context, session game.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	visitorUserID := sql.NullString{}
	if session.VisitorPlayer != nil {
		visitorUserID = sql.NullString{String: session.VisitorPlayer.UserID, Valid: true}
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO sessions (id, join_code, status, home_user_id, visitor_user_id, payload, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    join_code = excluded.join_code,
    status = excluded.status,
    visitor_user_id = excluded.visitor_user_id,
    payload = excluded.payload,
    updated_at = excluded.updated_at
`, session.ID, session.JoinCode, string(session.Status), session.HomePlayer.UserID,
		visitorUserID, payload, toMillis(session.CreatedAt), toMillis(session.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get returns the session with the given id.
func (s *Store) Get(ctx context.Context, id string) (game.Session, error) {
	row := s.sqlDB.QueryRowContext(ctx, "SELECT payload FROM sessions WHERE id = ?", id)
	return scanSession(row)
}

// GetByJoinCode returns the waiting session holding the join code.
func (s *Store) GetByJoinCode(ctx context.Context, code string) (game.Session, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT payload FROM sessions WHERE join_code = ? AND status = ?",
		code, string(game.StatusWaiting))
	return scanSession(row)
}

// ListByUser returns the user's sessions, optionally filtered by status.
func (s *Store) ListByUser(ctx context.Context, userID string, statuses ...game.Status) ([]game.Session, error) {
	query := "SELECT payload FROM sessions WHERE (home_user_id = ? OR visitor_user_id = ?)"
	args := []any{userID, userID}
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += " AND status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []game.Session
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var session game.Session
		if err := json.Unmarshal(payload, &session); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Mutate applies fn to the session under its per-id lock and persists
// the result in one transaction. When fn errors nothing is written.
func (s *Store) Mutate(ctx context.Context, id string, fn func(game.Session) (game.Session, error)) (game.Session, error) {
	lock := s.keyLock(id)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		return game.Session{}, err
	}

	updated, err := fn(current)
	if err != nil {
		return game.Session{}, err
	}

	if err := s.Save(ctx, updated); err != nil {
		return game.Session{}, err
	}
	return updated, nil
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// PutTeam inserts or replaces a team.
func (s *Store) PutTeam(ctx context.Context, team roster.Team) error {
	payload, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("encode team: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO teams (id, owner_id, payload)
VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET owner_id = excluded.owner_id, payload = excluded.payload
`, team.ID, team.OwnerID, payload)
	if err != nil {
		return fmt.Errorf("save team: %w", err)
	}
	return nil
}

// GetTeam returns the team with the given id.
func (s *Store) GetTeam(ctx context.Context, id string) (roster.Team, error) {
	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx, "SELECT payload FROM teams WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.Team{}, storage.ErrNotFound
	}
	if err != nil {
		return roster.Team{}, fmt.Errorf("load team: %w", err)
	}
	var team roster.Team
	if err := json.Unmarshal(payload, &team); err != nil {
		return roster.Team{}, fmt.Errorf("decode team: %w", err)
	}
	return team, nil
}

func scanSession(row *sql.Row) (game.Session, error) {
	var payload []byte
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Session{}, storage.ErrNotFound
	}
	if err != nil {
		return game.Session{}, fmt.Errorf("load session: %w", err)
	}
	var session game.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return game.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}
