/*
Package store
File: settings.go
Description:
    User profile settings layers and sessions.
*/

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/everforgeworks/regolith/internal/settings"
)

// Session is a mining session's owner and its stored settings layer.
type Session struct {
	ID        string                `json:"id"`
	Owner     string                `json:"owner"`
	Settings  settings.Destructured `json:"settings"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// GetUserSettings returns the user's profile layer. A user who never saved
// settings gets a blank layer, not ErrNotFound.
func (s *Store) GetUserSettings(ctx context.Context, userID string) (settings.Destructured, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT settings FROM user_settings WHERE user_id = ?`, userID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Destructured{}, nil
	}
	if err != nil {
		return settings.Destructured{}, fmt.Errorf("get user settings: %w", err)
	}
	return decodeSettings(body)
}

// PutUserSettings replaces the user's profile layer.
func (s *Store) PutUserSettings(ctx context.Context, userID string, d settings.Destructured) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode user settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, settings, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET settings = excluded.settings, updated_at = excluded.updated_at`,
		userID, string(body), toMillis(s.now()))
	if err != nil {
		return fmt.Errorf("put user settings: %w", err)
	}
	return nil
}

// CreateSession stores a new session owned by owner with its initial layer.
func (s *Store) CreateSession(ctx context.Context, owner string, d settings.Destructured) (Session, error) {
	if strings.TrimSpace(owner) == "" {
		return Session{}, fmt.Errorf("session owner is required")
	}
	body, err := json.Marshal(d)
	if err != nil {
		return Session{}, fmt.Errorf("encode session settings: %w", err)
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	sess := Session{ID: uuid.NewString(), Owner: owner, Settings: d, CreatedAt: now, UpdatedAt: now}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, owner, settings, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.Owner, string(body), toMillis(now), toMillis(now))
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// GetSession returns a session by id.
func (s *Store) GetSession(ctx context.Context, id string) (Session, error) {
	var (
		sess             Session
		body             string
		created, updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner, settings, created_at, updated_at FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.Owner, &body, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	if sess.Settings, err = decodeSettings(body); err != nil {
		return Session{}, err
	}
	sess.CreatedAt, sess.UpdatedAt = fromMillis(created), fromMillis(updated)
	return sess, nil
}

// GetSessionSettings returns only the stored settings layer of a session.
func (s *Store) GetSessionSettings(ctx context.Context, id string) (settings.Destructured, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return settings.Destructured{}, err
	}
	return sess.Settings, nil
}

// PutSessionSettings replaces a session's settings layer.
func (s *Store) PutSessionSettings(ctx context.Context, id string, d settings.Destructured) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode session settings: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET settings = ?, updated_at = ? WHERE id = ?`,
		string(body), toMillis(s.now()), id)
	if err != nil {
		return fmt.Errorf("put session settings: %w", err)
	}
	return requireAffected(res)
}

func decodeSettings(body string) (settings.Destructured, error) {
	var d settings.Destructured
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		return settings.Destructured{}, fmt.Errorf("decode settings: %w", err)
	}
	return d, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
