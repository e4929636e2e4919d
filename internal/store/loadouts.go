/*
Package store
File: loadouts.go
Description:
    Saved mining loadouts, capped at MaxLoadoutsPerOwner per owner.
*/

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/everforgeworks/regolith/internal/loadout"
)

// CreateLoadout saves l under owner with a fresh id. The id and owner on l
// are ignored.
func (s *Store) CreateLoadout(ctx context.Context, owner string, l loadout.MiningLoadout) (loadout.MiningLoadout, error) {
	if strings.TrimSpace(owner) == "" {
		return loadout.MiningLoadout{}, fmt.Errorf("loadout owner is required")
	}
	out := l.Clone()
	out.ID = uuid.NewString()
	out.Owner = owner
	body, err := json.Marshal(out)
	if err != nil {
		return loadout.MiningLoadout{}, fmt.Errorf("encode loadout: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return loadout.MiningLoadout{}, fmt.Errorf("begin create loadout: %w", err)
	}
	defer tx.Rollback()

	// 1. Enforce the per-owner cap inside the same transaction as the insert
	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM loadouts WHERE owner = ?`, owner).Scan(&count); err != nil {
		return loadout.MiningLoadout{}, fmt.Errorf("count loadouts: %w", err)
	}
	if count >= MaxLoadoutsPerOwner {
		return loadout.MiningLoadout{}, ErrLoadoutLimit
	}

	// 2. Insert
	now := toMillis(s.now())
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO loadouts (id, owner, name, ship, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		out.ID, owner, out.Name, string(out.Ship), string(body), now, now); err != nil {
		return loadout.MiningLoadout{}, fmt.Errorf("insert loadout: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return loadout.MiningLoadout{}, fmt.Errorf("commit create loadout: %w", err)
	}
	return out, nil
}

// UpdateLoadout replaces the stored loadout with the same id. The owner
// cannot change.
func (s *Store) UpdateLoadout(ctx context.Context, l loadout.MiningLoadout) (loadout.MiningLoadout, error) {
	existing, err := s.GetLoadout(ctx, l.ID)
	if err != nil {
		return loadout.MiningLoadout{}, err
	}
	out := l.Clone()
	out.Owner = existing.Owner
	body, err := json.Marshal(out)
	if err != nil {
		return loadout.MiningLoadout{}, fmt.Errorf("encode loadout: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE loadouts SET name = ?, ship = ?, body = ?, updated_at = ? WHERE id = ?`,
		out.Name, string(out.Ship), string(body), toMillis(s.now()), out.ID)
	if err != nil {
		return loadout.MiningLoadout{}, fmt.Errorf("update loadout: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return loadout.MiningLoadout{}, err
	}
	return out, nil
}

// DeleteLoadout removes a loadout.
func (s *Store) DeleteLoadout(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM loadouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete loadout: %w", err)
	}
	return requireAffected(res)
}

// GetLoadout returns one loadout by id.
func (s *Store) GetLoadout(ctx context.Context, id string) (loadout.MiningLoadout, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM loadouts WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return loadout.MiningLoadout{}, ErrNotFound
	}
	if err != nil {
		return loadout.MiningLoadout{}, fmt.Errorf("get loadout: %w", err)
	}
	return decodeLoadout(body)
}

// ListLoadouts returns an owner's loadouts, oldest first.
func (s *Store) ListLoadouts(ctx context.Context, owner string) ([]loadout.MiningLoadout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM loadouts WHERE owner = ? ORDER BY created_at, id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list loadouts: %w", err)
	}
	defer rows.Close()

	out := []loadout.MiningLoadout{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan loadout: %w", err)
		}
		l, err := decodeLoadout(body)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list loadouts: %w", err)
	}
	return out, nil
}

func decodeLoadout(body string) (loadout.MiningLoadout, error) {
	var l loadout.MiningLoadout
	if err := json.Unmarshal([]byte(body), &l); err != nil {
		return loadout.MiningLoadout{}, fmt.Errorf("decode loadout: %w", err)
	}
	return l, nil
}
