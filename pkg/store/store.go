// Package store persists accessory layouts per avatar asset in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	_ "modernc.org/sqlite"

	"github.com/teslashibe/go-avatar/pkg/accessory"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when an accessory does not exist for an avatar.
var ErrNotFound = errors.New("store: not found")

// Store persists accessory layouts in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens or creates a SQLite store and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts or updates one accessory of an avatar.
func (s *Store) Save(ctx context.Context, avatar string, a accessory.Accessory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(avatar) == "" {
		return fmt.Errorf("avatar is required")
	}
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("accessory id is required")
	}
	pos, rot, scale, err := encodeTransform(a)
	if err != nil {
		return err
	}
	now := s.now().UTC().UnixMilli()

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO accessories (
		   id, avatar, name, source, bone, position, rotation, scale, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   avatar = excluded.avatar,
		   name = excluded.name,
		   source = excluded.source,
		   bone = excluded.bone,
		   position = excluded.position,
		   rotation = excluded.rotation,
		   scale = excluded.scale,
		   updated_at = excluded.updated_at`,
		a.ID, avatar, a.Name, a.Source, a.BoneName, pos, rot, scale, now, now,
	)
	if err != nil {
		return fmt.Errorf("save accessory: %w", err)
	}
	return nil
}

// List returns the accessories of an avatar in the order they were added.
func (s *Store) List(ctx context.Context, avatar string) ([]accessory.Accessory, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, source, bone, position, rotation, scale
		   FROM accessories
		  WHERE avatar = ?
		  ORDER BY created_at, rowid`,
		avatar,
	)
	if err != nil {
		return nil, fmt.Errorf("list accessories: %w", err)
	}
	defer rows.Close()

	var out []accessory.Accessory
	for rows.Next() {
		var (
			a               accessory.Accessory
			pos, rot, scale string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Source, &a.BoneName, &pos, &rot, &scale); err != nil {
			return nil, fmt.Errorf("scan accessory: %w", err)
		}
		if err := decodeTransform(&a, pos, rot, scale); err != nil {
			return nil, fmt.Errorf("accessory %s: %w", a.ID, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accessories: %w", err)
	}
	return out, nil
}

// Delete removes one accessory of an avatar.
func (s *Store) Delete(ctx context.Context, avatar, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM accessories WHERE avatar = ? AND id = ?`, avatar, id)
	if err != nil {
		return fmt.Errorf("delete accessory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete accessory: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: accessory %s", ErrNotFound, id)
	}
	return nil
}

// Avatars lists every avatar with a saved layout.
func (s *Store) Avatars(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT DISTINCT avatar FROM accessories ORDER BY avatar`)
	if err != nil {
		return nil, fmt.Errorf("list avatars: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var avatar string
		if err := rows.Scan(&avatar); err != nil {
			return nil, fmt.Errorf("scan avatar: %w", err)
		}
		out = append(out, avatar)
	}
	return out, rows.Err()
}

func encodeTransform(a accessory.Accessory) (pos, rot, scale string, err error) {
	enc := func(v mgl64.Vec3) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	}
	if pos, err = enc(a.Position); err != nil {
		return "", "", "", fmt.Errorf("encode position: %w", err)
	}
	if rot, err = enc(a.Rotation); err != nil {
		return "", "", "", fmt.Errorf("encode rotation: %w", err)
	}
	if scale, err = enc(a.Scale); err != nil {
		return "", "", "", fmt.Errorf("encode scale: %w", err)
	}
	return pos, rot, scale, nil
}

func decodeTransform(a *accessory.Accessory, pos, rot, scale string) error {
	for _, f := range []struct {
		name string
		raw  string
		dst  *mgl64.Vec3
	}{
		{"position", pos, &a.Position},
		{"rotation", rot, &a.Rotation},
		{"scale", scale, &a.Scale},
	} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return fmt.Errorf("decode %s: %w", f.name, err)
		}
	}
	return nil
}
