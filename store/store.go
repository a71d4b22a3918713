// Package store persists board objects in SQLite.
//
// Persistence is a side effect of authoring, never a gate on it: the board
// keeps drawing when a save fails, and reconstructs its stroke sets from
// the loaded records on the next open.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Object kinds.
const (
	KindImage       = "image"
	KindText        = "text"
	KindSketchImage = "sketch_image"
)

// BoardObject is one persisted whiteboard object.
type BoardObject struct {
	BoardID string
	Name    string
	Kind    string

	PosX  float64
	PosY  float64
	Scale float64

	LetterSize float64
	LetterGap  float64
	Width      float64
	Height     float64
	ImageURL   string

	Metadata map[string]any
}

// Store is a SQLite-backed object store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at dbPath.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS board_objects (
		board_id    TEXT NOT NULL,
		name        TEXT NOT NULL,
		kind        TEXT NOT NULL,
		pos_x       REAL NOT NULL DEFAULT 0,
		pos_y       REAL NOT NULL DEFAULT 0,
		scale       REAL NOT NULL DEFAULT 1,
		letter_size REAL NOT NULL DEFAULT 0,
		letter_gap  REAL NOT NULL DEFAULT 0,
		width       REAL NOT NULL DEFAULT 0,
		height      REAL NOT NULL DEFAULT 0,
		image_url   TEXT NOT NULL DEFAULT '',
		metadata    TEXT NOT NULL DEFAULT '{}',
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (board_id, name)
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: create tables: %w", err)
	}
	return nil
}

// Save upserts an object record.
func (s *Store) Save(ctx context.Context, obj BoardObject) error {
	meta, err := json.Marshal(obj.Metadata)
	if err != nil {
		return fmt.Errorf("store: marshal metadata for %q: %w", obj.Name, err)
	}

	const q = `
	INSERT INTO board_objects
		(board_id, name, kind, pos_x, pos_y, scale, letter_size, letter_gap, width, height, image_url, metadata)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(board_id, name) DO UPDATE SET
		kind = excluded.kind,
		pos_x = excluded.pos_x,
		pos_y = excluded.pos_y,
		scale = excluded.scale,
		letter_size = excluded.letter_size,
		letter_gap = excluded.letter_gap,
		width = excluded.width,
		height = excluded.height,
		image_url = excluded.image_url,
		metadata = excluded.metadata;`

	_, err = s.db.ExecContext(ctx, q,
		obj.BoardID, obj.Name, obj.Kind, obj.PosX, obj.PosY, obj.Scale,
		obj.LetterSize, obj.LetterGap, obj.Width, obj.Height, obj.ImageURL, string(meta))
	if err != nil {
		return fmt.Errorf("store: save %q: %w", obj.Name, err)
	}
	return nil
}

// Delete removes an object record. Deleting a missing record is not an
// error.
func (s *Store) Delete(ctx context.Context, boardID, name string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM board_objects WHERE board_id = ? AND name = ?`, boardID, name)
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", name, err)
	}
	return nil
}

// List returns every object on a board in creation order.
func (s *Store) List(ctx context.Context, boardID string) ([]BoardObject, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT board_id, name, kind, pos_x, pos_y, scale,
		       letter_size, letter_gap, width, height, image_url, metadata
		FROM board_objects WHERE board_id = ? ORDER BY created_at, name`, boardID)
	if err != nil {
		return nil, fmt.Errorf("store: list board %q: %w", boardID, err)
	}
	defer rows.Close()

	var objs []BoardObject
	for rows.Next() {
		var obj BoardObject
		var meta string
		if err := rows.Scan(&obj.BoardID, &obj.Name, &obj.Kind, &obj.PosX, &obj.PosY,
			&obj.Scale, &obj.LetterSize, &obj.LetterGap, &obj.Width, &obj.Height,
			&obj.ImageURL, &meta); err != nil {
			return nil, fmt.Errorf("store: scan object: %w", err)
		}
		if meta != "" && meta != "{}" {
			_ = json.Unmarshal([]byte(meta), &obj.Metadata)
		}
		objs = append(objs, obj)
	}
	return objs, rows.Err()
}

// Clear removes every object on a board.
func (s *Store) Clear(ctx context.Context, boardID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM board_objects WHERE board_id = ?`, boardID)
	if err != nil {
		return fmt.Errorf("store: clear board %q: %w", boardID, err)
	}
	return nil
}
