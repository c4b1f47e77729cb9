// Package store keeps saved analyses in SQLite as their JSON documents.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/dgallion1/sententia/internal/sentence"
)

var ErrNotFound = errors.New("saved analysis not found")

// timeLayout is fixed width so saved_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Saved describes one stored document.
type Saved struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Input      string    `json:"input"`
	Words      int       `json:"words"`
	Unresolved int       `json:"unresolved"`
	SavedAt    time.Time `json:"saved_at"`
}

// Store manages the saved-analyses database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open saved db: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate saved db: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save validates a sentence document and stores it under a new id.
func (s *Store) Save(ctx context.Context, title string, document []byte) (Saved, error) {
	sent, _, err := sentence.Decode(document)
	if err != nil {
		return Saved{}, err
	}
	sv := Saved{
		ID:         uuid.New().String(),
		Title:      title,
		Input:      sent.Input,
		Words:      sent.Len(),
		Unresolved: sent.Unresolved(),
		SavedAt:    s.now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saved_analyses (id, title, input, words, unresolved, document, saved_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sv.ID, sv.Title, sv.Input, sv.Words, sv.Unresolved, string(document), sv.SavedAt.Format(timeLayout),
	)
	if err != nil {
		return Saved{}, fmt.Errorf("insert saved analysis: %w", err)
	}
	return sv, nil
}

// Load decodes the stored document with the given id.
func (s *Store) Load(ctx context.Context, id string) (*sentence.Sentence, Saved, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, input, words, unresolved, saved_at, document FROM saved_analyses WHERE id = ?`, id)
	var doc string
	sv, err := scanSaved(row, &doc)
	if err != nil {
		return nil, Saved{}, err
	}
	sent, _, err := sentence.Decode([]byte(doc))
	if err != nil {
		return nil, Saved{}, fmt.Errorf("saved analysis %s: %w", id, err)
	}
	return sent, sv, nil
}

// List returns saved analyses, newest first.
func (s *Store) List(ctx context.Context) ([]Saved, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, input, words, unresolved, saved_at FROM saved_analyses ORDER BY saved_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list saved analyses: %w", err)
	}
	defer rows.Close()

	out := []Saved{}
	for rows.Next() {
		sv, err := scanSaved(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

// Delete removes a saved analysis.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saved_analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete saved analysis: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSaved(row scanner, extra ...any) (Saved, error) {
	var sv Saved
	var savedAt string
	dest := append([]any{&sv.ID, &sv.Title, &sv.Input, &sv.Words, &sv.Unresolved, &savedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Saved{}, ErrNotFound
		}
		return Saved{}, fmt.Errorf("scan saved analysis: %w", err)
	}
	t, err := time.Parse(timeLayout, savedAt)
	if err != nil {
		return Saved{}, fmt.Errorf("saved analysis %s: bad timestamp: %w", sv.ID, err)
	}
	sv.SavedAt = t
	return sv, nil
}
