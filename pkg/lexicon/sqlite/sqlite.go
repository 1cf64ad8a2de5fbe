// Package sqlite stores a lexicon in a SQLite database using the pure-Go
// modernc.org/sqlite driver.
//
// The schema has three tables: synsets (id, gloss), lemmas (normalized
// lemma to synset, ordered) and hypernyms (synset to parent, ordered).
// [Store.Import] fills them from a TOML lexicon file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/conceptmap/pkg/lexicon"
	"github.com/matzehuels/conceptmap/pkg/text"
)

const schema = `
CREATE TABLE IF NOT EXISTS synsets (
	id    TEXT PRIMARY KEY,
	gloss TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS lemmas (
	lemma     TEXT NOT NULL,
	synset_id TEXT NOT NULL REFERENCES synsets(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	PRIMARY KEY (lemma, synset_id)
);
CREATE INDEX IF NOT EXISTS idx_lemmas_synset ON lemmas(synset_id, position);
CREATE TABLE IF NOT EXISTS hypernyms (
	synset_id   TEXT NOT NULL REFERENCES synsets(id) ON DELETE CASCADE,
	hypernym_id TEXT NOT NULL,
	position    INTEGER NOT NULL,
	PRIMARY KEY (synset_id, hypernym_id)
);
`

// Store is a lexicon.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dsn and ensures the
// schema exists. dsn is a file path or a "file:" URI.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, lexicon.Unavailable("sqlite", errors.New("empty dsn"))
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, lexicon.Unavailable("sqlite", err)
	}
	// One writer; modernc serializes anyway and this avoids SQLITE_BUSY on import.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, lexicon.Unavailable("sqlite", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, lexicon.Unavailable("sqlite", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, lexicon.Unavailable("sqlite", fmt.Errorf("migrate: %w", err))
	}
	return &Store{db: db}, nil
}

// SynsetsFor returns the synset IDs of lemma in import order.
func (s *Store) SynsetsFor(ctx context.Context, lemma string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT synset_id FROM lemmas WHERE lemma = ? ORDER BY rowid`, text.Normalize(lemma))
	if err != nil {
		return nil, lexicon.Unavailable("sqlite", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, lexicon.Unavailable("sqlite", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, lexicon.Unavailable("sqlite", err)
	}
	return ids, nil
}

// Synset loads one synset with its lemmas and hypernyms.
func (s *Store) Synset(ctx context.Context, id string) (lexicon.Synset, error) {
	syn := lexicon.Synset{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT gloss FROM synsets WHERE id = ?`, id).Scan(&syn.Gloss)
	if errors.Is(err, sql.ErrNoRows) {
		return lexicon.Synset{}, lexicon.ErrNotFound
	}
	if err != nil {
		return lexicon.Synset{}, lexicon.Unavailable("sqlite", err)
	}

	if syn.Lemmas, err = s.column(ctx,
		`SELECT lemma FROM lemmas WHERE synset_id = ? ORDER BY position`, id); err != nil {
		return lexicon.Synset{}, err
	}
	if syn.Hypernyms, err = s.column(ctx,
		`SELECT hypernym_id FROM hypernyms WHERE synset_id = ? ORDER BY position`, id); err != nil {
		return lexicon.Synset{}, err
	}
	return syn, nil
}

func (s *Store) column(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, lexicon.Unavailable("sqlite", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, lexicon.Unavailable("sqlite", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, lexicon.Unavailable("sqlite", err)
	}
	return out, nil
}

// Import writes every synset of f in one transaction, replacing synsets
// that already exist. It returns the number of synsets written.
func (s *Store) Import(ctx context.Context, f lexicon.File) (int, error) {
	for _, syn := range f.Synsets {
		if err := syn.Validate(); err != nil {
			return 0, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, lexicon.Unavailable("sqlite", err)
	}
	defer tx.Rollback()

	for _, syn := range f.Synsets {
		if err := insert(ctx, tx, syn); err != nil {
			return 0, fmt.Errorf("import %s: %w", syn.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, lexicon.Unavailable("sqlite", err)
	}
	return len(f.Synsets), nil
}

func insert(ctx context.Context, tx *sql.Tx, syn lexicon.Synset) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM synsets WHERE id = ?`, syn.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO synsets (id, gloss) VALUES (?, ?)`, syn.ID, syn.Gloss); err != nil {
		return err
	}
	for i, l := range syn.Lemmas {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO lemmas (lemma, synset_id, position) VALUES (?, ?, ?)`,
			text.Normalize(l), syn.ID, i); err != nil {
			return err
		}
	}
	for i, h := range syn.Hypernyms {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO hypernyms (synset_id, hypernym_id, position) VALUES (?, ?, ?)`,
			syn.ID, h, i); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of stored synsets.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM synsets`).Scan(&n); err != nil {
		return 0, lexicon.Unavailable("sqlite", err)
	}
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

var _ lexicon.Store = (*Store)(nil)
