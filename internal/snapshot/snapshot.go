// Package snapshot persists and pre-warms a local on-disk cache of the
// last successfully loaded relationship store, keyed by ribtag, so a
// restart doesn't have to wait on the external store before the
// single-threaded relaxation loop can start. It uses database/sql with
// the sqlite3 driver.
package snapshot

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Emeline-1/pathinfer/internal/asid"
	"github.com/Emeline-1/pathinfer/internal/relation"
	"github.com/Emeline-1/pathinfer/internal/relstore"
)

// Cache wraps a sqlite-backed relationship edge table.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite file at filename and
// ensures the relation_edges table exists.
func Open(filename string) (*Cache, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", filename, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS relation_edges (
	ribtag TEXT NOT NULL,
	as_a   TEXT NOT NULL,
	as_b   TEXT NOT NULL,
	tag    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_relation_edges_ribtag ON relation_edges (ribtag);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying sqlite handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Save writes every edge of s for ases under ribtag, replacing any prior
// snapshot for that tag.
func (c *Cache) Save(ribtag string, s *relstore.Store, ases []asid.ID) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("snapshot: begin: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM relation_edges WHERE ribtag = ?`, ribtag); err != nil {
		tx.Rollback()
		return fmt.Errorf("snapshot: clearing %s: %w", ribtag, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO relation_edges (ribtag, as_a, as_b, tag) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("snapshot: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range ases {
		aText := asid.Decode(a)
		for _, b := range s.Neighbors(a) {
			tag, _ := s.Relation(a, b)
			if _, err := stmt.Exec(ribtag, aText, asid.Decode(b), tag.String()); err != nil {
				tx.Rollback()
				return fmt.Errorf("snapshot: insert edge: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("snapshot: commit: %w", err)
	}
	return nil
}

// Load reads back every edge stored under ribtag into a fresh
// *relstore.Store. ok is false if no rows were found for that tag.
func (c *Cache) Load(ribtag string) (s *relstore.Store, ok bool, err error) {
	rows, err := c.db.Query(`SELECT as_a, as_b, tag FROM relation_edges WHERE ribtag = ?`, ribtag)
	if err != nil {
		return nil, false, fmt.Errorf("snapshot: query %s: %w", ribtag, err)
	}
	defer rows.Close()

	s = relstore.New()
	var found bool
	for rows.Next() {
		var aText, bText, tagText string
		if err := rows.Scan(&aText, &bText, &tagText); err != nil {
			return nil, false, fmt.Errorf("snapshot: scan: %w", err)
		}
		a, err := asid.Encode(aText)
		if err != nil {
			continue
		}
		b, err := asid.Encode(bText)
		if err != nil {
			continue
		}
		s.Set(a, b, relation.ParseWireTag(tagText))
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("snapshot: reading rows: %w", err)
	}
	return s, found, nil
}
