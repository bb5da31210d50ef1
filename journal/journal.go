// Package journal keeps a sqlite log of the mutations applied to a tracker.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/walterschell/chess-tracker/tracker"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	kind       TEXT NOT NULL,
	move       TEXT,
	fen        TEXT NOT NULL,
	created_at INTEGER NOT NULL
)`

type Entry struct {
	ID        int64             `json:"id"`
	Kind      tracker.EventKind `json:"kind"`
	Move      *tracker.Move     `json:"move,omitempty"`
	FEN       string            `json:"fen"`
	CreatedAt time.Time         `json:"createdAt"`
}

type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the journal database at dsn. ":memory:"
// gives a throwaway journal.
func Open(ctx context.Context, dsn string) (*Journal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// a single connection keeps in-memory databases shared and serializes writes
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) Record(ctx context.Context, ev tracker.Event) error {
	var move sql.NullString
	if ev.Move != nil {
		data, err := json.Marshal(ev.Move)
		if err != nil {
			return fmt.Errorf("encode move: %w", err)
		}
		move = sql.NullString{String: string(data), Valid: true}
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO events (kind, move, fen, created_at) VALUES (?, ?, ?, ?)`,
		string(ev.Kind), move, ev.FEN, j.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("record %s event: %w", ev.Kind, err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, kind, move, fen, created_at FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			kind    string
			move    sql.NullString
			created int64
		)
		if err := rows.Scan(&e.ID, &kind, &move, &e.FEN, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = tracker.EventKind(kind)
		e.CreatedAt = time.UnixMilli(created).UTC()
		if move.Valid {
			e.Move = &tracker.Move{}
			if err := json.Unmarshal([]byte(move.String), e.Move); err != nil {
				return nil, fmt.Errorf("decode move %d: %w", e.ID, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Listener returns a tracker listener that records every event. Failures are
// logged, not propagated, since the mutation has already happened.
func (j *Journal) Listener() tracker.Listener {
	return func(ev tracker.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := j.Record(ctx, ev); err != nil {
			log.Error().Err(err).Str("kind", string(ev.Kind)).Msg("journal write failed")
		}
	}
}
