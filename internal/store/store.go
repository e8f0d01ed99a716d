// Package store keeps the in-memory SQLite ledger of completed rounds.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/verte-zerg/tuicatch/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MemoryDSN opens a private in-memory database that vanishes on Close.
const MemoryDSN = ":memory:"

// Store wraps SQLite access for round data.
type Store struct {
	db *sql.DB
}

// Open opens the database at dsn and applies migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Every pooled connection to :memory: would get its own empty database.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// OpenMemory opens a fresh in-memory ledger.
func OpenMemory() (*Store, error) {
	return Open(MemoryDSN)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			word TEXT NOT NULL,
			word_length INTEGER NOT NULL,
			level INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			missed_letters INTEGER NOT NULL,
			catch_count INTEGER NOT NULL,
			tick_count INTEGER NOT NULL,
			progression TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_level ON rounds(level);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRound stores a completed round and returns its id.
func (s *Store) InsertRound(ctx context.Context, r model.RoundRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (started_at, ended_at, word, word_length, level, error_count, missed_letters, catch_count, tick_count, progression)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.Format(time.RFC3339Nano),
		r.EndedAt.Format(time.RFC3339Nano),
		r.Word,
		r.WordLength,
		r.Level,
		r.ErrorCount,
		r.MissedLetters,
		r.CatchCount,
		r.TickCount,
		string(r.Progression),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRounds returns every round in insertion order.
func (s *Store) ListRounds(ctx context.Context) ([]model.RoundRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT started_at, ended_at, word, word_length, level, error_count, missed_letters, catch_count, tick_count, progression
		FROM rounds
		ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.RoundRecord
	for rows.Next() {
		var r model.RoundRecord
		var startedAt, endedAt, progression string
		if err := rows.Scan(&startedAt, &endedAt, &r.Word, &r.WordLength, &r.Level, &r.ErrorCount, &r.MissedLetters, &r.CatchCount, &r.TickCount, &progression); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if r.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		r.Progression = model.ProgressionType(progression)
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}

// Totals aggregates all rounds.
func (s *Store) Totals(ctx context.Context) (model.RoundTotals, error) {
	var t model.RoundTotals
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN error_count = 0 AND missed_letters = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(error_count), 0),
			COALESCE(SUM(missed_letters), 0),
			COALESCE(SUM(catch_count), 0),
			COALESCE(MAX(level), 0)
		FROM rounds`).Scan(&t.Rounds, &t.Perfect, &t.ErrorCount, &t.MissedLetters, &t.CatchCount, &t.MaxLevel)
	if err != nil {
		return model.RoundTotals{}, err
	}
	return t, nil
}
