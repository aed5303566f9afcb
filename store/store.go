// Package store persists matches in SQLite: snapshots of online matches so
// they can be resumed, and results of finished matches for rankings.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/lexicard/game"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/match"
)

var (
	ErrNotFound        = errors.New("store: no such match")
	ErrCorruptSnapshot = errors.New("store: snapshot checksum mismatch")
)

const timeLayout = "2006-01-02 15:04:05"

type Store struct {
	db *sql.DB
}

var _ match.Persister = (*Store)(nil)

// Snapshot is a saved match state.
type Snapshot struct {
	MatchID   match.ID
	Turn      int
	Finished  bool
	State     *game.State
	UpdatedAt time.Time
}

// ResultEntry is one ranked result row.
type ResultEntry struct {
	ID       int64
	MatchID  string
	Mode     string
	Category lexicon.Category
	Player   string
	Score    int
	Won      bool
	Turns    int
	Words    []string
	PlayedAt time.Time
}

// Open creates or opens the database at path and migrates it. Use
// ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("store: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: cannot create directory %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: cannot open database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes
	// writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: cannot connect to database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migration failed: %w", err)
	}
	log.Debug().Str("path", path).Msg("store-opened")
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			match_id TEXT PRIMARY KEY,
			turn INTEGER NOT NULL,
			finished INTEGER NOT NULL DEFAULT 0,
			state TEXT NOT NULL,
			checksum TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			category TEXT NOT NULL,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			turns INTEGER NOT NULL,
			words TEXT NOT NULL,
			played_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_results_top ON results(category, score DESC);
		CREATE INDEX IF NOT EXISTS idx_results_player ON results(player);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func checksum(bts []byte) string {
	return strconv.FormatUint(xxhash.Sum64(bts), 16)
}

// SaveSnapshot stores (or replaces) the state of a match.
func (s *Store) SaveSnapshot(ctx context.Context, id match.ID, st *game.State) error {
	bts, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("store: cannot encode state: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (match_id, turn, finished, state, checksum, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(match_id) DO UPDATE SET
		   turn = excluded.turn, finished = excluded.finished, state = excluded.state,
		   checksum = excluded.checksum, updated_at = excluded.updated_at`,
		id.String(), st.Turn, st.Finished, string(bts), checksum(bts),
		time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("store: cannot save snapshot: %w", err)
	}
	log.Debug().Str("match", id.String()).Int("turn", st.Turn).Msg("snapshot-saved")
	return nil
}

// LoadSnapshot returns the last saved state of a match.
func (s *Store) LoadSnapshot(ctx context.Context, id match.ID) (*Snapshot, error) {
	var (
		raw, sum, updated string
		snap              = &Snapshot{MatchID: id}
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT turn, finished, state, checksum, updated_at FROM snapshots WHERE match_id = ?`,
		id.String(),
	).Scan(&snap.Turn, &snap.Finished, &raw, &sum, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: cannot query snapshot: %w", err)
	}
	if checksum([]byte(raw)) != sum {
		return nil, fmt.Errorf("%w: match %s", ErrCorruptSnapshot, id)
	}
	snap.State = &game.State{}
	if err := json.Unmarshal([]byte(raw), snap.State); err != nil {
		return nil, fmt.Errorf("store: cannot decode state: %w", err)
	}
	snap.UpdatedAt = parseTime(updated)
	return snap, nil
}

// OpenMatches lists the ids of saved matches that have not finished,
// most recently updated first.
func (s *Store) OpenMatches(ctx context.Context) ([]match.ID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id FROM snapshots WHERE finished = 0 ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: cannot query snapshots: %w", err)
	}
	defer rows.Close()
	var ids []match.ID
	for rows.Next() {
		var hexID string
		if err := rows.Scan(&hexID); err != nil {
			return nil, fmt.Errorf("store: cannot scan row: %w", err)
		}
		id, err := match.ParseID(hexID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: row iteration error: %w", err)
	}
	return ids, nil
}

// SaveResult records one row per side of a finished match.
func (s *Store) SaveResult(ctx context.Context, res match.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: cannot begin: %w", err)
	}
	defer tx.Rollback()
	words, err := json.Marshal(res.Words)
	if err != nil {
		return err
	}
	playedAt := res.FinishedAt
	if playedAt.IsZero() {
		playedAt = time.Now()
	}
	for i, p := range res.Players {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO results (match_id, mode, category, player, score, won, turns, words, played_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			res.MatchID.String(), res.Mode.String(), string(res.Category), p.Name, p.Score,
			res.Winner == i, res.Turns, string(words), playedAt.UTC().Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("store: cannot save result: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE snapshots SET finished = 1 WHERE match_id = ?`, res.MatchID.String()); err != nil {
		return fmt.Errorf("store: cannot close snapshot: %w", err)
	}
	return tx.Commit()
}

// TopResults returns the best scores in a category. An empty category
// ranks across all of them.
func (s *Store) TopResults(ctx context.Context, category lexicon.Category, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	q := `SELECT id, match_id, mode, category, player, score, won, turns, words, played_at
		  FROM results`
	args := []any{}
	if category != "" {
		q += ` WHERE category = ?`
		args = append(args, string(category))
	}
	q += ` ORDER BY score DESC, id ASC LIMIT ?`
	args = append(args, limit)
	return s.queryResults(ctx, q, args...)
}

// PlayerResults returns a player's results, newest first.
func (s *Store) PlayerResults(ctx context.Context, player string, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryResults(ctx,
		`SELECT id, match_id, mode, category, player, score, won, turns, words, played_at
		 FROM results WHERE player = ? ORDER BY id DESC LIMIT ?`, player, limit)
}

func (s *Store) queryResults(ctx context.Context, q string, args ...any) ([]ResultEntry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: cannot query results: %w", err)
	}
	defer rows.Close()

	var entries []ResultEntry
	for rows.Next() {
		var (
			e             ResultEntry
			words, played string
			category      string
		)
		if err := rows.Scan(&e.ID, &e.MatchID, &e.Mode, &category, &e.Player, &e.Score,
			&e.Won, &e.Turns, &words, &played); err != nil {
			return nil, fmt.Errorf("store: cannot scan row: %w", err)
		}
		e.Category = lexicon.Category(category)
		if err := json.Unmarshal([]byte(words), &e.Words); err != nil {
			return nil, fmt.Errorf("store: bad words column: %w", err)
		}
		e.PlayedAt = parseTime(played)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: row iteration error: %w", err)
	}
	return entries, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		log.Debug().Str("value", s).Msg("bad-timestamp")
	}
	return t
}
