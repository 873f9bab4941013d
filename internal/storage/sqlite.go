// Package storage provides SQLite-based persistence for match results and settings.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-pong/internal/core"
)

// Settings keys persisted between sessions.
const (
	KeyLastMode       = "last_mode"
	KeyLastDifficulty = "last_difficulty"
)

// DefaultHistoryLimit is used when SaveMatch is given a non-positive limit.
const DefaultHistoryLimit = 50

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// StoredMatch is a match record as persisted, with its row ID.
type StoredMatch struct {
	ID int64 `json:"id"`
	core.MatchRecord
}

// ModeStats contains aggregated statistics for one game mode.
type ModeStats struct {
	GameMode     string
	Matches      int
	Player1Wins  int
	Player2Wins  int
	LongestRally int
	TotalHits    int
	AvgDuration  float64
	LastPlayed   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS match_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game_mode TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			player1_score INTEGER NOT NULL DEFAULT 0,
			player2_score INTEGER NOT NULL DEFAULT 0,
			winner TEXT NOT NULL,
			game_duration REAL NOT NULL DEFAULT 0,
			total_hits INTEGER NOT NULL DEFAULT 0,
			longest_rally INTEGER NOT NULL DEFAULT 0,
			powerups_collected INTEGER NOT NULL DEFAULT 0,
			played_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_match_results_mode ON match_results(game_mode);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a finished match and evicts the oldest rows so that at
// most limit remain. Both happen in one transaction.
// Returns the ID of the inserted record.
func (s *Store) SaveMatch(rec core.MatchRecord, limit int) (int64, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.Exec(
		`INSERT INTO match_results
		 (match_id, game_mode, difficulty, player1_score, player2_score, winner,
		  game_duration, total_hits, longest_rally, powerups_collected, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.MatchID,
		rec.GameMode,
		rec.Difficulty,
		rec.Player1Score,
		rec.Player2Score,
		rec.Winner,
		rec.GameDuration,
		rec.TotalHits,
		rec.LongestRally,
		rec.PowerUpsCollected,
		rec.PlayedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM match_results
		 WHERE id NOT IN (SELECT id FROM match_results ORDER BY id DESC LIMIT ?)`,
		limit,
	); err != nil {
		return 0, fmt.Errorf("storage: cannot evict old matches: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit match: %w", err)
	}
	return id, nil
}

const matchColumns = `id, match_id, game_mode, difficulty, player1_score, player2_score, winner,
	game_duration, total_hits, longest_rally, powerups_collected, played_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (StoredMatch, error) {
	var m StoredMatch
	var playedAt string
	err := row.Scan(
		&m.ID,
		&m.MatchID,
		&m.GameMode,
		&m.Difficulty,
		&m.Player1Score,
		&m.Player2Score,
		&m.Winner,
		&m.GameDuration,
		&m.TotalHits,
		&m.LongestRally,
		&m.PowerUpsCollected,
		&playedAt,
	)
	if err != nil {
		return m, err
	}
	m.PlayedAt = parseTime(playedAt)
	return m, nil
}

// RecentMatches retrieves the most recent matches, newest first.
// An empty mode returns matches of every mode.
func (s *Store) RecentMatches(mode string, limit int) ([]StoredMatch, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM match_results
		 WHERE ? = '' OR game_mode = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		mode, mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var matches []StoredMatch
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return matches, nil
}

// MatchByID retrieves a match by its match ID. Returns nil if not found.
func (s *Store) MatchByID(matchID string) (*StoredMatch, error) {
	m, err := scanMatch(s.db.QueryRow(
		`SELECT `+matchColumns+` FROM match_results WHERE match_id = ?`,
		matchID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// CountMatches returns the number of stored matches.
func (s *Store) CountMatches() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM match_results").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count matches: %w", err)
	}
	return n, nil
}

// ClearMatches deletes stored matches. An empty mode deletes all of them.
func (s *Store) ClearMatches(mode string) error {
	_, err := s.db.Exec("DELETE FROM match_results WHERE ? = '' OR game_mode = ?", mode, mode)
	if err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}

// ModeStats retrieves aggregated statistics for a game mode.
func (s *Store) ModeStats(mode string) (*ModeStats, error) {
	stats := &ModeStats{GameMode: mode}
	var lastPlayed sql.NullString

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(winner = 'player1'), 0),
		        COALESCE(SUM(winner = 'player2'), 0),
		        COALESCE(MAX(longest_rally), 0),
		        COALESCE(SUM(total_hits), 0),
		        COALESCE(AVG(game_duration), 0),
		        MAX(played_at)
		 FROM match_results WHERE game_mode = ?`,
		mode,
	).Scan(
		&stats.Matches,
		&stats.Player1Wins,
		&stats.Player2Wins,
		&stats.LongestRally,
		&stats.TotalHits,
		&stats.AvgDuration,
		&lastPlayed,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	if lastPlayed.Valid {
		stats.LastPlayed = parseTime(lastPlayed.String)
	}
	return stats, nil
}

// ExportJSON writes the most recent matches as a JSON array.
func (s *Store) ExportJSON(w io.Writer, mode string, limit int) error {
	matches, err := s.RecentMatches(mode, limit)
	if err != nil {
		return err
	}
	if matches == nil {
		matches = []StoredMatch{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(matches); err != nil {
		return fmt.Errorf("storage: cannot encode matches: %w", err)
	}
	return nil
}

// SetSetting stores a key/value setting, replacing any previous value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save setting %s: %w", key, err)
	}
	return nil
}

// Setting returns a stored setting. The bool is false if the key is unset.
func (s *Store) Setting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read setting %s: %w", key, err)
	}
	return value, true, nil
}

// parseTime handles the formats SQLite hands back for stored timestamps.
func parseTime(v string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
