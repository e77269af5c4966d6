// Package storage provides SQLite-based persistence for scores, race
// results, and cached device profiles.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/life423/Ascend-Avoid-sub000/internal/multiplayer"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// RaceRecord represents the outcome of an online race.
type RaceRecord struct {
	ID            int64
	MatchID       string
	HostSession   string
	JoinerSession string
	Score1        int
	Score2        int
	WinnerSession string // Empty on disconnect without a finisher
	EndReason     string
	Duration      int // Seconds
	CreatedAt     time.Time
}

// ProfileRecord caches a device capability detection so repeat launches
// can show the last known tier without waiting for the benchmark.
type ProfileRecord struct {
	ID        int64
	Tier      string
	Score     float64
	Cores     int
	MemoryGB  float64
	Renderer  string
	CreatedAt time.Time
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
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS races (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			host_session TEXT NOT NULL,
			joiner_session TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			winner_session TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_races_host ON races(host_session);
		CREATE INDEX IF NOT EXISTS idx_races_joiner ON races(joiner_session);

		CREATE TABLE IF NOT EXISTS device_profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tier TEXT NOT NULL,
			score REAL NOT NULL DEFAULT 0,
			cores INTEGER NOT NULL DEFAULT 0,
			memory_gb REAL NOT NULL DEFAULT 0,
			renderer TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
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

// SaveScore records a new score for the given game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score) VALUES (?, ?)",
		gameID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores retrieves the top N scores for the given game, best first.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the highest score for the given game, 0 if none.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// SaveRace records the result of an online race.
// Returns the ID of the inserted record.
func (s *Store) SaveRace(record RaceRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO races
		 (match_id, host_session, joiner_session, score1, score2, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.MatchID,
		record.HostSession,
		record.JoinerSession,
		record.Score1,
		record.Score2,
		record.WinnerSession,
		record.EndReason,
		record.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save race: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRaces retrieves the most recent races, newest first.
func (s *Store) RecentRaces(limit int) ([]RaceRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, host_session, joiner_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM races
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query races: %w", err)
	}
	defer rows.Close()

	return scanRaces(rows)
}

// PlayerRaceHistory retrieves race history for a specific session.
func (s *Store) PlayerRaceHistory(sessionID string, limit int) ([]RaceRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, host_session, joiner_session,
		        score1, score2, winner_session, end_reason, duration_secs, created_at
		 FROM races
		 WHERE host_session = ? OR joiner_session = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player races: %w", err)
	}
	defer rows.Close()

	return scanRaces(rows)
}

func scanRaces(rows *sql.Rows) ([]RaceRecord, error) {
	var records []RaceRecord
	for rows.Next() {
		var r RaceRecord
		var createdAt any
		var winner sql.NullString

		if err := rows.Scan(
			&r.ID,
			&r.MatchID,
			&r.HostSession,
			&r.JoinerSession,
			&r.Score1,
			&r.Score2,
			&winner,
			&r.EndReason,
			&r.Duration,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		if winner.Valid {
			r.WinnerSession = winner.String
		}
		r.CreatedAt = parseTimestamp(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// SaveRaceResult implements multiplayer.RaceResultSaver so the
// coordinator can persist results without a storage dependency.
func (s *Store) SaveRaceResult(data multiplayer.RaceResultData) error {
	_, err := s.SaveRace(RaceRecord{
		MatchID:       data.MatchID,
		HostSession:   data.HostSession,
		JoinerSession: data.JoinerSession,
		Score1:        data.Score1,
		Score2:        data.Score2,
		WinnerSession: data.WinnerSession,
		EndReason:     data.EndReason,
		Duration:      data.DurationSecs,
	})
	return err
}

// Ensure Store implements RaceResultSaver
var _ multiplayer.RaceResultSaver = (*Store)(nil)

// SaveProfile caches a device capability detection.
func (s *Store) SaveProfile(record ProfileRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO device_profiles (tier, score, cores, memory_gb, renderer)
		 VALUES (?, ?, ?, ?, ?)`,
		record.Tier, record.Score, record.Cores, record.MemoryGB, record.Renderer,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save profile: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// LatestProfile returns the most recent cached profile, or nil if the
// device was never profiled.
func (s *Store) LatestProfile() (*ProfileRecord, error) {
	var r ProfileRecord
	var createdAt any
	var renderer sql.NullString

	err := s.db.QueryRow(
		`SELECT id, tier, score, cores, memory_gb, renderer, created_at
		 FROM device_profiles
		 ORDER BY id DESC
		 LIMIT 1`,
	).Scan(&r.ID, &r.Tier, &r.Score, &r.Cores, &r.MemoryGB, &renderer, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query profile: %w", err)
	}

	if renderer.Valid {
		r.Renderer = renderer.String
	}
	r.CreatedAt = parseTimestamp(createdAt)
	return &r, nil
}

// parseTimestamp handles the driver returning DATETIME columns as either
// time.Time or string.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
