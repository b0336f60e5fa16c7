// Package store provides SQLite persistence for systems, games, and scan
// results.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver (pure Go, no CGO)
)

// Store provides SQLite persistence for romple data.
type Store struct {
	db *sql.DB
}

// Open initializes the SQLite store at dbPath and runs migrations.
// The parent directory is created when missing. WAL mode and a busy
// timeout avoid "database locked" errors during concurrent scans.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS systems (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		dat_path TEXT NOT NULL,
		game_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS games (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		system_id INTEGER NOT NULL,
		dat_game_name TEXT NOT NULL,
		dat_rom_name TEXT NOT NULL,
		major_name TEXT NOT NULL,
		region TEXT,
		languages TEXT,
		is_beta INTEGER NOT NULL DEFAULT 0,
		is_demo INTEGER NOT NULL DEFAULT 0,
		is_proto INTEGER NOT NULL DEFAULT 0,
		is_unlicensed INTEGER NOT NULL DEFAULT 0,
		release_version INTEGER NOT NULL DEFAULT 0,
		is_translation INTEGER NOT NULL DEFAULT 0,
		is_verified INTEGER NOT NULL DEFAULT 0,
		is_modified INTEGER NOT NULL DEFAULT 0,
		is_pirate INTEGER NOT NULL DEFAULT 0,
		is_hack INTEGER NOT NULL DEFAULT 0,
		is_trainer INTEGER NOT NULL DEFAULT 0,
		is_overdump INTEGER NOT NULL DEFAULT 0,
		crc32 TEXT NOT NULL,
		size INTEGER NOT NULL,
		md5 TEXT,
		sha1 TEXT,
		clone_of TEXT,
		disc_info TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (system_id) REFERENCES systems (id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_games_system_id ON games(system_id);
	CREATE INDEX IF NOT EXISTS idx_games_crc32 ON games(crc32);
	CREATE INDEX IF NOT EXISTS idx_games_major_name ON games(major_name);
	CREATE INDEX IF NOT EXISTS idx_games_region ON games(region);

	CREATE TABLE IF NOT EXISTS scan_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		system_id INTEGER NOT NULL,
		file_path TEXT NOT NULL,
		file_size INTEGER NOT NULL,
		crc32 TEXT,
		status TEXT NOT NULL,
		matched_game_id INTEGER,
		similarity REAL NOT NULL DEFAULT 0,
		error_message TEXT,
		original_status TEXT,
		scanned_at TEXT NOT NULL,
		FOREIGN KEY (system_id) REFERENCES systems (id) ON DELETE CASCADE,
		FOREIGN KEY (matched_game_id) REFERENCES games (id) ON DELETE SET NULL,
		UNIQUE(system_id, file_path)
	);

	CREATE INDEX IF NOT EXISTS idx_scan_results_system_id ON scan_results(system_id);
	CREATE INDEX IF NOT EXISTS idx_scan_results_status ON scan_results(status);
	CREATE INDEX IF NOT EXISTS idx_scan_results_crc32 ON scan_results(crc32);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Stats holds database-wide counts.
type Stats struct {
	Systems     int
	Games       int
	ScanResults int
}

// GetStats returns database-wide counts.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM systems`).Scan(&st.Systems); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&st.Games); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scan_results`).Scan(&st.ScanResults); err != nil {
		return st, err
	}
	return st, nil
}
