package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// UpsertSystem inserts or updates a system by name and returns its ID.
func (s *Store) UpsertSystem(ctx context.Context, name, datPath string) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	var id int64
	err := s.db.QueryRowContext(ctx, `
	INSERT INTO systems (name, dat_path, created_at, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET dat_path = excluded.dat_path, updated_at = excluded.updated_at
	RETURNING id
	`, name, datPath, now, now).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetSystemByName retrieves a system by name, or nil when unknown.
func (s *Store) GetSystemByName(ctx context.Context, name string) (*System, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT id, name, dat_path, game_count, created_at, updated_at
	FROM systems
	WHERE name = ?
	`, name)

	sys, err := scanSystem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return sys, err
}

// ListSystems retrieves all systems ordered by name.
func (s *Store) ListSystems(ctx context.Context) ([]System, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, name, dat_path, game_count, created_at, updated_at
	FROM systems
	ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var systems []System
	for rows.Next() {
		sys, err := scanSystem(rows)
		if err != nil {
			return nil, err
		}
		systems = append(systems, *sys)
	}
	return systems, rows.Err()
}

// DeleteSystem removes a system together with its games and scan results.
// Deletes are explicit rather than relying on the foreign_keys pragma.
func (s *Store) DeleteSystem(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scan_results WHERE system_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM games WHERE system_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM systems WHERE id = ?`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// rowScanner abstracts sql.Row and sql.Rows for scanSystem.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSystem(r rowScanner) (*System, error) {
	var sys System
	var createdAt, updatedAt string

	if err := r.Scan(&sys.ID, &sys.Name, &sys.DATPath, &sys.GameCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	sys.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	sys.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &sys, nil
}
