package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const resultColumns = `id, system_id, file_path, file_size, crc32, status,
	matched_game_id, similarity, error_message, original_status, scanned_at`

// ReplaceResults atomically replaces all scan results for a system.
func (s *Store) ReplaceResults(ctx context.Context, systemID int64, results []ScanResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scan_results WHERE system_id = ?`, systemID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO scan_results (system_id, file_path, file_size, crc32, status,
		matched_game_id, similarity, error_message, original_status, scanned_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range results {
		if !r.Status.Valid() {
			return fmt.Errorf("invalid scan status %q for %s", r.Status, r.FilePath)
		}
		_, err := stmt.ExecContext(ctx,
			systemID, r.FilePath, r.FileSize, strings.ToLower(r.CRC32), string(r.Status),
			r.MatchedGameID, r.Similarity, r.ErrorMessage, nullableStatus(r.OriginalStatus), now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpdateStatusByPath sets the status of the result identified by file path.
func (s *Store) UpdateStatusByPath(ctx context.Context, systemID int64, filePath string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid scan status %q", status)
	}
	_, err := s.db.ExecContext(ctx, `
	UPDATE scan_results SET status = ? WHERE system_id = ? AND file_path = ?
	`, string(status), systemID, filePath)
	return err
}

// UpdatePath records a file's new location after an organize move.
func (s *Store) UpdatePath(ctx context.Context, systemID int64, oldPath, newPath string) error {
	_, err := s.db.ExecContext(ctx, `
	UPDATE scan_results SET file_path = ? WHERE system_id = ? AND file_path = ?
	`, newPath, systemID, oldPath)
	return err
}

// IgnoreByCRC marks all results with the given CRC as ignored, remembering
// the prior status for a later unignore.
func (s *Store) IgnoreByCRC(ctx context.Context, systemID int64, crc32 string) error {
	_, err := s.db.ExecContext(ctx, `
	UPDATE scan_results
	SET original_status = status, status = ?
	WHERE system_id = ? AND crc32 = ? AND status != ?
	`, string(StatusIgnored), systemID, strings.ToLower(crc32), string(StatusIgnored))
	return err
}

// UnignoreByCRC restores the pre-ignore status of all results with the
// given CRC. Results without a remembered status become not_recognized.
func (s *Store) UnignoreByCRC(ctx context.Context, systemID int64, crc32 string) error {
	_, err := s.db.ExecContext(ctx, `
	UPDATE scan_results
	SET status = COALESCE(NULLIF(original_status, ''), ?), original_status = NULL
	WHERE system_id = ? AND crc32 = ? AND status = ?
	`, string(StatusNotRecognized), systemID, strings.ToLower(crc32), string(StatusIgnored))
	return err
}

// ResultsByStatus retrieves results with the given status, ordered by path.
func (s *Store) ResultsByStatus(ctx context.Context, systemID int64, status Status) ([]ScanResult, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT `+resultColumns+`
	FROM scan_results
	WHERE system_id = ? AND status = ?
	ORDER BY file_path
	`, systemID, string(status))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectResults(rows)
}

// AllResults retrieves every result for a system, ordered by path.
func (s *Store) AllResults(ctx context.Context, systemID int64) ([]ScanResult, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT `+resultColumns+`
	FROM scan_results
	WHERE system_id = ?
	ORDER BY file_path
	`, systemID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectResults(rows)
}

// ResultByCRC retrieves the first result with the given CRC, or nil.
func (s *Store) ResultByCRC(ctx context.Context, systemID int64, crc32 string) (*ScanResult, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT `+resultColumns+`
	FROM scan_results
	WHERE system_id = ? AND crc32 = ?
	ORDER BY id
	LIMIT 1
	`, systemID, strings.ToLower(crc32))

	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// ClearResults removes every result for a system.
func (s *Store) ClearResults(ctx context.Context, systemID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM scan_results WHERE system_id = ?`, systemID)
	return err
}

// Summary tallies results per status for a system.
func (s *Store) Summary(ctx context.Context, systemID int64) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT status, COUNT(*)
	FROM scan_results
	WHERE system_id = ?
	GROUP BY status
	`, systemID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	summary := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		summary[Status(status)] = count
	}
	return summary, rows.Err()
}

func nullableStatus(s Status) any {
	if s == "" {
		return nil
	}
	return string(s)
}

func collectResults(rows *sql.Rows) ([]ScanResult, error) {
	var results []ScanResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

func scanResult(r rowScanner) (*ScanResult, error) {
	var res ScanResult
	var crc, errMsg, origStatus sql.NullString
	var matchedID sql.NullInt64
	var scannedAt string
	var status string

	err := r.Scan(
		&res.ID, &res.SystemID, &res.FilePath, &res.FileSize, &crc, &status,
		&matchedID, &res.Similarity, &errMsg, &origStatus, &scannedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CRC32 = crc.String
	res.Status = Status(status)
	res.ErrorMessage = errMsg.String
	res.OriginalStatus = Status(origStatus.String)
	if matchedID.Valid {
		id := matchedID.Int64
		res.MatchedGameID = &id
	}
	res.ScannedAt, _ = time.Parse(time.RFC3339, scannedAt)
	return &res, nil
}
