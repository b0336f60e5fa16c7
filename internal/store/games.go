package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dbmrq/romple/internal/dat"
)

const gameColumns = `id, system_id, dat_game_name, dat_rom_name, major_name,
	region, languages, is_beta, is_demo, is_proto, is_unlicensed,
	release_version, is_translation, is_verified, is_modified, is_pirate,
	is_hack, is_trainer, is_overdump, crc32, size, md5, sha1, clone_of,
	disc_info`

// ReplaceGames atomically replaces all games of a system with the given DAT
// entries and refreshes the system's game count. A failure leaves the
// previous games untouched. progress, when non-nil, is called after each
// inserted game with (done, total).
func (s *Store) ReplaceGames(ctx context.Context, systemID int64, games []dat.Game, progress func(done, total int)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM games WHERE system_id = ?`, systemID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO games (system_id, dat_game_name, dat_rom_name, major_name,
		region, languages, is_beta, is_demo, is_proto, is_unlicensed,
		release_version, is_translation, is_verified, is_modified, is_pirate,
		is_hack, is_trainer, is_overdump, crc32, size, md5, sha1, clone_of,
		disc_info, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, g := range games {
		_, err := stmt.ExecContext(ctx,
			systemID, g.DATGameName, g.DATROMName, g.MajorName,
			g.Region, g.Languages, g.IsBeta, g.IsDemo, g.IsProto, g.IsUnlicensed,
			g.ReleaseVersion, g.IsTranslation, g.IsVerified, g.IsModified, g.IsPirate,
			g.IsHack, g.IsTrainer, g.IsOverdump, strings.ToLower(g.CRC32), g.Size,
			g.MD5, g.SHA1, g.CloneOf, g.DiscInfo, now,
		)
		if err != nil {
			return err
		}
		if progress != nil {
			progress(i+1, len(games))
		}
	}

	if _, err := tx.ExecContext(ctx, `
	UPDATE systems
	SET game_count = (SELECT COUNT(*) FROM games WHERE system_id = ?)
	WHERE id = ?
	`, systemID, systemID); err != nil {
		return err
	}

	return tx.Commit()
}

// GetGameByCRC looks up a game by checksum and file size, or nil when absent.
func (s *Store) GetGameByCRC(ctx context.Context, systemID int64, crc32 string, size int64) (*Game, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT `+gameColumns+`
	FROM games
	WHERE system_id = ? AND crc32 = ? AND size = ?
	`, systemID, strings.ToLower(crc32), size)

	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

// SearchGamesByName returns up to limit games whose ROM or major name
// contains the search term.
func (s *Store) SearchGamesByName(ctx context.Context, systemID int64, name string, limit int) ([]Game, error) {
	term := "%" + name + "%"
	rows, err := s.db.QueryContext(ctx, `
	SELECT `+gameColumns+`
	FROM games
	WHERE system_id = ? AND (dat_rom_name LIKE ? OR major_name LIKE ?)
	ORDER BY major_name
	LIMIT ?
	`, systemID, term, term, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectGames(rows)
}

// ListGames retrieves all games for a system ordered by major name and region.
func (s *Store) ListGames(ctx context.Context, systemID int64) ([]Game, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT `+gameColumns+`
	FROM games
	WHERE system_id = ?
	ORDER BY major_name, region
	`, systemID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectGames(rows)
}

// GetGameByID retrieves a game by its row ID, or nil when absent.
func (s *Store) GetGameByID(ctx context.Context, id int64) (*Game, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT `+gameColumns+`
	FROM games
	WHERE id = ?
	`, id)

	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

func collectGames(rows *sql.Rows) ([]Game, error) {
	var games []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

func scanGame(r rowScanner) (*Game, error) {
	var g Game
	var region, languages, md5, sha1, cloneOf, discInfo sql.NullString

	err := r.Scan(
		&g.ID, &g.SystemID, &g.DATGameName, &g.DATROMName, &g.MajorName,
		&region, &languages, &g.IsBeta, &g.IsDemo, &g.IsProto, &g.IsUnlicensed,
		&g.ReleaseVersion, &g.IsTranslation, &g.IsVerified, &g.IsModified, &g.IsPirate,
		&g.IsHack, &g.IsTrainer, &g.IsOverdump, &g.CRC32, &g.Size, &md5, &sha1,
		&cloneOf, &discInfo,
	)
	if err != nil {
		return nil, err
	}

	g.Region = region.String
	g.Languages = languages.String
	g.MD5 = md5.String
	g.SHA1 = sha1.String
	g.CloneOf = cloneOf.String
	g.DiscInfo = discInfo.String
	return &g, nil
}
