package dat

import (
	"context"

	"github.com/dbmrq/romple/internal/logging"
)

// Store is the persistence surface the importer needs.
type Store interface {
	UpsertSystem(ctx context.Context, name, datPath string) (int64, error)
	ReplaceGames(ctx context.Context, systemID int64, games []Game, progress func(done, total int)) error
}

// Importer writes parsed DAT files into the store.
type Importer struct {
	store Store
}

// NewImporter creates an importer backed by the given store.
func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// ImportFile parses and imports a single DAT file. progress, when non-nil,
// receives per-game progress. Returns the system ID and game count.
func (i *Importer) ImportFile(ctx context.Context, path string, progress func(done, total int)) (int64, int, error) {
	parsed, err := ParseFile(path)
	if err != nil {
		return 0, 0, err
	}

	systemID, err := i.store.UpsertSystem(ctx, parsed.SystemName, path)
	if err != nil {
		return 0, 0, err
	}

	if err := i.store.ReplaceGames(ctx, systemID, parsed.Games, progress); err != nil {
		return 0, 0, err
	}

	logging.Info("imported dat file",
		"path", path,
		"system", parsed.SystemName,
		"games", len(parsed.Games),
	)

	return systemID, len(parsed.Games), nil
}

// FolderResult summarizes a folder import.
type FolderResult struct {
	Imported int
	Total    int
	Games    int
	Failed   []string
}

// ImportFolder imports every DAT file under dir. progress, when non-nil,
// receives per-file progress. Files that fail to parse are collected
// rather than aborting the rest of the import.
func (i *Importer) ImportFolder(ctx context.Context, dir string, progress func(done, total int)) (FolderResult, error) {
	files, err := ScanFolder(dir)
	if err != nil {
		return FolderResult{}, err
	}

	res := FolderResult{Total: len(files)}
	for n, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if _, games, err := i.ImportFile(ctx, path, nil); err != nil {
			logging.Warn("skipping dat file", "path", path, "error", err)
			res.Failed = append(res.Failed, path)
		} else {
			res.Imported++
			res.Games += games
		}

		if progress != nil {
			progress(n+1, len(files))
		}
	}

	return res, nil
}
