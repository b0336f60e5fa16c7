// Package organize moves verified-bad files into side folders and keeps
// the stored scan results in step with the moves.
//
// Broken files go to the broken folder, unrecognized files to the extra
// folder, and (when configured) all but the first duplicate to the extra
// folder. A plan is built first so callers can show it before applying.
package organize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dbmrq/romple/internal/config"
	"github.com/dbmrq/romple/internal/errors"
	"github.com/dbmrq/romple/internal/logging"
	"github.com/dbmrq/romple/internal/store"
)

// Move is one planned file relocation.
type Move struct {
	Source string
	Dest   string
	// Status is the status recorded once the move is applied.
	Status store.Status
	CRC32  string
}

// Plan lists the moves a run of the organizer would perform.
type Plan struct {
	Moves []Move
	// Skipped lists files that could not be planned (already gone, or
	// outside the scanned folder).
	Skipped []string
}

// Empty reports whether the plan has nothing to do.
func (p *Plan) Empty() bool {
	return len(p.Moves) == 0
}

// Applied summarizes an applied plan.
type Applied struct {
	Moved  int
	Failed []string
}

// Organizer curates a scanned ROM folder based on the stored results.
type Organizer struct {
	store *store.Store
	cfg   *config.Config
}

// New returns an Organizer backed by st, configured by cfg.
func New(st *store.Store, cfg *config.Config) *Organizer {
	return &Organizer{store: st, cfg: cfg}
}

// BuildPlan collects the moves for folder: broken results into the broken
// side folder, unrecognized results into the extra side folder and, when
// duplicate handling is move_extra, duplicates into the extra side folder.
// Only results whose file still exists directly inside folder are planned.
func (o *Organizer) BuildPlan(ctx context.Context, systemID int64, folder string) (*Plan, error) {
	folder, err := filepath.Abs(folder)
	if err != nil {
		return nil, err
	}

	kinds := []struct {
		status    store.Status
		sideDir   string
		newStatus store.Status
	}{
		{store.StatusBroken, o.cfg.Organize.BrokenFolder, store.StatusMovedBroken},
		{store.StatusNotRecognized, o.cfg.Organize.ExtraFolder, store.StatusMovedExtra},
	}
	if o.cfg.Organize.Duplicates == config.DuplicateMoveExtra {
		kinds = append(kinds, struct {
			status    store.Status
			sideDir   string
			newStatus store.Status
		}{store.StatusDuplicate, o.cfg.Organize.ExtraFolder, store.StatusMovedExtra})
	}

	plan := &Plan{}
	for _, k := range kinds {
		results, err := o.store.ResultsByStatus(ctx, systemID, k.status)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			src, err := filepath.Abs(r.FilePath)
			if err != nil || filepath.Dir(src) != folder {
				plan.Skipped = append(plan.Skipped, r.FilePath)
				continue
			}
			if _, err := os.Stat(src); err != nil {
				plan.Skipped = append(plan.Skipped, r.FilePath)
				continue
			}
			plan.Moves = append(plan.Moves, Move{
				Source: src,
				Dest:   filepath.Join(folder, k.sideDir, filepath.Base(src)),
				Status: k.newStatus,
				CRC32:  r.CRC32,
			})
		}
	}
	return plan, nil
}

// Apply performs the plan's moves and records the new statuses and paths.
// A failed move is collected rather than aborting the rest.
func (o *Organizer) Apply(ctx context.Context, systemID int64, plan *Plan) (*Applied, error) {
	applied := &Applied{}
	for _, m := range plan.Moves {
		if err := o.applyMove(ctx, systemID, m); err != nil {
			logging.Warn("move failed", "source", m.Source, "error", err)
			applied.Failed = append(applied.Failed, fmt.Sprintf("%s: %v", filepath.Base(m.Source), err))
			continue
		}
		applied.Moved++
	}

	logging.Info("organize complete", "moved", applied.Moved, "failed", len(applied.Failed))
	if len(applied.Failed) > 0 {
		return applied, errors.New(errors.ErrOrganize,
			fmt.Sprintf("%d of %d moves failed", len(applied.Failed), len(plan.Moves)))
	}
	return applied, nil
}

func (o *Organizer) applyMove(ctx context.Context, systemID int64, m Move) error {
	dir := filepath.Dir(m.Dest)
	if o.cfg.Organize.AutoCreateFolders {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	} else if _, err := os.Stat(dir); err != nil {
		return errors.WithSuggestion(errors.ErrOrganize,
			fmt.Sprintf("side folder does not exist: %s", dir),
			"create the folder or enable organize.auto_create_folders")
	}

	dest := uniqueDest(m.Dest)
	if err := os.Rename(m.Source, dest); err != nil {
		return err
	}

	if err := o.store.UpdateStatusByPath(ctx, systemID, m.Source, m.Status); err != nil {
		return err
	}
	return o.store.UpdatePath(ctx, systemID, m.Source, dest)
}

// uniqueDest appends _1, _2, ... before the extension until the path is
// free.
func uniqueDest(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	for count := 1; ; count++ {
		candidate := fmt.Sprintf("%s_%d%s", base, count, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// Ignore flips the result with the given CRC to ignored, remembering its
// current status.
func (o *Organizer) Ignore(ctx context.Context, systemID int64, crc32 string) error {
	return o.store.IgnoreByCRC(ctx, systemID, crc32)
}

// Unignore restores the result's pre-ignore status.
func (o *Organizer) Unignore(ctx context.Context, systemID int64, crc32 string) error {
	return o.store.UnignoreByCRC(ctx, systemID, crc32)
}
