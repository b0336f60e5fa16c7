// Package scanner verifies ROM folders against an imported DAT catalog.
//
// A scan walks a folder (non-recursively), checksums every recognized
// file, matches it against the stored DAT entries and persists one result
// per file. DAT entries with no file on disk become synthetic "missing"
// results.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dbmrq/romple/internal/config"
	"github.com/dbmrq/romple/internal/errors"
	"github.com/dbmrq/romple/internal/logging"
	"github.com/dbmrq/romple/internal/match"
	"github.com/dbmrq/romple/internal/store"
)

// supportedExtensions lists the file types treated as ROM images.
var supportedExtensions = map[string]bool{
	".zip": true, ".7z": true, ".rar": true,
	".bin": true, ".rom": true, ".img": true,
	".nes": true, ".smc": true, ".sfc": true,
	".gb": true, ".gbc": true, ".gba": true,
	".md": true, ".smd": true, ".gen": true, ".32x": true,
	".a26": true, ".a52": true, ".a78": true,
	".pce": true, ".tg16": true,
	".ngp": true, ".ngc": true,
	".ws": true, ".wsc": true,
	".chd": true, ".cue": true, ".iso": true, ".pbp": true,
	".n64": true, ".z64": true, ".v64": true,
	".nds": true, ".3ds": true,
	".psp": true, ".cso": true,
}

// missingPathPrefix marks synthetic results for DAT entries without a file.
const missingPathPrefix = "missing://"

// Progress reports aggregate scan progress.
type Progress struct {
	Done  int
	Total int
	File  string
}

// Result is the outcome of a folder scan.
type Result struct {
	// Results holds one entry per scanned file plus one synthetic entry
	// per missing DAT game, in the order they were persisted.
	Results []store.ScanResult
	// Missing counts DAT entries with no file on disk.
	Missing int
	// Summary tallies results per status.
	Summary map[store.Status]int
}

// Scanner verifies ROM files against the games stored for a system.
type Scanner struct {
	store *store.Store
	cfg   *config.Config
}

// New returns a Scanner backed by st, configured by cfg.
func New(st *store.Store, cfg *config.Config) *Scanner {
	return &Scanner{store: st, cfg: cfg}
}

func (s *Scanner) chunkSize() int64 {
	if s.cfg.Scan.ChunkSizeMB <= 0 {
		return DefaultChunkSize
	}
	return int64(s.cfg.Scan.ChunkSizeMB) * 1024 * 1024
}

func (s *Scanner) workers() int {
	if s.cfg.Scan.Workers <= 0 {
		return config.DefaultScanWorkers
	}
	return s.cfg.Scan.Workers
}

func (s *Scanner) threshold() float64 {
	if s.cfg.Match.Threshold <= 0 {
		return config.DefaultMatchThreshold
	}
	return s.cfg.Match.Threshold
}

func (s *Scanner) maxCandidates() int {
	if s.cfg.Match.MaxCandidates <= 0 {
		return config.DefaultMaxCandidates
	}
	return s.cfg.Match.MaxCandidates
}

func (s *Scanner) ignoredCRC(crc string) bool {
	for _, c := range s.cfg.IgnoredCRCs {
		if strings.EqualFold(c, crc) {
			return true
		}
	}
	return false
}

// ScanFile checksums a single file and decides its status against the
// system's DAT entries. Read and lookup failures are reported as a broken
// result rather than an error, so one bad file never aborts a folder scan.
func (s *Scanner) ScanFile(ctx context.Context, systemID int64, path string) store.ScanResult {
	res := store.ScanResult{
		SystemID:  systemID,
		FilePath:  path,
		ScannedAt: time.Now().UTC(),
	}

	info, err := os.Stat(path)
	if err != nil {
		res.Status = store.StatusBroken
		res.ErrorMessage = err.Error()
		return res
	}
	res.FileSize = info.Size()

	sums, err := ChecksumFile(path, s.chunkSize(), s.cfg.Scan.Hashes, nil)
	if err != nil {
		res.Status = store.StatusBroken
		res.ErrorMessage = "could not read file: " + err.Error()
		return res
	}
	res.CRC32 = sums.CRC32

	if s.ignoredCRC(sums.CRC32) {
		res.Status = store.StatusIgnored
		return res
	}

	// Exact match by checksum and size.
	game, err := s.store.GetGameByCRC(ctx, systemID, sums.CRC32, res.FileSize)
	if err != nil {
		res.Status = store.StatusBroken
		res.ErrorMessage = err.Error()
		return res
	}
	if game != nil {
		res.MatchedGameID = &game.ID
		res.Similarity = 1.0
		if strings.EqualFold(filepath.Base(path), game.DATROMName) {
			res.Status = store.StatusCorrect
		} else {
			res.Status = store.StatusWrongFilename
		}
		return res
	}

	// No checksum match. A similar filename means the right game with the
	// wrong bits; otherwise the file is not in the DAT at all.
	best, score, ok := s.bestNameMatch(ctx, systemID, path)
	res.Similarity = score
	if ok && score > s.threshold() {
		res.Status = store.StatusBroken
		res.MatchedGameID = &best
	} else {
		res.Status = store.StatusNotRecognized
	}
	return res
}

// bestNameMatch searches the DAT for names similar to the file's stem and
// returns the closest game's ID and similarity score.
func (s *Scanner) bestNameMatch(ctx context.Context, systemID int64, path string) (int64, float64, bool) {
	fileStem := stem(filepath.Base(path))

	// Search by the title portion of the stem; parenthesized attributes
	// rarely survive a rename intact.
	query := fileStem
	if i := strings.IndexByte(query, '('); i >= 0 {
		query = strings.TrimSpace(query[:i])
	}
	if query == "" {
		query = fileStem
	}

	games, err := s.store.SearchGamesByName(ctx, systemID, query, s.maxCandidates())
	if err != nil {
		logging.Warn("candidate search failed", "file", path, "error", err)
		return 0, 0, false
	}

	candidates := make([]match.Candidate, 0, len(games))
	for _, g := range games {
		candidates = append(candidates, match.Candidate{
			ID:    g.ID,
			Names: []string{stem(g.DATROMName), g.MajorName},
		})
	}
	if len(candidates) == 0 {
		return 0, 0, false
	}

	best, score, ok := match.BestMatch(fileStem, candidates)
	return best.ID, score, ok
}

// ScanFolder scans every recognized file directly inside folder, persists
// the results for the system (replacing any previous scan) and returns
// them together with a per-status summary. progress, when non-nil, is
// called once per completed file.
func (s *Scanner) ScanFolder(ctx context.Context, systemID int64, folder string, progress func(Progress)) (*Result, error) {
	return s.ScanFolders(ctx, systemID, []string{folder}, progress)
}

// ScanFolders scans a set of folders as one pass, so duplicates are found
// across folders and the stored results cover the whole set.
func (s *Scanner) ScanFolders(ctx context.Context, systemID int64, folders []string, progress func(Progress)) (*Result, error) {
	var files []string
	for _, folder := range folders {
		found, err := listROMFiles(folder)
		if err != nil {
			return nil, errors.ScanFolderError(folder, err)
		}
		files = append(files, found...)
	}

	logging.Info("scanning folders",
		"folders", strings.Join(folders, ", "),
		"files", len(files),
		"workers", s.workers(),
	)

	results := make([]store.ScanResult, len(files))
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.ScanFile(gctx, systemID, file)

			mu.Lock()
			done++
			d := done
			mu.Unlock()
			if progress != nil {
				progress(Progress{Done: d, Total: len(files), File: file})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	markDuplicates(results)

	missing, err := s.missingResults(ctx, systemID, results)
	if err != nil {
		return nil, err
	}
	all := append(results, missing...)

	if err := s.store.ReplaceResults(ctx, systemID, all); err != nil {
		return nil, err
	}

	res := &Result{
		Results: all,
		Missing: len(missing),
		Summary: Summarize(all),
	}
	logging.Info("scan complete",
		"scanned", len(results),
		"missing", len(missing),
	)
	return res, nil
}

// listROMFiles returns the recognized files directly inside folder, in
// name order. Subfolders (including the organizer's side folders) are not
// descended into.
func listROMFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(folder, e.Name()))
		}
	}
	return files, nil
}

// markDuplicates flips every file after the first with the same CRC32 to
// the duplicate status. Results arrive in file name order, so the first
// occurrence deterministically keeps its status.
func markDuplicates(results []store.ScanResult) {
	seen := make(map[string]bool)
	for i := range results {
		r := &results[i]
		if r.CRC32 == "" || r.Status == store.StatusBroken {
			continue
		}
		if seen[r.CRC32] {
			r.Status = store.StatusDuplicate
			continue
		}
		seen[r.CRC32] = true
	}
}

// missingResults builds synthetic results for DAT entries whose checksum
// matched no scanned file. Games excluded by the filter settings are not
// counted as missing.
func (s *Scanner) missingResults(ctx context.Context, systemID int64, scanned []store.ScanResult) ([]store.ScanResult, error) {
	games, err := s.store.ListGames(ctx, systemID)
	if err != nil {
		return nil, err
	}

	// Only verified matches count as found. A file whose CRC collides
	// with a DAT entry but lands on another status does not have it.
	found := make(map[string]bool, len(scanned))
	for _, r := range scanned {
		switch r.Status {
		case store.StatusCorrect, store.StatusWrongFilename:
			found[r.CRC32] = true
		}
	}

	now := time.Now().UTC()
	seen := make(map[string]bool)
	var missing []store.ScanResult
	for _, g := range games {
		// Clone entries can share a checksum; one missing row per CRC.
		if found[g.CRC32] || seen[g.CRC32] || !includeGame(g, s.cfg.Filter) {
			continue
		}
		seen[g.CRC32] = true
		id := g.ID
		missing = append(missing, store.ScanResult{
			SystemID:      systemID,
			FilePath:      missingPathPrefix + g.CRC32,
			CRC32:         g.CRC32,
			Status:        store.StatusMissing,
			MatchedGameID: &id,
			ScannedAt:     now,
		})
	}
	return missing, nil
}

// includeGame reports whether the filter settings count g toward a
// complete set.
func includeGame(g store.Game, f config.FilterConfig) bool {
	switch {
	case g.IsBeta && !f.ShowBeta:
		return false
	case g.IsDemo && !f.ShowDemo:
		return false
	case g.IsProto && !f.ShowProto:
		return false
	case g.IsUnlicensed && !f.ShowUnlicensed:
		return false
	case g.IsTranslation && !f.ShowTranslation:
		return false
	case g.IsModified && !f.ShowModified:
		return false
	case g.IsOverdump && !f.ShowOverdump:
		return false
	}
	return true
}

// Summarize tallies results per status.
func Summarize(results []store.ScanResult) map[store.Status]int {
	summary := make(map[store.Status]int)
	for _, r := range results {
		summary[r.Status]++
	}
	return summary
}

// Duplicates groups results sharing a CRC32 and returns the groups with
// more than one file.
func Duplicates(results []store.ScanResult) [][]store.ScanResult {
	groups := make(map[string][]store.ScanResult)
	var order []string
	for _, r := range results {
		if r.CRC32 == "" || r.Status == store.StatusBroken || r.Status == store.StatusMissing {
			continue
		}
		if _, ok := groups[r.CRC32]; !ok {
			order = append(order, r.CRC32)
		}
		groups[r.CRC32] = append(groups[r.CRC32], r)
	}

	var dups [][]store.ScanResult
	for _, crc := range order {
		if g := groups[crc]; len(g) > 1 {
			dups = append(dups, g)
		}
	}
	return dups
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
