package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dbmrq/romple/internal/dat"
)

// newTestStore opens a store backed by a real SQLite file in a temp dir.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "romple.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testGames() []dat.Game {
	return []dat.Game{
		{
			DATGameName: "Super Mario Land (World)",
			DATROMName:  "Super Mario Land (World).gb",
			MajorName:   "Super Mario Land",
			Region:      "World",
			Languages:   "En",
			CRC32:       "90776841",
			Size:        65536,
		},
		{
			DATGameName: "Tetris (World) (Rev A)",
			DATROMName:  "Tetris (World) (Rev A).gb",
			MajorName:   "Tetris",
			Region:      "World",
			Languages:   "En",
			CRC32:       "46df91ad",
			Size:        32768,

			ReleaseVersion: 1,
		},
	}
}

func TestUpsertSystem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertSystem(ctx, "Nintendo - Game Boy", "/dats/gb.dat")
	if err != nil {
		t.Fatalf("UpsertSystem() error = %v", err)
	}
	if id == 0 {
		t.Fatal("UpsertSystem() returned zero ID")
	}

	// Upserting the same name keeps the ID and updates the path
	id2, err := s.UpsertSystem(ctx, "Nintendo - Game Boy", "/dats/gb-v2.dat")
	if err != nil {
		t.Fatalf("second UpsertSystem() error = %v", err)
	}
	if id2 != id {
		t.Errorf("upsert changed ID: %d != %d", id2, id)
	}

	sys, err := s.GetSystemByName(ctx, "Nintendo - Game Boy")
	if err != nil {
		t.Fatalf("GetSystemByName() error = %v", err)
	}
	if sys == nil {
		t.Fatal("GetSystemByName() = nil")
	}
	if sys.DATPath != "/dats/gb-v2.dat" {
		t.Errorf("DATPath = %q, want updated path", sys.DATPath)
	}
}

func TestGetSystemByName_Unknown(t *testing.T) {
	s := newTestStore(t)

	sys, err := s.GetSystemByName(context.Background(), "no such system")
	if err != nil {
		t.Fatalf("GetSystemByName() error = %v", err)
	}
	if sys != nil {
		t.Errorf("GetSystemByName() = %+v, want nil", sys)
	}
}

func TestReplaceGames(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertSystem(ctx, "Nintendo - Game Boy", "/dats/gb.dat")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.ReplaceGames(ctx, id, testGames(), nil); err != nil {
		t.Fatalf("ReplaceGames() error = %v", err)
	}

	games, err := s.ListGames(ctx, id)
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("ListGames() returned %d games, want 2", len(games))
	}

	// game_count updated on the system
	sys, _ := s.GetSystemByName(ctx, "Nintendo - Game Boy")
	if sys.GameCount != 2 {
		t.Errorf("GameCount = %d, want 2", sys.GameCount)
	}

	// Re-import replaces rather than appends
	if err := s.ReplaceGames(ctx, id, testGames()[:1], nil); err != nil {
		t.Fatalf("second ReplaceGames() error = %v", err)
	}
	games, _ = s.ListGames(ctx, id)
	if len(games) != 1 {
		t.Errorf("after re-import, %d games, want 1", len(games))
	}
}

func TestGetGameByCRC(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _ := s.UpsertSystem(ctx, "Nintendo - Game Boy", "/dats/gb.dat")
	if err := s.ReplaceGames(ctx, id, testGames(), nil); err != nil {
		t.Fatal(err)
	}

	// Lookup is case-insensitive on CRC
	g, err := s.GetGameByCRC(ctx, id, "46DF91AD", 32768)
	if err != nil {
		t.Fatalf("GetGameByCRC() error = %v", err)
	}
	if g == nil {
		t.Fatal("GetGameByCRC() = nil, want Tetris")
	}
	if g.MajorName != "Tetris" {
		t.Errorf("MajorName = %q, want Tetris", g.MajorName)
	}

	// Size mismatch misses
	g, err = s.GetGameByCRC(ctx, id, "46df91ad", 1)
	if err != nil {
		t.Fatal(err)
	}
	if g != nil {
		t.Error("GetGameByCRC() with wrong size should return nil")
	}
}

func TestSearchGamesByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _ := s.UpsertSystem(ctx, "Nintendo - Game Boy", "/dats/gb.dat")
	if err := s.ReplaceGames(ctx, id, testGames(), nil); err != nil {
		t.Fatal(err)
	}

	games, err := s.SearchGamesByName(ctx, id, "Mario", 10)
	if err != nil {
		t.Fatalf("SearchGamesByName() error = %v", err)
	}
	if len(games) != 1 || games[0].MajorName != "Super Mario Land" {
		t.Errorf("SearchGamesByName(Mario) = %+v, want Super Mario Land", games)
	}
}

func TestDeleteSystem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _ := s.UpsertSystem(ctx, "Nintendo - Game Boy", "/dats/gb.dat")
	if err := s.ReplaceGames(ctx, id, testGames(), nil); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteSystem(ctx, id); err != nil {
		t.Fatalf("DeleteSystem() error = %v", err)
	}

	sys, _ := s.GetSystemByName(ctx, "Nintendo - Game Boy")
	if sys != nil {
		t.Error("system should be gone")
	}

	stats, err := s.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Games != 0 {
		t.Errorf("Games = %d after delete, want 0", stats.Games)
	}
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _ := s.UpsertSystem(ctx, "Nintendo - Game Boy", "/dats/gb.dat")
	if err := s.ReplaceGames(ctx, id, testGames(), nil); err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.Systems != 1 || stats.Games != 2 {
		t.Errorf("GetStats() = %+v, want 1 system, 2 games", stats)
	}
}
