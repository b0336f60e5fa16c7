package cmd

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores flag defaults; cobra commands keep flag values
// between Execute calls.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := Root()
	resetFlags(root)

	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// useTempDatabase points the store at a per-test database.
func useTempDatabase(t *testing.T) {
	t.Helper()
	t.Setenv("ROMPLE_DATABASE_PATH", filepath.Join(t.TempDir(), "romple.db"))
}

func TestVersionCommand(t *testing.T) {
	useTempDatabase(t)

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	for _, want := range []string{"romple", "Commit:", "OS/Arch:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInitCommand(t *testing.T) {
	useTempDatabase(t)
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	out, err := execute(t, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "Created") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(".romple", "config.yaml")); err != nil {
		t.Errorf("config not written: %v", err)
	}

	// A second run without --force refuses to overwrite.
	if _, err := execute(t, "init"); err == nil {
		t.Error("second init succeeded without --force")
	}
	if _, err := execute(t, "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestDepsCheckCommand(t *testing.T) {
	useTempDatabase(t)

	path := filepath.Join(t.TempDir(), "requirements.txt")
	content := "# tools\nPyQt6>=6.5.0\nrapidfuzz\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "deps", "check", path)
	if err != nil {
		t.Fatalf("deps check: %v", err)
	}
	if !strings.Contains(out, "PyQt6>=6.5.0") || !strings.Contains(out, "rapidfuzz") {
		t.Errorf("output missing requirements:\n%s", out)
	}

	out, err = execute(t, "deps", "check", path, "--have", "PyQt6=6.6.0")
	if err != nil {
		t.Fatalf("deps check --have: %v", err)
	}
	if !strings.Contains(out, "ok (6.6.0)") {
		t.Errorf("satisfied requirement not reported:\n%s", out)
	}

	out, err = execute(t, "deps", "check", path, "--have", "PyQt6=6.0.0")
	if err == nil {
		t.Fatal("unsatisfied requirement did not fail")
	}
	if !strings.Contains(out, "MISMATCH") {
		t.Errorf("mismatch not reported:\n%s", out)
	}
}

func TestDepsCheckNoManifest(t *testing.T) {
	useTempDatabase(t)

	if _, err := execute(t, "deps", "check"); err == nil {
		t.Fatal("deps check without manifests succeeded")
	}
}

// writeDAT writes a one-system DAT whose entries match the given files.
func writeDAT(t *testing.T, dir string, roms map[string]string) string {
	t.Helper()

	var games strings.Builder
	for name, content := range roms {
		fmt.Fprintf(&games,
			"\t<game name=%q>\n\t\t<rom name=%q size=\"%d\" crc=\"%08x\"/>\n\t</game>\n",
			strings.TrimSuffix(name, ".gb"), name, len(content), crc32.ChecksumIEEE([]byte(content)))
	}
	dat := fmt.Sprintf(`<?xml version="1.0"?>
<datafile>
	<header>
		<name>Nintendo - Game Boy</name>
	</header>
%s</datafile>
`, games.String())

	path := filepath.Join(dir, "Nintendo - Game Boy.dat")
	if err := os.WriteFile(path, []byte(dat), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDatImportListScanStatus(t *testing.T) {
	useTempDatabase(t)

	roms := map[string]string{
		"Super Mario Land (World).gb": "mario-rom-data",
		"Tetris (World).gb":           "tetris-rom-data",
	}
	datPath := writeDAT(t, t.TempDir(), roms)

	out, err := execute(t, "dat", "import", datPath)
	if err != nil {
		t.Fatalf("dat import: %v", err)
	}
	if !strings.Contains(out, "Imported 2 games") {
		t.Errorf("import output = %q", out)
	}

	out, err = execute(t, "dat", "list")
	if err != nil {
		t.Fatalf("dat list: %v", err)
	}
	if !strings.Contains(out, "Nintendo - Game Boy") || !strings.Contains(out, "2") {
		t.Errorf("list output = %q", out)
	}

	// A complete folder scans clean.
	folder := t.TempDir()
	for name, content := range roms {
		if err := os.WriteFile(filepath.Join(folder, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out, err = execute(t, "scan", folder, "--system", "Nintendo - Game Boy")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out, "correct") {
		t.Errorf("scan output missing correct count:\n%s", out)
	}

	out, err = execute(t, "status", "--system", "Nintendo - Game Boy")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "correct") || !strings.Contains(out, "total") {
		t.Errorf("status output = %q", out)
	}

	out, err = execute(t, "dat", "remove", "Nintendo - Game Boy")
	if err != nil {
		t.Fatalf("dat remove: %v", err)
	}
	if !strings.Contains(out, "Removed") {
		t.Errorf("remove output = %q", out)
	}
}

func TestStatusGlobal(t *testing.T) {
	useTempDatabase(t)

	out, err := execute(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Systems:") || !strings.Contains(out, "Games:") {
		t.Errorf("output = %q", out)
	}
}

func TestStatusUnknownSystem(t *testing.T) {
	useTempDatabase(t)

	if _, err := execute(t, "status", "--system", "No Such System"); err == nil {
		t.Fatal("status for unknown system succeeded")
	}
}

func TestIgnoreRejectsBadCRC(t *testing.T) {
	useTempDatabase(t)

	if _, err := execute(t, "ignore", "xyz", "--system", "Anything"); err == nil {
		t.Fatal("ignore with malformed CRC succeeded")
	}
}
