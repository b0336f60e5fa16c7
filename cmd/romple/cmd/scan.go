package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dbmrq/romple/internal/errors"
	"github.com/dbmrq/romple/internal/scanner"
	"github.com/dbmrq/romple/internal/tui"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Scan a ROM folder and verify it against the DAT",
	Long: `Scan a ROM folder and verify every file against the imported DAT.

Each file is checksummed and matched by CRC32 and size; near-miss
filenames are matched fuzzily. Results replace any previous scan for the
system. When no folder is given, the system's configured rom_folders are
scanned.

Examples:
  romple scan roms/gb --system "Nintendo - Game Boy"
  romple scan --system "Nintendo - Game Boy"   # configured folders`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("system", "s", "", "System to verify against (required)")
}

// runScan is the main entry point for the scan command.
func runScan(cmd *cobra.Command, args []string) error {
	systemName, _ := cmd.Flags().GetString("system")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sys, err := requireSystem(ctx, st, systemName)
	if err != nil {
		return err
	}

	folders := cfg.ROMFolders(sys.Name)
	if len(args) > 0 {
		folders = args[:1]
	}
	if len(folders) == 0 {
		return errors.WithSuggestion(errors.ErrScan,
			fmt.Sprintf("no ROM folders configured for %s", sys.Name),
			"pass a folder argument or set systems.<name>.rom_folders in the config")
	}

	sc := scanner.New(st, cfg)
	var res *scanner.Result
	err = tui.Run(ctx, fmt.Sprintf("Scanning %s", strings.Join(folders, ", ")), func(ctx context.Context, report tui.Report) error {
		var runErr error
		res, runErr = sc.ScanFolders(ctx, sys.ID, folders, func(p scanner.Progress) {
			report(p.Done, p.Total, filepath.Base(p.File))
		})
		return runErr
	})
	if err != nil {
		return err
	}

	cmd.Println(tui.RenderSummary(sys.Name, res.Summary))
	return nil
}
