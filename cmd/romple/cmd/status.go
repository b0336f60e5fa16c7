package cmd

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dbmrq/romple/internal/store"
	"github.com/dbmrq/romple/internal/tui"
)

// statusCmd represents the status command.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored scan results for a system",
	Long: `Show the stored scan results for a system.

With --system a per-status summary for that system is printed; without
it, database-wide totals. Use --list to print the files with a given
status.

Examples:
  romple status                                 # database totals
  romple status --system "Nintendo - Game Boy"
  romple status --system "Nintendo - Game Boy" --list broken`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringP("system", "s", "", "System to report on")
	statusCmd.Flags().StringP("list", "l", "", "List files with this status (e.g. broken, missing)")
}

// runStatus is the main entry point for the status command.
func runStatus(cmd *cobra.Command, args []string) error {
	systemName, _ := cmd.Flags().GetString("system")
	listStatus, _ := cmd.Flags().GetString("list")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx := cmd.Context()

	if systemName == "" && listStatus == "" {
		stats, err := st.GetStats(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("Systems:      %d\n", stats.Systems)
		cmd.Printf("Games:        %d\n", stats.Games)
		cmd.Printf("Scan results: %d\n", stats.ScanResults)
		return nil
	}

	sys, err := requireSystem(ctx, st, systemName)
	if err != nil {
		return err
	}

	if listStatus != "" {
		return listByStatus(cmd, st, sys, store.Status(listStatus))
	}

	summary, err := st.Summary(ctx, sys.ID)
	if err != nil {
		return err
	}
	cmd.Println(tui.RenderSummary(sys.Name, summary))
	return nil
}

// listByStatus prints every result with the given status.
func listByStatus(cmd *cobra.Command, st *store.Store, sys *store.System, status store.Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}

	results, err := st.ResultsByStatus(cmd.Context(), sys.ID, status)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		cmd.Printf("No %s files for %s\n", status, sys.Name)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tCRC32\tSIMILARITY")
	for _, r := range results {
		sim := "-"
		if r.Similarity > 0 && r.Similarity < 1 {
			sim = fmt.Sprintf("%.2f", r.Similarity)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", filepath.Base(r.FilePath), r.CRC32, sim)
	}
	return w.Flush()
}
