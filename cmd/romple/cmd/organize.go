package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dbmrq/romple/internal/organize"
)

// organizeCmd represents the organize command.
var organizeCmd = &cobra.Command{
	Use:   "organize <folder>",
	Short: "Move broken and unrecognized files into side folders",
	Long: `Move broken files into the broken side folder and unrecognized
files into the extra side folder, based on the stored scan results.

Without --yes the planned moves are printed and nothing is touched.

Examples:
  romple organize roms/gb --system "Nintendo - Game Boy"        # dry run
  romple organize roms/gb --system "Nintendo - Game Boy" --yes  # apply`,
	Args: cobra.ExactArgs(1),
	RunE: runOrganize,
}

func init() {
	rootCmd.AddCommand(organizeCmd)

	organizeCmd.Flags().StringP("system", "s", "", "System whose results drive the moves (required)")
	organizeCmd.Flags().BoolP("yes", "y", false, "Apply the moves instead of printing the plan")
}

// runOrganize is the main entry point for the organize command.
func runOrganize(cmd *cobra.Command, args []string) error {
	systemName, _ := cmd.Flags().GetString("system")
	apply, _ := cmd.Flags().GetBool("yes")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx := cmd.Context()
	sys, err := requireSystem(ctx, st, systemName)
	if err != nil {
		return err
	}

	org := organize.New(st, cfg)
	plan, err := org.BuildPlan(ctx, sys.ID, args[0])
	if err != nil {
		return err
	}

	if plan.Empty() {
		cmd.Println("Nothing to organize.")
		return nil
	}

	for _, m := range plan.Moves {
		rel, err := filepath.Rel(args[0], m.Dest)
		if err != nil {
			rel = m.Dest
		}
		cmd.Printf("  %s -> %s\n", filepath.Base(m.Source), rel)
	}
	for _, s := range plan.Skipped {
		cmd.Printf("  skipping %s (not in folder)\n", filepath.Base(s))
	}

	if !apply {
		cmd.Printf("\n%d move(s) planned. Re-run with --yes to apply.\n", len(plan.Moves))
		return nil
	}

	applied, err := org.Apply(ctx, sys.ID, plan)
	if applied != nil {
		cmd.Printf("\nMoved %d file(s)\n", applied.Moved)
		for _, f := range applied.Failed {
			cmd.Println("  failed:", f)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Rescan the folder to refresh the stored results.")
	return nil
}
