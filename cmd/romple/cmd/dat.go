package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dbmrq/romple/internal/dat"
	"github.com/dbmrq/romple/internal/errors"
	"github.com/dbmrq/romple/internal/tui"
)

// datCmd groups the DAT catalog commands.
var datCmd = &cobra.Command{
	Use:   "dat",
	Short: "Manage imported DAT catalogs",
}

// datImportCmd represents the dat import command.
var datImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import a DAT file or a folder of DAT files",
	Long: `Import No-Intro style DAT files into the local database.

<path> may be a single .dat/.xml file or a folder; folders are searched
recursively. Re-importing a system replaces its games.

Examples:
  romple dat import roms/dats/          # Import every DAT in a folder
  romple dat import "Nintendo - Game Boy.dat"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDatImport,
}

// datListCmd represents the dat list command.
var datListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported systems",
	Args:  cobra.NoArgs,
	RunE:  runDatList,
}

// datRemoveCmd represents the dat remove command.
var datRemoveCmd = &cobra.Command{
	Use:   "remove <system>",
	Short: "Remove an imported system and its scan results",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatRemove,
}

func init() {
	rootCmd.AddCommand(datCmd)
	datCmd.AddCommand(datImportCmd)
	datCmd.AddCommand(datListCmd)
	datCmd.AddCommand(datRemoveCmd)
}

// runDatImport imports a DAT file or folder.
func runDatImport(cmd *cobra.Command, args []string) error {
	path := cfg.DAT.Folder
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.WithSuggestion(errors.ErrConfig,
			"no DAT path given",
			"pass a file or folder, or set dat.folder in the config")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	info, err := os.Stat(path)
	if err != nil {
		return errors.DATParseError(path, err)
	}

	ctx := cmd.Context()
	importer := dat.NewImporter(st)

	if !info.IsDir() {
		return importDATFile(ctx, cmd, importer, path)
	}

	var res dat.FolderResult
	err = tui.Run(ctx, fmt.Sprintf("Importing DATs from %s", path), func(ctx context.Context, report tui.Report) error {
		var runErr error
		res, runErr = importer.ImportFolder(ctx, path, func(done, total int) {
			report(done, total, "")
		})
		return runErr
	})
	if err != nil {
		return err
	}

	cmd.Printf("Imported %d of %d DAT files (%d games)\n", res.Imported, res.Total, res.Games)
	for _, f := range res.Failed {
		cmd.Println("  failed:", f)
	}
	return nil
}

func importDATFile(ctx context.Context, cmd *cobra.Command, importer *dat.Importer, path string) error {
	var games int
	err := tui.Run(ctx, fmt.Sprintf("Importing %s", path), func(ctx context.Context, report tui.Report) error {
		var runErr error
		_, games, runErr = importer.ImportFile(ctx, path, func(done, total int) {
			report(done, total, "")
		})
		return runErr
	})
	if err != nil {
		return err
	}
	cmd.Printf("Imported %d games\n", games)
	return nil
}

// runDatList prints the imported systems.
func runDatList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	systems, err := st.ListSystems(cmd.Context())
	if err != nil {
		return err
	}
	if len(systems) == 0 {
		cmd.Println("No systems imported yet. Run 'romple dat import <path>'.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYSTEM\tGAMES\tUPDATED\tDAT")
	for _, s := range systems {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			s.Name, s.GameCount, s.UpdatedAt.Format("2006-01-02"), s.DATPath)
	}
	return w.Flush()
}

// runDatRemove deletes a system and everything stored for it.
func runDatRemove(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx := cmd.Context()
	sys, err := requireSystem(ctx, st, args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteSystem(ctx, sys.ID); err != nil {
		return err
	}
	cmd.Printf("Removed %s (%d games)\n", sys.Name, sys.GameCount)
	return nil
}
