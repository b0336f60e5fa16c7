// Package cmd provides the CLI commands for romple.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbmrq/romple/internal/config"
	"github.com/dbmrq/romple/internal/errors"
	"github.com/dbmrq/romple/internal/logging"
	"github.com/dbmrq/romple/internal/store"
)

// Version information - set via ldflags at build time in main.go.
// These are exported so main.go can set them before Execute().
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// cfg holds the configuration loaded by the persistent pre-run.
var cfg *config.Config

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "romple",
	Short: "Romple - ROM collection auditing",
	Long: `Romple audits ROM collections against No-Intro style DAT files.

It imports DAT catalogs into a local database, scans ROM folders to
verify every file by checksum, reports what is correct, broken, missing
or unrecognized, and moves bad files into side folders on request.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Set version info here after main.go has set the variables.
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	rootCmd.SetVersionTemplate("romple {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		var re *errors.RompleError
		if errors.As(err, &re) {
			fmt.Fprintln(os.Stderr, re.Format())
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// Root returns the root command for testing purposes.
func Root() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default .romple/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentPreRunE = setup
}

// setup loads the configuration and initializes logging for every command.
func setup(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	loaded, err := config.NewLoader().LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	logLevel := logging.LevelInfo
	if verbose {
		logLevel = logging.LevelDebug
	}
	logConfig := &logging.Config{
		Level:       logLevel,
		LogDir:      filepath.Join(filepath.Dir(cfg.Database.Path), "logs"),
		MaxLogFiles: 10,
		MaxLogAge:   7 * 24 * time.Hour,
		Console:     false, // Don't mix log output with the TUI
		JSONFormat:  false,
	}
	if err := logging.InitGlobal(logConfig); err != nil {
		// Non-fatal: warn but continue without file logging
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to initialize logging: %v\n", err)
	} else {
		logging.Info("romple starting", "version", Version, "command", cmd.Name())
	}
	return nil
}

// openStore opens the configured database.
func openStore() (*store.Store, error) {
	return store.Open(cfg.Database.Path)
}

// requireSystem looks up a system by name and fails with a suggestion when
// it is not imported yet.
func requireSystem(ctx context.Context, st *store.Store, name string) (*store.System, error) {
	if name == "" {
		return nil, errors.WithSuggestion(errors.ErrConfig,
			"no system specified",
			"pass --system <name>; see 'romple dat list' for imported systems")
	}
	sys, err := st.GetSystemByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if sys == nil {
		return nil, errors.SystemNotFound(name)
	}
	return sys, nil
}
