package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbmrq/romple/internal/errors"
	"github.com/dbmrq/romple/internal/organize"
)

// ignoreCmd represents the ignore command.
var ignoreCmd = &cobra.Command{
	Use:   "ignore <crc32>",
	Short: "Mark a scan result as ignored",
	Long: `Mark the scan result with the given CRC32 as ignored.

The previous status is remembered, so 'romple unignore' restores it.

Examples:
  romple ignore 90776841 --system "Nintendo - Game Boy"`,
	Args: cobra.ExactArgs(1),
	RunE: runIgnore,
}

// unignoreCmd represents the unignore command.
var unignoreCmd = &cobra.Command{
	Use:   "unignore <crc32>",
	Short: "Restore an ignored scan result to its previous status",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnignore,
}

func init() {
	rootCmd.AddCommand(ignoreCmd)
	rootCmd.AddCommand(unignoreCmd)

	ignoreCmd.Flags().StringP("system", "s", "", "System the result belongs to (required)")
	unignoreCmd.Flags().StringP("system", "s", "", "System the result belongs to (required)")
}

func runIgnore(cmd *cobra.Command, args []string) error {
	return flipIgnore(cmd, args[0], true)
}

func runUnignore(cmd *cobra.Command, args []string) error {
	return flipIgnore(cmd, args[0], false)
}

// flipIgnore applies ignore or unignore for one CRC.
func flipIgnore(cmd *cobra.Command, crc string, ignore bool) error {
	systemName, _ := cmd.Flags().GetString("system")
	crc = strings.ToLower(strings.TrimSpace(crc))

	if len(crc) != 8 {
		return errors.WithSuggestion(errors.ErrNotFound,
			"invalid CRC32: "+crc,
			"pass the 8-digit hex checksum shown by 'romple status --list'")
	}

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
	if ignore {
		if err := org.Ignore(ctx, sys.ID, crc); err != nil {
			return err
		}
		cmd.Printf("Ignored %s\n", crc)
		return nil
	}
	if err := org.Unignore(ctx, sys.ID, crc); err != nil {
		return err
	}
	cmd.Printf("Restored %s\n", crc)
	return nil
}
