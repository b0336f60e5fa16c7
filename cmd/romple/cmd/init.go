package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dbmrq/romple/internal/config"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration",
	Long: `Write a default configuration to .romple/config.yaml in the
current directory.

Use --force to overwrite an existing configuration.

Examples:
  romple init          # Initialize in current directory
  romple init --force  # Overwrite existing config`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing configuration")
}

// runInit is the main entry point for the init command.
func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path, err := config.WriteDefault(".", force)
	if err != nil {
		return err
	}

	cmd.Println("Created", path)
	cmd.Println("")
	cmd.Println("Edit it to point at your DAT folder and ROM folders, then run")
	cmd.Println("'romple dat import <folder>' to build the catalog.")
	return nil
}
