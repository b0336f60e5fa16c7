package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dbmrq/romple/internal/errors"
	"github.com/dbmrq/romple/internal/manifest"
)

// depsCmd groups the dependency manifest commands.
var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Work with tool dependency manifests",
}

// depsCheckCmd represents the deps check command.
var depsCheckCmd = &cobra.Command{
	Use:   "check [manifest...]",
	Short: "Parse dependency manifests and check versions against them",
	Long: `Parse requirements-style dependency manifests and print their
entries. Each line is '<name><comparator><version>' (e.g. 'sqlite>=3.40'),
a bare name, a comment or blank.

With --have, installed versions are checked against the constraints.
Without arguments the manifests configured under manifests.paths are used.

Examples:
  romple deps check requirements.txt
  romple deps check requirements.txt --have sqlite=3.45.1`,
	RunE: runDepsCheck,
}

func init() {
	rootCmd.AddCommand(depsCmd)
	depsCmd.AddCommand(depsCheckCmd)

	depsCheckCmd.Flags().StringArray("have", nil, "Installed version as name=version (repeatable)")
}

// runDepsCheck is the main entry point for the deps check command.
func runDepsCheck(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = cfg.Manifests.Paths
	}
	if len(paths) == 0 {
		return errors.WithSuggestion(errors.ErrManifest,
			"no manifest given",
			"pass a manifest path or set manifests.paths in the config")
	}

	have, err := parseHave(cmd)
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range paths {
		reqs, err := manifest.ParseFile(path)
		if err != nil {
			return err
		}

		cmd.Println(path)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, r := range reqs {
			state := ""
			if v, ok := have[strings.ToLower(r.Name)]; ok {
				switch match, err := checkRequirement(r, v); {
				case err != nil:
					state = fmt.Sprintf("? %v", err)
				case match:
					state = fmt.Sprintf("ok (%s)", v)
				default:
					state = fmt.Sprintf("MISMATCH (have %s)", v)
					failed++
				}
			}
			fmt.Fprintf(w, "  %s\t%s\n", r.String(), state)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if failed > 0 {
		return errors.New(errors.ErrManifest,
			fmt.Sprintf("%d requirement(s) not satisfied", failed))
	}
	return nil
}

// checkRequirement evaluates one requirement against an installed version.
// A requirement without a constraint is satisfied by any version.
func checkRequirement(r manifest.Requirement, version string) (bool, error) {
	if r.Constraint == nil {
		return true, nil
	}
	return r.Constraint.Matches(version)
}

// parseHave reads the repeatable --have name=version flags.
func parseHave(cmd *cobra.Command) (map[string]string, error) {
	pairs, _ := cmd.Flags().GetStringArray("have")

	have := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, version, ok := strings.Cut(p, "=")
		if !ok || name == "" || version == "" {
			return nil, fmt.Errorf("invalid --have %q, want name=version", p)
		}
		have[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(version)
	}
	return have, nil
}
