// Package cli implements the changeforge command line interface.
package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changeforge/internal/errors"
	"github.com/ariel-frischer/changeforge/internal/gitlog"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "changeforge",
	Short: "Generate changelogs from git commit history",
	Long: `changeforge turns a repository's commit history into a categorized
changelog. Commits are classified by conventional commit prefixes (with a
keyword fallback), grouped by version tags, and rendered as markdown,
plain text, or a round-trippable YAML tree.`,
	Example: `  # Write CHANGELOG.md for the current repository
  changeforge generate

  # Grade commit message compliance
  changeforge check`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			gitlog.SetDebugLogger(func(format string, args ...any) {
				fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
			})
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug output")
}

// Execute runs the root command. Structured CLI errors are printed with
// their remediation steps; other errors get the plain cobra treatment.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	var cliErr *errors.CLIError
	if stderrors.As(err, &cliErr) {
		errors.PrintError(cliErr)
	} else if !isExitError(err) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// isExitError reports whether err only carries an exit code. Those
// errors have already reported their cause and need no extra line.
func isExitError(err error) bool {
	var exitErr *ExitError
	return stderrors.As(err, &exitErr)
}
