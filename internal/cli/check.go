package cli

import (
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changeforge/internal/changelog"
	"github.com/ariel-frischer/changeforge/internal/errors"
	"github.com/ariel-frischer/changeforge/internal/gitlog"
)

var (
	checkPlainFlag      bool
	checkMaxCommitsFlag int
	checkStrictFlag     bool
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Check commit message compliance",
	Long: `Check how well the repository's commit messages follow the conventional
commit format, and grade the result.

The compliance percentage is the share of commits matching the
conventional format (type(scope)!: description). Grades: A at 90%+,
B at 75%+, C at 50%+, D at 25%+, F below that.

Exits non-zero when the grade is F, so the check can gate CI. Use
--strict to require an A instead.

Examples:
  changeforge check                  # Grade the current repository
  changeforge check /path/to/repo    # Grade another repository
  changeforge check --strict         # Fail on anything below an A
  changeforge check --plain          # Plain output (no colors)`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkPlainFlag, "plain", false, "Plain output (no colors)")
	checkCmd.Flags().IntVar(&checkMaxCommitsFlag, "max-commits", 0, "Cap the number of commits checked (0 = no cap)")
	checkCmd.Flags().BoolVar(&checkStrictFlag, "strict", false, "Exit non-zero for any grade below A")
}

func runCheck(cmd *cobra.Command, args []string) error {
	repoDir := "."
	if len(args) == 1 {
		repoDir = args[0]
	}

	reader, err := gitlog.Open(repoDir)
	if err != nil {
		return errors.NotARepository(repoDir)
	}

	commits, err := reader.Commits(gitlog.CommitOptions{MaxCount: checkMaxCommitsFlag})
	if err != nil {
		return errors.WrapWithMessage(err, errors.Repository,
			"reading commit history",
		)
	}
	if len(commits) == 0 {
		return errors.EmptyHistory()
	}

	report := changelog.Validate(commits)

	opts := changelog.FormatOptions{Plain: checkPlainFlag}
	if err := changelog.FormatReport(report, cmd.OutOrStdout(), opts); err != nil {
		return err
	}

	if report.Grade == "F" || (checkStrictFlag && report.Grade != "A") {
		return NewExitError(ExitComplianceFailed)
	}
	return nil
}
