package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ariel-frischer/changeforge/internal/changelog"
	"github.com/ariel-frischer/changeforge/internal/config"
	"github.com/ariel-frischer/changeforge/internal/errors"
	"github.com/ariel-frischer/changeforge/internal/gitlog"
	"github.com/ariel-frischer/changeforge/internal/writer"
)

var (
	generateFormatFlag     string
	generateOutputFlag     string
	generateStdoutFlag     bool
	generateNoBackupFlag   bool
	generateSinceFlag      string
	generateUntilFlag      string
	generateHashesFlag     bool
	generateMaxCommitsFlag int
	generateProjectFlag    string
	generateRepoURLFlag    string
	generateWatchFlag      bool
	generatePlainFlag      bool
)

// defaultOutputs maps each format to its default output file name.
var defaultOutputs = map[changelog.Format]string{
	changelog.FormatMarkdown: "CHANGELOG.md",
	changelog.FormatText:     "CHANGELOG.txt",
	changelog.FormatTree:     "CHANGELOG.yaml",
}

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate a changelog from commit history",
	Long: `Generate a categorized changelog from the repository's commit history.

Commits are classified by conventional commit prefixes, falling back to
keyword matching for plain messages, then grouped into versions by tag
boundaries. Untagged commits appear under "Unreleased".

Examples:
  changeforge generate                    # Write CHANGELOG.md for the current repo
  changeforge generate /path/to/repo      # Generate for another repository
  changeforge generate --format text      # Plain text output
  changeforge generate --format tree      # YAML tree output (machine readable)
  changeforge generate --stdout           # Print to stdout instead of a file
  changeforge generate --since 2026-01-01 # Only commits after a date
  changeforge generate --watch            # Regenerate on new commits`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateFormatFlag, "format", "f", "", "Output format: markdown, text, or tree")
	generateCmd.Flags().StringVarP(&generateOutputFlag, "output", "o", "", "Output file path (default depends on format)")
	generateCmd.Flags().BoolVar(&generateStdoutFlag, "stdout", false, "Print the changelog to stdout instead of a file")
	generateCmd.Flags().BoolVar(&generateNoBackupFlag, "no-backup", false, "Overwrite the output file without a backup")
	generateCmd.Flags().StringVar(&generateSinceFlag, "since", "", "Only include commits after this date (YYYY-MM-DD)")
	generateCmd.Flags().StringVar(&generateUntilFlag, "until", "", "Only include commits before this date (YYYY-MM-DD)")
	generateCmd.Flags().BoolVar(&generateHashesFlag, "include-hashes", false, "Append short commit ids to entries")
	generateCmd.Flags().IntVar(&generateMaxCommitsFlag, "max-commits", 0, "Cap the number of commits read (0 = no cap)")
	generateCmd.Flags().StringVar(&generateProjectFlag, "project", "", "Project name for the changelog header")
	generateCmd.Flags().StringVar(&generateRepoURLFlag, "repo-url", "", "Repository URL for version comparison links")
	generateCmd.Flags().BoolVarP(&generateWatchFlag, "watch", "w", false, "Watch the repository and regenerate on new commits")
	generateCmd.Flags().BoolVar(&generatePlainFlag, "plain", false, "Plain summary output (no colors)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	repoDir := "."
	if len(args) == 1 {
		repoDir = args[0]
	}

	cfg, err := loadGenerateConfig(cmd, repoDir)
	if err != nil {
		return err
	}

	opts, err := buildPipelineOptions(cfg, repoDir)
	if err != nil {
		return err
	}

	if generateWatchFlag {
		if generateStdoutFlag {
			return errors.NewArgumentError(
				"--watch cannot be combined with --stdout",
				"Watch mode rewrites the output file on every change",
			)
		}
		return watchAndRegenerate(cmd, opts)
	}

	return generateOnce(cmd, opts)
}

// pipelineOptions is the fully resolved input to a single generation run.
type pipelineOptions struct {
	repoDir    string
	cfg        *config.Configuration
	format     changelog.Format
	outputPath string
	since      *time.Time
	until      *time.Time
}

func loadGenerateConfig(cmd *cobra.Command, repoDir string) (*config.Configuration, error) {
	cfg, err := config.Load(repoDir)
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Configuration,
			"loading configuration",
			"Check the syntax of .changeforge.yml",
		)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = generateFormatFlag
	}
	if flags.Changed("output") {
		cfg.Output = generateOutputFlag
	}
	if flags.Changed("no-backup") {
		cfg.Backup = !generateNoBackupFlag
	}
	if flags.Changed("include-hashes") {
		cfg.IncludeHashes = generateHashesFlag
	}
	if flags.Changed("max-commits") {
		cfg.MaxCommits = generateMaxCommitsFlag
	}
	if flags.Changed("project") {
		cfg.Project = generateProjectFlag
	}
	if flags.Changed("repo-url") {
		cfg.RepoURL = generateRepoURLFlag
	}

	if err := config.ValidateValues(cfg); err != nil {
		return nil, errors.WrapWithMessage(err, errors.Configuration,
			"invalid configuration",
			"Valid formats are markdown, text, and tree",
		)
	}
	return cfg, nil
}

func buildPipelineOptions(cfg *config.Configuration, repoDir string) (*pipelineOptions, error) {
	format, err := changelog.ParseFormat(cfg.Format)
	if err != nil {
		return nil, errors.NewConfigError(err.Error())
	}

	since, err := parseDateFlag("since", generateSinceFlag)
	if err != nil {
		return nil, err
	}
	until, err := parseDateFlag("until", generateUntilFlag)
	if err != nil {
		return nil, err
	}

	outputPath := cfg.Output
	if outputPath == "" {
		outputPath = filepath.Join(repoDir, defaultOutputs[format])
	}

	return &pipelineOptions{
		repoDir:    repoDir,
		cfg:        cfg,
		format:     format,
		outputPath: outputPath,
		since:      since,
		until:      until,
	}, nil
}

// parseDateFlag parses --since/--until values. Accepts a plain date or a
// full RFC 3339 timestamp.
func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errors.NewArgumentError(
		fmt.Sprintf("invalid --%s value %q", name, value),
		"Use YYYY-MM-DD (e.g. 2026-01-15) or an RFC 3339 timestamp",
	)
}

func generateOnce(cmd *cobra.Command, opts *pipelineOptions) error {
	spin := startSpinner(cmd, "Reading commit history...")

	groups, err := buildGroups(opts)
	stopSpinner(spin)
	if err != nil {
		return err
	}

	document, err := changelog.Render(groups, opts.format, renderOptions(opts))
	if err != nil {
		return fmt.Errorf("rendering changelog: %w", err)
	}

	if generateStdoutFlag {
		fmt.Fprint(cmd.OutOrStdout(), document)
		return nil
	}

	w := writer.New(opts.cfg.Backup)
	backupPath, err := w.Write(opts.outputPath, document)
	if err != nil {
		return errors.WrapWithMessage(err, errors.Runtime,
			"writing changelog",
			"Check that the output directory exists and is writable",
		)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.outputPath)
	if backupPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Previous version saved to %s\n", backupPath)
	}
	fmt.Fprintln(cmd.OutOrStdout())

	return changelog.FormatSummary(groups, cmd.OutOrStdout(), changelog.FormatOptions{
		Plain: generatePlainFlag,
	})
}

// buildGroups runs the full pipeline: read history, filter, categorize,
// and group by tag boundaries.
func buildGroups(opts *pipelineOptions) ([]changelog.VersionGroup, error) {
	reader, err := gitlog.Open(opts.repoDir)
	if err != nil {
		return nil, errors.NotARepository(opts.repoDir)
	}

	commits, err := reader.Commits(gitlog.CommitOptions{
		Since:    opts.since,
		Until:    opts.until,
		MaxCount: opts.cfg.MaxCommits,
	})
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Repository,
			"reading commit history",
			"Check that the repository is not corrupted (git fsck)",
		)
	}

	filter, err := changelog.NewExcludeFilter(opts.cfg.ExcludePatterns)
	if err != nil {
		return nil, errors.NewConfigError(err.Error())
	}
	commits = filter.Apply(commits)

	if len(commits) == 0 {
		return nil, errors.EmptyHistory()
	}

	tags, err := reader.Tags()
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Repository,
			"reading tags",
		)
	}

	groups, err := changelog.Group(changelog.CategorizeAll(commits), tags)
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Repository,
			"grouping commits by version",
		)
	}
	return groups, nil
}

func renderOptions(opts *pipelineOptions) changelog.RenderOptions {
	project := opts.cfg.Project
	if project == "" {
		if abs, err := filepath.Abs(opts.repoDir); err == nil {
			project = filepath.Base(abs)
		}
	}
	return changelog.RenderOptions{
		Project:       project,
		RepoURL:       opts.cfg.RepoURL,
		IncludeHashes: opts.cfg.IncludeHashes,
		DateFormat:    opts.cfg.DateFormat,
	}
}

// startSpinner starts a progress spinner when stderr is a terminal.
// Returns nil otherwise; stopSpinner tolerates nil.
func startSpinner(cmd *cobra.Command, message string) *spinner.Spinner {
	if generateStdoutFlag || !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	charset := 14 // braille dots
	if os.Getenv("NO_COLOR") != "" {
		charset = 9 // ASCII fallback
	}
	spin := spinner.New(spinner.CharSets[charset], 100*time.Millisecond,
		spinner.WithWriter(cmd.ErrOrStderr()))
	spin.Suffix = " " + message
	spin.Start()
	return spin
}

func stopSpinner(spin *spinner.Spinner) {
	if spin != nil {
		spin.Stop()
	}
}

// watchAndRegenerate regenerates the changelog whenever the repository's
// refs change (new commits, tags, branch switches). Events are debounced
// because a single git operation touches several files.
func watchAndRegenerate(cmd *cobra.Command, opts *pipelineOptions) error {
	reader, err := gitlog.Open(opts.repoDir)
	if err != nil {
		return errors.NotARepository(opts.repoDir)
	}
	root, err := reader.Root()
	if err != nil {
		return errors.WrapWithMessage(err, errors.Repository,
			"resolving repository root",
		)
	}
	gitDir := filepath.Join(root, ".git")

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsWatcher.Close()

	// HEAD and packed-refs live at the top of .git; per-ref files are
	// under refs/heads and refs/tags. The refs subdirectories may not
	// exist when all refs are packed, so only the top level is required.
	if err := fsWatcher.Add(gitDir); err != nil {
		return fmt.Errorf("watching %s: %w", gitDir, err)
	}
	for _, dir := range []string{
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
	} {
		if err := fsWatcher.Add(dir); err != nil {
			logWatchSkip(cmd, dir, err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := generateOnce(cmd, opts); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching %s for new commits (Ctrl+C to stop)\n", opts.repoDir)

	const debounce = 500 * time.Millisecond
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-sigCh:
			fmt.Fprintln(cmd.ErrOrStderr(), "Stopped watching.")
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if !relevantGitEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerCh = timer.C
			} else {
				timer.Reset(debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			if err := generateOnce(cmd, opts); err != nil {
				// Transient states (mid-rebase, empty history) should
				// not kill the watch loop.
				fmt.Fprintf(cmd.ErrOrStderr(), "regenerate failed: %v\n", err)
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		}
	}
}

func logWatchSkip(cmd *cobra.Command, dir string, err error) {
	if debugFlag {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipping watch on %s: %v\n", dir, err)
	}
}

// relevantGitEvent filters watcher noise down to ref updates.
func relevantGitEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if base == "HEAD" || base == "packed-refs" || base == "ORIG_HEAD" {
		return true
	}
	// Individual ref files under refs/heads or refs/tags.
	dir := filepath.Base(filepath.Dir(event.Name))
	return dir == "heads" || dir == "tags"
}
