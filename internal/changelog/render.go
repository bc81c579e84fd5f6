package changelog

import (
	"fmt"
	"io"
	"strings"
)

// Format selects the output document format.
type Format string

const (
	// FormatMarkdown renders a Keep a Changelog markdown document.
	FormatMarkdown Format = "markdown"
	// FormatText renders a plain text document.
	FormatText Format = "text"
	// FormatTree renders the YAML tree format, which round-trips
	// through ParseTree.
	FormatTree Format = "tree"
)

// ParseFormat validates a format name from config or flags.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatMarkdown, FormatText, FormatTree:
		return Format(name), nil
	}
	return "", fmt.Errorf("unsupported format %q (expected: markdown, text, or tree)", name)
}

// DefaultDateFormat is the release date layout used when the
// configuration does not override it.
const DefaultDateFormat = "2006-01-02"

// RenderOptions controls document rendering.
type RenderOptions struct {
	// Project is the name shown in the document header.
	Project string
	// RepoURL, when set, enables version comparison links in markdown
	// output (e.g. https://github.com/owner/repo).
	RepoURL string
	// IncludeHashes appends the short commit id to each entry.
	IncludeHashes bool
	// DateFormat is the time layout for release dates. Defaults to
	// DefaultDateFormat when empty.
	DateFormat string
}

func (o RenderOptions) dateFormat() string {
	if o.DateFormat == "" {
		return DefaultDateFormat
	}
	return o.DateFormat
}

// Render produces the output document for the given groups in the
// requested format. Rendering is deterministic: identical groups always
// produce identical output.
func Render(groups []VersionGroup, format Format, opts RenderOptions) (string, error) {
	var b strings.Builder
	var err error

	switch format {
	case FormatMarkdown:
		err = RenderMarkdown(groups, &b, opts)
	case FormatText:
		err = RenderText(groups, &b, opts)
	case FormatTree:
		err = RenderTree(groups, &b, opts)
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}

	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderMarkdown writes a Keep a Changelog formatted markdown document.
func RenderMarkdown(groups []VersionGroup, w io.Writer, opts RenderOptions) error {
	if err := renderMarkdownHeader(w, opts); err != nil {
		return fmt.Errorf("rendering header: %w", err)
	}

	for i := range groups {
		if err := renderMarkdownGroup(&groups[i], w, opts); err != nil {
			return fmt.Errorf("rendering version %s: %w", groups[i].Label, err)
		}
	}

	if opts.RepoURL != "" {
		if err := renderCompareLinks(groups, w, opts); err != nil {
			return fmt.Errorf("rendering compare links: %w", err)
		}
	}

	return nil
}

func renderMarkdownHeader(w io.Writer, opts RenderOptions) error {
	project := opts.Project
	if project == "" {
		project = "this project"
	}

	header := `# Changelog

All notable changes to ` + project + ` will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).
`
	_, err := io.WriteString(w, header)
	return err
}

func renderMarkdownGroup(g *VersionGroup, w io.Writer, opts RenderOptions) error {
	header := markdownGroupHeader(g, opts)
	if _, err := io.WriteString(w, "\n"+header+"\n"); err != nil {
		return err
	}

	for _, section := range g.Sections() {
		if _, err := io.WriteString(w, "\n### "+section.Category.String()+"\n"); err != nil {
			return err
		}
		for _, c := range section.Commits {
			if _, err := io.WriteString(w, "- "+markdownEntry(c, opts)+"\n"); err != nil {
				return err
			}
		}
	}

	return nil
}

func markdownGroupHeader(g *VersionGroup, opts RenderOptions) string {
	if g.IsUnreleased() {
		return "## [Unreleased]"
	}
	if g.Date == nil {
		return fmt.Sprintf("## [%s]", g.Label)
	}
	return fmt.Sprintf("## [%s] - %s", g.Label, g.Date.Format(opts.dateFormat()))
}

// markdownEntry formats a single commit line: optional bold scope, the
// cleaned description, a breaking marker, and an optional short id.
func markdownEntry(c CategorizedCommit, opts RenderOptions) string {
	var b strings.Builder

	if c.Scope != "" {
		b.WriteString("**")
		b.WriteString(c.Scope)
		b.WriteString("**: ")
	}
	b.WriteString(capitalizeFirst(c.Description))
	if c.Breaking {
		b.WriteString(" **[breaking]**")
	}
	if opts.IncludeHashes && c.ShortID != "" {
		b.WriteString(" (")
		b.WriteString(c.ShortID)
		b.WriteString(")")
	}

	return b.String()
}

// renderCompareLinks writes the reference-style comparison links for
// semver-labeled groups. Groups with opaque labels get no link.
func renderCompareLinks(groups []VersionGroup, w io.Writer, opts RenderOptions) error {
	var lines []string
	for i := range groups {
		if link := compareLink(groups, i, opts.RepoURL); link != "" {
			lines = append(lines, link)
		}
	}

	if len(lines) == 0 {
		return nil
	}

	_, err := io.WriteString(w, "\n"+strings.Join(lines, "\n")+"\n")
	return err
}

// compareLink builds the link line for the group at index i, comparing
// against the next older semver-labeled group.
func compareLink(groups []VersionGroup, i int, repoURL string) string {
	g := &groups[i]

	prev := ""
	for j := i + 1; j < len(groups); j++ {
		if v := groups[j].Version(); v != nil {
			prev = "v" + v.String()
			break
		}
	}

	if g.IsUnreleased() {
		if prev == "" {
			return ""
		}
		return fmt.Sprintf("[Unreleased]: %s/compare/%s...HEAD", repoURL, prev)
	}

	v := g.Version()
	if v == nil {
		return ""
	}
	if prev == "" {
		return fmt.Sprintf("[%s]: %s/releases/tag/v%s", g.Label, repoURL, v)
	}
	return fmt.Sprintf("[%s]: %s/compare/%s...v%s", g.Label, repoURL, prev, v)
}

// RenderText writes a plain text document.
func RenderText(groups []VersionGroup, w io.Writer, opts RenderOptions) error {
	rule := strings.Repeat("=", 70)
	if _, err := fmt.Fprintf(w, "%s\nCHANGELOG\n%s\n", rule, rule); err != nil {
		return err
	}

	for i := range groups {
		if err := renderTextGroup(&groups[i], w, opts); err != nil {
			return fmt.Errorf("rendering version %s: %w", groups[i].Label, err)
		}
	}

	return nil
}

func renderTextGroup(g *VersionGroup, w io.Writer, opts RenderOptions) error {
	header := strings.ToUpper(g.Label)
	if !g.IsUnreleased() && g.Date != nil {
		header = fmt.Sprintf("VERSION %s - %s", g.Label, g.Date.Format(opts.dateFormat()))
	} else if !g.IsUnreleased() {
		header = "VERSION " + g.Label
	}

	if _, err := fmt.Fprintf(w, "\n%s\n%s\n", header, strings.Repeat("-", 70)); err != nil {
		return err
	}

	for _, section := range g.Sections() {
		if _, err := fmt.Fprintf(w, "\n%s:\n", strings.ToUpper(section.Category.String())); err != nil {
			return err
		}
		for _, c := range section.Commits {
			if _, err := fmt.Fprintf(w, "  * %s\n", textEntry(c, opts)); err != nil {
				return err
			}
		}
	}

	return nil
}

func textEntry(c CategorizedCommit, opts RenderOptions) string {
	var b strings.Builder

	if c.Scope != "" {
		b.WriteString(c.Scope)
		b.WriteString(": ")
	}
	b.WriteString(capitalizeFirst(c.Description))
	if c.Breaking {
		b.WriteString(" [BREAKING]")
	}
	if opts.IncludeHashes && c.ShortID != "" {
		b.WriteString(" (")
		b.WriteString(c.ShortID)
		b.WriteString(")")
	}

	return b.String()
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
