package changelog

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a category in terminal output.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps categories to their terminal styling.
var categoryStyles = map[Category]CategoryStyle{
	Added:         {Color: color.New(color.FgGreen), Icon: "+"},
	Changed:       {Color: color.New(color.FgBlue), Icon: "~"},
	Deprecated:    {Color: color.New(color.FgYellow), Icon: "!"},
	Removed:       {Color: color.New(color.FgRed), Icon: "-"},
	Fixed:         {Color: color.New(color.FgCyan), Icon: "*"},
	Security:      {Color: color.New(color.FgMagenta), Icon: "#"},
	Documentation: {Color: color.New(color.FgWhite), Icon: "d"},
	Testing:       {Color: color.New(color.FgWhite), Icon: "t"},
	Build:         {Color: color.New(color.FgWhite), Icon: "b"},
	Other:         {Color: color.New(color.FgWhite), Icon: "."},
}

// FormatOptions controls terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatSummary writes a per-group category breakdown to the writer,
// color-coded when the terminal supports it. It is the short confirmation
// shown after generating a changelog, not a full rendering.
func FormatSummary(groups []VersionGroup, w io.Writer, opts FormatOptions) error {
	for i := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := formatGroupSummary(&groups[i], w, opts); err != nil {
			return fmt.Errorf("formatting group %s: %w", groups[i].Label, err)
		}
	}
	return nil
}

func formatGroupSummary(g *VersionGroup, w io.Writer, opts FormatOptions) error {
	header := g.Label
	if g.Date != nil {
		header = fmt.Sprintf("%s (%s)", g.Label, g.Date.Format(DefaultDateFormat))
	}

	if opts.Plain {
		fmt.Fprintf(w, "%s\n", header)
	} else {
		bold := color.New(color.Bold).SprintFunc()
		fmt.Fprintf(w, "%s\n", bold(header))
	}

	for _, section := range g.Sections() {
		style := categoryStyles[section.Category]
		if opts.Plain {
			fmt.Fprintf(w, "  %-13s %d\n", section.Category.String(), len(section.Commits))
			continue
		}
		colored := style.Color.SprintFunc()
		fmt.Fprintf(w, "  %s %s %d\n", colored(style.Icon), colored(fmt.Sprintf("%-13s", section.Category.String())), len(section.Commits))
	}

	return nil
}

// FormatReport writes a conventional commit compliance report to the
// writer. The compliance bar scales to the terminal width.
func FormatReport(r ValidationReport, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	writeHeading(w, "Conventional commit compliance", opts)
	fmt.Fprintf(w, "  Total commits:    %d\n", r.Total)
	fmt.Fprintf(w, "  Conventional:     %d\n", r.Conventional)
	fmt.Fprintf(w, "  Non-conventional: %d\n", r.NonConventional)
	fmt.Fprintf(w, "  Compliance:       %.1f%%  %s\n", r.CompliancePct, complianceBar(r.CompliancePct, width))
	fmt.Fprintf(w, "  Grade:            %s\n", formatGrade(r.Grade, opts))

	if len(r.ByType) > 0 {
		fmt.Fprintln(w)
		writeHeading(w, "By type", opts)
		for _, t := range sortedTypes(r.ByType) {
			fmt.Fprintf(w, "  %-10s %d\n", t, r.ByType[t])
		}
	}

	return nil
}

func writeHeading(w io.Writer, heading string, opts FormatOptions) {
	if opts.Plain {
		fmt.Fprintf(w, "%s\n", heading)
		return
	}
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s\n", bold(heading))
}

// formatGrade colors the letter grade: green for A/B, yellow for C,
// red for D/F.
func formatGrade(grade string, opts FormatOptions) string {
	if opts.Plain {
		return grade
	}

	var c *color.Color
	switch grade {
	case "A", "B":
		c = color.New(color.FgGreen, color.Bold)
	case "C":
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgRed, color.Bold)
	}
	return c.Sprint(grade)
}

// complianceBar renders a proportional bar like [=======   ] sized to fit
// the available width, capped at 40 cells.
func complianceBar(pct float64, width int) string {
	cells := width - 40
	if cells > 40 {
		cells = 40
	}
	if cells < 10 {
		cells = 10
	}

	filled := int(pct / 100 * float64(cells))
	if filled > cells {
		filled = cells
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", cells-filled) + "]"
}

// sortedTypes returns the type keywords in deterministic order: highest
// count first, ties broken alphabetically.
func sortedTypes(byType map[string]int) []string {
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if byType[types[i]] != byType[types[j]] {
			return byType[types[i]] > byType[types[j]]
		}
		return types[i] < types[j]
	})
	return types
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
