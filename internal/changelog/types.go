package changelog

import (
	"fmt"
	"time"
)

// Category classifies a commit into one of the changelog sections.
// The first six follow the Keep a Changelog specification
// (https://keepachangelog.com/en/1.1.0/); Documentation, Testing, and
// Build cover housekeeping work, and Other is the catch-all.
type Category int

const (
	Added Category = iota
	Changed
	Deprecated
	Removed
	Fixed
	Security
	Documentation
	Testing
	Build
	Other
)

// categoryNames maps categories to their display names. Declaration order
// doubles as the rendering order.
var categoryNames = [...]string{
	Added:         "Added",
	Changed:       "Changed",
	Deprecated:    "Deprecated",
	Removed:       "Removed",
	Fixed:         "Fixed",
	Security:      "Security",
	Documentation: "Documentation",
	Testing:       "Testing",
	Build:         "Build",
	Other:         "Other",
}

// String returns the display name of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Other"
	}
	return categoryNames[c]
}

// ParseCategory converts a display name back into a Category.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return Other, fmt.Errorf("unknown category %q", name)
}

// Categories returns all categories in rendering order.
func Categories() []Category {
	return []Category{
		Added, Changed, Deprecated, Removed, Fixed,
		Security, Documentation, Testing, Build, Other,
	}
}

// Commit is a single entry from the repository history. Commits arrive
// newest first, deduplicated by ID, and are never mutated by the pipeline.
type Commit struct {
	ID          string
	ShortID     string
	AuthorName  string
	AuthorEmail string
	Timestamp   time.Time
	Message     string
}

// Tag is a named pointer to one commit. Names are not required to be
// semantic versions; non-semver names are treated as opaque labels.
type Tag struct {
	Name      string
	CommitID  string
	Timestamp time.Time
}

// CategorizedCommit is a Commit annotated with its classification.
type CategorizedCommit struct {
	Commit

	Category    Category
	Description string
	Scope       string
	Breaking    bool
}

// UnreleasedLabel is the label of the group holding commits newer than
// the most recent tag.
const UnreleasedLabel = "Unreleased"

// VersionGroup is an ordered bucket of categorized commits attributed to
// one release, or to Unreleased. Commits within each category keep their
// newest-first history order.
type VersionGroup struct {
	// Label is the tag name, a combined "a/b" label when multiple tags
	// point at the same commit, or UnreleasedLabel.
	Label string
	// Date is the release date. Nil for the Unreleased group.
	Date *time.Time
	// Commits maps each category to its commits. Categories with no
	// commits are absent from the map.
	Commits map[Category][]CategorizedCommit
}

// IsUnreleased reports whether this group holds not-yet-released work.
func (g *VersionGroup) IsUnreleased() bool {
	return g.Label == UnreleasedLabel
}

// Version returns the parsed semantic version of the group label, or nil
// when the label is not a semver tag. This is metadata only; grouping
// never depends on it.
func (g *VersionGroup) Version() *Semver {
	v, ok := ParseSemver(g.Label)
	if !ok {
		return nil
	}
	return v
}

// Count returns the total number of commits in the group.
func (g *VersionGroup) Count() int {
	n := 0
	for _, commits := range g.Commits {
		n += len(commits)
	}
	return n
}

// CategorySection pairs a category with its commits for ordered rendering.
type CategorySection struct {
	Category Category
	Commits  []CategorizedCommit
}

// Sections returns the group's non-empty categories in rendering order.
// Iterating sections instead of the Commits map keeps output deterministic.
func (g *VersionGroup) Sections() []CategorySection {
	var sections []CategorySection
	for _, cat := range Categories() {
		if commits, ok := g.Commits[cat]; ok && len(commits) > 0 {
			sections = append(sections, CategorySection{Category: cat, Commits: commits})
		}
	}
	return sections
}
