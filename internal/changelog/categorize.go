package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

// conventionalPattern matches the first line of a conventional commit
// message: type(scope)!: description. The scope, the breaking marker, and
// everything past the colon are captured separately.
var conventionalPattern = regexp.MustCompile(
	`^(?i)(feat|fix|docs|style|refactor|perf|test|build|ci|chore|security|deprecate|remove)(?:\(([^)]+)\))?(!)?: (.+)$`)

// typeCategories maps conventional commit types to categories.
var typeCategories = map[string]Category{
	"feat":      Added,
	"fix":       Fixed,
	"docs":      Documentation,
	"style":     Changed,
	"refactor":  Changed,
	"perf":      Changed,
	"test":      Testing,
	"build":     Build,
	"ci":        Build,
	"chore":     Changed,
	"security":  Security,
	"deprecate": Deprecated,
	"remove":    Removed,
}

// keywordGroups is the fallback classification table for messages without
// a conventional prefix. Group order is the tie-break: the first group
// containing a matching keyword wins.
var keywordGroups = []struct {
	keywords []string
	category Category
}{
	{[]string{"add", "new", "create", "implement"}, Added},
	{[]string{"fix", "resolve", "repair", "patch", "bug"}, Fixed},
	{[]string{"remove", "delete", "drop"}, Removed},
	{[]string{"deprecate", "obsolete"}, Deprecated},
	{[]string{"security", "vulnerability", "cve"}, Security},
	{[]string{"readme", "documentation", "docs"}, Documentation},
	{[]string{"test", "spec", "coverage"}, Testing},
	{[]string{"build", "ci", "deploy", "release"}, Build},
	{[]string{"update", "modify", "improve", "enhance"}, Changed},
}

// breakingFooters are the footer markers that flag a breaking change in
// the message body, per the conventional commits specification.
var breakingFooters = []string{"BREAKING CHANGE:", "BREAKING-CHANGE:"}

// Classification is the result of classifying one commit message.
type Classification struct {
	Category    Category
	Description string
	Scope       string
	Breaking    bool
	// Conventional is true when the message matched the conventional
	// commit grammar. Type holds the matched type keyword ("feat",
	// "fix", ...) in lowercase; it is empty for keyword matches.
	Conventional bool
	Type         string
}

// Categorize classifies a commit message. The first line is tested
// against the conventional commit grammar; on a match the mapped category
// wins outright, even when the description contains fallback keywords.
// Otherwise the full message is scanned against the keyword table, and
// messages matching nothing land in Other.
func Categorize(message string) Classification {
	firstLine, body, _ := strings.Cut(message, "\n")

	if m := conventionalPattern.FindStringSubmatch(firstLine); m != nil {
		commitType := strings.ToLower(m[1])
		return Classification{
			Category:     typeCategories[commitType],
			Description:  strings.TrimSpace(m[4]),
			Scope:        m[2],
			Breaking:     m[3] == "!" || hasBreakingFooter(body),
			Conventional: true,
			Type:         commitType,
		}
	}

	words := messageWords(message)
	for _, group := range keywordGroups {
		for _, keyword := range group.keywords {
			if matchesKeyword(words, keyword) {
				return Classification{
					Category:    group.category,
					Description: strings.TrimSpace(message),
				}
			}
		}
	}

	return Classification{
		Category:    Other,
		Description: strings.TrimSpace(message),
	}
}

// messageWords splits a lowercased message into words for keyword
// scanning. Splitting on non-alphanumeric runes makes the scan cover the
// full message body, punctuation and newlines included.
func messageWords(message string) []string {
	return strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
}

// matchesKeyword reports whether any word starts with the keyword. Prefix
// matching lets "update" catch "updated" and "deprecate" catch
// "deprecating" without a stemmer.
func matchesKeyword(words []string, keyword string) bool {
	for _, w := range words {
		if strings.HasPrefix(w, keyword) {
			return true
		}
	}
	return false
}

// hasBreakingFooter reports whether the message body carries a breaking
// change footer marker.
func hasBreakingFooter(body string) bool {
	for _, footer := range breakingFooters {
		if strings.Contains(body, footer) {
			return true
		}
	}
	return false
}

// CategorizeCommit classifies a single commit.
func CategorizeCommit(c Commit) CategorizedCommit {
	cls := Categorize(c.Message)
	return CategorizedCommit{
		Commit:      c,
		Category:    cls.Category,
		Description: cls.Description,
		Scope:       cls.Scope,
		Breaking:    cls.Breaking,
	}
}

// CategorizeAll classifies a batch of commits, preserving order.
func CategorizeAll(commits []Commit) []CategorizedCommit {
	categorized := make([]CategorizedCommit, len(commits))
	for i, c := range commits {
		categorized[i] = CategorizeCommit(c)
	}
	return categorized
}

// DefaultExcludePatterns returns the exclusion patterns applied when the
// configuration does not override them: merge boilerplate, work-in-progress
// markers, and autosquash subjects.
func DefaultExcludePatterns() []string {
	return []string{
		`^Merge (branch|pull request|remote-tracking branch) `,
		`(?i)^wip\b`,
		`^fixup! `,
		`^squash! `,
	}
}

// ExcludeFilter drops commits whose messages match any configured pattern.
// Excluded commits are removed from the pipeline entirely; they appear in
// no version group.
type ExcludeFilter struct {
	patterns []*regexp.Regexp
}

// NewExcludeFilter compiles the given patterns into a filter. An invalid
// pattern is a configuration error, not a tolerated input.
func NewExcludeFilter(patterns []string) (*ExcludeFilter, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclude pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &ExcludeFilter{patterns: compiled}, nil
}

// Excluded reports whether a message matches any exclude pattern.
func (f *ExcludeFilter) Excluded(message string) bool {
	for _, re := range f.patterns {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}

// Apply returns the commits that survive the filter, preserving order.
func (f *ExcludeFilter) Apply(commits []Commit) []Commit {
	kept := make([]Commit, 0, len(commits))
	for _, c := range commits {
		if !f.Excluded(c.Message) {
			kept = append(kept, c)
		}
	}
	return kept
}
