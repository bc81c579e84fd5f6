package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize_ConventionalTier(t *testing.T) {
	tests := map[string]struct {
		message  string
		expected Classification
	}{
		"plain feat": {
			message: "feat: add user search",
			expected: Classification{
				Category:     Added,
				Description:  "add user search",
				Conventional: true,
				Type:         "feat",
			},
		},
		"scoped breaking feat": {
			message: "feat(auth)!: drop legacy token",
			expected: Classification{
				Category:     Added,
				Description:  "drop legacy token",
				Scope:        "auth",
				Breaking:     true,
				Conventional: true,
				Type:         "feat",
			},
		},
		"fix with scope": {
			message: "fix(parser): handle empty input",
			expected: Classification{
				Category:     Fixed,
				Description:  "handle empty input",
				Scope:        "parser",
				Conventional: true,
				Type:         "fix",
			},
		},
		"uppercase type": {
			message: "FIX: crash on startup",
			expected: Classification{
				Category:     Fixed,
				Description:  "crash on startup",
				Conventional: true,
				Type:         "fix",
			},
		},
		"docs": {
			message: "docs: document the config format",
			expected: Classification{
				Category:     Documentation,
				Description:  "document the config format",
				Conventional: true,
				Type:         "docs",
			},
		},
		"refactor maps to changed": {
			message: "refactor: extract renderer",
			expected: Classification{
				Category:     Changed,
				Description:  "extract renderer",
				Conventional: true,
				Type:         "refactor",
			},
		},
		"chore maps to changed": {
			message: "chore: bump deps",
			expected: Classification{
				Category:     Changed,
				Description:  "bump deps",
				Conventional: true,
				Type:         "chore",
			},
		},
		"ci maps to build": {
			message: "ci: cache modules",
			expected: Classification{
				Category:     Build,
				Description:  "cache modules",
				Conventional: true,
				Type:         "ci",
			},
		},
		"test maps to testing": {
			message: "test: cover grouping edge cases",
			expected: Classification{
				Category:     Testing,
				Description:  "cover grouping edge cases",
				Conventional: true,
				Type:         "test",
			},
		},
		"security": {
			message: "security: rotate signing keys",
			expected: Classification{
				Category:     Security,
				Description:  "rotate signing keys",
				Conventional: true,
				Type:         "security",
			},
		},
		"deprecate": {
			message: "deprecate: old export endpoint",
			expected: Classification{
				Category:     Deprecated,
				Description:  "old export endpoint",
				Conventional: true,
				Type:         "deprecate",
			},
		},
		"remove": {
			message: "remove: dead feature flags",
			expected: Classification{
				Category:     Removed,
				Description:  "dead feature flags",
				Conventional: true,
				Type:         "remove",
			},
		},
		"breaking change footer": {
			message: "feat: new storage layout\n\nBREAKING CHANGE: old state files are not migrated",
			expected: Classification{
				Category:     Added,
				Description:  "new storage layout",
				Breaking:     true,
				Conventional: true,
				Type:         "feat",
			},
		},
		"hyphenated breaking footer": {
			message: "fix: rework retry loop\n\nBREAKING-CHANGE: retry_count config renamed",
			expected: Classification{
				Category:     Fixed,
				Description:  "rework retry loop",
				Breaking:     true,
				Conventional: true,
				Type:         "fix",
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Categorize(tc.message))
		})
	}
}

// A conventional prefix always wins over keywords in the description:
// "fix: add retry logic" is Fixed, not Added.
func TestCategorize_TierPriority(t *testing.T) {
	cls := Categorize("fix: add retry logic")

	assert.Equal(t, Fixed, cls.Category)
	assert.Equal(t, "add retry logic", cls.Description)
	assert.True(t, cls.Conventional)
}

func TestCategorize_KeywordTier(t *testing.T) {
	tests := map[string]struct {
		message  string
		category Category
	}{
		"add":                     {"Added pagination to the list view", Added},
		"implement":               {"Implemented the watcher", Added},
		"resolve":                 {"Resolved flaky startup", Fixed},
		"bug":                     {"bug in tag sorting", Fixed},
		"delete":                  {"Deleted the staging config", Removed},
		"obsolete":                {"Marked the v1 API obsolete", Deprecated},
		"cve":                     {"Mitigate CVE-2024-1234 in the token parser", Security},
		"readme":                  {"touched up the readme", Documentation},
		"coverage":                {"Increase coverage for grouping", Testing},
		"release":                 {"Cut the 2.0 release", Build},
		"improve":                 {"Improved startup time", Changed},
		"no keyword":              {"misc housekeeping", Other},
		"empty after punctuation": {"???", Other},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cls := Categorize(tc.message)
			assert.Equal(t, tc.category, cls.Category)
			assert.False(t, cls.Conventional)
			assert.Empty(t, cls.Scope)
			assert.False(t, cls.Breaking)
		})
	}
}

// Keyword group order is the tie-break. "updated the readme" contains both
// "readme" (Documentation group) and "update" (Changed group); the
// Documentation group comes first in the table, so it wins.
func TestCategorize_KeywordPriority(t *testing.T) {
	cls := Categorize("updated the readme")

	assert.Equal(t, Documentation, cls.Category)
	assert.Equal(t, "updated the readme", cls.Description)
}

func TestCategorize_EdgeCases(t *testing.T) {
	t.Run("empty message lands in Other", func(t *testing.T) {
		cls := Categorize("")
		assert.Equal(t, Other, cls.Category)
		assert.Empty(t, cls.Description)
	})

	t.Run("only the first line is tested against the grammar", func(t *testing.T) {
		cls := Categorize("random subject\nfeat: not a real prefix")
		assert.False(t, cls.Conventional)
	})

	t.Run("keyword scan covers the full message", func(t *testing.T) {
		cls := Categorize("misc work\n\ntouches the readme as well")
		assert.Equal(t, Documentation, cls.Category)
	})

	t.Run("missing space after colon is not conventional", func(t *testing.T) {
		cls := Categorize("feat:no space")
		assert.False(t, cls.Conventional)
	})

	t.Run("unknown type falls through to keywords", func(t *testing.T) {
		cls := Categorize("feature: add things")
		assert.False(t, cls.Conventional)
		assert.Equal(t, Added, cls.Category)
	})
}

func TestCategorizeAll_PreservesOrder(t *testing.T) {
	commits := []Commit{
		{ID: "c3", Message: "feat: add X"},
		{ID: "c2", Message: "fix: bug Y"},
		{ID: "c1", Message: "chore: init"},
	}

	categorized := CategorizeAll(commits)

	require.Len(t, categorized, 3)
	assert.Equal(t, "c3", categorized[0].ID)
	assert.Equal(t, Added, categorized[0].Category)
	assert.Equal(t, "c2", categorized[1].ID)
	assert.Equal(t, Fixed, categorized[1].Category)
	assert.Equal(t, "c1", categorized[2].ID)
	assert.Equal(t, Changed, categorized[2].Category)
}

func TestExcludeFilter_Defaults(t *testing.T) {
	filter, err := NewExcludeFilter(DefaultExcludePatterns())
	require.NoError(t, err)

	tests := map[string]struct {
		message  string
		excluded bool
	}{
		"merge branch":          {"Merge branch 'main' into feature", true},
		"merge pull request":    {"Merge pull request #42 from fork/fix", true},
		"merge remote tracking": {"Merge remote-tracking branch 'origin/main'", true},
		"wip lowercase":         {"wip: half done", true},
		"wip uppercase":         {"WIP half done", true},
		"fixup":                 {"fixup! feat: add X", true},
		"squash":                {"squash! fix: bug Y", true},
		"normal commit":         {"feat: add X", false},
		"wip inside word":       {"fix: wipe the cache", false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.excluded, filter.Excluded(tc.message))
		})
	}
}

func TestExcludeFilter_Apply(t *testing.T) {
	filter, err := NewExcludeFilter(DefaultExcludePatterns())
	require.NoError(t, err)

	commits := []Commit{
		{ID: "c3", Message: "feat: add X"},
		{ID: "c2", Message: "Merge branch 'main' into feature"},
		{ID: "c1", Message: "fix: bug Y"},
	}

	kept := filter.Apply(commits)

	require.Len(t, kept, 2)
	assert.Equal(t, "c3", kept[0].ID)
	assert.Equal(t, "c1", kept[1].ID)
}

func TestNewExcludeFilter_InvalidPattern(t *testing.T) {
	_, err := NewExcludeFilter([]string{"(unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling exclude pattern")
}

func TestParseCategory_RoundTrip(t *testing.T) {
	for _, cat := range Categories() {
		parsed, err := ParseCategory(cat.String())
		require.NoError(t, err)
		assert.Equal(t, cat, parsed)
	}
}

func TestParseCategory_Unknown(t *testing.T) {
	_, err := ParseCategory("Misc")
	assert.Error(t, err)
}
