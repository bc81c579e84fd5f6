package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReport_Plain(t *testing.T) {
	report := ValidationReport{
		Total:           10,
		Conventional:    6,
		NonConventional: 4,
		CompliancePct:   60,
		ByType:          map[string]int{"feat": 3, "fix": 2, "docs": 1},
		Grade:           "C",
	}

	var b strings.Builder
	require.NoError(t, FormatReport(report, &b, FormatOptions{Plain: true, MaxWidth: 80}))
	out := b.String()

	assert.Contains(t, out, "Total commits:    10")
	assert.Contains(t, out, "Conventional:     6")
	assert.Contains(t, out, "Non-conventional: 4")
	assert.Contains(t, out, "Compliance:       60.0%")
	assert.Contains(t, out, "Grade:            C")
	assert.Contains(t, out, "By type")

	// Types are ordered by count, ties alphabetically.
	assert.Less(t, strings.Index(out, "feat"), strings.Index(out, "fix"))
	assert.Less(t, strings.Index(out, "fix"), strings.Index(out, "docs"))
}

func TestFormatReport_NoTypes(t *testing.T) {
	report := ValidationReport{Total: 2, NonConventional: 2, Grade: "F"}

	var b strings.Builder
	require.NoError(t, FormatReport(report, &b, FormatOptions{Plain: true, MaxWidth: 80}))

	assert.NotContains(t, b.String(), "By type")
}

func TestSortedTypes(t *testing.T) {
	byType := map[string]int{"ci": 2, "feat": 5, "fix": 5, "docs": 1}

	assert.Equal(t, []string{"feat", "fix", "ci", "docs"}, sortedTypes(byType))
}

func TestComplianceBar(t *testing.T) {
	full := complianceBar(100, 80)
	assert.Equal(t, "["+strings.Repeat("=", 40)+"]", full)

	empty := complianceBar(0, 80)
	assert.Equal(t, "["+strings.Repeat(" ", 40)+"]", empty)

	// Narrow terminals still get a readable bar.
	narrow := complianceBar(50, 20)
	assert.Len(t, narrow, 12)
}

func TestFormatSummary_Plain(t *testing.T) {
	groups := renderFixture()

	var b strings.Builder
	require.NoError(t, FormatSummary(groups, &b, FormatOptions{Plain: true}))
	out := b.String()

	assert.Contains(t, out, "Unreleased")
	assert.Contains(t, out, "v1.0.0 (2026-01-15)")
	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "Fixed")
}
