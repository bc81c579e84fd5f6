package changelog

// ValidationReport summarizes conventional commit compliance for a set of
// commits. Only the conventional grammar counts as compliant; the keyword
// fallback tier is deliberately not consulted, so the report measures how
// consistently authors use the convention rather than how well the
// categorizer can guess.
type ValidationReport struct {
	// Total is the number of commits examined.
	Total int
	// Conventional is the number of commits matching the conventional
	// commit grammar.
	Conventional int
	// NonConventional is Total minus Conventional.
	NonConventional int
	// CompliancePct is Conventional/Total as a percentage. Zero when
	// Total is zero.
	CompliancePct float64
	// ByType counts conventional commits per type keyword ("feat",
	// "fix", ...).
	ByType map[string]int
	// Grade is the letter grade derived from CompliancePct.
	Grade string
}

// gradeThresholds maps minimum compliance percentages to letter grades.
// Below the last threshold the grade is F.
var gradeThresholds = []struct {
	min   float64
	grade string
}{
	{90, "A"},
	{75, "B"},
	{50, "C"},
	{25, "D"},
}

// Validate runs the conventional commit detector across a commit set and
// reports compliance. It reuses the categorizer's grammar, so a commit is
// counted if and only if Categorize would classify it via the
// conventional tier.
func Validate(commits []Commit) ValidationReport {
	report := ValidationReport{
		Total:  len(commits),
		ByType: make(map[string]int),
	}

	for _, c := range commits {
		cls := Categorize(c.Message)
		if cls.Conventional {
			report.Conventional++
			report.ByType[cls.Type]++
		}
	}

	report.NonConventional = report.Total - report.Conventional
	if report.Total > 0 {
		report.CompliancePct = float64(report.Conventional) / float64(report.Total) * 100
	}
	report.Grade = gradeFor(report.CompliancePct)

	return report
}

// gradeFor converts a compliance percentage into a letter grade.
func gradeFor(pct float64) string {
	for _, t := range gradeThresholds {
		if pct >= t.min {
			return t.grade
		}
	}
	return "F"
}
