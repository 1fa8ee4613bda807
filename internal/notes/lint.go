package notes

import "github.com/wahlandcase/attuned.relnotes/internal/models"

// LintResult is the outcome of linting a commit range's notes
type LintResult struct {
	Passed bool
	// Reason is a one-line summary of the outcome
	Reason string
	// Missing lists commits in the range that carry no note artifact
	Missing []models.Commit
	// Invalid lists note records that failed validation
	Invalid []*Record
}

// Lint decides pass/fail for a commit range and its notes. The rule is
// deliberately asymmetric: a range with no commits at all passes, while
// a range with commits and no notes fails. When notes exist, every
// commit in the range must carry one and every note must validate.
func Lint(commits []models.Commit, r *Range) LintResult {
	if len(commits) == 0 {
		return LintResult{Passed: true, Reason: "no commits in range"}
	}

	if r.Empty() {
		return LintResult{
			Passed:  false,
			Reason:  "notes required, none found",
			Missing: commits,
		}
	}

	noted := make(map[string]bool, r.Len())
	for _, rec := range r.Records() {
		noted[rec.Commit.SHA] = true
	}

	var missing []models.Commit
	for _, c := range commits {
		if !noted[c.SHA] {
			missing = append(missing, c)
		}
	}

	invalid := r.Filter(func(rec *Record) bool { return !rec.IsValid() }).Records()

	if len(missing) > 0 || len(invalid) > 0 {
		return LintResult{
			Passed:  false,
			Reason:  "notes failed linting",
			Missing: missing,
			Invalid: invalid,
		}
	}

	return LintResult{Passed: true, Reason: "all notes passed linting"}
}
