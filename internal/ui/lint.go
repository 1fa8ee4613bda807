package ui

import (
	"fmt"
	"strings"

	"github.com/wahlandcase/attuned.relnotes/internal/notes"
)

// LintReport formats a lint result for human consumption on the error
// stream: the outcome, then one block per offending commit.
func LintReport(res notes.LintResult) string {
	var b strings.Builder

	if res.Passed {
		b.WriteString(styled(PassStyle, "PASS") + " " + res.Reason + "\n")
		return b.String()
	}

	b.WriteString(styled(FailStyle, "FAIL") + " " + res.Reason + "\n")

	for _, c := range res.Missing {
		b.WriteString(fmt.Sprintf("%s: no note found for this commit; run \"attrn create\"\n",
			styled(ShaStyle, c.ShortSHA())))
	}

	for _, rec := range res.Invalid {
		b.WriteString(fmt.Sprintf("%s (%s):\n",
			styled(ShaStyle, rec.Commit.ShortSHA()),
			styled(DetailStyle, rec.Path)))
		for _, msg := range rec.Errors {
			b.WriteString("  - " + msg + "\n")
		}
	}

	return b.String()
}
