package report

import (
	"fmt"
	"strings"
)

const sharedStrengths = 3

// ShareSummary renders the short plain-text summary used by the share action.
// It lists at most three strengths and omits the strengths line when there are none.
func ShareSummary(r *Report) string {
	if r == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("PathFinder AI career report\n\n")
	fmt.Fprintf(&b, "My career archetype: %s\n", r.Archetype)
	if r.ArchetypeDescription != "" {
		fmt.Fprintf(&b, "%s\n", r.ArchetypeDescription)
	}
	b.WriteString("\n")

	if titles := r.JobTitles(); len(titles) > 0 {
		fmt.Fprintf(&b, "Recommended directions: %s\n", strings.Join(titles, " / "))
	}

	strengths := r.Strengths
	if len(strengths) > sharedStrengths {
		strengths = strengths[:sharedStrengths]
	}
	if len(strengths) > 0 {
		fmt.Fprintf(&b, "Core strengths: %s\n", strings.Join(strengths, ", "))
	}

	b.WriteString("\nDiscover your career future, take the test too!")
	return b.String()
}
