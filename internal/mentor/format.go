package mentor

import (
	"fmt"
	"strings"

	"github.com/xaenox/study-buddy/internal/grades"
)

func formatUpdated(summary grades.Summary) string {
	var b strings.Builder
	writeTable(&b, "Here are your updated grades:", summary)

	switch {
	case summary.Overall >= 80:
		b.WriteString("\nGreat work. That's the right direction - keep pushing yourself.")
	case summary.Overall >= 60:
		b.WriteString("\nGood progress. With steady effort, you can push this even higher.")
	case summary.Overall >= 40:
		b.WriteString("\nYou're passing. Let's focus on lifting the weaker subjects next.")
	default:
		b.WriteString("\nIt's okay to have low scores sometimes. We can build a better plan from here.")
	}

	b.WriteString("\n\n" + grades.ScaleLine)
	return b.String()
}

func formatSummary(summary grades.Summary) string {
	var b strings.Builder
	writeTable(&b, "Here is your grade summary:", summary)
	b.WriteString("\n" + grades.ScaleLine)
	return b.String()
}

func writeTable(b *strings.Builder, header string, summary grades.Summary) {
	b.WriteString(header + "\n\n")
	b.WriteString("| Subject | Marks | Grade |\n")
	b.WriteString("|--------|-------|-------|\n")
	for _, row := range summary.Rows {
		fmt.Fprintf(b, "| %s | %d | %s |\n", row.Subject, row.Score, row.Letter)
	}
	fmt.Fprintf(b, "\nOverall: **%.2f%% → Grade %s**.\n", summary.Overall, summary.OverallLetter)
}
