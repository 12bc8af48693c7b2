// Package grades is the academic record engine: it extracts subject/score
// pairs from free-form text, validates and applies them to a record, and
// computes letter grades and overall averages.
package grades

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xaenox/study-buddy/internal/models"
)

// ScaleLine is the fixed grade scale shown with every summary.
const ScaleLine = "(Grade scale: S≥90, A≥80, B≥70, C≥60, D≥50, E≥40, F<40)"

var (
	// "Maths - 90", "Maths: 90", "Maths = 90"
	sepPattern = regexp.MustCompile(`([A-Za-z][A-Za-z ]*)\s*[-=:]\s*(\d{1,3})`)
	// "90 in Maths"
	inPattern = regexp.MustCompile(`(?i)(\d{1,3})\s+in\s+([A-Za-z][A-Za-z ]*)`)

	digits = regexp.MustCompile(`^\d+$`)
	alpha  = regexp.MustCompile(`^[A-Za-z]+$`)
)

// ExtractMarks pulls (subject, score) pairs out of a message. It tries the
// separator and "score in subject" patterns first, then scans whatever text
// those did not consume for adjacent "subject score" pairs, so mixed styles
// like "Maths 92 Science - 81 English 76" yield all three pairs. Fragments
// that parse as nothing are skipped; an empty result is valid output.
func ExtractMarks(text string) []models.Mark {
	var pairs []models.Mark
	consumed := make([]bool, len(text))

	for _, m := range sepPattern.FindAllStringSubmatchIndex(text, -1) {
		pairs = appendMark(pairs, text[m[2]:m[3]], text[m[4]:m[5]])
		markConsumed(consumed, m[0], m[1])
	}

	for _, m := range inPattern.FindAllStringSubmatchIndex(text, -1) {
		pairs = appendMark(pairs, text[m[4]:m[5]], text[m[2]:m[3]])
		markConsumed(consumed, m[0], m[1])
	}

	// Adjacency fallback over the unconsumed remainder: "Maths 92".
	remainder := make([]byte, len(text))
	for i := 0; i < len(text); i++ {
		if consumed[i] {
			remainder[i] = ' '
		} else {
			remainder[i] = text[i]
		}
	}

	tokens := strings.Fields(strings.ReplaceAll(string(remainder), ",", " "))
	for i := 0; i+1 < len(tokens); i++ {
		if alpha.MatchString(tokens[i]) && digits.MatchString(tokens[i+1]) {
			pairs = appendMark(pairs, tokens[i], tokens[i+1])
			i++
		}
	}

	return pairs
}

func appendMark(pairs []models.Mark, subject, score string) []models.Mark {
	n, err := strconv.Atoi(score)
	if err != nil {
		return pairs
	}
	subject = TitleCase(strings.TrimSpace(subject))
	if subject == "" {
		return pairs
	}
	return append(pairs, models.Mark{Subject: subject, Score: n})
}

func markConsumed(consumed []bool, start, end int) {
	for i := start; i < end && i < len(consumed); i++ {
		consumed[i] = true
	}
}

// Apply upserts each valid pair into the record, latest write winning per
// subject. Pairs with scores outside [0,100] are dropped individually and
// never block the rest of the update. It returns the updated record and the
// pairs actually applied.
func Apply(record []models.Mark, pairs []models.Mark) (updated []models.Mark, applied []models.Mark) {
	updated = make([]models.Mark, len(record))
	copy(updated, record)

	for _, pair := range pairs {
		if pair.Score < 0 || pair.Score > 100 {
			continue
		}

		found := false
		for i := range updated {
			if updated[i].Subject == pair.Subject {
				updated[i].Score = pair.Score
				found = true
				break
			}
		}
		if !found {
			updated = append(updated, pair)
		}
		applied = append(applied, pair)
	}

	return updated, applied
}

// Letter maps a score to the fixed grade scale. Band lower bounds are
// inclusive: 90 is already an S.
func Letter(score int) string {
	switch {
	case score >= 90:
		return "S"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	case score >= 40:
		return "E"
	default:
		return "F"
	}
}

type Row struct {
	Subject string
	Score   int
	Letter  string
}

type Summary struct {
	Rows          []Row
	Overall       float64 // mean of current scores, rounded to 2 decimals
	OverallLetter string
}

// Summarize derives the report for a record. It is read-only and
// recomputed from scratch each call; the second result is false for an
// empty record.
func Summarize(record []models.Mark) (Summary, bool) {
	if len(record) == 0 {
		return Summary{}, false
	}

	var summary Summary
	total := 0
	for _, m := range record {
		total += m.Score
		summary.Rows = append(summary.Rows, Row{
			Subject: m.Subject,
			Score:   m.Score,
			Letter:  Letter(m.Score),
		})
	}

	mean := float64(total) / float64(len(record))
	summary.Overall = math.Round(mean*100) / 100
	summary.OverallLetter = Letter(int(math.Round(mean)))
	return summary, true
}

// TitleCase normalizes a subject key: each word capitalized, the rest
// lowered, so "maths" and "MATHS" collapse to one subject.
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
