package grades

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xaenox/study-buddy/internal/models"
)

func TestLetter(t *testing.T) {
	t.Run("total over the score range", func(t *testing.T) {
		for s := 0; s <= 100; s++ {
			assert.Contains(t, []string{"S", "A", "B", "C", "D", "E", "F"}, Letter(s), "score %d", s)
		}
	})

	t.Run("band boundaries map to the higher band", func(t *testing.T) {
		tests := []struct {
			score int
			want  string
		}{
			{100, "S"},
			{90, "S"},
			{89, "A"},
			{80, "A"},
			{79, "B"},
			{70, "B"},
			{60, "C"},
			{50, "D"},
			{40, "E"},
			{39, "F"},
			{0, "F"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, Letter(tt.score), "score %d", tt.score)
		}
	})
}

func TestExtractMarks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []models.Mark
	}{
		{
			name: "separator style",
			text: "Maths - 90, Sci - 98",
			want: []models.Mark{{Subject: "Maths", Score: 90}, {Subject: "Sci", Score: 98}},
		},
		{
			name: "colon separator",
			text: "Physics: 73",
			want: []models.Mark{{Subject: "Physics", Score: 73}},
		},
		{
			name: "scored in style",
			text: "I scored 90 in Maths",
			want: []models.Mark{{Subject: "Maths", Score: 90}},
		},
		{
			name: "adjacent style",
			text: "Maths 90 Physics 80",
			want: []models.Mark{{Subject: "Maths", Score: 90}, {Subject: "Physics", Score: 80}},
		},
		{
			name: "mixed styles in one message",
			text: "Maths 92 Science - 81 English 76",
			want: []models.Mark{{Subject: "Science", Score: 81}, {Subject: "Maths", Score: 92}, {Subject: "English", Score: 76}},
		},
		{
			name: "case normalized",
			text: "maths - 88",
			want: []models.Mark{{Subject: "Maths", Score: 88}},
		},
		{
			name: "no marks",
			text: "how are my grades looking",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMarks(tt.text)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	t.Run("latest write wins per subject", func(t *testing.T) {
		record, applied := Apply(nil, []models.Mark{
			{Subject: "Maths", Score: 70},
			{Subject: "Maths", Score: 95},
		})

		assert.Len(t, applied, 2)
		assert.Equal(t, []models.Mark{{Subject: "Maths", Score: 95}}, record)
	})

	t.Run("invalid pairs dropped without blocking valid ones", func(t *testing.T) {
		record, applied := Apply(nil, []models.Mark{
			{Subject: "Maths", Score: 92},
			{Subject: "Physics", Score: 120},
			{Subject: "Chemistry", Score: -5},
			{Subject: "English", Score: 76},
		})

		assert.Equal(t, []models.Mark{
			{Subject: "Maths", Score: 92},
			{Subject: "English", Score: 76},
		}, record)
		assert.Equal(t, []models.Mark{
			{Subject: "Maths", Score: 92},
			{Subject: "English", Score: 76},
		}, applied)
	})

	t.Run("updating keeps insertion order", func(t *testing.T) {
		base := []models.Mark{{Subject: "Maths", Score: 50}, {Subject: "Physics", Score: 60}}
		record, _ := Apply(base, []models.Mark{{Subject: "Maths", Score: 90}})

		assert.Equal(t, []models.Mark{
			{Subject: "Maths", Score: 90},
			{Subject: "Physics", Score: 60},
		}, record)
		// The input record is untouched.
		assert.Equal(t, 50, base[0].Score)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("empty record", func(t *testing.T) {
		_, ok := Summarize(nil)
		assert.False(t, ok)
	})

	t.Run("mean and overall grade", func(t *testing.T) {
		record := []models.Mark{
			{Subject: "Maths", Score: 92},
			{Subject: "Science", Score: 81},
			{Subject: "English", Score: 76},
		}

		summary, ok := Summarize(record)
		assert.True(t, ok)
		assert.InDelta(t, 83.00, summary.Overall, 0.001)
		assert.Equal(t, "A", summary.OverallLetter)
		assert.Equal(t, []Row{
			{Subject: "Maths", Score: 92, Letter: "S"},
			{Subject: "Science", Score: 81, Letter: "A"},
			{Subject: "English", Score: 76, Letter: "B"},
		}, summary.Rows)
	})

	t.Run("mean rounds to two decimals", func(t *testing.T) {
		summary, ok := Summarize([]models.Mark{
			{Subject: "A", Score: 90},
			{Subject: "B", Score: 92},
			{Subject: "C", Score: 95},
		})
		assert.True(t, ok)
		assert.InDelta(t, 92.33, summary.Overall, 0.001)
		assert.Equal(t, "S", summary.OverallLetter)
	})

	t.Run("idempotent", func(t *testing.T) {
		record := []models.Mark{{Subject: "Maths", Score: 64}}
		first, _ := Summarize(record)
		second, _ := Summarize(record)
		assert.Equal(t, first, second)
	})
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Maths", TitleCase("MATHS"))
	assert.Equal(t, "Computer Science", TitleCase("computer science"))
	assert.Equal(t, "", TitleCase("   "))
}
