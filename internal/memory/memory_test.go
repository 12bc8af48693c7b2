package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/study-buddy/internal/models"
	"github.com/xaenox/study-buddy/internal/storage"
	"go.uber.org/zap"
)

func newTestManager(budget int) (*Manager, *storage.MemoryStorage) {
	store := storage.NewMemoryStorage()
	return NewManager(store, budget, zap.NewNop()), store
}

func TestAppendExchange_WithinBudget(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(100)

	require.NoError(t, m.AppendExchange(ctx, "s1", "hello", "hi there"))

	turns, err := m.Recent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, models.RoleUser, turns[0].Role)
	assert.Equal(t, "hello", turns[0].Text)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
	assert.Equal(t, "hi there", turns[1].Text)
}

func TestAppendExchange_EvictsOldestFirst(t *testing.T) {
	ctx := context.Background()
	// Each exchange below is 10 chars, so only three turns fit the budget.
	m, _ := newTestManager(16)

	require.NoError(t, m.AppendExchange(ctx, "s1", "aaaaa", "bbbbb"))
	require.NoError(t, m.AppendExchange(ctx, "s1", "ccccc", "ddddd"))
	require.NoError(t, m.AppendExchange(ctx, "s1", "eeeee", "fffff"))

	turns, err := m.Recent(ctx, "s1")
	require.NoError(t, err)

	texts := make([]string, len(turns))
	for i, turn := range turns {
		texts[i] = turn.Text
	}
	// Oldest turns went first; the most recent turns survive verbatim.
	assert.Equal(t, []string{"ddddd", "eeeee", "fffff"}, texts)
}

func TestAppendExchange_NeverEvictsCurrentExchange(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(5)

	require.NoError(t, m.AppendExchange(ctx, "s1", "this alone busts the budget", "and so does this reply"))

	turns, err := m.Recent(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, turns, 2)
}

func TestAppendExchange_SessionsIndependent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(1000)

	require.NoError(t, m.AppendExchange(ctx, "s1", "one", "reply one"))
	require.NoError(t, m.AppendExchange(ctx, "s2", "two", "reply two"))

	s1, err := m.Recent(ctx, "s1")
	require.NoError(t, err)
	s2, err := m.Recent(ctx, "s2")
	require.NoError(t, err)

	assert.Len(t, s1, 2)
	assert.Len(t, s2, 2)
	assert.Equal(t, "one", s1[0].Text)
	assert.Equal(t, "two", s2[0].Text)
}

func TestRender(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		assert.Equal(t, "(no previous conversation)", Render(nil))
	})

	t.Run("chronological lines", func(t *testing.T) {
		turns := []models.Turn{
			{Role: models.RoleUser, Text: "hi"},
			{Role: models.RoleAssistant, Text: "hello"},
		}
		assert.Equal(t, "USER: hi\nBOT: hello", Render(turns))
	})
}
