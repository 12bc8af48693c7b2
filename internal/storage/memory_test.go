package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/study-buddy/internal/models"
)

func TestMemoryStorage_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	sess, err := s.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.ID)
	assert.Empty(t, sess.Name)

	again, err := s.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess.CreatedAt, again.CreatedAt)
}

func TestMemoryStorage_SetName(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	// Setting a name on an unknown session creates it.
	require.NoError(t, s.SetName(ctx, "s1", "Rahul"))

	sess, err := s.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Rahul", sess.Name)
}

func TestMemoryStorage_Marks(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	require.NoError(t, s.UpsertMark(ctx, "s1", models.Mark{Subject: "Maths", Score: 70}))
	require.NoError(t, s.UpsertMark(ctx, "s1", models.Mark{Subject: "Physics", Score: 80}))
	require.NoError(t, s.UpsertMark(ctx, "s1", models.Mark{Subject: "Maths", Score: 95}))

	marks, err := s.Marks(ctx, "s1")
	require.NoError(t, err)
	// Upsert overwrites in place and keeps insertion order.
	assert.Equal(t, []models.Mark{
		{Subject: "Maths", Score: 95},
		{Subject: "Physics", Score: 80},
	}, marks)

	other, err := s.Marks(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStorage_Turns(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	for i, text := range []string{"one", "two", "three", "four"} {
		turn := models.Turn{
			ID:        string(rune('a' + i)),
			Role:      models.RoleUser,
			Text:      text,
			CreatedAt: time.Now(),
		}
		require.NoError(t, s.AppendTurn(ctx, "s1", turn))
	}

	require.NoError(t, s.DropOldestTurns(ctx, "s1", 2))

	turns, err := s.Turns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "three", turns[0].Text)
	assert.Equal(t, "four", turns[1].Text)

	// Dropping more than exist empties the session without error.
	require.NoError(t, s.DropOldestTurns(ctx, "s1", 10))
	turns, err = s.Turns(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestMemoryStorage_EvictIdle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	_, err := s.GetOrCreate(ctx, "old")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	cutoff := time.Now()
	_, err = s.GetOrCreate(ctx, "fresh")
	require.NoError(t, err)

	evicted, err := s.EvictIdle(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	// The evicted session comes back empty on next use.
	sess, err := s.GetOrCreate(ctx, "old")
	require.NoError(t, err)
	assert.Empty(t, sess.Name)
}
