package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepo_ReadPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepo(newTestDB(t))

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, "s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}
	// Writes to another session must not affect s1 ordering.
	require.NoError(t, repo.Append(ctx, "s2", "other", "other"))

	turns, err := repo.Read(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 5)
	for i, turn := range turns {
		assert.Equal(t, fmt.Sprintf("q%d", i), turn.UserMessage)
		assert.Equal(t, fmt.Sprintf("a%d", i), turn.AIResponse)
	}
}

func TestHistoryRepo_UnknownSessionIsEmpty(t *testing.T) {
	repo := NewHistoryRepo(newTestDB(t))

	turns, err := repo.Read(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestHistoryRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepo(newTestDB(t))

	require.NoError(t, repo.Append(ctx, "s1", "hi", "hello"))

	turns, err := repo.Read(ctx, "s1")
	require.NoError(t, err)
	require.NotEmpty(t, turns)

	last := turns[len(turns)-1]
	assert.Equal(t, "hi", last.UserMessage)
	assert.Equal(t, "hello", last.AIResponse)
	assert.False(t, last.CreatedAt.IsZero())
}

func TestHistoryRepo_RecentReturnsLastNChronologically(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepo(newTestDB(t))

	for i := 0; i < 6; i++ {
		require.NoError(t, repo.Append(ctx, "s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}

	turns, err := repo.Recent(ctx, "s1", 3)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "q3", turns[0].UserMessage)
	assert.Equal(t, "q5", turns[2].UserMessage)
}
