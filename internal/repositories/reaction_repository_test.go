package repositories

import (
	"testing"

	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleCreatesReaction(t *testing.T) {
	repo := NewPostgresReactionRepository(newTestDB(t))

	reaction, removed, err := repo.Toggle(1, models.ReactionTargetMemorial, "42", models.ReactionLove)
	require.NoError(t, err)
	assert.False(t, removed)
	require.NotNil(t, reaction)
	assert.Equal(t, models.ReactionLove, reaction.Type)
	assert.NotZero(t, reaction.ID)
}

func TestToggleSameTypeRemoves(t *testing.T) {
	repo := NewPostgresReactionRepository(newTestDB(t))

	_, _, err := repo.Toggle(1, models.ReactionTargetMemorial, "42", models.ReactionLove)
	require.NoError(t, err)

	reaction, removed, err := repo.Toggle(1, models.ReactionTargetMemorial, "42", models.ReactionLove)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Nil(t, reaction)

	counts, err := repo.GetCountsForTarget(models.ReactionTargetMemorial, "42")
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestToggleDifferentTypeReplaces(t *testing.T) {
	repo := NewPostgresReactionRepository(newTestDB(t))

	first, _, err := repo.Toggle(1, models.ReactionTargetMemorial, "42", models.ReactionLove)
	require.NoError(t, err)

	second, removed, err := repo.Toggle(1, models.ReactionTargetMemorial, "42", models.ReactionWow)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, models.ReactionWow, second.Type)
	assert.Equal(t, first.ID, second.ID, "replacement must update the row in place")

	reactions, err := repo.GetReactionsForTarget(models.ReactionTargetMemorial, "42")
	require.NoError(t, err)
	require.Len(t, reactions, 1)
	assert.Equal(t, models.ReactionWow, reactions[0].Type)
}

func TestToggleAtMostOneRowPerUserAndTarget(t *testing.T) {
	repo := NewPostgresReactionRepository(newTestDB(t))

	sequence := []string{
		models.ReactionLike,
		models.ReactionLove,
		models.ReactionLove, // removes
		models.ReactionSad,
		models.ReactionWow,
	}
	for _, rt := range sequence {
		_, _, err := repo.Toggle(7, models.ReactionTargetItem, "64f0c2", rt)
		require.NoError(t, err)
	}

	reactions, err := repo.GetReactionsForTarget(models.ReactionTargetItem, "64f0c2")
	require.NoError(t, err)
	require.Len(t, reactions, 1)
	assert.Equal(t, models.ReactionWow, reactions[0].Type)
}

func TestToggleIsScopedToTarget(t *testing.T) {
	repo := NewPostgresReactionRepository(newTestDB(t))

	_, _, err := repo.Toggle(1, models.ReactionTargetMemorial, "42", models.ReactionLove)
	require.NoError(t, err)
	_, _, err = repo.Toggle(1, models.ReactionTargetItem, "42", models.ReactionLove)
	require.NoError(t, err)
	_, _, err = repo.Toggle(2, models.ReactionTargetMemorial, "42", models.ReactionSad)
	require.NoError(t, err)

	counts, err := repo.GetCountsForTarget(models.ReactionTargetMemorial, "42")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.ReactionLove])
	assert.Equal(t, int64(1), counts[models.ReactionSad])
}

func TestGetUserReaction(t *testing.T) {
	repo := NewPostgresReactionRepository(newTestDB(t))

	reaction, err := repo.GetUserReaction(1, models.ReactionTargetMemorial, "42")
	require.NoError(t, err)
	assert.Nil(t, reaction)

	_, _, err = repo.Toggle(1, models.ReactionTargetMemorial, "42", models.ReactionLike)
	require.NoError(t, err)

	reaction, err = repo.GetUserReaction(1, models.ReactionTargetMemorial, "42")
	require.NoError(t, err)
	require.NotNil(t, reaction)
	assert.Equal(t, models.ReactionLike, reaction.Type)
}
