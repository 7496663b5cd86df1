package voting_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemvoyage/web/internal/api"
	"github.com/gemvoyage/web/internal/apitest"
	"github.com/gemvoyage/web/internal/models"
	"github.com/gemvoyage/web/internal/session"
	"github.com/gemvoyage/web/internal/storage"
	"github.com/gemvoyage/web/internal/voting"
)

func setup(t *testing.T, userID string) (*voting.Service, *apitest.Backend) {
	t.Helper()
	b := apitest.New(t)
	store := storage.NewMemoryStore()
	if userID != "" {
		require.NoError(t, store.SetItem(context.Background(), storage.KeyUserID, userID))
	}
	client := api.NewClient(b.URL())
	sess := session.New(client, store, nil)
	return voting.NewService(client, sess, nil), b
}

func TestCount(t *testing.T) {
	votes := []models.Vote{
		{OwnerID: "a", Positive: true},
		{OwnerID: "b", Positive: true},
		{OwnerID: "c", Positive: false},
	}
	tally := voting.Count(votes, "c")
	assert.Equal(t, 2, tally.Upvotes)
	assert.Equal(t, 1, tally.Downvotes)
	assert.Equal(t, 1, tally.Score())
	assert.Equal(t, -1, tally.Mine)

	assert.Zero(t, voting.Count(nil, "").Score())
}

func TestFirstUpvoteAddsOne(t *testing.T) {
	svc, b := setup(t, "u1")
	b.AddVotes(models.Vote{ID: "x", GemID: "g1", OwnerID: "other", Positive: false})
	ctx := context.Background()

	before, err := svc.Tally(ctx, "g1")
	require.NoError(t, err)

	after, err := svc.Cast(ctx, "g1", true)
	require.NoError(t, err)
	assert.Equal(t, before.Score()+1, after.Score())
	assert.Equal(t, 1, after.Mine)
	assert.Equal(t, 1, b.Count(http.MethodPost, "/vote"))

	votes := b.Votes()
	require.Len(t, votes, 2)
	assert.NotEmpty(t, votes[1].ID)
	assert.False(t, votes[1].CreatedAt.IsZero())
}

func TestUpvoteAfterDownvoteMovesTwo(t *testing.T) {
	svc, b := setup(t, "u1")
	ctx := context.Background()

	down, err := svc.Cast(ctx, "g1", false)
	require.NoError(t, err)
	assert.Equal(t, -1, down.Score())

	up, err := svc.Cast(ctx, "g1", true)
	require.NoError(t, err)
	assert.Equal(t, down.Score()+2, up.Score())

	assert.Equal(t, 1, b.Count(http.MethodPost, "/vote"))
	votes := b.Votes()
	require.Len(t, votes, 1, "the second vote replaces the first")
	assert.Equal(t, 1, b.Count(http.MethodPut, "/vote/"+votes[0].ID))
	assert.True(t, votes[0].Positive)
}

func TestUpdateKeepsIDAndCreatedAt(t *testing.T) {
	svc, b := setup(t, "u1")
	original := models.Vote{ID: "v-1", GemID: "g1", OwnerID: "u1", Positive: true, CreatedAt: time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)}
	b.AddVotes(original)

	_, err := svc.Cast(context.Background(), "g1", false)
	require.NoError(t, err)

	votes := b.Votes()
	require.Len(t, votes, 1)
	assert.Equal(t, "v-1", votes[0].ID)
	assert.True(t, original.CreatedAt.Equal(votes[0].CreatedAt))
	assert.False(t, votes[0].Positive)
}

func TestCastWithoutUserSendsNothing(t *testing.T) {
	svc, b := setup(t, "")

	_, err := svc.Cast(context.Background(), "g1", true)
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
	assert.Empty(t, b.Requests())
}

func TestCastWriteFailure(t *testing.T) {
	svc, b := setup(t, "u1")
	b.Fail(http.MethodPost, "/vote", http.StatusInternalServerError)

	_, err := svc.Cast(context.Background(), "g1", true)
	require.Error(t, err)
	assert.Empty(t, b.Votes())
}

func TestCastRefetchFailureIsStale(t *testing.T) {
	svc, b := setup(t, "u1")
	b.AddVotes(
		models.Vote{ID: "x", GemID: "g1", OwnerID: "other", Positive: true},
		models.Vote{ID: "mine", GemID: "g1", OwnerID: "u1", Positive: false},
	)
	b.FailAfter(http.MethodGet, "/vote/gem/g1", 1, http.StatusInternalServerError)

	tally, err := svc.Cast(context.Background(), "g1", true)
	require.NoError(t, err)
	assert.True(t, tally.Stale)
	assert.Equal(t, 2, tally.Upvotes)
	assert.Equal(t, 0, tally.Downvotes)
	assert.Equal(t, 1, tally.Mine)
	assert.Equal(t, 1, b.Writes())
	assert.Equal(t, 2, b.Count(http.MethodGet, "/vote/gem/g1"))

	// First vote by the user: the local tally still counts it.
	b.FailAfter(http.MethodGet, "/vote/gem/g2", 1, http.StatusInternalServerError)
	tally, err = svc.Cast(context.Background(), "g2", false)
	require.NoError(t, err)
	assert.True(t, tally.Stale)
	assert.Equal(t, -1, tally.Score())
	assert.Equal(t, 2, b.Writes())
}
