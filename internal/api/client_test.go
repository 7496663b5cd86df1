package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemvoyage/web/internal/api"
	"github.com/gemvoyage/web/internal/apitest"
	"github.com/gemvoyage/web/internal/models"
)

func gem(id, title string, category models.Category) models.Gem {
	return models.Gem{
		ID:        id,
		Title:     title,
		Location:  "Lisbon, Portugal",
		Category:  category,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestGemsAcceptsArrayAndWrappedBodies(t *testing.T) {
	b := apitest.New(t)
	b.AddGems(gem("g1", "Tram 28", models.CategoryCulture), gem("g2", "Miradouro", models.CategoryNature))
	c := api.NewClient(b.URL())
	ctx := context.Background()

	all, err := c.Gems(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// /gem/latest answers {"content": [...]}, newest first.
	latest, err := c.LatestGems(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "g2", latest[0].ID)

	// /city/:name/gems answers {"data": [...]}.
	cityGems, err := c.CityGems(ctx, "Lisbon")
	require.NoError(t, err)
	assert.Len(t, cityGems, 2)
}

func TestAllGemsPagedWalksOffsets(t *testing.T) {
	b := apitest.New(t)
	for i := 0; i < 23; i++ {
		b.AddGems(gem("g"+string(rune('a'+i)), "Gem", models.CategoryFood))
	}
	c := api.NewClient(b.URL())

	all, err := c.AllGemsPaged(context.Background(), models.CategoryAll)
	require.NoError(t, err)
	assert.Len(t, all, 23)
	assert.Equal(t, 3, b.Count(http.MethodGet, "/gem"))
}

func TestGemNotFound(t *testing.T) {
	b := apitest.New(t)
	c := api.NewClient(b.URL())

	_, err := c.Gem(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))

	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Gem not found", se.Message())
	assert.Equal(t, "/api/gem/missing", se.Path)
}

func TestAuthorizedSendsRawToken(t *testing.T) {
	b := apitest.New(t)
	c := api.NewClient(b.URL())

	require.NoError(t, c.Authorized("abc.def.ghi").Logout(context.Background()))
	_, err := c.Gems(context.Background())
	require.NoError(t, err)

	reqs := b.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "abc.def.ghi", reqs[0].Authorization)
	assert.Empty(t, reqs[1].Authorization, "the base client stays anonymous")
}

func TestIsTokenExpired(t *testing.T) {
	b := apitest.New(t)
	b.ExpiredTokens["old"] = true
	c := api.NewClient(b.URL())

	err := c.Authorized("old").Logout(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsTokenExpired(err))

	b.Fail(http.MethodPost, "/auth/logout", http.StatusInternalServerError)
	err = c.Authorized("fresh").Logout(context.Background())
	require.Error(t, err)
	assert.False(t, api.IsTokenExpired(err))
}

func TestUploadGemImage(t *testing.T) {
	b := apitest.New(t)
	c := api.NewClient(b.URL())

	img, err := c.UploadGemImage(context.Background(), "tram.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/tram.jpg", img.URL)
}

func TestVotesAndComments(t *testing.T) {
	b := apitest.New(t)
	c := api.NewClient(b.URL())
	ctx := context.Background()

	require.NoError(t, c.CreateVote(ctx, models.Vote{ID: "v1", GemID: "g1", OwnerID: "u1", Positive: true}))
	require.NoError(t, c.UpdateVote(ctx, models.Vote{ID: "v1", GemID: "g1", OwnerID: "u1", Positive: false}))

	votes, err := c.GemVotes(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.False(t, votes[0].Positive)

	err = c.UpdateVote(ctx, models.Vote{ID: "nope", GemID: "g1"})
	assert.True(t, api.IsNotFound(err))

	require.NoError(t, c.CreateComment(ctx, models.Comment{ID: "c1", GemID: "g1", OwnerID: "u1", Comment: "Lovely"}))
	comments, err := c.GemComments(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Lovely", comments[0].Comment)
}

func TestSearchGems(t *testing.T) {
	b := apitest.New(t)
	b.AddGems(gem("g1", "Tram 28", models.CategoryCulture), gem("g2", "Tram museum", models.CategoryHistory))
	c := api.NewClient(b.URL())

	found, err := c.SearchGems(context.Background(), "tram", models.CategoryHistory)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "g2", found[0].ID)
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := api.NewClient(srv.URL).Gems(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGemsDecodeZonelessTimestamps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"g1","title":"Tram 28","createdAt":"2024-03-09T10:00:00","updatedAt":""},
			{"id":"g2","title":"Miradouro","createdAt":"2024-03-09T10:00:00Z"}
		]`))
	}))
	defer srv.Close()

	gems, err := api.NewClient(srv.URL).Gems(context.Background())
	require.NoError(t, err)
	require.Len(t, gems, 2)
	assert.True(t, gems[0].CreatedAt.Equal(gems[1].CreatedAt))
	assert.Nil(t, gems[0].UpdatedAt)
}
