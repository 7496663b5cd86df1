package gems_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemvoyage/web/internal/api"
	"github.com/gemvoyage/web/internal/apitest"
	"github.com/gemvoyage/web/internal/comments"
	"github.com/gemvoyage/web/internal/gems"
	"github.com/gemvoyage/web/internal/models"
	"github.com/gemvoyage/web/internal/profile"
	"github.com/gemvoyage/web/internal/session"
	"github.com/gemvoyage/web/internal/storage"
	"github.com/gemvoyage/web/internal/voting"
)

func setup(t *testing.T, loggedIn bool) (*gems.Service, *apitest.Backend) {
	t.Helper()
	b := apitest.New(t)
	store := storage.NewMemoryStore()
	ctx := context.Background()
	if loggedIn {
		require.NoError(t, store.SetItem(ctx, storage.KeyIsLoggedIn, "true"))
		require.NoError(t, store.SetItem(ctx, storage.KeyAccessToken, "tok"))
		require.NoError(t, store.SetItem(ctx, storage.KeyUserID, "u1"))
	}
	client := api.NewClient(b.URL())
	sess := session.New(client, store, nil)
	svc := gems.NewService(
		client,
		sess,
		voting.NewService(client, sess, nil),
		comments.NewService(client, sess, nil),
		profile.NewService(client, sess, nil),
		nil,
	)
	return svc, b
}

func TestDetail(t *testing.T) {
	svc, b := setup(t, true)
	b.AddGems(models.Gem{ID: "g1", Title: "Livraria Lello", Owner: "u7", Category: models.CategoryCulture})
	b.AddProfile(models.UserProfile{UserID: "u7", FirstName: "Rui", LastName: "Costa"})
	b.AddVotes(
		models.Vote{ID: "v1", GemID: "g1", OwnerID: "u1", Positive: true},
		models.Vote{ID: "v2", GemID: "g1", OwnerID: "u2", Positive: false},
		models.Vote{ID: "v3", GemID: "g1", OwnerID: "u3", Positive: true},
	)
	b.AddComments(models.Comment{ID: "c1", GemID: "g1", OwnerID: "u2", Comment: "Go early"})

	d, err := svc.Detail(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "Livraria Lello", d.Gem.Title)
	assert.Equal(t, "Rui Costa", d.Author)
	assert.Equal(t, 2, d.Votes.Upvotes)
	assert.Equal(t, 1, d.Votes.Downvotes)
	assert.Equal(t, 1, d.Votes.Mine)
	require.Len(t, d.Comments, 1)
	assert.Equal(t, "Go early", d.Comments[0].Comment)
	assert.Empty(t, d.Warnings)
}

func TestDetailNotFound(t *testing.T) {
	svc, _ := setup(t, false)

	_, err := svc.Detail(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
}

func TestDetailDegradesWhenPartsFail(t *testing.T) {
	svc, b := setup(t, false)
	b.AddGems(models.Gem{ID: "g1", Title: "Ribeira", Owner: "u7"})
	b.Fail(http.MethodGet, "/vote/gem/g1", http.StatusInternalServerError)
	b.Fail(http.MethodGet, "/gem_comment/gem/g1", http.StatusInternalServerError)

	d, err := svc.Detail(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "Ribeira", d.Gem.Title)
	assert.Equal(t, "u7", d.Author)
	assert.Zero(t, d.Votes.Score())
	assert.NotNil(t, d.Comments)
	assert.Empty(t, d.Comments)
	assert.Len(t, d.Warnings, 2)
}

func TestCreate(t *testing.T) {
	svc, b := setup(t, true)

	gem, err := svc.Create(context.Background(), models.CreateGemRequest{
		Title:       "Jardim do Morro",
		Description: "Sunset over the river",
		Category:    "nature",
		Image:       "https://images.example/morro.jpg",
		Location:    "Porto",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", gem.Owner)
	assert.Equal(t, models.CategoryNature, gem.Category)

	stored := b.Gems()
	require.Len(t, stored, 1)
	assert.Equal(t, "Jardim do Morro", stored[0].Title)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name     string
		loggedIn bool
		in       models.CreateGemRequest
		check    func(t *testing.T, err error)
	}{
		{
			name: "not logged in",
			in:   models.CreateGemRequest{Title: "a", Description: "b", Category: "Food", Image: "c", Location: "d"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, session.ErrNotLoggedIn)
			},
		},
		{
			name:     "missing fields",
			loggedIn: true,
			in:       models.CreateGemRequest{Title: "a", Category: "Food"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, gems.ErrMissingFields)
				var missing *gems.MissingFieldsError
				require.ErrorAs(t, err, &missing)
				assert.Contains(t, missing.Fields, "description")
				assert.Contains(t, missing.Fields, "image")
				assert.Contains(t, missing.Fields, "location")
			},
		},
		{
			name:     "all is not a gem category",
			loggedIn: true,
			in:       models.CreateGemRequest{Title: "a", Description: "b", Category: "All", Image: "c", Location: "d"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, gems.ErrInvalidCategory)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, b := setup(t, tt.loggedIn)
			_, err := svc.Create(context.Background(), tt.in)
			require.Error(t, err)
			tt.check(t, err)
			assert.Zero(t, b.Writes())
		})
	}
}

func TestUploadImage(t *testing.T) {
	svc, b := setup(t, true)

	url, err := svc.UploadImage(context.Background(), "tiles.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/tiles.jpg", url)
	assert.Equal(t, 1, b.Count(http.MethodPost, "/gem/upload"))
}

func TestCity(t *testing.T) {
	svc, b := setup(t, false)
	b.AddCities(models.City{ID: "c1", Name: "New York", Description: "The big apple"})

	page := svc.City(context.Background(), "new-york")
	assert.Equal(t, "New York", page.Name)
	assert.Equal(t, "The big apple", page.Description)
	require.NotNil(t, page.City)

	page = svc.City(context.Background(), "lisbon")
	assert.Equal(t, "Lisbon", page.Name)
	assert.Nil(t, page.City)
	assert.Contains(t, page.Description, "Lisbon special")
}

func TestCitySource(t *testing.T) {
	svc, b := setup(t, false)
	b.AddGems(
		models.Gem{ID: "g1", Location: "Porto, Portugal"},
		models.Gem{ID: "g2", Location: "Lisbon, Portugal"},
	)

	list, err := svc.CitySource("Porto")(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "g1", list[0].ID)
}
