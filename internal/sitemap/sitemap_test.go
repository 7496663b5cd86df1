package sitemap_test

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gemvoyage/web/internal/api"
	"github.com/gemvoyage/web/internal/apitest"
	"github.com/gemvoyage/web/internal/models"
	"github.com/gemvoyage/web/internal/sitemap"
)

const base = "https://gemvoyage.net"

var today = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	gems, latest []models.Gem
	cities       []models.City
	gemsErr      error
	latestErr    error
	citiesErr    error
	latestCalls  int
}

func (f *fakeSource) Gems(context.Context) ([]models.Gem, error) { return f.gems, f.gemsErr }
func (f *fakeSource) LatestGems(context.Context) ([]models.Gem, error) {
	f.latestCalls++
	return f.latest, f.latestErr
}
func (f *fakeSource) Cities(context.Context) ([]models.City, error) { return f.cities, f.citiesErr }

func build(t *testing.T, src sitemap.Source) sitemap.URLSet {
	t.Helper()
	g := sitemap.New(src, base, sitemap.WithClock(func() time.Time { return today }))
	set, err := g.Build(context.Background())
	require.NoError(t, err)
	return set
}

func byLoc(set sitemap.URLSet) map[string]sitemap.URL {
	m := make(map[string]sitemap.URL, len(set.URLs))
	for _, u := range set.URLs {
		m[u.Loc] = u
	}
	return m
}

func TestStaticPages(t *testing.T) {
	defer goleak.VerifyNone(t)

	set := build(t, &fakeSource{})
	require.Len(t, set.URLs, 14)
	urls := byLoc(set)

	tests := []struct {
		path     string
		priority string
		freq     sitemap.ChangeFreq
	}{
		{"", "1.0", sitemap.Daily},
		{"/browse", "1.0", sitemap.Daily},
		{"/browse?category=Culture", "0.9", sitemap.Daily},
		{"/browse?category=Entertainment", "0.9", sitemap.Daily},
		{"/login", "0.5", sitemap.Monthly},
		{"/register", "0.5", sitemap.Monthly},
		{"/create", "0.7", sitemap.Weekly},
		{"/terms", "0.3", sitemap.Yearly},
		{"/privacy", "0.3", sitemap.Yearly},
		{"/sitemap", "0.4", sitemap.Monthly},
	}
	for _, tt := range tests {
		u, ok := urls[base+tt.path]
		require.True(t, ok, tt.path)
		assert.Equal(t, tt.priority, u.Priority, tt.path)
		assert.Equal(t, tt.freq, u.ChangeFreq, tt.path)
		assert.Equal(t, "2025-06-01", u.LastMod, tt.path)
	}
}

func TestGemAndCityPages(t *testing.T) {
	defer goleak.VerifyNone(t)

	updated := time.Date(2025, 3, 4, 23, 30, 0, 0, time.UTC)
	set := build(t, &fakeSource{
		gems: []models.Gem{
			{ID: "g1", Slug: "livraria-lello", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), UpdatedAt: &updated},
			{ID: "g2", CreatedAt: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
			{Title: "no identifier"},
		},
		cities: []models.City{
			{Name: "New York", UpdatedAt: &updated},
			{Name: "São Paulo"},
		},
	})
	require.Len(t, set.URLs, 14+2+2)
	urls := byLoc(set)

	lello := urls[base+"/gem/livraria-lello"]
	assert.Equal(t, "2025-03-04", lello.LastMod)
	assert.Equal(t, "0.8", lello.Priority)
	assert.Equal(t, sitemap.Weekly, lello.ChangeFreq)

	assert.Equal(t, "2024-05-06", urls[base+"/gem/g2"].LastMod)

	ny := urls[base+"/city/new-york"]
	assert.Equal(t, "2025-03-04", ny.LastMod)
	assert.Equal(t, "0.7", ny.Priority)

	sp, ok := urls[base+"/city/so-paulo"]
	require.True(t, ok)
	assert.Equal(t, "2025-06-01", sp.LastMod)
}

func TestFallsBackToLatestGems(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := &fakeSource{
		gemsErr:   &api.StatusError{Method: http.MethodGet, Path: "/gem", StatusCode: http.StatusBadGateway},
		latest:    []models.Gem{{ID: "g9"}},
		citiesErr: errors.New("boom"),
	}
	set := build(t, src)
	urls := byLoc(set)
	assert.Contains(t, urls, base+"/gem/g9")
	assert.Len(t, set.URLs, 15)
	assert.Equal(t, 1, src.latestCalls)
}

func TestTransportErrorSkipsLatestGems(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := &fakeSource{
		gemsErr: errors.New("dial tcp: connection refused"),
		latest:  []models.Gem{{ID: "g9"}},
	}
	set := build(t, src)
	assert.NotContains(t, byLoc(set), base+"/gem/g9")
	assert.Len(t, set.URLs, 14)
	assert.Zero(t, src.latestCalls)
}

func TestEverythingFailing(t *testing.T) {
	defer goleak.VerifyNone(t)

	set := build(t, &fakeSource{
		gemsErr:   &api.StatusError{Method: http.MethodGet, Path: "/gem", StatusCode: http.StatusInternalServerError},
		latestErr: errors.New("boom"),
		citiesErr: errors.New("boom"),
	})
	assert.Len(t, set.URLs, 14)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	g := sitemap.New(&fakeSource{gems: []models.Gem{{ID: "g1"}}}, base,
		sitemap.WithClock(func() time.Time { return today }))
	require.NoError(t, g.Write(context.Background(), &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, out, "<loc>https://gemvoyage.net/browse?category=Food</loc>")
	assert.NotContains(t, out, "<lastmod></lastmod>")

	var decoded sitemap.URLSet
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.URLs, 15)
}

func TestWriteFileAgainstBackend(t *testing.T) {
	b := apitest.New(t)
	b.AddGems(models.Gem{ID: "g1", CreatedAt: today})
	b.AddCities(models.City{Name: "Porto"})
	b.Fail(http.MethodGet, "/gem", http.StatusBadGateway)

	path := filepath.Join(t.TempDir(), "public", "sitemap.xml")
	g := sitemap.New(api.NewClient(b.URL()), base)
	require.NoError(t, g.WriteFile(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<loc>https://gemvoyage.net/gem/g1</loc>")
	assert.Contains(t, string(data), "<loc>https://gemvoyage.net/city/porto</loc>")
	assert.Equal(t, 1, b.Count(http.MethodGet, "/gem/latest"))
}
