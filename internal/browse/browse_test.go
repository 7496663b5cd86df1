package browse

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemvoyage/web/internal/models"
)

func fixture() []models.Gem {
	return []models.Gem{
		{ID: "1", Title: "Sintra Palace", Description: "Colourful hilltop palace", Location: "Sintra, Portugal", Category: models.CategoryHistory},
		{ID: "2", Title: "Pastéis de Belém", Description: "Custard tarts since 1837", Location: "Lisbon, Portugal", Category: models.CategoryFood},
		{ID: "3", Title: "Cabo da Roca", Description: "Westernmost cliffs of the continent", Location: "Colares, Portugal", Category: models.CategoryNature},
		{ID: "4", Title: "LX Factory", Description: "Bookshops and street art", Location: "Lisbon, Portugal", Category: models.CategoryShopping},
		{ID: "5", Title: "Benagil Cave", Description: "Sea cave reachable by kayak", Location: "Lagoa, Portugal", Category: models.CategoryNature},
	}
}

func ids(gems []models.Gem) []string {
	out := make([]string, 0, len(gems))
	for _, g := range gems {
		out = append(out, g.ID)
	}
	return out
}

func numbered(n int) []models.Gem {
	gems := make([]models.Gem, n)
	for i := range gems {
		gems[i] = models.Gem{ID: fmt.Sprint(i), Title: fmt.Sprintf("Gem %d", i), Category: models.CategoryCulture}
	}
	return gems
}

func TestApplyCategory(t *testing.T) {
	got := Apply(fixture(), Filter{Category: models.CategoryNature})
	if diff := cmp.Diff([]string{"3", "5"}, ids(got)); diff != "" {
		t.Errorf("nature gems mismatch (-want +got):\n%s", diff)
	}
	for _, g := range got {
		assert.Equal(t, models.CategoryNature, g.Category)
	}
}

func TestApplyQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"title once", Filter{Query: "palace"}, []string{"1"}},
		{"case insensitive", Filter{Query: "LX FACTORY"}, []string{"4"}},
		{"description", Filter{Query: "kayak"}, []string{"5"}},
		{"location", Filter{Query: "lisbon"}, []string{"2", "4"}},
		{"trimmed", Filter{Query: "  cave "}, []string{"5"}},
		{"intersected with category", Filter{Category: models.CategoryFood, Query: "lisbon"}, []string{"2"}},
		{"all is no filter", Filter{Category: models.CategoryAll}, []string{"1", "2", "3", "4", "5"}},
		{"nothing", Filter{Query: "tokyo"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(fixture(), tt.filter))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	gems := numbered(20)

	p1 := Paginate(gems, 1, 9)
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}, ids(p1.Items))
	assert.Equal(t, 3, p1.TotalPages)
	assert.False(t, p1.HasPrev)
	assert.True(t, p1.HasNext)

	p3 := Paginate(gems, 3, 9)
	assert.Equal(t, []string{"18", "19"}, ids(p3.Items))
	assert.True(t, p3.HasPrev)
	assert.False(t, p3.HasNext)

	assert.Equal(t, 3, Paginate(gems, 42, 9).Number)
	assert.Equal(t, 1, Paginate(gems, -1, 9).Number)

	empty := Paginate(nil, 2, 9)
	assert.Equal(t, 1, empty.Number)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.TotalPages)
}

func staticSource(gems []models.Gem) Source {
	return func(context.Context) ([]models.Gem, error) { return gems, nil }
}

func TestBrowserResetsPageOnFilterChange(t *testing.T) {
	b := New(staticSource(numbered(20)))
	b.Load(context.Background())

	b.SetPage(3)
	assert.Equal(t, 3, b.Page())

	b.SetCategory(models.CategoryCulture)
	assert.Equal(t, 1, b.Page())

	b.SetPage(2)
	b.SetQuery("gem 1")
	assert.Equal(t, 1, b.Page())

	b.SetPage(2)
	b.ClearFilters()
	assert.Equal(t, 1, b.Page())
	assert.Equal(t, models.CategoryAll, b.Filter().Category)
}

func TestBrowserNavigation(t *testing.T) {
	b := New(staticSource(numbered(20)))
	b.Load(context.Background())

	b.Prev()
	assert.Equal(t, 1, b.Page())
	b.Next()
	b.Next()
	b.Next()
	assert.Equal(t, 3, b.Page(), "next stops at the last page")

	v := b.View()
	assert.Equal(t, []string{"18", "19"}, ids(v.Items))
	assert.Equal(t, 20, v.Total)
}

func TestBrowserEmptyView(t *testing.T) {
	b := New(staticSource(fixture()))
	b.Load(context.Background())
	b.SetQuery("atlantis")

	v := b.View()
	assert.True(t, v.Empty)
	assert.True(t, v.Filtered)
	assert.Empty(t, v.Items)

	b.ClearFilters()
	v = b.View()
	assert.False(t, v.Empty)
	assert.Len(t, v.Items, 5)
}

func TestBrowserLoadFailureIsEmpty(t *testing.T) {
	boom := errors.New("backend down")
	b := New(func(context.Context) ([]models.Gem, error) { return nil, boom })
	b.Load(context.Background())

	assert.ErrorIs(t, b.LoadErr(), boom)
	v := b.View()
	assert.True(t, v.Empty)
	assert.Equal(t, 1, v.Number)
}

func TestCategoryMirroredInURL(t *testing.T) {
	b := New(staticSource(fixture()), WithPerPage(1))
	b.Load(context.Background())

	assert.Empty(t, b.Values().Encode())

	b.SetCategory(models.CategoryNature)
	b.Next()
	assert.Equal(t, "category=Nature&page=2", b.Values().Encode())

	b.SetCategory(models.CategoryAll)
	assert.Empty(t, b.Values().Encode())

	restored := New(staticSource(fixture()), WithPerPage(1))
	restored.Load(context.Background())
	restored.Apply(url.Values{"category": {"nature"}, "page": {"2"}})
	assert.Equal(t, models.CategoryNature, restored.Filter().Category)
	assert.Equal(t, 2, restored.Page())
	assert.Equal(t, []string{"5"}, ids(restored.View().Items))
}

func TestParseValuesFallbacks(t *testing.T) {
	f, page := ParseValues(url.Values{"category": {"Spaceships"}, "page": {"zero"}, "q": {"cliffs"}})
	assert.Equal(t, models.CategoryAll, f.Category)
	assert.Equal(t, "cliffs", f.Query)
	assert.Equal(t, 1, page)
}

func TestLoadFromBackendSource(t *testing.T) {
	calls := 0
	src := func(context.Context) ([]models.Gem, error) {
		calls++
		return fixture(), nil
	}
	b := New(src)
	b.Load(context.Background())

	b.SetCategory(models.CategoryFood)
	b.SetQuery("tart")
	b.Next()
	_ = b.View()
	require.Equal(t, 1, calls, "filters and page turns stay local")
}
