package browse

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gemvoyage/web/internal/models"
)

// DefaultPerPage is the number of gems on one browse page.
const DefaultPerPage = 9

// Filter narrows a gem list by category and free text.
type Filter struct {
	Category models.Category
	Query    string
}

func (f Filter) category() models.Category {
	if f.Category == "" {
		return models.CategoryAll
	}
	return f.Category
}

// Active reports whether the filter excludes anything.
func (f Filter) Active() bool {
	return f.category() != models.CategoryAll || strings.TrimSpace(f.Query) != ""
}

// Match is an exact category match intersected with a case-insensitive
// substring match of the query against title, description or location.
func (f Filter) Match(g models.Gem) bool {
	if c := f.category(); c != models.CategoryAll && g.Category != c {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(g.Title), q) ||
		strings.Contains(strings.ToLower(g.Description), q) ||
		strings.Contains(strings.ToLower(g.Location), q)
}

// Apply returns the matching gems in their original order.
func Apply(gems []models.Gem, f Filter) []models.Gem {
	out := make([]models.Gem, 0, len(gems))
	for _, g := range gems {
		if f.Match(g) {
			out = append(out, g)
		}
	}
	return out
}

// Page is one slice of a filtered list.
type Page struct {
	Items      []models.Gem `json:"items"`
	Number     int          `json:"page"`
	PerPage    int          `json:"perPage"`
	Total      int          `json:"total"`
	TotalPages int          `json:"totalPages"`
	HasPrev    bool         `json:"hasPrev"`
	HasNext    bool         `json:"hasNext"`
}

// Paginate clamps page into [1, max(1, totalPages)] and slices accordingly.
func Paginate(gems []models.Gem, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(gems)
	totalPages := (total + perPage - 1) / perPage
	if page < 1 {
		page = 1
	}
	if last := max(totalPages, 1); page > last {
		page = last
	}
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)
	items := gems[start:end]
	if items == nil {
		items = []models.Gem{}
	}

	return Page{
		Items:      items,
		Number:     page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

// Values mirrors the filter and page into URL query parameters. "All", an
// empty query and page 1 are left out so the plain URL stays canonical.
func Values(f Filter, page int) url.Values {
	v := url.Values{}
	if c := f.category(); c != models.CategoryAll {
		v.Set("category", string(c))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		v.Set("q", q)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	return v
}

// ParseValues is the inverse of Values. Unknown categories fall back to All
// and unparsable pages to 1.
func ParseValues(v url.Values) (Filter, int) {
	f := Filter{Category: models.CategoryAll, Query: v.Get("q")}
	if c, ok := models.ParseCategory(v.Get("category")); ok {
		f.Category = c
	}
	page, err := strconv.Atoi(v.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return f, page
}
