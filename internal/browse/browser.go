// Package browse is the gem listing flow: fetch the collection once, then
// filter and paginate locally.
package browse

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/gemvoyage/web/internal/models"
)

// Source loads the collection a Browser works on.
type Source func(ctx context.Context) ([]models.Gem, error)

// Browser holds the listing state of one view. It is not safe for
// concurrent use.
type Browser struct {
	source  Source
	logger  *zap.Logger
	perPage int

	all      []models.Gem
	filter   Filter
	page     int
	filtered []models.Gem
	loadErr  error
}

type Option func(*Browser)

func WithPerPage(n int) Option {
	return func(b *Browser) {
		if n > 0 {
			b.perPage = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(b *Browser) {
		b.logger = l
	}
}

func New(source Source, opts ...Option) *Browser {
	b := &Browser{
		source:  source,
		logger:  zap.NewNop(),
		perPage: DefaultPerPage,
		filter:  Filter{Category: models.CategoryAll},
		page:    1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load fetches the whole collection. A failed fetch leaves an empty list;
// the error is kept for LoadErr but never blocks the view.
func (b *Browser) Load(ctx context.Context) {
	gems, err := b.source(ctx)
	if err != nil {
		b.logger.Warn("failed to load gems", zap.Error(err))
		gems = nil
	}
	b.all = gems
	b.loadErr = err
	b.refilter()
}

func (b *Browser) LoadErr() error {
	return b.loadErr
}

func (b *Browser) Filter() Filter {
	return b.filter
}

// SetCategory changes the category and goes back to page 1.
func (b *Browser) SetCategory(c models.Category) {
	b.filter.Category = c
	b.page = 1
	b.refilter()
}

// SetQuery changes the free-text query and goes back to page 1.
func (b *Browser) SetQuery(q string) {
	b.filter.Query = q
	b.page = 1
	b.refilter()
}

// ClearFilters resets category, query and page.
func (b *Browser) ClearFilters() {
	b.filter = Filter{Category: models.CategoryAll}
	b.page = 1
	b.refilter()
}

// SetPage moves to page n, clamped to the available pages.
func (b *Browser) SetPage(n int) {
	b.page = Paginate(b.filtered, n, b.perPage).Number
}

func (b *Browser) Next() {
	b.SetPage(b.page + 1)
}

func (b *Browser) Prev() {
	b.SetPage(b.page - 1)
}

func (b *Browser) Page() int {
	return b.page
}

// Apply restores filter and page from URL query parameters.
func (b *Browser) Apply(v url.Values) {
	f, page := ParseValues(v)
	b.filter = f
	b.refilter()
	b.SetPage(page)
}

// Values is the shareable query string of the current view.
func (b *Browser) Values() url.Values {
	return Values(b.filter, b.page)
}

// View is what a listing page renders.
type View struct {
	Page
	Category   models.Category   `json:"category"`
	Query      string            `json:"query"`
	Categories []models.Category `json:"categories"`
	// Empty is set when the filters match nothing; the page then offers
	// a clear-filters action.
	Empty       bool   `json:"empty"`
	Filtered    bool   `json:"filtered"`
	QueryString string `json:"queryString"`
}

func (b *Browser) View() View {
	p := Paginate(b.filtered, b.page, b.perPage)
	return View{
		Page:        p,
		Category:    b.filter.category(),
		Query:       b.filter.Query,
		Categories:  models.BrowseCategories,
		Empty:       p.Total == 0,
		Filtered:    b.filter.Active(),
		QueryString: b.Values().Encode(),
	}
}

func (b *Browser) refilter() {
	b.filtered = Apply(b.all, b.filter)
}
