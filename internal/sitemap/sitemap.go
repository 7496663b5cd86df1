// Package sitemap builds the sitemaps.org XML for the public site.
package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gemvoyage/web/internal/api"
	"github.com/gemvoyage/web/internal/models"
)

const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

const dateLayout = "2006-01-02"

type ChangeFreq string

const (
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
)

// URL is one <url> entry.
type URL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq"`
	Priority   string     `xml:"priority"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

type staticPage struct {
	path       string
	priority   string
	changefreq ChangeFreq
}

func staticPages() []staticPage {
	pages := []staticPage{
		{"", "1.0", Daily},
		{"/browse", "1.0", Daily},
	}
	for _, c := range models.GemCategories {
		pages = append(pages, staticPage{"/browse?category=" + string(c), "0.9", Daily})
	}
	return append(pages,
		staticPage{"/login", "0.5", Monthly},
		staticPage{"/register", "0.5", Monthly},
		staticPage{"/create", "0.7", Weekly},
		staticPage{"/terms", "0.3", Yearly},
		staticPage{"/privacy", "0.3", Yearly},
		staticPage{"/sitemap", "0.4", Monthly},
	)
}

// Source is the part of the backend the generator reads.
type Source interface {
	Gems(ctx context.Context) ([]models.Gem, error)
	LatestGems(ctx context.Context) ([]models.Gem, error)
	Cities(ctx context.Context) ([]models.City, error)
}

type Generator struct {
	source  Source
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

type Option func(*Generator)

func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func New(source Source, baseURL string, opts ...Option) *Generator {
	g := &Generator{
		source:  source,
		baseURL: baseURL,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Build fetches gems and cities concurrently and assembles the URL set.
// Fetch failures are logged and leave the corresponding section empty.
func (g *Generator) Build(ctx context.Context) (URLSet, error) {
	var (
		gems   []models.Gem
		cities []models.City
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		gems = g.fetchGems(gctx)
		return nil
	})
	eg.Go(func() error {
		var err error
		cities, err = g.source.Cities(gctx)
		if err != nil {
			g.logger.Warn("failed to fetch cities", zap.Error(err))
			cities = nil
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return URLSet{}, err
	}
	if err := ctx.Err(); err != nil {
		return URLSet{}, err
	}
	set := g.assemble(gems, cities)
	g.logger.Info("sitemap built",
		zap.Int("gems", len(gems)),
		zap.Int("cities", len(cities)),
		zap.Int("urls", len(set.URLs)))
	return set, nil
}

// fetchGems falls back to the latest gems only when /gem answered with an
// error status. Transport and decode failures leave the gem list empty.
func (g *Generator) fetchGems(ctx context.Context) []models.Gem {
	gems, err := g.source.Gems(ctx)
	if err == nil {
		return gems
	}
	var se *api.StatusError
	if !errors.As(err, &se) {
		g.logger.Warn("failed to fetch gems", zap.Error(err))
		return nil
	}
	g.logger.Warn("failed to fetch gems, trying latest", zap.Int("status", se.StatusCode), zap.Error(err))
	gems, err = g.source.LatestGems(ctx)
	if err != nil {
		g.logger.Warn("failed to fetch latest gems", zap.Error(err))
		return nil
	}
	return gems
}

func (g *Generator) assemble(gems []models.Gem, cities []models.City) URLSet {
	today := g.now().UTC().Format(dateLayout)
	set := URLSet{Xmlns: Namespace}

	for _, p := range staticPages() {
		set.URLs = append(set.URLs, URL{
			Loc:        g.baseURL + p.path,
			LastMod:    today,
			ChangeFreq: p.changefreq,
			Priority:   p.priority,
		})
	}
	for _, gem := range gems {
		id := gem.PathID()
		if id == "" {
			continue
		}
		u := URL{Loc: g.baseURL + "/gem/" + id, ChangeFreq: Weekly, Priority: "0.8"}
		if mod := gem.LastModified(); !mod.IsZero() {
			u.LastMod = mod.UTC().Format(dateLayout)
		}
		set.URLs = append(set.URLs, u)
	}
	for _, c := range cities {
		lastmod := today
		if c.UpdatedAt != nil && !c.UpdatedAt.IsZero() {
			lastmod = c.UpdatedAt.UTC().Format(dateLayout)
		}
		set.URLs = append(set.URLs, URL{
			Loc:        g.baseURL + "/city/" + c.Slug(),
			LastMod:    lastmod,
			ChangeFreq: Weekly,
			Priority:   "0.7",
		})
	}
	return set
}

// Write builds the sitemap and encodes it to w.
func (g *Generator) Write(ctx context.Context, w io.Writer) error {
	set, err := g.Build(ctx)
	if err != nil {
		return err
	}
	return Encode(w, set)
}

// WriteFile writes the sitemap to path, creating parent directories.
func (g *Generator) WriteFile(ctx context.Context, path string) error {
	var buf bytes.Buffer
	if err := g.Write(ctx, &buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create sitemap dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	return nil
}

func Encode(w io.Writer, set URLSet) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
