// Package render draws gems, cities, votes and comments for the terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/gemvoyage/web/internal/browse"
	"github.com/gemvoyage/web/internal/gems"
	"github.com/gemvoyage/web/internal/models"
	"github.com/gemvoyage/web/internal/voting"
)

const excerptLen = 140

type Renderer struct {
	md     *glamour.TermRenderer
	styles Styles
}

// New builds a renderer. Without options the markdown style follows the
// terminal background and wraps at 80 columns.
func New(opts ...glamour.TermRendererOption) (*Renderer, error) {
	if len(opts) == 0 {
		opts = []glamour.TermRendererOption{
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		}
	}
	md, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return &Renderer{md: md, styles: DefaultStyles()}, nil
}

// Markdown renders a gem description. Rendering errors fall back to the raw text.
func (r *Renderer) Markdown(src string) string {
	out, err := r.md.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}

// Card is the compact listing form of a gem.
func (r *Renderer) Card(g models.Gem) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render(g.Title))
	b.WriteString("  ")
	b.WriteString(r.styles.Badge.Render(string(g.Category)))
	b.WriteString("\n")
	b.WriteString(r.styles.Meta.Render(g.Location + " · /gem/" + g.PathID()))
	if ex := Excerpt(g.Description, excerptLen); ex != "" {
		b.WriteString("\n")
		b.WriteString(ex)
	}
	return r.styles.Card.Render(b.String())
}

// Page renders one page of a browse view with its pagination footer.
func (r *Renderer) Page(v browse.View) string {
	var b strings.Builder
	b.WriteString(r.categoryBar(v.Category))
	b.WriteString("\n")
	if v.Query != "" {
		b.WriteString(r.styles.Meta.Render(fmt.Sprintf("Search: %q", v.Query)))
		b.WriteString("\n")
	}
	if v.Empty {
		b.WriteString("\n")
		b.WriteString(r.styles.Title.Render("No gems found"))
		b.WriteString("\n")
		if v.Filtered {
			b.WriteString(r.styles.Meta.Render("Try adjusting your filters or search query (clear them with --category All --query \"\")."))
		}
		return b.String()
	}
	for _, g := range v.Items {
		b.WriteString(r.Card(g))
		b.WriteString("\n")
	}
	b.WriteString(r.styles.Footer.Render(pageFooter(v.Page)))
	return b.String()
}

func pageFooter(p browse.Page) string {
	parts := []string{fmt.Sprintf("Page %d of %d (%d gems)", p.Number, max(p.TotalPages, 1), p.Total)}
	if p.HasPrev {
		parts = append(parts, fmt.Sprintf("prev: --page %d", p.Number-1))
	}
	if p.HasNext {
		parts = append(parts, fmt.Sprintf("next: --page %d", p.Number+1))
	}
	return strings.Join(parts, "  ")
}

func (r *Renderer) categoryBar(selected models.Category) string {
	labels := make([]string, 0, len(models.BrowseCategories))
	for _, c := range models.BrowseCategories {
		if c == selected {
			labels = append(labels, r.styles.Selected.Render("["+string(c)+"]"))
			continue
		}
		labels = append(labels, r.styles.Meta.Render(string(c)))
	}
	return strings.Join(labels, " ")
}

// List renders gems as cards without paging, as the latest feed does.
func (r *Renderer) List(title string, list []models.Gem) string {
	var b strings.Builder
	b.WriteString(r.styles.Heading.Render(title))
	b.WriteString("\n")
	if len(list) == 0 {
		b.WriteString(r.styles.Meta.Render("No gems found"))
		return b.String()
	}
	for _, g := range list {
		b.WriteString(r.Card(g))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) Cities(cities []models.City) string {
	var b strings.Builder
	b.WriteString(r.styles.Heading.Render("Cities"))
	b.WriteString("\n")
	if len(cities) == 0 {
		b.WriteString(r.styles.Meta.Render("No cities available at the moment."))
		return b.String()
	}
	for _, c := range cities {
		fmt.Fprintf(&b, "%s  %s\n", r.styles.Title.Render(c.Name), r.styles.Meta.Render("/city/"+c.Slug()))
		if c.Description != "" {
			b.WriteString("  " + Excerpt(c.Description, excerptLen) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// City renders a city header followed by its page of gems.
func (r *Renderer) City(c gems.CityPage, v browse.View) string {
	var b strings.Builder
	b.WriteString(r.styles.Heading.Render(c.Name))
	b.WriteString("\n")
	b.WriteString(c.Description)
	b.WriteString("\n\n")
	if v.Empty && !v.Filtered {
		b.WriteString(r.styles.Title.Render("No gems found in " + c.Name))
		return b.String()
	}
	b.WriteString(r.Page(v))
	return b.String()
}

func (r *Renderer) Tally(t voting.Tally) string {
	score := fmt.Sprintf("score %d", t.Score())
	up := r.styles.Up.Render(fmt.Sprintf("▲ %d", t.Upvotes))
	down := r.styles.Down.Render(fmt.Sprintf("▼ %d", t.Downvotes))
	line := fmt.Sprintf("%s  %s  %s", up, down, score)
	switch t.Mine {
	case 1:
		line += r.styles.Meta.Render("  (you upvoted)")
	case -1:
		line += r.styles.Meta.Render("  (you downvoted)")
	}
	if t.Stale {
		line += r.styles.Warning.Render("  (may be out of date)")
	}
	return line
}

func (r *Renderer) Comments(list []models.Comment) string {
	if len(list) == 0 {
		return r.styles.Meta.Render("No comments yet. Be the first to share your thoughts!")
	}
	var b strings.Builder
	for _, c := range list {
		fmt.Fprintf(&b, "%s %s\n", r.styles.Title.Render(c.OwnerID), r.styles.Meta.Render(formatDate(c.CreatedAt)))
		b.WriteString("  " + c.Comment + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Detail renders the full gem page.
func (r *Renderer) Detail(d gems.Detail) string {
	var b strings.Builder
	b.WriteString(r.styles.Heading.Render(d.Gem.Title))
	b.WriteString("\n")
	meta := []string{d.Gem.Location, string(d.Gem.Category)}
	if d.Author != "" {
		meta = append(meta, "by "+d.Author)
	}
	if date := formatDate(d.Gem.CreatedAt); date != "" {
		meta = append(meta, date)
	}
	b.WriteString(r.styles.Meta.Render(strings.Join(meta, " · ")))
	b.WriteString("\n")
	if d.Gem.Image != "" {
		b.WriteString(r.styles.Meta.Render(d.Gem.Image))
		b.WriteString("\n")
	}
	b.WriteString(r.Markdown(d.Gem.Description))
	b.WriteString("\n\n")
	b.WriteString(r.Tally(d.Votes))
	b.WriteString("\n\n")
	b.WriteString(r.styles.Heading.Render(fmt.Sprintf("Comments (%d)", len(d.Comments))))
	b.WriteString("\n")
	b.WriteString(r.Comments(d.Comments))
	for _, w := range d.Warnings {
		b.WriteString("\n")
		b.WriteString(r.styles.Warning.Render(w))
	}
	return b.String()
}

func (r *Renderer) Profile(p models.UserProfile) string {
	var b strings.Builder
	b.WriteString(r.styles.Heading.Render(p.DisplayName()))
	b.WriteString("\n")
	b.WriteString(r.styles.Meta.Render(p.City))
	if p.Bio != "" {
		b.WriteString("\n")
		b.WriteString(p.Bio)
	}
	return b.String()
}

// Excerpt flattens text to one line and cuts it at n runes.
func Excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
