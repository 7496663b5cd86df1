package models

import (
	"regexp"
	"strings"
	"time"
)

type City struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^\w-]`)
)

// Slug is the URL form of the city name, e.g. "New York" -> "new-york".
func (c City) Slug() string {
	return CitySlug(c.Name)
}

func CitySlug(name string) string {
	s := whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
	return nonSlugChars.ReplaceAllString(s, "")
}

// CityNameFromSlug turns "new-york" back into the "New York" the backend expects.
func CityNameFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
