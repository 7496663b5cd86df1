package models

import (
	"strings"
	"time"
)

// Category is one of the fixed gem categories.
type Category string

const (
	CategoryAll           Category = "All"
	CategoryCulture       Category = "Culture"
	CategoryHistory       Category = "History"
	CategoryNature        Category = "Nature"
	CategoryShopping      Category = "Shopping"
	CategoryFood          Category = "Food"
	CategoryEntertainment Category = "Entertainment"
)

// GemCategories are the categories a gem can be filed under.
var GemCategories = []Category{
	CategoryCulture,
	CategoryHistory,
	CategoryNature,
	CategoryShopping,
	CategoryFood,
	CategoryEntertainment,
}

// BrowseCategories are the choices offered by the browse filter, "All" first.
var BrowseCategories = append([]Category{CategoryAll}, GemCategories...)

// ParseCategory matches s case-insensitively against the browse categories.
func ParseCategory(s string) (Category, bool) {
	for _, c := range BrowseCategories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is a category a gem can carry ("All" is not).
func (c Category) Valid() bool {
	for _, g := range GemCategories {
		if c == g {
			return true
		}
	}
	return false
}

type Gem struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Category    Category   `json:"category"`
	Image       string     `json:"image"`
	Owner       string     `json:"owner"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// PathID is the identifier used in gem URLs: the slug when the backend has one.
func (g Gem) PathID() string {
	if g.Slug != "" {
		return g.Slug
	}
	return g.ID
}

// LastModified is UpdatedAt when set, CreatedAt otherwise.
func (g Gem) LastModified() time.Time {
	if g.UpdatedAt != nil && !g.UpdatedAt.IsZero() {
		return *g.UpdatedAt
	}
	return g.CreatedAt
}

type CreateGemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Owner       string   `json:"owner"`
	Category    Category `json:"category"`
	Image       string   `json:"image"`
	Location    string   `json:"location"`
}

// Missing lists the empty required fields, in form order.
func (r CreateGemRequest) Missing() []string {
	var missing []string
	if strings.TrimSpace(r.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(r.Image) == "" {
		missing = append(missing, "image")
	}
	if strings.TrimSpace(r.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(r.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(string(r.Category)) == "" {
		missing = append(missing, "category")
	}
	return missing
}

// UploadedImage is the backend's answer to a multipart gem image upload.
type UploadedImage struct {
	URL string `json:"url"`
}
