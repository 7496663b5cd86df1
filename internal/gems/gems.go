// Package gems assembles gem detail and city pages and validates new gems.
package gems

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gemvoyage/web/internal/browse"
	"github.com/gemvoyage/web/internal/comments"
	"github.com/gemvoyage/web/internal/models"
	"github.com/gemvoyage/web/internal/profile"
	"github.com/gemvoyage/web/internal/session"
	"github.com/gemvoyage/web/internal/voting"
)

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrInvalidCategory = errors.New("unknown category")
)

// MissingFieldsError lists the empty fields of a gem form.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "please fill in all fields: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingFields }

type Backend interface {
	Gems(ctx context.Context) ([]models.Gem, error)
	LatestGems(ctx context.Context) ([]models.Gem, error)
	Gem(ctx context.Context, id string) (models.Gem, error)
	CreateGem(ctx context.Context, in models.CreateGemRequest) (models.Gem, error)
	UploadGemImage(ctx context.Context, filename string, r io.Reader) (models.UploadedImage, error)
	Cities(ctx context.Context) ([]models.City, error)
	CityGems(ctx context.Context, name string) ([]models.Gem, error)
}

type Service struct {
	backend  Backend
	session  *session.Session
	votes    *voting.Service
	comments *comments.Service
	profiles *profile.Service
	logger   *zap.Logger
}

func NewService(
	backend Backend,
	sess *session.Session,
	votes *voting.Service,
	comments *comments.Service,
	profiles *profile.Service,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend:  backend,
		session:  sess,
		votes:    votes,
		comments: comments,
		profiles: profiles,
		logger:   logger,
	}
}

// AllSource is the browse source for the full collection.
func (s *Service) AllSource() browse.Source {
	return s.backend.Gems
}

// CitySource is the browse source for the gems of one city.
func (s *Service) CitySource(cityName string) browse.Source {
	return func(ctx context.Context) ([]models.Gem, error) {
		return s.backend.CityGems(ctx, cityName)
	}
}

// Latest returns the newest gems; a failure is logged and yields none.
func (s *Service) Latest(ctx context.Context) []models.Gem {
	gems, err := s.backend.LatestGems(ctx)
	if err != nil {
		s.logger.Warn("failed to load latest gems", zap.Error(err))
		return []models.Gem{}
	}
	return gems
}

// Cities returns the city list; a failure is logged and yields none.
func (s *Service) Cities(ctx context.Context) []models.City {
	cities, err := s.backend.Cities(ctx)
	if err != nil {
		s.logger.Warn("failed to load cities", zap.Error(err))
		return []models.City{}
	}
	return cities
}

// Detail is everything the gem page shows.
type Detail struct {
	Gem      models.Gem       `json:"gem"`
	Author   string           `json:"author"`
	Votes    voting.Tally     `json:"votes"`
	Comments []models.Comment `json:"comments"`
	// Warnings collects the parts that failed to load.
	Warnings []string `json:"warnings,omitempty"`
}

// Detail loads the gem, its vote tally and its comments concurrently. Only a
// failure to load the gem itself is an error.
func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	var (
		d           Detail
		votesErr    error
		commentsErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gem, err := s.backend.Gem(gctx, id)
		if err != nil {
			return fmt.Errorf("fetch gem %s: %w", id, err)
		}
		d.Gem = gem
		d.Author = s.profiles.AuthorName(gctx, gem.Owner)
		return nil
	})
	g.Go(func() error {
		d.Votes, votesErr = s.votes.Tally(gctx, id)
		return nil
	})
	g.Go(func() error {
		d.Comments, commentsErr = s.comments.List(gctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Detail{}, err
	}
	if votesErr != nil {
		d.Warnings = append(d.Warnings, "Failed to fetch votes.")
	}
	if commentsErr != nil {
		d.Warnings = append(d.Warnings, "Failed to fetch comments.")
	}
	return d, nil
}

// Create submits a new gem owned by the logged-in user.
func (s *Service) Create(ctx context.Context, in models.CreateGemRequest) (models.Gem, error) {
	ok, err := s.session.LoggedIn(ctx)
	if err != nil {
		return models.Gem{}, err
	}
	if !ok {
		return models.Gem{}, session.ErrNotLoggedIn
	}
	if missing := in.Missing(); len(missing) > 0 {
		return models.Gem{}, &MissingFieldsError{Fields: missing}
	}
	c, valid := models.ParseCategory(string(in.Category))
	if !valid || !c.Valid() {
		return models.Gem{}, fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	in.Category = c

	userID, err := s.session.UserID(ctx)
	if err != nil {
		return models.Gem{}, err
	}
	in.Owner = userID

	gem, err := s.backend.CreateGem(ctx, in)
	if err != nil {
		return models.Gem{}, fmt.Errorf("create gem: %w", err)
	}
	s.logger.Info("gem created", zap.String("gem_id", gem.ID), zap.String("owner", userID))
	return gem, nil
}

// UploadImage stores a local image with the backend and returns its URL.
func (s *Service) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	ok, err := s.session.LoggedIn(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", session.ErrNotLoggedIn
	}
	img, err := s.backend.UploadGemImage(ctx, filename, r)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return img.URL, nil
}

// CityPage is the header of a city page; the gems go through a browser.
type CityPage struct {
	Slug        string       `json:"slug"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	City        *models.City `json:"city,omitempty"`
}

// City resolves a URL slug to the city record, when the backend knows it.
func (s *Service) City(ctx context.Context, slug string) CityPage {
	page := CityPage{Slug: slug, Name: models.CityNameFromSlug(slug)}
	for _, c := range s.Cities(ctx) {
		if strings.EqualFold(c.Name, page.Name) || c.Slug() == slug {
			city := c
			page.City = &city
			page.Name = c.Name
			page.Description = c.Description
			break
		}
	}
	if page.Description == "" {
		page.Description = fmt.Sprintf(
			"Discover the hidden gems and local treasures that make %s special. "+
				"Explore unique places recommended by travelers and locals.", page.Name)
	}
	return page
}
