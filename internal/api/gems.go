package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gemvoyage/web/internal/models"
)

// GemPageSize is the backend's fixed page size for GET /gem?offset.
const GemPageSize = 10

// Gems fetches the whole gem collection.
func (c *Client) Gems(ctx context.Context) ([]models.Gem, error) {
	return getList[models.Gem](ctx, c, "/gem", nil)
}

func (c *Client) LatestGems(ctx context.Context) ([]models.Gem, error) {
	return getList[models.Gem](ctx, c, "/gem/latest", nil)
}

func (c *Client) Gem(ctx context.Context, id string) (models.Gem, error) {
	var gem models.Gem
	err := c.getJSON(ctx, "/gem/"+pathID(id), nil, &gem)
	return gem, err
}

// GemsPage fetches one server-side page starting at offset.
func (c *Client) GemsPage(ctx context.Context, offset int, category models.Category) ([]models.Gem, error) {
	if category == "" {
		category = models.CategoryAll
	}
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("category", string(category))
	return getList[models.Gem](ctx, c, "/gem", q)
}

// AllGemsPaged walks the offset pages until an empty or short page.
func (c *Client) AllGemsPaged(ctx context.Context, category models.Category) ([]models.Gem, error) {
	var all []models.Gem
	for offset := 0; ; offset += GemPageSize {
		batch, err := c.GemsPage(ctx, offset, category)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < GemPageSize {
			return all, nil
		}
	}
}

// SearchGems runs the backend search. An empty category means "All".
func (c *Client) SearchGems(ctx context.Context, query string, category models.Category) ([]models.Gem, error) {
	if category == "" {
		category = models.CategoryAll
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("category", string(category))
	return getList[models.Gem](ctx, c, "/gem/search", q)
}

func (c *Client) CreateGem(ctx context.Context, in models.CreateGemRequest) (models.Gem, error) {
	var gem models.Gem
	err := c.sendJSON(ctx, http.MethodPost, "/gem", in, &gem)
	return gem, err
}

// UploadGemImage posts the image as multipart form field "file".
func (c *Client) UploadGemImage(ctx context.Context, filename string, r io.Reader) (models.UploadedImage, error) {
	var out models.UploadedImage

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return out, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return out, fmt.Errorf("read upload %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return out, fmt.Errorf("build upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/gem/upload", nil, &buf)
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	data, err := c.do(req)
	if err != nil {
		return out, err
	}
	err = decode(req, data, &out)
	return out, err
}
