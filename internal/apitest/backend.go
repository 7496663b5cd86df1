// Package apitest runs an in-memory stand-in for the GemVoyage REST backend
// so the flows can be tested end to end over HTTP.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gemvoyage/web/internal/models"
)

// Request is one call the backend received.
type Request struct {
	Method        string
	Path          string
	Authorization string
}

type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	gems     []models.Gem
	cities   []models.City
	votes    []models.Vote
	comments []models.Comment
	profiles map[string]models.UserProfile
	users    map[string]string // email -> password
	requests []Request
	failures map[string]*failure // "METHOD /path"
	nextID   int

	// ExpiredTokens answer logout with the backend's 403 "token is expired".
	ExpiredTokens map[string]bool
}

// New starts a backend on a test server closed at the end of the test.
func New(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		profiles:      make(map[string]models.UserProfile),
		users:         make(map[string]string),
		failures:      make(map[string]*failure),
		ExpiredTokens: make(map[string]bool),
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the API base URL to hand to api.NewClient.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

func (b *Backend) AddGems(gems ...models.Gem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gems = append(b.gems, gems...)
}

func (b *Backend) AddCities(cities ...models.City) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cities = append(b.cities, cities...)
}

func (b *Backend) AddVotes(votes ...models.Vote) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.votes = append(b.votes, votes...)
}

func (b *Backend) AddComments(comments ...models.Comment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.comments = append(b.comments, comments...)
}

func (b *Backend) AddUser(email, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[email] = password
}

func (b *Backend) AddProfile(p models.UserProfile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles[p.UserID] = p
}

// Fail makes every "METHOD /path" request (path without the /api prefix)
// answer with status.
func (b *Backend) Fail(method, path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = &failure{status: status}
}

// FailAfter lets the first n matching requests through and answers the
// rest with status.
func (b *Backend) FailAfter(method, path string, n, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = &failure{status: status, after: n}
}

type failure struct {
	status int
	after  int
	seen   int
}

func (b *Backend) Votes() []models.Vote {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Vote(nil), b.votes...)
}

func (b *Backend) Comments() []models.Comment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Comment(nil), b.comments...)
}

func (b *Backend) Gems() []models.Gem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Gem(nil), b.gems...)
}

func (b *Backend) Profile(userID string) (models.UserProfile, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.profiles[userID]
	return p, ok
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count returns how many requests matched method and path.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Writes counts the POST and PUT requests received.
func (b *Backend) Writes() int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			n++
		}
	}
	return n
}

func (b *Backend) record(c *gin.Context) {
	path := strings.TrimPrefix(c.Request.URL.Path, "/api")

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:        c.Request.Method,
		Path:          path,
		Authorization: c.GetHeader("Authorization"),
	})
	var status int
	if f, ok := b.failures[c.Request.Method+" "+path]; ok {
		f.seen++
		if f.seen > f.after {
			status = f.status
		}
	}
	b.mu.Unlock()

	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"msg": fmt.Sprintf("forced failure %d", status)})
		return
	}
	c.Next()
}

func (b *Backend) newID(prefix string) string {
	b.nextID++
	return prefix + "-" + strconv.Itoa(b.nextID)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
