package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gemvoyage/web/internal/models"
)

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// Message is the backend's {"msg": ...} text if present, the raw body otherwise.
func (e *StatusError) Message() string {
	var body models.ErrorBody
	if err := json.Unmarshal([]byte(e.Body), &body); err == nil && body.Msg != "" {
		return body.Msg
	}
	return strings.TrimSpace(e.Body)
}

func statusOf(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	se, ok := statusOf(err)
	return ok && se.StatusCode == http.StatusNotFound
}

// IsTokenExpired matches the backend's "token is expired" answer, which only
// shows up as text in the body.
func IsTokenExpired(err error) bool {
	se, ok := statusOf(err)
	if !ok {
		return false
	}
	body := strings.ToLower(se.Body)
	return strings.Contains(body, "token is expired") &&
		(se.StatusCode == http.StatusForbidden || strings.Contains(body, "403"))
}
