// Package middleware holds the gin middleware of the web front.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	// DeviceIDKey is the gin context key holding the device id.
	DeviceIDKey = "device_id"

	cookieName = "gemvoyage"
	cookieKey  = "device"
)

// NewCookieStore returns the signed cookie store that carries device ids.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400 * 365)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	return store
}

// Device assigns every browser a stable device id kept in a signed cookie.
// Session keys of the web front are stored per device id.
func Device(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// An undecodable cookie still yields a fresh session.
		sess, _ := store.Get(c.Request, cookieName)

		id, _ := sess.Values[cookieKey].(string)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			sess.Values[cookieKey] = id
			if err := sess.Save(c.Request, c.Writer); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
				return
			}
		}
		c.Set(DeviceIDKey, id)
		c.Next()
	}
}

// DeviceID returns the id set by Device.
func DeviceID(c *gin.Context) (string, bool) {
	id := c.GetString(DeviceIDKey)
	return id, id != ""
}
