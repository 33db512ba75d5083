package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sparklinkhq/sparklink/internal/config"
)

const (
	// DefaultCookieName is deliberately opaque; the value is a random
	// session token, never the session id.
	DefaultCookieName = "_sid"

	cookiePath = "/"

	// maxCookieAge caps how long a browser keeps the cookie even when
	// the backing session row lives longer.
	maxCookieAge = 30 * 24 * time.Hour
)

// Manager reads and writes the auth session cookie. Cookies are always
// HttpOnly and SameSite=Lax; Secure follows config so local HTTP
// development still works.
type Manager struct {
	cookieName string
	secure     bool
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{
		cookieName: DefaultCookieName,
		secure:     cfg.AuthCookieSecure,
	}
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

// ReadToken extracts the raw session token from the request, if present.
func (m *Manager) ReadToken(c *gin.Context) (string, bool) {
	raw, err := c.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// Set installs the session cookie, expiring alongside the session itself
// but never later than maxCookieAge from now.
func (m *Manager) Set(c *gin.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl < 0 {
		ttl = 0
	}
	if ttl > maxCookieAge {
		ttl = maxCookieAge
	}
	m.write(c, token, int(ttl.Seconds()))
}

// Clear deletes the session cookie.
func (m *Manager) Clear(c *gin.Context) {
	m.write(c, "", -1)
}

func (m *Manager) write(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, value, maxAge, cookiePath, "", m.secure, true)
}
