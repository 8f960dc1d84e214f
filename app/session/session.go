package session

import (
	"cmp"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Crklemz/content-automation-platform/app/content"
)

// Name of the cookie Django issues the anti-forgery token under.
const csrfCookieName = "csrftoken"

// The backend reports this error when a login arrives over a live
// session. Treated as success so a stale logged-out view cannot strand
// the user.
const alreadyAuthenticated = "Already authenticated"

// Manager exposes the authentication operations of the Content API and
// relays its session cookies between the browser and the backend. The
// backend session cookie stays authoritative; nothing is stored here.
type Manager struct {
	client *content.Client
}

func NewManager(client *content.Client) *Manager {
	return &Manager{client: client}
}

// CredentialsFromRequest extracts the forwarded cookie header and the
// CSRF token for one request. A missing csrftoken cookie leaves the
// token empty and the header is simply omitted downstream.
func CredentialsFromRequest(r *http.Request) content.Credentials {
	creds := content.Credentials{Cookie: r.Header.Get("Cookie")}
	if cookie, err := r.Cookie(csrfCookieName); err == nil {
		creds.CSRFToken = cookie.Value
	}
	return creds
}

// Check reports whether the request carries a live backend session.
// Fails closed: any transport failure reads as unauthenticated.
func (m *Manager) Check(ctx context.Context, r *http.Request) bool {
	return m.client.CheckAuth(ctx, CredentialsFromRequest(r))
}

// Login exchanges credentials for a backend session and relays the new
// session cookies onto the response. Returns an inline, retryable error
// message on failure; no state is mutated in that case.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, username string, password string) (bool, string) {
	result, cookies, err := m.client.Login(ctx, username, password)
	if err != nil {
		return false, "Unable to reach the content service. Please try again."
	}

	if result.Success || result.Error == alreadyAuthenticated {
		relayCookies(w, cookies)
		return true, ""
	}
	return false, cmp.Or(result.Error, "Login failed")
}

// Logout invalidates the backend session best-effort and relays any
// expiring cookies. Always leaves the caller logged out.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	cookies := m.client.Logout(ctx, CredentialsFromRequest(r))
	relayCookies(w, cookies)
}

// RequireAuth guards admin routes. The check blocks before any
// protected content is rendered; unauthenticated requests are redirected
// to the login page.
func (m *Manager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Check(c.Request.Context(), c.Request) {
			c.Redirect(http.StatusSeeOther, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func relayCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		http.SetCookie(w, cookie)
	}
}
