package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Crklemz/content-automation-platform/app/content"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *content.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return content.NewClient(server.URL, "Test Agent")
}

func TestCredentialsFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", "sessionid=abc; csrftoken=tok")

	creds := CredentialsFromRequest(req)
	if creds.Cookie != "sessionid=abc; csrftoken=tok" {
		t.Errorf("Expected full cookie header forwarded, got: %s", creds.Cookie)
	}
	if creds.CSRFToken != "tok" {
		t.Errorf("Expected CSRF token 'tok', got: %s", creds.CSRFToken)
	}
}

func TestCredentialsFromRequestWithoutCSRFCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", "sessionid=abc")

	creds := CredentialsFromRequest(req)
	if creds.CSRFToken != "" {
		t.Errorf("Expected empty CSRF token, got: %s", creds.CSRFToken)
	}
}

func TestLoginSuccessRelaysCookies(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "fresh"})
		w.Write([]byte(`{"success": true}`))
	})

	manager := NewManager(client)
	recorder := httptest.NewRecorder()

	ok, errMsg := manager.Login(context.Background(), recorder, "admin", "secret")
	if !ok || errMsg != "" {
		t.Fatalf("Expected success, got (%v, %q)", ok, errMsg)
	}

	setCookie := recorder.Header().Get("Set-Cookie")
	if !strings.Contains(setCookie, "sessionid=fresh") {
		t.Errorf("Expected session cookie relayed, got: %s", setCookie)
	}
}

func TestLoginAlreadyAuthenticatedIsSuccess(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "Already authenticated"}`))
	})

	manager := NewManager(client)
	ok, errMsg := manager.Login(context.Background(), httptest.NewRecorder(), "admin", "secret")
	if !ok || errMsg != "" {
		t.Errorf("Expected idempotent success, got (%v, %q)", ok, errMsg)
	}
}

func TestLoginFailureReturnsInlineError(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "x"})
		w.Write([]byte(`{"success": false, "error": "Invalid credentials"}`))
	})

	manager := NewManager(client)
	recorder := httptest.NewRecorder()

	ok, errMsg := manager.Login(context.Background(), recorder, "admin", "wrong")
	if ok {
		t.Error("Expected failed login")
	}
	if errMsg != "Invalid credentials" {
		t.Errorf("Expected inline error 'Invalid credentials', got: %q", errMsg)
	}
	if recorder.Header().Get("Set-Cookie") != "" {
		t.Error("Expected no cookies relayed on failed login")
	}
}

func TestLoginTransportFailure(t *testing.T) {
	manager := NewManager(content.NewClient("http://127.0.0.1:1", "Test Agent"))

	ok, errMsg := manager.Login(context.Background(), httptest.NewRecorder(), "admin", "secret")
	if ok || errMsg == "" {
		t.Errorf("Expected retryable failure message, got (%v, %q)", ok, errMsg)
	}
}

func TestLogoutRelaysExpiringCookies(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "", MaxAge: -1})
		w.WriteHeader(http.StatusOK)
	})

	manager := NewManager(client)
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)

	manager.Logout(context.Background(), recorder, req)

	if !strings.Contains(recorder.Header().Get("Set-Cookie"), "sessionid=") {
		t.Errorf("Expected expiring cookie relayed, got: %s", recorder.Header().Get("Set-Cookie"))
	}
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		authenticated := strings.Contains(r.Header.Get("Cookie"), "sessionid=live")
		json.NewEncoder(w).Encode(map[string]bool{"authenticated": authenticated})
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	manager := NewManager(client)

	var reached bool
	admin := router.Group("/admin", manager.RequireAuth())
	admin.GET("/", func(c *gin.Context) {
		reached = true
		c.String(http.StatusOK, "dashboard")
	})

	// Anonymous request redirects without touching the handler
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin/", nil))

	if recorder.Code != http.StatusSeeOther {
		t.Errorf("Expected 303 redirect, got: %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/admin/login" {
		t.Errorf("Expected redirect to /admin/login, got: %s", location)
	}
	if reached {
		t.Error("Expected protected handler not to run for anonymous request")
	}

	// Live session passes through
	recorder = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.Header.Set("Cookie", "sessionid=live")
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK || !reached {
		t.Errorf("Expected authenticated request to reach handler, got status %d", recorder.Code)
	}
}
