package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const requestTimeout = 15 * time.Second

// Credentials carries per-request browser state forwarded to the Content
// API: the raw Cookie header and the CSRF token read from the csrftoken
// cookie. The zero value is an anonymous request.
type Credentials struct {
	Cookie    string
	CSRFToken string
}

// Action is a one-way article status transition.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Client is the single point of contact with the Content API. List
// operations never fail their caller: transport and shape anomalies are
// logged and degrade to an empty result, matching what the pages render
// for a genuinely empty collection.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewClient(baseURL string, userAgent string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: requestTimeout},
	}
}

// ListSites fetches the full tenant collection.
func (c *Client) ListSites(ctx context.Context) []Site {
	sites, err := fetchList[Site](c, ctx, "/api/sites/", nil)
	if err != nil {
		slog.Error("Content API list request failed", "operation", "list_sites", "error", err)
		return []Site{}
	}
	return sites
}

// GetSite resolves a tenant slug to its branding record. A nil result
// means the tenant does not exist (or the API was unreachable) and the
// page should render not-found.
func (c *Client) GetSite(ctx context.Context, slug string) *Site {
	for _, site := range c.ListSites(ctx) {
		if site.Slug == slug {
			return &site
		}
	}
	return nil
}

// ListArticles fetches articles matching the given filters. Filters are
// additive query constraints; search matches title and body server-side.
func (c *Client) ListArticles(ctx context.Context, filters Filters) []Article {
	articles, err := fetchList[Article](c, ctx, "/api/articles/", filters.Values())
	if err != nil {
		slog.Error("Content API list request failed", "operation", "list_articles",
			"site", filters.Site, "error", err)
		return []Article{}
	}
	return articles
}

// CountArticles reports how many articles match the filters. Against a
// paginated backend the envelope count covers the whole collection, not
// just the returned page.
func (c *Client) CountArticles(ctx context.Context, filters Filters) int {
	_, count, err := fetchListCount[Article](c, ctx, "/api/articles/", filters.Values())
	if err != nil {
		slog.Error("Content API list request failed", "operation", "count_articles",
			"site", filters.Site, "error", err)
		return 0
	}
	return count
}

// GetArticle finds one approved article by slug within a site's
// collection. There is no single-article-by-slug endpoint, so the match
// happens client-side. Nil means no match or a degraded fetch.
func (c *Client) GetArticle(ctx context.Context, site string, slug string) *Article {
	articles := c.ListArticles(ctx, Filters{Site: site, Status: StatusApproved})
	for _, article := range articles {
		if article.Slug == slug {
			return &article
		}
	}
	return nil
}

// FindArticle locates an article by slug within a site regardless of
// its workflow status. Admin views need this; the public detail page
// uses GetArticle so unapproved work never leaks to visitors.
func (c *Client) FindArticle(ctx context.Context, site string, slug string) *Article {
	articles := c.ListArticles(ctx, Filters{Site: site})
	for _, article := range articles {
		if article.Slug == slug {
			return &article
		}
	}
	return nil
}

// SetArticleStatus applies a one-way approve or reject transition.
func (c *Client) SetArticleStatus(ctx context.Context, creds Credentials, id int64, action Action) error {
	path := fmt.Sprintf("/api/articles/%d/%s/", id, action)
	resp, err := c.do(ctx, http.MethodPost, path, nil, creds, nil)
	if err != nil {
		return fmt.Errorf("failed to %s article %d: %w", action, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("failed to %s article %d: unexpected status %d", action, id, resp.StatusCode)
	}
	return nil
}

// CreateArticle persists a new article. The payload slug must already be
// client-derived and unique (see Slugify); no uniqueness check round
// trip is performed first.
func (c *Client) CreateArticle(ctx context.Context, creds Credentials, article NewArticle) (*Article, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/articles/", nil, creds, article)
	if err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to create article: unexpected status %d", resp.StatusCode)
	}

	var created Article
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created article: %w", err)
	}
	return &created, nil
}

// GenerateContent triggers the backend AI pipeline for a site. The
// returned payload is not persisted; callers follow up with
// CreateArticle, and the two calls are deliberately not atomic.
func (c *Client) GenerateContent(ctx context.Context, creds Credentials, siteSlug string, topic string, count int) (*GenerationResult, error) {
	body := map[string]any{
		"site_slug": siteSlug,
		"count":     count,
	}
	if topic != "" {
		body["topic"] = topic
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/articles/generate_structured_content/", nil, creds, body)
	if err != nil {
		return nil, fmt.Errorf("content generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("content generation failed: unexpected status %d", resp.StatusCode)
	}

	var result GenerationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode generation result: %w", err)
	}
	return &result, nil
}

// TrendingTopics fetches backend-computed candidate subjects for a site.
func (c *Client) TrendingTopics(ctx context.Context, creds Credentials, siteSlug string, limit int) ([]TrendingTopic, error) {
	query := url.Values{}
	query.Set("site_slug", siteSlug)
	query.Set("limit", fmt.Sprintf("%d", limit))

	resp, err := c.do(ctx, http.MethodPost, "/api/articles/trending_topics/", query, creds, nil)
	if err != nil {
		return nil, fmt.Errorf("trending topics request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("trending topics request failed: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Topics []TrendingTopic `json:"topics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode trending topics: %w", err)
	}
	return result.Topics, nil
}

// LoginResult is the auth endpoint's outcome payload.
type LoginResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CheckAuth reports whether the forwarded session cookie is live. Any
// transport or decode failure is treated as unauthenticated.
func (c *Client) CheckAuth(ctx context.Context, creds Credentials) bool {
	resp, err := c.do(ctx, http.MethodGet, "/api/auth/check/", nil, creds, nil)
	if err != nil {
		slog.Error("Auth check request failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}

	var result struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Error("Auth check returned unexpected payload", "error", err)
		return false
	}
	return result.Authenticated
}

// Login exchanges credentials for a backend session. The returned
// cookies must be relayed onto the outgoing response so the browser
// carries the new session.
func (c *Client) Login(ctx context.Context, username string, password string) (LoginResult, []*http.Cookie, error) {
	body := map[string]string{"username": username, "password": password}

	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login/", nil, Credentials{}, body)
	if err != nil {
		return LoginResult{}, nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return LoginResult{}, nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	return result, resp.Cookies(), nil
}

// Logout invalidates the backend session. Best-effort: failures are
// logged and swallowed, the caller always proceeds to a logged-out view.
func (c *Client) Logout(ctx context.Context, creds Credentials) []*http.Cookie {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/logout/", nil, creds, nil)
	if err != nil {
		slog.Error("Logout request failed", "error", err)
		return nil
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.Cookies()
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, creds Credentials, body any) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(blob)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	// State must be current at render time; no intermediary caching
	req.Header.Set("Cache-Control", "no-store")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds.Cookie != "" {
		req.Header.Set("Cookie", creds.Cookie)
	}
	if method != http.MethodGet && creds.CSRFToken != "" {
		req.Header.Set("X-CSRFToken", creds.CSRFToken)
	}

	return c.client.Do(req)
}

// fetchList issues a GET and normalizes the two accepted list shapes
// (bare array or {results, count} envelope) into one slice. Neither
// shape leaks past this package.
func fetchList[T any](c *Client, ctx context.Context, path string, query url.Values) ([]T, error) {
	items, _, err := fetchListCount[T](c, ctx, path, query)
	return items, err
}

func fetchListCount[T any](c *Client, ctx context.Context, path string, query url.Values) ([]T, int, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, Credentials{}, nil)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return decodeListCount[T](data)
}

func decodeList[T any](data []byte) ([]T, error) {
	items, _, err := decodeListCount[T](data)
	return items, err
}

// decodeListCount also reports the collection size: the envelope's
// count when present (it covers the whole collection even when results
// hold a single page), otherwise the item count.
func decodeListCount[T any](data []byte) ([]T, int, error) {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, fmt.Errorf("failed to decode array response: %w", err)
		}
		return items, len(items), nil
	}

	var envelope struct {
		Results []T  `json:"results"`
		Count   *int `json:"count"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, 0, fmt.Errorf("response matches neither array nor results envelope: %w", err)
	}
	if envelope.Results == nil {
		return nil, 0, fmt.Errorf("response matches neither array nor results envelope")
	}
	if envelope.Count != nil {
		return envelope.Results, *envelope.Count, nil
	}
	return envelope.Results, len(envelope.Results), nil
}
