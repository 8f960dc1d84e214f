package web

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Crklemz/content-automation-platform/app/content"
	"github.com/Crklemz/content-automation-platform/app/session"
)

type Handler struct {
	client   *content.Client
	sessions *session.Manager
	version  string
}

func NewHandler(client *content.Client, sessions *session.Manager, version string) *Handler {
	return &Handler{
		client:   client,
		sessions: sessions,
		version:  version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "Content Automation Platform",
		"version":   h.version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	})
}

// Home renders the tenant directory.
func (h *Handler) Home(c *gin.Context) {
	sites := h.client.ListSites(c.Request.Context())

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title": "Sites",
		"Sites": sites,
	})
}

// TenantPages resolves unmatched paths as tenant routes: /{site} is the
// branded listing and /{site}/{slug} the article detail. Anything
// deeper, or an unknown tenant, renders not-found.
func (h *Handler) TenantPages(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		h.renderNotFound(c)
		return
	}

	segments := strings.Split(strings.Trim(c.Request.URL.Path, "/"), "/")
	switch {
	case len(segments) == 1 && segments[0] != "":
		h.siteListing(c, segments[0])
	case len(segments) == 2:
		h.articleDetail(c, segments[0], segments[1])
	default:
		h.renderNotFound(c)
	}
}

func (h *Handler) siteListing(c *gin.Context, siteSlug string) {
	// Cleared filters disappear from the URL instead of lingering as
	// empty parameters
	if canonical, changed := canonicalQuery(c.Request.URL, "search", "category"); changed {
		c.Redirect(http.StatusFound, canonical)
		return
	}

	ctx := c.Request.Context()
	search := c.Query("search")
	category := c.Query("category")

	var (
		site     *content.Site
		articles []content.Article
	)

	// Site branding and the article list are independent reads
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		site = h.client.GetSite(ctx, siteSlug)
	}()
	go func() {
		defer wg.Done()
		articles = h.client.ListArticles(ctx, content.Filters{
			Site:     siteSlug,
			Status:   content.StatusApproved,
			Search:   search,
			Category: category,
		})
	}()
	wg.Wait()

	if site == nil {
		h.renderNotFound(c)
		return
	}

	c.HTML(http.StatusOK, "listing.html", gin.H{
		"Title":      site.Name,
		"Site":       site,
		"Articles":   articles,
		"Search":     search,
		"Category":   category,
		"HasFilters": search != "" || category != "",
	})
}

func (h *Handler) articleDetail(c *gin.Context, siteSlug string, articleSlug string) {
	ctx := c.Request.Context()

	var (
		site    *content.Site
		article *content.Article
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		site = h.client.GetSite(ctx, siteSlug)
	}()
	go func() {
		defer wg.Done()
		article = h.client.GetArticle(ctx, siteSlug, articleSlug)
	}()
	wg.Wait()

	if site == nil || article == nil {
		h.renderNotFound(c)
		return
	}

	c.HTML(http.StatusOK, "article.html", gin.H{
		"Title":   article.Title,
		"Site":    site,
		"Article": article,
	})
}

// canonicalQuery strips empty-valued filter parameters from a page URL.
func canonicalQuery(u *url.URL, keys ...string) (string, bool) {
	query := u.Query()
	changed := false
	for _, key := range keys {
		if values, present := query[key]; present && (len(values) == 0 || values[0] == "") {
			query.Del(key)
			changed = true
		}
	}
	if !changed {
		return "", false
	}

	canonical := *u
	canonical.RawQuery = query.Encode()
	return canonical.RequestURI(), true
}

func (h *Handler) renderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "notfound.html", gin.H{
		"Title": "Page not found",
	})
}
