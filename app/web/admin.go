package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Crklemz/content-automation-platform/app/content"
	"github.com/Crklemz/content-automation-platform/app/session"
)

func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title": "Admin login",
	})
}

func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	ok, errMsg := h.sessions.Login(c.Request.Context(), c.Writer, username, password)
	if !ok {
		// Retryable inline error; the form never crashes the page
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Title":    "Admin login",
			"Error":    errMsg,
			"Username": username,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Logout(c.Request.Context(), c.Writer, c.Request)
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

// Dashboard shows review-queue counts. The five reads run concurrently;
// any failed fetch contributes a zero, never a page error.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	var counts struct {
		All      int
		Pending  int
		Approved int
		Rejected int
		Sites    int
	}

	var wg sync.WaitGroup
	countArticles := func(dst *int, status content.Status) {
		defer wg.Done()
		*dst = h.client.CountArticles(ctx, content.Filters{Status: status})
	}

	wg.Add(5)
	go countArticles(&counts.All, "")
	go countArticles(&counts.Pending, content.StatusPending)
	go countArticles(&counts.Approved, content.StatusApproved)
	go countArticles(&counts.Rejected, content.StatusRejected)
	go func() {
		defer wg.Done()
		counts.Sites = len(h.client.ListSites(ctx))
	}()
	wg.Wait()

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":  "Dashboard",
		"Counts": counts,
	})
}

// AdminArticles renders the review table. Filter state mirrors into the
// URL exactly like the public listing, so filtered views are shareable.
func (h *Handler) AdminArticles(c *gin.Context) {
	if canonical, changed := canonicalQuery(c.Request.URL, "site", "status", "search"); changed {
		c.Redirect(http.StatusFound, canonical)
		return
	}

	ctx := c.Request.Context()

	filters := content.Filters{
		Site:   c.Query("site"),
		Search: c.Query("search"),
	}
	if status, ok := content.ParseStatus(c.Query("status")); ok {
		filters.Status = status
	}

	var (
		articles []content.Article
		sites    []content.Site
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		articles = h.client.ListArticles(ctx, filters)
	}()
	go func() {
		defer wg.Done()
		sites = h.client.ListSites(ctx)
	}()
	wg.Wait()

	c.HTML(http.StatusOK, "articles.html", gin.H{
		"Title":    "Articles",
		"Articles": articles,
		"Sites":    sites,
		"Filters":  filters,
	})
}

// AdminArticleView shows an article to a moderator regardless of its
// workflow status. Approved work has a public page; rejected work is
// only reachable here.
func (h *Handler) AdminArticleView(c *gin.Context) {
	siteSlug := c.Query("site")
	articleSlug := c.Query("slug")

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
		article = h.client.FindArticle(ctx, siteSlug, articleSlug)
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

// ReviewArticles applies an approve or reject transition to the posted
// selection. One concurrent call per id, all settled, then an
// unconditional redirect back to the filtered table: partial failures
// are logged for operators but not surfaced in the UI.
func (h *Handler) ReviewArticles(c *gin.Context) {
	returnURL := adminArticlesURL(c.PostForm("site"), c.PostForm("status"), c.PostForm("search"))

	action := content.Action(c.PostForm("action"))
	if action != content.ActionApprove && action != content.ActionReject {
		slog.Error("Rejected review request with unknown action", "action", action)
		c.Redirect(http.StatusSeeOther, returnURL)
		return
	}

	ids := c.PostFormArray("ids")
	if len(ids) == 0 {
		// Empty selection is a no-op: no network calls
		c.Redirect(http.StatusSeeOther, returnURL)
		return
	}

	ctx := c.Request.Context()
	creds := session.CredentialsFromRequest(c.Request)

	var wg sync.WaitGroup
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			slog.Error("Skipping non-numeric article id", "id", raw)
			continue
		}
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := h.client.SetArticleStatus(ctx, creds, id, action); err != nil {
				slog.Error("Article status update failed", "id", id, "action", action, "error", err)
			}
		}(id)
	}
	wg.Wait()

	c.Redirect(http.StatusSeeOther, returnURL)
}

func adminArticlesURL(site string, status string, search string) string {
	values := url.Values{}
	if site != "" {
		values.Set("site", site)
	}
	if status != "" {
		values.Set("status", status)
	}
	if search != "" {
		values.Set("search", search)
	}

	if len(values) == 0 {
		return "/admin/articles"
	}
	return "/admin/articles?" + values.Encode()
}
