package web

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Crklemz/content-automation-platform/app/content"
	"github.com/Crklemz/content-automation-platform/app/session"
)

const (
	trendingLimit = 5
	dailyTopCount = 3
)

// AIConsole lists trending topics for the selected site and offers
// per-topic generation plus the aggregate daily top 3 action.
func (h *Handler) AIConsole(c *gin.Context) {
	h.renderConsole(c, c.Query("site"), "")
}

func (h *Handler) renderConsole(c *gin.Context, siteSlug string, errMsg string) {
	ctx := c.Request.Context()
	sites := h.client.ListSites(ctx)

	var topics []content.TrendingTopic
	if siteSlug != "" {
		creds := session.CredentialsFromRequest(c.Request)
		fetched, err := h.client.TrendingTopics(ctx, creds, siteSlug, trendingLimit)
		if err != nil {
			// Degrades to the empty state; operators get the log line
			slog.Error("Trending topics fetch failed", "site", siteSlug, "error", err)
		} else {
			topics = fetched
		}
	}

	// "Site" is reserved for *content.Site in the shared head; the
	// console only has a slug
	c.HTML(http.StatusOK, "aiconsole.html", gin.H{
		"Title":           "AI Content",
		"Sites":           sites,
		"SiteSlug":        siteSlug,
		"Topics":          topics,
		"CanGenerateTop3": len(topics) >= dailyTopCount,
		"Error":           errMsg,
	})
}

// Generate runs the backend AI pipeline and persists the result as a
// pending article. Generation and persistence are two independent
// calls: a persistence failure leaves the generated payload as an
// unsaved preview with a warning, nothing is rolled back.
func (h *Handler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	creds := session.CredentialsFromRequest(c.Request)

	siteSlug := c.PostForm("site")
	topic := c.PostForm("topic")

	if siteSlug == "" {
		h.renderConsole(c, siteSlug, "Select a site before generating content.")
		return
	}

	count := 1
	if topic == "" {
		// Aggregate daily top 3 needs at least 3 loaded topics
		topics, err := h.client.TrendingTopics(ctx, creds, siteSlug, dailyTopCount)
		if err != nil || len(topics) < dailyTopCount {
			if err != nil {
				slog.Error("Trending topics fetch failed", "site", siteSlug, "error", err)
			}
			h.renderConsole(c, siteSlug, "At least 3 trending topics are required for a daily top 3 article.")
			return
		}
		count = dailyTopCount
	}

	result, err := h.client.GenerateContent(ctx, creds, siteSlug, topic, count)
	if err != nil {
		slog.Error("Content generation failed", "site", siteSlug, "topic", topic, "error", err)
		h.renderConsole(c, siteSlug, "Content generation failed. Please try again.")
		return
	}

	created, err := h.client.CreateArticle(ctx, creds, content.NewArticle{
		Title:   result.ArticleData.Title,
		Body:    SectionsToHTML(result.ArticleData.Sections),
		Slug:    content.Slugify(result.ArticleData.Title),
		Site:    siteSlug,
		Status:  content.StatusPending,
		Sources: result.ArticleData.Sources,
	})

	warning := ""
	if err != nil {
		slog.Error("Generated article could not be saved", "site", siteSlug, "title", result.ArticleData.Title, "error", err)
		warning = "The article was generated but could not be saved. It exists only in this preview."
	}

	c.HTML(http.StatusOK, "generated.html", gin.H{
		"Title":    "Generated content",
		"SiteSlug": siteSlug,
		"Result":   result,
		"Created":  created,
		"Warning":  warning,
	})
}
