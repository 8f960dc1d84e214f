package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Crklemz/content-automation-platform/app/content"
	"github.com/Crklemz/content-automation-platform/app/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// NewServer creates the HTTP frontend with all routes configured.
func NewServer(handler *Handler, sessions *session.Manager) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	r.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html")))

	setupRoutes(r, handler, sessions)

	return r
}

// setupRoutes configures all the application routes. Tenant pages are
// matched by the fallback handler so static routes like /admin and
// /health take precedence over site slugs.
func setupRoutes(r *gin.Engine, handler *Handler, sessions *session.Manager) {
	r.GET("/health", handler.GetHealth)

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})

	// Public pages
	r.GET("/", handler.Home)

	// Admin login is the only public admin route
	r.GET("/admin/login", handler.LoginPage)
	r.POST("/admin/login", handler.Login)
	r.POST("/admin/logout", handler.Logout)

	admin := r.Group("/admin", sessions.RequireAuth())
	{
		admin.GET("", handler.Dashboard)
		admin.GET("/articles", handler.AdminArticles)
		admin.GET("/articles/view", handler.AdminArticleView)
		admin.POST("/articles/review", handler.ReviewArticles)
		admin.GET("/ai-content", handler.AIConsole)
		admin.POST("/ai-content/generate", handler.Generate)
	}

	// Tenant listing and detail routes: /{site} and /{site}/{slug}
	r.NoRoute(handler.TenantPages)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.In(time.Local).Format("January 2, 2006")
		},
		"safeHTML": func(s string) template.HTML {
			// Article bodies are pre-rendered HTML; the backend is the
			// trust boundary for their safety
			return template.HTML(s)
		},
		"preview": func(body string) string {
			return previewText(body, previewBudget)
		},
		"sectionType": func(s content.Section) string {
			return string(s.Type)
		},
		"headingLevel": headingLevel,
		"statusClass":  statusClass,
	}
}

// statusClass maps a workflow status to its badge style. The switch is
// exhaustive over the three states.
func statusClass(status content.Status) string {
	switch status {
	case content.StatusPending:
		return "badge-pending"
	case content.StatusApproved:
		return "badge-approved"
	case content.StatusRejected:
		return "badge-rejected"
	}
	return "badge-unknown"
}
