package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const viewerHeader = "X-Viewer-ID"

// NewServer creates the HTTP server with all routes configured.
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

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

	// CORS for the browser front-end
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, X-Viewer-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.Use(viewerMiddleware())

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	// Reader endpoints
	r.GET("/articles", handler.GetArticles)
	r.GET("/articles/:id", handler.GetArticle)
	r.POST("/articles/:id/like", handler.LikeArticle)
	r.GET("/articles/:id/comments", handler.GetComments)
	r.POST("/articles/:id/comments", handler.AddComment)
	r.POST("/articles/:id/comments/:commentId/like", handler.ToggleCommentLike)

	r.GET("/categories", handler.GetCategories)

	// Hero carousel
	r.GET("/hero", handler.GetHero)
	r.POST("/hero/next", handler.HeroNext)
	r.POST("/hero/prev", handler.HeroPrev)
	r.POST("/hero/slide/:index", handler.HeroJump)

	r.GET("/health", handler.GetHealth)

	// Admin endpoints (conditionally enabled with authentication)
	if apiAccessKey != "" {
		admin := r.Group("/api")
		admin.Use(authMiddleware(apiAccessKey))
		{
			admin.GET("/stats", handler.GetStats)

			admin.GET("/articles", handler.AdminListArticles)
			admin.POST("/articles", handler.AdminCreateArticle)
			admin.PUT("/articles/:id", handler.AdminUpdateArticle)
			admin.DELETE("/articles/:id", handler.AdminDeleteArticle)

			admin.GET("/feeds", handler.AdminListFeeds)
			admin.POST("/feeds", handler.AdminAddFeed)
			admin.DELETE("/feeds/:id", handler.AdminDeleteFeed)
			admin.POST("/feeds/:id/toggle", handler.AdminToggleFeed)
			admin.POST("/feeds/:id/refresh", handler.AdminRefreshFeed)

			admin.GET("/assist/status", handler.AssistStatus)
			admin.POST("/assist/summarize", handler.AssistSummarize)
			admin.POST("/assist/translate", handler.AssistTranslate)
			admin.POST("/assist/analyze", handler.AssistAnalyze)
			admin.POST("/assist/suggest", handler.AssistSuggest)
		}
		slog.Info("Admin endpoints enabled with authentication")
	} else {
		slog.Info("Admin endpoints disabled (API_ACCESS_KEY not set)")
	}

	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"articles":   "/articles?category=<selector>&search=<term>",
			"article":    "/articles/<id>",
			"categories": "/categories",
			"hero":       "/hero",
			"health":     "/health",
		}
		if apiAccessKey != "" {
			endpoints["admin"] = "/api/* (requires X-API-Key header)"
		}

		c.JSON(200, gin.H{
			"service":     "Nokor Post",
			"description": "Khmer news portal API with reader feed, admin panel and AI assist",
			"endpoints":   endpoints,
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// viewerMiddleware assigns an anonymous viewer identity used for the
// comment like toggle. Returning clients present it back via header.
func viewerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewerID := c.GetHeader(viewerHeader)
		if viewerID == "" {
			viewerID = uuid.NewString()
		}
		c.Set("viewerID", viewerID)
		c.Header(viewerHeader, viewerID)
		c.Next()
	}
}

func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
