package routes

import (
	"net/http"

	"provenance-api/internal/handlers"
	"provenance-api/internal/logging"
	"provenance-api/internal/middleware"
	"provenance-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the routes need.
type Dependencies struct {
	Articles handlers.ArticleLister
	Hub      *realtime.Hub
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	Logger  *zap.Logger
}

func SetupRoutes(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Hub == nil {
		deps.Hub = realtime.GetHub()
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), logging.GinLogger(deps.Logger))

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Provenance API is running",
		})
	})
	if deps.Metrics != nil {
		ginRouter.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	// Public article listings, also mounted under /api
	articleHandler := handlers.NewArticleHandler(deps.Articles)
	ginRouter.GET("/articles", articleHandler.GetArticles)
	ginRouter.GET("/available", articleHandler.GetAvailable)

	api := ginRouter.Group("/api")
	{
		api.GET("/articles", articleHandler.GetArticles)
		api.GET("/available", articleHandler.GetAvailable)
		api.POST("/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		protectedRoutes.GET("/endpoints", handlers.GetEndpoints)
		protectedRoutes.POST("/endpoints", handlers.CreateEndpoint)
	}
	ginRouter.GET("/ws", middleware.JWTAuthMiddleware(), handlers.WebSocketHandler(deps.Hub, deps.Logger))

	return ginRouter
}
