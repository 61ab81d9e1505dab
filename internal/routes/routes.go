package routes

import (
	"net/http"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/getyourdepa/depa-cms/internal/handler"
	"github.com/getyourdepa/depa-cms/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups the route handlers.
type Handlers struct {
	Posts     *handler.PostHandler
	Listings  *handler.ListingHandler
	Zones     *handler.ZoneHandler
	Gallery   *handler.GalleryHandler
	ShortLink *handler.ShortLinkHandler
}

// Limits configures rate limiting. A nil Redis client disables it.
type Limits struct {
	Redis  *redis.Client
	Admin  middleware.RateLimitConfig
	Public middleware.RateLimitConfig
}

// contentRoutes is implemented by every ContentHandler instantiation.
type contentRoutes interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// Setup configures all routes
func Setup(router *gin.Engine, h Handlers, gate *middleware.Gate, limits Limits) {
	// Public
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/r/:key", middleware.RateLimit(limits.Redis, limits.Public), h.ShortLink.Redirect)

	// Everything under /api is admin only; the gate runs before the limiter
	// so buckets are keyed by subject.
	api := router.Group("/api",
		middleware.AdminOnly(gate),
		middleware.RateLimit(limits.Redis, limits.Admin),
	)

	registerContent(api.Group("/blog"), h.Posts)
	registerContent(api.Group("/listings"), h.Listings)
	registerContent(api.Group("/zones"), h.Zones)

	gallery := api.Group("/gallery")
	gallery.GET("", h.Gallery.List)
	gallery.POST("", h.Gallery.Upload)

	api.POST("/shorten", h.ShortLink.Shorten)

	router.NoRoute(func(c *gin.Context) {
		common.ErrorResponse(c, http.StatusNotFound, middleware.T(c, "error.not_found"), nil)
	})
}

func registerContent(g *gin.RouterGroup, h contentRoutes) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
