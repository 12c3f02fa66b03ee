package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/recipe-backend/internal/http/handlers"
	httpMW "github.com/yungbote/recipe-backend/internal/http/middleware"
	"github.com/yungbote/recipe-backend/internal/observability"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	Tracing     bool

	Metrics     *observability.Metrics
	RateLimiter *httpMW.RateLimiter
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	RecipeHandler     *httpH.RecipeHandler
	TagHandler        *httpH.TagHandler
	IngredientHandler *httpH.IngredientHandler
	HealthHandler     *httpH.HealthHandler

	// MediaRoot is served under MediaPrefix when images live on local disk.
	MediaRoot   string
	MediaPrefix string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	if cfg.MediaRoot != "" && cfg.MediaPrefix != "" {
		r.Static(cfg.MediaPrefix, cfg.MediaRoot)
	}

	api := r.Group("/api")
	api.Use(cfg.RateLimiter.Middleware())
	{
		// User (public)
		if cfg.AuthHandler != nil {
			api.POST("/user/create", cfg.AuthHandler.Register)
			api.POST("/user/token", cfg.AuthHandler.Token)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/user/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/user/me", cfg.UserHandler.GetMe)
			protected.PUT("/user/me", cfg.UserHandler.UpdateMe)
			protected.PATCH("/user/me", cfg.UserHandler.UpdateMe)
		}

		// Recipes
		if cfg.RecipeHandler != nil {
			protected.GET("/recipes", cfg.RecipeHandler.List)
			protected.POST("/recipes", cfg.RecipeHandler.Create)
			protected.GET("/recipes/:id", cfg.RecipeHandler.Get)
			protected.PUT("/recipes/:id", cfg.RecipeHandler.Update)
			protected.PATCH("/recipes/:id", cfg.RecipeHandler.Update)
			protected.DELETE("/recipes/:id", cfg.RecipeHandler.Delete)
			protected.POST("/recipes/:id/image", cfg.RecipeHandler.UploadImage)
		}

		// Tags
		if cfg.TagHandler != nil {
			protected.GET("/tags", cfg.TagHandler.List)
			protected.POST("/tags", cfg.TagHandler.Create)
			protected.GET("/tags/:id", cfg.TagHandler.Get)
			protected.PUT("/tags/:id", cfg.TagHandler.Update)
			protected.PATCH("/tags/:id", cfg.TagHandler.Update)
			protected.DELETE("/tags/:id", cfg.TagHandler.Delete)
		}

		// Ingredients
		if cfg.IngredientHandler != nil {
			protected.GET("/ingredients", cfg.IngredientHandler.List)
			protected.POST("/ingredients", cfg.IngredientHandler.Create)
			protected.GET("/ingredients/:id", cfg.IngredientHandler.Get)
			protected.PUT("/ingredients/:id", cfg.IngredientHandler.Update)
			protected.PATCH("/ingredients/:id", cfg.IngredientHandler.Update)
			protected.DELETE("/ingredients/:id", cfg.IngredientHandler.Delete)
		}
	}

	return r
}
