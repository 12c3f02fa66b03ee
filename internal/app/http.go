package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipe-backend/internal/http"
	httpH "github.com/yungbote/recipe-backend/internal/http/handlers"
	httpMW "github.com/yungbote/recipe-backend/internal/http/middleware"
	"github.com/yungbote/recipe-backend/internal/observability"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth        *httpMW.AuthMiddleware
	RateLimiter *httpMW.RateLimiter
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Recipe     *httpH.RecipeHandler
	Tag        *httpH.TagHandler
	Ingredient *httpH.IngredientHandler
}

func wireHandlers(log *logger.Logger, services Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(log, db),
		Auth:       httpH.NewAuthHandler(log, services.Auth),
		User:       httpH.NewUserHandler(services.User),
		Recipe:     httpH.NewRecipeHandler(log, services.Recipe),
		Tag:        httpH.NewTagHandler(services.Tag),
		Ingredient: httpH.NewIngredientHandler(services.Ingredient),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services, metrics *observability.Metrics) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:        httpMW.NewAuthMiddleware(log, services.Auth),
		RateLimiter: httpMW.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, metrics),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics, mediaRoot string) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		ServiceName:       cfg.ServiceName,
		Tracing:           cfg.OtelEnabled,
		Metrics:           metrics,
		RateLimiter:       middleware.RateLimiter,
		CORSOrigins:       cfg.CORSOrigins,
		AuthMiddleware:    middleware.Auth,
		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		RecipeHandler:     handlers.Recipe,
		TagHandler:        handlers.Tag,
		IngredientHandler: handlers.Ingredient,
		HealthHandler:     handlers.Health,
		MediaRoot:         mediaRoot,
		MediaPrefix:       cfg.MediaPrefix,
	})
}
