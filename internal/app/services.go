package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/recipe-backend/internal/observability"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
	"github.com/yungbote/recipe-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Tag        services.TagService
	Ingredient services.IngredientService
	Recipe     services.RecipeService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:       services.NewAuthService(db, log, repos.User, clients.Revocations, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User:       services.NewUserService(db, log, repos.User),
		Tag:        services.NewTagService(db, log, repos.Tag),
		Ingredient: services.NewIngredientService(db, log, repos.Ingredient),
		Recipe: services.NewRecipeService(services.RecipeServiceDeps{
			DB:             db,
			Log:            log,
			RecipeRepo:     repos.Recipe,
			TagRepo:        repos.Tag,
			IngredientRepo: repos.Ingredient,
			Storage:        clients.ImageStore,
			ChildMetrics:   metrics,
			ImageMetrics:   metrics,
		}),
	}
}
