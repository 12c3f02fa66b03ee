package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/recipe-backend/internal/data/repos"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
)

type Repos struct {
	User       repos.UserRepo
	Tag        repos.TagRepo
	Ingredient repos.IngredientRepo
	Recipe     repos.RecipeRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		Tag:        repos.NewTagRepo(db, log),
		Ingredient: repos.NewIngredientRepo(db, log),
		Recipe:     repos.NewRecipeRepo(db, log),
	}
}
