package repos

import (
	"github.com/yungbote/recipe-backend/internal/data/repos/recipe"
	"github.com/yungbote/recipe-backend/internal/data/repos/user"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type TagRepo = recipe.TagRepo
type IngredientRepo = recipe.IngredientRepo
type RecipeRepo = recipe.RecipeRepo
type RecipeFilter = recipe.RecipeFilter

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return recipe.NewTagRepo(db, baseLog)
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return recipe.NewIngredientRepo(db, baseLog)
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return recipe.NewRecipeRepo(db, baseLog)
}
