package domain

import (
	"github.com/yungbote/recipe-backend/internal/domain/recipe"
	"github.com/yungbote/recipe-backend/internal/domain/user"
)

type User = user.User

type Tag = recipe.Tag
type Ingredient = recipe.Ingredient
type Recipe = recipe.Recipe

const (
	TagJoinTable        = recipe.TagJoinTable
	IngredientJoinTable = recipe.IngredientJoinTable
)
