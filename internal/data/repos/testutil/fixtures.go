package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	types "github.com/yungbote/recipe-backend/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		Name:     "Seed",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTag(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *types.Tag {
	tb.Helper()
	tag := &types.Tag{UserID: userID, Name: name}
	if err := tx.WithContext(ctx).Create(tag).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return tag
}

func SeedIngredient(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *types.Ingredient {
	tb.Helper()
	ing := &types.Ingredient{UserID: userID, Name: name}
	if err := tx.WithContext(ctx).Create(ing).Error; err != nil {
		tb.Fatalf("seed ingredient: %v", err)
	}
	return ing
}

// SeedRecipe inserts a recipe and links the given tags and ingredients through the join tables.
func SeedRecipe(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string, tags []*types.Tag, ingredients []*types.Ingredient) *types.Recipe {
	tb.Helper()
	r := &types.Recipe{
		UserID:      userID,
		Title:       title,
		TimeMinutes: 5,
		Price:       decimal.RequireFromString("5.50"),
	}
	if err := tx.WithContext(ctx).Omit("Tags", "Ingredients").Create(r).Error; err != nil {
		tb.Fatalf("seed recipe: %v", err)
	}
	for _, t := range tags {
		if err := tx.WithContext(ctx).Exec("INSERT INTO recipe_tag (recipe_id, tag_id) VALUES (?, ?)", r.ID, t.ID).Error; err != nil {
			tb.Fatalf("seed recipe tag: %v", err)
		}
	}
	for _, i := range ingredients {
		if err := tx.WithContext(ctx).Exec("INSERT INTO recipe_ingredient (recipe_id, ingredient_id) VALUES (?, ?)", r.ID, i.ID).Error; err != nil {
			tb.Fatalf("seed recipe ingredient: %v", err)
		}
	}
	return r
}
