package handlers

import (
	"github.com/google/uuid"

	types "github.com/yungbote/recipe-backend/internal/domain"
)

type userView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

func newUserView(u *types.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name}
}

type namedView struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func tagView(t *types.Tag) namedView { return namedView{ID: t.ID, Name: t.Name} }

func ingredientView(i *types.Ingredient) namedView { return namedView{ID: i.ID, Name: i.Name} }

// recipeView is the list projection.
type recipeView struct {
	ID          uint64      `json:"id"`
	Title       string      `json:"title"`
	TimeMinutes int         `json:"time_minutes"`
	Price       string      `json:"price"`
	Link        string      `json:"link"`
	Tags        []namedView `json:"tags"`
	Ingredients []namedView `json:"ingredient"`
}

// recipeDetailView adds the fields only shown on a single recipe.
type recipeDetailView struct {
	recipeView
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

type recipeImageView struct {
	ID    uint64  `json:"id"`
	Image *string `json:"image"`
}

func newRecipeView(r *types.Recipe) recipeView {
	v := recipeView{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        make([]namedView, 0, len(r.Tags)),
		Ingredients: make([]namedView, 0, len(r.Ingredients)),
	}
	for _, t := range r.Tags {
		v.Tags = append(v.Tags, tagView(t))
	}
	for _, i := range r.Ingredients {
		v.Ingredients = append(v.Ingredients, ingredientView(i))
	}
	return v
}

func newRecipeDetailView(r *types.Recipe, imageURL string) recipeDetailView {
	return recipeDetailView{
		recipeView:  newRecipeView(r),
		Description: r.Description,
		Image:       optionalURL(imageURL),
	}
}

func optionalURL(u string) *string {
	if u == "" {
		return nil
	}
	return &u
}
