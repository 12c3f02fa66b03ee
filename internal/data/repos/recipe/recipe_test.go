package recipe

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/yungbote/recipe-backend/internal/data/repos/testutil"
	types "github.com/yungbote/recipe-backend/internal/domain"
)

func recipeIDs(rows []*types.Recipe) []uint64 {
	out := make([]uint64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func equalIDs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRecipeRepoCreateGetUpdate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewRecipeRepo(db, testutil.Logger(t))
	owner := testutil.SeedUser(t, ctx, tx, "reciperepo@example.com")
	other := testutil.SeedUser(t, ctx, tx, "reciperepo-other@example.com")
	tag := testutil.SeedTag(t, ctx, tx, owner.ID, "Dinner")
	ing := testutil.SeedIngredient(t, ctx, tx, owner.ID, "Salt")

	rec := &types.Recipe{
		UserID:      owner.ID,
		Title:       "Curry",
		TimeMinutes: 30,
		Price:       decimal.RequireFromString("12.50"),
	}
	if err := repo.Create(ctx, tx, rec); err != nil || rec.ID == 0 {
		t.Fatalf("Create: id=%d err=%v", rec.ID, err)
	}
	if err := repo.ReplaceTags(ctx, tx, rec.ID, []uint64{tag.ID, tag.ID}); err != nil {
		t.Fatalf("ReplaceTags: %v", err)
	}
	if err := repo.ReplaceIngredients(ctx, tx, rec.ID, []uint64{ing.ID}); err != nil {
		t.Fatalf("ReplaceIngredients: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, owner.ID, rec.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
	if len(got.Tags) != 1 || got.Tags[0].ID != tag.ID || len(got.Ingredients) != 1 {
		t.Fatalf("GetByID: unexpected links tags=%v ingredients=%v", got.Tags, got.Ingredients)
	}
	if !got.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("GetByID: price=%s", got.Price)
	}
	if got, err := repo.GetByID(ctx, tx, other.ID, rec.ID); err != nil || got != nil {
		t.Fatalf("GetByID(foreign): got=%+v err=%v", got, err)
	}

	if ok, err := repo.UpdateFields(ctx, tx, other.ID, rec.ID, map[string]interface{}{"title": "Stolen"}); err != nil || ok {
		t.Fatalf("UpdateFields(foreign): ok=%v err=%v", ok, err)
	}
	if ok, err := repo.UpdateFields(ctx, tx, owner.ID, rec.ID, map[string]interface{}{"title": "Green curry"}); err != nil || !ok {
		t.Fatalf("UpdateFields: ok=%v err=%v", ok, err)
	}

	if err := repo.ReplaceTags(ctx, tx, rec.ID, nil); err != nil {
		t.Fatalf("ReplaceTags(clear): %v", err)
	}
	got, err = repo.GetByID(ctx, tx, owner.ID, rec.ID)
	if err != nil || got.Title != "Green curry" || len(got.Tags) != 0 || len(got.Ingredients) != 1 {
		t.Fatalf("after update: got=%+v err=%v", got, err)
	}

	if ok, err := repo.Delete(ctx, tx, other.ID, rec.ID); err != nil || ok {
		t.Fatalf("Delete(foreign): ok=%v err=%v", ok, err)
	}
	if ok, err := repo.Delete(ctx, tx, owner.ID, rec.ID); err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	var links int64
	if err := tx.Table(types.IngredientJoinTable).Where("recipe_id = ?", rec.ID).Count(&links).Error; err != nil || links != 0 {
		t.Fatalf("join rows after recipe delete: count=%d err=%v", links, err)
	}
	var ings int64
	if err := tx.Model(&types.Ingredient{}).Where("id = ?", ing.ID).Count(&ings).Error; err != nil || ings != 1 {
		t.Fatalf("ingredient survives recipe delete: count=%d err=%v", ings, err)
	}
}

func TestRecipeRepoListFilter(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewRecipeRepo(db, testutil.Logger(t))
	owner := testutil.SeedUser(t, ctx, tx, "recipefilter@example.com")
	other := testutil.SeedUser(t, ctx, tx, "recipefilter-other@example.com")

	vegan := testutil.SeedTag(t, ctx, tx, owner.ID, "Vegan")
	veg := testutil.SeedTag(t, ctx, tx, owner.ID, "Vegetarian")
	salt := testutil.SeedIngredient(t, ctx, tx, owner.ID, "Salt")
	pepper := testutil.SeedIngredient(t, ctx, tx, owner.ID, "Pepper")

	r1 := testutil.SeedRecipe(t, ctx, tx, owner.ID, "Curry", []*types.Tag{vegan, veg}, []*types.Ingredient{salt})
	r2 := testutil.SeedRecipe(t, ctx, tx, owner.ID, "Tahini", []*types.Tag{veg}, []*types.Ingredient{pepper})
	r3 := testutil.SeedRecipe(t, ctx, tx, owner.ID, "Fish", nil, []*types.Ingredient{salt, pepper})
	_ = testutil.SeedRecipe(t, ctx, tx, other.ID, "Foreign", nil, nil)

	cases := []struct {
		name   string
		filter RecipeFilter
		want   []uint64
	}{
		{"no filter", RecipeFilter{}, []uint64{r3.ID, r2.ID, r1.ID}},
		{"tags or", RecipeFilter{TagIDs: []uint64{vegan.ID, veg.ID}}, []uint64{r2.ID, r1.ID}},
		{"single tag", RecipeFilter{TagIDs: []uint64{vegan.ID}}, []uint64{r1.ID}},
		{"ingredients or", RecipeFilter{IngredientIDs: []uint64{salt.ID, pepper.ID}}, []uint64{r3.ID, r2.ID, r1.ID}},
		{"tags and ingredients", RecipeFilter{TagIDs: []uint64{veg.ID}, IngredientIDs: []uint64{pepper.ID}}, []uint64{r2.ID}},
		{"unknown tag", RecipeFilter{TagIDs: []uint64{999999}}, []uint64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := repo.List(ctx, tx, owner.ID, tc.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if got := recipeIDs(rows); !equalIDs(got, tc.want) {
				t.Fatalf("List: got %v want %v", got, tc.want)
			}
		})
	}
}
