package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/recipe-backend/internal/data/repos/testutil"
	types "github.com/yungbote/recipe-backend/internal/domain"
	"gorm.io/gorm"
)

func TestTagRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewTagRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "tagrepo-owner@example.com")
	other := testutil.SeedUser(t, ctx, tx, "tagrepo-other@example.com")

	created, err := repo.Create(ctx, tx, []*types.Tag{
		{UserID: owner.ID, Name: "Dinner"},
		{UserID: owner.ID, Name: "Vegan"},
		{UserID: other.ID, Name: "Dinner"},
	})
	if err != nil || len(created) != 3 {
		t.Fatalf("Create: err=%v len=%d", err, len(created))
	}

	sp := tx.SavePoint("dup")
	if _, err := repo.Create(ctx, sp, []*types.Tag{{UserID: owner.ID, Name: "Dinner"}}); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("Create duplicate: expected ErrDuplicatedKey, got %v", err)
	}
	tx.RollbackTo("dup")

	list, err := repo.ListByUser(ctx, tx, owner.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(list))
	}
	if list[0].Name != "Vegan" || list[1].Name != "Dinner" {
		t.Fatalf("ListByUser: expected name DESC order, got %q, %q", list[0].Name, list[1].Name)
	}

	got, err := repo.GetByName(ctx, tx, owner.ID, "Dinner")
	if err != nil || got == nil || got.ID != created[0].ID {
		t.Fatalf("GetByName: got=%+v err=%v", got, err)
	}
	if got, err := repo.GetByName(ctx, tx, owner.ID, "dinner"); err != nil || got != nil {
		t.Fatalf("GetByName is case-sensitive: got=%+v err=%v", got, err)
	}

	// Foreign rows look missing.
	if got, err := repo.GetByID(ctx, tx, owner.ID, created[2].ID); err != nil || got != nil {
		t.Fatalf("GetByID(foreign): got=%+v err=%v", got, err)
	}
	if ok, err := repo.UpdateFields(ctx, tx, owner.ID, created[2].ID, map[string]interface{}{"name": "Stolen"}); err != nil || ok {
		t.Fatalf("UpdateFields(foreign): ok=%v err=%v", ok, err)
	}
	if ok, err := repo.Delete(ctx, tx, owner.ID, created[2].ID); err != nil || ok {
		t.Fatalf("Delete(foreign): ok=%v err=%v", ok, err)
	}

	if ok, err := repo.UpdateFields(ctx, tx, owner.ID, created[1].ID, map[string]interface{}{"name": "Plant"}); err != nil || !ok {
		t.Fatalf("UpdateFields: ok=%v err=%v", ok, err)
	}

	r := testutil.SeedRecipe(t, ctx, tx, owner.ID, "Soup", []*types.Tag{created[0], created[1]}, nil)
	if ok, err := repo.Delete(ctx, tx, owner.ID, created[0].ID); err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	var links int64
	if err := tx.Table(types.TagJoinTable).Where("recipe_id = ?", r.ID).Count(&links).Error; err != nil || links != 1 {
		t.Fatalf("join rows after delete: count=%d err=%v", links, err)
	}
	var recipes int64
	if err := tx.Model(&types.Recipe{}).Where("id = ?", r.ID).Count(&recipes).Error; err != nil || recipes != 1 {
		t.Fatalf("recipe survives tag delete: count=%d err=%v", recipes, err)
	}
}

func TestIngredientRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewIngredientRepo(db, testutil.Logger(t))
	owner := testutil.SeedUser(t, ctx, tx, "ingredientrepo@example.com")

	created, err := repo.Create(ctx, tx, []*types.Ingredient{{UserID: owner.ID, Name: "Salt"}})
	if err != nil || len(created) != 1 {
		t.Fatalf("Create: err=%v len=%d", err, len(created))
	}
	got, err := repo.GetByID(ctx, tx, owner.ID, created[0].ID)
	if err != nil || got == nil || got.Name != "Salt" {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}

	r := testutil.SeedRecipe(t, ctx, tx, owner.ID, "Fries", nil, []*types.Ingredient{created[0]})
	if ok, err := repo.Delete(ctx, tx, owner.ID, created[0].ID); err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	var links int64
	if err := tx.Table(types.IngredientJoinTable).Where("recipe_id = ?", r.ID).Count(&links).Error; err != nil || links != 0 {
		t.Fatalf("join rows after delete: count=%d err=%v", links, err)
	}
}
