package recipe

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/recipe-backend/internal/domain"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
)

// RecipeFilter narrows a listing. Ids inside one slice are OR'ed; the two slices are AND'ed.
// An empty slice does not filter.
type RecipeFilter struct {
	TagIDs        []uint64
	IngredientIDs []uint64
}

type RecipeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, recipe *types.Recipe) error

	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uint64) (*types.Recipe, error)
	List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filter RecipeFilter) ([]*types.Recipe, error)

	UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uint64, updates map[string]interface{}) (bool, error)
	ReplaceTags(ctx context.Context, tx *gorm.DB, recipeID uint64, tagIDs []uint64) error
	ReplaceIngredients(ctx context.Context, tx *gorm.DB, recipeID uint64, ingredientIDs []uint64) error

	Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uint64) (bool, error)
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return &recipeRepo{db: db, log: baseLog.With("repo", "RecipeRepo")}
}

type recipeTagRow struct {
	RecipeID uint64 `gorm:"column:recipe_id"`
	TagID    uint64 `gorm:"column:tag_id"`
}

func (recipeTagRow) TableName() string { return types.TagJoinTable }

type recipeIngredientRow struct {
	RecipeID     uint64 `gorm:"column:recipe_id"`
	IngredientID uint64 `gorm:"column:ingredient_id"`
}

func (recipeIngredientRow) TableName() string { return types.IngredientJoinTable }

// Create inserts the recipe row only. Links are written with ReplaceTags/ReplaceIngredients.
func (r *recipeRepo) Create(ctx context.Context, tx *gorm.DB, recipe *types.Recipe) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

func (r *recipeRepo) preloaded(t *gorm.DB) *gorm.DB {
	return t.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *recipeRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uint64) (*types.Recipe, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == 0 || userID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Recipe
	if err := r.preloaded(t.WithContext(ctx)).
		Where("user_id = ? AND id = ?", userID, id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *recipeRepo) List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filter RecipeFilter) ([]*types.Recipe, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := r.preloaded(t.WithContext(ctx)).Where("user_id = ?", userID)
	if len(filter.TagIDs) > 0 {
		q = q.Where("id IN (SELECT recipe_id FROM "+types.TagJoinTable+" WHERE tag_id IN ?)", filter.TagIDs)
	}
	if len(filter.IngredientIDs) > 0 {
		q = q.Where("id IN (SELECT recipe_id FROM "+types.IngredientJoinTable+" WHERE ingredient_id IN ?)", filter.IngredientIDs)
	}
	var out []*types.Recipe
	if err := q.Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recipeRepo) UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uint64, updates map[string]interface{}) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(updates) == 0 {
		var count int64
		err := t.WithContext(ctx).Model(&types.Recipe{}).Where("user_id = ? AND id = ?", userID, id).Count(&count).Error
		return count > 0, err
	}
	res := t.WithContext(ctx).
		Model(&types.Recipe{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReplaceTags swaps the recipe's tag links for tagIDs. Callers own the recipe check.
func (r *recipeRepo) ReplaceTags(ctx context.Context, tx *gorm.DB, recipeID uint64, tagIDs []uint64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&recipeTagRow{}).Error; err != nil {
		return err
	}
	ids := uniqueIDs(tagIDs)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]*recipeTagRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, &recipeTagRow{RecipeID: recipeID, TagID: id})
	}
	return t.WithContext(ctx).Create(&rows).Error
}

func (r *recipeRepo) ReplaceIngredients(ctx context.Context, tx *gorm.DB, recipeID uint64, ingredientIDs []uint64) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&recipeIngredientRow{}).Error; err != nil {
		return err
	}
	ids := uniqueIDs(ingredientIDs)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]*recipeIngredientRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, &recipeIngredientRow{RecipeID: recipeID, IngredientID: id})
	}
	return t.WithContext(ctx).Create(&rows).Error
}

// Delete removes the recipe and its links. Tags and ingredients are kept.
func (r *recipeRepo) Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uint64) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var deleted bool
	err := t.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		res := txx.Where("user_id = ? AND id = ?", userID, id).Delete(&types.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		if err := txx.Where("recipe_id = ?", id).Delete(&recipeTagRow{}).Error; err != nil {
			return err
		}
		return txx.Where("recipe_id = ?", id).Delete(&recipeIngredientRow{}).Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
