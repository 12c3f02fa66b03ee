package recipe

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/recipe-backend/internal/domain"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
)

// Named is the set of owned, uniquely named children a recipe links to.
type Named interface {
	types.Tag | types.Ingredient
}

// NamedRepo stores Tag or Ingredient rows. Every read and write is scoped to the owner
// passed in; a row owned by someone else is reported as missing.
type NamedRepo[T Named] interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*T) ([]*T, error)

	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uint64) (*T, error)
	GetByName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) (*T, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*T, error)

	UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uint64, updates map[string]interface{}) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uint64) (bool, error)
}

type TagRepo = NamedRepo[types.Tag]
type IngredientRepo = NamedRepo[types.Ingredient]

type namedRepo[T Named] struct {
	db  *gorm.DB
	log *logger.Logger

	joinTable  string
	joinColumn string
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return &namedRepo[types.Tag]{
		db:         db,
		log:        baseLog.With("repo", "TagRepo"),
		joinTable:  types.TagJoinTable,
		joinColumn: "tag_id",
	}
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return &namedRepo[types.Ingredient]{
		db:         db,
		log:        baseLog.With("repo", "IngredientRepo"),
		joinTable:  types.IngredientJoinTable,
		joinColumn: "ingredient_id",
	}
}

func (r *namedRepo[T]) Create(ctx context.Context, tx *gorm.DB, rows []*T) ([]*T, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*T{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *namedRepo[T]) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uint64) (*T, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == 0 || userID == uuid.Nil {
		return nil, nil
	}
	var out []*T
	if err := t.WithContext(ctx).
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

func (r *namedRepo[T]) GetByName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) (*T, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*T
	if err := t.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *namedRepo[T]) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*T, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*T
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateFields reports false when no owned row matched.
func (r *namedRepo[T]) UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uint64, updates map[string]interface{}) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(updates) == 0 {
		row, err := r.GetByID(ctx, t, userID, id)
		return row != nil, err
	}
	res := t.WithContext(ctx).
		Model(new(T)).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the row and its recipe links. Recipes themselves are kept.
func (r *namedRepo[T]) Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uint64) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var deleted bool
	err := t.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		row, err := r.GetByID(ctx, txx, userID, id)
		if err != nil || row == nil {
			return err
		}
		if err := txx.Exec("DELETE FROM "+r.joinTable+" WHERE "+r.joinColumn+" = ?", id).Error; err != nil {
			return err
		}
		res := txx.Where("user_id = ? AND id = ?", userID, id).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
