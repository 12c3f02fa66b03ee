package services

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/recipe-backend/internal/domain"
	"github.com/yungbote/recipe-backend/internal/pkg/ctxutil"
	"github.com/yungbote/recipe-backend/internal/pkg/dbctx"
	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
	"github.com/yungbote/recipe-backend/internal/platform/imaging"
)

// UploadImage stores data as the recipe's image. The new object is written first, then
// the row is pointed at it, then the previous object is removed. A failed row update
// removes the new object again so storage never holds an unreferenced upload.
func (s *recipeService) UploadImage(dbc dbctx.Context, id uint64, data []byte) (*types.Recipe, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, fmt.Errorf("image storage not configured")
	}

	current, err := s.recipeRepo.GetByID(ctx, dbc.Tx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if current == nil {
		return nil, domainerrors.ErrNotFound
	}

	info, err := imaging.Inspect(data)
	if err != nil {
		s.observeImage("rejected")
		return nil, domainerrors.NewValidation("image", imaging.ErrNotImage.Error())
	}

	key := fmt.Sprintf("recipes/%d/%s.%s", id, uuid.NewString(), info.Ext)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), info.ContentType); err != nil {
		s.observeImage("failed")
		return nil, fmt.Errorf("upload recipe image: %w", err)
	}

	var (
		out    *types.Recipe
		oldKey string
	)
	err = inTx(s.db, dbc, func(tx *gorm.DB) error {
		locked, err := s.recipeRepo.GetByID(ctx, tx, userID, id)
		if err != nil {
			return fmt.Errorf("get recipe: %w", err)
		}
		if locked == nil {
			return domainerrors.ErrNotFound
		}
		oldKey = locked.ImageKey
		ok, err := s.recipeRepo.UpdateFields(ctx, tx, userID, id, map[string]interface{}{"image_key": key})
		if err != nil {
			return fmt.Errorf("update recipe image: %w", err)
		}
		if !ok {
			return domainerrors.ErrNotFound
		}
		out, err = s.recipeRepo.GetByID(ctx, tx, userID, id)
		if err != nil {
			return fmt.Errorf("reload recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.log.Warn("Failed to remove orphaned recipe image", "recipe_id", id, "key", key, "error", delErr)
		}
		s.observeImage("failed")
		return nil, err
	}

	if oldKey != "" && oldKey != key {
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			s.log.Warn("Failed to delete previous recipe image", "recipe_id", id, "key", oldKey, "error", err)
		}
	}
	s.observeImage("stored")
	return out, nil
}

func (s *recipeService) observeImage(result string) {
	if s.imageMetrics != nil {
		s.imageMetrics.ObserveImageUpload(result)
	}
}
