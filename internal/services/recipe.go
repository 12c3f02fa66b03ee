package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-backend/internal/data/repos"
	types "github.com/yungbote/recipe-backend/internal/domain"
	"github.com/yungbote/recipe-backend/internal/pkg/ctxutil"
	"github.com/yungbote/recipe-backend/internal/pkg/dbctx"
	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
	"github.com/yungbote/recipe-backend/internal/pkg/validation"
)

const (
	maxPriceDigits   = 5
	maxPriceDecimals = 2
)

var maxPrice = decimal.New(1, maxPriceDigits-maxPriceDecimals) // 1000

// RecipeInput is the recipe write payload. A nil field is absent: required fields must
// be present on create and PUT, and absent Tags/Ingredients leave the current links alone.
type RecipeInput struct {
	Title       *string            `json:"title" validate:"omitempty,max=255"`
	TimeMinutes *int               `json:"time_minutes" validate:"omitempty,gte=0"`
	Price       *decimal.Decimal   `json:"price"`
	Link        *string            `json:"link" validate:"omitempty,max=255,url"`
	Description *string            `json:"description"`
	Tags        *[]ChildDescriptor `json:"tags"`
	Ingredients *[]ChildDescriptor `json:"ingredient"`
}

type RecipeFilter = repos.RecipeFilter

type RecipeService interface {
	List(dbc dbctx.Context, filter RecipeFilter) ([]*types.Recipe, error)
	Get(dbc dbctx.Context, id uint64) (*types.Recipe, error)
	Create(dbc dbctx.Context, in RecipeInput) (*types.Recipe, error)
	Update(dbc dbctx.Context, id uint64, in RecipeInput, partial bool) (*types.Recipe, error)
	Delete(dbc dbctx.Context, id uint64) error

	UploadImage(dbc dbctx.Context, id uint64, data []byte) (*types.Recipe, error)
	ImageURL(rec *types.Recipe) string
}

type recipeService struct {
	db             *gorm.DB
	log            *logger.Logger
	recipeRepo     repos.RecipeRepo
	tagRepo        repos.TagRepo
	ingredientRepo repos.IngredientRepo
	storage        ImageStorage
	childMetrics   ChildMetrics
	imageMetrics   ImageMetrics
	validator      *validation.Validator
}

type RecipeServiceDeps struct {
	DB             *gorm.DB
	Log            *logger.Logger
	RecipeRepo     repos.RecipeRepo
	TagRepo        repos.TagRepo
	IngredientRepo repos.IngredientRepo
	Storage        ImageStorage
	ChildMetrics   ChildMetrics
	ImageMetrics   ImageMetrics
}

func NewRecipeService(deps RecipeServiceDeps) RecipeService {
	return &recipeService{
		db:             deps.DB,
		log:            deps.Log.With("service", "RecipeService"),
		recipeRepo:     deps.RecipeRepo,
		tagRepo:        deps.TagRepo,
		ingredientRepo: deps.IngredientRepo,
		storage:        deps.Storage,
		childMetrics:   deps.ChildMetrics,
		imageMetrics:   deps.ImageMetrics,
		validator:      validation.New(),
	}
}

func (s *recipeService) List(dbc dbctx.Context, filter RecipeFilter) ([]*types.Recipe, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.recipeRepo.List(ctx, dbc.Tx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return rows, nil
}

func (s *recipeService) Get(dbc dbctx.Context, id uint64) (*types.Recipe, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.recipeRepo.GetByID(ctx, dbc.Tx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if rec == nil {
		return nil, domainerrors.ErrNotFound
	}
	return rec, nil
}

// recipeWrite is a validated RecipeInput. fields holds the scalar values for
// create; updates holds only the columns the input set.
type recipeWrite struct {
	fields          types.Recipe
	updates         map[string]interface{}
	tagNames        []string
	ingredientNames []string
	setTags         bool
	setIngredients  bool
}

func (s *recipeService) validateInput(in RecipeInput, requireAll bool) (*recipeWrite, error) {
	verr := &domainerrors.ValidationError{}
	w := &recipeWrite{updates: map[string]interface{}{}}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
		if title == "" {
			verr.Add("title", "may not be blank")
		} else {
			w.fields.Title = title
			w.updates["title"] = title
		}
	} else if requireAll {
		verr.Add("title", "is required")
	}

	if in.TimeMinutes != nil {
		w.fields.TimeMinutes = *in.TimeMinutes
		w.updates["time_minutes"] = *in.TimeMinutes
	} else if requireAll {
		verr.Add("time_minutes", "is required")
	}

	if in.Price != nil {
		if msg := checkPrice(*in.Price); msg != "" {
			verr.Add("price", msg)
		} else {
			w.fields.Price = *in.Price
			w.updates["price"] = *in.Price
		}
	} else if requireAll {
		verr.Add("price", "is required")
	}

	if in.Link != nil {
		link := strings.TrimSpace(*in.Link)
		in.Link = &link
		w.fields.Link = link
		w.updates["link"] = link
	}
	if in.Description != nil {
		w.fields.Description = *in.Description
		w.updates["description"] = *in.Description
	}

	if err := s.validator.Validate(in); err != nil {
		if !errors.Is(err, domainerrors.ErrInvalidArgument) {
			return nil, err
		}
		mergeValidation(verr, err)
	}

	if in.Tags != nil {
		names, err := normalizeDescriptors("tags", *in.Tags)
		if err != nil {
			mergeValidation(verr, err)
		}
		w.tagNames, w.setTags = names, true
	}
	if in.Ingredients != nil {
		names, err := normalizeDescriptors("ingredient", *in.Ingredients)
		if err != nil {
			mergeValidation(verr, err)
		}
		w.ingredientNames, w.setIngredients = names, true
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return w, nil
}

func checkPrice(p decimal.Decimal) string {
	switch {
	case p.IsNegative():
		return "must be greater than or equal to 0"
	case !p.Equal(p.Truncate(maxPriceDecimals)):
		return fmt.Sprintf("ensure that there are no more than %d decimal places", maxPriceDecimals)
	case p.GreaterThanOrEqual(maxPrice):
		return fmt.Sprintf("ensure that there are no more than %d digits in total", maxPriceDigits)
	default:
		return ""
	}
}

func (s *recipeService) Create(dbc dbctx.Context, in RecipeInput) (*types.Recipe, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	w, err := s.validateInput(in, true)
	if err != nil {
		return nil, err
	}

	rec := w.fields
	rec.UserID = userID

	var out *types.Recipe
	err = inTx(s.db, dbc, func(tx *gorm.DB) error {
		if err := s.recipeRepo.Create(ctx, tx, &rec); err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		// Absent lists on create mean no links.
		w.setTags, w.setIngredients = true, true
		if err := s.applyChildren(ctx, tx, userID, rec.ID, w); err != nil {
			return err
		}
		var err error
		out, err = s.recipeRepo.GetByID(ctx, tx, userID, rec.ID)
		if err != nil {
			return fmt.Errorf("reload recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("Recipe created", "recipe_id", out.ID, "user_id", userID)
	return out, nil
}

func (s *recipeService) Update(dbc dbctx.Context, id uint64, in RecipeInput, partial bool) (*types.Recipe, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	var out *types.Recipe
	err = inTx(s.db, dbc, func(tx *gorm.DB) error {
		current, err := s.recipeRepo.GetByID(ctx, tx, userID, id)
		if err != nil {
			return fmt.Errorf("get recipe: %w", err)
		}
		if current == nil {
			return domainerrors.ErrNotFound
		}
		w, err := s.validateInput(in, !partial)
		if err != nil {
			return err
		}
		if len(w.updates) > 0 {
			ok, err := s.recipeRepo.UpdateFields(ctx, tx, userID, id, w.updates)
			if err != nil {
				return fmt.Errorf("update recipe: %w", err)
			}
			if !ok {
				return domainerrors.ErrNotFound
			}
		}
		if err := s.applyChildren(ctx, tx, userID, id, w); err != nil {
			return err
		}
		out, err = s.recipeRepo.GetByID(ctx, tx, userID, id)
		if err != nil {
			return fmt.Errorf("reload recipe: %w", err)
		}
		if out == nil {
			return domainerrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyChildren replaces the link sets flagged in w. Must run inside the write transaction.
func (s *recipeService) applyChildren(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recipeID uint64, w *recipeWrite) error {
	if w.setTags {
		ids, err := reconcileChildren(ctx, tx, s.log, s.childMetrics, s.tagRepo, tagKind, userID, w.tagNames)
		if err != nil {
			return err
		}
		if err := s.recipeRepo.ReplaceTags(ctx, tx, recipeID, ids); err != nil {
			return fmt.Errorf("replace recipe tags: %w", err)
		}
	}
	if w.setIngredients {
		ids, err := reconcileChildren(ctx, tx, s.log, s.childMetrics, s.ingredientRepo, ingredientKind, userID, w.ingredientNames)
		if err != nil {
			return err
		}
		if err := s.recipeRepo.ReplaceIngredients(ctx, tx, recipeID, ids); err != nil {
			return fmt.Errorf("replace recipe ingredients: %w", err)
		}
	}
	return nil
}

func (s *recipeService) Delete(dbc dbctx.Context, id uint64) error {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return err
	}
	var imageKey string
	err = inTx(s.db, dbc, func(tx *gorm.DB) error {
		current, err := s.recipeRepo.GetByID(ctx, tx, userID, id)
		if err != nil {
			return fmt.Errorf("get recipe: %w", err)
		}
		if current == nil {
			return domainerrors.ErrNotFound
		}
		imageKey = current.ImageKey
		deleted, err := s.recipeRepo.Delete(ctx, tx, userID, id)
		if err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		if !deleted {
			return domainerrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	if imageKey != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, imageKey); err != nil {
			s.log.Warn("Failed to delete recipe image", "recipe_id", id, "key", imageKey, "error", err)
		}
	}
	return nil
}

func (s *recipeService) ImageURL(rec *types.Recipe) string {
	if rec == nil || rec.ImageKey == "" || s.storage == nil {
		return ""
	}
	return s.storage.PublicURL(rec.ImageKey)
}
