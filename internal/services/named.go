package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-backend/internal/data/repos"
	"github.com/yungbote/recipe-backend/internal/data/repos/recipe"
	types "github.com/yungbote/recipe-backend/internal/domain"
	"github.com/yungbote/recipe-backend/internal/pkg/ctxutil"
	"github.com/yungbote/recipe-backend/internal/pkg/dbctx"
	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
)

// NamedInput is the write payload for tags and ingredients. Name is required on create
// and PUT, optional on PATCH.
type NamedInput struct {
	Name *string `json:"name"`
}

// NamedService manages a user's tags or ingredients.
type NamedService[T recipe.Named] interface {
	List(dbc dbctx.Context) ([]*T, error)
	Get(dbc dbctx.Context, id uint64) (*T, error)
	Create(dbc dbctx.Context, in NamedInput) (*T, error)
	Update(dbc dbctx.Context, id uint64, in NamedInput, partial bool) (*T, error)
	Delete(dbc dbctx.Context, id uint64) error
}

type TagService = NamedService[types.Tag]
type IngredientService = NamedService[types.Ingredient]

type namedService[T recipe.Named] struct {
	db   *gorm.DB
	log  *logger.Logger
	repo recipe.NamedRepo[T]
	kind childKind[T]
}

var tagKind = childKind[types.Tag]{
	name:  "tag",
	field: "tags",
	build: func(userID uuid.UUID, name string) *types.Tag { return &types.Tag{UserID: userID, Name: name} },
	id:    func(row *types.Tag) uint64 { return row.ID },
}

var ingredientKind = childKind[types.Ingredient]{
	name:  "ingredient",
	field: "ingredient",
	build: func(userID uuid.UUID, name string) *types.Ingredient {
		return &types.Ingredient{UserID: userID, Name: name}
	},
	id: func(row *types.Ingredient) uint64 { return row.ID },
}

func NewTagService(db *gorm.DB, log *logger.Logger, repo repos.TagRepo) TagService {
	return &namedService[types.Tag]{
		db:   db,
		log:  log.With("service", "TagService"),
		repo: repo,
		kind: tagKind,
	}
}

func NewIngredientService(db *gorm.DB, log *logger.Logger, repo repos.IngredientRepo) IngredientService {
	return &namedService[types.Ingredient]{
		db:   db,
		log:  log.With("service", "IngredientService"),
		repo: repo,
		kind: ingredientKind,
	}
}

func (s *namedService[T]) List(dbc dbctx.Context) ([]*T, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByUser(ctx, dbc.Tx, userID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind.name, err)
	}
	return rows, nil
}

func (s *namedService[T]) Get(dbc dbctx.Context, id uint64) (*T, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.GetByID(ctx, dbc.Tx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.kind.name, err)
	}
	if row == nil {
		return nil, domainerrors.ErrNotFound
	}
	return row, nil
}

func cleanName(in NamedInput, required bool) (string, bool, error) {
	if in.Name == nil {
		if required {
			return "", false, domainerrors.NewValidation("name", "is required")
		}
		return "", false, nil
	}
	name := strings.TrimSpace(*in.Name)
	if name == "" {
		return "", false, domainerrors.NewValidation("name", "may not be blank")
	}
	if len(name) > 255 {
		return "", false, domainerrors.NewValidation("name", "must not exceed 255 characters")
	}
	return name, true, nil
}

func (s *namedService[T]) Create(dbc dbctx.Context, in NamedInput) (*T, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	name, _, err := cleanName(in, true)
	if err != nil {
		return nil, err
	}

	row := s.kind.build(userID, name)
	err = inTx(s.db, dbc, func(tx *gorm.DB) error {
		existing, err := s.repo.GetByName(ctx, tx, userID, name)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", s.kind.name, err)
		}
		if existing != nil {
			return domainerrors.NewValidation("name", "already exists")
		}
		if _, err := s.repo.Create(ctx, tx, []*T{row}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domainerrors.NewValidation("name", "already exists")
			}
			return fmt.Errorf("create %s: %w", s.kind.name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *namedService[T]) Update(dbc dbctx.Context, id uint64, in NamedInput, partial bool) (*T, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	name, present, err := cleanName(in, !partial)
	if err != nil {
		return nil, err
	}

	var out *T
	err = inTx(s.db, dbc, func(tx *gorm.DB) error {
		current, err := s.repo.GetByID(ctx, tx, userID, id)
		if err != nil {
			return fmt.Errorf("get %s: %w", s.kind.name, err)
		}
		if current == nil {
			return domainerrors.ErrNotFound
		}
		if present {
			clash, err := s.repo.GetByName(ctx, tx, userID, name)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", s.kind.name, err)
			}
			if clash != nil && s.kind.id(clash) != id {
				return domainerrors.NewValidation("name", "already exists")
			}
			if _, err := s.repo.UpdateFields(ctx, tx, userID, id, map[string]interface{}{"name": name}); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return domainerrors.NewValidation("name", "already exists")
				}
				return fmt.Errorf("update %s: %w", s.kind.name, err)
			}
		}
		out, err = s.repo.GetByID(ctx, tx, userID, id)
		if err != nil {
			return fmt.Errorf("reload %s: %w", s.kind.name, err)
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

func (s *namedService[T]) Delete(dbc dbctx.Context, id uint64) error {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, dbc.Tx, userID, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.kind.name, err)
	}
	if !deleted {
		return domainerrors.ErrNotFound
	}
	return nil
}
