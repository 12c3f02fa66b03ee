package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/recipe-backend/internal/data/repos"
	types "github.com/yungbote/recipe-backend/internal/domain"
	"github.com/yungbote/recipe-backend/internal/pkg/ctxutil"
	"github.com/yungbote/recipe-backend/internal/pkg/dbctx"
	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
	"github.com/yungbote/recipe-backend/internal/pkg/validation"
)

// UpdateUserInput carries the account fields a user may change. Nil fields are left
// untouched on PATCH and required on PUT.
type UpdateUserInput struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=5,max=128"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
}

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	UpdateMe(dbc dbctx.Context, in UpdateUserInput, partial bool) (*types.User, error)
}

type userService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	validator *validation.Validator
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:        db,
		log:       serviceLog,
		userRepo:  userRepo,
		validator: validation.New(),
	}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	user, err := us.userRepo.GetByID(ctx, dbc.Tx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domainerrors.ErrUnauthorized
	}
	return user, nil
}

func (us *userService) UpdateMe(dbc dbctx.Context, in UpdateUserInput, partial bool) (*types.User, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	userID, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		in.Email = &e
	}
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		in.Name = &n
	}
	verr := &domainerrors.ValidationError{}
	if !partial {
		if in.Email == nil || *in.Email == "" {
			verr.Add("email", "is required")
		}
		if in.Password == nil || *in.Password == "" {
			verr.Add("password", "is required")
		}
		if in.Name == nil {
			verr.Add("name", "is required")
		}
	}
	if in.Email != nil && *in.Email == "" {
		verr.Add("email", "is required")
	}
	if in.Password != nil && len(*in.Password) < MinPasswordLength {
		verr.Add("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if err := us.validator.Validate(in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Password != nil {
		hashed, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}

	var out *types.User
	err = inTx(us.db, dbc, func(tx *gorm.DB) error {
		if email, ok := updates["email"].(string); ok {
			current, err := us.userRepo.GetByEmail(ctx, tx, email)
			if err != nil {
				return fmt.Errorf("check email: %w", err)
			}
			if current != nil && current.ID != userID {
				return domainerrors.NewValidation("email", "user with this email already exists")
			}
		}
		if err := us.userRepo.UpdateFields(ctx, tx, userID, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domainerrors.NewValidation("email", "user with this email already exists")
			}
			return fmt.Errorf("update user: %w", err)
		}
		user, err := us.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("reload user: %w", err)
		}
		if user == nil {
			return domainerrors.ErrUnauthorized
		}
		out = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
