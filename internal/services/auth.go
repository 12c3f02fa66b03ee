package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-backend/internal/data/repos"
	types "github.com/yungbote/recipe-backend/internal/domain"
	"github.com/yungbote/recipe-backend/internal/pkg/ctxutil"
	"github.com/yungbote/recipe-backend/internal/pkg/dbctx"
	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
	"github.com/yungbote/recipe-backend/internal/pkg/validation"
)

const MinPasswordLength = 5

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=5,max=128"`
	Name     string `json:"name" validate:"max=255"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthService interface {
	RegisterUser(dbc dbctx.Context, in RegisterInput) (*types.User, error)
	LoginUser(ctx context.Context, in LoginInput) (string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	revocations  RevocationStore
	validator    *validation.Validator
	jwtSecretKey string
	accessTTL    time.Duration
	now          func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	revocations RevocationStore,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if revocations == nil {
		revocations = NewMemoryRevocationStore()
	}
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		revocations:  revocations,
		validator:    validation.New(),
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		now:          time.Now,
	}
}

func (as *authService) RegisterUser(dbc dbctx.Context, in RegisterInput) (*types.User, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := as.validator.Validate(in); err != nil {
		return nil, err
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &types.User{
		ID:       uuid.New(),
		Email:    in.Email,
		Password: hashed,
		Name:     in.Name,
	}
	err = inTx(as.db, dbc, func(tx *gorm.DB) error {
		exists, err := as.userRepo.EmailExists(ctx, tx, in.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return domainerrors.NewValidation("email", "user with this email already exists")
		}
		if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domainerrors.NewValidation("email", "user with this email already exists")
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, in LoginInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := as.validator.Validate(in); err != nil {
		return "", err
	}
	user, err := as.userRepo.GetByEmail(ctx, nil, in.Email)
	if err != nil {
		return "", fmt.Errorf("get user by email: %w", err)
	}
	badCreds := domainerrors.NewValidation("non_field_errors", "unable to authenticate with provided credentials")
	if user == nil {
		return "", badCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return "", badCreds
	}
	return as.generateAccessToken(user)
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenID == "" {
		return domainerrors.ErrUnauthorized
	}
	ttl := rd.ExpiresAt.Sub(as.now())
	if err := as.revocations.Revoke(ctx, rd.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	as.log.Debug("Token revoked", "user_id", rd.UserID, "jti", rd.TokenID)
	return nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// SetContextFromToken validates the bearer token and attaches the principal. Every
// failure maps to ErrUnauthorized so callers can answer with a generic 401.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, domainerrors.ErrUnauthorized
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, fmt.Errorf("%w: parse token: %v", domainerrors.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid || claims.ExpiresAt == nil {
		return ctx, fmt.Errorf("%w: invalid token", domainerrors.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid subject", domainerrors.ErrUnauthorized)
	}
	revoked, err := as.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return ctx, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return ctx, fmt.Errorf("%w: token revoked", domainerrors.ErrUnauthorized)
	}
	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return ctx, fmt.Errorf("load token user: %w", err)
	}
	if user == nil {
		return ctx, fmt.Errorf("%w: unknown user", domainerrors.ErrUnauthorized)
	}
	rd := &ctxutil.RequestData{
		UserID:    userID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
