package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-backend/internal/pkg/ctxutil"
	"github.com/yungbote/recipe-backend/internal/pkg/dbctx"
	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
)

// ChildMetrics receives one observation per resolved tag or ingredient descriptor.
type ChildMetrics interface {
	ObserveChildReconciled(kind, outcome string)
}

// ImageMetrics receives recipe image upload results.
type ImageMetrics interface {
	ObserveImageUpload(result string)
}

// principal returns the authenticated user id from the request context.
func principal(ctx context.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, domainerrors.ErrUnauthorized
	}
	return rd.UserID, nil
}

// inTx runs fn in a transaction, nested as a savepoint when dbc already carries one.
func inTx(db *gorm.DB, dbc dbctx.Context, fn func(tx *gorm.DB) error) error {
	base := dbc.Tx
	if base == nil {
		base = db
	}
	return base.WithContext(ctxutil.Default(dbc.Ctx)).Transaction(fn)
}

func hashPassword(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// normalizeEmail trims the address and lowercases its domain part.
func normalizeEmail(raw string) string {
	email := strings.TrimSpace(raw)
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	return local + "@" + strings.ToLower(domain)
}

// mergeValidation copies field messages from err into dst when err is a validation error.
func mergeValidation(dst *domainerrors.ValidationError, err error) {
	var verr *domainerrors.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for k, v := range verr.Fields {
		dst.Add(k, v)
	}
}
