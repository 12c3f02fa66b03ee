package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-backend/internal/data/repos/recipe"
	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
)

const (
	outcomeCreated = "created"
	outcomeReused  = "reused"
	outcomeRetried = "retried"
)

// ChildDescriptor names a tag or ingredient inside a recipe payload.
type ChildDescriptor struct {
	Name string `json:"name"`
}

// childKind describes how to build and identify one kind of owned child row.
type childKind[T recipe.Named] struct {
	name  string
	field string
	build func(userID uuid.UUID, name string) *T
	id    func(row *T) uint64
}

// normalizeDescriptors trims names, rejects blanks and collapses duplicates while
// keeping first-seen order.
func normalizeDescriptors(field string, in []ChildDescriptor) ([]string, error) {
	verr := &domainerrors.ValidationError{}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for i, d := range in {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			verr.Add(fmt.Sprintf("%s[%d].name", field, i), "may not be blank")
			continue
		}
		if len(name) > 255 {
			verr.Add(fmt.Sprintf("%s[%d].name", field, i), "must not exceed 255 characters")
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// reconcileChildren resolves each name to a row owned by userID, creating missing rows.
// An insert that loses a race on the (user_id, name) index is rolled back to its
// savepoint and the lookup is repeated exactly once.
func reconcileChildren[T recipe.Named](
	ctx context.Context,
	tx *gorm.DB,
	log *logger.Logger,
	metrics ChildMetrics,
	repo recipe.NamedRepo[T],
	kind childKind[T],
	userID uuid.UUID,
	names []string,
) ([]uint64, error) {
	ids := make([]uint64, 0, len(names))
	for _, name := range names {
		row, outcome, err := getOrCreateChild(ctx, tx, repo, kind, userID, name)
		if err != nil {
			return nil, err
		}
		if outcome == outcomeRetried && log != nil {
			log.Debug("Child insert lost a race, reused concurrent row", "kind", kind.name, "name", name)
		}
		if metrics != nil {
			metrics.ObserveChildReconciled(kind.name, outcome)
		}
		ids = append(ids, kind.id(row))
	}
	return ids, nil
}

func getOrCreateChild[T recipe.Named](
	ctx context.Context,
	tx *gorm.DB,
	repo recipe.NamedRepo[T],
	kind childKind[T],
	userID uuid.UUID,
	name string,
) (*T, string, error) {
	existing, err := repo.GetByName(ctx, tx, userID, name)
	if err != nil {
		return nil, "", fmt.Errorf("lookup %s %q: %w", kind.name, name, err)
	}
	if existing != nil {
		return existing, outcomeReused, nil
	}

	row := kind.build(userID, name)
	err = tx.Transaction(func(sp *gorm.DB) error {
		_, err := repo.Create(ctx, sp, []*T{row})
		return err
	})
	if err == nil {
		return row, outcomeCreated, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, "", fmt.Errorf("create %s %q: %w", kind.name, name, err)
	}

	existing, err = repo.GetByName(ctx, tx, userID, name)
	if err != nil {
		return nil, "", fmt.Errorf("lookup %s %q after conflict: %w", kind.name, name, err)
	}
	if existing == nil {
		return nil, "", fmt.Errorf("%w: %s %q", domainerrors.ErrConflict, kind.name, name)
	}
	return existing, outcomeRetried, nil
}
