package services

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-backend/internal/data/repos"
	types "github.com/yungbote/recipe-backend/internal/domain"
	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
)

// racingTagRepo hides rows from the first misses lookups, as if another request
// inserted them between our lookup and our insert.
type racingTagRepo struct {
	repos.TagRepo
	misses int32
	calls  atomic.Int32
}

func (r *racingTagRepo) GetByName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) (*types.Tag, error) {
	if r.calls.Add(1) <= r.misses {
		return nil, nil
	}
	return r.TagRepo.GetByName(ctx, tx, userID, name)
}

func TestNormalizeDescriptors(t *testing.T) {
	names, err := normalizeDescriptors("tags", []ChildDescriptor{{Name: " Thai "}, {Name: "Dinner"}, {Name: "Thai"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Thai", "Dinner"}, names)

	names, err = normalizeDescriptors("tags", nil)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = normalizeDescriptors("ingredient", []ChildDescriptor{{Name: "Salt"}, {Name: "\t"}})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)
	assert.Equal(t, "may not be blank", fieldErrors(t, err)["ingredient[1].name"])
}

func TestReconcileRetriesOnceAfterLostRace(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "race")
	ctx := context.Background()

	winner, err := f.tagRepo.Create(ctx, nil, []*types.Tag{{UserID: u.ID, Name: "Thai"}})
	require.NoError(t, err)

	repo := &racingTagRepo{TagRepo: f.tagRepo, misses: 1}
	var ids []uint64
	err = f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		ids, err = reconcileChildren(ctx, tx, testLogger(t), f.metrics, repos.TagRepo(repo), tagKind, u.ID, []string{"Thai"})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{winner[0].ID}, ids)
	assert.Equal(t, 1, f.metrics.get("tag/retried"))
	assert.Equal(t, int32(2), repo.calls.Load())

	tags, err := f.tagRepo.ListByUser(ctx, nil, u.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestReconcileConflictWhenRowStaysHidden(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "conflict")
	ctx := context.Background()

	_, err := f.tagRepo.Create(ctx, nil, []*types.Tag{{UserID: u.ID, Name: "Thai"}})
	require.NoError(t, err)

	repo := &racingTagRepo{TagRepo: f.tagRepo, misses: 100}
	err = f.db.Transaction(func(tx *gorm.DB) error {
		_, err := reconcileChildren(ctx, tx, testLogger(t), f.metrics, repos.TagRepo(repo), tagKind, u.ID, []string{"Thai"})
		return err
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
	assert.Equal(t, int32(2), repo.calls.Load(), "lookup is repeated exactly once")
	assert.Zero(t, f.metrics.get("tag/retried"))
}

func TestReconcileKeepsDescriptorOrder(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "order")
	ctx := context.Background()

	var ids []uint64
	err := f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		ids, err = reconcileChildren(ctx, tx, nil, nil, f.ingRepo, ingredientKind, u.ID, []string{"Salt", "Pepper", "Oil"})
		return err
	})
	require.NoError(t, err)
	require.Len(t, ids, 3)

	for i, name := range []string{"Salt", "Pepper", "Oil"} {
		row, err := f.ingRepo.GetByName(ctx, nil, u.ID, name)
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, row.ID, ids[i])
	}
}
