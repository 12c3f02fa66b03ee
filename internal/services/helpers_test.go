package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-backend/internal/data/repos"
	"github.com/yungbote/recipe-backend/internal/data/repos/testutil"
	types "github.com/yungbote/recipe-backend/internal/domain"
	"github.com/yungbote/recipe-backend/internal/pkg/ctxutil"
	"github.com/yungbote/recipe-backend/internal/pkg/dbctx"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
)

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Upload(_ context.Context, key string, file io.Reader, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return "http://media.test/" + key
}

func (f *fakeStorage) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type fakeChildMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *fakeChildMetrics) ObserveChildReconciled(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = map[string]int{}
	}
	m.outcomes[kind+"/"+outcome]++
}

func (m *fakeChildMetrics) get(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[key]
}

type fixture struct {
	db       *gorm.DB
	storage  *fakeStorage
	metrics  *fakeChildMetrics
	recipes  RecipeService
	tags     TagService
	ings     IngredientService
	users    UserService
	auth     AuthService
	tagRepo  repos.TagRepo
	ingRepo  repos.IngredientRepo
	recRepo  repos.RecipeRepo
	userRepo repos.UserRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	f := &fixture{
		db:       db,
		storage:  newFakeStorage(),
		metrics:  &fakeChildMetrics{},
		tagRepo:  repos.NewTagRepo(db, log),
		ingRepo:  repos.NewIngredientRepo(db, log),
		recRepo:  repos.NewRecipeRepo(db, log),
		userRepo: repos.NewUserRepo(db, log),
	}
	f.recipes = NewRecipeService(RecipeServiceDeps{
		DB:             db,
		Log:            log,
		RecipeRepo:     f.recRepo,
		TagRepo:        f.tagRepo,
		IngredientRepo: f.ingRepo,
		Storage:        f.storage,
		ChildMetrics:   f.metrics,
	})
	f.tags = NewTagService(db, log, f.tagRepo)
	f.ings = NewIngredientService(db, log, f.ingRepo)
	f.users = NewUserService(db, log, f.userRepo)
	f.auth = NewAuthService(db, log, f.userRepo, NewMemoryRevocationStore(), "test-secret", time.Hour)
	return f
}

// as returns a dbctx for requests made by userID.
func as(userID uuid.UUID) dbctx.Context {
	return dbctx.Context{Ctx: ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})}
}

// user seeds an account with a unique address derived from name.
func (f *fixture) user(t *testing.T, name string) *types.User {
	t.Helper()
	return testutil.SeedUser(t, context.Background(), f.db, uniqueEmail(name))
}

func descriptors(names ...string) *[]ChildDescriptor {
	out := make([]ChildDescriptor, 0, len(names))
	for _, n := range names {
		out = append(out, ChildDescriptor{Name: n})
	}
	return &out
}

func tagNames(r *types.Recipe) []string {
	out := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		out = append(out, t.Name)
	}
	return out
}

func ingredientNames(r *types.Recipe) []string {
	out := make([]string, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		out = append(out, i.Name)
	}
	return out
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(2, 2, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}

func dbctxWithoutPrincipal() dbctx.Context {
	return dbctx.Context{Ctx: context.Background()}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return testutil.Logger(t)
}

func dbctxFrom(ctx context.Context) dbctx.Context {
	return dbctx.Context{Ctx: ctx}
}
