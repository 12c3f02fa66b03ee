package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/yungbote/recipe-backend/internal/platform/gcp"
	"github.com/yungbote/recipe-backend/internal/platform/localstore"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
)

func testLog(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want StorageProviderBootstrapErrorCode
	}{
		{"invalid mode", fmt.Errorf("%w \"s3\"", gcp.ErrUnknownMode), StorageProviderBootstrapErrorInvalidMode},
		{"missing emulator host", gcp.ErrEmulatorHostRequired, StorageProviderBootstrapErrorMissingEmulatorHost},
		{"invalid emulator host", fmt.Errorf("%w: got \"x\"", gcp.ErrEmulatorHostInvalid), StorageProviderBootstrapErrorInvalidEmulatorHost},
		{"connect failed", errors.New("dial tcp: connection refused"), StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStorageProviderBootstrapError(gcp.Target{Mode: gcp.ModeGCS}, tc.err)
			var got *StorageProviderBootstrapError
			if !errors.As(err, &got) {
				t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
			}
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("cause not wrapped")
			}
		})
	}
}

func TestResolveImageStoreLocal(t *testing.T) {
	root := t.TempDir()
	store, mediaRoot, err := resolveImageStore(testLog(t), Config{
		ObjectStorageMode: StorageModeLocal,
		MediaRoot:         root,
		MediaBaseURL:      "http://localhost:8080/media",
	})
	if err != nil {
		t.Fatalf("resolveImageStore: %v", err)
	}
	if _, ok := store.(*localstore.Store); !ok {
		t.Fatalf("expected local store, got %T", store)
	}
	if mediaRoot == "" {
		t.Fatalf("local mode must report a media root")
	}
	if got := store.PublicURL("recipes/1/a.png"); got != "http://localhost:8080/media/recipes/1/a.png" {
		t.Fatalf("public url: %q", got)
	}
}

func TestResolveImageStoreInvalidMode(t *testing.T) {
	_, _, err := resolveImageStore(testLog(t), Config{ObjectStorageMode: "invalid"})
	if storageProviderBootstrapErrorCode(err) != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("expected invalid_mode, got %v", err)
	}
}

func TestResolveImageStoreEmulatorHostErrors(t *testing.T) {
	_, _, err := resolveImageStore(testLog(t), Config{ObjectStorageMode: string(gcp.ModeEmulator)})
	if storageProviderBootstrapErrorCode(err) != StorageProviderBootstrapErrorMissingEmulatorHost {
		t.Fatalf("expected missing_emulator_host, got %v", err)
	}

	_, _, err = resolveImageStore(testLog(t), Config{
		ObjectStorageMode:   string(gcp.ModeEmulator),
		StorageEmulatorHost: "not-a-url",
	})
	if storageProviderBootstrapErrorCode(err) != StorageProviderBootstrapErrorInvalidEmulatorHost {
		t.Fatalf("expected invalid_emulator_host, got %v", err)
	}
}

func TestResolveImageStoreGCSMode(t *testing.T) {
	orig := newBucketService
	t.Cleanup(func() { newBucketService = orig })

	var captured gcp.BucketConfig
	expected := &testBucketService{}
	newBucketService = func(_ *logger.Logger, cfg gcp.BucketConfig) (gcp.BucketService, error) {
		captured = cfg
		return expected, nil
	}

	got, mediaRoot, err := resolveImageStore(testLog(t), Config{
		ObjectStorageMode:   string(gcp.ModeEmulator),
		StorageEmulatorHost: "http://fake-gcs:4443",
		RecipeImageBucket:   "recipe-images",
	})
	if err != nil {
		t.Fatalf("resolveImageStore: %v", err)
	}
	if got != expected {
		t.Fatalf("expected stub bucket instance")
	}
	if mediaRoot != "" {
		t.Fatalf("bucket mode must not serve media locally")
	}
	if captured.Target.Mode != gcp.ModeEmulator || captured.Name != "recipe-images" {
		t.Fatalf("unexpected bucket config: %+v", captured)
	}
}

func TestResolveImageStoreConnectFailure(t *testing.T) {
	orig := newBucketService
	t.Cleanup(func() { newBucketService = orig })
	newBucketService = func(_ *logger.Logger, _ gcp.BucketConfig) (gcp.BucketService, error) {
		return nil, errors.New("dial tcp: connection refused")
	}

	_, _, err := resolveImageStore(testLog(t), Config{ObjectStorageMode: string(gcp.ModeGCS)})
	if storageProviderBootstrapErrorCode(err) != StorageProviderBootstrapErrorConnectFailed {
		t.Fatalf("expected connect_failed, got %v", err)
	}
}

type testBucketService struct{}

func (t *testBucketService) Upload(context.Context, string, io.Reader, string) error { return nil }
func (t *testBucketService) Delete(context.Context, string) error                    { return nil }
func (t *testBucketService) PublicURL(key string) string                             { return "https://cdn.test/" + key }
func (t *testBucketService) Close() error                                            { return nil }
