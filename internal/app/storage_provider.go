package app

import (
	"errors"
	"fmt"

	"github.com/yungbote/recipe-backend/internal/platform/gcp"
	"github.com/yungbote/recipe-backend/internal/platform/localstore"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
	"github.com/yungbote/recipe-backend/internal/services"
)

var newBucketService = gcp.NewBucketService

// ImageStore is the storage backend behind recipe images.
type ImageStore interface {
	services.ImageStorage
	Close() error
}

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveImageStore picks the image backend from OBJECT_STORAGE_MODE. "local" writes under
// MediaRoot and is served by the router; the gcs modes go through the bucket service.
// The returned media root is empty unless the router must serve files itself.
func resolveImageStore(log *logger.Logger, cfg Config) (ImageStore, string, error) {
	if cfg.LocalStorage() {
		store, err := localstore.New(log, cfg.MediaRoot, cfg.MediaBaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("init local media store: %w", err)
		}
		log.Info("Selecting object storage provider", "mode", StorageModeLocal, "media_root", store.Root())
		return store, store.Root(), nil
	}

	target, err := cfg.StorageTarget()
	if err != nil {
		classified := classifyStorageProviderBootstrapError(target, err)
		log.Error(
			"Object storage provider selection failed",
			"mode", target.Mode,
			"emulator_host", target.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, "", classified
	}

	log.Info("Selecting object storage provider", "mode", target.Mode, "emulator_host", target.EmulatorHost)

	bucket, err := newBucketService(log, gcp.BucketConfig{
		Target:        target,
		Name:          cfg.RecipeImageBucket,
		CDNDomain:     cfg.RecipeImageCDNDomain,
		PublicBaseURL: cfg.ObjectStoragePublicBaseURL,
		Credentials:   cfg.GoogleCredentials,
	})
	if err != nil {
		classified := classifyStorageProviderBootstrapError(target, err)
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", target.Mode,
			"emulator_host", target.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, "", classified
	}
	return bucket, "", nil
}

func classifyStorageProviderBootstrapError(target gcp.Target, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	switch {
	case errors.Is(err, gcp.ErrUnknownMode):
		code = StorageProviderBootstrapErrorInvalidMode
	case errors.Is(err, gcp.ErrEmulatorHostRequired):
		code = StorageProviderBootstrapErrorMissingEmulatorHost
	case errors.Is(err, gcp.ErrEmulatorHostInvalid):
		code = StorageProviderBootstrapErrorInvalidEmulatorHost
	}
	return &StorageProviderBootstrapError{
		Code:         code,
		Mode:         string(target.Mode),
		EmulatorHost: target.EmulatorHost,
		Cause:        err,
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
