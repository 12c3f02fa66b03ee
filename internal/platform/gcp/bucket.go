package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/recipe-backend/internal/pkg/logger"
)

// BucketService stores recipe images in a single GCS bucket.
type BucketService interface {
	Upload(ctx context.Context, key string, file io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	Close() error
}

type BucketConfig struct {
	Target        Target
	Name          string
	CDNDomain     string
	PublicBaseURL string
	// Credentials holds inline service account JSON or a path to a credentials file.
	Credentials string
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	mode          Mode
	emulatorHost  string
	name          string
	cdnDomain     string
	publicBaseURL string
}

func NewBucketService(log *logger.Logger, cfg BucketConfig) (BucketService, error) {
	if err := cfg.Target.Validate(); err != nil {
		return nil, fmt.Errorf("validate storage target: %w", err)
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("missing RECIPE_IMAGE_GCS_BUCKET_NAME")
	}
	serviceLog := log.With("service", "BucketService")

	publicBaseURL, publicBaseSource, err := resolvePublicBaseURL(cfg.Target, cfg.PublicBaseURL)
	if err != nil {
		return nil, err
	}

	stClient, err := newStorageClient(context.Background(), cfg.Target, cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog.Info(
		"Object storage initialized",
		"mode", cfg.Target.Mode,
		"emulator_host", cfg.Target.EmulatorHost,
		"public_base_source", publicBaseSource,
		"bucket", cfg.Name,
	)

	return &bucketService{
		log:           serviceLog,
		storageClient: stClient,
		mode:          cfg.Target.Mode,
		emulatorHost:  cfg.Target.EmulatorHost,
		name:          cfg.Name,
		cdnDomain:     strings.TrimSpace(cfg.CDNDomain),
		publicBaseURL: publicBaseURL,
	}, nil
}

func newStorageClient(ctx context.Context, target Target, creds string) (*storage.Client, error) {
	if target.Emulated() {
		// The storage client only honors the emulator through this variable.
		_ = os.Setenv("STORAGE_EMULATOR_HOST", target.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(clientOptions(creds), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func clientOptions(creds string) []option.ClientOption {
	creds = strings.TrimSpace(creds)
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func resolvePublicBaseURL(target Target, raw string) (baseURL string, source string, err error) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		parsed, parseErr := url.Parse(raw)
		if parseErr != nil || strings.TrimSpace(parsed.Scheme) == "" || strings.TrimSpace(parsed.Host) == "" {
			return "", "", fmt.Errorf(
				"invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443",
				raw,
			)
		}
		return strings.TrimRight(raw, "/"), "object_storage_public_base_url", nil
	}
	if target.Emulated() {
		return target.EmulatorHost, "storage_emulator_host", nil
	}
	return "", "gcs_default", nil
}

func (bs *bucketService) Upload(ctx context.Context, key string, file io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.name).Object(key).NewWriter(ctx)
	if contentType == "" {
		contentType = ContentTypeForKey(key)
	}
	w.ContentType = contentType
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

// Delete treats a missing object as already deleted.
func (bs *bucketService) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(bs.name).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bs.name, err)
	}
	return nil
}

func (bs *bucketService) PublicURL(key string) string {
	return publicURL(bs.mode, bs.name, bs.cdnDomain, bs.publicBaseURL, bs.emulatorHost, key)
}

func (bs *bucketService) Close() error {
	return bs.storageClient.Close()
}

func publicURL(mode Mode, bucket, cdnDomain, publicBaseURL, emulatorHost, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", cdnDomain, key)
	}
	if mode == ModeEmulator {
		base := publicBaseURL
		if base == "" {
			base = emulatorHost
		}
		if base != "" {
			return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(bucket), url.PathEscape(key))
		}
	}
	if publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", publicBaseURL, bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
