package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/recipe-backend/internal/clients/redis"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
	"github.com/yungbote/recipe-backend/internal/services"
)

type Clients struct {
	ImageStore  ImageStore
	MediaRoot   string
	Revocations services.RevocationStore
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var revocations services.RevocationStore
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		store, err := redis.NewRevocationStore(log, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis revocation store: %w", err)
		}
		revocations = store
	} else {
		log.Warn("REDIS_ADDR not set, token revocations are kept in memory")
		revocations = services.NewMemoryRevocationStore()
	}

	// Images
	imageStore, mediaRoot, err := resolveImageStore(log, cfg)
	if err != nil {
		_ = revocations.Close()
		return Clients{}, err
	}

	return Clients{
		ImageStore:  imageStore,
		MediaRoot:   mediaRoot,
		Revocations: revocations,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.ImageStore != nil {
		_ = c.ImageStore.Close()
	}
	if c.Revocations != nil {
		_ = c.Revocations.Close()
	}
}
