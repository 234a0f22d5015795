package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/adampresley/couplestory/pkg/models"
	"github.com/adampresley/couplestory/pkg/ttlcache"
	"github.com/jonboulle/clockwork"
)

type CachedConfigServiceConfig struct {
	Clock         clockwork.Clock
	ConfigService ConfigServicer
	TTL           time.Duration
}

/*
CachedConfigService keeps the result of List for a while. Writes go through
to the wrapped service and replace the cached value with what was written.
*/
type CachedConfigService struct {
	configService ConfigServicer
	cache         *ttlcache.Cache[[]models.CoupleConfig]
}

func NewCachedConfigService(config CachedConfigServiceConfig) *CachedConfigService {
	return &CachedConfigService{
		configService: config.ConfigService,
		cache: ttlcache.New[[]models.CoupleConfig](ttlcache.Config{
			Clock: config.Clock,
			TTL:   config.TTL,
		}),
	}
}

func (s *CachedConfigService) List(ctx context.Context) ([]models.CoupleConfig, error) {
	if cached, ok := s.cache.Get(); ok {
		return cached, nil
	}

	result, err := s.configService.List(ctx)

	if err != nil {
		return result, err
	}

	s.cache.Set(result)
	return result, nil
}

func (s *CachedConfigService) Get(ctx context.Context, id uint) (*models.CoupleConfig, error) {
	return s.configService.Get(ctx, id)
}

func (s *CachedConfigService) Create(ctx context.Context, data models.CoupleConfigRequest) (*models.CoupleConfig, error) {
	result, err := s.configService.Create(ctx, data)

	if err != nil {
		return nil, err
	}

	s.refresh(ctx)
	return result, nil
}

func (s *CachedConfigService) Update(ctx context.Context, id uint, data models.CoupleConfigRequest) (*models.CoupleConfig, error) {
	result, err := s.configService.Update(ctx, id, data)

	if err != nil {
		return nil, err
	}

	s.refresh(ctx)
	return result, nil
}

func (s *CachedConfigService) ClearCache() {
	s.cache.Clear()
	slog.Debug("config cache cleared")
}

/*
refresh reloads the list after a write. The written row is not necessarily
the one List returns, so the cache is rebuilt rather than patched.
*/
func (s *CachedConfigService) refresh(ctx context.Context) {
	s.cache.Clear()

	result, err := s.configService.List(ctx)

	if err != nil {
		slog.Error("error refreshing config cache", "error", err)
		return
	}

	s.cache.Set(result)
}
