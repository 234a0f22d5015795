package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/adampresley/couplestory/pkg/models"
	"github.com/jonboulle/clockwork"
)

type CleanupServiceConfig struct {
	Clock          clockwork.Clock
	ConfigService  ConfigServicer
	ExpirationDays int
	OnRemoved      func(count int)
	PhotoService   PhotoServicer
	Store          ObjectStore
}

type CleanupServicer interface {
	Cleanup(ctx context.Context) (int, error)
	StartCleanupRoutine(interval time.Duration)
	StopCleanupRoutine()
}

/*
CleanupService removes uploads that never made it into the story. Anything
under the upload and thumbnail folders that is older than the expiration and
not referenced by the current configuration or the photo registry is deleted.
*/
type CleanupService struct {
	clock          clockwork.Clock
	configService  ConfigServicer
	expirationDays int
	onRemoved      func(count int)
	photoService   PhotoServicer
	store          ObjectStore

	mu            sync.Mutex
	cleanupTicker clockwork.Ticker
	stopCleanup   chan struct{}
	wg            sync.WaitGroup
}

func NewCleanupService(config CleanupServiceConfig) *CleanupService {
	if config.ExpirationDays <= 0 {
		config.ExpirationDays = 7
	}

	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	return &CleanupService{
		clock:          config.Clock,
		configService:  config.ConfigService,
		expirationDays: config.ExpirationDays,
		onRemoved:      config.OnRemoved,
		photoService:   config.PhotoService,
		store:          config.Store,
	}
}

func (s *CleanupService) StartCleanupRoutine(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cleanupTicker != nil {
		return
	}

	s.stopCleanup = make(chan struct{})
	s.cleanupTicker = s.clock.NewTicker(interval)

	ticker := s.cleanupTicker
	stop := s.stopCleanup

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		for {
			select {
			case <-ticker.Chan():
				removed, err := s.Cleanup(context.Background())

				if err != nil {
					slog.Error("upload cleanup failed", "error", err)
					continue
				}

				if s.onRemoved != nil && removed > 0 {
					s.onRemoved(removed)
				}

			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()

	slog.Info("upload cleanup routine started", "interval", interval)
}

func (s *CleanupService) StopCleanupRoutine() {
	s.mu.Lock()

	if s.cleanupTicker == nil {
		s.mu.Unlock()
		return
	}

	close(s.stopCleanup)
	s.cleanupTicker = nil
	s.mu.Unlock()

	s.wg.Wait()
	slog.Info("upload cleanup routine stopped")
}

/*
Cleanup runs one pass and returns how many objects were removed. A failure
to read the current configuration or the photo registry aborts the pass so
nothing in use is deleted.
*/
func (s *CleanupService) Cleanup(ctx context.Context) (int, error) {
	var (
		err          error
		config       *models.CoupleConfig
		objects      []ObjectInfo
		registered   []models.Photo
		removedCount int
	)

	l := slog.With("function", "Cleanup")
	l.Info("starting cleanup of unreferenced uploads")

	cutoffTime := s.clock.Now().AddDate(0, 0, -s.expirationDays)

	if config, err = CurrentConfig(ctx, s.configService); err != nil {
		return 0, err
	}

	if s.photoService != nil {
		if registered, err = s.photoService.List(ctx, nil); err != nil {
			return 0, fmt.Errorf("error listing registered photos: %w", err)
		}
	}

	referenced := referencedKeys(config, registered)

	prefixes := []string{
		path.Join(PhotosFolder, UploadsFolder) + "/",
		path.Join(MusicFolder, UploadsFolder) + "/",
		path.Join(PhotosFolder, ThumbnailsFolder) + "/",
	}

	for _, prefix := range prefixes {
		if objects, err = s.store.ListObjects(ctx, prefix); err != nil {
			l.Error("failed to list storage folder", "error", err, "prefix", prefix)
			continue
		}

		expired := []string{}

		for _, object := range objects {
			if _, ok := referenced[object.Key]; ok {
				continue
			}

			if object.LastModified.Before(cutoffTime) {
				expired = append(expired, object.Key)
			}
		}

		if len(expired) == 0 {
			continue
		}

		if err = s.store.DeleteObjects(ctx, expired); err != nil {
			l.Error("failed to remove expired uploads", "error", err, "prefix", prefix, "count", len(expired))
			continue
		}

		l.Info("removed expired uploads", "prefix", prefix, "count", len(expired))
		removedCount += len(expired)
	}

	l.Info("completed cleanup of unreferenced uploads", "removed", removedCount)
	return removedCount, nil
}

/*
referencedKeys collects every storage key the configuration or a registered
photo points at. A photo also keeps its thumbnail alive.
*/
func referencedKeys(config *models.CoupleConfig, registered []models.Photo) map[string]struct{} {
	result := map[string]struct{}{}

	addKey := func(key string) {
		if key == "" {
			return
		}

		result[key] = struct{}{}

		if IsImage(key) {
			result[ThumbnailKey(key)] = struct{}{}
		}
	}

	add := func(url string) {
		addKey(KeyFromMediaURL(url))
	}

	for _, photo := range registered {
		add(photo.URL)
		addKey(strings.TrimPrefix(photo.FilePath, "/"))
	}

	if config == nil {
		return result
	}

	for _, photo := range config.Photos {
		add(photo.URL)
	}

	add(config.BackgroundMusicURL)
	return result
}
