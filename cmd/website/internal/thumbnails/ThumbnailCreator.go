package thumbnails

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"path"
	"sync/atomic"
	"time"

	"github.com/adampresley/couplestory/pkg/services"
	"github.com/alitto/pond/v2"
	"github.com/go-co-op/gocron/v2"
	"github.com/nfnt/resize"
)

const (
	MaxSize        uint = 400
	JpegQuality         = 85
	DefaultWorkers      = 10
)

var (
	thumbnailSourceExtensions = []string{".jpg", ".jpeg", ".png"}
)

type ThumbnailCreator interface {
	CreateThumbnails() int
}

type ThumbnailCreatorConfig struct {
	MaxWorkers  int
	OnCreated   func()
	ShutdownCtx context.Context
	Store       services.ObjectStore
}

/*
ThumbnailCreatorService writes a small JPEG next to every uploaded photo so
the dashboard does not have to load full size images.
*/
type ThumbnailCreatorService struct {
	maxWorkers  int
	onCreated   func()
	shutdownCtx context.Context
	store       services.ObjectStore
}

func NewThumbnailCreatorService(config ThumbnailCreatorConfig) ThumbnailCreatorService {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultWorkers
	}

	if config.ShutdownCtx == nil {
		config.ShutdownCtx = context.Background()
	}

	return ThumbnailCreatorService{
		maxWorkers:  config.MaxWorkers,
		onCreated:   config.OnCreated,
		shutdownCtx: config.ShutdownCtx,
		store:       config.Store,
	}
}

/*
Schedule registers the thumbnail pass with s. Runs never overlap and the
first one starts right away.
*/
func (c ThumbnailCreatorService) Schedule(s gocron.Scheduler, interval time.Duration) (gocron.Job, error) {
	return s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			created := c.CreateThumbnails()
			slog.Info("thumbnail creator finished", "created", created)
		}),
		gocron.WithName("thumbnails"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
}

/*
CreateThumbnails makes a pass over every uploaded photo and returns how many
thumbnails were written. A thumbnail is rebuilt when it is missing or older
than its original.
*/
func (c ThumbnailCreatorService) CreateThumbnails() int {
	var (
		err       error
		originals []services.ObjectInfo
		created   atomic.Int32
	)

	slog.Info("starting thumbnail creation...")

	if err = c.store.EnsureBucket(c.shutdownCtx); err != nil {
		slog.Error("error ensuring bucket exists. skipping thumbnails", "error", err)
		return 0
	}

	prefix := path.Join(services.PhotosFolder, services.UploadsFolder) + "/"

	if originals, err = c.store.ListObjects(c.shutdownCtx, prefix, thumbnailSourceExtensions...); err != nil {
		slog.Error("error listing uploaded photos", "prefix", prefix, "error", err)
		return 0
	}

	slog.Info("checking for photos without thumbnails...", "numImages", len(originals))

	pool := pond.NewPool(c.maxWorkers, pond.WithContext(c.shutdownCtx))

	for _, original := range originals {
		thumbnailKey := services.ThumbnailKey(original.Key)

		if c.doesThumbnailExist(original, thumbnailKey) {
			continue
		}

		pool.Submit(func() {
			slog.Info("creating thumbnail...", "key", original.Key)

			if err := c.createThumbnail(original.Key, thumbnailKey); err != nil {
				slog.Error("error creating thumbnail", "key", original.Key, "error", err)
				return
			}

			created.Add(1)

			if c.onCreated != nil {
				c.onCreated()
			}
		})
	}

	_ = pool.Stop().Wait()
	return int(created.Load())
}

func (c ThumbnailCreatorService) doesThumbnailExist(original services.ObjectInfo, thumbnailKey string) bool {
	var (
		err  error
		stat *services.ObjectInfo
	)

	if stat, err = c.store.StatObject(c.shutdownCtx, thumbnailKey); err != nil {
		slog.Error("error retrieving metadata for thumbnail", "key", thumbnailKey, "error", err)
		return false
	}

	if stat == nil {
		return false
	}

	return !stat.LastModified.Before(original.LastModified)
}

func (c ThumbnailCreatorService) createThumbnail(originalKey, thumbnailKey string) error {
	var (
		err      error
		img      image.Image
		original *services.StoredObject
		buf      bytes.Buffer
	)

	if original, err = c.store.GetObject(c.shutdownCtx, originalKey); err != nil {
		return fmt.Errorf("error retrieving original image %s: %w", originalKey, err)
	}

	defer original.Body.Close()

	if img, err = ResizeReader(original.Body, MaxSize); err != nil {
		return fmt.Errorf("error resizing image: %w", err)
	}

	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JpegQuality}); err != nil {
		return fmt.Errorf("error encoding image for thumbnail: %w", err)
	}

	if err = c.store.PutObject(c.shutdownCtx, thumbnailKey, "image/jpeg", &buf); err != nil {
		return fmt.Errorf("error uploading thumbnail: %w", err)
	}

	return nil
}

func ResizeReader(r io.Reader, maxSize uint) (image.Image, error) {
	var (
		err error
		img image.Image
	)

	if img, _, err = image.Decode(r); err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	return Resize(img, maxSize), nil
}

/*
Resize scales img so its longest edge is maxSize, keeping the aspect ratio.
*/
func Resize(img image.Image, maxSize uint) image.Image {
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	var newWidth, newHeight uint

	if width > height {
		newWidth = maxSize
		newHeight = uint(float64(height) * (float64(maxSize) / float64(width)))
	} else {
		newHeight = maxSize
		newWidth = uint(float64(width) * (float64(maxSize) / float64(height)))
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}
