package services

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/adampresley/couplestory/pkg/models"
	"github.com/google/uuid"
)

//go:generate go run go.uber.org/mock/mockgen -source=ExportService.go -destination=mocks/ExportService.go -package=mocks

type ExportServicer interface {
	WriteZip(ctx context.Context, w io.Writer) (int, error)
}

type ExportServiceConfig struct {
	ConfigService ConfigServicer
	Store         ObjectStore
}

type ExportService struct {
	configService ConfigServicer
	store         ObjectStore
}

func NewExportService(config ExportServiceConfig) ExportService {
	return ExportService{
		configService: config.ConfigService,
		store:         config.Store,
	}
}

/*
WriteZip streams every stored photo of the current story into a zip archive
in display order and returns how many files were written. Photos hosted
elsewhere are skipped, as is any file that cannot be read.
*/
func (s ExportService) WriteZip(ctx context.Context, w io.Writer) (int, error) {
	var (
		err     error
		config  *models.CoupleConfig
		written int
	)

	if config, err = CurrentConfig(ctx, s.configService); err != nil {
		return 0, fmt.Errorf("error loading config for export: %w", err)
	}

	zipWriter := zip.NewWriter(w)

	if config != nil && s.store != nil {
		for index, photo := range config.Photos {
			key := KeyFromMediaURL(photo.URL)

			if key == "" {
				slog.Info("skipping external photo in export", "url", photo.URL)
				continue
			}

			name := ExportName(index, key)

			if err = s.addFile(ctx, zipWriter, key, name); err != nil {
				slog.Error("failed to add photo to export", "error", err, "key", key)
				continue
			}

			written++
		}
	}

	if err = zipWriter.Close(); err != nil {
		return written, fmt.Errorf("error closing export zip: %w", err)
	}

	return written, nil
}

func (s ExportService) addFile(ctx context.Context, zipWriter *zip.Writer, key, name string) error {
	src, err := s.store.GetObject(ctx, key)

	if err != nil {
		return fmt.Errorf("failed to get '%s' from storage: %w", key, err)
	}

	defer src.Body.Close()

	dest, err := zipWriter.Create(name)

	if err != nil {
		return fmt.Errorf("failed to create file '%s' in zip: %w", name, err)
	}

	if _, err = io.Copy(dest, src.Body); err != nil {
		return fmt.Errorf("failed to copy '%s' to zip: %w", key, err)
	}

	return nil
}

/*
ExportName numbers a file by its position in the story, e.g. 001-beach.jpg.
The timestamp and id prefix added at upload time are dropped.
*/
func ExportName(index int, key string) string {
	return fmt.Sprintf("%03d-%s", index+1, OriginalFilename(path.Base(key)))
}

/*
OriginalFilename strips the "<millis>_<uuid>_" prefix from an uploaded
object's name. Names without the prefix come back unchanged.
*/
func OriginalFilename(name string) string {
	parts := strings.SplitN(name, "_", 3)

	if len(parts) != 3 {
		return name
	}

	if _, err := strconv.ParseInt(parts[0], 10, 64); err != nil {
		return name
	}

	if _, err := uuid.Parse(parts[1]); err != nil {
		return name
	}

	return parts[2]
}
