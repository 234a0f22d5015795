package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/adampresley/couplestory/pkg/database"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/rfberaldo/sqlz"
)

//go:generate go run go.uber.org/mock/mockgen -source=PhotoService.go -destination=mocks/PhotoService.go -package=mocks

var (
	ErrPhotoFieldsRequired = errors.New("public_url and file_path are required")
)

type PhotoServicer interface {
	List(ctx context.Context, configID *uint) ([]models.Photo, error)
	Get(ctx context.Context, id uint) (*models.Photo, error)
	Register(ctx context.Context, request models.RegisterPhotoRequest) (*models.Photo, error)
	UpdateCaption(ctx context.Context, id uint, caption string) (*models.Photo, error)
	Delete(ctx context.Context, id uint) error
}

type PhotoServiceConfig struct {
	DB     *sqlz.DB
	Driver string
	Store  ObjectStore
}

type PhotoService struct {
	db      *sqlz.DB
	builder squirrel.StatementBuilderType
	store   ObjectStore
}

func NewPhotoService(config PhotoServiceConfig) PhotoService {
	return PhotoService{
		db:      config.DB,
		builder: database.Builder(config.Driver),
		store:   config.Store,
	}
}

/*
List returns a configuration's photos in display order when configID is
set, otherwise every registered photo, newest first.
*/
func (s PhotoService) List(ctx context.Context, configID *uint) ([]models.Photo, error) {
	var (
		err     error
		builder squirrel.SelectBuilder
	)

	result := []models.Photo{}

	if configID != nil {
		builder = s.builder.
			Select(append(photoColumns, "cp.display_order")...).
			From("couple_photos AS cp").
			InnerJoin("photos AS p ON p.id = cp.photo_id").
			Where(squirrel.Eq{"cp.couple_config_id": *configID}).
			OrderBy("cp.display_order", "p.id")
	} else {
		builder = s.builder.
			Select(append(photoColumns, "0 AS display_order")...).
			From("photos AS p").
			OrderBy("p.created_at DESC", "p.id DESC")
	}

	query, args, err := builder.ToSql()

	if err != nil {
		return result, fmt.Errorf("error building photo list query: %w", err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.Query(queryCtx, &result, query, args...); err != nil {
		return result, fmt.Errorf("error querying for photos: %w", err)
	}

	return result, nil
}

func (s PhotoService) Get(ctx context.Context, id uint) (*models.Photo, error) {
	var (
		err error
	)

	result := &models.Photo{}

	query, args, err := s.builder.
		Select(append(photoColumns, "0 AS display_order")...).
		From("photos AS p").
		Where(squirrel.Eq{"p.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("error building photo query: %w", err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(queryCtx, result, query, args...); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, fmt.Errorf("%w: id %d", models.ErrPhotoNotFound, id)
		}

		return nil, fmt.Errorf("error querying for photo %d: %w", id, err)
	}

	return result, nil
}

/*
Register records an uploaded file. With a configuration id the photo is
appended to the end of that configuration's story.
*/
func (s PhotoService) Register(ctx context.Context, request models.RegisterPhotoRequest) (*models.Photo, error) {
	var (
		err   error
		tx    *sqlz.Tx
		row   idRow
		total countRow
	)

	request.PublicURL = strings.TrimSpace(request.PublicURL)
	request.FilePath = strings.TrimSpace(request.FilePath)

	if request.PublicURL == "" || request.FilePath == "" {
		return nil, ErrPhotoFieldsRequired
	}

	if request.MimeType == "" {
		request.MimeType = MimeTypeForName(request.FilePath)
	}

	now := time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if tx, err = s.db.Begin(txCtx); err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	query, args, err := s.builder.
		Insert("photos").
		Columns("created_at", "updated_at", "public_url", "file_path", "caption", "mime_type", "size_bytes").
		Values(now, now, request.PublicURL, request.FilePath, request.Caption, request.MimeType, request.SizeBytes).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("error building photo insert: %w", err)
	}

	if err = tx.QueryRow(txCtx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("error registering photo '%s': %w", request.PublicURL, err)
	}

	if request.CoupleConfigID != nil {
		configID := *request.CoupleConfigID

		query, args, err = s.builder.
			Select("COUNT(*) AS total").
			From("couple_configs").
			Where(squirrel.Eq{"id": configID}).
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("error building config lookup: %w", err)
		}

		if err = tx.QueryRow(txCtx, &total, query, args...); err != nil {
			return nil, fmt.Errorf("error looking up couple config %d: %w", configID, err)
		}

		if total.Total == 0 {
			return nil, fmt.Errorf("%w: id %d", models.ErrConfigNotFound, configID)
		}

		query, args, err = s.builder.
			Select("COUNT(*) AS total").
			From("couple_photos").
			Where(squirrel.Eq{"couple_config_id": configID}).
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("error building photo count: %w", err)
		}

		if err = tx.QueryRow(txCtx, &total, query, args...); err != nil {
			return nil, fmt.Errorf("error counting photos for couple config %d: %w", configID, err)
		}

		query, args, err = s.builder.
			Insert("couple_photos").
			Columns("couple_config_id", "photo_id", "display_order").
			Values(configID, row.ID, total.Total).
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("error building photo link insert: %w", err)
		}

		if _, err = tx.Exec(txCtx, query, args...); err != nil {
			return nil, fmt.Errorf("error linking photo %d to couple config %d: %w", row.ID, configID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing photo %d: %w", row.ID, err)
	}

	return s.Get(ctx, row.ID)
}

func (s PhotoService) UpdateCaption(ctx context.Context, id uint, caption string) (*models.Photo, error) {
	var (
		err error
	)

	if _, err = s.Get(ctx, id); err != nil {
		return nil, err
	}

	query, args, err := s.builder.
		Update("photos").
		Set("caption", caption).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("error building caption update: %w", err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(queryCtx, query, args...); err != nil {
		return nil, fmt.Errorf("error updating caption for photo %d: %w", id, err)
	}

	return s.Get(ctx, id)
}

/*
Delete removes the photo from every story and from the registry. The stored
file is removed afterwards on a best-effort basis: a storage failure is
logged and does not fail the delete.
*/
func (s PhotoService) Delete(ctx context.Context, id uint) error {
	var (
		err   error
		photo *models.Photo
		tx    *sqlz.Tx
	)

	if photo, err = s.Get(ctx, id); err != nil {
		return err
	}

	txCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if tx, err = s.db.Begin(txCtx); err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	statements := []squirrel.Sqlizer{
		s.builder.Delete("couple_photos").Where(squirrel.Eq{"photo_id": id}),
		s.builder.Delete("photos").Where(squirrel.Eq{"id": id}),
	}

	for _, statement := range statements {
		query, args, err := statement.ToSql()

		if err != nil {
			return fmt.Errorf("error building photo delete: %w", err)
		}

		if _, err = tx.Exec(txCtx, query, args...); err != nil {
			return fmt.Errorf("error deleting photo %d: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing delete of photo %d: %w", id, err)
	}

	s.deleteStoredFile(ctx, photo)
	return nil
}

func (s PhotoService) deleteStoredFile(ctx context.Context, photo *models.Photo) {
	if s.store == nil {
		return
	}

	key := KeyFromMediaURL(photo.URL)

	if key == "" {
		key = strings.TrimPrefix(photo.FilePath, "/")
	}

	if key == "" || !strings.Contains(key, "/"+UploadsFolder+"/") {
		return
	}

	keys := []string{key}

	if IsImage(key) {
		keys = append(keys, ThumbnailKey(key))
	}

	if err := s.store.DeleteObjects(ctx, keys); err != nil {
		slog.Error("error removing stored photo file, continuing", "photoID", photo.ID, "key", key, "error", err)
	}
}

/*
ThumbnailKey maps photos/uploads/x.jpg to photos/thumbnails/x.jpg.
*/
func ThumbnailKey(originalKey string) string {
	return strings.Replace(originalKey, "/"+UploadsFolder+"/", "/"+ThumbnailsFolder+"/", 1)
}

type countRow struct {
	Total int `db:"total"`
}
