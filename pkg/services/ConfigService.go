package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/adampresley/couplestory/pkg/database"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/rfberaldo/sqlz"
)

//go:generate go run go.uber.org/mock/mockgen -source=ConfigService.go -destination=mocks/ConfigService.go -package=mocks

var configColumns = []string{
	"id",
	"created_at",
	"updated_at",
	"couple_name",
	"relationship_start",
	"custom_phrase",
	"background_music_url",
}

var photoColumns = []string{
	"p.id",
	"p.created_at",
	"p.updated_at",
	"p.public_url",
	"p.file_path",
	"p.caption",
	"p.mime_type",
	"p.size_bytes",
}

type ConfigServicer interface {
	List(ctx context.Context) ([]models.CoupleConfig, error)
	Get(ctx context.Context, id uint) (*models.CoupleConfig, error)
	Create(ctx context.Context, data models.CoupleConfigRequest) (*models.CoupleConfig, error)
	Update(ctx context.Context, id uint, data models.CoupleConfigRequest) (*models.CoupleConfig, error)
}

type ConfigServiceConfig struct {
	DB     *sqlz.DB
	Driver string
}

type ConfigService struct {
	db      *sqlz.DB
	builder squirrel.StatementBuilderType
}

func NewConfigService(config ConfigServiceConfig) ConfigService {
	return ConfigService{
		db:      config.DB,
		builder: database.Builder(config.Driver),
	}
}

/*
CurrentConfig returns the first configuration or nil when none exists yet.
*/
func CurrentConfig(ctx context.Context, service ConfigServicer) (*models.CoupleConfig, error) {
	configs, err := service.List(ctx)

	if err != nil {
		return nil, err
	}

	if len(configs) == 0 {
		return nil, nil
	}

	return &configs[0], nil
}

/*
List returns at most one configuration, the oldest, with its photos.
*/
func (s ConfigService) List(ctx context.Context) ([]models.CoupleConfig, error) {
	var (
		err error
	)

	result := []models.CoupleConfig{}

	query, args, err := s.builder.
		Select(configColumns...).
		From("couple_configs").
		OrderBy("id").
		Limit(1).
		ToSql()

	if err != nil {
		return result, fmt.Errorf("error building config list query: %w", err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.Query(queryCtx, &result, query, args...); err != nil {
		return result, fmt.Errorf("error querying for couple configs: %w", err)
	}

	for i := range result {
		if result[i].Photos, err = s.photos(ctx, result[i].ID); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (s ConfigService) Get(ctx context.Context, id uint) (*models.CoupleConfig, error) {
	var (
		err error
	)

	result := &models.CoupleConfig{}

	query, args, err := s.builder.
		Select(configColumns...).
		From("couple_configs").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("error building config query: %w", err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(queryCtx, result, query, args...); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, fmt.Errorf("%w: id %d", models.ErrConfigNotFound, id)
		}

		return nil, fmt.Errorf("error querying for couple config %d: %w", id, err)
	}

	if result.Photos, err = s.photos(ctx, id); err != nil {
		return nil, err
	}

	return result, nil
}

/*
Create inserts a configuration and its ordered photo list in one
transaction.
*/
func (s ConfigService) Create(ctx context.Context, data models.CoupleConfigRequest) (*models.CoupleConfig, error) {
	var (
		err error
		tx  *sqlz.Tx
		row idRow
	)

	now := time.Now().UTC()

	query, args, err := s.builder.
		Insert("couple_configs").
		Columns("created_at", "updated_at", "couple_name", "relationship_start", "custom_phrase", "background_music_url").
		Values(now, now, strings.TrimSpace(data.CoupleName), strings.TrimSpace(data.RelationshipStart), data.CustomPhrase, data.BackgroundMusicURL).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("error building config insert: %w", err)
	}

	txCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if tx, err = s.db.Begin(txCtx); err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	if err = tx.QueryRow(txCtx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("error inserting couple config: %w", err)
	}

	if err = s.writePhotos(txCtx, tx, row.ID, data.Photos, now); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing couple config %d: %w", row.ID, err)
	}

	return s.Get(ctx, row.ID)
}

/*
Update replaces every field of the configuration and its photo list.
*/
func (s ConfigService) Update(ctx context.Context, id uint, data models.CoupleConfigRequest) (*models.CoupleConfig, error) {
	var (
		err error
		tx  *sqlz.Tx
		row idRow
	)

	now := time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if tx, err = s.db.Begin(txCtx); err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	query, args, err := s.builder.
		Select("id").
		From("couple_configs").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("error building config lookup: %w", err)
	}

	if err = tx.QueryRow(txCtx, &row, query, args...); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, fmt.Errorf("%w: id %d", models.ErrConfigNotFound, id)
		}

		return nil, fmt.Errorf("error looking up couple config %d: %w", id, err)
	}

	query, args, err = s.builder.
		Update("couple_configs").
		Set("updated_at", now).
		Set("couple_name", strings.TrimSpace(data.CoupleName)).
		Set("relationship_start", strings.TrimSpace(data.RelationshipStart)).
		Set("custom_phrase", data.CustomPhrase).
		Set("background_music_url", data.BackgroundMusicURL).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("error building config update: %w", err)
	}

	if _, err = tx.Exec(txCtx, query, args...); err != nil {
		return nil, fmt.Errorf("error updating couple config %d: %w", id, err)
	}

	if err = s.writePhotos(txCtx, tx, id, data.Photos, now); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing couple config %d: %w", id, err)
	}

	return s.Get(ctx, id)
}

func (s ConfigService) photos(ctx context.Context, configID uint) ([]models.Photo, error) {
	var (
		err error
	)

	result := []models.Photo{}

	query, args, err := s.builder.
		Select(append(photoColumns, "cp.display_order")...).
		From("couple_photos AS cp").
		InnerJoin("photos AS p ON p.id = cp.photo_id").
		Where(squirrel.Eq{"cp.couple_config_id": configID}).
		OrderBy("cp.display_order", "p.id").
		ToSql()

	if err != nil {
		return result, fmt.Errorf("error building config photos query: %w", err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.Query(queryCtx, &result, query, args...); err != nil {
		return result, fmt.Errorf("error querying photos for couple config %d: %w", configID, err)
	}

	return result, nil
}

/*
writePhotos rewrites the ordered photo list of a configuration. Photos are
matched to the registry by URL and registered when unknown. Repeated and
empty URLs are skipped.
*/
func (s ConfigService) writePhotos(ctx context.Context, tx *sqlz.Tx, configID uint, photos []models.PhotoReference, now time.Time) error {
	var (
		err error
	)

	query, args, err := s.builder.
		Delete("couple_photos").
		Where(squirrel.Eq{"couple_config_id": configID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("error building photo link delete: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error clearing photos for couple config %d: %w", configID, err)
	}

	seen := map[string]struct{}{}
	order := 0

	for _, ref := range photos {
		url := strings.TrimSpace(ref.URL)

		if url == "" {
			continue
		}

		if _, ok := seen[url]; ok {
			continue
		}

		seen[url] = struct{}{}

		photoID, err := s.ensurePhoto(ctx, tx, url, ref.Caption, now)

		if err != nil {
			return err
		}

		query, args, err = s.builder.
			Insert("couple_photos").
			Columns("couple_config_id", "photo_id", "display_order").
			Values(configID, photoID, order).
			ToSql()

		if err != nil {
			return fmt.Errorf("error building photo link insert: %w", err)
		}

		if _, err = tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("error linking photo %d to couple config %d: %w", photoID, configID, err)
		}

		order++
	}

	return nil
}

func (s ConfigService) ensurePhoto(ctx context.Context, tx *sqlz.Tx, url, caption string, now time.Time) (uint, error) {
	var (
		err error
		row idRow
	)

	query, args, err := s.builder.
		Select("id").
		From("photos").
		Where(squirrel.Eq{"public_url": url}).
		OrderBy("id").
		Limit(1).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("error building photo lookup: %w", err)
	}

	err = tx.QueryRow(ctx, &row, query, args...)

	if err == nil {
		query, args, err = s.builder.
			Update("photos").
			Set("caption", caption).
			Set("updated_at", now).
			Where(squirrel.Eq{"id": row.ID}).
			ToSql()

		if err != nil {
			return 0, fmt.Errorf("error building caption update: %w", err)
		}

		if _, err = tx.Exec(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("error updating caption for photo %d: %w", row.ID, err)
		}

		return row.ID, nil
	}

	if !sqlz.IsNotFound(err) {
		return 0, fmt.Errorf("error looking up photo '%s': %w", url, err)
	}

	query, args, err = s.builder.
		Insert("photos").
		Columns("created_at", "updated_at", "public_url", "file_path", "caption", "mime_type", "size_bytes").
		Values(now, now, url, KeyFromMediaURL(url), caption, MimeTypeForName(url), 0).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("error building photo insert: %w", err)
	}

	if err = tx.QueryRow(ctx, &row, query, args...); err != nil {
		return 0, fmt.Errorf("error registering photo '%s': %w", url, err)
	}

	return row.ID, nil
}

type idRow struct {
	ID uint `db:"id"`
}
