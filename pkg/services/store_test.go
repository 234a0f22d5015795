package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/adampresley/couplestory/pkg/database"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/adampresley/couplestory/pkg/services"
	"github.com/adampresley/couplestory/pkg/services/mocks"
	"github.com/rfberaldo/sqlz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestDB(t *testing.T) *sqlz.DB {
	t.Helper()

	config := database.Config{
		Driver: database.DriverSqlite,
		DSN:    filepath.Join(t.TempDir(), "story.db"),
	}

	require.NoError(t, database.Migrate(config))

	db, err := database.Connect(config)
	require.NoError(t, err)

	return db
}

func newConfigService(t *testing.T, db *sqlz.DB) services.ConfigService {
	t.Helper()

	return services.NewConfigService(services.ConfigServiceConfig{
		DB:     db,
		Driver: database.DriverSqlite,
	})
}

func photoURLs(photos []models.Photo) []string {
	result := []string{}

	for _, p := range photos {
		result = append(result, p.URL)
	}

	return result
}

func TestConfigService_ListEmpty(t *testing.T) {
	service := newConfigService(t, newTestDB(t))

	configs, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, configs)

	current, err := services.CurrentConfig(context.Background(), service)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestConfigService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	service := newConfigService(t, newTestDB(t))

	created, err := service.Create(ctx, models.CoupleConfigRequest{
		CoupleName:         " Ana & Leo ",
		RelationshipStart:  "2021-06-12T19:30",
		CustomPhrase:       "and counting",
		BackgroundMusicURL: "/media/music/uploads/1_song.mp3",
		Photos: []models.PhotoReference{
			{URL: "/media/photos/uploads/b.jpg", Caption: "beach"},
			{URL: "/media/photos/uploads/a.jpg", Caption: "first date"},
			{URL: "/media/photos/uploads/b.jpg", Caption: "duplicate"},
			{URL: "  "},
			{URL: "https://example.com/c.png"},
		},
	})

	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, "Ana & Leo", created.CoupleName)
	assert.Equal(t, "2021-06-12T19:30", created.RelationshipStart)
	assert.Equal(t, []string{
		"/media/photos/uploads/b.jpg",
		"/media/photos/uploads/a.jpg",
		"https://example.com/c.png",
	}, photoURLs(created.Photos))
	assert.Equal(t, "beach", created.Photos[0].Caption)
	assert.Equal(t, "photos/uploads/b.jpg", created.Photos[0].FilePath)
	assert.Equal(t, 2, created.Photos[2].DisplayOrder)

	configs, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, created.ID, configs[0].ID)
	assert.Equal(t, photoURLs(created.Photos), photoURLs(configs[0].Photos))

	_, err = service.Create(ctx, models.CoupleConfigRequest{CoupleName: "second"})
	require.NoError(t, err)

	configs, err = service.List(ctx)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, created.ID, configs[0].ID)
}

func TestConfigService_UpdateReordersPhotos(t *testing.T) {
	ctx := context.Background()
	service := newConfigService(t, newTestDB(t))

	created, err := service.Create(ctx, models.CoupleConfigRequest{
		CoupleName: "Ana & Leo",
		Photos: []models.PhotoReference{
			{URL: "/media/photos/uploads/a.jpg"},
			{URL: "/media/photos/uploads/b.jpg"},
		},
	})
	require.NoError(t, err)

	updated, err := service.Update(ctx, created.ID, models.CoupleConfigRequest{
		CoupleName:        "Ana and Leo",
		RelationshipStart: "2020-01-01",
		Photos: []models.PhotoReference{
			{URL: "/media/photos/uploads/c.jpg"},
			{URL: "/media/photos/uploads/a.jpg", Caption: "still the first"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ana and Leo", updated.CoupleName)
	assert.Equal(t, "2020-01-01", updated.RelationshipStart)
	assert.Equal(t, []string{"/media/photos/uploads/c.jpg", "/media/photos/uploads/a.jpg"}, photoURLs(updated.Photos))
	assert.Equal(t, created.Photos[0].ID, updated.Photos[1].ID, "known URLs reuse the registered photo")
	assert.Equal(t, "still the first", updated.Photos[1].Caption)
}

func TestConfigService_MissingConfig(t *testing.T) {
	ctx := context.Background()
	service := newConfigService(t, newTestDB(t))

	_, err := service.Get(ctx, 42)
	assert.ErrorIs(t, err, models.ErrConfigNotFound)

	_, err = service.Update(ctx, 42, models.CoupleConfigRequest{CoupleName: "nobody"})
	assert.ErrorIs(t, err, models.ErrConfigNotFound)
}

func TestPhotoService_RegisterAppendsToStory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	configService := newConfigService(t, db)
	photoService := services.NewPhotoService(services.PhotoServiceConfig{DB: db, Driver: database.DriverSqlite})

	config, err := configService.Create(ctx, models.CoupleConfigRequest{
		CoupleName: "Ana & Leo",
		Photos:     []models.PhotoReference{{URL: "/media/photos/uploads/a.jpg"}},
	})
	require.NoError(t, err)

	photo, err := photoService.Register(ctx, models.RegisterPhotoRequest{
		PublicURL:      "/media/photos/uploads/b.png",
		FilePath:       "photos/uploads/b.png",
		Caption:        "sunset",
		SizeBytes:      1024,
		CoupleConfigID: &config.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.MimeType)
	assert.Equal(t, int64(1024), photo.SizeBytes)

	photos, err := photoService.List(ctx, &config.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/media/photos/uploads/a.jpg", "/media/photos/uploads/b.png"}, photoURLs(photos))
	assert.Equal(t, 1, photos[1].DisplayOrder)

	loose, err := photoService.Register(ctx, models.RegisterPhotoRequest{
		PublicURL: "/media/photos/uploads/c.jpg",
		FilePath:  "photos/uploads/c.jpg",
	})
	require.NoError(t, err)

	all, err := photoService.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, loose.ID, all[0].ID)
}

func TestPhotoService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	photoService := services.NewPhotoService(services.PhotoServiceConfig{DB: db, Driver: database.DriverSqlite})

	_, err := photoService.Register(ctx, models.RegisterPhotoRequest{PublicURL: "/media/x.jpg"})
	assert.ErrorIs(t, err, services.ErrPhotoFieldsRequired)

	missing := uint(99)

	_, err = photoService.Register(ctx, models.RegisterPhotoRequest{
		PublicURL:      "/media/photos/uploads/x.jpg",
		FilePath:       "photos/uploads/x.jpg",
		CoupleConfigID: &missing,
	})
	assert.ErrorIs(t, err, models.ErrConfigNotFound)

	all, err := photoService.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all, "a failed link rolls back the registration")
}

func TestPhotoService_UpdateCaption(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	photoService := services.NewPhotoService(services.PhotoServiceConfig{DB: db, Driver: database.DriverSqlite})

	photo, err := photoService.Register(ctx, models.RegisterPhotoRequest{
		PublicURL: "/media/photos/uploads/a.jpg",
		FilePath:  "photos/uploads/a.jpg",
	})
	require.NoError(t, err)

	updated, err := photoService.UpdateCaption(ctx, photo.ID, "our first trip")
	require.NoError(t, err)
	assert.Equal(t, "our first trip", updated.Caption)

	_, err = photoService.UpdateCaption(ctx, photo.ID+100, "nope")
	assert.ErrorIs(t, err, models.ErrPhotoNotFound)
}

func TestPhotoService_DeleteRemovesRowsAndFiles(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockObjectStore(ctrl)
	db := newTestDB(t)
	configService := newConfigService(t, db)
	photoService := services.NewPhotoService(services.PhotoServiceConfig{DB: db, Driver: database.DriverSqlite, Store: store})

	config, err := configService.Create(ctx, models.CoupleConfigRequest{
		Photos: []models.PhotoReference{
			{URL: "/media/photos/uploads/a.jpg"},
			{URL: "/media/photos/uploads/b.jpg"},
		},
	})
	require.NoError(t, err)

	store.EXPECT().
		DeleteObjects(gomock.Any(), []string{"photos/uploads/a.jpg", "photos/thumbnails/a.jpg"}).
		Return(errors.New("storage is down"))

	require.NoError(t, photoService.Delete(ctx, config.Photos[0].ID))

	reloaded, err := configService.Get(ctx, config.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/media/photos/uploads/b.jpg"}, photoURLs(reloaded.Photos))

	err = photoService.Delete(ctx, config.Photos[0].ID)
	assert.ErrorIs(t, err, models.ErrPhotoNotFound)
}

func TestPhotoService_DeleteSkipsExternalFiles(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockObjectStore(ctrl)
	db := newTestDB(t)
	photoService := services.NewPhotoService(services.PhotoServiceConfig{DB: db, Driver: database.DriverSqlite, Store: store})

	photo, err := photoService.Register(ctx, models.RegisterPhotoRequest{
		PublicURL: "https://placehold.co/600x400?text=a.jpg",
		FilePath:  "a.jpg",
	})
	require.NoError(t, err)

	require.NoError(t, photoService.Delete(ctx, photo.ID))
}
