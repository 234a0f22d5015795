package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adampresley/couplestory/cmd/website/internal/metrics"
	"github.com/adampresley/couplestory/pkg/counter"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/adampresley/couplestory/pkg/services"
	"github.com/adampresley/couplestory/pkg/services/mocks"
	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeLimiter struct {
	allow bool
	keys  []string
}

func (l *fakeLimiter) Allow(key string) bool {
	l.keys = append(l.keys, key)
	return l.allow
}

type fakeCache struct {
	cleared int
}

func (c *fakeCache) ClearCache() {
	c.cleared++
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func uintPtr(v uint) *uint {
	return &v
}

func TestGetConfig_NoConfigReturnsNull(t *testing.T) {
	ctrl := gomock.NewController(t)
	configService := mocks.NewMockConfigServicer(ctrl)
	controller := NewConfigController(ConfigControllerConfig{ConfigService: configService})

	configService.EXPECT().List(gomock.Any()).Return([]models.CoupleConfig{}, nil)

	rec := httptest.NewRecorder()
	controller.GetConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestGetConfig_ReturnsFirstConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	configService := mocks.NewMockConfigServicer(ctrl)
	controller := NewConfigController(ConfigControllerConfig{ConfigService: configService})

	configService.EXPECT().List(gomock.Any()).Return([]models.CoupleConfig{
		{BaseModel: models.BaseModel{ID: 3}, CoupleName: "Ana & Leo"},
	}, nil)

	rec := httptest.NewRecorder()
	controller.GetConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.CoupleConfig](t, rec)
	assert.Equal(t, uint(3), got.ID)
	assert.Equal(t, "Ana & Leo", got.CoupleName)
}

func TestGetConfig_ServerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	configService := mocks.NewMockConfigServicer(ctrl)
	controller := NewConfigController(ConfigControllerConfig{ConfigService: configService})

	configService.EXPECT().List(gomock.Any()).Return(nil, errors.New("database is locked"))

	rec := httptest.NewRecorder()
	controller.GetConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Server Error", got.Message)
	assert.Equal(t, "database is locked", got.Error)
}

func TestSaveConfig_CreatesWithoutID(t *testing.T) {
	ctrl := gomock.NewController(t)
	configService := mocks.NewMockConfigServicer(ctrl)
	controller := NewConfigController(ConfigControllerConfig{ConfigService: configService, Location: time.UTC})

	expected := models.CoupleConfigRequest{
		CoupleName:        "Ana & Leo",
		RelationshipStart: "2023-01-10T12:00",
		Photos:            []models.PhotoReference{{URL: "/media/photos/uploads/a.jpg", Caption: "beach"}},
	}

	configService.EXPECT().Create(gomock.Any(), expected).Return(&models.CoupleConfig{
		BaseModel:  models.BaseModel{ID: 1},
		CoupleName: "Ana & Leo",
	}, nil)

	body := `{"couple_name":"Ana & Leo","relationship_start":"2023-01-10T12:00","photos":[{"url":"/media/photos/uploads/a.jpg","caption":"beach"}]}`
	rec := httptest.NewRecorder()
	controller.SaveConfig(rec, httptest.NewRequest(http.MethodPost, "/api/config", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(1), decode[models.CoupleConfig](t, rec).ID)
}

func TestSaveConfig_UpdatesWithID(t *testing.T) {
	ctrl := gomock.NewController(t)
	configService := mocks.NewMockConfigServicer(ctrl)
	controller := NewConfigController(ConfigControllerConfig{ConfigService: configService, Location: time.UTC})

	configService.EXPECT().Update(gomock.Any(), uint(7), gomock.Any()).
		DoAndReturn(func(_ any, id uint, data models.CoupleConfigRequest) (*models.CoupleConfig, error) {
			return &models.CoupleConfig{BaseModel: models.BaseModel{ID: id}, CoupleName: data.CoupleName}, nil
		})

	rec := httptest.NewRecorder()
	controller.SaveConfig(rec, httptest.NewRequest(http.MethodPost, "/api/config", strings.NewReader(`{"id":7,"couple_name":"Us"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.CoupleConfig](t, rec)
	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, "Us", got.CoupleName)
}

func TestSaveConfig_UpdateMissingConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	configService := mocks.NewMockConfigServicer(ctrl)
	controller := NewConfigController(ConfigControllerConfig{ConfigService: configService})

	configService.EXPECT().Update(gomock.Any(), uint(9), gomock.Any()).Return(nil, models.ErrConfigNotFound)

	rec := httptest.NewRecorder()
	controller.SaveConfig(rec, httptest.NewRequest(http.MethodPost, "/api/config", strings.NewReader(`{"id":9}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveConfig_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed JSON", body: `{"couple_name":`},
		{name: "unparseable start date", body: `{"relationship_start":"next tuesday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			configService := mocks.NewMockConfigServicer(ctrl)
			controller := NewConfigController(ConfigControllerConfig{ConfigService: configService})

			rec := httptest.NewRecorder()
			controller.SaveConfig(rec, httptest.NewRequest(http.MethodPost, "/api/config", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetCounter(t *testing.T) {
	ctrl := gomock.NewController(t)
	configService := mocks.NewMockConfigServicer(ctrl)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	controller := NewCounterController(CounterControllerConfig{
		Clock:         clock,
		ConfigService: configService,
		Location:      time.UTC,
	})

	configService.EXPECT().List(gomock.Any()).Return([]models.CoupleConfig{
		{RelationshipStart: "2023-01-10T12:00", CustomPhrase: "and counting"},
	}, nil)

	rec := httptest.NewRecorder()
	controller.GetCounter(rec, httptest.NewRequest(http.MethodGet, "/api/counter", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[counter.View](t, rec)
	assert.True(t, got.Configured)
	assert.Equal(t, counter.Breakdown{Years: 1, Months: 2}, got.Breakdown)
	assert.Equal(t, "and counting", got.CustomPhrase)
}

func TestGetCounter_NotConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	configService := mocks.NewMockConfigServicer(ctrl)
	controller := NewCounterController(CounterControllerConfig{ConfigService: configService})

	configService.EXPECT().List(gomock.Any()).Return(nil, nil)

	rec := httptest.NewRecorder()
	controller.GetCounter(rec, httptest.NewRequest(http.MethodGet, "/api/counter", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[counter.View](t, rec)
	assert.False(t, got.Configured)
	assert.Equal(t, counter.NotConfigured, got.Prompt)
}

func TestUpload_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	uploadService := mocks.NewMockUploadServicer(ctrl)
	limiter := &fakeLimiter{allow: true}
	m := metrics.New()

	controller := NewUploadController(UploadControllerConfig{
		Limiter:       limiter,
		Metrics:       m,
		UploadService: uploadService,
	})

	uploadService.EXPECT().Upload(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, request services.UploadRequest) (services.UploadResult, error) {
			assert.Equal(t, "beach.jpg", request.Filename)
			assert.Equal(t, "image/jpeg", request.ContentType)

			return services.UploadResult{
				URL:     "/media/photos/uploads/1_x_beach.jpg",
				Success: true,
			}, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/api/upload?filename=beach.jpg", strings.NewReader("jpeg bytes"))
	req.Header.Set("Content-Type", "image/jpeg")
	req.RemoteAddr = "10.0.0.5:5555"

	rec := httptest.NewRecorder()
	controller.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "/media/photos/uploads/1_x_beach.jpg", got["url"])
	assert.Equal(t, true, got["success"])
	assert.Equal(t, false, got["isMock"])

	assert.Equal(t, []string{"10.0.0.5"}, limiter.keys)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("photos", "false")))
}

func TestUpload_RateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	uploadService := mocks.NewMockUploadServicer(ctrl)
	m := metrics.New()

	controller := NewUploadController(UploadControllerConfig{
		Limiter:       &fakeLimiter{allow: false},
		Metrics:       m,
		UploadService: uploadService,
	})

	rec := httptest.NewRecorder()
	controller.Upload(rec, httptest.NewRequest(http.MethodPost, "/api/upload?filename=a.jpg", strings.NewReader("x")))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadsLimited))
}

func TestUpload_ForwardedHeaderDoesNotChangeLimiterKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	uploadService := mocks.NewMockUploadServicer(ctrl)
	limiter := &fakeLimiter{allow: false}

	controller := NewUploadController(UploadControllerConfig{
		Limiter:       limiter,
		UploadService: uploadService,
	})

	for _, forwarded := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/upload?filename=a.jpg", strings.NewReader("x"))
		req.RemoteAddr = "198.51.100.9:40000"
		req.Header.Set("X-Forwarded-For", forwarded)

		rec := httptest.NewRecorder()
		controller.Upload(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	}

	assert.Equal(t, []string{"198.51.100.9", "198.51.100.9", "198.51.100.9"}, limiter.keys)
}

func TestUpload_UsesConfiguredClientIP(t *testing.T) {
	ctrl := gomock.NewController(t)
	uploadService := mocks.NewMockUploadServicer(ctrl)
	limiter := &fakeLimiter{allow: false}

	controller := NewUploadController(UploadControllerConfig{
		ClientIP:      func(r *http.Request) string { return "203.0.113.7" },
		Limiter:       limiter,
		UploadService: uploadService,
	})

	rec := httptest.NewRecorder()
	controller.Upload(rec, httptest.NewRequest(http.MethodPost, "/api/upload?filename=a.jpg", strings.NewReader("x")))

	assert.Equal(t, []string{"203.0.113.7"}, limiter.keys)
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "missing filename", err: services.ErrFilenameRequired, expected: http.StatusBadRequest},
		{name: "empty body", err: services.ErrBodyRequired, expected: http.StatusBadRequest},
		{name: "too large", err: &http.MaxBytesError{Limit: 10}, expected: http.StatusRequestEntityTooLarge},
		{name: "storage failure", err: errors.New("bucket gone"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uploadService := mocks.NewMockUploadServicer(ctrl)
			controller := NewUploadController(UploadControllerConfig{UploadService: uploadService})

			uploadService.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(services.UploadResult{}, tt.err)

			rec := httptest.NewRecorder()
			controller.Upload(rec, httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("x")))

			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestListPhotos(t *testing.T) {
	ctrl := gomock.NewController(t)
	photoService := mocks.NewMockPhotoServicer(ctrl)
	controller := NewPhotoController(PhotoControllerConfig{PhotoService: photoService})

	photoService.EXPECT().List(gomock.Any(), uintPtr(4)).Return([]models.Photo{
		{URL: "/media/photos/uploads/a.jpg", DisplayOrder: 0},
	}, nil)

	rec := httptest.NewRecorder()
	controller.ListPhotos(rec, httptest.NewRequest(http.MethodGet, "/api/photos?couple_config_id=4", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]models.Photo](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "/media/photos/uploads/a.jpg", got[0].URL)
}

func TestListPhotos_AllWhenNoConfigGiven(t *testing.T) {
	ctrl := gomock.NewController(t)
	photoService := mocks.NewMockPhotoServicer(ctrl)
	controller := NewPhotoController(PhotoControllerConfig{PhotoService: photoService})

	photoService.EXPECT().List(gomock.Any(), nil).Return(nil, nil)

	rec := httptest.NewRecorder()
	controller.ListPhotos(rec, httptest.NewRequest(http.MethodGet, "/api/photos", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestListPhotos_InvalidConfigID(t *testing.T) {
	ctrl := gomock.NewController(t)
	controller := NewPhotoController(PhotoControllerConfig{PhotoService: mocks.NewMockPhotoServicer(ctrl)})

	rec := httptest.NewRecorder()
	controller.ListPhotos(rec, httptest.NewRequest(http.MethodGet, "/api/photos?couple_config_id=abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterPhoto(t *testing.T) {
	ctrl := gomock.NewController(t)
	photoService := mocks.NewMockPhotoServicer(ctrl)
	cache := &fakeCache{}
	controller := NewPhotoController(PhotoControllerConfig{Cache: cache, PhotoService: photoService})

	photoService.EXPECT().Register(gomock.Any(), models.RegisterPhotoRequest{
		PublicURL: "/media/photos/uploads/a.jpg",
		FilePath:  "photos/uploads/a.jpg",
		Caption:   "beach",
	}).Return(&models.Photo{BaseModel: models.BaseModel{ID: 12}, URL: "/media/photos/uploads/a.jpg"}, nil)

	body := `{"public_url":"/media/photos/uploads/a.jpg","file_path":"photos/uploads/a.jpg","caption":"beach"}`
	rec := httptest.NewRecorder()
	controller.RegisterPhoto(rec, httptest.NewRequest(http.MethodPost, "/api/photos", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint(12), decode[models.Photo](t, rec).ID)
	assert.Equal(t, 1, cache.cleared)
}

func TestRegisterPhoto_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	photoService := mocks.NewMockPhotoServicer(ctrl)
	cache := &fakeCache{}
	controller := NewPhotoController(PhotoControllerConfig{Cache: cache, PhotoService: photoService})

	photoService.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, services.ErrPhotoFieldsRequired)

	rec := httptest.NewRecorder()
	controller.RegisterPhoto(rec, httptest.NewRequest(http.MethodPost, "/api/photos", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, services.ErrPhotoFieldsRequired.Error(), decode[ErrorResponse](t, rec).Message)
	assert.Zero(t, cache.cleared)
}

func TestUpdateCaption(t *testing.T) {
	ctrl := gomock.NewController(t)
	photoService := mocks.NewMockPhotoServicer(ctrl)
	cache := &fakeCache{}
	controller := NewPhotoController(PhotoControllerConfig{Cache: cache, PhotoService: photoService})

	photoService.EXPECT().UpdateCaption(gomock.Any(), uint(5), "sunset").
		Return(&models.Photo{BaseModel: models.BaseModel{ID: 5}, Caption: "sunset"}, nil)

	rec := httptest.NewRecorder()
	controller.UpdateCaption(rec, httptest.NewRequest(http.MethodPatch, "/api/photos?id=5", strings.NewReader(`{"caption":"sunset"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sunset", decode[models.Photo](t, rec).Caption)
	assert.Equal(t, 1, cache.cleared)
}

func TestUpdateCaption_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	photoService := mocks.NewMockPhotoServicer(ctrl)
	controller := NewPhotoController(PhotoControllerConfig{PhotoService: photoService})

	photoService.EXPECT().UpdateCaption(gomock.Any(), uint(5), "").Return(nil, models.ErrPhotoNotFound)

	rec := httptest.NewRecorder()
	controller.UpdateCaption(rec, httptest.NewRequest(http.MethodPatch, "/api/photos?id=5", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePhoto(t *testing.T) {
	ctrl := gomock.NewController(t)
	photoService := mocks.NewMockPhotoServicer(ctrl)
	cache := &fakeCache{}
	controller := NewPhotoController(PhotoControllerConfig{Cache: cache, PhotoService: photoService})

	photoService.EXPECT().Delete(gomock.Any(), uint(8)).Return(nil)

	rec := httptest.NewRecorder()
	controller.DeletePhoto(rec, httptest.NewRequest(http.MethodDelete, "/api/photos?id=8", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[SuccessResponse](t, rec)
	assert.True(t, got.Success)
	assert.Equal(t, "Photo deleted successfully", got.Message)
	assert.Equal(t, 1, cache.cleared)
}

func TestDeletePhoto_RequiresID(t *testing.T) {
	for _, target := range []string{"/api/photos", "/api/photos?id=", "/api/photos?id=x", "/api/photos?id=0"} {
		t.Run(target, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			controller := NewPhotoController(PhotoControllerConfig{PhotoService: mocks.NewMockPhotoServicer(ctrl)})

			rec := httptest.NewRecorder()
			controller.DeletePhoto(rec, httptest.NewRequest(http.MethodDelete, target, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
