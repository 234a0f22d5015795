package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/adampresley/couplestory/pkg/models"
	"github.com/adampresley/couplestory/pkg/services"
	"github.com/goccy/go-json"
)

/*
CacheClearer drops cached story data. Photo changes alter what the story
page shows, so they clear it.
*/
type CacheClearer interface {
	ClearCache()
}

type PhotoHandlers interface {
	ListPhotos(w http.ResponseWriter, r *http.Request)
	RegisterPhoto(w http.ResponseWriter, r *http.Request)
	UpdateCaption(w http.ResponseWriter, r *http.Request)
	DeletePhoto(w http.ResponseWriter, r *http.Request)
}

type PhotoControllerConfig struct {
	Cache        CacheClearer
	PhotoService services.PhotoServicer
}

type PhotoController struct {
	cache        CacheClearer
	photoService services.PhotoServicer
}

func NewPhotoController(config PhotoControllerConfig) PhotoController {
	return PhotoController{
		cache:        config.Cache,
		photoService: config.PhotoService,
	}
}

/*
GET /api/photos
GET /api/photos?couple_config_id={id}
*/
func (c PhotoController) ListPhotos(w http.ResponseWriter, r *http.Request) {
	var (
		configID *uint
	)

	if r.URL.Query().Has("couple_config_id") {
		id, ok := queryID(r, "couple_config_id")

		if !ok {
			writeError(w, http.StatusBadRequest, "invalid couple_config_id", nil)
			return
		}

		configID = &id
	}

	photos, err := c.photoService.List(r.Context(), configID)

	if err != nil {
		slog.Error("error listing photos", "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error", err)
		return
	}

	if photos == nil {
		photos = []models.Photo{}
	}

	writeJSON(w, http.StatusOK, photos)
}

/*
POST /api/photos
*/
func (c PhotoController) RegisterPhoto(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		request models.RegisterPhotoRequest
		photo   *models.Photo
	)

	if err = json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	photo, err = c.photoService.Register(r.Context(), request)

	if errors.Is(err, services.ErrPhotoFieldsRequired) {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if errors.Is(err, models.ErrConfigNotFound) {
		writeError(w, http.StatusNotFound, "couple config not found", err)
		return
	}

	if err != nil {
		slog.Error("error registering photo", "url", request.PublicURL, "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error", err)
		return
	}

	c.clearCache()
	writeJSON(w, http.StatusCreated, photo)
}

/*
PATCH /api/photos?id={id}
*/
func (c PhotoController) UpdateCaption(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		request models.UpdateCaptionRequest
		photo   *models.Photo
	)

	id, ok := queryID(r, "id")

	if !ok {
		writeError(w, http.StatusBadRequest, "valid photo id is required", nil)
		return
	}

	if err = json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	photo, err = c.photoService.UpdateCaption(r.Context(), id, request.Caption)

	if errors.Is(err, models.ErrPhotoNotFound) {
		writeError(w, http.StatusNotFound, "photo not found", err)
		return
	}

	if err != nil {
		slog.Error("error updating photo caption", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error", err)
		return
	}

	c.clearCache()
	writeJSON(w, http.StatusOK, photo)
}

/*
DELETE /api/photos?id={id}
*/
func (c PhotoController) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")

	if !ok {
		writeError(w, http.StatusBadRequest, "valid photo id is required", nil)
		return
	}

	err := c.photoService.Delete(r.Context(), id)

	if errors.Is(err, models.ErrPhotoNotFound) {
		writeError(w, http.StatusNotFound, "photo not found", err)
		return
	}

	if err != nil {
		slog.Error("error deleting photo", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error", err)
		return
	}

	c.clearCache()

	writeJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Photo deleted successfully",
	})
}

func (c PhotoController) clearCache() {
	if c.cache != nil {
		c.cache.ClearCache()
	}
}
