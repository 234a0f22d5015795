package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/couplestory/pkg/counter"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/adampresley/couplestory/pkg/services"
	"github.com/goccy/go-json"
)

type ConfigHandlers interface {
	GetConfig(w http.ResponseWriter, r *http.Request)
	SaveConfig(w http.ResponseWriter, r *http.Request)
}

type ConfigControllerConfig struct {
	ConfigService services.ConfigServicer
	Location      *time.Location
}

type ConfigController struct {
	configService services.ConfigServicer
	location      *time.Location
}

func NewConfigController(config ConfigControllerConfig) ConfigController {
	if config.Location == nil {
		config.Location = time.Local
	}

	return ConfigController{
		configService: config.ConfigService,
		location:      config.Location,
	}
}

/*
GET /api/config
*/
func (c ConfigController) GetConfig(w http.ResponseWriter, r *http.Request) {
	config, err := services.CurrentConfig(r.Context(), c.configService)

	if err != nil {
		slog.Error("error reading couple config", "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error", err)
		return
	}

	writeJSON(w, http.StatusOK, config)
}

/*
POST /api/config

A body with an id updates that configuration, otherwise a new one is
created.
*/
func (c ConfigController) SaveConfig(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		request models.CoupleConfigRequest
		result  *models.CoupleConfig
	)

	if err = json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if _, err = counter.ParseStartDate(request.RelationshipStart, c.location); err != nil {
		writeError(w, http.StatusBadRequest, "invalid relationship start date", err)
		return
	}

	if request.ID != nil {
		result, err = c.configService.Update(r.Context(), *request.ID, request)
	} else {
		result, err = c.configService.Create(r.Context(), request)
	}

	if errors.Is(err, models.ErrConfigNotFound) {
		writeError(w, http.StatusNotFound, "couple config not found", err)
		return
	}

	if err != nil {
		slog.Error("error saving couple config", "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error", err)
		return
	}

	slog.Info("couple config saved", "id", result.ID, "photos", len(result.Photos))
	writeJSON(w, http.StatusOK, result)
}
