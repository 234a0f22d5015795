package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/couplestory/pkg/counter"
	"github.com/adampresley/couplestory/pkg/services"
	"github.com/jonboulle/clockwork"
)

type CounterControllerConfig struct {
	Clock         clockwork.Clock
	ConfigService services.ConfigServicer
	Location      *time.Location
}

type CounterController struct {
	clock         clockwork.Clock
	configService services.ConfigServicer
	location      *time.Location
}

func NewCounterController(config CounterControllerConfig) CounterController {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	if config.Location == nil {
		config.Location = time.Local
	}

	return CounterController{
		clock:         config.Clock,
		configService: config.ConfigService,
		location:      config.Location,
	}
}

/*
GET /api/counter
*/
func (c CounterController) GetCounter(w http.ResponseWriter, r *http.Request) {
	var (
		start  *time.Time
		phrase string
	)

	config, err := services.CurrentConfig(r.Context(), c.configService)

	if err != nil {
		slog.Error("error reading couple config for counter", "error", err)
		writeError(w, http.StatusInternalServerError, "Server Error", err)
		return
	}

	if config != nil {
		phrase = config.CustomPhrase

		if start, err = config.StartDate(c.location); err != nil {
			slog.Error("stored relationship start date is invalid", "value", config.RelationshipStart, "error", err)
			start = nil
		}
	}

	writeJSON(w, http.StatusOK, counter.Compute(start, phrase, c.clock.Now()))
}
