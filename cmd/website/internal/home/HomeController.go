package home

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/couplestory/cmd/website/internal/viewmodels"
	"github.com/adampresley/couplestory/pkg/carousel"
	"github.com/adampresley/couplestory/pkg/counter"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/adampresley/couplestory/pkg/services"
	"github.com/jonboulle/clockwork"
)

type HomeHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	Clock          clockwork.Clock
	ConfigService  services.ConfigServicer
	Location       *time.Location
	Renderer       rendering.TemplateRenderer
	SessionService sessions.Session[*models.Flash]
}

type HomeController struct {
	clock          clockwork.Clock
	configService  services.ConfigServicer
	location       *time.Location
	renderer       rendering.TemplateRenderer
	sessionService sessions.Session[*models.Flash]
}

func NewHomeController(config HomeControllerConfig) HomeController {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	if config.Location == nil {
		config.Location = time.Local
	}

	return HomeController{
		clock:          config.Clock,
		configService:  config.ConfigService,
		location:       config.Location,
		renderer:       config.Renderer,
		sessionService: config.SessionService,
	}
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/home"

	viewData := viewmodels.HomePage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{
				{Type: "module", Src: "/static/js/story.js"},
			},
		},
	}

	viewData.ApplyFlash(c.popFlash(w, r))

	config, err := services.CurrentConfig(r.Context(), c.configService)

	if err != nil {
		slog.Error("error loading couple config for the story page", "error", err)
		viewData.IsWarning = true
		viewData.Message = "We could not load your story right now."
		config = nil
	}

	BuildStory(&viewData, config, c.location, c.clock.Now())
	c.renderer.Render(pageName, viewData, w)
}

/*
BuildStory fills the parts of the story page that come from the
configuration: the first carousel frame and the counter at now. A nil config
renders the welcome state.
*/
func BuildStory(viewData *viewmodels.HomePage, config *models.CoupleConfig, loc *time.Location, now time.Time) {
	var (
		start  *time.Time
		phrase string
		err    error
	)

	viewData.IsConfigured = config != nil
	viewData.CoupleName = config.DisplayName()

	if config != nil {
		phrase = config.CustomPhrase
		viewData.BackgroundMusicURL = config.BackgroundMusicURL

		if start, err = config.StartDate(loc); err != nil {
			slog.Error("stored relationship start date is invalid", "value", config.RelationshipStart, "error", err)
			start = nil
		}
	}

	viewData.Counter = counter.Compute(start, phrase, now)

	story := carousel.New(carousel.Config{
		Photos:     config.CarouselPhotos(),
		CoupleName: config.DisplayName(),
	})

	viewData.Carousel = story.Snapshot()
	viewData.Photos = make([]viewmodels.HomePagePhoto, 0, viewData.Carousel.Count)

	for index, photo := range config.CarouselPhotos() {
		viewData.Photos = append(viewData.Photos, viewmodels.HomePagePhoto{
			Index:    index,
			URL:      photo.URL,
			Caption:  photo.Caption,
			IsActive: index == viewData.Carousel.CurrentIndex,
			Progress: viewData.Carousel.Progress[index],
		})
	}
}

func (c HomeController) popFlash(w http.ResponseWriter, r *http.Request) *models.Flash {
	if c.sessionService == nil {
		return nil
	}

	flash, err := c.sessionService.Get(r)

	if err != nil || flash == nil {
		return nil
	}

	_ = c.sessionService.Destroy(w, r)

	if err = c.sessionService.Save(w, r); err != nil {
		slog.Error("error clearing flash message", "error", err)
	}

	return flash
}
