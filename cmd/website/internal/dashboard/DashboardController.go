package dashboard

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/couplestory/cmd/website/internal/viewmodels"
	"github.com/adampresley/couplestory/pkg/counter"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/adampresley/couplestory/pkg/services"
	"github.com/adampresley/couplestory/pkg/ui"
	"github.com/jonboulle/clockwork"
)

type DashboardHandlers interface {
	DashboardPage(w http.ResponseWriter, r *http.Request)
	SaveAction(w http.ResponseWriter, r *http.Request)
	ExportAction(w http.ResponseWriter, r *http.Request)
}

type DashboardControllerConfig struct {
	Clock          clockwork.Clock
	ConfigService  services.ConfigServicer
	ExportService  services.ExportServicer
	Location       *time.Location
	Renderer       rendering.TemplateRenderer
	SessionService sessions.Session[*models.Flash]
	StorageEnabled bool
}

type DashboardController struct {
	clock          clockwork.Clock
	configService  services.ConfigServicer
	exportService  services.ExportServicer
	location       *time.Location
	renderer       rendering.TemplateRenderer
	sessionService sessions.Session[*models.Flash]
	storageEnabled bool
}

func NewDashboardController(config DashboardControllerConfig) DashboardController {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	if config.Location == nil {
		config.Location = time.Local
	}

	return DashboardController{
		clock:          config.Clock,
		configService:  config.ConfigService,
		exportService:  config.ExportService,
		location:       config.Location,
		renderer:       config.Renderer,
		sessionService: config.SessionService,
		storageEnabled: config.StorageEnabled,
	}
}

/*
GET /dashboard
*/
func (c DashboardController) DashboardPage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/dashboard"
	viewData := c.newViewModel(r)

	config, err := services.CurrentConfig(r.Context(), c.configService)

	if err != nil {
		slog.Error("error loading couple config for the dashboard", "error", err)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred loading your settings."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	FillFromConfig(&viewData, config)
	c.renderer.Render(pageName, viewData, w)
}

/*
POST /dashboard
*/
func (c DashboardController) SaveAction(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		request models.CoupleConfigRequest
	)

	pageName := "pages/dashboard"
	viewData := c.newViewModel(r)

	request, err = ParseConfigForm(r, c.location)
	FillFromRequest(&viewData, request)

	if err != nil {
		viewData.IsWarning = true
		viewData.Message = formErrorMessage(err)

		c.renderer.Render(pageName, viewData, w)
		return
	}

	if request.ID != nil {
		_, err = c.configService.Update(r.Context(), *request.ID, request)
	} else {
		_, err = c.configService.Create(r.Context(), request)
	}

	if err != nil {
		slog.Error("error saving couple config from the dashboard", "error", err)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred saving your settings. Please try again."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	slog.Info("dashboard saved couple config", "coupleName", request.CoupleName, "photos", len(request.Photos))

	if c.sessionService != nil {
		if err = c.sessionService.Set(r, &models.Flash{Kind: models.FlashSuccess, Message: "Your story has been saved."}); err != nil {
			slog.Error("error setting flash message", "error", err)
		}

		if err = c.sessionService.Save(w, r); err != nil {
			slog.Error("error saving session", "error", err)
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

/*
GET /dashboard/export
*/
func (c DashboardController) ExportAction(w http.ResponseWriter, r *http.Request) {
	filename := ExportFilename(c.clock.Now().In(c.location))

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	written, err := c.exportService.WriteZip(r.Context(), w)

	if err != nil {
		slog.Error("error exporting photos", "error", err, "written", written)

		if written == 0 {
			w.Header().Del("Content-Disposition")
			httphelpers.TextInternalServerError(w, "Failed to export photos")
		}

		return
	}

	slog.Info("photo export completed", "filename", filename, "photos", written)
}

func (c DashboardController) newViewModel(r *http.Request) viewmodels.DashboardPage {
	return viewmodels.DashboardPage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{
				{Type: "module", Src: "/static/js/dashboard.js"},
			},
		},
		StorageEnabled:    c.storageEnabled,
		SaveButtonClass:   ui.ButtonClass(ui.VariantDefault, ui.SizeDefault, "w-full"),
		RemoveButtonClass: ui.ButtonClass(ui.VariantDestructive, ui.SizeIcon),
		ExportButtonClass: ui.ButtonClass(ui.VariantGhost, ui.SizeDefault),
	}
}

func ExportFilename(now time.Time) string {
	return "our-story-" + now.Format("20060102") + ".zip"
}

/*
ParseConfigForm reads the dashboard form. Photos arrive as parallel
photo_url and photo_caption fields and rows without a URL are dropped. The
relationship start is validated but returned as entered.
*/
func ParseConfigForm(r *http.Request, loc *time.Location) (models.CoupleConfigRequest, error) {
	var (
		err     error
		request models.CoupleConfigRequest
	)

	if err = r.ParseForm(); err != nil {
		return request, fmt.Errorf("error parsing dashboard form: %w", err)
	}

	request = models.CoupleConfigRequest{
		CoupleName:         strings.TrimSpace(r.PostForm.Get("couple_name")),
		RelationshipStart:  strings.TrimSpace(r.PostForm.Get("relationship_start")),
		CustomPhrase:       strings.TrimSpace(r.PostForm.Get("custom_phrase")),
		BackgroundMusicURL: strings.TrimSpace(r.PostForm.Get("background_music_url")),
		Photos:             []models.PhotoReference{},
	}

	if value := r.PostForm.Get("id"); value != "" {
		id, parseErr := strconv.ParseUint(value, 10, 64)

		if parseErr != nil || id == 0 {
			return request, fmt.Errorf("invalid config id %q", value)
		}

		configID := uint(id)
		request.ID = &configID
	}

	urls := r.PostForm["photo_url"]
	captions := r.PostForm["photo_caption"]

	for index, url := range urls {
		if url = strings.TrimSpace(url); url == "" {
			continue
		}

		photo := models.PhotoReference{URL: url}

		if index < len(captions) {
			photo.Caption = strings.TrimSpace(captions[index])
		}

		request.Photos = append(request.Photos, photo)
	}

	if _, err = counter.ParseStartDate(request.RelationshipStart, loc); err != nil {
		return request, err
	}

	return request, nil
}

/*
FillFromConfig copies a stored configuration onto the form. A nil config
leaves the form blank.
*/
func FillFromConfig(viewData *viewmodels.DashboardPage, config *models.CoupleConfig) {
	if config == nil {
		viewData.Photos = []viewmodels.DashboardPhoto{}
		return
	}

	viewData.ConfigID = config.ID
	viewData.CoupleName = config.CoupleName
	viewData.RelationshipStart = config.RelationshipStart
	viewData.CustomPhrase = config.CustomPhrase
	viewData.BackgroundMusicURL = config.BackgroundMusicURL
	viewData.Photos = make([]viewmodels.DashboardPhoto, 0, len(config.Photos))

	for _, photo := range config.Photos {
		viewData.Photos = append(viewData.Photos, dashboardPhoto(photo.URL, photo.Caption))
	}
}

/*
FillFromRequest puts submitted values back on the form so nothing typed is
lost when the save is rejected.
*/
func FillFromRequest(viewData *viewmodels.DashboardPage, request models.CoupleConfigRequest) {
	if request.ID != nil {
		viewData.ConfigID = *request.ID
	}

	viewData.CoupleName = request.CoupleName
	viewData.RelationshipStart = request.RelationshipStart
	viewData.CustomPhrase = request.CustomPhrase
	viewData.BackgroundMusicURL = request.BackgroundMusicURL
	viewData.Photos = make([]viewmodels.DashboardPhoto, 0, len(request.Photos))

	for _, photo := range request.Photos {
		viewData.Photos = append(viewData.Photos, dashboardPhoto(photo.URL, photo.Caption))
	}
}

/*
ThumbnailURL points stored uploads at their thumbnail. External URLs are
returned unchanged.
*/
func ThumbnailURL(photoURL string) string {
	key := services.KeyFromMediaURL(photoURL)

	if key == "" || !services.IsImage(key) {
		return photoURL
	}

	return services.MediaURL(services.ThumbnailKey(key))
}

func dashboardPhoto(url, caption string) viewmodels.DashboardPhoto {
	return viewmodels.DashboardPhoto{
		URL:          url,
		ThumbnailURL: ThumbnailURL(url),
		Caption:      caption,
	}
}

func formErrorMessage(err error) string {
	if errors.Is(err, counter.ErrInvalidStartDate) {
		return "Please enter a valid date and time for when your relationship started."
	}

	return "Some of the values you entered are not valid. Please check the form and try again."
}
