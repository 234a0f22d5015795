package main

import (
	"context"
	"embed"
	"encoding/gob"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/couplestory/cmd/website/internal/api"
	"github.com/adampresley/couplestory/cmd/website/internal/configuration"
	"github.com/adampresley/couplestory/cmd/website/internal/dashboard"
	"github.com/adampresley/couplestory/cmd/website/internal/home"
	"github.com/adampresley/couplestory/cmd/website/internal/live"
	"github.com/adampresley/couplestory/cmd/website/internal/media"
	"github.com/adampresley/couplestory/cmd/website/internal/metrics"
	"github.com/adampresley/couplestory/cmd/website/internal/ratelimit"
	"github.com/adampresley/couplestory/cmd/website/internal/thumbnails"
	"github.com/adampresley/couplestory/pkg/database"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/adampresley/couplestory/pkg/services"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rfberaldo/sqlz"
)

var (
	Version string = "development"
	appName string = "couplestory"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	cachedConfigService *services.CachedConfigService
	cleanupService      services.CleanupServicer
	db                  *sqlz.DB
	exportService       services.ExportServicer
	objectStore         services.ObjectStore
	photoService        services.PhotoServicer
	renderer            rendering.TemplateRenderer
	sessionService      sessions.Session[*models.Flash]
	thumbnailService    thumbnails.ThumbnailCreatorService
	uploadService       services.UploadServicer

	/* Controllers */
	configController    api.ConfigController
	counterController   api.CounterController
	dashboardController dashboard.DashboardHandlers
	homeController      home.HomeHandlers
	liveController      live.LiveController
	mediaController     media.MediaController
	photoController     api.PhotoHandlers
	uploadController    api.UploadController
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	flush := setupLogger(&config, Version)
	defer flush()

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("dbDriver", config.DBDriver),
		slog.Bool("storageEnabled", config.StorageEnabled),
		slog.String("awsEndpointUrl", config.AwsEndpointUrl),
		slog.String("awsRegion", config.AwsRegion),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())
	clock := clockwork.NewRealClock()
	location := config.Location()
	appMetrics := metrics.New()

	/*
	 * Setup services
	 */
	dbConfig := database.Config{
		Driver: config.DBDriver,
		DSN:    config.DSN,
	}

	if db, err = database.Connect(dbConfig); err != nil {
		panic(err)
	}

	if err = database.Migrate(dbConfig); err != nil {
		panic(err)
	}

	gob.Register(&models.Flash{})

	cookieStore := sessions.NewCookieStore(config.CookieSecret)
	sessionService = sessions.NewSessionWrapper[*models.Flash](cookieStore, "couplestoryflash", "flash")

	if config.StorageEnabled {
		objectStore = setupObjectStore()
	}

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	cachedConfigService = services.NewCachedConfigService(services.CachedConfigServiceConfig{
		Clock: clock,
		ConfigService: services.NewConfigService(services.ConfigServiceConfig{
			DB:     db,
			Driver: config.DBDriver,
		}),
		TTL: config.CacheTTL(),
	})

	photoService = services.NewPhotoService(services.PhotoServiceConfig{
		DB:     db,
		Driver: config.DBDriver,
		Store:  objectStore,
	})

	uploadService = services.NewUploadService(services.UploadServiceConfig{
		Clock:          clock,
		StorageEnabled: config.StorageEnabled,
		Store:          objectStore,
	})

	/*
	 * Setup controllers
	 */
	configController = api.NewConfigController(api.ConfigControllerConfig{
		ConfigService: cachedConfigService,
		Location:      location,
	})

	counterController = api.NewCounterController(api.CounterControllerConfig{
		Clock:         clock,
		ConfigService: cachedConfigService,
		Location:      location,
	})

	photoController = api.NewPhotoController(api.PhotoControllerConfig{
		Cache:        cachedConfigService,
		PhotoService: photoService,
	})

	ipResolver, err := ratelimit.NewIPResolver(config.TrustedProxyList())

	if err != nil {
		panic(err)
	}

	uploadLimiter := ratelimit.NewInMemoryLimiter(ratelimit.InMemoryLimiterConfig{
		Burst:    config.UploadBurst,
		Clock:    clock,
		Per:      time.Minute,
		Requests: config.UploadsPerMinute,
	})

	uploadController = api.NewUploadController(api.UploadControllerConfig{
		ClientIP:      ipResolver.ClientIP,
		Limiter:       uploadLimiter,
		Metrics:       appMetrics,
		UploadService: uploadService,
	})

	homeController = home.NewHomeController(home.HomeControllerConfig{
		Clock:          clock,
		ConfigService:  cachedConfigService,
		Location:       location,
		Renderer:       renderer,
		SessionService: sessionService,
	})

	liveController = live.NewLiveController(live.LiveControllerConfig{
		Clock:         clock,
		ConfigService: cachedConfigService,
		Location:      location,
		Metrics:       appMetrics,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /metrics", HandlerFunc: appMetrics.Handler().ServeHTTP},
		{Path: "GET /{$}", HandlerFunc: homeController.HomePage},
		{Path: "GET /story/live", HandlerFunc: liveController.StoryLive},
		{Path: "GET /api/config", HandlerFunc: configController.GetConfig},
		{Path: "POST /api/config", HandlerFunc: configController.SaveConfig},
		{Path: "GET /api/counter", HandlerFunc: counterController.GetCounter},
		{Path: "POST /api/upload", HandlerFunc: uploadController.Upload},
		{Path: "GET /api/photos", HandlerFunc: photoController.ListPhotos},
		{Path: "POST /api/photos", HandlerFunc: photoController.RegisterPhoto},
		{Path: "PATCH /api/photos", HandlerFunc: photoController.UpdateCaption},
		{Path: "DELETE /api/photos", HandlerFunc: photoController.DeletePhoto},
	}

	if objectStore != nil {
		exportService = services.NewExportService(services.ExportServiceConfig{
			ConfigService: cachedConfigService,
			Store:         objectStore,
		})

		mediaController = media.NewMediaController(media.MediaControllerConfig{
			Store: objectStore,
		})

		routes = append(routes,
			mux.Route{Path: "GET /media/{key...}", HandlerFunc: mediaController.ServeMedia},
		)
	}

	dashboardController = dashboard.NewDashboardController(dashboard.DashboardControllerConfig{
		Clock:          clock,
		ConfigService:  cachedConfigService,
		ExportService:  exportService,
		Location:       location,
		Renderer:       renderer,
		SessionService: sessionService,
		StorageEnabled: objectStore != nil,
	})

	routes = append(routes,
		mux.Route{Path: "GET /dashboard", HandlerFunc: dashboardController.DashboardPage},
		mux.Route{Path: "POST /dashboard", HandlerFunc: dashboardController.SaveAction},
	)

	if exportService != nil {
		routes = append(routes,
			mux.Route{Path: "GET /dashboard/export", HandlerFunc: dashboardController.ExportAction},
		)
	}

	routes = withRequestMetrics(routes, appMetrics)

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Background jobs only make sense with somewhere to store files
	 */
	if objectStore != nil {
		cleanupService = services.NewCleanupService(services.CleanupServiceConfig{
			Clock:          clock,
			ConfigService:  cachedConfigService,
			ExpirationDays: config.CleanupExpirationDays,
			OnRemoved: func(count int) {
				appMetrics.CleanupRemoved.Add(float64(count))
			},
			PhotoService: photoService,
			Store:        objectStore,
		})

		cleanupService.StartCleanupRoutine(24 * time.Hour)
		defer cleanupService.StopCleanupRoutine()

		thumbnailService = thumbnails.NewThumbnailCreatorService(thumbnails.ThumbnailCreatorConfig{
			MaxWorkers:  config.MaxThumbnailWorkers,
			OnCreated:   appMetrics.ThumbnailsCreated.Inc,
			ShutdownCtx: shutdownCtx,
			Store:       objectStore,
		})

		jobs := setupThumbnailCreator()
		defer func() {
			if err := jobs.Shutdown(); err != nil {
				slog.Error("error stopping background jobs", "error", err)
			}
		}()
	}

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func setupObjectStore() services.ObjectStore {
	var (
		err error
	)

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	s3Client, err := s3.NewClient(awsConfig)

	if err != nil {
		panic(err)
	}

	return services.NewS3ObjectStore(services.S3ObjectStoreConfig{
		Bucket:   config.AwsBucket,
		Region:   config.AwsRegion,
		S3Client: s3Client,
	})
}

func setupThumbnailCreator() gocron.Scheduler {
	scheduler, err := gocron.NewScheduler()

	if err != nil {
		panic(err)
	}

	if _, err = thumbnailService.Schedule(scheduler, time.Hour); err != nil {
		panic(err)
	}

	scheduler.Start()
	return scheduler
}
