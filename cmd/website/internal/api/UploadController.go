package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/adampresley/couplestory/cmd/website/internal/metrics"
	"github.com/adampresley/couplestory/cmd/website/internal/ratelimit"
	"github.com/adampresley/couplestory/pkg/services"
)

const (
	DefaultMaxUploadBytes int64 = 25 << 20
)

type UploadControllerConfig struct {
	ClientIP       func(r *http.Request) string
	Limiter        ratelimit.Limiter
	MaxUploadBytes int64
	Metrics        *metrics.Metrics
	UploadService  services.UploadServicer
}

type UploadController struct {
	clientIP       func(r *http.Request) string
	limiter        ratelimit.Limiter
	maxUploadBytes int64
	metrics        *metrics.Metrics
	uploadService  services.UploadServicer
}

func NewUploadController(config UploadControllerConfig) UploadController {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}

	if config.ClientIP == nil {
		config.ClientIP = ratelimit.RemoteIP
	}

	return UploadController{
		clientIP:       config.ClientIP,
		limiter:        config.Limiter,
		maxUploadBytes: config.MaxUploadBytes,
		metrics:        config.Metrics,
		uploadService:  config.UploadService,
	}
}

/*
POST /api/upload?filename={name}

The raw request body is the file.
*/
func (c UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	var (
		err      error
		result   services.UploadResult
		tooLarge *http.MaxBytesError
	)

	ip := c.clientIP(r)

	if c.limiter != nil && !c.limiter.Allow(ip) {
		slog.Warn("upload rate limit reached", "ip", ip)

		if c.metrics != nil {
			c.metrics.UploadsLimited.Inc()
		}

		writeError(w, http.StatusTooManyRequests, "too many uploads, try again in a moment", nil)
		return
	}

	filename := r.URL.Query().Get("filename")

	result, err = c.uploadService.Upload(r.Context(), services.UploadRequest{
		Filename:    filename,
		ContentType: r.Header.Get("Content-Type"),
		Body:        http.MaxBytesReader(w, r.Body, c.maxUploadBytes),
	})

	switch {
	case errors.Is(err, services.ErrFilenameRequired), errors.Is(err, services.ErrBodyRequired):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return

	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "file is too large", err)
		return

	case err != nil:
		slog.Error("error uploading file", "filename", filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Upload failed", err)
		return
	}

	if c.metrics != nil {
		c.metrics.ObserveUpload(services.FolderFor(filename), result.IsMock)
	}

	slog.Info("file uploaded", "filename", filename, "url", result.URL, "mock", result.IsMock)
	writeJSON(w, http.StatusOK, result)
}
