package storyclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/adampresley/couplestory/pkg/counter"
	"github.com/adampresley/couplestory/pkg/models"
	"github.com/adampresley/couplestory/pkg/retry"
	"github.com/adampresley/couplestory/pkg/ttlcache"
	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultUploadTimeout  = 30 * time.Second
)

var (
	ErrFilenameRequired = errors.New("no file provided to upload")
	ErrRequestTimedOut  = errors.New("request timed out")
	ErrUploadTimedOut   = errors.New("the upload took too long and was cancelled")
)

/*
APIError is returned for any non-2xx response.
*/
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type UploadResult struct {
	FileURL string `json:"file_url"`
	IsMock  bool   `json:"isMock"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type uploadResponse struct {
	URL     string `json:"url"`
	IsMock  bool   `json:"isMock"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Config struct {
	BaseURL        string
	HTTPClient     *http.Client
	Clock          clockwork.Clock
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	Retry          *retry.Config
}

/*
Client talks to the story server's JSON API. The configuration returned by
List is kept for CacheTTL so repeated page loads do not refetch it.
*/
type Client struct {
	baseURL        string
	httpClient     *http.Client
	clock          clockwork.Clock
	cache          *ttlcache.Cache[models.CoupleConfig]
	requestTimeout time.Duration
	uploadTimeout  time.Duration
	retry          retry.Config
}

func New(config Config) *Client {
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}

	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}

	if config.UploadTimeout <= 0 {
		config.UploadTimeout = DefaultUploadTimeout
	}

	retryConfig := retry.DefaultConfig()

	if config.Retry != nil {
		retryConfig = *config.Retry
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: config.HTTPClient,
		clock:      config.Clock,
		cache: ttlcache.New[models.CoupleConfig](ttlcache.Config{
			Clock: config.Clock,
			TTL:   config.CacheTTL,
		}),
		requestTimeout: config.RequestTimeout,
		uploadTimeout:  config.UploadTimeout,
		retry:          retryConfig,
	}
}

/*
List returns the stored configuration as a one element slice, or an empty
slice when there is none. Failures are logged and also yield an empty slice
so the page can still render.
*/
func (c *Client) List(ctx context.Context) []models.CoupleConfig {
	var (
		err    error
		result *models.CoupleConfig
	)

	if cached, ok := c.cache.Get(); ok {
		slog.Debug("using cached couple config")
		return []models.CoupleConfig{cached}
	}

	if err = c.do(ctx, http.MethodGet, "/api/config", nil, &result); err != nil {
		slog.Error("error listing couple config", "error", err)
		return []models.CoupleConfig{}
	}

	if result == nil {
		slog.Info("no couple config found")
		return []models.CoupleConfig{}
	}

	c.cache.Set(*result)
	return []models.CoupleConfig{*result}
}

func (c *Client) Create(ctx context.Context, data models.CoupleConfigRequest) (*models.CoupleConfig, error) {
	data.ID = nil
	return c.save(ctx, data)
}

/*
Update posts to the same endpoint as Create with the id carried in the body.
*/
func (c *Client) Update(ctx context.Context, id uint, data models.CoupleConfigRequest) (*models.CoupleConfig, error) {
	data.ID = &id
	return c.save(ctx, data)
}

func (c *Client) ClearCache() {
	slog.Debug("clearing couple config cache")
	c.cache.Clear()
}

func (c *Client) Counter(ctx context.Context) (counter.View, error) {
	result := counter.View{}

	if err := c.do(ctx, http.MethodGet, "/api/counter", nil, &result); err != nil {
		return result, err
	}

	return result, nil
}

/*
Upload sends a file to the upload endpoint. The Content-Type comes from the
file extension and is left off when the extension is unknown, so the server
decides. When the server cannot be
reached or answers with something other than an upload result, a
placeholder URL flagged as a mock comes back instead of an error. Only a
timeout is reported as ErrUploadTimedOut.
*/
func (c *Client) Upload(ctx context.Context, filename string, body io.Reader) (UploadResult, error) {
	var (
		err      error
		req      *http.Request
		resp     *http.Response
		response uploadResponse
	)

	if strings.TrimSpace(filename) == "" || body == nil {
		return UploadResult{}, ErrFilenameRequired
	}

	start := c.clock.Now()

	uploadCtx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	endpoint := c.baseURL + "/api/upload?filename=" + url.QueryEscape(filename)

	if req, err = http.NewRequestWithContext(uploadCtx, http.MethodPost, endpoint, body); err != nil {
		return placeholderResult(filename, err.Error()), nil
	}

	if contentType := mime.TypeByExtension(path.Ext(filename)); contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if resp, err = c.httpClient.Do(req); err != nil {
		if isTimeout(ctx, err) {
			return UploadResult{}, ErrUploadTimedOut
		}

		slog.Error("error uploading file", "filename", filename, "error", err)
		return placeholderResult(filename, err.Error()), nil
	}

	defer resp.Body.Close()

	if err = json.NewDecoder(resp.Body).Decode(&response); err != nil {
		if isTimeout(ctx, err) {
			return UploadResult{}, ErrUploadTimedOut
		}

		slog.Error("invalid upload response", "filename", filename, "status", resp.StatusCode, "error", err)
		return placeholderResult(filename, "invalid response from server"), nil
	}

	if response.URL != "" {
		elapsed := c.clock.Since(start)

		if response.IsMock {
			slog.Warn("upload returned a placeholder URL, storage is not configured", "elapsed", elapsed, "url", response.URL)
		} else {
			slog.Info("upload complete", "elapsed", elapsed, "url", response.URL)
		}

		return UploadResult{
			FileURL: response.URL,
			IsMock:  response.IsMock,
			Success: response.Success,
		}, nil
	}

	message := response.Error

	if message == "" {
		message = response.Message
	}

	if message == "" {
		message = "unknown upload error"
	}

	slog.Error("upload failed", "filename", filename, "status", resp.StatusCode, "error", message)
	return placeholderResult(filename, message), nil
}

func (c *Client) save(ctx context.Context, data models.CoupleConfigRequest) (*models.CoupleConfig, error) {
	var (
		err    error
		result *models.CoupleConfig
	)

	if err = c.do(ctx, http.MethodPost, "/api/config", data, &result); err != nil {
		return nil, err
	}

	if result != nil {
		c.cache.Set(*result)
	}

	return result, nil
}

/*
do performs one API call. Each attempt gets its own timeout and only a
timed out attempt is retried. An empty response body leaves dest untouched.
*/
func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	var (
		err  error
		body []byte
	)

	if payload != nil {
		if body, err = json.Marshal(payload); err != nil {
			return fmt.Errorf("error encoding request for %s %s: %w", method, path, err)
		}
	}

	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(attemptCtx, method, c.baseURL+path, bytes.NewReader(body))

		if err != nil {
			return retry.Permanent(fmt.Errorf("error creating request for %s %s: %w", method, path, err))
		}

		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)

		if err != nil {
			if isTimeout(ctx, err) {
				return fmt.Errorf("%w: %s %s", ErrRequestTimedOut, method, path)
			}

			return retry.Permanent(fmt.Errorf("error calling %s %s: %w", method, path, err))
		}

		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)

		if err != nil {
			if isTimeout(ctx, err) {
				return fmt.Errorf("%w: %s %s", ErrRequestTimedOut, method, path)
			}

			return retry.Permanent(fmt.Errorf("error reading response from %s %s: %w", method, path, err))
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return retry.Permanent(newAPIError(resp.StatusCode, raw))
		}

		if len(bytes.TrimSpace(raw)) == 0 || dest == nil {
			return nil
		}

		if err = json.Unmarshal(raw, dest); err != nil {
			return retry.Permanent(fmt.Errorf("error decoding response from %s %s: %w", method, path, err))
		}

		return nil
	}

	return retry.Do(ctx, method+" "+path, operation, c.retry)
}

func newAPIError(status int, raw []byte) *APIError {
	body := struct {
		Message string `json:"message"`
	}{}

	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		body.Message = fmt.Sprintf("http error, status %d", status)
	}

	return &APIError{
		Status:  status,
		Message: body.Message,
	}
}

/*
isTimeout reports whether err came from a deadline of our own rather than
from the caller cancelling ctx.
*/
func isTimeout(ctx context.Context, err error) bool {
	var (
		netErr net.Error
	)

	if ctx.Err() != nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return errors.As(err, &netErr) && netErr.Timeout()
}

func placeholderResult(filename, message string) UploadResult {
	return UploadResult{
		FileURL: "https://placehold.co/600x400?text=Error:" + url.QueryEscape(filename),
		IsMock:  true,
		Error:   message,
	}
}
