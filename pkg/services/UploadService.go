package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/adampresley/adamgokit/slices"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

//go:generate go run go.uber.org/mock/mockgen -source=UploadService.go -destination=mocks/UploadService.go -package=mocks

const (
	PhotosFolder     = "photos"
	MusicFolder      = "music"
	UploadsFolder    = "uploads"
	ThumbnailsFolder = "thumbnails"
	MediaURLPrefix   = "/media/"

	PlaceholderAudioURL = "https://www2.cs.uic.edu/~i101/SoundFiles/BabyElephantWalk60.wav"
)

var (
	ErrFilenameRequired = errors.New("filename parameter is required")
	ErrBodyRequired     = errors.New("request body is required")

	ImageExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}
	AudioExtensions = []string{"mp3", "wav", "ogg"}

	audioMimeTypes = map[string]string{
		"mp3": "audio/mpeg",
		"wav": "audio/wav",
		"ogg": "audio/ogg",
	}

	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

type UploadServicer interface {
	Upload(ctx context.Context, request UploadRequest) (UploadResult, error)
}

type UploadRequest struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	SizeBytes   int64  `json:"sizeBytes"`
	IsMock      bool   `json:"isMock"`
	Success     bool   `json:"success"`
}

type UploadServiceConfig struct {
	Clock          clockwork.Clock
	StorageEnabled bool
	Store          ObjectStore
}

type UploadService struct {
	clock          clockwork.Clock
	storageEnabled bool
	store          ObjectStore
}

func NewUploadService(config UploadServiceConfig) UploadService {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	return UploadService{
		clock:          config.Clock,
		storageEnabled: config.StorageEnabled && config.Store != nil,
		store:          config.Store,
	}
}

/*
Upload stores a photo or a music file. Images land under photos/uploads and
everything else under music/uploads. When storage is disabled nothing is
stored and a placeholder URL comes back flagged as a mock.
*/
func (s UploadService) Upload(ctx context.Context, request UploadRequest) (UploadResult, error) {
	var (
		err  error
		body []byte
	)

	filename := strings.TrimSpace(request.Filename)

	if filename == "" {
		return UploadResult{}, ErrFilenameRequired
	}

	if request.Body == nil {
		return UploadResult{}, ErrBodyRequired
	}

	if body, err = io.ReadAll(request.Body); err != nil {
		return UploadResult{}, fmt.Errorf("error reading upload body: %w", err)
	}

	if len(body) == 0 {
		return UploadResult{}, ErrBodyRequired
	}

	contentType := request.ContentType

	if !IsKnownContentType(contentType) {
		contentType = MimeTypeForName(filename)
	}

	if !s.storageEnabled {
		slog.Info("storage not configured, returning placeholder", "filename", filename)

		return UploadResult{
			URL:         PlaceholderURL(filename),
			ContentType: contentType,
			SizeBytes:   int64(len(body)),
			IsMock:      true,
			Success:     true,
		}, nil
	}

	key := s.uploadKey(filename)

	if err = s.store.PutObject(ctx, key, contentType, bytes.NewReader(body)); err != nil {
		return UploadResult{}, fmt.Errorf("error storing upload '%s': %w", filename, err)
	}

	slog.Info("upload stored", "key", key, "size", len(body), "contentType", contentType)

	return UploadResult{
		URL:         MediaURL(key),
		Key:         key,
		ContentType: contentType,
		SizeBytes:   int64(len(body)),
		Success:     true,
	}, nil
}

func (s UploadService) uploadKey(filename string) string {
	return path.Join(
		FolderFor(filename),
		UploadsFolder,
		fmt.Sprintf("%d_%s_%s", s.clock.Now().UnixMilli(), uuid.NewString(), SanitizeFilename(filename)),
	)
}

func Extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
}

func IsImage(filename string) bool {
	return slices.IsInSlice(Extension(filename), ImageExtensions)
}

func IsAudio(filename string) bool {
	return slices.IsInSlice(Extension(filename), AudioExtensions)
}

/*
FolderFor picks the top level folder an upload is stored under.
*/
func FolderFor(filename string) string {
	if IsImage(filename) {
		return PhotosFolder
	}

	return MusicFolder
}

func SanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = unsafeFilenameChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-.")

	if base == "" {
		return "file"
	}

	return base
}

/*
IsKnownContentType reports whether a request's Content-Type says anything
about the file. Generic binary and form types do not.
*/
func IsKnownContentType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")

	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "", "application/octet-stream", "application/x-www-form-urlencoded", "binary/octet-stream":
		return false
	}

	return true
}

func MimeTypeForName(filename string) string {
	ext := Extension(filename)

	if ext == "" {
		return "application/octet-stream"
	}

	if result, ok := audioMimeTypes[ext]; ok {
		return result
	}

	if result := mime.TypeByExtension("." + ext); result != "" {
		return result
	}

	if IsImage(filename) {
		return "image/" + ext
	}

	return "application/octet-stream"
}

/*
PlaceholderURL is what an upload resolves to when storage is not configured.
*/
func PlaceholderURL(filename string) string {
	switch {
	case IsImage(filename):
		return fmt.Sprintf("https://placehold.co/600x400?text=%s", url.QueryEscape(path.Base(filename)))

	case IsAudio(filename):
		return PlaceholderAudioURL

	default:
		return "https://example.com/" + url.PathEscape(path.Base(filename))
	}
}

func MediaURL(key string) string {
	return MediaURLPrefix + strings.TrimPrefix(key, "/")
}

/*
KeyFromMediaURL returns the storage key behind a /media/ URL, or an empty
string for anything else.
*/
func KeyFromMediaURL(value string) string {
	if parsed, err := url.Parse(value); err == nil && parsed.Path != "" {
		value = parsed.Path
	}

	if !strings.HasPrefix(value, MediaURLPrefix) {
		return ""
	}

	return strings.TrimPrefix(value, MediaURLPrefix)
}
