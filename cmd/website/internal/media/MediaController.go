package media

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/couplestory/pkg/services"
)

const (
	CacheControl = "public, max-age=86400"
)

type MediaControllerConfig struct {
	Store services.ObjectStore
}

type MediaController struct {
	store services.ObjectStore
}

func NewMediaController(config MediaControllerConfig) MediaController {
	return MediaController{
		store: config.Store,
	}
}

/*
GET /media/{key...}
*/
func (c MediaController) ServeMedia(w http.ResponseWriter, r *http.Request) {
	key, ok := CleanKey(r.PathValue("key"))

	if !ok {
		httphelpers.WriteText(w, http.StatusNotFound, "not found")
		return
	}

	object, err := c.store.GetObject(r.Context(), key)

	if err != nil {
		slog.Error("error getting media object", "error", err, "key", key)
		httphelpers.WriteText(w, http.StatusNotFound, "not found")
		return
	}

	defer object.Body.Close()

	contentType := object.ContentType

	if contentType == "" {
		contentType = services.MimeTypeForName(key)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", CacheControl)

	if object.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", object.Size))
	}

	if _, err = io.Copy(w, object.Body); err != nil {
		slog.Error("error streaming media object", "error", err, "key", key)
	}
}

/*
CleanKey accepts only keys under the photos and music folders and refuses
anything that climbs out of them.
*/
func CleanKey(key string) (string, bool) {
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}

	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	folder, _, _ := strings.Cut(cleaned, "/")

	if folder != services.PhotosFolder && folder != services.MusicFolder {
		return "", false
	}

	return cleaned, true
}
