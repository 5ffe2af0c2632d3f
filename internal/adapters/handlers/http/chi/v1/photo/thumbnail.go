package photo

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"photodrop/internal/belt"
	"photodrop/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// thumbnailCacheControl marks thumbnails as immutable: an artifact's bytes
// never change, a new thumbnail is a new artifact under a new URL.
const thumbnailCacheControl = "max-age=31536000, immutable"

// GetThumbnailV1 is the function that handles thumbnail fetch. The stored
// bytes are compressed; when the client's Accept-Encoding covers the stored
// codec they are passed through untouched with a Content-Encoding header,
// otherwise they are decompressed on the way out. Thumbnails are never
// compressed on the fly for clients that accept more than what is stored.
func (h *HandlerV1) GetThumbnailV1(w http.ResponseWriter, r *http.Request) {

	photoID := chi.URLParam(r, "photoID")
	uuidPhotoID, parseErr := uuid.Parse(photoID)
	if parseErr != nil {
		http.Error(w, parseErr.Error(), http.StatusBadRequest)
		return
	}

	payload, err := h.ingestService.FetchPhotoThumbnail(r.Context(), uuidPhotoID)
	switch {
	case errors.Is(err, domain.ErrPhotoNotFound),
		errors.Is(err, domain.ErrImageNotFound),
		errors.Is(err, domain.ErrArtifactNotFound):
		http.Error(w, "photo not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error fetching thumbnail", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	data := payload.Data
	// closing the final belt unwinds any producer still running behind it,
	// e.g. after a client disconnect mid-stream
	defer func() { data.Close() }()
	encoding := string(data.Compression())
	if encoding != "" {
		if acceptsEncoding(r, encoding) {
			w.Header().Set("Content-Encoding", encoding)
		} else {
			plain, err := data.AdaptToNoCompression()
			if err != nil {
				h.logger.Error("error decompressing thumbnail", "error", err)
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
			data = plain
		}
	}

	w.Header().Set("Content-Type", contentType(payload.Artifact))
	w.Header().Set("Cache-Control", thumbnailCacheControl)
	w.WriteHeader(http.StatusOK)
	if err := streamBelt(w, data); err != nil {
		// headers are gone, all we can do is log
		h.logger.Error("error streaming thumbnail", "photo_id", uuidPhotoID, "error", err)
	}
}

func contentType(artifact *domain.Artifact) string {
	if artifact.StatedMimeType != "" {
		return artifact.StatedMimeType
	}
	return "application/octet-stream"
}

// acceptsEncoding reports whether the request's Accept-Encoding lists
// encoding with a quality above zero. "zstd;q=0" is an explicit refusal,
// not an acceptance.
func acceptsEncoding(r *http.Request, encoding string) bool {
	accept := r.Header.Get("Accept-Encoding")
	for _, part := range strings.Split(accept, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(strings.TrimSpace(name), encoding) {
			return qValue(params) > 0
		}
	}
	return false
}

func qValue(params string) float64 {
	for _, param := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0
		}
		return q
	}
	return 1
}

func streamBelt(w io.Writer, data *belt.Belt) error {
	_, err := io.Copy(w, data)
	return err
}
