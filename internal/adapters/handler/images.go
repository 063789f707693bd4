package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"bildstore/internal/core/domain"
	"bildstore/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeImage = "image/jpeg"

	minWidth = 1
	maxWidth = 4096
)

type Ingestor interface {
	Upload(ctx context.Context, data []byte, declaredType string) (*domain.ImageAsset, error)
}

type VariantFetcher interface {
	Fetch(ctx context.Context, name string, width int) ([]byte, error)
}

type ImageHandler struct {
	uploader       Ingestor
	variants       VariantFetcher
	maxUploadBytes int64
}

func NewImageHandler(uploader Ingestor, variants VariantFetcher, maxUploadBytes int64) *ImageHandler {
	return &ImageHandler{uploader: uploader, variants: variants, maxUploadBytes: maxUploadBytes}
}

// Router assembles the public surface. The /images prefix matches the mount
// point the surrounding proxy routes to, so the service also runs standalone.
func Router(h *ImageHandler, verifier port.SessionVerifier) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestLogger)

	r.Route("/images", func(r chi.Router) {
		r.With(RequireSession(verifier, contentTypeJSON)).Post("/upload", h.Upload)
		r.With(RequireSession(verifier, contentTypeImage)).Get("/sig/{width}/{filename}", h.Fetch)
	})

	return r
}

type imageBody struct {
	URL         string `json:"url"`
	OriginalURL string `json:"originalUrl"`
}

type uploadResponse struct {
	Image imageBody `json:"image"`
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, h.maxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		writeError(w, http.StatusBadRequest, "upload too large")
		return
	}

	asset, err := h.uploader.Upload(r.Context(), data, r.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMimeTypeMismatch):
			writeError(w, http.StatusMethodNotAllowed, err.Error())
		case errors.Is(err, domain.ErrDecodeFailed):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Err(err).Msg("upload failed")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{Image: imageBody{
		URL:         asset.URL,
		OriginalURL: asset.OriginalURL,
	}})
}

func (h *ImageHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	width, err := strconv.Atoi(chi.URLParam(r, "width"))
	if err != nil || width < minWidth || width > maxWidth {
		writeError(w, http.StatusBadRequest, "invalid width")
		return
	}

	name := chi.URLParam(r, "filename")

	data, err := h.variants.Fetch(r.Context(), name, width)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		if errors.Is(err, domain.ErrDecodeFailed) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Err(err).Str("name", name).Int("width", width).Msg("fetch failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", contentTypeImage)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		log.Err(err).Msg("failed to stream image")
	}
}
