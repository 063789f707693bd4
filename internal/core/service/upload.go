package service

import (
	"context"
	"fmt"
	"strings"

	"bildstore/internal/core/domain"
	"bildstore/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Uploader runs the ingestion pipeline: sniff the real media type, normalize
// to the canonical format, persist original and canonical bytes.
type Uploader struct {
	store     port.Store
	converter port.ImageConverter
}

func NewUploader(store port.Store, converter port.ImageConverter) *Uploader {
	return &Uploader{store: store, converter: converter}
}

func (u *Uploader) Upload(_ context.Context, data []byte, declaredType string) (*domain.ImageAsset, error) {
	detected := domain.DetectMediaType(data)

	if declared := normalizeDeclared(declaredType); declared != "" && declared != string(detected) {
		log.Warn().
			Str("declared", declared).
			Str("detected", detected.String()).
			Msg("declared content type does not match sniffed type")
	}

	if !detected.Supported() {
		return nil, fmt.Errorf("%w (detected %s)", domain.ErrMimeTypeMismatch, detected)
	}

	// JPEG input is already canonical and is stored exactly once.
	if detected == domain.MediaTypeJPEG {
		name, err := u.store.Put(data, detected.Ext())
		if err != nil {
			return nil, fmt.Errorf("storing upload: %w", err)
		}

		log.Debug().Str("name", name).Int("bytes", len(data)).Msg("stored jpeg upload")

		return &domain.ImageAsset{
			ID:          name,
			URL:         name,
			OriginalURL: name,
		}, nil
	}

	// Normalize before persisting anything, so a corrupt upload never
	// leaves an undecodable original in the store.
	canonical, err := u.converter.Normalize(data, detected)
	if err != nil {
		return nil, err
	}

	originalName, err := u.store.Put(data, detected.Ext())
	if err != nil {
		return nil, fmt.Errorf("storing original: %w", err)
	}

	canonicalName, err := u.store.Put(canonical, domain.CanonicalExt)
	if err != nil {
		return nil, fmt.Errorf("storing canonical: %w", err)
	}

	log.Debug().
		Str("original", originalName).
		Str("canonical", canonicalName).
		Str("type", string(detected)).
		Msg("stored converted upload")

	return &domain.ImageAsset{
		ID:          canonicalName,
		URL:         canonicalName,
		OriginalURL: originalName,
	}, nil
}

func normalizeDeclared(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
