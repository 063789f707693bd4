package service

import (
	"context"
	"errors"
	"fmt"

	"bildstore/internal/core/domain"
	"bildstore/internal/core/port"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Variants serves width-scaled renditions of stored assets, deriving them
// lazily on first request and memoizing the result in the store's variant
// namespace. Cold keys are derived at most once at a time: concurrent
// requests for the same (name, width) share a single in-flight derivation.
type Variants struct {
	store     port.Store
	converter port.ImageConverter
	group     singleflight.Group
}

func NewVariants(store port.Store, converter port.ImageConverter) *Variants {
	return &Variants{store: store, converter: converter}
}

func (v *Variants) Fetch(_ context.Context, name string, width int) ([]byte, error) {
	cached, err := v.store.GetVariant(name, width)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("reading variant cache: %w", err)
	}

	key := fmt.Sprintf("%s/%d", name, width)
	result, err, shared := v.group.Do(key, func() (any, error) {
		return v.derive(name, width)
	})
	if err != nil {
		return nil, err
	}

	if shared {
		log.Debug().Str("key", key).Msg("joined in-flight derivation")
	}

	return result.([]byte), nil
}

func (v *Variants) derive(name string, width int) ([]byte, error) {
	// A concurrent flight may have completed between the outer cache check
	// and entering this one.
	if cached, err := v.store.GetVariant(name, width); err == nil {
		return cached, nil
	}

	original, err := v.store.Get(name)
	if err != nil {
		return nil, err
	}

	resized, err := v.converter.Resize(original, width)
	if err != nil {
		return nil, err
	}

	if err := v.store.PutVariant(name, width, resized); err != nil {
		return nil, fmt.Errorf("caching variant: %w", err)
	}

	log.Debug().Str("name", name).Int("width", width).Int("bytes", len(resized)).Msg("derived variant")

	return resized, nil
}
