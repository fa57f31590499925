// Package imagegen talks to the external generative-image service.
package imagegen

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/DaanHessen/cometcondo/internal/engine"
	"github.com/DaanHessen/cometcondo/internal/util"
)

var (
	// ErrNoImage aliases the engine sentinel so callers can match either.
	ErrNoImage = engine.ErrNoImage
	// ErrNoCredential is returned by the offline gateway.
	ErrNoCredential = errors.New("image generation unavailable: no API key configured")
	// ErrNoPhoto rejects avatar requests without a reference image.
	ErrNoPhoto = errors.New("avatar render requires a reference photo")
)

// Gateway renders images for listings and avatars. It does not deduplicate;
// callers guard against concurrent requests for the same target.
type Gateway interface {
	PropertyRender(ctx context.Context, p engine.Property) (engine.ImageRef, error)
	AvatarRender(ctx context.Context, photo engine.ImageRef, d engine.AvatarDesign) (engine.ImageRef, error)
}

// NewGateway returns the Gemini-backed gateway when an API key is configured,
// and the offline gateway otherwise.
func NewGateway(ctx context.Context, cfg util.Config, log *zap.Logger) (Gateway, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.APIKey == "" {
		log.Warn("no API key configured, image generation disabled")
		return offlineGateway{}, nil
	}
	return NewGenAIGateway(ctx, cfg.APIKey, cfg.Model, log)
}

// offlineGateway fails every request so the UI shows its retryable error.
type offlineGateway struct{}

func (offlineGateway) PropertyRender(context.Context, engine.Property) (engine.ImageRef, error) {
	return engine.ImageRef{}, ErrNoCredential
}

func (offlineGateway) AvatarRender(context.Context, engine.ImageRef, engine.AvatarDesign) (engine.ImageRef, error) {
	return engine.ImageRef{}, ErrNoCredential
}
