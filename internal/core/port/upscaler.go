package port

import (
	"context"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"
)

type Upscaler interface {
	// Enhance runs the upscaling pass on raw image bytes and returns the
	// produced image, png-serialized. Upscaler instances hold
	// accelerator-bound state and are not safe for concurrent reuse.
	Enhance(ctx context.Context, image []byte, outscale float64) ([]byte, error)
}

type EngineFactory interface {
	// NewUpscaler builds an upscaler instance from a fully resolved
	// parameter set.
	NewUpscaler(spec domain.EngineSpec) (Upscaler, error)
	// NewFaceEnhancer wraps a base upscaler with a face-restoration stage
	// that detects, aligns and restores faces, compositing them back onto
	// the base upscaler's output.
	NewFaceEnhancer(base Upscaler, faceWeightsPath string) Upscaler
}

type UpscaleService interface {
	// Upscale runs the full pipeline on raw image bytes and returns the
	// re-encoded result.
	Upscale(ctx context.Context, image []byte, request domain.UpscaleRequest) (domain.UpscaleResult, error)
}
