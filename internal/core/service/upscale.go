package service

import (
	"context"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"
	"github.com/dmcooller/Real-ESRGAN/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Upscaler composes registry lookup, weight resolution, device selection,
// denoise blending and the inference engine into one synchronous pipeline.
// Each call runs to completion on the calling goroutine; there are no
// retries, and every failure propagates to the caller.
type Upscaler struct {
	weights port.WeightStore
	probe   port.DeviceProbe
	engines port.EngineFactory
	codec   port.ImageCodec
}

func NewUpscaler(weights port.WeightStore, probe port.DeviceProbe, engines port.EngineFactory,
	codec port.ImageCodec) *Upscaler {
	return &Upscaler{weights: weights, probe: probe, engines: engines, codec: codec}
}

func (s *Upscaler) Upscale(ctx context.Context, image []byte,
	request domain.UpscaleRequest) (domain.UpscaleResult, error) {
	request.ApplyDefaults()
	if err := request.Validate(); err != nil {
		return domain.UpscaleResult{}, err
	}

	descriptor, err := domain.Lookup(request.Model)
	if err != nil {
		return domain.UpscaleResult{}, err
	}

	localPaths, err := s.weights.EnsureLocal(ctx, descriptor.FileURLs)
	if err != nil {
		return domain.UpscaleResult{}, err
	}

	weightPaths, dniWeights := BlendWeights(request.Model, localPaths, request.DenoiseStrength)

	backend, err := ResolveBackend(request.Device, s.probe)
	if err != nil {
		return domain.UpscaleResult{}, err
	}

	info, err := s.codec.Probe(image)
	if err != nil {
		return domain.UpscaleResult{}, err
	}

	upscaler, err := s.engines.NewUpscaler(domain.EngineSpec{
		Arch:        descriptor.Arch,
		Netscale:    descriptor.Netscale,
		WeightPaths: weightPaths,
		DNIWeights:  dniWeights,
		Tile:        request.Tile,
		TilePad:     request.TilePad,
		PrePad:      request.PrePad,
		Half:        HalfPrecision(request.FP32, backend),
		GPUID:       request.GPUID,
		Backend:     backend,
	})
	if err != nil {
		return domain.UpscaleResult{}, err
	}

	if request.FaceEnhance {
		facePaths, err := s.weights.EnsureLocal(ctx, []string{domain.FaceRestoreModelURL})
		if err != nil {
			return domain.UpscaleResult{}, err
		}

		upscaler = s.engines.NewFaceEnhancer(upscaler, facePaths[0])
	}

	output, err := upscaler.Enhance(ctx, image, request.Outscale)
	if err != nil {
		log.Error().Err(err).
			Str("model", string(request.Model)).
			Str("backend", string(backend)).
			Int("tile", request.Tile).
			Msg("enhancement failed")
		return domain.UpscaleResult{}, err
	}

	extension := ExtensionFor(info.HasAlpha(), request.Ext)

	encoded, err := s.codec.Transcode(output, extension)
	if err != nil {
		return domain.UpscaleResult{}, err
	}

	return domain.UpscaleResult{Data: encoded, Extension: extension}, nil
}

// ExtensionFor chooses the output extension. Alpha always forces png,
// overriding the request; "auto" means jpg.
func ExtensionFor(hasAlpha bool, requested string) string {
	if hasAlpha {
		return "png"
	}

	if requested == "auto" {
		return "jpg"
	}

	return requested
}
