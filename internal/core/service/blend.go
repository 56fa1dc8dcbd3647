package service

import "github.com/dmcooller/Real-ESRGAN/internal/core/domain"

// BlendWeights resolves which weight files the engine loads and, for the
// one model shipping a noise-suppressed variant, the dni interpolation
// vector between its general-purpose and noise-suppressed weight sets.
//
// localPaths holds the cached weight paths in descriptor URL order, so for
// the blend-capable model the noise-suppressed variant comes first and the
// general-purpose variant last. A strength of exactly 1 (or none) skips
// blending and loads only the general-purpose weights. The returned dni
// vector is [strength, 1-strength], always summing to 1.
func BlendWeights(model domain.ModelName, localPaths []string, strength *float64) ([]string, []float64) {
	primary := localPaths[len(localPaths)-1]

	if model != domain.ModelRealESRGeneralX4V3 || strength == nil || *strength == 1 {
		return []string{primary}, nil
	}

	return []string{primary, localPaths[0]}, []float64{*strength, 1 - *strength}
}
