package domain

import (
	"fmt"
	"sort"
)

// models is the closed set of supported upscaling models. Architecture
// hyperparameters and release URLs are fixed per identifier.
var models = map[ModelName]ModelDescriptor{
	ModelRealESRGANx4Plus: {
		Name:     ModelRealESRGANx4Plus,
		Arch:     Architecture{Family: ArchRRDB, NumFeat: 64, NumBlock: 23, NumGrowCh: 32},
		Netscale: 4,
		FileURLs: []string{
			"https://github.com/xinntao/Real-ESRGAN/releases/download/v0.1.0/RealESRGAN_x4plus.pth",
		},
	},
	ModelRealESRGANx2Plus: {
		Name:     ModelRealESRGANx2Plus,
		Arch:     Architecture{Family: ArchRRDB, NumFeat: 64, NumBlock: 23, NumGrowCh: 32},
		Netscale: 2,
		FileURLs: []string{
			"https://github.com/xinntao/Real-ESRGAN/releases/download/v0.2.1/RealESRGAN_x2plus.pth",
		},
	},
	ModelRealESRGANx4PlusAnime6B: {
		Name:     ModelRealESRGANx4PlusAnime6B,
		Arch:     Architecture{Family: ArchRRDB, NumFeat: 64, NumBlock: 6, NumGrowCh: 32},
		Netscale: 4,
		FileURLs: []string{
			"https://github.com/xinntao/Real-ESRGAN/releases/download/v0.2.2.4/RealESRGAN_x4plus_anime_6B.pth",
		},
	},
	ModelRealESRAnimeVideoV3: {
		Name:     ModelRealESRAnimeVideoV3,
		Arch:     Architecture{Family: ArchSRVGG, NumFeat: 64, NumConv: 16},
		Netscale: 4,
		FileURLs: []string{
			"https://github.com/xinntao/Real-ESRGAN/releases/download/v0.2.5.0/realesr-animevideov3.pth",
		},
	},
	ModelRealESRGeneralX4V3: {
		Name:     ModelRealESRGeneralX4V3,
		Arch:     Architecture{Family: ArchSRVGG, NumFeat: 64, NumConv: 32},
		Netscale: 4,
		// Noise-suppressed variant first, general-purpose variant last.
		FileURLs: []string{
			"https://github.com/xinntao/Real-ESRGAN/releases/download/v0.2.5.0/realesr-general-wdn-x4v3.pth",
			"https://github.com/xinntao/Real-ESRGAN/releases/download/v0.2.5.0/realesr-general-x4v3.pth",
		},
	},
	ModelUltraSharpX4: {
		Name:     ModelUltraSharpX4,
		Arch:     Architecture{Family: ArchRRDB, NumFeat: 64, NumBlock: 23, NumGrowCh: 32},
		Netscale: 4,
		FileURLs: []string{
			"https://github.com/dmcooller/Not-Real-ESRGAN/releases/download/v0.3.1/UltraSharp_x4.pth",
		},
	},
}

// Lookup resolves a model identifier to its descriptor. Pure and
// deterministic; unknown identifiers fail with ErrInvalidModel before any
// I/O happens downstream.
func Lookup(name ModelName) (ModelDescriptor, error) {
	desc, ok := models[name]
	if !ok {
		return ModelDescriptor{}, fmt.Errorf("%w: %q", ErrInvalidModel, name)
	}

	return desc, nil
}

// ModelNames returns the supported identifiers in stable order.
func ModelNames() []ModelName {
	names := make([]ModelName, 0, len(models))
	for name := range models {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}
