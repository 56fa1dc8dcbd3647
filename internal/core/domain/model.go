package domain

import "fmt"

// ModelName identifies a supported upscaling model.
type ModelName string

const (
	ModelRealESRGANx4Plus        ModelName = "RealESRGAN_x4plus"
	ModelRealESRGANx2Plus        ModelName = "RealESRGAN_x2plus"
	ModelRealESRGANx4PlusAnime6B ModelName = "RealESRGAN_x4plus_anime_6B"
	ModelRealESRAnimeVideoV3     ModelName = "realesr-animevideov3"
	ModelRealESRGeneralX4V3      ModelName = "realesr-general-x4v3"
	ModelUltraSharpX4            ModelName = "UltraSharp_x4"
)

// ArchFamily tags the network architecture behind a model.
type ArchFamily string

const (
	// ArchRRDB is the residual-dense-block network family.
	ArchRRDB ArchFamily = "rrdb"
	// ArchSRVGG is the compact sequential-conv network family.
	ArchSRVGG ArchFamily = "srvgg"
)

// Architecture carries the fixed hyperparameters of a model's network.
// NumBlock and NumGrowCh apply to rrdb, NumConv to srvgg.
type Architecture struct {
	Family    ArchFamily
	NumFeat   int
	NumBlock  int
	NumGrowCh int
	NumConv   int
}

// ModelDescriptor is the immutable registry entry for one model.
type ModelDescriptor struct {
	Name     ModelName
	Arch     Architecture
	Netscale int
	// FileURLs holds the release assets for this model's weights. The
	// denoise-capable model lists its noise-suppressed variant first and
	// the general-purpose variant last; every other model lists exactly one.
	FileURLs []string
}

type DevicePreference string

const (
	DeviceAuto DevicePreference = "auto"
	DeviceCPU  DevicePreference = "cpu"
	DeviceCUDA DevicePreference = "cuda"
	DeviceMPS  DevicePreference = "mps"
)

// Backend is a fully resolved execution target. Unlike DevicePreference
// there is no auto value; resolution yields exactly one of these or fails.
type Backend string

const (
	BackendCPU  Backend = "cpu"
	BackendCUDA Backend = "cuda"
	BackendMPS  Backend = "mps"
)

// UpscaleRequest carries everything a caller can tune for one upscale.
type UpscaleRequest struct {
	Model           ModelName
	DenoiseStrength *float64
	Device          DevicePreference
	Tile            int
	TilePad         int
	PrePad          int
	FP32            bool
	GPUID           *int
	FaceEnhance     bool
	Outscale        float64
	Ext             string
}

// ApplyDefaults fills zero-valued fields with the defaults of the reference
// command line tooling.
func (r *UpscaleRequest) ApplyDefaults() {
	if r.Device == "" {
		r.Device = DeviceAuto
	}
	if r.TilePad == 0 {
		r.TilePad = 10
	}
	if r.Outscale == 0 {
		r.Outscale = 4
	}
	if r.Ext == "" {
		r.Ext = "auto"
	}
}

func (r *UpscaleRequest) Validate() error {
	switch r.Device {
	case DeviceAuto, DeviceCPU, DeviceCUDA, DeviceMPS:
	default:
		return fmt.Errorf("%w: unknown device preference %q", ErrInvalidRequest, r.Device)
	}

	if r.DenoiseStrength != nil && (*r.DenoiseStrength < 0 || *r.DenoiseStrength > 1) {
		return fmt.Errorf("%w: denoise strength %v out of range 0-1", ErrInvalidRequest, *r.DenoiseStrength)
	}

	if r.Tile < 0 || r.TilePad < 0 || r.PrePad < 0 {
		return fmt.Errorf("%w: negative tiling parameter", ErrInvalidRequest)
	}

	if r.Outscale <= 0 {
		return fmt.Errorf("%w: outscale must be positive", ErrInvalidRequest)
	}

	return nil
}

// EngineSpec is the fully resolved parameter set handed to the inference
// engine when building an upscaler instance.
type EngineSpec struct {
	Arch        Architecture
	Netscale    int
	WeightPaths []string
	DNIWeights  []float64
	Tile        int
	TilePad     int
	PrePad      int
	Half        bool
	GPUID       *int
	Backend     Backend
}

// ImageInfo describes a decoded input buffer.
type ImageInfo struct {
	Width    int
	Height   int
	Channels int
}

// HasAlpha reports whether the decoded buffer carries an alpha channel.
func (i ImageInfo) HasAlpha() bool {
	return i.Channels == 4
}

// UpscaleResult is the re-encoded output image and its chosen extension.
type UpscaleResult struct {
	Data      []byte
	Extension string
}

type Message struct {
	ID       int
	ChatID   int64
	Username string
	ImageURL string
	Text     string
}

type Action string

const (
	Typing       Action = "typing"
	SendingPhoto Action = "sending_photo"
)
