package domain

import "errors"

var (
	ErrInvalidModel      = errors.New("invalid model name")
	ErrInvalidRequest    = errors.New("invalid upscale request")
	ErrDeviceUnavailable = errors.New("requested device not available")
	ErrDownloadFailed    = errors.New("weight download failed")
	ErrDecodingFailed    = errors.New("failed to decode input image")
	ErrInferenceFailed   = errors.New("inference engine failed")
	ErrEncodingFailed    = errors.New("failed to encode output image")
	ErrMissingImage      = errors.New("missing image")
)

// FaceRestoreModelURL is the release asset for the face-restoration model,
// fetched lazily only when face enhancement is requested.
const FaceRestoreModelURL = "https://github.com/TencentARC/GFPGAN/releases/download/v1.3.0/GFPGANv1.3.pth"
