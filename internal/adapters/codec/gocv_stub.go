//go:build !gocv
// +build !gocv

package codec

import (
	"errors"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"
)

type GoCVCodec struct{}

// NewGoCVCodec creates a codec stub for builds without OpenCV.
func NewGoCVCodec() *GoCVCodec {
	return &GoCVCodec{}
}

// Probe returns an error when built without the gocv tag.
func (c *GoCVCodec) Probe(data []byte) (domain.ImageInfo, error) {
	_ = data
	return domain.ImageInfo{}, errors.New("gocv build tag is not enabled")
}

// Transcode returns an error when built without the gocv tag.
func (c *GoCVCodec) Transcode(data []byte, extension string) ([]byte, error) {
	_ = data
	_ = extension
	return nil, errors.New("gocv build tag is not enabled")
}
