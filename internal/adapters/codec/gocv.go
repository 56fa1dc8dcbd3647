//go:build gocv
// +build gocv

package codec

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"
)

// GoCVCodec decodes and encodes image buffers through OpenCV, preserving
// the channel count so alpha detection works on 4-channel inputs.
type GoCVCodec struct{}

func NewGoCVCodec() *GoCVCodec {
	return &GoCVCodec{}
}

func (c *GoCVCodec) Probe(data []byte) (domain.ImageInfo, error) {
	mat, err := decodeUnchanged(data)
	if err != nil {
		return domain.ImageInfo{}, err
	}
	defer mat.Close()

	return domain.ImageInfo{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
	}, nil
}

func (c *GoCVCodec) Transcode(data []byte, extension string) ([]byte, error) {
	mat, err := decodeUnchanged(data)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	buf, err := gocv.IMEncode(gocv.FileExt("."+extension), mat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncodingFailed, err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())

	return out, nil
}

func decodeUnchanged(data []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil || mat.Empty() {
		mat.Close()
		return gocv.Mat{}, domain.ErrDecodingFailed
	}

	return mat, nil
}
