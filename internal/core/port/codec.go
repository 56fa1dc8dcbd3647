package port

import "github.com/dmcooller/Real-ESRGAN/internal/core/domain"

type ImageCodec interface {
	// Probe decodes raw image bytes far enough to report dimensions and
	// channel count, preserving a possible alpha channel.
	Probe(data []byte) (domain.ImageInfo, error)
	// Transcode re-encodes raw image bytes into the given extension's
	// format and returns the serialized buffer.
	Transcode(data []byte, extension string) ([]byte, error)
}
