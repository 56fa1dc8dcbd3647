package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	assert.Equal(t, "/upscale", ParseCommand("/upscale RealESRGAN_x4plus"))
	assert.Equal(t, "/upscale", ParseCommand("/UPSCALE"))
	assert.Equal(t, "/models", ParseCommand("/models"))
}

func TestParseCommandArgs(t *testing.T) {
	assert.Equal(t, "RealESRGAN_x4plus face", ParseCommandArgs("/upscale RealESRGAN_x4plus face"))
	assert.Equal(t, "", ParseCommandArgs("/upscale"))
}
