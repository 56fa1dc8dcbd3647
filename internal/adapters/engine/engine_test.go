package engine

import (
	"context"
	"testing"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunnerBinaryNotFound(t *testing.T) {
	_, err := NewRunner("definitely-not-a-real-worker-binary")
	require.Error(t, err)
}

func TestNewRunnerSkipsEmptyCommands(t *testing.T) {
	_, err := NewRunner("", "")
	require.Error(t, err)
}

func TestNewUpscalerRequiresWeights(t *testing.T) {
	factory := NewFactory(&Runner{binary: "worker"})

	_, err := factory.NewUpscaler(domain.EngineSpec{})
	require.Error(t, err)
}

func TestFaceEnhancerRequiresEngineUpscaler(t *testing.T) {
	factory := NewFactory(&Runner{binary: "worker"})

	wrapped := factory.NewFaceEnhancer(&fakeUpscaler{}, "weights/GFPGANv1.3.pth")
	_, err := wrapped.Enhance(context.Background(), []byte("img"), 4)
	require.Error(t, err)
}

type fakeUpscaler struct{}

func (f *fakeUpscaler) Enhance(_ context.Context, _ []byte, _ float64) ([]byte, error) {
	return nil, nil
}

func TestBuildArgsRRDB(t *testing.T) {
	gpu := 1
	spec := domain.EngineSpec{
		Arch:        domain.Architecture{Family: domain.ArchRRDB, NumFeat: 64, NumBlock: 23, NumGrowCh: 32},
		Netscale:    4,
		WeightPaths: []string{"weights/RealESRGAN_x4plus.pth"},
		Tile:        256,
		TilePad:     10,
		PrePad:      0,
		Half:        true,
		GPUID:       &gpu,
		Backend:     domain.BackendCUDA,
	}

	args := buildArgs(spec, "in.png", "out.png", 4)

	assert.Equal(t, []string{
		"--arch", "rrdb",
		"--scale", "4",
		"--num-feat", "64",
		"--num-block", "23",
		"--num-grow-ch", "32",
		"--weights", "weights/RealESRGAN_x4plus.pth",
		"--tile", "256",
		"--tile-pad", "10",
		"--pre-pad", "0",
		"--device", "cuda",
		"--half",
		"--gpu-id", "1",
		"--outscale", "4",
		"--input", "in.png",
		"--output", "out.png",
	}, args)
}

func TestBuildArgsSRVGGWithDNI(t *testing.T) {
	spec := domain.EngineSpec{
		Arch:     domain.Architecture{Family: domain.ArchSRVGG, NumFeat: 64, NumConv: 32},
		Netscale: 4,
		WeightPaths: []string{
			"weights/realesr-general-x4v3.pth",
			"weights/realesr-general-wdn-x4v3.pth",
		},
		DNIWeights: []float64{0.3, 0.7},
		TilePad:    10,
		Backend:    domain.BackendCPU,
	}

	args := buildArgs(spec, "in.png", "out.png", 2.5)

	assert.Contains(t, args, "--num-conv")
	assert.NotContains(t, args, "--num-block")
	assert.NotContains(t, args, "--half")
	assert.NotContains(t, args, "--gpu-id")

	assert.Equal(t, "weights/realesr-general-x4v3.pth,weights/realesr-general-wdn-x4v3.pth",
		argValue(t, args, "--weights"))
	assert.Equal(t, "0.3,0.7", argValue(t, args, "--dni"))
	assert.Equal(t, "cpu", argValue(t, args, "--device"))
	assert.Equal(t, "2.5", argValue(t, args, "--outscale"))
}

func argValue(t *testing.T, args []string, flag string) string {
	t.Helper()

	for i, a := range args {
		if a == flag {
			require.Less(t, i+1, len(args))
			return args[i+1]
		}
	}

	t.Fatalf("flag %s not found in %v", flag, args)
	return ""
}
