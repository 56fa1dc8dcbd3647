// Package engine shells out to the external inference worker that owns all
// tensor math. This module only assembles the worker's parameter set from
// the resolved model descriptor, weights, device and tiling options.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dmcooller/Real-ESRGAN/internal/adapters/file"
	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"
	"github.com/dmcooller/Real-ESRGAN/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Runner locates and invokes the inference worker binary.
type Runner struct {
	binary string
}

// NewRunner probes the candidate commands and fails if none is usable.
func NewRunner(commands ...string) (*Runner, error) {
	for _, command := range commands {
		if command == "" {
			continue
		}

		_, err := exec.Command(command, "--version").Output()
		if err != nil {
			log.Debug().Str("command", command).Msg("binary not found")
			continue
		}

		log.Debug().Str("command", command).Msg("binary found")
		return &Runner{binary: command}, nil
	}

	return nil, errors.New("inference worker binary not available")
}

func (r *Runner) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Error().Bytes("workerOutput", out).Strs("args", args).Msg("inference worker failed")
		return fmt.Errorf("%w: %v", domain.ErrInferenceFailed, err)
	}

	log.Debug().Msg("inference worker finished")

	return nil
}

// Factory builds upscaler instances bound to one worker binary.
type Factory struct {
	runner *Runner
}

func NewFactory(runner *Runner) *Factory {
	return &Factory{runner: runner}
}

func (f *Factory) NewUpscaler(spec domain.EngineSpec) (port.Upscaler, error) {
	if len(spec.WeightPaths) == 0 {
		return nil, errors.New("engine spec has no weight paths")
	}

	return &upscaler{runner: f.runner, spec: spec}, nil
}

func (f *Factory) NewFaceEnhancer(base port.Upscaler, faceWeightsPath string) port.Upscaler {
	return &faceEnhancer{base: base, faceWeightsPath: faceWeightsPath}
}

// upscaler is one accelerator-bound worker configuration. Not safe for
// concurrent reuse.
type upscaler struct {
	runner *Runner
	spec   domain.EngineSpec
	extra  []string
}

func (u *upscaler) Enhance(ctx context.Context, image []byte, outscale float64) ([]byte, error) {
	inputPath, err := file.SaveTempFile(image, ".img")
	if err != nil {
		return nil, err
	}
	defer file.RemoveTempFile(inputPath)

	outputPath, err := file.TempPath(".png")
	if err != nil {
		return nil, err
	}

	args := buildArgs(u.spec, inputPath, outputPath, outscale)
	args = append(args, u.extra...)

	if err := u.runner.run(ctx, args); err != nil {
		return nil, err
	}
	defer file.RemoveTempFile(outputPath)

	return file.GetTempFile(outputPath)
}

// faceEnhancer decorates a base upscaler with the worker's face
// restoration stage: detect, align, restore, paste back onto the base
// upscaler's output as background.
type faceEnhancer struct {
	base            port.Upscaler
	faceWeightsPath string
}

func (f *faceEnhancer) Enhance(ctx context.Context, image []byte, outscale float64) ([]byte, error) {
	base, ok := f.base.(*upscaler)
	if !ok {
		return nil, errors.New("face enhancer requires an engine-backed upscaler")
	}

	wrapped := &upscaler{
		runner: base.runner,
		spec:   base.spec,
		extra:  append([]string{"--face-enhance", "--face-weights", f.faceWeightsPath}, base.extra...),
	}

	return wrapped.Enhance(ctx, image, outscale)
}

func buildArgs(spec domain.EngineSpec, inputPath, outputPath string, outscale float64) []string {
	args := []string{
		"--arch", string(spec.Arch.Family),
		"--scale", strconv.Itoa(spec.Netscale),
		"--num-feat", strconv.Itoa(spec.Arch.NumFeat),
	}

	switch spec.Arch.Family {
	case domain.ArchRRDB:
		args = append(args,
			"--num-block", strconv.Itoa(spec.Arch.NumBlock),
			"--num-grow-ch", strconv.Itoa(spec.Arch.NumGrowCh))
	case domain.ArchSRVGG:
		args = append(args, "--num-conv", strconv.Itoa(spec.Arch.NumConv))
	}

	args = append(args, "--weights", strings.Join(spec.WeightPaths, ","))

	if len(spec.DNIWeights) > 0 {
		dni := make([]string, len(spec.DNIWeights))
		for i, w := range spec.DNIWeights {
			dni[i] = strconv.FormatFloat(w, 'g', -1, 64)
		}
		args = append(args, "--dni", strings.Join(dni, ","))
	}

	args = append(args,
		"--tile", strconv.Itoa(spec.Tile),
		"--tile-pad", strconv.Itoa(spec.TilePad),
		"--pre-pad", strconv.Itoa(spec.PrePad),
		"--device", string(spec.Backend))

	if spec.Half {
		args = append(args, "--half")
	}

	if spec.GPUID != nil {
		args = append(args, "--gpu-id", strconv.Itoa(*spec.GPUID))
	}

	args = append(args,
		"--outscale", strconv.FormatFloat(outscale, 'g', -1, 64),
		"--input", inputPath,
		"--output", outputPath)

	return args
}
