package service

import (
	"fmt"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"
	"github.com/dmcooller/Real-ESRGAN/internal/core/port"

	"github.com/rs/zerolog/log"
)

// ResolveBackend maps a device preference to a concrete backend. Auto
// prefers cuda, then mps, then cpu and never fails; an explicitly
// requested accelerator fails with ErrDeviceUnavailable when absent.
func ResolveBackend(preference domain.DevicePreference, probe port.DeviceProbe) (domain.Backend, error) {
	var backend domain.Backend

	switch preference {
	case domain.DeviceAuto:
		switch {
		case probe.CUDAAvailable():
			backend = domain.BackendCUDA
		case probe.MPSAvailable():
			backend = domain.BackendMPS
		default:
			log.Debug().Msg("no accelerator detected, falling back to cpu")
			backend = domain.BackendCPU
		}
	case domain.DeviceCUDA:
		if !probe.CUDAAvailable() {
			return "", fmt.Errorf("%w: cuda", domain.ErrDeviceUnavailable)
		}
		backend = domain.BackendCUDA
	case domain.DeviceMPS:
		if !probe.MPSAvailable() {
			return "", fmt.Errorf("%w: mps", domain.ErrDeviceUnavailable)
		}
		backend = domain.BackendMPS
	case domain.DeviceCPU:
		backend = domain.BackendCPU
	default:
		return "", fmt.Errorf("%w: unknown device preference %q", domain.ErrInvalidRequest, preference)
	}

	log.Debug().Str("backend", string(backend)).Msg("using backend")

	return backend, nil
}

// HalfPrecision decides whether the engine runs in half precision. The cpu
// backend never supports it, regardless of the request's fp32 flag.
func HalfPrecision(fp32 bool, backend domain.Backend) bool {
	if backend == domain.BackendCPU {
		return false
	}

	return !fp32
}
