package device

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog/log"
)

// HostProbe detects accelerator availability on the running host. It only
// queries capability and has no other side effects.
type HostProbe struct{}

func NewHostProbe() *HostProbe {
	return &HostProbe{}
}

// CUDAAvailable reports a CUDA-capable accelerator, detected through the
// nvidia driver control device or a working nvidia-smi on PATH.
func (p *HostProbe) CUDAAvailable() bool {
	if _, err := os.Stat("/dev/nvidiactl"); err == nil {
		return true
	}

	path, err := exec.LookPath("nvidia-smi")
	if err != nil {
		return false
	}

	if err := exec.Command(path, "-L").Run(); err != nil {
		log.Debug().Err(err).Msg("nvidia-smi present but not usable")
		return false
	}

	return true
}

// MPSAvailable reports the Apple-GPU backend, which torch exposes on any
// Apple-silicon mac.
func (p *HostProbe) MPSAvailable() bool {
	return runtime.GOOS == "darwin" && runtime.GOARCH == "arm64"
}
