package port

type DeviceProbe interface {
	// CUDAAvailable reports whether a CUDA-capable accelerator is present.
	CUDAAvailable() bool
	// MPSAvailable reports whether an Apple-GPU backend is present.
	MPSAvailable() bool
}
