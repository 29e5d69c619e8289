//go:build !cuda

package device

// IsGPUBuild reports whether this binary was built with CUDA support
func IsGPUBuild() bool {
	return false
}

// GPUs lists no devices in the CPU only build
func GPUs() []Info {
	return nil
}
