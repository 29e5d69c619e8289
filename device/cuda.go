//go:build cuda

package device

import "fmt"

import "gorgonia.org/cu"

// IsGPUBuild reports whether this binary was built with CUDA support
func IsGPUBuild() bool {
	return true
}

// GPUs lists the CUDA devices, an unusable driver lists none
func GPUs() (out []Info) {
	n, err := cu.NumDevices()
	if err != nil {
		return nil
	}
	for d := 0; d < n; d++ {
		dev := cu.Device(d)
		name, _ := dev.Name()
		mem, _ := dev.TotalMem()
		major, _ := dev.Attribute(cu.ComputeCapabilityMajor)
		minor, _ := dev.Attribute(cu.ComputeCapabilityMinor)
		sm, _ := dev.Attribute(cu.MultiprocessorCount)
		out = append(out, Info{
			Kind:     GPU,
			Ordinal:  d,
			Name:     name,
			Cores:    sm,
			Memory:   mem,
			Features: fmt.Sprintf("compute %d.%d, cuda %d", major, minor, cu.Version()),
		})
	}
	return
}
