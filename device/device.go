// Package device reports the compute devices the end to end tests may use.
//
// The GPU build is selected with the cuda build tag, it enumerates CUDA
// devices through gorgonia.org/cu. The default build is CPU only.
package device

import "fmt"
import "os"
import "strings"

import "github.com/klauspost/cpuid/v2"

// EnvTestDevice restricts the device tests run on, cpu or gpu. Unset allows both.
const EnvTestDevice = "TEST_DEVICE"

// Kind is a device kind
type Kind string

// Device kinds
const (
	CPU Kind = "cpu"
	GPU Kind = "gpu"
)

// Info describes one compute device
type Info struct {
	Kind     Kind
	Ordinal  int
	Name     string
	Cores    int
	Memory   int64
	Features string
}

func (i Info) String() string {
	return fmt.Sprintf("%s:%d %s", i.Kind, i.Ordinal, i.Name)
}

// Selector decides which device kinds tests should run on
type Selector struct {
	// Restrict is the value of TEST_DEVICE
	Restrict string

	// GPUBuild reports whether this binary was built with CUDA support
	GPUBuild bool

	// GPUs is the number of CUDA devices found
	GPUs int
}

// FromEnv builds the selector of this process
func FromEnv() Selector {
	return Selector{
		Restrict: os.Getenv(EnvTestDevice),
		GPUBuild: IsGPUBuild(),
		GPUs:     len(GPUs()),
	}
}

func (s Selector) allows(k Kind) bool {
	r := strings.ToLower(strings.TrimSpace(s.Restrict))
	return r == "" || r == string(k)
}

// ShouldRunOnCpu reports whether tests should run on the CPU
func (s Selector) ShouldRunOnCpu() bool {
	return s.allows(CPU)
}

// ShouldRunOnGpu reports whether tests should run on a GPU
func (s Selector) ShouldRunOnGpu() bool {
	return s.allows(GPU) && s.GPUBuild && s.GPUs > 0
}

// ShouldRunOnCpu reports whether tests of this process should run on the CPU
func ShouldRunOnCpu() bool {
	return FromEnv().ShouldRunOnCpu()
}

// ShouldRunOnGpu reports whether tests of this process should run on a GPU
func ShouldRunOnGpu() bool {
	return FromEnv().ShouldRunOnGpu()
}

// Host describes the CPU of this machine
func Host() Info {
	return Info{
		Kind:     CPU,
		Name:     strings.TrimSpace(cpuid.CPU.BrandName),
		Cores:    cpuid.CPU.LogicalCores,
		Features: strings.Join(cpuid.CPU.FeatureSet(), ","),
	}
}

// All lists the host CPU followed by every GPU
func All() []Info {
	return append([]Info{Host()}, GPUs()...)
}
