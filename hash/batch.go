package hash

import "github.com/klauspost/cpuid/v2"

// lanes is the number of hashes computed per unrolled step.
var lanes = 1

func init() {
	if cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ) {
		lanes = 16
	} else if cpuid.CPU.Supports(cpuid.AVX2) {
		lanes = 8
	}
}

// BatchParallelism reports the recommended batch granularity on this CPU. Can't return 0.
func BatchParallelism() int {
	return lanes
}

// Batch computes out[i] = Hash(n[i], s, max) for the whole of out.
// The n slice must be at least as long as out.
func Batch(out []uint32, n []uint32, s uint32, max uint32) {
	var i int
	if lanes > 1 {
		for ; i+lanes <= len(out); i += lanes {
			o := out[i : i+lanes]
			in := n[i : i+lanes]
			for j := range o {
				o[j] = Hash(in[j], s, max)
			}
		}
	}
	for ; i < len(out); i++ {
		out[i] = Hash(n[i], s, max)
	}
}
