package learning

import "runtime"

import "go.uber.org/zap"

// HyperParameters drive the salt search of a single hashtron
type HyperParameters struct {
	Threads int // number of threads for learning

	Seed int64 // first salt of the search, salts are derived from it

	// Attempts is how many salts are tried at one modulo before the modulo grows
	Attempts uint32

	// Numerator and Denominator is the modulo growth factor when stuck (default 3/2)
	Numerator, Denominator uint32

	// MaxModulo bounds the size of the learned value filter
	MaxModulo uint32

	// Bits forces the output width, zero means derive from the data
	Bits byte

	// MaxLenQ bounds the quaternary filter bytes of a retrained hashtron, zero is unbounded
	MaxLenQ int

	Log *zap.Logger
}

// Defaults returns hyperparameters good for the end to end problem sizes
func Defaults() HyperParameters {
	return HyperParameters{
		Threads:     runtime.NumCPU(),
		Attempts:    1024,
		Numerator:   3,
		Denominator: 2,
		MaxModulo:   1 << 26,
	}
}

func (h *HyperParameters) fill() {
	d := Defaults()
	if h.Threads <= 0 {
		h.Threads = d.Threads
	}
	if h.Attempts == 0 {
		h.Attempts = d.Attempts
	}
	if h.Numerator <= h.Denominator || h.Denominator == 0 {
		h.Numerator, h.Denominator = d.Numerator, d.Denominator
	}
	if h.MaxModulo == 0 {
		h.MaxModulo = d.MaxModulo
	}
	if h.Log == nil {
		h.Log = zap.NewNop()
	}
}
