package hashtron

import "sync/atomic"

import "github.com/pkg/errors"

// ErrUnpackingDisabled is returned by accessors which would silently unpack the quaternary filters
var ErrUnpackingDisabled = errors.New("automatic unpacking of packed values is disabled")

var unpackingDisabled atomic.Bool

// SetAutomaticUnpackingDisabled toggles whether accessors may unpack the quaternary filters
// behind the caller's back. Unpacking is a silent performance loss, end to end
// tests disable it to catch accidental use. Explicit Unpack is always allowed.
func SetAutomaticUnpackingDisabled(disable bool) {
	unpackingDisabled.Store(disable)
}

// AutomaticUnpackingDisabled reports the toggle set by SetAutomaticUnpackingDisabled
func AutomaticUnpackingDisabled() bool {
	return unpackingDisabled.Load()
}

// Values returns the learned values, unpacking them automatically.
func (h Hashtron) Values() ([]uint16, error) {
	if AutomaticUnpackingDisabled() {
		return nil, ErrUnpackingDisabled
	}
	return h.Unpack(), nil
}

// Unpack explicitly reads the learned value of every filter slot
func (h Hashtron) Unpack() (values []uint16) {
	values = make([]uint16, h.modulo)
	for i := range values {
		values[i] = h.slot(uint32(i))
	}
	return
}
