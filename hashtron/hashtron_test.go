package hashtron

import "bytes"
import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestQuaternaryRoundtrip(t *testing.T) {
	for _, bits := range []byte{1, 3, 7, 13, 16} {
		values := make([]uint16, 101)
		for i := range values {
			values[i] = uint16(i*2654435761>>7) & uint16(uint32(1)<<bits-1)
		}
		h, err := NewTrained(42, bits, values)
		require.NoError(t, err)
		assert.Equal(t, values, h.Unpack(), "bits %d", bits)
		assert.Positive(t, h.LenQ())
	}
}

func TestTrainedDropsWideValues(t *testing.T) {
	h, err := NewTrained(3, 2, []uint16{7, 4, 1})
	require.NoError(t, err)
	assert.Equal(t, []uint16{3, 0, 1}, h.Unpack())
}

func TestLenQ(t *testing.T) {
	h, err := NewSalted(5, 4)
	require.NoError(t, err)
	assert.Zero(t, h.LenQ())

	small, err := NewTrained(5, 4, make([]uint16, 10))
	require.NoError(t, err)
	large, err := NewTrained(5, 4, make([]uint16, 1000))
	require.NoError(t, err)
	assert.Less(t, small.LenQ(), large.LenQ())
}

func TestForwardTrained(t *testing.T) {
	values := []uint16{0, 1, 2, 3, 4, 5, 6, 7}
	h, err := NewTrained(7, 3, values)
	require.NoError(t, err)
	for cmd := uint32(0); cmd < 100; cmd++ {
		out := h.Forward(cmd, false)
		assert.Less(t, out, uint16(8))
		assert.Equal(t, out^7, h.Forward(cmd, true))
	}
}

func TestForwardUntrainedDeterministic(t *testing.T) {
	h, err := NewSalted(1234, 1)
	require.NoError(t, err)
	assert.False(t, h.Trained())
	for cmd := uint32(0); cmd < 100; cmd++ {
		out := h.Forward(cmd, false)
		assert.LessOrEqual(t, out, uint16(1))
		assert.Equal(t, out, h.Forward(cmd, false))
	}
}

func TestNewBits(t *testing.T) {
	h, err := New(0)
	require.NoError(t, err)
	assert.Equal(t, byte(1), h.Bits())
	_, err = New(17)
	assert.ErrorIs(t, err, ErrBits)
}

func TestJsonRoundtrip(t *testing.T) {
	h, err := NewTrained(99, 5, []uint16{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, h.WriteJson(&buf))
	var back Hashtron
	require.NoError(t, back.ReadJson(&buf))
	assert.Equal(t, h.Digest(), back.Digest())
	for cmd := uint32(0); cmd < 50; cmd++ {
		assert.Equal(t, h.Forward(cmd, false), back.Forward(cmd, false))
	}
}

func TestJsonRejectsTruncated(t *testing.T) {
	var h Hashtron
	err := h.UnmarshalJSON([]byte(`{"salt":1,"modulo":100,"bits":8,"quaternary":["AQ=="]}`))
	assert.Error(t, err)
	err = h.UnmarshalJSON([]byte(`{"salt":1,"modulo":100,"bits":1,"quaternary":[""]}`))
	assert.Error(t, err)
	err = h.UnmarshalJSON([]byte(`{"salt":1,"bits":1,"quaternary":["AQ=="]}`))
	assert.Error(t, err)
}

func TestAutomaticUnpacking(t *testing.T) {
	defer SetAutomaticUnpackingDisabled(AutomaticUnpackingDisabled())

	h, err := NewTrained(1, 2, []uint16{1, 2, 3})
	require.NoError(t, err)

	SetAutomaticUnpackingDisabled(true)
	_, err = h.Values()
	assert.ErrorIs(t, err, ErrUnpackingDisabled)
	assert.Equal(t, []uint16{1, 2, 3}, h.Unpack())

	SetAutomaticUnpackingDisabled(false)
	values, err := h.Values()
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 2, 3}, values)
}
