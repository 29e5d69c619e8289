package hashtron

import "crypto/sha256"
import "encoding/binary"
import "encoding/json"
import "io"

import "github.com/neurlang/quaternary"
import "github.com/pkg/errors"

type hashtronJSON struct {
	Salt       uint32   `json:"salt"`
	Modulo     uint32   `json:"modulo,omitempty"`
	Bits       byte     `json:"bits"`
	Quaternary [][]byte `json:"quaternary,omitempty"`
}

// MarshalJSON encodes the hashtron with its quaternary filters as base64
func (h Hashtron) MarshalJSON() ([]byte, error) {
	j := hashtronJSON{
		Salt:   h.salt,
		Modulo: h.modulo,
		Bits:   h.bits,
	}
	for _, q := range h.quaternary {
		j.Quaternary = append(j.Quaternary, []byte(q))
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes a hashtron written by MarshalJSON
func (h *Hashtron) UnmarshalJSON(data []byte) error {
	var j hashtronJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	if j.Bits == 0 || j.Bits > MaxBits {
		return errors.Wrapf(ErrBits, "decode hashtron: %d", j.Bits)
	}
	if j.Modulo == 0 && len(j.Quaternary) != 0 {
		return errors.New("decode hashtron: untrained hashtron with filters")
	}
	if j.Modulo != 0 && len(j.Quaternary) != int(j.Bits) {
		return errors.Errorf("decode hashtron: %d filters for %d bits", len(j.Quaternary), j.Bits)
	}
	var filters []quaternary.Filter
	for i, q := range j.Quaternary {
		if len(q) == 0 {
			return errors.Errorf("decode hashtron: filter %d is empty", i)
		}
		filters = append(filters, quaternary.Filter(q))
	}
	h.salt, h.modulo, h.bits, h.quaternary = j.Salt, j.Modulo, j.Bits, filters
	return nil
}

// WriteJson writes the hashtron as json
func (h Hashtron) WriteJson(w io.Writer) error {
	return json.NewEncoder(w).Encode(h)
}

// ReadJson reads the hashtron as json
func (h *Hashtron) ReadJson(r io.Reader) error {
	return json.NewDecoder(r).Decode(h)
}

// Digest fingerprints the hashtron, equal digests mean equal Forward behavior.
// Filters built twice from the same values may differ, so the converse does not hold.
func (h Hashtron) Digest() (d [32]byte) {
	s := sha256.New()
	var head [9]byte
	binary.LittleEndian.PutUint32(head[0:], h.salt)
	binary.LittleEndian.PutUint32(head[4:], h.modulo)
	head[8] = h.bits
	s.Write(head[:])
	var size [4]byte
	for _, q := range h.quaternary {
		binary.LittleEndian.PutUint32(size[:], uint32(len(q)))
		s.Write(size[:])
		s.Write(q)
	}
	copy(d[:], s.Sum(nil))
	return
}
