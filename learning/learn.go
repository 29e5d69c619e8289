// Package learning implements the learning stage of a single hashtron
package learning

import "sort"
import "sync"

import "github.com/jbarham/primegen"
import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/endtoend/datasets"
import "github.com/neurlang/endtoend/hash"
import "github.com/neurlang/endtoend/hashtron"
import "github.com/neurlang/endtoend/parallel"

// ErrNoSolution is returned when no salt separates the data below MaxModulo
var ErrNoSolution = errors.New("no hashtron solution")

// Solution describes a solved hashtron
type Solution struct {
	Salt     uint32
	Modulo   uint32
	Attempts uint64
}

// NextPrime returns the smallest prime at least n
func NextPrime(n uint32) uint32 {
	pg := primegen.New()
	pg.SkipTo(uint64(n))
	return uint32(pg.Next())
}

// Training trains a single hashtron on the datamap d. The hashtron outputs
// d[k] for every key k, keys outside d get the most common value.
func (h *HyperParameters) Training(d datasets.Datamap) (*hashtron.Hashtron, error) {
	h.fill()
	bits := d.Bits()
	if h.Bits > bits {
		bits = h.Bits
	}
	if len(d) == 0 {
		return hashtron.NewSalted(uint32(h.Seed), bits)
	}
	keys := make([]uint32, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	values := make([]uint16, len(keys))
	for i, k := range keys {
		values[i] = d[k]
	}

	sol, err := h.Solve(keys, values)
	if err != nil {
		return nil, err
	}
	filter := make([]uint16, sol.Modulo)
	common := mostCommon(values)
	for i := range filter {
		filter[i] = common
	}
	for i, k := range keys {
		filter[hash.Hash(k, sol.Salt, sol.Modulo)] = values[i]
	}
	return hashtron.NewTrained(sol.Salt, bits, filter)
}

// Solve finds a salt and the smallest modulo tried where no two keys with
// different values share a slot.
func (h *HyperParameters) Solve(keys []uint32, values []uint16) (sol Solution, err error) {
	h.fill()
	if len(keys) != len(values) {
		return sol, errors.Errorf("solve: %d keys but %d values", len(keys), len(values))
	}
	var modulo = NextPrime(uint32(len(keys)) + 1)
	for {
		if modulo > h.MaxModulo {
			return sol, errors.Wrapf(ErrNoSolution, "%d keys", len(keys))
		}
		var mut sync.Mutex
		var best = ^uint32(0)
		var pool = sync.Pool{New: func() any {
			return &scratch{slots: make([]uint32, modulo), hashed: make([]uint32, chunk)}
		}}
		found := parallel.Loop(h.Threads).LoopUntil(h.Attempts, func(nonce uint32, ender parallel.LoopStopper) bool {
			salt := hash.Hash(nonce, uint32(h.Seed), 0xffffffff)
			s := pool.Get().(*scratch)
			ok := s.separates(keys, values, salt, modulo, ender)
			pool.Put(s)
			if !ok {
				return false
			}
			mut.Lock()
			if nonce < best {
				best = nonce
			}
			mut.Unlock()
			return true
		})
		sol.Attempts += uint64(h.Attempts)
		if found {
			sol.Salt = hash.Hash(best, uint32(h.Seed), 0xffffffff)
			sol.Modulo = modulo
			h.Log.Debug("hashtron solved",
				zap.Int("keys", len(keys)),
				zap.Uint32("modulo", modulo),
				zap.Uint32("nonce", best))
			return sol, nil
		}
		modulo = NextPrime(uint32(uint64(modulo) * uint64(h.Numerator) / uint64(h.Denominator)))
	}
}

// chunk is how many keys are hashed between checks of the stopper
const chunk = 256

// scratch is the per goroutine memory of a salt check
type scratch struct {
	slots  []uint32
	hashed []uint32
}

// separates checks the salt, slots are left zeroed for reuse
func (s *scratch) separates(keys []uint32, values []uint16, salt, modulo uint32, ender parallel.LoopStopper) (ok bool) {
	ok = true
	var done int
	for done < len(keys) && ok {
		if ender.Load() {
			ok = false
			break
		}
		n := min(len(s.hashed), len(keys)-done)
		hashed := s.hashed[:n]
		hash.Batch(hashed, keys[done:done+n], salt, modulo)
		for j, slot := range hashed {
			v := uint32(values[done+j]) + 1
			if s.slots[slot] == 0 {
				s.slots[slot] = v
			} else if s.slots[slot] != v {
				ok = false
				break
			}
		}
		done += n
	}
	for _, k := range keys[:done] {
		s.slots[hash.Hash(k, salt, modulo)] = 0
	}
	return
}

func mostCommon(values []uint16) (o uint16) {
	count := make(map[uint16]int)
	for _, v := range values {
		count[v]++
	}
	best := -1
	for v, n := range count {
		if n > best || (n == best && v < o) {
			o, best = v, n
		}
	}
	return
}
