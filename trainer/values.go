package trainer

import "github.com/pkg/errors"

// ValueCounts counts the filter slots holding each value over the output
// hashtrons of net. It unpacks their quaternary filters, so it fails with
// hashtron.ErrUnpackingDisabled while automatic unpacking is disabled.
func ValueCounts(net Network) (map[uint16]int, error) {
	_, output := net.Sequence()
	counts := make(map[uint16]int)
	for _, n := range output {
		values, err := net.GetHashtron(n).Values()
		if err != nil {
			return nil, errors.Wrapf(err, "output hashtron %d", n)
		}
		for _, v := range values {
			counts[v]++
		}
	}
	return counts, nil
}
