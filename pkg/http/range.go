package http

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an inclusive integer range, e.g. the ids to substitute into a templated url
type Range struct {
	Min int
	Max int
}

func (r Range) String() string {
	if r.Min == r.Max {
		return strconv.Itoa(r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Len is the number of values in the range
func (r Range) Len() int {
	return r.Max - r.Min + 1
}

// Values returns every value of the range in ascending order
func (r Range) Values() []int {
	ret := make([]int, 0, r.Len())
	for i := r.Min; i <= r.Max; i++ {
		ret = append(ret, i)
	}
	return ret
}

// RangeFromString will return a range from a string like 5-10 or 7
func RangeFromString(in string) (ret Range, err error) {
	in = strings.TrimSpace(in)
	lo, hi := in, in
	if i := strings.Index(in, "-"); i > 0 {
		lo, hi = in[:i], in[i+1:]
	}

	if ret.Min, err = strconv.Atoi(lo); err != nil {
		return ret, fmt.Errorf("unable to parse range min: %w", err)
	}
	if ret.Max, err = strconv.Atoi(hi); err != nil {
		return ret, fmt.Errorf("unable to parse range max: %w", err)
	}
	if ret.Min > ret.Max {
		return ret, fmt.Errorf("invalid range %q. min is greater than max", in)
	}
	return ret, nil
}
