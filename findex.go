package nml

import (
	"fmt"
	"strconv"
	"strings"
)

// IndexBound describes one dimension of a Fortran array index
// specification. Nil fields are implicit: start defaults to the
// iterator's origin, stride to 1, and end to whatever extent the caller
// supplies.
type IndexBound struct {
	Start  *int
	End    *int
	Stride *int
}

// Range returns a bound covering start through end inclusive.
func Range(start, end int) IndexBound {
	return IndexBound{Start: &start, End: &end}
}

// Single returns a bound selecting one index.
func Single(index int) IndexBound {
	return IndexBound{Start: &index, End: &index}
}

// Implicit returns the fully implicit bound, written ":" in source.
func Implicit() IndexBound {
	return IndexBound{}
}

// EffectiveStart returns the start index, falling back to def.
func (b IndexBound) EffectiveStart(def int) int {
	if b.Start != nil {
		return *b.Start
	}
	return def
}

// EffectiveStride returns the stride, defaulting to 1.
func (b IndexBound) EffectiveStride() int {
	if b.Stride != nil {
		return *b.Stride
	}
	return 1
}

// Size returns the number of indices the bound covers, given defaults
// for implicit components. The second result is false when the size
// cannot be determined (no end anywhere, or a zero stride).
func (b IndexBound) Size(defaultStart int, defaultEnd *int) (int, bool) {
	start := b.EffectiveStart(defaultStart)
	stride := b.EffectiveStride()
	if stride == 0 {
		return 0, false
	}

	var end int
	switch {
	case b.End != nil:
		end = *b.End
	case defaultEnd != nil:
		end = *defaultEnd
	default:
		return 0, false
	}

	switch {
	case stride > 0 && end >= start:
		return (end-start)/stride + 1, true
	case stride < 0 && end <= start:
		return (start-end)/(-stride) + 1, true
	}
	return 0, true
}

// Index enumerates multi-dimensional Fortran array indices in
// column-major order: the first (leftmost) dimension varies fastest.
// It also converts between coordinate tuples and linear positions under
// the same ordering and per-dimension origins.
type Index struct {
	current   []int
	start     []int
	end       []int
	step      []int
	first     []int
	exhausted bool
}

// NewIndex returns an iterator over bounds with the default origin of 1
// for implicit starts.
func NewIndex(bounds []IndexBound) *Index {
	return newIndex(bounds, 1, false)
}

// NewIndexWithOrigin returns an iterator over bounds using origin as the
// default start, clamping each dimension's recorded first index to at
// most origin.
func NewIndexWithOrigin(bounds []IndexBound, origin int) *Index {
	return newIndex(bounds, origin, true)
}

func newIndex(bounds []IndexBound, origin int, clampFirst bool) *Index {
	n := len(bounds)
	it := &Index{
		start: make([]int, n),
		end:   make([]int, n),
		step:  make([]int, n),
		first: make([]int, n),
	}
	for i, b := range bounds {
		it.start[i] = b.EffectiveStart(origin)
		if b.End != nil {
			it.end[i] = *b.End
		} else {
			it.end[i] = origin
		}
		it.step[i] = b.EffectiveStride()
		it.first[i] = b.EffectiveStart(origin)
		if clampFirst && it.first[i] > origin {
			it.first[i] = origin
		}
	}
	it.current = append([]int(nil), it.start...)
	return it
}

// Simple1D returns an iterator over the single range start..end.
func Simple1D(start, end int) *Index {
	return NewIndex([]IndexBound{Range(start, end)})
}

// Current returns the iterator's current coordinates.
func (it *Index) Current() []int { return it.current }

// StartIndices returns the recorded first index of each dimension.
func (it *Index) StartIndices() []int { return it.first }

// Exhausted reports whether iteration has completed.
func (it *Index) Exhausted() bool { return it.exhausted }

// Reset rewinds the iterator to its first coordinates.
func (it *Index) Reset() {
	copy(it.current, it.start)
	it.exhausted = false
}

// Next returns the next coordinate tuple, or false when exhausted. The
// leftmost dimension advances first, carrying rightwards on overflow.
func (it *Index) Next() ([]int, bool) {
	if it.exhausted {
		return nil, false
	}

	result := append([]int(nil), it.current...)

	carry := true
	for rank := 0; rank < len(it.current) && carry; rank++ {
		next := it.current[rank] + it.step[rank]
		inBounds := (it.step[rank] > 0 && next <= it.end[rank]) ||
			(it.step[rank] < 0 && next >= it.end[rank])
		if inBounds {
			it.current[rank] = next
			carry = false
		} else {
			it.current[rank] = it.start[rank]
		}
	}
	if carry {
		it.exhausted = true
	}

	return result, true
}

// ToLinear converts a coordinate tuple to its zero-based column-major
// position within an array of the given extents, honoring each
// dimension's origin. Coordinates outside [origin, origin+extent) fail
// with an [IndexError].
func (it *Index) ToLinear(indices, dims []int) (int, error) {
	if len(indices) != len(dims) {
		return 0, &IndexError{
			Msg: fmt.Sprintf("index has %d dimensions but array has %d",
				len(indices), len(dims)),
		}
	}
	linear := 0
	multiplier := 1
	for i, idx := range indices {
		zeroBased := idx - it.first[i]
		if zeroBased < 0 || zeroBased >= dims[i] {
			return 0, &IndexError{
				Msg: fmt.Sprintf("index %d out of bounds for dimension %d (size %d)",
					idx, i, dims[i]),
			}
		}
		linear += zeroBased * multiplier
		multiplier *= dims[i]
	}
	return linear, nil
}

// FromLinear converts a zero-based column-major position back to a
// coordinate tuple under the given extents and the iterator's origins.
func (it *Index) FromLinear(linear int, dims []int) []int {
	indices := make([]int, len(dims))
	remaining := linear
	for i, dim := range dims {
		indices[i] = remaining%dim + it.first[i]
		remaining /= dim
	}
	return indices
}

// ParseIndexSpec parses one dimension of a source-level index
// specification: "5" is a single index, "1:10" a range, "1:10:2" a
// strided range, and ":" fully implicit. Empty range components stay
// implicit.
func ParseIndexSpec(spec string) (IndexBound, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == ":" {
		return Implicit(), nil
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) > 3 {
		return IndexBound{}, &IndexError{
			Msg: fmt.Sprintf("too many colons in index %q", spec),
		}
	}

	component := func(s, what string) (*int, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, &IndexError{
				Msg: fmt.Sprintf("invalid %s in index %q", what, spec),
			}
		}
		return &n, nil
	}

	if len(parts) == 1 {
		idx, err := component(parts[0], "integer")
		if err != nil {
			return IndexBound{}, err
		}
		if idx == nil {
			return IndexBound{}, &IndexError{
				Msg: fmt.Sprintf("empty index %q", spec),
			}
		}
		return Single(*idx), nil
	}

	start, err := component(parts[0], "start")
	if err != nil {
		return IndexBound{}, err
	}
	end, err := component(parts[1], "end")
	if err != nil {
		return IndexBound{}, err
	}

	var stride *int
	if len(parts) == 3 {
		stride, err = component(parts[2], "stride")
		if err != nil {
			return IndexBound{}, err
		}
		if stride != nil && *stride == 0 {
			return IndexBound{}, &IndexError{
				Msg: fmt.Sprintf("zero stride in index %q", spec),
			}
		}
	}

	return IndexBound{Start: start, End: end, Stride: stride}, nil
}
