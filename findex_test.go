package nml

import (
	"strconv"
	"testing"
)

func TestIndex_columnMajor(t *testing.T) {
	it := NewIndex([]IndexBound{Range(1, 2), Range(1, 3)})
	want := [][]int{
		{1, 1}, {2, 1}, {1, 2}, {2, 2}, {1, 3}, {2, 3},
	}
	for i, w := range want {
		got, ok := it.Next()
		if !ok {
			t.Fatalf("step %d: iterator exhausted early", i)
		}
		if !intsEqual(got, w) {
			t.Errorf("step %d: want %v got %v", i, w, got)
		}
	}
	if _, ok := it.Next(); ok {
		t.Error("iterator yielded past the last coordinate")
	}
	if !it.Exhausted() {
		t.Error("Exhausted() false after full iteration")
	}
}

func TestIndex_strided(t *testing.T) {
	stride := 2
	it := NewIndex([]IndexBound{{Start: iptr(1), End: iptr(7), Stride: &stride}})
	want := [][]int{{1}, {3}, {5}, {7}}
	for i, w := range want {
		got, ok := it.Next()
		if !ok || got[0] != w[0] {
			t.Errorf("step %d: want %v got %v ok=%v", i, w, got, ok)
		}
	}
	if _, ok := it.Next(); ok {
		t.Error("strided iterator yielded past end")
	}
}

func TestIndex_negativeStride(t *testing.T) {
	stride := -1
	it := NewIndex([]IndexBound{{Start: iptr(3), End: iptr(1), Stride: &stride}})
	want := []int{3, 2, 1}
	for i, w := range want {
		got, ok := it.Next()
		if !ok || got[0] != w {
			t.Errorf("step %d: want %d got %v ok=%v", i, w, got, ok)
		}
	}
	if _, ok := it.Next(); ok {
		t.Error("descending iterator yielded past end")
	}
}

func TestIndex_reset(t *testing.T) {
	it := Simple1D(1, 3)
	for {
		if _, ok := it.Next(); !ok {
			break
		}
	}
	it.Reset()
	got, ok := it.Next()
	if !ok || got[0] != 1 {
		t.Errorf("after Reset: want [1] got %v ok=%v", got, ok)
	}
}

func TestIndexWithOrigin_clampsFirst(t *testing.T) {
	it := NewIndexWithOrigin([]IndexBound{Range(3, 5)}, 1)
	if first := it.StartIndices(); first[0] != 1 {
		t.Errorf("want first index clamped to 1, got %d", first[0])
	}
	// Iteration itself still starts at the explicit bound.
	got, _ := it.Next()
	if got[0] != 3 {
		t.Errorf("want iteration to start at 3, got %d", got[0])
	}
}

func TestIndexBound_size(t *testing.T) {
	end10 := 10
	for i, tc := range []struct {
		bound      IndexBound
		defStart   int
		defEnd     *int
		want       int
		determined bool
	}{
		{Range(1, 5), 1, nil, 5, true},
		{Single(7), 1, nil, 1, true},
		{Implicit(), 1, &end10, 10, true},
		{Implicit(), 1, nil, 0, false},
		{IndexBound{Start: iptr(1), End: iptr(10), Stride: iptr(3)}, 1, nil, 4, true},
		{IndexBound{Start: iptr(10), End: iptr(1), Stride: iptr(-2)}, 1, nil, 5, true},
		{IndexBound{Start: iptr(1), End: iptr(5), Stride: iptr(0)}, 1, nil, 0, false},
		{IndexBound{End: iptr(4)}, 2, nil, 3, true},
	} {
		got, ok := tc.bound.Size(tc.defStart, tc.defEnd)
		if ok != tc.determined || got != tc.want {
			t.Errorf("case %d: want (%d,%v) got (%d,%v)", i, tc.want, tc.determined, got, ok)
		}
	}
}

func TestIndex_linearRoundTrip(t *testing.T) {
	it := NewIndex([]IndexBound{Range(0, 1), Range(5, 7)})
	dims := []int{2, 3}
	for i, tc := range []struct {
		coords []int
		linear int
	}{
		{[]int{0, 5}, 0},
		{[]int{1, 5}, 1},
		{[]int{0, 6}, 2},
		{[]int{1, 7}, 5},
	} {
		got, err := it.ToLinear(tc.coords, dims)
		if err != nil || got != tc.linear {
			t.Errorf("case %d ToLinear: want %d got %d err=%v", i, tc.linear, got, err)
		}
		back := it.FromLinear(tc.linear, dims)
		if !intsEqual(back, tc.coords) {
			t.Errorf("case %d FromLinear: want %v got %v", i, tc.coords, back)
		}
	}
}

func TestIndex_toLinearErrors(t *testing.T) {
	it := Simple1D(1, 3)
	if _, err := it.ToLinear([]int{1, 1}, []int{3}); err == nil {
		t.Error("want rank mismatch error")
	}
	if _, err := it.ToLinear([]int{4}, []int{3}); err == nil {
		t.Error("want out of bounds error")
	}
	if _, err := it.ToLinear([]int{0}, []int{3}); err == nil {
		t.Error("want below-origin error")
	}
}

func TestParseIndexSpec(t *testing.T) {
	for i, tc := range []struct {
		in                 string
		start, end, stride *int
	}{
		{"5", iptr(5), iptr(5), nil},
		{":", nil, nil, nil},
		{"1:10", iptr(1), iptr(10), nil},
		{"1:10:2", iptr(1), iptr(10), iptr(2)},
		{":8", nil, iptr(8), nil},
		{"2:", iptr(2), nil, nil},
		{" 3 : 9 ", iptr(3), iptr(9), nil},
		{"::3", nil, nil, iptr(3)},
	} {
		got, err := ParseIndexSpec(tc.in)
		if err != nil {
			t.Errorf("case %d %q: unexpected error %v", i, tc.in, err)
			continue
		}
		if !iptrEqual(got.Start, tc.start) || !iptrEqual(got.End, tc.end) || !iptrEqual(got.Stride, tc.stride) {
			t.Errorf("case %d %q: want (%s,%s,%s) got (%s,%s,%s)", i, tc.in,
				iptrStr(tc.start), iptrStr(tc.end), iptrStr(tc.stride),
				iptrStr(got.Start), iptrStr(got.End), iptrStr(got.Stride))
		}
	}
}

func TestParseIndexSpec_errors(t *testing.T) {
	for i, in := range []string{"", "1:2:3:4", "a", "1:b", "1:10:0"} {
		if _, err := ParseIndexSpec(in); err == nil {
			t.Errorf("case %d %q: want error", i, in)
		}
	}
}

func iptr(n int) *int { return &n }

func iptrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func iptrStr(p *int) string {
	if p == nil {
		return "nil"
	}
	return strconv.Itoa(*p)
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
