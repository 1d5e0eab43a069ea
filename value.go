package nml

import "fmt"

// ValueKind discriminates the representable Fortran value kinds. The zero
// Value is Null, matching an empty slot in a value list.
type ValueKind int

const (
	Null ValueKind = iota
	Integer
	Real
	Complex
	Logical
	Character
	Array
	DerivedType
	DerivedTypeArray
)

func (k ValueKind) String() string {
	switch k {
	case Null:
		return "null"
	case Integer:
		return "integer"
	case Real:
		return "real"
	case Complex:
		return "complex"
	case Logical:
		return "logical"
	case Character:
		return "character"
	case Array:
		return "array"
	case DerivedType:
		return "derived type"
	case DerivedTypeArray:
		return "derived type array"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Value is a dynamically typed Fortran namelist value. It is a closed
// union over the kinds in [ValueKind]; construct one with the kind
// constructors ([NewInt], [NewReal], [NewArray], ...) and inspect it with
// Kind plus the As* conversions. Values are compared structurally with
// [Value.Equal].
//
// An Array value optionally carries dimension extents and per-dimension
// start indices, in which case its elements are stored flat in
// column-major order.
type Value struct {
	kind   ValueKind
	i      int64
	re, im float64
	b      bool
	s      string
	items  []Value
	dims   []int
	starts []int
	fields map[string]Value
	elems  []map[string]Value
}

// NewNull returns the null value. It equals the zero Value.
func NewNull() Value { return Value{} }

// NewInt returns an integer value.
func NewInt(i int64) Value { return Value{kind: Integer, i: i} }

// NewReal returns a real value.
func NewReal(f float64) Value { return Value{kind: Real, re: f} }

// NewComplex returns a complex value from its real and imaginary parts.
func NewComplex(re, im float64) Value { return Value{kind: Complex, re: re, im: im} }

// NewLogical returns a logical value.
func NewLogical(b bool) Value { return Value{kind: Logical, b: b} }

// NewCharacter returns a character string value.
func NewCharacter(s string) Value { return Value{kind: Character, s: s} }

// NewArray returns a one-dimensional array value.
func NewArray(items ...Value) Value { return Value{kind: Array, items: items} }

// NewMultiArray returns an array value with explicit dimension extents
// and start indices. Elements are flat in column-major order; len(items)
// should equal the product of dims.
func NewMultiArray(items []Value, dims, starts []int) Value {
	return Value{kind: Array, items: items, dims: dims, starts: starts}
}

// NewDerivedType returns a derived-type value over the given fields.
func NewDerivedType(fields map[string]Value) Value {
	return Value{kind: DerivedType, fields: fields}
}

// NewDerivedTypeArray returns an array of derived-type values.
func NewDerivedTypeArray(elems []map[string]Value) Value {
	return Value{kind: DerivedTypeArray, elems: elems}
}

// Kind reports the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is the null value.
func (v Value) IsNull() bool { return v.kind == Null }

// IsNumeric reports whether the value is an integer, real, or complex.
func (v Value) IsNumeric() bool {
	return v.kind == Integer || v.kind == Real || v.kind == Complex
}

// IsArray reports whether the value is an array of any flavor.
func (v Value) IsArray() bool {
	return v.kind == Array || v.kind == DerivedTypeArray
}

// Len returns the element count for array values and 0 for everything
// else.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case DerivedTypeArray:
		return len(v.elems)
	}
	return 0
}

// Dims returns the dimension extents of a multi-dimensional array, or
// nil for other values.
func (v Value) Dims() []int { return v.dims }

// StartIndices returns the per-dimension start indices of a
// multi-dimensional array, or nil.
func (v Value) StartIndices() []int { return v.starts }

// AsInt converts to int64. Reals with an exact integral value convert;
// everything else fails with a [ConversionError].
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case Integer:
		return v.i, nil
	case Real:
		if v.re == float64(int64(v.re)) {
			return int64(v.re), nil
		}
	}
	return 0, &ConversionError{From: v.kind, To: Integer, Value: v.String()}
}

// AsReal converts to float64. Integers widen; everything else fails.
func (v Value) AsReal() (float64, error) {
	switch v.kind {
	case Real:
		return v.re, nil
	case Integer:
		return float64(v.i), nil
	}
	return 0, &ConversionError{From: v.kind, To: Real, Value: v.String()}
}

// AsComplex converts to complex128. Integers and reals widen with a zero
// imaginary part.
func (v Value) AsComplex() (complex128, error) {
	switch v.kind {
	case Complex:
		return complex(v.re, v.im), nil
	case Real:
		return complex(v.re, 0), nil
	case Integer:
		return complex(float64(v.i), 0), nil
	}
	return 0, &ConversionError{From: v.kind, To: Complex, Value: v.String()}
}

// AsLogical converts to bool. Only logical values convert.
func (v Value) AsLogical() (bool, error) {
	if v.kind == Logical {
		return v.b, nil
	}
	return false, &ConversionError{From: v.kind, To: Logical, Value: v.String()}
}

// AsCharacter converts to the unquoted string contents. Only character
// values convert.
func (v Value) AsCharacter() (string, error) {
	if v.kind == Character {
		return v.s, nil
	}
	return "", &ConversionError{From: v.kind, To: Character, Value: v.String()}
}

// AsArray returns the elements of an array value.
func (v Value) AsArray() ([]Value, error) {
	if v.kind == Array {
		return v.items, nil
	}
	return nil, &ConversionError{From: v.kind, To: Array, Value: v.String()}
}

// AsDerivedType returns the field map of a derived-type value.
func (v Value) AsDerivedType() (map[string]Value, error) {
	if v.kind == DerivedType {
		return v.fields, nil
	}
	return nil, &ConversionError{From: v.kind, To: DerivedType, Value: v.String()}
}

// AsDerivedTypeArray returns the element maps of a derived-type array.
func (v Value) AsDerivedTypeArray() ([]map[string]Value, error) {
	if v.kind == DerivedTypeArray {
		return v.elems, nil
	}
	return nil, &ConversionError{From: v.kind, To: DerivedTypeArray, Value: v.String()}
}

// CanConvertTo reports whether the value converts to target without loss.
// Integer widens to real or complex, real widens to complex, and a real
// with an exact integral value narrows to integer. Complex never narrows.
func (v Value) CanConvertTo(target ValueKind) bool {
	if v.kind == target {
		return true
	}
	switch {
	case v.kind == Integer && (target == Real || target == Complex):
		return true
	case v.kind == Real && target == Complex:
		return true
	case v.kind == Real && target == Integer:
		return v.re == float64(int64(v.re))
	}
	return false
}

// Equal reports structural equality: same kind and same payload, with
// arrays and derived types compared element by element.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Integer:
		return v.i == o.i
	case Real:
		return v.re == o.re
	case Complex:
		return v.re == o.re && v.im == o.im
	case Logical:
		return v.b == o.b
	case Character:
		return v.s == o.s
	case Array:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case DerivedType:
		return equalFields(v.fields, o.fields)
	case DerivedTypeArray:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !equalFields(v.elems[i], o.elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func equalFields(a, b map[string]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !av.Equal(bv) {
			return false
		}
	}
	return true
}

// String renders the value in namelist form with default formatting.
func (v Value) String() string {
	return v.Format(FormatOptions{})
}
