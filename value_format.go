package nml

import (
	"math"
	"strconv"
	"strings"
)

// ComplexStyle selects how complex values render.
type ComplexStyle int

const (
	// ComplexParens is the standard Fortran form "(re, im)".
	ComplexParens ComplexStyle = iota
	// ComplexMath is the mathematical form "re+im*i".
	ComplexMath
)

// QuoteStyle selects the quote character for character values.
type QuoteStyle int

const (
	QuoteSingle QuoteStyle = iota
	QuoteDouble
)

// FormatOptions controls how values render to namelist text. The zero
// value gives lowercase logicals, shortest-round-trip reals, single
// quotes, and unwrapped arrays.
type FormatOptions struct {
	// Uppercase renders logicals as .TRUE. and .FALSE..
	Uppercase bool
	// FloatPrecision fixes the decimal count for reals; 0 means the
	// shortest representation that round-trips.
	FloatPrecision int
	// ExpThreshold, when set, switches reals whose magnitude falls
	// outside [min, max] to exponential notation.
	ExpThreshold *[2]float64
	// UseFortranDouble renders exponents with 'd' instead of 'e'.
	UseFortranDouble bool
	// ComplexStyle selects the complex rendering.
	ComplexStyle ComplexStyle
	// QuoteStyle selects the string quote character.
	QuoteStyle QuoteStyle
	// ArrayElementWidth, when positive, wraps array value lists at
	// roughly that many columns.
	ArrayElementWidth int
}

// Format renders the value in namelist form. Null renders as the empty
// string; derived types have no scalar form and render as a placeholder,
// their real rendering happens per field at group level.
func (v Value) Format(opts FormatOptions) string {
	switch v.kind {
	case Null:
		return ""
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Real:
		return formatReal(v.re, opts)
	case Complex:
		return formatComplex(v.re, v.im, opts)
	case Logical:
		if opts.Uppercase {
			if v.b {
				return ".TRUE."
			}
			return ".FALSE."
		}
		if v.b {
			return ".true."
		}
		return ".false."
	case Character:
		return formatString(v.s, opts)
	case Array:
		return formatArray(v.items, opts)
	case DerivedType:
		return "<derived type>"
	case DerivedTypeArray:
		return "<derived type array>"
	}
	return ""
}

func formatReal(f float64, opts FormatOptions) string {
	switch {
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	exponential := false
	if opts.ExpThreshold != nil {
		abs := math.Abs(f)
		exponential = abs != 0 && (abs < opts.ExpThreshold[0] || abs > opts.ExpThreshold[1])
	}

	var s string
	if exponential {
		prec := -1
		if opts.FloatPrecision > 0 {
			prec = opts.FloatPrecision
		}
		s = strconv.FormatFloat(f, 'e', prec, 64)
		if opts.UseFortranDouble {
			s = strings.Replace(s, "e", "d", 1)
		}
		return s
	}

	if opts.FloatPrecision > 0 {
		return strconv.FormatFloat(f, 'f', opts.FloatPrecision, 64)
	}
	s = strconv.FormatFloat(f, 'g', -1, 64)
	// Reals keep a decimal point so they round-trip as reals.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func formatComplex(re, im float64, opts FormatOptions) string {
	res := formatReal(re, opts)
	ims := formatReal(im, opts)
	if opts.ComplexStyle == ComplexMath {
		if im >= 0 {
			return res + "+" + ims + "*i"
		}
		return res + ims + "*i"
	}
	return "(" + res + ", " + ims + ")"
}

func formatString(s string, opts FormatOptions) string {
	if opts.QuoteStyle == QuoteDouble {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func formatArray(items []Value, opts FormatOptions) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Format(opts)
	}
	if opts.ArrayElementWidth <= 0 {
		return strings.Join(parts, ", ")
	}

	var sb strings.Builder
	lineLen := 0
	for i, part := range parts {
		if i > 0 {
			if lineLen+len(part)+2 > opts.ArrayElementWidth {
				sb.WriteString(",\n    ")
				lineLen = 4
			} else {
				sb.WriteString(", ")
				lineLen += 2
			}
		}
		sb.WriteString(part)
		lineLen += len(part)
	}
	return sb.String()
}

// FormatRepeated renders the value with repeat notation: "count*value"
// for counts above one, the plain value otherwise.
func (v Value) FormatRepeated(count int, opts FormatOptions) string {
	if count <= 1 {
		return v.Format(opts)
	}
	return strconv.Itoa(count) + "*" + v.Format(opts)
}

// FormatArrayCompact renders an array value list, collapsing runs of
// equal values into repeat notation: 1, 2, 2, 2, 3 becomes
// "1, 3*2, 3".
func FormatArrayCompact(items []Value, opts FormatOptions) string {
	if len(items) == 0 {
		return ""
	}
	var parts []string
	run := items[0]
	count := 1
	for _, item := range items[1:] {
		if item.Equal(run) {
			count++
			continue
		}
		parts = append(parts, run.FormatRepeated(count, opts))
		run = item
		count = 1
	}
	parts = append(parts, run.FormatRepeated(count, opts))
	return strings.Join(parts, ", ")
}
