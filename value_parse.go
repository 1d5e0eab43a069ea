package nml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseValue parses a literal with automatic kind detection. Detection
// order matters: logical first (its forms are alphabetic), then complex,
// then real, then integer, and finally character as the catch-all. An
// empty literal is the null value.
func ParseValue(literal string) (Value, error) {
	trimmed := strings.TrimSpace(literal)
	if trimmed == "" {
		return NewNull(), nil
	}
	if v, err := parseLogical(trimmed); err == nil {
		return v, nil
	}
	if v, err := parseComplex(trimmed); err == nil {
		return v, nil
	}
	if v, err := parseReal(trimmed); err == nil {
		return v, nil
	}
	if v, err := parseInteger(trimmed); err == nil {
		return v, nil
	}
	return parseCharacter(trimmed), nil
}

// ParseValueAs parses a literal as the requested kind, failing with a
// [ValueError] when the literal does not have that form. Kinds without a
// literal form fall back to automatic detection.
func ParseValueAs(literal string, kind ValueKind) (Value, error) {
	trimmed := strings.TrimSpace(literal)
	if trimmed == "" {
		return NewNull(), nil
	}
	switch kind {
	case Integer:
		return parseInteger(trimmed)
	case Real:
		return parseReal(trimmed)
	case Complex:
		return parseComplex(trimmed)
	case Logical:
		return parseLogical(trimmed)
	case Character:
		return parseCharacter(trimmed), nil
	}
	return ParseValue(trimmed)
}

func parseInteger(literal string) (Value, error) {
	clean := literal
	if i := strings.IndexByte(clean, '_'); i >= 0 {
		clean = clean[:i] // drop kind suffix
	}
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return Value{}, &ValueError{Literal: literal, Want: "integer"}
	}
	return NewInt(n), nil
}

func parseReal(literal string) (Value, error) {
	normalized := strings.TrimSpace(literal)

	// A literal that reads as a pure integer must stay an integer.
	if LooksLikeInteger(normalized) {
		return Value{}, &ValueError{Literal: literal, Want: "real"}
	}

	// Fortran double-precision exponents use 'd' where Go expects 'e'.
	if i := strings.IndexAny(normalized, "dD"); i >= 0 {
		normalized = normalized[:i] + "e" + normalized[i+1:]
	}

	if i := strings.IndexByte(normalized, '_'); i >= 0 {
		normalized = normalized[:i] // drop kind suffix
	}

	switch strings.ToLower(normalized) {
	case "+inf", "inf", "+infinity", "infinity":
		return NewReal(math.Inf(1)), nil
	case "-inf", "-infinity":
		return NewReal(math.Inf(-1)), nil
	case "nan", "+nan", "-nan":
		return NewReal(math.NaN()), nil
	}

	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return Value{}, &ValueError{Literal: literal, Want: "real"}
	}
	return NewReal(f), nil
}

func parseComplex(literal string) (Value, error) {
	trimmed := strings.TrimSpace(literal)
	if !strings.HasPrefix(trimmed, "(") || !strings.HasSuffix(trimmed, ")") {
		return Value{}, &ValueError{Literal: literal, Want: "complex"}
	}
	parts := strings.Split(trimmed[1:len(trimmed)-1], ",")
	if len(parts) != 2 {
		return Value{}, &ValueError{Literal: literal, Want: "complex"}
	}
	re, err := realPart(parts[0])
	if err != nil {
		return Value{}, &ValueError{Literal: literal, Want: "complex"}
	}
	im, err := realPart(parts[1])
	if err != nil {
		return Value{}, &ValueError{Literal: literal, Want: "complex"}
	}
	return NewComplex(re, im), nil
}

// realPart parses one component of a complex literal, accepting both
// real and integer forms.
func realPart(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if v, err := parseReal(s); err == nil {
		return v.AsReal()
	}
	v, err := parseInteger(s)
	if err != nil {
		return 0, err
	}
	return v.AsReal()
}

func parseLogical(literal string) (Value, error) {
	lower := strings.ToLower(strings.TrimSpace(literal))
	switch lower {
	case ".true.", ".t.", "true", "t":
		return NewLogical(true), nil
	case ".false.", ".f.", "false", "f":
		return NewLogical(false), nil
	}
	// Truncated dotted forms like ".tr" still read as logicals.
	if strings.HasPrefix(lower, ".t") {
		return NewLogical(true), nil
	}
	if strings.HasPrefix(lower, ".f") {
		return NewLogical(false), nil
	}
	return Value{}, &ValueError{Literal: literal, Want: "logical"}
}

func parseCharacter(literal string) Value {
	trimmed := strings.TrimSpace(literal)
	if len(trimmed) >= 2 {
		switch {
		case trimmed[0] == '\'' && trimmed[len(trimmed)-1] == '\'':
			inner := trimmed[1 : len(trimmed)-1]
			return NewCharacter(strings.ReplaceAll(inner, "''", "'"))
		case trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"':
			inner := trimmed[1 : len(trimmed)-1]
			return NewCharacter(strings.ReplaceAll(inner, `""`, `"`))
		}
	}
	return NewCharacter(trimmed)
}

// LooksLikeInteger reports whether the literal reads as a pure integer:
// an optional sign, digits, and an optional kind suffix.
func LooksLikeInteger(literal string) bool {
	clean := strings.TrimSpace(literal)
	if i := strings.IndexByte(clean, '_'); i >= 0 {
		clean = clean[:i]
	}
	if clean == "" {
		return false
	}
	if clean[0] == '+' || clean[0] == '-' {
		clean = clean[1:]
	}
	if clean == "" {
		return false
	}
	for _, ch := range clean {
		if !isDigit(ch) {
			return false
		}
	}
	return true
}

// LooksLikeReal reports whether the literal reads as a real number: a
// numeric decimal point, an e/d exponent with a digit before it, or one
// of the special inf/nan spellings. Logical forms like ".true." do not
// count.
func LooksLikeReal(literal string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(literal))

	if strings.Contains(trimmed, "inf") || strings.Contains(trimmed, "nan") {
		return true
	}

	if dot := strings.IndexByte(trimmed, '.'); dot >= 0 {
		if strings.HasPrefix(trimmed, ".") &&
			(strings.Contains(trimmed, "true") || strings.Contains(trimmed, "false") ||
				strings.ContainsRune(trimmed, 't') || strings.ContainsRune(trimmed, 'f')) {
			return false
		}
		if strings.ContainsAny(trimmed[:dot], "0123456789") ||
			strings.ContainsAny(trimmed[dot+1:], "0123456789") {
			return true
		}
	}

	if strings.ContainsAny(trimmed, "ed") {
		for i, ch := range trimmed {
			if (ch == 'e' || ch == 'd') && strings.ContainsAny(trimmed[:i], "0123456789") {
				return true
			}
		}
	}

	return false
}

// InferKind reports the kind [ParseValue] would detect for the literal
// without parsing it fully.
func InferKind(literal string) ValueKind {
	trimmed := strings.TrimSpace(literal)
	if trimmed == "" {
		return Null
	}
	if _, err := parseLogical(trimmed); err == nil {
		return Logical
	}
	if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") &&
		strings.Contains(trimmed, ",") {
		return Complex
	}
	if len(trimmed) >= 2 &&
		(trimmed[0] == '\'' && trimmed[len(trimmed)-1] == '\'' ||
			trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"') {
		return Character
	}
	if LooksLikeReal(trimmed) {
		return Real
	}
	if LooksLikeInteger(trimmed) {
		return Integer
	}
	return Character
}

// ParseValueList splits a comma-separated value list, respecting quotes
// and parenthesized complex literals, and parses each entry. Empty
// entries, including one after a trailing comma, become null values.
func ParseValueList(input string) ([]Value, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	var (
		values    []Value
		current   strings.Builder
		inQuotes  bool
		quoteChar rune
		depth     int
	)

	flush := func(required bool) error {
		entry := strings.TrimSpace(current.String())
		current.Reset()
		if entry == "" {
			if required {
				values = append(values, NewNull())
			}
			return nil
		}
		v, err := ParseValue(entry)
		if err != nil {
			return err
		}
		values = append(values, v)
		return nil
	}

	for _, ch := range input {
		switch {
		case !inQuotes && (ch == '\'' || ch == '"'):
			inQuotes = true
			quoteChar = ch
			current.WriteRune(ch)
		case inQuotes && ch == quoteChar:
			inQuotes = false
			current.WriteRune(ch)
		case !inQuotes && ch == '(':
			depth++
			current.WriteRune(ch)
		case !inQuotes && ch == ')':
			depth--
			current.WriteRune(ch)
		case !inQuotes && depth == 0 && ch == ',':
			if err := flush(true); err != nil {
				return nil, err
			}
		default:
			current.WriteRune(ch)
		}
	}

	if strings.TrimSpace(current.String()) != "" {
		if err := flush(false); err != nil {
			return nil, err
		}
	} else if len(values) > 0 {
		// Trailing comma means a final null.
		values = append(values, NewNull())
	}

	return values, nil
}

// ParseRepeat parses a repeat expression like "3*42" or "5*.true.",
// returning the count and the repeated value. Input without a '*' is a
// single value with count 1; a '*' with nothing after it repeats the
// null value.
func ParseRepeat(input string) (int, Value, error) {
	star := strings.IndexByte(input, '*')
	if star < 0 {
		v, err := ParseValue(input)
		return 1, v, err
	}

	countStr := strings.TrimSpace(input[:star])
	count, err := strconv.Atoi(countStr)
	if err != nil || count < 0 {
		return 0, Value{}, &ValueError{Literal: countStr, Want: "repeat count"}
	}

	valueStr := strings.TrimSpace(input[star+1:])
	if valueStr == "" {
		return count, NewNull(), nil
	}
	v, err := ParseValue(valueStr)
	return count, v, err
}

// ValueConstraints limits the values accepted from parsed input. The
// zero value allows everything; chain the With* methods to narrow it.
type ValueConstraints struct {
	intRange    *[2]int64
	realRange   *[2]float64
	maxStrLen   int
	maxArrayLen int
}

// NewValueConstraints returns an unconstrained constraint set.
func NewValueConstraints() *ValueConstraints {
	return &ValueConstraints{}
}

// WithIntegerRange bounds integer values to [min, max].
func (c *ValueConstraints) WithIntegerRange(min, max int64) *ValueConstraints {
	c.intRange = &[2]int64{min, max}
	return c
}

// WithRealRange bounds real values to [min, max].
func (c *ValueConstraints) WithRealRange(min, max float64) *ValueConstraints {
	c.realRange = &[2]float64{min, max}
	return c
}

// WithMaxStringLength bounds character value lengths.
func (c *ValueConstraints) WithMaxStringLength(n int) *ValueConstraints {
	c.maxStrLen = n
	return c
}

// WithMaxArrayLength bounds array element counts.
func (c *ValueConstraints) WithMaxArrayLength(n int) *ValueConstraints {
	c.maxArrayLen = n
	return c
}

// Validate checks v against the constraints, descending into array
// elements. Kinds without a matching constraint always pass.
func (c *ValueConstraints) Validate(v Value) error {
	switch v.Kind() {
	case Integer:
		if c.intRange != nil && (v.i < c.intRange[0] || v.i > c.intRange[1]) {
			return &ValidationError{
				Msg: fmt.Sprintf("integer %d outside allowed range [%d, %d]",
					v.i, c.intRange[0], c.intRange[1]),
			}
		}
	case Real:
		if c.realRange != nil && (v.re < c.realRange[0] || v.re > c.realRange[1]) {
			return &ValidationError{
				Msg: fmt.Sprintf("real %g outside allowed range [%g, %g]",
					v.re, c.realRange[0], c.realRange[1]),
			}
		}
	case Character:
		if c.maxStrLen > 0 && len(v.s) > c.maxStrLen {
			return &ValidationError{
				Msg: fmt.Sprintf("string length %d exceeds maximum %d",
					len(v.s), c.maxStrLen),
			}
		}
	case Array:
		if c.maxArrayLen > 0 && len(v.items) > c.maxArrayLen {
			return &ValidationError{
				Msg: fmt.Sprintf("array length %d exceeds maximum %d",
					len(v.items), c.maxArrayLen),
			}
		}
		for _, elem := range v.items {
			if err := c.Validate(elem); err != nil {
				return err
			}
		}
	}
	return nil
}
