// Package token defines the lexical token kinds of the Fortran namelist
// format and the Token value produced by the lexer.
package token

import "strconv"

// Kind classifies a lexical token.
type Kind int

// Install stringer tool:
//  go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=Kind -linecomment -output stringers.go .

// List of all tokens of the Fortran namelist format.
// When adding a new kind add it in between blocks since we use comparison
// functions to check properties of kinds.
const (
	// Not to be used in code. Is to catch uninitialized kinds.
	Undefined Kind = iota // <undefined>

	// ==================== DELIMITERS / PUNCTUATION ====================

	GroupStart    // &
	GroupStartAlt // $
	GroupEnd      // /
	Assign        // =
	Comma         // ,
	LParen        // (
	RParen        // )
	Colon         // :
	Percent       // %
	Plus          // +
	Minus         // -
	Star          // *

	// ==================== LITERALS ====================

	Identifier // <identifier>
	Integer    // <integer>
	Real       // <real>
	Complex    // <complex>
	Logical    // <logical>
	String     // <string>

	// ==================== SPECIAL TOKENS ====================

	Comment    // <comment>
	Whitespace // <whitespace>
	EOF        // <EOF>
	Invalid    // <invalid>
	numKinds
)

// IsDelimiter returns true if the kind is a delimiter or punctuation.
func (k Kind) IsDelimiter() bool {
	return k >= GroupStart && k <= Star
}

// IsLiteral returns true if the kind is a value literal or identifier.
func (k Kind) IsLiteral() bool {
	return k >= Identifier && k <= String
}

// IsValue returns true if the kind may begin a value in a value list.
func (k Kind) IsValue() bool {
	return k == Integer || k == Real || k == Complex ||
		k == Logical || k == String || k == Identifier
}

// IsGroupStart returns true for either group-open sigil (& or $).
func (k Kind) IsGroupStart() bool {
	return k == GroupStart || k == GroupStartAlt
}

// IsLayout returns true for tokens that carry formatting but no structure.
func (k Kind) IsLayout() bool {
	return k == Whitespace || k == Comment
}

// IsEOFOrInvalid returns true if the kind terminates scanning.
func (k Kind) IsEOFOrInvalid() bool {
	return k == EOF || k == Invalid
}

// Token is a single lexical token with its raw text and 1-based position.
// Tokens are immutable once produced by the lexer.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Col    int
}

// New constructs a token. Exists so call sites read uniformly.
func New(kind Kind, lexeme string, line, col int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Line: line, Col: col}
}

// String returns a "Kind(lexeme)" representation for debugging.
func (t Token) String() string {
	return t.Kind.String() + "(" + t.Lexeme + ")"
}

// PositionString returns the "line:column" representation of the token
// position.
func (t Token) PositionString() string {
	return strconv.Itoa(t.Line) + ":" + strconv.Itoa(t.Col)
}
