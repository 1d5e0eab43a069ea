package nml

import (
	"strings"

	"github.com/schismgo/nml/token"
)

// Lexer is a single-token lexer for the Fortran namelist format.
// It walks a cursor over the full in-memory input and produces one token
// per call to [Lexer.Next]. Whitespace runs are emitted as their own
// tokens so that callers may either filter or preserve layout.
type Lexer struct {
	input   []rune
	current int // cursor into input
	line    int // 1-based line of the cursor
	col     int // 1-based column of the cursor

	commentChars        []rune
	nonDelimitedStrings bool
}

// NewLexer returns a lexer over input with default settings: comments are
// introduced by '!' or '#', and quote characters may continue an
// identifier (non-delimited string support).
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:               []rune(input),
		line:                1,
		col:                 1,
		commentChars:        []rune{'!', '#'},
		nonDelimitedStrings: true,
	}
}

// WithCommentChars overrides the set of comment-introducer characters.
func (l *Lexer) WithCommentChars(chars ...rune) *Lexer {
	l.commentChars = chars
	return l
}

// WithNonDelimitedStrings enables or disables quote characters inside
// identifiers.
func (l *Lexer) WithNonDelimitedStrings(enabled bool) *Lexer {
	l.nonDelimitedStrings = enabled
	return l
}

// Next scans and returns the next token. At end of input it returns an
// EOF token with an empty lexeme; every call after that does the same.
// The only errors are lexical: an unterminated string literal or an
// exponent marker with no digits, both fatal for the scan.
func (l *Lexer) Next() (token.Token, error) {
	if ch, ok := l.peek(); ok && isSpace(ch) {
		return l.scanWhitespace(), nil
	}

	line, col := l.line, l.col
	if l.atEnd() {
		return token.New(token.EOF, "", line, col), nil
	}

	start := l.current
	ch := l.advance()

	var kind token.Kind
	switch {
	case ch == '&':
		kind = token.GroupStart
	case ch == '$':
		kind = token.GroupStartAlt
	case ch == '/':
		kind = token.GroupEnd
	case ch == '=':
		kind = token.Assign
	case ch == ',':
		kind = token.Comma
	case ch == '(':
		kind = token.LParen
	case ch == ')':
		kind = token.RParen
	case ch == ':':
		kind = token.Colon
	case ch == '%':
		kind = token.Percent
	case ch == '*':
		kind = token.Star
	case ch == '+':
		return l.scanSignOrNumber(token.Plus, start, line, col)
	case ch == '-':
		return l.scanSignOrNumber(token.Minus, start, line, col)
	case ch == '\'' || ch == '"':
		return l.scanString(ch, start, line, col)
	case ch == '.':
		return l.scanDecimalOrLogical(start, line, col), nil
	case isAlpha(ch) || ch == '_':
		return l.scanIdentifier(start, line, col), nil
	case isDigit(ch):
		return l.scanNumber(start, line, col)
	case l.isCommentChar(ch):
		return l.scanComment(start, line, col), nil
	default:
		kind = token.Invalid
	}

	return token.New(kind, l.lexeme(start), line, col), nil
}

func (l *Lexer) scanWhitespace() token.Token {
	line, col := l.line, l.col
	start := l.current
	for {
		ch, ok := l.peek()
		if !ok || !isSpace(ch) {
			break
		}
		l.advance()
	}
	return token.New(token.Whitespace, l.lexeme(start), line, col)
}

// scanSignOrNumber disambiguates a leading '+' or '-'. A following digit
// or '.'+digit extends the sign into a full signed number; a following
// letter folds the sign into an identifier; anything else leaves a lone
// sign token.
func (l *Lexer) scanSignOrNumber(sign token.Kind, start, line, col int) (token.Token, error) {
	switch {
	case l.peekIs(isDigit):
		if err := l.scanNumberTail(); err != nil {
			return token.Token{}, err
		}
		lexeme := l.lexeme(start)
		return token.New(numberKind(lexeme), lexeme, line, col), nil

	case l.peekIs(isChar('.')):
		l.advance() // consume '.'
		if l.peekIs(isDigit) {
			if err := l.scanNumberTail(); err != nil {
				return token.Token{}, err
			}
			return token.New(token.Real, l.lexeme(start), line, col), nil
		}
		// Just a sign followed by '.': back the '.' out.
		l.current--
		l.col--
		return token.New(sign, l.lexeme(start), line, col), nil

	case l.peekIs(isAlpha):
		l.scanIdentifierTail()
		return token.New(token.Identifier, l.lexeme(start), line, col), nil

	default:
		return token.New(sign, l.lexeme(start), line, col), nil
	}
}

func (l *Lexer) scanIdentifier(start, line, col int) token.Token {
	l.scanIdentifierTail()
	lexeme := l.lexeme(start)
	kind := token.Identifier
	switch strings.ToLower(lexeme) {
	case "true", "t", "false", "f":
		kind = token.Logical
	}
	return token.New(kind, lexeme, line, col)
}

func (l *Lexer) scanIdentifierTail() {
	for {
		ch, ok := l.peek()
		if !ok {
			return
		}
		if isAlnum(ch) || ch == '_' {
			l.advance()
		} else if l.nonDelimitedStrings && (ch == '\'' || ch == '"') {
			l.advance()
		} else {
			return
		}
	}
}

// scanNumber scans a number whose first digit has been consumed. A decimal
// point, an e/E/d/D exponent, or a trailing kind suffix all force
// classification as Real; otherwise the token is an Integer.
func (l *Lexer) scanNumber(start, line, col int) (token.Token, error) {
	for l.peekIs(isDigit) {
		l.advance()
	}

	var hasDecimal, hasExponent, hasKind bool

	// A '.' continues the number only when followed by a digit or an
	// exponent marker: "1.true." must not eat the dot.
	if l.peekIs(isChar('.')) {
		if next, ok := l.peekAhead(1); ok && (isDigit(next) || isExponentMarker(next)) {
			hasDecimal = true
			l.advance() // consume '.'
			for l.peekIs(isDigit) {
				l.advance()
			}
		}
	}

	if l.peekIs(isExponentMarker) {
		hasExponent = true
		l.advance() // consume exponent marker
		if l.peekIs(isSign) {
			l.advance()
		}
		if !l.peekIs(isDigit) {
			return token.Token{}, &SyntaxError{
				Msg:  "invalid exponent in number",
				Line: l.line,
				Col:  l.col,
			}
		}
		for l.peekIs(isDigit) {
			l.advance()
		}
	}

	if l.peekIs(isChar('_')) {
		hasKind = true
		l.scanKindSuffix()
	}

	kind := token.Integer
	if hasDecimal || hasExponent || hasKind {
		kind = token.Real
	}
	return token.New(kind, l.lexeme(start), line, col), nil
}

// scanNumberTail continues a number after a consumed sign character.
func (l *Lexer) scanNumberTail() error {
	for l.peekIs(isDigit) {
		l.advance()
	}

	if l.peekIs(isChar('.')) {
		l.advance()
		for l.peekIs(isDigit) {
			l.advance()
		}
	}

	if l.peekIs(isExponentMarker) {
		l.advance()
		if l.peekIs(isSign) {
			l.advance()
		}
		if !l.peekIs(isDigit) {
			return &SyntaxError{
				Msg:  "invalid exponent in number",
				Line: l.line,
				Col:  l.col,
			}
		}
		for l.peekIs(isDigit) {
			l.advance()
		}
	}

	if l.peekIs(isChar('_')) {
		l.scanKindSuffix()
	}
	return nil
}

// scanKindSuffix consumes '_' and a named (_dp, _real64) or numeric (_8)
// kind value.
func (l *Lexer) scanKindSuffix() {
	l.advance() // consume '_'
	if l.peekIs(isAlpha) {
		for l.peekIs(func(ch rune) bool { return isAlnum(ch) || ch == '_' }) {
			l.advance()
		}
	} else {
		for l.peekIs(isDigit) {
			l.advance()
		}
	}
}

// scanDecimalOrLogical handles a leading '.', which begins either a real
// number (".5"), a logical literal (".true."), or a dotted word that
// scans as an identifier.
func (l *Lexer) scanDecimalOrLogical(start, line, col int) token.Token {
	if l.peekIs(isDigit) {
		for l.peekIs(isDigit) {
			l.advance()
		}
		if l.peekIs(isExponentMarker) {
			l.advance()
			if l.peekIs(isSign) {
				l.advance()
			}
			for l.peekIs(isDigit) {
				l.advance()
			}
		}
		return token.New(token.Real, l.lexeme(start), line, col)
	}

	if l.peekIs(isAlpha) {
		for l.peekIs(func(ch rune) bool { return isAlnum(ch) || ch == '_' }) {
			l.advance()
		}
		if l.peekIs(isChar('.')) {
			l.advance() // consume closing '.'
		}
		lexeme := l.lexeme(start)
		lower := strings.ToLower(lexeme)
		if strings.HasPrefix(lower, ".t") || strings.HasPrefix(lower, ".f") {
			return token.New(token.Logical, lexeme, line, col)
		}
		return token.New(token.Identifier, lexeme, line, col)
	}

	// A lone decimal point has no meaning in a namelist.
	return token.New(token.Invalid, l.lexeme(start), line, col)
}

// scanString scans a quoted string whose opening quote has been consumed.
// The quote character is escaped by doubling. The lexeme retains the
// surrounding quotes; unescaping happens at value-parse time.
func (l *Lexer) scanString(quote rune, start, line, col int) (token.Token, error) {
	for !l.atEnd() {
		ch := l.advance()
		if ch == '\n' {
			return token.Token{}, &SyntaxError{
				Msg:  "unterminated string literal",
				Line: l.line,
				Col:  l.col,
			}
		}
		if ch == quote {
			if next, ok := l.peek(); ok && next == quote {
				l.advance() // escaped quote, keep scanning
				continue
			}
			return token.New(token.String, l.lexeme(start), line, col), nil
		}
	}
	return token.Token{}, &SyntaxError{
		Msg:  "unterminated string literal",
		Line: l.line,
		Col:  l.col,
	}
}

func (l *Lexer) scanComment(start, line, col int) token.Token {
	for {
		ch, ok := l.peek()
		if !ok || ch == '\n' {
			break
		}
		l.advance()
	}
	return token.New(token.Comment, l.lexeme(start), line, col)
}

// numberKind classifies a signed number lexeme after the fact: a decimal
// point, exponent marker, or kind suffix means Real.
func numberKind(lexeme string) token.Kind {
	if strings.ContainsAny(lexeme, ".eEdD_") {
		return token.Real
	}
	return token.Integer
}

func (l *Lexer) isCommentChar(ch rune) bool {
	for _, c := range l.commentChars {
		if ch == c {
			return true
		}
	}
	return false
}

func (l *Lexer) lexeme(start int) string {
	return string(l.input[start:l.current])
}

func (l *Lexer) atEnd() bool {
	return l.current >= len(l.input)
}

func (l *Lexer) advance() rune {
	if l.atEnd() {
		return 0
	}
	ch := l.input[l.current]
	l.current++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) peek() (rune, bool) {
	if l.atEnd() {
		return 0, false
	}
	return l.input[l.current], true
}

func (l *Lexer) peekAhead(distance int) (rune, bool) {
	pos := l.current + distance
	if pos >= len(l.input) {
		return 0, false
	}
	return l.input[pos], true
}

func (l *Lexer) peekIs(pred func(rune) bool) bool {
	ch, ok := l.peek()
	return ok && pred(ch)
}

func isChar(want rune) func(rune) bool {
	return func(ch rune) bool { return ch == want }
}

func isSign(ch rune) bool {
	return ch == '+' || ch == '-'
}

func isAlpha(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isAlnum(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' ||
		ch == '\v' || ch == '\f'
}

func isExponentMarker(ch rune) bool {
	return ch == 'e' || ch == 'E' || ch == 'd' || ch == 'D'
}
