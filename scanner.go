package nml

import "github.com/schismgo/nml/token"

// Scanner drives a [Lexer] over a complete input and collects the token
// stream in one of two modes: filtered, which drops whitespace runs so a
// structural parser sees only meaningful tokens, and layout-preserving,
// which keeps every token so the original text can be reconstructed
// byte for byte.
type Scanner struct {
	input               string
	commentChars        []rune
	nonDelimitedStrings bool
}

// NewScanner returns a scanner over input with the default lexer
// settings.
func NewScanner(input string) *Scanner {
	return &Scanner{
		input:               input,
		nonDelimitedStrings: true,
	}
}

// WithCommentChars overrides the comment-introducer characters used by
// the underlying lexer.
func (s *Scanner) WithCommentChars(chars ...rune) *Scanner {
	s.commentChars = chars
	return s
}

// WithNonDelimitedStrings enables or disables quote characters inside
// identifiers.
func (s *Scanner) WithNonDelimitedStrings(enabled bool) *Scanner {
	s.nonDelimitedStrings = enabled
	return s
}

func (s *Scanner) lexer() *Lexer {
	lx := NewLexer(s.input).WithNonDelimitedStrings(s.nonDelimitedStrings)
	if s.commentChars != nil {
		lx = lx.WithCommentChars(s.commentChars...)
	}
	return lx
}

// Scan tokenizes the whole input, dropping whitespace runs. Comment
// tokens are kept; the structural parser skips them where they may
// appear. The returned slice ends with an EOF token.
func (s *Scanner) Scan() ([]token.Token, error) {
	return s.scan(false)
}

// ScanWithLayout tokenizes the whole input keeping every token,
// whitespace included. Concatenating the lexemes of the result
// reproduces the input exactly. The returned slice ends with an EOF
// token.
func (s *Scanner) ScanWithLayout() ([]token.Token, error) {
	return s.scan(true)
}

func (s *Scanner) scan(keepLayout bool) ([]token.Token, error) {
	lx := s.lexer()
	var toks []token.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		if !keepLayout && tok.Kind == token.Whitespace {
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}
