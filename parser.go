package nml

import (
	"strconv"
	"strings"

	"github.com/schismgo/nml/token"
)

// Parser builds a [Namelist] from the whitespace-filtered token stream.
// It walks the top level looking for group-open tokens; tokens before
// the first group are skipped without error. Inside a group it reads
// "name [ (index-spec) ] = value-list" assignments until the group
// closes. Index specifications are skipped, not interpreted; the index
// utilities in this package remain available to callers that need them.
type Parser struct {
	toks []token.Token
	pos  int
}

// NewParser scans input and returns a parser over its filtered tokens.
func NewParser(input string) (*Parser, error) {
	toks, err := NewScanner(input).Scan()
	if err != nil {
		return nil, err
	}
	return &Parser{toks: toks}, nil
}

// Parse consumes the token stream and returns the document it describes.
func (p *Parser) Parse() (*Namelist, error) {
	doc := NewNamelist()
	for !p.atEnd() {
		if p.peek().Kind.IsGroupStart() {
			name, group, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			doc.SetGroup(name, group)
		} else {
			p.next()
		}
	}
	return doc, nil
}

func (p *Parser) parseGroup() (string, *Group, error) {
	p.next() // consume the group-open token
	p.skipComments()

	nameTok := p.next()
	if nameTok.Kind != token.Identifier {
		return "", nil, syntaxErrf(nameTok.Line, nameTok.Col,
			"expected group name after %q, got %s", "&", nameTok.String())
	}
	name := nameTok.Lexeme

	group := NewGroup()
	for {
		p.skipComments()
		if p.atEnd() {
			return "", nil, &SyntaxError{
				Msg:  "group " + name + " not terminated",
				Line: nameTok.Line,
				Col:  nameTok.Col,
				Err:  ErrUnexpectedEOF,
			}
		}
		tok := p.peek()
		switch tok.Kind {
		case token.GroupEnd:
			p.next()
			return name, group, nil
		case token.GroupStartAlt:
			// "$" or "$end" also terminates a group.
			p.next()
			if !p.atEnd() && p.peek().Kind == token.Identifier &&
				strings.EqualFold(p.peek().Lexeme, "end") {
				p.next()
			}
			return name, group, nil
		case token.Identifier:
			if err := p.parseAssignment(group); err != nil {
				return "", nil, err
			}
		default:
			p.next() // skip stray tokens
		}
	}
}

// parseAssignment reads one "name [ (index-spec) ] [ %field ] = values"
// assignment and records it on the group. Plain index specifications are
// skipped; a single-integer index combined with a %field path selects a
// derived-type array element.
func (p *Parser) parseAssignment(group *Group) error {
	nameTok := p.next()
	name := nameTok.Lexeme

	p.skipComments()
	elemIndex := 0
	if !p.atEnd() && p.peek().Kind == token.LParen {
		idx, err := p.indexSpec()
		if err != nil {
			return err
		}
		elemIndex = idx
		p.skipComments()
	}

	field := ""
	if !p.atEnd() && p.peek().Kind == token.Percent {
		p.next()
		fieldTok := p.next()
		if fieldTok.Kind != token.Identifier {
			return syntaxErrf(fieldTok.Line, fieldTok.Col,
				"expected field name after '%%' in %q, got %s", name, fieldTok.String())
		}
		field = strings.ToLower(fieldTok.Lexeme)
		p.skipComments()
	}

	assign := p.next()
	if assign.Kind != token.Assign {
		return syntaxErrf(assign.Line, assign.Col,
			"expected '=' after variable %q, got %s", name, assign.String())
	}

	value, err := p.parseValueList(name)
	if err != nil {
		return err
	}

	if field == "" {
		group.Set(name, value)
		return nil
	}
	group.setDerivedField(name, field, elemIndex, value)
	return nil
}

// indexSpec consumes a balanced parenthesis span. When the span is
// exactly one positive integer its value is returned; richer
// specifications are skipped and yield zero.
func (p *Parser) indexSpec() (int, error) {
	open := p.next() // consume '('

	elem := 0
	if p.pos+1 < len(p.toks) &&
		p.toks[p.pos].Kind == token.Integer &&
		p.toks[p.pos+1].Kind == token.RParen {
		if n, err := strconv.Atoi(p.toks[p.pos].Lexeme); err == nil && n > 0 {
			elem = n
		}
		p.next()
		p.next()
		return elem, nil
	}

	depth := 1
	for depth > 0 {
		if p.atEnd() {
			return 0, &SyntaxError{
				Msg:  "unbalanced parentheses in index specification",
				Line: open.Line,
				Col:  open.Col,
				Err:  ErrUnexpectedEOF,
			}
		}
		switch p.next().Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		}
	}
	return 0, nil
}

// parseValueList reads the comma-separated values of one assignment. The
// list ends at a group terminator or at an identifier that begins the
// next assignment. A single value yields a scalar; several yield an
// Array; empty slots and a trailing comma yield nulls.
func (p *Parser) parseValueList(varName string) (Value, error) {
	var items []Value
	expectValue := true

	for {
		p.skipComments()
		if p.atEnd() {
			break
		}
		tok := p.peek()

		if tok.Kind.IsGroupStart() || tok.Kind == token.GroupEnd || tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.Identifier && p.startsAssignment() {
			break
		}

		if tok.Kind == token.Comma {
			p.next()
			if expectValue {
				items = append(items, NewNull())
			}
			expectValue = true
			continue
		}

		count, v, err := p.parseValueEntry(varName)
		if err != nil {
			return Value{}, err
		}
		for i := 0; i < count; i++ {
			items = append(items, v)
		}
		expectValue = false
	}

	if expectValue && len(items) > 0 {
		items = append(items, NewNull()) // trailing comma
	}

	switch len(items) {
	case 0:
		return NewNull(), nil
	case 1:
		return items[0], nil
	}
	return NewArray(items...), nil
}

// startsAssignment reports whether the identifier at the cursor is
// followed by '=', '(' or '%' and therefore begins the next assignment
// rather than continuing a value list.
func (p *Parser) startsAssignment() bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	k := p.toks[p.pos+1].Kind
	return k == token.Assign || k == token.LParen || k == token.Percent
}

// parseValueEntry reads one value, expanding a leading "count*" repeat
// prefix. The returned count is how many copies belong in the list.
func (p *Parser) parseValueEntry(varName string) (int, Value, error) {
	tok := p.peek()

	// Repeat notation: integer '*' value.
	if tok.Kind == token.Integer && p.pos+1 < len(p.toks) &&
		p.toks[p.pos+1].Kind == token.Star {
		count, err := strconv.Atoi(tok.Lexeme)
		if err != nil || count < 0 {
			return 0, Value{}, syntaxErrf(tok.Line, tok.Col,
				"invalid repeat count %q for %q", tok.Lexeme, varName)
		}
		p.next() // count
		p.next() // '*'

		p.skipComments()
		if p.atEnd() || p.peek().Kind == token.Comma ||
			p.peek().Kind == token.GroupEnd || p.peek().Kind.IsGroupStart() ||
			(p.peek().Kind == token.Identifier && p.startsAssignment()) {
			return count, NewNull(), nil
		}
		_, v, err := p.parseValueEntry(varName)
		if err != nil {
			return 0, Value{}, err
		}
		return count, v, nil
	}

	switch tok.Kind {
	case token.Integer, token.Real, token.Logical, token.String, token.Identifier:
		p.next()
		v, err := ParseValue(tok.Lexeme)
		if err != nil {
			return 0, Value{}, syntaxErrf(tok.Line, tok.Col,
				"invalid value %q for %q", tok.Lexeme, varName)
		}
		return 1, v, nil

	case token.LParen:
		v, err := p.parseComplexLiteral(varName)
		if err != nil {
			return 0, Value{}, err
		}
		return 1, v, nil
	}

	return 0, Value{}, syntaxErrf(tok.Line, tok.Col,
		"unexpected %s in value of %q", tok.String(), varName)
}

// parseComplexLiteral reads "(re, im)".
func (p *Parser) parseComplexLiteral(varName string) (Value, error) {
	open := p.next() // consume '('

	re, err := p.complexComponent(varName)
	if err != nil {
		return Value{}, err
	}
	if comma := p.next(); comma.Kind != token.Comma {
		return Value{}, syntaxErrf(comma.Line, comma.Col,
			"expected ',' in complex value of %q, got %s", varName, comma.String())
	}
	im, err := p.complexComponent(varName)
	if err != nil {
		return Value{}, err
	}
	if closing := p.next(); closing.Kind != token.RParen {
		return Value{}, syntaxErrf(open.Line, open.Col,
			"unterminated complex value of %q", varName)
	}
	return NewComplex(re, im), nil
}

func (p *Parser) complexComponent(varName string) (float64, error) {
	tok := p.next()
	if tok.Kind != token.Integer && tok.Kind != token.Real {
		return 0, syntaxErrf(tok.Line, tok.Col,
			"expected number in complex value of %q, got %s", varName, tok.String())
	}
	f, err := realPart(tok.Lexeme)
	if err != nil {
		return 0, syntaxErrf(tok.Line, tok.Col,
			"invalid complex component %q for %q", tok.Lexeme, varName)
	}
	return f, nil
}

func (p *Parser) skipComments() {
	for !p.atEnd() && p.peek().Kind == token.Comment {
		p.next()
	}
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.toks) || p.toks[p.pos].Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return token.New(token.EOF, "", 0, 0)
}

func (p *Parser) next() token.Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}
