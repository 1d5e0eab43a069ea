package nml

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/schismgo/nml/token"
)

// patcher is the working state of one format-preserving rewrite: a
// forward-only cursor over the layout-preserving token list paired with
// a sequential writer. Every token is copied verbatim except the value
// spans of patched variables, which are replaced by freshly formatted
// patch values.
type patcher struct {
	toks  []token.Token
	w     io.Writer
	patch *Namelist
}

// patchStream rewrites src to w, substituting values defined by patch,
// and returns the resulting document: original values for untouched
// variables, patch values for touched ones, patch-only variables and
// groups appended.
func patchStream(src string, patch *Namelist, w io.Writer) (*Namelist, error) {
	toks, err := NewScanner(src).ScanWithLayout()
	if err != nil {
		return nil, err
	}
	p := &patcher{toks: toks, w: w, patch: patch}
	return p.run()
}

func (p *patcher) run() (*Namelist, error) {
	doc := NewNamelist()

	idx := 0
	for idx < len(p.toks) {
		tok := p.toks[idx]
		switch {
		case tok.Kind.IsGroupStart():
			name, group, next, err := p.patchGroup(idx)
			if err != nil {
				return nil, err
			}
			doc.SetGroup(name, group)
			idx = next
		case tok.Kind == token.EOF:
			idx = len(p.toks)
		default:
			// Tokens outside any group are copied as-is.
			if err := p.emit(tok.Lexeme); err != nil {
				return nil, err
			}
			idx++
		}
	}

	// Groups the original never mentioned are appended in canonical
	// form; there is no original layout to preserve.
	for _, name := range p.patch.Names() {
		if doc.Has(name) {
			continue
		}
		pg, _ := p.patch.Group(name)
		if err := p.emit("\n&" + name); err != nil {
			return nil, err
		}
		for _, varName := range pg.Names() {
			v, _ := pg.Get(varName)
			if err := p.emit("\n    " + varName + " = " + v.Format(FormatOptions{})); err != nil {
				return nil, err
			}
		}
		if err := p.emit("\n/\n"); err != nil {
			return nil, err
		}
		doc.SetGroup(name, pg.clone())
	}

	return doc, nil
}

// patchGroup processes one group starting at the group-open token and
// returns the group name, the resulting group, and the index of the
// first token after the group.
func (p *patcher) patchGroup(start int) (string, *Group, int, error) {
	if err := p.emit(p.toks[start].Lexeme); err != nil {
		return "", nil, 0, err
	}
	idx, err := p.copyWhitespace(start + 1)
	if err != nil {
		return "", nil, 0, err
	}

	if idx >= len(p.toks) || p.toks[idx].Kind != token.Identifier {
		tok := p.toks[start]
		return "", nil, 0, syntaxErrf(tok.Line, tok.Col,
			"expected group name after %q", tok.Lexeme)
	}
	name := p.toks[idx].Lexeme
	if err := p.emit(name); err != nil {
		return "", nil, 0, err
	}
	idx++

	group := NewGroup()
	patchGroup, _ := p.patch.Group(name)
	used := make(map[string]bool)

	for idx < len(p.toks) {
		tok := p.toks[idx]
		switch tok.Kind {
		case token.GroupEnd:
			// Unseen patch variables are emitted before the close.
			if patchGroup != nil {
				for _, varName := range patchGroup.Names() {
					if used[varName] {
						continue
					}
					v, _ := patchGroup.Get(varName)
					line := "\n    " + varName + " = " + v.Format(FormatOptions{})
					if err := p.emit(line); err != nil {
						return "", nil, 0, err
					}
					group.Set(varName, v)
				}
			}
			if err := p.emit(tok.Lexeme); err != nil {
				return "", nil, 0, err
			}
			return name, group, idx + 1, nil

		case token.Identifier:
			if p.beginsAssignment(idx) {
				varName, next, err := p.patchVariable(idx, group, patchGroup)
				if err != nil {
					return "", nil, 0, err
				}
				used[strings.ToLower(varName)] = true
				idx = next
				continue
			}
			if err := p.emit(tok.Lexeme); err != nil {
				return "", nil, 0, err
			}
			idx++

		default:
			if err := p.emit(tok.Lexeme); err != nil {
				return "", nil, 0, err
			}
			idx++
		}
	}
	return name, group, idx, nil
}

// patchVariable processes one assignment starting at its identifier.
// The name, any index parentheses, any '%field' path, and the assign
// token are copied verbatim; the value span is either copied or
// substituted. The parsed assignment is recorded into group.
func (p *patcher) patchVariable(start int, group, patchGroup *Group) (string, int, error) {
	varName := p.toks[start].Lexeme
	if err := p.emit(varName); err != nil {
		return "", 0, err
	}
	idx, err := p.copyWhitespace(start + 1)
	if err != nil {
		return "", 0, err
	}

	// Index parentheses are copied verbatim, never patched. A bare
	// positive integer inside them is an element index.
	elemIndex := 0
	if idx < len(p.toks) && p.toks[idx].Kind == token.LParen {
		depth := 0
		var inner []string
		for idx < len(p.toks) {
			tok := p.toks[idx]
			switch tok.Kind {
			case token.LParen:
				depth++
			case token.RParen:
				depth--
			default:
				if !tok.Kind.IsLayout() {
					inner = append(inner, tok.Lexeme)
				}
			}
			if err := p.emit(tok.Lexeme); err != nil {
				return "", 0, err
			}
			idx++
			if depth == 0 {
				break
			}
		}
		if len(inner) == 1 {
			if n, err := strconv.Atoi(inner[0]); err == nil && n > 0 {
				elemIndex = n
			}
		}
	}

	idx, err = p.copyWhitespace(idx)
	if err != nil {
		return "", 0, err
	}

	// Derived-type field paths are copied verbatim and never
	// substituted; only whole variables can be patched.
	field := ""
	if idx < len(p.toks) && p.toks[idx].Kind == token.Percent {
		if err := p.emit(p.toks[idx].Lexeme); err != nil {
			return "", 0, err
		}
		idx, err = p.copyWhitespace(idx + 1)
		if err != nil {
			return "", 0, err
		}
		if idx >= len(p.toks) || p.toks[idx].Kind != token.Identifier {
			tok := p.toks[start]
			return "", 0, syntaxErrf(tok.Line, tok.Col,
				"expected field name after '%%' in assignment of %q", varName)
		}
		field = p.toks[idx].Lexeme
		if err := p.emit(field); err != nil {
			return "", 0, err
		}
		idx, err = p.copyWhitespace(idx + 1)
		if err != nil {
			return "", 0, err
		}
	}

	if idx >= len(p.toks) || p.toks[idx].Kind != token.Assign {
		tok := p.toks[start]
		return "", 0, syntaxErrf(tok.Line, tok.Col,
			"expected '=' in assignment of %q", varName)
	}
	if err := p.emit(p.toks[idx].Lexeme); err != nil {
		return "", 0, err
	}
	idx++

	idx, err = p.copyWhitespace(idx)
	if err != nil {
		return "", 0, err
	}

	if field == "" && patchGroup != nil {
		if pv, ok := patchGroup.Get(varName); ok {
			// Substitute: write the patch value, advance the cursor
			// past the original value span.
			if err := p.emit(pv.Format(FormatOptions{})); err != nil {
				return "", 0, err
			}
			next, err := p.skipValueSpan(idx)
			if err != nil {
				return "", 0, err
			}
			group.Set(varName, pv)
			return varName, next, nil
		}
	}

	v, next, err := p.copyValueSpan(idx)
	if err != nil {
		return "", 0, err
	}
	if field != "" {
		group.setDerivedField(varName, field, elemIndex, v)
	} else {
		group.Set(varName, v)
	}
	return varName, next, nil
}

// skipValueSpan advances past a value's token span without copying the
// value itself. The span ends at a top-level comma, the group close, or
// an identifier that begins the next assignment; the terminating token
// is not consumed. Whitespace and comments trailing the value belong to
// the surrounding layout, not the value, and are copied through.
func (p *patcher) skipValueSpan(start int) (int, error) {
	end := start
	depth := 0
scan:
	for end < len(p.toks) {
		tok := p.toks[end]
		switch tok.Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		case token.Comma:
			if depth == 0 {
				break scan
			}
		case token.GroupEnd:
			if depth == 0 {
				break scan
			}
		case token.Identifier:
			if depth == 0 && p.beginsAssignment(end) {
				break scan
			}
		case token.EOF:
			break scan
		}
		end++
	}

	last := end
	for last > start && p.toks[last-1].Kind.IsLayout() {
		last--
	}
	for i := last; i < end; i++ {
		if err := p.emit(p.toks[i].Lexeme); err != nil {
			return 0, err
		}
	}
	return end, nil
}

// copyValueSpan copies a value's token span verbatim and parses the
// collected text into a Value. A terminating top-level comma is copied
// and consumed; the group close or next assignment's identifier is left
// for the caller.
func (p *patcher) copyValueSpan(start int) (Value, int, error) {
	idx := start
	depth := 0
	var literal []string

scan:
	for idx < len(p.toks) {
		tok := p.toks[idx]
		switch tok.Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		case token.Comma:
			if depth == 0 {
				if err := p.emit(tok.Lexeme); err != nil {
					return Value{}, 0, err
				}
				idx++
				break scan
			}
		case token.GroupEnd:
			if depth == 0 {
				break scan
			}
		case token.Identifier:
			if depth == 0 && p.beginsAssignment(idx) {
				break scan
			}
		case token.EOF:
			break scan
		}
		if err := p.emit(tok.Lexeme); err != nil {
			return Value{}, 0, err
		}
		if !tok.Kind.IsLayout() {
			literal = append(literal, tok.Lexeme)
		}
		idx++
	}

	if len(literal) == 0 {
		return NewNull(), idx, nil
	}
	v, err := ParseValue(strings.Join(literal, " "))
	if err != nil {
		return Value{}, 0, err
	}
	return v, idx, nil
}

// beginsAssignment reports whether the identifier at idx is followed,
// after whitespace, by '=', '(' or '%' at parenthesis depth zero.
func (p *patcher) beginsAssignment(idx int) bool {
	look := idx + 1
	for look < len(p.toks) && p.toks[look].Kind == token.Whitespace {
		look++
	}
	if look >= len(p.toks) {
		return false
	}
	k := p.toks[look].Kind
	return k == token.Assign || k == token.LParen || k == token.Percent
}

// copyWhitespace copies a run of whitespace tokens starting at idx and
// returns the index of the first non-whitespace token.
func (p *patcher) copyWhitespace(idx int) (int, error) {
	for idx < len(p.toks) && p.toks[idx].Kind == token.Whitespace {
		if err := p.emit(p.toks[idx].Lexeme); err != nil {
			return 0, err
		}
		idx++
	}
	return idx, nil
}

func (p *patcher) emit(s string) error {
	if _, err := io.WriteString(p.w, s); err != nil {
		return fmt.Errorf("patch output: %w", err)
	}
	return nil
}
