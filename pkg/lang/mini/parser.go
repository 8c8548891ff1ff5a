package mini

import (
	"strings"

	"github.com/yaklabco/reparse/pkg/syntax"
)

// parser is a single-pass recursive descent parser feeding a Builder.
// It never fails: unexpected bytes become ERROR leaves.
type parser struct {
	text string
	pos  int
	t    *Types
	b    *syntax.Builder
}

func (p *parser) eof() bool {
	return p.pos >= len(p.text)
}

func (p *parser) peek() byte {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) byte {
	if p.pos+n >= len(p.text) {
		return 0
	}
	return p.text[p.pos+n]
}

// leaf emits the next n bytes as a token of type typ.
func (p *parser) leaf(typ syntax.ElementType, n int) {
	p.b.Leaf(typ, p.text[p.pos:p.pos+n])
	p.pos += n
}

// run emits the longest run of bytes satisfying accept.
func (p *parser) run(typ syntax.ElementType, accept func(byte) bool) {
	n := 0
	for p.pos+n < len(p.text) && accept(p.text[p.pos+n]) {
		n++
	}
	p.leaf(typ, n)
}

func (p *parser) item() {
	c := p.peek()
	switch {
	case isSpace(c):
		p.run(p.t.Space, isSpace)
	case c == '#':
		p.run(p.t.Comment, func(b byte) bool { return b != '\n' })
	case isIdentStart(c):
		p.statement()
	case c == '{':
		p.block()
	case c == '[':
		p.list()
	case c == '@' && p.peekAt(1) == '{':
		p.embed()
	default:
		p.leaf(p.t.Error, 1)
	}
}

// block parses '{' item* '}' and reports whether the closing brace was
// found.
func (p *parser) block() bool {
	p.b.Start(p.t.Block)
	p.leaf(p.t.LBrace, 1)
	for !p.eof() && p.peek() != '}' {
		p.item()
	}
	closed := p.peek() == '}'
	if closed {
		p.leaf(p.t.RBrace, 1)
	}
	p.b.Finish()
	return closed
}

// statement parses IDENT [= expr] [;] with optional spaces in between.
func (p *parser) statement() {
	p.b.Start(p.t.Statement)
	p.run(p.t.Ident, isIdentPart)
	p.optSpace()
	if p.peek() == '=' {
		p.leaf(p.t.Assign, 1)
		p.optSpace()
		p.expr()
		p.optSpace()
	}
	if p.peek() == ';' {
		p.leaf(p.t.Semicolon, 1)
	}
	p.b.Finish()
}

func (p *parser) optSpace() {
	if isSpace(p.peek()) {
		p.run(p.t.Space, isSpace)
	}
}

func (p *parser) expr() {
	c := p.peek()
	switch {
	case isDigit(c):
		p.run(p.t.Number, isDigit)
	case isIdentStart(c):
		p.run(p.t.Ident, isIdentPart)
	case c == '[':
		p.list()
	}
}

// list emits a collapsed LIST chameleon spanning the balanced brackets, or
// an ERROR leaf when the bracket is not closed before a brace or semicolon.
func (p *parser) list() {
	end := matchList(p.text, p.pos)
	if end < 0 {
		p.leaf(p.t.Error, 1)
		return
	}
	p.b.Lazy(p.t.List, p.text[p.pos:end])
	p.pos = end
}

// listBody parses the materialised children of a list ending at end.
func (p *parser) listBody(end int) {
	p.b.Start(p.t.List)
	p.leaf(p.t.LBracket, 1)
	for p.pos < end-1 {
		c := p.peek()
		switch {
		case isSpace(c):
			p.run(p.t.Space, isSpace)
		case isDigit(c):
			p.run(p.t.Number, isDigit)
		case isIdentStart(c):
			p.run(p.t.Ident, isIdentPart)
		case c == ',':
			p.leaf(p.t.Comma, 1)
		case c == '[':
			p.list()
		default:
			p.leaf(p.t.Error, 1)
		}
	}
	p.leaf(p.t.RBracket, 1)
	p.b.Finish()
}

// embed parses @{ raw } where the raw text runs to the first closing brace,
// or to the end of input when there is none. It reports whether the embed
// was closed.
func (p *parser) embed() bool {
	p.b.Start(p.t.Embed)
	p.leaf(p.t.At, 1)
	p.leaf(p.t.LBrace, 1)
	n := strings.IndexByte(p.text[p.pos:], '}')
	if n < 0 {
		n = len(p.text) - p.pos
	}
	if n > 0 {
		p.leaf(p.t.EmbedText, n)
	}
	closed := p.peek() == '}'
	if closed {
		p.leaf(p.t.RBrace, 1)
	}
	p.b.Finish()
	return closed
}

// matchList returns the offset just past the bracket closing the one at
// start, or -1 when it is never closed. Lists never span a brace or a
// semicolon, so a block's contents cannot change how brackets outside it
// pair up.
func matchList(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '{', '}', ';':
			return -1
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
