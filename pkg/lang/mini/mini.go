// Package mini implements a small brace-structured demonstration language.
//
//	# comment
//	x = 1;
//	{ y = [1, [2, 3]]; @{ raw } }
//
// Blocks are reparseable in isolation. Lists are chameleons: the full parse
// keeps them collapsed and their children are parsed on demand. A list never
// spans a brace or a semicolon. Embeds (@{...}) host foreign text up to the
// first closing brace and are never reparsed on their own.
package mini

import (
	"context"
	"fmt"

	"github.com/yaklabco/reparse/pkg/progress"
	"github.com/yaklabco/reparse/pkg/syntax"
)

// Name is the language identifier.
const Name = "mini"

// Types holds the element types of the language.
type Types struct {
	File      syntax.ElementType
	Block     syntax.ElementType
	List      syntax.ElementType
	Embed     syntax.ElementType
	Statement syntax.ElementType

	Ident     syntax.ElementType
	Number    syntax.ElementType
	Space     syntax.ElementType
	Comment   syntax.ElementType
	LBrace    syntax.ElementType
	RBrace    syntax.ElementType
	LBracket  syntax.ElementType
	RBracket  syntax.ElementType
	Assign    syntax.ElementType
	Semicolon syntax.ElementType
	Comma     syntax.ElementType
	At        syntax.ElementType
	EmbedText syntax.ElementType
	Error     syntax.ElementType
}

// Language is the mini language plugin. It is safe for concurrent use.
type Language struct {
	registry *syntax.Registry
	types    Types
}

// New creates the plugin with its own registry.
func New() *Language {
	reg := syntax.NewRegistry()
	reparseable := syntax.FlagReparseable
	return &Language{
		registry: reg,
		types: Types{
			File:      reg.Register(Name, "FILE", 0),
			Block:     reg.Register(Name, "BLOCK", reparseable),
			List:      reg.Register(Name, "LIST", reparseable|syntax.FlagLazy),
			Embed:     reg.Register(Name, "EMBED", reparseable|syntax.FlagTemplateHost),
			Statement: reg.Register(Name, "STATEMENT", 0),
			Ident:     reg.Register(Name, "IDENT", 0),
			Number:    reg.Register(Name, "NUMBER", 0),
			Space:     reg.Register(Name, "WS", syntax.FlagWhitespace),
			Comment:   reg.Register(Name, "COMMENT", syntax.FlagComment),
			LBrace:    reg.Register(Name, "LBRACE", 0),
			RBrace:    reg.Register(Name, "RBRACE", 0),
			LBracket:  reg.Register(Name, "LBRACKET", 0),
			RBracket:  reg.Register(Name, "RBRACKET", 0),
			Assign:    reg.Register(Name, "EQ", 0),
			Semicolon: reg.Register(Name, "SEMI", 0),
			Comma:     reg.Register(Name, "COMMA", 0),
			At:        reg.Register(Name, "AT", 0),
			EmbedText: reg.Register(Name, "EMBED_TEXT", 0),
			Error:     reg.Register(Name, "ERROR", syntax.FlagError),
		},
	}
}

// Name implements syntax.Language.
func (l *Language) Name() string {
	return Name
}

// Registry implements syntax.Language.
func (l *Language) Registry() *syntax.Registry {
	return l.registry
}

// Types returns the element types of the language.
func (l *Language) Types() Types {
	return l.types
}

// Parse implements syntax.Language.
func (l *Language) Parse(ctx context.Context, text string) (*syntax.Tree, error) {
	if err := progress.Canceled(ctx); err != nil {
		return nil, err
	}
	p := l.newParser(text)
	p.b.Start(l.types.File)
	for !p.eof() {
		p.item()
	}
	p.b.Finish()
	return p.b.Build()
}

// ParseSubstring implements syntax.Expander. Only blocks, lists, embeds and
// whole files can be parsed in isolation, and only when text is exactly one
// such node.
func (l *Language) ParseSubstring(ctx context.Context, typ syntax.ElementType, text string) (*syntax.Tree, error) {
	if err := progress.Canceled(ctx); err != nil {
		return nil, err
	}

	p := l.newParser(text)
	ok := false
	switch typ {
	case l.types.File:
		return l.Parse(ctx, text)
	case l.types.Block:
		ok = p.peek() == '{' && p.block()
	case l.types.List:
		end := matchList(text, 0)
		if p.peek() == '[' && end == len(text) {
			p.listBody(end)
			ok = true
		}
	case l.types.Embed:
		ok = p.peekAt(0) == '@' && p.peekAt(1) == '{' && p.embed()
	}
	if !ok || !p.eof() {
		return nil, fmt.Errorf("%s: %w", l.registry.Name(typ), syntax.ErrNotParsable)
	}
	return p.b.Build()
}

func (l *Language) newParser(text string) *parser {
	return &parser{
		text: text,
		t:    &l.types,
		b:    syntax.NewBuilder(l.registry),
	}
}
