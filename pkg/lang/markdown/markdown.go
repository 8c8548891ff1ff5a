// Package markdown implements a Markdown language plugin backed by goldmark.
//
// The tree is block-grained: the document holds one node per top-level
// block, and each block holds its lines. Runs of blank lines between blocks
// become BLANK leaves. Goldmark decides where blocks are; the plugin only
// maps its block boundaries back onto the source so that the tree spells
// the input byte for byte.
package markdown

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/reparse/pkg/progress"
	"github.com/yaklabco/reparse/pkg/syntax"
)

// Name is the language identifier.
const Name = "markdown"

// Flavor identifies the Markdown flavor goldmark is configured for.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Types holds the element types of the language.
type Types struct {
	Document      syntax.ElementType
	Paragraph     syntax.ElementType
	Heading       syntax.ElementType
	FencedCode    syntax.ElementType
	CodeBlock     syntax.ElementType
	List          syntax.ElementType
	Blockquote    syntax.ElementType
	ThematicBreak syntax.ElementType
	HTMLBlock     syntax.ElementType
	Table         syntax.ElementType
	Block         syntax.ElementType

	Line    syntax.ElementType
	Newline syntax.ElementType
	Blank   syntax.ElementType
}

// Language is the markdown plugin.
type Language struct {
	flavor   string
	md       goldmark.Markdown
	registry *syntax.Registry
	types    Types
}

// New creates the plugin for flavor. Unknown flavors fall back to
// CommonMark.
//
// Lists and thematic breaks are not reparseable on their own: whether two
// adjacent lists merge, or whether "---" underlines the paragraph above,
// depends on text outside the node.
func New(flavor string) *Language {
	f := flavorOrDefault(flavor)
	reg := syntax.NewRegistry()
	reparseable := syntax.FlagReparseable
	return &Language{
		flavor:   f,
		md:       newGoldmarkInstance(f),
		registry: reg,
		types: Types{
			Document:      reg.Register(Name, "DOCUMENT", 0),
			Paragraph:     reg.Register(Name, "PARAGRAPH", reparseable),
			Heading:       reg.Register(Name, "HEADING", reparseable),
			FencedCode:    reg.Register(Name, "FENCED_CODE", reparseable),
			CodeBlock:     reg.Register(Name, "CODE_BLOCK", reparseable),
			List:          reg.Register(Name, "LIST", 0),
			Blockquote:    reg.Register(Name, "BLOCKQUOTE", reparseable),
			ThematicBreak: reg.Register(Name, "THEMATIC_BREAK", 0),
			HTMLBlock:     reg.Register(Name, "HTML_BLOCK", reparseable|syntax.FlagTemplateHost),
			Table:         reg.Register(Name, "TABLE", reparseable),
			Block:         reg.Register(Name, "BLOCK", 0),
			Line:          reg.Register(Name, "LINE", 0),
			Newline:       reg.Register(Name, "NEWLINE", syntax.FlagWhitespace),
			Blank:         reg.Register(Name, "BLANK", syntax.FlagWhitespace),
		},
	}
}

// Name implements syntax.Language.
func (l *Language) Name() string {
	return Name
}

// Flavor returns the configured Markdown flavor.
func (l *Language) Flavor() string {
	return l.flavor
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
func (l *Language) Parse(ctx context.Context, src string) (*syntax.Tree, error) {
	blocks, err := l.blocks(ctx, src)
	if err != nil {
		return nil, err
	}

	b := syntax.NewBuilder(l.registry)
	b.Start(l.types.Document)
	cursor := 0
	for _, blk := range blocks {
		b.Leaf(l.types.Blank, src[cursor:blk.start])
		l.emitBlock(b, blk.typ, src[blk.start:blk.end])
		cursor = blk.end
	}
	b.Leaf(l.types.Blank, src[cursor:])
	b.Finish()
	return b.Build()
}

// ParseSubstring implements syntax.Expander. It accepts text only when
// goldmark reads it as exactly one block of type typ spanning all of it.
// Fenced code must carry its closing fence, otherwise it would swallow
// whatever follows it in the document.
func (l *Language) ParseSubstring(ctx context.Context, typ syntax.ElementType, src string) (*syntax.Tree, error) {
	if typ == l.types.Document {
		return l.Parse(ctx, src)
	}

	blocks, err := l.blocks(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(blocks) != 1 {
		return nil, fmt.Errorf("%s: %d blocks: %w", l.registry.Name(typ), len(blocks), syntax.ErrNotParsable)
	}
	blk := blocks[0]
	switch {
	case blk.typ != typ,
		blk.start != 0 || blk.end != len(src),
		typ == l.types.FencedCode && !blk.closed:
		return nil, fmt.Errorf("%s: %w", l.registry.Name(typ), syntax.ErrNotParsable)
	}

	b := syntax.NewBuilder(l.registry)
	l.emitBlock(b, typ, src)
	return b.Build()
}

// emitBlock writes a block node with one LINE and NEWLINE leaf per line.
func (l *Language) emitBlock(b *syntax.Builder, typ syntax.ElementType, src string) {
	b.Start(typ)
	for pos := 0; pos < len(src); {
		end := lineEnd(src, pos)
		if src[end-1] == '\n' {
			b.Leaf(l.types.Line, src[pos:end-1])
			b.Leaf(l.types.Newline, "\n")
		} else {
			b.Leaf(l.types.Line, src[pos:end])
		}
		pos = end
	}
	b.Finish()
}

// blocks parses src with goldmark and maps its top-level blocks onto
// source ranges.
func (l *Language) blocks(ctx context.Context, src string) ([]block, error) {
	if err := progress.Canceled(ctx); err != nil {
		return nil, err
	}

	content := []byte(src)
	reader := text.NewReader(content)
	doc := l.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	if err := progress.Canceled(ctx); err != nil {
		return nil, err
	}
	return newPartitioner(src, &l.types).partition(doc), nil
}

// typeOf maps a top-level goldmark node to an element type.
func (t *Types) typeOf(node ast.Node) syntax.ElementType {
	switch node.Kind() {
	case ast.KindParagraph:
		return t.Paragraph
	case ast.KindHeading:
		return t.Heading
	case ast.KindFencedCodeBlock:
		return t.FencedCode
	case ast.KindCodeBlock:
		return t.CodeBlock
	case ast.KindList:
		return t.List
	case ast.KindBlockquote:
		return t.Blockquote
	case ast.KindThematicBreak:
		return t.ThematicBreak
	case ast.KindHTMLBlock:
		return t.HTMLBlock
	case east.KindTable:
		return t.Table
	default:
		return t.Block
	}
}

// flavorOrDefault returns the flavor if valid, otherwise CommonMark.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}
