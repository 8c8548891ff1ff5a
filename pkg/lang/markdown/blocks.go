package markdown

import (
	"github.com/yuin/goldmark/ast"

	"github.com/yaklabco/reparse/pkg/syntax"
)

// maxIndent is the deepest indentation a block marker may carry before
// the line turns into indented code.
const maxIndent = 3

// maxATXLevel is the deepest ATX heading level.
const maxATXLevel = 6

// minFence is the shortest run of backticks or tildes that opens a fence.
const minFence = 3

// block is the source range of one top-level block. start is the offset of
// its first line; end excludes trailing blank lines.
type block struct {
	typ    syntax.ElementType
	start  int
	end    int
	closed bool
}

// partitioner maps goldmark's top-level blocks onto line ranges.
//
// Goldmark records content segments, not block extents: fences, setext
// underlines and container markers are not covered by any segment. A block
// with a reliable first content line starts there; any other block starts
// at the first non-blank line after its predecessor's last line. Text no
// block claims (link reference definitions) stays with the block before it.
type partitioner struct {
	src   string
	types *Types
}

func newPartitioner(src string, types *Types) *partitioner {
	return &partitioner{src: src, types: types}
}

func (p *partitioner) partition(doc ast.Node) []block {
	var blocks []block
	next := 0
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		start := p.ownStart(node)
		if len(blocks) == 0 || start < 0 {
			start = p.firstNonBlankLine(next)
		}
		if start >= len(p.src) || (len(blocks) > 0 && start <= blocks[len(blocks)-1].start) {
			continue
		}

		blk := block{typ: p.types.typeOf(node), start: start}
		next = p.lastLineEnd(node, &blk)
		blocks = append(blocks, blk)
	}

	if len(blocks) == 0 {
		if start := p.firstNonBlankLine(0); start < len(p.src) {
			blocks = append(blocks, block{typ: p.types.Block, start: start})
		}
	}
	for i := range blocks {
		limit := len(p.src)
		if i+1 < len(blocks) {
			limit = blocks[i+1].start
		}
		blocks[i].end = p.trimBlank(blocks[i].start, limit)
	}
	return blocks
}

// ownStart returns the line start of a block whose first line is known
// from its segments, or -1.
func (p *partitioner) ownStart(node ast.Node) int {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindHeading, ast.KindCodeBlock, ast.KindHTMLBlock:
		lines := node.Lines()
		if lines.Len() == 0 {
			return -1
		}
		return lineStart(p.src, lines.At(0).Start)

	case ast.KindFencedCodeBlock:
		// The opening fence is the line before the first content line.
		lines := node.Lines()
		if lines.Len() == 0 {
			return -1
		}
		first := lineStart(p.src, lines.At(0).Start)
		if first == 0 {
			return -1
		}
		return lineStart(p.src, first-1)
	}
	return -1
}

// lastLineEnd returns the offset just past the last line node is known to
// occupy, and records whether a fenced block found its closing fence.
func (p *partitioner) lastLineEnd(node ast.Node, blk *block) int {
	end := lineEnd(p.src, blk.start)
	if stop := maxStop(node); stop > blk.start {
		end = max(end, lineEnd(p.src, stop-1))
	}

	switch node.Kind() {
	case ast.KindFencedCodeBlock:
		char, length := fenceAt(p.src, blk.start)
		if end < len(p.src) && isClosingFence(p.src[end:lineEnd(p.src, end)], char, length) {
			end = lineEnd(p.src, end)
			blk.closed = true
		}
	case ast.KindHTMLBlock:
		if html, ok := node.(*ast.HTMLBlock); ok && html.HasClosure() {
			end = max(end, lineEnd(p.src, html.ClosureLine.Stop-1))
		}
	case ast.KindHeading:
		if !isATX(p.src[blk.start:lineEnd(p.src, blk.start)]) && end < len(p.src) {
			// Setext underline.
			end = lineEnd(p.src, end)
		}
	}
	return end
}

// maxStop returns the largest segment stop among node and its descendants.
func maxStop(node ast.Node) int {
	stop := -1
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			stop = max(stop, t.Segment.Stop)
		}
		// Inline nodes have no line segments.
		if n.Type() != ast.TypeInline {
			lines := n.Lines()
			if lines.Len() > 0 {
				stop = max(stop, lines.At(lines.Len()-1).Stop)
			}
		}
		return ast.WalkContinue, nil
	})
	return stop
}

// firstNonBlankLine returns the start of the first non-blank line at or
// after from, or len(src).
func (p *partitioner) firstNonBlankLine(from int) int {
	for pos := from; pos < len(p.src); pos = lineEnd(p.src, pos) {
		if !isBlank(p.src[pos:lineEnd(p.src, pos)]) {
			return pos
		}
	}
	return len(p.src)
}

// trimBlank returns the end of the last non-blank line in [start, limit).
func (p *partitioner) trimBlank(start, limit int) int {
	end := lineEnd(p.src, start)
	for pos := end; pos < limit; {
		next := min(lineEnd(p.src, pos), limit)
		if !isBlank(p.src[pos:next]) {
			end = next
		}
		pos = next
	}
	return min(end, limit)
}

func lineStart(src string, offset int) int {
	for offset > 0 && src[offset-1] != '\n' {
		offset--
	}
	return offset
}

// lineEnd returns the offset just past the newline ending the line at pos,
// or len(src).
func lineEnd(src string, pos int) int {
	for pos < len(src) {
		if src[pos] == '\n' {
			return pos + 1
		}
		pos++
	}
	return len(src)
}

func isBlank(line string) bool {
	for i := range len(line) {
		switch line[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}

// indent returns the number of leading spaces, or -1 if the line is
// indented too far to open a block marker.
func indent(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	if n > maxIndent {
		return -1
	}
	return n
}

// isATX reports whether line opens an ATX heading: one to six '#' followed
// by a space or the end of the line.
func isATX(line string) bool {
	n := indent(line)
	if n < 0 {
		return false
	}
	level := 0
	for n < len(line) && line[n] == '#' {
		level++
		n++
	}
	if level == 0 || level > maxATXLevel {
		return false
	}
	return n == len(line) || isBlank(line[n:n+1])
}

// fenceAt returns the fence character and length of the opening fence on
// the line at pos. It defaults to a three-backtick fence.
func fenceAt(src string, pos int) (byte, int) {
	line := src[pos:lineEnd(src, pos)]
	n := indent(line)
	if n < 0 || n >= len(line) || (line[n] != '`' && line[n] != '~') {
		return '`', minFence
	}
	char := line[n]
	length := 0
	for n < len(line) && line[n] == char {
		length++
		n++
	}
	return char, max(length, minFence)
}

// isClosingFence reports whether line closes a fence of char and length.
func isClosingFence(line string, char byte, length int) bool {
	n := indent(line)
	if n < 0 {
		return false
	}
	run := 0
	for n < len(line) && line[n] == char {
		run++
		n++
	}
	return run >= length && isBlank(line[n:])
}
