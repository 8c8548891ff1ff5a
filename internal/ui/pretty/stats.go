package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/reparse/pkg/analysis"
)

// Table layout constants for statistics output.
const (
	tableWidth        = 84
	nameColWidth      = 40
	numColWidth       = 8
	maxFilePathLength = 38
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func (s *Styles) separator(sb *strings.Builder) {
	sb.WriteString(s.Dim.Render(strings.Repeat("─", tableWidth)))
	sb.WriteByte('\n')
}

func (s *Styles) header(sb *strings.Builder, first string, columns ...string) {
	sb.WriteString(s.SummaryTitle.Render(padRight(first, nameColWidth)))
	for _, col := range columns {
		sb.WriteByte(' ')
		sb.WriteString(s.SummaryTitle.Render(padLeft(col, numColWidth)))
	}
	sb.WriteByte('\n')
}

func numbers(values ...int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = padLeft(strconv.Itoa(v), numColWidth)
	}
	return strings.Join(parts, " ")
}

// FormatStats renders an analysis report as a files table, a types table
// and a totals line. Empty tables are omitted.
func (s *Styles) FormatStats(report *analysis.Report) string {
	var sb strings.Builder
	if len(report.ByFile) > 0 {
		s.formatFileTable(&sb, report.ByFile)
		sb.WriteByte('\n')
	}
	if len(report.ByType) > 0 {
		s.formatTypeTable(&sb, report.ByType)
		sb.WriteByte('\n')
	}
	sb.WriteString(s.formatTotals(report.Totals))
	return sb.String()
}

func (s *Styles) formatFileTable(sb *strings.Builder, files []analysis.FileAnalysis) {
	sb.WriteString(s.Bold.Render("Files"))
	sb.WriteByte('\n')
	s.separator(sb)
	s.header(sb, "File", "Nodes", "Leaves", "Depth", "Bytes")
	s.separator(sb)

	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}
		label := padRight(path+" ("+file.Language+")", nameColWidth)
		switch {
		case file.Errors > 0:
			label = s.Failure.Render(label)
		case file.Collapsed > 0:
			label = s.Collapsed.Render(label)
		default:
			label = s.FilePath.Render(label)
		}
		fmt.Fprintf(sb, "%s %s\n", label, numbers(file.Nodes, file.Leaves, file.Depth, file.Bytes))
	}
}

func (s *Styles) formatTypeTable(sb *strings.Builder, types []analysis.TypeAnalysis) {
	sb.WriteString(s.Bold.Render("Element types"))
	sb.WriteByte('\n')
	s.separator(sb)
	s.header(sb, "Type", "Count", "Bytes", "Files")
	s.separator(sb)

	for _, typ := range types {
		label := padRight(typ.Type, nameColWidth)
		if typ.Error {
			label = s.ErrorType.Render(label)
		} else {
			label = s.TypeName.Render(label)
		}
		fmt.Fprintf(sb, "%s %s\n", label, numbers(typ.Count, typ.Bytes, len(typ.Files)))
	}
}

func (s *Styles) formatTotals(totals analysis.Totals) string {
	fileWord := "files"
	if totals.Files == 1 {
		fileWord = "file"
	}
	line := fmt.Sprintf("%d %s, %d nodes, %d leaves, max depth %d, %d bytes",
		totals.Files, fileWord, totals.Nodes, totals.Leaves, totals.MaxDepth, totals.Bytes)

	var extras []string
	if totals.HasCollapsed() {
		extras = append(extras, s.Collapsed.Render(fmt.Sprintf("%d collapsed", totals.Collapsed)))
	}
	if totals.HasErrors() {
		extras = append(extras, s.Failure.Render(fmt.Sprintf("%d errors", totals.Errors)))
	} else {
		extras = append(extras, s.Success.Render("no errors"))
	}
	return s.SummaryTitle.Render(line) + " " + s.Dim.Render("(") + strings.Join(extras, ", ") + s.Dim.Render(")") + "\n"
}
