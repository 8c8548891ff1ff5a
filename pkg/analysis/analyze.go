// Package analysis computes statistics over parse trees: node counts, depth
// and size per file and per element type.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/reparse/pkg/syntax"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// File is one parsed input to Analyze.
type File struct {
	Path     string
	Language string
	Tree     *syntax.Tree
}

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	typeMap   map[string]*TypeAnalysis
	typeFiles map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		typeMap:   make(map[string]*TypeAnalysis),
		typeFiles: make(map[string]map[string]bool),
	}
}

// getOrCreateTypeAnalysis returns existing or creates new TypeAnalysis.
func (ctx *analysisContext) getOrCreateTypeAnalysis(name string) *TypeAnalysis {
	if _, ok := ctx.typeMap[name]; !ok {
		ctx.typeMap[name] = &TypeAnalysis{Type: name}
		ctx.typeFiles[name] = make(map[string]bool)
	}
	return ctx.typeMap[name]
}

// analyzeTree walks one tree, filling fa and the per-type tables.
func (ctx *analysisContext) analyzeTree(tree *syntax.Tree, fa *FileAnalysis) {
	root := tree.Root()
	if root == syntax.NoNode {
		return
	}
	fa.Bytes = tree.Len(root)
	fa.Depth = tree.MeasureDepth()
	types := make(map[string]bool)

	//nolint:errcheck,revive // the callback never fails
	tree.Walk(root, func(id syntax.NodeID) error {
		name := tree.TypeName(id)
		isLeaf := tree.IsLeaf(id)
		isError := tree.Has(id, syntax.FlagError)

		fa.Nodes++
		if isLeaf {
			fa.Leaves++
		}
		if tree.IsCollapsed(id) {
			fa.Collapsed++
		}
		if isError {
			fa.Errors++
		}
		types[name] = true

		ta := ctx.getOrCreateTypeAnalysis(name)
		ta.Count++
		ta.Bytes += tree.Len(id)
		ta.Leaf = ta.Leaf || isLeaf
		ta.Error = ta.Error || isError
		ctx.typeFiles[name][fa.Path] = true
		return nil
	})

	for name := range types {
		fa.Types = append(fa.Types, name)
	}
	slices.Sort(fa.Types)
}

// buildByType constructs the ByType slice from accumulated data.
func (ctx *analysisContext) buildByType(opts Options) []TypeAnalysis {
	result := make([]TypeAnalysis, 0, len(ctx.typeMap))
	for name, ta := range ctx.typeMap {
		for f := range ctx.typeFiles[name] {
			ta.Files = append(ta.Files, f)
		}
		slices.Sort(ta.Files)
		result = append(result, *ta)
	}
	sortTypeAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// Analyze computes a Report over files in a single pass per tree.
// Files with a nil tree are counted but contribute no nodes.
func Analyze(files []File, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	ctx := newAnalysisContext()
	byFile := make([]FileAnalysis, 0, len(files))

	for _, file := range files {
		report.Totals.Files++
		fa := FileAnalysis{
			Path:     makeRelativePath(file.Path, opts.WorkingDir),
			Language: file.Language,
		}
		if file.Tree != nil {
			ctx.analyzeTree(file.Tree, &fa)
		}

		report.Totals.Nodes += fa.Nodes
		report.Totals.Leaves += fa.Leaves
		report.Totals.Collapsed += fa.Collapsed
		report.Totals.Errors += fa.Errors
		report.Totals.Bytes += fa.Bytes
		report.Totals.MaxDepth = max(report.Totals.MaxDepth, fa.Depth)
		byFile = append(byFile, fa)
	}

	if opts.IncludeByType {
		report.ByType = ctx.buildByType(opts)
	}
	if opts.IncludeByFile {
		sortFileAnalysis(byFile, opts.SortBy, opts.SortDesc)
		report.ByFile = byFile
	}

	return report
}

func sortTypeAnalysis(types []TypeAnalysis, sortBy SortField, desc bool) {
	slices.SortStableFunc(types, func(left, right TypeAnalysis) int {
		var result int
		switch sortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(left.Type, right.Type)
		case SortBySize:
			result = cmp.Compare(right.Bytes, left.Bytes)
		default: // SortByCount
			result = cmp.Compare(left.Count, right.Count)
			if desc {
				result = -result
			}
		}
		if result == 0 {
			result = cmp.Compare(left.Type, right.Type)
		}
		return result
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortStableFunc(files, func(left, right FileAnalysis) int {
		var result int
		switch sortBy {
		case SortByAlpha:
			return cmp.Compare(left.Path, right.Path)
		case SortBySize:
			result = cmp.Compare(right.Bytes, left.Bytes)
		default: // SortByCount
			result = cmp.Compare(left.Nodes, right.Nodes)
			if desc {
				result = -result
			}
		}
		if result == 0 {
			result = cmp.Compare(left.Path, right.Path)
		}
		return result
	})
}
