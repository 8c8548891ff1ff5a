package analysis

import "time"

// Report contains pre-computed statistics over a set of parse trees.
// Computed once by Analyze, used by all renderers.
type Report struct {
	// ByFile holds one entry per analyzed tree.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByType groups nodes by element type across all trees.
	ByType []TypeAnalysis `json:"byType,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files     int `json:"files"`
	Nodes     int `json:"nodes"`
	Leaves    int `json:"leaves"`
	Collapsed int `json:"collapsed"`
	Errors    int `json:"errors"`
	MaxDepth  int `json:"maxDepth"`
	Bytes     int `json:"bytes"`
}

// HasErrors returns true if any tree contains error elements.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// HasCollapsed returns true if any tree still holds unparsed lazy nodes.
func (t Totals) HasCollapsed() bool {
	return t.Collapsed > 0
}

// FileAnalysis contains statistics for a single tree.
type FileAnalysis struct {
	Path      string   `json:"path"`
	Language  string   `json:"language"`
	Nodes     int      `json:"nodes"`
	Leaves    int      `json:"leaves"`
	Collapsed int      `json:"collapsed"`
	Errors    int      `json:"errors"`
	Depth     int      `json:"depth"`
	Bytes     int      `json:"bytes"`
	Types     []string `json:"types,omitempty"`
}

// TypeAnalysis contains statistics for a single element type.
type TypeAnalysis struct {
	Type  string   `json:"type"`
	Count int      `json:"count"`
	Bytes int      `json:"bytes"`
	Leaf  bool     `json:"leaf"`
	Error bool     `json:"error,omitempty"`
	Files []string `json:"files,omitempty"`
}
