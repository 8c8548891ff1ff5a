package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by node count (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
	// SortBySize sorts by text length, largest first.
	SortBySize SortField = "size"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySize:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeByFile includes the per-file analysis.
	IncludeByFile bool

	// IncludeByType includes the per-element-type analysis.
	IncludeByType bool

	// SortBy specifies how to sort ByFile and ByType.
	SortBy SortField

	// SortDesc sorts in descending order (highest first).
	SortDesc bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeByFile: true,
		IncludeByType: true,
		SortBy:        SortByCount,
		SortDesc:      true,
	}
}
