package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by change count (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
	// SortByRemovals sorts by removed elements first, then by change count.
	SortByRemovals SortField = "removals"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortByRemovals:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeChanges includes the flat change list.
	IncludeChanges bool

	// IncludeByFile includes the per-file analysis.
	IncludeByFile bool

	// IncludeByTag includes the per-element analysis.
	IncludeByTag bool

	// SortBy specifies how to sort ByFile and ByTag.
	SortBy SortField

	// SortDesc sorts in descending order (highest first).
	SortDesc bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeChanges: true,
		IncludeByFile:  true,
		IncludeByTag:   true,
		SortBy:         SortByCount,
		SortDesc:       true,
	}
}
