package domain

// HashCacheMode selects the storage engine of the file hash cache.
type HashCacheMode string

const (
	// HashCacheModeLoading memoizes every path in a map.
	HashCacheModeLoading HashCacheMode = "loading"
	// HashCacheModePrefixTree stores entries in a path trie.
	HashCacheModePrefixTree HashCacheMode = "prefix_tree"
	// HashCacheModeLimited bounds the number of cached entries.
	HashCacheModeLimited HashCacheMode = "limited"
	// HashCacheModeParallelComparison runs the loading and prefix tree engines side by side
	// and reports disagreements.
	HashCacheModeParallelComparison HashCacheMode = "parallel_comparison"
)

// Settings holds the project-wide configuration of the cache core.
type Settings struct {
	Root              string
	OutputDir         string
	Ignore            []string
	ArchiveExtensions []string

	HashCacheMode  HashCacheMode
	HashCacheLimit int

	Parallelism          int
	ParallelActionGraph  bool
	CheckActionGraphs    bool
	SkipActionGraphCache bool

	RuleKeySeed int
}

// DefaultSettings returns the settings used when the config leaves a value unset.
func DefaultSettings() Settings {
	return Settings{
		OutputDir:           "cairn-out",
		Ignore:              []string{".git", ".jj"},
		ArchiveExtensions:   []string{".jar", ".zip"},
		HashCacheMode:       HashCacheModeLoading,
		HashCacheLimit:      4096,
		ParallelActionGraph: true,
	}
}

// Project is a loaded configuration: settings plus the parsed target graph.
type Project struct {
	Settings Settings
	Graph    *TargetGraph
}

// ConfigFileName is the project configuration file that also marks the project root.
const ConfigFileName = "cairn.yaml"

// KnownHashCacheMode reports whether mode names an engine.
func KnownHashCacheMode(mode HashCacheMode) bool {
	switch mode {
	case HashCacheModeLoading, HashCacheModePrefixTree, HashCacheModeLimited, HashCacheModeParallelComparison:
		return true
	default:
		return false
	}
}
