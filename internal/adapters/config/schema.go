package config

// Cairnfile represents the structure of the cairn.yaml configuration file.
type Cairnfile struct {
	Version           string               `yaml:"version"`
	OutputDir         string               `yaml:"output_dir"`
	Ignore            []string             `yaml:"ignore"`
	ArchiveExtensions []string             `yaml:"archive_extensions"`
	HashCache         HashCacheDTO         `yaml:"hash_cache"`
	ActionGraph       ActionGraphDTO       `yaml:"action_graph"`
	RuleKeys          RuleKeysDTO          `yaml:"rule_keys"`
	Targets           map[string]TargetDTO `yaml:"targets"`
}

// HashCacheDTO configures the file hash cache.
type HashCacheDTO struct {
	Mode  string `yaml:"mode"`
	Limit int    `yaml:"limit"`
}

// ActionGraphDTO configures action graph construction and caching.
type ActionGraphDTO struct {
	Parallelism int   `yaml:"parallelism"`
	Parallel    *bool `yaml:"parallel"`
	Check       bool  `yaml:"check"`
	SkipCache   bool  `yaml:"skip_cache"`
}

// RuleKeysDTO configures rule key computation.
type RuleKeysDTO struct {
	Seed int `yaml:"seed"`
}

// TargetDTO is a target definition. Every key other than type and deps is a rule argument.
type TargetDTO struct {
	Type string         `yaml:"type"`
	Deps []string       `yaml:"deps"`
	Args map[string]any `yaml:",inline"`
}
