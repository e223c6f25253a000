package domain

import "time"

// BuildRecord is what the execution engine persisted after last building a target.
type BuildRecord struct {
	Target      string                `json:"target,omitzero"`
	RuleKey     HashCode              `json:"rule_key,omitzero"`
	ManifestKey HashCode              `json:"manifest_key,omitzero"`
	DepFileKey  HashCode              `json:"dep_file_key,omitzero"`
	DepFile     []DependencyFileEntry `json:"dep_file,omitempty"`
	Timestamp   time.Time             `json:"timestamp,omitzero"`
}

// HasDepFile reports whether the record can serve a dependency file key lookup.
func (r *BuildRecord) HasDepFile() bool {
	return !r.ManifestKey.IsZero() && !r.DepFileKey.IsZero()
}
