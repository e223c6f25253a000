package domain

import "go.trai.ch/zerr"

var (
	// ErrNotFound is the cause of every missing-data error. Callers that want to treat a rule as
	// uncacheable instead of failing the build test for it with errors.Is.
	ErrNotFound = zerr.New("not found")

	// ErrPathNotFound is returned when a path disappeared before it could be hashed.
	ErrPathNotFound = zerr.Wrap(ErrNotFound, "path does not exist")

	// ErrArchiveMemberNotFound is returned when an archive member has no recorded hash.
	ErrArchiveMemberNotFound = zerr.Wrap(ErrNotFound, "archive member has no recorded hash")

	// ErrArchiveManifestMissing is returned when member hashes are requested from an archive
	// that carries no manifest.
	ErrArchiveManifestMissing = zerr.Wrap(ErrArchiveMemberNotFound, "archive has no manifest")

	// ErrDepFileInputNotFound is returned when a dependency file references inputs the rule can
	// no longer reach.
	ErrDepFileInputNotFound = zerr.Wrap(ErrNotFound, "could not find any inputs matching the dependency file entries")

	// ErrBuildRecordNotFound is returned when no build record exists for a target.
	ErrBuildRecordNotFound = zerr.Wrap(ErrNotFound, "build record not found")

	// ErrPreconditionFailed is returned when a caller breaks an API contract, such as passing an
	// absolute or ignored path to the file hash cache.
	ErrPreconditionFailed = zerr.New("precondition failed")

	// ErrNotAnArchive is returned when archive member hashes are requested for a plain file or directory.
	ErrNotAnArchive = zerr.Wrap(ErrPreconditionFailed, "path is not an archive")

	// ErrUnsupportedKeyValue is returned when a rule folds a value the rule key builder cannot encode.
	ErrUnsupportedKeyValue = zerr.Wrap(ErrPreconditionFailed, "unsupported rule key value")

	// ErrBuildRuleInDepFileKey is returned when a dependency file rule key builder is handed a build rule.
	ErrBuildRuleInDepFileKey = zerr.Wrap(ErrPreconditionFailed, "dependency file rule key builders cannot process build rules")

	// ErrActionGraphMismatch is returned when a cached action graph disagrees with a freshly built one.
	ErrActionGraphMismatch = zerr.New("cached action graph does not match a freshly built one")

	// ErrTargetAlreadyExists is returned when a target node is added twice to a graph.
	ErrTargetAlreadyExists = zerr.New("target already exists")

	// ErrMissingDependency is returned when a target references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the target graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTargetNotFound is returned when a requested target is not found in the graph.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrInvalidBuildTarget is returned when a target name is not of the form //path:name.
	ErrInvalidBuildTarget = zerr.New("invalid build target")

	// ErrConfigNotFound is returned when no cairn.yaml exists in the working directory or its parents.
	ErrConfigNotFound = zerr.New("could not find cairn.yaml")

	// ErrInvalidConfig is returned when a configuration value cannot be decoded.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrUnknownRuleType is returned when no description is registered for a target node's type.
	ErrUnknownRuleType = zerr.New("unknown rule type")

	// ErrInvalidRuleArgs is returned when a target node's arguments do not fit its rule type.
	ErrInvalidRuleArgs = zerr.New("invalid rule arguments")
)

// WithMeta attaches metadata to a sentinel without losing its identity for errors.Is.
func WithMeta(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}
