package hashcache

import (
	"maps"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileHashCache = (*DefaultFileHashCache)(nil)

// DefaultFileHashCache hashes project paths on first use and serves cached records until they
// are invalidated.
type DefaultFileHashCache struct {
	fs      ports.ProjectFilesystem
	hasher  ports.ContentHasher
	ignored func(path string) bool
	engine  Engine
}

type options struct {
	mode    domain.HashCacheMode
	limit   int
	ignored func(path string) bool
	meter   metric.Meter
	logger  ports.Logger
	name    string
}

// Option configures a DefaultFileHashCache.
type Option func(*options)

// WithMode selects the storage engine. limit bounds the limited engine.
func WithMode(mode domain.HashCacheMode, limit int) Option {
	return func(o *options) {
		o.mode = mode
		o.limit = limit
	}
}

// WithIgnore sets the predicate of paths the cache refuses to hash.
func WithIgnore(ignored func(path string) bool) Option {
	return func(o *options) {
		o.ignored = ignored
	}
}

// WithMeter records engine statistics on meter.
func WithMeter(meter metric.Meter) Option {
	return func(o *options) {
		o.meter = meter
	}
}

// WithLogger sets the logger used to report engine disagreements.
func WithLogger(logger ports.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithName tags the cache's metrics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// IgnorePrefixes returns a predicate matching paths at or below any of prefixes.
func IgnorePrefixes(prefixes ...string) func(string) bool {
	return func(p string) bool {
		return slices.ContainsFunc(prefixes, func(prefix string) bool {
			return isWithin(p, path.Clean(prefix))
		})
	}
}

// OnlyUnder returns a predicate matching every path outside dir.
func OnlyUnder(dir string) func(string) bool {
	dir = path.Clean(dir)
	return func(p string) bool {
		return !isWithin(p, dir)
	}
}

// New creates a file hash cache over fs.
func New(fs ports.ProjectFilesystem, hasher ports.ContentHasher, opts ...Option) (*DefaultFileHashCache, error) {
	o := options{
		mode:    domain.HashCacheModeLoading,
		limit:   4096,
		ignored: func(string) bool { return false },
		meter:   noop.NewMeterProvider().Meter("cairn"),
		name:    "default",
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &DefaultFileHashCache{fs: fs, hasher: hasher, ignored: o.ignored}
	loader := Loader{Hash: c.loadHash, Size: c.loadSize}

	var engine Engine
	switch o.mode {
	case domain.HashCacheModeLoading, "":
		engine = NewLoadingEngine(loader)
	case domain.HashCacheModePrefixTree:
		engine = NewPrefixTreeEngine(loader)
	case domain.HashCacheModeLimited:
		limited, err := NewLimitedEngine(loader, o.limit)
		if err != nil {
			return nil, err
		}
		engine = limited
	case domain.HashCacheModeParallelComparison:
		if o.logger == nil {
			return nil, zerr.Wrap(domain.ErrPreconditionFailed, "parallel comparison engine requires a logger")
		}
		engine = NewComboEngine(NewLoadingEngine(loader), NewPrefixTreeEngine(loader), o.logger)
	default:
		return nil, zerr.With(zerr.New("unknown hash cache mode"), "mode", string(o.mode))
	}

	stats, err := NewStatsEngine(engine, o.meter, o.name)
	if err != nil {
		return nil, err
	}
	c.engine = stats
	return c, nil
}

// checkPath normalizes a project-relative path and enforces the cache's contract.
func (c *DefaultFileHashCache) checkPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return "", zerr.With(zerr.Wrap(domain.ErrPreconditionFailed, "path must be relative"), "path", p)
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", zerr.With(zerr.Wrap(domain.ErrPreconditionFailed, "path escapes the project root"), "path", p)
	}
	if c.ignored(clean) {
		return "", zerr.With(zerr.Wrap(domain.ErrPreconditionFailed, "path is ignored"), "path", p)
	}
	return clean, nil
}

// IsIgnored reports whether the cache refuses to hash p.
func (c *DefaultFileHashCache) IsIgnored(p string) bool {
	return c.ignored(path.Clean(filepath.ToSlash(p)))
}

// Get returns the digest of a file, directory or archive.
func (c *DefaultFileHashCache) Get(p string) (domain.HashCode, error) {
	clean, err := c.checkPath(p)
	if err != nil {
		return domain.HashCode{}, err
	}
	value, err := c.engine.Get(clean)
	if err != nil {
		return domain.HashCode{}, err
	}
	return value.Hash, nil
}

// GetArchiveMember returns the manifest digest of one archive member.
func (c *DefaultFileHashCache) GetArchiveMember(member domain.ArchiveMemberPath) (domain.HashCode, error) {
	value, err := c.archive(member.ArchivePath)
	if err != nil {
		return domain.HashCode{}, err
	}
	h, ok := value.Members[member.MemberPath]
	if !ok {
		return domain.HashCode{}, zerr.With(
			zerr.Wrap(domain.ErrArchiveMemberNotFound, "failed to hash archive member"),
			"path", member.String())
	}
	return h, nil
}

// ArchiveMembers returns the sorted names of an archive's members with recorded digests.
func (c *DefaultFileHashCache) ArchiveMembers(p string) ([]string, error) {
	value, err := c.archive(p)
	if err != nil {
		return nil, err
	}
	return value.MemberNames(), nil
}

func (c *DefaultFileHashCache) archive(p string) (domain.HashCodeAndFileType, error) {
	clean, err := c.checkPath(p)
	if err != nil {
		return domain.HashCodeAndFileType{}, err
	}
	value, err := c.engine.Get(clean)
	if err != nil {
		return domain.HashCodeAndFileType{}, err
	}
	if value.Type != domain.FileTypeArchive {
		return domain.HashCodeAndFileType{}, zerr.With(zerr.Wrap(domain.ErrNotAnArchive, "failed to read archive"), "path", p)
	}
	if value.Members == nil {
		return domain.HashCodeAndFileType{}, zerr.With(zerr.Wrap(domain.ErrArchiveManifestMissing, "failed to read archive"), "path", p)
	}
	return value, nil
}

// GetSize returns the total size of the files under p.
func (c *DefaultFileHashCache) GetSize(p string) (int64, error) {
	clean, err := c.checkPath(p)
	if err != nil {
		return 0, err
	}
	return c.engine.GetSize(clean)
}

// Set records hash for p, classifying it as directory, archive or file.
func (c *DefaultFileHashCache) Set(p string, hash domain.HashCode) error {
	clean, err := c.checkPath(p)
	if err != nil {
		return err
	}

	var value domain.HashCodeAndFileType
	switch {
	case c.fs.IsDir(clean):
		files, err := c.fs.Files(clean)
		if err != nil {
			return err
		}
		children := make([]string, 0, len(files))
		for _, f := range files {
			children = append(children, relativeTo(clean, f))
		}
		value = domain.NewDirectoryHash(hash, children)
	case c.hasher.IsArchive(clean):
		_, members, err := c.hasher.HashArchive(clean)
		if err != nil {
			return err
		}
		value = domain.NewArchiveHash(hash, members)
	default:
		value = domain.NewFileHash(hash)
	}
	c.engine.Put(clean, value)
	return nil
}

// Invalidate drops p, its cached descendants and its cached ancestors.
// Paths the cache would reject are ignored.
func (c *DefaultFileHashCache) Invalidate(p string) {
	clean, err := c.checkPath(p)
	if err != nil {
		return
	}
	c.engine.Invalidate(clean)
}

// InvalidateAll drops every entry.
func (c *DefaultFileHashCache) InvalidateAll() {
	c.engine.InvalidateAll()
}

// WillGet reports whether Get would succeed without erroring.
func (c *DefaultFileHashCache) WillGet(p string) bool {
	clean, err := c.checkPath(p)
	if err != nil {
		return false
	}
	if _, ok := c.engine.GetIfPresent(clean); ok {
		return true
	}
	return c.fs.Exists(clean)
}

// Entries returns a snapshot of every cached record.
func (c *DefaultFileHashCache) Entries() map[string]domain.HashCodeAndFileType {
	return c.engine.Entries()
}

// Verify recomputes every cached record from disk and lists the paths whose record changed.
func (c *DefaultFileHashCache) Verify() (domain.VerificationResult, error) {
	entries := c.engine.Entries()
	result := domain.VerificationResult{Examined: len(entries)}
	for _, p := range slices.Sorted(maps.Keys(entries)) {
		fresh, err := c.hashPath(p, c.hasher.HashFile)
		if err != nil || !fresh.Equal(entries[p]) {
			result.Mismatches = append(result.Mismatches, p)
		}
	}
	return result, nil
}

func (c *DefaultFileHashCache) loadHash(p string) (domain.HashCodeAndFileType, error) {
	return c.hashPath(p, c.childHash)
}

// hashPath classifies p and hashes it, folding directory children through childHash.
func (c *DefaultFileHashCache) hashPath(
	p string,
	childHash func(string) (domain.HashCode, error),
) (domain.HashCodeAndFileType, error) {
	if !c.fs.Exists(p) {
		return domain.HashCodeAndFileType{}, zerr.With(zerr.Wrap(domain.ErrPathNotFound, "failed to hash path"), "path", p)
	}
	switch {
	case c.fs.IsDir(p):
		h, children, err := c.hasher.HashDirectory(p, childHash)
		if err != nil {
			return domain.HashCodeAndFileType{}, err
		}
		return domain.NewDirectoryHash(h, children), nil
	case c.hasher.IsArchive(p):
		h, members, err := c.hasher.HashArchive(p)
		if err != nil {
			return domain.HashCodeAndFileType{}, err
		}
		return domain.NewArchiveHash(h, members), nil
	default:
		h, err := c.hasher.HashFile(p)
		if err != nil {
			return domain.HashCodeAndFileType{}, err
		}
		return domain.NewFileHash(h), nil
	}
}

// childHash serves directory children from the cache. Ignored children are hashed directly.
func (c *DefaultFileHashCache) childHash(child string) (domain.HashCode, error) {
	if c.ignored(child) {
		return c.hasher.HashFile(child)
	}
	return c.Get(child)
}

func (c *DefaultFileHashCache) loadSize(p string) (int64, error) {
	if !c.fs.Exists(p) {
		return 0, zerr.With(zerr.Wrap(domain.ErrPathNotFound, "failed to size path"), "path", p)
	}
	files, err := c.fs.Files(p)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, f := range files {
		info, err := c.fs.Stat(f)
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", f)
		}
		total += info.Size()
	}
	return total, nil
}

func relativeTo(dir, child string) string {
	if dir == "." {
		return child
	}
	return strings.TrimPrefix(child, dir+"/")
}
