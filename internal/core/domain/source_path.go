package domain

import (
	"cmp"
	"path"
	"slices"
	"strings"
)

// SourcePath is a reference to an input of a rule. It is resolved to a project-relative path
// before it is hashed, never folded into a key by its literal form.
type SourcePath interface {
	String() string
	sourcePath()
}

// PathSourcePath is a file or directory under the project root.
type PathSourcePath struct {
	Path string
}

// NewPathSourcePath cleans p and returns it as a source path.
func NewPathSourcePath(p string) PathSourcePath {
	return PathSourcePath{Path: path.Clean(p)}
}

func (p PathSourcePath) String() string { return p.Path }
func (PathSourcePath) sourcePath()      {}

// BuildTargetSourcePath is a file produced by another rule.
type BuildTargetSourcePath struct {
	Target BuildTarget
	// Path is relative to the producing rule's output directory. Empty means the whole directory.
	Path string
}

func (p BuildTargetSourcePath) String() string {
	if p.Path == "" {
		return p.Target.String()
	}
	return p.Target.String() + "[" + p.Path + "]"
}
func (BuildTargetSourcePath) sourcePath() {}

// ArchiveMemberSourcePath is a single member inside an archive.
type ArchiveMemberSourcePath struct {
	Archive SourcePath
	Member  string
}

func (p ArchiveMemberSourcePath) String() string {
	return p.Archive.String() + "!/" + p.Member
}
func (ArchiveMemberSourcePath) sourcePath() {}

// CompareSourcePaths orders source paths by their string form.
func CompareSourcePaths(a, b SourcePath) int {
	return cmp.Compare(a.String(), b.String())
}

// SortSourcePaths sorts and deduplicates paths, returning a new slice.
func SortSourcePaths(paths []SourcePath) []SourcePath {
	sorted := slices.Clone(paths)
	slices.SortFunc(sorted, CompareSourcePaths)
	return slices.CompactFunc(sorted, func(a, b SourcePath) bool { return a == b })
}

// ArchiveMemberPath is a resolved archive member: a project-relative archive plus a member name.
type ArchiveMemberPath struct {
	ArchivePath string
	MemberPath  string
}

func (p ArchiveMemberPath) String() string {
	return p.ArchivePath + "!/" + p.MemberPath
}

// DependencyFileEntry is one input a previous execution of a rule actually read.
type DependencyFileEntry struct {
	PathToFile        string `json:"path"`
	PathWithinArchive string `json:"path_within_archive,omitempty"`
}

// String returns the entry in the same form as ArchiveMemberPath.
func (e DependencyFileEntry) String() string {
	if e.PathWithinArchive == "" {
		return e.PathToFile
	}
	return e.PathToFile + "!/" + e.PathWithinArchive
}

// IsMetadata reports whether the entry lives under an archive's metadata directory.
func (e DependencyFileEntry) IsMetadata() bool {
	return e.PathWithinArchive != "" && IsMetadataPath(e.PathWithinArchive)
}

// CompareDependencyFileEntries orders entries by path, then by member.
func CompareDependencyFileEntries(a, b DependencyFileEntry) int {
	if c := cmp.Compare(a.PathToFile, b.PathToFile); c != 0 {
		return c
	}
	return cmp.Compare(a.PathWithinArchive, b.PathWithinArchive)
}

// MetadataDir is the reserved directory inside archives that tools enumerate instead of reading
// individual files.
const MetadataDir = "META-INF"

// IsMetadataPath reports whether a member path lies under MetadataDir.
func IsMetadataPath(member string) bool {
	return member == MetadataDir || strings.HasPrefix(member, MetadataDir+"/")
}
