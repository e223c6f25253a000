package domain

import (
	"encoding/hex"
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// HashCodeSize is the width in bytes of every content digest.
const HashCodeSize = 32

// HashCode is a fixed-width content digest.
type HashCode [HashCodeSize]byte

// ParseHashCode decodes a hex encoded digest.
func ParseHashCode(s string) (HashCode, error) {
	var h HashCode
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, zerr.With(zerr.Wrap(err, "invalid hash code"), "hash", s)
	}
	if len(b) != HashCodeSize {
		return h, zerr.With(zerr.New("invalid hash code length"), "hash", s)
	}
	copy(h[:], b)
	return h, nil
}

// String returns the lowercase hex encoding.
func (h HashCode) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether no digest has been assigned.
func (h HashCode) IsZero() bool {
	return h == HashCode{}
}

// MarshalText implements encoding.TextMarshaler.
func (h HashCode) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *HashCode) UnmarshalText(text []byte) error {
	parsed, err := ParseHashCode(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// FileType tags what kind of path a cached hash describes.
type FileType uint8

const (
	// FileTypeFile is a regular file hashed by content.
	FileTypeFile FileType = iota + 1
	// FileTypeDirectory is a directory hashed by its sorted descendants.
	FileTypeDirectory
	// FileTypeArchive is an archive whose members carry their own hashes.
	FileTypeArchive
)

// String returns the tag name.
func (t FileType) String() string {
	switch t {
	case FileTypeFile:
		return "FILE"
	case FileTypeDirectory:
		return "DIRECTORY"
	case FileTypeArchive:
		return "ARCHIVE"
	default:
		return "UNKNOWN"
	}
}

// HashCodeAndFileType is the cached record for one path.
// Values are replaced as a whole and never mutated after construction.
type HashCodeAndFileType struct {
	Type FileType
	Hash HashCode
	// Children holds the sorted descendant file paths of a directory, relative to it.
	Children []string
	// Members holds the recorded member hashes of an archive.
	Members map[string]HashCode
}

// NewFileHash returns the record for a regular file.
func NewFileHash(h HashCode) HashCodeAndFileType {
	return HashCodeAndFileType{Type: FileTypeFile, Hash: h}
}

// NewDirectoryHash returns the record for a directory and its descendants.
func NewDirectoryHash(h HashCode, children []string) HashCodeAndFileType {
	sorted := slices.Clone(children)
	slices.Sort(sorted)
	return HashCodeAndFileType{Type: FileTypeDirectory, Hash: h, Children: sorted}
}

// NewArchiveHash returns the record for an archive and its member hashes.
func NewArchiveHash(h HashCode, members map[string]HashCode) HashCodeAndFileType {
	return HashCodeAndFileType{Type: FileTypeArchive, Hash: h, Members: maps.Clone(members)}
}

// Equal compares two records by value.
func (v HashCodeAndFileType) Equal(other HashCodeAndFileType) bool {
	return v.Type == other.Type &&
		v.Hash == other.Hash &&
		slices.Equal(v.Children, other.Children) &&
		maps.Equal(v.Members, other.Members)
}

// MemberNames returns the sorted names of members with recorded hashes.
func (v HashCodeAndFileType) MemberNames() []string {
	return slices.Sorted(maps.Keys(v.Members))
}

// VerificationResult reports the outcome of re-hashing every cached entry.
type VerificationResult struct {
	Examined   int
	Mismatches []string
}
