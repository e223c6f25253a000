package domain

import (
	"cmp"
	"slices"
	"strings"
)

// BuildTarget identifies a rule as //base/path:name.
type BuildTarget struct {
	name InternedString
}

// ParseBuildTarget validates and interns a fully qualified target name.
func ParseBuildTarget(s string) (BuildTarget, error) {
	if !strings.HasPrefix(s, "//") {
		return BuildTarget{}, WithMeta(ErrInvalidBuildTarget, "target", s)
	}
	base, short, ok := strings.Cut(s[2:], ":")
	if !ok || short == "" || strings.Contains(short, ":") || strings.HasSuffix(base, "/") {
		return BuildTarget{}, WithMeta(ErrInvalidBuildTarget, "target", s)
	}
	return BuildTarget{name: NewInternedString(s)}, nil
}

// MustParseBuildTarget is ParseBuildTarget for literals known to be valid.
func MustParseBuildTarget(s string) BuildTarget {
	t, err := ParseBuildTarget(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the fully qualified name.
func (t BuildTarget) String() string {
	return t.name.String()
}

// BasePath returns the package path between "//" and ":".
func (t BuildTarget) BasePath() string {
	base, _, _ := strings.Cut(strings.TrimPrefix(t.String(), "//"), ":")
	return base
}

// ShortName returns the part after ":".
func (t BuildTarget) ShortName() string {
	_, short, _ := strings.Cut(t.String(), ":")
	return short
}

// IsZero reports whether the target is unset.
func (t BuildTarget) IsZero() bool {
	return t.name.IsZero()
}

// CompareBuildTargets orders targets by their fully qualified names.
func CompareBuildTargets(a, b BuildTarget) int {
	return cmp.Compare(a.String(), b.String())
}

// SortBuildTargets sorts targets in place and returns them.
func SortBuildTargets(targets []BuildTarget) []BuildTarget {
	slices.SortFunc(targets, CompareBuildTargets)
	return targets
}
