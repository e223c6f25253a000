package rulekeys

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports"
)

// AnonymousTypeName stands in for the type identity of values whose type has no name.
const AnonymousTypeName = "$?????"

// hooks decide how each factory folds the values that reference other state.
type hooks interface {
	sourcePath(b *Builder, p domain.SourcePath) error
	buildRule(b *Builder, r domain.BuildRule) error
	appendable(b *Builder, a domain.Appendable) error
	archives(b *Builder, s domain.ArchiveDependencySupplier) error
}

var _ domain.RuleKeySink = (*Builder)(nil)

// Builder folds fields into a rule key. It is handed to AppendToRuleKey and is not safe for
// concurrent use. The first error sticks and is returned by build.
type Builder struct {
	h      *keyHasher
	hooks  hooks
	logger ports.Logger

	tracing bool
	trace   []domain.RuleKeyField
	field   string

	// inputs collects the source paths seen by builders that defer hashing.
	inputs []domain.SourcePath

	err error
}

func newBuilder(h hooks, logger ports.Logger, seed int, tracing bool) *Builder {
	b := &Builder{h: newKeyHasher(), hooks: h, logger: logger, tracing: tracing}
	b.h.tag(tagSeed)
	b.h.putInt(int64(seed))
	return b
}

// Set folds one field. Fields must be set in the same order every time.
func (b *Builder) Set(field string, value any) domain.RuleKeySink {
	if b.err != nil {
		return b
	}
	b.field = field
	b.h.tag(tagField)
	b.h.putString(field)
	if err := b.setValue(value); err != nil {
		b.err = domain.WithMeta(err, "field", field)
		return b
	}
	b.record(field, describe(value))
	return b
}

func (b *Builder) record(name, value string) {
	if b.tracing {
		b.trace = append(b.trace, domain.RuleKeyField{Name: name, Value: value})
	}
}

// setType folds the Go type identity of v.
func (b *Builder) setType(v any) {
	name, ok := typeName(v)
	if !ok {
		b.logger.Warn("rule key contributor has no type name, using a placeholder",
			"type", fmt.Sprintf("%T", v), "placeholder", AnonymousTypeName)
	}
	b.Set(".type", name)
}

//nolint:cyclop,gocyclo // One case per supported value kind
func (b *Builder) setValue(value any) error {
	switch v := value.(type) {
	case nil:
		b.h.tag(tagNil)
	case string:
		b.h.tag(tagString)
		b.h.putString(v)
	case bool:
		b.h.tag(tagBool)
		b.h.putBool(v)
	case int:
		b.h.tag(tagInt)
		b.h.putInt(int64(v))
	case int32:
		b.h.tag(tagInt)
		b.h.putInt(int64(v))
	case int64:
		b.h.tag(tagInt)
		b.h.putInt(v)
	case uint32:
		b.h.tag(tagUint)
		b.h.putUint(uint64(v))
	case uint64:
		b.h.tag(tagUint)
		b.h.putUint(v)
	case float64:
		b.h.tag(tagFloat)
		b.h.putFloat(v)
	case []byte:
		b.h.tag(tagBytes)
		b.h.putBytes(v)
	case domain.HashCode:
		b.h.tag(tagHash)
		b.h.putBytes(v[:])
	case domain.RuleKey:
		b.h.tag(tagRuleKey)
		b.h.putBytes(v.Hash[:])
	case domain.BuildTarget:
		b.h.tag(tagTarget)
		b.h.putString(v.String())
	case domain.SourcePath:
		return b.hooks.sourcePath(b, v)
	case domain.BuildRule:
		return b.hooks.buildRule(b, v)
	case domain.ArchiveDependencySupplier:
		return b.hooks.archives(b, v)
	case domain.Appendable:
		return b.hooks.appendable(b, v)
	case []string:
		return setList(b, v)
	case []domain.SourcePath:
		return setList(b, v)
	case []domain.BuildTarget:
		return setList(b, v)
	case []domain.BuildRule:
		return setList(b, v)
	case []domain.Appendable:
		return setList(b, v)
	case []any:
		return setList(b, v)
	case map[string]string:
		return setMap(b, v)
	case map[string]any:
		return setMap(b, v)
	case map[string]struct{}:
		return setList(b, slices.Sorted(maps.Keys(v)))
	default:
		return domain.WithMeta(domain.ErrUnsupportedKeyValue, "type", fmt.Sprintf("%T", value))
	}
	return nil
}

func setList[T any](b *Builder, values []T) error {
	b.h.tag(tagList)
	b.h.putUint(uint64(len(values)))
	for _, v := range values {
		if err := b.setValue(v); err != nil {
			return err
		}
	}
	return nil
}

// setMap folds entries in key order so that equal maps fold identically.
func setMap[V any](b *Builder, m map[string]V) error {
	b.h.tag(tagMap)
	b.h.putUint(uint64(len(m)))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		b.h.putString(k)
		if err := b.setValue(m[k]); err != nil {
			return err
		}
	}
	return nil
}

// putSubKey folds the digest of a nested contributor and records its fields under the current one.
func (b *Builder) putSubKey(key domain.RuleKey) {
	b.h.tag(tagAppendable)
	b.h.putBytes(key.Hash[:])
	for _, f := range key.Trace {
		b.record(b.field+"."+f.Name, f.Value)
	}
}

// putPath folds a resolved path together with its content digest.
func (b *Builder) putPath(path string, digest domain.HashCode) {
	b.h.tag(tagPath)
	b.h.putString(path)
	b.h.putBytes(digest[:])
	b.record(b.field+"@"+path, digest.String())
}

// putPathName folds a resolved path without any content.
func (b *Builder) putPathName(path string) {
	b.h.tag(tagPath)
	b.h.putString(path)
}

func (b *Builder) build() (domain.RuleKey, error) {
	if b.err != nil {
		return domain.RuleKey{}, b.err
	}
	return domain.RuleKey{Hash: b.h.sum(), Trace: b.trace}, nil
}

// typeName returns the package-qualified name of v's type, dereferencing pointers.
func typeName(v any) (string, bool) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" || t.PkgPath() == "" {
		return AnonymousTypeName, false
	}
	return t.PkgPath() + "." + t.Name(), true
}

// identity distinguishes contributor instances for the duration of one key computation.
type identity struct {
	typ reflect.Type
	ptr uintptr
}

// identityOf returns the identity of pointer-shaped contributors. Values have none and are
// folded every time they are seen.
func identityOf(v any) (identity, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return identity{}, false
	}
	return identity{typ: rv.Type(), ptr: rv.Pointer()}, true
}

var traceConfig = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// describe renders a value for key traces.
func describe(v any) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case domain.SourcePath:
		return v.String()
	case domain.BuildRule:
		return v.Target().String()
	case []domain.BuildRule:
		names := make([]string, 0, len(v))
		for _, r := range v {
			names = append(names, r.Target().String())
		}
		return "[" + strings.Join(names, " ") + "]"
	case domain.Appendable:
		name, _ := typeName(v)
		return name
	case fmt.Stringer:
		return v.String()
	default:
		return traceConfig.Sprint(v)
	}
}
