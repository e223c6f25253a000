package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/cairn/internal/core/domain"
)

// rawInputsHash digests a target definition as written, before any rule interprets it.
// Map values print with sorted keys, so the digest is independent of YAML key order.
func rawInputsHash(target domain.BuildTarget, dto TargetDTO, deps []domain.BuildTarget) uint64 {
	h := xxhash.New()
	_, _ = fmt.Fprintf(h, "%s\x00%s\x00", target, dto.Type)
	for _, dep := range deps {
		_, _ = fmt.Fprintf(h, "dep\x00%s\x00", dep)
	}
	for _, key := range slices.Sorted(maps.Keys(dto.Args)) {
		_, _ = fmt.Fprintf(h, "%s\x00%v\x00", key, dto.Args[key])
	}
	return h.Sum64()
}
