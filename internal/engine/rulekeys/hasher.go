package rulekeys

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"io"
	"math"

	"go.trai.ch/cairn/internal/core/domain"
)

// Tags frame every value written to the key hasher so that adjacent values cannot be confused.
const (
	tagSeed byte = iota + 1
	tagField
	tagNil
	tagString
	tagBool
	tagInt
	tagUint
	tagFloat
	tagBytes
	tagHash
	tagRuleKey
	tagTarget
	tagPath
	tagList
	tagMap
	tagAppendable
)

// keyHasher writes length-prefixed, tagged values into a running SHA-256.
type keyHasher struct {
	h   hash.Hash
	buf []byte
}

func newKeyHasher() *keyHasher {
	return &keyHasher{h: sha256.New(), buf: make([]byte, 0, binary.MaxVarintLen64)}
}

func (k *keyHasher) tag(t byte) {
	k.buf = append(k.buf[:0], t)
	_, _ = k.h.Write(k.buf)
}

func (k *keyHasher) putUint(v uint64) {
	k.buf = binary.BigEndian.AppendUint64(k.buf[:0], v)
	_, _ = k.h.Write(k.buf)
}

func (k *keyHasher) putInt(v int64) {
	k.putUint(uint64(v)) //nolint:gosec // Two's complement bit pattern is the encoding
}

func (k *keyHasher) putBool(v bool) {
	if v {
		k.putUint(1)
		return
	}
	k.putUint(0)
}

func (k *keyHasher) putFloat(v float64) {
	k.putUint(math.Float64bits(v))
}

func (k *keyHasher) putString(s string) {
	k.putUint(uint64(len(s)))
	_, _ = io.WriteString(k.h, s)
}

func (k *keyHasher) putBytes(b []byte) {
	k.putUint(uint64(len(b)))
	_, _ = k.h.Write(b)
}

func (k *keyHasher) sum() domain.HashCode {
	var out domain.HashCode
	k.h.Sum(out[:0])
	return out
}
