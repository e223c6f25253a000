package fs

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"io"
	"iter"
	"strings"

	"github.com/klauspost/compress/zip"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/zerr"
)

// ManifestPath is where archives carry their per-member digests.
const ManifestPath = domain.MetadataDir + "/MANIFEST.MF"

// DigestAttribute is the manifest attribute holding a member's base64 SHA-256.
const DigestAttribute = "SHA-256-Digest"

// readManifestDigests returns the member digests listed in the archive's manifest,
// or nil when the archive has none.
func readManifestDigests(data []byte) (map[string]domain.HashCode, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read archive")
	}

	for _, f := range zr.File {
		if f.Name != ManifestPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to open archive manifest")
		}
		defer rc.Close() //nolint:errcheck // Best effort close in defer
		return parseManifest(rc)
	}
	return nil, nil
}

// parseManifest reads the named sections of a JAR-style manifest and collects their digests.
func parseManifest(r io.Reader) (map[string]domain.HashCode, error) {
	members := make(map[string]domain.HashCode)
	section := make(map[string]string)

	flush := func() error {
		defer clear(section)
		name, ok := section["name"]
		if !ok {
			return nil
		}
		encoded, ok := section[strings.ToLower(DigestAttribute)]
		if !ok {
			return nil
		}
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil || len(raw) != domain.HashCodeSize {
			return zerr.With(zerr.New("invalid manifest digest"), "member", name)
		}
		var h domain.HashCode
		copy(h[:], raw)
		members[name] = h
		return nil
	}

	for line := range unfoldLines(r) {
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		section[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return members, nil
}

// unfoldLines joins manifest continuation lines, which start with a single space.
func unfoldLines(r io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		scanner := bufio.NewScanner(r)
		var current strings.Builder
		pending := false
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			if strings.HasPrefix(line, " ") && pending {
				current.WriteString(line[1:])
				continue
			}
			if pending && !yield(current.String()) {
				return
			}
			current.Reset()
			current.WriteString(line)
			pending = true
		}
		if pending {
			yield(current.String())
		}
	}
}
