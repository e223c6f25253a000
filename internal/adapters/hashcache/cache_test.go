package hashcache_test

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cairn/internal/adapters/hashcache"
	"go.trai.ch/cairn/internal/core/domain"
	"go.trai.ch/cairn/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var allModes = []domain.HashCacheMode{
	domain.HashCacheModeLoading,
	domain.HashCacheModePrefixTree,
	domain.HashCacheModeLimited,
	domain.HashCacheModeParallelComparison,
}

func forEachMode(t *testing.T, fn func(t *testing.T, p *project, c *hashcache.DefaultFileHashCache)) {
	t.Helper()
	for _, mode := range allModes {
		t.Run(string(mode), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			log := mocks.NewMockLogger(ctrl)
			log.EXPECT().Warn(gomock.Any(), gomock.Any()).Times(0)
			p := newProject(t)
			fn(t, p, p.cache(t, hashcache.WithMode(mode, 64), hashcache.WithLogger(log)))
		})
	}
}

func TestCache_DirectoryStaleUntilInvalidated(t *testing.T) {
	forEachMode(t, func(t *testing.T, p *project, c *hashcache.DefaultFileHashCache) {
		p.write(t, "d/a.txt", "x")
		p.write(t, "d/b.txt", "y")

		h0, err := c.Get("d")
		require.NoError(t, err)

		p.write(t, "d/a.txt", "x2")
		stale, err := c.Get("d")
		require.NoError(t, err)
		assert.Equal(t, h0, stale)

		c.Invalidate("d")
		h1, err := c.Get("d")
		require.NoError(t, err)
		assert.NotEqual(t, h0, h1)
	})
}

func TestCache_InvalidatingFileDropsAncestors(t *testing.T) {
	forEachMode(t, func(t *testing.T, p *project, c *hashcache.DefaultFileHashCache) {
		p.write(t, "d/sub/a.txt", "x")
		h0, err := c.Get("d")
		require.NoError(t, err)

		p.write(t, "d/sub/a.txt", "changed")
		c.Invalidate("d/sub/a.txt")

		h1, err := c.Get("d")
		require.NoError(t, err)
		assert.NotEqual(t, h0, h1)
	})
}

func TestCache_DirectoryDetectsPresence(t *testing.T) {
	forEachMode(t, func(t *testing.T, p *project, c *hashcache.DefaultFileHashCache) {
		p.write(t, "d/a.txt", "x")
		h0, err := c.Get("d")
		require.NoError(t, err)

		p.write(t, "d/new.txt", "")
		c.Invalidate("d/new.txt")
		h1, err := c.Get("d")
		require.NoError(t, err)
		assert.NotEqual(t, h0, h1)

		p.remove(t, "d/new.txt")
		c.Invalidate("d/new.txt")
		h2, err := c.Get("d")
		require.NoError(t, err)
		assert.Equal(t, h0, h2)
	})
}

func TestCache_GetIsIdempotent(t *testing.T) {
	forEachMode(t, func(t *testing.T, p *project, c *hashcache.DefaultFileHashCache) {
		p.write(t, "a.txt", "x")

		first, err := c.Get("a.txt")
		require.NoError(t, err)
		second, err := c.Get("./a.txt")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, domain.HashCode(sha256.Sum256([]byte("x"))), first)
	})
}

func TestCache_InvalidateAll(t *testing.T) {
	forEachMode(t, func(t *testing.T, p *project, c *hashcache.DefaultFileHashCache) {
		p.write(t, "a.txt", "x")
		before, err := c.Get("a.txt")
		require.NoError(t, err)

		p.write(t, "a.txt", "y")
		c.InvalidateAll()

		after, err := c.Get("a.txt")
		require.NoError(t, err)
		assert.NotEqual(t, before, after)
	})
}

func TestCache_InvalidateUnknownPath(t *testing.T) {
	forEachMode(t, func(t *testing.T, p *project, c *hashcache.DefaultFileHashCache) {
		assert.NotPanics(t, func() {
			c.Invalidate("never/seen.txt")
			c.Invalidate("/absolute")
		})
	})
}

func TestCache_GetSize(t *testing.T) {
	forEachMode(t, func(t *testing.T, p *project, c *hashcache.DefaultFileHashCache) {
		p.write(t, "d/a.txt", "abc")
		p.write(t, "d/sub/b.txt", "de")

		size, err := c.GetSize("d")
		require.NoError(t, err)
		assert.Equal(t, int64(5), size)

		size, err = c.GetSize("d/a.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(3), size)
	})
}

func TestCache_MissingPath(t *testing.T) {
	p := newProject(t)
	c := p.cache(t)

	_, err := c.Get("gone.txt")

	assert.ErrorIs(t, err, domain.ErrPathNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCache_Preconditions(t *testing.T) {
	p := newProject(t)
	p.write(t, "cairn-out/x.txt", "x")
	c := p.cache(t, hashcache.WithIgnore(hashcache.IgnorePrefixes("cairn-out")))

	for _, path := range []string{"/etc/passwd", "../outside", "cairn-out/x.txt", "cairn-out"} {
		_, err := c.Get(path)
		assert.ErrorIs(t, err, domain.ErrPreconditionFailed, path)
		assert.False(t, c.WillGet(path), path)
	}
	assert.True(t, c.IsIgnored("cairn-out/x.txt"))
	assert.False(t, c.IsIgnored("cairn-outside/x.txt"))
}

func TestCache_WillGet(t *testing.T) {
	p := newProject(t)
	p.write(t, "a.txt", "x")
	c := p.cache(t)

	assert.True(t, c.WillGet("a.txt"))
	assert.False(t, c.WillGet("b.txt"))

	_, err := c.Get("a.txt")
	require.NoError(t, err)
	p.remove(t, "a.txt")
	assert.True(t, c.WillGet("a.txt"), "cached entries are served without touching disk")
}

func TestCache_Set(t *testing.T) {
	p := newProject(t)
	p.write(t, "d/a.txt", "x")
	p.write(t, "f.txt", "y")
	c := p.cache(t)

	var dirHash, fileHash domain.HashCode
	dirHash[0], fileHash[0] = 1, 2
	require.NoError(t, c.Set("d", dirHash))
	require.NoError(t, c.Set("f.txt", fileHash))

	got, err := c.Get("d")
	require.NoError(t, err)
	assert.Equal(t, dirHash, got)
	got, err = c.Get("f.txt")
	require.NoError(t, err)
	assert.Equal(t, fileHash, got)

	result, err := c.Verify()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Examined)
	assert.Equal(t, []string{"d", "f.txt"}, result.Mismatches)
}

func TestCache_Verify(t *testing.T) {
	p := newProject(t)
	p.write(t, "d/a.txt", "x")
	p.write(t, "b.txt", "y")
	c := p.cache(t)

	_, err := c.Get("d")
	require.NoError(t, err)
	_, err = c.Get("b.txt")
	require.NoError(t, err)

	result, err := c.Verify()
	require.NoError(t, err)
	assert.Equal(t, 3, result.Examined)
	assert.Empty(t, result.Mismatches)

	p.write(t, "d/a.txt", "changed")
	result, err = c.Verify()
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "d/a.txt"}, result.Mismatches)
}

func TestCache_ArchiveMembers(t *testing.T) {
	p := newProject(t)
	p.writeJar(t, "lib.jar", map[string]string{"a/A.class": "A", "b/B.class": "B"}, []string{"a/A.class"})
	p.writeJar(t, "bare.jar", map[string]string{"a/A.class": "A"}, nil)
	p.writeJar(t, "empty.jar", map[string]string{"a/A.class": "A"}, []string{})
	p.write(t, "plain.txt", "x")
	c := p.cache(t)

	h, err := c.GetArchiveMember(domain.ArchiveMemberPath{ArchivePath: "lib.jar", MemberPath: "a/A.class"})
	require.NoError(t, err)
	assert.Equal(t, domain.HashCode(sha256.Sum256([]byte("A"))), h)

	members, err := c.ArchiveMembers("lib.jar")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/A.class"}, members)

	_, err = c.GetArchiveMember(domain.ArchiveMemberPath{ArchivePath: "lib.jar", MemberPath: "b/B.class"})
	assert.ErrorIs(t, err, domain.ErrArchiveMemberNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.GetArchiveMember(domain.ArchiveMemberPath{ArchivePath: "bare.jar", MemberPath: "a/A.class"})
	assert.ErrorIs(t, err, domain.ErrArchiveManifestMissing)

	_, err = c.GetArchiveMember(domain.ArchiveMemberPath{ArchivePath: "empty.jar", MemberPath: "a/A.class"})
	assert.ErrorIs(t, err, domain.ErrArchiveMemberNotFound)
	assert.NotErrorIs(t, err, domain.ErrArchiveManifestMissing)

	_, err = c.GetArchiveMember(domain.ArchiveMemberPath{ArchivePath: "plain.txt", MemberPath: "x"})
	assert.ErrorIs(t, err, domain.ErrNotAnArchive)
}

func TestCache_UnknownMode(t *testing.T) {
	p := newProject(t)
	_, err := hashcache.New(p.fs, nil, hashcache.WithMode("bogus", 0))
	assert.Error(t, err)
}

func TestCache_HashesOnceUntilInvalidated(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsys := mocks.NewMockProjectFilesystem(ctrl)
	hasher := mocks.NewMockContentHasher(ctrl)

	first := domain.HashCode(sha256.Sum256([]byte("v1")))
	second := domain.HashCode(sha256.Sum256([]byte("v2")))
	fsys.EXPECT().Exists("src/a.txt").Return(true).Times(2)
	fsys.EXPECT().IsDir("src/a.txt").Return(false).Times(2)
	hasher.EXPECT().IsArchive("src/a.txt").Return(false).Times(2)
	gomock.InOrder(
		hasher.EXPECT().HashFile("src/a.txt").Return(first, nil),
		hasher.EXPECT().HashFile("src/a.txt").Return(second, nil),
	)

	c, err := hashcache.New(fsys, hasher)
	require.NoError(t, err)

	for range 3 {
		h, err := c.Get("src/a.txt")
		require.NoError(t, err)
		assert.Equal(t, first, h)
	}

	c.Invalidate("src/a.txt")
	h, err := c.Get("src/a.txt")
	require.NoError(t, err)
	assert.Equal(t, second, h)
}
