package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyChainIncludesAll(t *testing.T) {
	c := NewChain()
	assert.True(t, c.Match("photos/img.jpg", false, 1024))
	assert.True(t, c.Match("photos", true, 0))
	assert.True(t, c.Empty())
}

func TestNilChainIncludesAll(t *testing.T) {
	var c *Chain
	assert.True(t, c.Empty())
	assert.True(t, c.Match("anything", false, 0))
}

func TestExcludePattern(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("*.part"))

	assert.False(t, c.Match("movie.part", false, 100))
	assert.False(t, c.Match("downloads/movie.part", false, 100))
	assert.True(t, c.Match("movie.mkv", false, 100))
	assert.False(t, c.Empty())
}

func TestIncludeBeforeExclude(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddInclude("keep.tmp"))
	require.NoError(t, c.AddExclude("*.tmp"))

	assert.True(t, c.Match("keep.tmp", false, 100))
	assert.False(t, c.Match("scratch.tmp", false, 100))
}

func TestExcludeBeforeInclude(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("*.tmp"))
	require.NoError(t, c.AddInclude("keep.tmp"))

	// First match wins, so the later include never applies.
	assert.False(t, c.Match("keep.tmp", false, 100))
}

func TestDirOnlyPattern(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude(".git/"))

	assert.False(t, c.Match(".git", true, 0))
	assert.False(t, c.Match("vendor/lib/.git", true, 0))
	assert.True(t, c.Match(".git", false, 100))
}

func TestAnchoredPattern(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddExclude("/log.txt"))

	assert.False(t, c.Match("log.txt", false, 100))
	assert.True(t, c.Match("sub/log.txt", false, 100))
}

func TestDoubleStar(t *testing.T) {
	c := NewChain()
	require.NoError(t, c.AddInclude("**/*.jpg"))
	require.NoError(t, c.AddExclude("*"))

	assert.True(t, c.Match("a.jpg", false, 100))
	assert.True(t, c.Match("2024/summer/b.jpg", false, 100))
	assert.False(t, c.Match("notes.md", false, 100))
}

func TestSizeBounds(t *testing.T) {
	c := NewChain()
	c.SetMinSize(100)
	c.SetMaxSize(10000)

	assert.False(t, c.Match("tiny.txt", false, 50))
	assert.True(t, c.Match("medium.txt", false, 500))
	assert.False(t, c.Match("huge.bin", false, 50000))
	assert.True(t, c.Match("somedir", true, 0))
}

func TestMinSizeKeepsBoundary(t *testing.T) {
	c := NewChain()
	c.SetMinSize(1)

	assert.False(t, c.Match("empty", false, 0))
	assert.True(t, c.Match("one", false, 1))
}
