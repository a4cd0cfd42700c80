package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

func TestAlgorithmsProduce64Bytes(t *testing.T) {
	for _, name := range AlgorithmNames() {
		t.Run(name, func(t *testing.T) {
			alg, err := LookupAlgorithm(name)
			require.NoError(t, err)

			h := alg.New()
			assert.Equal(t, DigestSize, h.Size())
			_, _ = h.Write([]byte("hello"))
			sum := h.Sum(nil)
			assert.Len(t, sum, DigestSize)
			assert.Len(t, FormatDigest(sum), 2*DigestSize)
		})
	}
}

func TestBlake2bMatchesReference(t *testing.T) {
	h := Blake2b.New()
	_, _ = h.Write([]byte("hello"))
	want := blake2b.Sum512([]byte("hello"))
	assert.Equal(t, want[:], h.Sum(nil))
}

func TestBlake3ExtendedOutput(t *testing.T) {
	h := Blake3.New()
	_, _ = h.Write([]byte("hello"))
	sum := h.Sum(nil)

	// The first 32 bytes of the XOF are the regular BLAKE3 digest.
	short := blake3.Sum256([]byte("hello"))
	assert.Equal(t, short[:], sum[:32])

	// Sum does not disturb the running state.
	_, _ = h.Write([]byte(" world"))
	assert.NotEqual(t, sum, h.Sum(nil))
}

func TestBlake3SumAppends(t *testing.T) {
	h := Blake3.New()
	out := h.Sum([]byte{0xAA})
	assert.Len(t, out, DigestSize+1)
	assert.Equal(t, byte(0xAA), out[0])
}

func TestLookupAlgorithm(t *testing.T) {
	alg, err := LookupAlgorithm(" BLAKE3 ")
	require.NoError(t, err)
	assert.Equal(t, "blake3", alg.Name())

	_, err = LookupAlgorithm("md5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blake2b")
}

func TestFormatDigestUppercase(t *testing.T) {
	assert.Equal(t, "00ABFF", FormatDigest([]byte{0x00, 0xab, 0xff}))
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	a := write("a.txt", "hello world")
	b := write("b.txt", "hello world")
	c := write("c.txt", "different content")

	for _, alg := range []Algorithm{Blake2b, Blake3} {
		t.Run(alg.Name(), func(t *testing.T) {
			ha, err := HashFile(a, alg)
			require.NoError(t, err)
			hb, err := HashFile(b, alg)
			require.NoError(t, err)
			hc, err := HashFile(c, alg)
			require.NoError(t, err)

			assert.Equal(t, ha, hb)
			assert.NotEqual(t, ha, hc)
		})
	}
}

func TestHashFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	sum, err := HashFile(path, Blake2b)
	require.NoError(t, err)
	want := blake2b.Sum512(nil)
	assert.Equal(t, want[:], sum)
}

func TestHashFileSpansWindows(t *testing.T) {
	data := []byte(strings.Repeat("0123456789abcdef", (3*hashWindow)/16+7))
	path := filepath.Join(t.TempDir(), "multi.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	sum, err := HashFile(path, Blake2b)
	require.NoError(t, err)
	want := blake2b.Sum512(data)
	assert.Equal(t, want[:], sum)
}

func TestHashFileNotExist(t *testing.T) {
	_, err := HashFile("/nonexistent/file", Blake2b)
	assert.Error(t, err)
}

func TestHashFileDirectory(t *testing.T) {
	_, err := HashFile(t.TempDir(), Blake2b)
	assert.Error(t, err)
}
