package engine

import (
	"encoding/hex"
	"fmt"
	"hash"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// DigestSize is the output width, in bytes, of every supported algorithm.
const DigestSize = 64

// Algorithm is a collision-resistant hash with a DigestSize-byte output.
type Algorithm interface {
	Name() string
	New() hash.Hash
}

type blake2bAlgorithm struct{}

func (blake2bAlgorithm) Name() string { return "blake2b" }

func (blake2bAlgorithm) New() hash.Hash {
	h, err := blake2b.New512(nil)
	if err != nil {
		// Only possible with an oversized key.
		panic(fmt.Sprintf("blake2b: %v", err))
	}
	return h
}

type blake3Algorithm struct{}

func (blake3Algorithm) Name() string { return "blake3" }

func (blake3Algorithm) New() hash.Hash { return &blake3x64{h: blake3.New()} }

// blake3x64 reads DigestSize bytes from the BLAKE3 extendable output
// instead of the default 32.
type blake3x64 struct {
	h *blake3.Hasher
}

func (b *blake3x64) Write(p []byte) (int, error) { return b.h.Write(p) }
func (b *blake3x64) Reset()                      { b.h.Reset() }
func (b *blake3x64) Size() int                   { return DigestSize }
func (b *blake3x64) BlockSize() int              { return b.h.BlockSize() }

func (b *blake3x64) Sum(in []byte) []byte {
	out := make([]byte, DigestSize)
	// Digest snapshots the state, so further writes are still allowed.
	if _, err := b.h.Digest().Read(out); err != nil {
		panic(fmt.Sprintf("blake3: %v", err))
	}
	return append(in, out...)
}

var (
	// Blake2b is BLAKE2b-512, the default.
	Blake2b Algorithm = blake2bAlgorithm{}
	// Blake3 is BLAKE3 with a 64-byte extended output.
	Blake3 Algorithm = blake3Algorithm{}
)

var algorithms = map[string]Algorithm{
	Blake2b.Name(): Blake2b,
	Blake3.Name():  Blake3,
}

// LookupAlgorithm returns the algorithm registered under name
// (case-insensitive).
func LookupAlgorithm(name string) (Algorithm, error) {
	alg, ok := algorithms[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q (available: %s)", name, strings.Join(AlgorithmNames(), ", "))
	}
	return alg, nil
}

// AlgorithmNames lists the registered algorithm names in sorted order.
func AlgorithmNames() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatDigest renders a digest as uppercase hex.
func FormatDigest(sum []byte) string {
	return strings.ToUpper(hex.EncodeToString(sum))
}
