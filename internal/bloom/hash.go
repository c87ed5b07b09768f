package bloom

import (
	"crypto/sha512"
	"math/big"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// HashStrategy derives the digest values used to pick bit positions for a
// member. Implementations must be deterministic and must not retain member.
// The returned values must be non-negative; an empty slice is allowed.
type HashStrategy interface {
	Digests(member []byte) []*big.Int
}

// HashFunc adapts an ordinary function to a HashStrategy.
type HashFunc func(member []byte) []*big.Int

func (f HashFunc) Digests(member []byte) []*big.Int {
	return f(member)
}

// sha512Parts is the number of digest values cut from one SHA-512 sum.
// 64 bytes split evenly into 16-byte (128-bit) pieces.
const sha512Parts = 4

// SHA512Strategy is the default strategy. It samples a single SHA-512 sum
// four times, reading each contiguous 16-byte quarter as a big-endian
// unsigned integer.
type SHA512Strategy struct{}

func (SHA512Strategy) Digests(member []byte) []*big.Int {
	sum := sha512.Sum512(member)
	width := len(sum) / sha512Parts

	digests := make([]*big.Int, sha512Parts)
	for i := range digests {
		digests[i] = new(big.Int).SetBytes(sum[i*width : (i+1)*width])
	}
	return digests
}

// XXHashStrategy produces K xxhash64 digests, one per seed in [0, K).
type XXHashStrategy struct {
	K int
}

func (s XXHashStrategy) Digests(member []byte) []*big.Int {
	digests := make([]*big.Int, 0, s.K)
	d := xxhash.NewWithSeed(0)
	for i := 0; i < s.K; i++ {
		d.ResetWithSeed(uint64(i))
		d.Write(member)
		digests = append(digests, new(big.Int).SetUint64(d.Sum64()))
	}
	return digests
}

// DoubleHashStrategy simulates K hash functions as h1 + i*h2 (mod 2^64),
// with h1 from xxhash64 and h2 from murmur3.
type DoubleHashStrategy struct {
	K int
}

func (s DoubleHashStrategy) Digests(member []byte) []*big.Int {
	h1 := xxhash.Sum64(member)
	h2 := murmur3.Sum64(member)
	if h2 == 0 {
		h2 = 1
	}

	digests := make([]*big.Int, 0, s.K)
	for i := uint64(0); i < uint64(s.K); i++ {
		digests = append(digests, new(big.Int).SetUint64(h1+i*h2))
	}
	return digests
}
