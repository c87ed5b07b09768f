// Package bloom implements a fixed-size Bloom filter with a pluggable hash
// strategy.
//
// The bit array is packed into 64-bit words. Bits are only ever set, and
// every set is an atomic OR on its word, so concurrent Add calls never lose
// a sibling bit and Check may run alongside Add at any time. An Add racing a
// Check is visible per bit only: Check may see some of its bits and not
// others.
package bloom

import (
	"math/big"
	"sync/atomic"
)

// DefaultSize is the bit count used when the caller has no better figure.
const DefaultSize = 10000

const wordBits = 64

type Filter struct {
	size    uint64
	modulus *big.Int
	words   []atomic.Uint64
	hasher  HashStrategy
}

type Option func(*Filter)

// WithHashStrategy binds s instead of SHA512Strategy. A nil s is ignored.
func WithHashStrategy(s HashStrategy) Option {
	return func(f *Filter) {
		if s != nil {
			f.hasher = s
		}
	}
}

// New creates a filter of size bits, all clear.
func New(size int, opts ...Option) (*Filter, error) {
	if size < 1 {
		return nil, &ErrInvalidSize{Size: size}
	}

	f := &Filter{
		size:    uint64(size),
		modulus: new(big.Int).SetUint64(uint64(size)),
		words:   make([]atomic.Uint64, (size+wordBits-1)/wordBits),
		hasher:  SHA512Strategy{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Size returns the number of bits in the filter.
func (f *Filter) Size() int {
	return int(f.size)
}

// Add inserts member. Adding the same member again changes nothing.
func (f *Filter) Add(member []byte) {
	var rem big.Int
	for _, h := range f.hasher.Digests(member) {
		idx := f.index(h, &rem)
		f.words[idx/wordBits].Or(1 << (idx % wordBits))
	}
}

// Check reports whether member may have been added. False means it
// definitely was not. A strategy yielding no digests makes every member
// present.
func (f *Filter) Check(member []byte) bool {
	var rem big.Int
	for _, h := range f.hasher.Digests(member) {
		idx := f.index(h, &rem)
		if f.words[idx/wordBits].Load()&(1<<(idx%wordBits)) == 0 {
			return false
		}
	}
	return true
}

// index maps a digest onto [0, size). rem is scratch space owned by the caller.
func (f *Filter) index(h *big.Int, rem *big.Int) uint64 {
	if h.IsUint64() {
		return h.Uint64() % f.size
	}
	return rem.Mod(h, f.modulus).Uint64()
}
