package bloom

import (
	"math"
)

// OptimalSize returns the bit count m and hash count k that keep the false
// positive rate near p once n members have been added:
//
//	m = -n*ln(p) / ln(2)^2
//	k = m/n * ln(2)
//
// Both results are at least 1. It returns ErrInvalidConfiguration when n is
// zero or p is outside (0, 1).
func OptimalSize(n uint64, p float64) (m int, k int, err error) {
	if n == 0 || !(p > 0 && p < 1) {
		return 0, 0, ErrInvalidConfiguration
	}

	bits := math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2))
	if bits >= 1<<62 {
		return 0, 0, ErrInvalidConfiguration
	}
	m = max(int(bits), 1)
	k = max(int(math.Round(float64(m)/float64(n)*math.Ln2)), 1)
	return m, k, nil
}
