package matching

import (
	"errors"
	"math"
)

var (
	errZeroNorm          = errors.New("zero-norm vector")
	errDimensionMismatch = errors.New("vector dimension mismatch")
	errNonFinite         = errors.New("vector has NaN or infinite components")
)

// CosineSimilarity is dot(a, b) / (|a| * |b|). Vectors must have equal,
// non-zero length and non-zero norm.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, errDimensionMismatch
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, errZeroNorm
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// float rounding can push identical vectors a hair past 1.
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return s, nil
}
