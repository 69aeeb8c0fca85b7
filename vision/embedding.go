// MODUL: embedding
// ZWECK: Vektor-Operationen auf Embeddings (L2-Norm, Dot, Cosine)
// INPUT: float32-Vektoren
// OUTPUT: normalisierte Vektoren, Aehnlichkeitswerte
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: gonum.org/v1/gonum/blas/blas32
// HINWEISE: Fuer normalisierte Vektoren ist Dot == Cosine Similarity

package vision

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/blas/blas32"
)

// ErrDimensionMismatch wird bei unterschiedlich langen Vektoren zurueckgegeben
var ErrDimensionMismatch = errors.New("vision: embedding dimension mismatch")

func vec(v []float32) blas32.Vector {
	return blas32.Vector{N: len(v), Inc: 1, Data: v}
}

// Norm gibt die euklidische Laenge eines Vektors zurueck
func Norm(v []float32) float32 {
	if len(v) == 0 {
		return 0
	}
	return blas32.Nrm2(vec(v))
}

// Normalize gibt eine L2-normalisierte Kopie zurueck.
// Ein Nullvektor bleibt ein Nullvektor.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)

	n := Norm(out)
	if n == 0 {
		return out
	}

	blas32.Scal(1/n, vec(out))
	return out
}

// Dot berechnet das Skalarprodukt zweier Vektoren
func Dot(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	return blas32.Dot(vec(a), vec(b)), nil
}

// CosineSimilarity berechnet die Cosine Similarity zwischen zwei Vektoren.
// Nullvektoren ergeben 0.
func CosineSimilarity(a, b []float32) (float32, error) {
	dot, err := Dot(a, b)
	if err != nil {
		return 0, err
	}

	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (na * nb), nil
}
