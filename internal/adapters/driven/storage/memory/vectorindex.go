package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// ErrDimensionMismatch is returned when a vector has the wrong length.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// VectorIndex is an exact cosine-similarity index held in memory.
// Vectors are normalised on insert so search is a dot product.
type VectorIndex struct {
	mu      sync.RWMutex
	dims    int
	ids     []string
	vectors [][]float32
	pos     map[string]int
}

// NewVectorIndex creates an index for vectors of the given dimension.
// dims <= 0 takes the dimension from the first vector added.
func NewVectorIndex(dims int) *VectorIndex {
	return &VectorIndex{
		dims: dims,
		pos:  make(map[string]int),
	}
}

// Factory adapts NewVectorIndex to the indexer's constructor signature.
func Factory(dims int) driven.VectorIndex {
	return NewVectorIndex(dims)
}

// Add stores embedding under chunkID, replacing any previous vector.
func (v *VectorIndex) Add(_ context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" {
		return errors.New("empty chunk id")
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.dims <= 0 {
		v.dims = len(embedding)
	}
	if len(embedding) != v.dims {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(embedding), v.dims)
	}

	vec := normalise(embedding)
	if i, ok := v.pos[chunkID]; ok {
		v.vectors[i] = vec
		return nil
	}
	v.pos[chunkID] = len(v.ids)
	v.ids = append(v.ids, chunkID)
	v.vectors = append(v.vectors, vec)
	return nil
}

// Search returns the k most similar vectors, most similar first. Equal
// similarities are ordered by chunk ID.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}
	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.ids) == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != v.dims {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(query), v.dims)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := normalise(query)
	hits := make([]driven.VectorHit, len(v.ids))
	for i, vec := range v.vectors {
		hits[i] = driven.VectorHit{ChunkID: v.ids[i], Similarity: dot(q, vec)}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.ids)
}

// Dimensions returns the vector dimension, or 0 before the first Add.
func (v *VectorIndex) Dimensions() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dims
}

// Close releases the stored vectors.
func (v *VectorIndex) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ids = nil
	v.vectors = nil
	v.pos = make(map[string]int)
	return nil
}

func normalise(vec []float32) []float32 {
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(vec))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range vec {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
