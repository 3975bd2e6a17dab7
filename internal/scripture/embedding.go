package scripture

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// EmbeddingVectorIndex is a concrete, in-memory EmbeddingIndex backed by
// gonum: vectors are L2-normalized at insert time so similarity search is a
// plain inner product, matching the spec's "normalized embeddings,
// inner-product search" description. It stands in for a real pre-built
// index (out of scope per spec.md §1); construction and the embedding
// model itself are external concerns.
type EmbeddingVectorIndex struct {
	ids     []string
	vectors *mat.Dense // n x dim, rows pre-normalized
	dim     int
}

func NewEmbeddingVectorIndex(dim int) *EmbeddingVectorIndex {
	return &EmbeddingVectorIndex{dim: dim}
}

// Add inserts one line's embedding, normalizing it to unit length.
func (idx *EmbeddingVectorIndex) Add(lineID string, vector []float64) {
	normed := append([]float64{}, vector...)
	norm := floats.Norm(normed, 2)
	if norm > 0 {
		floats.Scale(1.0/norm, normed)
	}
	idx.ids = append(idx.ids, lineID)
	if idx.vectors == nil {
		idx.vectors = mat.NewDense(0, idx.dim, nil)
	}
	rows, cols := idx.vectors.Dims()
	grown := mat.NewDense(rows+1, cols, nil)
	grown.Copy(idx.vectors)
	grown.SetRow(rows, normed)
	idx.vectors = grown
}

// embedFunc converts query text into the same embedding space as Add. No
// embedding model is in scope, so Search uses the package-level
// defaultEmbed, a deterministic bag-of-character-hash projection
// sufficient for tests.
type embedFunc func(text string, dim int) []float64

var defaultEmbed embedFunc = hashEmbed

// Search returns the top-K lines by inner product with the (normalized)
// query embedding.
func (idx *EmbeddingVectorIndex) Search(queryText string, topK int) []EmbeddingHit {
	if idx.vectors == nil {
		return nil
	}
	query := defaultEmbed(queryText, idx.dim)
	qNorm := floats.Norm(query, 2)
	if qNorm > 0 {
		floats.Scale(1.0/qNorm, query)
	}
	rows, _ := idx.vectors.Dims()
	hits := make([]EmbeddingHit, 0, rows)
	qVec := mat.NewVecDense(idx.dim, query)
	for i := 0; i < rows; i++ {
		row := idx.vectors.RowView(i)
		sim := mat.Dot(row, qVec)
		hits = append(hits, EmbeddingHit{LineID: idx.ids[i], Similarity: sim})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// hashEmbed is a deterministic placeholder projection: it is not a real
// semantic embedding, only a stand-in so the EmbeddingIndex plumbing is
// exercisable without an external model dependency.
func hashEmbed(text string, dim int) []float64 {
	v := make([]float64, dim)
	for i, r := range tokenize(text) {
		for _, c := range r {
			bucket := int(c) % dim
			v[bucket] += 1.0 / float64(i+1)
		}
	}
	return v
}
