package embedding

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownToken is returned when a queried token is not part of the vocabulary.
var ErrUnknownToken = errors.New("unknown token")

// Neighbor is a single nearest-neighbour match.
type Neighbor struct {
	Token string
	Score float32
}

// Model is an immutable token -> vector mapping loaded from a word2vec file.
// It is safe for concurrent use because nothing mutates it after construction.
type Model struct {
	tokens []string
	index  map[string]int
	dim    int

	// vectors and unit are flat, row-major: entry i occupies [i*dim, (i+1)*dim).
	vectors []float32
	unit    []float32
}

// New builds a model from tokens and their vectors. All vectors must share the
// same non-zero length and tokens must be unique.
func New(tokens []string, vectors [][]float32) (*Model, error) {
	if len(tokens) != len(vectors) {
		return nil, fmt.Errorf("embedding: %d tokens but %d vectors", len(tokens), len(vectors))
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding: cannot infer dimensions from an empty vocabulary")
	}
	dim := len(vectors[0])
	flat := make([]float32, 0, len(vectors)*dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("embedding: vector for %q has %d dimensions, want %d", tokens[i], len(v), dim)
		}
		flat = append(flat, v...)
	}
	return newModel(append([]string(nil), tokens...), flat, dim)
}

// newModel takes ownership of tokens and flat.
func newModel(tokens []string, flat []float32, dim int) (*Model, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("embedding: vector size must be positive, got %d", dim)
	}
	if len(flat) != len(tokens)*dim {
		return nil, fmt.Errorf("embedding: have %d values for %d tokens of size %d", len(flat), len(tokens), dim)
	}

	index := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		if _, dup := index[tok]; dup {
			return nil, fmt.Errorf("embedding: duplicate token %q", tok)
		}
		index[tok] = i
	}

	unit := make([]float32, len(flat))
	copy(unit, flat)
	for i := range tokens {
		normalize(unit[i*dim : (i+1)*dim])
	}

	return &Model{
		tokens:  tokens,
		index:   index,
		dim:     dim,
		vectors: flat,
		unit:    unit,
	}, nil
}

// Len returns the vocabulary size.
func (m *Model) Len() int { return len(m.tokens) }

// Dim returns the vector dimensionality.
func (m *Model) Dim() int { return m.dim }

// Contains reports whether token is in the vocabulary.
func (m *Model) Contains(token string) bool {
	_, ok := m.index[token]
	return ok
}

// Tokens returns up to limit tokens in the order they were stored in the model
// file. A negative limit returns the whole vocabulary.
func (m *Model) Tokens(limit int) []string {
	if limit < 0 || limit > len(m.tokens) {
		limit = len(m.tokens)
	}
	out := make([]string, limit)
	copy(out, m.tokens[:limit])
	return out
}

// Vector returns a copy of the raw vector stored for token.
func (m *Model) Vector(token string) ([]float32, error) {
	i, err := m.lookup(token)
	if err != nil {
		return nil, err
	}
	out := make([]float32, m.dim)
	copy(out, m.vectors[i*m.dim:(i+1)*m.dim])
	return out, nil
}

// Similarity returns the cosine similarity between a and b, in [-1, 1].
func (m *Model) Similarity(a, b string) (float64, error) {
	i, err := m.lookup(a)
	if err != nil {
		return 0, err
	}
	j, err := m.lookup(b)
	if err != nil {
		return 0, err
	}
	return clamp(float64(dot(m.row(i), m.row(j)))), nil
}

// MostSimilar returns the topN tokens closest to token by cosine similarity,
// highest score first. The query token itself is never part of the result.
// Equal scores keep vocabulary order.
func (m *Model) MostSimilar(token string, topN int) ([]Neighbor, error) {
	qi, err := m.lookup(token)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		return []Neighbor{}, nil
	}
	if limit := len(m.tokens) - 1; topN > limit {
		topN = limit
	}
	if topN <= 0 {
		return []Neighbor{}, nil
	}

	type candidate struct {
		idx   int
		score float32
	}
	query := m.row(qi)
	best := make([]candidate, 0, topN)
	minScore := float32(math.Inf(1))
	minIdx := -1

	updateMin := func() {
		minIdx = 0
		minScore = best[0].score
		for k := 1; k < len(best); k++ {
			// ties evict the later vocabulary entry first
			if best[k].score < minScore || (best[k].score == minScore && best[k].idx > best[minIdx].idx) {
				minScore = best[k].score
				minIdx = k
			}
		}
	}

	for i := range m.tokens {
		if i == qi {
			continue
		}
		score := dot(m.row(i), query)
		if len(best) < topN {
			best = append(best, candidate{idx: i, score: score})
			if len(best) == topN {
				updateMin()
			}
			continue
		}
		if score <= minScore {
			continue
		}
		best[minIdx] = candidate{idx: i, score: score}
		updateMin()
	}

	sort.Slice(best, func(a, b int) bool {
		if best[a].score != best[b].score {
			return best[a].score > best[b].score
		}
		return best[a].idx < best[b].idx
	})

	out := make([]Neighbor, len(best))
	for k, c := range best {
		out[k] = Neighbor{Token: m.tokens[c.idx], Score: float32(clamp(float64(c.score)))}
	}
	return out, nil
}

func (m *Model) lookup(token string) (int, error) {
	i, ok := m.index[token]
	if !ok {
		return 0, fmt.Errorf("%w: key '%s' not present", ErrUnknownToken, token)
	}
	return i, nil
}

func (m *Model) row(i int) []float32 {
	return m.unit[i*m.dim : (i+1)*m.dim]
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// normalize scales v to unit length in place. Zero vectors are left untouched.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

func clamp(x float64) float64 {
	switch {
	case x > 1:
		return 1
	case x < -1:
		return -1
	default:
		return x
	}
}
