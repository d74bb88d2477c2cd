package chords

import (
	"errors"
	"fmt"
	"strings"

	"chordsuggest/backend/internal/cache"
	"chordsuggest/backend/internal/embedding"
)

const (
	// DefaultSuggestionCount is used when the caller does not ask for a specific count.
	DefaultSuggestionCount = 5
	// sampleSize caps the number of tokens reported by Info.
	sampleSize = 10
)

// Vocabulary is the read-only model surface the service needs.
type Vocabulary interface {
	MostSimilar(token string, topN int) ([]embedding.Neighbor, error)
	Similarity(a, b string) (float64, error)
	Tokens(limit int) []string
	Len() int
	Dim() int
}

// Suggestion is a single suggested chord with its similarity score.
type Suggestion struct {
	Chord string  `json:"chord"`
	Score float64 `json:"score"`
}

// ModelInfo describes the loaded model.
type ModelInfo struct {
	VocabSize    int      `json:"vocab_size"`
	SampleChords []string `json:"sample_chords"`
	VectorSize   int      `json:"vector_size"`
}

// StarterSuggestions are the common opening chords returned when no chord is given.
func StarterSuggestions() []Suggestion {
	return []Suggestion{
		{Chord: "C", Score: 0.9},
		{Chord: "G", Score: 0.8},
		{Chord: "Am", Score: 0.7},
		{Chord: "F", Score: 0.6},
	}
}

// UnknownChordSuggestions is returned for chords the model has never seen.
func UnknownChordSuggestions() []Suggestion {
	return []Suggestion{{Chord: "C", Score: 0.5}}
}

// IsBlank reports whether chord is empty or a null-like placeholder sent by clients.
func IsBlank(chord string) bool {
	switch strings.ToLower(chord) {
	case "", "null", "none":
		return true
	default:
		return false
	}
}

// Service answers chord queries against a loaded embedding model.
type Service struct {
	model Vocabulary
	cache cache.NeighborCache
}

// NewService constructs a Service. neighborCache may be nil.
func NewService(model Vocabulary, neighborCache cache.NeighborCache) *Service {
	return &Service{
		model: model,
		cache: neighborCache,
	}
}

// Suggest returns up to count chords most similar to chord, best first.
// Blank chords get the starter list regardless of count, and chords missing
// from the vocabulary get a single "C" fallback.
func (s *Service) Suggest(chord string, count int) ([]Suggestion, error) {
	if IsBlank(chord) {
		return StarterSuggestions(), nil
	}

	neighbors, err := s.neighbors(chord, count)
	if errors.Is(err, embedding.ErrUnknownToken) {
		return UnknownChordSuggestions(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query neighbours for %q: %w", chord, err)
	}

	suggestions := make([]Suggestion, len(neighbors))
	for i, n := range neighbors {
		suggestions[i] = Suggestion{Chord: n.Token, Score: float64(n.Score)}
	}
	return suggestions, nil
}

func (s *Service) neighbors(chord string, count int) ([]embedding.Neighbor, error) {
	if s.cache == nil {
		return s.model.MostSimilar(chord, count)
	}

	key := cache.ComputeKey(chord, count)
	if cached, found := s.cache.Get(key); found {
		return cached, nil
	}
	neighbors, err := s.model.MostSimilar(chord, count)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, neighbors)
	return neighbors, nil
}

// Similarity returns the cosine similarity between two chords.
// Unknown chords are reported as errors.
func (s *Service) Similarity(chord1, chord2 string) (float64, error) {
	if chord1 == "" || chord2 == "" {
		return 0, fmt.Errorf("chord1 and chord2 are required")
	}
	return s.model.Similarity(chord1, chord2)
}

// Info reports vocabulary size, the first few chords in model order, and the vector size.
func (s *Service) Info() ModelInfo {
	return ModelInfo{
		VocabSize:    s.model.Len(),
		SampleChords: s.model.Tokens(sampleSize),
		VectorSize:   s.model.Dim(),
	}
}
