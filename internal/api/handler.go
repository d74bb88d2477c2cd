package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"chordsuggest/backend/internal/chords"
	"chordsuggest/backend/internal/log"
)

// ChordService is the query surface the HTTP layer exposes.
type ChordService interface {
	Suggest(chord string, count int) ([]chords.Suggestion, error)
	Similarity(chord1, chord2 string) (float64, error)
	Info() chords.ModelInfo
}

// Handler serves the chord API endpoints.
type Handler struct {
	service ChordService
}

// NewHandler creates a Handler backed by service.
func NewHandler(service ChordService) *Handler {
	return &Handler{service: service}
}

// Health is a simple liveness endpoint.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Chord suggestion backend is running!",
	})
}

// Suggest handles GET /api/suggest/*chord.
func (h *Handler) Suggest(c *gin.Context) {
	chord := strings.TrimPrefix(c.Param("chord"), "/")

	count := chords.DefaultSuggestionCount
	if raw, ok := c.GetQuery("num_suggestions"); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			count = n
		}
	}

	suggestions, err := h.service.Suggest(chord, count)
	if err != nil {
		log.ErrorLogger.Printf("Failed to suggest chords for %q: %v", chord, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"status":      statusSuccess,
	})
}

// Similarity handles POST /api/similarity.
func (h *Handler) Similarity(c *gin.Context) {
	var body struct {
		Chord1 string `json:"chord1"`
		Chord2 string `json:"chord2"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, err)
		return
	}

	similarity, err := h.service.Similarity(body.Chord1, body.Chord2)
	if err != nil {
		log.ErrorLogger.Printf("Failed to compute similarity for %q/%q: %v", body.Chord1, body.Chord2, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"similarity": similarity,
		"status":     statusSuccess,
	})
}

// ModelInfo handles GET /api/model/info.
func (h *Handler) ModelInfo(c *gin.Context) {
	info := h.service.Info()
	c.JSON(http.StatusOK, gin.H{
		"vocab_size":    info.VocabSize,
		"sample_chords": info.SampleChords,
		"vector_size":   info.VectorSize,
		"status":        statusSuccess,
	})
}
