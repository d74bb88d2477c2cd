package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterOptions configures the middleware stack around the handlers.
type RouterOptions struct {
	AllowedOrigins []string
	AccessLog      zerolog.Logger
}

// NewRouter builds the gin engine with middleware and all routes registered.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.CustomRecovery(recoverPanic),
		AccessLog(opts.AccessLog),
		Metrics(),
		CORS(opts.AllowedOrigins),
	)
	RegisterRoutes(router, h)
	return router
}

// RegisterRoutes attaches the chord endpoints to router.
func RegisterRoutes(router gin.IRoutes, h *Handler) {
	router.GET("/", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// catch-all so that an empty chord and chords containing "/" (slash chords
	// such as "C/E") reach the handler
	router.GET("/api/suggest/*chord", h.Suggest)
	router.POST("/api/similarity", h.Similarity)
	router.GET("/api/model/info", h.ModelInfo)
}
