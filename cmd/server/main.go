package main

import (
	"chordsuggest/backend/internal/api"
	"chordsuggest/backend/internal/cache"
	"chordsuggest/backend/internal/chords"
	"chordsuggest/backend/internal/config"
	"chordsuggest/backend/internal/embedding"
	"chordsuggest/backend/internal/log"
	"chordsuggest/backend/internal/watch"
)

// runServer loads the chord model once and serves the HTTP API until the
// listener fails.
func runServer(cfg *config.Config) {
	log.InfoLogger.Printf("📦 Loading model from %s...", cfg.ModelPath)
	model, err := embedding.Load(cfg.ModelPath, cfg.Format())
	if err != nil {
		log.ErrorLogger.Fatalf("FATAL: Failed to load model: %v", err)
	}
	log.InfoLogger.Printf("✅ Model loaded with %d chords (%d dimensions)", model.Len(), model.Dim())

	if cfg.WatchModel {
		watcher, err := watch.NewModelWatcher(cfg.ModelPath)
		if err != nil {
			log.ErrorLogger.Fatalf("FATAL: Failed to create model watcher: %v", err)
		}
		defer watcher.Close()
		if err := watcher.Start(nil); err != nil {
			log.ErrorLogger.Printf("⚠️ Could not watch model file: %v", err)
		}
	}

	suggestCache := cache.NewInMemoryCache(cfg.SuggestCacheSize)
	service := chords.NewService(model, suggestCache)

	router := api.NewRouter(api.NewHandler(service), api.RouterOptions{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AccessLog:      log.AccessLogger,
	})

	log.InfoLogger.Printf("🚀 Starting server on http://%s", cfg.Addr())
	if err := router.Run(cfg.Addr()); err != nil {
		log.ErrorLogger.Fatalf("🔥 Could not start server: %s\n", err)
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.ErrorLogger.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	runServer(cfg)
}
