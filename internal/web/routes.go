package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/mirage/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	featuresHandler := handlers.NewFeaturesHandler(s.namers.Catalogs())
	filesHandler := handlers.NewFilesHandler(s.namers, s.logger)
	tokensHandler := handlers.NewTokensHandler(s.namers.Catalogs())
	configHandler := handlers.NewConfigHandler(s.config, s.namers)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", configHandler.Get)

		// Feature catalog
		r.Get("/features", featuresHandler.List)

		// Filenames
		r.Get("/files/{filename}", filesHandler.Parse)
		r.Post("/files", filesHandler.Build)

		// Processing tokens
		r.Get("/tokens/{token}", tokensHandler.Decode)
		r.Post("/tokens", tokensHandler.Encode)
	})
}
