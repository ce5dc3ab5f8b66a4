package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds the dependency checks of the health endpoint.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	// WebSocket
	r.Get(s.wsPath(), s.handleWebSocket)

	// Key/value protocol of the remote persistence backend
	r.Route("/api/storage/{key}", func(r chi.Router) {
		r.Get("/", s.handleStorageLoad)
		r.Post("/", s.handleStorageSave)
		r.Delete("/", s.handleStorageRemove)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// System settings
		r.Get("/system/config", s.handleGetSystemConfig)
		r.Put("/system/config", s.handleUpdateSystemConfig)

		// Global scenes
		r.Route("/scenes", func(r chi.Router) {
			r.Get("/", s.handleListGlobalScenes)
			r.Post("/", s.handleCreateGlobalScene)
			r.Delete("/{sceneID}", s.handleDeleteGlobalScene)
			r.Post("/{sceneID}/execute", s.handleExecuteGlobalScene)
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", s.handleListRooms)
			r.Get("/summary", s.handleListSummaries)

			r.Route("/{roomID}", func(r chi.Router) {
				r.Get("/", s.handleGetRoom)
				r.Get("/summary", s.handleGetSummary)
				r.Put("/heating", s.handleSetHeating)

				// Room scenes
				r.Route("/scenes", func(r chi.Router) {
					r.Get("/", s.handleListRoomScenes)
					r.Post("/", s.handleCreateRoomScene)
					r.Delete("/{sceneID}", s.handleDeleteRoomScene)
					r.Post("/{sceneID}/execute", s.handleExecuteRoomScene)
				})

				// Device controls
				r.Route("/devices/{name}", func(r chi.Router) {
					r.Get("/", s.handleGetDevice)
					r.Post("/toggle", s.handleToggle)
					r.Put("/dimmer", s.handleSetDimmer)
					r.Get("/hue", s.handleGetHue)
					r.Put("/hue", s.handleSetHue)
					r.Post("/drive", s.handleStartDrive)
					r.Delete("/drive", s.handleStopDrive)
				})
			})
		})

		// Pushed device updates (HTTP form of the WebSocket device.update)
		r.Post("/updates", s.handlePushUpdate)
	})

	return r
}

// wsPath returns the configured WebSocket path.
func (s *Server) wsPath() string {
	if s.wsCfg.Path == "" {
		return "/ws"
	}
	return s.wsCfg.Path
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":       "ok",
		"version":      s.version,
		"ws_clients":   s.hub.ClientCount(),
		"blind_drives": s.driver.ActiveCount(),
	}

	if s.mqtt != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := s.mqtt.HealthCheck(ctx); err != nil {
			resp["status"] = "degraded"
			resp["mqtt"] = err.Error()
		} else {
			resp["mqtt"] = "connected"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
