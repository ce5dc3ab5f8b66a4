package api

import (
	"net/http"

	"github.com/nerrad567/homedash-core/internal/device"
)

// ChannelSystemConfig is the WebSocket channel for system setting changes.
const ChannelSystemConfig = "system.config"

// handleGetSystemConfig returns the heating mode and smart-on level.
func (s *Server) handleGetSystemConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.SystemConfig())
}

// handleUpdateSystemConfig replaces the system configuration. The stored
// value, with minDimLevel clamped to [0,255], is returned and broadcast.
func (s *Server) handleUpdateSystemConfig(w http.ResponseWriter, r *http.Request) {
	var cfg device.SystemConfig
	if !decodeBody(w, r, &cfg) {
		return
	}

	stored := s.registry.UpdateSystemConfig(cfg)
	s.hub.Broadcast(ChannelSystemConfig, stored)
	writeJSON(w, http.StatusOK, stored)
}
