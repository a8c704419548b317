// Configuration inspection endpoints.

package api

import (
	"net/http"

	"github.com/seenimoa/envirorank/internal/config"
)

// ConfigResponse is the JSON envelope returned by GET /api/v1/config.
type ConfigResponse struct {
	Config   *config.Config `json:"config"`
	Renderer string         `json:"renderer"` // the chart backend in use
}

// handleGetConfig returns the running configuration. The server is
// configured at startup only; there is no update endpoint.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:   s.cfg,
			Renderer: s.renderer.Name(),
		},
	})
}

// handleGetSettings reports where each key setting came from.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    config.CheckSettings(s.cfg),
	})
}
