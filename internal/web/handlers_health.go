package web

import (
	"context"
	"net/http"
	"time"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
)

const healthTimeout = 2 * time.Second

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Code    string `json:"code,omitempty"`
}

// handleHealth reports whether the storage backend answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Storage: s.cfg.Storage.Driver}
	if s.health == nil {
		writeJSON(w, r, http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.health.Ping(ctx); err != nil {
		respondHealthFailure(w, r, resp, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func respondHealthFailure(w http.ResponseWriter, r *http.Request, resp healthResponse, err error) {
	logging.FromContext(r.Context()).Error("health check failed", "error", err)
	resp.Status = "unavailable"
	resp.Code = core.MapError(err).Code
	writeJSON(w, r, http.StatusServiceUnavailable, resp)
}
