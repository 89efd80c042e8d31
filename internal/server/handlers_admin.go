package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/akave-ai/akavelog/internal/response"
)

// handleAdminMaintenanceRun implements POST /admin/maintenance/run: forces
// an out-of-band maintenance pass, bypassing the 5-minute on-path trigger
// gate. Useful for operators and for deterministic test setup.
func (s *Server) handleAdminMaintenanceRun(c echo.Context) error {
	s.scheduler.TriggerNow(time.Now())
	return response.OK(c, map[string]string{"status": "triggered"})
}

// handleHealthz implements GET /healthz: liveness only, no auth, no rate
// limit, no store round-trip.
func (s *Server) handleHealthz(c echo.Context) error {
	return response.OK(c, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
