package handler

import (
	"net/http"

	"github.com/oggyb/pagecache/internal/response"
	"github.com/oggyb/pagecache/internal/service"
)

// HealthReporter exposes the last store probe result.
type HealthReporter interface {
	Status() service.HealthStatus
}

// ProbeRunner tells whether the health probe is still being scheduled.
type ProbeRunner interface {
	IsRunning() bool
}

// HomeHandler serves basic root and health endpoints.
type HomeHandler struct {
	health HealthReporter
	probe  ProbeRunner
}

// NewHomeHandler returns a new HomeHandler. Results reported while probe
// is not running are marked stale.
func NewHomeHandler(health HealthReporter, probe ProbeRunner) *HomeHandler {
	return &HomeHandler{health: health, probe: probe}
}

// Index godoc
// @Summary     Welcome endpoint
// @Description Simple root endpoint that returns a welcome message.
// @Tags        home
// @Produce     json
// @Success     200 {object} response.WelcomeResponse
// @Router      / [get]
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	payload := response.WelcomePayload{
		Message: "pagecache: GET /pages?url=<url> to fetch a page through the cache",
	}

	response.RespondJSON(w, http.StatusOK, payload)
}

// Health godoc
// @Summary     Health check
// @Description Reports the result of the most recent Redis probe. While the probe
// @Description scheduler is stopped the last result is returned with status "stale".
// @Tags        home
// @Produce     json
// @Success     200 {object} response.HealthResponse
// @Failure     503 {object} response.ErrorResponse
// @Router      /health [get]
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.health.Status()

	if !h.probe.IsRunning() {
		payload := response.HealthPayload{
			Status: "stale",
			Store:  "unknown",
		}
		if !st.CheckedAt.IsZero() {
			checked := st.CheckedAt
			payload.CheckedAt = &checked
			payload.Store = "up"
			if !st.Healthy {
				payload.Store = "down"
			}
		}

		response.RespondJSON(w, http.StatusOK, payload)
		return
	}

	if !st.Healthy {
		response.RespondError(w, http.StatusServiceUnavailable, "store unavailable: "+st.Err)
		return
	}

	payload := response.HealthPayload{
		Status:  "ok",
		Store:   "up",
		Probing: true,
	}
	if !st.CheckedAt.IsZero() {
		checked := st.CheckedAt
		payload.CheckedAt = &checked
	}

	response.RespondJSON(w, http.StatusOK, payload)
}
