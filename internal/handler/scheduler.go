package handler

import (
	"encoding/json"
	"net/http"

	"github.com/oggyb/pagecache/internal/request"
	"github.com/oggyb/pagecache/internal/response"
	"github.com/oggyb/pagecache/internal/scheduler"
)

// SchedulerHandler controls the background health probe.
type SchedulerHandler struct {
	schSvc scheduler.SchedulerService
}

// NewSchedulerHandler constructs a new SchedulerHandler.
func NewSchedulerHandler(schSvc scheduler.SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{schSvc: schSvc}
}

// StartStopScheduler godoc
// @Summary     Control the health probe scheduler
// @Description Starts or stops the background Redis probe based on the given action.
// @Tags        scheduler
// @Accept      json
// @Produce     json
// @Param       request body request.SchedulerRequest true "Scheduler action (start|stop)"
// @Success     200 {object} response.SchedulerControlResponse
// @Failure     400 {object} response.ErrorResponse
// @Router      /scheduler [post]
func (h *SchedulerHandler) StartStopScheduler(w http.ResponseWriter, r *http.Request) {
	var req request.SchedulerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch req.Action {
	case "start":
		if err := h.schSvc.Start(); err != nil {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		response.RespondJSON(w, http.StatusOK, response.SchedulerControlPayload{
			Message: "scheduler started",
		})

	case "stop":
		if err := h.schSvc.Stop(); err != nil {
			response.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		response.RespondJSON(w, http.StatusOK, response.SchedulerControlPayload{
			Message: "scheduler stopped",
		})

	default:
		response.RespondError(w, http.StatusBadRequest, "action must be 'start' or 'stop'")
	}
}
