package handler

import (
	"errors"
	"net/http"

	"github.com/apex/log"
	"github.com/oggyb/pagecache/internal/response"
	"github.com/oggyb/pagecache/internal/service"
)

// PageHandler wires HTTP endpoints to the page service.
type PageHandler struct {
	pageSvc service.PageService
}

// NewPageHandler constructs a new PageHandler.
func NewPageHandler(pageSvc service.PageService) *PageHandler {
	return &PageHandler{pageSvc: pageSvc}
}

// GetPage godoc
// @Summary     Fetch a page through the cache
// @Description Returns the body of the given URL. Bodies are cached for 10 seconds
// @Description and every call bumps the URL's access counter.
// @Tags        pages
// @Produce     json
// @Param       url query string true "Absolute URL of the page"
// @Success     200 {object} response.PageResponse
// @Failure     400 {object} response.ErrorResponse
// @Failure     502 {object} response.ErrorResponse
// @Failure     503 {object} response.ErrorResponse
// @Router      /pages [get]
func (h *PageHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		response.RespondError(w, http.StatusBadRequest, "query parameter 'url' is required")
		return
	}

	body, err := h.pageSvc.GetPage(r.Context(), url)
	if err != nil {
		h.respondServiceError(w, url, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, response.PagePayload{
		URL:     url,
		Content: body,
	})
}

// GetCount godoc
// @Summary     Access counter of a URL
// @Description Returns how many times the URL was requested in the current 10 second window.
// @Description Reading the counter does not change it.
// @Tags        pages
// @Produce     json
// @Param       url query string true "Absolute URL of the page"
// @Success     200 {object} response.PageCountResponse
// @Failure     400 {object} response.ErrorResponse
// @Failure     503 {object} response.ErrorResponse
// @Router      /pages/count [get]
func (h *PageHandler) GetCount(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		response.RespondError(w, http.StatusBadRequest, "query parameter 'url' is required")
		return
	}

	n, err := h.pageSvc.AccessCount(r.Context(), url)
	if err != nil {
		h.respondServiceError(w, url, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, response.PageCountPayload{
		URL:   url,
		Count: n,
	})
}

func (h *PageHandler) respondServiceError(w http.ResponseWriter, url string, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, service.ErrStoreUnavailable) {
		status = http.StatusServiceUnavailable
	}

	log.WithFields(log.Fields{
		"component": "handler",
		"url":       url,
		"status":    status,
	}).WithError(err).Error("page request failed")

	response.RespondError(w, status, err.Error())
}
