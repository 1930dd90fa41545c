package handler

import (
	"net/http"
	"time"

	"houseboat/internal/quotes/service"
	httputil "houseboat/pkg/http"
	"houseboat/pkg/logger"
	"houseboat/pkg/model"
	"houseboat/pkg/slot"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityRequest struct {
	Start slot.Instant `json:"start"`
	End   slot.Instant `json:"end"`
}

type SeasonLabelResponse struct {
	Date   string `json:"date"`
	Season string `json:"season"`
}

type QuoteHandler struct {
	service  service.QuoteService
	log      *logger.Logger
	location *time.Location
	now      func() time.Time
}

// NewQuoteHandler serves the quote API. location is the fleet time zone,
// used when a season lookup names no date.
func NewQuoteHandler(service service.QuoteService, log *logger.Logger, location *time.Location) *QuoteHandler {
	if location == nil {
		location = time.UTC
	}
	return &QuoteHandler{
		service:  service,
		log:      log,
		location: location,
		now:      time.Now,
	}
}

func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.QuoteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	result, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "operation", "WriteSuccess", "error", err)
	}
}

func (h *QuoteHandler) UnitAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req AvailabilityRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "UnitAvailability", err)
		return
	}

	status, err := h.service.UnitAvailability(r.Context(), ps.ByName("id"), slot.Interval{Start: req.Start, End: req.End})
	if err != nil {
		h.writeError(w, "UnitAvailability", err)
		return
	}

	if err := httputil.WriteSuccess(w, status); err != nil {
		h.log.Error("failed to write success response", "handler", "UnitAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *QuoteHandler) SeasonLabel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var date time.Time
	if r.URL.Query().Get("date") == "" {
		today := h.now().In(h.location)
		date = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		var err error
		if date, err = httputil.QueryDate(r, "date"); err != nil {
			h.writeError(w, "SeasonLabel", err)
			return
		}
	}

	label, err := h.service.SeasonLabel(r.Context(), date)
	if err != nil {
		h.writeError(w, "SeasonLabel", err)
		return
	}

	if err := httputil.WriteSuccess(w, SeasonLabelResponse{
		Date:   date.Format(time.DateOnly),
		Season: label,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "SeasonLabel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *QuoteHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *QuoteHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/quotes", h.Quote)
	router.POST("/api/v1/units/:id/availability", h.UnitAvailability)
	router.GET("/api/v1/seasons/label", h.SeasonLabel)
}
