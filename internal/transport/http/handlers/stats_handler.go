package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/tkucar/inkwell/internal/domain"
	"github.com/tkucar/inkwell/internal/service"
)

type StatsHandler struct {
	statsService    *service.StatsService
	identityService *service.IdentityService
}

func NewStatsHandler(statsService *service.StatsService, identityService *service.IdentityService) *StatsHandler {
	return &StatsHandler{
		statsService:    statsService,
		identityService: identityService,
	}
}

// Series returns daily view counts for a post over ?from=YYYY-MM-DD&to=...
// Defaults to the last 30 days.
func (h *StatsHandler) Series(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -29)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(domain.DayKey, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(domain.DayKey, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "to must be YYYY-MM-DD")
			return
		}
		to = parsed
	}

	points, err := h.statsService.GetSeries(r.Context(), postID, from, to)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		log.Printf("ERROR stats series: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"series": points})
}

func (h *StatsHandler) Totals(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	totals, err := h.statsService.Totals(r.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
			return
		}
		log.Printf("ERROR stats totals: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, totals)
}
