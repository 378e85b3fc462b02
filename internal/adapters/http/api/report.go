// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kaplanm/puantaj/internal/app"
	"github.com/kaplanm/puantaj/internal/domain/model"
)

// ReportHandler handles performance report requests.
type ReportHandler struct {
	deps Dependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps Dependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleGetReport handles GET /v1/reports/{userID}?start=YYYY-MM-DD&end=YYYY-MM-DD
// requests. Degraded sources still return 200 with partial: true; only
// malformed input yields 400.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	userID := strings.TrimPrefix(r.URL.Path, "/v1/reports/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, r, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	dateRange, err := parseRange(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err)
		return
	}

	var allowed []string
	if scope := r.URL.Query().Get("scope"); scope != "" {
		allowed = strings.Split(scope, ",")
	}

	rep, err := h.deps.Generate(r.Context(), userID, dateRange, allowed)
	if err != nil {
		if errors.Is(err, app.ErrInvalidRequest) {
			writeError(w, r, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func parseRange(r *http.Request) (model.DateRange, error) {
	start, err := model.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		return model.DateRange{}, fmt.Errorf("%w: start: %w", ErrBadRequest, err)
	}
	end, err := model.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		return model.DateRange{}, fmt.Errorf("%w: end: %w", ErrBadRequest, err)
	}
	return model.DateRange{Start: start, End: end}, nil
}
