package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Spok95/linetrack/internal/docstore"
	"github.com/Spok95/linetrack/internal/domain/breakdown"
	"github.com/Spok95/linetrack/internal/domain/employees"
	"github.com/Spok95/linetrack/internal/domain/inputs"
	"github.com/Spok95/linetrack/internal/domain/order"
	"github.com/Spok95/linetrack/internal/domain/outputs"
	"github.com/Spok95/linetrack/internal/domain/overtime"
	"github.com/Spok95/linetrack/internal/domain/production"
	"github.com/Spok95/linetrack/internal/report"
)

const maxBody = 1 << 20

type handlers struct {
	log        *slog.Logger
	prod       *production.Service
	ot         *overtime.Repo
	employees  *employees.Repo
	inputs     *inputs.Repo
	outputs    *outputs.Repo
	breakdowns *breakdown.Repo
	loc        *time.Location
	metrics    Metrics
}

func newHandlers(log *slog.Logger, d Deps) *handlers {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return &handlers{
		log:        log.With("component", "http"),
		prod:       d.Production,
		ot:         d.Overtime,
		employees:  d.Employees,
		inputs:     d.Inputs,
		outputs:    d.Outputs,
		breakdowns: d.Breakdowns,
		loc:        loc,
		metrics:    d.Metrics,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *handlers) instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		if h.metrics != nil {
			h.metrics.HTTPRequest(route, rec.code)
		}
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// dateParam defaults to today in the factory's zone.
func (h *handlers) dateParam(r *http.Request) (string, bool) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		return order.Today(h.loc), true
	}
	return date, order.ValidDate(date)
}

// recompute derives every field of the posted section without storing it.
// Negative raw inputs are clamped to zero first.
func (h *handlers) recompute(w http.ResponseWriter, r *http.Request) {
	var s production.Section
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "invalid section: "+err.Error())
		return
	}
	if err := s.ValidateLayout(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, production.Recompute(s.Normalize()))
}

func (h *handlers) listHourly(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	docs, err := h.prod.ListByDate(r.Context(), date)
	if err != nil {
		h.log.Error("list sections failed", "date", date, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load sections")
		return
	}
	if docs == nil {
		docs = []production.Doc{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *handlers) hourlyWorkbook(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	docs, err := h.prod.ListByDate(r.Context(), date)
	if err != nil {
		h.log.Error("list sections failed", "date", date, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load sections")
		return
	}
	data, err := report.Hourly(date, docstore.Data(docs))
	if err != nil {
		h.log.Error("render hourly report failed", "date", date, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeWorkbook(w, fmt.Sprintf("hourly_report_%s.xlsx", date), data)
}

func (h *handlers) otSummary(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	sums, err := h.ot.Summaries(r.Context(), date)
	if err != nil {
		h.log.Error("ot summaries failed", "date", date, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load OT lists")
		return
	}
	writeJSON(w, http.StatusOK, sums)
}
