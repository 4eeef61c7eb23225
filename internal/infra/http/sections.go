package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Spok95/linetrack/internal/docstore"
	"github.com/Spok95/linetrack/internal/domain/production"
)

type manpowerRequest struct {
	Manpower     int             `json:"manpower"`
	WorkingHours decimal.Decimal `json:"workingHours"`
}

// sectionRequest carries the raw inputs of a new section. Counts are
// logged afterwards, hour by hour.
type sectionRequest struct {
	production.Header
	SMV         decimal.Decimal   `json:"smv"`
	DailyTarget int               `json:"dailyTarget"`
	Manpower    []manpowerRequest `json:"manpowers"`
}

func (r sectionRequest) build() (production.Section, error) {
	s := production.NewSection(r.Header).WithSMV(r.SMV).WithDailyTarget(r.DailyTarget)
	for i, m := range r.Manpower {
		if i == 0 {
			var err error
			if s, err = s.UpdateManpower(s.Manpower[0].ID, m.Manpower, m.WorkingHours); err != nil {
				return production.Section{}, err
			}
			continue
		}
		s, _ = s.AddManpower(m.Manpower, m.WorkingHours)
	}
	return s, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

// createSections stores one submission of sections as a batch.
func (h *handlers) createSections(w http.ResponseWriter, r *http.Request) {
	var reqs []sectionRequest
	if !decode(w, r, &reqs) {
		return
	}
	if len(reqs) == 0 {
		writeError(w, http.StatusBadRequest, "no sections")
		return
	}
	sections := make([]production.Section, 0, len(reqs))
	for _, req := range reqs {
		s, err := req.build()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		sections = append(sections, s)
	}
	docs, err := h.prod.Create(r.Context(), sections)
	if err != nil {
		h.log.Error("create sections failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to save sections")
		return
	}
	writeJSON(w, http.StatusCreated, docs)
}

func (h *handlers) getSection(w http.ResponseWriter, r *http.Request) {
	doc, err := h.prod.Get(r.Context(), r.PathValue("id"))
	h.writeSection(w, doc, err)
}

func (h *handlers) deleteSection(w http.ResponseWriter, r *http.Request) {
	err := h.prod.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeSection(w, production.Doc{}, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) setTarget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DailyTarget int `json:"dailyTarget"`
	}
	if !decode(w, r, &req) {
		return
	}
	doc, err := h.prod.SetDailyTarget(r.Context(), r.PathValue("id"), req.DailyTarget)
	h.writeSection(w, doc, err)
}

func (h *handlers) setSMV(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SMV decimal.Decimal `json:"smv"`
	}
	if !decode(w, r, &req) {
		return
	}
	doc, err := h.prod.SetSMV(r.Context(), r.PathValue("id"), req.SMV)
	h.writeSection(w, doc, err)
}

// hourRequest keeps the process as text so an unknown name is reported
// as a domain error rather than a malformed body.
type hourRequest struct {
	Process string `json:"process"`
	Hour    int    `json:"hour"`
	Count   int    `json:"count"`
}

func (h *handlers) setHours(w http.ResponseWriter, r *http.Request) {
	var req []hourRequest
	if !decode(w, r, &req) {
		return
	}
	obs := make([]production.Observation, 0, len(req))
	for _, o := range req {
		p, err := production.ParseProcess(o.Process)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		obs = append(obs, production.Observation{Process: p, Hour: o.Hour, Count: o.Count})
	}
	doc, err := h.prod.SetObservations(r.Context(), r.PathValue("id"), obs)
	h.writeSection(w, doc, err)
}

func (h *handlers) addManpower(w http.ResponseWriter, r *http.Request) {
	var req manpowerRequest
	if !decode(w, r, &req) {
		return
	}
	doc, err := h.prod.AddManpower(r.Context(), r.PathValue("id"), req.Manpower, req.WorkingHours)
	h.writeSection(w, doc, err)
}

func (h *handlers) updateManpower(w http.ResponseWriter, r *http.Request) {
	var req manpowerRequest
	if !decode(w, r, &req) {
		return
	}
	doc, err := h.prod.UpdateManpower(r.Context(), r.PathValue("id"), r.PathValue("entry"), req.Manpower, req.WorkingHours)
	h.writeSection(w, doc, err)
}

func (h *handlers) removeManpower(w http.ResponseWriter, r *http.Request) {
	doc, err := h.prod.RemoveManpower(r.Context(), r.PathValue("id"), r.PathValue("entry"))
	h.writeSection(w, doc, err)
}

func (h *handlers) writeSection(w http.ResponseWriter, doc production.Doc, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, doc)
	case errors.Is(err, docstore.ErrNotFound), errors.Is(err, production.ErrManpowerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, production.ErrLastManpower),
		errors.Is(err, production.ErrHourOutOfRange),
		errors.Is(err, production.ErrUnknownProcess),
		errors.Is(err, production.ErrProcessLayout):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error("section request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "section request failed")
	}
}
