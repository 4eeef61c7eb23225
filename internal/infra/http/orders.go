package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Spok95/linetrack/internal/docstore"
	"github.com/Spok95/linetrack/internal/domain/breakdown"
	"github.com/Spok95/linetrack/internal/domain/employees"
	"github.com/Spok95/linetrack/internal/domain/inputs"
	"github.com/Spok95/linetrack/internal/domain/order"
	"github.com/Spok95/linetrack/internal/domain/outputs"
	"github.com/Spok95/linetrack/internal/report"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *handlers) listInputs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := inputs.Filter{Date: q.Get("date"), Buyer: q.Get("buyer"), PO: q.Get("po"), PF: q.Get("pf"), Color: q.Get("color")}
	docs, err := h.inputs.List(r.Context(), f)
	if err != nil {
		h.log.Error("list inputs failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load inputs")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

type optionsResponse struct {
	Buyers []string `json:"buyers"`
	POs    []string `json:"pos"`
	PFs    []string `json:"pfs"`
	Colors []string `json:"colors"`
	Styles []string `json:"styles"`
	Lines  []string `json:"lines"`
}

// orderOptions answers one step of the buyer > PO > PF > color > style > line cascade.
func (h *handlers) orderOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.inputs.Options(r.Context())
	if err != nil {
		h.log.Error("load order options failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load options")
		return
	}
	q := r.URL.Query()
	b, po, pf, c, st := q.Get("buyer"), q.Get("po"), q.Get("pf"), q.Get("color"), q.Get("style")
	writeJSON(w, http.StatusOK, optionsResponse{
		Buyers: opts.Buyers(),
		POs:    nonNil(opts.POs(b)),
		PFs:    nonNil(opts.PFs(b, po)),
		Colors: nonNil(opts.Colors(b, po, pf)),
		Styles: nonNil(opts.Styles(b, po, pf, c)),
		Lines:  nonNil(opts.Lines(b, po, pf, c, st)),
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type draftRequest struct {
	Date string    `json:"date"`
	Key  order.Key `json:"order"`
}

// draftOutput prefills an output record from the input register.
func (h *handlers) draftOutput(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Date == "" {
		req.Date = order.Today(h.loc)
	}
	out, err := h.outputs.Draft(r.Context(), req.Date, req.Key.Normalize())
	if err != nil {
		h.log.Error("draft output failed", "order", req.Key.String(), "err", err)
		writeError(w, http.StatusInternalServerError, "failed to draft output")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) createOutput(w http.ResponseWriter, r *http.Request) {
	var o outputs.Output
	if !decode(w, r, &o) {
		return
	}
	doc, err := h.outputs.Create(r.Context(), o)
	switch {
	case errors.Is(err, outputs.ErrInvalidDate), errors.Is(err, outputs.ErrIncompleteID):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		h.log.Error("create output failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to save output")
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *handlers) listOutputs(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" && !order.ValidDate(date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	docs, err := h.outputs.ListByDate(r.Context(), date)
	if err != nil {
		h.log.Error("list outputs failed", "date", date, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load outputs")
		return
	}
	if docs == nil {
		docs = []outputs.Doc{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *handlers) breakdownByPF(w http.ResponseWriter, r *http.Request) {
	doc, err := h.breakdowns.FindByPF(r.Context(), r.PathValue("pf"))
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		writeError(w, http.StatusNotFound, "no breakdown for this PF")
		return
	case err != nil:
		h.log.Error("find breakdown failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load breakdown")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *handlers) searchBreakdowns(w http.ResponseWriter, r *http.Request) {
	docs, err := h.breakdowns.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.log.Error("search breakdowns failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load breakdowns")
		return
	}
	if docs == nil {
		docs = []breakdown.Doc{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *handlers) searchEmployees(w http.ResponseWriter, r *http.Request) {
	docs, err := h.employees.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.log.Error("search employees failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load employees")
		return
	}
	if docs == nil {
		docs = []employees.Doc{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *handlers) employeeByID(w http.ResponseWriter, r *http.Request) {
	doc, err := h.employees.FindByEmployeeID(r.Context(), r.PathValue("employeeID"))
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		writeError(w, http.StatusNotFound, "employee not found")
		return
	case err != nil:
		h.log.Error("find employee failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load employee")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *handlers) inputsWorkbook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	docs, err := h.inputs.List(r.Context(), inputs.Filter{Date: q.Get("date"), PF: q.Get("pf")})
	if err != nil {
		h.log.Error("list inputs failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load inputs")
		return
	}
	data, err := report.Inputs(docstore.Data(docs))
	if err != nil {
		h.log.Error("render inputs report failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeWorkbook(w, "inputs.xlsx", data)
}

func (h *handlers) otWorkbook(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	docs, err := h.ot.ListByDate(r.Context(), date)
	if err != nil {
		h.log.Error("list ot lists failed", "date", date, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load OT lists")
		return
	}
	data, err := report.Overtime(date, docstore.Data(docs))
	if err != nil {
		h.log.Error("render ot report failed", "date", date, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeWorkbook(w, fmt.Sprintf("ot_report_%s.xlsx", date), data)
}

func writeWorkbook(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	_, _ = w.Write(data)
}
