package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spok95/linetrack/internal/domain/breakdown"
	"github.com/Spok95/linetrack/internal/domain/employees"
	"github.com/Spok95/linetrack/internal/domain/inputs"
	"github.com/Spok95/linetrack/internal/domain/outputs"
	"github.com/Spok95/linetrack/internal/domain/overtime"
	"github.com/Spok95/linetrack/internal/domain/production"
)

type Metrics interface {
	HTTPRequest(route string, code int)
}

type Deps struct {
	Production *production.Service
	Overtime   *overtime.Repo
	Employees  *employees.Repo
	Inputs     *inputs.Repo
	Outputs    *outputs.Repo
	Breakdowns *breakdown.Repo
	Location   *time.Location
	Metrics    Metrics
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

type Server struct {
	srv *http.Server
}

func New(addr string, log *slog.Logger, d Deps) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           NewHandler(log, d),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// NewHandler builds the routes without binding a listener.
func NewHandler(log *slog.Logger, d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if d.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	h := newHandlers(log, d)
	route := func(pattern, name string, fn http.HandlerFunc) {
		mux.Handle(pattern, h.instrument(name, fn))
	}
	route("POST /api/hourly/recompute", "/api/hourly/recompute", h.recompute)
	route("GET /api/hourly", "/api/hourly", h.listHourly)
	route("POST /api/hourly", "/api/hourly", h.createSections)
	route("GET /api/hourly/{id}", "/api/hourly/{id}", h.getSection)
	route("DELETE /api/hourly/{id}", "/api/hourly/{id}", h.deleteSection)
	route("PUT /api/hourly/{id}/target", "/api/hourly/{id}/target", h.setTarget)
	route("PUT /api/hourly/{id}/smv", "/api/hourly/{id}/smv", h.setSMV)
	route("PUT /api/hourly/{id}/hours", "/api/hourly/{id}/hours", h.setHours)
	route("POST /api/hourly/{id}/manpower", "/api/hourly/{id}/manpower", h.addManpower)
	route("PUT /api/hourly/{id}/manpower/{entry}", "/api/hourly/{id}/manpower/{entry}", h.updateManpower)
	route("DELETE /api/hourly/{id}/manpower/{entry}", "/api/hourly/{id}/manpower/{entry}", h.removeManpower)
	route("GET /api/reports/hourly.xlsx", "/api/reports/hourly.xlsx", h.hourlyWorkbook)
	route("GET /api/ot/summary", "/api/ot/summary", h.otSummary)
	route("GET /api/reports/ot.xlsx", "/api/reports/ot.xlsx", h.otWorkbook)
	route("GET /api/inputs", "/api/inputs", h.listInputs)
	route("GET /api/reports/inputs.xlsx", "/api/reports/inputs.xlsx", h.inputsWorkbook)
	route("GET /api/orders/options", "/api/orders/options", h.orderOptions)
	route("POST /api/outputs/draft", "/api/outputs/draft", h.draftOutput)
	route("POST /api/outputs", "/api/outputs", h.createOutput)
	route("GET /api/outputs", "/api/outputs", h.listOutputs)
	route("GET /api/breakdowns", "/api/breakdowns", h.searchBreakdowns)
	route("GET /api/employees", "/api/employees", h.searchEmployees)
	route("GET /api/employees/{employeeID}", "/api/employees/{employeeID}", h.employeeByID)
	route("GET /api/breakdowns/{pf}", "/api/breakdowns/{pf}", h.breakdownByPF)

	return mux
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
