package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/linetrack/internal/docstore"
	"github.com/Spok95/linetrack/internal/domain/breakdown"
	"github.com/Spok95/linetrack/internal/domain/employees"
	"github.com/Spok95/linetrack/internal/domain/inputs"
	"github.com/Spok95/linetrack/internal/domain/order"
	"github.com/Spok95/linetrack/internal/domain/outputs"
	"github.com/Spok95/linetrack/internal/domain/overtime"
	"github.com/Spok95/linetrack/internal/domain/production"
	"github.com/Spok95/linetrack/internal/infra/metrics"
)

var hm = order.Key{Buyer: "H&M", PO: "PO123", PF: "PF2401", Color: "Red", Style: "Basic Tee", LineNumber: "5"}

type env struct {
	handler http.Handler
	reg     *prometheus.Registry
}

func newEnv(t *testing.T) env {
	t.Helper()
	ctx := context.Background()
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	prod := production.NewService(
		production.NewRepo(docstore.NewMemory[production.Section](production.CollectionName)), log, m)
	bds := breakdown.NewRepo(docstore.NewMemory[breakdown.Breakdown](breakdown.CollectionName))
	emps := employees.NewRepo(docstore.NewMemory[employees.Employee](employees.CollectionName))
	ot := overtime.NewRepo(docstore.NewMemory[overtime.List](overtime.CollectionName), emps, bds)
	ins := inputs.NewRepo(docstore.NewMemory[inputs.Input](inputs.CollectionName))
	outs := outputs.NewRepo(docstore.NewMemory[outputs.Output](outputs.CollectionName), ins)

	_, err := emps.Create(ctx, employees.Employee{EmployeeID: "EMP001", Name: "Abul Kalam", LineNumber: "5"})
	require.NoError(t, err)
	_, err = ins.Create(ctx, inputs.Input{Date: "2024-07-19", Key: hm, Sizes: []inputs.Size{
		{CuttingNo: "C1", Size: "M", Shade: "A", Quantity: 600},
		{CuttingNo: "C1", Size: "L", Shade: "A", Quantity: 400},
	}})
	require.NoError(t, err)
	_, err = bds.Create(ctx, breakdown.Breakdown{OutputDate: "2024-07-19", Key: hm, SMV: decimal.RequireFromString("12.5")})
	require.NoError(t, err)

	sec := production.NewSection(production.Header{Date: "2024-07-20", Key: hm})
	sec, err = sec.UpdateManpower(sec.Manpower[0].ID, 20, decimal.NewFromInt(8))
	require.NoError(t, err)
	_, err = prod.Create(ctx, []production.Section{sec.WithDailyTarget(1600)})
	require.NoError(t, err)

	_, err = ot.Create(ctx, overtime.List{Date: "2024-07-20", Key: hm, Employees: []overtime.Employee{
		{EmployeeID: "EMP001", OTTime: overtime.Until930},
		{EmployeeID: "EMP002", OTTime: overtime.Until800},
	}})
	require.NoError(t, err)

	return env{handler: NewHandler(log, Deps{
		Production: prod,
		Overtime:   ot,
		Employees:  emps,
		Inputs:     ins,
		Outputs:    outs,
		Breakdowns: bds,
		Metrics:    m,
		Gatherer:   reg,
	}), reg: reg}
}

func (e env) do(t *testing.T, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, httptest.NewRequest(method, target, body))
	return rec
}

func TestHealth(t *testing.T) {
	rec := newEnv(t).do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRecompute(t *testing.T) {
	e := newEnv(t)
	sec := production.NewSection(production.Header{Date: "2024-07-20", Key: hm})
	sec.DailyTarget = 1600
	sec.SMV = decimal.RequireFromString("0.5")
	sec.Manpower[0].Manpower = 20
	sec.Manpower[0].WorkingHours = decimal.NewFromInt(8)
	for i := range sec.Processes {
		sec.Processes[i].Observed = [production.Hours]int{160, 160, 160, 160, 160, 160, 160, 160, 160, 160}
	}
	// stale derived values must be ignored
	sec.TotalOutput = 1
	body, err := json.Marshal(sec)
	require.NoError(t, err)

	rec := e.do(t, http.MethodPost, "/api/hourly/recompute", bytes.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got production.Section
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1600, got.TotalOutput)
	assert.Equal(t, 220, got.Processes[0].HourlyTarget)
	assert.InDelta(t, 25.0/3.0, got.Efficiency.InexactFloat64(), 1e-9)
}

func TestRecomputeClampsNegativeInputs(t *testing.T) {
	e := newEnv(t)
	sec := production.NewSection(production.Header{Date: "2024-07-20", Key: hm})
	sec.DailyTarget = -1000
	sec.Manpower[0].Manpower = 10
	sec.Manpower[0].WorkingHours = decimal.NewFromInt(10)
	sec.Processes[5].Observed[0] = -50
	body, err := json.Marshal(sec)
	require.NoError(t, err)

	rec := e.do(t, http.MethodPost, "/api/hourly/recompute", bytes.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got production.Section
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Zero(t, got.DailyTarget)
	assert.Zero(t, got.Processes[0].HourlyTarget)
	assert.Zero(t, got.Processes[5].Observed[0])
	assert.Zero(t, got.Processes[5].TotalOutput)
	assert.Zero(t, got.TotalOutput)
	assert.True(t, got.Efficiency.IsZero())
}

func TestRecomputeRejects(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/hourly/recompute", strings.NewReader("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/hourly/recompute", strings.NewReader(`{"production":[]}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/hourly/recompute", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListHourly(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/api/hourly?date=2024-07-20", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var docs []production.Doc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, 1, docs[0].SlNo)
	assert.Equal(t, 200, docs[0].Data.Processes[production.PAD].HourlyTarget)

	rec = e.do(t, http.MethodGet, "/api/hourly?date=2024-07-21", nil)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/hourly?date=20/07/2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHourlyWorkbook(t *testing.T) {
	rec := newEnv(t).do(t, http.MethodGet, "/api/reports/hourly.xlsx?date=2024-07-20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "hourly_report_2024-07-20.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	v, err := f.GetCellValue("Hourly Production", "B3")
	require.NoError(t, err)
	assert.Equal(t, "H&M", v)
}

func TestOTSummary(t *testing.T) {
	rec := newEnv(t).do(t, http.MethodGet, "/api/ot/summary?date=2024-07-20", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sums []overtime.LineSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sums))
	require.Len(t, sums, 1)
	assert.Equal(t, 2, sums[0].Upto800)
	assert.Equal(t, 1, sums[0].Upto930)
	assert.Equal(t, "8:00: 2, 9:30: 1", sums[0].Text)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodGet, "/api/hourly?date=2024-07-20", nil)
	e.do(t, http.MethodGet, "/api/hourly?date=bad", nil)

	rec := e.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `linetrack_http_requests_total{code="200",route="/api/hourly"} 1`)
	assert.Contains(t, body, `linetrack_http_requests_total{code="400",route="/api/hourly"} 1`)
	assert.Contains(t, body, `linetrack_section_recomputes_total 1`)
}
