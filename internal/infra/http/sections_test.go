package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/linetrack/internal/domain/production"
)

const newSectionBody = `[{
	"date": "2024-07-21", "buyer": "H&M", "po": "PO123", "pf": "PF2401",
	"color": "Red", "style": "Basic Tee", "lineNumber": "5",
	"smv": "0.5", "dailyTarget": 1000,
	"manpowers": [{"manpower": 5, "workingHours": "6"}, {"manpower": 5, "workingHours": "10"}]
}]`

func createSection(t *testing.T, e env) production.Doc {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/hourly", strings.NewReader(newSectionBody))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var docs []production.Doc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	return docs[0]
}

func decodeSection(t *testing.T, body []byte) production.Doc {
	t.Helper()
	var doc production.Doc
	require.NoError(t, json.Unmarshal(body, &doc))
	return doc
}

func TestCreateSectionDerivesTargets(t *testing.T) {
	doc := createSection(t, newEnv(t))

	assert.Equal(t, 2, doc.SlNo)
	assert.Equal(t, 10, doc.Data.TotalManpower)
	front, ok := doc.Data.Process(production.FrontPart)
	require.True(t, ok)
	assert.Equal(t, 110, front.HourlyTarget)
	pad, _ := doc.Data.Process(production.PAD)
	assert.Equal(t, 100, pad.HourlyTarget)
}

func TestEditSectionOverHTTP(t *testing.T) {
	e := newEnv(t)
	doc := createSection(t, e)
	base := "/api/hourly/" + doc.ID

	rec := e.do(t, http.MethodPut, base+"/hours",
		strings.NewReader(`[{"process":"PAD","hour":1,"count":95},{"process":"Front part","hour":2,"count":120}]`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeSection(t, rec.Body.Bytes())
	assert.Equal(t, 95, got.Data.TotalOutput)
	pad, _ := got.Data.Process(production.PAD)
	assert.Equal(t, -5, pad.Variance[0])

	rec = e.do(t, http.MethodPut, base+"/target", strings.NewReader(`{"dailyTarget": 2000}`))
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeSection(t, rec.Body.Bytes())
	front, _ := got.Data.Process(production.FrontPart)
	assert.Equal(t, 220, front.HourlyTarget)

	rec = e.do(t, http.MethodPost, base+"/manpower", strings.NewReader(`{"manpower": 2, "workingHours": "4"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeSection(t, rec.Body.Bytes())
	assert.Equal(t, 12, got.Data.TotalManpower)

	entry := got.Data.Manpower[2].ID
	rec = e.do(t, http.MethodDelete, base+"/manpower/"+entry, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, decodeSection(t, rec.Body.Bytes()).Data.TotalManpower)

	rec = e.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = e.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditSectionRejects(t *testing.T) {
	e := newEnv(t)
	doc := createSection(t, e)
	base := "/api/hourly/" + doc.ID

	tests := []struct {
		name, method, target, body string
		code                       int
	}{
		{"hour out of range", http.MethodPut, base + "/hours", `[{"process":"PAD","hour":11,"count":1}]`, http.StatusUnprocessableEntity},
		{"unknown process name", http.MethodPut, base + "/hours", `[{"process":"Collar","hour":1,"count":1}]`, http.StatusUnprocessableEntity},
		{"malformed hours body", http.MethodPut, base + "/hours", `{"process":"PAD"}`, http.StatusBadRequest},
		{"unknown manpower entry", http.MethodPut, base + "/manpower/nope", `{"manpower":1,"workingHours":"1"}`, http.StatusNotFound},
		{"unknown section", http.MethodPut, "/api/hourly/nope/smv", `{"smv":"1"}`, http.StatusNotFound},
		{"empty batch", http.MethodPost, "/api/hourly", `[]`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, tt.method, tt.target, strings.NewReader(tt.body))
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}

	one := production.NewSection(production.Header{Date: "2024-07-22", Key: hm})
	docs, err := json.Marshal([]sectionRequest{{Header: one.Header}})
	require.NoError(t, err)
	rec := e.do(t, http.MethodPost, "/api/hourly", strings.NewReader(string(docs)))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created []production.Doc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	rec = e.do(t, http.MethodDelete, "/api/hourly/"+created[0].ID+"/manpower/"+created[0].Data.Manpower[0].ID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestWriteSectionStatus(t *testing.T) {
	h := newHandlers(slog.New(slog.NewJSONHandler(io.Discard, nil)), Deps{})

	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"malformed stored layout", fmt.Errorf("load section: %w", production.ErrProcessLayout), http.StatusUnprocessableEntity, "six fixed processes"},
		{"unknown process", fmt.Errorf("%w %q", production.ErrUnknownProcess, "Collar"), http.StatusUnprocessableEntity, "Collar"},
		{"storage failure", errors.New("connection reset"), http.StatusInternalServerError, "section request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeSection(rec, production.Doc{}, tt.err)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
			assert.NotContains(t, rec.Body.String(), "failed to save")
		})
	}
}
