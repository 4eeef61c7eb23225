package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/linetrack/internal/domain/inputs"
	"github.com/Spok95/linetrack/internal/domain/order"
	"github.com/Spok95/linetrack/internal/domain/overtime"
	"github.com/Spok95/linetrack/internal/domain/production"
)

var hm = order.Key{Buyer: "H&M", PO: "PO123", PF: "PF2401", Color: "Red", Style: "Basic Tee", LineNumber: "5"}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return v
}

func sampleSection(t *testing.T) production.Section {
	t.Helper()
	s := production.NewSection(production.Header{Date: "2024-07-20", Key: hm})
	s, err := s.UpdateManpower(s.Manpower[0].ID, 20, decimal.NewFromInt(8))
	require.NoError(t, err)
	s = s.WithDailyTarget(1600).WithSMV(decimal.RequireFromString("0.5"))
	s, err = s.WithObserved(production.PAD, 1, 190)
	require.NoError(t, err)
	return s
}

func TestHourly(t *testing.T) {
	data, err := Hourly("2024-07-20", []production.Section{sampleSection(t)})
	require.NoError(t, err)
	f := open(t, data)

	assert.Equal(t, "Hourly Production Report", cell(t, f, HourlySheet, "A1"))
	assert.Equal(t, "2024-07-20", cell(t, f, HourlySheet, "P1"))
	assert.Equal(t, "H&M", cell(t, f, HourlySheet, "B3"))
	assert.Equal(t, "0.5000", cell(t, f, HourlySheet, "B4"))
	assert.Equal(t, "8", cell(t, f, HourlySheet, "H4"))
	assert.Equal(t, "Operation", cell(t, f, HourlySheet, "B5"))

	assert.Equal(t, "5", cell(t, f, HourlySheet, "A6"))
	assert.Equal(t, "Front part", cell(t, f, HourlySheet, "B6"))
	assert.Equal(t, "220", cell(t, f, HourlySheet, "C6"))
	assert.Equal(t, "0.99%", cell(t, f, HourlySheet, "P6"))

	assert.Equal(t, "PAD", cell(t, f, HourlySheet, "B11"))
	assert.Equal(t, "200", cell(t, f, HourlySheet, "C11"))
	assert.Equal(t, "190", cell(t, f, HourlySheet, "D11"))
	assert.Equal(t, "190", cell(t, f, HourlySheet, "N11"))
	assert.Equal(t, "-1410", cell(t, f, HourlySheet, "O11"))
}

func TestHourlyEmpty(t *testing.T) {
	data, err := Hourly("2024-07-21", nil)
	require.NoError(t, err)
	f := open(t, data)
	assert.Equal(t, "No hourly production recorded for 2024-07-21", cell(t, f, HourlySheet, "A3"))
}

func TestInputs(t *testing.T) {
	ins := []inputs.Input{{Date: "2024-07-20", Key: hm, Sizes: []inputs.Size{
		{CuttingNo: "C1", Size: "M", Shade: "A", Quantity: 500},
		{CuttingNo: "C2", Size: "L", Shade: "A", Quantity: 700},
	}}}
	data, err := Inputs(ins)
	require.NoError(t, err)
	f := open(t, data)

	rows, err := f.GetRows(InputsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "C2", rows[2][8])
	assert.Equal(t, "1200", rows[3][11])
}

func TestOvertime(t *testing.T) {
	other := hm
	other.LineNumber = "6"
	lists := []overtime.List{
		{Date: "2024-07-20", Key: hm, Employees: []overtime.Employee{
			{EmployeeID: "EMP001", Name: "Abul Kalam", Process: "Neck Join", OTTime: overtime.Until930},
			{EmployeeID: "EMP002", Name: "Rahima", Process: "N/A", OTTime: overtime.Until800},
		}},
		{Date: "2024-07-20", Key: other},
	}
	data, err := Overtime("2024-07-20", lists)
	require.NoError(t, err)
	f := open(t, data)

	assert.Equal(t, []string{"OT 1 line 5", "OT 2 line 6"}, f.GetSheetList())
	sheet := "OT 1 line 5"
	assert.Equal(t, "OT Manpower", cell(t, f, sheet, "E2"))
	assert.Equal(t, "2", cell(t, f, sheet, "F4"))
	assert.Equal(t, "1", cell(t, f, sheet, "F5"))
	assert.Equal(t, "EMP001", cell(t, f, sheet, "B8"))
	assert.Equal(t, "9:30", cell(t, f, sheet, "E8"))
}

func TestOvertimeEmpty(t *testing.T) {
	data, err := Overtime("2024-07-20", nil)
	require.NoError(t, err)
	f := open(t, data)
	assert.Equal(t, "No overtime records found for date: 2024-07-20", cell(t, f, f.GetSheetName(0), "A2"))
}

func TestHourlyTemplateRoundTrip(t *testing.T) {
	doc := production.Doc{ID: "sec-1", SlNo: 7, Data: sampleSection(t)}
	data, err := HourlyTemplate([]production.Doc{doc})
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, "7", cell(t, f, TemplateSheet, "B2"))
	// PAD is the sixth process row; hour 2 is column G
	require.NoError(t, f.SetCellValue(TemplateSheet, "G7", 205))
	require.NoError(t, f.SetCellValue(TemplateSheet, "H7", ""))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := ParseHourlyTemplate(buf.Bytes())
	require.NoError(t, err)
	obs := got["sec-1"]
	assert.Len(t, obs, production.Hours*len(production.Processes)-1)
	assert.Contains(t, obs, production.Observation{Process: production.PAD, Hour: 1, Count: 190})
	assert.Contains(t, obs, production.Observation{Process: production.PAD, Hour: 2, Count: 205})

	updated, err := doc.Data.WithObservations(obs)
	require.NoError(t, err)
	assert.Equal(t, 395, updated.TotalOutput)
}

func TestParseHourlyTemplateErrors(t *testing.T) {
	data, err := Inputs(nil)
	require.NoError(t, err)
	_, err = ParseHourlyTemplate(data)
	assert.ErrorIs(t, err, ErrTemplateFormat)

	doc := production.Doc{ID: "sec-1", Data: sampleSection(t)}
	data, err = HourlyTemplate([]production.Doc{doc})
	require.NoError(t, err)
	f := open(t, data)
	require.NoError(t, f.SetCellValue(TemplateSheet, "F2", "lots"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	_, err = ParseHourlyTemplate(buf.Bytes())
	assert.ErrorContains(t, err, "row 2, hour 1")

	_, err = ParseHourlyTemplate([]byte("not a workbook"))
	assert.Error(t, err)
}
