package report

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/linetrack/internal/domain/production"
)

const TemplateSheet = "Hourly Entry"

// Template columns: section_id, sl_no, line, pf, process, then one column
// per working hour.
const templateFixedCols = 5

var ErrTemplateFormat = errors.New("not an hourly entry template")

// HourlyTemplate exports the stored sections of a day with their current
// counts so supervisors can fill the sheet offline.
func HourlyTemplate(docs []production.Doc) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), TemplateSheet); err != nil {
		return nil, err
	}
	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	w := newSheetWriter(f, TemplateSheet)
	head := []any{"section_id", "sl_no", "line", "pf", "process"}
	for _, h := range hourHeads {
		head = append(head, h)
	}
	hr := w.put(head...)
	w.style(1, hr, len(head), hr, st.head)

	for _, d := range docs {
		for _, p := range d.Data.Processes {
			row := []any{d.ID, d.SlNo, d.Data.LineNumber, d.Data.PF, p.Process.String()}
			for _, n := range p.Observed {
				row = append(row, n)
			}
			w.put(row...)
		}
	}
	if w.err != nil {
		return nil, w.err
	}
	return write(f)
}

// ParseHourlyTemplate reads a filled template back. Empty hour cells are
// skipped; anything else must be a non-negative integer.
func ParseHourlyTemplate(data []byte) (map[string][]production.Observation, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) < templateFixedCols+production.Hours || rows[0][0] != "section_id" {
		return nil, ErrTemplateFormat
	}

	out := map[string][]production.Observation{}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < templateFixedCols || strings.TrimSpace(row[0]) == "" {
			continue
		}
		id := strings.TrimSpace(row[0])
		proc, err := production.ParseProcess(row[4])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		for h := 1; h <= production.Hours; h++ {
			col := templateFixedCols + h - 1
			if col >= len(row) {
				break
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			n, err := strconv.Atoi(cell)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("row %d, hour %d: invalid count %q", i+1, h, cell)
			}
			out[id] = append(out[id], production.Observation{Process: proc, Hour: h, Count: n})
		}
	}
	return out, nil
}
