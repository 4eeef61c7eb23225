// Package report renders the factory's Excel workbooks.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const themeColor = "#1B2445"

// sheetWriter appends rows to one sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func newSheetWriter(f *excelize.File, sheet string) *sheetWriter {
	return &sheetWriter{f: f, sheet: sheet, row: 1}
}

func (w *sheetWriter) put(values ...any) int {
	row := w.row
	w.row++
	if w.err != nil {
		return row
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return row
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("row %d: %w", row, err)
	}
	return row
}

func (w *sheetWriter) skip() { w.row++ }

func (w *sheetWriter) merge(fromCol, fromRow, toCol, toRow int) {
	if w.err != nil {
		return
	}
	from, _ := excelize.CoordinatesToCellName(fromCol, fromRow)
	to, _ := excelize.CoordinatesToCellName(toCol, toRow)
	w.err = w.f.MergeCell(w.sheet, from, to)
}

func (w *sheetWriter) style(fromCol, fromRow, toCol, toRow, styleID int) {
	if w.err != nil {
		return
	}
	from, _ := excelize.CoordinatesToCellName(fromCol, fromRow)
	to, _ := excelize.CoordinatesToCellName(toCol, toRow)
	w.err = w.f.SetCellStyle(w.sheet, from, to, styleID)
}

type styles struct {
	head  int
	label int
	mark  int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	s.head, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{themeColor}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, err
	}
	s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return s, err
	}
	s.mark, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFFF00"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	return s, err
}

func write(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
