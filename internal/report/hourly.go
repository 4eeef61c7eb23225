package report

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/linetrack/internal/domain/production"
)

const HourlySheet = "Hourly Production"

var hourHeads = []string{"1st", "2nd", "3rd", "4th", "5th", "6th", "7th", "8th", "9th", "10th"}

func hourlyHead() []any {
	head := []any{"Line number", "Operation", "Target"}
	for _, h := range hourHeads {
		head = append(head, h)
	}
	return append(head, "Total", "Variation", "Efficiency")
}

// Hourly renders one block per section: the order header, then the six
// process rows with their hourly counts, totals and variation.
func Hourly(date string, sections []production.Section) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), HourlySheet); err != nil {
		return nil, err
	}
	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	w := newSheetWriter(f, HourlySheet)

	title := w.put("Hourly Production Report", "", "", "", "", "", "", "", "", "", "", "", "", "", "Date:", date)
	w.merge(1, title, 14, title)
	w.style(1, title, 1, title, st.label)
	w.skip()

	if len(sections) == 0 {
		w.put("No hourly production recorded for " + date)
	}
	for _, s := range sections {
		writeSection(w, st, s)
		w.skip()
	}
	_ = f.SetColWidth(HourlySheet, "B", "B", 16)
	if w.err != nil {
		return nil, w.err
	}
	return write(f)
}

func writeSection(w *sheetWriter, st styles, s production.Section) {
	hours := make([]string, 0, len(s.Manpower))
	for _, m := range s.Manpower {
		hours = append(hours, m.WorkingHours.String())
	}
	r1 := w.put("Buyer:", s.Buyer, "PO:", s.PO, "PF:", s.PF, "Style:", s.Style, "Color:", s.Color)
	r2 := w.put("SMV:", s.SMV.StringFixed(4), "Target:", s.DailyTarget, "Manpower:", s.TotalManpower,
		"Working Hours:", strings.Join(hours, "/"))
	for _, col := range []int{1, 3, 5, 7, 9} {
		w.style(col, r1, col, r2, st.label)
	}

	head := w.put(hourlyHead()...)
	w.style(1, head, 16, head, st.head)

	first := w.row
	for i, p := range s.Processes {
		row := []any{"", p.Process.String(), p.HourlyTarget}
		if i == 0 {
			row[0] = s.LineNumber
		}
		for _, n := range p.Observed {
			row = append(row, n)
		}
		row = append(row, p.TotalOutput, p.TotalVariance.InexactFloat64())
		if i == 0 {
			row = append(row, s.Efficiency.StringFixed(2)+"%")
		}
		w.put(row...)
	}
	if last := w.row - 1; last > first {
		w.merge(1, first, 1, last)
		w.merge(16, first, 16, last)
	}
}
