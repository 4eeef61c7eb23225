package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/linetrack/internal/domain/overtime"
)

// otRows pads the employee table so printed sheets have room for
// handwritten additions.
const otRows = 25

// Overtime writes one sheet per OT list.
func Overtime(date string, lists []overtime.List) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	first := f.GetSheetName(0)

	if len(lists) == 0 {
		w := newSheetWriter(f, first)
		w.put("Overtime Report")
		w.put("No overtime records found for date: " + date)
		if w.err != nil {
			return nil, w.err
		}
		return write(f)
	}

	for i, l := range lists {
		name := fmt.Sprintf("OT %d line %s", i+1, l.LineNumber)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
		if err := writeOTList(newSheetWriter(f, name), st, l); err != nil {
			return nil, err
		}
	}
	return write(f)
}

func writeOTList(w *sheetWriter, st styles, l overtime.List) error {
	sum := l.Summary()
	w.put("OT List")
	r1 := w.put("date", l.Date, "line number", l.LineNumber, "OT Manpower", "")
	w.merge(5, r1, 6, r1)
	w.put("Buyer", l.Buyer, "po", l.PO, "OT time", "manpower")
	w.put("", "", "pf", l.PF, string(overtime.Until800), sum.Upto800)
	r4 := w.put("", "", "", "", string(overtime.Until930), sum.Upto930)
	w.style(5, r1, 6, r4, st.mark)
	for _, col := range []int{1, 3} {
		w.style(col, r1, col, r4, st.label)
	}
	w.skip()

	head := w.put("sl", "id", "name", "process", "OT time")
	w.style(1, head, 5, head, st.mark)
	for i, e := range l.Employees {
		w.put(i+1, e.EmployeeID, e.Name, e.Process, string(e.OTTime))
	}
	for i := len(l.Employees); i < otRows; i++ {
		w.skip()
	}
	return w.err
}
