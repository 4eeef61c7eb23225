package report

import (
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/linetrack/internal/domain/inputs"
)

const InputsSheet = "Inputs"

// Inputs lists every size row of the given inputs with its order.
func Inputs(ins []inputs.Input) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), InputsSheet); err != nil {
		return nil, err
	}
	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	w := newSheetWriter(f, InputsSheet)
	head := w.put("Date", "Buyer", "PO", "PF", "Color", "Style", "Line", "Sewing finish",
		"Cutting no", "Size", "Shade", "Quantity")
	w.style(1, head, 12, head, st.head)

	total := 0
	for _, in := range ins {
		for _, s := range in.Sizes {
			w.put(in.Date, in.Buyer, in.PO, in.PF, in.Color, in.Style, in.LineNumber, in.SewingFinishDate,
				s.CuttingNo, s.Size, s.Shade, s.Quantity)
			total += s.Quantity
		}
	}
	tr := w.put("Total", "", "", "", "", "", "", "", "", "", "", total)
	w.style(1, tr, 12, tr, st.label)
	if w.err != nil {
		return nil, w.err
	}
	return write(f)
}
