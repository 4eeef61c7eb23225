// Package inputs records cut pieces issued to a sewing line.
package inputs

import (
	"errors"

	"github.com/google/uuid"

	"github.com/Spok95/linetrack/internal/domain/order"
)

var (
	ErrInvalidDate  = errors.New("input date must be YYYY-MM-DD")
	ErrIncompleteID = errors.New("buyer, PO, PF, color, style and line are required")
)

type Size struct {
	ID        string `json:"id" yaml:"id"`
	CuttingNo string `json:"cuttingNo" yaml:"cuttingNo"`
	Size      string `json:"size" yaml:"size"`
	Shade     string `json:"shade" yaml:"shade"`
	Quantity  int    `json:"quantity" yaml:"quantity"`
}

type Input struct {
	Date             string `json:"date" yaml:"date"`
	order.Key        `yaml:",inline"`
	SewingFinishDate string `json:"sewingFinishDate" yaml:"sewingFinishDate"`
	Sizes            []Size `json:"sizes" yaml:"sizes"`
	TotalQuantity    int    `json:"totalQuantity" yaml:"-"`
}

// Normalize fills row IDs, clamps negative quantities and derives the total.
func (in Input) Normalize() Input {
	in.Key = in.Key.Normalize()
	sizes := make([]Size, len(in.Sizes))
	copy(sizes, in.Sizes)
	in.TotalQuantity = 0
	for i := range sizes {
		if sizes[i].ID == "" {
			sizes[i].ID = uuid.NewString()
		}
		sizes[i].Quantity = max(sizes[i].Quantity, 0)
		in.TotalQuantity += sizes[i].Quantity
	}
	in.Sizes = sizes
	return in
}

func (in Input) Validate() error {
	if !order.ValidDate(in.Date) {
		return ErrInvalidDate
	}
	if !in.Key.Normalize().Complete() {
		return ErrIncompleteID
	}
	return nil
}

// Filter narrows the input register; empty fields match everything.
type Filter struct {
	Date  string
	Buyer string
	PO    string
	PF    string
	Color string
}

func (f Filter) Match(in Input) bool {
	return (f.Date == "" || in.Date == f.Date) &&
		(f.Buyer == "" || in.Buyer == f.Buyer) &&
		(f.PO == "" || in.PO == f.PO) &&
		(f.PF == "" || in.PF == f.PF) &&
		(f.Color == "" || in.Color == f.Color)
}
