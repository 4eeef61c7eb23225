// Package outputs records finished sewing output against the cut pieces
// issued to a line.
package outputs

import (
	"errors"
	"sort"

	"github.com/Spok95/linetrack/internal/domain/inputs"
	"github.com/Spok95/linetrack/internal/domain/order"
)

var (
	ErrInvalidDate  = errors.New("output date must be YYYY-MM-DD")
	ErrIncompleteID = errors.New("buyer, PO, PF, color, style and line are required")
)

type Size struct {
	Size  string `json:"size"`
	Shade string `json:"shade"`
	// InputQuantity is everything cut for this size and shade.
	InputQuantity int `json:"inputQuantity"`
	// PreviousOutput is what earlier output records already took.
	PreviousOutput  int `json:"previousOutput"`
	OutputQuantity  int `json:"outputQuantity"`
	BalanceQuantity int `json:"balanceQuantity"`
}

type Output struct {
	Date                 string `json:"date"`
	order.Key
	SewingFinishDate     string `json:"sewingFinishDate"`
	Sizes                []Size `json:"sizes"`
	TotalOutputQuantity  int    `json:"totalOutputQuantity"`
	TotalBalanceQuantity int    `json:"totalBalanceQuantity"`
}

func (o Output) Validate() error {
	if !order.ValidDate(o.Date) {
		return ErrInvalidDate
	}
	if !o.Key.Normalize().Complete() {
		return ErrIncompleteID
	}
	return nil
}

// Normalize derives per-size balances and the record totals.
func (o Output) Normalize() Output {
	o.Key = o.Key.Normalize()
	sizes := make([]Size, len(o.Sizes))
	copy(sizes, o.Sizes)
	o.TotalOutputQuantity, o.TotalBalanceQuantity = 0, 0
	for i := range sizes {
		s := &sizes[i]
		s.OutputQuantity = max(s.OutputQuantity, 0)
		s.BalanceQuantity = s.InputQuantity - s.PreviousOutput - s.OutputQuantity
		o.TotalOutputQuantity += s.OutputQuantity
		o.TotalBalanceQuantity += s.BalanceQuantity
	}
	o.Sizes = sizes
	return o
}

// SetOutput records the quantity produced for one size/shade row.
func (o Output) SetOutput(size, shade string, qty int) (Output, bool) {
	for i := range o.Sizes {
		if o.Sizes[i].Size == size && o.Sizes[i].Shade == shade {
			sizes := make([]Size, len(o.Sizes))
			copy(sizes, o.Sizes)
			sizes[i].OutputQuantity = qty
			o.Sizes = sizes
			return o.Normalize(), true
		}
	}
	return o, false
}

type sizeKey struct{ size, shade string }

// Prefill builds the size rows of a new output for k: input quantity per
// size and shade across all matching inputs, less what earlier outputs for
// the same order already recorded.
func Prefill(k order.Key, ins []inputs.Input, previous []Output) []Size {
	cut := map[sizeKey]int{}
	for _, in := range ins {
		if in.Key != k {
			continue
		}
		for _, s := range in.Sizes {
			cut[sizeKey{s.Size, s.Shade}] += s.Quantity
		}
	}
	done := map[sizeKey]int{}
	for _, out := range previous {
		if out.Key != k {
			continue
		}
		for _, s := range out.Sizes {
			done[sizeKey{s.Size, s.Shade}] += s.OutputQuantity
		}
	}

	rows := make([]Size, 0, len(cut))
	for key, qty := range cut {
		rows = append(rows, Size{
			Size:            key.size,
			Shade:           key.shade,
			InputQuantity:   qty,
			PreviousOutput:  done[key],
			BalanceQuantity: qty - done[key],
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Size != rows[j].Size {
			return rows[i].Size < rows[j].Size
		}
		return rows[i].Shade < rows[j].Shade
	})
	return rows
}
