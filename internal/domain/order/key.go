// Package order holds the buyer/PO/PF/color/style/line tuple that ties
// input, output, breakdown, hourly and overtime records of one production
// file together.
package order

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for every record date.
const DateLayout = "2006-01-02"

type Key struct {
	Buyer      string `json:"buyer" yaml:"buyer"`
	PO         string `json:"po" yaml:"po"`
	PF         string `json:"pf" yaml:"pf"`
	Color      string `json:"color" yaml:"color"`
	Style      string `json:"style" yaml:"style"`
	LineNumber string `json:"lineNumber" yaml:"lineNumber"`
}

// Complete reports whether every part of the key is filled in.
func (k Key) Complete() bool {
	return k.Buyer != "" && k.PO != "" && k.PF != "" && k.Color != "" && k.Style != "" && k.LineNumber != ""
}

// Normalize trims surrounding whitespace from every part.
func (k Key) Normalize() Key {
	return Key{
		Buyer:      strings.TrimSpace(k.Buyer),
		PO:         strings.TrimSpace(k.PO),
		PF:         strings.TrimSpace(k.PF),
		Color:      strings.TrimSpace(k.Color),
		Style:      strings.TrimSpace(k.Style),
		LineNumber: strings.TrimSpace(k.LineNumber),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s line %s", k.Buyer, k.PO, k.PF, k.Color, k.Style, k.LineNumber)
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Today formats the current day in loc.
func Today(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc).Format(DateLayout)
}

// Options drives cascading pickers: each level narrows the next one.
// An empty selector stops the cascade and yields no options below it.
type Options struct {
	keys []Key
}

func NewOptions(keys []Key) Options { return Options{keys: keys} }

func (o Options) Buyers() []string {
	return distinct(o.keys, func(k Key) bool { return true }, func(k Key) string { return k.Buyer })
}

func (o Options) POs(buyer string) []string {
	if buyer == "" {
		return nil
	}
	return distinct(o.keys, func(k Key) bool { return k.Buyer == buyer }, func(k Key) string { return k.PO })
}

func (o Options) PFs(buyer, po string) []string {
	if po == "" {
		return nil
	}
	return distinct(o.keys, func(k Key) bool { return k.Buyer == buyer && k.PO == po },
		func(k Key) string { return k.PF })
}

func (o Options) Colors(buyer, po, pf string) []string {
	if pf == "" {
		return nil
	}
	return distinct(o.keys, func(k Key) bool { return k.Buyer == buyer && k.PO == po && k.PF == pf },
		func(k Key) string { return k.Color })
}

func (o Options) Styles(buyer, po, pf, color string) []string {
	if color == "" {
		return nil
	}
	return distinct(o.keys, func(k Key) bool {
		return k.Buyer == buyer && k.PO == po && k.PF == pf && k.Color == color
	}, func(k Key) string { return k.Style })
}

func (o Options) Lines(buyer, po, pf, color, style string) []string {
	if style == "" {
		return nil
	}
	return distinct(o.keys, func(k Key) bool {
		return k.Buyer == buyer && k.PO == po && k.PF == pf && k.Color == color && k.Style == style
	}, func(k Key) string { return k.LineNumber })
}

func distinct(keys []Key, match func(Key) bool, field func(Key) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, k := range keys {
		if !match(k) {
			continue
		}
		v := field(k)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
