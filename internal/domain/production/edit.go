package production

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// The edit operations below are the only way raw inputs change. Each one
// clamps negative values to zero and returns a fully recomputed section,
// so a caller never holds raw and derived fields that disagree.

func (s Section) WithHeader(h Header) Section {
	out := s.clone()
	out.Header = h
	return Recompute(out)
}

func (s Section) WithDailyTarget(target int) Section {
	out := s.clone()
	out.DailyTarget = max(target, 0)
	return Recompute(out)
}

func (s Section) WithSMV(smv decimal.Decimal) Section {
	out := s.clone()
	out.SMV = nonNegative(smv)
	return Recompute(out)
}

// AddManpower appends an entry and returns its generated ID.
func (s Section) AddManpower(manpower int, hours decimal.Decimal) (Section, string) {
	out := s.clone()
	e := newManpowerEntry(max(manpower, 0), nonNegative(hours))
	out.Manpower = append(out.Manpower, e)
	return Recompute(out), e.ID
}

func (s Section) UpdateManpower(id string, manpower int, hours decimal.Decimal) (Section, error) {
	out := s.clone()
	for i := range out.Manpower {
		if out.Manpower[i].ID == id {
			out.Manpower[i].Manpower = max(manpower, 0)
			out.Manpower[i].WorkingHours = nonNegative(hours)
			return Recompute(out), nil
		}
	}
	return s, ErrManpowerNotFound
}

// RemoveManpower refuses to drop the last entry.
func (s Section) RemoveManpower(id string) (Section, error) {
	idx := -1
	for i, e := range s.Manpower {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, ErrManpowerNotFound
	}
	if len(s.Manpower) <= 1 {
		return s, ErrLastManpower
	}
	out := s.clone()
	out.Manpower = append(out.Manpower[:idx], out.Manpower[idx+1:]...)
	return Recompute(out), nil
}

// WithObserved records the count for hour (1..10) of process p.
func (s Section) WithObserved(p Process, hour, count int) (Section, error) {
	if hour < 1 || hour > Hours {
		return s, ErrHourOutOfRange
	}
	out := s.clone()
	for i := range out.Processes {
		if out.Processes[i].Process == p {
			out.Processes[i].Observed[hour-1] = max(count, 0)
			return Recompute(out), nil
		}
	}
	return s, ErrUnknownProcess
}

// Observation is one hourly count for one process.
type Observation struct {
	Process Process `json:"process"`
	Hour    int     `json:"hour"`
	Count   int     `json:"count"`
}

// WithObservations applies several counts and recomputes once. The
// section is left unchanged if any observation is rejected.
func (s Section) WithObservations(obs []Observation) (Section, error) {
	out := s
	for _, o := range obs {
		next, err := out.WithObserved(o.Process, o.Hour, o.Count)
		if err != nil {
			return s, fmt.Errorf("%s hour %d: %w", o.Process, o.Hour, err)
		}
		out = next
	}
	return out, nil
}

// Normalize clamps the raw inputs of a section received whole to zero or
// above. Derived fields are left for Recompute.
func (s Section) Normalize() Section {
	out := s.clone()
	out.DailyTarget = max(out.DailyTarget, 0)
	out.SMV = nonNegative(out.SMV)
	for i := range out.Manpower {
		out.Manpower[i].Manpower = max(out.Manpower[i].Manpower, 0)
		out.Manpower[i].WorkingHours = nonNegative(out.Manpower[i].WorkingHours)
	}
	for i := range out.Processes {
		for h := range out.Processes[i].Observed {
			out.Processes[i].Observed[h] = max(out.Processes[i].Observed[h], 0)
		}
	}
	return out
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
