package production

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Spok95/linetrack/internal/domain/order"
)

// Hours is the number of hourly buckets tracked per process.
const Hours = 10

var (
	ErrProcessLayout    = errors.New("section must hold the six fixed processes once each, in order")
	ErrLastManpower     = errors.New("section must keep at least one manpower entry")
	ErrManpowerNotFound = errors.New("manpower entry not found")
	ErrHourOutOfRange   = errors.New("hour must be between 1 and 10")
	ErrUnknownProcess   = errors.New("unknown process")
)

// Header identifies which line, day and style a section tracks.
// It plays no part in the derivation.
type Header struct {
	Date      string `json:"date" yaml:"date"`
	order.Key `yaml:",inline"`
}

type ManpowerEntry struct {
	ID           string          `json:"id" yaml:"id"`
	Manpower     int             `json:"manpower" yaml:"manpower"`
	WorkingHours decimal.Decimal `json:"workingHours" yaml:"workingHours"`
}

// ProcessRecord is one row of the hourly table. Only Observed is raw input;
// every other field is overwritten by Recompute.
type ProcessRecord struct {
	ID            string          `json:"id"`
	Process       Process         `json:"process"`
	HourlyTarget  int             `json:"target"`
	Observed      [Hours]int      `json:"hours"`
	Variance      [Hours]int      `json:"variances"`
	TotalOutput   int             `json:"total"`
	TotalVariance decimal.Decimal `json:"variance"`
}

// Section is one line/date/style production record under hourly tracking.
// DailyTarget, SMV, Manpower and Processes[i].Observed are the raw inputs.
// TotalOutput, TotalManpower and Efficiency are derived.
type Section struct {
	Header
	SMV         decimal.Decimal `json:"smv"`
	DailyTarget int             `json:"dailyTarget"`
	Manpower    []ManpowerEntry `json:"manpowers"`
	Processes   []ProcessRecord `json:"production"`

	TotalOutput   int             `json:"totalOutput"`
	TotalManpower int             `json:"totalManpower"`
	Efficiency    decimal.Decimal `json:"efficiency"`
}

// NewSection returns an empty section with one blank manpower entry and the
// six fixed processes.
func NewSection(h Header) Section {
	s := Section{
		Header:   h,
		Manpower: []ManpowerEntry{newManpowerEntry(0, decimal.Zero)},
	}
	s.Processes = make([]ProcessRecord, 0, processCount)
	for _, p := range Processes {
		s.Processes = append(s.Processes, ProcessRecord{ID: uuid.NewString(), Process: p})
	}
	return Recompute(s)
}

func newManpowerEntry(manpower int, hours decimal.Decimal) ManpowerEntry {
	return ManpowerEntry{ID: uuid.NewString(), Manpower: manpower, WorkingHours: hours}
}

// ValidateLayout checks the integrity the calculator assumes but never
// enforces: six process rows in fixed order and at least one manpower entry.
func (s Section) ValidateLayout() error {
	if len(s.Processes) != processCount {
		return ErrProcessLayout
	}
	for i, p := range Processes {
		if s.Processes[i].Process != p {
			return ErrProcessLayout
		}
	}
	if len(s.Manpower) == 0 {
		return ErrLastManpower
	}
	return nil
}

// Process returns the row for p.
func (s Section) Process(p Process) (ProcessRecord, bool) {
	for _, r := range s.Processes {
		if r.Process == p {
			return r, true
		}
	}
	return ProcessRecord{}, false
}

// clone deep-copies the slices so that derived writes never alias the input.
func (s Section) clone() Section {
	out := s
	out.Manpower = append([]ManpowerEntry(nil), s.Manpower...)
	out.Processes = append([]ProcessRecord(nil), s.Processes...)
	return out
}
