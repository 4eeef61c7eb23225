package production

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Process identifies one of the fixed sewing-line stages tracked per hour.
type Process int

const (
	FrontPart Process = iota
	BackPart
	Assembly
	LastProcess
	QCPass
	PAD

	processCount = int(PAD) + 1
)

// Processes lists every stage in pipeline order. PAD is the final,
// quality-passed output of the line.
var Processes = [processCount]Process{FrontPart, BackPart, Assembly, LastProcess, QCPass, PAD}

var processNames = [processCount]string{
	FrontPart:   "Front part",
	BackPart:    "Back part",
	Assembly:    "Assembly",
	LastProcess: "Last process",
	QCPass:      "QC pass",
	PAD:         "PAD",
}

// uplift is the multiplier applied to the base hourly target per stage.
// Sewing stages run 10% ahead so that QC and PAD are never starved.
var uplift = [processCount]decimal.Decimal{
	FrontPart:   decimal.RequireFromString("1.10"),
	BackPart:    decimal.RequireFromString("1.10"),
	Assembly:    decimal.RequireFromString("1.10"),
	LastProcess: decimal.RequireFromString("1.10"),
	QCPass:      decimal.NewFromInt(1),
	PAD:         decimal.NewFromInt(1),
}

func (p Process) Valid() bool { return p >= FrontPart && p <= PAD }

func (p Process) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Process(%d)", int(p))
	}
	return processNames[p]
}

// Uplift returns the target multiplier for p, or 1 for an unknown stage.
func (p Process) Uplift() decimal.Decimal {
	if !p.Valid() {
		return decimal.NewFromInt(1)
	}
	return uplift[p]
}

// ParseProcess accepts a display name ("Front part", "qc pass", ...).
func ParseProcess(s string) (Process, error) {
	s = strings.TrimSpace(s)
	for _, p := range Processes {
		if strings.EqualFold(processNames[p], s) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownProcess, s)
}

func (p Process) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid process %d", int(p))
	}
	return []byte(processNames[p]), nil
}

func (p *Process) UnmarshalText(b []byte) error {
	v, err := ParseProcess(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
