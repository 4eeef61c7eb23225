package production

import "github.com/shopspring/decimal"

// Targets holds the hourly target of every process, indexed by Process.
type Targets [processCount]int

func (t Targets) For(p Process) int {
	if !p.Valid() {
		return 0
	}
	return t[p]
}

// MaxWorkingHours is the longest shift among the entries, or zero when
// there are none. It sets the day's capacity for every process.
func MaxWorkingHours(entries []ManpowerEntry) decimal.Decimal {
	maxHours := decimal.Zero
	for _, e := range entries {
		if e.WorkingHours.GreaterThan(maxHours) {
			maxHours = e.WorkingHours
		}
	}
	return maxHours
}

// AllocateTargets spreads the daily target over the longest shift and
// applies each process's uplift, rounding half away from zero. Inputs are
// assumed non-negative; a zero shift length yields all-zero targets.
func AllocateTargets(dailyTarget int, entries []ManpowerEntry) Targets {
	var t Targets
	maxHours := MaxWorkingHours(entries)
	if !maxHours.IsPositive() {
		return t
	}
	base := decimal.NewFromInt(int64(dailyTarget)).Div(maxHours)
	for _, p := range Processes {
		t[p] = int(base.Mul(p.Uplift()).Round(0).IntPart())
	}
	return t
}
