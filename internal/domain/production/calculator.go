package production

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	minutesPerHour = decimal.NewFromInt(60)
	hundred        = decimal.NewFromInt(100)
)

// Recompute derives every computed field of s from its raw inputs and
// returns the result. s itself is left untouched.
//
// The per-process capacity is HourlyTarget × MaxWorkingHours even when
// shifts differ in length. Reports built on stored sections depend on
// exactly this figure, so it must not be replaced with a per-shift sum.
func Recompute(s Section) Section {
	out := s.clone()

	maxHours := MaxWorkingHours(out.Manpower)
	targets := AllocateTargets(out.DailyTarget, out.Manpower)
	for i := range out.Processes {
		out.Processes[i] = recomputeProcess(out.Processes[i], targets.For(out.Processes[i].Process), maxHours)
	}

	out.TotalOutput = 0
	if pad, ok := out.Process(PAD); ok {
		out.TotalOutput = pad.TotalOutput
	}
	out.TotalManpower = TotalManpower(out.Manpower)
	out.Efficiency = Efficiency(out.TotalOutput, out.SMV, TotalMinutes(out.Manpower))
	return out
}

func recomputeProcess(r ProcessRecord, target int, maxHours decimal.Decimal) ProcessRecord {
	r.HourlyTarget = target
	r.TotalOutput = 0
	for i, v := range r.Observed {
		r.Variance[i] = v - target
		r.TotalOutput += v
	}
	capacity := decimal.NewFromInt(int64(target)).Mul(maxHours)
	r.TotalVariance = decimal.NewFromInt(int64(r.TotalOutput)).Sub(capacity)
	return r
}

func TotalManpower(entries []ManpowerEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Manpower
	}
	return total
}

// TotalMinutes sums the person-minutes each entry contributes on its own
// shift length.
func TotalMinutes(entries []ManpowerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(decimal.NewFromInt(int64(e.Manpower)).Mul(e.WorkingHours).Mul(minutesPerHour))
	}
	return total
}

// Efficiency is earned minutes (output × SMV) over available minutes, as a
// percentage. It is zero until both minutes and SMV are positive.
func Efficiency(output int, smv, totalMinutes decimal.Decimal) decimal.Decimal {
	if !totalMinutes.IsPositive() || !smv.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(output)).Mul(smv).Div(totalMinutes).Mul(hundred)
}

// Drift lists the derived fields of a stored section that no longer match
// a fresh recomputation from its raw inputs. An empty result means the
// record is consistent.
func Drift(stored Section) []string {
	return diffDerived(stored, Recompute(stored))
}

func diffDerived(stored, fresh Section) []string {
	var out []string
	if stored.TotalOutput != fresh.TotalOutput {
		out = append(out, "totalOutput")
	}
	if stored.TotalManpower != fresh.TotalManpower {
		out = append(out, "totalManpower")
	}
	if !stored.Efficiency.Equal(fresh.Efficiency) {
		out = append(out, "efficiency")
	}
	for i, r := range stored.Processes {
		f := fresh.Processes[i]
		name := fmt.Sprintf("production[%s]", r.Process)
		if r.HourlyTarget != f.HourlyTarget {
			out = append(out, name+".target")
		}
		if r.Variance != f.Variance {
			out = append(out, name+".variances")
		}
		if r.TotalOutput != f.TotalOutput {
			out = append(out, name+".total")
		}
		if !r.TotalVariance.Equal(f.TotalVariance) {
			out = append(out, name+".variance")
		}
	}
	return out
}
