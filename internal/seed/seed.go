// Package seed loads fixture data from YAML into the document store.
package seed

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Spok95/linetrack/internal/domain/breakdown"
	"github.com/Spok95/linetrack/internal/domain/employees"
	"github.com/Spok95/linetrack/internal/domain/inputs"
	"github.com/Spok95/linetrack/internal/domain/overtime"
	"github.com/Spok95/linetrack/internal/domain/production"
)

type Manpower struct {
	Manpower     int             `yaml:"manpower"`
	WorkingHours decimal.Decimal `yaml:"workingHours"`
}

// Section is the hand-written form of an hourly section: raw inputs only,
// hours keyed by process name.
type Section struct {
	production.Header `yaml:",inline"`
	SMV               decimal.Decimal  `yaml:"smv"`
	DailyTarget       int              `yaml:"dailyTarget"`
	Manpower          []Manpower       `yaml:"manpower"`
	Hours             map[string][]int `yaml:"hours"`
}

type Fixtures struct {
	Employees  []employees.Employee  `yaml:"employees"`
	Inputs     []inputs.Input        `yaml:"inputs"`
	Breakdowns []breakdown.Breakdown `yaml:"breakdowns"`
	Sections   []Section             `yaml:"sections"`
	OTLists    []overtime.List       `yaml:"otLists"`
}

func Load(r io.Reader) (Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return fx, nil
}

// Build turns a fixture into a fully derived section.
func (f Section) Build() (production.Section, error) {
	s := production.NewSection(f.Header).WithSMV(f.SMV).WithDailyTarget(f.DailyTarget)
	for i, m := range f.Manpower {
		var err error
		if i == 0 {
			s, err = s.UpdateManpower(s.Manpower[0].ID, m.Manpower, m.WorkingHours)
			if err != nil {
				return production.Section{}, err
			}
			continue
		}
		s, _ = s.AddManpower(m.Manpower, m.WorkingHours)
	}
	var obs []production.Observation
	for name, counts := range f.Hours {
		p, err := production.ParseProcess(name)
		if err != nil {
			return production.Section{}, err
		}
		if len(counts) > production.Hours {
			return production.Section{}, fmt.Errorf("%s: %d hours given, at most %d", name, len(counts), production.Hours)
		}
		for h, n := range counts {
			obs = append(obs, production.Observation{Process: p, Hour: h + 1, Count: n})
		}
	}
	return s.WithObservations(obs)
}

type Targets struct {
	Employees  *employees.Repo
	Inputs     *inputs.Repo
	Breakdowns *breakdown.Repo
	Production *production.Service
	Overtime   *overtime.Repo
}

type Counts struct {
	Employees, Inputs, Breakdowns, Sections, OTLists int
}

// Apply stores the fixtures in dependency order: OT lists resolve names
// and processes against employees and breakdowns loaded first.
func Apply(ctx context.Context, t Targets, fx Fixtures) (Counts, error) {
	var c Counts
	for _, e := range fx.Employees {
		if _, err := t.Employees.Create(ctx, e); err != nil {
			return c, fmt.Errorf("employee %s: %w", e.EmployeeID, err)
		}
		c.Employees++
	}
	for i, in := range fx.Inputs {
		if _, err := t.Inputs.Create(ctx, in); err != nil {
			return c, fmt.Errorf("input %d: %w", i+1, err)
		}
		c.Inputs++
	}
	for i, b := range fx.Breakdowns {
		if _, err := t.Breakdowns.Create(ctx, b); err != nil {
			return c, fmt.Errorf("breakdown %d: %w", i+1, err)
		}
		c.Breakdowns++
	}
	if len(fx.Sections) > 0 {
		sections := make([]production.Section, 0, len(fx.Sections))
		for i, f := range fx.Sections {
			s, err := f.Build()
			if err != nil {
				return c, fmt.Errorf("section %d: %w", i+1, err)
			}
			sections = append(sections, s)
		}
		if _, err := t.Production.Create(ctx, sections); err != nil {
			return c, err
		}
		c.Sections = len(sections)
	}
	for i, l := range fx.OTLists {
		if _, err := t.Overtime.Create(ctx, l); err != nil {
			return c, fmt.Errorf("ot list %d: %w", i+1, err)
		}
		c.OTLists++
	}
	return c, nil
}
