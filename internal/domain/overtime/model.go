// Package overtime keeps the daily lists of operators staying past the
// regular shift.
package overtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Spok95/linetrack/internal/domain/breakdown"
	"github.com/Spok95/linetrack/internal/domain/employees"
	"github.com/Spok95/linetrack/internal/domain/order"
)

type Time string

const (
	Until800 Time = "8:00"
	Until930 Time = "9:30"
)

const (
	nameNotFound   = "Not Found"
	processUnknown = "N/A"
)

var (
	ErrInvalidDate = errors.New("ot date must be YYYY-MM-DD")
	ErrInvalidTime = errors.New("ot time must be 8:00 or 9:30")
)

type Employee struct {
	ID         string `json:"id" yaml:"id"`
	EmployeeID string `json:"employeeId" yaml:"employeeId"`
	Name       string `json:"name" yaml:"name"`
	Process    string `json:"process" yaml:"process"`
	OTTime     Time   `json:"otTime" yaml:"otTime"`
}

type List struct {
	Date      string `json:"date" yaml:"date"`
	order.Key `yaml:",inline"`
	Employees []Employee `json:"employees" yaml:"employees"`
}

func (l List) Validate() error {
	if !order.ValidDate(l.Date) {
		return ErrInvalidDate
	}
	for _, e := range l.Employees {
		if e.OTTime != Until800 && e.OTTime != Until930 {
			return fmt.Errorf("employee %q: %w", e.EmployeeID, ErrInvalidTime)
		}
	}
	return nil
}

// Summary counts heads per overtime slot. Everyone staying until 9:30 is
// also present at 8:00.
type Summary struct {
	Upto800 int `json:"upto800"`
	Upto930 int `json:"upto930"`
}

func (l List) Summary() Summary {
	var s Summary
	for _, e := range l.Employees {
		switch e.OTTime {
		case Until800:
			s.Upto800++
		case Until930:
			s.Upto800++
			s.Upto930++
		}
	}
	return s
}

func (s Summary) String() string {
	var parts []string
	if s.Upto800 > 0 {
		parts = append(parts, fmt.Sprintf("8:00: %d", s.Upto800))
	}
	if s.Upto930 > 0 {
		parts = append(parts, fmt.Sprintf("9:30: %d", s.Upto930))
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, ", ")
}

// Resolve fills names from the employee register and operations from the
// breakdown of the same order and line.
func Resolve(l List, emps []employees.Employee, bds []breakdown.Breakdown) List {
	byID := make(map[string]string, len(emps))
	for _, e := range emps {
		byID[e.EmployeeID] = e.Name
	}
	var bd *breakdown.Breakdown
	for i := range bds {
		if bds[i].Key == l.Key {
			bd = &bds[i]
			break
		}
	}

	out := make([]Employee, len(l.Employees))
	for i, e := range l.Employees {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if name, ok := byID[e.EmployeeID]; ok {
			e.Name = name
		} else {
			e.Name = nameNotFound
		}
		e.Process = processUnknown
		if bd != nil {
			if p, ok := bd.ProcessOf(e.EmployeeID); ok && p != "" {
				e.Process = p
			}
		}
		out[i] = e
	}
	l.Employees = out
	return l
}
