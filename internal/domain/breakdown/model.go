// Package breakdown records which operator runs which operation, and on
// how many machines, for one production file on one line.
package breakdown

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Spok95/linetrack/internal/domain/order"
)

type Part string

const (
	PartFront    Part = "front part"
	PartBack     Part = "back part"
	PartAssembly Part = "assembly"
	PartNone     Part = ""
)

// Parts lists the garment parts in report order.
var Parts = []Part{PartFront, PartBack, PartAssembly}

var ErrUnknownPart = errors.New("part must be front part, back part, assembly or empty")

func ParsePart(s string) (Part, error) {
	p := Part(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PartFront, PartBack, PartAssembly, PartNone:
		return p, nil
	}
	return "", ErrUnknownPart
}

type Person struct {
	ID         string `json:"id" yaml:"id"`
	Process    string `json:"process" yaml:"process"`
	Part       Part   `json:"part" yaml:"part"`
	EmployeeID string `json:"employeeId" yaml:"employeeId"`
	Name       string `json:"name" yaml:"name"`
	ManType    string `json:"manType" yaml:"manType"`
	McType     string `json:"mcType" yaml:"mcType"`
	NoOfMc     int    `json:"noOfMc" yaml:"noOfMc"`
}

type Breakdown struct {
	OutputDate string `json:"outputDate" yaml:"outputDate"`
	order.Key  `yaml:",inline"`
	SMV        decimal.Decimal `json:"smv" yaml:"smv"`
	Manpower   int             `json:"manpower" yaml:"-"`
	Persons    []Person        `json:"persons" yaml:"persons"`
}

// Normalize validates parts, fills row IDs and derives the manpower
// figure as the machine count across all persons.
func (b Breakdown) Normalize() (Breakdown, error) {
	b.Key = b.Key.Normalize()
	persons := make([]Person, len(b.Persons))
	copy(persons, b.Persons)
	b.Manpower = 0
	for i := range persons {
		part, err := ParsePart(string(persons[i].Part))
		if err != nil {
			return Breakdown{}, err
		}
		persons[i].Part = part
		if persons[i].ID == "" {
			persons[i].ID = uuid.NewString()
		}
		persons[i].NoOfMc = max(persons[i].NoOfMc, 0)
		b.Manpower += persons[i].NoOfMc
	}
	b.Persons = persons
	if b.SMV.IsNegative() {
		b.SMV = decimal.Zero
	}
	return b, nil
}

// PersonsByPart groups persons for the part-by-part report.
func (b Breakdown) PersonsByPart() map[Part][]Person {
	out := map[Part][]Person{}
	for _, p := range b.Persons {
		out[p.Part] = append(out[p.Part], p)
	}
	return out
}

// ProcessOf returns the operation assigned to an employee.
func (b Breakdown) ProcessOf(employeeID string) (string, bool) {
	for _, p := range b.Persons {
		if p.EmployeeID == employeeID {
			return p.Process, true
		}
	}
	return "", false
}
