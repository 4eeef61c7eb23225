package employees

import (
	"errors"
	"strings"
)

type MaritalStatus string

const (
	Married   MaritalStatus = "Married"
	Unmarried MaritalStatus = "Unmarried"
)

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
	Other  Gender = "Other"
)

var ErrInvalid = errors.New("employee id and name are required")

type Skill struct {
	ID      string `json:"id" yaml:"id"`
	Item    string `json:"item" yaml:"item"`       // garment, e.g. "Polo Shirt"
	Process string `json:"process" yaml:"process"` // operation, e.g. "Button Attach"
}

type Address struct {
	Division   string `json:"division" yaml:"division"`
	District   string `json:"district" yaml:"district"`
	Upazila    string `json:"upazila" yaml:"upazila"`
	Thana      string `json:"thana" yaml:"thana"`
	PostOffice string `json:"postOffice" yaml:"postOffice"`
	Village    string `json:"village" yaml:"village"`
}

type Employee struct {
	EmployeeID       string        `json:"employeeId" yaml:"employeeId"`
	Name             string        `json:"name" yaml:"name"`
	Designation      string        `json:"designation" yaml:"designation"`
	LineNumber       string        `json:"lineNumber" yaml:"lineNumber"`
	JoinDate         string        `json:"joinDate" yaml:"joinDate"`
	Phone            string        `json:"phone" yaml:"phone"`
	Skills           []Skill       `json:"skills" yaml:"skills"`
	FatherName       string        `json:"fatherName" yaml:"fatherName"`
	MotherName       string        `json:"motherName" yaml:"motherName"`
	MaritalStatus    MaritalStatus `json:"maritalStatus" yaml:"maritalStatus"`
	Gender           Gender        `json:"gender" yaml:"gender"`
	BloodGroup       string        `json:"bloodGroup" yaml:"bloodGroup"`
	PermanentAddress Address       `json:"permanentAddress" yaml:"permanentAddress"`
	PresentAddress   Address       `json:"presentAddress" yaml:"presentAddress"`
}

func (e Employee) Validate() error {
	if strings.TrimSpace(e.EmployeeID) == "" || strings.TrimSpace(e.Name) == "" {
		return ErrInvalid
	}
	return nil
}

// Matches reports whether q occurs in the employee's ID or name, ignoring
// case, or equals the line number exactly.
func (e Employee) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.EmployeeID), q) ||
		strings.Contains(strings.ToLower(e.Name), q) ||
		strings.EqualFold(e.LineNumber, q)
}
