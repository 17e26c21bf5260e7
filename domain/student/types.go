// Package student holds the record model shared by the store, the
// aggregates and the presentation layers.
package student

import "strings"

// Column names of the backing file, in file order.
const (
	ColumnName       = "Name"
	ColumnRollNumber = "Roll Number"
	ColumnClass      = "Class"
	ColumnMarks      = "Marks"
)

// Header is the exact first row of every backing file.
var Header = []string{ColumnName, ColumnRollNumber, ColumnClass, ColumnMarks}

// Classes are the classes a record may belong to, in grade order.
var Classes = []string{"5th", "6th", "7th", "8th", "9th", "10th"}

// PassMark is the lowest mark labelled Pass.
const PassMark = 40

// Mark bounds.
const (
	MinMarks = 0
	MaxMarks = 100
)

// Result is the derived Pass/Fail label of a record.
type Result string

const (
	Pass Result = "Pass"
	Fail Result = "Fail"
)

// Record is one student row.
type Record struct {
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
	Class      string `json:"class"`
	Marks      int    `json:"marks"`
}

// Result labels the record against PassMark.
func (r Record) Result() Result {
	if r.Marks >= PassMark {
		return Pass
	}
	return Fail
}

// Table is the full ordered set of records, in file row order.
type Table []Record

// Len returns the number of records.
func (t Table) Len() int { return len(t) }

// Clone returns a copy that shares no backing array with t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Marks returns the marks column as float64, in table order.
func (t Table) Marks() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = float64(r.Marks)
	}
	return out
}

// ClassRank returns the grade position of class in Classes, or -1.
func ClassRank(class string) int {
	for i, c := range Classes {
		if c == class {
			return i
		}
	}
	return -1
}

// HeaderMatches reports whether row is exactly Header, ignoring
// surrounding whitespace in each cell.
func HeaderMatches(row []string) bool {
	if len(row) != len(Header) {
		return false
	}
	for i, h := range Header {
		if strings.TrimSpace(row[i]) != h {
			return false
		}
	}
	return true
}
