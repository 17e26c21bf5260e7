package student

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "gradebook/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Candidate is an unvalidated entry as submitted by a caller. Marks is a
// float so that fractional input reaches the validator instead of being
// silently truncated.
type Candidate struct {
	Name       string  `json:"name" validate:"required"`
	RollNumber string  `json:"roll_number" validate:"required"`
	Class      string  `json:"class" validate:"oneof=5th 6th 7th 8th 9th 10th"`
	Marks      float64 `json:"marks" validate:"gte=0,lte=100,integral"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("integral", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f)
	}); err != nil {
		panic(fmt.Sprintf("register integral rule: %v", err))
	}
	return v
}

// Validate checks every field of c and returns the normalised record.
// Text fields are trimmed of surrounding whitespace before checking. The
// first failing field, in declaration order, decides the error code:
// MISSING_FIELD, INVALID_CLASS or INVALID_MARKS.
func Validate(c Candidate) (Record, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.RollNumber = strings.TrimSpace(c.RollNumber)
	c.Class = strings.TrimSpace(c.Class)

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return Record{}, apperrors.Wrap(err, "validate candidate")
		}
		return Record{}, fieldError(fieldErrs[0], c)
	}

	return Record{
		Name:       c.Name,
		RollNumber: c.RollNumber,
		Class:      c.Class,
		Marks:      int(c.Marks),
	}, nil
}

func fieldError(fe validator.FieldError, c Candidate) error {
	switch fe.StructField() {
	case "Name":
		return apperrors.MissingField(ColumnName)
	case "RollNumber":
		return apperrors.MissingField(ColumnRollNumber)
	case "Class":
		return apperrors.InvalidClass(c.Class)
	case "Marks":
		return apperrors.InvalidMarks(fmt.Sprintf("marks must be a whole number from %d to %d, got %v", MinMarks, MaxMarks, c.Marks))
	}
	return apperrors.InvalidInput(fe.Error())
}

// RawCandidate is string input as it arrives from a form or command line.
type RawCandidate struct {
	Name       string
	RollNumber string
	Class      string
	Marks      string
}

// Candidate parses the marks field. When marks cannot be parsed, the other
// fields are still checked first so errors keep field order.
func (r RawCandidate) Candidate() (Candidate, error) {
	c := Candidate{Name: r.Name, RollNumber: r.RollNumber, Class: r.Class}
	marks, err := ParseMarks(r.Marks)
	if err != nil {
		return c, marksError(c, err)
	}
	c.Marks = marks
	return c, nil
}

// Submission is a JSON-decoded entry. Marks is a pointer so an absent or
// null value is told apart from 0.
type Submission struct {
	Name       string   `json:"name"`
	RollNumber string   `json:"roll_number"`
	Class      string   `json:"class"`
	Marks      *float64 `json:"marks"`
}

// Candidate requires marks to be present; missing marks are INVALID_MARKS
// once the earlier fields have passed.
func (s Submission) Candidate() (Candidate, error) {
	c := Candidate{Name: s.Name, RollNumber: s.RollNumber, Class: s.Class}
	if s.Marks == nil {
		return c, marksError(c, apperrors.InvalidMarks("marks are required"))
	}
	c.Marks = *s.Marks
	return c, nil
}

// marksError reports the first failing field before marks, if any, and
// err otherwise.
func marksError(c Candidate, err error) error {
	if _, verr := Validate(c); verr != nil {
		return verr
	}
	return err
}

// ParseMarks converts raw marks input (a form field or CLI argument) to a
// number. Blank or non-numeric input is INVALID_MARKS; range and
// integrality are left to Validate.
func ParseMarks(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperrors.InvalidMarks("marks are required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.InvalidMarks(fmt.Sprintf("marks %q is not a number", raw))
	}
	return v, nil
}
