// Package analysis derives filtered views and summary statistics from a
// student table. Every function is pure: no I/O and no retained state.
package analysis

import (
	"sort"
	"strings"

	"gradebook/domain/student"
	"gradebook/internal/errors"

	"github.com/montanaflynn/stats"
)

// FilterByClasses returns the records whose class is in classes, in table
// order. An empty selection (blank entries are ignored) returns table
// itself.
func FilterByClasses(table student.Table, classes []string) student.Table {
	selected := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			selected[c] = struct{}{}
		}
	}
	if len(selected) == 0 {
		return table
	}

	view := make(student.Table, 0, len(table))
	for _, rec := range table {
		if _, ok := selected[rec.Class]; ok {
			view = append(view, rec)
		}
	}
	return view
}

// ClassesPresent lists the distinct classes of table in first-seen order.
func ClassesPresent(table student.Table) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range table {
		if _, ok := seen[rec.Class]; ok {
			continue
		}
		seen[rec.Class] = struct{}{}
		out = append(out, rec.Class)
	}
	return out
}

// PassFail counts records on each side of student.PassMark.
type PassFail struct {
	Pass int `json:"pass"`
	Fail int `json:"fail"`
}

// Total returns Pass + Fail.
func (p PassFail) Total() int { return p.Pass + p.Fail }

// PassPercent returns the pass share in percent, 0 for an empty view.
func (p PassFail) PassPercent() float64 {
	if p.Total() == 0 {
		return 0
	}
	return 100 * float64(p.Pass) / float64(p.Total())
}

// FailPercent returns the fail share in percent, 0 for an empty view.
func (p PassFail) FailPercent() float64 {
	if p.Total() == 0 {
		return 0
	}
	return 100 * float64(p.Fail) / float64(p.Total())
}

// PassFailCounts labels each record and counts the labels.
func PassFailCounts(view student.Table) PassFail {
	var pf PassFail
	for _, rec := range view {
		if rec.Result() == student.Pass {
			pf.Pass++
		} else {
			pf.Fail++
		}
	}
	return pf
}

// ResultRow is a record with its derived label.
type ResultRow struct {
	student.Record
	Result student.Result `json:"result"`
}

// WithResults labels every record of view.
func WithResults(view student.Table) []ResultRow {
	rows := make([]ResultRow, len(view))
	for i, rec := range view {
		rows[i] = ResultRow{Record: rec, Result: rec.Result()}
	}
	return rows
}

// ClassAverage is the mean mark of one class.
type ClassAverage struct {
	Class string  `json:"class"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// ClassAverages is ordered by grade: 5th through 10th, then any other
// class name in lexical order.
type ClassAverages []ClassAverage

// Map returns class -> mean.
func (a ClassAverages) Map() map[string]float64 {
	m := make(map[string]float64, len(a))
	for _, ca := range a {
		m[ca.Class] = ca.Mean
	}
	return m
}

// AverageMarksByClass returns one entry per class present in view.
func AverageMarksByClass(view student.Table) ClassAverages {
	groups := make(map[string]stats.Float64Data)
	for _, rec := range view {
		groups[rec.Class] = append(groups[rec.Class], float64(rec.Marks))
	}

	classes := make([]string, 0, len(groups))
	for c := range groups {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classLess(classes[i], classes[j]) })

	out := make(ClassAverages, 0, len(classes))
	for _, c := range classes {
		// groups are never empty, so Mean cannot fail
		mean, _ := stats.Mean(groups[c])
		out = append(out, ClassAverage{Class: c, Mean: mean, Count: len(groups[c])})
	}
	return out
}

func classLess(a, b string) bool {
	ra, rb := student.ClassRank(a), student.ClassRank(b)
	switch {
	case ra >= 0 && rb >= 0:
		return ra < rb
	case ra >= 0:
		return true
	case rb >= 0:
		return false
	default:
		return a < b
	}
}

// Summary holds the general statistics of a view. The zero Summary
// (Count == 0) stands for "no data".
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Empty reports whether s is the no-data sentinel.
func (s Summary) Empty() bool { return s.Count == 0 }

// RoundedMean returns Mean to two decimal places.
func (s Summary) RoundedMean() float64 {
	r, err := stats.Round(s.Mean, 2)
	if err != nil {
		return s.Mean
	}
	return r
}

// SummaryStats computes count, mean, max, min, median and population
// standard deviation of the marks in view. An empty view returns the zero
// Summary and errors.ErrEmptyView.
func SummaryStats(view student.Table) (Summary, error) {
	if len(view) == 0 {
		return Summary{}, errors.ErrEmptyView
	}
	data := stats.Float64Data(view.Marks())

	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "mean")
	}
	max, err := stats.Max(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "max")
	}
	min, err := stats.Min(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "min")
	}
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "median")
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "standard deviation")
	}

	return Summary{
		Count:  len(view),
		Mean:   mean,
		Max:    max,
		Min:    min,
		Median: median,
		StdDev: stdDev,
	}, nil
}
