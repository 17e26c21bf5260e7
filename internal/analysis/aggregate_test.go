package analysis

import (
	"testing"

	"gradebook/domain/student"
	"gradebook/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() student.Table {
	return student.Table{
		{Name: "Ali", RollNumber: "101", Class: "6th", Marks: 55},
		{Name: "Sara", RollNumber: "7", Class: "10th", Marks: 39},
		{Name: "Omar", RollNumber: "12", Class: "5th", Marks: 90},
		{Name: "Hina", RollNumber: "3", Class: "6th", Marks: 40},
		{Name: "Bilal", RollNumber: "101", Class: "10th", Marks: 0},
	}
}

func TestFilterByClassesEmptyIsIdentity(t *testing.T) {
	table := sampleTable()

	assert.Equal(t, table, FilterByClasses(table, nil))
	assert.Equal(t, table, FilterByClasses(table, []string{}))
	assert.Equal(t, table, FilterByClasses(table, []string{"", "  "}))
}

func TestFilterByClassesKeepsOrder(t *testing.T) {
	view := FilterByClasses(sampleTable(), []string{"6th", "10th"})

	require.Len(t, view, 4)
	assert.Equal(t, []string{"Ali", "Sara", "Hina", "Bilal"}, names(view))
}

func TestFilterByClassesIsIdempotent(t *testing.T) {
	classes := []string{"10th", "5th"}
	once := FilterByClasses(sampleTable(), classes)
	twice := FilterByClasses(once, classes)

	assert.Equal(t, once, twice)
}

func TestFilterByClassesUnknownClass(t *testing.T) {
	view := FilterByClasses(sampleTable(), []string{"9th"})
	assert.NotNil(t, view)
	assert.Empty(t, view)
}

func TestClassesPresentFirstSeenOrder(t *testing.T) {
	assert.Equal(t, []string{"6th", "10th", "5th"}, ClassesPresent(sampleTable()))
	assert.Empty(t, ClassesPresent(nil))
}

func TestPassFailCounts(t *testing.T) {
	view := student.Table{{Marks: 39}, {Marks: 40}, {Marks: 100}, {Marks: 0}}

	pf := PassFailCounts(view)
	assert.Equal(t, PassFail{Pass: 2, Fail: 2}, pf)
	assert.Equal(t, 4, pf.Total())
	assert.InDelta(t, 50.0, pf.PassPercent(), 1e-9)
	assert.InDelta(t, 50.0, pf.FailPercent(), 1e-9)

	empty := PassFailCounts(nil)
	assert.Equal(t, PassFail{}, empty)
	assert.Zero(t, empty.PassPercent())
}

func TestWithResults(t *testing.T) {
	rows := WithResults(sampleTable())

	require.Len(t, rows, 5)
	assert.Equal(t, student.Pass, rows[0].Result)
	assert.Equal(t, student.Fail, rows[1].Result)
	assert.Equal(t, "Omar", rows[2].Name)
}

func TestAverageMarksByClass(t *testing.T) {
	view := student.Table{
		{Class: "5th", Marks: 50},
		{Class: "5th", Marks: 70},
		{Class: "6th", Marks: 90},
	}

	avgs := AverageMarksByClass(view)
	assert.Equal(t, map[string]float64{"5th": 60.0, "6th": 90.0}, avgs.Map())
	require.Len(t, avgs, 2)
	assert.Equal(t, ClassAverage{Class: "5th", Mean: 60, Count: 2}, avgs[0])
}

func TestAverageMarksByClassGradeOrder(t *testing.T) {
	view := student.Table{
		{Class: "10th", Marks: 10},
		{Class: "Prep", Marks: 20},
		{Class: "5th", Marks: 30},
		{Class: "A-level", Marks: 40},
		{Class: "9th", Marks: 50},
	}

	var order []string
	for _, ca := range AverageMarksByClass(view) {
		order = append(order, ca.Class)
	}
	assert.Equal(t, []string{"5th", "9th", "10th", "A-level", "Prep"}, order)
	assert.Empty(t, AverageMarksByClass(nil))
}

func TestSummaryStats(t *testing.T) {
	summary, err := SummaryStats(sampleTable())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Count)
	assert.InDelta(t, 44.8, summary.Mean, 1e-9)
	assert.Equal(t, 90.0, summary.Max)
	assert.Equal(t, 0.0, summary.Min)
	assert.Equal(t, 40.0, summary.Median)
	assert.Greater(t, summary.StdDev, 0.0)
	assert.False(t, summary.Empty())
}

func TestSummaryStatsRoundedMean(t *testing.T) {
	summary, err := SummaryStats(student.Table{{Marks: 10}, {Marks: 20}, {Marks: 21}})
	require.NoError(t, err)
	assert.Equal(t, 17.0, summary.RoundedMean())

	summary, err = SummaryStats(student.Table{{Marks: 1}, {Marks: 2}, {Marks: 2}})
	require.NoError(t, err)
	assert.Equal(t, 1.67, summary.RoundedMean())
}

func TestSummaryStatsEmptyView(t *testing.T) {
	summary, err := SummaryStats(student.Table{})

	assert.Equal(t, Summary{}, summary)
	assert.True(t, summary.Empty())
	assert.True(t, errors.HasCode(err, errors.CodeEmptyView))
}

func names(view student.Table) []string {
	out := make([]string, len(view))
	for i, rec := range view {
		out[i] = rec.Name
	}
	return out
}
