package analysis

import (
	"testing"

	"gradebook/domain/student"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marksTable(marks ...int) student.Table {
	table := make(student.Table, len(marks))
	for i, m := range marks {
		table[i] = student.Record{Name: "s", RollNumber: "r", Class: "7th", Marks: m}
	}
	return table
}

func counts(buckets []Bucket) []int {
	out := make([]int, len(buckets))
	for i, b := range buckets {
		out[i] = b.Count
	}
	return out
}

func TestMarksHistogramEmptyView(t *testing.T) {
	buckets := MarksHistogram(nil, 10)
	assert.NotNil(t, buckets)
	assert.Empty(t, buckets)
}

func TestMarksHistogramSpansObservedRange(t *testing.T) {
	buckets := MarksHistogram(marksTable(0, 10, 19, 20, 55, 100), 10)

	require.Len(t, buckets, 10)
	assert.Equal(t, 0.0, buckets[0].Lower)
	assert.Equal(t, 100.0, buckets[9].Upper)
	assert.Equal(t, []int{1, 2, 1, 0, 0, 1, 0, 0, 0, 1}, counts(buckets))
}

func TestMarksHistogramMaxLandsInLastBucket(t *testing.T) {
	buckets := MarksHistogram(marksTable(40, 50, 60), 2)

	require.Len(t, buckets, 2)
	assert.Equal(t, []int{1, 2}, counts(buckets))
	assert.Equal(t, 50.0, buckets[1].Lower)
	assert.Equal(t, 60.0, buckets[1].Upper)
}

func TestMarksHistogramSingleValue(t *testing.T) {
	buckets := MarksHistogram(marksTable(70, 70, 70), 10)

	require.Len(t, buckets, 10)
	assert.InDelta(t, 69.5, buckets[0].Lower, 1e-9)
	assert.InDelta(t, 70.5, buckets[9].Upper, 1e-9)

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, buckets[5].Count)
}

func TestMarksHistogramDefaultBucketCount(t *testing.T) {
	buckets := MarksHistogram(marksTable(1, 2, 3), 0)
	assert.Len(t, buckets, DefaultBuckets)
}

func TestMarksHistogramUnsortedInput(t *testing.T) {
	buckets := MarksHistogram(marksTable(90, 10, 50), 4)
	assert.Equal(t, []int{1, 0, 1, 1}, counts(buckets))
}

func TestBucketLabel(t *testing.T) {
	assert.Equal(t, "40-46", Bucket{Lower: 40, Upper: 46}.Label())
	assert.Equal(t, "69.5-69.6", Bucket{Lower: 69.5, Upper: 69.6}.Label())
}
