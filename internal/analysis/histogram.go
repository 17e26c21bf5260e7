package analysis

import (
	"math"
	"sort"
	"strconv"

	"gradebook/domain/student"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBuckets is the bucket count used when a caller passes zero.
const DefaultBuckets = 10

// Bucket is one histogram bin. Bins are half-open [Lower, Upper) except
// the last, which also holds Upper.
type Bucket struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Label renders the bin range, e.g. "40-46".
func (b Bucket) Label() string {
	return formatEdge(b.Lower) + "-" + formatEdge(b.Upper)
}

func formatEdge(v float64) string {
	r := math.Round(v*10) / 10
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// MarksHistogram splits the observed marks range of view into bucketCount
// equal-width buckets. The span runs from the lowest to the highest mark;
// when all marks are equal it is widened to mark±0.5. An empty view yields
// no buckets.
func MarksHistogram(view student.Table, bucketCount int) []Bucket {
	if len(view) == 0 {
		return []Bucket{}
	}
	if bucketCount <= 0 {
		bucketCount = DefaultBuckets
	}

	x := view.Marks()
	sort.Float64s(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := floats.Span(make([]float64, bucketCount+1), lo, hi)
	edges[len(edges)-1] = hi

	// stat.Histogram bins are half-open; nudging the top divider past hi
	// closes the last bin on the maximum mark.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[len(dividers)-1] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, x, nil)

	buckets := make([]Bucket, bucketCount)
	for i := range buckets {
		buckets[i] = Bucket{Lower: edges[i], Upper: edges[i+1], Count: int(counts[i])}
	}
	return buckets
}
