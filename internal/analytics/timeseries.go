package analytics

import (
	"fmt"
	"sort"
	"time"

	"ecpulse/pkg/contracts/domain"
)

// Granularity selects the calendar bucket for time-series queries.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// Valid reports whether the granularity is day or month.
func (g Granularity) Valid() bool {
	return g == GranularityDay || g == GranularityMonth
}

// DefaultWindow returns the smoothing window the dashboard uses for this
// granularity: 7 buckets for daily series, 3 for monthly.
func (g Granularity) DefaultWindow() int {
	if g == GranularityMonth {
		return 3
	}
	return 7
}

// Bucket truncates a record's purchase time to its calendar bucket.
func (g Granularity) Bucket(r domain.Record) time.Time {
	if g == GranularityMonth {
		return r.Month()
	}
	return r.Day()
}

// Format renders a bucket start as its canonical label.
func (g Granularity) Format(t time.Time) string {
	if g == GranularityMonth {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// SeriesPoint is one bucket of a time series. Smoothed is nil for buckets
// before the moving-average window has filled; the nil marker signals
// "insufficient history" to the renderer and is never zero.
type SeriesPoint struct {
	Bucket   time.Time `json:"bucket"`
	Value    float64   `json:"value"`
	Smoothed *float64  `json:"smoothed"`
}

// BucketSeries sums amount per calendar bucket over the view. Output is
// strictly ordered by bucket start ascending, including across year
// boundaries; buckets with no records are simply absent. An empty view
// yields an empty series.
func BucketSeries(view []domain.Record, g Granularity) ([]SeriesPoint, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGranularity, string(g))
	}
	sums := make(map[time.Time]float64)
	for _, r := range view {
		sums[g.Bucket(r)] += r.Amount
	}
	points := make([]SeriesPoint, 0, len(sums))
	for bucket, sum := range sums {
		points = append(points, SeriesPoint{Bucket: bucket, Value: sum})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Bucket.Before(points[j].Bucket)
	})
	return points, nil
}

// MovingAverage returns a copy of the series with the trailing
// moving-average of the raw values filled in. The smoothed value at index
// i is the arithmetic mean of values [i-window+1 .. i]; indices below
// window-1 keep a nil smoothed value.
func MovingAverage(points []SeriesPoint, window int) ([]SeriesPoint, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}
	out := make([]SeriesPoint, len(points))
	copy(out, points)
	var running float64
	for i := range out {
		running += out[i].Value
		if i >= window {
			running -= out[i-window].Value
		}
		if i >= window-1 {
			mean := running / float64(window)
			out[i].Smoothed = &mean
		} else {
			out[i].Smoothed = nil
		}
	}
	return out, nil
}

// SeriesTable renders a time series as a derived table with columns
// bucket, raw_value, smoothed_value. An unfilled smoothing window renders
// as a nil cell.
func SeriesTable(g Granularity, points []SeriesPoint) *domain.Table {
	t := domain.NewTable("bucket", "raw_value", "smoothed_value")
	for _, p := range points {
		var smoothed interface{}
		if p.Smoothed != nil {
			smoothed = *p.Smoothed
		}
		t.Append(g.Format(p.Bucket), p.Value, smoothed)
	}
	return t
}

// SegmentedSeries is a monthly record-count series split by one
// categorical field. Every month that has activity in any segment carries
// a count for every segment, zero-filled where a segment had no records;
// months with no activity at all are absent.
type SegmentedSeries struct {
	Field   Field       `json:"field"`
	Buckets []time.Time `json:"buckets"`
	Keys    []string    `json:"keys"`
	Counts  [][]float64 `json:"counts"` // Counts[i][j] = month i, segment j
}

// SegmentedMonthlySeries counts records per (month, segment) pair.
// Buckets are strictly ascending; segment order follows the field's axis
// ordering rule.
func SegmentedMonthlySeries(view []domain.Record, field Field) (*SegmentedSeries, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("%w: segment key %q", ErrUnknownField, string(field))
	}
	counts := make(map[time.Time]map[string]float64)
	keySeen := make(map[string]int)
	keys := make([]string, 0)

	for i, r := range view {
		k, err := field.Value(r)
		if err != nil {
			return nil, err
		}
		bucket := r.Month()
		if counts[bucket] == nil {
			counts[bucket] = make(map[string]float64)
		}
		if _, seen := keySeen[k]; !seen {
			keySeen[k] = i
			keys = append(keys, k)
		}
		counts[bucket][k]++
	}
	sortAxis(keys, field, keySeen)

	buckets := make([]time.Time, 0, len(counts))
	for bucket := range counts {
		buckets = append(buckets, bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Before(buckets[j]) })

	s := &SegmentedSeries{
		Field:   field,
		Buckets: buckets,
		Keys:    keys,
		Counts:  make([][]float64, len(buckets)),
	}
	for i, bucket := range buckets {
		s.Counts[i] = make([]float64, len(keys))
		for j, k := range keys {
			s.Counts[i][j] = counts[bucket][k] // zero when absent
		}
	}
	return s, nil
}

// Table renders the segmented series with a bucket column followed by one
// column per segment.
func (s *SegmentedSeries) Table() *domain.Table {
	columns := make([]string, 0, len(s.Keys)+1)
	columns = append(columns, "bucket")
	columns = append(columns, s.Keys...)
	t := domain.NewTable(columns...)
	for i, bucket := range s.Buckets {
		values := make([]interface{}, 0, len(s.Keys)+1)
		values = append(values, GranularityMonth.Format(bucket))
		for j := range s.Keys {
			values = append(values, s.Counts[i][j])
		}
		t.Append(values...)
	}
	return t
}
