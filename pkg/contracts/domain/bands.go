package domain

// BandSpec is a declarative bucketing specification: an ordered list of
// upper boundaries plus one label per interval. A value v falls in the
// first interval whose upper bound exceeds it (half-open [low, high)),
// and in the final open-ended band when no bound does. Labels must have
// exactly one more entry than Bounds.
type BandSpec struct {
	Bounds []float64
	Labels []string
}

// Label assigns a value to its band label.
func (s BandSpec) Label(v float64) string {
	for i, bound := range s.Bounds {
		if v < bound {
			return s.Labels[i]
		}
	}
	return s.Labels[len(s.Labels)-1]
}

// Order returns the position of a label within the band's fixed label
// order, or -1 for an unknown label.
func (s BandSpec) Order(label string) int {
	for i, l := range s.Labels {
		if l == label {
			return i
		}
	}
	return -1
}

// AgeBands buckets customer age into the dashboard's age groups.
var AgeBands = BandSpec{
	Bounds: []float64{20, 30, 40, 50, 60, 70},
	Labels: []string{"<20", "20-30", "31-40", "41-50", "51-60", "61-70", "71+"},
}

// AmountBands buckets purchase amount into spend tiers.
var AmountBands = BandSpec{
	Bounds: []float64{5000, 10000, 30000, 50000},
	Labels: []string{"<5000", "5000-10000", "10000-30000", "30000-50000", ">=50000"},
}
