package analytics

import (
	"fmt"
	"time"

	"ecpulse/pkg/contracts/domain"
)

// All is the sentinel facet value meaning "no constraint". An empty
// string is treated the same way so callers can leave slots unset.
const All = "ALL"

// FilterSet is a conjunctive predicate set over the record schema. Each
// slot is independent; a record passes only when it satisfies every active
// predicate. Range bounds are inclusive on both ends, and the date range
// compares on the calendar date only, ignoring time-of-day.
type FilterSet struct {
	// DateFrom/DateTo bound the purchase date. The filter is only active
	// when BOTH bounds are set: a single bound disables the date filter
	// entirely, matching how the dashboard treats a half-picked range.
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	Category      string `json:"category,omitempty"`
	Region        string `json:"region,omitempty"`
	Gender        string `json:"gender,omitempty"`
	AgeBand       string `json:"age_band,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`

	AmountMin *float64 `json:"amount_min,omitempty"`
	AmountMax *float64 `json:"amount_max,omitempty"`
}

// Validate rejects malformed ranges before any computation runs.
func (f FilterSet) Validate() error {
	if f.DateFrom != nil && f.DateTo != nil {
		if day(*f.DateFrom).After(day(*f.DateTo)) {
			return fmt.Errorf("%w: date_from %s after date_to %s",
				ErrInvalidRange,
				f.DateFrom.Format("2006-01-02"),
				f.DateTo.Format("2006-01-02"))
		}
	}
	if f.AmountMin != nil && f.AmountMax != nil && *f.AmountMin > *f.AmountMax {
		return fmt.Errorf("%w: amount_min %.2f above amount_max %.2f",
			ErrInvalidRange, *f.AmountMin, *f.AmountMax)
	}
	if err := validFacet("age_band", f.AgeBand, domain.AgeBands.Labels); err != nil {
		return err
	}
	return nil
}

// Matches reports whether a single record passes every active predicate.
func (f FilterSet) Matches(r domain.Record) bool {
	if f.DateFrom != nil && f.DateTo != nil {
		d := r.Day()
		if d.Before(day(*f.DateFrom)) || d.After(day(*f.DateTo)) {
			return false
		}
	}
	if !facetMatches(f.Category, r.Category) {
		return false
	}
	if !facetMatches(f.Region, r.Region) {
		return false
	}
	if !facetMatches(f.Gender, r.Gender) {
		return false
	}
	if !facetMatches(f.AgeBand, r.AgeBand) {
		return false
	}
	if !facetMatches(f.PaymentMethod, r.PaymentMethod) {
		return false
	}
	if f.AmountMin != nil && r.Amount < *f.AmountMin {
		return false
	}
	if f.AmountMax != nil && r.Amount > *f.AmountMax {
		return false
	}
	return true
}

// Apply filters the record collection down to the rows matching every
// active predicate. The result preserves the input's original order, is a
// true subset (records are shared with the input, never copied or
// synthesized), and is idempotent for a fixed predicate set.
func Apply(records []domain.Record, f FilterSet) ([]domain.Record, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	view := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			view = append(view, r)
		}
	}
	return view, nil
}

func facetMatches(want, got string) bool {
	return want == "" || want == All || want == got
}

func validFacet(name, value string, allowed []string) error {
	if value == "" || value == All {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s value %q", ErrUnknownField, name, value)
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
