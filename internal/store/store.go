// Package store owns the immutable loaded dataset. Records are loaded
// once at process start; the derived band columns and the observed
// date/amount bounds are computed at load time and never change. Query
// functions receive the records by reference and must not mutate them.
package store

import (
	"fmt"
	"log/slog"
	"time"

	"ecpulse/pkg/contracts/domain"
)

// Store holds the loaded transaction dataset plus facet metadata derived
// from it. It is read-only after New returns, so concurrent queries need
// no locking.
type Store struct {
	records []domain.Record

	minDate   time.Time
	maxDate   time.Time
	minAmount float64
	maxAmount float64

	categories     []string
	regions        []string
	genders        []string
	paymentMethods []string
}

// Facets describes the filterable value domains of the dataset, consumed
// by filter controls and the facets endpoint.
type Facets struct {
	DateMin        time.Time `json:"date_min"`
	DateMax        time.Time `json:"date_max"`
	AmountMin      float64   `json:"amount_min"`
	AmountMax      float64   `json:"amount_max"`
	Categories     []string  `json:"categories"`
	Regions        []string  `json:"regions"`
	Genders        []string  `json:"genders"`
	PaymentMethods []string  `json:"payment_methods"`
	AgeBands       []string  `json:"age_bands"`
	AmountBands    []string  `json:"amount_bands"`
}

// New validates the parsed records, derives the band columns once, and
// computes the observed bounds and facet value lists.
func New(records []domain.Record) (*Store, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("store: no records to load")
	}

	s := &Store{records: make([]domain.Record, len(records))}
	copy(s.records, records)

	seen := map[string]map[string]bool{
		"category": {}, "region": {}, "gender": {}, "payment": {},
	}
	for i := range s.records {
		r := &s.records[i]
		if !r.IsValid() {
			return nil, fmt.Errorf("store: invalid record %d (customer %s): negative amount/age or zero date",
				i, r.CustomerID)
		}
		r.AgeBand = domain.AgeBands.Label(float64(r.Age))
		r.AmountBand = domain.AmountBands.Label(r.Amount)

		d := r.Day()
		if i == 0 || d.Before(s.minDate) {
			s.minDate = d
		}
		if i == 0 || d.After(s.maxDate) {
			s.maxDate = d
		}
		if i == 0 || r.Amount < s.minAmount {
			s.minAmount = r.Amount
		}
		if i == 0 || r.Amount > s.maxAmount {
			s.maxAmount = r.Amount
		}

		s.categories = appendDistinct(s.categories, seen["category"], r.Category)
		s.regions = appendDistinct(s.regions, seen["region"], r.Region)
		s.genders = appendDistinct(s.genders, seen["gender"], r.Gender)
		s.paymentMethods = appendDistinct(s.paymentMethods, seen["payment"], r.PaymentMethod)
	}

	slog.Info("dataset loaded",
		slog.Int("records", len(s.records)),
		slog.String("date_min", s.minDate.Format("2006-01-02")),
		slog.String("date_max", s.maxDate.Format("2006-01-02")),
		slog.Int("categories", len(s.categories)),
		slog.Int("regions", len(s.regions)))

	return s, nil
}

// Records returns the loaded dataset. Callers share the underlying
// storage and must treat it as read-only.
func (s *Store) Records() []domain.Record {
	return s.records
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	return len(s.records)
}

// Facets returns the dataset's filterable value domains and observed
// bounds.
func (s *Store) Facets() Facets {
	return Facets{
		DateMin:        s.minDate,
		DateMax:        s.maxDate,
		AmountMin:      s.minAmount,
		AmountMax:      s.maxAmount,
		Categories:     s.categories,
		Regions:        s.regions,
		Genders:        s.genders,
		PaymentMethods: s.paymentMethods,
		AgeBands:       domain.AgeBands.Labels,
		AmountBands:    domain.AmountBands.Labels,
	}
}

func appendDistinct(values []string, seen map[string]bool, v string) []string {
	if v == "" || seen[v] {
		return values
	}
	seen[v] = true
	return append(values, v)
}
