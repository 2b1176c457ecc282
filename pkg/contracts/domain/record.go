package domain

import (
	"time"
)

// Record represents a single e-commerce purchase transaction.
// Records are immutable once loaded into the store; the derived band
// columns are assigned exactly once from Age and Amount at load time.
type Record struct {
	CustomerID    string    `json:"customer_id" validate:"required"`
	PurchaseDate  time.Time `json:"purchase_date"`
	Amount        float64   `json:"amount" validate:"min=0"`
	Category      string    `json:"category" validate:"required"`
	Region        string    `json:"region" validate:"required"`
	Gender        string    `json:"gender"`
	Age           int       `json:"age" validate:"min=0"`
	PaymentMethod string    `json:"payment_method"`

	// Derived categorical columns, computed once per store load.
	AgeBand    string `json:"age_band"`
	AmountBand string `json:"amount_band"`
}

// IsValid checks basic record invariants: non-negative amount and age,
// and a usable purchase date.
func (r Record) IsValid() bool {
	return r.Amount >= 0 && r.Age >= 0 && !r.PurchaseDate.IsZero()
}

// Day returns the purchase date truncated to its calendar day.
// Date comparisons throughout the pipeline ignore time-of-day.
func (r Record) Day() time.Time {
	y, m, d := r.PurchaseDate.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Month returns the first day of the record's purchase month.
func (r Record) Month() time.Time {
	y, m, _ := r.PurchaseDate.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
