package analytics

import (
	"fmt"
	"sort"
	"time"

	"ecpulse/pkg/contracts/domain"
)

// Field identifies a categorical column a query can group or filter by.
// The calendar-derived fields (weekday, month, hour) are computed from the
// purchase timestamp on demand; the band fields are derived once at store
// load and read like any other column.
type Field string

const (
	FieldCategory      Field = "category"
	FieldRegion        Field = "region"
	FieldGender        Field = "gender"
	FieldPaymentMethod Field = "payment_method"
	FieldAgeBand       Field = "age_band"
	FieldAmountBand    Field = "amount_band"
	FieldWeekday       Field = "weekday"
	FieldMonth         Field = "month"
	FieldHour          Field = "hour"
)

// Valid reports whether the field is a recognized categorical column.
func (f Field) Valid() bool {
	switch f {
	case FieldCategory, FieldRegion, FieldGender, FieldPaymentMethod,
		FieldAgeBand, FieldAmountBand, FieldWeekday, FieldMonth, FieldHour:
		return true
	}
	return false
}

// Value extracts the field's categorical value from a record.
func (f Field) Value(r domain.Record) (string, error) {
	switch f {
	case FieldCategory:
		return r.Category, nil
	case FieldRegion:
		return r.Region, nil
	case FieldGender:
		return r.Gender, nil
	case FieldPaymentMethod:
		return r.PaymentMethod, nil
	case FieldAgeBand:
		return r.AgeBand, nil
	case FieldAmountBand:
		return r.AmountBand, nil
	case FieldWeekday:
		return r.PurchaseDate.Weekday().String(), nil
	case FieldMonth:
		return r.PurchaseDate.Month().String(), nil
	case FieldHour:
		return fmt.Sprintf("%02d", r.PurchaseDate.Hour()), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, string(f))
}

// weekdayOrder is Monday-first, matching how the dashboard lays out
// weekday axes. time.Weekday is Sunday-first and cannot be used directly.
var weekdayOrder = []string{
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
	time.Sunday.String(),
}

func monthOrder() []string {
	months := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, m.String())
	}
	return months
}

func hourOrder() []string {
	hours := make([]string, 0, 24)
	for h := 0; h < 24; h++ {
		hours = append(hours, fmt.Sprintf("%02d", h))
	}
	return hours
}

// DomainOrder returns the fixed ordering of the field's values, or nil for
// fields whose axis order follows the input's first-seen order.
func (f Field) DomainOrder() []string {
	switch f {
	case FieldWeekday:
		return weekdayOrder
	case FieldMonth:
		return monthOrder()
	case FieldHour:
		return hourOrder()
	case FieldAgeBand:
		return domain.AgeBands.Labels
	case FieldAmountBand:
		return domain.AmountBands.Labels
	}
	return nil
}

// sortAxis orders distinct key values for output: by the field's fixed
// domain order when it has one, otherwise by first appearance in the view.
func sortAxis(keys []string, f Field, firstSeen map[string]int) {
	order := f.DomainOrder()
	if order == nil {
		sort.SliceStable(keys, func(i, j int) bool {
			return firstSeen[keys[i]] < firstSeen[keys[j]]
		})
		return
	}
	rank := make(map[string]int, len(order))
	for i, v := range order {
		rank[v] = i
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, iKnown := rank[keys[i]]
		rj, jKnown := rank[keys[j]]
		if iKnown != jKnown {
			return iKnown // unknown labels sort last
		}
		if !iKnown {
			return firstSeen[keys[i]] < firstSeen[keys[j]]
		}
		return ri < rj
	})
}
