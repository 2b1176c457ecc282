package analytics

import (
	"time"

	"ecpulse/pkg/contracts/domain"
)

// rec builds a test record with bands derived the same way the store
// derives them at load.
func rec(customer string, date time.Time, amount float64, category, region, gender string, age int, payment string) domain.Record {
	return domain.Record{
		CustomerID:    customer,
		PurchaseDate:  date,
		Amount:        amount,
		Category:      category,
		Region:        region,
		Gender:        gender,
		Age:           age,
		PaymentMethod: payment,
		AgeBand:       domain.AgeBands.Label(float64(age)),
		AmountBand:    domain.AmountBands.Label(amount),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 30, 0, 0, time.UTC)
}

func fp(v float64) *float64 { return &v }

func tp(t time.Time) *time.Time { return &t }

// sampleRecords is a small dataset exercising every facet.
func sampleRecords() []domain.Record {
	return []domain.Record{
		rec("C1", at(2024, time.January, 1, 10), 100, "Books", "North", "F", 25, "card"),
		rec("C2", at(2024, time.January, 2, 14), 300, "Games", "South", "M", 34, "cash"),
		rec("C1", at(2024, time.January, 3, 9), 200, "Books", "North", "F", 25, "card"),
		rec("C3", at(2024, time.February, 10, 20), 7500, "Garden", "North", "M", 61, "transfer"),
		rec("C4", at(2024, time.February, 11, 20), 12000, "Games", "South", "F", 45, "card"),
		rec("C5", at(2024, time.March, 5, 8), 55000, "Books", "East", "M", 72, "cash"),
	}
}
