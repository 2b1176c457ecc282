package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecpulse/pkg/contracts/domain"
)

func record(customer string, date time.Time, amount float64, age int, category, region string) domain.Record {
	return domain.Record{
		CustomerID:    customer,
		PurchaseDate:  date,
		Amount:        amount,
		Category:      category,
		Region:        region,
		Gender:        "F",
		Age:           age,
		PaymentMethod: "card",
	}
}

func TestNewDerivesBandsAndBounds(t *testing.T) {
	records := []domain.Record{
		record("C1", time.Date(2024, time.March, 5, 13, 45, 0, 0, time.UTC), 55000, 72, "Books", "East"),
		record("C2", time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC), 100, 19, "Games", "North"),
		record("C3", time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), 7500, 30, "Books", "North"),
	}

	s, err := New(records)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	got := s.Records()
	assert.Equal(t, "71+", got[0].AgeBand)
	assert.Equal(t, ">=50000", got[0].AmountBand)
	assert.Equal(t, "<20", got[1].AgeBand)
	assert.Equal(t, "<5000", got[1].AmountBand)
	assert.Equal(t, "20-30", got[2].AgeBand)
	assert.Equal(t, "5000-10000", got[2].AmountBand)

	f := s.Facets()
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), f.DateMin)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), f.DateMax)
	assert.Equal(t, 100.0, f.AmountMin)
	assert.Equal(t, 55000.0, f.AmountMax)
	assert.Equal(t, []string{"Books", "Games"}, f.Categories)
	assert.Equal(t, []string{"East", "North"}, f.Regions)
	assert.Equal(t, domain.AgeBands.Labels, f.AgeBands)
}

func TestNewDoesNotMutateInput(t *testing.T) {
	records := []domain.Record{
		record("C1", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 100, 25, "Books", "North"),
	}
	_, err := New(records)
	require.NoError(t, err)
	assert.Empty(t, records[0].AgeBand, "input slice must stay untouched")
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	bad := []domain.Record{
		record("C1", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), -5, 25, "Books", "North"),
	}
	_, err = New(bad)
	assert.Error(t, err)
}
