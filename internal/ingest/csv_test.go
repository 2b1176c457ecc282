package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `customer_id,purchase_date,amount,category,region,gender,age,payment_method
C001,2024-01-15 10:30:00,12500,Books,North,F,34,card
C002,2024-01-16,800,Games,South,M,22,cash
C003,2024-02-01 20:05:00,51000,Garden,East,F,71,transfer
`

func TestLoad(t *testing.T) {
	records, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "C001", records[0].CustomerID)
	assert.Equal(t, time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC), records[0].PurchaseDate)
	assert.Equal(t, 12500.0, records[0].Amount)
	assert.Equal(t, "Books", records[0].Category)
	assert.Equal(t, 34, records[0].Age)

	// Date-only rows parse with midnight time.
	assert.Equal(t, time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC), records[1].PurchaseDate)
}

func TestLoadBOMAndHeaderAliases(t *testing.T) {
	csv := "\xEF\xBB\xBF" + "id,date,purchase_amount,purchase_category,region,gender,age,payment_method\n" +
		"C1,2024-03-01,100,Books,North,F,25,card\n"
	records, err := Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "C1", records[0].CustomerID)
	assert.Equal(t, 100.0, records[0].Amount)
}

func TestLoadSkipsBadRows(t *testing.T) {
	csv := sampleCSV +
		"C004,not-a-date,100,Books,North,F,25,card\n" +
		"C005,2024-01-01,-5,Books,North,F,25,card\n" +
		"C006,2024-01-01,100,Books,North,F,-1,card\n"
	records, err := Load(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		_, err := Load(strings.NewReader("customer_id,amount\nC1,100\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing column")
	})

	t.Run("no data rows", func(t *testing.T) {
		_, err := Load(strings.NewReader("customer_id,purchase_date,amount,category,region,gender,age,payment_method\n"))
		assert.Error(t, err)
	})

	t.Run("nothing parseable", func(t *testing.T) {
		_, err := Load(strings.NewReader(
			"customer_id,purchase_date,amount,category,region,gender,age,payment_method\n" +
				"C1,nope,x,Books,North,F,25,card\n"))
		assert.Error(t, err)
	})
}
