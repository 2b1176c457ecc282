package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValue(t *testing.T) {
	r := rec("C1", at(2024, time.January, 3, 14), 7500, "Books", "North", "F", 25, "card")

	tests := []struct {
		field Field
		want  string
	}{
		{FieldCategory, "Books"},
		{FieldRegion, "North"},
		{FieldGender, "F"},
		{FieldPaymentMethod, "card"},
		{FieldAgeBand, "20-30"},
		{FieldAmountBand, "5000-10000"},
		{FieldWeekday, "Wednesday"},
		{FieldMonth, "January"},
		{FieldHour, "14"},
	}
	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			got, err := tt.field.Value(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Field("shoe_size").Value(r)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestDomainOrder(t *testing.T) {
	assert.Equal(t, "Monday", FieldWeekday.DomainOrder()[0])
	assert.Equal(t, "Sunday", FieldWeekday.DomainOrder()[6])
	assert.Len(t, FieldMonth.DomainOrder(), 12)
	assert.Equal(t, "January", FieldMonth.DomainOrder()[0])
	assert.Len(t, FieldHour.DomainOrder(), 24)
	assert.Equal(t, "00", FieldHour.DomainOrder()[0])
	assert.Equal(t, "23", FieldHour.DomainOrder()[23])
	assert.Nil(t, FieldCategory.DomainOrder())
}
