package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgeBandBoundaries(t *testing.T) {
	tests := []struct {
		age  float64
		want string
	}{
		{0, "<20"},
		{19, "<20"},
		{20, "20-30"}, // half-open: boundary value belongs to the upper band
		{29, "20-30"},
		{30, "31-40"},
		{40, "41-50"},
		{50, "51-60"},
		{60, "61-70"},
		{69, "61-70"},
		{70, "71+"},
		{120, "71+"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeBands.Label(tt.age), "age %.0f", tt.age)
	}
}

func TestAmountBandBoundaries(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "<5000"},
		{4999.99, "<5000"},
		{5000, "5000-10000"},
		{9999, "5000-10000"},
		{10000, "10000-30000"},
		{30000, "30000-50000"},
		{49999, "30000-50000"},
		{50000, ">=50000"},
		{1e9, ">=50000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AmountBands.Label(tt.amount), "amount %.2f", tt.amount)
	}
}

func TestBandOrder(t *testing.T) {
	assert.Equal(t, 0, AgeBands.Order("<20"))
	assert.Equal(t, 6, AgeBands.Order("71+"))
	assert.Equal(t, -1, AgeBands.Order("18-25"))
}

func TestTableAppendAndStrings(t *testing.T) {
	tbl := NewTable("key", "value")
	tbl.Append("a", 1.5)
	tbl.Append("b", nil)

	header, records := tbl.Strings(func(v interface{}) string {
		switch x := v.(type) {
		case string:
			return x
		default:
			return "1.50"
		}
	})
	assert.Equal(t, []string{"key", "value"}, header)
	assert.Equal(t, [][]string{{"a", "1.50"}, {"b", ""}}, records)
}
