package analytics

import (
	"fmt"

	"ecpulse/pkg/contracts/domain"
)

// Metric is an aggregation function over the amount column. MetricCount
// counts records and ignores the amount values.
type Metric string

const (
	MetricSum   Metric = "sum"
	MetricCount Metric = "count"
	MetricMean  Metric = "mean"
)

// Valid reports whether the metric is one of sum, count, mean.
func (m Metric) Valid() bool {
	switch m {
	case MetricSum, MetricCount, MetricMean:
		return true
	}
	return false
}

// AggregateRow is one output row of a single-key aggregation: a distinct
// key value plus every requested metric.
type AggregateRow struct {
	Key    string             `json:"key"`
	Values map[Metric]float64 `json:"values"`
}

// Aggregate groups the view by one categorical field and computes the
// requested metrics over amount per group. Only key values actually
// present in the view produce rows; an empty view yields an empty row set.
// Axis order follows the field's fixed domain order when it has one
// (weekday, month, hour, bands), otherwise first appearance in the view.
func Aggregate(view []domain.Record, key Field, metrics []Metric) ([]AggregateRow, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("%w: group key %q", ErrUnknownField, string(key))
	}
	if len(metrics) == 0 {
		return nil, fmt.Errorf("%w: no metrics requested", ErrUnknownMetric)
	}
	for _, m := range metrics {
		if !m.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, string(m))
		}
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	keys := make([]string, 0)

	for i, r := range view {
		k, err := key.Value(r)
		if err != nil {
			return nil, err
		}
		if _, seen := firstSeen[k]; !seen {
			firstSeen[k] = i
			keys = append(keys, k)
		}
		sums[k] += r.Amount
		counts[k]++
	}
	sortAxis(keys, key, firstSeen)

	rows := make([]AggregateRow, 0, len(keys))
	for _, k := range keys {
		values := make(map[Metric]float64, len(metrics))
		for _, m := range metrics {
			switch m {
			case MetricSum:
				values[m] = sums[k]
			case MetricCount:
				values[m] = float64(counts[k])
			case MetricMean:
				values[m] = sums[k] / float64(counts[k])
			}
		}
		rows = append(rows, AggregateRow{Key: k, Values: values})
	}
	return rows, nil
}

// AggregateTable renders aggregation rows as a derived table with the key
// column followed by one column per metric, in request order.
func AggregateTable(key Field, metrics []Metric, rows []AggregateRow) *domain.Table {
	columns := make([]string, 0, len(metrics)+1)
	columns = append(columns, string(key))
	for _, m := range metrics {
		columns = append(columns, string(m))
	}
	t := domain.NewTable(columns...)
	for _, row := range rows {
		values := make([]interface{}, 0, len(metrics)+1)
		values = append(values, row.Key)
		for _, m := range metrics {
			values = append(values, row.Values[m])
		}
		t.Append(values...)
	}
	return t
}

// Summary holds the dashboard's headline metrics for a filtered view.
type Summary struct {
	TotalAmount     float64 `json:"total_amount"`
	Orders          int     `json:"orders"`
	MeanAmount      float64 `json:"mean_amount"`
	UniqueCustomers int     `json:"unique_customers"`
}

// Summarize computes the headline metrics. An empty view yields all
// zeroes; the mean of an empty view is defined as 0.
func Summarize(view []domain.Record) Summary {
	s := Summary{Orders: len(view)}
	customers := make(map[string]struct{})
	for _, r := range view {
		s.TotalAmount += r.Amount
		customers[r.CustomerID] = struct{}{}
	}
	s.UniqueCustomers = len(customers)
	if s.Orders > 0 {
		s.MeanAmount = s.TotalAmount / float64(s.Orders)
	}
	return s
}

// Table renders the summary as a single-row derived table.
func (s Summary) Table() *domain.Table {
	t := domain.NewTable("total_amount", "orders", "mean_amount", "unique_customers")
	t.Append(s.TotalAmount, s.Orders, s.MeanAmount, s.UniqueCustomers)
	return t
}
