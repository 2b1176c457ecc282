package analytics

import (
	"sort"
	"time"

	"ecpulse/pkg/contracts/domain"
)

// ParetoRow is one record of the contribution ranking: the record's value,
// the running total, and the running share of the grand total in percent.
// Share is only meaningful when the parent result's HasShare is true.
type ParetoRow struct {
	CustomerID string    `json:"customer_id"`
	Date       time.Time `json:"date"`
	Value      float64   `json:"value"`
	Cumulative float64   `json:"cumulative"`
	Share      float64   `json:"share"`
}

// ParetoResult is the contribution (Pareto) ranking of a filtered view.
// When the grand total is zero — empty view or all-zero amounts — the
// share column is undefined: HasShare is false and every Share is 0, so
// callers can detect the condition and suppress rendering instead of
// receiving NaN.
type ParetoResult struct {
	Rows     []ParetoRow `json:"rows"`
	Total    float64     `json:"total"`
	HasShare bool        `json:"has_share"`
}

// Pareto ranks the view by amount descending, ties broken by the stable
// original record order, and computes cumulative value and cumulative
// share. For a nonzero total the share sequence is monotonically
// non-decreasing and ends at 100 (within floating-point tolerance).
func Pareto(view []domain.Record) ParetoResult {
	ranked := make([]domain.Record, len(view))
	copy(ranked, view)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount > ranked[j].Amount
	})

	result := ParetoResult{Rows: make([]ParetoRow, 0, len(ranked))}
	for _, r := range ranked {
		result.Total += r.Amount
	}
	result.HasShare = result.Total > 0

	var cumulative float64
	for _, r := range ranked {
		cumulative += r.Amount
		row := ParetoRow{
			CustomerID: r.CustomerID,
			Date:       r.Day(),
			Value:      r.Amount,
			Cumulative: cumulative,
		}
		if result.HasShare {
			row.Share = cumulative / result.Total * 100
		}
		result.Rows = append(result.Rows, row)
	}
	return result
}

// Table renders the ranking as a derived table. The share column holds
// nil cells when the share is undefined.
func (p ParetoResult) Table() *domain.Table {
	t := domain.NewTable("customer_id", "date", "value", "cumulative", "share")
	for _, row := range p.Rows {
		var share interface{}
		if p.HasShare {
			share = row.Share
		}
		t.Append(row.CustomerID, row.Date.Format("2006-01-02"), row.Value, row.Cumulative, share)
	}
	return t
}
