package analytics

import (
	"fmt"

	"ecpulse/pkg/contracts/domain"
)

// PivotTable is a two-key cross-tabulation: one row per value of the row
// field, one column per value of the column field, cells holding the
// aggregated amount. Cells with no contributing records hold exactly 0 —
// downstream stacked and grouped rendering depends on the zero-fill.
type PivotTable struct {
	RowField Field                         `json:"row_field"`
	ColField Field                         `json:"col_field"`
	RowKeys  []string                      `json:"row_keys"`
	ColKeys  []string                      `json:"col_keys"`
	Cells    map[string]map[string]float64 `json:"cells"`
}

// Pivot cross-tabulates the sum of amount by two categorical fields.
// Axis ordering follows the same rule as Aggregate: fixed domain order
// where one exists, first-seen order otherwise. An empty view yields a
// pivot with no rows and no columns.
func Pivot(view []domain.Record, rowField, colField Field) (*PivotTable, error) {
	if !rowField.Valid() {
		return nil, fmt.Errorf("%w: row key %q", ErrUnknownField, string(rowField))
	}
	if !colField.Valid() {
		return nil, fmt.Errorf("%w: column key %q", ErrUnknownField, string(colField))
	}
	if rowField == colField {
		return nil, fmt.Errorf("%w: row and column key are both %q", ErrUnknownField, string(rowField))
	}

	p := &PivotTable{
		RowField: rowField,
		ColField: colField,
		Cells:    make(map[string]map[string]float64),
	}
	rowSeen := make(map[string]int)
	colSeen := make(map[string]int)

	for i, r := range view {
		rk, err := rowField.Value(r)
		if err != nil {
			return nil, err
		}
		ck, err := colField.Value(r)
		if err != nil {
			return nil, err
		}
		if _, seen := rowSeen[rk]; !seen {
			rowSeen[rk] = i
			p.RowKeys = append(p.RowKeys, rk)
			p.Cells[rk] = make(map[string]float64)
		}
		if _, seen := colSeen[ck]; !seen {
			colSeen[ck] = i
			p.ColKeys = append(p.ColKeys, ck)
		}
		p.Cells[rk][ck] += r.Amount
	}
	sortAxis(p.RowKeys, rowField, rowSeen)
	sortAxis(p.ColKeys, colField, colSeen)

	// Zero-fill absent (row, col) combinations.
	for _, rk := range p.RowKeys {
		for _, ck := range p.ColKeys {
			if _, ok := p.Cells[rk][ck]; !ok {
				p.Cells[rk][ck] = 0
			}
		}
	}
	return p, nil
}

// Normalize converts each row's cells to percentages of the row total, so
// every row with a nonzero total sums to 100. A row whose total is zero
// keeps all cells at 0 rather than dividing by zero.
func (p *PivotTable) Normalize() {
	for _, rk := range p.RowKeys {
		var total float64
		for _, ck := range p.ColKeys {
			total += p.Cells[rk][ck]
		}
		if total == 0 {
			continue
		}
		for _, ck := range p.ColKeys {
			p.Cells[rk][ck] = p.Cells[rk][ck] / total * 100
		}
	}
}

// RowTotal returns the sum of one row's cells.
func (p *PivotTable) RowTotal(rowKey string) float64 {
	var total float64
	for _, ck := range p.ColKeys {
		total += p.Cells[rowKey][ck]
	}
	return total
}

// Table renders the pivot as a derived table: the row key column followed
// by one column per column key.
func (p *PivotTable) Table() *domain.Table {
	columns := make([]string, 0, len(p.ColKeys)+1)
	columns = append(columns, string(p.RowField))
	columns = append(columns, p.ColKeys...)
	t := domain.NewTable(columns...)
	for _, rk := range p.RowKeys {
		values := make([]interface{}, 0, len(p.ColKeys)+1)
		values = append(values, rk)
		for _, ck := range p.ColKeys {
			values = append(values, p.Cells[rk][ck])
		}
		t.Append(values...)
	}
	return t
}
