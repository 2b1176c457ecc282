package domain

// Row maps an output column name to its value for one derived-table row.
// Values are numeric (float64/int) or categorical (string); a missing
// measurement such as an unfilled moving-average window is a nil value,
// never zero.
type Row map[string]interface{}

// Table is the shape every analytical query produces: an ordered sequence
// of homogeneous rows with a stable column order. Tables are created fresh
// per query and are never cached or mutated after creation; rendering and
// export collaborators consume this shape without knowing how it was
// computed.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable creates an empty table with the given column order.
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns, Rows: []Row{}}
}

// Append adds one row of values in column order. Extra values are
// ignored; absent trailing values are left out of the row.
func (t *Table) Append(values ...interface{}) {
	row := make(Row, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(values) {
			row[col] = values[i]
		}
	}
	t.Rows = append(t.Rows, row)
}

// Strings renders the table to header + string records for CSV-style
// consumers. Nil values render as empty cells.
func (t *Table) Strings(format func(interface{}) string) (header []string, records [][]string) {
	header = append(header, t.Columns...)
	records = make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			if v, ok := row[col]; ok && v != nil {
				record[i] = format(v)
			}
		}
		records = append(records, record)
	}
	return header, records
}
