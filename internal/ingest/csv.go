// Package ingest parses the fixed-schema sales CSV into typed records.
// Schema validation and date parsing happen here, at the input boundary;
// the analytical core receives an already-typed collection.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"ecpulse/pkg/contracts/domain"
)

// Column names recognized in the CSV header, lowercased.
var columns = map[string]string{
	"customer_id":       "customer_id",
	"id":                "customer_id",
	"purchase_date":     "purchase_date",
	"date":              "purchase_date",
	"amount":            "amount",
	"purchase_amount":   "amount",
	"category":          "category",
	"purchase_category": "category",
	"region":            "region",
	"gender":            "gender",
	"age":               "age",
	"payment_method":    "payment_method",
}

var required = []string{"customer_id", "purchase_date", "amount", "category", "region", "gender", "age", "payment_method"}

// LoadFile reads and parses a sales CSV from disk.
func LoadFile(path string) ([]domain.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sales CSV: %w", err)
	}
	defer file.Close()

	records, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// Load parses sales records from a CSV stream. The first row must be a
// header naming every schema column; a UTF-8 BOM is tolerated. Rows that
// fail to parse are logged and skipped rather than aborting the load.
func Load(r io.Reader) ([]domain.Record, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read CSV content: %w", err)
	}

	// Strip UTF-8 BOM so the header maps cleanly.
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	index, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row, index)
		if err != nil {
			slog.Warn("skipping unparseable CSV row",
				slog.Int("line", i+2),
				slog.String("error", err.Error()))
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no parseable records in CSV")
	}
	return records, nil
}

func mapHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(required))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := columns[key]; ok {
			if _, dup := index[canonical]; !dup {
				index[canonical] = i
			}
		}
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("CSV header missing column %q", name)
		}
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (domain.Record, error) {
	cell := func(name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := parseDate(cell("purchase_date"))
	if err != nil {
		return domain.Record{}, err
	}

	amount, err := strconv.ParseFloat(cell("amount"), 64)
	if err != nil {
		return domain.Record{}, fmt.Errorf("parse amount: %w", err)
	}
	if amount < 0 {
		return domain.Record{}, fmt.Errorf("negative amount %.2f", amount)
	}

	age, err := strconv.Atoi(cell("age"))
	if err != nil {
		return domain.Record{}, fmt.Errorf("parse age: %w", err)
	}
	if age < 0 {
		return domain.Record{}, fmt.Errorf("negative age %d", age)
	}

	customer := cell("customer_id")
	if customer == "" {
		return domain.Record{}, fmt.Errorf("empty customer_id")
	}

	return domain.Record{
		CustomerID:    customer,
		PurchaseDate:  date,
		Amount:        amount,
		Category:      cell("category"),
		Region:        cell("region"),
		Gender:        cell("gender"),
		Age:           age,
		PaymentMethod: cell("payment_method"),
	}, nil
}

// parseDate attempts the date formats the upstream exports use.
func parseDate(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
		"2006/01/02 15:04:05",
		"2006/01/02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q", s)
}
