// Command report builds the full set of derived analytical tables from a
// transactions CSV and writes them as per-table CSV files and a single
// multi-sheet Excel workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ecpulse/internal/analytics"
	"ecpulse/internal/exporter"
	"ecpulse/internal/ingest"
	"ecpulse/internal/store"
	"ecpulse/pkg/contracts/domain"
)

func main() {
	dataFile := flag.String("data", "data/sample-data.csv", "path to the transactions CSV")
	outputDir := flag.String("out", "exports", "output directory for the report files")
	format := flag.String("format", "both", "output format: csv, excel, or both")
	dateFrom := flag.String("from", "", "only include purchases on or after this date (YYYY-MM-DD)")
	dateTo := flag.String("to", "", "only include purchases on or before this date (YYYY-MM-DD)")
	flag.Parse()

	if *format != "csv" && *format != "excel" && *format != "both" {
		slog.Error("invalid format", slog.String("format", *format))
		os.Exit(1)
	}

	filter, err := buildFilter(*dateFrom, *dateTo)
	if err != nil {
		slog.Error("invalid date range", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("loading transactions", slog.String("path", *dataFile))
	records, err := ingest.LoadFile(*dataFile)
	if err != nil {
		slog.Error("failed to load transactions", slog.String("error", err.Error()))
		os.Exit(1)
	}
	st, err := store.New(records)
	if err != nil {
		slog.Error("failed to build dataset", slog.String("error", err.Error()))
		os.Exit(1)
	}

	view, err := analytics.Apply(st.Records(), filter)
	if err != nil {
		slog.Error("failed to apply filter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sheets, err := buildSheets(context.Background(), view)
	if err != nil {
		slog.Error("failed to build report tables", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := writeReport(*outputDir, *format, sheets); err != nil {
		slog.Error("failed to write report", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("report complete",
		slog.String("output_dir", *outputDir),
		slog.Int("tables", len(sheets)))
}

func buildFilter(from, to string) (analytics.FilterSet, error) {
	var f analytics.FilterSet
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return f, fmt.Errorf("parse -from: %w", err)
		}
		f.DateFrom = &t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return f, fmt.Errorf("parse -to: %w", err)
		}
		f.DateTo = &t
	}
	return f, f.Validate()
}

// buildSheets computes every derived table. The tables are independent,
// so they are built concurrently.
func buildSheets(ctx context.Context, view []domain.Record) ([]exporter.Sheet, error) {
	var (
		mu     sync.Mutex
		sheets = make(map[string]*domain.Table)
	)
	add := func(name string, t *domain.Table) {
		mu.Lock()
		sheets[name] = t
		mu.Unlock()
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		add("Summary", analytics.Summarize(view).Table())
		return nil
	})
	g.Go(func() error {
		table, err := seriesTable(view, analytics.GranularityDay)
		if err != nil {
			return err
		}
		add("Daily Sales", table)
		return nil
	})
	g.Go(func() error {
		table, err := seriesTable(view, analytics.GranularityMonth)
		if err != nil {
			return err
		}
		add("Monthly Sales", table)
		return nil
	})
	for _, field := range []analytics.Field{
		analytics.FieldCategory,
		analytics.FieldRegion,
		analytics.FieldAgeBand,
		analytics.FieldAmountBand,
		analytics.FieldWeekday,
		analytics.FieldMonth,
	} {
		field := field
		g.Go(func() error {
			rows, err := analytics.Aggregate(view, field, []analytics.Metric{analytics.MetricSum, analytics.MetricCount})
			if err != nil {
				return err
			}
			add("By "+titleize(string(field)), analytics.AggregateTable(field, []analytics.Metric{analytics.MetricSum, analytics.MetricCount}, rows))
			return nil
		})
	}
	g.Go(func() error {
		pivot, err := analytics.Pivot(view, analytics.FieldRegion, analytics.FieldPaymentMethod)
		if err != nil {
			return err
		}
		add("Region x Payment", pivot.Table())
		return nil
	})
	g.Go(func() error {
		pivot, err := analytics.Pivot(view, analytics.FieldHour, analytics.FieldWeekday)
		if err != nil {
			return err
		}
		add("Hour x Weekday", pivot.Table())
		return nil
	})
	g.Go(func() error {
		segmented, err := analytics.SegmentedMonthlySeries(view, analytics.FieldCategory)
		if err != nil {
			return err
		}
		add("Category Trend", segmented.Table())
		return nil
	})
	g.Go(func() error {
		add("Top Contributors", analytics.Pareto(view).Table())
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	order := []string{
		"Summary", "Daily Sales", "Monthly Sales",
		"By Category", "By Region", "By Age Band", "By Amount Band", "By Weekday", "By Month",
		"Region x Payment", "Hour x Weekday", "Category Trend", "Top Contributors",
	}
	out := make([]exporter.Sheet, 0, len(order))
	for _, name := range order {
		out = append(out, exporter.Sheet{Name: name, Table: sheets[name]})
	}
	return out, nil
}

func seriesTable(view []domain.Record, g analytics.Granularity) (*domain.Table, error) {
	points, err := analytics.BucketSeries(view, g)
	if err != nil {
		return nil, err
	}
	smoothed, err := analytics.MovingAverage(points, g.DefaultWindow())
	if err != nil {
		return nil, err
	}
	return analytics.SeriesTable(g, smoothed), nil
}

func writeReport(outputDir, format string, sheets []exporter.Sheet) error {
	logger := slog.Default()
	if format == "csv" || format == "both" {
		w := exporter.NewCSVWriter(outputDir, logger)
		for _, sheet := range sheets {
			if err := w.WriteTable(fileName(sheet.Name)+".csv", sheet.Table); err != nil {
				return err
			}
		}
	}
	if format == "excel" || format == "both" {
		w := exporter.NewExcelWriter(outputDir, logger)
		if err := w.WriteWorkbook("report.xlsx", sheets); err != nil {
			return err
		}
	}
	return nil
}

func titleize(field string) string {
	parts := strings.Split(field, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

func fileName(sheetName string) string {
	s := strings.ToLower(sheetName)
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "_x_", "_by_")
}
