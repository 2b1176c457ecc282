// Package services orchestrates the analytical pipeline: it validates
// query descriptors, applies the filter engine to the record store, runs
// the requested downstream engine, and returns the derived table. Every
// query is a synchronous, full pipeline evaluation; nothing is cached
// beyond the initial dataset load.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ecpulse/internal/analytics"
	"ecpulse/internal/infrastructure"
	"ecpulse/internal/store"
	"ecpulse/pkg/contracts/domain"
)

// SeriesQuery describes a time-series request. A zero Window selects the
// granularity's default (7 daily, 3 monthly).
type SeriesQuery struct {
	Granularity analytics.Granularity `json:"granularity" validate:"required"`
	Window      int                   `json:"window" validate:"min=0"`
}

// DistributionQuery describes a single-key aggregation request. Empty
// Metrics defaults to sum and count.
type DistributionQuery struct {
	Field   analytics.Field    `json:"field" validate:"required"`
	Metrics []analytics.Metric `json:"metrics"`
}

// PivotQuery describes a two-key cross-tabulation request. Normalize
// converts cells to row percentages.
type PivotQuery struct {
	RowField  analytics.Field `json:"row_field" validate:"required"`
	ColField  analytics.Field `json:"col_field" validate:"required"`
	Normalize bool            `json:"normalize"`
}

// AnalyticsService runs analytical queries against the loaded dataset.
type AnalyticsService struct {
	store     *store.Store
	logger    *slog.Logger
	validate  *validator.Validate
	telemetry *infrastructure.Telemetry
}

// NewAnalyticsService creates the service. telemetry may be nil; queries
// then run untraced and unmetered.
func NewAnalyticsService(s *store.Store, logger *slog.Logger, telemetry *infrastructure.Telemetry) *AnalyticsService {
	return &AnalyticsService{
		store:     s,
		logger:    logger.With(slog.String("component", "analytics_service")),
		validate:  validator.New(),
		telemetry: telemetry,
	}
}

// Facets returns the dataset's filterable value domains.
func (s *AnalyticsService) Facets(ctx context.Context) store.Facets {
	return s.store.Facets()
}

// Summary computes the headline metrics over the filtered view.
func (s *AnalyticsService) Summary(ctx context.Context, f analytics.FilterSet) (analytics.Summary, error) {
	ctx, finish := s.begin(ctx, "summary")
	view, err := analytics.Apply(s.store.Records(), f)
	if err != nil {
		finish(err)
		return analytics.Summary{}, err
	}
	summary := analytics.Summarize(view)
	s.logger.InfoContext(ctx, "summary computed",
		slog.Int("view_size", len(view)),
		slog.Int("orders", summary.Orders))
	finish(nil)
	return summary, nil
}

// Series buckets the filtered view by calendar day or month and applies
// trailing moving-average smoothing.
func (s *AnalyticsService) Series(ctx context.Context, f analytics.FilterSet, q SeriesQuery) (*domain.Table, error) {
	ctx, finish := s.begin(ctx, "series")
	table, err := s.series(ctx, f, q)
	finish(err)
	return table, err
}

func (s *AnalyticsService) series(ctx context.Context, f analytics.FilterSet, q SeriesQuery) (*domain.Table, error) {
	if err := s.validate.Struct(q); err != nil {
		return nil, err
	}
	view, err := analytics.Apply(s.store.Records(), f)
	if err != nil {
		return nil, err
	}
	points, err := analytics.BucketSeries(view, q.Granularity)
	if err != nil {
		return nil, err
	}
	window := q.Window
	if window == 0 {
		window = q.Granularity.DefaultWindow()
	}
	points, err = analytics.MovingAverage(points, window)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "series computed",
		slog.String("granularity", string(q.Granularity)),
		slog.Int("window", window),
		slog.Int("buckets", len(points)))
	return analytics.SeriesTable(q.Granularity, points), nil
}

// Distribution aggregates the filtered view by one categorical field.
func (s *AnalyticsService) Distribution(ctx context.Context, f analytics.FilterSet, q DistributionQuery) (*domain.Table, error) {
	ctx, finish := s.begin(ctx, "distribution")
	table, err := s.distribution(ctx, f, q)
	finish(err)
	return table, err
}

func (s *AnalyticsService) distribution(ctx context.Context, f analytics.FilterSet, q DistributionQuery) (*domain.Table, error) {
	if err := s.validate.Struct(q); err != nil {
		return nil, err
	}
	metrics := q.Metrics
	if len(metrics) == 0 {
		metrics = []analytics.Metric{analytics.MetricSum, analytics.MetricCount}
	}
	view, err := analytics.Apply(s.store.Records(), f)
	if err != nil {
		return nil, err
	}
	rows, err := analytics.Aggregate(view, q.Field, metrics)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "distribution computed",
		slog.String("field", string(q.Field)),
		slog.Int("groups", len(rows)))
	return analytics.AggregateTable(q.Field, metrics, rows), nil
}

// PivotTable cross-tabulates the filtered view by two categorical fields,
// optionally normalizing each row to percentages.
func (s *AnalyticsService) PivotTable(ctx context.Context, f analytics.FilterSet, q PivotQuery) (*domain.Table, error) {
	ctx, finish := s.begin(ctx, "pivot")
	table, err := s.pivotTable(ctx, f, q)
	finish(err)
	return table, err
}

func (s *AnalyticsService) pivotTable(ctx context.Context, f analytics.FilterSet, q PivotQuery) (*domain.Table, error) {
	if err := s.validate.Struct(q); err != nil {
		return nil, err
	}
	view, err := analytics.Apply(s.store.Records(), f)
	if err != nil {
		return nil, err
	}
	pivot, err := analytics.Pivot(view, q.RowField, q.ColField)
	if err != nil {
		return nil, err
	}
	if q.Normalize {
		pivot.Normalize()
	}
	s.logger.InfoContext(ctx, "pivot computed",
		slog.String("row_field", string(q.RowField)),
		slog.String("col_field", string(q.ColField)),
		slog.Bool("normalized", q.Normalize),
		slog.Int("rows", len(pivot.RowKeys)))
	return pivot.Table(), nil
}

// SegmentedSeries computes the monthly record-count series split by one
// categorical field, zero-filling segment holes.
func (s *AnalyticsService) SegmentedSeries(ctx context.Context, f analytics.FilterSet, field analytics.Field) (*domain.Table, error) {
	ctx, finish := s.begin(ctx, "segmented_series")
	view, err := analytics.Apply(s.store.Records(), f)
	if err != nil {
		finish(err)
		return nil, err
	}
	series, err := analytics.SegmentedMonthlySeries(view, field)
	if err != nil {
		finish(err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "segmented series computed",
		slog.String("field", string(field)),
		slog.Int("months", len(series.Buckets)),
		slog.Int("segments", len(series.Keys)))
	finish(nil)
	return series.Table(), nil
}

// Pareto ranks the filtered view by amount descending with cumulative
// contribution shares.
func (s *AnalyticsService) Pareto(ctx context.Context, f analytics.FilterSet) (analytics.ParetoResult, error) {
	ctx, finish := s.begin(ctx, "pareto")
	view, err := analytics.Apply(s.store.Records(), f)
	if err != nil {
		finish(err)
		return analytics.ParetoResult{}, err
	}
	result := analytics.Pareto(view)
	s.logger.InfoContext(ctx, "pareto computed",
		slog.Int("rows", len(result.Rows)),
		slog.Bool("has_share", result.HasShare))
	finish(nil)
	return result, nil
}

// begin opens a span and returns a completion callback recording the
// query's outcome and duration.
func (s *AnalyticsService) begin(ctx context.Context, query string) (context.Context, func(error)) {
	start := time.Now()
	var span trace.Span
	if s.telemetry != nil {
		ctx, span = s.telemetry.Tracer.Start(ctx, "analytics."+query,
			trace.WithAttributes(attribute.String("query", query)))
	}
	return ctx, func(err error) {
		if span != nil {
			if err != nil {
				span.RecordError(err)
			}
			span.End()
		}
		if s.telemetry != nil {
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			s.telemetry.QueriesTotal.WithLabelValues(query, outcome).Inc()
			s.telemetry.QueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
		}
	}
}
