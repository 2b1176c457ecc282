// Package http exposes the analytical pipeline over a chi router. Every
// endpoint parses the facet filters and query descriptor from the URL,
// runs one full pipeline evaluation, and renders the derived table as
// JSON. Handlers hold no state between requests.
package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ecpulse/internal/analytics"
	apierrors "ecpulse/internal/errors"
	"ecpulse/internal/services"
)

// AnalyticsHandler handles the analytical query endpoints.
type AnalyticsHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service *services.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
	}
}

// RegisterRoutes registers the analytics routes.
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.GetSummary)
	r.Get("/series", h.GetSeries)
	r.Get("/distribution", h.GetDistribution)
	r.Get("/pivot", h.GetPivot)
	r.Get("/segmented-series", h.GetSegmentedSeries)
	r.Get("/pareto", h.GetPareto)
	r.Get("/filters", h.GetFilters)
}

// GetSummary returns the headline metrics for the filtered view.
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary.Table())
}

// GetSeries returns the bucketed, smoothed sales series.
func (h *AnalyticsHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	q := services.SeriesQuery{
		Granularity: analytics.Granularity(queryDefault(r, "granularity", string(analytics.GranularityDay))),
	}
	if raw := r.URL.Query().Get("window"); raw != "" {
		q.Window, err = strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("window", err))
			return
		}
	}

	table, err := h.service.Series(r.Context(), filter, q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, table)
}

// GetDistribution returns a single-key aggregation.
func (h *AnalyticsHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	q := services.DistributionQuery{
		Field: analytics.Field(r.URL.Query().Get("field")),
	}
	if raw := r.URL.Query().Get("metrics"); raw != "" {
		for _, m := range strings.Split(raw, ",") {
			q.Metrics = append(q.Metrics, analytics.Metric(strings.TrimSpace(m)))
		}
	}

	table, err := h.service.Distribution(r.Context(), filter, q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, table)
}

// GetPivot returns a two-key cross-tabulation.
func (h *AnalyticsHandler) GetPivot(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	q := services.PivotQuery{
		RowField:  analytics.Field(r.URL.Query().Get("row")),
		ColField:  analytics.Field(r.URL.Query().Get("col")),
		Normalize: r.URL.Query().Get("normalize") == "true",
	}

	table, err := h.service.PivotTable(r.Context(), filter, q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, table)
}

// GetSegmentedSeries returns the monthly count series split by a field.
func (h *AnalyticsHandler) GetSegmentedSeries(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	field := analytics.Field(queryDefault(r, "field", string(analytics.FieldCategory)))

	table, err := h.service.SegmentedSeries(r.Context(), filter, field)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, table)
}

// GetPareto returns the cumulative-contribution ranking.
func (h *AnalyticsHandler) GetPareto(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	result, err := h.service.Pareto(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result.Table())
}

// GetFilters returns the facet metadata filter controls are built from.
func (h *AnalyticsHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Facets(r.Context()))
}

// parseFilter builds the filter predicate set from query parameters.
// Unparseable values are configuration errors; absent parameters leave
// their predicate inactive.
func parseFilter(r *http.Request) (analytics.FilterSet, error) {
	q := r.URL.Query()
	f := analytics.FilterSet{
		Category:      q.Get("category"),
		Region:        q.Get("region"),
		Gender:        q.Get("gender"),
		AgeBand:       q.Get("age_band"),
		PaymentMethod: q.Get("payment_method"),
	}

	if raw := q.Get("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, apierrors.InvalidParameter("date_from", err)
		}
		f.DateFrom = &t
	}
	if raw := q.Get("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, apierrors.InvalidParameter("date_to", err)
		}
		f.DateTo = &t
	}
	if raw := q.Get("amount_min"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, apierrors.InvalidParameter("amount_min", err)
		}
		f.AmountMin = &v
	}
	if raw := q.Get("amount_max"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, apierrors.InvalidParameter("amount_max", err)
		}
		f.AmountMax = &v
	}
	return f, nil
}

func queryDefault(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}
