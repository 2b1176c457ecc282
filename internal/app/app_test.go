package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecpulse/internal/config"
	"ecpulse/internal/services"
	"ecpulse/internal/store"
	"ecpulse/pkg/contracts/domain"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	records := []domain.Record{
		{CustomerID: "C1", PurchaseDate: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC), Amount: 150, Category: "Books", Region: "North", Gender: "F", Age: 30, PaymentMethod: "card"},
		{CustomerID: "C2", PurchaseDate: time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC), Amount: 250, Category: "Games", Region: "South", Gender: "M", Age: 45, PaymentMethod: "cash"},
	}
	st, err := store.New(records)
	require.NoError(t, err)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	app := &Application{
		Config: &config.Config{
			Server: config.ServerConfig{
				Port:           0,
				RateLimitRPS:   100,
				RateLimitBurst: 50,
			},
		},
		Logger:  logger,
		Store:   st,
		Service: services.NewAnalyticsService(st, logger, nil),
	}
	app.setupRouter()
	return app
}

func TestRouterServesAnalyticsRoutes(t *testing.T) {
	app := newTestApplication(t)

	routes := []string{
		"/api/health",
		"/api/summary",
		"/api/series?granularity=day",
		"/api/distribution?field=category",
		"/api/pivot?row=region&col=payment_method",
		"/api/segmented-series?field=category",
		"/api/pareto",
		"/api/filters",
		"/metrics",
	}
	for _, route := range routes {
		t.Run(route, func(t *testing.T) {
			rr := httptest.NewRecorder()
			app.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, route, nil))
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	app := newTestApplication(t)

	rr := httptest.NewRecorder()
	app.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouterSetsRequestID(t *testing.T) {
	app := newTestApplication(t)

	rr := httptest.NewRecorder()
	app.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
