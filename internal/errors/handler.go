package errors

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"ecpulse/internal/analytics"
)

// ErrorHandler provides centralized error handling for HTTP handlers.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError logs the error and writes the structured response.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	apiErr := FromError(err)

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("error_code", apiErr.ErrorCode),
		slog.Int("status", apiErr.StatusCode),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if renderErr := render.Render(w, r, apiErr); renderErr != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}

// FromError maps an arbitrary error to its API representation. The
// analytics configuration sentinels each get a distinct 400 code;
// anything unrecognized is a 500.
func FromError(err error) *APIError {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		return NewWithDetails(http.StatusBadRequest, "INVALID_PARAMETER", "Query validation failed", validationErrs.Error())
	}

	switch {
	case stderrors.Is(err, analytics.ErrInvalidRange):
		return NewWithDetails(http.StatusBadRequest, "INVALID_RANGE", "Range minimum exceeds maximum", err.Error())
	case stderrors.Is(err, analytics.ErrInvalidGranularity):
		return NewWithDetails(http.StatusBadRequest, "INVALID_GRANULARITY", "Granularity must be day or month", err.Error())
	case stderrors.Is(err, analytics.ErrInvalidWindow):
		return NewWithDetails(http.StatusBadRequest, "INVALID_PARAMETER", "Moving-average window must be positive", err.Error())
	case stderrors.Is(err, analytics.ErrUnknownField):
		return NewWithDetails(http.StatusBadRequest, "UNKNOWN_FIELD", "Unrecognized field name", err.Error())
	case stderrors.Is(err, analytics.ErrUnknownMetric):
		return NewWithDetails(http.StatusBadRequest, "INVALID_PARAMETER", "Unsupported aggregation function", err.Error())
	}
	return NewWithDetails(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", err.Error())
}
