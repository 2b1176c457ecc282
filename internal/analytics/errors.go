package analytics

import "errors"

// Configuration errors. These reject a query descriptor before any
// computation runs; they are the only failures this package produces.
var (
	// ErrUnknownField indicates a group or filter key that is not part of
	// the record schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrUnknownMetric indicates an unsupported aggregation function.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrInvalidGranularity indicates a time-series granularity outside
	// {day, month}.
	ErrInvalidGranularity = errors.New("invalid granularity")

	// ErrInvalidRange indicates a malformed range constraint (min > max,
	// or start after end).
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidWindow indicates a non-positive moving-average window.
	ErrInvalidWindow = errors.New("invalid window")
)
