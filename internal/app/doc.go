// Package app wires configuration, logging, telemetry, dataset loading,
// and the HTTP server into a runnable application.
package app
