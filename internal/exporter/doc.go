// Package exporter writes derived analytical tables to CSV files and
// multi-sheet Excel workbooks. It consumes the generic table shape and
// knows nothing about how a table was computed.
package exporter
