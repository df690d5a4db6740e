// Package logging constructs the application's slog loggers and provides
// typed attribute helpers plus standardized field keys shared across the
// pipeline. Console output renders single-line records for interactive use;
// JSON output is for log aggregation.
package logging
