// Package logging builds slog loggers for cratepress with console and JSON
// output formats and shared attribute helpers.
package logging
