// Package logging builds the slog loggers used across papercast.
//
// Console output uses the text handler, machine-readable output the JSON
// handler; both honor the configured level and can fan out to multiple
// writers (stderr plus a log file under the configured log directory).
package logging
