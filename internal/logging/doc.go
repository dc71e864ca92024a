// Package logging wraps log/slog with the handlers and attribute helpers the
// pipeline uses for console and JSON output.
//
// The console handler renders one line per record (timestamp, level, component
// prefix, message, flattened key=value attrs) so stage progress stays readable
// when a run is watched interactively. The JSON handler is for log files and
// downstream tooling. Attribute constructors (String, Int, Error, ...) and the
// standardized field keys keep log call sites uniform across packages.
package logging
