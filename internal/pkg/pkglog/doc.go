// Package pkglog sets up the process-wide slog logger: JSON output with "ts",
// "severity" and "file" keys, a service attribute, and the correlation ID of
// the current request or background run attached to every record.
package pkglog
