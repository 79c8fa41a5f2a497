// Package pkgerror carries the application's structured error.
//
// An *Error pairs a client-facing message with a Type (server, business,
// validation, unavailable) and a Code, plus optional per-field details. The
// router maps Type and Code to an HTTP status; use IsCode or errors.As to
// branch on them in usecases and tests.
package pkgerror
