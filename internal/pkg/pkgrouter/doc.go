// Package pkgrouter is the HTTP edge: an httprouter-backed Router whose
// handlers return (payload, error). Payloads are wrapped in the
// {message, data, meta} envelope unless they implement RawResponse, and
// errors become {message, error} with the status taken from *pkgerror.Error.
//
// Every route runs behind panic recovery, correlation IDs, an access log and
// Prometheus request metrics.
package pkgrouter
