// Package outbound talks to the upstream country directory and exchange rate
// services. Both clients go through pkghttp, so every call is bounded by a
// timeout and guarded by a per-source circuit breaker.
package outbound
