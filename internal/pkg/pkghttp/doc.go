// Package pkghttp provides the outbound HTTP client used to talk to upstream
// data providers.
//
// Every request runs with a fixed timeout and through a gobreaker circuit
// breaker, so a failing upstream is reported quickly instead of piling up
// requests.
package pkghttp
