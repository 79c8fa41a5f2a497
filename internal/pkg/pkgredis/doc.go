// Package pkgredis builds go-redis clients with the pool settings shared by
// the application and verifies connectivity on start.
package pkgredis
