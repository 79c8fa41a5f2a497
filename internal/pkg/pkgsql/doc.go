// Package pkgsql opens pooled PostgreSQL connections through sqlx and lib/pq.
package pkgsql
