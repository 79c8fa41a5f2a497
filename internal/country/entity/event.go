package entity

import "time"

// SnapshotEvent carries the full store contents after a successful refresh
// to the summary reporter.
type SnapshotEvent struct {
	EventID       string
	CorrelationID string
	Countries     []Country
	GeneratedAt   time.Time
}
