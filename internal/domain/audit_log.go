package domain

import "time"

// AuditLog is an audit log entry. No source currently populates it; the
// snapshot keeps the slot so the report shape stays stable.
type AuditLog struct {
	Action    string
	Actor     string
	CreatedAt time.Time
}
