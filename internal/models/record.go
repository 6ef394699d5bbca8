package models

import "time"

// Severity levels, ordered debug < info < warn < error < fatal.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelFatal = "fatal"
)

// Defaults applied when a candidate record omits the field.
const (
	DefaultLevel     = LevelInfo
	DefaultNamespace = "default"
)

// ValidLevel reports whether s is one of the five severities (case-sensitive).
func ValidLevel(s string) bool {
	switch s {
	case LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal:
		return true
	}
	return false
}

// LogRecord is one structured event. AccountID and TokenID are resolved
// from the authenticated connection at ingestion time, never from
// client-supplied fields. Records are immutable once persisted.
type LogRecord struct {
	ID        int       `json:"id"`
	AccountID int       `json:"account_id"`
	TokenID   int       `json:"token_id"`
	Level     string    `json:"level"`
	Namespace string    `json:"namespace"`
	Message   string    `json:"message"`
	Metadata  any       `json:"metadata,omitempty"`
	Timestamp time.Time `json:"timestamp"`  // client event time, or receipt time when absent
	CreatedAt time.Time `json:"created_at"` // server-assigned receipt time
}
