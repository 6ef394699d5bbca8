package service

import (
	"time"

	"logsify/internal/models"
)

// Field keys of a candidate record as sent by clients.
const (
	fieldMessage   = "message"
	fieldLevel     = "level"
	fieldNamespace = "namespace"
	fieldMetadata  = "metadata"
	fieldTimestamp = "timestamp"
)

// Accepted event-time layouts, normalized to UTC.
var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseEventTime parses a client-supplied timestamp value: a string in one
// of the accepted layouts, or a JSON number taken as epoch milliseconds.
func parseEventTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		for _, layout := range eventTimeLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UTC(), true
			}
		}
	case float64:
		return time.UnixMilli(int64(t)).UTC(), true
	}
	return time.Time{}, false
}

// ValidateRecord checks a decoded candidate against the record schema.
// Pure and total: malformed input evaluates to false, never panics.
func ValidateRecord(candidate any) bool {
	m, ok := candidate.(map[string]any)
	if !ok {
		return false
	}
	msg, ok := m[fieldMessage].(string)
	if !ok || msg == "" {
		return false
	}
	if v, present := m[fieldLevel]; present {
		s, ok := v.(string)
		if !ok || !models.ValidLevel(s) {
			return false
		}
	}
	if v, present := m[fieldNamespace]; present {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	if v, present := m[fieldMetadata]; present {
		if _, ok := v.(map[string]any); !ok {
			return false
		}
	}
	if v, present := m[fieldTimestamp]; present {
		// a present but unparsable timestamp rejects the record; only an
		// absent timestamp is defaulted to receipt time later
		if _, ok := parseEventTime(v); !ok {
			return false
		}
	}
	return true
}

// StampRecord converts a validated candidate into a LogRecord owned by the
// authenticated account/token pair, filling in defaults: level "info",
// namespace "default", empty metadata, timestamp = receipt time when absent.
func StampRecord(candidate map[string]any, accountID, tokenID int, now time.Time) models.LogRecord {
	rec := models.LogRecord{
		AccountID: accountID,
		TokenID:   tokenID,
		Level:     models.DefaultLevel,
		Namespace: models.DefaultNamespace,
		Metadata:  map[string]any{},
		Timestamp: now,
		CreatedAt: now,
	}
	rec.Message, _ = candidate[fieldMessage].(string)
	if s, ok := candidate[fieldLevel].(string); ok {
		rec.Level = s
	}
	if s, ok := candidate[fieldNamespace].(string); ok {
		rec.Namespace = s
	}
	if m, ok := candidate[fieldMetadata].(map[string]any); ok {
		rec.Metadata = m
	}
	if v, present := candidate[fieldTimestamp]; present {
		if ts, ok := parseEventTime(v); ok {
			rec.Timestamp = ts
		}
	}
	return rec
}
