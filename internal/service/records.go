package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"logsify/internal/models"
	"logsify/internal/repository"
)

// RecordFilter supports browsing by time range, severity and namespace.
type RecordFilter struct {
	From      time.Time // inclusive; zero means no lower bound
	To        time.Time // inclusive; zero means no upper bound
	Level     string    // "", or one of the five severities
	Namespace string
}

var (
	errInvalidTimeRange   = errors.New("invalid time range: From must be <= To")
	errInvalidLevelFilter = errors.New("invalid level filter")
)

type RecordQueryService struct {
	records repository.RecordStore
}

func NewRecordQueryService(records repository.RecordStore) *RecordQueryService {
	return &RecordQueryService{records: records}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func (s *RecordQueryService) List(ctx context.Context, accountID int, f RecordFilter) ([]models.LogRecord, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}

	level := strings.ToLower(strings.TrimSpace(f.Level))
	if level != "" && !models.ValidLevel(level) {
		return nil, errInvalidLevelFilter
	}

	return s.records.List(ctx, accountID, from, to, level, strings.TrimSpace(f.Namespace))
}
