package service

import (
	"context"
	"errors"
	"time"

	"logsify/internal/models"
	"logsify/internal/repository"
)

// ErrInvalidBatch means at least one candidate failed validation. The
// whole batch is rejected; partial acceptance is never allowed.
var ErrInvalidBatch = errors.New("one or more records failed validation")

type IngestService struct {
	records repository.RecordStore
}

func NewIngestService(records repository.RecordStore) *IngestService {
	return &IngestService{records: records}
}

// IngestBatch validates every candidate, stamps the batch with the
// authenticated account/token and a shared receipt time, and persists it
// in one store call. All-or-nothing: on any validation failure zero
// records are persisted.
func (s *IngestService) IngestBatch(ctx context.Context, accountID, tokenID int, candidates []any) (int, error) {
	for _, c := range candidates {
		if !ValidateRecord(c) {
			return 0, ErrInvalidBatch
		}
	}

	now := time.Now().UTC()
	recs := make([]models.LogRecord, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, StampRecord(c.(map[string]any), accountID, tokenID, now))
	}
	return s.records.InsertMany(ctx, recs)
}

// IngestOne is the one-shot path: same validation and defaulting rules as
// the batch path, applied to a single record. Returns the persisted record
// with its assigned ID.
func (s *IngestService) IngestOne(ctx context.Context, accountID, tokenID int, candidate any) (models.LogRecord, error) {
	if !ValidateRecord(candidate) {
		return models.LogRecord{}, ErrInvalidBatch
	}
	rec := StampRecord(candidate.(map[string]any), accountID, tokenID, time.Now().UTC())
	id, err := s.records.InsertOne(ctx, rec)
	if err != nil {
		return models.LogRecord{}, err
	}
	rec.ID = id
	return rec, nil
}
