package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"logsify/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newRecordMock(t *testing.T) (*RecordSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := NewRecordSQLite(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func sampleRecord(msg string) models.LogRecord {
	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	return models.LogRecord{
		AccountID: 1,
		TokenID:   2,
		Level:     models.LevelInfo,
		Namespace: models.DefaultNamespace,
		Message:   msg,
		Metadata:  map[string]any{},
		Timestamp: now,
		CreatedAt: now,
	}
}

func TestInsertMany_SingleTransaction(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newRecordMock(t)
	defer cleanup()

	recs := []models.LogRecord{sampleRecord("a"), sampleRecord("b")}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(insertRecordSQL))
	for range recs {
		prep.ExpectExec().
			WithArgs(1, 2, "info", "default", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	count, err := repo.InsertMany(ctx(t), recs)
	if err != nil {
		t.Fatalf("InsertMany: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

// A failing insert rolls the whole batch back: no partial commit.
func TestInsertMany_RollbackOnError(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newRecordMock(t)
	defer cleanup()

	recs := []models.LogRecord{sampleRecord("a"), sampleRecord("b")}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(insertRecordSQL))
	prep.ExpectExec().
		WithArgs(1, 2, "info", "default", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	count, err := repo.InsertMany(ctx(t), recs)
	if err == nil {
		t.Fatalf("expected error, got count=%d", count)
	}
	if count != 0 {
		t.Fatalf("expected zero count on failure, got %d", count)
	}
}

func TestInsertOne_ReturnsID(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newRecordMock(t)
	defer cleanup()

	rec := sampleRecord("hello")
	rec.Metadata = map[string]any{"k": "v"}

	mock.ExpectExec(regexp.QuoteMeta(insertRecordSQL)).
		WithArgs(1, 2, "info", "default", "hello", `{"k":"v"}`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(55, 1))

	id, err := repo.InsertOne(ctx(t), rec)
	if err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	if id != 55 {
		t.Fatalf("expected id 55, got %d", id)
	}
}

func TestList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newRecordMock(t)
	defer cleanup()

	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"a": "b"})

	rows := sqlmock.NewRows([]string{"id", "account_id", "token_id", "level", "namespace", "message", "metadata", "ts", "created_at"}).
		AddRow(1, 4, 2, "info", "default", "m1", string(js), now, now).
		AddRow(2, 4, 2, "error", "jobs", "m2", nil, now.Add(time.Hour), now.Add(time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, account_id, token_id, level, namespace, message, metadata, ts, created_at FROM log_records WHERE account_id = ? ORDER BY ts ASC`)).
		WithArgs(4).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), 4, time.Time{}, time.Time{}, "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected ids: %v, %v", got[0].ID, got[1].ID)
	}
	// metadata parsed
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", string(b1), string(js))
	}
	// nil metadata stays nil
	if got[1].Metadata != nil {
		t.Fatalf("expected nil metadata, got %#v", got[1].Metadata)
	}
}

func TestList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newRecordMock(t)
	defer cleanup()

	from := time.Date(2025, 8, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	query := `SELECT id, account_id, token_id, level, namespace, message, metadata, ts, created_at FROM log_records WHERE account_id = ? AND ts >= ? AND ts <= ? AND level = ? AND namespace = ? ORDER BY ts ASC`

	rows := sqlmock.NewRows([]string{"id", "account_id", "token_id", "level", "namespace", "message", "metadata", "ts", "created_at"}).
		AddRow(2, 4, 2, "error", "api", "b", nil, from, from).
		AddRow(3, 4, 2, "error", "api", "c", nil, to, to)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(4, from, to, "error", "api").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), 4, from, to, "error", "api")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()

	repo, mock, cleanup := newRecordMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "account_id", "token_id", "level", "namespace", "message", "metadata", "ts", "created_at"}).
		// ts wrong type to force scan error
		AddRow(1, 4, 2, "info", "default", "m", nil, "not-a-time-column-type", 123)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, account_id, token_id, level, namespace, message, metadata, ts, created_at FROM log_records WHERE account_id = ? ORDER BY ts ASC`)).
		WithArgs(4).
		WillReturnRows(rows)

	if _, err := repo.List(ctx(t), 4, time.Time{}, time.Time{}, "", ""); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
}
