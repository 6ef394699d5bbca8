package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"logsify/internal/models"
)

// SQLite TIMESTAMP format "YYYY-MM-DD HH:MM:SS"
const sqliteTimeLayout = "2006-01-02 15:04:05"

type RecordSQLite struct {
	db *sql.DB
}

func NewRecordSQLite(db *sql.DB) *RecordSQLite { return &RecordSQLite{db: db} }

var _ RecordStore = (*RecordSQLite)(nil)

const insertRecordSQL = `INSERT INTO log_records (account_id, token_id, level, namespace, message, metadata, ts, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// marshalMetadata serializes metadata for the TEXT column; nil stays NULL.
func marshalMetadata(v any) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// InsertMany persists the batch in a single transaction: either every
// record is committed or none is.
func (r *RecordSQLite) InsertMany(ctx context.Context, recs []models.LogRecord) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertRecordSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx,
			rec.AccountID,
			rec.TokenID,
			rec.Level,
			rec.Namespace,
			rec.Message,
			marshalMetadata(rec.Metadata),
			rec.Timestamp.UTC().Format(sqliteTimeLayout),
			rec.CreatedAt.UTC().Format(sqliteTimeLayout),
		); err != nil {
			return 0, fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert transaction: %w", err)
	}
	return len(recs), nil
}

// InsertOne persists a single record and returns its ID.
func (r *RecordSQLite) InsertOne(ctx context.Context, rec models.LogRecord) (int, error) {
	res, err := r.db.ExecContext(ctx, insertRecordSQL,
		rec.AccountID,
		rec.TokenID,
		rec.Level,
		rec.Namespace,
		rec.Message,
		marshalMetadata(rec.Metadata),
		rec.Timestamp.UTC().Format(sqliteTimeLayout),
		rec.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for record: %w", err)
	}
	return int(lastID), nil
}

// List returns the account's records filtered by [from, to] (inclusive),
// level and namespace, ordered by event time ASC.
func (r *RecordSQLite) List(ctx context.Context, accountID int, from, to time.Time, level, namespace string) ([]models.LogRecord, error) {
	conds := []string{"account_id = ?"}
	args := []any{accountID}

	if !from.IsZero() {
		conds = append(conds, "ts >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "ts <= ?")
		args = append(args, to.UTC())
	}
	if level != "" {
		conds = append(conds, "level = ?")
		args = append(args, level)
	}
	if namespace != "" {
		conds = append(conds, "namespace = ?")
		args = append(args, namespace)
	}

	q := `SELECT id, account_id, token_id, level, namespace, message, metadata, ts, created_at FROM log_records`
	q += " WHERE " + strings.Join(conds, " AND ")
	q += " ORDER BY ts ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.LogRecord, 0, 64)
	for rows.Next() {
		var rec models.LogRecord
		var metaStr sql.NullString
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.TokenID, &rec.Level, &rec.Namespace, &rec.Message, &metaStr, &rec.Timestamp, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Timestamp = rec.Timestamp.UTC()
		rec.CreatedAt = rec.CreatedAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				rec.Metadata = v
			} else {
				rec.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
