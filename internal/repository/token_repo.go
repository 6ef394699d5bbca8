package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"logsify/internal/models"
)

type TokenSQLite struct {
	db *sql.DB
}

func NewTokenSQLite(db *sql.DB) *TokenSQLite { return &TokenSQLite{db: db} }

var _ CredentialStore = (*TokenSQLite)(nil)

const (
	insertTokenSQL           = `INSERT INTO issuance_tokens (account_id, value, label, active, created_at) VALUES (?, ?, ?, 1, ?)`
	selectActiveTokenSQL     = `SELECT id, account_id, value, label, active, created_at FROM issuance_tokens WHERE value = ? AND active = 1`
	selectTokensByAccountSQL = `SELECT id, account_id, value, label, active, created_at FROM issuance_tokens WHERE account_id = ? ORDER BY created_at ASC`
	deactivateTokenSQL       = `UPDATE issuance_tokens SET active = 0 WHERE id = ? AND account_id = ? AND active = 1`
)

// LookupActive resolves a token value to its row, filtered to active
// tokens. Returns (nil, nil) when no active token carries the value.
func (r *TokenSQLite) LookupActive(ctx context.Context, value string) (*models.IssuanceToken, error) {
	var t models.IssuanceToken
	err := r.db.QueryRowContext(ctx, selectActiveTokenSQL, value).
		Scan(&t.ID, &t.AccountID, &t.Value, &t.Label, &t.Active, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

// Create inserts a new token and returns its ID. Uniqueness of the value
// is enforced by the store's UNIQUE column.
func (r *TokenSQLite) Create(ctx context.Context, t models.IssuanceToken) (int, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, insertTokenSQL,
		t.AccountID, t.Value, t.Label, t.CreatedAt.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return 0, fmt.Errorf("insert token for account %d: %w", t.AccountID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for token: %w", err)
	}
	return int(lastID), nil
}

// ListByAccount returns every token the account has ever issued,
// deactivated ones included.
func (r *TokenSQLite) ListByAccount(ctx context.Context, accountID int) ([]models.IssuanceToken, error) {
	rows, err := r.db.QueryContext(ctx, selectTokensByAccountSQL, accountID)
	if err != nil {
		return nil, fmt.Errorf("list tokens for account %d: %w", accountID, err)
	}
	defer rows.Close()

	out := make([]models.IssuanceToken, 0, 8)
	for rows.Next() {
		var t models.IssuanceToken
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Value, &t.Label, &t.Active, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.CreatedAt = t.CreatedAt.UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Deactivate soft-deletes a token owned by the account. Reports whether a
// row was updated; tokens are never physically deleted or reactivated.
func (r *TokenSQLite) Deactivate(ctx context.Context, accountID, tokenID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, deactivateTokenSQL, tokenID, accountID)
	if err != nil {
		return false, fmt.Errorf("deactivate token %d: %w", tokenID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for token %d: %w", tokenID, err)
	}
	return n > 0, nil
}
