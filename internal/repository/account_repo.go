package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"logsify/internal/models"
)

type AccountSQLite struct {
	db *sql.DB
}

func NewAccountSQLite(db *sql.DB) *AccountSQLite {
	return &AccountSQLite{db: db}
}

// Ensure implementation of AccountStore interface at compile time.
var _ AccountStore = (*AccountSQLite)(nil)

const (
	insertAccountSQL           = `INSERT INTO accounts (username, display_name, password_hash, active, created_at) VALUES (?, ?, ?, 1, ?)`
	selectAccountByUsernameSQL = `SELECT id, username, display_name, password_hash, active, created_at FROM accounts WHERE username = ?`
	selectAccountByIDSQL       = `SELECT id, username, display_name, password_hash, active, created_at FROM accounts WHERE id = ?`
)

// Create inserts a new account and returns its ID.
func (r *AccountSQLite) Create(username, displayName, hash string) (int, error) {
	res, err := r.db.Exec(insertAccountSQL, username, displayName, hash, time.Now().UTC().Format(sqliteTimeLayout))
	if err != nil {
		return 0, fmt.Errorf("insert account %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for account %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches an account by username. Returns (nil, nil) if not found.
func (r *AccountSQLite) GetByUsername(username string) (*models.Account, error) {
	a, err := r.scanOne(r.db.QueryRow(selectAccountByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select account %q: %w", username, err)
	}
	return a, nil
}

// GetByID fetches an account by id. Returns (nil, nil) if not found.
func (r *AccountSQLite) GetByID(id int) (*models.Account, error) {
	a, err := r.scanOne(r.db.QueryRow(selectAccountByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select account id=%d: %w", id, err)
	}
	return a, nil
}

func (r *AccountSQLite) scanOne(row *sql.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Username, &a.DisplayName, &a.PasswordHash, &a.Active, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}
