package repository

import (
	"context"
	"database/sql"
	"time"

	"logsify/internal/models"

	"logsify/internal/repository/db"
)

type AccountStore interface {
	Create(username, displayName, hash string) (int, error)
	GetByUsername(username string) (*models.Account, error)
	GetByID(id int) (*models.Account, error)
}

// CredentialStore maps issuance-token values to owning accounts.
// LookupActive is filtered to active tokens only.
type CredentialStore interface {
	LookupActive(ctx context.Context, value string) (*models.IssuanceToken, error)
	Create(ctx context.Context, t models.IssuanceToken) (int, error)
	ListByAccount(ctx context.Context, accountID int) ([]models.IssuanceToken, error)
	Deactivate(ctx context.Context, accountID, tokenID int) (bool, error)
}

// RecordStore is append-only persistence for log records, queryable by
// time range and attributes. InsertMany commits the batch atomically.
type RecordStore interface {
	InsertMany(ctx context.Context, recs []models.LogRecord) (int, error)
	InsertOne(ctx context.Context, rec models.LogRecord) (int, error)
	List(ctx context.Context, accountID int, from, to time.Time, level, namespace string) ([]models.LogRecord, error)
}

type Repository struct {
	Accounts    AccountStore
	Credentials CredentialStore
	Records     RecordStore
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Accounts:    NewAccountSQLite(sqlDB),
		Credentials: NewTokenSQLite(sqlDB),
		Records:     NewRecordSQLite(sqlDB),
	}
}

// InitDB re-exports the sqlite initializer so callers wire one package.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
