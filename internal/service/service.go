package service

import (
	"context"
	"time"

	"logsify/internal/models"
	"logsify/internal/repository"
)

// Accounts handles operator (tenant) sign-up, sign-in and JWT parsing.
type Accounts interface {
	SignUp(username, displayName, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// TokenAuth is the connection authenticator: it resolves a raw issuance
// token to its owning account before any record traffic is allowed.
type TokenAuth interface {
	Authenticate(ctx context.Context, rawToken string) (*models.Account, *models.IssuanceToken, error)
}

// Ingest validates, stamps and persists candidate log records.
type Ingest interface {
	IngestBatch(ctx context.Context, accountID, tokenID int, candidates []any) (int, error)
	IngestOne(ctx context.Context, accountID, tokenID int, candidate any) (models.LogRecord, error)
}

// Records exposes the append-only record log with filtered access.
type Records interface {
	List(ctx context.Context, accountID int, f RecordFilter) ([]models.LogRecord, error)
}

// Tokens manages an account's issuance tokens (issue, list, soft-delete).
type Tokens interface {
	Issue(ctx context.Context, accountID int, label string) (models.IssuanceToken, error)
	List(ctx context.Context, accountID int) ([]models.IssuanceToken, error)
	Deactivate(ctx context.Context, accountID, tokenID int) error
}

// Config carries the knobs services need from the config file.
type Config struct {
	SigningKey string
	TokenTTL   time.Duration
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Accounts
	TokenAuth
	Ingest
	Records
	Tokens
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	return &Service{
		Accounts:  NewAccountService(repos.Accounts, cfg.SigningKey, cfg.TokenTTL),
		TokenAuth: NewTokenAuthService(repos.Credentials, repos.Accounts),
		Ingest:    NewIngestService(repos.Records),
		Records:   NewRecordQueryService(repos.Records),
		Tokens:    NewTokenService(repos.Credentials),
	}
}
