package service

import (
	"context"
	"errors"
	"strings"

	"logsify/internal/models"
	"logsify/internal/repository"
)

// ErrTokenRejected covers every authentication failure: malformed token
// syntax, unknown token, deactivated token, inactive owning account.
var ErrTokenRejected = errors.New("token rejected")

// TokenAuthService authenticates issuance tokens for both the persistent
// and the one-shot ingestion paths. Read-only: it never mutates token or
// account state.
type TokenAuthService struct {
	credentials repository.CredentialStore
	accounts    repository.AccountStore
}

func NewTokenAuthService(credentials repository.CredentialStore, accounts repository.AccountStore) *TokenAuthService {
	return &TokenAuthService{credentials: credentials, accounts: accounts}
}

// Authenticate resolves a raw token to its owning account and token row.
// Values that don't carry the "logs_" prefix are rejected without a store
// lookup. Deactivated tokens never authenticate, even if the value matches
// a formerly-active one: the lookup is filtered to active rows.
func (s *TokenAuthService) Authenticate(ctx context.Context, rawToken string) (*models.Account, *models.IssuanceToken, error) {
	if rawToken == "" || !strings.HasPrefix(rawToken, models.TokenPrefix) {
		return nil, nil, ErrTokenRejected
	}

	tok, err := s.credentials.LookupActive(ctx, rawToken)
	if err != nil {
		return nil, nil, err
	}
	if tok == nil {
		return nil, nil, ErrTokenRejected
	}

	acct, err := s.accounts.GetByID(tok.AccountID)
	if err != nil {
		return nil, nil, err
	}
	// A deactivated tenant must not keep ingesting through old tokens.
	if acct == nil || !acct.Active {
		return nil, nil, ErrTokenRejected
	}
	return acct, tok, nil
}
