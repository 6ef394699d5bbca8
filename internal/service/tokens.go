package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"logsify/internal/models"
	"logsify/internal/repository"
)

// Domain errors for token management.
var (
	ErrTokenNotFound = errors.New("token not found")
	ErrLabelRequired = errors.New("label is required")
)

const tokenRandomBytes = 12 // 24 hex chars behind the "logs_" prefix

type TokenService struct {
	credentials repository.CredentialStore
}

func NewTokenService(credentials repository.CredentialStore) *TokenService {
	return &TokenService{credentials: credentials}
}

// Issue mints a new issuance token for the account. Uniqueness of the
// value is delegated to the store's UNIQUE constraint.
func (s *TokenService) Issue(ctx context.Context, accountID int, label string) (models.IssuanceToken, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return models.IssuanceToken{}, ErrLabelRequired
	}

	buf := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return models.IssuanceToken{}, fmt.Errorf("generate token value: %w", err)
	}

	t := models.IssuanceToken{
		AccountID: accountID,
		Value:     models.TokenPrefix + hex.EncodeToString(buf),
		Label:     label,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.credentials.Create(ctx, t)
	if err != nil {
		return models.IssuanceToken{}, err
	}
	t.ID = id
	return t, nil
}

// List returns every token the account has issued, deactivated included.
func (s *TokenService) List(ctx context.Context, accountID int) ([]models.IssuanceToken, error) {
	return s.credentials.ListByAccount(ctx, accountID)
}

// Deactivate soft-deletes a token. Tokens of other accounts look identical
// to unknown ids: both report ErrTokenNotFound.
func (s *TokenService) Deactivate(ctx context.Context, accountID, tokenID int) error {
	ok, err := s.credentials.Deactivate(ctx, accountID, tokenID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenNotFound
	}
	return nil
}
