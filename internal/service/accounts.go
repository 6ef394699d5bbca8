package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"logsify/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Domain errors for operator auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account is deactivated")
	ErrInvalidToken    = errors.New("invalid token")
)

// AccountService handles operator sign-up/sign-in and JWT session tokens.
type AccountService struct {
	accounts   repository.AccountStore
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAccountService(accounts repository.AccountStore, signingKey string, tokenTTL time.Duration) *AccountService {
	return &AccountService{
		accounts:   accounts,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}
}

// SignUp hashes the password and creates a new account. An empty display
// name falls back to the username.
func (s *AccountService) SignUp(username, displayName, password string) (int, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}
	return s.accounts.Create(username, displayName, hash)
}

// Claims defines JWT claims for operator sessions.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int `json:"account_id"`
}

// GenerateToken validates credentials and returns a signed JWT.
func (s *AccountService) GenerateToken(username, password string) (string, error) {
	a, err := s.accounts.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", ErrAccountNotFound
	}
	if !a.Active {
		return "", ErrAccountInactive
	}

	if err := verifyPassword(a.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(a.ID)
}

// ParseToken parses a JWT and returns the account ID.
func (s *AccountService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.AccountID, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for an account
func (s *AccountService) issueToken(accountID int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		AccountID: accountID,
	})
	return token.SignedString(s.signingKey)
}
