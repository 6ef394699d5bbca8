package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"logsify/internal/service"
)

func TestAccountIdMiddleware(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		parseErr error
		wantCode int
		wantErr  string
	}{
		{"missing header", "", nil, http.StatusUnauthorized, "missing Authorization header"},
		{"not bearer", "Basic abc", nil, http.StatusUnauthorized, "invalid Authorization header format"},
		{"no token part", "Bearer", nil, http.StatusUnauthorized, "invalid Authorization header format"},
		{"expired token", "Bearer stale", errors.New("token expired"), http.StatusUnauthorized, "invalid or expired token"},
		{"valid token", "Bearer good", nil, http.StatusOK, ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			accounts := &mockAccounts{parseID: 7, parseErr: tc.parseErr}
			s := &service.Service{Accounts: accounts, Tokens: &mockTokens{}}
			r := newTestRouter(s)

			header := http.Header{}
			if tc.header != "" {
				header.Set("Authorization", tc.header)
			}
			w := doRequest(r, http.MethodGet, "/api/v1/tokens", nil, header)
			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d body=%s", tc.wantCode, w.Code, w.Body.String())
			}
			if tc.wantErr != "" {
				var m map[string]string
				_ = json.Unmarshal(w.Body.Bytes(), &m)
				if m["error"] != tc.wantErr {
					t.Fatalf("expected error %q, got %q", tc.wantErr, m["error"])
				}
			}
		})
	}
}

func TestIssuanceTokenMiddleware(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		authErr  error
		wantCode int
		wantErr  string
	}{
		{"missing header", "", nil, http.StatusUnauthorized, "missing Authorization header"},
		{"not bearer", "Token logs_x", nil, http.StatusUnauthorized, "invalid Authorization header format"},
		{"rejected token", "Bearer logs_bogus", service.ErrTokenRejected, http.StatusUnauthorized, "invalid or inactive token"},
		{"store failure", "Bearer logs_abc123", errors.New("db down"), http.StatusUnauthorized, "invalid or inactive token"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			auth := acceptedAuth()
			auth.err = tc.authErr
			if tc.authErr != nil {
				auth.account, auth.token = nil, nil
			}
			s := &service.Service{TokenAuth: auth, Ingest: &mockIngest{}}
			r := newTestRouter(s)

			header := http.Header{}
			if tc.header != "" {
				header.Set("Authorization", tc.header)
			}
			w := doRequest(r, http.MethodPost, "/api/v1/logs", []byte(`{"message":"x"}`), header)
			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d body=%s", tc.wantCode, w.Code, w.Body.String())
			}
			var m map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &m)
			if m["error"] != tc.wantErr {
				t.Fatalf("expected error %q, got %q", tc.wantErr, m["error"])
			}
		})
	}
}

// The raw header credential, prefix included, goes to the authenticator
// untouched.
func TestIssuanceTokenMiddleware_ForwardsRawToken(t *testing.T) {
	auth := acceptedAuth()
	s := &service.Service{TokenAuth: auth, Ingest: &mockIngest{}}
	r := newTestRouter(s)

	w := doRequest(r, http.MethodPost, "/api/v1/logs", []byte(`{"message":"x"}`), authHeader("logs_abc123"))
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if auth.lastRaw != "logs_abc123" {
		t.Fatalf("raw token mangled: %q", auth.lastRaw)
	}
}
