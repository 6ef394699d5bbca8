package handlers

import (
	"errors"
	"net/http"
	"strings"

	"logsify/internal/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middlewares.
const (
	ctxAccountID = "accountId"
	ctxTokenID   = "tokenId"
)

// splitBearer extracts the credential from an Authorization header.
func splitBearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// accountIdMiddleware guards the operator API with a JWT session token.
func (h *Handler) accountIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	accessToken, ok := splitBearer(header)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	accountId, err := h.services.Accounts.ParseToken(accessToken)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(ctxAccountID, accountId)
	c.Next()
}

// issuanceTokenMiddleware guards the one-shot ingestion path with an
// issuance token. The resolved account/token pair is attached to the
// request; client-supplied attribution fields are never trusted.
func (h *Handler) issuanceTokenMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	rawToken, ok := splitBearer(header)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	acct, tok, err := h.services.TokenAuth.Authenticate(c.Request.Context(), rawToken)
	if err != nil {
		if !errors.Is(err, service.ErrTokenRejected) && h.log != nil {
			h.log.Errorw("token_auth_lookup_failed", "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or inactive token",
		})
		return
	}

	c.Set(ctxAccountID, acct.ID)
	c.Set(ctxTokenID, tok.ID)
	c.Next()
}
