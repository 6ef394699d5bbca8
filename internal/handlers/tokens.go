package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"logsify/internal/service"

	"github.com/gin-gonic/gin"
)

// Request DTO for issuing a token.
type createTokenRequest struct {
	Label string `json:"label" binding:"required"`
}

// @Summary      Issue a token
// @Description  Mints a new issuance token for the signed-in account. The value is returned once; store it.
// @Tags         tokens
// @Accept       json
// @Produce      json
// @Param        body  body   createTokenRequest  true  "Token label"
// @Success      201  {object}  models.IssuanceToken
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/tokens [post]
// @Security     BearerAuth
func (h *Handler) createToken(c *gin.Context) {
	var input createTokenRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	accountID := c.GetInt(ctxAccountID)
	tok, err := h.services.Tokens.Issue(c.Request.Context(), accountID, input.Label)
	if err != nil {
		if errors.Is(err, service.ErrLabelRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if h.log != nil {
			h.log.Errorw("token_issue_failed", "err", err, "account_id", accountID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, tok)
}

// @Summary      List tokens
// @Tags         tokens
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, tokens"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/tokens [get]
// @Security     BearerAuth
func (h *Handler) listTokens(c *gin.Context) {
	accountID := c.GetInt(ctxAccountID)
	tokens, err := h.services.Tokens.List(c.Request.Context(), accountID)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("tokens_list_failed", "err", err, "account_id", accountID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(tokens),
		"tokens": tokens,
	})
}

// @Summary      Deactivate a token
// @Description  Soft-deletes a token; it stops authenticating immediately and is never reactivated.
// @Tags         tokens
// @Produce      json
// @Param        id  path  int  true  "Token ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/tokens/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteToken(c *gin.Context) {
	tokenID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token id"})
		return
	}

	accountID := c.GetInt(ctxAccountID)
	if err := h.services.Tokens.Deactivate(c.Request.Context(), accountID, tokenID); err != nil {
		if errors.Is(err, service.ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
			return
		}
		if h.log != nil {
			h.log.Errorw("token_deactivate_failed", "err", err, "account_id", accountID, "token_id", tokenID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}
