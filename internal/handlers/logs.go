package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"logsify/internal/models"
	"logsify/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errLevelInvalid = "invalid 'level'; use debug, info, warn, error or fatal"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List log records
// @Description  Filter the account's records by time range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'; a date-only 'to' is end-of-day inclusive), severity level and namespace.
// @Tags         logs
// @Produce      json
// @Param        from       query  string  false  "Start of range"  example(2025-08-01)
// @Param        to         query  string  false  "End of range; date-only treated as end of day"  example(2025-08-31)
// @Param        level      query  string  false  "Severity level"  Enums(debug,info,warn,error,fatal)
// @Param        namespace  query  string  false  "Namespace tag"
// @Success      200  {object}  map[string]interface{}  "count, records"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) listRecords(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from time.Time
		to   time.Time
		err  error
	)
	// Parse 'from' (optional)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	// Parse 'to' (optional). If only a date is provided, make it end-of-day inclusive.
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	// Validate range if both provided
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}

	level := strings.ToLower(strings.TrimSpace(c.Query("level")))
	if level != "" && !models.ValidLevel(level) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLevelInvalid})
		return
	}

	accountID := c.GetInt(ctxAccountID)
	records, err := h.services.Records.List(ctx, accountID, service.RecordFilter{
		From:      from,
		To:        to,
		Level:     level,
		Namespace: c.Query("namespace"),
	})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("records_list_failed", "err", err, "account_id", accountID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
	})
}

// @Summary      Ingest one record
// @Description  One-shot ingestion with an issuance token; same validation and defaulting rules as the stream path.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Success      201  {object}  models.LogRecord
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/logs [post]
// @Security     BearerAuth
func (h *Handler) ingestRecord(c *gin.Context) {
	var candidate any
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid format"})
		return
	}

	accountID := c.GetInt(ctxAccountID)
	tokenID := c.GetInt(ctxTokenID)
	rec, err := h.services.Ingest.IngestOne(c.Request.Context(), accountID, tokenID, candidate)
	if err != nil {
		if errors.Is(err, service.ErrInvalidBatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log format"})
			return
		}
		if h.log != nil {
			h.log.Errorw("record_ingest_failed", "err", err, "account_id", accountID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process logs"})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
