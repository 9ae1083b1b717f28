package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/models"
)

// defaultRetentionDays is used when a purge request does not name a
// retention window.
const defaultRetentionDays = 365

// ActivityHandler serves the activity log endpoints.
type ActivityHandler struct {
	repo ActivityRepository
	log  *logrus.Logger
}

// NewActivityHandler creates an ActivityHandler with the given service and logger.
func NewActivityHandler(repo ActivityRepository, log *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{repo: repo, log: log}
}

// Query handles GET /v1/activity. Entries come back newest first; the
// response includes has_more for cursor-free paging.
func (h *ActivityHandler) Query(c *gin.Context) {
	opts := models.ActivityQueryOpts{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Field:      c.Query("field"),
		Action:     c.Query("action"),
		Actor:      c.Query("actor"),
		Limit:      parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset:     parseOffset(c.DefaultQuery("offset", "0")),
	}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "since must be an RFC 3339 timestamp")

			return
		}
		opts.Since = &t
	}

	records, hasMore, err := h.repo.Query(c.Request.Context(), opts)
	if err != nil {
		h.log.WithError(err).Error("querying activity log")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": records, "has_more": hasMore})
}

// Record handles POST /v1/activity. Most entries are written by the
// services; this endpoint covers manual notes and external integrations.
func (h *ActivityHandler) Record(c *gin.Context) {
	var req models.RecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}
	if req.Actor == "" {
		req.Actor = actor
	}

	record, err := h.repo.Record(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMissingEntityID),
			errors.Is(err, models.ErrMissingEntityType),
			errors.Is(err, models.ErrMissingField),
			errors.Is(err, models.ErrMissingAction):
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		default:
			h.log.WithError(err).Error("recording activity")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}

		return
	}

	c.JSON(http.StatusCreated, record)
}

// Purge handles DELETE /v1/activity. It removes entries older than the
// retention window given by the retention_days query parameter.
func (h *ActivityHandler) Purge(c *gin.Context) {
	retentionDays := defaultRetentionDays
	if raw := c.Query("retention_days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "retention_days must be a positive integer")

			return
		}
		retentionDays = v
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	purged, err := h.repo.PurgeOldEntries(c.Request.Context(), retentionDays)
	if err != nil {
		h.log.WithError(err).Error("purging activity log")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":         "activity.purge",
		"retention_days": retentionDays,
		"purged":         purged,
		"actor":          actor,
	}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"purged": purged})
}
