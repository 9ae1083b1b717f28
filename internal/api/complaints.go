package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/store"
)

// ComplaintHandler serves complaint endpoints.
type ComplaintHandler struct {
	repo ComplaintRepository
	log  *logrus.Logger
}

// NewComplaintHandler creates a ComplaintHandler with the given service and logger.
func NewComplaintHandler(repo ComplaintRepository, log *logrus.Logger) *ComplaintHandler {
	return &ComplaintHandler{repo: repo, log: log}
}

// List handles GET /v1/complaints.
func (h *ComplaintHandler) List(c *gin.Context) {
	opts := store.ComplaintListOpts{
		Status:  c.Query("status"),
		BatchID: c.Query("batch_id"),
		Limit:   parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset:  parseOffset(c.DefaultQuery("offset", "0")),
	}

	complaints, hasMore, err := h.repo.List(c.Request.Context(), opts)
	if err != nil {
		h.log.WithError(err).Error("listing complaints")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"complaints": complaints, "has_more": hasMore})
}

// Get handles GET /v1/complaints/:id.
func (h *ComplaintHandler) Get(c *gin.Context) {
	complaintID := c.Param("id")
	if err := validatePathID(complaintID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	complaint, err := h.repo.Get(c.Request.Context(), complaintID)
	if err != nil {
		if errors.Is(err, models.ErrComplaintNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "complaint not found")

			return
		}

		h.log.WithError(err).Error("getting complaint")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, complaint)
}

// Create handles POST /v1/complaints.
func (h *ComplaintHandler) Create(c *gin.Context) {
	var req models.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	complaint, err := h.repo.Create(c.Request.Context(), req, actor)
	if err != nil {
		if errors.Is(err, models.ErrBatchNotFound) {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "referenced batch does not exist")

			return
		}

		h.log.WithError(err).Error("creating complaint")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":       "complaint.create",
		"complaint_id": complaint.ID,
		"batch_id":     complaint.BatchID,
		"actor":        actor,
	}).Info("audit")

	c.JSON(http.StatusCreated, complaint)
}

// Update handles PATCH /v1/complaints/:id.
func (h *ComplaintHandler) Update(c *gin.Context) {
	complaintID := c.Param("id")
	if err := validatePathID(complaintID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	complaint, err := h.repo.Update(c.Request.Context(), complaintID, req, actor)
	if err != nil {
		if errors.Is(err, models.ErrComplaintNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "complaint not found")

			return
		}

		h.log.WithError(err).Error("updating complaint")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "complaint.update", "complaint_id": complaintID, "actor": actor}).Info("audit")

	c.JSON(http.StatusOK, complaint)
}

// Delete handles DELETE /v1/complaints/:id.
func (h *ComplaintHandler) Delete(c *gin.Context) {
	complaintID := c.Param("id")
	if err := validatePathID(complaintID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), complaintID, actor); err != nil {
		if errors.Is(err, models.ErrComplaintNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "complaint not found")

			return
		}

		h.log.WithError(err).Error("deleting complaint")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "complaint.delete", "complaint_id": complaintID, "actor": actor}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
