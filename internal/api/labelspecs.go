package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/models"
)

// LabelSpecHandler serves label spec endpoints. Lot number and expiry
// date derivation happens in the service layer.
type LabelSpecHandler struct {
	repo LabelSpecRepository
	log  *logrus.Logger
}

// NewLabelSpecHandler creates a LabelSpecHandler with the given service and logger.
func NewLabelSpecHandler(repo LabelSpecRepository, log *logrus.Logger) *LabelSpecHandler {
	return &LabelSpecHandler{repo: repo, log: log}
}

// List handles GET /v1/labelspecs.
func (h *LabelSpecHandler) List(c *gin.Context) {
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	specs, hasMore, err := h.repo.List(c.Request.Context(), c.Query("batch_id"), limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing label specs")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"label_specs": specs, "has_more": hasMore})
}

// Get handles GET /v1/labelspecs/:id.
func (h *LabelSpecHandler) Get(c *gin.Context) {
	specID := c.Param("id")
	if err := validatePathID(specID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	spec, err := h.repo.Get(c.Request.Context(), specID)
	if err != nil {
		if errors.Is(err, models.ErrLabelSpecNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "label spec not found")

			return
		}

		h.log.WithError(err).Error("getting label spec")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, spec)
}

// Create handles POST /v1/labelspecs.
func (h *LabelSpecHandler) Create(c *gin.Context) {
	var req models.CreateLabelSpecRequest
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

	spec, err := h.repo.Create(c.Request.Context(), req, actor)
	if err != nil {
		h.log.WithError(err).Error("creating label spec")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":  "labelspec.create",
		"spec_id": spec.ID,
		"lot":     spec.LotNumber,
		"actor":   actor,
	}).Info("audit")

	c.JSON(http.StatusCreated, spec)
}

// Update handles PATCH /v1/labelspecs/:id.
func (h *LabelSpecHandler) Update(c *gin.Context) {
	specID := c.Param("id")
	if err := validatePathID(specID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateLabelSpecRequest
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

	spec, err := h.repo.Update(c.Request.Context(), specID, req, actor)
	if err != nil {
		if errors.Is(err, models.ErrLabelSpecNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "label spec not found")

			return
		}

		h.log.WithError(err).Error("updating label spec")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":  "labelspec.update",
		"spec_id": specID,
		"lot":     spec.LotNumber,
		"actor":   actor,
	}).Info("audit")

	c.JSON(http.StatusOK, spec)
}

// Delete handles DELETE /v1/labelspecs/:id.
func (h *LabelSpecHandler) Delete(c *gin.Context) {
	specID := c.Param("id")
	if err := validatePathID(specID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), specID, actor); err != nil {
		if errors.Is(err, models.ErrLabelSpecNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "label spec not found")

			return
		}

		h.log.WithError(err).Error("deleting label spec")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "labelspec.delete", "spec_id": specID, "actor": actor}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
