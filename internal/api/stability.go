package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/models"
)

// StabilityHandler serves stability protocol and timepoint endpoints.
type StabilityHandler struct {
	repo StabilityRepository
	log  *logrus.Logger
}

// NewStabilityHandler creates a StabilityHandler with the given service and logger.
func NewStabilityHandler(repo StabilityRepository, log *logrus.Logger) *StabilityHandler {
	return &StabilityHandler{repo: repo, log: log}
}

// ListProtocols handles GET /v1/stability/protocols.
func (h *StabilityHandler) ListProtocols(c *gin.Context) {
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	protocols, hasMore, err := h.repo.ListProtocols(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing protocols")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"protocols": protocols, "has_more": hasMore})
}

// GetProtocol handles GET /v1/stability/protocols/:id.
func (h *StabilityHandler) GetProtocol(c *gin.Context) {
	protocolID := c.Param("id")
	if err := validatePathID(protocolID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	p, err := h.repo.GetProtocol(c.Request.Context(), protocolID)
	if err != nil {
		if errors.Is(err, models.ErrProtocolNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "protocol not found")

			return
		}

		h.log.WithError(err).Error("getting protocol")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, p)
}

// CreateProtocol handles POST /v1/stability/protocols. The response
// carries the created protocol plus the planning result, including any
// schedule labels that could not be parsed.
func (h *StabilityHandler) CreateProtocol(c *gin.Context) {
	var req models.CreateProtocolRequest
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

	p, plan, err := h.repo.CreateProtocol(c.Request.Context(), req, actor)
	if err != nil {
		h.log.WithError(err).Error("creating protocol")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "protocol.create", "protocol_id": p.ID, "actor": actor}).Info("audit")

	c.JSON(http.StatusCreated, gin.H{"protocol": p, "plan": plan})
}

// UpdateProtocol handles PATCH /v1/stability/protocols/:id. When the
// start date or schedule changes, timepoints are re-planned and the
// result is included in the response; otherwise plan is null.
func (h *StabilityHandler) UpdateProtocol(c *gin.Context) {
	protocolID := c.Param("id")
	if err := validatePathID(protocolID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateProtocolRequest
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

	p, plan, err := h.repo.UpdateProtocol(c.Request.Context(), protocolID, req, actor)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrProtocolNotFound):
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "protocol not found")
		case errors.Is(err, models.ErrMissingStartDate):
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		default:
			h.log.WithError(err).Error("updating protocol")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}

		return
	}

	h.log.WithFields(logrus.Fields{"action": "protocol.update", "protocol_id": protocolID, "actor": actor}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"protocol": p, "plan": plan})
}

// DeleteProtocol handles DELETE /v1/stability/protocols/:id.
func (h *StabilityHandler) DeleteProtocol(c *gin.Context) {
	protocolID := c.Param("id")
	if err := validatePathID(protocolID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	if err := h.repo.DeleteProtocol(c.Request.Context(), protocolID, actor); err != nil {
		if errors.Is(err, models.ErrProtocolNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "protocol not found")

			return
		}

		h.log.WithError(err).Error("deleting protocol")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "protocol.delete", "protocol_id": protocolID, "actor": actor}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Plan handles POST /v1/stability/protocols/:id/plan. It expands the
// protocol's schedule into planned timepoints and upserts them without
// touching recorded actual dates.
func (h *StabilityHandler) Plan(c *gin.Context) {
	protocolID := c.Param("id")
	if err := validatePathID(protocolID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	plan, err := h.repo.Plan(c.Request.Context(), protocolID, actor)
	if err != nil {
		if errors.Is(err, models.ErrProtocolNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "protocol not found")

			return
		}

		h.log.WithError(err).Error("planning timepoints")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":      "protocol.plan",
		"protocol_id": protocolID,
		"planned":     len(plan.Planned),
		"errors":      len(plan.Errors),
		"actor":       actor,
	}).Info("audit")

	c.JSON(http.StatusOK, plan)
}

// Timepoints handles GET /v1/stability/protocols/:id/timepoints.
func (h *StabilityHandler) Timepoints(c *gin.Context) {
	protocolID := c.Param("id")
	if err := validatePathID(protocolID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	tps, err := h.repo.Timepoints(c.Request.Context(), protocolID)
	if err != nil {
		if errors.Is(err, models.ErrProtocolNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "protocol not found")

			return
		}

		h.log.WithError(err).Error("listing timepoints")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"timepoints": tps})
}

type recordActualRequest struct {
	ActualDate models.Date `json:"actual_date"`
}

// RecordActual handles PUT /v1/stability/protocols/:id/timepoints/:label/actual.
func (h *StabilityHandler) RecordActual(c *gin.Context) {
	protocolID := c.Param("id")
	label := c.Param("label")
	if err := validatePathID(protocolID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}
	if label == "" {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "timepoint label is required")

		return
	}

	var req recordActualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	tp, err := h.repo.RecordActual(c.Request.Context(), protocolID, label, req.ActualDate, actor)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrProtocolNotFound):
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "timepoint not found")
		case errors.Is(err, models.ErrMissingStartDate):
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "actual_date is required")
		default:
			h.log.WithError(err).Error("recording actual date")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":      "timepoint.actual",
		"protocol_id": protocolID,
		"label":       label,
		"actor":       actor,
	}).Info("audit")

	c.JSON(http.StatusOK, tp)
}
