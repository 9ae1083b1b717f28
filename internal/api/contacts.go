package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/models"
)

// ContactHandler serves contact CRUD endpoints.
type ContactHandler struct {
	repo ContactRepository
	log  *logrus.Logger
}

// NewContactHandler creates a ContactHandler with the given store and logger.
func NewContactHandler(repo ContactRepository, log *logrus.Logger) *ContactHandler {
	return &ContactHandler{repo: repo, log: log}
}

// List handles GET /v1/contacts.
func (h *ContactHandler) List(c *gin.Context) {
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	contacts, hasMore, err := h.repo.ListContacts(c.Request.Context(), c.Query("q"), limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing contacts")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "has_more": hasMore})
}

// Get handles GET /v1/contacts/:id.
func (h *ContactHandler) Get(c *gin.Context) {
	contactID := c.Param("id")
	if err := validatePathID(contactID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	contact, err := h.repo.GetContact(c.Request.Context(), contactID)
	if err != nil {
		if errors.Is(err, models.ErrContactNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "contact not found")

			return
		}

		h.log.WithError(err).Error("getting contact")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, contact)
}

// Create handles POST /v1/contacts.
func (h *ContactHandler) Create(c *gin.Context) {
	var req models.CreateContactRequest
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

	contact, err := h.repo.CreateContact(c.Request.Context(), req)
	if err != nil {
		h.log.WithError(err).Error("creating contact")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "contact.create", "contact_id": contact.ID, "actor": actor}).Info("audit")

	c.JSON(http.StatusCreated, contact)
}

// Update handles PATCH /v1/contacts/:id.
func (h *ContactHandler) Update(c *gin.Context) {
	contactID := c.Param("id")
	if err := validatePathID(contactID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateContactRequest
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

	contact, err := h.repo.GetContact(c.Request.Context(), contactID)
	if err != nil {
		if errors.Is(err, models.ErrContactNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "contact not found")

			return
		}

		h.log.WithError(err).Error("getting contact for update")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Company != nil {
		contact.Company = *req.Company
	}

	updated, err := h.repo.UpdateContact(c.Request.Context(), contact)
	if err != nil {
		if errors.Is(err, models.ErrContactNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "contact not found")

			return
		}

		h.log.WithError(err).Error("updating contact")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "contact.update", "contact_id": contactID, "actor": actor}).Info("audit")

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/contacts/:id.
func (h *ContactHandler) Delete(c *gin.Context) {
	contactID := c.Param("id")
	if err := validatePathID(contactID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	if err := h.repo.DeleteContact(c.Request.Context(), contactID); err != nil {
		if errors.Is(err, models.ErrContactNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "contact not found")

			return
		}

		h.log.WithError(err).Error("deleting contact")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "contact.delete", "contact_id": contactID, "actor": actor}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
