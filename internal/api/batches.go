package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/store"
)

// BatchHandler serves batch CRUD and attachment endpoints.
type BatchHandler struct {
	repo        BatchRepository
	attachments AttachmentRepository
	log         *logrus.Logger
	maxUpload   int64
}

// NewBatchHandler creates a BatchHandler with the given stores and upload limit.
func NewBatchHandler(repo BatchRepository, attachments AttachmentRepository, log *logrus.Logger, maxUpload int64) *BatchHandler {
	return &BatchHandler{repo: repo, attachments: attachments, log: log, maxUpload: maxUpload}
}

// List handles GET /v1/batches.
func (h *BatchHandler) List(c *gin.Context) {
	opts := store.BatchListOpts{
		Status:  c.Query("status"),
		Product: c.Query("product"),
		Limit:   parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset:  parseOffset(c.DefaultQuery("offset", "0")),
	}

	batches, hasMore, err := h.repo.ListBatches(c.Request.Context(), opts)
	if err != nil {
		h.log.WithError(err).Error("listing batches")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"batches": batches, "has_more": hasMore})
}

// Get handles GET /v1/batches/:id.
func (h *BatchHandler) Get(c *gin.Context) {
	batchID := c.Param("id")
	if err := validatePathID(batchID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	batch, err := h.repo.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		if errors.Is(err, models.ErrBatchNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "batch not found")

			return
		}

		h.log.WithError(err).Error("getting batch")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, batch)
}

// Create handles POST /v1/batches.
func (h *BatchHandler) Create(c *gin.Context) {
	var req models.CreateBatchRequest
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

	batch, err := h.repo.CreateBatch(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			respondError(c, http.StatusConflict, ErrCodeConflict, "batch already exists")

			return
		}

		h.log.WithError(err).Error("creating batch")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "batch.create", "batch_id": batch.ID, "actor": actor}).Info("audit")

	c.JSON(http.StatusCreated, batch)
}

// Update handles PATCH /v1/batches/:id.
func (h *BatchHandler) Update(c *gin.Context) {
	batchID := c.Param("id")
	if err := validatePathID(batchID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateBatchRequest
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

	batch, err := h.repo.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		if errors.Is(err, models.ErrBatchNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "batch not found")

			return
		}

		h.log.WithError(err).Error("getting batch for update")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	if req.Product != nil {
		batch.Product = *req.Product
	}
	if req.BatchDate != nil {
		batch.BatchDate = *req.BatchDate
	}
	if req.ShelfLifeMonths != nil {
		batch.ShelfLifeMonths = *req.ShelfLifeMonths
	}
	if req.Status != nil {
		batch.Status = *req.Status
	}

	updated, err := h.repo.UpdateBatch(c.Request.Context(), batch)
	if err != nil {
		if errors.Is(err, models.ErrBatchNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "batch not found")

			return
		}

		h.log.WithError(err).Error("updating batch")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "batch.update", "batch_id": batchID, "actor": actor}).Info("audit")

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/batches/:id.
func (h *BatchHandler) Delete(c *gin.Context) {
	batchID := c.Param("id")
	if err := validatePathID(batchID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	if err := h.repo.DeleteBatch(c.Request.Context(), batchID); err != nil {
		if errors.Is(err, models.ErrBatchNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "batch not found")

			return
		}

		h.log.WithError(err).Error("deleting batch")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "batch.delete", "batch_id": batchID, "actor": actor}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListAttachments handles GET /v1/batches/:id/attachments.
func (h *BatchHandler) ListAttachments(c *gin.Context) {
	batchID := c.Param("id")
	if err := validatePathID(batchID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	atts, err := h.attachments.ListAttachments(c.Request.Context(), batchID)
	if err != nil {
		h.log.WithError(err).Error("listing attachments")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"attachments": atts})
}

// UploadAttachment handles POST /v1/batches/:id/attachments. The file
// arrives as multipart form data under the "file" field; an optional
// "kind" field tags the document type (coa, photo, label_proof).
func (h *BatchHandler) UploadAttachment(c *gin.Context) {
	batchID := c.Param("id")
	if err := validatePathID(batchID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "multipart file field is required")

		return
	}

	if fileHeader.Size > h.maxUpload {
		respondError(c, http.StatusRequestEntityTooLarge, ErrCodeInvalidRequest,
			fmt.Sprintf("file exceeds maximum size of %d bytes", h.maxUpload))

		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.log.WithError(err).Error("opening uploaded file")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		h.log.WithError(err).Error("reading uploaded file")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}
	if int64(len(data)) > h.maxUpload {
		respondError(c, http.StatusRequestEntityTooLarge, ErrCodeInvalidRequest,
			fmt.Sprintf("file exceeds maximum size of %d bytes", h.maxUpload))

		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	att, err := h.attachments.StoreAttachment(
		c.Request.Context(), batchID, c.PostForm("kind"), fileHeader.Filename, contentType, data,
	)
	if err != nil {
		if errors.Is(err, models.ErrBatchNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "batch not found")

			return
		}

		h.log.WithError(err).Error("storing attachment")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":        "attachment.upload",
		"batch_id":      batchID,
		"attachment_id": att.ID,
		"size_bytes":    att.SizeBytes,
		"actor":         actor,
	}).Info("audit")

	c.JSON(http.StatusCreated, att)
}

// DownloadAttachment handles GET /v1/batches/:id/attachments/:attID/download.
// This route is unauthenticated so printed labels can link directly to
// documents.
func (h *BatchHandler) DownloadAttachment(c *gin.Context) {
	batchID := c.Param("id")
	attID := c.Param("attID")
	if err := validatePathID(batchID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}
	if err := validatePathID(attID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	att, data, err := h.attachments.GetAttachmentData(c.Request.Context(), batchID, attID)
	if err != nil {
		if errors.Is(err, models.ErrAttachmentNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "attachment not found")

			return
		}

		h.log.WithError(err).Error("loading attachment")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Name))
	c.Data(http.StatusOK, att.ContentType, data)
}

// DeleteAttachment handles DELETE /v1/batches/:id/attachments/:attID.
func (h *BatchHandler) DeleteAttachment(c *gin.Context) {
	batchID := c.Param("id")
	attID := c.Param("attID")
	if err := validatePathID(batchID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}
	if err := validatePathID(attID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	if err := h.attachments.DeleteAttachment(c.Request.Context(), batchID, attID); err != nil {
		if errors.Is(err, models.ErrAttachmentNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "attachment not found")

			return
		}

		h.log.WithError(err).Error("deleting attachment")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":        "attachment.delete",
		"batch_id":      batchID,
		"attachment_id": attID,
		"actor":         actor,
	}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
