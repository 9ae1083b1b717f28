package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/store"
)

// TaskHandler serves task CRUD endpoints.
type TaskHandler struct {
	repo TaskRepository
	log  *logrus.Logger
}

// NewTaskHandler creates a TaskHandler with the given service and logger.
func NewTaskHandler(repo TaskRepository, log *logrus.Logger) *TaskHandler {
	return &TaskHandler{repo: repo, log: log}
}

// List handles GET /v1/tasks.
func (h *TaskHandler) List(c *gin.Context) {
	opts := store.TaskListOpts{
		Status:   c.Query("status"),
		Assignee: c.Query("assignee"),
		Search:   c.Query("q"),
		Limit:    parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset:   parseOffset(c.DefaultQuery("offset", "0")),
	}

	tasks, hasMore, err := h.repo.List(c.Request.Context(), opts)
	if err != nil {
		h.log.WithError(err).Error("listing tasks")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "has_more": hasMore})
}

// Get handles GET /v1/tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	taskID := c.Param("id")
	if err := validatePathID(taskID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	task, err := h.repo.Get(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, models.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "task not found")

			return
		}

		h.log.WithError(err).Error("getting task")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, task)
}

// Create handles POST /v1/tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	var req models.CreateTaskRequest
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

	task, err := h.repo.Create(c.Request.Context(), req, actor)
	if err != nil {
		if errors.Is(err, models.ErrMissingTitle) {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

			return
		}

		h.log.WithError(err).Error("creating task")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "task.create", "task_id": task.ID, "actor": actor}).Info("audit")

	c.JSON(http.StatusCreated, task)
}

// Update handles PATCH /v1/tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	taskID := c.Param("id")
	if err := validatePathID(taskID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateTaskRequest
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

	task, err := h.repo.Update(c.Request.Context(), taskID, req, actor)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTaskNotFound):
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "task not found")
		case errors.Is(err, models.ErrMissingTitle):
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		default:
			h.log.WithError(err).Error("updating task")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}

		return
	}

	h.log.WithFields(logrus.Fields{"action": "task.update", "task_id": taskID, "actor": actor}).Info("audit")

	c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /v1/tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID := c.Param("id")
	if err := validatePathID(taskID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), taskID, actor); err != nil {
		if errors.Is(err, models.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "task not found")

			return
		}

		h.log.WithError(err).Error("deleting task")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "task.delete", "task_id": taskID, "actor": actor}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
