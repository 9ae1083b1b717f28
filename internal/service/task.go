package service

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/store"
)

// Enqueuer accepts activity entries for asynchronous recording.
type Enqueuer interface {
	Enqueue(job *models.RecordActivityRequest)
}

// TaskStore is the data-access interface TaskService depends on.
type TaskStore interface {
	CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context, opts store.TaskListOpts) ([]models.Task, bool, error)
	UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// TaskService owns task mutations and their activity trail. Each field
// that changes on an update yields exactly one activity record.
type TaskService struct {
	store    TaskStore
	activity Enqueuer
	log      *logrus.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(store TaskStore, activity Enqueuer, log *logrus.Logger) *TaskService {
	return &TaskService{store: store, activity: activity, log: log}
}

// taskFields maps a task's loggable fields for diffing.
func taskFields(t *models.Task) map[string]any {
	return map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"status":      t.Status,
		"priority":    t.Priority,
		"assignee":    t.Assignee,
		"due_date":    t.DueDate,
	}
}

// Create validates and inserts a task, recording a create entry.
func (s *TaskService) Create(ctx context.Context, req models.CreateTaskRequest, actor string) (*models.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	task, err := s.store.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}

	snapshot, _ := json.Marshal(task) //nolint:errcheck // plain struct, cannot fail.
	s.activity.Enqueue(&models.RecordActivityRequest{
		EntityType: "task",
		EntityID:   task.ID,
		Field:      "task",
		Action:     models.ActionCreate,
		NewValue:   snapshot,
		Actor:      actor,
	})

	return task, nil
}

// Get returns a task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	return s.store.GetTask(ctx, id)
}

// List returns tasks matching the given filters.
func (s *TaskService) List(ctx context.Context, opts store.TaskListOpts) ([]models.Task, bool, error) {
	return s.store.ListTasks(ctx, opts)
}

// Update applies a partial update. Nil request fields are left
// unchanged; each field that actually differs from the stored value is
// recorded as one activity entry.
func (s *TaskService) Update(ctx context.Context, id string, req models.UpdateTaskRequest, actor string) (*models.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	oldFields := taskFields(current)

	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.Status != nil {
		current.Status = *req.Status
	}
	if req.Priority != nil {
		current.Priority = *req.Priority
	}
	if req.Assignee != nil {
		current.Assignee = *req.Assignee
	}
	if req.DueDate != nil {
		current.DueDate = req.DueDate
	}

	diffs, err := DiffFields(oldFields, taskFields(current))
	if err != nil {
		return nil, err
	}
	if len(diffs) == 0 {
		return current, nil
	}

	updated, err := s.store.UpdateTask(ctx, current)
	if err != nil {
		return nil, err
	}

	for _, d := range diffs {
		s.activity.Enqueue(&models.RecordActivityRequest{
			EntityType: "task",
			EntityID:   updated.ID,
			Field:      d.Field,
			Action:     models.ActionUpdate,
			OldValue:   d.OldValue,
			NewValue:   d.NewValue,
			Actor:      actor,
		})
	}

	return updated, nil
}

// Delete removes a task and records the removal.
func (s *TaskService) Delete(ctx context.Context, id string, actor string) error {
	current, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}

	snapshot, _ := json.Marshal(current) //nolint:errcheck // plain struct, cannot fail.
	s.activity.Enqueue(&models.RecordActivityRequest{
		EntityType: "task",
		EntityID:   id,
		Field:      "task",
		Action:     models.ActionRemove,
		OldValue:   snapshot,
		Actor:      actor,
	})

	return nil
}
