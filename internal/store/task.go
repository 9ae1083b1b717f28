package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/traceopshq/traceops/internal/models"
)

// TaskStore provides data access for the tasks table.
type TaskStore struct {
	Base
}

// NewTaskStore creates a TaskStore.
func NewTaskStore(base Base) *TaskStore {
	return &TaskStore{Base: base}
}

// TaskListOpts holds filters for listing tasks.
type TaskListOpts struct {
	Status   string
	Assignee string
	Search   string // ilike match on title
	Limit    int
	Offset   int
}

// CreateTask inserts a task and returns the stored row.
func (s *TaskStore) CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	status := req.Status
	if status == "" {
		status = models.TaskStatusOpen
	}

	task := models.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    req.Priority,
		Assignee:    req.Assignee,
		DueDate:     req.DueDate,
	}

	err := s.Pool.QueryRow(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, assignee, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		task.ID, task.Title, task.Description, task.Status, task.Priority, task.Assignee, dateArg(task.DueDate),
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting task: %w", translateError(err, models.ErrTaskNotFound))
	}

	s.notify("task", task.ID, "insert")

	return &task, nil
}

// GetTask returns a task by ID.
func (s *TaskStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var t models.Task
	var dueDate *time.Time

	err := s.Pool.QueryRow(ctx, `
		SELECT id, title, description, status, priority, assignee, due_date, created_at, updated_at
		FROM tasks WHERE id = $1`, id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Assignee, &dueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrTaskNotFound)
	}
	t.DueDate = dateFromDB(dueDate)

	return &t, nil
}

// ListTasks returns tasks matching the given filters, newest first.
// Returns tasks, hasMore flag, and any error.
func (s *TaskStore) ListTasks(ctx context.Context, opts TaskListOpts) ([]models.Task, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var conditions []string
	var args []any
	argIdx := 1

	if opts.Status != "" {
		conditions = append(conditions, "status = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Status)
		argIdx++
	}
	if opts.Assignee != "" {
		conditions = append(conditions, "assignee = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Assignee)
		argIdx++
	}
	if opts.Search != "" {
		conditions = append(conditions, "title ILIKE $"+strconv.Itoa(argIdx))
		args = append(args, "%"+opts.Search+"%")
		argIdx++
	}

	var where string
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(
		"SELECT id, title, description, status, priority, assignee, due_date, created_at, updated_at FROM tasks %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var dueDate *time.Time

		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Assignee, &dueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, false, fmt.Errorf("scanning task: %w", err)
		}
		t.DueDate = dateFromDB(dueDate)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("reading tasks: %w", err)
	}

	hasMore := len(tasks) > limit
	if hasMore {
		tasks = tasks[:limit]
	}

	return tasks, hasMore, nil
}

// UpdateTask writes all mutable columns of a task. The caller (service
// layer) merges the partial update and diffs fields before calling.
func (s *TaskStore) UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := s.Pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5, assignee = $6, due_date = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		task.ID, task.Title, task.Description, task.Status, task.Priority, task.Assignee, dateArg(task.DueDate),
	).Scan(&task.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrTaskNotFound)
	}

	s.notify("task", task.ID, "update")

	return task, nil
}

// DeleteTask removes a task by ID.
func (s *TaskStore) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTaskNotFound
	}

	s.notify("task", id, "delete")

	return nil
}

// CountTasks returns the total number of tasks.
func (s *TaskStore) CountTasks(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM tasks").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}

	return count, nil
}
