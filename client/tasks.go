package client

import (
	"context"
	"net/url"
	"strconv"
)

// TaskService handles task CRUD operations.
type TaskService struct {
	c *Client
}

// TaskListOptions filters and paginates task listings.
type TaskListOptions struct {
	Status   string
	Assignee string
	Search   string
	Limit    int
	Offset   int
}

// taskListResponse wraps the paginated task list response.
type taskListResponse struct {
	Tasks   []Task `json:"tasks"`
	HasMore bool   `json:"has_more"`
}

// List returns tasks with optional filtering and pagination.
func (s *TaskService) List(ctx context.Context, opts *TaskListOptions) ([]Task, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}
		if opts.Assignee != "" {
			params.Set("assignee", opts.Assignee)
		}
		if opts.Search != "" {
			params.Set("q", opts.Search)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp taskListResponse
	if err := s.c.get(ctx, "/v1/tasks", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Tasks, resp.HasMore, nil
}

// Get returns a single task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := s.c.get(ctx, "/v1/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create creates a new task.
func (s *TaskService) Create(ctx context.Context, req *CreateTaskRequest) (*Task, error) {
	var task Task
	if err := s.c.post(ctx, "/v1/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies a partial update to a task.
func (s *TaskService) Update(ctx context.Context, id string, req *UpdateTaskRequest) (*Task, error) {
	var task Task
	if err := s.c.patch(ctx, "/v1/tasks/"+url.PathEscape(id), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task by ID.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/v1/tasks/"+url.PathEscape(id), nil, nil)
}
