package service

import (
	"context"
	"sync"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/stability"
	"github.com/traceopshq/traceops/internal/store"
)

// mockEnqueuer collects enqueued activity entries.
type mockEnqueuer struct {
	mu   sync.Mutex
	jobs []*models.RecordActivityRequest
}

func (m *mockEnqueuer) Enqueue(job *models.RecordActivityRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
}

func (m *mockEnqueuer) getJobs() []*models.RecordActivityRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.RecordActivityRequest, len(m.jobs))
	copy(out, m.jobs)

	return out
}

// mockRecorder records activity entries synchronously.
type mockRecorder struct {
	mu      sync.Mutex
	records []models.RecordActivityRequest
	err     error
}

func (m *mockRecorder) Record(_ context.Context, req models.RecordActivityRequest) (*models.ActivityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	m.records = append(m.records, req)

	return &models.ActivityRecord{
		ID:         int64(len(m.records)),
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Field:      req.Field,
		Action:     req.Action,
	}, nil
}

func (m *mockRecorder) getRecords() []models.RecordActivityRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.RecordActivityRequest, len(m.records))
	copy(out, m.records)

	return out
}

// mockTaskStore records calls and returns configured responses.
type mockTaskStore struct {
	mu    sync.Mutex
	calls []string

	createTask func(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error)
	getTask    func(ctx context.Context, id string) (*models.Task, error)
	listTasks  func(ctx context.Context, opts store.TaskListOpts) ([]models.Task, bool, error)
	updateTask func(ctx context.Context, task *models.Task) (*models.Task, error)
	deleteTask func(ctx context.Context, id string) error
}

func (m *mockTaskStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockTaskStore) CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	m.record("CreateTask")
	return m.createTask(ctx, req)
}

func (m *mockTaskStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	m.record("GetTask")
	return m.getTask(ctx, id)
}

func (m *mockTaskStore) ListTasks(ctx context.Context, opts store.TaskListOpts) ([]models.Task, bool, error) {
	m.record("ListTasks")
	return m.listTasks(ctx, opts)
}

func (m *mockTaskStore) UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	m.record("UpdateTask")
	return m.updateTask(ctx, task)
}

func (m *mockTaskStore) DeleteTask(ctx context.Context, id string) error {
	m.record("DeleteTask")
	return m.deleteTask(ctx, id)
}

// mockLabelSpecStore records calls and returns configured responses.
type mockLabelSpecStore struct {
	mu    sync.Mutex
	calls []string

	createLabelSpec func(ctx context.Context, spec *models.LabelSpec) (*models.LabelSpec, error)
	getLabelSpec    func(ctx context.Context, id string) (*models.LabelSpec, error)
	listLabelSpecs  func(ctx context.Context, batchID string, limit, offset int) ([]models.LabelSpec, bool, error)
	updateLabelSpec func(ctx context.Context, spec *models.LabelSpec) (*models.LabelSpec, error)
	deleteLabelSpec func(ctx context.Context, id string) error
}

func (m *mockLabelSpecStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockLabelSpecStore) CreateLabelSpec(ctx context.Context, spec *models.LabelSpec) (*models.LabelSpec, error) {
	m.record("CreateLabelSpec")
	return m.createLabelSpec(ctx, spec)
}

func (m *mockLabelSpecStore) GetLabelSpec(ctx context.Context, id string) (*models.LabelSpec, error) {
	m.record("GetLabelSpec")
	return m.getLabelSpec(ctx, id)
}

func (m *mockLabelSpecStore) ListLabelSpecs(ctx context.Context, batchID string, limit, offset int) ([]models.LabelSpec, bool, error) {
	m.record("ListLabelSpecs")
	return m.listLabelSpecs(ctx, batchID, limit, offset)
}

func (m *mockLabelSpecStore) UpdateLabelSpec(ctx context.Context, spec *models.LabelSpec) (*models.LabelSpec, error) {
	m.record("UpdateLabelSpec")
	return m.updateLabelSpec(ctx, spec)
}

func (m *mockLabelSpecStore) DeleteLabelSpec(ctx context.Context, id string) error {
	m.record("DeleteLabelSpec")
	return m.deleteLabelSpec(ctx, id)
}

// mockStabilityStore records calls and returns configured responses.
type mockStabilityStore struct {
	mu    sync.Mutex
	calls []string

	createProtocol   func(ctx context.Context, req models.CreateProtocolRequest) (*models.StabilityProtocol, error)
	getProtocol      func(ctx context.Context, id string) (*models.StabilityProtocol, error)
	listProtocols    func(ctx context.Context, limit, offset int) ([]models.StabilityProtocol, bool, error)
	updateProtocol   func(ctx context.Context, p *models.StabilityProtocol) (*models.StabilityProtocol, error)
	deleteProtocol   func(ctx context.Context, id string) error
	upsertTimepoints func(ctx context.Context, protocolID string, planned []stability.PlannedTimepoint) error
	listTimepoints   func(ctx context.Context, protocolID string) ([]models.Timepoint, error)
	recordActualDate func(ctx context.Context, protocolID, label string, actual models.Date) (*models.Timepoint, error)
}

func (m *mockStabilityStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockStabilityStore) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.calls))
	copy(out, m.calls)

	return out
}

func (m *mockStabilityStore) CreateProtocol(ctx context.Context, req models.CreateProtocolRequest) (*models.StabilityProtocol, error) {
	m.record("CreateProtocol")
	return m.createProtocol(ctx, req)
}

func (m *mockStabilityStore) GetProtocol(ctx context.Context, id string) (*models.StabilityProtocol, error) {
	m.record("GetProtocol")
	return m.getProtocol(ctx, id)
}

func (m *mockStabilityStore) ListProtocols(ctx context.Context, limit, offset int) ([]models.StabilityProtocol, bool, error) {
	m.record("ListProtocols")
	return m.listProtocols(ctx, limit, offset)
}

func (m *mockStabilityStore) UpdateProtocol(ctx context.Context, p *models.StabilityProtocol) (*models.StabilityProtocol, error) {
	m.record("UpdateProtocol")
	return m.updateProtocol(ctx, p)
}

func (m *mockStabilityStore) DeleteProtocol(ctx context.Context, id string) error {
	m.record("DeleteProtocol")
	return m.deleteProtocol(ctx, id)
}

func (m *mockStabilityStore) UpsertTimepoints(ctx context.Context, protocolID string, planned []stability.PlannedTimepoint) error {
	m.record("UpsertTimepoints")
	return m.upsertTimepoints(ctx, protocolID, planned)
}

func (m *mockStabilityStore) ListTimepoints(ctx context.Context, protocolID string) ([]models.Timepoint, error) {
	m.record("ListTimepoints")
	return m.listTimepoints(ctx, protocolID)
}

func (m *mockStabilityStore) RecordActualDate(ctx context.Context, protocolID, label string, actual models.Date) (*models.Timepoint, error) {
	m.record("RecordActualDate")
	return m.recordActualDate(ctx, protocolID, label, actual)
}
