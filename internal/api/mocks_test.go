package api_test

import (
	"context"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/service"
	"github.com/traceopshq/traceops/internal/store"
)

// mockTaskRepo implements api.TaskRepository for testing.
type mockTaskRepo struct {
	createFn func(ctx context.Context, req models.CreateTaskRequest, actor string) (*models.Task, error)
	getFn    func(ctx context.Context, id string) (*models.Task, error)
	listFn   func(ctx context.Context, opts store.TaskListOpts) ([]models.Task, bool, error)
	updateFn func(ctx context.Context, id string, req models.UpdateTaskRequest, actor string) (*models.Task, error)
	deleteFn func(ctx context.Context, id, actor string) error
}

func (m *mockTaskRepo) Create(ctx context.Context, req models.CreateTaskRequest, actor string) (*models.Task, error) {
	return m.createFn(ctx, req, actor)
}

func (m *mockTaskRepo) Get(ctx context.Context, id string) (*models.Task, error) {
	return m.getFn(ctx, id)
}

func (m *mockTaskRepo) List(ctx context.Context, opts store.TaskListOpts) ([]models.Task, bool, error) {
	return m.listFn(ctx, opts)
}

func (m *mockTaskRepo) Update(ctx context.Context, id string, req models.UpdateTaskRequest, actor string) (*models.Task, error) {
	return m.updateFn(ctx, id, req, actor)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id, actor string) error {
	return m.deleteFn(ctx, id, actor)
}

// mockLabelSpecRepo implements api.LabelSpecRepository for testing.
type mockLabelSpecRepo struct {
	createFn func(ctx context.Context, req models.CreateLabelSpecRequest, actor string) (*models.LabelSpec, error)
	getFn    func(ctx context.Context, id string) (*models.LabelSpec, error)
	listFn   func(ctx context.Context, batchID string, limit, offset int) ([]models.LabelSpec, bool, error)
	updateFn func(ctx context.Context, id string, req models.UpdateLabelSpecRequest, actor string) (*models.LabelSpec, error)
	deleteFn func(ctx context.Context, id, actor string) error
}

func (m *mockLabelSpecRepo) Create(ctx context.Context, req models.CreateLabelSpecRequest, actor string) (*models.LabelSpec, error) {
	return m.createFn(ctx, req, actor)
}

func (m *mockLabelSpecRepo) Get(ctx context.Context, id string) (*models.LabelSpec, error) {
	return m.getFn(ctx, id)
}

func (m *mockLabelSpecRepo) List(ctx context.Context, batchID string, limit, offset int) ([]models.LabelSpec, bool, error) {
	return m.listFn(ctx, batchID, limit, offset)
}

func (m *mockLabelSpecRepo) Update(ctx context.Context, id string, req models.UpdateLabelSpecRequest, actor string) (*models.LabelSpec, error) {
	return m.updateFn(ctx, id, req, actor)
}

func (m *mockLabelSpecRepo) Delete(ctx context.Context, id, actor string) error {
	return m.deleteFn(ctx, id, actor)
}

// mockStabilityRepo implements api.StabilityRepository for testing.
type mockStabilityRepo struct {
	createFn       func(ctx context.Context, req models.CreateProtocolRequest, actor string) (*models.StabilityProtocol, *service.PlanResult, error)
	getFn          func(ctx context.Context, id string) (*models.StabilityProtocol, error)
	listFn         func(ctx context.Context, limit, offset int) ([]models.StabilityProtocol, bool, error)
	updateFn       func(ctx context.Context, id string, req models.UpdateProtocolRequest, actor string) (*models.StabilityProtocol, *service.PlanResult, error)
	deleteFn       func(ctx context.Context, id, actor string) error
	planFn         func(ctx context.Context, protocolID, actor string) (*service.PlanResult, error)
	timepointsFn   func(ctx context.Context, protocolID string) ([]models.Timepoint, error)
	recordActualFn func(ctx context.Context, protocolID, label string, actual models.Date, actor string) (*models.Timepoint, error)
}

func (m *mockStabilityRepo) CreateProtocol(ctx context.Context, req models.CreateProtocolRequest, actor string) (*models.StabilityProtocol, *service.PlanResult, error) {
	return m.createFn(ctx, req, actor)
}

func (m *mockStabilityRepo) GetProtocol(ctx context.Context, id string) (*models.StabilityProtocol, error) {
	return m.getFn(ctx, id)
}

func (m *mockStabilityRepo) ListProtocols(ctx context.Context, limit, offset int) ([]models.StabilityProtocol, bool, error) {
	return m.listFn(ctx, limit, offset)
}

func (m *mockStabilityRepo) UpdateProtocol(ctx context.Context, id string, req models.UpdateProtocolRequest, actor string) (*models.StabilityProtocol, *service.PlanResult, error) {
	return m.updateFn(ctx, id, req, actor)
}

func (m *mockStabilityRepo) DeleteProtocol(ctx context.Context, id, actor string) error {
	return m.deleteFn(ctx, id, actor)
}

func (m *mockStabilityRepo) Plan(ctx context.Context, protocolID, actor string) (*service.PlanResult, error) {
	return m.planFn(ctx, protocolID, actor)
}

func (m *mockStabilityRepo) Timepoints(ctx context.Context, protocolID string) ([]models.Timepoint, error) {
	return m.timepointsFn(ctx, protocolID)
}

func (m *mockStabilityRepo) RecordActual(ctx context.Context, protocolID, label string, actual models.Date, actor string) (*models.Timepoint, error) {
	return m.recordActualFn(ctx, protocolID, label, actual, actor)
}

// mockActivityRepo implements api.ActivityRepository for testing.
type mockActivityRepo struct {
	recordFn func(ctx context.Context, req models.RecordActivityRequest) (*models.ActivityRecord, error)
	queryFn  func(ctx context.Context, opts models.ActivityQueryOpts) ([]models.ActivityRecord, bool, error)
	purgeFn  func(ctx context.Context, retentionDays int) (int, error)
}

func (m *mockActivityRepo) Record(ctx context.Context, req models.RecordActivityRequest) (*models.ActivityRecord, error) {
	return m.recordFn(ctx, req)
}

func (m *mockActivityRepo) Query(ctx context.Context, opts models.ActivityQueryOpts) ([]models.ActivityRecord, bool, error) {
	return m.queryFn(ctx, opts)
}

func (m *mockActivityRepo) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	return m.purgeFn(ctx, retentionDays)
}
