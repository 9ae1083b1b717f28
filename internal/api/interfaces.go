package api

import (
	"context"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/service"
	"github.com/traceopshq/traceops/internal/store"
)

// TaskRepository defines task operations used by TaskHandler.
type TaskRepository interface {
	Create(ctx context.Context, req models.CreateTaskRequest, actor string) (*models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, opts store.TaskListOpts) ([]models.Task, bool, error)
	Update(ctx context.Context, id string, req models.UpdateTaskRequest, actor string) (*models.Task, error)
	Delete(ctx context.Context, id string, actor string) error
}

// ContactRepository defines contact operations used by ContactHandler.
type ContactRepository interface {
	CreateContact(ctx context.Context, req models.CreateContactRequest) (*models.Contact, error)
	GetContact(ctx context.Context, id string) (*models.Contact, error)
	ListContacts(ctx context.Context, search string, limit, offset int) ([]models.Contact, bool, error)
	UpdateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

// BatchRepository defines batch operations used by BatchHandler.
type BatchRepository interface {
	CreateBatch(ctx context.Context, req models.CreateBatchRequest) (*models.Batch, error)
	GetBatch(ctx context.Context, id string) (*models.Batch, error)
	ListBatches(ctx context.Context, opts store.BatchListOpts) ([]models.Batch, bool, error)
	UpdateBatch(ctx context.Context, batch *models.Batch) (*models.Batch, error)
	DeleteBatch(ctx context.Context, id string) error
}

// AttachmentRepository defines attachment storage used by BatchHandler.
type AttachmentRepository interface {
	StoreAttachment(ctx context.Context, batchID, kind, name, contentType string, data []byte) (*models.Attachment, error)
	ListAttachments(ctx context.Context, batchID string) ([]models.Attachment, error)
	GetAttachmentData(ctx context.Context, batchID, id string) (*models.Attachment, []byte, error)
	DeleteAttachment(ctx context.Context, batchID, id string) error
}

// LabelSpecRepository defines label spec operations used by LabelSpecHandler.
type LabelSpecRepository interface {
	Create(ctx context.Context, req models.CreateLabelSpecRequest, actor string) (*models.LabelSpec, error)
	Get(ctx context.Context, id string) (*models.LabelSpec, error)
	List(ctx context.Context, batchID string, limit, offset int) ([]models.LabelSpec, bool, error)
	Update(ctx context.Context, id string, req models.UpdateLabelSpecRequest, actor string) (*models.LabelSpec, error)
	Delete(ctx context.Context, id string, actor string) error
}

// StabilityRepository defines stability operations used by StabilityHandler.
type StabilityRepository interface {
	CreateProtocol(ctx context.Context, req models.CreateProtocolRequest, actor string) (*models.StabilityProtocol, *service.PlanResult, error)
	GetProtocol(ctx context.Context, id string) (*models.StabilityProtocol, error)
	ListProtocols(ctx context.Context, limit, offset int) ([]models.StabilityProtocol, bool, error)
	UpdateProtocol(ctx context.Context, id string, req models.UpdateProtocolRequest, actor string) (*models.StabilityProtocol, *service.PlanResult, error)
	DeleteProtocol(ctx context.Context, id string, actor string) error
	Plan(ctx context.Context, protocolID string, actor string) (*service.PlanResult, error)
	Timepoints(ctx context.Context, protocolID string) ([]models.Timepoint, error)
	RecordActual(ctx context.Context, protocolID, label string, actual models.Date, actor string) (*models.Timepoint, error)
}

// ComplaintRepository defines complaint operations used by ComplaintHandler.
type ComplaintRepository interface {
	Create(ctx context.Context, req models.CreateComplaintRequest, actor string) (*models.Complaint, error)
	Get(ctx context.Context, id string) (*models.Complaint, error)
	List(ctx context.Context, opts store.ComplaintListOpts) ([]models.Complaint, bool, error)
	Update(ctx context.Context, id string, req models.UpdateComplaintRequest, actor string) (*models.Complaint, error)
	Delete(ctx context.Context, id string, actor string) error
}

// ActivityRepository defines activity log operations used by ActivityHandler.
type ActivityRepository interface {
	Record(ctx context.Context, req models.RecordActivityRequest) (*models.ActivityRecord, error)
	Query(ctx context.Context, opts models.ActivityQueryOpts) ([]models.ActivityRecord, bool, error)
	PurgeOldEntries(ctx context.Context, retentionDays int) (int, error)
}
