package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/models"
)

// ActivityStore is the data-access interface ActivityService depends on.
type ActivityStore interface {
	RecordActivity(ctx context.Context, req models.RecordActivityRequest) (*models.ActivityRecord, error)
	QueryActivity(ctx context.Context, opts models.ActivityQueryOpts) ([]models.ActivityRecord, bool, error)
	PurgeOldEntries(ctx context.Context, retentionDays int) (int, error)
}

// ActivityService wraps the activity store with logging for destructive
// operations.
type ActivityService struct {
	store ActivityStore
	log   *logrus.Logger
}

// NewActivityService creates an ActivityService.
func NewActivityService(store ActivityStore, log *logrus.Logger) *ActivityService {
	return &ActivityService{store: store, log: log}
}

// Record inserts an activity entry (pass-through to store; the store
// validates the request).
func (s *ActivityService) Record(ctx context.Context, req models.RecordActivityRequest) (*models.ActivityRecord, error) {
	return s.store.RecordActivity(ctx, req)
}

// Query returns activity entries matching the given filters (pass-through).
func (s *ActivityService) Query(ctx context.Context, opts models.ActivityQueryOpts) ([]models.ActivityRecord, bool, error) {
	return s.store.QueryActivity(ctx, opts)
}

// PurgeOldEntries deletes activity entries older than retentionDays and
// logs the result.
func (s *ActivityService) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	deleted, err := s.store.PurgeOldEntries(ctx, retentionDays)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"retention_days": retentionDays,
		"deleted":        deleted,
	}).Info("activity.purge")

	return deleted, nil
}
