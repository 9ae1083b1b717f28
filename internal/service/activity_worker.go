package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/metrics"
	"github.com/traceopshq/traceops/internal/models"
)

// Recorder writes a single activity entry.
type Recorder interface {
	Record(ctx context.Context, req models.RecordActivityRequest) (*models.ActivityRecord, error)
}

// ActivityWorker buffers activity entries and writes them via a single
// worker goroutine, keeping mutation paths non-blocking.
type ActivityWorker struct {
	recorder Recorder
	log      *logrus.Logger
	jobs     chan *models.RecordActivityRequest
}

// NewActivityWorker creates an ActivityWorker with the given queue capacity.
func NewActivityWorker(recorder Recorder, log *logrus.Logger, queueSize int) *ActivityWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &ActivityWorker{
		recorder: recorder,
		log:      log,
		jobs:     make(chan *models.RecordActivityRequest, queueSize),
	}
}

// Enqueue adds an activity job. Non-blocking; drops the job if the
// queue is full. A request without an entity id is rejected immediately
// rather than deferred to the worker, so the caller's bug surfaces in
// its own logs.
func (w *ActivityWorker) Enqueue(job *models.RecordActivityRequest) {
	if err := job.Validate(); err != nil {
		w.log.WithError(err).WithFields(logrus.Fields{
			"entity_type": job.EntityType,
			"field":       job.Field,
		}).Error("invalid activity entry rejected")

		return
	}

	select {
	case w.jobs <- job:
		metrics.ActivityQueueDepth.Set(float64(len(w.jobs)))
	default:
		w.log.WithFields(logrus.Fields{
			"entity_type": job.EntityType,
			"entity_id":   job.EntityID,
		}).Warn("activity queue full, dropping entry")
	}
}

// Run processes activity jobs until the context is cancelled, then
// drains remaining jobs.
func (w *ActivityWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *ActivityWorker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		default:
			return
		}
	}
}

func (w *ActivityWorker) process(job *models.RecordActivityRequest) {
	if _, err := w.recorder.Record(context.Background(), *job); err != nil {
		w.log.WithError(err).Warn("activity record failed")

		return
	}

	metrics.ActivityRecordsTotal.WithLabelValues(job.EntityType).Inc()
	metrics.ActivityQueueDepth.Set(float64(len(w.jobs)))
}
