package service

import (
	"context"
	"testing"
	"time"

	"github.com/traceopshq/traceops/internal/models"
)

func TestActivityWorker_ProcessesJob(t *testing.T) {
	recorder := &mockRecorder{}
	aw := NewActivityWorker(recorder, testLog(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	go aw.Run(ctx)

	aw.Enqueue(&models.RecordActivityRequest{
		EntityType: "task",
		EntityID:   "t1",
		Field:      "status",
		Action:     models.ActionUpdate,
	})

	time.Sleep(50 * time.Millisecond)
	cancel()

	records := recorder.getRecords()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].EntityID != "t1" {
		t.Errorf("entity_id = %q, want t1", records[0].EntityID)
	}
}

func TestActivityWorker_RejectsMissingEntityID(t *testing.T) {
	recorder := &mockRecorder{}
	aw := NewActivityWorker(recorder, testLog(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	go aw.Run(ctx)

	aw.Enqueue(&models.RecordActivityRequest{
		EntityType: "task",
		Field:      "status",
		Action:     models.ActionUpdate,
	})

	time.Sleep(50 * time.Millisecond)
	cancel()

	if len(recorder.getRecords()) != 0 {
		t.Error("entry without entity id was recorded")
	}
}

func TestActivityWorker_DropsWhenFull(t *testing.T) {
	recorder := &mockRecorder{}

	// Queue size 2, don't start the worker so it can't drain.
	aw := NewActivityWorker(recorder, testLog(), 2)

	for i := 0; i < 5; i++ {
		aw.Enqueue(&models.RecordActivityRequest{
			EntityType: "task",
			EntityID:   "t1",
			Field:      "status",
			Action:     models.ActionUpdate,
		})
	}

	// Only the first two fit; Enqueue must not block on the rest.
	if got := len(aw.jobs); got != 2 {
		t.Errorf("queue depth = %d, want 2", got)
	}
}

func TestActivityWorker_DrainsOnShutdown(t *testing.T) {
	recorder := &mockRecorder{}
	aw := NewActivityWorker(recorder, testLog(), 10)

	for i := 0; i < 3; i++ {
		aw.Enqueue(&models.RecordActivityRequest{
			EntityType: "task",
			EntityID:   "t1",
			Field:      "status",
			Action:     models.ActionUpdate,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	aw.Run(ctx) // returns after draining

	if got := len(recorder.getRecords()); got != 3 {
		t.Errorf("drained %d records, want 3", got)
	}
}
