package client

import (
	"context"
	"errors"
	"testing"
)

func TestOptimisticUpdate_CommitReplacesLocal(t *testing.T) {
	task := Task{ID: "t1", Status: "Open"}

	err := OptimisticUpdate(context.Background(), &task,
		func(tk *Task) { tk.Status = "Closed" },
		func(context.Context) (*Task, error) {
			return &Task{ID: "t1", Status: "Closed", Title: "server version"}, nil
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Title != "server version" {
		t.Errorf("expected server version to replace optimistic state, got %+v", task)
	}
}

func TestOptimisticUpdate_RollsBackOnFailure(t *testing.T) {
	task := Task{ID: "t1", Status: "Open"}
	wantErr := errors.New("rejected")

	var applied string
	err := OptimisticUpdate(context.Background(), &task,
		func(tk *Task) {
			tk.Status = "Closed"
			applied = tk.Status
		},
		func(context.Context) (*Task, error) {
			return nil, wantErr
		},
	)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected commit error, got %v", err)
	}
	if applied != "Closed" {
		t.Error("apply phase did not run before commit")
	}
	if task.Status != "Open" {
		t.Errorf("expected rollback to Open, got %q", task.Status)
	}
}

func TestOptimisticUpdate_NilConfirmedKeepsOptimistic(t *testing.T) {
	task := Task{ID: "t1", Status: "Open"}

	err := OptimisticUpdate(context.Background(), &task,
		func(tk *Task) { tk.Status = "Closed" },
		func(context.Context) (*Task, error) {
			return nil, nil
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != "Closed" {
		t.Errorf("expected optimistic state kept, got %q", task.Status)
	}
}
