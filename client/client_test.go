package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := routes[r.Method+" "+r.URL.Path]; ok {
			handler(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithAPIKey("test-key"))
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /v1/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthResponse{Status: "ok", Version: "0.3.0"})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("got status %q, want ok", resp.Status)
	}
}

func TestStats(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /v1/stats": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, StatsResponse{Tasks: 12, Batches: 4, OpenComplaints: 1})
		},
	})
	resp, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if resp.Tasks != 12 || resp.OpenComplaints != 1 {
		t.Errorf("unexpected stats: %+v", resp)
	}
}

func TestTasksCRUD(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /v1/tasks": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("status") != "Open" {
				t.Errorf("expected status filter, got %q", r.URL.Query().Get("status"))
			}
			jsonResponse(w, 200, map[string]any{"tasks": []Task{{ID: "t1", Title: "Review CoA"}}, "has_more": false})
		},
		"POST /v1/tasks": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-key" {
				t.Errorf("missing auth header")
			}
			var req CreateTaskRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			jsonResponse(w, 201, Task{ID: "t2", Title: req.Title, Status: "Open"})
		},
		"PATCH /v1/tasks/t1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Task{ID: "t1", Title: "Review CoA", Status: "Closed"})
		},
		"DELETE /v1/tasks/t1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]bool{"deleted": true})
		},
	})

	ctx := context.Background()

	tasks, hasMore, err := c.Tasks.List(ctx, &TaskListOptions{Status: "Open"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(tasks) != 1 || hasMore {
		t.Errorf("List: got %d tasks, hasMore=%v", len(tasks), hasMore)
	}

	task, err := c.Tasks.Create(ctx, &CreateTaskRequest{Title: "Check stability pull"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if task.Title != "Check stability pull" {
		t.Errorf("Create: got title %q", task.Title)
	}

	status := "Closed"
	task, err = c.Tasks.Update(ctx, "t1", &UpdateTaskRequest{Status: &status})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if task.Status != "Closed" {
		t.Errorf("Update: got status %q", task.Status)
	}

	if err := c.Tasks.Delete(ctx, "t1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestLabelSpecCreate_DerivedFields(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /v1/labelspecs": func(w http.ResponseWriter, r *http.Request) {
			var req CreateLabelSpecRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			jsonResponse(w, 201, LabelSpec{
				ID:          "ls1",
				BatchID:     req.BatchID,
				BatchDate:   req.BatchDate,
				LotNumber:   "B42-240507",
				ExpiryDate:  "2026-05-07",
				ProductName: req.ProductName,
			})
		},
	})

	spec, err := c.LabelSpecs.Create(context.Background(), &CreateLabelSpecRequest{
		ProductName:     "Calm Drops",
		BatchID:         "B42",
		BatchDate:       "2024-05-07",
		ShelfLifeMonths: 24,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if spec.LotNumber != "B42-240507" || spec.ExpiryDate != "2026-05-07" {
		t.Errorf("derived fields not returned: %+v", spec)
	}
}

func TestStabilityPlan_ReportsLabelErrors(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /v1/stability/protocols/sp1/plan": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, PlanResult{
				Planned: []PlannedTimepoint{{Label: "1M", Months: 1, PlannedDate: "2024-02-15"}},
				Errors:  []PlanLabelError{{Label: "bogus"}},
			})
		},
	})

	plan, err := c.Stability.Plan(context.Background(), "sp1")
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	if len(plan.Planned) != 1 || len(plan.Errors) != 1 {
		t.Errorf("unexpected plan result: %+v", plan)
	}
}

func TestAPIError_NotFound(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /v1/tasks/missing": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"code": "not_found", "message": "task not found"})
		},
	})

	_, err := c.Tasks.Get(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "not_found" {
		t.Errorf("unexpected error shape: %v", err)
	}
}

func TestActivityQuery_Filters(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /v1/activity": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("entity_type") != "task" || q.Get("entity_id") != "t1" {
				t.Errorf("filters not sent: %v", q)
			}
			jsonResponse(w, 200, map[string]any{
				"activity": []ActivityRecord{{ID: 9, EntityType: "task", EntityID: "t1", Field: "status", Action: "update"}},
				"has_more": true,
			})
		},
	})

	records, hasMore, err := c.Activity.Query(context.Background(), &ActivityQueryOptions{EntityType: "task", EntityID: "t1"})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(records) != 1 || !hasMore {
		t.Errorf("unexpected result: %d records, hasMore=%v", len(records), hasMore)
	}
}
