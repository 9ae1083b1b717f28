package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/traceopshq/traceops/internal/api"
	"github.com/traceopshq/traceops/internal/models"
)

func TestActivityQuery_PassesFilters(t *testing.T) {
	t.Parallel()

	var gotOpts models.ActivityQueryOpts
	repo := &mockActivityRepo{
		queryFn: func(_ context.Context, opts models.ActivityQueryOpts) ([]models.ActivityRecord, bool, error) {
			gotOpts = opts

			return []models.ActivityRecord{{ID: 7, EntityType: "task", EntityID: "t1", Field: "status", Action: "update"}}, false, nil
		},
	}

	r := newTestRouter()
	h := api.NewActivityHandler(repo, testLogger())
	r.GET("/activity", h.Query)

	w := doRequest(r, http.MethodGet, "/activity?entity_type=task&entity_id=t1&field=status&actor=dana&limit=25", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotOpts.EntityType != "task" || gotOpts.EntityID != "t1" || gotOpts.Field != "status" || gotOpts.Actor != "dana" {
		t.Errorf("filters not passed through: %+v", gotOpts)
	}
	if gotOpts.Limit != 25 {
		t.Errorf("expected limit 25, got %d", gotOpts.Limit)
	}

	var resp struct {
		Activity []models.ActivityRecord `json:"activity"`
		HasMore  bool                    `json:"has_more"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Activity) != 1 || resp.Activity[0].ID != 7 {
		t.Errorf("unexpected records: %+v", resp.Activity)
	}
}

func TestActivityQuery_SinceParsed(t *testing.T) {
	t.Parallel()

	var gotSince *time.Time
	repo := &mockActivityRepo{
		queryFn: func(_ context.Context, opts models.ActivityQueryOpts) ([]models.ActivityRecord, bool, error) {
			gotSince = opts.Since

			return nil, false, nil
		},
	}

	r := newTestRouter()
	h := api.NewActivityHandler(repo, testLogger())
	r.GET("/activity", h.Query)

	w := doRequest(r, http.MethodGet, "/activity?since=2026-01-02T15:04:05Z", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotSince == nil || !gotSince.Equal(time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)) {
		t.Errorf("since not parsed: %v", gotSince)
	}
}

func TestActivityQuery_BadSince(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewActivityHandler(&mockActivityRepo{}, testLogger())
	r.GET("/activity", h.Query)

	w := doRequest(r, http.MethodGet, "/activity?since=yesterday", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestActivityRecord_DefaultsActor(t *testing.T) {
	t.Parallel()

	var gotReq models.RecordActivityRequest
	repo := &mockActivityRepo{
		recordFn: func(_ context.Context, req models.RecordActivityRequest) (*models.ActivityRecord, error) {
			gotReq = req

			return &models.ActivityRecord{ID: 1, EntityType: req.EntityType, EntityID: req.EntityID, Field: req.Field, Action: req.Action, Actor: req.Actor}, nil
		},
	}

	r := newTestRouter()
	h := api.NewActivityHandler(repo, testLogger())
	r.POST("/activity", h.Record)

	w := doRequest(r, http.MethodPost, "/activity",
		`{"entity_type":"batch","entity_id":"B42","field":"note","action":"set","new_value":"\"retest scheduled\""}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if gotReq.Actor != testUserID {
		t.Errorf("expected actor defaulted to %q, got %q", testUserID, gotReq.Actor)
	}
}

func TestActivityRecord_MissingEntityID(t *testing.T) {
	t.Parallel()

	repo := &mockActivityRepo{
		recordFn: func(_ context.Context, req models.RecordActivityRequest) (*models.ActivityRecord, error) {
			return nil, req.Validate()
		},
	}

	r := newTestRouter()
	h := api.NewActivityHandler(repo, testLogger())
	r.POST("/activity", h.Record)

	w := doRequest(r, http.MethodPost, "/activity", `{"entity_type":"batch","field":"note","action":"set"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestActivityPurge_OK(t *testing.T) {
	t.Parallel()

	var gotDays int
	repo := &mockActivityRepo{
		purgeFn: func(_ context.Context, retentionDays int) (int, error) {
			gotDays = retentionDays

			return 42, nil
		},
	}

	r := newTestRouter()
	h := api.NewActivityHandler(repo, testLogger())
	r.DELETE("/activity", h.Purge)

	w := doRequest(r, http.MethodDelete, "/activity?retention_days=90", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotDays != 90 {
		t.Errorf("expected retention 90, got %d", gotDays)
	}

	var resp struct {
		Purged int `json:"purged"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Purged != 42 {
		t.Errorf("expected purged 42, got %d", resp.Purged)
	}
}

func TestActivityPurge_RejectsZeroRetention(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewActivityHandler(&mockActivityRepo{}, testLogger())
	r.DELETE("/activity", h.Purge)

	w := doRequest(r, http.MethodDelete, "/activity?retention_days=0", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
