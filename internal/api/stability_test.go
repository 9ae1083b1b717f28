package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/traceopshq/traceops/internal/api"
	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/service"
	"github.com/traceopshq/traceops/internal/stability"
)

func TestProtocolCreate_ReturnsPlan(t *testing.T) {
	t.Parallel()

	repo := &mockStabilityRepo{
		createFn: func(_ context.Context, req models.CreateProtocolRequest, _ string) (*models.StabilityProtocol, *service.PlanResult, error) {
			p := &models.StabilityProtocol{
				ID:        "sp1",
				Name:      req.Name,
				StartDate: req.StartDate,
				Schedule:  req.Schedule,
			}
			plan := &service.PlanResult{
				Planned: []stability.PlannedTimepoint{
					{Label: "1M", Months: 1, PlannedDate: models.NewDate(2024, 2, 15)},
					{Label: "3M", Months: 3, PlannedDate: models.NewDate(2024, 4, 15)},
				},
			}

			return p, plan, nil
		},
	}

	r := newTestRouter()
	h := api.NewStabilityHandler(repo, testLogger())
	r.POST("/stability/protocols", h.CreateProtocol)

	w := doRequest(r, http.MethodPost, "/stability/protocols",
		`{"name":"Calm Drops 24M","start_date":"2024-01-15","schedule":["1M","3M"]}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Protocol models.StabilityProtocol `json:"protocol"`
		Plan     struct {
			Planned []stability.PlannedTimepoint `json:"planned"`
		} `json:"plan"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Protocol.ID != "sp1" {
		t.Errorf("unexpected protocol id %q", resp.Protocol.ID)
	}
	if len(resp.Plan.Planned) != 2 || resp.Plan.Planned[0].PlannedDate.String() != "2024-02-15" {
		t.Errorf("unexpected plan: %+v", resp.Plan.Planned)
	}
}

func TestProtocolCreate_MissingStartDate(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewStabilityHandler(&mockStabilityRepo{}, testLogger())
	r.POST("/stability/protocols", h.CreateProtocol)

	w := doRequest(r, http.MethodPost, "/stability/protocols", `{"name":"no start","schedule":["1M"]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProtocolPlan_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockStabilityRepo{
		planFn: func(_ context.Context, _, _ string) (*service.PlanResult, error) {
			return nil, models.ErrProtocolNotFound
		},
	}

	r := newTestRouter()
	h := api.NewStabilityHandler(repo, testLogger())
	r.POST("/stability/protocols/:id/plan", h.Plan)

	w := doRequest(r, http.MethodPost, "/stability/protocols/missing/plan", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRecordActual_OK(t *testing.T) {
	t.Parallel()

	var gotLabel string
	var gotActual models.Date
	repo := &mockStabilityRepo{
		recordActualFn: func(_ context.Context, protocolID, label string, actual models.Date, _ string) (*models.Timepoint, error) {
			gotLabel = label
			gotActual = actual

			return &models.Timepoint{
				ProtocolID:  protocolID,
				Label:       label,
				PlannedDate: models.NewDate(2024, 2, 15),
				ActualDate:  &actual,
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewStabilityHandler(repo, testLogger())
	r.PUT("/stability/protocols/:id/timepoints/:label/actual", h.RecordActual)

	w := doRequest(r, http.MethodPut, "/stability/protocols/sp1/timepoints/1M/actual", `{"actual_date":"2024-02-16"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotLabel != "1M" {
		t.Errorf("expected label 1M, got %q", gotLabel)
	}
	if gotActual.String() != "2024-02-16" {
		t.Errorf("expected actual 2024-02-16, got %s", gotActual)
	}
}

func TestRecordActual_UnknownTimepoint(t *testing.T) {
	t.Parallel()

	repo := &mockStabilityRepo{
		recordActualFn: func(_ context.Context, _, _ string, _ models.Date, _ string) (*models.Timepoint, error) {
			return nil, models.ErrProtocolNotFound
		},
	}

	r := newTestRouter()
	h := api.NewStabilityHandler(repo, testLogger())
	r.PUT("/stability/protocols/:id/timepoints/:label/actual", h.RecordActual)

	w := doRequest(r, http.MethodPut, "/stability/protocols/sp1/timepoints/9M/actual", `{"actual_date":"2024-02-16"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTimepoints_List(t *testing.T) {
	t.Parallel()

	repo := &mockStabilityRepo{
		timepointsFn: func(_ context.Context, protocolID string) ([]models.Timepoint, error) {
			return []models.Timepoint{
				{ProtocolID: protocolID, Label: "1M", PlannedDate: models.NewDate(2024, 2, 15)},
				{ProtocolID: protocolID, Label: "3M", PlannedDate: models.NewDate(2024, 4, 15)},
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewStabilityHandler(repo, testLogger())
	r.GET("/stability/protocols/:id/timepoints", h.Timepoints)

	w := doRequest(r, http.MethodGet, "/stability/protocols/sp1/timepoints", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Timepoints []models.Timepoint `json:"timepoints"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Timepoints) != 2 {
		t.Errorf("expected 2 timepoints, got %d", len(resp.Timepoints))
	}
}
