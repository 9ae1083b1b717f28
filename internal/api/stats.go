package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/dbpool"
)

// StatsHandler serves the aggregate statistics endpoint.
type StatsHandler struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

// NewStatsHandler creates a StatsHandler with the given dependencies.
func NewStatsHandler(pool *dbpool.Pool, log *logrus.Logger) *StatsHandler {
	return &StatsHandler{pool: pool, log: log}
}

// statsResponse is the JSON payload returned by the stats endpoint.
type statsResponse struct {
	Tasks              int `json:"tasks"`
	Contacts           int `json:"contacts"`
	Batches            int `json:"batches"`
	LabelSpecs         int `json:"label_specs"`
	StabilityProtocols int `json:"stability_protocols"`
	OpenComplaints     int `json:"open_complaints"`
	ActivityEntries    int `json:"activity_entries"`
}

// GetStats handles GET /v1/stats — returns aggregate record counts.
func (h *StatsHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	var resp statsResponse

	// Single consolidated query keeps the counts from one snapshot.
	if err := h.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM tasks),
			(SELECT COUNT(*) FROM contacts),
			(SELECT COUNT(*) FROM batches),
			(SELECT COUNT(*) FROM label_specs),
			(SELECT COUNT(*) FROM stability_protocols),
			(SELECT COUNT(*) FROM complaints WHERE status NOT IN ('Resolved', 'Dismissed')),
			(SELECT COUNT(*) FROM activity_log)`,
	).Scan(
		&resp.Tasks, &resp.Contacts, &resp.Batches, &resp.LabelSpecs,
		&resp.StabilityProtocols, &resp.OpenComplaints, &resp.ActivityEntries,
	); err != nil {
		h.log.WithError(err).Error("stats: consolidated query")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, resp)
}
