package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/dbpool"
	"github.com/traceopshq/traceops/internal/middleware"
	"github.com/traceopshq/traceops/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool
	Hub         *ws.Hub
	Tasks       TaskRepository
	Contacts    ContactRepository
	Batches     BatchRepository
	Attachments AttachmentRepository
	LabelSpecs  LabelSpecRepository
	Stability   StabilityRepository
	Complaints  ComplaintRepository
	Activity    ActivityRepository
	UserLookup  middleware.UserLookup
	CORSOrigins []string
	Version     string

	// MaxAttachmentBytes caps attachment uploads; request bodies above
	// the general body limit are rejected earlier.
	MaxAttachmentBytes int64
}

// Router-level limits.
const (
	maxBodySize = 30 << 20 // 30 MB, attachments come in through JSON-free multipart
	rateLimit   = 100      // requests per second per IP
	rateBurst   = 200      // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version)
	tasks := NewTaskHandler(deps.Tasks, log)
	contacts := NewContactHandler(deps.Contacts, log)
	batches := NewBatchHandler(deps.Batches, deps.Attachments, log, deps.MaxAttachmentBytes)
	labelSpecs := NewLabelSpecHandler(deps.LabelSpecs, log)
	stability := NewStabilityHandler(deps.Stability, log)
	complaints := NewComplaintHandler(deps.Complaints, log)
	activity := NewActivityHandler(deps.Activity, log)
	stats := NewStatsHandler(deps.Pool, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// Attachment downloads carry their own unguessable IDs and serve
	// label-printing hardware that cannot send headers.
	api.GET("/batches/:id/attachments/:attID/download", batches.DownloadAttachment)

	// All other API routes require authentication.
	api.Use(middleware.AuthMiddleware(deps.UserLookup, log))

	// Tasks.
	api.GET("/tasks", tasks.List)
	api.POST("/tasks", tasks.Create)
	api.GET("/tasks/:id", tasks.Get)
	api.PATCH("/tasks/:id", tasks.Update)
	api.DELETE("/tasks/:id", tasks.Delete)

	// Contacts.
	api.GET("/contacts", contacts.List)
	api.POST("/contacts", contacts.Create)
	api.GET("/contacts/:id", contacts.Get)
	api.PATCH("/contacts/:id", contacts.Update)
	api.DELETE("/contacts/:id", contacts.Delete)

	// Batches and attachments.
	api.GET("/batches", batches.List)
	api.POST("/batches", batches.Create)
	api.GET("/batches/:id", batches.Get)
	api.PATCH("/batches/:id", batches.Update)
	api.DELETE("/batches/:id", batches.Delete)
	api.GET("/batches/:id/attachments", batches.ListAttachments)
	api.POST("/batches/:id/attachments", batches.UploadAttachment)
	api.DELETE("/batches/:id/attachments/:attID", batches.DeleteAttachment)

	// Label specs.
	api.GET("/labelspecs", labelSpecs.List)
	api.POST("/labelspecs", labelSpecs.Create)
	api.GET("/labelspecs/:id", labelSpecs.Get)
	api.PATCH("/labelspecs/:id", labelSpecs.Update)
	api.DELETE("/labelspecs/:id", labelSpecs.Delete)

	// Stability protocols and timepoints.
	api.GET("/stability/protocols", stability.ListProtocols)
	api.POST("/stability/protocols", stability.CreateProtocol)
	api.GET("/stability/protocols/:id", stability.GetProtocol)
	api.PATCH("/stability/protocols/:id", stability.UpdateProtocol)
	api.DELETE("/stability/protocols/:id", stability.DeleteProtocol)
	api.POST("/stability/protocols/:id/plan", stability.Plan)
	api.GET("/stability/protocols/:id/timepoints", stability.Timepoints)
	api.PUT("/stability/protocols/:id/timepoints/:label/actual", stability.RecordActual)

	// Complaints.
	api.GET("/complaints", complaints.List)
	api.POST("/complaints", complaints.Create)
	api.GET("/complaints/:id", complaints.Get)
	api.PATCH("/complaints/:id", complaints.Update)
	api.DELETE("/complaints/:id", complaints.Delete)

	// Activity log.
	api.GET("/activity", activity.Query)
	api.POST("/activity", activity.Record)
	api.DELETE("/activity", activity.Purge)

	// Stats.
	api.GET("/stats", stats.GetStats)

	// WebSocket endpoint.
	api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, deps.UserLookup))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/v1"), deps)

	return r
}
