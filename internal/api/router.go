package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/dbpool"
	"github.com/lineagehq/lineage/internal/middleware"
	"github.com/lineagehq/lineage/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log             *logrus.Logger
	Pool            *dbpool.Pool
	Hub             *ws.Hub
	People          PersonService
	Relationships   RelationshipService
	Kinship         KinshipService
	Bulk            BulkService
	WorkspaceLookup middleware.WorkspaceLookup
	CORSOrigins     []string
	Version         string
}

// Router-level limits.
const (
	maxBodySize = 10 << 20 // 10 MB
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
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
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
func registerRoutes(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version)
	people := NewPersonHandler(deps.People, log)
	relationships := NewRelationshipHandler(deps.Relationships, log)
	kinship := NewKinshipHandler(deps.Kinship, log)
	bulk := NewBulkHandler(deps.Bulk, log)
	stats := NewStatsHandler(deps.Pool, deps.Hub, log)

	// Health and readiness are unauthenticated.
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)

	// All API routes require authentication. Locked-out keys are rejected
	// before the lookup is consulted.
	guard := middleware.NewBruteForceGuard(ctx, log)
	api := r.Group("/api")
	api.Use(middleware.BruteForceMiddleware(guard))
	api.Use(middleware.AuthMiddleware(middleware.NewCachedWorkspaceLookup(ctx, deps.WorkspaceLookup), log, guard))

	// People.
	api.GET("/people", people.List)
	api.POST("/people", people.Create)
	api.POST("/people/bulk", bulk.BulkPeople)
	api.GET("/people/:id", people.Get)
	api.PATCH("/people/:id", people.Update)
	api.DELETE("/people/:id", people.Delete)

	// Relationship records.
	api.GET("/relationships", relationships.List)
	api.POST("/relationships", relationships.Create)
	api.POST("/relationships/bulk", bulk.BulkRelationships)
	api.DELETE("/relationships/:a/:b/:type", relationships.Delete)

	// Kinship resolution.
	api.GET("/kinship/resolve", kinship.Resolve)

	// Stats.
	api.GET("/stats", stats.GetStats)

	// WebSocket endpoint.
	api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, deps.WorkspaceLookup))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r, deps)

	return r
}
