package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/dbpool"
	"github.com/lineagehq/lineage/internal/metrics"
)

// StatsHandler serves the workspace statistics endpoint.
type StatsHandler struct {
	pool *dbpool.Pool
	hub  clientCounter
	log  *logrus.Logger
}

// clientCounter reports connected WebSocket clients.
type clientCounter interface {
	ClientCount() int
}

// NewStatsHandler creates a StatsHandler with the given dependencies.
func NewStatsHandler(pool *dbpool.Pool, hub clientCounter, log *logrus.Logger) *StatsHandler {
	return &StatsHandler{pool: pool, hub: hub, log: log}
}

// statsResponse is the JSON payload returned by the stats endpoint.
type statsResponse struct {
	People            int `json:"people"`
	Relationships     int `json:"relationships"`
	RelationshipTypes int `json:"relationship_types"`
	ConnectedClients  int `json:"connected_clients"`
}

// GetStats handles GET /api/stats — returns aggregate workspace statistics.
func (h *StatsHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	workspaceID := getWorkspaceID(c)
	if workspaceID == "" {
		return
	}

	// Start a read-only transaction with workspace RLS.
	tx, err := h.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		h.log.WithError(err).Error("stats: begin tx")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	// Set workspace context for RLS.
	if _, err := tx.Exec(ctx, "SELECT set_config('app.workspace_id', $1, true)", workspaceID); err != nil {
		h.log.WithError(err).Error("stats: set workspace")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	var resp statsResponse

	// Single consolidated query for all workspace-scoped stats.
	if err := tx.QueryRow(ctx,
		`SELECT
			COUNT(*),
			(SELECT COUNT(*) FROM relationships WHERE workspace_id = current_setting('app.workspace_id')::uuid),
			(SELECT COUNT(DISTINCT rel_type) FROM relationships WHERE workspace_id = current_setting('app.workspace_id')::uuid)
		 FROM people`,
	).Scan(&resp.People, &resp.Relationships, &resp.RelationshipTypes); err != nil {
		h.log.WithError(err).Error("stats: consolidated query")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	if h.hub != nil {
		resp.ConnectedClients = h.hub.ClientCount()
	}

	// Update Prometheus gauges with fresh counts.
	metrics.PersonCount.Set(float64(resp.People))
	metrics.RelationshipCount.Set(float64(resp.Relationships))

	c.JSON(http.StatusOK, resp)
}
