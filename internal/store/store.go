// Package store provides focused, single-concern data access stores
// for the Lineage family record service.
//
// Each store owns one domain (people, relationships, bulk import) and
// embeds shared helpers (Pool, logger) via the Base struct. Stores never
// import each other — shared logic lives in this file or in dedicated
// helper files (scan.go).
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// maxListLimit is a cap on limit values for list queries.
const maxListLimit = 1000

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// setWorkspace sets the workspace context for RLS policies within a transaction.
func setWorkspace(ctx context.Context, tx pgx.Tx, workspaceID string) error {
	if _, err := uuid.Parse(workspaceID); err != nil {
		return fmt.Errorf("invalid workspace ID format: %w", err)
	}

	_, err := tx.Exec(ctx, "SELECT set_config('app.workspace_id', $1, true)", workspaceID)
	if err != nil {
		return fmt.Errorf("setting workspace context: %w", err)
	}

	return nil
}

// beginTx starts a read-write transaction and sets the workspace context.
func (b *Base) beginTx(ctx context.Context, workspaceID string) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	if err := setWorkspace(ctx, tx, workspaceID); err != nil {
		tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on setup failure.

		return nil, err
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction and sets the workspace context.
func (b *Base) beginReadTx(ctx context.Context, workspaceID string) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	if err := setWorkspace(ctx, tx, workspaceID); err != nil {
		tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on setup failure.

		return nil, err
	}

	return tx, nil
}

// notify sends a pg_notify on the lineage_changes channel (best-effort, post-commit).
func (b *Base) notify(table, op, workspaceID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, _ := json.Marshal(map[string]any{ //nolint:errcheck // static keys, cannot fail.
		"table":        table,
		"op":           op,
		"count":        1,
		"workspace_id": workspaceID,
	})
	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify('lineage_changes', $1)", string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + op + " " + table + " notification")
	}
}

// GetWorkspaceByAPIKey looks up a workspace ID by API key hash.
func (b *Base) GetWorkspaceByAPIKey(ctx context.Context, apiKey string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	hash := sha256.Sum256([]byte(apiKey))
	apiKeyHash := hex.EncodeToString(hash[:])

	var workspaceID string

	err := b.Pool.QueryRow(ctx, "SELECT id FROM workspaces WHERE api_key_hash = $1", apiKeyHash).Scan(&workspaceID)
	if err != nil {
		return "", fmt.Errorf("looking up workspace by API key: %w", err)
	}

	return workspaceID, nil
}
