package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lineagehq/lineage/internal/dbpool"
	"github.com/lineagehq/lineage/internal/models"
)

// WorkspaceStore handles workspace provisioning and lookups (API key →
// workspace ID).
type WorkspaceStore struct {
	Pool *dbpool.Pool
}

// NewWorkspaceStore creates a new WorkspaceStore.
func NewWorkspaceStore(pool *dbpool.Pool) *WorkspaceStore {
	return &WorkspaceStore{Pool: pool}
}

// CreateWorkspace provisions a new workspace keyed by the given API key and
// returns its ID. Only the SHA-256 hash of the key is stored.
func (s *WorkspaceStore) CreateWorkspace(ctx context.Context, name, apiKey string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	hash := sha256.Sum256([]byte(apiKey))
	apiKeyHash := hex.EncodeToString(hash[:])
	id := uuid.New().String()

	_, err := s.Pool.Exec(ctx,
		"INSERT INTO workspaces (id, name, api_key_hash) VALUES ($1, $2, $3)",
		id, name, apiKeyHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", models.ErrDuplicateKey
		}

		return "", fmt.Errorf("creating workspace: %w", err)
	}

	return id, nil
}

// GetWorkspaceByAPIKey looks up a workspace ID by API key hash.
func (s *WorkspaceStore) GetWorkspaceByAPIKey(ctx context.Context, apiKey string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	hash := sha256.Sum256([]byte(apiKey))
	apiKeyHash := hex.EncodeToString(hash[:])

	var workspaceID string

	err := s.Pool.QueryRow(ctx, "SELECT id FROM workspaces WHERE api_key_hash = $1", apiKeyHash).Scan(&workspaceID)
	if err != nil {
		return "", fmt.Errorf("looking up workspace by API key: %w", err)
	}

	return workspaceID, nil
}
