package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lineagehq/lineage/internal/models"
)

// RelationshipStore provides relationship CRUD operations.
type RelationshipStore struct {
	Base
}

// NewRelationshipStore creates a new RelationshipStore.
func NewRelationshipStore(base Base) *RelationshipStore {
	return &RelationshipStore{Base: base}
}

// CreateRelationship inserts a new relationship record and returns it.
// Both referenced people must already exist in the workspace.
func (s *RelationshipStore) CreateRelationship(
	ctx context.Context,
	workspaceID string,
	req models.CreateRelationshipRequest,
) (*models.Relationship, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("creating relationship: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	// Verify both people exist in a single query.
	var aExists, bExists bool
	err = tx.QueryRow(ctx,
		`SELECT
			EXISTS(SELECT 1 FROM people WHERE workspace_id = $1 AND id = $2),
			EXISTS(SELECT 1 FROM people WHERE workspace_id = $1 AND id = $3)`,
		workspaceID, req.PersonA, req.PersonB).Scan(&aExists, &bExists)
	if err != nil {
		return nil, fmt.Errorf("checking related people: %w", err)
	}

	if !aExists {
		return nil, fmt.Errorf("person %q: %w", req.PersonA, models.ErrPersonNotFound)
	}

	if !bExists {
		return nil, fmt.Errorf("person %q: %w", req.PersonB, models.ErrPersonNotFound)
	}

	query := `INSERT INTO relationships (workspace_id, person_a, person_b, rel_type)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + relationshipColumns

	row := tx.QueryRow(ctx, query, workspaceID, req.PersonA, req.PersonB, req.Type)

	r, err := scanRelationship(row.Scan)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created relationship: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create relationship: %w", err)
	}

	s.notify("relationships", "insert", workspaceID)

	return r, nil
}

// DeleteRelationship removes a relationship by its composite key.
func (s *RelationshipStore) DeleteRelationship(
	ctx context.Context,
	workspaceID string,
	personA, personB, relType string,
) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("deleting relationship: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	tag, err := tx.Exec(ctx,
		"DELETE FROM relationships WHERE workspace_id = $1 AND person_a = $2 AND person_b = $3 AND rel_type = $4",
		workspaceID, personA, personB, relType,
	)
	if err != nil {
		return fmt.Errorf("executing relationship delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrRelationshipNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing delete relationship: %w", err)
	}

	s.notify("relationships", "delete", workspaceID)

	return nil
}
