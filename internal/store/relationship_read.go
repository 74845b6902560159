package store

import (
	"context"
	"fmt"

	"github.com/lineagehq/lineage/internal/models"
)

// buildRelationshipListQuery constructs the filtered SELECT query and
// arguments for ListRelationships. A person filter matches either side.
func buildRelationshipListQuery(person, relType string, limit, offset int) (query string, args []any) {
	where := " WHERE workspace_id = current_setting('app.workspace_id')::uuid"
	filterArgs := make([]any, 0, 2)
	argIdx := 1

	if person != "" {
		where += fmt.Sprintf(" AND (person_a = $%d OR person_b = $%d)", argIdx, argIdx)
		filterArgs = append(filterArgs, person)
		argIdx++
	}

	if relType != "" {
		where += fmt.Sprintf(" AND rel_type = $%d", argIdx)
		filterArgs = append(filterArgs, relType)
		argIdx++
	}

	query = "SELECT " + relationshipColumns + " FROM relationships" + where
	query += " ORDER BY seq ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = make([]any, 0, len(filterArgs)+2)
	args = append(args, filterArgs...)
	args = append(args, limit+1, offset)

	return query, args
}

// ListRelationships returns relationships for a workspace with optional
// person and type filters, in stable insertion order.
func (s *RelationshipStore) ListRelationships(
	ctx context.Context,
	workspaceID string,
	person, relType string,
	limit, offset int,
) ([]models.Relationship, bool, error) {
	if limit <= 0 {
		limit = 50
	}

	if limit > maxListLimit {
		limit = maxListLimit
	}

	if offset < 0 {
		offset = 0
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, false, fmt.Errorf("listing relationships: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query, args := buildRelationshipListQuery(person, relType, limit, offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying relationships: %w", err)
	}
	defer rows.Close()

	rels, err := collectRelationships(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(rels) > limit
	if hasMore {
		rels = rels[:limit]
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("committing list relationships: %w", err)
	}

	return rels, hasMore, nil
}

// ListAllRelationships returns every relationship in the workspace in
// insertion order. The kinship graph builder depends on this ordering for
// deterministic traversal.
func (s *RelationshipStore) ListAllRelationships(
	ctx context.Context,
	workspaceID string,
) ([]models.Relationship, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing all relationships: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := "SELECT " + relationshipColumns +
		" FROM relationships WHERE workspace_id = current_setting('app.workspace_id')::uuid ORDER BY seq ASC"

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying all relationships: %w", err)
	}
	defer rows.Close()

	rels, err := collectRelationships(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing list all relationships: %w", err)
	}

	return rels, nil
}
