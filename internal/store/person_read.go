package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lineagehq/lineage/internal/models"
)

// ListPersons returns people for a workspace with an optional name filter
// (case-insensitive substring match), ordered by name.
func (s *PersonStore) ListPersons(
	ctx context.Context,
	workspaceID string,
	nameFilter string,
	limit, offset int,
) ([]models.Person, bool, error) {
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
		return nil, false, fmt.Errorf("listing people: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	where := " WHERE workspace_id = current_setting('app.workspace_id')::uuid"
	filterArgs := make([]any, 0, 1)
	argIdx := 1

	if nameFilter != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		filterArgs = append(filterArgs, "%"+nameFilter+"%")
		argIdx++
	}

	query := "SELECT " + personColumns + " FROM people" + where
	query += " ORDER BY name ASC, id ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args := make([]any, 0, len(filterArgs)+2)
	args = append(args, filterArgs...)
	args = append(args, limit+1, offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying people: %w", err)
	}
	defer rows.Close()

	people, err := collectPersons(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(people) > limit
	if hasMore {
		people = people[:limit]
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("committing list people: %w", err)
	}

	return people, hasMore, nil
}

// GetPerson retrieves a single person by ID.
func (s *PersonStore) GetPerson(ctx context.Context, workspaceID, personID string) (*models.Person, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("getting person: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := `SELECT ` + personColumns + ` FROM people WHERE workspace_id = current_setting('app.workspace_id')::uuid AND id = $1`

	row := tx.QueryRow(ctx, query, personID)

	p, err := scanPerson(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPersonNotFound
		}

		return nil, fmt.Errorf("scanning person: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing get person: %w", err)
	}

	return p, nil
}
