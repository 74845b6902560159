package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lineagehq/lineage/internal/models"
)

// PersonStore handles person CRUD operations.
type PersonStore struct {
	Base
}

// NewPersonStore creates a new PersonStore.
func NewPersonStore(base Base) *PersonStore {
	return &PersonStore{Base: base}
}

// CreatePerson inserts a new person and returns the created record.
func (s *PersonStore) CreatePerson(
	ctx context.Context,
	workspaceID string,
	req models.CreatePersonRequest,
) (*models.Person, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("creating person: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	attrs := req.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}

	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("preparing person attributes: %w", err)
	}

	query := `INSERT INTO people (id, workspace_id, name, sex, birth_date, death_date, notes, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + personColumns

	row := tx.QueryRow(ctx, query,
		req.ID, workspaceID, req.Name, req.Sex, req.BirthDate, req.DeathDate, req.Notes, attrsJSON,
	)

	p, err := scanPerson(row.Scan)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created person: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create person: %w", err)
	}

	s.notify("people", "insert", workspaceID)

	return p, nil
}

// buildPersonUpdateQuery constructs the SET clause and arguments for UpdatePerson.
func buildPersonUpdateQuery(req models.UpdatePersonRequest) (setClauses []string, args []any, nextArg int, err error) {
	setClauses = make([]string, 0, 6)
	args = make([]any, 0, 7)
	argIdx := 1

	if req.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}

	if req.Sex != nil {
		setClauses = append(setClauses, fmt.Sprintf("sex = $%d", argIdx))
		args = append(args, *req.Sex)
		argIdx++
	}

	if req.BirthDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("birth_date = $%d", argIdx))
		args = append(args, *req.BirthDate)
		argIdx++
	}

	if req.DeathDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("death_date = $%d", argIdx))
		args = append(args, *req.DeathDate)
		argIdx++
	}

	if req.Notes != nil {
		setClauses = append(setClauses, fmt.Sprintf("notes = $%d", argIdx))
		args = append(args, *req.Notes)
		argIdx++
	}

	if req.Attributes != nil {
		attrsJSON, err := json.Marshal(req.Attributes)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("preparing person attributes: %w", err)
		}

		setClauses = append(setClauses, fmt.Sprintf("attributes = $%d", argIdx))
		args = append(args, attrsJSON)
		argIdx++
	}

	return setClauses, args, argIdx, nil
}

// UpdatePerson updates an existing person with the provided fields and returns the result.
func (s *PersonStore) UpdatePerson(
	ctx context.Context,
	workspaceID string,
	personID string,
	req models.UpdatePersonRequest,
) (*models.Person, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	setClauses, args, argIdx, err := buildPersonUpdateQuery(req)
	if err != nil {
		return nil, err
	}

	if len(setClauses) == 0 {
		return s.GetPerson(ctx, workspaceID, personID)
	}

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("updating person: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := fmt.Sprintf(
		"UPDATE people SET %s, updated_at = NOW() WHERE workspace_id = $%d AND id = $%d RETURNING %s",
		strings.Join(setClauses, ", "),
		argIdx,
		argIdx+1,
		personColumns,
	)
	args = append(args, workspaceID, personID)

	row := tx.QueryRow(ctx, query, args...)

	p, err := scanPerson(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPersonNotFound
		}

		return nil, fmt.Errorf("scanning updated person: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing update person: %w", err)
	}

	s.notify("people", "update", workspaceID)

	return p, nil
}

// DeletePerson removes a person by ID together with every relationship that
// references them, within the same transaction.
func (s *PersonStore) DeletePerson(ctx context.Context, workspaceID, personID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	_, err = tx.Exec(ctx,
		"DELETE FROM relationships WHERE workspace_id = current_setting('app.workspace_id')::uuid AND (person_a = $1 OR person_b = $1)",
		personID,
	)
	if err != nil {
		return fmt.Errorf("deleting relationships for person: %w", err)
	}

	tag, err := tx.Exec(ctx,
		"DELETE FROM people WHERE workspace_id = current_setting('app.workspace_id')::uuid AND id = $1",
		personID,
	)
	if err != nil {
		return fmt.Errorf("executing person delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrPersonNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing delete person: %w", err)
	}

	s.notify("people", "delete", workspaceID)

	return nil
}
