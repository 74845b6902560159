package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lineagehq/lineage/internal/models"
)

// personColumns lists the columns selected for person queries.
const personColumns = `id, workspace_id, name, sex, birth_date, death_date,
	notes, attributes, created_at, updated_at`

// relationshipColumns lists the columns selected for relationship queries.
const relationshipColumns = `workspace_id, seq, person_a, person_b, rel_type, created_at`

// scanPerson scans a single row into a models.Person.
func scanPerson(scan func(dest ...any) error) (*models.Person, error) {
	var p models.Person
	var workspaceID uuid.UUID
	var attrs []byte
	var birthDate, deathDate *time.Time

	err := scan(
		&p.ID,
		&workspaceID,
		&p.Name,
		&p.Sex,
		&birthDate,
		&deathDate,
		&p.Notes,
		&attrs,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.WorkspaceID = workspaceID
	p.BirthDate = birthDate
	p.DeathDate = deathDate

	if err := json.Unmarshal(attrs, &p.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshalling person attributes: %w", err)
	}

	return &p, nil
}

// scanRelationship scans a single row into a models.Relationship.
func scanRelationship(scan func(dest ...any) error) (*models.Relationship, error) {
	var r models.Relationship
	var workspaceID uuid.UUID

	err := scan(
		&workspaceID,
		&r.Seq,
		&r.PersonA,
		&r.PersonB,
		&r.Type,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.WorkspaceID = workspaceID

	return &r, nil
}

// collectPersons scans all rows into a person slice.
func collectPersons(rows pgx.Rows) ([]models.Person, error) {
	people := make([]models.Person, 0, 16)

	for rows.Next() {
		p, err := scanPerson(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning person row: %w", err)
		}

		people = append(people, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating person rows: %w", err)
	}

	return people, nil
}

// collectRelationships scans all rows into a relationship slice.
func collectRelationships(rows pgx.Rows) ([]models.Relationship, error) {
	rels := make([]models.Relationship, 0, 16)

	for rows.Next() {
		r, err := scanRelationship(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning relationship row: %w", err)
		}

		rels = append(rels, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relationship rows: %w", err)
	}

	return rels, nil
}
