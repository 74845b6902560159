package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lineagehq/lineage/internal/models"
)

// maxBulkBatchSize limits the number of rows per INSERT statement to avoid
// exceeding PostgreSQL's parameter limit (65535 params).
const maxBulkBatchSize = 500

// BulkStore handles bulk import operations for people and relationships.
type BulkStore struct {
	Base
}

// NewBulkStore creates a BulkStore with the given shared base.
func NewBulkStore(base Base) *BulkStore {
	return &BulkStore{Base: base}
}

// BulkUpsertPersons inserts or updates multiple people in a single
// transaction using multi-row INSERT ... ON CONFLICT. Returns the number of
// upserted rows.
func (s *BulkStore) BulkUpsertPersons(
	ctx context.Context,
	workspaceID string,
	people []models.CreatePersonRequest,
) (int, error) {
	if len(people) == 0 {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	attrsJSON := make([][]byte, len(people))
	for i, p := range people {
		attrs := p.Attributes
		if attrs == nil {
			attrs = map[string]any{}
		}

		data, err := json.Marshal(attrs)
		if err != nil {
			return 0, fmt.Errorf("preparing person %s attributes: %w", p.ID, err)
		}

		attrsJSON[i] = data
	}

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("bulk upsert people: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	total := 0

	// Process in batches to stay within parameter limits.
	for i := 0; i < len(people); i += maxBulkBatchSize {
		end := i + maxBulkBatchSize
		if end > len(people) {
			end = len(people)
		}

		batch := people[i:end]
		batchAttrs := attrsJSON[i:end]

		valueParts := make([]string, 0, len(batch))
		args := make([]any, 0, len(batch)*8)

		for j, p := range batch {
			base := j*8 + 1
			valueParts = append(valueParts, fmt.Sprintf(
				"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				base, base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			))
			args = append(args, p.ID, workspaceID, p.Name, p.Sex, p.BirthDate, p.DeathDate, p.Notes, batchAttrs[j])
		}

		sql := `INSERT INTO people (id, workspace_id, name, sex, birth_date, death_date, notes, attributes)
			VALUES ` + strings.Join(valueParts, ", ") + `
			ON CONFLICT (workspace_id, id) DO UPDATE
			SET name = EXCLUDED.name,
				sex = EXCLUDED.sex,
				birth_date = EXCLUDED.birth_date,
				death_date = EXCLUDED.death_date,
				notes = EXCLUDED.notes,
				attributes = EXCLUDED.attributes,
				updated_at = NOW()`

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return 0, fmt.Errorf("bulk upserting people batch: %w", err)
		}

		total += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing bulk upsert people: %w", err)
	}

	s.notifyBulk("people", total, workspaceID)

	return total, nil
}

// BulkInsertRelationships inserts multiple relationship records in a single
// transaction. Existing records are left untouched: re-importing the same
// file does not duplicate ties or disturb their insertion order. Returns
// the number of newly inserted rows.
func (s *BulkStore) BulkInsertRelationships(
	ctx context.Context,
	workspaceID string,
	rels []models.CreateRelationshipRequest,
) (int, error) {
	if len(rels) == 0 {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("bulk insert relationships: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	// Verify all referenced people exist.
	idSet := make(map[string]struct{})
	for _, r := range rels {
		idSet[r.PersonA] = struct{}{}
		idSet[r.PersonB] = struct{}{}
	}

	expectedIDs := make([]string, 0, len(idSet))
	for id := range idSet {
		expectedIDs = append(expectedIDs, id)
	}

	rows, err := tx.Query(ctx,
		`SELECT id FROM people WHERE workspace_id = $1 AND id = ANY($2)`,
		workspaceID, expectedIDs)
	if err != nil {
		return 0, fmt.Errorf("verifying people existence: %w", err)
	}

	foundIDs := make(map[string]struct{})

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning person ID: %w", err)
		}

		foundIDs[id] = struct{}{}
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating person IDs: %w", err)
	}

	if len(foundIDs) != len(idSet) {
		var missing []string
		for id := range idSet {
			if _, ok := foundIDs[id]; !ok {
				missing = append(missing, id)
			}
		}

		return 0, fmt.Errorf("missing people referenced by relationships: %v", missing)
	}

	total := 0

	for i := 0; i < len(rels); i += maxBulkBatchSize {
		end := i + maxBulkBatchSize
		if end > len(rels) {
			end = len(rels)
		}

		batch := rels[i:end]

		valueParts := make([]string, 0, len(batch))
		args := make([]any, 0, len(batch)*4)

		for j, r := range batch {
			base := j*4 + 1
			valueParts = append(valueParts, fmt.Sprintf(
				"($%d, $%d, $%d, $%d)",
				base, base+1, base+2, base+3,
			))
			args = append(args, workspaceID, r.PersonA, r.PersonB, r.Type)
		}

		sql := `INSERT INTO relationships (workspace_id, person_a, person_b, rel_type)
			VALUES ` + strings.Join(valueParts, ", ") + `
			ON CONFLICT (workspace_id, person_a, person_b, rel_type) DO NOTHING`

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return 0, fmt.Errorf("bulk inserting relationships batch: %w", err)
		}

		total += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing bulk insert relationships: %w", err)
	}

	s.notifyBulk("relationships", total, workspaceID)

	return total, nil
}

// notifyBulk sends an aggregate pg_notify after a bulk operation (best-effort).
func (s *BulkStore) notifyBulk(table string, count int, workspaceID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, _ := json.Marshal(map[string]any{ //nolint:errcheck // static keys, cannot fail.
		"table":        table,
		"op":           "BULK",
		"count":        count,
		"workspace_id": workspaceID,
	})

	if _, err := s.Pool.Exec(ctx, "SELECT pg_notify('lineage_changes', $1)", string(payload)); err != nil {
		s.Log.WithError(err).Warn("failed to send bulk " + table + " notification")
	}
}
