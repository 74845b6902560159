package service

import (
	"context"
	"strings"
	"testing"

	"github.com/lineagehq/lineage/internal/kinship"
	"github.com/lineagehq/lineage/internal/models"
)

func TestBulkService_ValidatesPersons(t *testing.T) {
	store := &mockBulkStore{
		upsertPersons: func(_ context.Context, _ string, people []models.CreatePersonRequest) (int, error) {
			return len(people), nil
		},
	}
	svc := NewBulkService(store, testLogger())

	n, err := svc.BulkUpsertPersons(context.Background(), "ws1", []models.CreatePersonRequest{
		{Name: "Alice"}, {Name: "Bob"},
	})
	if err != nil {
		t.Fatalf("BulkUpsertPersons: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	_, err = svc.BulkUpsertPersons(context.Background(), "ws1", []models.CreatePersonRequest{
		{Name: "Alice"}, {Name: ""},
	})
	if err == nil || !strings.Contains(err.Error(), "person 1") {
		t.Errorf("expected indexed validation error, got %v", err)
	}
}

func TestBulkService_ValidatesRelationships(t *testing.T) {
	store := &mockBulkStore{
		insertRels: func(_ context.Context, _ string, rels []models.CreateRelationshipRequest) (int, error) {
			return len(rels), nil
		},
	}
	svc := NewBulkService(store, testLogger())

	_, err := svc.BulkInsertRelationships(context.Background(), "ws1", []models.CreateRelationshipRequest{
		{PersonA: "a", PersonB: "a", Type: kinship.EdgeSibling},
	})
	if err == nil || !strings.Contains(err.Error(), "themselves") {
		t.Errorf("expected self-relationship rejection, got %v", err)
	}

	n, err := svc.BulkInsertRelationships(context.Background(), "ws1", []models.CreateRelationshipRequest{
		{PersonA: "a", PersonB: "b", Type: kinship.EdgeParentChild},
	})
	if err != nil {
		t.Fatalf("BulkInsertRelationships: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
