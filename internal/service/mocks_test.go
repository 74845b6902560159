package service

import (
	"context"
	"sync"

	"github.com/lineagehq/lineage/internal/models"
)

// mockPersonStore records calls and returns configured responses.
type mockPersonStore struct {
	mu    sync.Mutex
	calls []string

	listPersons  func(ctx context.Context, workspaceID, nameFilter string, limit, offset int) ([]models.Person, bool, error)
	getPerson    func(ctx context.Context, workspaceID, personID string) (*models.Person, error)
	createPerson func(ctx context.Context, workspaceID string, req models.CreatePersonRequest) (*models.Person, error)
	updatePerson func(ctx context.Context, workspaceID, personID string, req models.UpdatePersonRequest) (*models.Person, error)
	deletePerson func(ctx context.Context, workspaceID, personID string) error
}

func (m *mockPersonStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockPersonStore) ListPersons(ctx context.Context, workspaceID, nameFilter string, limit, offset int) ([]models.Person, bool, error) {
	m.record("ListPersons")
	return m.listPersons(ctx, workspaceID, nameFilter, limit, offset)
}

func (m *mockPersonStore) GetPerson(ctx context.Context, workspaceID, personID string) (*models.Person, error) {
	m.record("GetPerson")
	return m.getPerson(ctx, workspaceID, personID)
}

func (m *mockPersonStore) CreatePerson(ctx context.Context, workspaceID string, req models.CreatePersonRequest) (*models.Person, error) {
	m.record("CreatePerson")
	return m.createPerson(ctx, workspaceID, req)
}

func (m *mockPersonStore) UpdatePerson(ctx context.Context, workspaceID, personID string, req models.UpdatePersonRequest) (*models.Person, error) {
	m.record("UpdatePerson")
	return m.updatePerson(ctx, workspaceID, personID, req)
}

func (m *mockPersonStore) DeletePerson(ctx context.Context, workspaceID, personID string) error {
	m.record("DeletePerson")
	return m.deletePerson(ctx, workspaceID, personID)
}

// mockRelationshipLoader serves a fixed relationship set and counts loads.
type mockRelationshipLoader struct {
	mu    sync.Mutex
	loads int

	rels []models.Relationship
	err  error
}

func (m *mockRelationshipLoader) ListAllRelationships(_ context.Context, _ string) ([]models.Relationship, error) {
	m.mu.Lock()
	m.loads++
	m.mu.Unlock()

	return m.rels, m.err
}

// mockBulkStore returns configured responses for bulk imports.
type mockBulkStore struct {
	upsertPersons func(ctx context.Context, workspaceID string, people []models.CreatePersonRequest) (int, error)
	insertRels    func(ctx context.Context, workspaceID string, rels []models.CreateRelationshipRequest) (int, error)
}

func (m *mockBulkStore) BulkUpsertPersons(ctx context.Context, workspaceID string, people []models.CreatePersonRequest) (int, error) {
	return m.upsertPersons(ctx, workspaceID, people)
}

func (m *mockBulkStore) BulkInsertRelationships(ctx context.Context, workspaceID string, rels []models.CreateRelationshipRequest) (int, error) {
	return m.insertRels(ctx, workspaceID, rels)
}
