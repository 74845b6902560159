package api_test

import (
	"context"

	"github.com/lineagehq/lineage/internal/models"
)

// mockPersonService implements api.PersonService for testing.
type mockPersonService struct {
	listFn   func(ctx context.Context, workspaceID, nameFilter string, limit, offset int) ([]models.Person, bool, error)
	getFn    func(ctx context.Context, workspaceID, personID string) (*models.Person, error)
	createFn func(ctx context.Context, workspaceID string, req models.CreatePersonRequest) (*models.Person, error)
	updateFn func(ctx context.Context, workspaceID, personID string, req models.UpdatePersonRequest) (*models.Person, error)
	deleteFn func(ctx context.Context, workspaceID, personID string) error
}

func (m *mockPersonService) ListPersons(ctx context.Context, workspaceID, nameFilter string, limit, offset int) ([]models.Person, bool, error) {
	return m.listFn(ctx, workspaceID, nameFilter, limit, offset)
}

func (m *mockPersonService) GetPerson(ctx context.Context, workspaceID, personID string) (*models.Person, error) {
	return m.getFn(ctx, workspaceID, personID)
}

func (m *mockPersonService) CreatePerson(ctx context.Context, workspaceID string, req models.CreatePersonRequest) (*models.Person, error) {
	return m.createFn(ctx, workspaceID, req)
}

func (m *mockPersonService) UpdatePerson(ctx context.Context, workspaceID, personID string, req models.UpdatePersonRequest) (*models.Person, error) {
	return m.updateFn(ctx, workspaceID, personID, req)
}

func (m *mockPersonService) DeletePerson(ctx context.Context, workspaceID, personID string) error {
	return m.deleteFn(ctx, workspaceID, personID)
}

// mockRelationshipService implements api.RelationshipService for testing.
type mockRelationshipService struct {
	listFn   func(ctx context.Context, workspaceID, person, relType string, limit, offset int) ([]models.Relationship, bool, error)
	createFn func(ctx context.Context, workspaceID string, req models.CreateRelationshipRequest) (*models.Relationship, error)
	deleteFn func(ctx context.Context, workspaceID, personA, personB, relType string) error
}

func (m *mockRelationshipService) ListRelationships(ctx context.Context, workspaceID, person, relType string, limit, offset int) ([]models.Relationship, bool, error) {
	return m.listFn(ctx, workspaceID, person, relType, limit, offset)
}

func (m *mockRelationshipService) CreateRelationship(ctx context.Context, workspaceID string, req models.CreateRelationshipRequest) (*models.Relationship, error) {
	return m.createFn(ctx, workspaceID, req)
}

func (m *mockRelationshipService) DeleteRelationship(ctx context.Context, workspaceID, personA, personB, relType string) error {
	return m.deleteFn(ctx, workspaceID, personA, personB, relType)
}

// mockKinshipService implements api.KinshipService for testing.
type mockKinshipService struct {
	resolveFn func(ctx context.Context, workspaceID, fromID, toID string) (*models.ResolveResponse, error)
}

func (m *mockKinshipService) Resolve(ctx context.Context, workspaceID, fromID, toID string) (*models.ResolveResponse, error) {
	return m.resolveFn(ctx, workspaceID, fromID, toID)
}

// mockBulkService implements api.BulkService for testing.
type mockBulkService struct {
	peopleFn func(ctx context.Context, workspaceID string, people []models.CreatePersonRequest) (int, error)
	relsFn   func(ctx context.Context, workspaceID string, rels []models.CreateRelationshipRequest) (int, error)
}

func (m *mockBulkService) BulkUpsertPersons(ctx context.Context, workspaceID string, people []models.CreatePersonRequest) (int, error) {
	return m.peopleFn(ctx, workspaceID, people)
}

func (m *mockBulkService) BulkInsertRelationships(ctx context.Context, workspaceID string, rels []models.CreateRelationshipRequest) (int, error) {
	return m.relsFn(ctx, workspaceID, rels)
}
