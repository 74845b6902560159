// Package domain defines the canonical service interfaces shared across API
// layers (REST handlers, client). Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/lineagehq/lineage/internal/models"
)

// PersonService defines all person operations.
type PersonService interface {
	ListPersons(ctx context.Context, workspaceID string, nameFilter string, limit, offset int) ([]models.Person, bool, error)
	GetPerson(ctx context.Context, workspaceID, personID string) (*models.Person, error)
	CreatePerson(ctx context.Context, workspaceID string, req models.CreatePersonRequest) (*models.Person, error)
	UpdatePerson(ctx context.Context, workspaceID string, personID string, req models.UpdatePersonRequest) (*models.Person, error)
	DeletePerson(ctx context.Context, workspaceID, personID string) error
}

// RelationshipService defines all relationship record operations.
type RelationshipService interface {
	ListRelationships(ctx context.Context, workspaceID string, person, relType string, limit, offset int) ([]models.Relationship, bool, error)
	CreateRelationship(ctx context.Context, workspaceID string, req models.CreateRelationshipRequest) (*models.Relationship, error)
	DeleteRelationship(ctx context.Context, workspaceID string, personA, personB, relType string) error
}

// KinshipService answers relationship queries over the workspace's family
// graph.
type KinshipService interface {
	Resolve(ctx context.Context, workspaceID, fromID, toID string) (*models.ResolveResponse, error)
}

// BulkService defines bulk import operations.
type BulkService interface {
	BulkUpsertPersons(ctx context.Context, workspaceID string, people []models.CreatePersonRequest) (int, error)
	BulkInsertRelationships(ctx context.Context, workspaceID string, rels []models.CreateRelationshipRequest) (int, error)
}
