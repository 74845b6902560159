package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/domain"
	"github.com/lineagehq/lineage/internal/models"
)

// RelationshipStore is the data-access interface RelationshipService depends on.
type RelationshipStore = domain.RelationshipService

// Compile-time check: *RelationshipService must satisfy domain.RelationshipService.
var _ domain.RelationshipService = (*RelationshipService)(nil)

// RelationshipService wraps RelationshipStore with context-aware logging.
type RelationshipService struct {
	store RelationshipStore
	log   *logrus.Logger
}

// NewRelationshipService creates a RelationshipService.
func NewRelationshipService(store RelationshipStore, log *logrus.Logger) *RelationshipService {
	return &RelationshipService{store: store, log: log}
}

// ListRelationships returns a paginated list of relationship records (pass-through).
func (s *RelationshipService) ListRelationships(
	ctx context.Context, workspaceID, person, relType string, limit, offset int,
) ([]models.Relationship, bool, error) {
	return s.store.ListRelationships(ctx, workspaceID, person, relType, limit, offset)
}

// CreateRelationship records a new relationship between two existing people.
func (s *RelationshipService) CreateRelationship(
	ctx context.Context, workspaceID string, req models.CreateRelationshipRequest,
) (*models.Relationship, error) {
	r, err := s.store.CreateRelationship(ctx, workspaceID, req)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"workspace_id": workspaceID,
		"person_a":     r.PersonA,
		"person_b":     r.PersonB,
		"type":         r.Type,
	}).Debug("relationship.create")

	return r, nil
}

// DeleteRelationship removes a relationship record by its composite key.
func (s *RelationshipService) DeleteRelationship(
	ctx context.Context, workspaceID, personA, personB, relType string,
) error {
	err := s.store.DeleteRelationship(ctx, workspaceID, personA, personB, relType)
	if err == nil {
		s.log.WithFields(logrus.Fields{
			"workspace_id": workspaceID,
			"person_a":     personA,
			"person_b":     personB,
			"type":         relType,
		}).Debug("relationship.delete")
	}

	return err
}
