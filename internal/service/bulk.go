package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/domain"
	"github.com/lineagehq/lineage/internal/models"
)

// BulkStore is the data-access interface BulkService depends on.
type BulkStore = domain.BulkService

// Compile-time check: *BulkService must satisfy domain.BulkService.
var _ domain.BulkService = (*BulkService)(nil)

// maxBulkItems caps the number of records accepted per bulk request.
const maxBulkItems = 10000

// BulkService validates and forwards bulk import requests.
type BulkService struct {
	store BulkStore
	log   *logrus.Logger
}

// NewBulkService creates a BulkService.
func NewBulkService(store BulkStore, log *logrus.Logger) *BulkService {
	return &BulkService{store: store, log: log}
}

// BulkUpsertPersons validates every person and imports the batch.
func (s *BulkService) BulkUpsertPersons(
	ctx context.Context, workspaceID string, people []models.CreatePersonRequest,
) (int, error) {
	if len(people) > maxBulkItems {
		return 0, fmt.Errorf("too many people: %d exceeds limit of %d", len(people), maxBulkItems)
	}

	for i := range people {
		if err := people[i].Validate(); err != nil {
			return 0, fmt.Errorf("person %d: %w", i, err)
		}
	}

	n, err := s.store.BulkUpsertPersons(ctx, workspaceID, people)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"workspace_id": workspaceID,
		"count":        n,
	}).Info("bulk people import")

	return n, nil
}

// BulkInsertRelationships validates every record and imports the batch.
func (s *BulkService) BulkInsertRelationships(
	ctx context.Context, workspaceID string, rels []models.CreateRelationshipRequest,
) (int, error) {
	if len(rels) > maxBulkItems {
		return 0, fmt.Errorf("too many relationships: %d exceeds limit of %d", len(rels), maxBulkItems)
	}

	for i := range rels {
		if err := rels[i].Validate(); err != nil {
			return 0, fmt.Errorf("relationship %d: %w", i, err)
		}
	}

	n, err := s.store.BulkInsertRelationships(ctx, workspaceID, rels)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"workspace_id": workspaceID,
		"count":        n,
	}).Info("bulk relationship import")

	return n, nil
}
