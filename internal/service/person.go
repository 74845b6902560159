// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/domain"
	"github.com/lineagehq/lineage/internal/models"
)

// PersonStore is the data-access interface PersonService depends on.
// It reuses domain.PersonService since the method sets are identical, avoiding duplication.
type PersonStore = domain.PersonService

// Compile-time check: *PersonService must satisfy domain.PersonService.
var _ domain.PersonService = (*PersonService)(nil)

// PersonService wraps PersonStore with context-aware logging.
type PersonService struct {
	store PersonStore
	log   *logrus.Logger
}

// NewPersonService creates a PersonService.
func NewPersonService(store PersonStore, log *logrus.Logger) *PersonService {
	return &PersonService{store: store, log: log}
}

// ListPersons returns a paginated list of people (pass-through).
func (s *PersonService) ListPersons(
	ctx context.Context, workspaceID, nameFilter string, limit, offset int,
) ([]models.Person, bool, error) {
	return s.store.ListPersons(ctx, workspaceID, nameFilter, limit, offset)
}

// GetPerson returns a single person by ID (pass-through).
func (s *PersonService) GetPerson(ctx context.Context, workspaceID, personID string) (*models.Person, error) {
	return s.store.GetPerson(ctx, workspaceID, personID)
}

// CreatePerson creates a person record.
func (s *PersonService) CreatePerson(
	ctx context.Context, workspaceID string, req models.CreatePersonRequest,
) (*models.Person, error) {
	p, err := s.store.CreatePerson(ctx, workspaceID, req)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"workspace_id": workspaceID,
		"person_id":    p.ID,
	}).Debug("person.create")

	return p, nil
}

// UpdatePerson updates a person record.
func (s *PersonService) UpdatePerson(
	ctx context.Context, workspaceID, personID string, req models.UpdatePersonRequest,
) (*models.Person, error) {
	p, err := s.store.UpdatePerson(ctx, workspaceID, personID, req)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"workspace_id": workspaceID,
		"person_id":    personID,
	}).Debug("person.update")

	return p, nil
}

// DeletePerson removes a person and their relationship records.
func (s *PersonService) DeletePerson(ctx context.Context, workspaceID, personID string) error {
	err := s.store.DeletePerson(ctx, workspaceID, personID)
	if err == nil {
		s.log.WithFields(logrus.Fields{
			"workspace_id": workspaceID,
			"person_id":    personID,
		}).Debug("person.delete")
	}

	return err
}
