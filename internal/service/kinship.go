package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/lineagehq/lineage/internal/domain"
	"github.com/lineagehq/lineage/internal/kinship"
	"github.com/lineagehq/lineage/internal/metrics"
	"github.com/lineagehq/lineage/internal/models"
)

// RelationshipLoader loads the full relationship set for graph building.
type RelationshipLoader interface {
	ListAllRelationships(ctx context.Context, workspaceID string) ([]models.Relationship, error)
}

// PersonGetter resolves person records for query endpoints.
type PersonGetter interface {
	GetPerson(ctx context.Context, workspaceID, personID string) (*models.Person, error)
}

// Compile-time check: *KinshipService must satisfy domain.KinshipService.
var _ domain.KinshipService = (*KinshipService)(nil)

// KinshipService answers relationship queries by building the workspace's
// family graph from its relationship records and running the path
// classifier over it. Graph builds for the same workspace are coalesced
// with singleflight so a burst of concurrent queries loads the edge set
// once.
type KinshipService struct {
	people PersonGetter
	rels   RelationshipLoader
	log    *logrus.Logger

	builds singleflight.Group
}

// NewKinshipService creates a KinshipService.
func NewKinshipService(people PersonGetter, rels RelationshipLoader, log *logrus.Logger) *KinshipService {
	return &KinshipService{people: people, rels: rels, log: log}
}

// Resolve answers "how is fromID related to toID". Both people must exist
// as records; the relationship between them may still be unrelated.
func (s *KinshipService) Resolve(
	ctx context.Context, workspaceID, fromID, toID string,
) (*models.ResolveResponse, error) {
	start := time.Now()

	if fromID == toID {
		return nil, fmt.Errorf("%w: from and to are the same person", kinship.ErrInvalidQuery)
	}

	from, err := s.people.GetPerson(ctx, workspaceID, fromID)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", fromID, err)
	}

	to, err := s.people.GetPerson(ctx, workspaceID, toID)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", toID, err)
	}

	g, err := s.graph(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	result, err := kinship.Resolve(g, fromID, toID)
	if err != nil {
		return nil, err
	}

	fromP := kinship.Person{ID: from.ID, Name: from.Name, Sex: from.Sex}
	toP := kinship.Person{ID: to.ID, Name: to.Name, Sex: to.Sex}

	resp := &models.ResolveResponse{
		From:         from.Summary(),
		To:           to.Summary(),
		Relationship: result,
		Description:  kinship.Describe(fromP, toP, result),
	}

	metrics.ResolveDuration.Observe(time.Since(start).Seconds())

	s.log.WithFields(logrus.Fields{
		"workspace_id": workspaceID,
		"from":         fromID,
		"to":           toID,
		"label":        result.Label,
		"graph_size":   g.Size(),
		"duration":     time.Since(start),
	}).Debug("kinship.resolve")

	return resp, nil
}

// graph loads the workspace's relationship records and builds the family
// graph. Concurrent calls for the same workspace share one build.
func (s *KinshipService) graph(ctx context.Context, workspaceID string) (*kinship.Graph, error) {
	v, err, shared := s.builds.Do(workspaceID, func() (any, error) {
		rels, err := s.rels.ListAllRelationships(ctx, workspaceID)
		if err != nil {
			return nil, fmt.Errorf("loading relationships: %w", err)
		}

		edges := make([]kinship.Edge, 0, len(rels))
		for _, r := range rels {
			edges = append(edges, kinship.Edge{PersonA: r.PersonA, PersonB: r.PersonB, Type: r.Type})
		}

		return kinship.Build(edges), nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		s.log.WithField("workspace_id", workspaceID).Debug("graph build coalesced")
	}

	g := v.(*kinship.Graph)
	metrics.GraphSize.Set(float64(g.Size()))

	return g, nil
}
