package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/lineagehq/lineage/internal/kinship"
	"github.com/lineagehq/lineage/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

// familyPeople backs the person getter with a fixed record set.
func familyPeople(people ...models.Person) *mockPersonStore {
	byID := make(map[string]models.Person, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}

	return &mockPersonStore{
		getPerson: func(_ context.Context, _, personID string) (*models.Person, error) {
			p, ok := byID[personID]
			if !ok {
				return nil, models.ErrPersonNotFound
			}
			return &p, nil
		},
	}
}

func rel(a, b string, t kinship.EdgeType) models.Relationship {
	return models.Relationship{PersonA: a, PersonB: b, Type: t}
}

func TestKinshipService_Resolve(t *testing.T) {
	people := familyPeople(
		models.Person{ID: "mary", Name: "Mary", Sex: models.SexFemale},
		models.Person{ID: "john", Name: "John", Sex: models.SexMale},
		models.Person{ID: "sue", Name: "Sue", Sex: models.SexFemale},
		models.Person{ID: "alice", Name: "Alice", Sex: models.SexFemale},
		models.Person{ID: "bob", Name: "Bob", Sex: models.SexMale},
	)
	loader := &mockRelationshipLoader{rels: []models.Relationship{
		rel("mary", "john", kinship.EdgeParentChild),
		rel("mary", "sue", kinship.EdgeParentChild),
		rel("john", "alice", kinship.EdgeParentChild),
		rel("sue", "bob", kinship.EdgeParentChild),
	}}

	svc := NewKinshipService(people, loader, testLogger())

	resp, err := svc.Resolve(context.Background(), "ws1", "alice", "bob")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if resp.Relationship.Label != "first_cousin" {
		t.Errorf("Label = %q, want first_cousin", resp.Relationship.Label)
	}
	if resp.Relationship.Degree == nil || *resp.Relationship.Degree != 1 {
		t.Errorf("Degree = %v, want 1", resp.Relationship.Degree)
	}
	if resp.Relationship.Removal != 0 {
		t.Errorf("Removal = %d, want 0", resp.Relationship.Removal)
	}
	if resp.Description != "Alice is the first cousin of Bob" {
		t.Errorf("Description = %q", resp.Description)
	}
	if resp.From.Name != "Alice" || resp.To.Name != "Bob" {
		t.Errorf("summaries = %+v, %+v", resp.From, resp.To)
	}
}

func TestKinshipService_Resolve_GenderedDescription(t *testing.T) {
	people := familyPeople(
		models.Person{ID: "mary", Name: "Mary", Sex: models.SexFemale},
		models.Person{ID: "john", Name: "John", Sex: models.SexMale},
	)
	loader := &mockRelationshipLoader{rels: []models.Relationship{
		rel("mary", "john", kinship.EdgeParentChild),
	}}

	svc := NewKinshipService(people, loader, testLogger())

	resp, err := svc.Resolve(context.Background(), "ws1", "mary", "john")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if resp.Description != "Mary is the mother of John" {
		t.Errorf("Description = %q", resp.Description)
	}
}

func TestKinshipService_Resolve_SelfQuery(t *testing.T) {
	svc := NewKinshipService(familyPeople(), &mockRelationshipLoader{}, testLogger())

	_, err := svc.Resolve(context.Background(), "ws1", "a", "a")
	if !errors.Is(err, kinship.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestKinshipService_Resolve_UnknownPerson(t *testing.T) {
	people := familyPeople(models.Person{ID: "a", Name: "A"})
	svc := NewKinshipService(people, &mockRelationshipLoader{}, testLogger())

	_, err := svc.Resolve(context.Background(), "ws1", "a", "ghost")
	if !errors.Is(err, models.ErrPersonNotFound) {
		t.Errorf("expected ErrPersonNotFound, got %v", err)
	}
}

func TestKinshipService_Resolve_UnrelatedRecords(t *testing.T) {
	// Both people exist as records but neither appears in any relationship.
	people := familyPeople(
		models.Person{ID: "a", Name: "A"},
		models.Person{ID: "b", Name: "B"},
	)
	svc := NewKinshipService(people, &mockRelationshipLoader{}, testLogger())

	resp, err := svc.Resolve(context.Background(), "ws1", "a", "b")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if resp.Relationship.Label != kinship.LabelUnrelated {
		t.Errorf("Label = %q, want unrelated", resp.Relationship.Label)
	}
	if resp.Relationship.Degree != nil {
		t.Errorf("Degree = %v, want nil", *resp.Relationship.Degree)
	}
	if resp.Description != "A and B are not related" {
		t.Errorf("Description = %q", resp.Description)
	}
}

func TestKinshipService_Resolve_LoaderError(t *testing.T) {
	people := familyPeople(
		models.Person{ID: "a", Name: "A"},
		models.Person{ID: "b", Name: "B"},
	)
	loader := &mockRelationshipLoader{err: errors.New("db down")}
	svc := NewKinshipService(people, loader, testLogger())

	if _, err := svc.Resolve(context.Background(), "ws1", "a", "b"); err == nil {
		t.Error("expected an error when relationship loading fails")
	}
}
