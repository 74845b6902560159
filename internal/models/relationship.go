package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lineagehq/lineage/internal/kinship"
)

// Relationship represents one recorded family tie between two people.
// For parent-family types (parent_child, adoptive_parent, step_parent,
// foster_parent, guardian) PersonA is the senior party; spouse, partner
// and sibling ties are symmetric and the order only records who was named
// first. Seq is the stable insertion order within the workspace.
type Relationship struct {
	WorkspaceID uuid.UUID        `json:"-"`
	Seq         int64            `json:"seq"`
	PersonA     string           `json:"person_a"`
	PersonB     string           `json:"person_b"`
	Type        kinship.EdgeType `json:"type"`
	CreatedAt   time.Time        `json:"created_at"`
}

// CreateRelationshipRequest is the payload for recording a relationship.
type CreateRelationshipRequest struct {
	PersonA string           `json:"person_a"`
	PersonB string           `json:"person_b"`
	Type    kinship.EdgeType `json:"type"`
}

// Validate checks that required fields are present, the type is one of the
// closed set, and the record does not relate a person to themselves.
func (r *CreateRelationshipRequest) Validate() error {
	if r.PersonA == "" {
		return ErrMissingPersonA
	}

	if len(r.PersonA) > 255 {
		return ErrFieldTooLong("person_a", 255)
	}

	if r.PersonB == "" {
		return ErrMissingPersonB
	}

	if len(r.PersonB) > 255 {
		return ErrFieldTooLong("person_b", 255)
	}

	if r.PersonA == r.PersonB {
		return ErrSelfRelationship
	}

	if !r.Type.Valid() {
		return ErrInvalidRelType
	}

	return nil
}

// Edge converts the request into a kinship graph edge.
func (r *CreateRelationshipRequest) Edge() kinship.Edge {
	return kinship.Edge{PersonA: r.PersonA, PersonB: r.PersonB, Type: r.Type}
}
