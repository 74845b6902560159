package api

import "github.com/lineagehq/lineage/internal/domain"

// Handler dependencies are the canonical service interfaces from the domain
// package. Aliased here so handler constructors read naturally and stay
// decoupled from the service implementations.
type (
	// PersonService defines person operations used by PersonHandler.
	PersonService = domain.PersonService

	// RelationshipService defines relationship record operations used by
	// RelationshipHandler.
	RelationshipService = domain.RelationshipService

	// KinshipService answers relationship queries used by KinshipHandler.
	KinshipService = domain.KinshipService

	// BulkService defines bulk import operations used by BulkHandler.
	BulkService = domain.BulkService
)
