// Package kinship resolves how two people in a family graph are related.
//
// The package is pure and self-contained: Build turns a flat list of typed
// relationship edges into an immutable in-memory graph, Resolve runs a
// breadth-first search over that graph and classifies the winning path into
// a named relationship, and Describe renders the result as a sentence.
// A built Graph is never mutated, so any number of Resolve calls may run
// against it concurrently.
package kinship

import (
	"errors"
	"fmt"
)

// TieKind is the legal/biological category of a relationship tie.
type TieKind string

// Tie kinds carried on graph edges and reported on results.
const (
	TieBlood        TieKind = "blood"
	TieStep         TieKind = "step"
	TieAdoptive     TieKind = "adoptive"
	TieFoster       TieKind = "foster"
	TieGuardianship TieKind = "guardianship"
	TieMarriage     TieKind = "marriage"
	TiePartnership  TieKind = "partnership"

	// TieInLaw and TieMixed appear only on results, never on edges.
	TieInLaw TieKind = "in_law"
	TieMixed TieKind = "mixed"
)

// EdgeType is the closed set of relationship record types.
type EdgeType string

// Relationship edge types. The parent-family types are directional:
// PersonA is the parent (or guardian) of PersonB.
const (
	EdgeParentChild    EdgeType = "parent_child"
	EdgeSpouse         EdgeType = "spouse"
	EdgePartner        EdgeType = "partner"
	EdgeSibling        EdgeType = "sibling"
	EdgeAdoptiveParent EdgeType = "adoptive_parent"
	EdgeStepParent     EdgeType = "step_parent"
	EdgeFosterParent   EdgeType = "foster_parent"
	EdgeGuardian       EdgeType = "guardian"
)

// parentTies maps the parent-family edge types to their tie kind.
var parentTies = map[EdgeType]TieKind{
	EdgeParentChild:    TieBlood,
	EdgeAdoptiveParent: TieAdoptive,
	EdgeStepParent:     TieStep,
	EdgeFosterParent:   TieFoster,
	EdgeGuardian:       TieGuardianship,
}

// Valid reports whether t is one of the closed set of edge types.
func (t EdgeType) Valid() bool {
	switch t {
	case EdgeParentChild, EdgeSpouse, EdgePartner, EdgeSibling,
		EdgeAdoptiveParent, EdgeStepParent, EdgeFosterParent, EdgeGuardian:
		return true
	}

	return false
}

// Edge is one typed relationship record. For parent-family types PersonA
// is the parent of PersonB; spouse, partner and sibling are symmetric.
type Edge struct {
	PersonA string
	PersonB string
	Type    EdgeType
}

// Person carries the display attributes Describe needs. Sex is "female",
// "male", or empty when unknown; unknown sex produces neutral wording.
type Person struct {
	ID   string
	Name string
	Sex  string
}

// Result is the outcome of one Resolve call.
//
// Label names personA's relationship to personB ("a is the <label> of b").
// Degree is the cousin degree for cousin labels and the edge count of the
// chosen path otherwise; it is nil for LabelUnrelated. Removal is nonzero
// only for cousin labels. Path is the chosen node sequence from personA to
// personB, exposed for explanation and debugging.
type Result struct {
	Label   string   `json:"label"`
	Degree  *int     `json:"degree"`
	Removal int      `json:"removal"`
	Kind    TieKind  `json:"kind"`
	Path    []string `json:"path"`
}

// Base relationship labels. Lineal labels carry "great_" repetitions and
// cousin labels carry an ordinal prefix ("first_cousin", "second_cousin").
// Non-blood paths get a "step_"/"adoptive_"/"foster_" prefix and affinity
// results an "_in_law" suffix.
const (
	LabelUnrelated = "unrelated"
	LabelParent    = "parent"
	LabelChild     = "child"
	LabelSibling   = "sibling"
	LabelAuntUncle = "aunt_uncle"
	LabelNephew    = "niece_nephew"
	LabelSpouse    = "spouse"
	LabelPartner   = "partner"
	LabelGuardian  = "guardian"
	LabelWard      = "ward"

	// labelGuardianship covers guardianship paths with no clean up/down
	// direction, e.g. the ward of one's guardian's child.
	labelGuardianship = "guardianship"

	// labelCoParent covers the one-down-one-up shape: two people sharing
	// a child without any recorded partnership.
	labelCoParent = "co_parent"

	// labelExtended covers any remaining irregular path shape found on
	// contradictory or unusual data. Still a successful result.
	labelExtended = "extended_family"
)

// ErrInvalidQuery is returned when a query is rejected before any path
// search runs: resolving a person against themselves. "No relationship"
// is not an error; it yields LabelUnrelated.
var ErrInvalidQuery = errors.New("invalid kinship query")

// unrelatedResult is the canonical "no path" outcome.
func unrelatedResult() *Result {
	return &Result{Label: LabelUnrelated, Kind: ""}
}

// Resolve determines how personA relates to personB in g.
//
// Identifiers absent from the graph produce LabelUnrelated with a nil
// degree rather than an error; only a == b is rejected. The search prefers
// the shortest path, then an all-blood path over one with legal ties, then
// the first path found in traversal order, which follows edge input order
// and keeps results deterministic for identical input.
func Resolve(g *Graph, a, b string) (*Result, error) {
	if a == b {
		return nil, fmt.Errorf("%w: cannot resolve a person against themselves", ErrInvalidQuery)
	}

	if !g.Contains(a) || !g.Contains(b) {
		return unrelatedResult(), nil
	}

	if steps := g.search(a, b, false); steps != nil {
		// Tie-break: an all-blood path of equal length beats the mixed one.
		if blood := g.search(a, b, true); blood != nil && len(blood) == len(steps) {
			steps = blood
		}

		return classify(a, steps), nil
	}

	if r := g.affinity(a, b); r != nil {
		return r, nil
	}

	return unrelatedResult(), nil
}
