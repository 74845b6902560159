package kinship_test

import (
	"errors"
	"testing"

	"github.com/lineagehq/lineage/internal/kinship"
)

func pc(parent, child string) kinship.Edge {
	return kinship.Edge{PersonA: parent, PersonB: child, Type: kinship.EdgeParentChild}
}

func resolve(t *testing.T, edges []kinship.Edge, a, b string) *kinship.Result {
	t.Helper()

	r, err := kinship.Resolve(kinship.Build(edges), a, b)
	if err != nil {
		t.Fatalf("resolve(%s, %s): %v", a, b, err)
	}

	return r
}

func wantDegree(t *testing.T, r *kinship.Result, want int) {
	t.Helper()

	if r.Degree == nil {
		t.Fatalf("expected degree %d, got nil (label %q)", want, r.Label)
	}

	if *r.Degree != want {
		t.Errorf("expected degree %d, got %d (label %q)", want, *r.Degree, r.Label)
	}
}

func TestResolve_SelfQuery(t *testing.T) {
	t.Parallel()

	g := kinship.Build([]kinship.Edge{pc("a", "b")})

	_, err := kinship.Resolve(g, "a", "a")
	if !errors.Is(err, kinship.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestResolve_AbsentPerson(t *testing.T) {
	t.Parallel()

	r := resolve(t, []kinship.Edge{pc("a", "b")}, "a", "ghost")

	if r.Label != kinship.LabelUnrelated {
		t.Errorf("expected unrelated, got %q", r.Label)
	}

	if r.Degree != nil {
		t.Errorf("expected nil degree, got %d", *r.Degree)
	}
}

func TestResolve_Unrelated(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{pc("a", "b"), pc("c", "d")}

	r := resolve(t, edges, "a", "d")
	if r.Label != kinship.LabelUnrelated || r.Degree != nil {
		t.Errorf("expected unrelated with nil degree, got %+v", r)
	}
}

func TestResolve_ParentChild(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{pc("mary", "john")}

	r := resolve(t, edges, "mary", "john")
	if r.Label != kinship.LabelParent {
		t.Errorf("expected parent, got %q", r.Label)
	}
	wantDegree(t, r, 1)

	if r.Kind != kinship.TieBlood {
		t.Errorf("expected blood, got %q", r.Kind)
	}

	rev := resolve(t, edges, "john", "mary")
	if rev.Label != kinship.LabelChild {
		t.Errorf("expected child on reverse query, got %q", rev.Label)
	}
	wantDegree(t, rev, 1)
}

func TestResolve_Grandparent(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{pc("g", "p"), pc("p", "c")}

	r := resolve(t, edges, "g", "c")
	if r.Label != "grandparent" {
		t.Errorf("expected grandparent, got %q", r.Label)
	}
	wantDegree(t, r, 2)

	rev := resolve(t, edges, "c", "g")
	if rev.Label != "grandchild" {
		t.Errorf("expected grandchild, got %q", rev.Label)
	}
}

func TestResolve_GreatGrandparent(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{pc("gg", "g"), pc("g", "p"), pc("p", "c")}

	r := resolve(t, edges, "gg", "c")
	if r.Label != "great_grandparent" {
		t.Errorf("expected great_grandparent, got %q", r.Label)
	}
	wantDegree(t, r, 3)
}

func TestResolve_SiblingSymmetry(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{{PersonA: "a", PersonB: "b", Type: kinship.EdgeSibling}}

	forward := resolve(t, edges, "a", "b")
	reverse := resolve(t, edges, "b", "a")

	if forward.Label != kinship.LabelSibling || reverse.Label != kinship.LabelSibling {
		t.Errorf("expected sibling both ways, got %q and %q", forward.Label, reverse.Label)
	}

	if *forward.Degree != *reverse.Degree {
		t.Errorf("degree should be symmetric, got %d and %d", *forward.Degree, *reverse.Degree)
	}
}

func TestResolve_SiblingViaSharedParent(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{pc("p", "a"), pc("p", "b")}

	r := resolve(t, edges, "a", "b")
	if r.Label != kinship.LabelSibling {
		t.Errorf("expected sibling, got %q", r.Label)
	}
	wantDegree(t, r, 2)
}

func TestResolve_FirstCousins(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{
		pc("mary", "john"),
		pc("mary", "sue"),
		pc("john", "alice"),
		pc("sue", "bob"),
	}

	r := resolve(t, edges, "alice", "bob")
	if r.Label != "first_cousin" {
		t.Errorf("expected first_cousin, got %q", r.Label)
	}
	wantDegree(t, r, 1)

	if r.Removal != 0 {
		t.Errorf("expected removal 0, got %d", r.Removal)
	}

	if r.Kind != kinship.TieBlood {
		t.Errorf("expected blood, got %q", r.Kind)
	}

	wantPath := []string{"alice", "john", "mary", "sue", "bob"}
	if len(r.Path) != len(wantPath) {
		t.Fatalf("expected path %v, got %v", wantPath, r.Path)
	}

	for i := range wantPath {
		if r.Path[i] != wantPath[i] {
			t.Errorf("path[%d]: expected %q, got %q", i, wantPath[i], r.Path[i])
		}
	}
}

func TestResolve_CousinOnceRemoved(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{
		pc("mary", "john"),
		pc("mary", "sue"),
		pc("john", "alice"),
		pc("sue", "bob"),
		pc("bob", "zed"),
	}

	r := resolve(t, edges, "alice", "zed")
	if r.Label != "first_cousin" {
		t.Errorf("expected first_cousin, got %q", r.Label)
	}
	wantDegree(t, r, 1)

	if r.Removal != 1 {
		t.Errorf("expected removal 1, got %d", r.Removal)
	}
}

func TestResolve_SecondCousins(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{
		pc("gg", "p1"), pc("gg", "p2"),
		pc("p1", "c1"), pc("p2", "c2"),
		pc("c1", "x"), pc("c2", "y"),
	}

	r := resolve(t, edges, "x", "y")
	if r.Label != "second_cousin" {
		t.Errorf("expected second_cousin, got %q", r.Label)
	}
	wantDegree(t, r, 2)
}

func TestResolve_AuntAndNiece(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{
		pc("g", "p1"),
		pc("g", "p2"),
		pc("p2", "y"),
	}

	r := resolve(t, edges, "p1", "y")
	if r.Label != kinship.LabelAuntUncle {
		t.Errorf("expected aunt_uncle, got %q", r.Label)
	}
	wantDegree(t, r, 3)

	rev := resolve(t, edges, "y", "p1")
	if rev.Label != kinship.LabelNephew {
		t.Errorf("expected niece_nephew on reverse query, got %q", rev.Label)
	}
}

func TestResolve_GreatAunt(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{
		pc("g", "p1"),
		pc("g", "p2"),
		pc("p2", "y"),
		pc("y", "w"),
	}

	r := resolve(t, edges, "p1", "w")
	if r.Label != "great_aunt_uncle" {
		t.Errorf("expected great_aunt_uncle, got %q", r.Label)
	}
}

func TestResolve_StepForcing(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{
		{PersonA: "sp", PersonB: "c", Type: kinship.EdgeStepParent},
		pc("sp", "d"),
	}

	r := resolve(t, edges, "c", "d")
	if r.Label != "step_sibling" {
		t.Errorf("expected step_sibling, got %q", r.Label)
	}

	if r.Kind != kinship.TieStep {
		t.Errorf("expected step kind, got %q", r.Kind)
	}
}

func TestResolve_StepGrandparent(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{
		pc("gp", "sp"),
		{PersonA: "sp", PersonB: "c", Type: kinship.EdgeStepParent},
	}

	r := resolve(t, edges, "gp", "c")
	if r.Label != "step_grandparent" {
		t.Errorf("expected step_grandparent, got %q", r.Label)
	}

	if r.Kind != kinship.TieStep {
		t.Errorf("expected step kind, got %q", r.Kind)
	}
}

func TestResolve_AdoptiveParent(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{{PersonA: "ap", PersonB: "c", Type: kinship.EdgeAdoptiveParent}}

	r := resolve(t, edges, "ap", "c")
	if r.Label != "adoptive_parent" {
		t.Errorf("expected adoptive_parent, got %q", r.Label)
	}

	if r.Kind != kinship.TieAdoptive {
		t.Errorf("expected adoptive kind, got %q", r.Kind)
	}
}

func TestResolve_MixedLegalKinds(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{
		{PersonA: "sp", PersonB: "a", Type: kinship.EdgeStepParent},
		{PersonA: "sp", PersonB: "b", Type: kinship.EdgeAdoptiveParent},
	}

	r := resolve(t, edges, "a", "b")
	if r.Kind != kinship.TieMixed {
		t.Errorf("expected mixed kind, got %q", r.Kind)
	}

	if r.Label != "step_sibling" {
		t.Errorf("expected step display precedence, got %q", r.Label)
	}
}

func TestResolve_GuardianshipDominates(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{{PersonA: "gd", PersonB: "w", Type: kinship.EdgeGuardian}}

	r := resolve(t, edges, "w", "gd")
	if r.Label != kinship.LabelWard {
		t.Errorf("expected ward, got %q", r.Label)
	}

	if r.Kind != kinship.TieGuardianship {
		t.Errorf("expected guardianship kind, got %q", r.Kind)
	}

	rev := resolve(t, edges, "gd", "w")
	if rev.Label != kinship.LabelGuardian {
		t.Errorf("expected guardian, got %q", rev.Label)
	}
}

func TestResolve_GuardianChildNeverBlood(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{
		{PersonA: "gd", PersonB: "w", Type: kinship.EdgeGuardian},
		pc("gd", "k"),
	}

	r := resolve(t, edges, "w", "k")
	if r.Kind != kinship.TieGuardianship {
		t.Errorf("expected guardianship kind, got %q", r.Kind)
	}

	if r.Label == kinship.LabelSibling {
		t.Errorf("guardianship path must not collapse into a blood label")
	}
}

func TestResolve_BloodBeatsStepAtEqualLength(t *testing.T) {
	t.Parallel()

	// The step path is inserted first so naive BFS discovery order would
	// pick it; the all-blood path of equal length must win.
	edges := []kinship.Edge{
		{PersonA: "s", PersonB: "a", Type: kinship.EdgeStepParent},
		pc("s", "b"),
		pc("p", "a"),
		pc("p", "b"),
	}

	r := resolve(t, edges, "a", "b")
	if r.Label != kinship.LabelSibling {
		t.Errorf("expected sibling, got %q", r.Label)
	}

	if r.Kind != kinship.TieBlood {
		t.Errorf("expected the all-blood path to win, got %q", r.Kind)
	}
}

func TestResolve_CycleTerminates(t *testing.T) {
	t.Parallel()

	// Contradictory data: each recorded as the other's ancestor.
	edges := []kinship.Edge{pc("a", "b"), pc("b", "a")}

	r := resolve(t, edges, "a", "b")
	if r == nil || r.Label == kinship.LabelUnrelated {
		t.Fatalf("expected a result on cyclic data, got %+v", r)
	}
	wantDegree(t, r, 1)
}

func TestResolve_CoParents(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{pc("a", "c"), pc("b", "c")}

	r := resolve(t, edges, "a", "b")
	if r.Label != "co_parent" {
		t.Errorf("expected co_parent, got %q", r.Label)
	}
}

func TestResolve_DirectSpouse(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{{PersonA: "h", PersonB: "w", Type: kinship.EdgeSpouse}}

	r := resolve(t, edges, "h", "w")
	if r.Label != kinship.LabelSpouse {
		t.Errorf("expected spouse, got %q", r.Label)
	}
	wantDegree(t, r, 1)

	if r.Kind != kinship.TieInLaw {
		t.Errorf("expected in_law kind, got %q", r.Kind)
	}
}

func TestResolve_SiblingInLaw(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{
		{PersonA: "h", PersonB: "w", Type: kinship.EdgeSpouse},
		{PersonA: "w", PersonB: "s", Type: kinship.EdgeSibling},
	}

	r := resolve(t, edges, "h", "s")
	if r.Label != "sibling_in_law" {
		t.Errorf("expected sibling_in_law, got %q", r.Label)
	}

	if r.Kind != kinship.TieInLaw {
		t.Errorf("expected in_law kind, got %q", r.Kind)
	}

	if len(r.Path) != 3 || r.Path[0] != "h" || r.Path[2] != "s" {
		t.Errorf("expected path through the spouse, got %v", r.Path)
	}
}

func TestResolve_ParentInLaw(t *testing.T) {
	t.Parallel()

	edges := []kinship.Edge{
		{PersonA: "h", PersonB: "w", Type: kinship.EdgeSpouse},
		pc("p", "w"),
	}

	r := resolve(t, edges, "h", "p")
	if r.Label != "child_in_law" {
		t.Errorf("expected child_in_law, got %q", r.Label)
	}

	rev := resolve(t, edges, "p", "h")
	if rev.Label != "parent_in_law" {
		t.Errorf("expected parent_in_law, got %q", rev.Label)
	}
}

func TestResolve_BloodBeatsInLaw(t *testing.T) {
	t.Parallel()

	// Married first cousins still resolve as cousins: the affinity overlay
	// only runs when the direct search fails.
	edges := []kinship.Edge{
		pc("g", "p1"), pc("g", "p2"),
		pc("p1", "x"), pc("p2", "y"),
		{PersonA: "x", PersonB: "y", Type: kinship.EdgeSpouse},
	}

	r := resolve(t, edges, "x", "y")
	if r.Label != "first_cousin" {
		t.Errorf("expected first_cousin, got %q", r.Label)
	}
}

func TestResolve_NoTwoHopAffinity(t *testing.T) {
	t.Parallel()

	// Two marriage hops apart: spouses of two siblings are not in-laws of
	// each other under the single-hop overlay.
	edges := []kinship.Edge{
		{PersonA: "a", PersonB: "s1", Type: kinship.EdgeSpouse},
		{PersonA: "s1", PersonB: "s2", Type: kinship.EdgeSibling},
		{PersonA: "s2", PersonB: "b", Type: kinship.EdgeSpouse},
	}

	r := resolve(t, edges, "a", "b")
	if r.Label != kinship.LabelUnrelated {
		t.Errorf("expected unrelated, got %q", r.Label)
	}
}
