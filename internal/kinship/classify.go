package kinship

import (
	"strconv"
	"strings"
)

// pathShape summarizes a step sequence for classification. A lateral
// sibling step expands to one up plus one down through the implied shared
// parent, so a direct sibling edge and a path through a shared parent
// classify identically. The shape is canonical when every up precedes
// every down.
type pathShape struct {
	ups       int
	downs     int
	canonical bool
}

// shapeOf folds a step sequence into its up/down shape.
func shapeOf(steps []step) pathShape {
	shape := pathShape{canonical: true}

	for _, s := range steps {
		switch s.dir {
		case dirUp:
			if shape.downs > 0 {
				shape.canonical = false
			}

			shape.ups++
		case dirDown:
			shape.downs++
		case dirLateral:
			if shape.downs > 0 {
				shape.canonical = false
			}

			shape.ups++
			shape.downs++
		}
	}

	return shape
}

// classify turns the winning path into a Result. Labels describe the query
// origin relative to the target: all steps up means the origin is the
// child/grandchild, a one-up-two-down shape makes the origin the aunt or
// uncle, and so on.
func classify(origin string, steps []step) *Result {
	shape := shapeOf(steps)
	label, degree, removal := baseLabel(shape, len(steps))

	kind, prefix := forcedKind(steps)

	switch kind {
	case TieGuardianship:
		// Guardianship dominates and never renders as a blood term.
		label = guardianshipLabel(shape)
	default:
		if prefix != "" {
			label = prefix + "_" + label
		}
	}

	return &Result{
		Label:   label,
		Degree:  &degree,
		Removal: removal,
		Kind:    kind,
		Path:    pathIDs(origin, steps),
	}
}

// baseLabel names the canonical shape and computes degree and removal.
// Degree is the cousin degree for cousin shapes and the path edge count
// otherwise.
func baseLabel(shape pathShape, edges int) (label string, degree, removal int) {
	u, d := shape.ups, shape.downs

	switch {
	case !shape.canonical:
		// A down-then-up path runs through a common descendant, not a
		// common ancestor. One generation each way is two people sharing
		// a child; anything longer is an irregular, data-entry-shaped
		// connection that still deserves an answer.
		if u == 1 && d == 1 {
			return labelCoParent, edges, 0
		}

		return labelExtended, edges, 0

	case d == 0:
		return lineal(LabelChild, "grand"+LabelChild, u), edges, 0

	case u == 0:
		return lineal(LabelParent, "grand"+LabelParent, d), edges, 0

	case u == 1 && d == 1:
		return LabelSibling, edges, 0

	case u == 1:
		return withGreats(LabelAuntUncle, d-2), edges, 0

	case d == 1:
		return withGreats(LabelNephew, u-2), edges, 0

	default:
		// Both sides descend at least two generations from the common
		// ancestor: a cousin relationship.
		return cousinOrdinal(min(u, d)-1) + "_cousin", min(u, d) - 1, abs(u - d)
	}
}

// lineal names a direct line relationship by generation count.
func lineal(one, grand string, generations int) string {
	if generations == 1 {
		return one
	}

	return strings.Repeat("great_", generations-2) + grand
}

// withGreats prepends "great_" repetitions to an aunt/uncle class label.
func withGreats(label string, greats int) string {
	return strings.Repeat("great_", greats) + label
}

// guardianshipLabel renders a path containing a guardianship tie. Straight
// up means the target is the protector, straight down the reverse, and any
// other shape is reported as a generic guardianship connection.
func guardianshipLabel(shape pathShape) string {
	switch {
	case shape.downs == 0:
		return LabelWard
	case shape.ups == 0:
		return LabelGuardian
	default:
		return labelGuardianship
	}
}

// forcedKind determines the result kind and label prefix from the tie
// kinds along the path. Guardianship anywhere dominates everything. A
// single legal kind (step, adoptive, foster) forces that kind and prefix;
// several distinct legal kinds yield TieMixed with the prefix chosen by
// display precedence step > adoptive > foster.
func forcedKind(steps []step) (TieKind, string) {
	var hasStep, hasAdoptive, hasFoster bool

	for _, s := range steps {
		switch s.kind {
		case TieGuardianship:
			return TieGuardianship, ""
		case TieStep:
			hasStep = true
		case TieAdoptive:
			hasAdoptive = true
		case TieFoster:
			hasFoster = true
		}
	}

	var kinds []TieKind

	if hasStep {
		kinds = append(kinds, TieStep)
	}

	if hasAdoptive {
		kinds = append(kinds, TieAdoptive)
	}

	if hasFoster {
		kinds = append(kinds, TieFoster)
	}

	switch len(kinds) {
	case 0:
		return TieBlood, ""
	case 1:
		return kinds[0], string(kinds[0])
	default:
		return TieMixed, string(kinds[0])
	}
}

// cousinOrdinal spells the cousin degree: first, second, ... with a
// numeric fallback past tenth.
func cousinOrdinal(n int) string {
	ordinals := []string{
		"first", "second", "third", "fourth", "fifth",
		"sixth", "seventh", "eighth", "ninth", "tenth",
	}
	if n >= 1 && n <= len(ordinals) {
		return ordinals[n-1]
	}

	return ordinalSuffix(n)
}

// ordinalSuffix renders n as "11th", "22nd", etc.
func ordinalSuffix(n int) string {
	suffix := "th"

	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}

	return strconv.Itoa(n) + suffix
}

// pathIDs expands a step sequence into the node ID path including origin.
func pathIDs(origin string, steps []step) []string {
	ids := make([]string, 0, len(steps)+1)
	ids = append(ids, origin)

	for _, s := range steps {
		ids = append(ids, s.to)
	}

	return ids
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
