package kinship

// step is one traversed edge: the node it leads to, the semantic direction,
// and the tie kind of the edge.
type step struct {
	to   string
	dir  direction
	kind TieKind
}

// hop records how a node was first reached during BFS.
type hop struct {
	from string
	via  step
}

// search runs a breadth-first search from a to b over every non-partner
// tie and returns the step sequence of the first shortest path found, or
// nil when no path exists. bloodOnly restricts traversal to blood ties.
//
// The visited set guarantees termination on cyclic data — a contradiction
// like A recorded as an ancestor of B and B as an ancestor of A must not
// hang the search; the first path found is surfaced as the best available
// answer. Traversal order follows neighbor insertion order, so identical
// input always yields an identical path.
func (g *Graph) search(a, b string, bloodOnly bool) []step {
	visited := map[string]bool{a: true}
	parent := map[string]hop{}
	frontier := []string{a}

	for len(frontier) > 0 {
		var next []string

		for _, id := range frontier {
			for _, s := range g.steps(id, bloodOnly) {
				if visited[s.to] {
					continue
				}

				visited[s.to] = true
				parent[s.to] = hop{from: id, via: s}

				if s.to == b {
					return reconstruct(parent, a, b)
				}

				next = append(next, s.to)
			}
		}

		frontier = next
	}

	return nil
}

// steps enumerates the traversable steps out of id in deterministic order:
// parents, then children, then siblings. Partner ties never participate in
// the direct search; they are handled by the affinity overlay.
func (g *Graph) steps(id string, bloodOnly bool) []step {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}

	out := make([]step, 0, len(n.parents)+len(n.children)+len(n.siblings))

	for _, t := range n.parents {
		if bloodOnly && t.kind != TieBlood {
			continue
		}

		out = append(out, step{to: t.id, dir: dirUp, kind: t.kind})
	}

	for _, t := range n.children {
		if bloodOnly && t.kind != TieBlood {
			continue
		}

		out = append(out, step{to: t.id, dir: dirDown, kind: t.kind})
	}

	for _, t := range n.siblings {
		out = append(out, step{to: t.id, dir: dirLateral, kind: t.kind})
	}

	return out
}

// reconstruct walks the parent map from b back to a and returns the step
// sequence in forward order.
func reconstruct(parent map[string]hop, a, b string) []step {
	var trail []step

	for current := b; current != a; {
		h, ok := parent[current]
		if !ok {
			return nil
		}

		trail = append(trail, h.via)
		current = h.from
	}

	for i, j := 0, len(trail)-1; i < j; i, j = i+1, j-1 {
		trail[i], trail[j] = trail[j], trail[i]
	}

	return trail
}

// affinity tries the in-law overlay after the direct search found nothing:
// a direct partner tie, or exactly one marriage/partnership hop plus a
// consanguineous path on either side of it. Among candidates the shortest
// underlying path wins; ties go to the partner inserted first.
func (g *Graph) affinity(a, b string) *Result {
	for _, t := range g.partnerTies(a) {
		if t.id != b {
			continue
		}

		label := LabelSpouse
		if t.kind == TiePartnership {
			label = LabelPartner
		}

		degree := 1

		return &Result{Label: label, Degree: &degree, Kind: TieInLaw, Path: []string{a, b}}
	}

	var best *Result

	// Marriage hop on personA's side: a's partner relates to b by blood,
	// so a holds the same relationship to b with in-law semantics.
	for _, t := range g.partnerTies(a) {
		steps := g.bestSteps(t.id, b)
		if steps == nil {
			continue
		}

		r := classify(t.id, steps)
		r.Path = append([]string{a}, r.Path...)

		best = betterAffinity(best, inLaw(r))
	}

	// Marriage hop on personB's side: a relates by blood to b's partner.
	for _, t := range g.partnerTies(b) {
		steps := g.bestSteps(a, t.id)
		if steps == nil {
			continue
		}

		r := classify(a, steps)
		r.Path = append(r.Path, b)

		best = betterAffinity(best, inLaw(r))
	}

	return best
}

// bestSteps is the direct search plus the blood-preference tie-break.
func (g *Graph) bestSteps(a, b string) []step {
	steps := g.search(a, b, false)
	if steps == nil {
		return nil
	}

	if blood := g.search(a, b, true); blood != nil && len(blood) == len(steps) {
		return blood
	}

	return steps
}

// inLaw rewrites a consanguineous result with affinity semantics. The
// degree and removal arithmetic of the underlying path is kept; only the
// label and kind change. Guardianship still dominates: a guardianship
// path through a marriage stays guardianship rather than becoming in-law.
func inLaw(r *Result) *Result {
	if r.Kind == TieGuardianship {
		return r
	}

	r.Label += "_in_law"
	r.Kind = TieInLaw

	return r
}

// betterAffinity keeps the candidate with the shorter path, preferring the
// earlier one on ties.
func betterAffinity(current, candidate *Result) *Result {
	if current == nil {
		return candidate
	}

	if candidate != nil && len(candidate.Path) < len(current.Path) {
		return candidate
	}

	return current
}
