package kinship

// direction is the semantic direction of one traversal step.
type direction int8

const (
	dirUp      direction = iota // toward a parent or guardian
	dirDown                     // toward a child or ward
	dirLateral                  // across a direct sibling edge
)

// tie is one neighbor entry: who, and through what kind of tie.
type tie struct {
	id   string
	kind TieKind
}

// node holds the typed neighbor lists for one person. Each list preserves
// edge input order, which defines BFS traversal order.
type node struct {
	parents  []tie
	children []tie
	siblings []tie
	partners []tie
}

// Graph is the immutable family graph produced by Build. It holds no
// identity beyond the edges it was built from and is safe for concurrent
// read-only use.
type Graph struct {
	nodes map[string]*node
}

// Build converts a flat edge list into a Graph.
//
// Parent-family edges are recorded twice: a child pointer on the parent and
// a parent pointer on the child, tagged with the tie kind of the edge type.
// Spouse, partner and sibling edges are recorded symmetrically. Direct
// sibling edges are tagged blood uniformly; the data model cannot tell full
// from half siblings. Duplicate edges are idempotent, while distinct types
// between the same pair are kept as separate entries — a person can be a
// step-parent first and an adoptive parent later.
//
// Build assumes an already validated edge list: unknown types and
// self-referencing edges are rejected upstream.
func Build(edges []Edge) *Graph {
	g := &Graph{nodes: make(map[string]*node, len(edges)*2)}

	for _, e := range edges {
		if kind, ok := parentTies[e.Type]; ok {
			parent, child := g.node(e.PersonA), g.node(e.PersonB)
			parent.children = addTie(parent.children, tie{id: e.PersonB, kind: kind})
			child.parents = addTie(child.parents, tie{id: e.PersonA, kind: kind})

			continue
		}

		switch e.Type {
		case EdgeSpouse, EdgePartner:
			kind := TieMarriage
			if e.Type == EdgePartner {
				kind = TiePartnership
			}

			na, nb := g.node(e.PersonA), g.node(e.PersonB)
			na.partners = addTie(na.partners, tie{id: e.PersonB, kind: kind})
			nb.partners = addTie(nb.partners, tie{id: e.PersonA, kind: kind})

		case EdgeSibling:
			na, nb := g.node(e.PersonA), g.node(e.PersonB)
			na.siblings = addTie(na.siblings, tie{id: e.PersonB, kind: TieBlood})
			nb.siblings = addTie(nb.siblings, tie{id: e.PersonA, kind: TieBlood})
		}
	}

	return g
}

// node returns the node for id, creating it on first reference.
func (g *Graph) node(id string) *node {
	n, ok := g.nodes[id]
	if !ok {
		n = &node{}
		g.nodes[id] = n
	}

	return n
}

// addTie appends t unless an identical entry already exists.
func addTie(ties []tie, t tie) []tie {
	for _, existing := range ties {
		if existing == t {
			return ties
		}
	}

	return append(ties, t)
}

// Contains reports whether id appears in any edge the graph was built from.
func (g *Graph) Contains(id string) bool {
	_, ok := g.nodes[id]

	return ok
}

// Size returns the number of people in the graph.
func (g *Graph) Size() int {
	return len(g.nodes)
}

// Partners returns the partner neighbor list for id in input order.
func (g *Graph) partnerTies(id string) []tie {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}

	return n.partners
}
