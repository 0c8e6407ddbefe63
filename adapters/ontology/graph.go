// Package ontology provides the in-memory category DAG used by the
// enrichment engine. Nodes live in an arena slice and reference each other
// by id-based edge lists in both directions; there are no parent or child
// pointers, so the multi-parent structure has no ownership cycles.
package ontology

import (
	"fmt"
	"sort"
	"sync"

	"goterm/domain/core"
	domont "goterm/domain/ontology"
	"goterm/ports"
)

// node is one arena entry. Edges are indices into the arena.
type node struct {
	category domont.Category
	parents  []int
	children []int
}

// Graph is an immutable category DAG satisfying ports.CategoryGraph.
// Ancestor closures are computed on demand and memoized.
type Graph struct {
	nodes   []node
	byID    map[core.CategoryID]int
	rootIdx int

	mu        sync.RWMutex
	ancestors map[int][]core.CategoryID
}

var _ ports.CategoryGraph = (*Graph)(nil)

// Builder accumulates categories and edges before freezing them into a Graph.
type Builder struct {
	categories []domont.Category
	edges      [][2]core.CategoryID // child, parent
	rootID     core.CategoryID
}

// NewBuilder creates an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddCategory registers a category. The first category added with no
// parents recorded for it may later be declared the root.
func (b *Builder) AddCategory(cat domont.Category) *Builder {
	b.categories = append(b.categories, cat)
	return b
}

// AddEdge records a child -> parent (is-a) edge.
func (b *Builder) AddEdge(child, parent core.CategoryID) *Builder {
	b.edges = append(b.edges, [2]core.CategoryID{child, parent})
	return b
}

// Root declares the root category id.
func (b *Builder) Root(id core.CategoryID) *Builder {
	b.rootID = id
	return b
}

// Build freezes the builder into an immutable Graph.
func (b *Builder) Build() (*Graph, error) {
	if b.rootID == "" {
		return nil, fmt.Errorf("ontology: root category not declared")
	}
	g := &Graph{
		byID:      make(map[core.CategoryID]int, len(b.categories)),
		ancestors: make(map[int][]core.CategoryID),
	}
	for _, cat := range b.categories {
		if domont.IsUnannotated(cat.ID) {
			return nil, fmt.Errorf("ontology: the unannotated sentinel cannot be a graph node")
		}
		if _, dup := g.byID[cat.ID]; dup {
			return nil, fmt.Errorf("ontology: duplicate category %s", cat.ID)
		}
		g.byID[cat.ID] = len(g.nodes)
		g.nodes = append(g.nodes, node{category: cat})
	}
	rootIdx, ok := g.byID[b.rootID]
	if !ok {
		return nil, fmt.Errorf("ontology: root category %s not registered", b.rootID)
	}
	g.rootIdx = rootIdx
	for _, e := range b.edges {
		ci, ok := g.byID[e[0]]
		if !ok {
			return nil, fmt.Errorf("ontology: edge references unknown child %s", e[0])
		}
		pi, ok := g.byID[e[1]]
		if !ok {
			return nil, fmt.Errorf("ontology: edge references unknown parent %s", e[1])
		}
		g.nodes[ci].parents = append(g.nodes[ci].parents, pi)
		g.nodes[pi].children = append(g.nodes[pi].children, ci)
	}
	return g, nil
}

// Root returns the root category.
func (g *Graph) Root() domont.Category {
	return g.nodes[g.rootIdx].category
}

// RootChildren returns the root's direct children, the aspect branch nodes,
// in ascending id order.
func (g *Graph) RootChildren() []domont.Category {
	children := g.nodes[g.rootIdx].children
	out := make([]domont.Category, 0, len(children))
	for _, ci := range children {
		out = append(out, g.nodes[ci].category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AspectBranch returns the root child belonging to the given aspect.
func (g *Graph) AspectBranch(aspect domont.Aspect) (domont.Category, bool) {
	for _, ci := range g.nodes[g.rootIdx].children {
		if g.nodes[ci].category.Aspect == aspect {
			return g.nodes[ci].category, true
		}
	}
	return domont.Category{}, false
}

// ByID looks up a category by id.
func (g *Graph) ByID(id core.CategoryID) (domont.Category, bool) {
	i, ok := g.byID[id]
	if !ok {
		return domont.Category{}, false
	}
	return g.nodes[i].category, true
}

// Children returns the direct children of a category.
func (g *Graph) Children(id core.CategoryID) []core.CategoryID {
	i, ok := g.byID[id]
	if !ok {
		return nil
	}
	out := make([]core.CategoryID, 0, len(g.nodes[i].children))
	for _, ci := range g.nodes[i].children {
		out = append(out, g.nodes[ci].category.ID)
	}
	return out
}

// Parents returns the direct parents of a category.
func (g *Graph) Parents(id core.CategoryID) []core.CategoryID {
	i, ok := g.byID[id]
	if !ok {
		return nil
	}
	out := make([]core.CategoryID, 0, len(g.nodes[i].parents))
	for _, pi := range g.nodes[i].parents {
		out = append(out, g.nodes[pi].category.ID)
	}
	return out
}

// Ancestors returns the full ancestor set of a category, excluding the
// category itself. Closures are memoized; the memo is guarded so separate
// queries can share one graph.
func (g *Graph) Ancestors(id core.CategoryID) []core.CategoryID {
	i, ok := g.byID[id]
	if !ok {
		return nil
	}

	g.mu.RLock()
	memo, ok := g.ancestors[i]
	g.mu.RUnlock()
	if ok {
		return memo
	}

	seen := make(map[int]bool)
	stack := append([]int(nil), g.nodes[i].parents...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, g.nodes[cur].parents...)
	}
	closure := make([]core.CategoryID, 0, len(seen))
	for ai := range seen {
		closure = append(closure, g.nodes[ai].category.ID)
	}
	sort.Slice(closure, func(a, b int) bool { return closure[a] < closure[b] })

	g.mu.Lock()
	g.ancestors[i] = closure
	g.mu.Unlock()
	return closure
}

// IsAncestorOf reports whether a is an ancestor of b.
func (g *Graph) IsAncestorOf(a, b core.CategoryID) bool {
	for _, anc := range g.Ancestors(b) {
		if anc == a {
			return true
		}
	}
	return false
}

// Len returns the number of categories in the graph.
func (g *Graph) Len() int { return len(g.nodes) }
