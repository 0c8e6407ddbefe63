// Package annotate turns sets of item identifiers into category count maps,
// propagating indirect membership through ancestor categories and applying
// the unannotated-item policy.
package annotate

import (
	"sort"
	"sync"

	"goterm/domain/core"
	"goterm/domain/enrich"
	"goterm/domain/ontology"
	"goterm/ports"
)

// Tally is the per-category aggregate for one population or query build.
type Tally struct {
	// Count is the number of distinct items attributed to the category,
	// directly or through ancestor propagation.
	Count int
	// Direct is the number of distinct items directly annotated to the
	// category, without propagation.
	Direct int
	// Items holds the contributing item identifiers.
	Items []core.ItemID
}

// CountMap maps category ids to their tallies.
type CountMap map[core.CategoryID]*Tally

// Count returns the distinct-item count for a category, zero when absent.
func (m CountMap) Count(id core.CategoryID) int {
	if t, ok := m[id]; ok {
		return t.Count
	}
	return 0
}

// DirectCount returns the direct-annotation count for a category.
func (m CountMap) DirectCount(id core.CategoryID) int {
	if t, ok := m[id]; ok {
		return t.Direct
	}
	return 0
}

// attribution is the cached per-item result: which categories the item is
// attributed to, which of those are direct, and the conditions seen while
// resolving it. The same identifier recurs across the background build and
// every query build, so this is computed once.
type attribution struct {
	categories []core.CategoryID
	direct     map[core.CategoryID]bool
	unresolved bool
	dangling   []core.CategoryID
}

// Aggregator builds category count maps for one (graph, source, aspect)
// triple. It is safe for concurrent use: the per-item cache is guarded.
type Aggregator struct {
	graph  ports.CategoryGraph
	source ports.AnnotationSource
	aspect ontology.Aspect
	branch ontology.Category

	mu    sync.RWMutex
	cache map[core.ItemID]*attribution
}

// NewAggregator creates an aggregator. branch is the root's child for the
// analyzed aspect, used together with the root and the unannotated sentinel
// when an item resolves to no category.
func NewAggregator(graph ports.CategoryGraph, source ports.AnnotationSource, aspect ontology.Aspect, branch ontology.Category) *Aggregator {
	return &Aggregator{
		graph:  graph,
		source: source,
		aspect: aspect,
		branch: branch,
		cache:  make(map[core.ItemID]*attribution),
	}
}

// Build produces the category count map for the given items, incrementing
// each attributed category by exactly one per distinct item. Non-fatal
// conditions are returned as diagnostics alongside a complete map.
func (a *Aggregator) Build(items []core.ItemID) (CountMap, []enrich.Diagnostic) {
	counts := make(CountMap)
	var diags []enrich.Diagnostic
	seen := make(map[core.ItemID]bool, len(items))

	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true

		attr := a.attribute(item)
		if attr.unresolved {
			diags = append(diags, enrich.Diagf(enrich.DiagUnresolvedItem,
				"item %s maps to no category in aspect %s; counted as unannotated", item, a.aspect))
		}
		for _, ref := range attr.dangling {
			diags = append(diags, enrich.Diagf(enrich.DiagDanglingCategory,
				"item %s is annotated to %s, which is absent from the ontology; reference dropped", item, ref))
		}

		for _, cat := range attr.categories {
			t, ok := counts[cat]
			if !ok {
				t = &Tally{}
				counts[cat] = t
			}
			t.Count++
			t.Items = append(t.Items, item)
			if attr.direct[cat] {
				t.Direct++
			}
		}
	}
	return counts, diags
}

// attribute resolves one item to its attributed-category set, consulting
// the cache first.
func (a *Aggregator) attribute(item core.ItemID) *attribution {
	a.mu.RLock()
	attr, ok := a.cache[item]
	a.mu.RUnlock()
	if ok {
		return attr
	}

	attr = a.resolve(item)

	a.mu.Lock()
	a.cache[item] = attr
	a.mu.Unlock()
	return attr
}

func (a *Aggregator) resolve(item core.ItemID) *attribution {
	attr := &attribution{direct: make(map[core.CategoryID]bool)}
	attributed := make(map[core.CategoryID]bool)

	directIDs, resolved := a.source.DirectCategories(item, a.aspect)
	if !resolved {
		attr.unresolved = true
	}

	if resolved {
		for _, id := range directIDs {
			if _, inGraph := a.graph.ByID(id); !inGraph {
				// Annotation names a category the ontology does not carry.
				// Drop this single reference and fall back for it alone.
				attr.dangling = append(attr.dangling, id)
				a.fallback(attr, attributed)
				continue
			}
			attributed[id] = true
			attr.direct[id] = true
			for _, anc := range a.graph.Ancestors(id) {
				attributed[anc] = true
			}
		}
	}

	if len(attributed) == 0 {
		// Unresolved identifier, or resolved with no category in this aspect.
		// Only the unresolved case is diagnosed: a resolved item with no
		// category in the analyzed aspect is ordinary unannotated membership.
		a.fallback(attr, attributed)
	}

	// Deterministic ordering keeps count maps reproducible across runs.
	attr.categories = sortedIDs(attributed)
	return attr
}

// fallback attributes an item to the root, the aspect branch node, and the
// unannotated sentinel. All three count as direct annotations.
func (a *Aggregator) fallback(attr *attribution, attributed map[core.CategoryID]bool) {
	for _, id := range []core.CategoryID{a.graph.Root().ID, a.branch.ID, ontology.UnannotatedID} {
		attributed[id] = true
		attr.direct[id] = true
	}
}

func sortedIDs(set map[core.CategoryID]bool) []core.CategoryID {
	out := make([]core.CategoryID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
