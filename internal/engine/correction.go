package engine

import (
	"goterm/domain/core"
	"goterm/domain/enrich"
	"goterm/internal/annotate"
	"goterm/ports"
)

// minimalHypothesisSetSize returns the cardinality of the smallest set of
// tested hypotheses from which every tested hypothesis can be
// reconstructed. Tested categories are not independent: a parent's count is
// largely determined by its children's, so a naive Bonferroni count over
// all tested categories overcorrects.
//
// A hypothesis belongs to the minimal set when any of the following holds:
//
//  1. none of its direct children is itself a hypothesis, so its count
//     cannot be inferred from any child;
//  2. it has a direct child with a query count of exactly one — that
//     child's single annotation is represented by no counted hypothesis;
//  3. it receives at least one direct annotation from the query set, which
//     no descendant carries.
func minimalHypothesisSetSize(hypotheses []enrich.Hypothesis, counts annotate.CountMap, graph ports.CategoryGraph) int {
	isHypothesis := make(map[core.CategoryID]bool, len(hypotheses))
	for _, h := range hypotheses {
		isHypothesis[h.Category.ID] = true
	}

	size := 0
	for _, h := range hypotheses {
		// The sentinel has no children in the graph, so it falls through
		// as a leaf hypothesis below.
		childHypothesis := false
		singletonChild := false
		for _, child := range graph.Children(h.Category.ID) {
			if isHypothesis[child] {
				childHypothesis = true
			}
			if counts.Count(child) == 1 {
				singletonChild = true
			}
		}
		directlyAnnotated := counts.DirectCount(h.Category.ID) > 0

		if !childHypothesis || singletonChild || directlyAnnotated {
			size++
		}
	}
	return size
}
