package engine

import (
	"testing"

	"goterm/domain/core"
	"goterm/domain/enrich"
	"goterm/domain/ontology"
	"goterm/internal/annotate"
	"goterm/internal/testkit"
)

func hypothesisFor(t *testing.T, id core.CategoryID, queryCount int) enrich.Hypothesis {
	t.Helper()
	h, err := enrich.NewHypothesis(ontology.Category{ID: id}, 0.01, queryCount, queryCount*3, nil)
	if err != nil {
		t.Fatalf("hypothesis %s: %v", id, err)
	}
	return h
}

// Layout under test (SmallProcess):
//
//	root -> process -> {metabolism -> amino-acid -> methionine, transport}
func TestMinimalHypothesisSet_LeafCounted(t *testing.T) {
	kit, err := testkit.SmallProcess()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}

	// methionine is a hypothesis with no hypothesis children; every
	// ancestor chain above it is reconstructible.
	hyps := []enrich.Hypothesis{
		hypothesisFor(t, "methionine", 3),
		hypothesisFor(t, "amino-acid", 3),
		hypothesisFor(t, "metabolism", 3),
		hypothesisFor(t, "process", 3),
		hypothesisFor(t, "root", 3),
	}
	counts := annotate.CountMap{
		"methionine": {Count: 3, Direct: 3},
		"amino-acid": {Count: 3},
		"metabolism": {Count: 3},
		"process":    {Count: 3},
		"root":       {Count: 3},
	}

	if k := minimalHypothesisSetSize(hyps, counts, kit.Graph); k != 1 {
		t.Errorf("minimal set size = %d, want 1 (methionine alone)", k)
	}
}

func TestMinimalHypothesisSet_SingletonChildForcesParent(t *testing.T) {
	kit, err := testkit.SmallProcess()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}

	// metabolism has a hypothesis child chain, but transport under process
	// carries a single annotation represented by no hypothesis, so process
	// must be counted to capture it.
	hyps := []enrich.Hypothesis{
		hypothesisFor(t, "methionine", 2),
		hypothesisFor(t, "amino-acid", 2),
		hypothesisFor(t, "metabolism", 2),
		hypothesisFor(t, "process", 3),
		hypothesisFor(t, "root", 3),
	}
	counts := annotate.CountMap{
		"methionine": {Count: 2, Direct: 2},
		"amino-acid": {Count: 2},
		"metabolism": {Count: 2},
		"transport":  {Count: 1, Direct: 1},
		"process":    {Count: 3},
		"root":       {Count: 3},
	}

	// methionine (leaf) + process (singleton transport child).
	if k := minimalHypothesisSetSize(hyps, counts, kit.Graph); k != 2 {
		t.Errorf("minimal set size = %d, want 2", k)
	}
}

func TestMinimalHypothesisSet_DirectAnnotationForcesParent(t *testing.T) {
	kit, err := testkit.SmallProcess()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}

	// metabolism carries a direct annotation of its own, which no
	// descendant hypothesis represents.
	hyps := []enrich.Hypothesis{
		hypothesisFor(t, "methionine", 2),
		hypothesisFor(t, "amino-acid", 2),
		hypothesisFor(t, "metabolism", 3),
		hypothesisFor(t, "process", 3),
		hypothesisFor(t, "root", 3),
	}
	counts := annotate.CountMap{
		"methionine": {Count: 2, Direct: 2},
		"amino-acid": {Count: 2},
		"metabolism": {Count: 3, Direct: 1},
		"process":    {Count: 3},
		"root":       {Count: 3},
	}

	// methionine (leaf) + metabolism (directly annotated).
	if k := minimalHypothesisSetSize(hyps, counts, kit.Graph); k != 2 {
		t.Errorf("minimal set size = %d, want 2", k)
	}
}

func TestMinimalHypothesisSet_SentinelIsLeaf(t *testing.T) {
	kit, err := testkit.SmallProcess()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}

	hyps := []enrich.Hypothesis{
		hypothesisFor(t, ontology.UnannotatedID, 2),
		hypothesisFor(t, "process", 2),
		hypothesisFor(t, "root", 2),
	}
	counts := annotate.CountMap{
		ontology.UnannotatedID: {Count: 2, Direct: 2},
		"process":              {Count: 2, Direct: 2},
		"root":                 {Count: 2, Direct: 2},
	}

	// The sentinel has no graph children and counts as a leaf; process is a
	// leaf too (no hypothesis child), and root is directly annotated by the
	// fallback policy.
	if k := minimalHypothesisSetSize(hyps, counts, kit.Graph); k != 3 {
		t.Errorf("minimal set size = %d, want 3", k)
	}
}
