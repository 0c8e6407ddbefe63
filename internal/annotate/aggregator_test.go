package annotate

import (
	"testing"

	"goterm/adapters/annotation"
	adont "goterm/adapters/ontology"
	"goterm/domain/core"
	"goterm/domain/enrich"
	domont "goterm/domain/ontology"
)

// fixture: root -> process -> {transport -> vesicle, signaling}
func fixture(t *testing.T) (*adont.Graph, *annotation.MemorySource, *Aggregator) {
	t.Helper()
	g, err := adont.NewBuilder().
		AddCategory(domont.Category{ID: "root", Name: "all"}).
		AddCategory(domont.Category{ID: "process", Name: "biological process", Aspect: domont.AspectProcess}).
		AddCategory(domont.Category{ID: "signaling", Name: "signaling", Aspect: domont.AspectProcess}).
		AddCategory(domont.Category{ID: "transport", Name: "transport", Aspect: domont.AspectProcess}).
		AddCategory(domont.Category{ID: "vesicle", Name: "vesicle transport", Aspect: domont.AspectProcess}).
		AddEdge("process", "root").
		AddEdge("signaling", "process").
		AddEdge("transport", "process").
		AddEdge("vesicle", "transport").
		Root("root").
		Build()
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}

	src := annotation.NewMemorySource()
	branch, _ := g.AspectBranch(domont.AspectProcess)
	agg := NewAggregator(g, src, domont.AspectProcess, branch)
	return g, src, agg
}

func TestBuild_AncestorPropagation(t *testing.T) {
	_, src, agg := fixture(t)
	src.Annotate("g1", domont.AspectProcess, "vesicle")

	counts, diags := agg.Build([]core.ItemID{"g1"})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	for _, id := range []core.CategoryID{"vesicle", "transport", "process", "root"} {
		if counts.Count(id) != 1 {
			t.Errorf("count(%s) = %d, want 1", id, counts.Count(id))
		}
	}
	if counts.Count("signaling") != 0 {
		t.Errorf("count(signaling) = %d, want 0", counts.Count("signaling"))
	}
	if counts.DirectCount("vesicle") != 1 {
		t.Errorf("direct(vesicle) = %d, want 1", counts.DirectCount("vesicle"))
	}
	if counts.DirectCount("transport") != 0 {
		t.Errorf("direct(transport) = %d, want 0 (inherited only)", counts.DirectCount("transport"))
	}
}

func TestBuild_ItemCountedOncePerCategory(t *testing.T) {
	_, src, agg := fixture(t)
	// Both annotations imply transport and its ancestors.
	src.Annotate("g1", domont.AspectProcess, "vesicle")
	src.Annotate("g1", domont.AspectProcess, "transport")

	counts, _ := agg.Build([]core.ItemID{"g1"})
	if counts.Count("transport") != 1 {
		t.Errorf("count(transport) = %d, want 1", counts.Count("transport"))
	}
	if counts.Count("root") != 1 {
		t.Errorf("count(root) = %d, want 1", counts.Count("root"))
	}

	// Duplicate identifiers in the input are also a single item.
	counts, _ = agg.Build([]core.ItemID{"g1", "g1"})
	if counts.Count("transport") != 1 {
		t.Errorf("count(transport) with duplicated input = %d, want 1", counts.Count("transport"))
	}
}

func TestBuild_UnresolvedFallsBackToSentinel(t *testing.T) {
	_, _, agg := fixture(t)

	counts, diags := agg.Build([]core.ItemID{"ghost"})

	for _, id := range []core.CategoryID{"root", "process", domont.UnannotatedID} {
		if counts.Count(id) != 1 {
			t.Errorf("count(%s) = %d, want 1", id, counts.Count(id))
		}
		if counts.DirectCount(id) != 1 {
			t.Errorf("direct(%s) = %d, want 1", id, counts.DirectCount(id))
		}
	}
	if len(counts) != 3 {
		t.Errorf("count map has %d categories, want 3", len(counts))
	}
	if len(diags) != 1 || diags[0].Code != enrich.DiagUnresolvedItem {
		t.Errorf("diagnostics = %v, want one UNRESOLVED_ITEM", diags)
	}
}

func TestBuild_ResolvedButEmptyAspect(t *testing.T) {
	_, src, agg := fixture(t)
	// Known item annotated only in another aspect.
	src.Annotate("g1", domont.AspectFunction, "whatever")

	counts, diags := agg.Build([]core.ItemID{"g1"})
	if counts.Count(domont.UnannotatedID) != 1 {
		t.Errorf("count(unannotated) = %d, want 1", counts.Count(domont.UnannotatedID))
	}
	// A resolvable identifier is not an unresolved-item condition.
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func TestBuild_DanglingReferenceDropped(t *testing.T) {
	_, src, agg := fixture(t)
	src.Annotate("g1", domont.AspectProcess, "obsolete-term")
	src.Annotate("g1", domont.AspectProcess, "vesicle")

	counts, diags := agg.Build([]core.ItemID{"g1"})

	if counts.Count("obsolete-term") != 0 {
		t.Error("dangling category must not be counted")
	}
	if counts.Count("vesicle") != 1 {
		t.Errorf("count(vesicle) = %d, want 1", counts.Count("vesicle"))
	}
	// The dropped reference falls back for that reference only.
	if counts.Count(domont.UnannotatedID) != 1 {
		t.Errorf("count(unannotated) = %d, want 1", counts.Count(domont.UnannotatedID))
	}
	found := false
	for _, d := range diags {
		if d.Code == enrich.DiagDanglingCategory {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %v, want a DANGLING_CATEGORY entry", diags)
	}
}

func TestBuild_CacheStableAcrossCalls(t *testing.T) {
	_, src, agg := fixture(t)
	src.Annotate("g1", domont.AspectProcess, "vesicle")
	src.Annotate("g2", domont.AspectProcess, "signaling")

	first, _ := agg.Build([]core.ItemID{"g1", "g2"})
	second, _ := agg.Build([]core.ItemID{"g1", "g2"})

	if len(first) != len(second) {
		t.Fatalf("count maps differ in size: %d vs %d", len(first), len(second))
	}
	for id, tally := range first {
		if second.Count(id) != tally.Count {
			t.Errorf("count(%s) changed between builds: %d vs %d", id, tally.Count, second.Count(id))
		}
	}

	// Diagnostics resurface on every build for cached unresolved items.
	_, d1 := agg.Build([]core.ItemID{"ghost"})
	_, d2 := agg.Build([]core.ItemID{"ghost"})
	if len(d1) != 1 || len(d2) != 1 {
		t.Errorf("cached unresolved item diagnostics = %d then %d, want 1 and 1", len(d1), len(d2))
	}
}

func TestBuild_ContributingItems(t *testing.T) {
	_, src, agg := fixture(t)
	src.Annotate("g1", domont.AspectProcess, "vesicle")
	src.Annotate("g2", domont.AspectProcess, "transport")

	counts, _ := agg.Build([]core.ItemID{"g1", "g2"})
	tally := counts["transport"]
	if tally == nil || len(tally.Items) != 2 {
		t.Fatalf("transport tally = %+v, want two contributing items", tally)
	}
}
