// Package testkit provides testing utilities and fixtures: a small
// hand-built ontology for unit tests and a large synthetic genome for the
// regression scenario.
package testkit

import (
	"fmt"

	"goterm/adapters/annotation"
	adont "goterm/adapters/ontology"
	"goterm/domain/core"
	"goterm/domain/ontology"
)

// Kit bundles one ontology graph with one annotation source.
type Kit struct {
	Graph  *adont.Graph
	Source *annotation.MemorySource
}

// SmallProcess builds a compact process-aspect ontology:
//
//	root -> process -> {metabolism -> {amino-acid -> methionine}, transport}
//
// with no annotations yet; tests annotate as needed.
func SmallProcess() (*Kit, error) {
	g, err := adont.NewBuilder().
		AddCategory(ontology.Category{ID: "root", Name: "all"}).
		AddCategory(ontology.Category{ID: "process", Name: "biological process", Aspect: ontology.AspectProcess}).
		AddCategory(ontology.Category{ID: "metabolism", Name: "metabolic process", Aspect: ontology.AspectProcess}).
		AddCategory(ontology.Category{ID: "amino-acid", Name: "amino acid metabolism", Aspect: ontology.AspectProcess}).
		AddCategory(ontology.Category{ID: "methionine", Name: "methionine metabolism", Aspect: ontology.AspectProcess}).
		AddCategory(ontology.Category{ID: "transport", Name: "transport", Aspect: ontology.AspectProcess}).
		AddEdge("process", "root").
		AddEdge("metabolism", "process").
		AddEdge("amino-acid", "metabolism").
		AddEdge("methionine", "amino-acid").
		AddEdge("transport", "process").
		Root("root").
		Build()
	if err != nil {
		return nil, err
	}
	return &Kit{Graph: g, Source: annotation.NewMemorySource()}, nil
}

// Genome is the synthetic regression population: 7300 items, a methionine
// category with 51 background members, and a curated 19-item query of which
// 13 fall in that category.
type Genome struct {
	Kit
	// Query is the curated 19-item list.
	Query []core.ItemID
	// MethionineID is the expected top-ranked category.
	MethionineID core.CategoryID
}

// PopulationSize is the size of the synthetic genome.
const PopulationSize = 7300

// SyntheticGenome builds the regression fixture. Category layout:
//
//	root -> process -> sulfur -> methionine   (51 background, 13 queried)
//	                -> transport              (180 background, 4 queried)
//	                -> ribosome-biogenesis    (300 background, 2 queried)
//
// The remaining items carry no process annotation and fold into the
// unannotated sentinel.
func SyntheticGenome() (*Genome, error) {
	g, err := adont.NewBuilder().
		AddCategory(ontology.Category{ID: "root", Name: "all"}).
		AddCategory(ontology.Category{ID: "process", Name: "biological process", Aspect: ontology.AspectProcess}).
		AddCategory(ontology.Category{ID: "sulfur", Name: "sulfur metabolism", Aspect: ontology.AspectProcess}).
		AddCategory(ontology.Category{ID: "methionine", Name: "methionine metabolism", Aspect: ontology.AspectProcess}).
		AddCategory(ontology.Category{ID: "transport", Name: "transport", Aspect: ontology.AspectProcess}).
		AddCategory(ontology.Category{ID: "ribosome-biogenesis", Name: "ribosome biogenesis", Aspect: ontology.AspectProcess}).
		AddEdge("process", "root").
		AddEdge("sulfur", "process").
		AddEdge("methionine", "sulfur").
		AddEdge("transport", "process").
		AddEdge("ribosome-biogenesis", "process").
		Root("root").
		Build()
	if err != nil {
		return nil, err
	}

	src := annotation.NewMemorySource()
	genome := &Genome{
		Kit:          Kit{Graph: g, Source: src},
		MethionineID: "methionine",
	}

	next := 0
	take := func(n int) []core.ItemID {
		out := make([]core.ItemID, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, core.ItemID(fmt.Sprintf("orf%04d", next)))
			next++
		}
		return out
	}

	met := take(51)
	trans := take(180)
	ribo := take(300)
	for _, item := range met {
		src.Annotate(item, ontology.AspectProcess, "methionine")
	}
	for _, item := range trans {
		src.Annotate(item, ontology.AspectProcess, "transport")
	}
	for _, item := range ribo {
		src.Annotate(item, ontology.AspectProcess, "ribosome-biogenesis")
	}
	for _, item := range take(PopulationSize - next) {
		src.AddItem(item)
	}

	// 13 methionine members, 4 transporters, 2 ribosome items.
	genome.Query = append(genome.Query, met[:13]...)
	genome.Query = append(genome.Query, trans[:4]...)
	genome.Query = append(genome.Query, ribo[:2]...)
	return genome, nil
}
