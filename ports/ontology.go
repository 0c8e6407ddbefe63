package ports

import (
	"goterm/domain/core"
	"goterm/domain/ontology"
)

// CategoryGraph exposes the classification DAG. Nodes may have multiple
// parents and multiple children; the synthetic unannotated sentinel is not
// part of the graph and is never returned by these operations.
type CategoryGraph interface {
	// Root returns the single root category of the DAG.
	Root() ontology.Category

	// RootChildren returns the root's direct children, one per aspect.
	RootChildren() []ontology.Category

	// ByID looks up a category, reporting absence explicitly.
	ByID(id core.CategoryID) (ontology.Category, bool)

	// Children returns the direct children of a category.
	Children(id core.CategoryID) []core.CategoryID

	// Parents returns the direct parents of a category.
	Parents(id core.CategoryID) []core.CategoryID

	// Ancestors returns the full ancestor set of a category, excluding
	// the category itself. Order is unspecified.
	Ancestors(id core.CategoryID) []core.CategoryID
}
