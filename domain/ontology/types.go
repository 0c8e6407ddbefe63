package ontology

import (
	"fmt"
	"strings"

	"goterm/domain/core"
)

// Aspect selects one of the three top-level branches of the category DAG.
// A query is always evaluated within exactly one aspect.
type Aspect string

const (
	AspectProcess   Aspect = "process"
	AspectFunction  Aspect = "function"
	AspectComponent Aspect = "component"
)

// ParseAspect parses a string into an Aspect. It accepts the GAF
// single-letter codes (P, F, C) as well as the full names.
func ParseAspect(s string) (Aspect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "process", "biological_process", "p":
		return AspectProcess, nil
	case "function", "molecular_function", "f":
		return AspectFunction, nil
	case "component", "cellular_component", "c":
		return AspectComponent, nil
	}
	return "", fmt.Errorf("unknown aspect %q", s)
}

// String returns the aspect name
func (a Aspect) String() string { return string(a) }

// IsValid reports whether the aspect is one of the three known branches
func (a Aspect) IsValid() bool {
	return a == AspectProcess || a == AspectFunction || a == AspectComponent
}

// Category is one vertex of the classification DAG. Edges are held by the
// graph, not the node, so categories are plain values.
type Category struct {
	ID     core.CategoryID `json:"id"`
	Name   string          `json:"name"`
	Aspect Aspect          `json:"aspect,omitempty"`
}

// UnannotatedID identifies the synthetic sentinel category for items that
// resolve to no category in the analyzed aspect. It exists outside the DAG:
// it has no parents, no children, and must never appear in graph traversals.
const UnannotatedID = core.CategoryID("unannotated")

// Unannotated returns the sentinel category value.
func Unannotated() Category {
	return Category{ID: UnannotatedID, Name: "unannotated"}
}

// IsUnannotated reports whether id names the sentinel category.
func IsUnannotated(id core.CategoryID) bool {
	return id == UnannotatedID
}
