package ports

import (
	"goterm/domain/core"
	"goterm/domain/ontology"
)

// AnnotationSource supplies item-to-category assignments. Resolution of
// ambiguous aliases to item identifiers happens entirely behind this
// interface; the engine only ever sees resolved identifiers or an explicit
// unresolved signal.
type AnnotationSource interface {
	// BackgroundItems lists every item identifier the source can resolve
	// to at least one category in any aspect.
	BackgroundItems() []core.ItemID

	// DirectCategories returns the categories directly assigned to item
	// within the given aspect. ok is false when the identifier is unknown
	// to the source; a known identifier with no categories in the aspect
	// returns an empty slice and ok true.
	DirectCategories(item core.ItemID, aspect ontology.Aspect) (ids []core.CategoryID, ok bool)
}
