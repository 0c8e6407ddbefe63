// Package annotation provides in-memory annotation sources. Alias
// disambiguation happens upstream of this package: a source is built from
// already-resolved item identifiers.
package annotation

import (
	"sort"

	"goterm/domain/core"
	"goterm/domain/ontology"
	"goterm/ports"
)

// MemorySource is an AnnotationSource over explicit item-to-category tables.
type MemorySource struct {
	direct map[core.ItemID]map[ontology.Aspect][]core.CategoryID
}

var _ ports.AnnotationSource = (*MemorySource)(nil)

// NewMemorySource creates an empty in-memory annotation source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		direct: make(map[core.ItemID]map[ontology.Aspect][]core.CategoryID),
	}
}

// Annotate records a direct assignment of item to category within aspect.
// Duplicate assignments are kept once.
func (s *MemorySource) Annotate(item core.ItemID, aspect ontology.Aspect, cat core.CategoryID) {
	byAspect, ok := s.direct[item]
	if !ok {
		byAspect = make(map[ontology.Aspect][]core.CategoryID)
		s.direct[item] = byAspect
	}
	for _, existing := range byAspect[aspect] {
		if existing == cat {
			return
		}
	}
	byAspect[aspect] = append(byAspect[aspect], cat)
}

// AddItem registers an item with no annotations, making it resolvable.
func (s *MemorySource) AddItem(item core.ItemID) {
	if _, ok := s.direct[item]; !ok {
		s.direct[item] = make(map[ontology.Aspect][]core.CategoryID)
	}
}

// BackgroundItems lists every resolvable item identifier in ascending order.
func (s *MemorySource) BackgroundItems() []core.ItemID {
	items := make([]core.ItemID, 0, len(s.direct))
	for item := range s.direct {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return items
}

// DirectCategories returns the categories directly assigned to item within
// aspect. ok is false when the identifier is unknown to the source.
func (s *MemorySource) DirectCategories(item core.ItemID, aspect ontology.Aspect) ([]core.CategoryID, bool) {
	byAspect, ok := s.direct[item]
	if !ok {
		return nil, false
	}
	return byAspect[aspect], true
}
