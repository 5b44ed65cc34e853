// Package mapview keeps the filtered and visible entity sets of a map in sync with
// their inputs.
package mapview

import (
	"slices"

	"github.com/opensensemap/osem-map/internal/filter"
	"github.com/opensensemap/osem-map/internal/viewport"
)

// Item is an entity that can be filtered and placed on the map.
type Item interface {
	filter.Projector
	viewport.Locator
}

// View recomputes synchronously on every change. The filter always runs before the
// viewport, and a viewport change only re-narrows the cached filtered set.
// A View is not safe for concurrent use.
type View[T Item] struct {
	source   []T
	criteria filter.Criteria
	bounds   *viewport.Bounds

	filtered []T
	visible  []T
}

// New creates a view over source with empty criteria and no viewport.
func New[T Item](source []T) *View[T] {
	v := &View[T]{}
	v.SetSource(source)
	return v
}

// SetSource replaces the entity source.
func (v *View[T]) SetSource(source []T) {
	v.source = slices.Clone(source)
	v.refilter()
}

// SetCriteria replaces the filter criteria.
func (v *View[T]) SetCriteria(c filter.Criteria) {
	v.criteria = c
	v.refilter()
}

// SetBounds restricts the visible set to b.
func (v *View[T]) SetBounds(b viewport.Bounds) {
	v.bounds = &b
	v.renarrow()
}

// ClearBounds removes the viewport restriction.
func (v *View[T]) ClearBounds() {
	v.bounds = nil
	v.renarrow()
}

// Criteria returns the active criteria.
func (v *View[T]) Criteria() filter.Criteria {
	return v.criteria
}

// Bounds returns the active viewport, if any.
func (v *View[T]) Bounds() (viewport.Bounds, bool) {
	if v.bounds == nil {
		return viewport.Bounds{}, false
	}
	return *v.bounds, true
}

// Total returns the size of the source.
func (v *View[T]) Total() int {
	return len(v.source)
}

// Filtered returns the entities passing the criteria, ignoring the viewport.
func (v *View[T]) Filtered() []T {
	return slices.Clone(v.filtered)
}

// Visible returns the entities passing the criteria inside the viewport.
func (v *View[T]) Visible() []T {
	return slices.Clone(v.visible)
}

func (v *View[T]) refilter() {
	v.filtered = filter.Entities(v.source, v.criteria)
	v.renarrow()
}

func (v *View[T]) renarrow() {
	if v.bounds == nil {
		v.visible = v.filtered
		return
	}
	v.visible = viewport.Intersect(v.filtered, *v.bounds)
}
