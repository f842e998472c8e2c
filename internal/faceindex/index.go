// Package faceindex provides a 2D R-tree over obstacle face centroids so the
// isovist builder only tests faces near a viewpoint.
package faceindex

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// Node fan-out of the underlying R-tree.
const (
	minChildren = 8
	maxChildren = 32
)

// pad keeps point entries and query edges from touching exactly, which the
// R-tree treats as disjoint.
const pad = 1e-9

// entry wraps an item with its plan position.
type entry[T any] struct {
	seq  int
	x, y float64
	rect rtreego.Rect
	item T
}

// Bounds implements rtreego.Spatial.
func (e *entry[T]) Bounds() rtreego.Rect {
	return e.rect
}

// Index is an immutable spatial index of items keyed by a plan position.
//
// Index is safe for concurrent queries.
type Index[T any] struct {
	tree *rtreego.Rtree
	size int
}

// New bulk-loads items. pos returns the plan position of an item.
func New[T any](items []T, pos func(T) (x, y float64)) *Index[T] {
	objs := make([]rtreego.Spatial, 0, len(items))
	for i, it := range items {
		x, y := pos(it)
		objs = append(objs, &entry[T]{
			seq:  i,
			x:    x,
			y:    y,
			rect: rtreego.Point{x, y}.ToRect(pad),
			item: it,
		})
	}
	return &Index[T]{
		tree: rtreego.NewTree(2, minChildren, maxChildren, objs...),
		size: len(items),
	}
}

// Len returns the number of indexed items.
func (ix *Index[T]) Len() int {
	return ix.size
}

// Within returns the items whose position lies within distance r of (x, y),
// in the order they were given to New.
func (ix *Index[T]) Within(x, y, r float64) []T {
	if ix.size == 0 || r < 0 || math.IsNaN(r) {
		return nil
	}
	q := r + pad
	bb, err := rtreego.NewRectFromPoints(rtreego.Point{x - q, y - q}, rtreego.Point{x + q, y + q})
	if err != nil {
		return nil
	}

	hits := ix.tree.SearchIntersect(bb)
	found := make([]*entry[T], 0, len(hits))
	for _, h := range hits {
		e := h.(*entry[T])
		if math.Hypot(e.x-x, e.y-y) <= r {
			found = append(found, e)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].seq < found[j].seq })

	out := make([]T, len(found))
	for i, e := range found {
		out[i] = e.item
	}
	return out
}
