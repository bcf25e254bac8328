package virtual

import (
	"github.com/charmbracelet/vscroll/internal/csync"
)

// registry is the authoritative ordered item list. Items live in a dense
// arena and ids map to arena indices through a side table. Heights are
// cached by id so they survive unmount and remount.
type registry[U any] struct {
	items   *csync.Slice[Item[U]]
	index   *csync.Map[string, int]
	heights *csync.Map[string, float64]
	extents *extents

	estimate float64
}

func newRegistry[U any](estimate float64) *registry[U] {
	return &registry[U]{
		items:    csync.NewSlice[Item[U]](),
		index:    csync.NewMap[string, int](),
		heights:  csync.NewMap[string, float64](),
		extents:  newExtents(),
		estimate: estimate,
	}
}

func valid[U any](item Item[U]) bool {
	return item.ID != "" && item.Factory != nil
}

// setAll replaces the list and drops every cached height. Invalid items and
// repeated ids after the first occurrence are skipped.
func (r *registry[U]) setAll(items []Item[U]) {
	r.heights.Reset()
	r.index.Reset()
	kept := make([]Item[U], 0, len(items))
	for _, item := range items {
		if !valid(item) {
			continue
		}
		if _, dup := r.index.Get(item.ID); dup {
			continue
		}
		r.index.Set(item.ID, len(kept))
		kept = append(kept, item)
	}
	r.items.SetSlice(kept)
	r.rebuild()
}

// append adds item at the end. It reports false for invalid items and ids
// that are already registered.
func (r *registry[U]) append(item Item[U]) bool {
	if !valid(item) {
		return false
	}
	if _, dup := r.index.Get(item.ID); dup {
		return false
	}
	r.index.Set(item.ID, r.items.Len())
	r.items.Append(item)
	r.extents.push(r.effective(item.ID))
	return true
}

// update swaps the factory of id and invalidates its cached height.
func (r *registry[U]) update(id string, factory Factory[U]) (int, bool) {
	i, ok := r.index.Get(id)
	if !ok || factory == nil {
		return 0, false
	}
	r.items.Set(i, Item[U]{ID: id, Factory: factory})
	r.heights.Del(id)
	r.extents.set(i, r.estimate)
	return i, true
}

// remove deletes id and reindexes every following item.
func (r *registry[U]) remove(id string) (int, bool) {
	i, ok := r.index.Take(id)
	if !ok {
		return 0, false
	}
	r.items.Delete(i)
	r.heights.Del(id)
	for j, item := range r.items.Seq2() {
		if j >= i {
			r.index.Set(item.ID, j)
		}
	}
	r.rebuild()
	return i, true
}

func (r *registry[U]) clear() {
	r.items.SetSlice(nil)
	r.index.Reset()
	r.heights.Reset()
	r.extents.reset(nil)
}

func (r *registry[U]) count() int {
	return r.items.Len()
}

func (r *registry[U]) at(i int) (Item[U], bool) {
	return r.items.Get(i)
}

func (r *registry[U]) indexOf(id string) (int, bool) {
	return r.index.Get(id)
}

// effective returns the cached height of id, or the estimate.
func (r *registry[U]) effective(id string) float64 {
	if h, ok := r.heights.Get(id); ok {
		return h
	}
	return r.estimate
}

// cached returns the measured height of id, if any.
func (r *registry[U]) cached(id string) (float64, bool) {
	return r.heights.Get(id)
}

// setHeight records a measurement and returns the change in effective
// height.
func (r *registry[U]) setHeight(id string, h float64) float64 {
	i, ok := r.index.Get(id)
	if !ok {
		return 0
	}
	h = max(h, 0)
	r.heights.Set(id, h)
	return r.extents.set(i, h)
}

// top is the sum of the effective heights of every item before i.
func (r *registry[U]) top(i int) float64 {
	return r.extents.prefix(i)
}

func (r *registry[U]) total() float64 {
	return r.extents.total()
}

func (r *registry[U]) rebuild() {
	values := make([]float64, 0, r.items.Len())
	for item := range r.items.Seq() {
		values = append(values, r.effective(item.ID))
	}
	r.extents.reset(values)
}
