package virtual

import "math"

type mounted[U any] struct {
	unit    U
	factory Factory[U]
	// gen tells a live mount apart from stale resize callbacks of an earlier
	// mount of the same id.
	gen uint64
}

// reconcile moves the mounted window from s.window to next. Indices in both
// ranges are left alone.
func (s *Scroller[U]) reconcile(next Range) {
	prev := s.window
	for i := prev.Start; i < prev.End; i++ {
		if next.Contains(i) {
			continue
		}
		if item, ok := s.registry.at(i); ok {
			s.unmount(item.ID)
		}
	}
	s.window = next
	for i := next.Start; i < next.End; i++ {
		if prev.Contains(i) {
			continue
		}
		s.mount(i)
	}
}

// mount creates the unit for index i and places it before the next mounted
// sibling so units stay in ascending index order.
func (s *Scroller[U]) mount(i int) {
	item, ok := s.registry.at(i)
	if !ok {
		return
	}
	if _, ok := s.mounted.Get(item.ID); ok {
		return
	}
	unit := item.Factory.Create()
	if next, ok := s.nextMounted(i); ok {
		s.container.InsertBefore(unit, next)
	} else {
		s.container.Append(unit)
	}
	s.gen++
	s.mounted.Set(item.ID, mounted[U]{unit: unit, factory: item.Factory, gen: s.gen})
	s.observe(item.ID, unit, s.gen)
}

func (s *Scroller[U]) nextMounted(i int) (U, bool) {
	last := max(s.window.End, i+1)
	for j := i + 1; j < last; j++ {
		item, ok := s.registry.at(j)
		if !ok {
			break
		}
		if m, ok := s.mounted.Get(item.ID); ok {
			return m.unit, true
		}
	}
	var zero U
	return zero, false
}

// unmount removes id from the host and disposes its unit. It is a no-op
// for ids that are not mounted.
func (s *Scroller[U]) unmount(id string) {
	m, ok := s.mounted.Take(id)
	if !ok {
		return
	}
	if s.observer != nil {
		s.observer.Unobserve(m.unit)
	}
	s.container.Remove(m.unit)
	m.factory.Dispose(m.unit)
}

// remount replaces the unit of a mounted id in place.
func (s *Scroller[U]) remount(id string, factory Factory[U]) {
	old, ok := s.mounted.Get(id)
	if !ok {
		return
	}
	if s.observer != nil {
		s.observer.Unobserve(old.unit)
	}
	unit := factory.Create()
	s.container.InsertBefore(unit, old.unit)
	s.container.Remove(old.unit)
	old.factory.Dispose(old.unit)

	s.gen++
	s.mounted.Set(id, mounted[U]{unit: unit, factory: factory, gen: s.gen})
	s.observe(id, unit, s.gen)
}

// unmountAll disposes every mounted unit in index order.
func (s *Scroller[U]) unmountAll() {
	for i := s.window.Start; i < s.window.End; i++ {
		if item, ok := s.registry.at(i); ok {
			s.unmount(item.ID)
		}
	}
	for id := range s.mounted.Clone() {
		s.unmount(id)
	}
	s.window = Range{}
}

func (s *Scroller[U]) observe(id string, unit U, gen uint64) {
	if s.observer == nil {
		return
	}
	s.observer.Observe(unit, func(height float64) {
		s.resized(id, gen, height)
	})
}

// resized records a new measurement for a mounted unit. Only the spacers
// are touched; the window is left for the next scroll cycle. The bottom
// spacer absorbs the change so the total extent stays put under the reader.
func (s *Scroller[U]) resized(id string, gen uint64, height float64) {
	if s.destroyed {
		return
	}
	m, ok := s.mounted.Get(id)
	if !ok || m.gen != gen {
		return
	}
	if prev, ok := s.registry.cached(id); ok && math.Abs(height-prev) <= resizeEpsilon {
		return
	}
	delta := s.registry.setHeight(id, height)
	if s.mode != ModeVirtualized {
		return
	}
	top := s.registry.top(min(s.window.Start, s.registry.count()))
	s.setSpacers(top, max(0, s.bottom-delta))
}

// updateSpacers sizes the placeholders from the cached heights.
func (s *Scroller[U]) updateSpacers() {
	if s.mode != ModeVirtualized {
		s.setSpacers(0, 0)
		return
	}
	n := s.registry.count()
	start := min(s.window.Start, n)
	end := min(s.window.End, n)
	s.setSpacers(s.registry.top(start), s.registry.total()-s.registry.top(end))
}

func (s *Scroller[U]) setSpacers(top, bottom float64) {
	s.top, s.bottom = top, bottom
	s.container.SetSpacers(top, bottom)
}
