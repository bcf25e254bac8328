package virtual

import (
	"log/slog"

	"github.com/charmbracelet/vscroll/internal/csync"
)

// Scroller mounts the items of an ordered list into a Container, keeping
// only a window around the viewport mounted once the list is long enough.
//
// No method returns an error. Unknown ids are ignored and every method is a
// no-op after Destroy.
type Scroller[U any] struct {
	opts      options
	container Container[U]
	observer  SizeObserver[U]
	scheduler Scheduler
	stop      func()

	registry *registry[U]
	mounted  *csync.Map[string, mounted[U]]
	gen      uint64

	mode        Mode
	window      Range
	top, bottom float64

	pending   bool
	destroyed bool
}

// New creates an empty Scroller in direct mode rendering into container.
func New[U any](container Container[U], opts ...Option) *Scroller[U] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Scroller[U]{
		opts:      o,
		container: container,
		scheduler: o.scheduler,
		registry:  newRegistry[U](o.estimatedHeight),
		mounted:   csync.NewMap[string, mounted[U]](),
	}
	if s.scheduler == nil {
		if sched, ok := any(container).(Scheduler); ok {
			s.scheduler = sched
		}
	}
	if o.observe {
		if obs, ok := any(container).(SizeObserver[U]); ok {
			s.observer = obs
		}
	}
	if sig, ok := any(container).(Signaler); ok {
		s.stop = sig.Notify(s.HandleScroll)
	}
	return s
}

// SetItems replaces the whole list. The height cache is dropped.
func (s *Scroller[U]) SetItems(items []Item[U]) {
	if s.destroyed {
		return
	}
	s.unmountAll()
	s.registry.setAll(items)

	if s.mode == ModeDirect && s.registry.count() < s.opts.threshold {
		for i := range s.registry.count() {
			s.mount(i)
		}
		s.window = Range{End: s.registry.count()}
		s.updateSpacers()
		return
	}
	if s.mode == ModeDirect {
		s.activate()
		return
	}
	s.update()
}

// AppendItem adds item at the end of the list. Items with an id already in
// the list are ignored.
func (s *Scroller[U]) AppendItem(item Item[U]) {
	if s.destroyed || !s.registry.append(item) {
		return
	}
	if s.mode == ModeVirtualized {
		s.update()
		return
	}
	s.mount(s.registry.count() - 1)
	s.window = Range{End: s.registry.count()}
	if s.registry.count() >= s.opts.threshold {
		s.activate()
	}
}

// UpdateItem swaps the factory of id. A mounted unit is disposed and
// recreated in place and the cached height is dropped.
func (s *Scroller[U]) UpdateItem(id string, factory Factory[U]) {
	if s.destroyed {
		return
	}
	if _, ok := s.registry.update(id, factory); !ok {
		return
	}
	s.remount(id, factory)
	s.updateSpacers()
}

// RemoveItem deletes id from the list, disposing its unit when mounted.
func (s *Scroller[U]) RemoveItem(id string) {
	if s.destroyed {
		return
	}
	s.unmount(id)
	i, ok := s.registry.remove(id)
	if !ok {
		return
	}
	switch {
	case i < s.window.Start:
		s.window.Start--
		s.window.End--
	case i < s.window.End:
		s.window.End--
	}
	if s.mode == ModeVirtualized {
		s.update()
		return
	}
	s.updateSpacers()
}

// Clear empties the list and returns to direct mode.
func (s *Scroller[U]) Clear() {
	if s.destroyed {
		return
	}
	s.cancelFrame()
	s.unmountAll()
	s.registry.clear()
	prev := s.mode
	s.mode = ModeDirect
	s.setSpacers(0, 0)
	if prev != ModeDirect {
		slog.Debug("Virtual scroller reset to direct mode")
		s.modeChanged()
	}
}

// Destroy releases every mounted unit and detaches from the container.
// Calling it again does nothing.
func (s *Scroller[U]) Destroy() {
	if s.destroyed {
		return
	}
	s.cancelFrame()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	if s.observer != nil {
		s.observer.Disconnect()
		s.observer = nil
	}
	s.unmountAll()
	s.destroyed = true
	slog.Debug("Virtual scroller destroyed", "items", s.registry.count())
}

// ScrollToBottom moves the container to the end of the content. Without
// smooth, or when the container cannot animate, the jump happens right away
// and the window is recomputed in the same call.
func (s *Scroller[U]) ScrollToBottom(smooth bool) {
	if s.destroyed {
		return
	}
	if smooth {
		if sm, ok := any(s.container).(SmoothScroller); ok {
			sm.SmoothScrollTo(s.container.ScrollExtent())
			s.requestUpdate()
			return
		}
	}
	s.container.ScrollTo(s.container.ScrollExtent())
	if s.mode != ModeVirtualized {
		return
	}
	s.update()
	// mounting may have replaced estimates with real heights
	if !s.IsAtBottom() {
		s.container.ScrollTo(s.container.ScrollExtent())
	}
}

// ScrollToItem moves the container so the top of id is at the top of the
// viewport.
func (s *Scroller[U]) ScrollToItem(id string) {
	if s.destroyed {
		return
	}
	i, ok := s.registry.indexOf(id)
	if !ok {
		return
	}
	if s.mode == ModeVirtualized {
		s.container.ScrollTo(s.registry.top(i))
		s.update()
		return
	}
	var offset float64
	for j := range i {
		item, _ := s.registry.at(j)
		if m, ok := s.mounted.Get(item.ID); ok {
			offset += s.container.Measure(m.unit)
		}
	}
	s.container.ScrollTo(offset)
}

// IsAtBottom reports whether the viewport shows the end of the content.
func (s *Scroller[U]) IsAtBottom() bool {
	c := s.container
	return c.ScrollExtent()-(c.ScrollOffset()+c.ViewportSize()) <= s.opts.bottomTolerance
}

// ItemCount returns the number of items in the list.
func (s *Scroller[U]) ItemCount() int {
	return s.registry.count()
}

// HandleScroll schedules a window recomputation for the next frame. Bursts
// coalesce into one computation which reads the scroll offset current when
// it runs.
func (s *Scroller[U]) HandleScroll() {
	s.requestUpdate()
}

// HandleResize is HandleScroll for viewport size changes.
func (s *Scroller[U]) HandleResize() {
	s.requestUpdate()
}

// Mode returns the current operating mode.
func (s *Scroller[U]) Mode() Mode {
	return s.mode
}

// Window returns the mounted index range.
func (s *Scroller[U]) Window() Range {
	return s.window
}

// Spacers returns the current top and bottom placeholder extents.
func (s *Scroller[U]) Spacers() (top, bottom float64) {
	return s.top, s.bottom
}

// MountedIDs returns the ids of the mounted items in list order.
func (s *Scroller[U]) MountedIDs() []string {
	ids := make([]string, 0, s.mounted.Len())
	for i := s.window.Start; i < s.window.End; i++ {
		item, ok := s.registry.at(i)
		if !ok {
			break
		}
		if _, ok := s.mounted.Get(item.ID); ok {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// Height returns the measured height of id, if it has one.
func (s *Scroller[U]) Height(id string) (float64, bool) {
	return s.registry.cached(id)
}

// Pending reports whether a frame computation is scheduled.
func (s *Scroller[U]) Pending() bool {
	return s.pending
}

// activate performs the one-way switch from direct to virtualized mode:
// seed the height cache from the real geometry of every mounted unit, flip
// the mode and establish the first window.
func (s *Scroller[U]) activate() {
	for id, m := range s.mounted.Seq2() {
		s.registry.setHeight(id, s.container.Measure(m.unit))
	}
	s.mode = ModeVirtualized
	slog.Debug("Virtual scroller enabled",
		"items", s.registry.count(),
		"threshold", s.opts.threshold,
		"measured", s.mounted.Len(),
	)
	s.update()
	s.modeChanged()
}

func (s *Scroller[U]) modeChanged() {
	if s.opts.onModeChange != nil {
		s.opts.onModeChange(s.mode)
	}
}

func (s *Scroller[U]) requestUpdate() {
	if s.destroyed || s.mode != ModeVirtualized || s.pending {
		return
	}
	if s.scheduler == nil {
		s.update()
		return
	}
	s.pending = true
	s.scheduler.ScheduleOnce(s.frame)
}

func (s *Scroller[U]) frame() {
	s.pending = false
	if s.destroyed || s.mode != ModeVirtualized {
		return
	}
	s.update()
}

func (s *Scroller[U]) cancelFrame() {
	if !s.pending {
		return
	}
	s.pending = false
	if s.scheduler != nil {
		s.scheduler.Cancel()
	}
}

// update runs the range, reconcile and spacer pipeline. A zero viewport
// unmounts the window until a later signal brings real dimensions.
func (s *Scroller[U]) update() {
	if s.container.ViewportSize() <= 0 {
		if s.mode == ModeVirtualized {
			s.reconcile(Range{})
		}
		s.updateSpacers()
		return
	}
	next := computeRange(
		s.container.ScrollOffset(),
		s.container.ViewportSize(),
		s.registry.extents,
		s.opts.overscan,
	)
	s.reconcile(next)
	s.updateSpacers()
}
