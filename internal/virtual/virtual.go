// Package virtual implements a windowed list renderer.
//
// A Scroller owns an ordered list of items and mounts only the ones near the
// visible viewport of a Container. Unmounted items are replaced by two
// spacer extents so the container still reports the full scrollable height.
// Lists start in direct mode, where every item is mounted, and switch once to
// virtualized mode when they reach the activation threshold.
//
// A Scroller is not safe for concurrent use. Hosts drive it from their own
// event loop.
package virtual

// Mode is the operating mode of a Scroller.
type Mode int

const (
	// ModeDirect mounts every item.
	ModeDirect Mode = iota
	// ModeVirtualized mounts only the items around the viewport.
	ModeVirtualized
)

func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeVirtualized:
		return "virtualized"
	default:
		return "unknown"
	}
}

// Range is a half-open index range [Start, End).
type Range struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return max(0, r.End-r.Start)
}

// Contains reports whether i is in the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Empty reports whether the range holds no index.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Factory creates and disposes the mounted representation of an item. It is
// invoked once per mount and never inspected.
type Factory[U any] interface {
	Create() U
	Dispose(unit U)
}

// FactoryFunc adapts a plain constructor to a Factory whose Dispose does
// nothing.
type FactoryFunc[U any] func() U

func (f FactoryFunc[U]) Create() U { return f() }
func (f FactoryFunc[U]) Dispose(U) {}

// Item describes one list entry. ID must be unique and stable.
type Item[U any] struct {
	ID      string
	Factory Factory[U]
}

// Viewport exposes the scroll geometry of a container.
type Viewport interface {
	// ScrollOffset is the distance between the top of the content and the top
	// of the visible area.
	ScrollOffset() float64
	// ScrollExtent is the total scrollable height of the content.
	ScrollExtent() float64
	// ViewportSize is the height of the visible area. Zero means the
	// container is not laid out yet.
	ViewportSize() float64
	ScrollTo(offset float64)
}

// Surface is where units are mounted. Units are laid out top to bottom
// between a leading and a trailing spacer.
type Surface[U any] interface {
	// Append mounts unit right before the trailing spacer.
	Append(unit U)
	// InsertBefore mounts unit right before next, which is already mounted.
	InsertBefore(unit, next U)
	Remove(unit U)
	// Measure returns the rendered height of a mounted unit.
	Measure(unit U) float64
	SetSpacers(top, bottom float64)
}

// Container is the host a Scroller renders into.
type Container[U any] interface {
	Viewport
	Surface[U]
}

// SizeObserver reports height changes of mounted units. Containers that
// implement it are used automatically.
type SizeObserver[U any] interface {
	Observe(unit U, onResize func(height float64))
	Unobserve(unit U)
	Disconnect()
}

// Scheduler runs a callback once on the next rendering opportunity.
// ScheduleOnce replaces any pending callback.
type Scheduler interface {
	ScheduleOnce(fn func())
	Cancel()
}

// Signaler is implemented by containers that emit scroll and resize
// signals. The returned function stops the subscription.
type Signaler interface {
	Notify(fn func()) (stop func())
}

// SmoothScroller is implemented by containers that can animate scrolling.
type SmoothScroller interface {
	SmoothScrollTo(offset float64)
}
