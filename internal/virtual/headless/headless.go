// Package headless provides an in-memory host for the virtual scroller. It
// lays units out top to bottom, keeps a single scroll offset and reports
// size changes on demand. It backs the simulate command and the scroller
// tests.
package headless

import (
	"slices"

	"github.com/charmbracelet/vscroll/internal/virtual"
)

// Container is an in-memory virtual.Container, virtual.SizeObserver,
// virtual.Signaler and virtual.SmoothScroller.
type Container[U comparable] struct {
	measure  func(U) float64
	viewport float64
	offset   float64

	top, bottom float64
	children    []U

	observers map[U]func(float64)
	heights   map[U]float64
	listeners map[int]func()
	nextID    int

	// Smooth counts SmoothScrollTo calls.
	Smooth int
	// Inserts and Removes count surface mutations.
	Inserts, Removes int
}

var (
	_ virtual.Container[int]    = (*Container[int])(nil)
	_ virtual.SizeObserver[int] = (*Container[int])(nil)
	_ virtual.Signaler          = (*Container[int])(nil)
	_ virtual.SmoothScroller    = (*Container[int])(nil)
)

// New returns a container with the given viewport height. measure reports
// the laid out height of a unit.
func New[U comparable](viewport float64, measure func(U) float64) *Container[U] {
	return &Container[U]{
		measure:   measure,
		viewport:  viewport,
		observers: make(map[U]func(float64)),
		heights:   make(map[U]float64),
		listeners: make(map[int]func()),
	}
}

// ScrollOffset implements virtual.Viewport.
func (c *Container[U]) ScrollOffset() float64 {
	return c.offset
}

// ScrollExtent implements virtual.Viewport.
func (c *Container[U]) ScrollExtent() float64 {
	extent := c.top + c.bottom
	for _, u := range c.children {
		extent += c.measure(u)
	}
	return extent
}

// ViewportSize implements virtual.Viewport.
func (c *Container[U]) ViewportSize() float64 {
	return c.viewport
}

// ScrollTo implements virtual.Viewport. The offset is clamped the way a
// browser clamps scrollTop.
func (c *Container[U]) ScrollTo(offset float64) {
	offset = min(max(offset, 0), c.maxOffset())
	if offset == c.offset {
		return
	}
	c.offset = offset
	c.emit()
}

// SmoothScrollTo implements virtual.SmoothScroller. There is no animation;
// the call is only counted.
func (c *Container[U]) SmoothScrollTo(offset float64) {
	c.Smooth++
	c.ScrollTo(offset)
}

// SetViewport resizes the visible area and emits a signal.
func (c *Container[U]) SetViewport(size float64) {
	c.viewport = max(size, 0)
	c.offset = min(c.offset, c.maxOffset())
	c.emit()
}

// Append implements virtual.Surface.
func (c *Container[U]) Append(unit U) {
	c.Inserts++
	c.children = append(c.children, unit)
}

// InsertBefore implements virtual.Surface.
func (c *Container[U]) InsertBefore(unit, next U) {
	i := slices.Index(c.children, next)
	if i < 0 {
		c.Append(unit)
		return
	}
	c.Inserts++
	c.children = slices.Insert(c.children, i, unit)
}

// Remove implements virtual.Surface.
func (c *Container[U]) Remove(unit U) {
	i := slices.Index(c.children, unit)
	if i < 0 {
		return
	}
	c.Removes++
	c.children = slices.Delete(c.children, i, i+1)
}

// Measure implements virtual.Surface.
func (c *Container[U]) Measure(unit U) float64 {
	return c.measure(unit)
}

// SetSpacers implements virtual.Surface.
func (c *Container[U]) SetSpacers(top, bottom float64) {
	c.top, c.bottom = top, bottom
}

// Spacers returns the placeholder extents last set by the scroller.
func (c *Container[U]) Spacers() (top, bottom float64) {
	return c.top, c.bottom
}

// Children returns the mounted units in layout order.
func (c *Container[U]) Children() []U {
	return slices.Clone(c.children)
}

// Observe implements virtual.SizeObserver. Like a browser resize observer
// it reports the initial size right away.
func (c *Container[U]) Observe(unit U, onResize func(float64)) {
	c.observers[unit] = onResize
	h := c.measure(unit)
	c.heights[unit] = h
	onResize(h)
}

// Unobserve implements virtual.SizeObserver.
func (c *Container[U]) Unobserve(unit U) {
	delete(c.observers, unit)
	delete(c.heights, unit)
}

// Disconnect implements virtual.SizeObserver.
func (c *Container[U]) Disconnect() {
	clear(c.observers)
	clear(c.heights)
}

// Observed returns how many units are being watched.
func (c *Container[U]) Observed() int {
	return len(c.observers)
}

// Refresh re-measures every observed unit and reports the ones whose height
// changed.
func (c *Container[U]) Refresh() {
	for _, u := range c.Children() {
		fn, ok := c.observers[u]
		if !ok {
			continue
		}
		h := c.measure(u)
		if h == c.heights[u] {
			continue
		}
		c.heights[u] = h
		fn(h)
	}
}

// Notify implements virtual.Signaler.
func (c *Container[U]) Notify(fn func()) func() {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

// Listeners returns how many signal subscriptions are active.
func (c *Container[U]) Listeners() int {
	return len(c.listeners)
}

func (c *Container[U]) maxOffset() float64 {
	return max(0, c.ScrollExtent()-c.viewport)
}

func (c *Container[U]) emit() {
	for _, fn := range c.listeners {
		fn()
	}
}
