package headless

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/vscroll/internal/virtual"
)

// maxSteps bounds the scroll loop of a simulation.
const maxSteps = 10_000

// Simulation describes a scripted session against an in-memory container.
type Simulation struct {
	Items     int     `json:"items" yaml:"items"`
	Viewport  float64 `json:"viewport" yaml:"viewport"`
	MinHeight float64 `json:"min_height" yaml:"min_height"`
	MaxHeight float64 `json:"max_height" yaml:"max_height"`
	// Step is how far each scroll moves.
	Step    float64 `json:"step" yaml:"step"`
	Appends int     `json:"appends" yaml:"appends"`
	Seed    uint64  `json:"seed" yaml:"seed"`
}

// Snapshot is the engine state after one action.
type Snapshot struct {
	Step     int     `json:"step" yaml:"step"`
	Action   string  `json:"action" yaml:"action"`
	Mode     string  `json:"mode" yaml:"mode"`
	Offset   float64 `json:"offset" yaml:"offset"`
	Extent   float64 `json:"extent" yaml:"extent"`
	Start    int     `json:"start" yaml:"start"`
	End      int     `json:"end" yaml:"end"`
	Top      float64 `json:"top_spacer" yaml:"top_spacer"`
	Bottom   float64 `json:"bottom_spacer" yaml:"bottom_spacer"`
	Mounted  int     `json:"mounted" yaml:"mounted"`
	Items    int     `json:"items" yaml:"items"`
	AtBottom bool    `json:"at_bottom" yaml:"at_bottom"`
}

func (s Simulation) validate() error {
	switch {
	case s.Items < 0:
		return fmt.Errorf("invalid item count %d", s.Items)
	case s.Viewport <= 0:
		return fmt.Errorf("invalid viewport size %v", s.Viewport)
	case s.MinHeight <= 0 || s.MaxHeight < s.MinHeight:
		return fmt.Errorf("invalid height range %v-%v", s.MinHeight, s.MaxHeight)
	case s.Step <= 0:
		return fmt.Errorf("invalid scroll step %v", s.Step)
	case s.Appends < 0:
		return fmt.Errorf("invalid append count %d", s.Appends)
	}
	return nil
}

type simulator struct {
	c     *Container[*Block]
	q     *virtual.FrameQueue
	s     *virtual.Scroller[*Block]
	rng   *rand.Rand
	sim   Simulation
	shots []Snapshot
}

// Simulate loads the items, scrolls through them to the end, appends while
// following the bottom, jumps back to the middle and halves the viewport,
// recording a snapshot after each action.
func Simulate(sim Simulation, opts ...virtual.Option) ([]Snapshot, error) {
	if err := sim.validate(); err != nil {
		return nil, err
	}

	r := &simulator{
		c:   New(sim.Viewport, MeasureBlock),
		q:   &virtual.FrameQueue{},
		rng: rand.New(rand.NewPCG(sim.Seed, sim.Seed^0x5eed)),
		sim: sim,
	}
	r.s = virtual.New(r.c, append([]virtual.Option{virtual.WithScheduler(r.q)}, opts...)...)
	defer r.s.Destroy()

	items, factories := Blocks("item", sim.Items, sim.MinHeight)
	for _, f := range factories {
		f.Height = r.height()
	}
	r.s.SetItems(items)
	r.record("set items")

	for range maxSteps {
		if r.c.ScrollOffset() >= r.c.ScrollExtent()-r.c.ViewportSize() {
			break
		}
		r.c.ScrollTo(r.c.ScrollOffset() + sim.Step)
		r.record("scroll")
	}

	for i := range sim.Appends {
		f := &BlockFactory{ID: fmt.Sprintf("appended-%d", i), Height: r.height()}
		atBottom := r.s.IsAtBottom()
		r.s.AppendItem(virtual.Item[*Block]{ID: f.ID, Factory: f})
		if atBottom {
			r.s.ScrollToBottom(false)
		}
		r.record("append")
	}

	if n := r.s.ItemCount(); n > 0 {
		r.s.ScrollToItem(fmt.Sprintf("item-%d", sim.Items/2))
		r.record("scroll to item")
	}

	r.c.SetViewport(sim.Viewport / 2)
	r.record("resize")
	return r.shots, nil
}

func (r *simulator) height() float64 {
	span := r.sim.MaxHeight - r.sim.MinHeight
	return max(r.sim.MinHeight, math.Round(r.sim.MinHeight+r.rng.Float64()*span))
}

// record runs any pending frame and appends the resulting state.
func (r *simulator) record(action string) {
	r.q.Flush()
	top, bottom := r.s.Spacers()
	w := r.s.Window()
	r.shots = append(r.shots, Snapshot{
		Step:     len(r.shots),
		Action:   action,
		Mode:     r.s.Mode().String(),
		Offset:   r.c.ScrollOffset(),
		Extent:   r.c.ScrollExtent(),
		Start:    w.Start,
		End:      w.End,
		Top:      top,
		Bottom:   bottom,
		Mounted:  len(r.c.Children()),
		Items:    r.s.ItemCount(),
		AtBottom: r.s.IsAtBottom(),
	})
}
