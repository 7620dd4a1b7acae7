package service

import (
	"sync"
	"time"

	"github.com/paulmach/orb"

	"homepedia-map/internal/domain/model"
)

// DefaultCullDelay is how long viewport events are coalesced before the
// visible set is recomputed.
const DefaultCullDelay = 100 * time.Millisecond

// VisibleCodes tests each shape's centroid for containment in bound and
// returns the set of contained codes. A shape without a centroid is treated
// as always visible so malformed geometry is never silently hidden.
func VisibleCodes(shapes []model.Shape, bound orb.Bound) map[string]struct{} {
	visible := make(map[string]struct{}, len(shapes))
	for _, s := range shapes {
		if s.Centre == nil || bound.Contains(*s.Centre) {
			visible[s.Code] = struct{}{}
		}
	}
	return visible
}

// Culler maintains the set of shapes whose centroid lies inside the current
// viewport. Bursts of move/zoom events are collapsed into a single
// recomputation after a debounce delay; Close cancels any pending timer.
type Culler struct {
	mu       sync.Mutex
	delay    time.Duration
	shapes   []model.Shape
	bound    orb.Bound
	hasBound bool
	visible  map[string]struct{}
	timer    *time.Timer
	onChange func(map[string]struct{})
	closed   bool
}

// NewCuller builds a culler with the default debounce delay. onChange may be
// nil; when set it is invoked with each recomputed visible set.
func NewCuller(onChange func(map[string]struct{})) *Culler {
	return NewCullerWithDelay(DefaultCullDelay, onChange)
}

// NewCullerWithDelay builds a culler with an explicit debounce delay.
func NewCullerWithDelay(delay time.Duration, onChange func(map[string]struct{})) *Culler {
	return &Culler{delay: delay, onChange: onChange}
}

// SetShapes replaces the tracked shape collection and recomputes immediately,
// matching the initial-mount update.
func (c *Culler) SetShapes(shapes []model.Shape) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.shapes = shapes
	c.recomputeLocked()
}

// ViewportChanged records the new viewport bound and schedules a debounced
// recomputation. Rapid successive calls reset the timer so only the last
// bound is evaluated.
func (c *Culler) ViewportChanged(bound orb.Bound) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.bound = bound
	c.hasBound = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, c.flush)
}

func (c *Culler) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.recomputeLocked()
}

// recomputeLocked rebuilds the visible set under c.mu.
func (c *Culler) recomputeLocked() {
	if !c.hasBound {
		// No viewport yet: everything is visible.
		all := make(map[string]struct{}, len(c.shapes))
		for _, s := range c.shapes {
			all[s.Code] = struct{}{}
		}
		c.visible = all
	} else {
		c.visible = VisibleCodes(c.shapes, c.bound)
	}
	if c.onChange != nil {
		c.onChange(c.visible)
	}
}

// Visible returns a copy of the last computed visible set.
func (c *Culler) Visible() map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]struct{}, len(c.visible))
	for code := range c.visible {
		out[code] = struct{}{}
	}
	return out
}

// Close cancels any pending debounce timer and ignores further events.
func (c *Culler) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
