// Package interaction turns pointer input into camera moves and selections.
package interaction

import (
	"math"

	"github.com/OCAP2/radar/internal/camera"
	"github.com/OCAP2/radar/internal/geo"
	"github.com/OCAP2/radar/pkg/core"
)

// Defaults applied when Config leaves them unset.
const (
	DefaultDragThreshold = 5.0  // screen pixels on either axis
	DefaultHitRadius     = 20.0 // screen pixels
)

// Zoom factors of one wheel notch or zoom key.
const (
	ZoomOut = 0.9
	ZoomIn  = 1.1
)

// State of the pointer gesture.
type State uint8

const (
	Idle State = iota
	Dragging
)

// Config tunes gesture recognition.
type Config struct {
	DragThreshold float64
	HitRadius     float64
}

// Click is the outcome of a pointer release that did not drag.
type Click struct {
	Hit bool
	ID  string
}

// Controller tracks one pointer gesture at a time. It is not safe for
// concurrent use.
type Controller struct {
	cam *camera.Camera
	cfg Config
	sel Selection

	state State
	moved bool
	start core.Vec2
	last  core.Vec2
}

// New creates a controller driving cam.
func New(cam *camera.Camera, cfg Config) *Controller {
	if cfg.DragThreshold <= 0 {
		cfg.DragThreshold = DefaultDragThreshold
	}
	if cfg.HitRadius <= 0 {
		cfg.HitRadius = DefaultHitRadius
	}
	return &Controller{cam: cam, cfg: cfg}
}

// State returns the gesture state.
func (c *Controller) State() State { return c.state }

// Selection returns the current selection.
func (c *Controller) Selection() Selection { return c.sel }

// Select picks id directly, as a list click does.
func (c *Controller) Select(id string) { c.sel.Select(id) }

// ClearSelection drops the current pick.
func (c *Controller) ClearSelection() { c.sel.Clear() }

// PointerDown starts a gesture at screen point p.
func (c *Controller) PointerDown(p core.Vec2) {
	c.state = Dragging
	c.moved = false
	c.start = p
	c.last = p
}

// PointerMove pans the camera by the screen delta since the previous
// sample while a gesture is active.
func (c *Controller) PointerMove(p core.Vec2) {
	if c.state != Dragging {
		return
	}
	c.cam.PanScreen(p.Sub(c.last))
	if math.Abs(p.X-c.start.X) > c.cfg.DragThreshold || math.Abs(p.Y-c.start.Y) > c.cfg.DragThreshold {
		c.moved = true
	}
	c.last = p
}

// PointerUp ends the gesture. A gesture that never left the drag threshold
// is a click: it selects the first ship under p or clears the selection.
// The returned bool is false for drags.
func (c *Controller) PointerUp(p core.Vec2, ships []core.Ship) (Click, bool) {
	if c.state != Dragging {
		return Click{}, false
	}
	c.state = Idle
	if c.moved {
		return Click{}, false
	}

	hit, ok := c.HitTest(p, ships)
	if !ok {
		c.sel.Clear()
		return Click{}, true
	}
	c.sel.Select(hit.ID)
	return Click{Hit: true, ID: hit.ID}, true
}

// Cancel abandons a gesture without clicking, e.g. when the pointer leaves
// the canvas.
func (c *Controller) Cancel() {
	c.state = Idle
	c.moved = false
}

// Wheel zooms out for positive deltaY and in otherwise.
func (c *Controller) Wheel(deltaY float64) bool {
	if deltaY > 0 {
		return c.cam.ZoomBy(ZoomOut)
	}
	return c.cam.ZoomBy(ZoomIn)
}

// HitTest returns the first ship within the hit radius of screen point p.
// The radius is fixed in screen pixels, so it shrinks in world units as
// the camera zooms in.
func (c *Controller) HitTest(p core.Vec2, ships []core.Ship) (core.Ship, bool) {
	world := c.cam.ScreenToWorld(p)
	return geo.FirstWithin(ships, world, c.cfg.HitRadius/c.cam.Scale())
}
