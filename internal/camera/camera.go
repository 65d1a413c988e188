// Package camera maps between world coordinates and screen pixels.
//
// The screen origin is the canvas center. The camera looks at its focus
// point, which is the last known position of the reference entity plus an
// operator-controlled offset:
//
//	screen = (world - focus) * scale + center
//	world  = (screen - center) / scale + focus
package camera

import (
	"math"

	"github.com/OCAP2/radar/pkg/core"
)

// Default limits applied when Config leaves them unset.
const (
	DefaultMinScale = 0.05
	DefaultMaxScale = 10.0
	DefaultScale    = 1.0
	DefaultPanStep  = 50.0
)

// Direction is a pan button direction.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
)

// Config bounds the camera.
type Config struct {
	MinScale     float64
	MaxScale     float64
	DefaultScale float64
	PanStep      float64 // screen pixels per pan button press
}

func (c Config) withDefaults() Config {
	if c.MinScale <= 0 {
		c.MinScale = DefaultMinScale
	}
	if c.MaxScale <= 0 {
		c.MaxScale = DefaultMaxScale
	}
	if c.MaxScale < c.MinScale {
		c.MaxScale = c.MinScale
	}
	if c.DefaultScale <= 0 {
		c.DefaultScale = DefaultScale
	}
	c.DefaultScale = clamp(c.DefaultScale, c.MinScale, c.MaxScale)
	if c.PanStep <= 0 {
		c.PanStep = DefaultPanStep
	}
	return c
}

// Camera holds the view transform. It is not safe for concurrent use.
type Camera struct {
	cfg Config

	width, height float64
	scale         float64
	offset        core.Vec2
	reference     core.Vec2
}

// New creates a camera with scale DefaultScale and no offset.
func New(cfg Config) *Camera {
	cfg = cfg.withDefaults()
	return &Camera{cfg: cfg, scale: cfg.DefaultScale}
}

// SetViewport records the canvas size in pixels.
func (c *Camera) SetViewport(w, h float64) {
	c.width, c.height = w, h
}

// Center returns the screen-space center of the canvas.
func (c *Camera) Center() core.Vec2 {
	return core.Vec2{X: c.width / 2, Y: c.height / 2}
}

// Scale returns pixels per world unit.
func (c *Camera) Scale() float64 { return c.scale }

// Offset returns the operator pan offset in world units.
func (c *Camera) Offset() core.Vec2 { return c.offset }

// Focus returns the world point shown at the canvas center.
func (c *Camera) Focus() core.Vec2 { return c.reference.Add(c.offset) }

// Reference returns the last position passed to Follow.
func (c *Camera) Reference() core.Vec2 { return c.reference }

// Follow records the latest reference position. When the reference is
// absent from a snapshot, callers skip Follow and the focus keeps its value.
func (c *Camera) Follow(ref core.Vec2) {
	c.reference = ref
}

// WorldToScreen projects a world point to canvas pixels.
func (c *Camera) WorldToScreen(w core.Vec2) core.Vec2 {
	return w.Sub(c.Focus()).Scale(c.scale).Add(c.Center())
}

// ScreenToWorld is the exact inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(s core.Vec2) core.Vec2 {
	return s.Sub(c.Center()).Scale(1 / c.scale).Add(c.Focus())
}

// Pan moves the focus by a world-space delta.
func (c *Camera) Pan(delta core.Vec2) {
	c.offset = c.offset.Add(delta)
}

// PanScreen drags the view by a screen-space delta: the world under the
// pointer moves with it, so the offset moves by -delta/scale.
func (c *Camera) PanScreen(delta core.Vec2) {
	c.offset = c.offset.Sub(delta.Scale(1 / c.scale))
}

// PanDirection moves the focus one pan step in the given direction.
func (c *Camera) PanDirection(d Direction) {
	step := c.cfg.PanStep / c.scale
	switch d {
	case North:
		c.offset.Y -= step
	case South:
		c.offset.Y += step
	case East:
		c.offset.X += step
	case West:
		c.offset.X -= step
	}
}

// ZoomBy multiplies the scale by factor and clamps it to the configured
// range. Non-positive and non-finite factors are ignored. It reports whether
// the scale changed.
func (c *Camera) ZoomBy(factor float64) bool {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return false
	}
	next := clamp(c.scale*factor, c.cfg.MinScale, c.cfg.MaxScale)
	if next == c.scale {
		return false
	}
	c.scale = next
	return true
}

// Reset clears the pan offset and restores the default scale.
func (c *Camera) Reset() {
	c.offset = core.Vec2{}
	c.scale = c.cfg.DefaultScale
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
