// Package render draws one radar frame onto an abstract canvas.
package render

import (
	"image/color"

	"github.com/OCAP2/radar/pkg/core"
)

// Transform maps world coordinates to canvas pixels the same way the camera
// does: translate to the canvas center, scale, then translate by -focus.
type Transform struct {
	Center core.Vec2
	Focus  core.Vec2
	Scale  float64
}

// Apply projects a world point to canvas pixels.
func (t Transform) Apply(w core.Vec2) core.Vec2 {
	return w.Sub(t.Focus).Scale(t.Scale).Add(t.Center)
}

// Canvas is a 2D drawing surface. Every call except Clear takes world
// coordinates and world-unit lengths, interpreted through the current
// transform.
type Canvas interface {
	Size() (w, h float64)
	// Clear fills the whole surface, ignoring the transform.
	Clear(c color.Color)
	SetTransform(t Transform)
	StrokeCircle(center core.Vec2, radius, width float64, c color.Color)
	FillCircle(center core.Vec2, radius float64, c color.Color)
	// StrokeLine draws a line from a to b. A non-empty dash alternates
	// drawn and skipped lengths.
	StrokeLine(a, b core.Vec2, width float64, c color.Color, dash []float64)
	// FillSector fills the circular sector between angles from and to
	// (radians, clockwise from +X on screen), fading from inner at the
	// center to outer at the rim.
	FillSector(center core.Vec2, radius, from, to float64, inner, outer color.Color)
	Text(s string, at core.Vec2, size float64, c color.Color)
}
