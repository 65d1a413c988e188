package render

import (
	"math"

	"github.com/OCAP2/radar/internal/camera"
	"github.com/OCAP2/radar/pkg/core"
)

// Fixed geometry of the display, in screen pixels unless noted.
const (
	SweepStep   = 0.03   // radians per rendered frame
	SweepArc    = 0.3    // radians trailing the leading edge
	SweepLength = 1000.0 // world units

	CrosshairExtent = 50000.0 // world units
	VelocityFactor  = 4.0     // velocity vector length multiplier

	gridWidth     = 1.0
	edgeWidth     = 2.0
	shipRadius    = 6.0
	lineWidth     = 2.0
	labelSize     = 14.0
	cpaLabelSize  = 12.0
	cpaMarkerSize = 8.0
	cpaLabelGap   = 10.0
)

// RingRadii are the range ring radii in world units.
var RingRadii = []float64{100, 200, 300, 400, 500}

var (
	labelOffset = core.Vec2{X: 12, Y: 4}
	cpaDash     = []float64{6, 4}
)

// Options configure a pipeline.
type Options struct {
	Palette     Palette
	ReferenceID string
	Sweep       bool
}

// Scene is the per-frame input besides the camera.
type Scene struct {
	Snapshot   core.Snapshot
	Selected   string // empty when nothing is selected
	SweepAngle float64
}

// Pipeline draws frames. It holds no per-frame state.
type Pipeline struct {
	opts Options
}

// NewPipeline creates a pipeline. A zero palette is replaced by DefaultPalette.
func NewPipeline(opts Options) *Pipeline {
	if opts.Palette.Background == nil {
		opts.Palette = DefaultPalette()
	}
	if opts.ReferenceID == "" {
		opts.ReferenceID = core.DefaultReferenceID
	}
	return &Pipeline{opts: opts}
}

// SetSweep turns the sweep layer on or off.
func (p *Pipeline) SetSweep(on bool) { p.opts.Sweep = on }

// Sweep reports whether the sweep layer is drawn.
func (p *Pipeline) Sweep() bool { return p.opts.Sweep }

// Palette returns the colours in use.
func (p *Pipeline) Palette() Palette { return p.opts.Palette }

// Frame draws one complete frame: background, range grid, sweep, CPA
// markers, then entities. Screen-constant sizes are divided by the camera
// scale because the canvas scales world units.
func (p *Pipeline) Frame(c Canvas, cam *camera.Camera, scene Scene) {
	scale := cam.Scale()
	pal := p.opts.Palette

	c.Clear(pal.Background)
	c.SetTransform(Transform{Center: cam.Center(), Focus: cam.Focus(), Scale: scale})

	p.drawGrid(c, cam.Focus(), scale)
	if p.opts.Sweep {
		p.drawSweep(c, cam.Reference(), scene.SweepAngle, scale)
	}

	snap := scene.Snapshot
	for _, a := range snap.Alerts {
		target, ok := snap.Ship(a.TargetID)
		if !ok {
			continue
		}
		p.drawCPA(c, target, a, scale)
	}

	for _, s := range snap.Ships {
		p.drawShip(c, s, snap.RiskOf(s.ID), scene.Selected, scale)
	}
}

func (p *Pipeline) drawGrid(c Canvas, center core.Vec2, scale float64) {
	col := p.opts.Palette.Grid
	w := gridWidth / scale
	for _, r := range RingRadii {
		c.StrokeCircle(center, r, w, col)
	}
	c.StrokeLine(
		core.Vec2{X: center.X - CrosshairExtent, Y: center.Y},
		core.Vec2{X: center.X + CrosshairExtent, Y: center.Y},
		w, col, nil)
	c.StrokeLine(
		core.Vec2{X: center.X, Y: center.Y - CrosshairExtent},
		core.Vec2{X: center.X, Y: center.Y + CrosshairExtent},
		w, col, nil)
}

func (p *Pipeline) drawSweep(c Canvas, at core.Vec2, angle, scale float64) {
	pal := p.opts.Palette
	c.FillSector(at, SweepLength, angle-SweepArc, angle, pal.SweepClear, pal.SweepFade)
	edge := core.Vec2{X: at.X + SweepLength*math.Cos(angle), Y: at.Y + SweepLength*math.Sin(angle)}
	c.StrokeLine(at, edge, edgeWidth/scale, pal.Sweep, nil)
}

func (p *Pipeline) drawCPA(c Canvas, target core.Ship, a core.Alert, scale float64) {
	col := p.opts.Palette.CPA
	w := lineWidth / scale
	pt := a.CPAPoint

	dash := []float64{cpaDash[0] / scale, cpaDash[1] / scale}
	c.StrokeLine(target.Position, pt, w, col, dash)

	m := cpaMarkerSize / scale
	c.StrokeLine(core.Vec2{X: pt.X - m, Y: pt.Y - m}, core.Vec2{X: pt.X + m, Y: pt.Y + m}, w, col, nil)
	c.StrokeLine(core.Vec2{X: pt.X + m, Y: pt.Y - m}, core.Vec2{X: pt.X - m, Y: pt.Y + m}, w, col, nil)

	c.Text("CPA", core.Vec2{X: pt.X + cpaLabelGap/scale, Y: pt.Y}, cpaLabelSize/scale, col)
}

func (p *Pipeline) drawShip(c Canvas, s core.Ship, risk core.RiskLevel, selected string, scale float64) {
	isSelected := selected != "" && s.ID == selected
	isReference := s.ID == p.opts.ReferenceID
	col := p.opts.Palette.ResolveColor(isSelected, isReference, risk)

	c.FillCircle(s.Position, shipRadius/scale, col)
	c.StrokeLine(s.Position, s.Position.Add(s.Velocity.Scale(VelocityFactor)), lineWidth/scale, col, nil)

	if risk != core.RiskSafe || isReference || isSelected {
		c.Text(s.ID, s.Position.Add(labelOffset.Scale(1/scale)), labelSize/scale, col)
	}
}
