package ui

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/OCAP2/radar/internal/render"
	"github.com/OCAP2/radar/pkg/core"
)

var whiteSubImage *ebiten.Image

func white() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// sectorSteps is the number of arc vertices per radian of sweep.
const sectorSteps = 24

// Canvas draws onto an ebiten image through a world transform.
type Canvas struct {
	dst   *ebiten.Image
	fonts *Fonts
	t     render.Transform

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewCanvas creates a canvas over dst.
func NewCanvas(dst *ebiten.Image, fonts *Fonts) *Canvas {
	return &Canvas{dst: dst, fonts: fonts, t: render.Transform{Scale: 1}}
}

// Target swaps the destination image.
func (c *Canvas) Target(dst *ebiten.Image) { c.dst = dst }

// Size returns the destination size in pixels.
func (c *Canvas) Size() (w, h float64) {
	b := c.dst.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Clear fills the destination.
func (c *Canvas) Clear(col color.Color) {
	c.dst.Fill(col)
}

// SetTransform sets the world to pixel transform.
func (c *Canvas) SetTransform(t render.Transform) { c.t = t }

// project returns pixel coordinates relative to the image origin, which for
// a sub-image is not (0, 0).
func (c *Canvas) project(w core.Vec2) (float32, float32) {
	p := c.t.Apply(w)
	o := c.dst.Bounds().Min
	return float32(p.X) + float32(o.X), float32(p.Y) + float32(o.Y)
}

func (c *Canvas) px(worldLen float64) float32 {
	return float32(worldLen * c.t.Scale)
}

// StrokeCircle outlines a circle.
func (c *Canvas) StrokeCircle(center core.Vec2, radius, width float64, col color.Color) {
	x, y := c.project(center)
	vector.StrokeCircle(c.dst, x, y, c.px(radius), c.px(width), col, true)
}

// FillCircle fills a circle.
func (c *Canvas) FillCircle(center core.Vec2, radius float64, col color.Color) {
	x, y := c.project(center)
	vector.DrawFilledCircle(c.dst, x, y, c.px(radius), col, true)
}

// StrokeLine draws a solid or dashed line.
func (c *Canvas) StrokeLine(a, b core.Vec2, width float64, col color.Color, dash []float64) {
	if len(dash) == 0 {
		c.line(a, b, width, col)
		return
	}
	for _, s := range render.DashSegments(a, b, dash) {
		c.line(s.A, s.B, width, col)
	}
}

func (c *Canvas) line(a, b core.Vec2, width float64, col color.Color) {
	x0, y0 := c.project(a)
	x1, y1 := c.project(b)
	vector.StrokeLine(c.dst, x0, y0, x1, y1, c.px(width), col, true)
}

// FillSector fills a pie slice with a radial fade from inner to outer.
func (c *Canvas) FillSector(center core.Vec2, radius, from, to float64, inner, outer color.Color) {
	cx, cy := c.project(center)
	r := c.px(radius)
	if r <= 0 || to <= from {
		return
	}

	steps := int(math.Ceil((to-from)*sectorSteps)) + 1
	c.vertices = c.vertices[:0]
	c.indices = c.indices[:0]

	c.vertices = append(c.vertices, vertex(cx, cy, inner))
	for i := 0; i <= steps; i++ {
		a := from + (to-from)*float64(i)/float64(steps)
		x := cx + r*float32(math.Cos(a))
		y := cy + r*float32(math.Sin(a))
		c.vertices = append(c.vertices, vertex(x, y, outer))
	}
	for i := 1; i <= steps; i++ {
		c.indices = append(c.indices, 0, uint16(i), uint16(i+1))
	}

	c.dst.DrawTriangles(c.vertices, c.indices, white(), &ebiten.DrawTrianglesOptions{
		AntiAlias:      true,
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
	})
}

// vertex carries col premultiplied, as color.Color.RGBA returns it.
func vertex(x, y float32, col color.Color) ebiten.Vertex {
	r, g, b, a := col.RGBA()
	return ebiten.Vertex{
		DstX: x, DstY: y,
		SrcX: 1, SrcY: 1,
		ColorR: float32(r) / 0xffff,
		ColorG: float32(g) / 0xffff,
		ColorB: float32(b) / 0xffff,
		ColorA: float32(a) / 0xffff,
	}
}

// Text draws s with its baseline at the given world point.
func (c *Canvas) Text(s string, at core.Vec2, size float64, col color.Color) {
	px := float64(c.px(size))
	if px <= 0 {
		return
	}
	drawText(c.dst, c.fonts.face(false, px), s, c.t.Apply(at).Add(originOf(c.dst)), col)
}

func originOf(img *ebiten.Image) core.Vec2 {
	o := img.Bounds().Min
	return core.Vec2{X: float64(o.X), Y: float64(o.Y)}
}

// drawText draws s with its baseline at p, in absolute image coordinates.
func drawText(dst *ebiten.Image, face *text.GoTextFace, s string, p core.Vec2, col color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(p.X, p.Y-face.Metrics().HAscent)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(dst, s, face, op)
}
