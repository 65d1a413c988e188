package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/OCAP2/radar/internal/editor"
	"github.com/OCAP2/radar/internal/listview"
	"github.com/OCAP2/radar/internal/util"
	"github.com/OCAP2/radar/pkg/core"
)

const (
	panelPad     = 12
	lineHeight   = 20
	headerSize   = 13.0
	bodySize     = 13.0
	titleSize    = 18.0
	buttonHeight = 26
	maxSummary   = 32
)

var (
	panelBackground = color.RGBA{R: 0x16, G: 0x1b, B: 0x20, A: 0xff}
	panelBorder     = color.RGBA{R: 0x2a, G: 0x33, B: 0x3b, A: 0xff}
	panelText       = color.RGBA{R: 0xc8, G: 0xd0, B: 0xd8, A: 0xff}
	panelMuted      = color.RGBA{R: 0x70, G: 0x7a, B: 0x84, A: 0xff}
	buttonFill      = color.RGBA{R: 0x22, G: 0x2a, B: 0x31, A: 0xff}
	rowHighlight    = color.RGBA{R: 0x2e, G: 0x3a, B: 0x45, A: 0xff}
)

// panelLayout records clickable regions of the last drawn panel.
type panelLayout struct {
	buttons []button
	rows    []rowHit
}

type button struct {
	rect   image.Rectangle
	action func()
}

type rowHit struct {
	rect image.Rectangle
	id   string
}

func (g *Game) panelClick(p image.Point) {
	for _, b := range g.panel.buttons {
		if p.In(b.rect) {
			b.action()
			return
		}
	}
	for _, r := range g.panel.rows {
		if p.In(r.rect) {
			g.sess.SelectFromList(r.id)
			return
		}
	}
}

// panelWriter lays text out top to bottom.
type panelWriter struct {
	g      *Game
	dst    *ebiten.Image
	bounds image.Rectangle
	y      int
}

func (w *panelWriter) full() bool {
	return w.y+lineHeight > w.bounds.Max.Y-panelPad
}

func (w *panelWriter) text(s string, size float64, bold bool, c color.Color) {
	if w.full() {
		return
	}
	w.y += lineHeight
	drawText(w.dst, w.g.fonts.face(bold, size), s,
		core.Vec2{X: float64(w.bounds.Min.X + panelPad), Y: float64(w.y - 5)}, c)
}

func (w *panelWriter) gap() { w.y += lineHeight / 2 }

func (w *panelWriter) header(s string) {
	w.gap()
	w.text(s, headerSize, true, panelMuted)
	x0 := float32(w.bounds.Min.X + panelPad)
	x1 := float32(w.bounds.Max.X - panelPad)
	vector.StrokeLine(w.dst, x0, float32(w.y+2), x1, float32(w.y+2), 1, panelBorder, false)
	w.y += 4
}

// button draws a button spanning a fraction [from, to) of the panel width.
func (w *panelWriter) button(label string, from, to float64, action func()) {
	inner := w.bounds.Dx() - 2*panelPad
	x0 := w.bounds.Min.X + panelPad + int(float64(inner)*from)
	x1 := w.bounds.Min.X + panelPad + int(float64(inner)*to) - 4
	r := image.Rect(x0, w.y+4, x1, w.y+4+buttonHeight)

	vector.DrawFilledRect(w.dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), buttonFill, false)
	vector.StrokeRect(w.dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, panelBorder, false)
	drawText(w.dst, w.g.fonts.face(true, bodySize), label,
		core.Vec2{X: float64(r.Min.X + 8), Y: float64(r.Max.Y - 8)}, panelText)

	w.g.panel.buttons = append(w.g.panel.buttons, button{rect: r, action: action})
}

func (w *panelWriter) endButtons() { w.y += buttonHeight + 8 }

func (g *Game) drawPanel(dst *ebiten.Image, bounds image.Rectangle) {
	g.panel.buttons = g.panel.buttons[:0]
	g.panel.rows = g.panel.rows[:0]

	vector.DrawFilledRect(dst, float32(bounds.Min.X), float32(bounds.Min.Y),
		float32(bounds.Dx()), float32(bounds.Dy()), panelBackground, false)
	vector.StrokeLine(dst, float32(bounds.Min.X), float32(bounds.Min.Y),
		float32(bounds.Min.X), float32(bounds.Max.Y), 1, panelBorder, false)

	w := &panelWriter{g: g, dst: dst, bounds: bounds, y: bounds.Min.Y + panelPad}
	w.text("RADAR", titleSize, true, panelText)
	if g.opts.Status != nil {
		w.text(g.opts.Status(), bodySize, false, panelMuted)
	}

	w.gap()
	w.button(g.sess.PauseLabel()+" (P)", 0, 0.5, func() { g.report(g.sess.TogglePause()) })
	w.button("ADD TARGET (A)", 0.5, 1, func() { g.report(g.sess.AddTarget()) })
	w.endButtons()

	g.drawEditor(w)
	g.drawAlerts(w)
	g.drawTargets(w)

	if g.flashTTL > 0 && g.flash != "" {
		drawText(dst, g.fonts.face(false, bodySize), util.Truncate(g.flash, 40),
			core.Vec2{X: float64(bounds.Min.X + panelPad), Y: float64(bounds.Max.Y - panelPad)},
			g.sess.Palette().Warning)
	}
}

func (g *Game) drawEditor(w *panelWriter) {
	ed := g.sess.Editor()
	w.header("TARGET")
	if ed.ShowPlaceholder() {
		w.text("Click a target to edit", bodySize, false, panelMuted)
		return
	}

	title := ed.ID()
	if ed.Vanished() {
		title += " (lost)"
	}
	w.text(title, bodySize, true, g.sess.Palette().Selected)
	w.text(fieldLine("Speed", ed.SpeedText(), ed.Focus() == editor.FieldSpeed), bodySize, false, panelText)
	w.text(fieldLine("Heading", ed.HeadingText(), ed.Focus() == editor.FieldHeading), bodySize, false, panelText)

	w.button("APPLY (Enter)", 0, 0.5, func() { g.report(g.sess.ApplyEdit()) })
	if ed.CanDelete() {
		w.button("DELETE (Del)", 0.5, 1, func() { g.report(g.sess.DeleteSelected()) })
	}
	w.endButtons()
}

func fieldLine(label, value string, focused bool) string {
	if focused {
		return label + ": " + value + "_"
	}
	return label + ": " + value
}

func (g *Game) drawAlerts(w *panelWriter) {
	box := g.sess.Alerts()
	pal := g.sess.Palette()
	w.header("ALERTS")
	if box.Clear() {
		w.text(listview.ClearText, bodySize, true, pal.Safe)
		return
	}
	for _, l := range box.Lines() {
		w.text(l.Title, bodySize, true, pal.RiskColor(l.Level))
		w.text(l.Detail, bodySize, false, panelText)
	}
}

func (g *Game) drawTargets(w *panelWriter) {
	pal := g.sess.Palette()
	w.header("TARGETS")
	for _, row := range g.sess.List().Rows() {
		if w.full() {
			return
		}
		r := image.Rect(w.bounds.Min.X+panelPad/2, w.y+2, w.bounds.Max.X-panelPad/2, w.y+lineHeight+2)
		if row.Selected {
			vector.DrawFilledRect(w.dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), rowHighlight, false)
		}
		col := pal.RiskColor(row.Risk)
		if row.Risk == core.RiskSafe {
			col = panelText
		}
		w.text(util.Truncate(row.ID+"  "+row.Summary, maxSummary), bodySize, row.Selected, col)
		g.panel.rows = append(g.panel.rows, rowHit{rect: r, id: row.ID})
	}
}
