// Package ui is the ebiten window: it feeds input and snapshots into the
// session and paints the radar and the side panel.
package ui

import (
	"errors"
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/OCAP2/radar/internal/camera"
	"github.com/OCAP2/radar/internal/channel"
	"github.com/OCAP2/radar/internal/editor"
	"github.com/OCAP2/radar/internal/monitor"
	"github.com/OCAP2/radar/internal/session"
	"github.com/OCAP2/radar/pkg/core"
)

// flashTicks is how long an action message stays on screen (60 TPS).
const flashTicks = 180

// Options configure the window.
type Options struct {
	Title      string
	Width      int
	Height     int
	PanelWidth int
	// Status returns the connection line shown at the top of the panel.
	Status func() string
}

// Game implements ebiten.Game.
type Game struct {
	sess   *session.Session
	snaps  *channel.Latest[core.Snapshot]
	logger *slog.Logger
	fonts  *Fonts
	canvas *Canvas
	opts   Options

	w, h     int
	dragging bool
	panel    panelLayout
	chars    []rune

	flash    string
	flashTTL int

	frames  atomic.Uint64
	version atomic.Uint64
	ships   atomic.Int64
	alerts  atomic.Int64
}

// New creates the game. snaps is drained once per tick.
func New(sess *session.Session, snaps *channel.Latest[core.Snapshot], fonts *Fonts, opts Options, logger *slog.Logger) *Game {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.PanelWidth < 0 {
		opts.PanelWidth = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		sess:   sess,
		snaps:  snaps,
		logger: logger.With("component", "ui"),
		fonts:  fonts,
		canvas: NewCanvas(nil, fonts),
		opts:   opts,
		w:      opts.Width,
		h:      opts.Height,
	}
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

// Stats returns counters for the status monitor. Safe from any goroutine.
func (g *Game) Stats() monitor.ClientStats {
	return monitor.ClientStats{
		Frames:  g.frames.Load(),
		Version: g.version.Load(),
		Ships:   int(g.ships.Load()),
		Alerts:  int(g.alerts.Load()),
	}
}

// Update applies the newest snapshot and handles input.
func (g *Game) Update() error {
	if snap, ok := g.snaps.Take(); ok {
		g.sess.ApplySnapshot(snap)
		g.version.Store(g.sess.Version())
		g.ships.Store(int64(len(snap.Ships)))
		g.alerts.Store(int64(len(snap.Alerts)))
	}

	g.handlePointer()
	g.handleWheel()
	g.handleKeys()

	if g.flashTTL > 0 {
		g.flashTTL--
	}
	return nil
}

// Draw paints the radar on the left and the panel on the right.
func (g *Game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	rw := g.radarWidth()

	g.canvas.Target(screen.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Min.X+rw, b.Max.Y)).(*ebiten.Image))
	g.sess.Frame(g.canvas)
	g.frames.Store(g.sess.Frames())

	if rw < b.Dx() {
		g.drawPanel(screen, image.Rect(b.Min.X+rw, b.Min.Y, b.Max.X, b.Max.Y))
	}
}

// Layout follows the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.w, g.h = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (g *Game) radarWidth() int {
	rw := g.w - g.opts.PanelWidth
	if rw < 1 {
		rw = 1
	}
	return rw
}

func (g *Game) handlePointer() {
	x, y := cursorPosition()
	p := core.Vec2{X: float64(x), Y: float64(y)}

	if isMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if x < g.radarWidth() {
			g.dragging = true
			g.sess.PointerDown(p)
		} else {
			g.panelClick(image.Pt(x, y))
		}
		return
	}
	if !g.dragging {
		return
	}
	switch {
	case isMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.dragging = false
		g.sess.PointerUp(p)
	case isMouseButtonPressed(ebiten.MouseButtonLeft):
		g.sess.PointerMove(p)
	default:
		g.dragging = false
		g.sess.PointerCancel()
	}
}

func (g *Game) handleWheel() {
	_, dy := wheel()
	if dy == 0 {
		return
	}
	if x, _ := cursorPosition(); x >= g.radarWidth() {
		return
	}
	// ebiten reports scroll-up as positive; the session expects a DOM-style delta.
	g.sess.Wheel(-dy)
}

func (g *Game) handleKeys() {
	ed := g.sess.Editor()

	if ed.IsOpen() {
		g.chars = appendInputChars(g.chars[:0])
		for _, r := range g.chars {
			ed.Type(r)
		}
		if repeating(ebiten.KeyBackspace) {
			ed.Backspace()
		}
		if isKeyJustPressed(ebiten.KeyTab) {
			ed.FocusNext()
		}
		if isKeyJustPressed(ebiten.KeyEnter) || isKeyJustPressed(ebiten.KeyNumpadEnter) {
			g.report(g.sess.ApplyEdit())
		}
		if isKeyJustPressed(ebiten.KeyDelete) {
			g.report(g.sess.DeleteSelected())
		}
		if isKeyJustPressed(ebiten.KeyEscape) {
			g.sess.CloseEditor()
		}
	}

	for key, k := range shortcutKeys {
		if isKeyJustPressed(key) {
			g.report(g.sess.Shortcut(k))
		}
	}

	for key, dir := range panKeys {
		if repeating(key) {
			g.sess.Pan(dir)
		}
	}
}

var shortcutKeys = map[ebiten.Key]session.Shortcut{
	ebiten.KeyP:              session.ShortcutPause,
	ebiten.KeyA:              session.ShortcutAdd,
	ebiten.KeyR:              session.ShortcutReset,
	ebiten.KeyS:              session.ShortcutSweep,
	ebiten.KeyEqual:          session.ShortcutZoomIn,
	ebiten.KeyNumpadAdd:      session.ShortcutZoomIn,
	ebiten.KeyMinus:          session.ShortcutZoomOut,
	ebiten.KeyNumpadSubtract: session.ShortcutZoomOut,
}

var panKeys = map[ebiten.Key]camera.Direction{
	ebiten.KeyArrowUp:    camera.North,
	ebiten.KeyArrowDown:  camera.South,
	ebiten.KeyArrowLeft:  camera.West,
	ebiten.KeyArrowRight: camera.East,
}

// repeating is true on the first tick of a press and then every few ticks
// while the key is held.
func repeating(key ebiten.Key) bool {
	d := keyPressDuration(key)
	return d == 1 || (d >= 30 && d%4 == 0)
}

func (g *Game) report(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, editor.ErrNoSelection):
		return
	case errors.Is(err, editor.ErrReferenceProtected):
		g.setFlash("Own ship cannot be removed")
	case errors.Is(err, editor.ErrInvalidNumber):
		g.setFlash("Speed and heading must be numbers")
	default:
		g.setFlash(err.Error())
	}
	g.logger.Debug("Action rejected", "error", err)
}

func (g *Game) setFlash(msg string) {
	g.flash = msg
	g.flashTTL = flashTicks
}
