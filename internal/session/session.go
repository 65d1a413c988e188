// Package session owns all client-side view state and is driven from the UI
// goroutine only.
package session

import (
	"errors"
	"log/slog"

	"github.com/OCAP2/radar/internal/camera"
	"github.com/OCAP2/radar/internal/command"
	"github.com/OCAP2/radar/internal/editor"
	"github.com/OCAP2/radar/internal/interaction"
	"github.com/OCAP2/radar/internal/listview"
	"github.com/OCAP2/radar/internal/render"
	"github.com/OCAP2/radar/internal/state"
	"github.com/OCAP2/radar/pkg/core"
)

// Config holds the session settings.
type Config struct {
	ReferenceID string
	Sweep       bool
	Camera      camera.Config
	Interaction interaction.Config
	Palette     render.Palette
}

// Session ties the store, camera, selection, editor and side panel
// together. It is not safe for concurrent use; the stream goroutine hands
// snapshots over through a channel and never calls in directly.
type Session struct {
	cfg    Config
	logger *slog.Logger

	store    *state.Store
	cam      *camera.Camera
	ctl      *interaction.Controller
	pipeline *render.Pipeline
	editor   *editor.Editor
	list     *listview.List
	alerts   listview.AlertBox
	dispatch editor.Dispatcher

	sweepAngle float64
	frames     uint64
}

// New creates a session. d receives every operator command.
func New(cfg Config, d editor.Dispatcher, logger *slog.Logger) *Session {
	if cfg.ReferenceID == "" {
		cfg.ReferenceID = core.DefaultReferenceID
	}
	if logger == nil {
		logger = slog.Default()
	}
	cam := camera.New(cfg.Camera)
	return &Session{
		cfg:    cfg,
		logger: logger.With("component", "session"),
		store:  state.NewStore(),
		cam:    cam,
		ctl:    interaction.New(cam, cfg.Interaction),
		pipeline: render.NewPipeline(render.Options{
			Palette:     cfg.Palette,
			ReferenceID: cfg.ReferenceID,
			Sweep:       cfg.Sweep,
		}),
		editor:   editor.New(d, cfg.ReferenceID),
		list:     listview.NewList(),
		dispatch: d,
	}
}

// ApplySnapshot replaces the live state and brings the panel in line.
func (s *Session) ApplySnapshot(snap core.Snapshot) {
	s.store.Replace(snap)
	if ref, ok := snap.Ship(s.cfg.ReferenceID); ok {
		s.cam.Follow(ref.Position)
	}
	s.editor.Observe(snap)
	s.list.Reconcile(snap, s.selectedID(), s.cfg.ReferenceID)
	s.alerts.Update(snap)
}

// Frame draws the current state and advances the sweep.
func (s *Session) Frame(c render.Canvas) {
	w, h := c.Size()
	s.cam.SetViewport(w, h)

	s.pipeline.Frame(c, s.cam, render.Scene{
		Snapshot:   s.store.Snapshot(),
		Selected:   s.selectedID(),
		SweepAngle: s.sweepAngle,
	})
	s.sweepAngle += render.SweepStep
	s.frames++
}

// PointerDown starts a canvas gesture.
func (s *Session) PointerDown(p core.Vec2) { s.ctl.PointerDown(p) }

// PointerMove continues a canvas gesture.
func (s *Session) PointerMove(p core.Vec2) { s.ctl.PointerMove(p) }

// PointerUp ends a canvas gesture; a click selects or deselects.
func (s *Session) PointerUp(p core.Vec2) {
	snap := s.store.Snapshot()
	click, ok := s.ctl.PointerUp(p, snap.Ships)
	if !ok {
		return
	}
	if click.Hit {
		s.editor.Select(click.ID, snap)
	} else {
		s.editor.Close()
	}
	s.list.Reconcile(snap, s.selectedID(), s.cfg.ReferenceID)
}

// PointerCancel abandons a gesture.
func (s *Session) PointerCancel() { s.ctl.Cancel() }

// Wheel zooms the camera.
func (s *Session) Wheel(deltaY float64) { s.ctl.Wheel(deltaY) }

// SelectFromList selects the ship of a list row.
func (s *Session) SelectFromList(id string) {
	snap := s.store.Snapshot()
	if !s.editor.Select(id, snap) {
		return
	}
	s.ctl.Select(id)
	s.list.Reconcile(snap, id, s.cfg.ReferenceID)
}

// CloseEditor clears the selection.
func (s *Session) CloseEditor() {
	s.ctl.ClearSelection()
	s.editor.Close()
	s.list.Reconcile(s.store.Snapshot(), "", s.cfg.ReferenceID)
}

// TogglePause asks the server to pause or resume.
func (s *Session) TogglePause() error {
	return s.send(command.Command{Kind: command.KindPause})
}

// AddTarget asks the server for a new target.
func (s *Session) AddTarget() error {
	return s.send(command.Command{Kind: command.KindAdd})
}

// DeleteSelected removes the selected target and clears the selection.
func (s *Session) DeleteSelected() error {
	err := s.editor.Delete()
	if errors.Is(err, editor.ErrNoSelection) || errors.Is(err, editor.ErrReferenceProtected) {
		return err
	}
	s.ctl.ClearSelection()
	s.list.Reconcile(s.store.Snapshot(), "", s.cfg.ReferenceID)
	if err != nil {
		s.logger.Warn("Remove command not queued", "error", err)
	}
	return err
}

// ApplyEdit sends the edit form values for the selected target.
func (s *Session) ApplyEdit() error {
	err := s.editor.Apply()
	if err != nil && !errors.Is(err, editor.ErrNoSelection) && !errors.Is(err, editor.ErrInvalidNumber) {
		s.logger.Warn("Update command not queued", "error", err)
	}
	return err
}

// Shortcut is a single-key panel action.
type Shortcut int

const (
	ShortcutPause Shortcut = iota
	ShortcutAdd
	ShortcutReset
	ShortcutSweep
	ShortcutZoomIn
	ShortcutZoomOut
)

// Shortcut runs k unless the edit form is open, in which case keystrokes
// belong to the form and k is ignored.
func (s *Session) Shortcut(k Shortcut) error {
	if s.editor.IsOpen() {
		return nil
	}
	switch k {
	case ShortcutPause:
		return s.TogglePause()
	case ShortcutAdd:
		return s.AddTarget()
	case ShortcutReset:
		s.ResetView()
	case ShortcutSweep:
		s.ToggleSweep()
	case ShortcutZoomIn:
		s.Zoom(interaction.ZoomIn)
	case ShortcutZoomOut:
		s.Zoom(interaction.ZoomOut)
	}
	return nil
}

// ResetView snaps the camera back to the reference at default zoom.
func (s *Session) ResetView() { s.cam.Reset() }

// Pan moves the camera one step.
func (s *Session) Pan(d camera.Direction) { s.cam.PanDirection(d) }

// Zoom multiplies the camera scale.
func (s *Session) Zoom(factor float64) { s.cam.ZoomBy(factor) }

// ToggleSweep turns the sweep layer on or off.
func (s *Session) ToggleSweep() { s.pipeline.SetSweep(!s.pipeline.Sweep()) }

// Sweep reports whether the sweep layer is drawn.
func (s *Session) Sweep() bool { return s.pipeline.Sweep() }

// PauseLabel is the caption of the pause control.
func (s *Session) PauseLabel() string {
	if s.store.Snapshot().Paused {
		return "RESUME"
	}
	return "PAUSE"
}

// Camera exposes the camera for read access.
func (s *Session) Camera() *camera.Camera { return s.cam }

// Editor exposes the edit form.
func (s *Session) Editor() *editor.Editor { return s.editor }

// List exposes the target list.
func (s *Session) List() *listview.List { return s.list }

// Alerts exposes the alert box.
func (s *Session) Alerts() *listview.AlertBox { return &s.alerts }

// Selection returns the current selection.
func (s *Session) Selection() interaction.Selection { return s.ctl.Selection() }

// Snapshot returns the latest applied snapshot.
func (s *Session) Snapshot() core.Snapshot { return s.store.Snapshot() }

// Version returns how many snapshots were applied.
func (s *Session) Version() uint64 { return s.store.Version() }

// Frames returns how many frames were drawn.
func (s *Session) Frames() uint64 { return s.frames }

// Palette returns the display colours.
func (s *Session) Palette() render.Palette { return s.pipeline.Palette() }

// ReferenceID returns the id of the followed ship.
func (s *Session) ReferenceID() string { return s.cfg.ReferenceID }

func (s *Session) send(c command.Command) error {
	if err := s.dispatch.Dispatch(c); err != nil {
		s.logger.Warn("Command not queued", "command", string(c.Kind), "error", err)
		return err
	}
	return nil
}

func (s *Session) selectedID() string {
	sel := s.ctl.Selection()
	if !sel.Set {
		return ""
	}
	return sel.ID
}
