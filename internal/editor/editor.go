// Package editor keeps the target edit form in step with the selection.
package editor

import (
	"errors"
	"fmt"

	"github.com/OCAP2/radar/internal/command"
	"github.com/OCAP2/radar/internal/util"
	"github.com/OCAP2/radar/pkg/core"
)

var (
	ErrNoSelection        = errors.New("no target selected")
	ErrInvalidNumber      = errors.New("invalid number")
	ErrReferenceProtected = errors.New("reference entity cannot be removed")
)

// Dispatcher accepts commands without blocking.
type Dispatcher interface {
	Dispatch(c command.Command) error
}

// Field is an editable form field.
type Field uint8

const (
	FieldSpeed Field = iota
	FieldHeading
)

// Editor is the form for the selected target. It never changes ship state
// locally; edits reach the screen only through a later snapshot.
type Editor struct {
	dispatch    Dispatcher
	referenceID string

	id       string
	open     bool
	vanished bool

	speed   string
	heading string
	focus   Field
}

// New creates a closed editor.
func New(d Dispatcher, referenceID string) *Editor {
	if referenceID == "" {
		referenceID = core.DefaultReferenceID
	}
	return &Editor{dispatch: d, referenceID: referenceID}
}

// Select fills the form from the ship with the given id and reveals it.
// When the id is not in snap nothing is revealed and false is returned.
func (e *Editor) Select(id string, snap core.Snapshot) bool {
	ship, ok := snap.Ship(id)
	if !ok {
		return false
	}
	e.id = id
	e.open = true
	e.vanished = false
	e.speed = util.FormatRounded(ship.Speed)
	e.heading = util.FormatRounded(ship.Heading)
	e.focus = FieldSpeed
	return true
}

// Close hides the form and shows the placeholder.
func (e *Editor) Close() {
	e.id = ""
	e.open = false
	e.vanished = false
	e.speed = ""
	e.heading = ""
	e.focus = FieldSpeed
}

// Observe notes whether the selected ship is still present. The form text
// is left alone because the operator may be typing.
func (e *Editor) Observe(snap core.Snapshot) {
	if !e.open {
		return
	}
	e.vanished = !snap.Has(e.id)
}

// Apply sends exactly one update command with the form values.
func (e *Editor) Apply() error {
	if !e.open {
		return ErrNoSelection
	}
	speed, err := util.ParseNumber(e.speed)
	if err != nil {
		return fmt.Errorf("%w: speed %q", ErrInvalidNumber, e.speed)
	}
	heading, err := util.ParseNumber(e.heading)
	if err != nil {
		return fmt.Errorf("%w: heading %q", ErrInvalidNumber, e.heading)
	}
	return e.dispatch.Dispatch(command.Command{
		Kind:     command.KindUpdate,
		TargetID: e.id,
		Speed:    speed,
		Heading:  heading,
	})
}

// Delete sends a remove command for the selected target and closes the
// form. The reference entity is never removed.
func (e *Editor) Delete() error {
	if !e.open {
		return ErrNoSelection
	}
	if e.id == e.referenceID {
		return ErrReferenceProtected
	}
	err := e.dispatch.Dispatch(command.Command{Kind: command.KindRemove, TargetID: e.id})
	e.Close()
	return err
}

// IsOpen reports whether the form is shown.
func (e *Editor) IsOpen() bool { return e.open }

// ShowPlaceholder reports whether the "no selection" placeholder is shown.
func (e *Editor) ShowPlaceholder() bool { return !e.open }

// ID returns the id being edited.
func (e *Editor) ID() string { return e.id }

// Vanished reports whether the edited ship is missing from the latest snapshot.
func (e *Editor) Vanished() bool { return e.open && e.vanished }

// CanDelete reports whether the delete control is shown.
func (e *Editor) CanDelete() bool { return e.open && e.id != e.referenceID }

// SpeedText returns the speed field text.
func (e *Editor) SpeedText() string { return e.speed }

// HeadingText returns the heading field text.
func (e *Editor) HeadingText() string { return e.heading }

// SetSpeedText replaces the speed field text.
func (e *Editor) SetSpeedText(s string) { e.speed = s }

// SetHeadingText replaces the heading field text.
func (e *Editor) SetHeadingText(s string) { e.heading = s }

// Focus returns the field receiving typed input.
func (e *Editor) Focus() Field { return e.focus }

// FocusNext moves typed input to the other field.
func (e *Editor) FocusNext() {
	if e.focus == FieldSpeed {
		e.focus = FieldHeading
	} else {
		e.focus = FieldSpeed
	}
}

// Type appends r to the focused field if it can be part of a number.
func (e *Editor) Type(r rune) {
	if !e.open || !isNumberRune(r) {
		return
	}
	e.setFocused(e.focused() + string(r))
}

// Backspace removes the last character of the focused field.
func (e *Editor) Backspace() {
	if !e.open {
		return
	}
	r := []rune(e.focused())
	if len(r) == 0 {
		return
	}
	e.setFocused(string(r[:len(r)-1]))
}

func (e *Editor) focused() string {
	if e.focus == FieldHeading {
		return e.heading
	}
	return e.speed
}

func (e *Editor) setFocused(s string) {
	if e.focus == FieldHeading {
		e.heading = s
	} else {
		e.speed = s
	}
}

func isNumberRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == '-'
}
