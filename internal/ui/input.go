package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input sources. Package vars so a headless driver can replace them.
var (
	cursorPosition            = ebiten.CursorPosition
	isMouseButtonPressed      = ebiten.IsMouseButtonPressed
	isMouseButtonJustPressed  = inpututil.IsMouseButtonJustPressed
	isMouseButtonJustReleased = inpututil.IsMouseButtonJustReleased
	wheel                     = ebiten.Wheel
	isKeyJustPressed          = inpututil.IsKeyJustPressed
	appendInputChars          = ebiten.AppendInputChars
	keyPressDuration          = inpututil.KeyPressDuration
)
