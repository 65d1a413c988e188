package render

import (
	"image/color"

	"github.com/OCAP2/radar/pkg/core"
)

// Palette holds the display colours.
type Palette struct {
	Background color.Color
	Grid       color.Color
	Sweep      color.Color
	SweepFade  color.Color // sweep gradient at the rim
	SweepClear color.Color // sweep gradient at the center
	Safe       color.Color
	Reference  color.Color
	Warning    color.Color
	Danger     color.Color
	Selected   color.Color
	CPA        color.Color
}

// DefaultPalette is the phosphor-green radar look.
func DefaultPalette() Palette {
	green := color.RGBA{R: 0x00, G: 0xff, B: 0x41, A: 0xff}
	return Palette{
		Background: color.RGBA{R: 0x0f, G: 0x12, B: 0x15, A: 0xff},
		Grid:       color.RGBA{R: 0x00, G: 0x33, B: 0x00, A: 0xff},
		Sweep:      green,
		SweepFade:  color.NRGBA{R: 0x00, G: 0xff, B: 0x41, A: 38},
		SweepClear: color.NRGBA{R: 0x00, G: 0xff, B: 0x41, A: 0},
		Safe:       green,
		Reference:  green,
		Warning:    color.RGBA{R: 0xff, G: 0xcc, B: 0x00, A: 0xff},
		Danger:     color.RGBA{R: 0xff, G: 0x33, B: 0x33, A: 0xff},
		Selected:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		CPA:        color.RGBA{R: 0xff, G: 0x33, B: 0x33, A: 0xff},
	}
}

// ResolveColor picks an entity colour by priority:
// selected > reference > danger > warning > safe.
func (p Palette) ResolveColor(selected, reference bool, risk core.RiskLevel) color.Color {
	switch {
	case selected:
		return p.Selected
	case reference:
		return p.Reference
	case risk == core.RiskDanger:
		return p.Danger
	case risk == core.RiskWarning:
		return p.Warning
	default:
		return p.Safe
	}
}

// RiskColor returns the colour used for a risk level in text listings.
func (p Palette) RiskColor(risk core.RiskLevel) color.Color {
	return p.ResolveColor(false, false, risk)
}
