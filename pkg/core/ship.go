// pkg/core/ship.go
package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Vec2 is a 2D world-space vector.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Ship is a tracked entity as reported by the server. The client never mutates it.
type Ship struct {
	ID        string  `json:"id"`
	Position  Vec2    `json:"position"`
	Velocity  Vec2    `json:"velocity"` // world units per second
	Speed     float64 `json:"speed"`    // knots
	Heading   float64 `json:"heading"`  // degrees, 0 = north
	IsOwnShip bool    `json:"is_own_ship,omitempty"`
}

// RiskLevel is the collision risk the server assigned to a target.
// RiskSafe is never sent; it is the absence of an alert.
type RiskLevel uint8

const (
	RiskSafe RiskLevel = iota
	RiskWarning
	RiskDanger
)

// ErrUnknownRiskLevel is returned when a risk level string is not recognised.
var ErrUnknownRiskLevel = errors.New("unknown risk level")

// String returns the wire form of the level.
func (r RiskLevel) String() string {
	switch r {
	case RiskWarning:
		return "WARNING"
	case RiskDanger:
		return "DANGER"
	default:
		return "SAFE"
	}
}

// ParseRiskLevel converts a wire string into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SAFE":
		return RiskSafe, nil
	case "WARNING":
		return RiskWarning, nil
	case "DANGER":
		return RiskDanger, nil
	}
	return RiskSafe, fmt.Errorf("%w: %q", ErrUnknownRiskLevel, s)
}

// MarshalJSON encodes the level as its wire string.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a wire string into the level.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("risk level: %w", err)
	}
	lvl, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*r = lvl
	return nil
}

// Alert is a server-computed collision risk for one target.
type Alert struct {
	TargetID string    `json:"target_id"`
	Level    RiskLevel `json:"level"`
	TCPA     float64   `json:"tcpa"`      // seconds to closest point of approach
	CPA      float64   `json:"cpa"`       // closest approach distance, display units
	CPAPoint Vec2      `json:"cpa_point"` // world position of closest approach
}
