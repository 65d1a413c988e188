package render

import (
	"image/color"

	"github.com/OCAP2/radar/pkg/core"
)

// OpKind identifies a recorded canvas call.
type OpKind string

const (
	OpClear        OpKind = "clear"
	OpTransform    OpKind = "transform"
	OpStrokeCircle OpKind = "stroke_circle"
	OpFillCircle   OpKind = "fill_circle"
	OpStrokeLine   OpKind = "stroke_line"
	OpFillSector   OpKind = "fill_sector"
	OpText         OpKind = "text"
)

// Op is one recorded canvas call. Only the fields relevant to Kind are set.
type Op struct {
	Kind      OpKind
	Transform Transform
	A, B      core.Vec2 // line endpoints, or circle/sector center in A
	Radius    float64
	Width     float64
	From, To  float64
	Dash      []float64
	Color     color.Color
	Outer     color.Color
	Text      string
	Size      float64
}

// Recorder is a Canvas that stores every call instead of drawing.
type Recorder struct {
	W, H float64
	Ops  []Op
}

// NewRecorder creates a recorder reporting the given surface size.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (float64, float64) { return r.W, r.H }

func (r *Recorder) Clear(c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, Color: c})
}

func (r *Recorder) SetTransform(t Transform) {
	r.Ops = append(r.Ops, Op{Kind: OpTransform, Transform: t})
}

func (r *Recorder) StrokeCircle(center core.Vec2, radius, width float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeCircle, A: center, Radius: radius, Width: width, Color: c})
}

func (r *Recorder) FillCircle(center core.Vec2, radius float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillCircle, A: center, Radius: radius, Color: c})
}

func (r *Recorder) StrokeLine(a, b core.Vec2, width float64, c color.Color, dash []float64) {
	var d []float64
	if len(dash) > 0 {
		d = append([]float64(nil), dash...)
	}
	r.Ops = append(r.Ops, Op{Kind: OpStrokeLine, A: a, B: b, Width: width, Color: c, Dash: d})
}

func (r *Recorder) FillSector(center core.Vec2, radius, from, to float64, inner, outer color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillSector, A: center, Radius: radius, From: from, To: to, Color: inner, Outer: outer})
}

func (r *Recorder) Text(s string, at core.Vec2, size float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpText, A: at, Text: s, Size: size, Color: c})
}

// Filter returns the recorded ops of the given kind, in call order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns the strings drawn, in call order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Filter(OpText) {
		out = append(out, op.Text)
	}
	return out
}

// Reset drops every recorded op.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
