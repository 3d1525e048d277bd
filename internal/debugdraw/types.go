// Package debugdraw turns simulation-space line segments into thick
// screen-space quads.
//
// Every segment is drawn with the same unit quad (extent ±0.5 on both axes).
// Position, orientation, length and thickness are carried entirely by the
// model matrix built for that segment, so the draw path never touches vertex
// buffers and never allocates.
package debugdraw

import (
	"github.com/Faultbox/physdraw/pkg/math"
)

// Color is a normalized RGB triple. Values are passed to the shader as-is.
type Color struct {
	R, G, B float32
}

// Transform2 is a rigid body frame in simulation units.
type Transform2 struct {
	Position math.Vec2
	Angle    float32 // radians
}

// ScreenSegment describes one segment in pixel space.
type ScreenSegment struct {
	Center math.Vec2
	Length float32
	Dir    math.Vec2 // unit vector from the first to the second endpoint
}

// Backend receives the per-segment uniforms and draw calls.
// Implementations must draw the unit quad as a 4-vertex triangle strip.
type Backend interface {
	SetMVP(m *math.Mat4)
	SetColor(c Color)
	DrawQuad()
}

// FrameMode selects what PopTransform does.
type FrameMode int

const (
	// FrameStack restores the frame that was active before the matching push.
	FrameStack FrameMode = iota
	// FrameSticky ignores pops: segments keep using the last pushed frame
	// until the next push.
	FrameSticky
)

// String returns the config spelling of the mode.
func (m FrameMode) String() string {
	switch m {
	case FrameSticky:
		return "sticky"
	default:
		return "stack"
	}
}

// ParseFrameMode converts a config value to a FrameMode.
// Unknown values fall back to FrameStack.
func ParseFrameMode(s string) FrameMode {
	if s == "sticky" {
		return FrameSticky
	}
	return FrameStack
}

// Flags enable the optional shape kinds.
type Flags uint

const (
	DrawCircles Flags = 1 << iota
	DrawPoints
)

// Stats counts builder output since the last reset.
type Stats struct {
	Draws   int
	Skipped int
}
