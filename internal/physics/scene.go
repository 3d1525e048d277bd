package physics

import "fmt"

// BodyKind is the simulation type of a body.
type BodyKind string

const (
	Dynamic   BodyKind = "dynamic"
	Static    BodyKind = "static"
	Kinematic BodyKind = "kinematic"
)

// BodySpec describes one body of the scene. Positions and sizes are in
// pixels and converted to meters with Config.PixelsPerMeter, so scenes can be
// authored against the canvas.
type BodySpec struct {
	Name string
	Kind BodyKind

	X, Y  float64 // center
	Angle float64 // radians

	// Width and Height make a box. A positive Radius makes a circle instead.
	// A non-zero segment (X1,Y1)-(X2,Y2) relative to the center makes an edge.
	Width, Height  float64
	Radius         float64
	X1, Y1, X2, Y2 float64

	Density       float64
	Friction      float64
	FixedRotation bool
	Sensor        bool
}

// Config holds the simulation settings.
type Config struct {
	PixelsPerMeter float64
	GravityX       float64
	GravityY       float64
	Iterations     int
	MaxStep        float64 // seconds; longer frames are clamped
	Bodies         []BodySpec
}

// DefaultBodies returns the reference scene: a falling box above a platform
// and a wide ground slab.
func DefaultBodies() []BodySpec {
	return []BodySpec{
		{Name: "box", Kind: Dynamic, X: 100, Y: 30, Width: 40, Height: 40, Density: 1, FixedRotation: true},
		{Name: "ground", Kind: Static, X: 150, Y: 270, Width: 260, Height: 40},
		{Name: "platform", Kind: Static, X: 150, Y: 170, Width: 40, Height: 40},
	}
}

// DefaultConfig returns the reference simulation settings.
// Y grows downwards to match the canvas.
func DefaultConfig() Config {
	return Config{
		PixelsPerMeter: 30,
		GravityX:       0,
		GravityY:       9.8,
		Iterations:     10,
		MaxStep:        0.25,
		Bodies:         DefaultBodies(),
	}
}

type shapeType int

const (
	shapeBox shapeType = iota
	shapeCircle
	shapeEdge
)

func (s BodySpec) shapeType() shapeType {
	switch {
	case s.Radius > 0:
		return shapeCircle
	case s.X1 != s.X2 || s.Y1 != s.Y2:
		return shapeEdge
	default:
		return shapeBox
	}
}

// validate reports specs the world cannot build.
func (s BodySpec) validate() error {
	switch s.Kind {
	case Dynamic, Static, Kinematic:
	default:
		return fmt.Errorf("body %q: unknown kind %q", s.Name, s.Kind)
	}
	if s.shapeType() == shapeBox && (s.Width <= 0 || s.Height <= 0) {
		return fmt.Errorf("body %q: box needs positive width and height", s.Name)
	}
	if s.Kind == Dynamic && s.Density <= 0 {
		return fmt.Errorf("body %q: dynamic body needs positive density", s.Name)
	}
	return nil
}
