// Package physics owns the Chipmunk space and feeds its shapes to the debug
// drawer.
package physics

import (
	"fmt"
	gomath "math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/Faultbox/physdraw/internal/debugdraw"
	"github.com/Faultbox/physdraw/pkg/math"
)

const (
	categoryStatic uint = 1 << iota
	categoryDynamic
)

// World owns the Chipmunk space and the bodies built from the scene specs.
type World struct {
	cfg    Config
	log    *zap.Logger
	space  *cp.Space
	bodies []*body

	shapeToBody map[*cp.Shape]*body
	probeFilter cp.ShapeFilter

	// reused by DebugDraw
	shape debugdraw.Shape
	verts []math.Vec2
}

type body struct {
	name   string
	kind   BodyKind
	sensor bool
	body   *cp.Body
	shapes []shapeRecord
}

// shapeRecord keeps the body-local geometry cp does not expose for circles
// and edges.
type shapeRecord struct {
	shape  *cp.Shape
	typ    shapeType
	radius float64
	a, b   cp.Vector
}

// NewWorld creates a space and populates it from cfg.Bodies.
func NewWorld(cfg Config, log *zap.Logger) (*World, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.PixelsPerMeter <= 0 {
		return nil, fmt.Errorf("pixels per meter must be positive, got %v", cfg.PixelsPerMeter)
	}

	space := cp.NewSpace()
	if cfg.Iterations > 0 {
		space.Iterations = uint(cfg.Iterations)
	}
	space.SetGravity(cp.Vector{X: cfg.GravityX, Y: cfg.GravityY})

	w := &World{
		cfg:         cfg,
		log:         log,
		space:       space,
		shapeToBody: make(map[*cp.Shape]*body),
		probeFilter: cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryDynamic),
		verts:       make([]math.Vec2, 0, 8),
	}

	for _, spec := range cfg.Bodies {
		if err := w.addBody(spec); err != nil {
			return nil, err
		}
	}

	log.Info("physics world created",
		zap.Int("bodies", len(w.bodies)),
		zap.Float64("gravity_y", cfg.GravityY),
		zap.Float64("pixels_per_meter", cfg.PixelsPerMeter),
	)
	return w, nil
}

func (w *World) addBody(spec BodySpec) error {
	if err := spec.validate(); err != nil {
		return err
	}
	ppm := w.cfg.PixelsPerMeter
	width := spec.Width / ppm
	height := spec.Height / ppm
	radius := spec.Radius / ppm
	edgeA := cp.Vector{X: spec.X1 / ppm, Y: spec.Y1 / ppm}
	edgeB := cp.Vector{X: spec.X2 / ppm, Y: spec.Y2 / ppm}

	var cpBody *cp.Body
	switch spec.Kind {
	case Static:
		cpBody = cp.NewStaticBody()
	case Kinematic:
		cpBody = cp.NewKinematicBody()
	default:
		mass, moment := massProperties(spec, width, height, radius, edgeA, edgeB)
		if spec.FixedRotation {
			moment = gomath.Inf(1)
		}
		cpBody = cp.NewBody(mass, moment)
	}
	cpBody.SetPosition(cp.Vector{X: spec.X / ppm, Y: spec.Y / ppm})
	cpBody.SetAngle(spec.Angle)
	w.space.AddBody(cpBody)

	rec := shapeRecord{typ: spec.shapeType()}
	switch rec.typ {
	case shapeCircle:
		rec.radius = radius
		rec.shape = cp.NewCircle(cpBody, radius, cp.Vector{})
	case shapeEdge:
		rec.a, rec.b = edgeA, edgeB
		rec.shape = cp.NewSegment(cpBody, rec.a, rec.b, 0)
	default:
		rec.shape = cp.NewBox(cpBody, width, height, 0)
	}

	friction := spec.Friction
	if friction == 0 {
		friction = 0.6
	}
	rec.shape.SetFriction(friction)
	rec.shape.SetSensor(spec.Sensor)
	if spec.Kind == Dynamic {
		rec.shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryDynamic, cp.ALL_CATEGORIES))
	} else {
		rec.shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryStatic, cp.ALL_CATEGORIES))
	}
	w.space.AddShape(rec.shape)

	b := &body{
		name:   spec.Name,
		kind:   spec.Kind,
		sensor: spec.Sensor,
		body:   cpBody,
		shapes: []shapeRecord{rec},
	}
	w.bodies = append(w.bodies, b)
	w.shapeToBody[rec.shape] = b

	w.log.Debug("body created",
		zap.String("name", spec.Name),
		zap.String("kind", string(spec.Kind)),
		zap.Float64("x", spec.X/ppm),
		zap.Float64("y", spec.Y/ppm),
	)
	return nil
}

func massProperties(spec BodySpec, width, height, radius float64, a, b cp.Vector) (mass, moment float64) {
	switch spec.shapeType() {
	case shapeCircle:
		mass = spec.Density * gomath.Pi * radius * radius
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	case shapeEdge:
		mass = spec.Density * a.Distance(b)
		moment = cp.MomentForSegment(mass, a, b, 0)
	default:
		mass = spec.Density * width * height
		moment = cp.MomentForBox(mass, width, height)
	}
	return mass, moment
}

// Step advances the simulation by dt seconds. Non-positive steps are ignored
// and long steps are clamped to MaxStep.
func (w *World) Step(dt float64) {
	if dt <= 0 || gomath.IsNaN(dt) {
		return
	}
	if w.cfg.MaxStep > 0 && dt > w.cfg.MaxStep {
		dt = w.cfg.MaxStep
	}
	w.space.Step(dt)
}

// BodyState is a snapshot of one body, in meters and radians.
type BodyState struct {
	Name     string
	Kind     BodyKind
	Position math.Vec2
	Angle    float32
}

// Body returns the state of the named body.
func (w *World) Body(name string) (BodyState, bool) {
	for _, b := range w.bodies {
		if b.name == name {
			return b.state(), true
		}
	}
	return BodyState{}, false
}

// Bodies returns the state of every body in creation order.
func (w *World) Bodies() []BodyState {
	out := make([]BodyState, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = b.state()
	}
	return out
}

func (b *body) state() BodyState {
	return BodyState{
		Name:     b.name,
		Kind:     b.kind,
		Position: vec(b.body.Position()),
		Angle:    float32(b.body.Angle()),
	}
}

func vec(v cp.Vector) math.Vec2 {
	return math.Vec2{X: float32(v.X), Y: float32(v.Y)}
}

func cpVec(v math.Vec2) cp.Vector {
	return cp.Vector{X: float64(v.X), Y: float64(v.Y)}
}
