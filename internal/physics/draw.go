package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/Faultbox/physdraw/internal/debugdraw"
	"github.com/Faultbox/physdraw/pkg/math"
)

// ShapeDrawer receives the scene one body at a time: a push with the body
// frame, one DrawShape per shape in body-local coordinates, then a pop.
type ShapeDrawer interface {
	PushTransform(xf debugdraw.Transform2)
	PopTransform()
	DrawShape(s *debugdraw.Shape)
}

var (
	colorDynamic   = debugdraw.Color{R: 0.9, G: 0.7, B: 0.7}
	colorSleeping  = debugdraw.Color{R: 0.6, G: 0.6, B: 0.6}
	colorStatic    = debugdraw.Color{R: 0.5, G: 0.9, B: 0.5}
	colorKinematic = debugdraw.Color{R: 0.5, G: 0.5, B: 0.9}
	colorSensor    = debugdraw.Color{R: 1.0, G: 0.85, B: 0.2}
)

// DebugDraw hands every shape to d. The shape value passed to DrawShape is
// reused between calls and must not be retained.
func (w *World) DebugDraw(d ShapeDrawer) {
	for _, b := range w.bodies {
		if len(b.shapes) == 0 {
			continue
		}
		d.PushTransform(debugdraw.Transform2{
			Position: vec(b.body.Position()),
			Angle:    float32(b.body.Angle()),
		})
		color := b.color()
		for i := range b.shapes {
			w.fillShape(&b.shapes[i], color)
			d.DrawShape(&w.shape)
		}
		d.PopTransform()
	}
}

// fillShape converts rec into the reusable debugdraw shape.
func (w *World) fillShape(rec *shapeRecord, color debugdraw.Color) {
	s := &w.shape
	*s = debugdraw.Shape{Color: color}
	w.verts = w.verts[:0]

	switch class := rec.shape.Class.(type) {
	case *cp.PolyShape:
		s.Kind = debugdraw.ShapePolygon
		for i := 0; i < class.Count(); i++ {
			w.verts = append(w.verts, vec(class.Vert(i)))
		}
	case *cp.Circle:
		s.Kind = debugdraw.ShapeCircle
		s.Radius = float32(rec.radius)
	case *cp.Segment:
		s.Kind = debugdraw.ShapeSegment
		w.verts = append(w.verts, vec(rec.a), vec(rec.b))
	}
	s.Verts = w.verts
}

func (b *body) color() debugdraw.Color {
	switch {
	case b.sensor:
		return colorSensor
	case b.kind == Static:
		return colorStatic
	case b.kind == Kinematic:
		return colorKinematic
	case b.body.IsSleeping():
		return colorSleeping
	default:
		return colorDynamic
	}
}

// Hit is the result of a successful RayCast, in meters.
type Hit struct {
	Body     string
	Point    math.Vec2
	Normal   math.Vec2
	Fraction float32
}

// RayCast returns the first dynamic shape crossed by the segment from-to.
// Static geometry is ignored so the probe tracks moving bodies.
func (w *World) RayCast(from, to math.Vec2) (Hit, bool) {
	info := w.space.SegmentQueryFirst(cpVec(from), cpVec(to), 0, w.probeFilter)
	if info.Shape == nil {
		return Hit{}, false
	}
	hit := Hit{
		Point:    vec(info.Point),
		Normal:   vec(info.Normal),
		Fraction: float32(info.Alpha),
	}
	if b, ok := w.shapeToBody[info.Shape]; ok {
		hit.Body = b.name
	}
	return hit, true
}
