package debugdraw

import "github.com/Faultbox/physdraw/pkg/math"

// ShapeKind is the closed set of shapes the physics dispatch can emit.
type ShapeKind int

const (
	ShapeSegment ShapeKind = iota
	ShapePolygon
	ShapeCircle
	ShapeSolidCircle
	ShapePoint
)

var shapeKindNames = [...]string{
	ShapeSegment:     "segment",
	ShapePolygon:     "polygon",
	ShapeCircle:      "circle",
	ShapeSolidCircle: "solid-circle",
	ShapePoint:       "point",
}

func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(shapeKindNames) {
		return "unknown"
	}
	return shapeKindNames[k]
}

// Shape is one debug-draw primitive in the current parent frame.
// Which fields are read depends on Kind:
//
//	ShapeSegment      Verts[0], Verts[1]
//	ShapePolygon      Verts
//	ShapeCircle       Center, Radius, Angle
//	ShapeSolidCircle  Center, Radius, Angle
//	ShapePoint        Center, Size
type Shape struct {
	Kind   ShapeKind
	Verts  []math.Vec2
	Center math.Vec2
	Radius float32
	Angle  float32
	Size   float32
	Color  Color
}

// DrawShape dispatches s to the matching draw operation. Circles and points
// are only drawn when enabled in the builder flags.
func (b *Builder) DrawShape(s *Shape) {
	switch s.Kind {
	case ShapeSegment:
		if len(s.Verts) < 2 {
			return
		}
		b.DrawSegment(s.Verts[0], s.Verts[1], s.Color)
	case ShapePolygon:
		b.DrawPolygon(s.Verts, s.Color)
	case ShapeCircle, ShapeSolidCircle:
		if b.cfg.Flags&DrawCircles == 0 {
			return
		}
		b.DrawCircle(s.Center, s.Radius, s.Angle, s.Color)
	case ShapePoint:
		if b.cfg.Flags&DrawPoints == 0 {
			return
		}
		b.DrawPoint(s.Center, s.Size, s.Color)
	}
}
