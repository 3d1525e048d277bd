package renderer

import (
	"testing"

	"github.com/Faultbox/physdraw/internal/debugdraw"
	"github.com/Faultbox/physdraw/pkg/math"
)

// The builder's model matrix assumes a unit quad centered on the origin.
func TestQuadVerticesAreUnitSquare(t *testing.T) {
	var minX, minY, maxX, maxY float32
	for i := 0; i < len(quadVertices); i += 2 {
		x, y := quadVertices[i], quadVertices[i+1]
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	if maxX-minX != 1 || maxY-minY != 1 {
		t.Errorf("quad extent = %vx%v, want 1x1", maxX-minX, maxY-minY)
	}
	if minX+maxX != 0 || minY+maxY != 0 {
		t.Errorf("quad not centered: x [%v,%v] y [%v,%v]", minX, maxX, minY, maxY)
	}
}

// A horizontal segment must cover exactly its length along X once the quad
// goes through the builder's model matrix.
func TestQuadStretchesOverSegment(t *testing.T) {
	b := debugdraw.NewBuilder(debugdraw.DefaultConfig(), nopBackend{})
	b.DrawSegment(math.Vec2{X: 1, Y: 1}, math.Vec2{X: 3, Y: 1}, debugdraw.Color{})

	model := b.Model()
	left := model.TransformVec2(math.Vec2{X: quadVertices[0], Y: quadVertices[1]})
	right := model.TransformVec2(math.Vec2{X: quadVertices[2], Y: quadVertices[3]})

	if d := right.X - left.X; d < 59.99 || d > 60.01 {
		t.Errorf("stretched quad spans %v px, want 60", d)
	}
}

type nopBackend struct{}

func (nopBackend) SetMVP(*math.Mat4)        {}
func (nopBackend) SetColor(debugdraw.Color) {}
func (nopBackend) DrawQuad()                {}
