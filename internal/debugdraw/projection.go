package debugdraw

import "github.com/Faultbox/physdraw/pkg/math"

// ScreenProjection returns the projection-view matrix for a pixel-space view
// of the given size with the origin at the top-left corner and Y pointing
// down.
func ScreenProjection(width, height float32) math.Mat4 {
	proj := math.Ortho(0, width, height, 0, 1, -1)
	view := math.LookAt(
		math.Vec3{X: 0, Y: 0, Z: 1},
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 0, Y: 1, Z: 0},
	)
	return proj.Mul(view)
}

// Unproject converts window coordinates into view pixels.
// windowW and windowH are the window dimensions, invProjView the inverse of
// the matrix returned by ScreenProjection.
func Unproject(windowX, windowY, windowW, windowH float32, invProjView math.Mat4) math.Vec2 {
	// Convert window coords to normalized device coords (-1 to 1)
	ndcX := 2.0*windowX/windowW - 1.0
	ndcY := 1.0 - 2.0*windowY/windowH // Flip Y

	p := invProjView.MulVec4(math.Vec4{ndcX, ndcY, 0, 1})
	if p[3] != 0 && p[3] != 1 {
		p[0] /= p[3]
		p[1] /= p[3]
	}
	return math.Vec2{X: p[0], Y: p[1]}
}
