package debugdraw

import (
	gomath "math"

	"github.com/Faultbox/physdraw/pkg/math"
)

const (
	// DefaultPixelsPerMeter matches the scale the scene is authored in.
	DefaultPixelsPerMeter = 30
	// DefaultLineWidth is the quad thickness in pixels.
	DefaultLineWidth = 4
	// DefaultCircleSegments is the outline resolution for circles.
	DefaultCircleSegments = 24
	// DefaultPointSize is the cross size for points, in pixels.
	DefaultPointSize = 6

	maxCircleSegments = 128
	initialStackDepth = 8
)

var unitZ = math.Vec3{Z: 1}

// Config holds the builder constants.
type Config struct {
	PixelsPerMeter float32
	LineWidth      float32
	FrameMode      FrameMode
	Flags          Flags
	CircleSegments int
	PointSize      float32
}

// DefaultConfig returns the settings of the reference scene.
func DefaultConfig() Config {
	return Config{
		PixelsPerMeter: DefaultPixelsPerMeter,
		LineWidth:      DefaultLineWidth,
		FrameMode:      FrameStack,
		CircleSegments: DefaultCircleSegments,
		PointSize:      DefaultPointSize,
	}
}

// frame is a parent frame already converted to pixels.
type frame struct {
	pos   math.Vec2
	angle float32
	rot   math.Mat4
}

var identityFrame = frame{rot: math.Identity()}

// Builder computes one model-view-projection matrix per segment and hands it
// to the backend. All scratch values live on the Builder and are overwritten
// by every draw; create one Builder and reuse it for every frame.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	cfg      Config
	backend  Backend
	projView math.Mat4

	frame    frame
	badFrame bool
	stack    []frame

	seg      ScreenSegment
	rotation math.Quat
	model    math.Mat4
	mvp      math.Mat4

	stats Stats
}

// NewBuilder creates a builder drawing through backend.
// Zero or negative config values are replaced by defaults.
func NewBuilder(cfg Config, backend Backend) *Builder {
	def := DefaultConfig()
	if cfg.PixelsPerMeter <= 0 {
		cfg.PixelsPerMeter = def.PixelsPerMeter
	}
	if cfg.LineWidth <= 0 {
		cfg.LineWidth = def.LineWidth
	}
	if cfg.CircleSegments < 3 {
		cfg.CircleSegments = def.CircleSegments
	}
	if cfg.CircleSegments > maxCircleSegments {
		cfg.CircleSegments = maxCircleSegments
	}
	if cfg.PointSize <= 0 {
		cfg.PointSize = def.PointSize
	}

	return &Builder{
		cfg:      cfg,
		backend:  backend,
		projView: math.Identity(),
		frame:    identityFrame,
		stack:    make([]frame, 0, initialStackDepth),
		rotation: math.QuatIdentity(),
		model:    math.Identity(),
		mvp:      math.Identity(),
	}
}

// Config returns the effective configuration.
func (b *Builder) Config() Config {
	return b.cfg
}

// SetProjView sets the projection-view matrix composed into every segment.
func (b *Builder) SetProjView(m math.Mat4) {
	b.projView = m
}

// SetParentFrame sets the frame applied to subsequent segments.
// Position is in simulation units. A frame with NaN or infinite values makes
// every segment drawn under it a no-op until a valid frame replaces it.
func (b *Builder) SetParentFrame(xf Transform2) {
	pos := xf.Position.Scale(b.cfg.PixelsPerMeter)
	if !pos.IsFinite() || !isFinite(xf.Angle) {
		b.badFrame = true
		return
	}
	b.badFrame = false
	b.frame = frame{
		pos:   pos,
		angle: xf.Angle,
		rot:   math.RotateZ(xf.Angle),
	}
}

// ClearParentFrame resets the parent frame to identity and drops any pushed
// frames.
func (b *Builder) ClearParentFrame() {
	b.frame = identityFrame
	b.badFrame = false
	b.stack = b.stack[:0]
}

// PushTransform makes xf the parent frame. In FrameStack mode the previous
// frame is saved for the matching PopTransform.
func (b *Builder) PushTransform(xf Transform2) {
	if b.cfg.FrameMode == FrameStack {
		saved := b.frame
		if b.badFrame {
			saved = identityFrame
		}
		b.stack = append(b.stack, saved)
	}
	b.SetParentFrame(xf)
}

// PopTransform restores the frame saved by the matching push, or identity
// if nothing was pushed. In FrameSticky mode it does nothing.
func (b *Builder) PopTransform() {
	if b.cfg.FrameMode == FrameSticky {
		return
	}
	b.badFrame = false
	n := len(b.stack)
	if n == 0 {
		b.frame = identityFrame
		return
	}
	b.frame = b.stack[n-1]
	b.stack = b.stack[:n-1]
}

// Frame returns the current parent frame in pixels.
func (b *Builder) Frame() (pos math.Vec2, angle float32) {
	return b.frame.pos, b.frame.angle
}

// DrawSegment draws the segment from p1 to p2 (simulation units) under the
// current parent frame. Zero-length and non-finite segments are skipped and
// leave the builder state untouched.
func (b *Builder) DrawSegment(p1, p2 math.Vec2, c Color) {
	if b.badFrame {
		b.stats.Skipped++
		return
	}

	from := p1.Scale(b.cfg.PixelsPerMeter)
	to := p2.Scale(b.cfg.PixelsPerMeter)
	delta := to.Sub(from)
	length := delta.Length()
	if length == 0 || !isFinite(length) || !from.IsFinite() || !to.IsFinite() {
		b.stats.Skipped++
		return
	}

	seg := ScreenSegment{
		Center: from.Add(to).Scale(0.5),
		Length: length,
		Dir:    delta.Scale(1 / length),
	}
	// Rotation about +Z taking +X onto the segment, exact in every direction.
	rotation := math.QuatFromAxisAngle(unitZ, float32(gomath.Atan2(float64(seg.Dir.Y), float64(seg.Dir.X))))

	model := math.Identity().
		Translated(b.frame.pos.X, b.frame.pos.Y, 0).
		Mul(b.frame.rot).
		Translated(seg.Center.X, seg.Center.Y, 0).
		Mul(rotation.ToMat4()).
		Scaled(seg.Length, b.cfg.LineWidth, 1)
	mvp := b.projView.Mul(model)
	if !mvp.IsFinite() {
		b.stats.Skipped++
		return
	}

	b.seg = seg
	b.rotation = rotation
	b.model = model
	b.mvp = mvp

	b.backend.SetMVP(&b.mvp)
	b.backend.SetColor(c)
	b.backend.DrawQuad()
	b.stats.Draws++
}

// DrawPolygon draws the closed outline through verts.
// Two vertices draw a single segment; fewer draw nothing.
func (b *Builder) DrawPolygon(verts []math.Vec2, c Color) {
	n := len(verts)
	switch {
	case n < 2:
		return
	case n == 2:
		b.DrawSegment(verts[0], verts[1], c)
		return
	}
	for i := 0; i < n; i++ {
		b.DrawSegment(verts[i], verts[(i+1)%n], c)
	}
}

// DrawCircle draws a circle outline plus a radius line pointing along angle.
func (b *Builder) DrawCircle(center math.Vec2, radius, angle float32, c Color) {
	if radius <= 0 {
		return
	}
	steps := b.cfg.CircleSegments
	prev := math.Vec2{X: center.X + radius, Y: center.Y}
	for i := 1; i <= steps; i++ {
		th := float64(i) * (2 * gomath.Pi / float64(steps))
		cur := math.Vec2{
			X: center.X + float32(gomath.Cos(th))*radius,
			Y: center.Y + float32(gomath.Sin(th))*radius,
		}
		b.DrawSegment(prev, cur, c)
		prev = cur
	}
	tip := math.Vec2{
		X: center.X + float32(gomath.Cos(float64(angle)))*radius,
		Y: center.Y + float32(gomath.Sin(float64(angle)))*radius,
	}
	b.DrawSegment(center, tip, c)
}

// DrawPoint draws a small cross centered on p. size is in pixels.
func (b *Builder) DrawPoint(p math.Vec2, size float32, c Color) {
	if size <= 0 {
		size = b.cfg.PointSize
	}
	half := size / 2 / b.cfg.PixelsPerMeter
	b.DrawSegment(math.Vec2{X: p.X - half, Y: p.Y}, math.Vec2{X: p.X + half, Y: p.Y}, c)
	b.DrawSegment(math.Vec2{X: p.X, Y: p.Y - half}, math.Vec2{X: p.X, Y: p.Y + half}, c)
}

// Segment returns the last drawn segment in pixel space.
func (b *Builder) Segment() ScreenSegment {
	return b.seg
}

// Model returns the model matrix of the last drawn segment.
func (b *Builder) Model() math.Mat4 {
	return b.model
}

// MVP returns the matrix uploaded for the last drawn segment.
func (b *Builder) MVP() math.Mat4 {
	return b.mvp
}

// Stats returns the counters accumulated since the last ResetStats.
func (b *Builder) Stats() Stats {
	return b.stats
}

// ResetStats zeroes the counters.
func (b *Builder) ResetStats() {
	b.stats = Stats{}
}

func isFinite(v float32) bool {
	f := float64(v)
	return !gomath.IsNaN(f) && !gomath.IsInf(f, 0)
}
