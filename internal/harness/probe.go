package harness

import (
	"go.uber.org/zap"

	"github.com/Faultbox/physdraw/internal/config"
	"github.com/Faultbox/physdraw/internal/debugdraw"
	"github.com/Faultbox/physdraw/internal/physics"
	"github.com/Faultbox/physdraw/pkg/math"
)

// RayCaster finds the first body along a segment in meters.
type RayCaster interface {
	RayCast(from, to math.Vec2) (physics.Hit, bool)
}

// SegmentDrawer draws one segment in meters.
type SegmentDrawer interface {
	DrawSegment(p1, p2 math.Vec2, c debugdraw.Color)
}

var normalColor = debugdraw.Color{R: 1, G: 1, B: 0}

// Probe is a ray drawn every frame and cast against the dynamic bodies.
// Endpoints are kept in view pixels.
type Probe struct {
	log       *zap.Logger
	ppm       float32
	from, to  math.Vec2
	color     debugdraw.Color
	normalLen float32

	hit     bool
	lastHit physics.Hit
}

// NewProbe builds a probe from its config section.
func NewProbe(pc config.ProbeConfig, ppm float32, log *zap.Logger) *Probe {
	if log == nil {
		log = zap.NewNop()
	}
	return &Probe{
		log:       log,
		ppm:       ppm,
		from:      math.Vec2{X: pc.From[0], Y: pc.From[1]},
		to:        math.Vec2{X: pc.To[0], Y: pc.To[1]},
		color:     toColor(pc.Color),
		normalLen: pc.NormalLength,
	}
}

// SetFrom moves the start of the ray, in view pixels.
func (p *Probe) SetFrom(px math.Vec2) {
	p.from = px
	p.log.Debug("probe moved", zap.Float32("from_x", px.X), zap.Float32("from_y", px.Y))
}

// SetTo moves the end of the ray, in view pixels.
func (p *Probe) SetTo(px math.Vec2) {
	p.to = px
	p.log.Debug("probe moved", zap.Float32("to_x", px.X), zap.Float32("to_y", px.Y))
}

// Hit returns the result of the last Update.
func (p *Probe) Hit() (physics.Hit, bool) {
	return p.lastHit, p.hit
}

// Update draws the ray, casts it and draws the hit normal. Hit changes are
// logged once, not every frame.
func (p *Probe) Update(world RayCaster, d SegmentDrawer) {
	from := p.from.Scale(1 / p.ppm)
	to := p.to.Scale(1 / p.ppm)
	d.DrawSegment(from, to, p.color)

	hit, ok := world.RayCast(from, to)
	if ok != p.hit || (ok && hit.Body != p.lastHit.Body) {
		if ok {
			p.log.Debug("probe hit",
				zap.String("body", hit.Body),
				zap.Float32("x", hit.Point.X*p.ppm),
				zap.Float32("y", hit.Point.Y*p.ppm),
				zap.Float32("fraction", hit.Fraction),
			)
		} else {
			p.log.Debug("probe clear")
		}
	}
	p.hit = ok
	p.lastHit = hit
	if !ok || p.normalLen <= 0 {
		return
	}

	tip := hit.Point.Add(hit.Normal.Scale(p.normalLen / p.ppm))
	d.DrawSegment(hit.Point, tip, normalColor)
}
