package debugdraw

import (
	gomath "math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Faultbox/physdraw/pkg/math"
)

var approx = cmpopts.EquateApprox(0, 1e-4)

// recordingBackend keeps every uploaded matrix and color.
type recordingBackend struct {
	mvps   []math.Mat4
	colors []Color
	draws  int
}

func (r *recordingBackend) SetMVP(m *math.Mat4) { r.mvps = append(r.mvps, *m) }
func (r *recordingBackend) SetColor(c Color)    { r.colors = append(r.colors, c) }
func (r *recordingBackend) DrawQuad()           { r.draws++ }

// countingBackend records without allocating.
type countingBackend struct {
	last  math.Mat4
	color Color
	draws int
}

func (c *countingBackend) SetMVP(m *math.Mat4) { c.last = *m }
func (c *countingBackend) SetColor(col Color)  { c.color = col }
func (c *countingBackend) DrawQuad()           { c.draws++ }

func newTestBuilder(mode FrameMode) (*Builder, *recordingBackend) {
	rec := &recordingBackend{}
	cfg := DefaultConfig()
	cfg.FrameMode = mode
	return NewBuilder(cfg, rec), rec
}

func v2(x, y float32) math.Vec2 { return math.Vec2{X: x, Y: y} }

// quadCorner maps a unit-quad corner through m.
func quadCorner(m math.Mat4, u, v float32) math.Vec2 {
	return m.TransformVec2(v2(u, v))
}

var white = Color{R: 1, G: 1, B: 1}

func TestDrawSegmentHorizontal(t *testing.T) {
	b, rec := newTestBuilder(FrameStack)

	b.DrawSegment(v2(0, 0), v2(1, 0), white)

	if rec.draws != 1 {
		t.Fatalf("expected 1 draw, got %d", rec.draws)
	}
	want := ScreenSegment{Center: v2(15, 0), Length: 30, Dir: v2(1, 0)}
	if diff := cmp.Diff(want, b.Segment(), approx); diff != "" {
		t.Errorf("segment mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(math.QuatIdentity(), b.rotation, approx); diff != "" {
		t.Errorf("rotation should be identity (-want +got):\n%s", diff)
	}
	wantModel := math.Translate(15, 0, 0).Mul(math.Scale(30, DefaultLineWidth, 1))
	if diff := cmp.Diff(wantModel, b.Model(), approx); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestDrawSegmentVertical(t *testing.T) {
	b, _ := newTestBuilder(FrameStack)

	b.DrawSegment(v2(0, 0), v2(0, 1), white)

	want := ScreenSegment{Center: v2(0, 15), Length: 30, Dir: v2(0, 1)}
	if diff := cmp.Diff(want, b.Segment(), approx); diff != "" {
		t.Errorf("segment mismatch (-want +got):\n%s", diff)
	}

	quarter := math.QuatFromAxisAngle(math.Vec3{Z: 1}, gomath.Pi/2)
	if diff := cmp.Diff(quarter, b.rotation, approx); diff != "" {
		t.Errorf("expected 90 degree rotation about Z (-want +got):\n%s", diff)
	}

	// Quad axis runs along the segment, thickness along -X/+X.
	m := b.Model()
	if diff := cmp.Diff(v2(0, 0), quadCorner(m, -0.5, 0), approx); diff != "" {
		t.Errorf("start mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(v2(0, 30), quadCorner(m, 0.5, 0), approx); diff != "" {
		t.Errorf("end mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(v2(-2, 15), quadCorner(m, 0, 0.5), approx); diff != "" {
		t.Errorf("edge mismatch (-want +got):\n%s", diff)
	}
}

// Directions a hair off +X must still rotate the quad.
func TestDrawSegmentNearlyHorizontal(t *testing.T) {
	b, _ := newTestBuilder(FrameStack)

	b.DrawSegment(v2(0, 0), v2(100, 0.1), white)

	m := b.Model()
	loose := cmpopts.EquateApprox(0, 1e-2)
	if diff := cmp.Diff(v2(0, 0), quadCorner(m, -0.5, 0), loose); diff != "" {
		t.Errorf("start mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(v2(3000, 3), quadCorner(m, 0.5, 0), loose); diff != "" {
		t.Errorf("end mismatch (-want +got):\n%s", diff)
	}
	if b.rotation == math.QuatIdentity() {
		t.Error("rotation collapsed to identity")
	}
}

func TestDrawSegmentOrderIndependent(t *testing.T) {
	frames := []Transform2{
		{},
		{Position: v2(3, 4), Angle: 0.6},
		{Position: v2(-1, 2), Angle: -2.5},
	}
	pairs := [][2]math.Vec2{
		{v2(0, 0), v2(1, 0)},
		{v2(2, 3), v2(-1, 5)},
		{v2(-0.5, -0.25), v2(-0.5, 4)},
		{v2(1, 1), v2(0, 0)},
	}

	for _, xf := range frames {
		for _, p := range pairs {
			ab, _ := newTestBuilder(FrameStack)
			ab.SetParentFrame(xf)
			ab.DrawSegment(p[0], p[1], white)

			ba, _ := newTestBuilder(FrameStack)
			ba.SetParentFrame(xf)
			ba.DrawSegment(p[1], p[0], white)

			segAB, segBA := ab.Segment(), ba.Segment()
			if diff := cmp.Diff(segAB.Center, segBA.Center, approx); diff != "" {
				t.Errorf("%v: center depends on order:\n%s", p, diff)
			}
			if diff := cmp.Diff(segAB.Length, segBA.Length, approx); diff != "" {
				t.Errorf("%v: length depends on order:\n%s", p, diff)
			}

			// Same footprint: each corner of AB is the opposite corner of BA.
			for _, c := range [][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {-0.5, 0.5}, {0.5, 0.5}} {
				got := quadCorner(ba.Model(), -c[0], -c[1])
				want := quadCorner(ab.Model(), c[0], c[1])
				if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-3)); diff != "" {
					t.Errorf("%v frame %+v corner %v:\n%s", p, xf, c, diff)
				}
			}
		}
	}
}

func TestSegmentCenterIsAverage(t *testing.T) {
	b, _ := newTestBuilder(FrameStack)

	b.DrawSegment(v2(4, -2), v2(-3, 7), white)

	// (4*30 + -3*30)/2, (-2*30 + 7*30)/2
	want := v2(15, 75)
	if diff := cmp.Diff(want, b.Segment().Center, approx); diff != "" {
		t.Errorf("center mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentLengthMatchesDistance(t *testing.T) {
	pairs := [][2]math.Vec2{
		{v2(0, 0), v2(3, 4)},
		{v2(-7.25, 1.5), v2(2.125, -9)},
		{v2(100, 100), v2(100.001, 100)},
		{v2(0.1, 0.2), v2(0.3, 0.7)},
	}

	for _, p := range pairs {
		b, _ := newTestBuilder(FrameStack)
		b.DrawSegment(p[0], p[1], white)

		from := p[0].Scale(DefaultPixelsPerMeter)
		to := p[1].Scale(DefaultPixelsPerMeter)
		dx := float64(to.X - from.X)
		dy := float64(to.Y - from.Y)
		want := gomath.Hypot(dx, dy)

		got := float64(b.Segment().Length)
		if rel := gomath.Abs(got-want) / want; rel > 1e-6 {
			t.Errorf("%v: length %v, want %v (rel err %g)", p, got, want, rel)
		}
	}
}

func TestParentFrameComposition(t *testing.T) {
	b, _ := newTestBuilder(FrameStack)
	b.SetParentFrame(Transform2{Position: v2(1, 2), Angle: gomath.Pi / 2})

	b.DrawSegment(v2(0, 0), v2(1, 0), white)

	// Frame origin is at (30, 60) px; the local +X segment turns into +Y.
	m := b.Model()
	if diff := cmp.Diff(v2(30, 60), quadCorner(m, -0.5, 0), approx); diff != "" {
		t.Errorf("start mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(v2(30, 90), quadCorner(m, 0.5, 0), approx); diff != "" {
		t.Errorf("end mismatch (-want +got):\n%s", diff)
	}
	pos, angle := b.Frame()
	if diff := cmp.Diff(v2(30, 60), pos, approx); diff != "" {
		t.Errorf("frame position mismatch (-want +got):\n%s", diff)
	}
	if angle != gomath.Pi/2 {
		t.Errorf("frame angle = %v, want pi/2", angle)
	}
}

func TestClearParentFrameMatchesIdentity(t *testing.T) {
	fresh, _ := newTestBuilder(FrameStack)
	fresh.DrawSegment(v2(1, 2), v2(3, 1), white)

	b, _ := newTestBuilder(FrameStack)
	b.SetParentFrame(Transform2{Position: v2(5, -3), Angle: 1.1})
	b.DrawSegment(v2(1, 2), v2(3, 1), white)
	b.ClearParentFrame()
	b.DrawSegment(v2(1, 2), v2(3, 1), white)

	if diff := cmp.Diff(fresh.Model(), b.Model(), approx); diff != "" {
		t.Errorf("model after clear differs from identity frame (-want +got):\n%s", diff)
	}
}

func TestMVPIsProjViewTimesModel(t *testing.T) {
	b, rec := newTestBuilder(FrameStack)
	pv := ScreenProjection(300, 300)
	b.SetProjView(pv)

	b.DrawSegment(v2(1, 1), v2(2, 3), white)

	want := pv.Mul(b.Model())
	if diff := cmp.Diff(want, rec.mvps[0], approx); diff != "" {
		t.Errorf("uploaded matrix mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, b.MVP(), approx); diff != "" {
		t.Errorf("MVP mismatch (-want +got):\n%s", diff)
	}
}

func TestColorPassedThroughUnclamped(t *testing.T) {
	b, rec := newTestBuilder(FrameStack)
	c := Color{R: 2, G: -1, B: 0.5}

	b.DrawSegment(v2(0, 0), v2(1, 1), c)

	if len(rec.colors) != 1 || rec.colors[0] != c {
		t.Errorf("colors = %v, want [%v]", rec.colors, c)
	}
}

func TestDegenerateSegmentSkipped(t *testing.T) {
	b, rec := newTestBuilder(FrameStack)
	b.SetParentFrame(Transform2{Position: v2(1, 1), Angle: 0.3})
	b.DrawSegment(v2(0, 0), v2(1, 0), white)
	model, mvp, seg := b.Model(), b.MVP(), b.Segment()

	b.DrawSegment(v2(2, 2), v2(2, 2), white)

	if rec.draws != 1 {
		t.Errorf("expected the zero-length segment to be skipped, got %d draws", rec.draws)
	}
	if got := b.Stats(); got.Skipped != 1 || got.Draws != 1 {
		t.Errorf("stats = %+v, want 1 draw 1 skipped", got)
	}
	assertFiniteScratch(t, b)
	if b.Model() != model || b.MVP() != mvp || b.Segment() != seg {
		t.Error("skipped segment modified scratch state")
	}
}

func TestNonFiniteSegmentSkipped(t *testing.T) {
	nan := float32(gomath.NaN())
	inf := float32(gomath.Inf(1))
	tests := []struct {
		name   string
		p1, p2 math.Vec2
	}{
		{"nan x", v2(nan, 0), v2(1, 1)},
		{"nan y", v2(0, 0), v2(1, nan)},
		{"inf", v2(inf, 0), v2(1, 1)},
		{"overflow", v2(3e38, 0), v2(-3e38, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, rec := newTestBuilder(FrameStack)
			b.DrawSegment(tt.p1, tt.p2, white)
			if rec.draws != 0 {
				t.Errorf("expected no draw, got %d", rec.draws)
			}
			assertFiniteScratch(t, b)

			// The builder keeps working afterwards.
			b.DrawSegment(v2(0, 0), v2(1, 0), white)
			if rec.draws != 1 {
				t.Errorf("expected recovery draw, got %d", rec.draws)
			}
		})
	}
}

func TestNonFiniteFrameSkipsUntilReplaced(t *testing.T) {
	b, rec := newTestBuilder(FrameStack)
	b.SetParentFrame(Transform2{Position: v2(float32(gomath.NaN()), 0)})

	b.DrawSegment(v2(0, 0), v2(1, 0), white)
	if rec.draws != 0 {
		t.Fatalf("expected no draw under a NaN frame, got %d", rec.draws)
	}
	assertFiniteScratch(t, b)

	b.SetParentFrame(Transform2{Position: v2(1, 0)})
	b.DrawSegment(v2(0, 0), v2(1, 0), white)
	if rec.draws != 1 {
		t.Errorf("expected draw after a valid frame, got %d", rec.draws)
	}
}

func TestFrameStackPopRestores(t *testing.T) {
	b, _ := newTestBuilder(FrameStack)
	outer := Transform2{Position: v2(1, 0), Angle: 0.5}
	inner := Transform2{Position: v2(0, 2), Angle: -1}

	b.PushTransform(outer)
	b.PushTransform(inner)
	if pos, _ := b.Frame(); pos != v2(0, 60) {
		t.Errorf("inner frame position = %v, want (0, 60)", pos)
	}

	b.PopTransform()
	if pos, angle := b.Frame(); pos != v2(30, 0) || angle != 0.5 {
		t.Errorf("after first pop: %v %v, want outer frame", pos, angle)
	}

	b.PopTransform()
	if pos, angle := b.Frame(); pos != (math.Vec2{}) || angle != 0 {
		t.Errorf("after second pop: %v %v, want identity", pos, angle)
	}

	// Unbalanced pop stays at identity.
	b.PopTransform()
	if pos, _ := b.Frame(); pos != (math.Vec2{}) {
		t.Errorf("extra pop moved the frame to %v", pos)
	}
}

func TestFrameStackPopMatchesNeverPushed(t *testing.T) {
	fresh, _ := newTestBuilder(FrameStack)
	fresh.DrawSegment(v2(0, 0), v2(2, 1), white)

	b, _ := newTestBuilder(FrameStack)
	b.PushTransform(Transform2{Position: v2(4, 4), Angle: 2})
	b.DrawSegment(v2(0, 0), v2(2, 1), white)
	b.PopTransform()
	b.DrawSegment(v2(0, 0), v2(2, 1), white)

	if diff := cmp.Diff(fresh.Model(), b.Model(), approx); diff != "" {
		t.Errorf("model after pop differs (-want +got):\n%s", diff)
	}
}

func TestFrameStickyIgnoresPop(t *testing.T) {
	b, _ := newTestBuilder(FrameSticky)
	xf := Transform2{Position: v2(2, 1), Angle: 0.25}

	b.PushTransform(xf)
	b.PopTransform()

	pos, angle := b.Frame()
	if pos != v2(60, 30) || angle != 0.25 {
		t.Errorf("sticky frame after pop: %v %v, want (60,30) 0.25", pos, angle)
	}
	if len(b.stack) != 0 {
		t.Errorf("sticky mode should not grow the stack, len=%d", len(b.stack))
	}

	b.ClearParentFrame()
	if pos, _ := b.Frame(); pos != (math.Vec2{}) {
		t.Errorf("clear should reset the sticky frame, got %v", pos)
	}
}

func TestDrawPolygonUnitSquare(t *testing.T) {
	square := []math.Vec2{v2(0, 0), v2(1, 0), v2(1, 1), v2(0, 1)}
	xf := Transform2{Position: v2(2, 3), Angle: 0.4}

	b, rec := newTestBuilder(FrameStack)
	b.SetParentFrame(xf)
	b.DrawPolygon(square, white)

	if rec.draws != 4 {
		t.Fatalf("expected 4 segment draws, got %d", rec.draws)
	}
	for i := range square {
		single, srec := newTestBuilder(FrameStack)
		single.SetParentFrame(xf)
		single.DrawSegment(square[i], square[(i+1)%len(square)], white)
		if diff := cmp.Diff(srec.mvps[0], rec.mvps[i], approx); diff != "" {
			t.Errorf("edge %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestDrawPolygonVertexCounts(t *testing.T) {
	tests := []struct {
		name  string
		verts []math.Vec2
		want  int
	}{
		{"empty", nil, 0},
		{"single", []math.Vec2{v2(1, 1)}, 0},
		{"pair", []math.Vec2{v2(0, 0), v2(1, 0)}, 1},
		{"triangle", []math.Vec2{v2(0, 0), v2(1, 0), v2(0, 1)}, 3},
		{"pentagon", []math.Vec2{v2(0, 0), v2(2, 0), v2(3, 1), v2(1, 3), v2(-1, 1)}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, rec := newTestBuilder(FrameStack)
			b.DrawPolygon(tt.verts, white)
			if rec.draws != tt.want {
				t.Errorf("draws = %d, want %d", rec.draws, tt.want)
			}
		})
	}
}

func TestNewBuilderDefaults(t *testing.T) {
	b := NewBuilder(Config{CircleSegments: 1000}, &countingBackend{})
	cfg := b.Config()

	if cfg.PixelsPerMeter != DefaultPixelsPerMeter {
		t.Errorf("PixelsPerMeter = %v, want %v", cfg.PixelsPerMeter, DefaultPixelsPerMeter)
	}
	if cfg.LineWidth != DefaultLineWidth {
		t.Errorf("LineWidth = %v, want %v", cfg.LineWidth, DefaultLineWidth)
	}
	if cfg.CircleSegments != maxCircleSegments {
		t.Errorf("CircleSegments = %d, want %d", cfg.CircleSegments, maxCircleSegments)
	}
	if b.MVP() != math.Identity() {
		t.Error("scratch MVP should start as identity")
	}
}

func TestResetStats(t *testing.T) {
	b, _ := newTestBuilder(FrameStack)
	b.DrawSegment(v2(0, 0), v2(1, 0), white)
	b.DrawSegment(v2(0, 0), v2(0, 0), white)

	if got := b.Stats(); got != (Stats{Draws: 1, Skipped: 1}) {
		t.Errorf("stats = %+v", got)
	}
	b.ResetStats()
	if got := b.Stats(); got != (Stats{}) {
		t.Errorf("stats after reset = %+v", got)
	}
}

func TestDrawSegmentDoesNotAllocate(t *testing.T) {
	backend := &countingBackend{}
	b := NewBuilder(DefaultConfig(), backend)
	b.SetProjView(ScreenProjection(300, 300))
	square := []math.Vec2{v2(0, 0), v2(1, 0), v2(1, 1), v2(0, 1)}

	allocs := testing.AllocsPerRun(100, func() {
		b.PushTransform(Transform2{Position: v2(3, 5), Angle: 0.2})
		b.DrawSegment(v2(0, 0), v2(1, 2), white)
		b.DrawPolygon(square, white)
		b.PopTransform()
	})
	if allocs != 0 {
		t.Errorf("expected 0 allocations per frame, got %v", allocs)
	}
	if backend.draws == 0 {
		t.Error("backend never received a draw")
	}
}

func assertFiniteScratch(t *testing.T, b *Builder) {
	t.Helper()
	if !b.model.IsFinite() {
		t.Errorf("model has non-finite values: %v", b.model)
	}
	if !b.mvp.IsFinite() {
		t.Errorf("mvp has non-finite values: %v", b.mvp)
	}
	if !b.seg.Center.IsFinite() || !b.seg.Dir.IsFinite() || !isFinite(b.seg.Length) {
		t.Errorf("segment has non-finite values: %+v", b.seg)
	}
	q := b.rotation
	for _, v := range []float32{q.X, q.Y, q.Z, q.W} {
		if !isFinite(v) {
			t.Errorf("rotation has non-finite values: %+v", q)
			break
		}
	}
	if pos, angle := b.Frame(); !pos.IsFinite() || !isFinite(angle) {
		t.Errorf("frame has non-finite values: %v %v", pos, angle)
	}
}
