// Package harness runs the visualization loop: it steps the physics world and
// draws every shape and the ray probe through the debug-draw builder.
package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/physdraw/internal/config"
	"github.com/Faultbox/physdraw/internal/debugdraw"
	"github.com/Faultbox/physdraw/internal/engine/debug"
	"github.com/Faultbox/physdraw/internal/engine/input"
	"github.com/Faultbox/physdraw/internal/engine/renderer"
	"github.com/Faultbox/physdraw/internal/engine/window"
	"github.com/Faultbox/physdraw/internal/logger"
	"github.com/Faultbox/physdraw/internal/physics"
	"github.com/Faultbox/physdraw/pkg/math"
)

// Harness is the running visualization.
type Harness struct {
	cfg *config.Config
	log *zap.Logger

	window      *window.Window
	renderer    *renderer.Renderer
	input       *input.Input
	screenshots *debug.ScreenshotCapture

	world   *physics.World
	builder *debugdraw.Builder
	probe   *Probe

	invProjView math.Mat4
}

// New creates the window, GL resources and the physics scene.
func New(cfg *config.Config) (*Harness, error) {
	h := &Harness{
		cfg: cfg,
		log: logger.Named("harness"),
	}

	pc, err := physicsConfig(cfg.Scene)
	if err != nil {
		return nil, err
	}
	h.world, err = physics.NewWorld(pc, logger.Named("physics"))
	if err != nil {
		return nil, fmt.Errorf("failed to create world: %w", err)
	}

	h.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context created by the window.
	fbWidth, fbHeight := h.window.DrawableSize()
	h.renderer, err = renderer.New(renderer.Config{
		Width:      fbWidth,
		Height:     fbHeight,
		Background: toColor(cfg.Scene.Background),
	})
	if err != nil {
		h.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	h.input = input.New()
	h.screenshots = debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "physdraw")

	h.builder = debugdraw.NewBuilder(drawConfig(cfg.Scene), h.renderer)
	projView := debugdraw.ScreenProjection(cfg.Scene.ViewWidth, cfg.Scene.ViewHeight)
	h.builder.SetProjView(projView)
	h.invProjView = projView.Inverse()

	if cfg.Probe.Enabled {
		h.probe = NewProbe(cfg.Probe, cfg.Scene.PixelsPerMeter, logger.Named("probe"))
	}

	h.log.Info("harness initialized",
		zap.Float32("view_width", cfg.Scene.ViewWidth),
		zap.Float32("view_height", cfg.Scene.ViewHeight),
		zap.Stringer("frame_mode", h.builder.Config().FrameMode),
	)
	return h, nil
}

// Run drives the loop until the window is closed, Escape is pressed or ctx
// is cancelled. Frames are paced by the buffer swap.
func (h *Harness) Run(ctx context.Context) error {
	lastTime := time.Now()
	statsTimer := lastTime
	frames := 0

	h.log.Info("starting loop")

	for {
		select {
		case <-ctx.Done():
			h.log.Info("loop cancelled", zap.Error(ctx.Err()))
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if h.input.Update() {
			h.log.Info("quit requested")
			return nil
		}
		h.handleInput()

		h.world.Step(dt)
		h.render()

		if h.input.IsKeyPressed(sdl.SCANCODE_F12) {
			h.captureScreenshot()
		}
		h.window.SwapBuffers()

		frames++
		if interval := h.cfg.Debug.StatsInterval; interval > 0 && now.Sub(statsTimer) >= interval {
			stats := h.builder.Stats()
			h.log.Debug("frame stats",
				zap.Float64("fps", float64(frames)/now.Sub(statsTimer).Seconds()),
				zap.Int("draws", stats.Draws),
				zap.Int("skipped", stats.Skipped),
			)
			h.builder.ResetStats()
			frames = 0
			statsTimer = now
		}
	}
}

// render draws one frame through the builder.
func (h *Harness) render() {
	h.renderer.Begin()

	h.builder.ClearParentFrame()
	h.world.DebugDraw(h.builder)

	if h.probe != nil {
		// Probe endpoints are world coordinates whatever the frame mode left behind.
		h.builder.ClearParentFrame()
		h.probe.Update(h.world, h.builder)
	}

	h.renderer.End()
}

func (h *Harness) handleInput() {
	if w, ht, ok := h.input.Resized(); ok {
		fbWidth, fbHeight := h.window.DrawableSize()
		h.renderer.Resize(fbWidth, fbHeight)
		h.log.Debug("window resized", zap.Int("width", w), zap.Int("height", ht))
	}

	if h.probe == nil {
		return
	}
	if x, y, ok := h.input.MouseClicked(sdl.BUTTON_LEFT); ok {
		h.probe.SetFrom(h.toView(x, y))
	}
	if x, y, ok := h.input.MouseClicked(sdl.BUTTON_RIGHT); ok {
		h.probe.SetTo(h.toView(x, y))
	}
}

// toView converts window coordinates to view pixels.
func (h *Harness) toView(x, y int) math.Vec2 {
	w, ht := h.window.GetSize()
	return debugdraw.Unproject(float32(x), float32(y), float32(w), float32(ht), h.invProjView)
}

func (h *Harness) captureScreenshot() {
	pixels, w, ht := h.renderer.ReadPixels()
	path, err := h.screenshots.CaptureFromPixels(pixels, w, ht)
	if err != nil {
		h.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	h.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases GL and window resources.
func (h *Harness) Close() {
	h.log.Info("closing harness")

	if h.renderer != nil {
		h.renderer.Close()
	}
	if h.window != nil {
		h.window.Close()
	}
}
