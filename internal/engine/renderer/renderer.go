// Package renderer draws debug segments with OpenGL. It implements
// debugdraw.Backend on top of a single unit quad.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/physdraw/internal/debugdraw"
	"github.com/Faultbox/physdraw/internal/engine/shader"
	"github.com/Faultbox/physdraw/internal/engine/shaders"
	"github.com/Faultbox/physdraw/internal/logger"
	"github.com/Faultbox/physdraw/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background debugdraw.Color
}

// quadVertices is the unit quad centered on the origin, in triangle strip
// order. The builder's model matrix stretches it over each segment.
var quadVertices = [8]float32{
	-0.5, -0.5,
	0.5, -0.5,
	-0.5, 0.5,
	0.5, 0.5,
}

// Renderer owns the line program and the quad geometry.
type Renderer struct {
	config Config

	program   uint32
	locMVP    int32
	locColor  int32
	quadVAO   uint32
	quadVBO   uint32
	drawCalls int
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	// Segments are flat and drawn in submission order.
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	bg := cfg.Background
	gl.ClearColor(bg.R, bg.G, bg.B, 1.0)

	var err error
	r.program, err = shader.CompileProgram(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line program: %w", err)
	}
	if r.locMVP, err = shader.UniformLocation(r.program, "uMvpMatrix"); err != nil {
		r.Close()
		return nil, err
	}
	if r.locColor, err = shader.UniformLocation(r.program, "uColor"); err != nil {
		r.Close()
		return nil, err
	}

	r.createQuad()
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
		r.quadVAO = 0
	}
	if r.quadVBO != 0 {
		gl.DeleteBuffers(1, &r.quadVBO)
		r.quadVBO = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin clears the frame and binds the line program and quad.
func (r *Renderer) Begin() {
	r.drawCalls = 0
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.program)
	gl.BindVertexArray(r.quadVAO)
}

// End unbinds the quad. It returns the number of quads drawn this frame.
func (r *Renderer) End() int {
	gl.BindVertexArray(0)
	return r.drawCalls
}

// SetMVP uploads the segment transform.
func (r *Renderer) SetMVP(m *math.Mat4) {
	gl.UniformMatrix4fv(r.locMVP, 1, false, m.Ptr())
}

// SetColor uploads the segment color.
func (r *Renderer) SetColor(c debugdraw.Color) {
	gl.Uniform3f(r.locColor, c.R, c.G, c.B)
}

// DrawQuad issues one draw of the unit quad with the current uniforms.
func (r *Renderer) DrawQuad() {
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	r.drawCalls++
}

// ReadPixels returns the current framebuffer as tightly packed RGBA rows,
// bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

func (r *Renderer) createQuad() {
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)

	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, unsafe.Pointer(&quadVertices[0]), gl.STATIC_DRAW)

	// aPosition (location = 0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("unit quad created",
		zap.Uint32("vao", r.quadVAO),
		zap.Uint32("vbo", r.quadVBO),
	)
}

var _ debugdraw.Backend = (*Renderer)(nil)
