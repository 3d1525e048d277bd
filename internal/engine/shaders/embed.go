// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LineVertexShader places the unit quad with the per-segment MVP matrix.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader fills the quad with a flat color.
//
//go:embed line.frag
var LineFragmentShader string
