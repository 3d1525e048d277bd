package shaders

import (
	"strings"
	"testing"
)

func TestLineShadersDeclareUniforms(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{"vertex", LineVertexShader, []string{"#version 410 core", "uniform mat4 uMvpMatrix", "layout (location = 0) in vec2 aPosition"}},
		{"fragment", LineFragmentShader, []string{"#version 410 core", "uniform vec3 uColor"}},
	}
	for _, tt := range tests {
		for _, w := range tt.want {
			if !strings.Contains(tt.source, w) {
				t.Errorf("%s shader missing %q", tt.name, w)
			}
		}
	}
}
