package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEntryPoint(t *testing.T) {
	src := `
// @vertex fn commented_out() {}
/* @fragment
   fn also_commented() {} */
@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
	return vec4<f32>(position, 1.0);
}

@fragment fn fs_main() -> @location(0) vec4<f32> {
	return vec4<f32>(1.0, 0.5, 0.2, 1.0);
}
`
	assert.Equal(t, "vs_main", parseEntryPoint(src, StageVertex))
	assert.Equal(t, "fs_main", parseEntryPoint(src, StageFragment))
	assert.Equal(t, "", parseEntryPoint("fn helper() {}", StageVertex))
	assert.Equal(t, "", parseEntryPoint(src, StageType(7)))
}

func TestStripComments(t *testing.T) {
	assert.Equal(t, "a \nb", stripComments("a // x\nb"))
	assert.Equal(t, "a  b", stripComments("a /* x /* nested */ y */ b"))
	assert.Equal(t, "a \n b", stripComments("a /* x\n y */ b"))
}

func TestBackendAndStageNames(t *testing.T) {
	assert.Equal(t, "WebGPU", BackendTypeWGPU.String())
	assert.Equal(t, "OpenGL 3.3 core", BackendTypeGL.String())
	assert.Equal(t, "vertex", StageVertex.String())
	assert.Equal(t, "fragment", StageFragment.String())
}
