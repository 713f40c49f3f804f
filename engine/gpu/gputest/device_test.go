package gputest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/hellogl/engine/gpu"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantLog string
	}{
		{"valid", "void main() { gl_Position = vec4(0.0); }", ""},
		{"comment brace ignored", "void main() { } // }", ""},
		{"empty", "  \n", "0:1(1): error: syntax error, unexpected end of file"},
		{"error directive", "#version 330\n#error broken here\n", "0:2(1): error: #error broken here"},
		{"unexpected close", "void main() }", "0:1(13): error: syntax error, unexpected '}'"},
		{"unmatched open", "void main() {\n", "0:1(13): error: syntax error, unmatched '{', unexpected end of file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLog, Compile(tt.source))
		})
	}
}

func TestShaderFlaggedWhileAttached(t *testing.T) {
	d := NewDevice()
	vs := d.CreateShader(gpu.StageVertex)
	p := d.CreateProgram()
	d.AttachShader(p, vs)
	d.DeleteShader(vs)

	assert.True(t, d.IsShader(vs), "attached shader survives delete")
	assert.True(t, d.ShaderFlagged(vs))

	d.DetachShader(p, vs)
	assert.False(t, d.IsShader(vs))
}

func TestDeleteProgramFreesFlaggedShaders(t *testing.T) {
	d := NewDevice()
	vs := d.CreateShader(gpu.StageVertex)
	fs := d.CreateShader(gpu.StageFragment)
	p := d.CreateProgram()
	d.AttachShader(p, vs)
	d.AttachShader(p, fs)
	d.DeleteShader(vs)

	d.DeleteProgram(p)
	assert.False(t, d.IsProgram(p))
	assert.False(t, d.IsShader(vs))
	assert.True(t, d.IsShader(fs), "unflagged shader outlives the program")
}

func TestLinkRequiresCompiledPair(t *testing.T) {
	d := NewDevice()
	vs := d.CreateShader(gpu.StageVertex)
	d.ShaderSource(vs, "void main() {}")
	d.CompileShader(vs)
	require.True(t, d.ShaderCompileStatus(vs))

	p := d.CreateProgram()
	d.AttachShader(p, vs)
	d.LinkProgram(p)
	assert.False(t, d.ProgramLinkStatus(p))
	assert.NotEmpty(t, d.ProgramInfoLog(p))

	fs := d.CreateShader(gpu.StageFragment)
	d.ShaderSource(fs, "void main() {}")
	d.CompileShader(fs)
	d.AttachShader(p, fs)
	d.LinkProgram(p)
	assert.True(t, d.ProgramLinkStatus(p))
	assert.Empty(t, d.ProgramInfoLog(p))
	assert.Equal(t, 2, d.LinkCount)
}

func TestFailLink(t *testing.T) {
	d := NewDevice()
	d.FailLink = true
	p := d.CreateProgram()
	d.LinkProgram(p)
	assert.False(t, d.ProgramLinkStatus(p))
	assert.Equal(t, "error: link failed", d.ProgramInfoLog(p))
}

func TestVertexAttribState(t *testing.T) {
	d := NewDevice()
	vao := d.GenVertexArray()
	d.BindVertexArray(vao)
	buf := d.GenBuffer()
	d.BindArrayBuffer(buf)
	d.ArrayBufferStaticData([]float32{1, 2, 3})
	d.EnableVertexAttribArray(0)
	d.VertexAttribPointer(0, 3, false, 0, 0)

	a, ok := d.AttribState(vao, 0)
	require.True(t, ok)
	assert.Equal(t, Attrib{Enabled: true, Buffer: buf, Size: 3}, a)
	assert.Equal(t, []float32{1, 2, 3}, d.Uploads[buf])
}

func TestDeleteZeroIsNoop(t *testing.T) {
	d := NewDevice()
	d.DeleteShader(0)
	d.DeleteProgram(0)
	d.DeleteBuffer(0)
	d.DeleteVertexArray(0)
	assert.Equal(t, 0, d.LiveObjects())
	assert.False(t, d.IsShader(0))
	assert.False(t, d.IsProgram(0))
}

func TestCallsNamed(t *testing.T) {
	d := NewDevice()
	d.Clear(gpu.ClearColor | gpu.ClearDepth)
	d.DrawTriangles(0, 3)
	d.Present()
	assert.Equal(t, []string{"DrawTriangles(0, 3)"}, d.CallsNamed("DrawTriangles"))
	assert.Equal(t, []string{"Clear(3)", "DrawTriangles(0, 3)", "Present()"}, d.Calls)
}
