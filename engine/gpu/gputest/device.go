// Package gputest provides an in-memory gpu.Device for tests.
//
// The fake follows the GL object lifetime rules the rest of the program relies on: a
// shader flagged for deletion while attached stays alive until it is detached or its
// program is deleted, deleting name zero is ignored, and every deleted name stops
// reporting as valid. Shader sources are checked by a small toy compiler so tests can
// provoke compile diagnostics without a driver.
package gputest

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/hellogl/engine/gpu"
)

// Draw records one DrawTriangles call together with the program and vertex array bound at
// the time of the call.
type Draw struct {
	First   int32
	Count   int32
	Program gpu.Handle
	Array   gpu.Handle
}

// Attrib is the recorded state of one vertex attribute slot of a vertex array.
type Attrib struct {
	Enabled    bool
	Buffer     gpu.Handle
	Size       int32
	Normalized bool
	Stride     int32
	Offset     uintptr
}

type shader struct {
	stage    gpu.StageType
	source   string
	compiled bool
	infoLog  string
	flagged  bool
	attached int
}

type program struct {
	shaders []gpu.Handle
	linked  bool
	infoLog string
}

type vertexArray struct {
	attribs map[uint32]*Attrib
}

// Device is a recording gpu.Device. The exported fields are safe to inspect between calls
// and FailLink, LinkLog and CompileWarning may be set to steer the next compile or link.
type Device struct {
	// FailLink makes every following LinkProgram report failure with LinkLog.
	FailLink bool

	// LinkLog is returned as the program info log after a link. Defaults to a generic
	// message when FailLink is set and LinkLog is empty.
	LinkLog string

	// CompileWarning is returned as the info log of every successful compile.
	CompileWarning string

	// Calls holds every device call in order, formatted as "Name(args)".
	Calls []string

	// Draws holds every DrawTriangles call.
	Draws []Draw

	// Uploads holds a copy of every ArrayBufferStaticData payload keyed by buffer.
	Uploads map[gpu.Handle][]float32

	Presents      int
	Clears        []gpu.ClearMask
	CompileCount  int
	LinkCount     int
	ReleaseCount  int
	ViewportRect  [4]int32
	ClearColorRGB [4]float32
	ClearDepthVal float64
	DepthEnabled  bool
	DepthFunc     gpu.DepthFunc

	CurrentProgram gpu.Handle
	CurrentArray   gpu.Handle
	CurrentBuffer  gpu.Handle

	nextHandle gpu.Handle
	shaders    map[gpu.Handle]*shader
	programs   map[gpu.Handle]*program
	arrays     map[gpu.Handle]*vertexArray
	buffers    map[gpu.Handle]bool
}

var _ gpu.Device = &Device{}

// NewDevice returns an empty fake device. The first allocated handle is 1.
func NewDevice() *Device {
	return &Device{
		Uploads:       make(map[gpu.Handle][]float32),
		ClearDepthVal: 1,
		nextHandle:    1,
		shaders:       make(map[gpu.Handle]*shader),
		programs:      make(map[gpu.Handle]*program),
		arrays:        make(map[gpu.Handle]*vertexArray),
		buffers:       make(map[gpu.Handle]bool),
	}
}

func (d *Device) record(name string, args ...any) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	d.Calls = append(d.Calls, name+"("+strings.Join(parts, ", ")+")")
}

func (d *Device) alloc() gpu.Handle {
	h := d.nextHandle
	d.nextHandle++
	return h
}

// CallsNamed returns the recorded calls whose name matches.
func (d *Device) CallsNamed(name string) []string {
	var out []string
	for _, c := range d.Calls {
		if strings.HasPrefix(c, name+"(") {
			out = append(out, c)
		}
	}
	return out
}

// LiveObjects returns the number of shaders, programs, vertex arrays and buffers that
// have not been deleted.
func (d *Device) LiveObjects() int {
	return len(d.shaders) + len(d.programs) + len(d.arrays) + len(d.buffers)
}

// IsVertexArray reports whether vao names a live vertex array.
func (d *Device) IsVertexArray(vao gpu.Handle) bool {
	_, ok := d.arrays[vao]
	return ok
}

// IsBuffer reports whether buffer names a live buffer.
func (d *Device) IsBuffer(buffer gpu.Handle) bool {
	return d.buffers[buffer]
}

// AttribState returns a copy of the attribute slot of a vertex array.
func (d *Device) AttribState(vao gpu.Handle, index uint32) (Attrib, bool) {
	va, ok := d.arrays[vao]
	if !ok {
		return Attrib{}, false
	}
	a, ok := va.attribs[index]
	if !ok {
		return Attrib{}, false
	}
	return *a, true
}

// ShaderFlagged reports whether a live shader has been flagged for deletion.
func (d *Device) ShaderFlagged(sh gpu.Handle) bool {
	s, ok := d.shaders[sh]
	return ok && s.flagged
}

func (d *Device) Backend() gpu.BackendType {
	return gpu.BackendTypeGL
}

func (d *Device) CreateShader(stage gpu.StageType) gpu.Handle {
	if stage != gpu.StageVertex && stage != gpu.StageFragment {
		d.record("CreateShader", stage)
		return 0
	}
	h := d.alloc()
	d.shaders[h] = &shader{stage: stage}
	d.record("CreateShader", stage)
	return h
}

func (d *Device) ShaderSource(sh gpu.Handle, source string) {
	d.record("ShaderSource", sh)
	if s, ok := d.shaders[sh]; ok {
		s.source = source
	}
}

func (d *Device) CompileShader(sh gpu.Handle) {
	d.record("CompileShader", sh)
	s, ok := d.shaders[sh]
	if !ok {
		return
	}
	d.CompileCount++
	if diag := Compile(s.source); diag != "" {
		s.compiled = false
		s.infoLog = diag
		return
	}
	s.compiled = true
	s.infoLog = d.CompileWarning
}

func (d *Device) ShaderCompileStatus(sh gpu.Handle) bool {
	s, ok := d.shaders[sh]
	return ok && s.compiled
}

func (d *Device) ShaderInfoLog(sh gpu.Handle) string {
	if s, ok := d.shaders[sh]; ok {
		return s.infoLog
	}
	return ""
}

func (d *Device) DeleteShader(sh gpu.Handle) {
	d.record("DeleteShader", sh)
	s, ok := d.shaders[sh]
	if !ok {
		return
	}
	s.flagged = true
	if s.attached == 0 {
		delete(d.shaders, sh)
	}
}

func (d *Device) IsShader(sh gpu.Handle) bool {
	_, ok := d.shaders[sh]
	return ok
}

func (d *Device) CreateProgram() gpu.Handle {
	h := d.alloc()
	d.programs[h] = &program{}
	d.record("CreateProgram")
	return h
}

func (d *Device) AttachShader(prog, sh gpu.Handle) {
	d.record("AttachShader", prog, sh)
	p, ok := d.programs[prog]
	if !ok {
		return
	}
	s, ok := d.shaders[sh]
	if !ok {
		return
	}
	for _, h := range p.shaders {
		if h == sh {
			return
		}
	}
	p.shaders = append(p.shaders, sh)
	s.attached++
}

func (d *Device) DetachShader(prog, sh gpu.Handle) {
	d.record("DetachShader", prog, sh)
	d.detach(prog, sh)
}

func (d *Device) detach(prog, sh gpu.Handle) {
	p, ok := d.programs[prog]
	if !ok {
		return
	}
	for i, h := range p.shaders {
		if h != sh {
			continue
		}
		p.shaders = append(p.shaders[:i], p.shaders[i+1:]...)
		if s, ok := d.shaders[sh]; ok {
			s.attached--
			if s.flagged && s.attached == 0 {
				delete(d.shaders, sh)
			}
		}
		return
	}
}

func (d *Device) LinkProgram(prog gpu.Handle) {
	d.record("LinkProgram", prog)
	p, ok := d.programs[prog]
	if !ok {
		return
	}
	d.LinkCount++
	p.linked = false
	p.infoLog = ""

	if d.FailLink {
		p.infoLog = d.LinkLog
		if p.infoLog == "" {
			p.infoLog = "error: link failed"
		}
		return
	}

	stages := map[gpu.StageType]int{}
	for _, h := range p.shaders {
		s := d.shaders[h]
		if !s.compiled {
			p.infoLog = fmt.Sprintf("error: %s shader %d is not compiled", s.stage, h)
			return
		}
		stages[s.stage]++
	}
	if stages[gpu.StageVertex] != 1 || stages[gpu.StageFragment] != 1 {
		p.infoLog = "error: program needs exactly one vertex and one fragment shader"
		return
	}
	p.linked = true
	p.infoLog = d.LinkLog
}

func (d *Device) ProgramLinkStatus(prog gpu.Handle) bool {
	p, ok := d.programs[prog]
	return ok && p.linked
}

func (d *Device) ProgramInfoLog(prog gpu.Handle) string {
	if p, ok := d.programs[prog]; ok {
		return p.infoLog
	}
	return ""
}

func (d *Device) UseProgram(prog gpu.Handle) {
	d.record("UseProgram", prog)
	if prog != 0 {
		if _, ok := d.programs[prog]; !ok {
			return
		}
	}
	d.CurrentProgram = prog
}

func (d *Device) DeleteProgram(prog gpu.Handle) {
	d.record("DeleteProgram", prog)
	p, ok := d.programs[prog]
	if !ok {
		return
	}
	for len(p.shaders) > 0 {
		d.detach(prog, p.shaders[0])
	}
	delete(d.programs, prog)
	if d.CurrentProgram == prog {
		d.CurrentProgram = 0
	}
}

func (d *Device) IsProgram(prog gpu.Handle) bool {
	_, ok := d.programs[prog]
	return ok
}

func (d *Device) GenVertexArray() gpu.Handle {
	h := d.alloc()
	d.arrays[h] = &vertexArray{attribs: make(map[uint32]*Attrib)}
	d.record("GenVertexArray")
	return h
}

func (d *Device) BindVertexArray(vao gpu.Handle) {
	d.record("BindVertexArray", vao)
	if vao != 0 && !d.IsVertexArray(vao) {
		return
	}
	d.CurrentArray = vao
}

func (d *Device) DeleteVertexArray(vao gpu.Handle) {
	d.record("DeleteVertexArray", vao)
	if !d.IsVertexArray(vao) {
		return
	}
	delete(d.arrays, vao)
	if d.CurrentArray == vao {
		d.CurrentArray = 0
	}
}

func (d *Device) GenBuffer() gpu.Handle {
	h := d.alloc()
	d.buffers[h] = true
	d.record("GenBuffer")
	return h
}

func (d *Device) BindArrayBuffer(buffer gpu.Handle) {
	d.record("BindArrayBuffer", buffer)
	if buffer != 0 && !d.buffers[buffer] {
		return
	}
	d.CurrentBuffer = buffer
}

func (d *Device) ArrayBufferStaticData(data []float32) {
	d.record("ArrayBufferStaticData", len(data))
	if !d.buffers[d.CurrentBuffer] {
		return
	}
	d.Uploads[d.CurrentBuffer] = append([]float32(nil), data...)
}

func (d *Device) DeleteBuffer(buffer gpu.Handle) {
	d.record("DeleteBuffer", buffer)
	if !d.buffers[buffer] {
		return
	}
	delete(d.buffers, buffer)
	if d.CurrentBuffer == buffer {
		d.CurrentBuffer = 0
	}
}

func (d *Device) attrib(index uint32) *Attrib {
	va, ok := d.arrays[d.CurrentArray]
	if !ok {
		return nil
	}
	a, ok := va.attribs[index]
	if !ok {
		a = &Attrib{Size: 4}
		va.attribs[index] = a
	}
	return a
}

func (d *Device) EnableVertexAttribArray(index uint32) {
	d.record("EnableVertexAttribArray", index)
	if a := d.attrib(index); a != nil {
		a.Enabled = true
	}
}

func (d *Device) DisableVertexAttribArray(index uint32) {
	d.record("DisableVertexAttribArray", index)
	if a := d.attrib(index); a != nil {
		a.Enabled = false
	}
}

func (d *Device) VertexAttribPointer(index uint32, size int32, normalized bool, stride int32, offset uintptr) {
	d.record("VertexAttribPointer", index, size, normalized, stride, offset)
	a := d.attrib(index)
	if a == nil {
		return
	}
	a.Buffer = d.CurrentBuffer
	a.Size = size
	a.Normalized = normalized
	a.Stride = stride
	a.Offset = offset
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.record("Viewport", x, y, width, height)
	d.ViewportRect = [4]int32{x, y, width, height}
}

func (d *Device) SetClearColor(r, g, b, a float32) {
	d.record("SetClearColor", r, g, b, a)
	d.ClearColorRGB = [4]float32{r, g, b, a}
}

func (d *Device) SetClearDepth(depth float64) {
	d.record("SetClearDepth", depth)
	d.ClearDepthVal = depth
}

func (d *Device) SetDepthTest(enabled bool, fn gpu.DepthFunc) {
	d.record("SetDepthTest", enabled, fn)
	d.DepthEnabled = enabled
	d.DepthFunc = fn
}

func (d *Device) Clear(mask gpu.ClearMask) {
	d.record("Clear", mask)
	d.Clears = append(d.Clears, mask)
}

func (d *Device) DrawTriangles(first, count int32) {
	d.record("DrawTriangles", first, count)
	d.Draws = append(d.Draws, Draw{
		First:   first,
		Count:   count,
		Program: d.CurrentProgram,
		Array:   d.CurrentArray,
	})
}

func (d *Device) Present() {
	d.record("Present")
	d.Presents++
}

func (d *Device) Release() {
	d.record("Release")
	d.ReleaseCount++
}
