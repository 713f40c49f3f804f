package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/hellogl/engine/gpu"
)

// positionAttribute is the vertex attribute slot the shaders read positions from.
const positionAttribute = 0

// meshBuffer is the implementation of the MeshBuffer interface.
type meshBuffer struct {
	device      gpu.Device
	vao         gpu.Handle
	buffer      gpu.Handle
	vertexCount int32
}

// MeshBuffer is an uploaded position-only triangle list: one static vertex buffer plus the
// vertex array that feeds it to attribute 0 as tightly packed float3 values.
type MeshBuffer interface {
	// VertexArray returns the vertex array object, zero after Release.
	VertexArray() gpu.Handle

	// Buffer returns the vertex buffer object, zero after Release.
	Buffer() gpu.Handle

	// VertexCount returns the number of vertices to draw: three per triangle.
	//
	// Returns:
	//   - int32: the draw count
	VertexCount() int32

	// Bind makes the vertex array current.
	Bind()

	// Release disables the attribute and deletes the buffer and then the vertex array,
	// unbinding each first. Calling it again is a no-op.
	Release()
}

var _ MeshBuffer = &meshBuffer{}

// UploadMesh uploads a flattened triangle list once as static data and binds a vertex array
// that reads every three consecutive floats as one position on attribute 0 (no stride
// padding, no offset, no normalization). The vertex array is left bound.
//
// Parameters:
//   - device: the graphics context
//   - vertices: the flat positions, nine floats per triangle
//
// Returns:
//   - MeshBuffer: the uploaded mesh
//   - error: error if the data is not a whole number of triangles
func UploadMesh(device gpu.Device, vertices []float32) (MeshBuffer, error) {
	if len(vertices)%9 != 0 {
		return nil, fmt.Errorf("vertex data has %d floats, want a multiple of 9", len(vertices))
	}

	m := &meshBuffer{
		device:      device,
		vertexCount: int32(len(vertices) / 3),
	}

	m.vao = device.GenVertexArray()
	device.BindVertexArray(m.vao)
	device.EnableVertexAttribArray(positionAttribute)

	m.buffer = device.GenBuffer()
	device.BindArrayBuffer(m.buffer)
	device.ArrayBufferStaticData(vertices)
	device.VertexAttribPointer(positionAttribute, 3, false, 0, 0)

	return m, nil
}

func (m *meshBuffer) VertexArray() gpu.Handle {
	return m.vao
}

func (m *meshBuffer) Buffer() gpu.Handle {
	return m.buffer
}

func (m *meshBuffer) VertexCount() int32 {
	return m.vertexCount
}

func (m *meshBuffer) Bind() {
	if m.vao == 0 {
		return
	}
	m.device.BindVertexArray(m.vao)
}

func (m *meshBuffer) Release() {
	if m.vao == 0 && m.buffer == 0 {
		return
	}
	if m.vao != 0 {
		m.device.BindVertexArray(m.vao)
		m.device.DisableVertexAttribArray(positionAttribute)
	}
	if m.buffer != 0 {
		m.device.BindArrayBuffer(0)
		m.device.DeleteBuffer(m.buffer)
		m.buffer = 0
	}
	if m.vao != 0 {
		m.device.BindVertexArray(0)
		m.device.DeleteVertexArray(m.vao)
		m.vao = 0
	}
}
