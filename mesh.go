package hertra

import (
	"encoding/binary"
	"math"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// Vertex is one interleaved vertex record.
type Vertex struct {
	Pos    [3]float32
	Color  [3]float32
	Normal [3]float32
}

const vertexStride = uint32(unsafe.Sizeof(Vertex{}))

func VertexBindingDescription() vk.VertexInputBindingDescription {
	return vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    vertexStride,
		InputRate: vk.VertexInputRateVertex,
	}
}

func VertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{Binding: 0, Location: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(unsafe.Offsetof(Vertex{}.Pos))},
		{Binding: 0, Location: 1, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(unsafe.Offsetof(Vertex{}.Color))},
		{Binding: 0, Location: 2, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(unsafe.Offsetof(Vertex{}.Normal))},
	}
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

var grey = [3]float32{0.5, 0.5, 0.5}

// CubeMesh returns a unit cube centred on the origin with one flat-shaded
// quad per face.
func CubeMesh() Mesh {
	return Mesh{
		Vertices: []Vertex{
			// front, +Z
			{[3]float32{-0.5, -0.5, 0.5}, grey, [3]float32{0, 0, 1}},
			{[3]float32{0.5, -0.5, 0.5}, grey, [3]float32{0, 0, 1}},
			{[3]float32{0.5, 0.5, 0.5}, grey, [3]float32{0, 0, 1}},
			{[3]float32{-0.5, 0.5, 0.5}, grey, [3]float32{0, 0, 1}},
			// back, -Z
			{[3]float32{0.5, -0.5, -0.5}, grey, [3]float32{0, 0, -1}},
			{[3]float32{-0.5, -0.5, -0.5}, grey, [3]float32{0, 0, -1}},
			{[3]float32{-0.5, 0.5, -0.5}, grey, [3]float32{0, 0, -1}},
			{[3]float32{0.5, 0.5, -0.5}, grey, [3]float32{0, 0, -1}},
			// top, +Y
			{[3]float32{-0.5, 0.5, 0.5}, grey, [3]float32{0, 1, 0}},
			{[3]float32{0.5, 0.5, 0.5}, grey, [3]float32{0, 1, 0}},
			{[3]float32{0.5, 0.5, -0.5}, grey, [3]float32{0, 1, 0}},
			{[3]float32{-0.5, 0.5, -0.5}, grey, [3]float32{0, 1, 0}},
			// bottom, -Y
			{[3]float32{-0.5, -0.5, -0.5}, grey, [3]float32{0, -1, 0}},
			{[3]float32{0.5, -0.5, -0.5}, grey, [3]float32{0, -1, 0}},
			{[3]float32{0.5, -0.5, 0.5}, grey, [3]float32{0, -1, 0}},
			{[3]float32{-0.5, -0.5, 0.5}, grey, [3]float32{0, -1, 0}},
			// right, +X
			{[3]float32{0.5, -0.5, 0.5}, grey, [3]float32{1, 0, 0}},
			{[3]float32{0.5, 0.5, 0.5}, grey, [3]float32{1, 0, 0}},
			{[3]float32{0.5, 0.5, -0.5}, grey, [3]float32{1, 0, 0}},
			{[3]float32{0.5, -0.5, -0.5}, grey, [3]float32{1, 0, 0}},
			// left, -X
			{[3]float32{-0.5, -0.5, -0.5}, grey, [3]float32{-1, 0, 0}},
			{[3]float32{-0.5, 0.5, -0.5}, grey, [3]float32{-1, 0, 0}},
			{[3]float32{-0.5, 0.5, 0.5}, grey, [3]float32{-1, 0, 0}},
			{[3]float32{-0.5, -0.5, 0.5}, grey, [3]float32{-1, 0, 0}},
		},
		// The right and left faces wind differently from the other four.
		// Keep them as they are; the rendered cube depends on it.
		Indices: []uint32{
			0, 1, 2, 2, 3, 0,
			4, 5, 6, 6, 7, 4,
			8, 9, 10, 10, 11, 8,
			12, 13, 14, 14, 15, 12,
			17, 16, 18, 18, 16, 19,
			21, 20, 22, 22, 20, 23,
		},
	}
}

// VertexBytes serializes the vertices in the layout the pipeline's
// vertex input expects.
func (m Mesh) VertexBytes() []byte {
	out := make([]byte, 0, len(m.Vertices)*int(vertexStride))
	for _, v := range m.Vertices {
		for _, f := range [][3]float32{v.Pos, v.Color, v.Normal} {
			for _, c := range f {
				out = binary.LittleEndian.AppendUint32(out, math.Float32bits(c))
			}
		}
	}
	return out
}

func (m Mesh) IndexBytes() []byte {
	out := make([]byte, 0, len(m.Indices)*4)
	for _, idx := range m.Indices {
		out = binary.LittleEndian.AppendUint32(out, idx)
	}
	return out
}

// MeshBuffers holds a mesh uploaded into device-local memory.
type MeshBuffers struct {
	vertices   *CoreBuffer
	indices    *CoreBuffer
	indexCount uint32
}

func NewMeshBuffers(device *CoreDevice, pool *CorePool, mesh Mesh) (*MeshBuffers, error) {
	vertices, err := NewDeviceLocalBuffer(device, pool, vk.BufferUsageVertexBufferBit, mesh.VertexBytes())
	if err != nil {
		return nil, setupError("vertex buffer", err)
	}
	indices, err := NewDeviceLocalBuffer(device, pool, vk.BufferUsageIndexBufferBit, mesh.IndexBytes())
	if err != nil {
		vertices.Destroy()
		return nil, setupError("index buffer", err)
	}
	return &MeshBuffers{
		vertices:   vertices,
		indices:    indices,
		indexCount: uint32(len(mesh.Indices)),
	}, nil
}

func (m *MeshBuffers) IndexCount() uint32 { return m.indexCount }

// Destroy releases the index buffer, then the vertex buffer.
func (m *MeshBuffers) Destroy() {
	m.indices.Destroy()
	m.vertices.Destroy()
}
