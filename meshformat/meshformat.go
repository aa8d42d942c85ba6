// Package meshformat describes the vertex and render-target layouts a
// pipeline is built against: the ordered vertex attributes a mesh supplies,
// how indices and primitives are interpreted, and the ordered color/depth
// attachments the fragment stage writes to.
package meshformat

import (
	"github.com/Carmen-Shannon/gfx-core/typesystem"
	"github.com/cogentcore/webgpu/wgpu"
)

// IndexFormat mirrors wgpu.IndexFormat for mesh index buffers.
type IndexFormat = wgpu.IndexFormat

// PrimitiveTopology mirrors wgpu.PrimitiveTopology for how vertices combine
// into primitives.
type PrimitiveTopology = wgpu.PrimitiveTopology

// WindingOrder mirrors wgpu.FrontFace, naming which vertex winding a
// triangle's front face uses.
type WindingOrder = wgpu.FrontFace

// VertexAttribute is one named input a mesh supplies per vertex, at a given
// shader-location-independent slot (the generator assigns @location indices
// from declaration order once it resolves which attributes are referenced).
type VertexAttribute struct {
	Name string
	Type typesystem.NumType
}

// MeshFormat is the ordered shape of one mesh's vertex data: its primitive
// assembly rule, triangle winding convention, index format, and the vertex
// attributes supplied per vertex in buffer order.
type MeshFormat struct {
	Topology    PrimitiveTopology
	WindingOrder WindingOrder
	IndexFormat IndexFormat
	Attributes  []VertexAttribute
}

// NewMeshFormat builds a MeshFormat with the given attributes in buffer
// order.
func NewMeshFormat(topology PrimitiveTopology, winding WindingOrder, indexFormat IndexFormat, attrs ...VertexAttribute) MeshFormat {
	return MeshFormat{Topology: topology, WindingOrder: winding, IndexFormat: indexFormat, Attributes: attrs}
}

// AttributeType returns the declared type of a named vertex attribute and
// whether it exists.
func (m MeshFormat) AttributeType(name string) (typesystem.NumType, bool) {
	for _, a := range m.Attributes {
		if a.Name == name {
			return a.Type, true
		}
	}
	return typesystem.NumType{}, false
}

// RenderTargetEntry is one named, ordered color or depth attachment a
// pipeline's fragment stage writes to.
type RenderTargetEntry struct {
	Name   string
	Format PixelFormat
}

// RenderTargetLayout is the ordered set of attachments a pipeline targets:
// zero or more color attachments plus an optional depth attachment.
type RenderTargetLayout struct {
	Entries    []RenderTargetEntry
	DepthIndex *int
}

// NewRenderTargetLayout builds a layout from ordered color entries plus an
// optional named depth entry, appended last with DepthIndex recorded.
func NewRenderTargetLayout(colorEntries []RenderTargetEntry, depth *RenderTargetEntry) RenderTargetLayout {
	entries := append([]RenderTargetEntry(nil), colorEntries...)
	var depthIndex *int
	if depth != nil {
		idx := len(entries)
		entries = append(entries, *depth)
		depthIndex = &idx
	}
	return RenderTargetLayout{Entries: entries, DepthIndex: depthIndex}
}

// ColorEntries returns every attachment that is not the depth attachment.
func (l RenderTargetLayout) ColorEntries() []RenderTargetEntry {
	out := make([]RenderTargetEntry, 0, len(l.Entries))
	for i, e := range l.Entries {
		if l.DepthIndex != nil && i == *l.DepthIndex {
			continue
		}
		out = append(out, e)
	}
	return out
}

// PixelFormat mirrors wgpu.TextureFormat for render target attachments.
type PixelFormat = wgpu.TextureFormat

// OutputNumType returns the NumType a fragment shader must produce to write
// to a given pixel format: a single float for the listed depth formats,
// vec4<u32> or vec4<i32> for the listed Uint or Sint formats, and vec4<f32>
// for every other format. It reports no error; a format not listed here is
// treated as a float color format.
func OutputNumType(format PixelFormat) typesystem.NumType {
	switch format {
	case wgpu.TextureFormatDepth32Float, wgpu.TextureFormatDepth24Plus, wgpu.TextureFormatDepth24PlusStencil8:
		return typesystem.Float.Num
	case wgpu.TextureFormatRGBA32Uint, wgpu.TextureFormatRGBA16Uint, wgpu.TextureFormatR32Uint:
		return typesystem.NumType{BaseType: typesystem.U32, Components: 4, MatrixDim: 1}
	case wgpu.TextureFormatRGBA32Sint, wgpu.TextureFormatRGBA16Sint, wgpu.TextureFormatR32Sint:
		return typesystem.NumType{BaseType: typesystem.I32, Components: 4, MatrixDim: 1}
	default:
		return typesystem.Float4.Num
	}
}
